package report

import (
	"fmt"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/liftclass/pkg/errors"
	"github.com/YuminosukeSato/liftclass/training"
)

// SaveClassDistribution writes a bar chart of the label counts to
// dir/class_distribution.png and returns the file path.
func SaveClassDistribution(labels []string, dir string) (string, error) {
	if len(labels) == 0 {
		return "", errors.Wrap(errors.ErrEmptyData, "class distribution plot")
	}

	counts := make(map[string]float64)
	for _, label := range labels {
		counts[label]++
	}
	classes := make([]string, 0, len(counts))
	for class := range counts {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	values := make(plotter.Values, len(classes))
	for i, class := range classes {
		values[i] = counts[class]
	}

	p := plot.New()
	p.Title.Text = "Class distribution"
	p.Y.Label.Text = "rows"

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return "", errors.Wrap(err, "building class distribution chart")
	}
	p.Add(bars)
	p.NominalX(classes...)

	path := filepath.Join(dir, "class_distribution.png")
	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", errors.Wrapf(err, "saving %s", path)
	}
	return path, nil
}

// SaveFoldAccuracy writes a bar chart of the winning candidate's
// per-fold held-out accuracy to dir/fold_accuracy.png and returns the
// file path.
func SaveFoldAccuracy(result *training.CVResult, dir string) (string, error) {
	if len(result.TestScores) == 0 {
		return "", errors.Wrap(errors.ErrEmptyData, "fold accuracy plot")
	}

	values := make(plotter.Values, len(result.TestScores))
	folds := make([]string, len(result.TestScores))
	for i, score := range result.TestScores {
		values[i] = score
		folds[i] = fmt.Sprintf("fold %d", i+1)
	}

	p := plot.New()
	p.Title.Text = "Cross-validation accuracy"
	p.Y.Label.Text = "accuracy"
	p.Y.Max = 1

	bars, err := plotter.NewBarChart(values, vg.Points(30))
	if err != nil {
		return "", errors.Wrap(err, "building fold accuracy chart")
	}
	p.Add(bars)
	p.NominalX(folds...)

	path := filepath.Join(dir, "fold_accuracy.png")
	if err := p.Save(5*vg.Inch, 4*vg.Inch, path); err != nil {
		return "", errors.Wrapf(err, "saving %s", path)
	}
	return path, nil
}
