// Package report renders the pipeline's results: model and
// cross-validation summaries, confusion matrices, and the final
// prediction listing.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/olekukonko/tablewriter"

	"github.com/YuminosukeSato/liftclass/metrics"
	"github.com/YuminosukeSato/liftclass/training"
)

// Writer renders result tables to a single output stream.
type Writer struct {
	out io.Writer
}

// NewWriter returns a report writer targeting out.
func NewWriter(out io.Writer) *Writer {
	return &Writer{out: out}
}

// ModelSummary prints the tuning outcome: one row per candidate with
// its cross-validated accuracy, and the selected setting marked.
func (w *Writer) ModelSummary(result *training.Result) {
	fmt.Fprintf(w.out, "\n%s\n", result.Model)
	fmt.Fprintf(w.out, "trained on %d rows, %d features\n\n", result.TrainingRows, result.FeatureCount)

	table := tablewriter.NewWriter(w.out)
	table.SetHeader([]string{"Features/Tree", "CV Accuracy", "Std", "Selected"})
	for _, c := range result.Candidates {
		selected := ""
		if c.FeaturesPerTree == result.BestFeaturesPerTree {
			selected = "*"
		}
		table.Append([]string{
			fmt.Sprintf("%d", c.FeaturesPerTree),
			fmt.Sprintf("%.4f", c.MeanScore()),
			fmt.Sprintf("%.4f", c.StdScore()),
			selected,
		})
	}
	table.Render()
}

// Accuracy prints a labeled accuracy line, e.g. for the in-sample and
// holdout scores.
func (w *Writer) Accuracy(name string, accuracy float64) {
	fmt.Fprintf(w.out, "\n%s accuracy: %.4f\n", name, accuracy)
}

// ConfusionMatrix prints the matrix with true classes as rows and
// predicted classes as columns, followed by kappa and the per-class
// breakdown.
func (w *Writer) ConfusionMatrix(name string, cm *metrics.ConfusionMatrix) {
	fmt.Fprintf(w.out, "\n%s confusion matrix (rows: reference, columns: prediction)\n", name)

	table := tablewriter.NewWriter(w.out)
	header := append([]string{""}, cm.Labels...)
	table.SetHeader(header)
	for i, label := range cm.Labels {
		row := make([]string, 0, len(cm.Labels)+1)
		row = append(row, label)
		for j := range cm.Labels {
			row = append(row, fmt.Sprintf("%d", cm.Counts[i][j]))
		}
		table.Append(row)
	}
	table.Render()

	fmt.Fprintf(w.out, "accuracy: %.4f  kappa: %.4f\n", cm.Accuracy(), cm.Kappa())

	perClass := cm.PerClass()
	classes := make([]string, 0, len(perClass))
	for class := range perClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)

	detail := tablewriter.NewWriter(w.out)
	detail.SetHeader([]string{"Class", "Precision", "Recall", "F1", "Support"})
	for _, class := range classes {
		m := perClass[class]
		detail.Append([]string{
			class,
			fmt.Sprintf("%.4f", m.Precision),
			fmt.Sprintf("%.4f", m.Recall),
			fmt.Sprintf("%.4f", m.F1),
			fmt.Sprintf("%d", m.Support),
		})
	}
	detail.Render()
}

// Predictions prints one line per prediction: the 1-based row index
// followed by the predicted label, in input order.
func (w *Writer) Predictions(labels []string) {
	fmt.Fprintln(w.out)
	for i, label := range labels {
		fmt.Fprintf(w.out, "%d %s\n", i+1, label)
	}
}
