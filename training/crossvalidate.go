package training

import (
	"github.com/go-gota/gota/dataframe"
	"gonum.org/v1/gonum/stat"

	"github.com/YuminosukeSato/liftclass/core/parallel"
	"github.com/YuminosukeSato/liftclass/partition"
	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// CVResult holds per-fold scores for one tuning candidate.
type CVResult struct {
	FeaturesPerTree int
	TrainScores     []float64
	TestScores      []float64
}

// MeanScore is the mean held-out accuracy across folds.
func (r *CVResult) MeanScore() float64 {
	if len(r.TestScores) == 0 {
		return 0
	}
	return stat.Mean(r.TestScores, nil)
}

// StdScore is the standard deviation of the held-out accuracy.
func (r *CVResult) StdScore() float64 {
	if len(r.TestScores) < 2 {
		return 0
	}
	return stat.StdDev(r.TestScores, nil)
}

// CrossValidate fits one forest per fold and scores it on the fold's
// held-out rows. Folds run on a bounded worker pool; each fold only
// writes its own slice slots, so no further synchronisation is needed.
func CrossValidate(df dataframe.DataFrame, trees, featuresPerTree int, folds []partition.Fold, workers int) (*CVResult, error) {
	if len(folds) == 0 {
		return nil, errors.NewValidationError("folds", "at least one fold is required", len(folds))
	}

	result := &CVResult{
		FeaturesPerTree: featuresPerTree,
		TrainScores:     make([]float64, len(folds)),
		TestScores:      make([]float64, len(folds)),
	}
	foldErrs := make([]error, len(folds))

	// A single fold gains nothing from the pool.
	parallel.RunSequentialThreshold(len(folds), 1, workers, func(i int) {
		fold := folds[i]

		trainFrame := df.Subset(fold.TrainIndices)
		if trainFrame.Err != nil {
			foldErrs[i] = errors.Wrapf(trainFrame.Err, "fold %d: subsetting training rows", i)
			return
		}
		testFrame := df.Subset(fold.TestIndices)
		if testFrame.Err != nil {
			foldErrs[i] = errors.Wrapf(testFrame.Err, "fold %d: subsetting test rows", i)
			return
		}

		trainInst, err := InstancesFromFrame(trainFrame)
		if err != nil {
			foldErrs[i] = errors.Wrapf(err, "fold %d", i)
			return
		}
		// Parse against the fold's training instances so the class
		// attribute resolves even if the test rows cover the levels
		// in a different first-appearance order.
		testInst, err := InstancesFromFrameTemplate(testFrame, trainInst)
		if err != nil {
			foldErrs[i] = errors.Wrapf(err, "fold %d", i)
			return
		}

		clf := NewForestClassifier(trees, featuresPerTree)
		if err := clf.Fit(trainInst); err != nil {
			foldErrs[i] = errors.Wrapf(err, "fold %d", i)
			return
		}

		if result.TrainScores[i], err = clf.Score(trainInst); err != nil {
			foldErrs[i] = errors.Wrapf(err, "fold %d", i)
			return
		}
		if result.TestScores[i], err = clf.Score(testInst); err != nil {
			foldErrs[i] = errors.Wrapf(err, "fold %d", i)
		}
	})

	for _, err := range foldErrs {
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}
