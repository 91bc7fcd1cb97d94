package training

import (
	"fmt"

	"github.com/sjwhitworth/golearn/base"
	"github.com/sjwhitworth/golearn/ensemble"
	"github.com/sjwhitworth/golearn/evaluation"

	"github.com/YuminosukeSato/liftclass/core/model"
	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// ForestClassifier wraps golearn's random forest behind the estimator
// lifecycle used across the pipeline.
type ForestClassifier struct {
	model.BaseEstimator

	Trees           int
	FeaturesPerTree int

	forest *ensemble.RandomForest
}

// NewForestClassifier builds an unfit classifier with the given forest
// size and per-tree feature count.
func NewForestClassifier(trees, featuresPerTree int) *ForestClassifier {
	return &ForestClassifier{Trees: trees, FeaturesPerTree: featuresPerTree}
}

// Fit grows the forest on a labeled instance grid.
func (fc *ForestClassifier) Fit(train base.FixedDataGrid) error {
	if fc.Trees <= 0 {
		return errors.NewValidationError("Trees", "must be positive", fc.Trees)
	}
	if fc.FeaturesPerTree <= 0 {
		return errors.NewValidationError("FeaturesPerTree", "must be positive", fc.FeaturesPerTree)
	}

	fc.forest = ensemble.NewRandomForest(fc.Trees, fc.FeaturesPerTree)
	if err := fc.forest.Fit(train); err != nil {
		return errors.Wrap(err, "fitting random forest")
	}
	fc.SetFitted()
	return nil
}

// Predict classifies every row of X and returns the predicted labels
// in row order.
func (fc *ForestClassifier) Predict(X base.FixedDataGrid) ([]string, error) {
	grid, err := fc.predictGrid(X)
	if err != nil {
		return nil, err
	}
	_, rows := grid.Size()
	labels := make([]string, rows)
	for i := 0; i < rows; i++ {
		labels[i] = base.GetClass(grid, i)
	}
	return labels, nil
}

// Score returns the classifier's accuracy on a labeled instance grid.
func (fc *ForestClassifier) Score(X base.FixedDataGrid) (float64, error) {
	grid, err := fc.predictGrid(X)
	if err != nil {
		return 0, err
	}
	cm, err := evaluation.GetConfusionMatrix(X, grid)
	if err != nil {
		return 0, errors.Wrap(err, "scoring predictions")
	}
	return evaluation.GetAccuracy(cm), nil
}

func (fc *ForestClassifier) predictGrid(X base.FixedDataGrid) (base.FixedDataGrid, error) {
	if err := fc.RequireFitted("ForestClassifier", "Predict"); err != nil {
		return nil, err
	}
	grid, err := fc.forest.Predict(X)
	if err != nil {
		return nil, errors.Wrap(err, "predicting with random forest")
	}
	return grid, nil
}

func (fc *ForestClassifier) String() string {
	return fmt.Sprintf("RandomForest(trees=%d, features_per_tree=%d)", fc.Trees, fc.FeaturesPerTree)
}
