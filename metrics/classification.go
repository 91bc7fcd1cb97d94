// Package metrics computes classification metrics over string-labeled
// predictions for the evaluation stage.
package metrics

import (
	"sort"

	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// Accuracy returns the fraction of predictions matching the reference
// labels.
func Accuracy(yTrue, yPred []string) (float64, error) {
	n := len(yTrue)
	if n == 0 {
		return 0, errors.NewValueError("Accuracy", "empty label slice")
	}
	if len(yPred) != n {
		return 0, errors.NewDimensionError("Accuracy", n, len(yPred), 0)
	}

	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(n), nil
}

// ConfusionMatrix cross-tabulates reference labels against predicted
// labels. Labels holds the union of both label sets in sorted order;
// Counts[i][j] is the number of rows whose true label is Labels[i] and
// predicted label is Labels[j].
type ConfusionMatrix struct {
	Labels []string
	Counts [][]int

	index map[string]int
	total int
}

// NewConfusionMatrix tabulates yTrue against yPred.
func NewConfusionMatrix(yTrue, yPred []string) (*ConfusionMatrix, error) {
	n := len(yTrue)
	if n == 0 {
		return nil, errors.NewValueError("ConfusionMatrix", "empty label slice")
	}
	if len(yPred) != n {
		return nil, errors.NewDimensionError("ConfusionMatrix", n, len(yPred), 0)
	}

	seen := make(map[string]bool)
	for i := range yTrue {
		seen[yTrue[i]] = true
		seen[yPred[i]] = true
	}
	labels := make([]string, 0, len(seen))
	for label := range seen {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	index := make(map[string]int, len(labels))
	for i, label := range labels {
		index[label] = i
	}

	counts := make([][]int, len(labels))
	for i := range counts {
		counts[i] = make([]int, len(labels))
	}
	for i := range yTrue {
		counts[index[yTrue[i]]][index[yPred[i]]]++
	}

	return &ConfusionMatrix{Labels: labels, Counts: counts, index: index, total: n}, nil
}

// At returns the count of rows with the given true and predicted labels.
// Unknown labels count zero.
func (cm *ConfusionMatrix) At(trueLabel, predLabel string) int {
	i, ok := cm.index[trueLabel]
	if !ok {
		return 0
	}
	j, ok := cm.index[predLabel]
	if !ok {
		return 0
	}
	return cm.Counts[i][j]
}

// Total returns the number of tabulated rows.
func (cm *ConfusionMatrix) Total() int {
	return cm.total
}

// Accuracy is the trace of the matrix over the total count.
func (cm *ConfusionMatrix) Accuracy() float64 {
	correct := 0
	for i := range cm.Counts {
		correct += cm.Counts[i][i]
	}
	return float64(correct) / float64(cm.total)
}

// Kappa returns Cohen's kappa, the agreement between reference and
// prediction corrected for chance. Degenerate distributions where
// chance agreement is total are ill-defined and yield zero with an
// UndefinedMetricWarning.
func (cm *ConfusionMatrix) Kappa() float64 {
	n := float64(cm.total)
	po := cm.Accuracy()

	var pe float64
	for i := range cm.Labels {
		rowSum, colSum := 0, 0
		for j := range cm.Labels {
			rowSum += cm.Counts[i][j]
			colSum += cm.Counts[j][i]
		}
		pe += float64(rowSum) * float64(colSum) / (n * n)
	}

	if pe == 1 {
		errors.Warn(errors.NewUndefinedMetricWarning("Kappa", "chance agreement equals 1", 0))
		return 0
	}
	return (po - pe) / (1 - pe)
}

// ClassMetrics holds one-vs-rest quality numbers for a single class.
type ClassMetrics struct {
	Precision float64
	Recall    float64
	F1        float64
	Support   int
}

// PerClass returns precision, recall and F1 for every label. Classes
// that were never predicted have undefined precision; classes with no
// reference rows have undefined recall. Both cases yield zero and emit
// an UndefinedMetricWarning, matching the usual scikit-learn
// convention.
func (cm *ConfusionMatrix) PerClass() map[string]ClassMetrics {
	out := make(map[string]ClassMetrics, len(cm.Labels))
	for i, label := range cm.Labels {
		tp := cm.Counts[i][i]
		predicted, actual := 0, 0
		for j := range cm.Labels {
			predicted += cm.Counts[j][i]
			actual += cm.Counts[i][j]
		}

		var precision, recall float64
		if predicted == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("Precision", "no predicted samples for class "+label, 0))
		} else {
			precision = float64(tp) / float64(predicted)
		}
		if actual == 0 {
			errors.Warn(errors.NewUndefinedMetricWarning("Recall", "no true samples for class "+label, 0))
		} else {
			recall = float64(tp) / float64(actual)
		}

		var f1 float64
		if precision+recall > 0 {
			f1 = 2 * precision * recall / (precision + recall)
		}

		out[label] = ClassMetrics{
			Precision: precision,
			Recall:    recall,
			F1:        f1,
			Support:   actual,
		}
	}
	return out
}
