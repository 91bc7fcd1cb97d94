// Package partition provides seeded, stratified train/test splitting
// and k-fold generation over string class labels.
//
// Both splitters preserve the class distribution of the input within
// each output part and are deterministic for a fixed seed: class keys
// are visited in sorted order before any shuffling so that map
// iteration never leaks into the result.
package partition

import (
	"math"
	"math/rand"
	"sort"

	"github.com/go-gota/gota/dataframe"

	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// Fold is one cross-validation fold: row indices to fit on and row
// indices to score on.
type Fold struct {
	TrainIndices []int
	TestIndices  []int
}

// StratifiedSplitter carves a labeled dataset into a training part and
// a holdout part while keeping per-class proportions.
type StratifiedSplitter struct {
	TrainFraction float64
	Seed          int64
}

// NewStratifiedSplitter returns a splitter assigning trainFraction of
// each class to the training part.
func NewStratifiedSplitter(trainFraction float64, seed int64) *StratifiedSplitter {
	return &StratifiedSplitter{TrainFraction: trainFraction, Seed: seed}
}

// SplitIndices partitions the row indices of labels into disjoint
// training and holdout sets. Both slices come back sorted so that
// downstream subsetting preserves the original row order.
func (s *StratifiedSplitter) SplitIndices(labels []string) (train, holdout []int, err error) {
	if len(labels) == 0 {
		return nil, nil, errors.Wrap(errors.ErrEmptyData, "stratified split")
	}
	if s.TrainFraction <= 0 || s.TrainFraction >= 1 {
		return nil, nil, errors.NewValidationError("TrainFraction", "must be in (0, 1)", s.TrainFraction)
	}

	byClass := groupByClass(labels)
	classes := sortedClasses(byClass)

	rng := rand.New(rand.NewSource(s.Seed))
	for _, class := range classes {
		idx := byClass[class]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		n := int(math.Round(s.TrainFraction * float64(len(idx))))
		// Keep at least one row on each side when the class allows it.
		if n == len(idx) && len(idx) > 1 {
			n--
		}
		if n == 0 && len(idx) > 1 {
			n = 1
		}
		train = append(train, idx[:n]...)
		holdout = append(holdout, idx[n:]...)
	}

	sort.Ints(train)
	sort.Ints(holdout)
	return train, holdout, nil
}

// Split applies SplitIndices to a frame carrying labelColumn and
// returns the two sub-frames.
func (s *StratifiedSplitter) Split(df dataframe.DataFrame, labelColumn string) (train, holdout dataframe.DataFrame, err error) {
	if !hasColumn(df, labelColumn) {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, errors.NewSchemaError("stratified split", labelColumn, "label column is absent")
	}

	trainIdx, holdoutIdx, err := s.SplitIndices(df.Col(labelColumn).Records())
	if err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, err
	}

	train = df.Subset(trainIdx)
	if train.Err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, errors.Wrap(train.Err, "subsetting training part")
	}
	holdout = df.Subset(holdoutIdx)
	if holdout.Err != nil {
		return dataframe.DataFrame{}, dataframe.DataFrame{}, errors.Wrap(holdout.Err, "subsetting holdout part")
	}
	return train, holdout, nil
}

// StratifiedKFold generates NSplits cross-validation folds whose test
// sets tile the dataset and mirror its class distribution.
type StratifiedKFold struct {
	NSplits int
	Seed    int64
}

// NewStratifiedKFold returns a k-fold generator. Fewer than two splits
// makes no sense, so the count is clamped to two.
func NewStratifiedKFold(nSplits int, seed int64) *StratifiedKFold {
	if nSplits < 2 {
		nSplits = 2
	}
	return &StratifiedKFold{NSplits: nSplits, Seed: seed}
}

// Split assigns every row index to exactly one test fold, spreading
// each class across folds as evenly as possible.
func (kf *StratifiedKFold) Split(labels []string) ([]Fold, error) {
	if len(labels) == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "stratified k-fold")
	}
	if kf.NSplits > len(labels) {
		return nil, errors.NewValidationError("NSplits", "exceeds the number of rows", kf.NSplits)
	}

	byClass := groupByClass(labels)
	classes := sortedClasses(byClass)

	rng := rand.New(rand.NewSource(kf.Seed))
	folds := make([]Fold, kf.NSplits)
	for _, class := range classes {
		idx := byClass[class]
		rng.Shuffle(len(idx), func(i, j int) { idx[i], idx[j] = idx[j], idx[i] })

		size := len(idx) / kf.NSplits
		rem := len(idx) % kf.NSplits
		cur := 0
		for i := range folds {
			n := size
			if i < rem {
				n++
			}
			folds[i].TestIndices = append(folds[i].TestIndices, idx[cur:cur+n]...)
			cur += n
		}
	}

	for i := range folds {
		sort.Ints(folds[i].TestIndices)
		inTest := make(map[int]bool, len(folds[i].TestIndices))
		for _, j := range folds[i].TestIndices {
			inTest[j] = true
		}
		folds[i].TrainIndices = make([]int, 0, len(labels)-len(folds[i].TestIndices))
		for j := range labels {
			if !inTest[j] {
				folds[i].TrainIndices = append(folds[i].TrainIndices, j)
			}
		}
	}
	return folds, nil
}

func groupByClass(labels []string) map[string][]int {
	byClass := make(map[string][]int)
	for i, label := range labels {
		byClass[label] = append(byClass[label], i)
	}
	return byClass
}

func sortedClasses(byClass map[string][]int) []string {
	classes := make([]string, 0, len(byClass))
	for class := range byClass {
		classes = append(classes, class)
	}
	sort.Strings(classes)
	return classes
}

func hasColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
