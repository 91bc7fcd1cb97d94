package dataset

import (
	"math"
	"sort"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/liftclass/core/model"
	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// MetaColumns are identifier and bookkeeping columns carried by the raw
// tables. They leak subject and session identity, so they are never
// allowed into the feature matrix.
var MetaColumns = []string{
	"X",
	"user_name",
	"raw_timestamp_part_1",
	"raw_timestamp_part_2",
	"cvtd_timestamp",
	"new_window",
	"num_window",
	"problem_id",
}

// CleanReport summarises one Transform pass.
type CleanReport struct {
	Rows         int
	Features     int
	DroppedMeta  []string
	DroppedEmpty []string
	CoercedCells int
	DroppedRows  int
}

// Cleaner learns which columns survive cleaning from a labeled frame
// and applies the same projection to any frame afterwards, so the
// training and evaluation tables end up with an identical feature
// schema. Raw cells that fail numeric parsing (empty fields, "NA",
// spreadsheet error tokens such as "#DIV/0!") become missing and are
// zero-filled on output.
type Cleaner struct {
	model.BaseEstimator

	LabelColumn string
	MetaColumns []string

	features     []string
	droppedMeta  []string
	droppedEmpty []string
}

// NewCleaner returns a Cleaner with the pipeline's column conventions.
func NewCleaner() *Cleaner {
	return &Cleaner{
		LabelColumn: LabelColumn,
		MetaColumns: MetaColumns,
	}
}

// Fit inspects a labeled frame and records the feature columns to keep:
// everything that is neither the label, nor metadata, nor entirely
// missing once coerced to numeric.
func (c *Cleaner) Fit(df dataframe.DataFrame) error {
	if df.Err != nil {
		return errors.WithStack(df.Err)
	}
	if df.Nrow() == 0 {
		return errors.Wrap(errors.ErrEmptyData, "cleaner fit")
	}
	if err := CheckSchema(df, "cleaner fit", true); err != nil {
		return err
	}

	meta := make(map[string]bool, len(c.MetaColumns))
	for _, name := range c.MetaColumns {
		meta[name] = true
	}

	c.features = nil
	c.droppedMeta = nil
	c.droppedEmpty = nil

	for _, name := range df.Names() {
		switch {
		case name == c.LabelColumn:
			continue
		case meta[name]:
			c.droppedMeta = append(c.droppedMeta, name)
			continue
		}

		allMissing := true
		for _, v := range df.Col(name).Float() {
			if !math.IsNaN(v) {
				allMissing = false
				break
			}
		}
		if allMissing {
			c.droppedEmpty = append(c.droppedEmpty, name)
			continue
		}
		c.features = append(c.features, name)
	}

	if len(c.features) == 0 {
		return errors.NewSchemaError("cleaner fit", "", "no usable feature columns remain")
	}

	c.SetFitted()
	return nil
}

// Transform projects a frame onto the learned feature set. Features are
// coerced to float64 with missing values zero-filled. If the frame
// carries the label column it is kept as the final output column and
// rows without a label value are dropped; unlabeled frames come back
// feature-only. Transform never mutates its input.
func (c *Cleaner) Transform(df dataframe.DataFrame) (dataframe.DataFrame, *CleanReport, error) {
	if err := c.RequireFitted("Cleaner", "Transform"); err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, nil, errors.WithStack(df.Err)
	}

	report := &CleanReport{
		DroppedMeta:  append([]string(nil), c.droppedMeta...),
		DroppedEmpty: append([]string(nil), c.droppedEmpty...),
	}

	present := make(map[string]bool, len(df.Names()))
	for _, name := range df.Names() {
		present[name] = true
	}

	if present[c.LabelColumn] {
		before := df.Nrow()
		df = df.Filter(dataframe.F{
			Colname:    c.LabelColumn,
			Comparator: series.Neq,
			Comparando: "",
		})
		if df.Err != nil {
			return dataframe.DataFrame{}, nil, errors.Wrap(df.Err, "dropping unlabeled rows")
		}
		report.DroppedRows = before - df.Nrow()
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, nil, errors.Wrap(errors.ErrEmptyData, "cleaner transform")
	}

	cols := make([]series.Series, 0, len(c.features)+1)
	for _, name := range c.features {
		if !present[name] {
			return dataframe.DataFrame{}, nil, errors.NewSchemaError("cleaner transform", name, "learned feature column is absent")
		}
		vals := df.Col(name).Float()
		coerced := 0
		for i, v := range vals {
			if math.IsNaN(v) || math.IsInf(v, 0) {
				vals[i] = 0
				coerced++
			}
		}
		if coerced > 0 {
			report.CoercedCells += coerced
			errors.Warn(errors.NewDataConversionWarning(name, "string", "float64", coerced))
		}
		cols = append(cols, series.New(vals, series.Float, name))
	}
	if present[c.LabelColumn] {
		cols = append(cols, series.New(df.Col(c.LabelColumn).Records(), series.String, c.LabelColumn))
	}

	out := dataframe.New(cols...)
	if out.Err != nil {
		return dataframe.DataFrame{}, nil, errors.Wrap(out.Err, "assembling cleaned frame")
	}

	report.Rows = out.Nrow()
	report.Features = len(c.features)
	return out, report, nil
}

// FitTransform fits on df and immediately transforms it.
func (c *Cleaner) FitTransform(df dataframe.DataFrame) (dataframe.DataFrame, *CleanReport, error) {
	if err := c.Fit(df); err != nil {
		return dataframe.DataFrame{}, nil, err
	}
	return c.Transform(df)
}

// FeatureNames returns the learned feature columns in output order.
func (c *Cleaner) FeatureNames() []string {
	return append([]string(nil), c.features...)
}

// DroppedColumns returns the columns removed at fit time, sorted.
func (c *Cleaner) DroppedColumns() []string {
	dropped := append([]string(nil), c.droppedMeta...)
	dropped = append(dropped, c.droppedEmpty...)
	sort.Strings(dropped)
	return dropped
}
