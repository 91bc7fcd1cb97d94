// Package training fits the random forest classifier, selecting its
// per-tree feature count by stratified cross-validation.
package training

import (
	"bytes"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/sjwhitworth/golearn/base"

	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// InstancesFromFrame converts a cleaned frame into golearn instances.
// The frame's final column becomes the class attribute, which is why
// the cleaner always keeps the label column last.
func InstancesFromFrame(df dataframe.DataFrame) (*base.DenseInstances, error) {
	r, err := frameCSV(df)
	if err != nil {
		return nil, err
	}
	inst, err := base.ParseCSVToInstancesFromReader(r, true)
	if err != nil {
		return nil, errors.Wrap(err, "parsing instances")
	}
	return inst, nil
}

// InstancesFromFrameTemplate converts a frame using template's
// attribute definitions. A frame parsed on its own only knows the
// class levels it happens to contain; parsing against the training
// instances keeps the full level set, which prediction needs to
// resolve the class attribute.
func InstancesFromFrameTemplate(df dataframe.DataFrame, template *base.DenseInstances) (*base.DenseInstances, error) {
	r, err := frameCSV(df)
	if err != nil {
		return nil, err
	}
	inst, err := base.ParseCSVToTemplatedInstancesFromReader(r, true, template)
	if err != nil {
		return nil, errors.Wrap(err, "parsing instances against template")
	}
	return inst, nil
}

func frameCSV(df dataframe.DataFrame) (*bytes.Reader, error) {
	if df.Err != nil {
		return nil, errors.WithStack(df.Err)
	}
	if df.Nrow() == 0 {
		return nil, errors.Wrap(errors.ErrEmptyData, "building instances")
	}
	var buf bytes.Buffer
	if err := df.WriteCSV(&buf); err != nil {
		return nil, errors.Wrap(err, "encoding frame")
	}
	return bytes.NewReader(buf.Bytes()), nil
}

// WithPlaceholderLabel appends a constant label column so that an
// unlabeled frame satisfies the class-attribute convention above. The
// placeholder must be a level the model has seen, and the resulting
// labels are only ever overwritten by Predict, never read as truth.
func WithPlaceholderLabel(df dataframe.DataFrame, labelColumn, level string) (dataframe.DataFrame, error) {
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.WithStack(df.Err)
	}
	levels := make([]string, df.Nrow())
	for i := range levels {
		levels[i] = level
	}
	out := df.Mutate(series.New(levels, series.String, labelColumn))
	if out.Err != nil {
		return dataframe.DataFrame{}, errors.Wrap(out.Err, "appending placeholder label")
	}
	return out, nil
}
