package dataset

import (
	"strings"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

const rawTrainingCSV = `X,user_name,raw_timestamp_part_1,num_window,roll_belt,pitch_belt,kurtosis_roll_belt,max_yaw,classe
1,carlitos,1323084231,11,1.41,8.07,#DIV/0!,NA,A
2,carlitos,1323084231,11,1.41,8.06,NA,NA,A
3,eurico,1323084232,12,1.42,8.05,0.5,NA,B
4,eurico,1323084232,12,oops,8.04,NA,NA,B
5,pedro,1323084233,13,1.48,8.02,1.5,NA,C
`

const rawEvaluationCSV = `X,user_name,raw_timestamp_part_1,num_window,roll_belt,pitch_belt,kurtosis_roll_belt,max_yaw,problem_id
1,adelmo,1323084240,20,123.0,27.0,NA,NA,1
2,jeremy,1323084241,21,1.02,NA,#DIV/0!,NA,2
`

func frameFromCSV(t *testing.T, raw string) dataframe.DataFrame {
	t.Helper()
	df := dataframe.ReadCSV(strings.NewReader(raw),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	require.NoError(t, df.Err)
	return df
}

func TestCleanerFitLearnsColumns(t *testing.T) {
	c := NewCleaner()
	err := c.Fit(frameFromCSV(t, rawTrainingCSV))
	require.NoError(t, err)

	assert.Equal(t, []string{"roll_belt", "pitch_belt", "kurtosis_roll_belt"}, c.FeatureNames())
	assert.Contains(t, c.DroppedColumns(), "max_yaw", "all-missing column should be dropped")
	assert.Contains(t, c.DroppedColumns(), "user_name")
	assert.Contains(t, c.DroppedColumns(), "X")
	assert.NotContains(t, c.DroppedColumns(), "classe")
}

func TestCleanerTransformZeroFillsAndKeepsLabelLast(t *testing.T) {
	c := NewCleaner()
	out, report, err := c.FitTransform(frameFromCSV(t, rawTrainingCSV))
	require.NoError(t, err)

	names := out.Names()
	require.Equal(t, "classe", names[len(names)-1], "label must stay the final column")
	assert.Equal(t, 5, out.Nrow())
	assert.Equal(t, 3, report.Features)
	assert.Equal(t, 0, report.DroppedRows)

	// Row 4's roll_belt value "oops" fails coercion and becomes zero.
	rolls := out.Col("roll_belt").Float()
	assert.Equal(t, 0.0, rolls[3])
	assert.InDelta(t, 1.41, rolls[0], 1e-9)

	// kurtosis_roll_belt carried "#DIV/0!" and "NA" tokens.
	kurt := out.Col("kurtosis_roll_belt").Float()
	assert.Equal(t, 0.0, kurt[0])
	assert.Equal(t, 0.0, kurt[1])
	assert.InDelta(t, 0.5, kurt[2], 1e-9)

	assert.Equal(t, 4, report.CoercedCells)
}

func TestCleanerTransformUnlabeledFrame(t *testing.T) {
	c := NewCleaner()
	require.NoError(t, c.Fit(frameFromCSV(t, rawTrainingCSV)))

	out, report, err := c.Transform(frameFromCSV(t, rawEvaluationCSV))
	require.NoError(t, err)

	assert.Equal(t, c.FeatureNames(), out.Names(), "unlabeled output is feature-only")
	assert.Equal(t, 2, report.Rows)
	assert.Equal(t, 0, report.DroppedRows)
}

func TestCleanerTransformDropsUnlabeledRows(t *testing.T) {
	raw := strings.Replace(rawTrainingCSV, "1.48,8.02,1.5,NA,C", "1.48,8.02,1.5,NA,", 1)

	c := NewCleaner()
	out, report, err := c.FitTransform(frameFromCSV(t, raw))
	require.NoError(t, err)

	assert.Equal(t, 4, out.Nrow())
	assert.Equal(t, 1, report.DroppedRows)
	assert.NotContains(t, out.Col("classe").Records(), "")
}

func TestCleanerTransformMissingFeatureColumn(t *testing.T) {
	c := NewCleaner()
	require.NoError(t, c.Fit(frameFromCSV(t, rawTrainingCSV)))

	truncated := frameFromCSV(t, rawEvaluationCSV).Drop("pitch_belt")
	require.NoError(t, truncated.Err)

	_, _, err := c.Transform(truncated)
	require.Error(t, err)

	var schemaErr *errors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "pitch_belt", schemaErr.Column)
}

func TestCleanerTransformBeforeFit(t *testing.T) {
	c := NewCleaner()
	_, _, err := c.Transform(frameFromCSV(t, rawTrainingCSV))
	require.Error(t, err)

	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestCleanerEmitsConversionWarnings(t *testing.T) {
	var warned []error
	errors.SetWarningHandler(func(w error) { warned = append(warned, w) })
	defer errors.SetWarningHandler(nil)

	c := NewCleaner()
	_, _, err := c.FitTransform(frameFromCSV(t, rawTrainingCSV))
	require.NoError(t, err)

	require.NotEmpty(t, warned)
	var conv *errors.DataConversionWarning
	assert.True(t, errors.As(warned[0], &conv))
}
