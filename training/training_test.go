package training

import (
	"math/rand"
	"testing"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/YuminosukeSato/liftclass/partition"
	"github.com/YuminosukeSato/liftclass/pkg/errors"
	"github.com/YuminosukeSato/liftclass/pkg/log"
)

// syntheticFrame builds a labeled frame with three well-separated
// clusters, one per class, in the cleaned-frame layout (label last).
func syntheticFrame(t *testing.T, perClass int) dataframe.DataFrame {
	t.Helper()
	rng := rand.New(rand.NewSource(1))

	classes := []string{"A", "B", "C"}
	centers := map[string]float64{"A": 0, "B": 10, "C": 20}

	n := perClass * len(classes)
	f1 := make([]float64, 0, n)
	f2 := make([]float64, 0, n)
	f3 := make([]float64, 0, n)
	labels := make([]string, 0, n)
	for _, class := range classes {
		c := centers[class]
		for i := 0; i < perClass; i++ {
			f1 = append(f1, c+rng.Float64())
			f2 = append(f2, c-rng.Float64())
			f3 = append(f3, c+2*rng.Float64()-1)
			labels = append(labels, class)
		}
	}

	df := dataframe.New(
		series.New(f1, series.Float, "roll_belt"),
		series.New(f2, series.Float, "pitch_belt"),
		series.New(f3, series.Float, "yaw_belt"),
		series.New(labels, series.String, "classe"),
	)
	require.NoError(t, df.Err)
	return df
}

func TestInstancesFromFrame(t *testing.T) {
	df := syntheticFrame(t, 10)
	inst, err := InstancesFromFrame(df)
	require.NoError(t, err)

	attrs, rows := inst.Size()
	assert.Equal(t, 30, rows)
	assert.Equal(t, 4, attrs)
	require.Len(t, inst.AllClassAttributes(), 1)
	assert.Equal(t, "classe", inst.AllClassAttributes()[0].GetName())
}

func TestInstancesFromFrameEmpty(t *testing.T) {
	_, err := InstancesFromFrame(dataframe.DataFrame{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrEmptyData))
}

func TestWithPlaceholderLabel(t *testing.T) {
	df := dataframe.New(
		series.New([]float64{1, 2}, series.Float, "roll_belt"),
		series.New([]float64{3, 4}, series.Float, "pitch_belt"),
	)
	require.NoError(t, df.Err)

	out, err := WithPlaceholderLabel(df, "classe", "A")
	require.NoError(t, err)

	names := out.Names()
	assert.Equal(t, "classe", names[len(names)-1])
	assert.Equal(t, []string{"A", "A"}, out.Col("classe").Records())
}

func TestForestClassifierFitPredict(t *testing.T) {
	df := syntheticFrame(t, 20)
	inst, err := InstancesFromFrame(df)
	require.NoError(t, err)

	clf := NewForestClassifier(10, 2)
	require.NoError(t, clf.Fit(inst))
	assert.True(t, clf.IsFitted())

	labels, err := clf.Predict(inst)
	require.NoError(t, err)
	require.Len(t, labels, 60)
	for i, label := range labels {
		assert.Contains(t, []string{"A", "B", "C"}, label, "row %d", i)
	}

	score, err := clf.Score(inst)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 1.0)
}

func TestPredictSeparatelyParsedFrame(t *testing.T) {
	df := syntheticFrame(t, 20)
	trainInst, err := InstancesFromFrame(df)
	require.NoError(t, err)

	clf := NewForestClassifier(10, 2)
	require.NoError(t, clf.Fit(trainInst))

	// Unlabeled rows arrive in their own frame. A placeholder label
	// gives them the training schema, and parsing against the training
	// instances keeps the full class level set even though the frame
	// itself carries only the placeholder level.
	eval := dataframe.New(
		series.New([]float64{0.5, 10.5, 20.5, 0.2}, series.Float, "roll_belt"),
		series.New([]float64{-0.5, 9.5, 19.5, -0.2}, series.Float, "pitch_belt"),
		series.New([]float64{0.1, 10.1, 20.1, 0.3}, series.Float, "yaw_belt"),
	)
	require.NoError(t, eval.Err)

	withLabel, err := WithPlaceholderLabel(eval, "classe", "A")
	require.NoError(t, err)
	inst, err := InstancesFromFrameTemplate(withLabel, trainInst)
	require.NoError(t, err)

	labels, err := clf.Predict(inst)
	require.NoError(t, err)

	// One label per input row, in input order: the rows sit inside the
	// A, B, C and A clusters respectively.
	assert.Equal(t, []string{"A", "B", "C", "A"}, labels)
}

func TestForestClassifierPredictBeforeFit(t *testing.T) {
	df := syntheticFrame(t, 5)
	inst, err := InstancesFromFrame(df)
	require.NoError(t, err)

	_, err = NewForestClassifier(10, 2).Predict(inst)
	require.Error(t, err)

	var notFitted *errors.NotFittedError
	assert.True(t, errors.As(err, &notFitted))
}

func TestForestClassifierFitValidation(t *testing.T) {
	df := syntheticFrame(t, 5)
	inst, err := InstancesFromFrame(df)
	require.NoError(t, err)

	assert.Error(t, NewForestClassifier(0, 2).Fit(inst))
	assert.Error(t, NewForestClassifier(10, 0).Fit(inst))
}

func TestCrossValidateScoresEveryFold(t *testing.T) {
	df := syntheticFrame(t, 20)
	labels := df.Col("classe").Records()

	folds, err := partition.NewStratifiedKFold(3, 12345).Split(labels)
	require.NoError(t, err)

	res, err := CrossValidate(df, 10, 2, folds, 2)
	require.NoError(t, err)

	require.Len(t, res.TestScores, 3)
	require.Len(t, res.TrainScores, 3)
	for i, score := range res.TestScores {
		assert.GreaterOrEqual(t, score, 0.0, "fold %d", i)
		assert.LessOrEqual(t, score, 1.0, "fold %d", i)
	}
	assert.GreaterOrEqual(t, res.MeanScore(), 0.0)
	assert.GreaterOrEqual(t, res.StdScore(), 0.0)
}

func TestTrainerSelectsACandidate(t *testing.T) {
	df := syntheticFrame(t, 20)

	provider := log.NewZerologProvider(log.LevelError)
	trainer := NewTrainer(Config{
		Trees:             10,
		FeatureCandidates: []int{1, 2},
		Folds:             3,
		Workers:           2,
		Seed:              12345,
	}, provider.GetLoggerWithName("trainer"))

	result, err := trainer.Train(df)
	require.NoError(t, err)

	assert.Contains(t, []int{1, 2}, result.BestFeaturesPerTree)
	require.Len(t, result.Candidates, 2)
	require.NotNil(t, result.Best())
	assert.Equal(t, result.BestFeaturesPerTree, result.Best().FeaturesPerTree)
	assert.Equal(t, 60, result.TrainingRows)
	assert.Equal(t, 3, result.FeatureCount)
	require.NotNil(t, result.Model)
	assert.True(t, result.Model.IsFitted())

	// The winner has the highest mean held-out accuracy.
	for _, c := range result.Candidates {
		assert.LessOrEqual(t, c.MeanScore(), result.Best().MeanScore())
	}
}

func TestTrainerMissingLabelColumn(t *testing.T) {
	df := dataframe.New(series.New([]float64{1, 2}, series.Float, "roll_belt"))
	require.NoError(t, df.Err)

	provider := log.NewZerologProvider(log.LevelError)
	_, err := NewTrainer(Config{}, provider.GetLogger()).Train(df)
	require.Error(t, err)

	var schemaErr *errors.SchemaError
	assert.True(t, errors.As(err, &schemaErr))
}

func TestDefaultFeatureCandidates(t *testing.T) {
	assert.Equal(t, []int{3, 7, 14}, DefaultFeatureCandidates(52))
	assert.Equal(t, []int{1, 2, 4}, DefaultFeatureCandidates(4))
	assert.Equal(t, []int{1}, DefaultFeatureCandidates(1))
	assert.Equal(t, []int{1}, DefaultFeatureCandidates(0))
}
