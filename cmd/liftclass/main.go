// Command liftclass runs the weight-lifting exercise classification
// pipeline end to end: fetch the sensor tables, clean them, tune a
// random forest with stratified cross-validation, report its quality,
// and print a predicted execution class for every evaluation row.
package main

import (
	"context"
	"os"

	"github.com/go-gota/gota/dataframe"
	"github.com/sjwhitworth/golearn/base"
	"github.com/spf13/cobra"

	"github.com/YuminosukeSato/liftclass/core/parallel"
	"github.com/YuminosukeSato/liftclass/dataset"
	"github.com/YuminosukeSato/liftclass/metrics"
	"github.com/YuminosukeSato/liftclass/partition"
	"github.com/YuminosukeSato/liftclass/pkg/errors"
	"github.com/YuminosukeSato/liftclass/pkg/log"
	"github.com/YuminosukeSato/liftclass/report"
	"github.com/YuminosukeSato/liftclass/training"
)

type options struct {
	dataDir       string
	plotDir       string
	logLevel      string
	trainFraction float64
	folds         int
	trees         int
	workers       int
	seed          int64
}

func main() {
	opts := options{}

	cmd := &cobra.Command{
		Use:   "liftclass",
		Short: "Classify weight-lifting exercise quality from body sensor data",
		Long: `liftclass downloads the weight-lifting exercise sensor tables,
cleans them into a numeric feature matrix, tunes a random forest with
stratified cross-validation, and prints quality metrics plus a
predicted execution class (A through E) for every evaluation row.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), opts)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.dataDir, "data-dir", "data", "directory for cached dataset downloads")
	flags.StringVar(&opts.plotDir, "plot-dir", "", "write diagnostic plots to this directory")
	flags.StringVar(&opts.logLevel, "log-level", "info", "log level (debug, info, warn, error)")
	flags.Float64Var(&opts.trainFraction, "train-fraction", 0.8, "fraction of labeled rows used for training")
	flags.IntVar(&opts.folds, "folds", 5, "number of cross-validation folds")
	flags.IntVar(&opts.trees, "trees", 100, "number of trees in the forest")
	flags.IntVar(&opts.workers, "workers", parallel.DefaultWorkers(), "parallel workers for cross-validation")
	flags.Int64Var(&opts.seed, "seed", training.DefaultSeed, "random seed for splitting and fitting")

	if err := cmd.Execute(); err != nil {
		provider := log.NewZerologProvider(log.LevelError)
		provider.GetLogger().Error("pipeline failed", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options) error {
	provider := log.NewZerologProvider(log.ToLevel(opts.logLevel))
	logger := provider.GetLoggerWithName("pipeline")

	// Route data warnings (coerced cells, undefined metrics) through
	// the structured logger instead of the stderr fallback.
	warnLogger := provider.GetLoggerWithName("warnings")
	errors.SetZerologWarnFunc(func(w error) {
		warnLogger.Warn(w.Error(), "warning", w)
	})

	trainFrame, holdoutFrame, evalFrame, err := prepare(ctx, opts, logger)
	if err != nil {
		return err
	}

	trainer := training.NewTrainer(training.Config{
		LabelColumn: dataset.LabelColumn,
		Trees:       opts.trees,
		Folds:       opts.folds,
		Workers:     opts.workers,
		Seed:        opts.seed,
	}, provider.GetLoggerWithName("trainer"))

	result, err := trainer.Train(trainFrame)
	if err != nil {
		return err
	}

	out := report.NewWriter(os.Stdout)
	out.ModelSummary(result)

	// Holdout and evaluation frames are parsed against the training
	// instances so their class attribute resolves with the full level
	// set the model was fitted on.
	trainInst, err := training.InstancesFromFrame(trainFrame)
	if err != nil {
		return err
	}

	if err := evaluate(out, logger, result, trainInst, trainFrame, holdoutFrame); err != nil {
		return err
	}

	predictions, err := predictEvaluation(result, trainInst, trainFrame, evalFrame)
	if err != nil {
		return err
	}
	logger.Info("evaluation rows classified",
		log.OperationKey, log.OperationPredict,
		log.SamplesKey, len(predictions),
	)
	out.Predictions(predictions)

	if opts.plotDir != "" {
		return savePlots(opts.plotDir, trainFrame, result, logger)
	}
	return nil
}

// prepare fetches both tables, learns the cleaning projection from the
// labeled one, and splits the labeled rows into cleaned training and
// holdout frames. The evaluation frame comes back cleaned and
// unlabeled.
func prepare(ctx context.Context, opts options, logger log.Logger) (train, holdout, eval dataframe.DataFrame, err error) {
	var zero dataframe.DataFrame

	trainPath, err := dataset.Training.Fetch(ctx, opts.dataDir)
	if err != nil {
		return zero, zero, zero, err
	}
	logger.Info("dataset ready",
		log.OperationKey, log.OperationFetch,
		log.DatasetKey, dataset.Training.Name,
		"path", trainPath,
	)
	evalPath, err := dataset.Evaluation.Fetch(ctx, opts.dataDir)
	if err != nil {
		return zero, zero, zero, err
	}
	logger.Info("dataset ready",
		log.OperationKey, log.OperationFetch,
		log.DatasetKey, dataset.Evaluation.Name,
		"path", evalPath,
	)

	rawTrain, err := dataset.ReadFrame(trainPath)
	if err != nil {
		return zero, zero, zero, err
	}
	rawEval, err := dataset.ReadFrame(evalPath)
	if err != nil {
		return zero, zero, zero, err
	}
	if err := dataset.CheckSchema(rawTrain, dataset.Training.Name, true); err != nil {
		return zero, zero, zero, err
	}
	if err := dataset.CheckSchema(rawEval, dataset.Evaluation.Name, false); err != nil {
		return zero, zero, zero, err
	}

	cleaner := dataset.NewCleaner()
	labeled, cleanReport, err := cleaner.FitTransform(rawTrain)
	if err != nil {
		return zero, zero, zero, err
	}
	logger.Info("labeled table cleaned",
		log.OperationKey, log.OperationClean,
		log.SamplesKey, cleanReport.Rows,
		log.FeaturesKey, cleanReport.Features,
		log.DroppedColumnsKey, len(cleanReport.DroppedMeta)+len(cleanReport.DroppedEmpty),
		log.CoercedCellsKey, cleanReport.CoercedCells,
	)

	eval, _, err = cleaner.Transform(rawEval)
	if err != nil {
		return zero, zero, zero, err
	}

	splitter := partition.NewStratifiedSplitter(opts.trainFraction, opts.seed)
	train, holdout, err = splitter.Split(labeled, dataset.LabelColumn)
	if err != nil {
		return zero, zero, zero, err
	}
	logger.Info("labeled rows split",
		log.OperationKey, log.OperationSplit,
		log.SamplesKey, train.Nrow(),
		"holdout_rows", holdout.Nrow(),
	)
	return train, holdout, eval, nil
}

// evaluate reports in-sample and held-out quality for the final model.
func evaluate(out *report.Writer, logger log.Logger, result *training.Result, trainInst *base.DenseInstances, trainFrame, holdoutFrame dataframe.DataFrame) error {
	trainPredicted, err := result.Model.Predict(trainInst)
	if err != nil {
		return err
	}
	inSample, err := metrics.NewConfusionMatrix(trainFrame.Col(dataset.LabelColumn).Records(), trainPredicted)
	if err != nil {
		return err
	}
	out.Accuracy("in-sample", inSample.Accuracy())
	out.ConfusionMatrix("in-sample", inSample)

	holdoutInst, err := training.InstancesFromFrameTemplate(holdoutFrame, trainInst)
	if err != nil {
		return err
	}
	predicted, err := result.Model.Predict(holdoutInst)
	if err != nil {
		return err
	}

	cm, err := metrics.NewConfusionMatrix(holdoutFrame.Col(dataset.LabelColumn).Records(), predicted)
	if err != nil {
		return err
	}
	logger.Info("holdout scored",
		log.OperationKey, log.OperationScore,
		log.SamplesKey, cm.Total(),
		log.AccuracyKey, cm.Accuracy(),
		log.KappaKey, cm.Kappa(),
	)
	out.Accuracy("holdout", cm.Accuracy())
	out.ConfusionMatrix("holdout", cm)
	return nil
}

// predictEvaluation classifies the unlabeled evaluation rows. The
// frame gets a placeholder label column so it parses under the same
// schema as the training data; the placeholder is never read back.
func predictEvaluation(result *training.Result, trainInst *base.DenseInstances, trainFrame, evalFrame dataframe.DataFrame) ([]string, error) {
	placeholder := trainFrame.Col(dataset.LabelColumn).Records()[0]
	withLabel, err := training.WithPlaceholderLabel(evalFrame, dataset.LabelColumn, placeholder)
	if err != nil {
		return nil, err
	}
	inst, err := training.InstancesFromFrameTemplate(withLabel, trainInst)
	if err != nil {
		return nil, err
	}
	return result.Model.Predict(inst)
}

func savePlots(dir string, trainFrame dataframe.DataFrame, result *training.Result, logger log.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "creating plot directory %s", dir)
	}

	classPath, err := report.SaveClassDistribution(trainFrame.Col(dataset.LabelColumn).Records(), dir)
	if err != nil {
		return err
	}
	foldPath, err := report.SaveFoldAccuracy(result.Best(), dir)
	if err != nil {
		return err
	}
	logger.Info("plots written", "class_distribution", classPath, "fold_accuracy", foldPath)
	return nil
}
