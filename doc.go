// Package liftclass implements a classification pipeline for the
// weight-lifting exercise dataset: body sensor readings recorded while
// subjects performed a dumbbell exercise correctly and with four
// distinct mistakes, labeled A through E.
//
// The pipeline downloads the labeled and unlabeled sensor tables over
// HTTPS (caching them locally), cleans them into a purely numeric
// feature matrix, holds out a stratified validation split, tunes a
// random forest's per-tree feature count with stratified k-fold
// cross-validation, and reports accuracy, confusion matrices and a
// predicted class for each unlabeled evaluation row.
//
// # Packages
//
//   - dataset: download, parsing and cleaning of the sensor tables
//   - partition: seeded stratified train/test splitting and k-fold generation
//   - training: random forest fitting and cross-validated tuning
//   - metrics: accuracy, confusion matrix, kappa, per-class breakdown
//   - report: result tables and diagnostic plots
//   - core/model, core/parallel: estimator lifecycle and worker pool
//   - pkg/errors, pkg/log: structured errors, warnings and logging
//
// # Quick start
//
// Run the whole pipeline from the command line:
//
//	go run ./cmd/liftclass --data-dir data --seed 12345
//
// Or drive the stages programmatically:
//
//	cleaner := dataset.NewCleaner()
//	labeled, _, err := cleaner.FitTransform(raw)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	train, holdout, err := partition.NewStratifiedSplitter(0.8, 12345).
//	    Split(labeled, dataset.LabelColumn)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	result, err := training.NewTrainer(training.DefaultConfig(), logger).Train(train)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Model)
//
// Every stochastic stage is driven by a single seed, so a fixed seed
// reproduces the same split, folds and forest.
package liftclass
