// Standard attribute keys for pipeline logging. Using these keys keeps
// log output consistent across the loader, cleaner, partitioner,
// trainer and evaluator, which makes runs comparable.
//
// The keys follow a hierarchical naming convention (e.g. "data.samples",
// "cv.fold") to enable structured filtering.

package log

// Dataset and operation context.
const (
	// DatasetKey names the dataset being processed ("training", "evaluation").
	DatasetKey = "dataset"

	// OperationKey specifies the pipeline operation being performed.
	// Standard values: "fetch", "clean", "split", "fit", "predict", "score"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	ComponentKey = "ml.component"
)

// Data shape.
const (
	// SamplesKey is the number of rows in the table being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns.
	FeaturesKey = "data.features"

	// DroppedColumnsKey is the number of columns removed during cleaning.
	DroppedColumnsKey = "data.dropped_columns"

	// CoercedCellsKey is the number of cells zero-filled during cleaning.
	CoercedCellsKey = "data.coerced_cells"
)

// Training and evaluation.
const (
	// FoldKey is the cross-validation fold index.
	FoldKey = "cv.fold"

	// FoldsKey is the total number of cross-validation folds.
	FoldsKey = "cv.folds"

	// WorkersKey is the size of the fold worker pool.
	WorkersKey = "cv.workers"

	// TreesKey is the forest size.
	TreesKey = "model.trees"

	// FeaturesPerTreeKey is the per-tree feature sample size (mtry).
	FeaturesPerTreeKey = "model.features_per_tree"

	// AccuracyKey records classification accuracy, in [0, 1].
	AccuracyKey = "metrics.accuracy"

	// KappaKey records Cohen's kappa.
	KappaKey = "metrics.kappa"

	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// SeedKey records the random seed for reproducibility.
	SeedKey = "config.random_seed"
)

// Standard operation values.
const (
	OperationFetch   = "fetch"
	OperationClean   = "clean"
	OperationSplit   = "split"
	OperationFit     = "fit"
	OperationPredict = "predict"
	OperationScore   = "score"
)
