package training

import (
	"math"
	"time"

	"github.com/go-gota/gota/dataframe"
	"golang.org/x/exp/rand"

	"github.com/YuminosukeSato/liftclass/core/parallel"
	"github.com/YuminosukeSato/liftclass/partition"
	"github.com/YuminosukeSato/liftclass/pkg/errors"
	"github.com/YuminosukeSato/liftclass/pkg/log"
)

// DefaultSeed pins every stochastic stage of the pipeline.
const DefaultSeed int64 = 12345

// Config tunes the trainer. Zero values fall back to the defaults
// applied by Trainer.Train.
type Config struct {
	LabelColumn string
	// Trees is the forest size for every candidate and the final model.
	Trees int
	// FeatureCandidates are the per-tree feature counts tried during
	// cross-validation. Empty means a grid around sqrt(feature count).
	FeatureCandidates []int
	Folds             int
	Workers           int
	Seed              int64
}

// DefaultConfig mirrors the pipeline defaults: a 100-tree forest tuned
// over 5 stratified folds.
func DefaultConfig() Config {
	return Config{
		LabelColumn: "classe",
		Trees:       100,
		Folds:       5,
		Workers:     parallel.DefaultWorkers(),
		Seed:        DefaultSeed,
	}
}

// Result is the outcome of a tuning run: the refit model plus the full
// cross-validation trace.
type Result struct {
	Model               *ForestClassifier
	BestFeaturesPerTree int
	Candidates          []*CVResult
	TrainingRows        int
	FeatureCount        int
	Elapsed             time.Duration
}

// Best returns the winning candidate's cross-validation result.
func (r *Result) Best() *CVResult {
	for _, c := range r.Candidates {
		if c.FeaturesPerTree == r.BestFeaturesPerTree {
			return c
		}
	}
	return nil
}

// Trainer runs the tuning loop: stratified folds, one cross-validation
// pass per feature-count candidate, then a refit of the winner on the
// whole training frame.
type Trainer struct {
	cfg    Config
	logger log.Logger
}

// NewTrainer builds a trainer from cfg, filling absent settings with
// defaults.
func NewTrainer(cfg Config, logger log.Logger) *Trainer {
	def := DefaultConfig()
	if cfg.LabelColumn == "" {
		cfg.LabelColumn = def.LabelColumn
	}
	if cfg.Trees == 0 {
		cfg.Trees = def.Trees
	}
	if cfg.Folds == 0 {
		cfg.Folds = def.Folds
	}
	if cfg.Workers == 0 {
		cfg.Workers = def.Workers
	}
	if cfg.Seed == 0 {
		cfg.Seed = def.Seed
	}
	return &Trainer{cfg: cfg, logger: logger}
}

// Train tunes and fits on a cleaned, labeled frame whose final column
// is the label.
func (t *Trainer) Train(df dataframe.DataFrame) (*Result, error) {
	start := time.Now()

	if df.Err != nil {
		return nil, errors.WithStack(df.Err)
	}
	if t.cfg.Folds < 2 {
		return nil, errors.NewValidationError("Folds", "at least two folds are required", t.cfg.Folds)
	}
	if !containsColumn(df, t.cfg.LabelColumn) {
		return nil, errors.NewSchemaError("trainer", t.cfg.LabelColumn, "label column is absent")
	}

	labels := df.Col(t.cfg.LabelColumn).Records()
	featureCount := df.Ncol() - 1
	candidates := t.cfg.FeatureCandidates
	if len(candidates) == 0 {
		candidates = DefaultFeatureCandidates(featureCount)
	}

	t.logger.Info("training started",
		log.OperationKey, log.OperationFit,
		log.SamplesKey, len(labels),
		log.FeaturesKey, featureCount,
		log.TreesKey, t.cfg.Trees,
		log.FoldsKey, t.cfg.Folds,
		log.WorkersKey, t.cfg.Workers,
		log.SeedKey, t.cfg.Seed,
	)

	// The forest samples features through the global x/exp/rand source.
	// Seed it once, before any fold starts fitting; seeding inside the
	// worker pool would race.
	rand.Seed(uint64(t.cfg.Seed))

	folds, err := partition.NewStratifiedKFold(t.cfg.Folds, t.cfg.Seed).Split(labels)
	if err != nil {
		return nil, err
	}

	var best *CVResult
	results := make([]*CVResult, 0, len(candidates))
	for _, m := range candidates {
		res, err := CrossValidate(df, t.cfg.Trees, m, folds, t.cfg.Workers)
		if err != nil {
			return nil, errors.Wrapf(err, "cross-validating %d features per tree", m)
		}
		results = append(results, res)

		for fold, score := range res.TestScores {
			t.logger.Debug("fold scored",
				log.FeaturesPerTreeKey, m,
				log.FoldKey, fold,
				log.AccuracyKey, score,
			)
		}
		t.logger.Info("candidate evaluated",
			log.FeaturesPerTreeKey, m,
			log.AccuracyKey, res.MeanScore(),
		)
		if best == nil || res.MeanScore() > best.MeanScore() {
			best = res
		}
	}

	inst, err := InstancesFromFrame(df)
	if err != nil {
		return nil, err
	}
	final := NewForestClassifier(t.cfg.Trees, best.FeaturesPerTree)
	if err := final.Fit(inst); err != nil {
		return nil, errors.Wrap(err, "refitting best candidate")
	}

	elapsed := time.Since(start)
	t.logger.Info("training finished",
		log.FeaturesPerTreeKey, best.FeaturesPerTree,
		log.AccuracyKey, best.MeanScore(),
		log.DurationMsKey, elapsed.Milliseconds(),
	)

	return &Result{
		Model:               final,
		BestFeaturesPerTree: best.FeaturesPerTree,
		Candidates:          results,
		TrainingRows:        len(labels),
		FeatureCount:        featureCount,
		Elapsed:             elapsed,
	}, nil
}

// DefaultFeatureCandidates builds a small tuning grid around the usual
// sqrt(p) heuristic for classification forests.
func DefaultFeatureCandidates(featureCount int) []int {
	if featureCount < 1 {
		return []int{1}
	}
	root := int(math.Round(math.Sqrt(float64(featureCount))))
	if root < 1 {
		root = 1
	}

	grid := []int{root / 2, root, root * 2}
	out := make([]int, 0, len(grid))
	seen := make(map[int]bool, len(grid))
	for _, m := range grid {
		if m < 1 {
			m = 1
		}
		if m > featureCount {
			m = featureCount
		}
		if !seen[m] {
			seen[m] = true
			out = append(out, m)
		}
	}
	return out
}

func containsColumn(df dataframe.DataFrame, name string) bool {
	for _, n := range df.Names() {
		if n == name {
			return true
		}
	}
	return false
}
