// Package dataset fetches the weight-lifting sensor tables and cleans
// them into purely numeric feature frames.
package dataset

import (
	"context"
	"io"
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/YuminosukeSato/liftclass/pkg/errors"
)

// LabelColumn is the categorical outcome column: one of five execution
// quality classes (A through E) in the labeled table, absent from the
// evaluation table.
const LabelColumn = "classe"

// Remote locations of the two CSV tables.
const (
	TrainingURL   = "https://d396qusza40orc.cloudfront.net/predmachlearn/pml-training.csv"
	EvaluationURL = "https://d396qusza40orc.cloudfront.net/predmachlearn/pml-testing.csv"
)

// Source describes one remote CSV dataset and its local cache name.
type Source struct {
	Name     string
	URL      string
	Filename string
}

// The two datasets the pipeline runs on.
var (
	Training   = Source{Name: "training", URL: TrainingURL, Filename: "pml-training.csv"}
	Evaluation = Source{Name: "evaluation", URL: EvaluationURL, Filename: "pml-testing.csv"}
)

// Fetch downloads the source into dir unless the file is already there,
// and returns the local path.
func (s Source) Fetch(ctx context.Context, dir string) (string, error) {
	path := filepath.Join(dir, s.Filename)
	if _, err := os.Stat(path); err == nil {
		return path, nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.Wrapf(err, "creating data directory %s", dir)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return "", errors.Wrapf(err, "building request for %s dataset", s.Name)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", errors.Wrapf(err, "fetching %s dataset", s.Name)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", errors.Newf("fetching %s dataset: unexpected status %s", s.Name, resp.Status)
	}

	out, err := os.Create(path)
	if err != nil {
		return "", errors.Wrapf(err, "creating %s", path)
	}
	if _, err := io.Copy(out, resp.Body); err != nil {
		_ = out.Close()
		_ = os.Remove(path)
		return "", errors.Wrapf(err, "writing %s", path)
	}
	if err := out.Close(); err != nil {
		return "", errors.Wrapf(err, "closing %s", path)
	}
	return path, nil
}

// ReadFrame loads a CSV file with every column kept as a string.
// Numeric coercion is the cleaner's job: malformed tokens must surface
// as missing values there, not as parse errors here.
func ReadFrame(path string) (dataframe.DataFrame, error) {
	f, err := os.Open(path)
	if err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(err, "opening %s", path)
	}
	defer func() { _ = f.Close() }()

	df := dataframe.ReadCSV(f,
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, errors.Wrapf(df.Err, "parsing %s", path)
	}
	if df.Nrow() == 0 {
		return dataframe.DataFrame{}, errors.Wrapf(errors.ErrEmptyData, "parsing %s", path)
	}
	return df, nil
}

// CheckSchema validates the structural assumptions the pipeline makes
// before any cleaning happens, so schema drift in the source files is
// reported instead of failing opaquely downstream.
func CheckSchema(df dataframe.DataFrame, source string, requireLabel bool) error {
	names := df.Names()
	if requireLabel {
		found := false
		for _, n := range names {
			if n == LabelColumn {
				found = true
				break
			}
		}
		if !found {
			return errors.NewSchemaError(source, LabelColumn, "required column is absent")
		}
	}
	if len(names) < 2 {
		return errors.NewSchemaError(source, "", "too few columns for a feature table")
	}
	return nil
}
