package errors

import (
	"fmt"
	"strings"
	"testing"
)

func TestNewNotFittedError(t *testing.T) {
	err := NewNotFittedError("ForestClassifier", "Predict")

	want := "liftclass: ForestClassifier: not fitted yet. Call Fit() before using Predict()"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var notFittedErr *NotFittedError
	if !As(err, &notFittedErr) {
		t.Error("Error should be castable to *NotFittedError")
	}

	formatted := fmt.Sprintf("%+v", err)
	if !strings.Contains(formatted, "errors_test.go") {
		t.Error("Expected stack trace to contain test file name")
	}
}

func TestNewDimensionError(t *testing.T) {
	err := NewDimensionError("Accuracy", 20, 19, 0)

	want := "liftclass: Accuracy: dimension mismatch on axis 0 (rows). Expected 20, got 19"
	if err.Error() != want {
		t.Errorf("Error() = %v, want %v", err.Error(), want)
	}

	var dimErr *DimensionError
	if !As(err, &dimErr) {
		t.Error("Error should be castable to *DimensionError")
	}
}

func TestNewSchemaError(t *testing.T) {
	tests := []struct {
		name    string
		source  string
		column  string
		reason  string
		wantMsg string
	}{
		{
			name:    "missing column",
			source:  "training data",
			column:  "classe",
			reason:  "required column is absent",
			wantMsg: `liftclass: training data: column "classe": required column is absent`,
		},
		{
			name:    "table level",
			source:  "evaluation data",
			column:  "",
			reason:  "no feature columns left after cleaning",
			wantMsg: "liftclass: evaluation data: no feature columns left after cleaning",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NewSchemaError(tt.source, tt.column, tt.reason)
			if err.Error() != tt.wantMsg {
				t.Errorf("Error() = %v, want %v", err.Error(), tt.wantMsg)
			}

			var schemaErr *SchemaError
			if !As(err, &schemaErr) {
				t.Error("Error should be castable to *SchemaError")
			}
		})
	}
}

func TestNewDataConversionWarning(t *testing.T) {
	warn := NewDataConversionWarning("kurtosis_roll_belt", "string", "float64", 406)

	want := `column "kurtosis_roll_belt": 406 value(s) converted from string to float64`
	if warn.Error() != want {
		t.Errorf("Error() = %v, want %v", warn.Error(), want)
	}
}

func TestWarnHandler(t *testing.T) {
	var captured error
	SetWarningHandler(func(w error) { captured = w })
	defer SetWarningHandler(nil)

	warn := NewUndefinedMetricWarning("precision", "no predicted samples", 0)
	Warn(warn)

	if captured == nil {
		t.Fatal("Expected warning handler to be invoked")
	}
	if !strings.Contains(captured.Error(), "precision") {
		t.Errorf("Expected captured warning to mention the metric, got %q", captured.Error())
	}
}

func TestWrapAndIs(t *testing.T) {
	wrapped := Wrap(ErrEmptyData, "in Cleaner.Fit")

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	if !strings.Contains(wrapped.Error(), "in Cleaner.Fit") {
		t.Error("Expected wrapped error to contain wrapping message")
	}
}

func TestWrapf(t *testing.T) {
	wrapped := Wrapf(ErrEmptyData, "in %s: expected %d, got %d", "Split", 10, 0)

	if !Is(wrapped, ErrEmptyData) {
		t.Error("Expected Is(wrapped, ErrEmptyData) to be true")
	}
	expectedMsg := "in Split: expected 10, got 0"
	if !strings.Contains(wrapped.Error(), expectedMsg) {
		t.Errorf("Expected wrapped error to contain %q", expectedMsg)
	}
}
