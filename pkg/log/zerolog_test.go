package log

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	pkgerrors "github.com/YuminosukeSato/liftclass/pkg/errors"
)

func TestZerologLoggerStructuredFields(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(&buf, LevelDebug)
	logger := provider.GetLoggerWithName("cleaner")

	logger.Info("cleaning complete",
		SamplesKey, 19622,
		FeaturesKey, 52,
	)

	var record map[string]any
	if err := json.Unmarshal(buf.Bytes(), &record); err != nil {
		t.Fatalf("log output is not valid JSON: %v", err)
	}
	if record["message"] != "cleaning complete" {
		t.Errorf("message = %v, want %q", record["message"], "cleaning complete")
	}
	if record[ComponentKey] != "cleaner" {
		t.Errorf("%s = %v, want %q", ComponentKey, record[ComponentKey], "cleaner")
	}
	if record[SamplesKey] != float64(19622) {
		t.Errorf("%s = %v, want 19622", SamplesKey, record[SamplesKey])
	}
}

func TestZerologLoggerErrorStacktrace(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(&buf, LevelDebug)
	logger := provider.GetLogger()

	err := pkgerrors.NewNotFittedError("ForestClassifier", "Predict")
	logger.Error("prediction failed", err, OperationKey, OperationPredict)

	var record map[string]any
	if jerr := json.Unmarshal(buf.Bytes(), &record); jerr != nil {
		t.Fatalf("log output is not valid JSON: %v", jerr)
	}
	if _, ok := record[errAttrKey]; !ok {
		t.Error("expected error attribute in log record")
	}
	if record[OperationKey] != OperationPredict {
		t.Errorf("%s = %v, want %q", OperationKey, record[OperationKey], OperationPredict)
	}
}

func TestEnabledRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	provider := NewZerologProviderWithWriter(&buf, LevelWarn)
	logger := provider.GetLogger()

	ctx := context.Background()
	if logger.Enabled(ctx, LevelDebug) {
		t.Error("debug should be disabled at warn level")
	}
	if !logger.Enabled(ctx, LevelError) {
		t.Error("error should be enabled at warn level")
	}

	logger.Debug("suppressed")
	if buf.Len() != 0 {
		t.Errorf("expected no output for suppressed debug log, got %q", buf.String())
	}
}

func TestToLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"info", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ToLevel(tt.in); got != tt.want {
			t.Errorf("ToLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}
