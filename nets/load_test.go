package nets

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func writeWeights(t *testing.T, body map[string]any) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, "weights.json")
	data, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal fixture: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func TestLoadLinearValue(t *testing.T) {
	path := writeWeights(t, map[string]any{"linear": []float64{1, 2, 3}})
	bundle, err := Load(path, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lv, ok := bundle.Value.(LinearValue)
	if !ok {
		t.Fatalf("expected a LinearValue, got %T", bundle.Value)
	}
	if len(lv.Weights) != 3 {
		t.Fatalf("expected 3 weights, got %d", len(lv.Weights))
	}
	if bundle.Policy != nil {
		t.Fatalf("expected no policy net when the file has no policy_weights field")
	}
}

func TestLoadLinearValuePadsShortVector(t *testing.T) {
	path := writeWeights(t, map[string]any{"linear": []float64{1, 2}})
	bundle, err := Load(path, 5)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	lv := bundle.Value.(LinearValue)
	if len(lv.Weights) != 5 {
		t.Fatalf("expected the short vector to be padded to 5, got %d", len(lv.Weights))
	}
	if lv.Weights[0] != 1 || lv.Weights[1] != 2 || lv.Weights[4] != 0 {
		t.Fatalf("expected padding to preserve the original values and zero-fill the rest: %v", lv.Weights)
	}
}

func TestLoadTwoLayerValue(t *testing.T) {
	path := writeWeights(t, map[string]any{
		"type":        "neural",
		"hidden_size": 2,
		"n_features":  2,
		"W1":          [][]float64{{1, 0}, {0, 1}},
		"b1":          []float64{0, 0},
		"W2":          []float64{1, 1},
		"b2":          []float64{0},
	})
	bundle, err := Load(path, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	tl, ok := bundle.Value.(TwoLayerValue)
	if !ok {
		t.Fatalf("expected a TwoLayerValue, got %T", bundle.Value)
	}
	if tl.HiddenSize != 2 || tl.NFeatures != 2 {
		t.Fatalf("unexpected shape: %+v", tl)
	}
}

func TestLoadPolicyNet(t *testing.T) {
	bias, temp := 0.5, 2.0
	path := writeWeights(t, map[string]any{
		"policy_weights":     []float64{1, 2, 3},
		"policy_bias":        bias,
		"policy_temperature": temp,
	})
	bundle, err := Load(path, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Policy == nil {
		t.Fatalf("expected a policy net to be loaded")
	}
	if bundle.Policy.Bias != 0.5 || bundle.Policy.Temperature != 2.0 {
		t.Fatalf("policy bias/temperature did not round-trip: %+v", bundle.Policy)
	}
}

func TestLoadPolicyNetDefaultsBiasAndTemperature(t *testing.T) {
	path := writeWeights(t, map[string]any{"policy_weights": []float64{1, 2}})
	bundle, err := Load(path, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if bundle.Policy.Bias != 0 {
		t.Fatalf("expected a default bias of 0, got %f", bundle.Policy.Bias)
	}
	if bundle.Policy.Temperature != 1 {
		t.Fatalf("expected a default temperature of 1, got %f", bundle.Policy.Temperature)
	}
}

func TestLoadMissingFileReturnsError(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "does-not-exist.json"), 4); err == nil {
		t.Fatalf("expected an error for a missing weights file")
	}
}

func TestLoadMalformedJSONReturnsError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	if _, err := Load(path, 4); err == nil {
		t.Fatalf("expected an error for malformed JSON")
	}
}
