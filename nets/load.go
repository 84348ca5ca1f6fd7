package nets

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// weightsFile is the on-disk JSON shape spec.md §6 names: either a flat linear
// value array, a {"type":"neural",...} two-layer value net, or a policy
// block, any of which may appear in the same file.
type weightsFile struct {
	Type     string      `json:"type"`
	Linear   []float64   `json:"linear,omitempty"`
	HiddenSize int       `json:"hidden_size,omitempty"`
	NFeatures  int       `json:"n_features,omitempty"`
	W1         [][]float64 `json:"W1,omitempty"`
	B1         []float64   `json:"b1,omitempty"`
	W2         []float64   `json:"W2,omitempty"`
	B2         []float64   `json:"b2,omitempty"`

	PolicyWeights     []float64 `json:"policy_weights,omitempty"`
	PolicyBias        *float64  `json:"policy_bias,omitempty"`
	PolicyTemperature *float64  `json:"policy_temperature,omitempty"`
}

// Bundle is everything Load can produce from one file: a value net (nil if
// absent), and a policy net (nil if absent).
type Bundle struct {
	Value  ValueNet
	Policy *PolicyNet
}

// Load reads a weights file. A value-net array of the wrong length is
// zero-padded or truncated to the expected shape and logged with one
// warning per mismatched field rather than failing — spec.md §7's
// "recoverable" classification for this error kind. A W1 row of the wrong
// width is resized without a warning; policy weights are used as stored.
func Load(path string, nFeatures int) (Bundle, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Bundle{}, fmt.Errorf("nets: read %s: %w", path, err)
	}
	var wf weightsFile
	if err := json.Unmarshal(data, &wf); err != nil {
		return Bundle{}, fmt.Errorf("nets: parse %s: %w", path, err)
	}

	var bundle Bundle

	switch {
	case wf.Type == "neural":
		bundle.Value = loadTwoLayer(path, wf, nFeatures)
	case len(wf.Linear) > 0:
		bundle.Value = LinearValue{Weights: padTo(path, "linear", wf.Linear, nFeatures)}
	}

	if len(wf.PolicyWeights) > 0 {
		bias, temp := 0.0, 1.0
		if wf.PolicyBias != nil {
			bias = *wf.PolicyBias
		}
		if wf.PolicyTemperature != nil {
			temp = *wf.PolicyTemperature
		}
		bundle.Policy = &PolicyNet{
			Weights:     wf.PolicyWeights,
			Bias:        bias,
			Temperature: temp,
		}
	}

	return bundle, nil
}

func loadTwoLayer(path string, wf weightsFile, nFeatures int) TwoLayerValue {
	h := wf.HiddenSize
	n := wf.NFeatures
	if n == 0 {
		n = nFeatures
	}

	w1 := wf.W1
	if len(w1) != n {
		logShapeMismatch(path, "W1 rows", len(w1), n)
		w1 = padRows(w1, n, h)
	}
	for i := range w1 {
		if len(w1[i]) != h {
			w1[i] = padCols(w1[i], h)
		}
	}
	b1 := padTo(path, "b1", wf.B1, h)
	w2 := padTo(path, "W2", wf.W2, h)
	b2 := 0.0
	if len(wf.B2) > 0 {
		b2 = wf.B2[0]
	}

	return TwoLayerValue{HiddenSize: h, NFeatures: n, W1: w1, B1: b1, W2: w2, B2: b2}
}

func padTo(path, field string, v []float64, n int) []float64 {
	if len(v) == n {
		return v
	}
	logShapeMismatch(path, field, len(v), n)
	out := make([]float64, n)
	copy(out, v)
	return out
}

func padRows(rows [][]float64, n, cols int) [][]float64 {
	out := make([][]float64, n)
	for i := 0; i < n; i++ {
		if i < len(rows) {
			out[i] = rows[i]
		} else {
			out[i] = make([]float64, cols)
		}
	}
	return out
}

func padCols(row []float64, cols int) []float64 {
	out := make([]float64, cols)
	copy(out, row)
	return out
}

func logShapeMismatch(path, field string, got, want int) {
	log.Warn().
		Str("path", path).
		Str("field", field).
		Int("got", got).
		Int("want", want).
		Msg("nets: weights shape mismatch, padded with zeros")
}

// init keeps the package logger at Info by default; cmd/matchbench may
// raise or lower this via its --config/flag-driven level.
func init() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
}
