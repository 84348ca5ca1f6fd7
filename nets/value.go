// Package nets implements the value/policy network evaluation spec.md
// §4.12 names: a linear or two-layer value net, and a softmax policy over
// action features. Grounded on the teacher's evolution/fitness.StylePresets
// (a weighted linear combination of fitness metrics), generalized from a
// style score into a trainable-shape-but-inference-only value function —
// spec.md's Non-goals exclude training; these types only ever load and
// evaluate weights.
package nets

import "math"

// ValueNet scores a feature vector into [-1, +1].
type ValueNet interface {
	Value(features []float64) float64
}

// LinearValue is `tanh(dot(weights, features))`, per spec.md §4.12(a); tanh
// is applied even to the linear form so search sees a consistent scale.
type LinearValue struct {
	Weights []float64
}

func (v LinearValue) Value(features []float64) float64 {
	return math.Tanh(dot(v.Weights, features))
}

// TwoLayerValue is `h = ReLU(W1*x + b1); y = tanh(W2*h + b2)`, spec.md
// §4.12(b)'s two-layer form.
type TwoLayerValue struct {
	HiddenSize int
	NFeatures  int
	W1         [][]float64 // NFeatures x HiddenSize
	B1         []float64   // HiddenSize
	W2         []float64   // HiddenSize
	B2         float64
}

func (v TwoLayerValue) Value(features []float64) float64 {
	h := make([]float64, v.HiddenSize)
	for j := 0; j < v.HiddenSize; j++ {
		sum := v.B1[j]
		for i := 0; i < v.NFeatures && i < len(features); i++ {
			sum += v.W1[i][j] * features[i]
		}
		if sum < 0 {
			sum = 0
		}
		h[j] = sum
	}
	out := v.B2
	for j := 0; j < v.HiddenSize; j++ {
		out += v.W2[j] * h[j]
	}
	return math.Tanh(out)
}

func dot(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	sum := 0.0
	for i := 0; i < n; i++ {
		sum += a[i] * b[i]
	}
	return sum
}
