package nets

import "math"

// PolicyNet scores a set of candidate action feature vectors (each already
// concatenated with the shared state features) into a softmax prior over
// the candidate set, spec.md §4.12's policy network.
type PolicyNet struct {
	Weights     []float64
	Bias        float64
	Temperature float64
}

// Priors computes softmax(logits/temperature) over candidates, with the
// max-logit-subtraction stability spec.md §4.12 requires and a uniform
// fallback if the denominator underflows.
func (p PolicyNet) Priors(candidateFeatures [][]float64) []float64 {
	n := len(candidateFeatures)
	if n == 0 {
		return nil
	}
	temp := p.Temperature
	if temp == 0 {
		temp = 1
	}

	logits := make([]float64, n)
	maxLogit := math.Inf(-1)
	for i, f := range candidateFeatures {
		logits[i] = (dot(p.Weights, f) + p.Bias) / temp
		if logits[i] > maxLogit {
			maxLogit = logits[i]
		}
	}

	denom := 0.0
	exp := make([]float64, n)
	for i, l := range logits {
		exp[i] = math.Exp(l - maxLogit)
		denom += exp[i]
	}
	if denom == 0 || math.IsNaN(denom) || math.IsInf(denom, 0) {
		uniform := make([]float64, n)
		for i := range uniform {
			uniform[i] = 1.0 / float64(n)
		}
		return uniform
	}
	out := make([]float64, n)
	for i := range out {
		out[i] = exp[i] / denom
	}
	return out
}
