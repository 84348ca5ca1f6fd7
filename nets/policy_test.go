package nets

import (
	"math"
	"testing"
)

func TestPriorsSumToOne(t *testing.T) {
	p := PolicyNet{Weights: []float64{1, -1}, Temperature: 1}
	priors := p.Priors([][]float64{{1, 0}, {0, 1}, {0.5, 0.5}})
	sum := 0.0
	for _, v := range priors {
		sum += v
	}
	if math.Abs(sum-1) > 1e-9 {
		t.Fatalf("expected priors to sum to 1, got %f", sum)
	}
}

func TestPriorsFavorsHigherLogit(t *testing.T) {
	p := PolicyNet{Weights: []float64{1}, Temperature: 1}
	priors := p.Priors([][]float64{{5}, {0}})
	if priors[0] <= priors[1] {
		t.Fatalf("expected the higher-logit candidate to get more mass: %v", priors)
	}
}

func TestPriorsEmptyCandidatesReturnsNil(t *testing.T) {
	p := PolicyNet{}
	if got := p.Priors(nil); got != nil {
		t.Fatalf("expected nil priors for an empty candidate set, got %v", got)
	}
}

func TestPriorsDefaultsZeroTemperatureToOne(t *testing.T) {
	withZero := PolicyNet{Weights: []float64{2}, Temperature: 0}
	withOne := PolicyNet{Weights: []float64{2}, Temperature: 1}
	a := withZero.Priors([][]float64{{1}, {2}})
	b := withOne.Priors([][]float64{{1}, {2}})
	for i := range a {
		if math.Abs(a[i]-b[i]) > 1e-12 {
			t.Fatalf("expected temperature=0 to behave identically to temperature=1: %v vs %v", a, b)
		}
	}
}

func TestPriorsUniformWhenAllLogitsEqual(t *testing.T) {
	p := PolicyNet{Weights: []float64{0}, Temperature: 1}
	priors := p.Priors([][]float64{{1}, {2}, {3}})
	for _, v := range priors {
		if math.Abs(v-1.0/3.0) > 1e-9 {
			t.Fatalf("expected a uniform distribution when all logits are equal, got %v", priors)
		}
	}
}
