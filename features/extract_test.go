package features

import (
	"testing"

	"github.com/tacklezone/matchcore/engine"
	"github.com/tacklezone/matchcore/roster"
)

func buildState() *engine.GameState {
	state := engine.NewMatch(roster.Builtin("home"), roster.Builtin("away"), 2)
	state.Home.Score = 2
	state.Away.Score = 1
	state.Home.TurnNumber = 3
	return state
}

func TestExtractReturnsFixedWidthVector(t *testing.T) {
	state := buildState()
	f := Extract(state, engine.Home)
	if len(f) != N {
		t.Fatalf("expected a length-%d feature vector, got %d", N, len(f))
	}
}

func TestExtractScoreDifferentialFlipsWithPerspective(t *testing.T) {
	state := buildState()
	home := Extract(state, engine.Home)
	away := Extract(state, engine.Away)

	if home[0] <= 0 {
		t.Fatalf("expected a positive score-differential feature from the leading side's perspective, got %f", home[0])
	}
	if away[0] >= 0 {
		t.Fatalf("expected a negative score-differential feature from the trailing side's perspective, got %f", away[0])
	}
	if home[0] != -away[0] {
		t.Fatalf("expected home and away score-differential features to be exact opposites: %f vs %f", home[0], away[0])
	}
}

func TestExtractMyScoreAndOppScoreSwapWithPerspective(t *testing.T) {
	state := buildState()
	home := Extract(state, engine.Home)
	away := Extract(state, engine.Away)

	if home[1] != away[2] || home[2] != away[1] {
		t.Fatalf("expected my_score/opp_score to swap across perspectives: home=%v away=%v", home[1:3], away[1:3])
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	state := buildState()
	a := Extract(state, engine.Home)
	b := Extract(state, engine.Home)
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("Extract should be a pure function of state: index %d differed (%f vs %f)", i, a[i], b[i])
		}
	}
}

func TestExtractDoesNotMutateState(t *testing.T) {
	state := buildState()
	before := state.Home.Score
	_ = Extract(state, engine.Home)
	if state.Home.Score != before {
		t.Fatalf("Extract must not mutate the state it reads")
	}
}
