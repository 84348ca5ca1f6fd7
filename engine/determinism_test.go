package engine

import (
	"reflect"
	"testing"

	"github.com/tacklezone/matchcore/dice"
)

// replayMatch drives a handful of turns from a freshly seeded match and
// returns a summary cheap enough to compare across two independent runs.
func replayMatch(seed uint64, steps int) (homeScore, awayScore, standingCount int) {
	d := dice.NewSeeded(seed)
	home, away := smallRosters()
	state := NewMatch(home, away, 2)

	for state.Phase == PhaseSetup {
		actions := AvailableActions(state)
		if len(actions) == 0 {
			break
		}
		result, err := Resolve(state, actions[0], d)
		if err != nil {
			break
		}
		state = result.State
		if state.Phase == PhaseSetup {
			state.ActiveTeam = state.ActiveTeam.Opponent()
		}
	}
	state, _ = Kickoff(state, d, Position{X: PitchWidth / 2, Y: PitchHeight / 2}, state.KickingTeam.Opponent())

	for i := 0; i < steps && state.Phase == PhasePlay; i++ {
		actions := AvailableActions(state)
		if len(actions) == 0 {
			break
		}
		choice := actions[(d.D6()-1)%len(actions)]
		result, err := Resolve(state, choice, d)
		if err != nil {
			continue
		}
		state = result.State
	}

	for _, p := range state.Players {
		if p.State == Standing {
			standingCount++
		}
	}
	return state.Home.Score, state.Away.Score, standingCount
}

func TestSameSeedProducesIdenticalReplay(t *testing.T) {
	hs1, as1, sc1 := replayMatch(12345, 50)
	hs2, as2, sc2 := replayMatch(12345, 50)
	if hs1 != hs2 || as1 != as2 || sc1 != sc2 {
		t.Fatalf("same seed diverged: (%d,%d,%d) vs (%d,%d,%d)", hs1, as1, sc1, hs2, as2, sc2)
	}
}

func TestDifferentSeedsCanProduceDifferentReplays(t *testing.T) {
	bh, ba, bs := replayMatch(1, 50)
	allSame := true
	for _, seed := range []uint64{2, 3, 4, 5} {
		h, a, s := replayMatch(seed, 50)
		if h != bh || a != ba || s != bs {
			allSame = false
			break
		}
	}
	if allSame {
		t.Fatalf("every seed produced an identical replay summary; dice source may not be wired through")
	}
}

// TestAvailableActionsOrderIsStableAcrossCalls pins the fix for enumerating
// state.Players through sortedPlayerIDs: Go randomizes map iteration order
// per range, so ranging over state.Players directly would make repeated
// calls on the same state disagree on action order even within one process,
// breaking spec.md §8's byte-identical event logs and §4.2's stable
// tie-breaks (a root mcts/search.go expand would then build children in a
// different order each time it's called).
func TestAvailableActionsOrderIsStableAcrossCalls(t *testing.T) {
	state := freshPlayState()
	placeAt(state, 1, 5, 5)
	placeAt(state, 2, 10, 10)
	placeAt(state, 12, 6, 6)
	placeAt(state, 13, 20, 10)

	first := AvailableActions(state)
	for i := 0; i < 5; i++ {
		again := AvailableActions(state)
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("AvailableActions order diverged across calls on the same state (iteration %d)", i)
		}
	}
}

func TestScriptedSourceIsExhaustedDeterministically(t *testing.T) {
	d := dice.NewScripted([]int{3, 4}, nil, nil)
	if got := d.D6(); got != 3 {
		t.Fatalf("expected first scripted d6 to be 3, got %d", got)
	}
	if got := d.D6(); got != 4 {
		t.Fatalf("expected second scripted d6 to be 4, got %d", got)
	}
	defer func() {
		r := recover()
		if r == nil {
			t.Fatalf("expected a panic once the scripted d6 queue is exhausted")
		}
		if _, ok := r.(dice.ErrExhausted); !ok {
			t.Fatalf("expected dice.ErrExhausted, got %T: %v", r, r)
		}
	}()
	d.D6()
}
