package engine

import (
	"testing"

	"github.com/tacklezone/matchcore/dice"
)

// freshPlayState builds a minimal two-player-per-side PhasePlay state
// directly (bypassing setup placement) so a scenario test can pin exact
// positions without depending on setupActions' enumeration order.
func freshPlayState() *GameState {
	home, away := smallRosters()
	state := NewMatch(home, away, 2)
	state.Phase = PhasePlay
	state.ActiveTeam = Home
	for _, p := range state.Players {
		p.State = OffPitch
	}
	return state
}

func placeAt(state *GameState, id PlayerID, x, y int8) {
	p := state.Players[id]
	p.State = Standing
	p.Pos = Position{X: x, Y: y}
	p.MovementRemaining = p.MA
	p.HasMoved = false
	p.HasActed = false
}

// TestSimpleUnopposedMoveSucceeds covers a move into open space: no adjacent
// tacklezone, so the pathfinder requires no dodge roll at all.
func TestSimpleUnopposedMoveSucceeds(t *testing.T) {
	state := freshPlayState()
	placeAt(state, 1, 5, 5)

	d := dice.NewScripted(nil, nil, nil)
	result, err := Resolve(state, MoveAction{PlayerID: 1, X: 6, Y: 5}, d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	mover := result.State.Players[1]
	if mover.Pos != (Position{X: 6, Y: 5}) {
		t.Fatalf("expected mover at (6,5), got %+v", mover.Pos)
	}
	if !mover.HasMoved || !mover.HasActed {
		t.Fatalf("expected HasMoved and HasActed both set after a completed move")
	}
}

// TestDodgeFailureCausesKnockdownAndTurnover pins a failed dodge roll
// (needs >= target, scripted to roll a 1) leaving a standing tacklezone
// adjacent to the mover's start cell, and checks the mover ends up prone
// with the turnover outcome spec.md §4.4 requires.
func TestDodgeFailureCausesKnockdownAndTurnover(t *testing.T) {
	state := freshPlayState()
	placeAt(state, 1, 5, 5)
	placeAt(state, 12, 6, 6) // away marker adjacent to the mover's start cell
	state.Home.RerollsTotal = 0 // no team reroll available to rescue the failed dodge

	// dodge roll (fails), then a low 2d6 armour roll that stays under AV.
	d := dice.NewScripted([]int{1, 1, 1}, nil, nil)
	result, err := Resolve(state, MoveAction{PlayerID: 1, X: 4, Y: 5}, d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	if result.Outcome != OutcomeTurnover {
		t.Fatalf("expected OutcomeTurnover on a failed dodge, got %v", result.Outcome)
	}
	mover := result.State.Players[1]
	if mover.State != Prone {
		t.Fatalf("expected the mover to be knocked prone, got state %v", mover.State)
	}
}

// TestBallCarrierScoringTouchdownAdvancesPhase drives a carried ball into
// the home side's scoring endzone (PitchWidth-1) and checks CheckTouchdown
// fires within Resolve: score increments and phase flips to PhaseTouchdown.
func TestBallCarrierScoringTouchdownAdvancesPhase(t *testing.T) {
	state := freshPlayState()
	placeAt(state, 1, PitchWidth-2, 5)
	state.Ball = Ball{Location: BallCarried, Carrier: 1, Pos: Position{X: PitchWidth - 2, Y: 5}}

	d := dice.NewScripted(nil, nil, nil)
	result, err := Resolve(state, MoveAction{PlayerID: 1, X: PitchWidth - 1, Y: 5}, d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	if result.State.Phase != PhaseTouchdown {
		t.Fatalf("expected PhaseTouchdown once the carrier reaches the endzone, got %v", result.State.Phase)
	}
	if result.State.Home.Score != 1 {
		t.Fatalf("expected home score to increment to 1, got %d", result.State.Home.Score)
	}
}

// TestBlockBothDownKnocksDownBothPlayers scripts an equal-strength block
// (one die, attacker chooses) that rolls both_down, and checks both players
// end up prone with a turnover.
func TestBlockBothDownKnocksDownBothPlayers(t *testing.T) {
	state := freshPlayState()
	placeAt(state, 1, 5, 5)
	placeAt(state, 12, 6, 5)

	// one block die (equal ST, no assists): d6=2 -> both_down.
	// knockDown->resolveArmourAndInjury for each player rolls 2d6 armour
	// then, if broken, 2d6 injury; script generously for both sequences.
	d := dice.NewScripted([]int{2, 2, 2, 2, 2, 2, 2, 2, 2}, nil, nil)
	result, err := Resolve(state, BlockAction{AttackerID: 1, TargetID: 12}, d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	if result.Outcome != OutcomeTurnover {
		t.Fatalf("expected OutcomeTurnover on both_down, got %v", result.Outcome)
	}
	attacker := result.State.Players[1]
	target := result.State.Players[12]
	if attacker.State == Standing {
		t.Fatalf("expected the attacker to fall on both_down")
	}
	if target.State == Standing {
		t.Fatalf("expected the target to fall on both_down")
	}
}

// TestRegenerationReturnsToReservesNotProne pins spec.md §4.6: a successful
// Regeneration roll on a casualty sends the player back to reserves
// (OffPitch), not left lying prone on the pitch occupying a cell.
func TestRegenerationReturnsToReservesNotProne(t *testing.T) {
	state := freshPlayState()
	placeAt(state, 1, 5, 5)
	placeAt(state, 12, 6, 5)
	target := state.Players[12]
	target.Skills = target.Skills.With(Regeneration)

	// block die (rolls defender_down), armour roll that breaks (11), injury
	// roll that's a casualty (12), regeneration roll of 4 (succeeds).
	d := dice.NewScripted([]int{6, 5, 6, 6, 6, 4}, nil, nil)
	result, err := Resolve(state, BlockAction{AttackerID: 1, TargetID: 12}, d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	got := result.State.Players[12]
	if got.State != OffPitch {
		t.Fatalf("expected a regenerated casualty to return to reserves (OffPitch), got %v", got.State)
	}
}

// TestStabSubstitutesBlockResolutionAndNeverTurnsOver pins spec.md §4.4:
// Stab replaces the normal block-dice/push/follow-up pipeline with its own
// armour-and-injury roll against the target, and never causes a turnover
// for the wielder's team even when the armour roll misses.
func TestStabSubstitutesBlockResolutionAndNeverTurnsOver(t *testing.T) {
	state := freshPlayState()
	placeAt(state, 1, 5, 5)
	placeAt(state, 12, 6, 5)
	attacker := state.Players[1]
	attacker.Skills = attacker.Skills.With(Stab)

	// armour roll that misses (2, well under any AV) so no injury follows.
	d := dice.NewScripted([]int{1, 1}, nil, nil)
	result, err := Resolve(state, BlockAction{AttackerID: 1, TargetID: 12}, d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	if result.Outcome == OutcomeTurnover {
		t.Fatalf("expected Stab to never cause a turnover, got OutcomeTurnover")
	}
	target := result.State.Players[12]
	if target.State != Standing {
		t.Fatalf("expected a missed Stab armour roll to leave the target standing, got %v", target.State)
	}
	mover := result.State.Players[1]
	if !mover.HasActed {
		t.Fatalf("expected the attacker to be marked as having acted after Stab")
	}
}

// TestEndTurnSwapsActiveTeamAndResetsPerTurnFlags covers the turn-flow
// handler directly: active team's per-turn flags clear and ActiveTeam flips.
func TestEndTurnSwapsActiveTeamAndResetsPerTurnFlags(t *testing.T) {
	state := freshPlayState()
	state.Home.BlitzUsedThisTurn = true
	state.ActiveTeam = Home

	d := dice.NewScripted(nil, nil, nil)
	result, err := Resolve(state, EndTurnAction{}, d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	if result.State.ActiveTeam != Away {
		t.Fatalf("expected ActiveTeam to flip to Away, got %v", result.State.ActiveTeam)
	}
	if result.State.Home.BlitzUsedThisTurn {
		t.Fatalf("expected the outgoing team's BlitzUsedThisTurn to clear")
	}
}
