package engine

import (
	"testing"

	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/roster"
)

func smallRosters() (RosterDef, RosterDef) {
	return roster.Builtin("home"), roster.Builtin("away")
}

// setupMatch places every player via the engine's own setup action
// enumeration until it auto-transitions to PhaseKickoff.
func setupMatch(t *testing.T, d dice.Source) *GameState {
	t.Helper()
	home, away := smallRosters()
	state := NewMatch(home, away, 2)
	for state.Phase == PhaseSetup {
		actions := AvailableActions(state)
		if len(actions) == 0 {
			t.Fatalf("no setup actions available but phase is still PhaseSetup")
		}
		result, err := Resolve(state, actions[0], d)
		if err != nil {
			t.Fatalf("setup placement failed: %v", err)
		}
		state = result.State
		if state.Phase == PhaseSetup {
			state.ActiveTeam = state.ActiveTeam.Opponent()
		}
	}

	aim := Position{X: PitchWidth / 2, Y: PitchHeight / 2}
	state, _ = Kickoff(state, d, aim, state.KickingTeam.Opponent())
	return state
}

func TestResolveNeverMutatesInputOnFault(t *testing.T) {
	d := dice.NewSeeded(1)
	home, away := smallRosters()
	state := NewMatch(home, away, 2)

	badAction := MoveAction{PlayerID: 255, X: 0, Y: 0}
	result, err := Resolve(state, badAction, d)
	if err == nil {
		t.Fatalf("expected a Fault for an unknown player id")
	}
	if result.State != state {
		t.Fatalf("on Fault, Resolve must return the caller's own state pointer unchanged")
	}
}

func TestResolveNeverAliasesInputStateOnSuccess(t *testing.T) {
	d := dice.NewSeeded(2)
	state := setupMatch(t, d)

	actions := AvailableActions(state)
	if len(actions) == 0 {
		t.Fatalf("expected at least EndTurnAction to be available")
	}
	result, err := Resolve(state, actions[0], d)
	if err != nil {
		t.Fatalf("unexpected Fault: %v", err)
	}
	if result.State == state {
		t.Fatalf("Resolve must return a freshly cloned state, never the caller's own pointer, on success")
	}
}

func TestSinglePlayerPerCellInvariant(t *testing.T) {
	d := dice.NewSeeded(3)
	state := setupMatch(t, d)

	seen := make(map[Position]PlayerID)
	for id, p := range state.Players {
		if !p.OnPitch() {
			continue
		}
		if other, ok := seen[p.Pos]; ok {
			t.Fatalf("players %d and %d both occupy %+v", id, other, p.Pos)
		}
		seen[p.Pos] = id
	}
}

func TestOnPitchRequiresLiveLifecycleState(t *testing.T) {
	p := &Player{State: Standing, Pos: Position{X: 5, Y: 5}}
	if !p.OnPitch() {
		t.Fatalf("a standing in-bounds player should be on pitch")
	}
	for _, st := range []LifecycleState{OffPitch, Injured, Dead, Ejected, KnockedOut} {
		p.State = st
		if p.OnPitch() {
			t.Fatalf("state %v should never report OnPitch", st)
		}
	}
}

func TestExertsTacklezoneOnlyWhenStandingAndNotLost(t *testing.T) {
	p := &Player{State: Standing}
	if !p.ExertsTacklezone() {
		t.Fatalf("a standing player with no lost tacklezone should exert one")
	}
	p.LostTacklezones = true
	if p.ExertsTacklezone() {
		t.Fatalf("a player who lost their tacklezone this step should not exert one")
	}
	p.LostTacklezones = false
	p.State = Prone
	if p.ExertsTacklezone() {
		t.Fatalf("a prone player should never exert a tacklezone")
	}
}

func TestCloneIsDeepNotShallow(t *testing.T) {
	home, away := smallRosters()
	state := NewMatch(home, away, 2)
	clone := state.Clone()

	clone.Players[1].Pos = Position{X: 9, Y: 9}
	if state.Players[1].Pos == clone.Players[1].Pos {
		t.Fatalf("mutating the clone's player must not affect the original")
	}

	clone.Home.Score = 99
	if state.Home.Score == clone.Home.Score {
		t.Fatalf("mutating the clone's team state must not affect the original")
	}
}

func TestAdmissiblePlayerCannotActTwice(t *testing.T) {
	d := dice.NewSeeded(4)
	state := setupMatch(t, d)

	var moverID PlayerID
	for id, p := range state.Players {
		if p.Side == state.ActiveTeam && p.CanAct() {
			moverID = id
			break
		}
	}
	if moverID == 0 {
		t.Skip("no actor available this phase to exercise the double-act check")
	}

	p := state.Players[moverID]
	p.HasActed = true
	_, err := Resolve(state, MoveAction{PlayerID: moverID, X: p.Pos.X, Y: p.Pos.Y}, d)
	if err == nil {
		t.Fatalf("expected a Fault when acting with a player who has already acted")
	}
}
