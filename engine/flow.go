package engine

import "github.com/tacklezone/matchcore/dice"

// CheckTouchdown implements spec.md §4.8: a standing carrier of side T in
// T's scoring endzone column always transitions the state to PhaseTouchdown
// on the next resolution. Called after every state transition that may
// move the ball.
func CheckTouchdown(state *GameState, log *eventLog) bool {
	if state.Ball.Location != BallCarried {
		return false
	}
	carrier, ok := state.Players[state.Ball.Carrier]
	if !ok || carrier.State != Standing {
		return false
	}
	if !isInOpponentEndzone(carrier) {
		return false
	}
	state.TeamOf(carrier.Side).Score++
	state.Phase = PhaseTouchdown
	log.emit(EventTouchdown, map[string]any{"side": carrier.Side, "player_id": carrier.ID})
	return true
}

func isInOpponentEndzone(p *Player) bool {
	if p.Side == Home {
		return int(p.Pos.X) == PitchWidth-1
	}
	return int(p.Pos.X) == 0
}

// RunDriveReset implements the post-touchdown reset spec.md §4.8 names:
// eject Secret Weapon players, clear the ball, move every player off-pitch
// ready for the next kickoff's setup phase.
func RunDriveReset(state *GameState, log *eventLog) {
	for _, id := range sortedPlayerIDs(state) {
		p := state.Players[id]
		if p.Skills.Has(SecretWeapon) {
			p.State = Ejected
			log.emit(EventSecretWeaponEjection, map[string]any{"player_id": p.ID})
			continue
		}
		if p.State != Injured && p.State != Dead && p.State != Ejected {
			p.State = OffPitch
		}
	}
	state.Ball = Ball{Location: BallOffPitch}
}

// AdvanceAfterTouchdown moves the state on from PhaseTouchdown: a new
// kickoff if either team still has turns left in the half, otherwise
// half-time or game_over, per spec.md §4.8.
func AdvanceAfterTouchdown(state *GameState, log *eventLog, scoringSide Side) {
	RunDriveReset(state, log)

	if state.Home.TurnNumber < 8 || state.Away.TurnNumber < 8 {
		state.Phase = PhaseKickoff
		state.KickingTeam = scoringSide
		return
	}

	if state.Half == 1 {
		runHalfTime(state, log)
		return
	}
	state.Phase = PhaseGameOver
	log.emit(EventGameOver, map[string]any{"home_score": state.Home.Score, "away_score": state.Away.Score})
}

// runHalfTime implements spec.md §4.8's half_time branch: turn-counter and
// per-turn reroll-flag reset. KO recovery is not rolled here: it runs once
// per drive start inside Kickoff, the single place spec.md §4.8 names for
// the 4+ recovery roll, and the next drive after half_time is itself a
// Kickoff call like any other, so recovery still happens exactly once
// before the second half's first play.
func runHalfTime(state *GameState, log *eventLog) {
	state.Phase = PhaseHalfTime
	log.emit(EventHalfTime, map[string]any{})
	state.Half = 2
	state.Home.TurnNumber = 0
	state.Away.TurnNumber = 0
	state.Home.RerollUsedThisTurn = false
	state.Away.RerollUsedThisTurn = false
}

// RunKORecovery rolls 4+ for every KnockedOut player to return to reserves,
// using d for every roll so the outcome stays deterministic under replay.
// Candidates are visited in ascending player id so the dice stream a replay
// consumes never depends on map iteration order.
func RunKORecovery(state *GameState, log *eventLog, d dice.Source) {
	for _, id := range sortedPlayerIDs(state) {
		p := state.Players[id]
		if p.State != KnockedOut {
			continue
		}
		roll := d.D6()
		log.emit(EventKORecovery, map[string]any{"player_id": p.ID, "roll": roll})
		if roll >= 4 {
			p.State = OffPitch
		}
	}
}

// EndTurnFlow implements spec.md §4.4 "End turn": clears per-turn flags,
// increments the active team's turn counter (capped at 8), converts
// stunned to prone for the side about to become active, and swaps
// ActiveTeam.
func EndTurnFlow(state *GameState, log *eventLog) {
	active := state.TeamOf(state.ActiveTeam)
	active.RerollUsedThisTurn = false
	active.BlitzUsedThisTurn = false
	active.PassUsedThisTurn = false
	active.FoulUsedThisTurn = false
	if active.TurnNumber < 8 {
		active.TurnNumber++
	}

	next := state.ActiveTeam.Opponent()
	for _, id := range sortedPlayerIDs(state) {
		p := state.Players[id]
		if p.Side == next && p.State == Stunned {
			p.State = Prone
		}
		if p.Side == state.ActiveTeam {
			p.HasMoved = false
			p.HasActed = false
			p.UsedBlitz = false
			p.LostTacklezones = false
			p.ProUsedThisTurn = false
			if p.State == Standing {
				p.MovementRemaining = p.MA
			}
		}
	}
	state.ActiveTeam = next
	state.TurnoverPending = false
}
