package engine

import (
	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/geometry"
)

// pickupTarget computes clamp(2, 6, 7 - AG + TZ) with the pouring-rain and
// Big Hand modifiers spec.md §4.3 names.
func pickupTarget(state *GameState, p *Player) int {
	if p.Skills.Has(BigHand) {
		return geometry.Clamp(2, 6, 7-p.AG)
	}
	tz := state.TacklezoneCount(p.Pos, p.Side, p.ID)
	target := 7 - p.AG + tz
	if state.Weather == WeatherPouringRain {
		target++
	}
	return geometry.Clamp(2, 6, target)
}

// catchTarget computes clamp(2, 6, 7 - AG + TZ - modifier), modifier +1 for
// accurate pass/handoff per spec.md §4.3.
func catchTarget(state *GameState, p *Player, accurate bool) int {
	tz := state.TacklezoneCount(p.Pos, p.Side, p.ID)
	target := 7 - p.AG + tz
	if accurate {
		target--
	}
	return geometry.Clamp(2, 6, target)
}

// attemptPickup resolves a pickup attempt at cell, emitting a pickup event
// and bouncing the ball on failure. No Hands players may never attempt.
func attemptPickup(state *GameState, log *eventLog, d dice.Source, p *Player) {
	if p.Skills.Has(NoHands) {
		return
	}
	target := pickupTarget(state, p)
	roll := d.D6()
	success := roll >= target
	log.emit(EventPickup, map[string]any{"player_id": p.ID, "target": target, "roll": roll, "success": success})
	if success {
		state.Ball = Ball{Location: BallCarried, Carrier: p.ID, Pos: p.Pos}
		return
	}
	bounceFrom(state, log, d, p.Pos)
}

// attemptCatch resolves a catch attempt, bouncing on failure.
func attemptCatch(state *GameState, log *eventLog, d dice.Source, p *Player, accurate bool) {
	if p.Skills.Has(NoHands) {
		bounceFrom(state, log, d, p.Pos)
		return
	}
	target := catchTarget(state, p, accurate)
	roll := d.D6()
	success := roll >= target
	log.emit(EventCatch, map[string]any{"player_id": p.ID, "target": target, "roll": roll, "success": success})
	if success {
		state.Ball = Ball{Location: BallCarried, Carrier: p.ID, Pos: p.Pos}
		return
	}
	bounceFrom(state, log, d, p.Pos)
}

// bounceFrom resolves a single D8 bounce from cell, per spec.md §4.3: rests
// on an empty/prone/stunned cell, attempts a catch on a standing occupant,
// or throws in from the nearest sideline if it leaves the pitch.
func bounceFrom(state *GameState, log *eventLog, d dice.Source, from Position) {
	roll := d.D8()
	to := geometry.Scatter(from, roll)
	log.emit(EventBallBounce, map[string]any{"from": from, "to": to, "roll": roll})

	if !geometry.IsOnPitch(to) {
		throwIn(state, log, d, from)
		return
	}
	if occupantID, occ := state.occupied(to); occ {
		occupant := state.Players[occupantID]
		if occupant.State == Standing {
			state.Ball = Ball{Location: BallOnGround, Pos: to}
			attemptCatch(state, log, d, occupant, false)
			return
		}
	}
	state.Ball = Ball{Location: BallOnGround, Pos: to}
}

// throwIn resolves a throw-in from the nearest sideline cell to from: D8
// direction plus a 2D6 scatter distance (spec.md §4.3).
func throwIn(state *GameState, log *eventLog, d dice.Source, from Position) {
	start := geometry.NearestSidelineCell(from)
	dirRoll := d.D8()
	distance := dice.Sum2D6(d)
	to := start
	for i := 0; i < distance; i++ {
		to = geometry.Scatter(to, dirRoll)
	}
	if !geometry.IsOnPitch(to) {
		to = geometry.NearestSidelineCell(to)
	}
	log.emit(EventThrowIn, map[string]any{"from": start, "to": to, "direction": dirRoll, "distance": distance})

	if occupantID, occ := state.occupied(to); occ {
		occupant := state.Players[occupantID]
		if occupant.State == Standing {
			state.Ball = Ball{Location: BallOnGround, Pos: to}
			attemptCatch(state, log, d, occupant, false)
			return
		}
	}
	state.Ball = Ball{Location: BallOnGround, Pos: to}
}

// dropCarriedBall is called whenever a carrier falls; the ball bounces from
// the carrier's cell (spec.md §4.3 "Post-knockdown").
func dropCarriedBall(state *GameState, log *eventLog, d dice.Source, carrier *Player) {
	if state.Ball.Location != BallCarried || state.Ball.Carrier != carrier.ID {
		return
	}
	from := carrier.Pos
	state.Ball = Ball{Location: BallOnGround, Pos: from}
	bounceFrom(state, log, d, from)
}

// maybeAutoPickup triggers the automatic pickup spec.md §4.4's Move handler
// requires when a step lands on a loose ball.
func maybeAutoPickup(state *GameState, log *eventLog, d dice.Source, p *Player) {
	if state.Ball.Location == BallOnGround && state.Ball.Pos == p.Pos {
		attemptPickup(state, log, d, p)
	}
}
