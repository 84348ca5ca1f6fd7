package engine

import (
	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/geometry"
)

// KickoffEvent names the eleven 2D6-indexed entries of spec.md §4.7's
// kickoff table.
type KickoffEvent uint8

const (
	EventGetTheRef KickoffEvent = iota
	EventRiot
	EventPerfectDefence
	EventHighKick
	EventCheeringFansEvent
	EventBrilliantCoachingEvent
	EventChangingWeather
	EventQuickSnap
	EventBlitzEvent
	EventThrowARock
	EventPitchInvasion
)

// kickoffTable maps a 2D6 roll (2..12) to its named event, per spec.md
// §4.7. 7 ("changing weather") sits at the table's midpoint as in the
// source game.
var kickoffTable = map[int]KickoffEvent{
	2: EventGetTheRef, 3: EventRiot, 4: EventPerfectDefence, 5: EventHighKick,
	6: EventCheeringFansEvent, 7: EventChangingWeather, 8: EventBrilliantCoachingEvent,
	9: EventQuickSnap, 10: EventBlitzEvent, 11: EventThrowARock, 12: EventPitchInvasion,
}

// ResolveKickoff runs spec.md §4.7's five-step procedure: placement is the
// caller's concern (the kicking coach's chosen cell is passed in as aim);
// this resolves scatter, the event table, and the touchback/catch branch.
func ResolveKickoff(state *GameState, log *eventLog, d dice.Source, aim Position, receivingSide Side) {
	log.emit(EventKickoff, map[string]any{"aim": aim, "receiving_side": receivingSide})

	dirRoll := d.D8()
	distance := dice.Sum2D6(d)
	landed := aim
	for i := 0; i < distance; i++ {
		landed = geometry.Scatter(landed, dirRoll)
	}

	roll := dice.Sum2D6(d)
	event := kickoffTable[roll]
	log.emit(EventKickoffEvent, map[string]any{"roll": roll, "event": event})
	applyKickoffEvent(state, log, d, event, receivingSide)

	receivingHalf := func(p Position) bool {
		if receivingSide == Home {
			return int(p.X) < PitchWidth/2
		}
		return int(p.X) >= PitchWidth/2
	}

	if !geometry.IsOnPitch(landed) || !receivingHalf(landed) {
		state.Ball = Ball{Location: BallOnGround, Pos: aim}
		return
	}

	if occID, occ := state.occupied(landed); occ {
		occupant := state.Players[occID]
		if occupant.State == Standing {
			state.Ball = Ball{Location: BallOnGround, Pos: landed}
			attemptCatch(state, log, d, occupant, false)
			return
		}
	}
	state.Ball = Ball{Location: BallOnGround, Pos: landed}
	bounceFrom(state, log, d, landed)
}

// Kickoff is the exported entry point a harness outside this package uses
// to drive the kickoff phase: it clones state, resolves the kick, runs
// knocked-out recovery for both sides, and leaves the state in PhasePlay
// with receivingSide active, mirroring Resolve's clone-then-mutate shape.
func Kickoff(state *GameState, d dice.Source, aim Position, receivingSide Side) (*GameState, []GameEvent) {
	working := state.Clone()
	log := &eventLog{}
	ResolveKickoff(working, log, d, aim, receivingSide)
	RunKORecovery(working, log, d)
	working.Phase = PhasePlay
	working.ActiveTeam = receivingSide
	return working, log.events
}

// applyKickoffEvent runs the deterministic sub-procedure for each named
// kickoff event. Riot, Quick Snap, Throw a Rock, Pitch Invasion and
// Changing Weather are applied directly. Get the Ref, Perfect Defence, High
// Kick, Cheering Fans, Brilliant Coaching and Blitz are logged only: no
// reroll, extra move or board change is applied for them.
func applyKickoffEvent(state *GameState, log *eventLog, d dice.Source, event KickoffEvent, receivingSide Side) {
	switch event {
	case EventRiot:
		delta := 1
		if d.D6() >= 4 {
			delta = -1
		}
		kicking := receivingSide.Opponent()
		team := state.TeamOf(kicking)
		team.TurnNumber += delta
		if team.TurnNumber < 1 {
			team.TurnNumber = 1
		}
	case EventQuickSnap:
		for _, id := range sortedPlayerIDs(state) {
			p := state.Players[id]
			if p.Side == receivingSide && p.State == Standing {
				p.MovementRemaining++
			}
		}
	case EventThrowARock:
		var victim *Player
		for _, id := range sortedPlayerIDs(state) {
			p := state.Players[id]
			if p.State == Standing {
				victim = p
				break
			}
		}
		if victim != nil {
			victim.State = Stunned
		}
	case EventPitchInvasion:
		// Stuns D3 players per team (spec.md §4.7), rolled separately for
		// each side and in a fixed home-then-away order so the dice stream
		// never depends on map iteration.
		for _, side := range []Side{Home, Away} {
			n := d.D3()
			log.emit(EventKickoffEvent, map[string]any{"pitch_invasion_side": side, "roll": n})
			stunned := 0
			for _, id := range sortedPlayerIDs(state) {
				if stunned >= n {
					break
				}
				p := state.Players[id]
				if p.Side == side && p.State == Standing {
					p.State = Stunned
					stunned++
				}
			}
		}
	case EventChangingWeather:
		weathers := []Weather{WeatherSwelteringHeat, WeatherVerySunny, WeatherNice, WeatherNice, WeatherPouringRain, WeatherBlizzard}
		roll := dice.Sum2D6(d)
		idx := roll % len(weathers)
		state.Weather = weathers[idx]
		log.emit(EventWeatherChange, map[string]any{"weather": state.Weather})
	case EventHighKick, EventGetTheRef, EventPerfectDefence, EventCheeringFansEvent, EventBrilliantCoachingEvent, EventBlitzEvent:
		// Logged via EventKickoffEvent above; no further effect is applied
		// for these events.
	}
}
