package engine

import (
	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/geometry"
)

// Resolve is the pure top-level entry point spec.md §6 names: given state
// and a declared action, produce a new state and its event log. Handlers
// never partially mutate the caller's state — on a Fault, the returned
// state is the caller's own pointer, untouched.
func Resolve(state *GameState, action Action, d dice.Source) (Result, error) {
	if err := admissible(state, action); err != nil {
		return Result{State: state}, err
	}

	working := state.Clone()
	log := &eventLog{}

	if consumed := runBigGuyCheck(working, log, d, action); consumed {
		return Result{State: working, Events: log.events, Outcome: OutcomeSuccess}, nil
	}

	outcome := dispatch(working, log, d, action)

	scored := CheckTouchdown(working, log)
	if scored {
		side := Home
		if c, ok := working.Players[working.Ball.Carrier]; ok {
			side = c.Side
		}
		AdvanceAfterTouchdown(working, log, side)
	} else if outcome == OutcomeTurnover {
		working.TurnoverPending = true
		log.emit(EventTurnover, map[string]any{"side": working.ActiveTeam})
		EndTurnFlow(working, log)
	}

	return Result{State: working, Events: log.events, Outcome: outcome}, nil
}

// admissible performs the caller-error checks spec.md §7 names: unknown
// player, non-adjacent block target, out-of-pitch coordinate, an action for
// a player who already acted, or an action type inadmissible in the
// current phase.
func admissible(state *GameState, action Action) error {
	requirePlayer := func(id PlayerID) *Fault {
		p, ok := state.Players[id]
		if !ok {
			return invalidArg("unknown player id %d", id)
		}
		if !p.CanAct() {
			return invalidArg("player %d cannot act (state=%v, has_acted=%v)", id, p.State, p.HasActed)
		}
		return nil
	}

	switch a := action.(type) {
	case EndTurnAction:
		return nil
	case SetupAction:
		if state.Phase != PhaseSetup {
			return invalidArg("setup action outside setup phase")
		}
		if !geometry.IsOnPitch(Position{X: a.X, Y: a.Y}) {
			return invalidArg("setup coordinate (%d,%d) off pitch", a.X, a.Y)
		}
		return nil
	default:
		if state.Phase != PhasePlay {
			return invalidArg("action inadmissible outside play phase")
		}
	}

	switch a := action.(type) {
	case MoveAction:
		if f := requirePlayer(a.PlayerID); f != nil {
			return f
		}
		if !geometry.IsOnPitch(Position{X: a.X, Y: a.Y}) {
			return invalidArg("move coordinate (%d,%d) off pitch", a.X, a.Y)
		}
	case BlockAction:
		if f := requirePlayer(a.AttackerID); f != nil {
			return f
		}
		target, ok := state.Players[a.TargetID]
		if !ok || target.State != Standing {
			return invalidArg("block target %d not a standing player", a.TargetID)
		}
		attacker := state.Players[a.AttackerID]
		if !geometry.IsAdjacent(attacker.Pos, target.Pos) {
			return invalidArg("block target %d not adjacent to attacker %d", a.TargetID, a.AttackerID)
		}
	case BlitzAction:
		if f := requirePlayer(a.PlayerID); f != nil {
			return f
		}
		if state.TeamOf(state.Players[a.PlayerID].Side).BlitzUsedThisTurn {
			return invalidArg("team has already used its blitz this turn")
		}
	case PassAction, HandOffAction, BombThrowAction:
		// target/range legality is resolved and reported via Outcome, not a
		// Fault, per spec.md §4.4; only player existence is a caller error.
	case FoulAction:
		if f := requirePlayer(a.FoulerID); f != nil {
			return f
		}
		target, ok := state.Players[a.TargetID]
		if !ok || (target.State != Prone && target.State != Stunned) {
			return invalidArg("foul target %d not prone/stunned", a.TargetID)
		}
	}
	return nil
}

// bigGuyThreshold is the D6 target each pre-action skill gates on (spec.md
// §4.9 names the roll but not a specific number per skill; all five share
// the source game's common 4+ threshold).
const bigGuyThreshold = 4

// runBigGuyCheck implements spec.md §4.9's pre-action check for Bone-head,
// Really Stupid, Wild Animal, Take Root, and Bloodlust. Returns true if the
// action was consumed without further dispatch: most failures are not a
// turnover, but a failed Bloodlust (refusing to bite a Thrall) is.
func runBigGuyCheck(state *GameState, log *eventLog, d dice.Source, action Action) bool {
	id, ok := actingPlayer(action)
	if !ok {
		return false
	}
	p, ok := state.Players[id]
	if !ok {
		return false
	}

	for _, sk := range []Skill{BoneHead, ReallyStupid, WildAnimal, TakeRoot, Bloodlust} {
		if !p.Skills.Has(sk) {
			continue
		}
		roll := d.D6()
		success := roll >= bigGuyThreshold
		log.emit(EventSkillUsed, map[string]any{"player_id": p.ID, "skill": sk, "roll": roll, "success": success})
		if success {
			if sk == Bloodlust {
				log.emit(EventBloodlust, map[string]any{"player_id": p.ID, "bit_thrall": true})
			}
			continue
		}
		p.HasActed = true
		if sk == Bloodlust {
			log.emit(EventBloodlust, map[string]any{"player_id": p.ID, "bit_thrall": false})
			state.TurnoverPending = true
			log.emit(EventTurnover, map[string]any{"side": state.ActiveTeam})
			EndTurnFlow(state, log)
		}
		return true
	}
	return false
}

// actingPlayer extracts the primary player id an action concerns, used by
// the big-guy check and by admissibility.
func actingPlayer(action Action) (PlayerID, bool) {
	switch a := action.(type) {
	case MoveAction:
		return a.PlayerID, true
	case BlockAction:
		return a.AttackerID, true
	case BlitzAction:
		return a.PlayerID, true
	case PassAction:
		return a.PasserID, true
	case HandOffAction:
		return a.PasserID, true
	case BombThrowAction:
		return a.ThrowerID, true
	case FoulAction:
		return a.FoulerID, true
	case ThrowTeammateAction:
		return a.ThrowerID, true
	case HypnoticGazeAction:
		return a.PlayerID, true
	case BallAndChainAction:
		return a.PlayerID, true
	case MultipleBlockAction:
		return a.AttackerID, true
	case SetupAction:
		return a.PlayerID, true
	default:
		return 0, false
	}
}

// dispatch is the exhaustive per-action-type switch spec.md's Design Notes
// require in place of string-tagged dynamic dispatch.
func dispatch(state *GameState, log *eventLog, d dice.Source, action Action) Outcome {
	switch a := action.(type) {
	case MoveAction:
		return resolveMove(state, log, d, a)
	case BlockAction:
		attacker, target := state.Players[a.AttackerID], state.Players[a.TargetID]
		return resolveBlock(state, log, d, attacker, target, false)
	case BlitzAction:
		return resolveBlitz(state, log, d, a)
	case PassAction:
		return resolvePass(state, log, d, a)
	case HandOffAction:
		return resolveHandOff(state, log, d, a)
	case BombThrowAction:
		return resolveBombThrow(state, log, d, a)
	case FoulAction:
		return resolveFoul(state, log, d, a)
	case ThrowTeammateAction:
		return resolveThrowTeammate(state, log, d, a)
	case HypnoticGazeAction:
		return resolveHypnoticGaze(state, log, d, a)
	case BallAndChainAction:
		return resolveBallAndChain(state, log, d, a)
	case MultipleBlockAction:
		return resolveMultipleBlock(state, log, d, a)
	case EndTurnAction:
		EndTurnFlow(state, log)
		return OutcomeSuccess
	case SetupAction:
		return resolveSetup(state, a)
	default:
		return OutcomeFailure
	}
}

// reroll cascade, spec.md §4.9: skill reroll, then Pro (gated on 4+, once
// per turn), then team reroll (gated on Loner's 4+ check, consumable).
// attempt is re-invoked by the caller on each cascade step; success short-
// circuits the cascade.
type rerollCascade struct {
	skillAvailable bool
	tackleBlocksSkill bool
	player         *Player
	team           *TeamState
}

// tryCascade runs the reroll cascade against an already-failed roll,
// returning true if a reroll was consumed (the caller re-rolls and re-
// checks success themselves).
func tryCascade(state *GameState, log *eventLog, d dice.Source, c rerollCascade) bool {
	if c.skillAvailable && !c.tackleBlocksSkill {
		log.emit(EventRerollUsed, map[string]any{"player_id": c.player.ID, "source": "skill"})
		return true
	}
	if c.player.Skills.Has(ProSkill) && !c.player.ProUsedThisTurn {
		c.player.ProUsedThisTurn = true
		roll := d.D6()
		log.emit(EventProReroll, map[string]any{"player_id": c.player.ID, "roll": roll})
		if roll >= 4 {
			return true
		}
	}
	if !c.team.RerollUsedThisTurn && c.team.RerollsTotal > 0 {
		if c.player.Skills.Has(Loner) {
			roll := d.D6()
			log.emit(EventLonerCheck, map[string]any{"player_id": c.player.ID, "roll": roll})
			if roll < 4 {
				return false
			}
		}
		c.team.RerollUsedThisTurn = true
		c.team.RerollsTotal--
		log.emit(EventRerollUsed, map[string]any{"player_id": c.player.ID, "source": "team"})
		return true
	}
	return false
}
