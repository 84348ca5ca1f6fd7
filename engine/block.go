package engine

import (
	"sort"

	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/geometry"
)

// BlockFace is one of the six block-dice outcomes spec.md §4.5/Glossary
// names (push appears twice on the physical die; that duplication lives in
// rollBlockDie, not here).
type BlockFace uint8

const (
	FaceAttackerDown BlockFace = iota
	FaceBothDown
	FacePush
	FaceStumble
	FaceDefenderDown
)

// countAssists counts friendly standing players adjacent to target who are
// not themselves in an enemy tacklezone (other than the blocker's own
// target), unless they have Guard — spec.md §4.5.
func countAssists(state *GameState, attacker, target *Player) int {
	n := 0
	for _, id := range state.StandingNeighbours(target.Pos, attacker.Side) {
		assistant := state.Players[id]
		if assistant.ID == attacker.ID {
			continue
		}
		if assistant.Skills.Has(Guard) {
			n++
			continue
		}
		tz := 0
		for _, opp := range state.StandingNeighbours(assistant.Pos, assistant.Side.Opponent()) {
			if opp != target.ID {
				tz++
			}
		}
		if tz == 0 {
			n++
		}
	}
	return n
}

// blockDice returns the number of dice rolled and whether the attacker (as
// opposed to the defender) chooses the result, per spec.md §4.5's five-
// bucket strength-ratio table.
func blockDice(attackerST, defenderST int) (count int, attackerChooses bool) {
	switch {
	case attackerST >= 2*defenderST:
		return 3, true
	case attackerST > defenderST:
		return 2, true
	case attackerST == defenderST:
		return 1, true
	case defenderST >= 2*attackerST:
		return 3, false
	default:
		return 2, false
	}
}

// rollBlockDie maps a D6 roll onto the six-face block die: 1 attacker_down,
// 2 both_down, 3-4 push, 5 stumble, 6 defender_down (Glossary).
func rollBlockDie(roll int) BlockFace {
	switch roll {
	case 1:
		return FaceAttackerDown
	case 2:
		return FaceBothDown
	case 3, 4:
		return FacePush
	case 5:
		return FaceStumble
	default:
		return FaceDefenderDown
	}
}

// pushDirection picks the push destination from the three cells adjacent to
// target on the side away from attacker (spec.md §4.4's "three cones"): an
// empty on-pitch cell first, else an occupied on-pitch one (a chain push).
// When all three lie off the pitch it returns the straight-back cell, and
// pushPlayer resolves a crowd surf.
func pushDirection(state *GameState, attacker, target Position) (Position, bool) {
	dx, dy := 0, 0
	if target.X > attacker.X {
		dx = 1
	} else if target.X < attacker.X {
		dx = -1
	}
	if target.Y > attacker.Y {
		dy = 1
	} else if target.Y < attacker.Y {
		dy = -1
	}
	a, b := Position{X: target.X + int8(dx), Y: target.Y}, Position{X: target.X, Y: target.Y + int8(dy)}
	if dy == 0 {
		a.Y, b.X, b.Y = target.Y-1, target.X+int8(dx), target.Y+1
	} else if dx == 0 {
		a.X, a.Y, b.X = target.X-1, target.Y+int8(dy), target.X+1
	}
	candidates := []Position{{X: target.X + int8(dx), Y: target.Y + int8(dy)}, a, b}
	for _, c := range candidates {
		if !geometry.IsOnPitch(c) {
			continue
		}
		if _, occ := state.occupied(c); !occ {
			return c, true
		}
	}
	for _, c := range candidates {
		if !geometry.IsOnPitch(c) {
			continue
		}
		return c, true
	}
	return candidates[0], true
}

// sideStepDestination implements Side Step (spec.md §4.4): the target,
// not the attacker, chooses the push destination, from any adjacent empty
// on-pitch cell rather than only the attacker's push cone. Candidates are
// tried in geometry.Less order so the choice is stable across replays.
func sideStepDestination(state *GameState, target *Player) (Position, bool) {
	candidates := geometry.Adjacent(target.Pos)
	sort.Slice(candidates, func(i, j int) bool { return geometry.Less(candidates[i], candidates[j]) })
	for _, c := range candidates {
		if !geometry.IsOnPitch(c) {
			continue
		}
		if _, occ := state.occupied(c); !occ {
			return c, true
		}
	}
	return target.Pos, false
}

// resolveStab implements the Stab secret weapon (spec.md §4.4): an armour
// and injury roll straight against target, bypassing block dice and
// assists entirely, and never causing a turnover regardless of result.
func resolveStab(state *GameState, log *eventLog, d dice.Source, attacker, target *Player) Outcome {
	log.emit(EventStab, map[string]any{"attacker_id": attacker.ID, "target_id": target.ID})
	resolveArmourAndInjuryFrom(state, log, d, target, 0, attacker)
	attacker.HasActed = true
	return OutcomeSuccess
}

// resolveChainsaw implements the Chainsaw secret weapon (spec.md §4.4): a
// misfire check (1 drops the attacker instead), otherwise an automatic
// armour break followed by a normal injury roll. Like Stab, it never
// causes a turnover.
func resolveChainsaw(state *GameState, log *eventLog, d dice.Source, attacker, target *Player) Outcome {
	misfire := d.D6()
	log.emit(EventChainsaw, map[string]any{"attacker_id": attacker.ID, "target_id": target.ID, "roll": misfire})
	attacker.HasActed = true
	if misfire == 1 {
		knockDown(state, log, d, attacker, attacker.Pos, true)
		return OutcomeSuccess
	}

	injuryRoll := dice.Sum2D6(d)
	if target.Skills.Has(Stunty) {
		injuryRoll++
	}
	result := classifyInjury(injuryRoll)
	log.emit(EventInjuryRoll, map[string]any{"player_id": target.ID, "roll": injuryRoll, "result": result, "chainsaw": true})
	applyInjuryResult(state, log, d, target, result, attacker.Skills.Has(Stakes))
	return OutcomeSuccess
}

// resolveBlock implements spec.md §4.4 "Block" and §4.5's dice/chooser
// table, including the skill-driven face rewrites (Block, Wrestle, Dodge,
// Tackle, Juggernaut) and the pushback/follow-up/crowd-surf chain. Stab and
// Chainsaw substitute their own resolution entirely and never turn the ball
// over (spec.md §4.4), so they're dispatched before any block dice are
// rolled.
func resolveBlock(state *GameState, log *eventLog, d dice.Source, attacker, target *Player, isBlitz bool) Outcome {
	if attacker.Skills.Has(Chainsaw) {
		return resolveChainsaw(state, log, d, attacker, target)
	}
	if attacker.Skills.Has(Stab) {
		return resolveStab(state, log, d, attacker, target)
	}

	if attacker.Skills.Has(FoulAppearance) {
		roll := d.D6()
		log.emit(EventFoulAppearance, map[string]any{"player_id": attacker.ID, "roll": roll})
		if roll < 2 {
			attacker.HasActed = true
			return OutcomeFailure
		}
	}

	assists := countAssists(state, attacker, target)
	attackerST := attacker.ST + assists
	defenderAssists := countAssists(state, target, attacker)
	defenderST := target.ST + defenderAssists

	count, attackerChooses := blockDice(attackerST, defenderST)

	faces := make([]BlockFace, count)
	for i := 0; i < count; i++ {
		faces[i] = rollBlockDie(d.D6())
	}
	log.emit(EventBlock, map[string]any{
		"attacker_id": attacker.ID, "target_id": target.ID,
		"dice": count, "attacker_chooses": attackerChooses, "faces": faces,
	})

	chosen := chooseBlockFace(faces, attackerChooses)

	if chosen == FaceBothDown && target.Skills.Has(Wrestle) {
		knockDown(state, log, d, attacker, attacker.Pos, false)
		knockDown(state, log, d, target, target.Pos, false)
		attacker.HasActed = true
		return OutcomeSuccess
	}
	if (chosen == FaceAttackerDown || chosen == FaceBothDown) && attacker.Skills.Has(Block) {
		chosen = FacePush
	}
	if chosen == FaceStumble && target.Skills.Has(Dodge) && !attacker.Skills.Has(Tackle) {
		chosen = FacePush
	}
	if chosen == FaceBothDown && isBlitz && attacker.Skills.Has(Juggernaut) {
		chosen = FacePush
	}

	turnover := false
	switch chosen {
	case FaceAttackerDown:
		knockDown(state, log, d, attacker, attacker.Pos, true)
		turnover = true
	case FaceBothDown:
		knockDown(state, log, d, attacker, attacker.Pos, true)
		knockDown(state, log, d, target, target.Pos, true)
		turnover = true
	case FacePush, FaceStumble:
		vacated := target.Pos
		pushPlayer(state, log, d, attacker, target)
		if chosen == FaceStumble {
			knockDownFrom(state, log, d, target, target.Pos, true, attacker)
		}
		if attacker.State == Standing {
			maybeFollowUp(state, log, attacker, target, vacated)
		}
	case FaceDefenderDown:
		vacated := target.Pos
		pushPlayer(state, log, d, attacker, target)
		knockDownFrom(state, log, d, target, target.Pos, true, attacker)
		if attacker.State == Standing {
			maybeFollowUp(state, log, attacker, target, vacated)
		}
	}

	attacker.HasActed = true
	if turnover {
		return OutcomeTurnover
	}
	return OutcomeSuccess
}

// chooseBlockFace applies the deterministic "best for the chooser" policy:
// the chooser side always has a clear preference ordering, so the resolver
// doesn't need an interactive callback for what is otherwise a pure state
// transition.
func chooseBlockFace(faces []BlockFace, attackerChooses bool) BlockFace {
	var order []BlockFace
	if attackerChooses {
		order = []BlockFace{FaceDefenderDown, FacePush, FaceStumble, FaceBothDown, FaceAttackerDown}
	} else {
		order = []BlockFace{FaceAttackerDown, FaceBothDown, FaceStumble, FacePush, FaceDefenderDown}
	}
	for _, want := range order {
		for _, f := range faces {
			if f == want {
				return f
			}
		}
	}
	return faces[0]
}

// pushPlayer moves target one cell away from attacker along the pushback
// chain, handling Side Step/Stand Firm/Grab and crowd-surf off-pitch.
func pushPlayer(state *GameState, log *eventLog, d dice.Source, attacker, target *Player) {
	if target.Skills.Has(StandFirm) {
		return
	}
	var dest Position
	var found bool
	if target.Skills.Has(SideStep) {
		dest, found = sideStepDestination(state, target)
	} else {
		dest, found = pushDirection(state, attacker.Pos, target.Pos)
	}
	if !found {
		return
	}
	log.emit(EventPush, map[string]any{"player_id": target.ID, "from": target.Pos, "to": dest})

	if !geometry.IsOnPitch(dest) {
		log.emit(EventCrowdSurf, map[string]any{"player_id": target.ID})
		resolveArmourAndInjury(state, log, d, target, 0)
		target.State = OffPitch
		if state.Ball.Location == BallCarried && state.Ball.Carrier == target.ID {
			dropCarriedBall(state, log, d, target)
		}
		return
	}
	if occID, occ := state.occupied(dest); occ {
		if attacker.Skills.Has(Grab) {
			return
		}
		chained := state.Players[occID]
		pushPlayer(state, log, d, target, chained)
	}
	target.Pos = dest
	if state.Ball.Location == BallCarried && state.Ball.Carrier == target.ID {
		state.Ball.Pos = dest
		if attacker.Skills.Has(StripBall) && !target.Skills.Has(SureHands) {
			state.Ball = Ball{Location: BallOnGround, Pos: dest}
			bounceFrom(state, log, d, dest)
		}
	}
}

// maybeFollowUp lets the attacker occupy target's vacated cell, mandatory
// under Frenzy and blocked by Fend.
func maybeFollowUp(state *GameState, log *eventLog, attacker, target *Player, vacated Position) {
	if target.Skills.Has(Fend) {
		return
	}
	if _, occ := state.occupied(vacated); occ {
		return
	}
	follow := attacker.Skills.Has(Frenzy)
	if !follow {
		return
	}
	log.emit(EventFollowUp, map[string]any{"player_id": attacker.ID, "to": vacated})
	attacker.Pos = vacated
}

// knockDown drops p to prone at pos and resolves armour+injury with no
// attacker of record (a self-inflicted fall from a failed dodge/GFI, or a
// mutual both-down where no single attacker is credited).
func knockDown(state *GameState, log *eventLog, d dice.Source, p *Player, pos Position, withInjury bool) {
	knockDownFrom(state, log, d, p, pos, withInjury, nil)
}

// knockDownFrom is knockDown's full form: attacker, when non-nil, is the
// player whose block caused this fall, letting the injury roll apply
// Piling On's reroll and Stakes' Regeneration negation (spec.md §4.6).
func knockDownFrom(state *GameState, log *eventLog, d dice.Source, p *Player, pos Position, withInjury bool, attacker *Player) {
	p.State = Prone
	p.Pos = pos
	log.emit(EventPlayerFell, map[string]any{"player_id": p.ID, "pos": pos})
	if state.Ball.Location == BallCarried && state.Ball.Carrier == p.ID {
		dropCarriedBall(state, log, d, p)
	}
	if withInjury {
		resolveArmourAndInjuryFrom(state, log, d, p, 0, attacker)
	}
}
