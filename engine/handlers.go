package engine

import (
	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/geometry"
)

// rangeBucket classifies a Chebyshev distance into the pass-range buckets
// spec.md §4.4 names.
type rangeBucket uint8

const (
	rangeQuick rangeBucket = iota
	rangeShort
	rangeLong
	rangeBomb
)

func classifyRange(dist int) rangeBucket {
	switch {
	case dist <= 3:
		return rangeQuick
	case dist <= 6:
		return rangeShort
	case dist <= 10:
		return rangeLong
	default:
		return rangeBomb
	}
}

func rangeModifier(b rangeBucket) int {
	switch b {
	case rangeShort:
		return 0
	case rangeLong:
		return 1
	case rangeBomb:
		return 2
	default:
		return 0
	}
}

// resolveMove implements spec.md §4.4 "Move": walk the chosen path,
// resolving tentacles/dodge/GFI at each step, auto-picking-up a loose ball,
// and ending in a turnover on any failed dodge or GFI.
func resolveMove(state *GameState, log *eventLog, d dice.Source, a MoveAction) Outcome {
	mover := state.Players[a.PlayerID]
	dest := Position{X: a.X, Y: a.Y}
	paths := FindPaths(state, a.PlayerID)
	path, ok := paths[dest]
	if !ok {
		return OutcomeFailure
	}

	team := state.TeamOf(mover.Side)
	cur := mover.Pos
	for _, step := range path.Steps {
		if tz := state.TacklezoneCount(cur, mover.Side, mover.ID); tz > 0 {
			if marker, caught := checkTentacles(state, log, d, mover, cur); caught {
				log.emit(EventTentacles, map[string]any{"player_id": mover.ID, "marker_id": marker})
				mover.Pos = cur
				mover.HasMoved = true
				mover.HasActed = true
				maybeAutoPickup(state, log, d, mover)
				return OutcomeSuccess
			}
		}

		if step.RequiresDodge {
			if !resolveDodgeStep(state, log, d, mover, team, step) {
				knockDown(state, log, d, mover, cur, true)
				mover.HasActed = true
				return OutcomeTurnover
			}
			checkDivingTackleAndShadowing(state, log, mover, cur, step.To)
		}

		if step.IsGFI {
			needed := 2
			if state.Weather == WeatherBlizzard {
				needed = 3
			}
			roll := d.D6()
			ok := roll >= needed
			log.emit(EventGFI, map[string]any{"player_id": mover.ID, "roll": roll, "needed": needed, "success": ok})
			if !ok {
				reroll := tryCascade(state, log, d, rerollCascade{
					skillAvailable: mover.Skills.Has(SureFeet),
					player:         mover, team: team,
				})
				if reroll {
					roll = d.D6()
					ok = roll >= needed
					log.emit(EventGFI, map[string]any{"player_id": mover.ID, "roll": roll, "needed": needed, "success": ok, "rerolled": true})
				}
			}
			if !ok {
				knockDown(state, log, d, mover, cur, true)
				mover.HasActed = true
				return OutcomeTurnover
			}
		}

		mover.Pos = step.To
		cur = step.To
		log.emit(EventMove, map[string]any{"player_id": mover.ID, "to": cur})
		if state.Ball.Location == BallCarried && state.Ball.Carrier == mover.ID {
			state.Ball.Pos = cur
		}
		maybeAutoPickup(state, log, d, mover)
	}

	mover.HasMoved = true
	mover.MovementRemaining -= path.Cost
	mover.HasActed = true
	return OutcomeSuccess
}

// checkTentacles resolves the opposed D6+ST tentacles check spec.md §4.4
// names: the mover loses if any Tentacles-skilled marker beats them.
func checkTentacles(state *GameState, log *eventLog, d dice.Source, mover *Player, cur Position) (PlayerID, bool) {
	for _, id := range state.StandingNeighbours(cur, mover.Side.Opponent()) {
		marker := state.Players[id]
		if !marker.Skills.Has(Tentacles) {
			continue
		}
		moverRoll := d.D6() + mover.ST
		markerRoll := d.D6() + marker.ST
		if markerRoll > moverRoll {
			return id, true
		}
	}
	return 0, false
}

// resolveDodgeStep rolls the dodge and runs the Dodge-skill / Pro / team
// reroll cascade, honoring the Tackle negation spec.md §4.4 names.
func resolveDodgeStep(state *GameState, log *eventLog, d dice.Source, mover *Player, team *TeamState, step Step) bool {
	markerHasTackle := false
	for _, id := range state.StandingNeighbours(mover.Pos, mover.Side.Opponent()) {
		if state.Players[id].Skills.Has(Tackle) {
			markerHasTackle = true
		}
	}

	roll := d.D6()
	success := roll >= step.DodgeTarget
	log.emit(EventDodge, map[string]any{"player_id": mover.ID, "target": step.DodgeTarget, "roll": roll, "success": success})
	if success {
		return true
	}

	if tryCascade(state, log, d, rerollCascade{
		skillAvailable:    mover.Skills.Has(Dodge),
		tackleBlocksSkill: markerHasTackle,
		player:            mover,
		team:              team,
	}) {
		roll = d.D6()
		success = roll >= step.DodgeTarget
		log.emit(EventDodge, map[string]any{"player_id": mover.ID, "target": step.DodgeTarget, "roll": roll, "success": success, "rerolled": true})
	}
	return success
}

// checkDivingTackleAndShadowing runs the marker reaction after a successful
// dodge out of from: the lowest-id opposing standing marker adjacent to
// from that has Diving Tackle is placed prone in the vacated cell from and
// logged; the dodge result itself is not changed. Shadowing is not resolved
// here: no marker follows the mover.
func checkDivingTackleAndShadowing(state *GameState, log *eventLog, mover *Player, from, to Position) {
	for _, id := range state.StandingNeighbours(from, mover.Side.Opponent()) {
		marker := state.Players[id]
		if marker.Skills.Has(DivingTackle) {
			marker.State = Prone
			marker.Pos = from
			log.emit(EventDivingTackle, map[string]any{"marker_id": marker.ID})
			break
		}
	}
}

// resolveBlitz implements spec.md §4.4 "Blitz": a Move followed by a Block
// in the same action, at most once per team per turn.
func resolveBlitz(state *GameState, log *eventLog, d dice.Source, a BlitzAction) Outcome {
	mover := state.Players[a.PlayerID]
	team := state.TeamOf(mover.Side)
	team.BlitzUsedThisTurn = true
	mover.UsedBlitz = true

	moveOutcome := resolveMove(state, log, d, MoveAction{PlayerID: a.PlayerID, X: a.ToX, Y: a.ToY})
	if moveOutcome == OutcomeTurnover {
		return moveOutcome
	}

	target, ok := state.Players[a.TargetID]
	if !ok || target.State != Standing || !geometry.IsAdjacent(mover.Pos, target.Pos) {
		return OutcomeSuccess
	}
	mover.HasActed = false // the block is still this action, not a new one
	return resolveBlock(state, log, d, mover, target, true)
}

// resolvePass implements spec.md §4.4 "Pass": range-bucketed target,
// accurate/inaccurate/fumble/wildly-inaccurate outcomes, interception
// attempts along the path.
func resolvePass(state *GameState, log *eventLog, d dice.Source, a PassAction) Outcome {
	passer := state.Players[a.PasserID]
	team := state.TeamOf(passer.Side)
	target := Position{X: a.X, Y: a.Y}
	dist := geometry.Distance(passer.Pos, target)
	bucket := classifyRange(dist)

	tz := state.TacklezoneCount(passer.Pos, passer.Side, passer.ID)
	modTarget := 7 - passer.AG + rangeModifier(bucket) + tz
	if passer.Skills.Has(Accurate) {
		modTarget--
	}
	if passer.Skills.Has(StrongArm) && (bucket == rangeLong || bucket == rangeBomb) {
		modTarget--
	}
	if passer.Skills.Has(NervesOfSteel) {
		modTarget -= tz
	}
	passTarget := geometry.Clamp(2, 6, modTarget)

	roll := d.D6()
	success := roll >= passTarget
	wildlyInaccurate := roll == 1
	log.emit(EventPassAttempt, map[string]any{"player_id": passer.ID, "target": passTarget, "roll": roll, "success": success, "range": bucket})

	if !success {
		reroll := tryCascade(state, log, d, rerollCascade{skillAvailable: passer.Skills.Has(Pass), player: passer, team: team})
		if reroll {
			roll = d.D6()
			success = roll >= passTarget
			wildlyInaccurate = roll == 1
			log.emit(EventPassAttempt, map[string]any{"player_id": passer.ID, "target": passTarget, "roll": roll, "success": success, "rerolled": true})
		}
	}

	if wildlyInaccurate && !success {
		if passer.Skills.Has(SureHands) {
			// fumble handled by falling through to scatter below instead
		} else {
			state.Ball = Ball{Location: BallOnGround, Pos: passer.Pos}
			return OutcomeTurnover
		}
	}

	if !success {
		landed := target
		for i := 0; i < 3; i++ {
			landed = geometry.Scatter(landed, d.D8())
		}
		resolveInterceptions(state, log, d, passer.Side, passer.Pos, landed)
		state.Ball = Ball{Location: BallOnGround, Pos: clampOnPitch(landed)}
		bounceFrom(state, log, d, clampOnPitch(landed))
		return OutcomeTurnover
	}

	if !resolveInterceptions(state, log, d, passer.Side, passer.Pos, target) {
		if occID, occ := state.occupied(target); occ {
			occupant := state.Players[occID]
			if occupant.State == Standing {
				state.Ball = Ball{Location: BallOnGround, Pos: target}
				attemptCatch(state, log, d, occupant, true)
				return OutcomeSuccess
			}
		}
		state.Ball = Ball{Location: BallOnGround, Pos: target}
	}
	return OutcomeSuccess
}

// resolveInterceptions lets any standing opposing player along the
// straight line from `from` to `to` attempt an interception, per spec.md
// §4.4's `7 - their_AG + 1` target, opposed by Safe Throw.
func resolveInterceptions(state *GameState, log *eventLog, d dice.Source, passerSide Side, from, to Position) bool {
	for _, id := range sortedPlayerIDs(state) {
		p := state.Players[id]
		if p.Side == passerSide.Opponent() && p.State == Standing && onLine(from, to, p.Pos) {
			target := geometry.Clamp(2, 6, 7-p.AG+1)
			roll := d.D6()
			success := roll >= target
			log.emit(EventInterception, map[string]any{"player_id": p.ID, "target": target, "roll": roll, "success": success})
			if success {
				state.Ball = Ball{Location: BallCarried, Carrier: p.ID, Pos: p.Pos}
				return true
			}
		}
	}
	return false
}

// onLine is a coarse straight-line test: cell lies on the line segment from
// a to b if its distance to each endpoint sums to the segment's own
// distance (within grid rounding).
func onLine(a, b, cell Position) bool {
	if cell == a || cell == b {
		return false
	}
	total := geometry.Distance(a, b)
	return geometry.Distance(a, cell)+geometry.Distance(cell, b) <= total+1
}

func clampOnPitch(p Position) Position {
	return geometry.NearestSidelineCell(p)
}

// resolveHandOff implements spec.md §4.4 "Pass/HandOff": a no-roll-range
// pass to an adjacent teammate resolved as a quick-range pass/catch.
func resolveHandOff(state *GameState, log *eventLog, d dice.Source, a HandOffAction) Outcome {
	passer := state.Players[a.PasserID]
	target, ok := state.Players[a.TargetID]
	if !ok || !geometry.IsAdjacent(passer.Pos, target.Pos) {
		return OutcomeFailure
	}
	state.Ball = Ball{Location: BallOnGround, Pos: target.Pos}
	attemptCatch(state, log, d, target, true)
	if state.Ball.Location == BallCarried && state.Ball.Carrier == target.ID {
		return OutcomeSuccess
	}
	return OutcomeTurnover
}

// resolveBombThrow implements spec.md §4.4's bomb variant: an accurate
// throw detonates a 3x3 burst at the target cell with armour+injury per
// hit.
func resolveBombThrow(state *GameState, log *eventLog, d dice.Source, a BombThrowAction) Outcome {
	thrower := state.Players[a.ThrowerID]
	target := Position{X: a.X, Y: a.Y}
	dist := geometry.Distance(thrower.Pos, target)
	bucket := classifyRange(dist)
	passTarget := geometry.Clamp(2, 6, 7-thrower.AG+rangeModifier(bucket))
	roll := d.D6()
	accurate := roll >= passTarget
	log.emit(EventPassAttempt, map[string]any{"player_id": thrower.ID, "target": passTarget, "roll": roll, "success": accurate, "bomb": true})
	if !accurate {
		return OutcomeTurnover
	}
	for dx := int8(-1); dx <= 1; dx++ {
		for dy := int8(-1); dy <= 1; dy++ {
			cell := Position{X: target.X + dx, Y: target.Y + dy}
			if id, occ := state.occupied(cell); occ {
				resolveArmourAndInjury(state, log, d, state.Players[id], 0)
			}
		}
	}
	return OutcomeSuccess
}

// resolveFoul implements spec.md §4.4 "Foul": armour roll against a prone
// or stunned adjacent target, net assists, Dirty Player +1, and ejection on
// doubles unless Sneaky Git.
func resolveFoul(state *GameState, log *eventLog, d dice.Source, a FoulAction) Outcome {
	fouler := state.Players[a.FoulerID]
	target := state.Players[a.TargetID]
	team := state.TeamOf(fouler.Side)
	team.FoulUsedThisTurn = true

	offensiveAssists := countAssists(state, fouler, target)
	defensiveAssists := countAssists(state, target, fouler)
	net := offensiveAssists - defensiveAssists

	mod := net
	if fouler.Skills.Has(DirtyPlayer) {
		mod++
	}

	armourDoubles, injuryDoubles := false, false
	armourRoll1, armourRoll2 := d.D6(), d.D6()
	armourDoubles = armourRoll1 == armourRoll2
	armourTotal := armourRoll1 + armourRoll2 + mod
	broken := armourTotal > target.AV
	log.emit(EventArmourRoll, map[string]any{"player_id": target.ID, "roll": armourRoll1 + armourRoll2, "modifier": mod, "broken": broken, "foul": true})

	if broken {
		ir1, ir2 := d.D6(), d.D6()
		injuryDoubles = ir1 == ir2
		result := classifyInjury(ir1 + ir2)
		log.emit(EventInjuryRoll, map[string]any{"player_id": target.ID, "result": result, "foul": true})
		applyInjuryResult(state, log, d, target, result, fouler.Skills.Has(Stakes))
	}

	fouler.HasActed = true
	if (armourDoubles || injuryDoubles) && !fouler.Skills.Has(SneakyGit) {
		fouler.State = Ejected
		log.emit(EventSecretWeaponEjection, map[string]any{"player_id": fouler.ID, "reason": "foul_doubles"})
		return OutcomeTurnover
	}
	return OutcomeSuccess
}

// resolveThrowTeammate implements the ThrowTeammate specialised handler:
// launches an adjacent teammate to a destination. On a successful roll the
// teammate lands prone on the destination; on a failed roll they scatter
// twice from it, land prone, take an armour roll, and the action is a
// turnover.
func resolveThrowTeammate(state *GameState, log *eventLog, d dice.Source, a ThrowTeammateAction) Outcome {
	thrower := state.Players[a.ThrowerID]
	mate := state.Players[a.TeammateID]
	dest := Position{X: a.X, Y: a.Y}
	dist := geometry.Distance(thrower.Pos, dest)
	bucket := classifyRange(dist)
	target := geometry.Clamp(2, 6, 7-mate.AG+rangeModifier(bucket))
	roll := d.D6()
	success := roll >= target
	log.emit(EventPassAttempt, map[string]any{"player_id": mate.ID, "target": target, "roll": roll, "success": success, "throw_teammate": true})
	thrower.HasActed = true
	if !success {
		landed := dest
		for i := 0; i < 2; i++ {
			landed = geometry.Scatter(landed, d.D8())
		}
		mate.Pos = clampOnPitch(landed)
		mate.State = Prone
		resolveArmourAndInjury(state, log, d, mate, 0)
		return OutcomeTurnover
	}
	mate.Pos = dest
	mate.State = Prone
	return OutcomeSuccess
}

// resolveHypnoticGaze implements the HypnoticGaze specialised handler: a
// freeze attempt on an adjacent opposing player that succeeds when a D6
// plus the user's AG exceeds 7; the target's stats do not enter the roll.
func resolveHypnoticGaze(state *GameState, log *eventLog, d dice.Source, a HypnoticGazeAction) Outcome {
	user := state.Players[a.PlayerID]
	target := state.Players[a.TargetID]
	roll := d.D6()
	success := roll+user.AG > 7
	log.emit(EventHypnoticGaze, map[string]any{"player_id": user.ID, "target_id": target.ID, "roll": roll, "success": success})
	user.HasActed = true
	if success {
		target.LostTacklezones = true
	}
	return OutcomeSuccess
}

// resolveBallAndChain implements the Ball-and-Chain specialised handler: a
// forced one-direction move (the direction is itself rolled) followed by a
// block on whatever standing player it lands adjacent to, if any.
func resolveBallAndChain(state *GameState, log *eventLog, d dice.Source, a BallAndChainAction) Outcome {
	p := state.Players[a.PlayerID]
	dirRoll := d.D8()
	dest := geometry.Scatter(p.Pos, dirRoll)
	if !geometry.IsOnPitch(dest) {
		dest = p.Pos
	}
	if _, occ := state.occupied(dest); occ {
		dest = p.Pos
	}
	p.Pos = dest
	log.emit(EventBallAndChainMove, map[string]any{"player_id": p.ID, "to": dest})
	p.HasActed = true

	for _, id := range state.StandingNeighbours(p.Pos, p.Side.Opponent()) {
		target := state.Players[id]
		log.emit(EventBallAndChainBlock, map[string]any{"player_id": p.ID, "target_id": target.ID})
		return resolveBlock(state, log, d, p, target, false)
	}
	return OutcomeSuccess
}

// resolveMultipleBlock implements spec.md's frozen Multiple-Block ruling
// (Open Questions): each defender gets the attacker's ST+2 and no assists.
func resolveMultipleBlock(state *GameState, log *eventLog, d dice.Source, a MultipleBlockAction) Outcome {
	attacker := state.Players[a.AttackerID]
	worst := OutcomeSuccess
	for _, tid := range []PlayerID{a.TargetAID, a.TargetBID} {
		target, ok := state.Players[tid]
		if !ok || target.State != Standing {
			continue
		}
		effectiveST := attacker.ST + 2
		count, attackerChooses := blockDice(effectiveST, target.ST)
		faces := make([]BlockFace, count)
		for i := range faces {
			faces[i] = rollBlockDie(d.D6())
		}
		log.emit(EventBlock, map[string]any{"attacker_id": attacker.ID, "target_id": target.ID, "dice": count, "multiple_block": true})
		chosen := chooseBlockFace(faces, attackerChooses)
		switch chosen {
		case FaceAttackerDown, FaceBothDown:
			knockDown(state, log, d, attacker, attacker.Pos, !attacker.Skills.Has(Block))
			if chosen == FaceBothDown {
				knockDown(state, log, d, target, target.Pos, false)
			}
			worst = OutcomeTurnover
		case FacePush, FaceStumble, FaceDefenderDown:
			pushPlayer(state, log, d, attacker, target)
			if chosen != FacePush {
				knockDownFrom(state, log, d, target, target.Pos, true, attacker)
			}
		}
	}
	attacker.HasActed = true
	return worst
}

// resolveSetup places a player at a cell during the setup phase; no dice
// are involved.
func resolveSetup(state *GameState, a SetupAction) Outcome {
	p, ok := state.Players[a.PlayerID]
	if !ok {
		return OutcomeFailure
	}
	p.Pos = Position{X: a.X, Y: a.Y}
	p.State = Standing

	anyLeft := false
	for _, other := range state.Players {
		if other.State == OffPitch {
			anyLeft = true
			break
		}
	}
	if !anyLeft {
		state.Phase = PhaseKickoff
	}
	return OutcomeSuccess
}
