package engine

import "github.com/tacklezone/matchcore/dice"

// resolveArmourAndInjury implies spec.md §4.6: 2D6 + modifiers against AV;
// on a break, roll injury and classify stunned/KO/casualty, applying
// apothecary and regeneration where eligible. extraArmourMod is added to
// the armour roll; every current caller passes 0 (resolveFoul rolls its own
// armour, Dirty Player included, without going through this function).
func resolveArmourAndInjury(state *GameState, log *eventLog, d dice.Source, p *Player, extraArmourMod int) {
	resolveArmourAndInjuryFrom(state, log, d, p, extraArmourMod, nil)
}

// resolveArmourAndInjuryFrom is resolveArmourAndInjury's full form.
// attacker, when non-nil, is the player whose action caused this roll:
// Piling On (spec.md §4.6) lets them go prone to reroll a broken armour's
// injury roll, keeping whichever result is worse for p, and Stakes negates
// p's Regeneration on the resulting casualty.
func resolveArmourAndInjuryFrom(state *GameState, log *eventLog, d dice.Source, p *Player, extraArmourMod int, attacker *Player) {
	mod := extraArmourMod
	if p.Skills.Has(MightyBlow) {
		mod++
	}
	roll := dice.Sum2D6(d)
	total := roll + mod
	broken := total > p.AV
	if p.Skills.Has(Claw) && roll >= 8 {
		broken = true
	}
	log.emit(EventArmourRoll, map[string]any{"player_id": p.ID, "roll": roll, "modifier": mod, "total": total, "av": p.AV, "broken": broken})
	if !broken {
		return
	}

	injuryRoll := dice.Sum2D6(d)
	if p.Skills.Has(Stunty) {
		injuryRoll++
	}
	result := classifyInjury(injuryRoll)
	log.emit(EventInjuryRoll, map[string]any{"player_id": p.ID, "roll": injuryRoll, "result": result})

	if attacker != nil && attacker.Skills.Has(PilingOn) {
		attacker.State = Prone
		log.emit(EventPlayerFell, map[string]any{"player_id": attacker.ID, "pos": attacker.Pos, "piling_on": true})
		reroll := dice.Sum2D6(d)
		if p.Skills.Has(Stunty) {
			reroll++
		}
		rerollResult := classifyInjury(reroll)
		log.emit(EventInjuryRoll, map[string]any{"player_id": p.ID, "roll": reroll, "result": rerollResult, "piling_on": true})
		if rerollResult > result {
			result = rerollResult
		}
	}

	negateRegen := attacker != nil && attacker.Skills.Has(Stakes)
	applyInjuryResult(state, log, d, p, result, negateRegen)
}

// injuryResult names the three outcome bands of spec.md §4.6's injury
// table: 2-7 stunned, 8-9 KO, 10-12 casualty.
type injuryResult uint8

const (
	injuryStunned injuryResult = iota
	injuryKO
	injuryCasualty
)

func (r injuryResult) String() string {
	switch r {
	case injuryStunned:
		return "stunned"
	case injuryKO:
		return "ko"
	default:
		return "casualty"
	}
}

func classifyInjury(roll int) injuryResult {
	switch {
	case roll <= 7:
		return injuryStunned
	case roll <= 9:
		return injuryKO
	default:
		return injuryCasualty
	}
}

// applyInjuryResult mutates p's lifecycle state per the injury band, trying
// the team apothecary once before settling, and resolving Regeneration
// against a casualty result. negateRegen is set when the attacker has
// Stakes, which denies Regeneration entirely (spec.md §4.6).
func applyInjuryResult(state *GameState, log *eventLog, d dice.Source, p *Player, result injuryResult, negateRegen bool) {
	team := state.TeamOf(p.Side)

	if result == injuryCasualty && p.Skills.Has(Regeneration) && !negateRegen {
		roll := d.D6()
		log.emit(EventRegeneration, map[string]any{"player_id": p.ID, "roll": roll})
		if roll >= 4 {
			p.State = OffPitch
			return
		}
	}

	// Decay (spec.md §4.6) makes this player's own casualties resistant to
	// the apothecary's downgrade, on top of whatever happens with other
	// players' rolls.
	if team.HasApothecary && !team.ApothecaryUsed && result != injuryStunned && !p.Skills.Has(Decay) {
		team.ApothecaryUsed = true
		log.emit(EventApothecary, map[string]any{"player_id": p.ID, "downgraded_from": result.String()})
		result--
	}

	switch result {
	case injuryStunned:
		p.State = Stunned
	case injuryKO:
		p.State = KnockedOut
	default:
		p.State = Injured
		log.emit(EventCasualty, map[string]any{"player_id": p.ID})
	}
}
