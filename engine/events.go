package engine

// EventType is the closed event-tag vocabulary spec.md §6 enumerates.
// Serialisation renders these as their snake_case string (see serialize.go).
type EventType uint8

const (
	EventMove EventType = iota
	EventDodge
	EventGFI
	EventBlock
	EventPush
	EventFollowUp
	EventPickup
	EventCatch
	EventPassAttempt
	EventInterception
	EventTouchdown
	EventTurnover
	EventPlayerFell
	EventBallBounce
	EventCrowdSurf
	EventThrowIn
	EventArmourRoll
	EventInjuryRoll
	EventCasualty
	EventApothecary
	EventRegeneration
	EventKORecovery
	EventHalfTime
	EventGameOver
	EventKickoff
	EventWeatherChange
	EventKickoffEvent
	EventSkillUsed
	EventRerollUsed
	EventProReroll
	EventLonerCheck
	EventSecretWeaponEjection
	EventTentacles
	EventShadowing
	EventDivingTackle
	EventLeap
	EventStab
	EventChainsaw
	EventFoulAppearance
	EventBloodlust
	EventHypnoticGaze
	EventBallAndChainMove
	EventBallAndChainBlock
)

var eventTypeNames = map[EventType]string{
	EventMove:                 "move",
	EventDodge:                "dodge",
	EventGFI:                  "gfi",
	EventBlock:                "block",
	EventPush:                 "push",
	EventFollowUp:             "follow_up",
	EventPickup:               "pickup",
	EventCatch:                "catch",
	EventPassAttempt:          "pass_attempt",
	EventInterception:         "interception",
	EventTouchdown:            "touchdown",
	EventTurnover:             "turnover",
	EventPlayerFell:           "player_fell",
	EventBallBounce:           "ball_bounce",
	EventCrowdSurf:            "crowd_surf",
	EventThrowIn:              "throw_in",
	EventArmourRoll:           "armour_roll",
	EventInjuryRoll:           "injury_roll",
	EventCasualty:             "casualty",
	EventApothecary:           "apothecary",
	EventRegeneration:         "regeneration",
	EventKORecovery:           "ko_recovery",
	EventHalfTime:             "half_time",
	EventGameOver:             "game_over",
	EventKickoff:              "kickoff",
	EventWeatherChange:        "weather_change",
	EventKickoffEvent:         "kickoff_event",
	EventSkillUsed:            "skill_used",
	EventRerollUsed:           "reroll_used",
	EventProReroll:            "pro_reroll",
	EventLonerCheck:           "loner_check",
	EventSecretWeaponEjection: "secret_weapon_ejection",
	EventTentacles:            "tentacles",
	EventShadowing:            "shadowing",
	EventDivingTackle:         "diving_tackle",
	EventLeap:                 "leap",
	EventStab:                 "stab",
	EventChainsaw:             "chainsaw",
	EventFoulAppearance:       "foul_appearance",
	EventBloodlust:            "bloodlust",
	EventHypnoticGaze:         "hypnotic_gaze",
	EventBallAndChainMove:     "ball_and_chain_move",
	EventBallAndChainBlock:    "ball_and_chain_block",
}

func (t EventType) String() string {
	if name, ok := eventTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// GameEvent is one entry in the ordered log a resolution produces. Data
// carries whatever payload the event kind needs; handlers populate it with
// plain maps so serialize.go can round-trip arbitrary shapes without per-
// event Go types.
type GameEvent struct {
	Type EventType
	Data map[string]any
}

func newEvent(t EventType, data map[string]any) GameEvent {
	if data == nil {
		data = map[string]any{}
	}
	return GameEvent{Type: t, Data: data}
}

// eventLog accumulates events during a single resolution in production
// order, the ordering guarantee spec.md §5 requires.
type eventLog struct {
	events []GameEvent
}

func (l *eventLog) emit(t EventType, data map[string]any) {
	l.events = append(l.events, newEvent(t, data))
}
