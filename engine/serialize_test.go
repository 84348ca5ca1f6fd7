package engine

import (
	"encoding/json"
	"testing"
)

func TestGameStateRoundTripsThroughJSON(t *testing.T) {
	home, away := smallRosters()
	state := NewMatch(home, away, 3)
	state.Players[1].Skills = state.Players[1].Skills.With(Block)
	state.Players[1].Skills = state.Players[1].Skills.With(Dodge)
	state.Players[1].Pos = Position{X: 4, Y: 5}
	state.Ball = Ball{Location: BallCarried, Carrier: 1, Pos: Position{X: 4, Y: 5}}

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var out GameState
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}

	if out.MatchID != state.MatchID {
		t.Fatalf("match id did not round-trip: %v vs %v", out.MatchID, state.MatchID)
	}
	if out.Ball.Location != BallCarried || out.Ball.Carrier != 1 {
		t.Fatalf("ball state did not round-trip: %+v", out.Ball)
	}
	if len(out.Players) != len(state.Players) {
		t.Fatalf("player count mismatch: got %d want %d", len(out.Players), len(state.Players))
	}
	p := out.Players[1]
	if p == nil {
		t.Fatalf("player 1 missing after round-trip")
	}
	if !p.Skills.Has(Block) || !p.Skills.Has(Dodge) {
		t.Fatalf("expected player 1 to keep Block and Dodge after round-trip")
	}
	if p.Pos != (Position{X: 4, Y: 5}) {
		t.Fatalf("player position did not round-trip: %+v", p.Pos)
	}
}

func TestGameStateJSONUsesSnakeCaseEnumTags(t *testing.T) {
	home, away := smallRosters()
	state := NewMatch(home, away, 2)
	state.Phase = PhaseHalfTime
	state.Weather = WeatherPouringRain

	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var raw map[string]any
	if err := json.Unmarshal(data, &raw); err != nil {
		t.Fatalf("unmarshal into map failed: %v", err)
	}
	if raw["phase"] != "half_time" {
		t.Fatalf("expected phase tag \"half_time\", got %v", raw["phase"])
	}
	if raw["weather"] != "pouring_rain" {
		t.Fatalf("expected weather tag \"pouring_rain\", got %v", raw["weather"])
	}
}

func TestGameStateUnmarshalIgnoresUnknownFields(t *testing.T) {
	home, away := smallRosters()
	state := NewMatch(home, away, 2)
	data, err := json.Marshal(state)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}

	var withExtra map[string]any
	if err := json.Unmarshal(data, &withExtra); err != nil {
		t.Fatalf("unmarshal into map failed: %v", err)
	}
	withExtra["totally_unknown_field"] = "should be ignored"
	patched, err := json.Marshal(withExtra)
	if err != nil {
		t.Fatalf("re-marshal failed: %v", err)
	}

	var out GameState
	if err := json.Unmarshal(patched, &out); err != nil {
		t.Fatalf("unmarshal with an unknown field should not error: %v", err)
	}
	if out.MatchID != state.MatchID {
		t.Fatalf("match id did not survive a round-trip with an injected unknown field")
	}
}

func TestGameEventRoundTripsThroughJSON(t *testing.T) {
	ev := GameEvent{Type: EventTouchdown, Data: map[string]any{"side": "home", "player_id": float64(3)}}
	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("marshal failed: %v", err)
	}
	var out GameEvent
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal failed: %v", err)
	}
	if out.Type != EventTouchdown {
		t.Fatalf("event type did not round-trip: got %v", out.Type)
	}
	if out.Data["side"] != "home" {
		t.Fatalf("event data did not round-trip: %+v", out.Data)
	}
}

func TestGameEventUnknownTagDecodesToZeroValue(t *testing.T) {
	var out GameEvent
	if err := json.Unmarshal([]byte(`{"type":"not_a_real_event","data":{}}`), &out); err != nil {
		t.Fatalf("unmarshal of an unrecognised tag should not error: %v", err)
	}
	if out.Type != EventType(0) {
		t.Fatalf("expected the zero EventType for an unknown tag, got %v", out.Type)
	}
}
