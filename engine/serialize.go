package engine

import (
	"encoding/json"
	"strconv"

	"github.com/google/uuid"
)

// The enum<->string tables below back MarshalJSON/UnmarshalJSON: spec.md §6
// requires enums to serialise as their snake_case tag, with unknown fields
// ignored and missing optional fields defaulting on read.

var lifecycleNames = map[LifecycleState]string{
	Standing: "standing", Prone: "prone", Stunned: "stunned", KnockedOut: "ko",
	Injured: "injured", Dead: "dead", Ejected: "ejected", OffPitch: "off_pitch",
}
var lifecycleByName = invertString(lifecycleNames)

var phaseNames = map[Phase]string{
	PhaseCoinToss: "coin_toss", PhaseSetup: "setup", PhaseKickoff: "kickoff",
	PhasePlay: "play", PhaseTouchdown: "touchdown", PhaseHalfTime: "half_time", PhaseGameOver: "game_over",
}
var phaseByName = invertString(phaseNames)

var weatherNames = map[Weather]string{
	WeatherSwelteringHeat: "sweltering_heat", WeatherVerySunny: "very_sunny",
	WeatherNice: "nice", WeatherPouringRain: "pouring_rain", WeatherBlizzard: "blizzard",
}
var weatherByName = invertString(weatherNames)

var sideNames = map[Side]string{Home: "home", Away: "away"}
var sideByName = invertString(sideNames)

var ballLocationNames = map[BallLocation]string{
	BallOffPitch: "off_pitch", BallOnGround: "on_ground", BallCarried: "carried",
}
var ballLocationByName = invertString(ballLocationNames)

func invertString[K comparable](m map[K]string) map[string]K {
	out := make(map[string]K, len(m))
	for k, v := range m {
		out[v] = k
	}
	return out
}

type playerJSON struct {
	ID                PlayerID `json:"id"`
	Side              string   `json:"side"`
	Name              string   `json:"name"`
	MA, ST, AG, AV    int
	Skills            []string `json:"skills"`
	State             string   `json:"state"`
	Pos               posJSON  `json:"pos"`
	MovementRemaining int      `json:"movement_remaining"`
	HasMoved          bool     `json:"has_moved"`
	HasActed          bool     `json:"has_acted"`
	UsedBlitz         bool     `json:"used_blitz"`
	LostTacklezones   bool     `json:"lost_tacklezones"`
	ProUsedThisTurn   bool     `json:"pro_used_this_turn"`
}

type posJSON struct {
	X int8 `json:"x"`
	Y int8 `json:"y"`
}

type teamJSON struct {
	Name               string `json:"name"`
	Race               string `json:"race"`
	Side               string `json:"side"`
	Score              int    `json:"score"`
	TurnNumber         int    `json:"turn_number"`
	RerollsTotal       int    `json:"rerolls_total"`
	RerollUsedThisTurn bool   `json:"reroll_used_this_turn"`
	BlitzUsedThisTurn  bool   `json:"blitz_used_this_turn"`
	PassUsedThisTurn   bool   `json:"pass_used_this_turn"`
	FoulUsedThisTurn   bool   `json:"foul_used_this_turn"`
	HasApothecary      bool   `json:"has_apothecary"`
	ApothecaryUsed     bool   `json:"apothecary_used"`
}

type ballJSON struct {
	Location string   `json:"location"`
	Pos      *posJSON `json:"pos,omitempty"`
	Carrier  *PlayerID `json:"carrier,omitempty"`
}

type gameStateJSON struct {
	MatchID         string                  `json:"match_id"`
	Half            int                     `json:"half"`
	Phase           string                  `json:"phase"`
	ActiveTeam      string                  `json:"active_team"`
	KickingTeam     string                  `json:"kicking_team"`
	Weather         string                  `json:"weather"`
	Home            teamJSON                `json:"home"`
	Away            teamJSON                `json:"away"`
	Players         map[string]playerJSON   `json:"players"`
	Ball            ballJSON                `json:"ball"`
	TurnoverPending bool                    `json:"turnover_pending"`
}

func teamToJSON(t TeamState) teamJSON {
	return teamJSON{
		Name: t.Name, Race: t.Race, Side: sideNames[t.Side], Score: t.Score,
		TurnNumber: t.TurnNumber, RerollsTotal: t.RerollsTotal,
		RerollUsedThisTurn: t.RerollUsedThisTurn, BlitzUsedThisTurn: t.BlitzUsedThisTurn,
		PassUsedThisTurn: t.PassUsedThisTurn, FoulUsedThisTurn: t.FoulUsedThisTurn,
		HasApothecary: t.HasApothecary, ApothecaryUsed: t.ApothecaryUsed,
	}
}

func teamFromJSON(j teamJSON) TeamState {
	return TeamState{
		Name: j.Name, Race: j.Race, Side: sideByName[j.Side], Score: j.Score,
		TurnNumber: j.TurnNumber, RerollsTotal: j.RerollsTotal,
		RerollUsedThisTurn: j.RerollUsedThisTurn, BlitzUsedThisTurn: j.BlitzUsedThisTurn,
		PassUsedThisTurn: j.PassUsedThisTurn, FoulUsedThisTurn: j.FoulUsedThisTurn,
		HasApothecary: j.HasApothecary, ApothecaryUsed: j.ApothecaryUsed,
	}
}

// skillNames backs skill (de)serialisation as snake_case tags rather than
// raw bitset indices, so weight/roster files stay human-editable.
var skillNames = map[Skill]string{
	Block: "block", Dodge: "dodge", Tackle: "tackle", Wrestle: "wrestle", Guard: "guard",
	MightyBlow: "mighty_blow", Claw: "claw", PilingOn: "piling_on", Juggernaut: "juggernaut",
	StandFirm: "stand_firm", SideStep: "side_step", Grab: "grab", Frenzy: "frenzy", Fend: "fend",
	StripBall: "strip_ball", SureHands: "sure_hands", BigHand: "big_hand", NoHands: "no_hands",
	Stunty: "stunty", TwoHeads: "two_heads", Titchy: "titchy", Sprint: "sprint", SureFeet: "sure_feet",
	Leap: "leap", DivingTackle: "diving_tackle", Shadowing: "shadowing", Tentacles: "tentacles",
	ProSkill: "pro", Loner: "loner", DirtyPlayer: "dirty_player", SneakyGit: "sneaky_git",
	Regeneration: "regeneration", ApothecaryTeam: "apothecary", SafeThrow: "safe_throw",
	NervesOfSteel: "nerves_of_steel", StrongArm: "strong_arm", Accurate: "accurate", Pass: "pass",
	Catch: "catch", Kick: "kick", CheeringFans: "cheering_fans", BrilliantCoaching: "brilliant_coaching",
	BoneHead: "bone_head", ReallyStupid: "really_stupid", WildAnimal: "wild_animal", TakeRoot: "take_root",
	Bloodlust: "bloodlust", SecretWeapon: "secret_weapon", FoulAppearance: "foul_appearance",
	Stab: "stab", Chainsaw: "chainsaw", ThrowTeammate: "throw_teammate", AlwaysHungry: "always_hungry",
	BallAndChain: "ball_and_chain", HypnoticGaze: "hypnotic_gaze", Decay: "decay", Stakes: "stakes",
}
var skillByName = invertString(skillNames)

func playerToJSON(p *Player) playerJSON {
	var skills []string
	for sk, name := range skillNames {
		if p.Skills.Has(sk) {
			skills = append(skills, name)
		}
	}
	return playerJSON{
		ID: p.ID, Side: sideNames[p.Side], Name: p.Name,
		MA: p.MA, ST: p.ST, AG: p.AG, AV: p.AV, Skills: skills,
		State: lifecycleNames[p.State], Pos: posJSON{X: p.Pos.X, Y: p.Pos.Y},
		MovementRemaining: p.MovementRemaining, HasMoved: p.HasMoved, HasActed: p.HasActed,
		UsedBlitz: p.UsedBlitz, LostTacklezones: p.LostTacklezones, ProUsedThisTurn: p.ProUsedThisTurn,
	}
}

func playerFromJSON(j playerJSON) *Player {
	skills := NewSkillSet()
	for _, name := range j.Skills {
		if sk, ok := skillByName[name]; ok {
			skills = skills.With(sk)
		}
	}
	return &Player{
		ID: j.ID, Side: sideByName[j.Side], Name: j.Name,
		MA: j.MA, ST: j.ST, AG: j.AG, AV: j.AV, Skills: skills,
		State: lifecycleByName[j.State], Pos: Position{X: j.Pos.X, Y: j.Pos.Y},
		MovementRemaining: j.MovementRemaining, HasMoved: j.HasMoved, HasActed: j.HasActed,
		UsedBlitz: j.UsedBlitz, LostTacklezones: j.LostTacklezones, ProUsedThisTurn: j.ProUsedThisTurn,
	}
}

// MarshalJSON implements the self-describing text serialisation spec.md §6
// requires: enums as snake_case tags, positions as {"x":_,"y":_}, players
// as a sparse id-keyed map.
func (s *GameState) MarshalJSON() ([]byte, error) {
	j := gameStateJSON{
		MatchID: s.MatchID.String(), Half: s.Half, Phase: phaseNames[s.Phase],
		ActiveTeam: sideNames[s.ActiveTeam], KickingTeam: sideNames[s.KickingTeam],
		Weather: weatherNames[s.Weather], Home: teamToJSON(s.Home), Away: teamToJSON(s.Away),
		Players: make(map[string]playerJSON, len(s.Players)), TurnoverPending: s.TurnoverPending,
		Ball: ballJSON{Location: ballLocationNames[s.Ball.Location]},
	}
	for id, p := range s.Players {
		j.Players[strconv.Itoa(int(id))] = playerToJSON(p)
	}
	if s.Ball.Location != BallOffPitch {
		pos := posJSON{X: s.Ball.Pos.X, Y: s.Ball.Pos.Y}
		j.Ball.Pos = &pos
	}
	if s.Ball.Location == BallCarried {
		carrier := s.Ball.Carrier
		j.Ball.Carrier = &carrier
	}
	return json.Marshal(j)
}

// UnmarshalJSON decodes the format MarshalJSON produces. Unknown fields are
// ignored by encoding/json's default behaviour; missing optional fields
// keep their Go zero value, matching spec.md's stated defaulting rule.
func (s *GameState) UnmarshalJSON(data []byte) error {
	var j gameStateJSON
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	id, err := uuid.Parse(j.MatchID)
	if err != nil {
		id = uuid.Nil
	}
	*s = GameState{
		MatchID: id, Half: j.Half, Phase: phaseByName[j.Phase],
		ActiveTeam: sideByName[j.ActiveTeam], KickingTeam: sideByName[j.KickingTeam],
		Weather: weatherByName[j.Weather], Home: teamFromJSON(j.Home), Away: teamFromJSON(j.Away),
		Players: make(map[PlayerID]*Player, len(j.Players)), TurnoverPending: j.TurnoverPending,
	}
	for key, pj := range j.Players {
		n, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		s.Players[PlayerID(n)] = playerFromJSON(pj)
	}
	s.Ball.Location = ballLocationByName[j.Ball.Location]
	if j.Ball.Pos != nil {
		s.Ball.Pos = Position{X: j.Ball.Pos.X, Y: j.Ball.Pos.Y}
	}
	if j.Ball.Carrier != nil {
		s.Ball.Carrier = *j.Ball.Carrier
	}
	return nil
}

// MarshalJSON renders a GameEvent as {"type":<tag>,"data":{...}}, the
// closed event-tag vocabulary spec.md §6 names.
func (e GameEvent) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}{Type: e.Type.String(), Data: e.Data})
}

var eventTypeByName = invertString(eventTypeNames)

// UnmarshalJSON reverses MarshalJSON; an unrecognised tag decodes to the
// zero EventType rather than failing, matching the "unknown fields are
// ignored" tolerance spec.md §6 asks for elsewhere in the format.
func (e *GameEvent) UnmarshalJSON(data []byte) error {
	var j struct {
		Type string         `json:"type"`
		Data map[string]any `json:"data"`
	}
	if err := json.Unmarshal(data, &j); err != nil {
		return err
	}
	e.Type = eventTypeByName[j.Type]
	e.Data = j.Data
	return nil
}
