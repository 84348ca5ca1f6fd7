package engine

import "github.com/google/uuid"

// RosterEntry is one positional entry of a team roster definition, the
// shape spec.md §6 names under "In": `{name, count, MA, ST, AG, AV,
// skills[], race?}`. Concrete loading lives in package roster; engine only
// needs the shape to build a starting GameState from it.
type RosterEntry struct {
	Name   string
	Count  int
	MA, ST, AG, AV int
	Skills []Skill
	Race   string
}

// RosterDef names a team for match setup.
type RosterDef struct {
	Name    string
	Race    string
	Entries []RosterEntry
}

// NewMatch builds the PhaseSetup starting state for a match between two
// rosters, minting a fresh MatchID and placing all 22 players off-pitch
// ready for SetupAction placement.
func NewMatch(home, away RosterDef, rerollsPerTeam int) *GameState {
	state := &GameState{
		MatchID: uuid.New(),
		Half:    1,
		Phase:   PhaseSetup,
		ActiveTeam: Home,
		KickingTeam: Home,
		Weather: WeatherNice,
		Home: TeamState{Name: home.Name, Race: home.Race, Side: Home, TurnNumber: 1, RerollsTotal: rerollsPerTeam},
		Away: TeamState{Name: away.Name, Race: away.Race, Side: Away, TurnNumber: 1, RerollsTotal: rerollsPerTeam},
		Players: make(map[PlayerID]*Player, 22),
		Ball:    Ball{Location: BallOffPitch},
	}

	nextID := PlayerID(1)
	placeRoster(state, home.Entries, Home, &nextID)
	nextID = 12
	placeRoster(state, away.Entries, Away, &nextID)
	return state
}

func placeRoster(state *GameState, entries []RosterEntry, side Side, nextID *PlayerID) {
	for _, entry := range entries {
		for i := 0; i < entry.Count; i++ {
			skills := NewSkillSet()
			for _, sk := range entry.Skills {
				skills = skills.With(sk)
			}
			id := *nextID
			*nextID++
			state.Players[id] = &Player{
				ID: id, Side: side, Name: entry.Name,
				MA: entry.MA, ST: entry.ST, AG: entry.AG, AV: entry.AV,
				Skills: skills, State: OffPitch, MovementRemaining: entry.MA,
			}
		}
	}
}
