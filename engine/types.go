package engine

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/tacklezone/matchcore/geometry"
)

// Position is the grid cell type the whole engine shares with geometry.
type Position = geometry.Position

// Side mirrors geometry.Side so callers never need to import both packages
// for the same concept.
type Side = geometry.Side

const (
	Home = geometry.Home
	Away = geometry.Away
)

const (
	PitchWidth  = geometry.PitchWidth
	PitchHeight = geometry.PitchHeight
)

// PlayerID is a stable identity: 1..11 home, 12..22 away (spec.md §3).
type PlayerID uint8

// LifecycleState is a player's coarse game-state.
type LifecycleState uint8

const (
	Standing LifecycleState = iota
	Prone
	Stunned
	KnockedOut
	Injured
	Dead
	Ejected
	OffPitch
)

// Phase is the match-level state machine's current step.
type Phase uint8

const (
	PhaseCoinToss Phase = iota
	PhaseSetup
	PhaseKickoff
	PhasePlay
	PhaseTouchdown
	PhaseHalfTime
	PhaseGameOver
)

// Weather affects dice modifiers through a match.
type Weather uint8

const (
	WeatherNice Weather = iota
	WeatherSwelteringHeat
	WeatherVerySunny
	WeatherPouringRain
	WeatherBlizzard
)

// Player is one of the 22 figures on the pitch.
type Player struct {
	ID       PlayerID
	Side     Side
	Name     string
	MA, ST, AG, AV int
	Skills   SkillSet
	State    LifecycleState
	Pos      Position

	MovementRemaining int
	HasMoved          bool
	HasActed          bool
	UsedBlitz         bool
	LostTacklezones   bool
	ProUsedThisTurn   bool
}

// OnPitch reports the position-validity invariant spec.md §3 states:
// on-pitch iff State != OffPitch/Injured/Dead/Ejected/KnockedOut and Pos is
// in bounds.
func (p *Player) OnPitch() bool {
	switch p.State {
	case OffPitch, Injured, Dead, Ejected, KnockedOut:
		return false
	}
	return geometry.IsOnPitch(p.Pos)
}

// ExertsTacklezone reports whether p projects a tacklezone into its
// 8-cell neighbourhood (spec.md §3: only standing players do, and only if
// they haven't lost theirs this step).
func (p *Player) ExertsTacklezone() bool {
	return p.State == Standing && !p.LostTacklezones
}

// CanAct reports whether p is eligible to be the subject of an action.
func (p *Player) CanAct() bool {
	return p.State == Standing && !p.HasActed
}

func (p *Player) clone() Player {
	cp := *p
	cp.Skills = p.Skills.Clone()
	return cp
}

// BallLocation is exactly one of off-pitch, on-ground, or carried, per
// spec.md §3.
type BallLocation uint8

const (
	BallOffPitch BallLocation = iota
	BallOnGround
	BallCarried
)

// Ball tracks the single ball on the pitch.
type Ball struct {
	Location BallLocation
	Pos      Position
	Carrier  PlayerID
}

// TeamState is the per-side scoreboard and per-turn bookkeeping.
type TeamState struct {
	Name        string
	Race        string
	Side        Side
	Score       int
	TurnNumber  int
	RerollsTotal int

	RerollUsedThisTurn bool
	BlitzUsedThisTurn  bool
	PassUsedThisTurn   bool
	FoulUsedThisTurn   bool

	HasApothecary   bool
	ApothecaryUsed  bool
}

// GameState is the complete, immutable-by-convention snapshot of a match.
// Every resolver returns a fresh GameState; none mutates its input.
type GameState struct {
	MatchID uuid.UUID

	Half         int
	Phase        Phase
	ActiveTeam   Side
	KickingTeam  Side
	Weather      Weather

	Home TeamState
	Away TeamState

	Players map[PlayerID]*Player

	Ball Ball

	TurnoverPending bool
}

// statePool recycles GameState allocations for the hot MCTS clone/replay
// path, mirroring the teacher's sync.Pool-backed state reuse.
var statePool = sync.Pool{
	New: func() any { return &GameState{} },
}

// GetState pulls a zeroed GameState off the pool for scratch use.
func GetState() *GameState {
	s := statePool.Get().(*GameState)
	*s = GameState{Players: make(map[PlayerID]*Player, 22)}
	return s
}

// PutState returns s to the pool. Callers must not retain references to s
// or any of its Players after calling PutState.
func PutState(s *GameState) {
	statePool.Put(s)
}

// Clone deep-copies the state, including every Player, for safe use as the
// root of an independent search replay (spec.md §4.13's "clones the root
// state" requirement).
func (s *GameState) Clone() *GameState {
	cp := &GameState{
		MatchID:         s.MatchID,
		Half:            s.Half,
		Phase:           s.Phase,
		ActiveTeam:      s.ActiveTeam,
		KickingTeam:     s.KickingTeam,
		Weather:         s.Weather,
		Home:            s.Home,
		Away:            s.Away,
		Ball:            s.Ball,
		TurnoverPending: s.TurnoverPending,
		Players:         make(map[PlayerID]*Player, len(s.Players)),
	}
	for id, p := range s.Players {
		cloned := p.clone()
		cp.Players[id] = &cloned
	}
	return cp
}

// TeamOf returns the mutable TeamState for side. Use via pointer so callers
// mutating a cloned state can update it in place before returning.
func (s *GameState) TeamOf(side Side) *TeamState {
	if side == Home {
		return &s.Home
	}
	return &s.Away
}

// PlayerSide classifies a player id into home/away per spec.md §3 (1..11
// home, 12..22 away).
func PlayerSide(id PlayerID) Side {
	if id >= 1 && id <= 11 {
		return Home
	}
	return Away
}

// sortedPlayerIDs returns every id in s.Players in ascending order. Every
// enumeration that can affect dice consumption order or event-log order
// must walk ids this way instead of ranging over the map directly, whose
// iteration order the runtime randomizes per run (spec.md §5/§8's
// replay-determinism requirement).
func sortedPlayerIDs(s *GameState) []PlayerID {
	ids := make([]PlayerID, 0, len(s.Players))
	for id := range s.Players {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// occupied reports whether any player currently sits at pos, the
// single-occupancy invariant every resolver must preserve. At most one
// player can ever match, so map iteration order cannot affect the result.
func (s *GameState) occupied(pos Position) (PlayerID, bool) {
	for id, p := range s.Players {
		if p.OnPitch() && p.Pos == pos {
			return id, true
		}
	}
	return 0, false
}

// StandingNeighbours returns the ids of standing players of side adjacent
// to pos who still exert a tacklezone, the primitive §4.1's tacklezone
// count and §4.5's assist accounting both build on. Returned in ascending
// id order so callers that roll dice per candidate (interceptions,
// tentacles, Tackle lookups) consume dice in a stable order.
func (s *GameState) StandingNeighbours(pos Position, side Side) []PlayerID {
	var out []PlayerID
	for _, id := range sortedPlayerIDs(s) {
		p := s.Players[id]
		if p.Side != side || !p.ExertsTacklezone() {
			continue
		}
		if geometry.IsAdjacent(p.Pos, pos) {
			out = append(out, id)
		}
	}
	return out
}

// TacklezoneCount is the number of opposing standing tacklezone-exerting
// players adjacent to cell, per spec.md §4.1. ignoring is typically the
// mover itself, already excluded by the opposing-side filter but kept for
// symmetry with the spec's phrasing.
func (s *GameState) TacklezoneCount(cell Position, defenderSide Side, ignoring PlayerID) int {
	n := 0
	for id, p := range s.Players {
		if id == ignoring {
			continue
		}
		if p.Side != defenderSide.Opponent() || !p.ExertsTacklezone() {
			continue
		}
		if geometry.IsAdjacent(p.Pos, cell) {
			n++
		}
	}
	return n
}
