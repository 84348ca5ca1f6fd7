package engine

import "github.com/tacklezone/matchcore/geometry"

// AvailableActions enumerates every admissible action from state, the
// contract spec.md §6 names. The search policy and any external caller use
// this instead of hand-rolling legality checks duplicate to admissible().
func AvailableActions(state *GameState) []Action {
	if state.Phase == PhaseSetup {
		return setupActions(state)
	}
	if state.Phase != PhasePlay {
		return nil
	}

	var actions []Action
	actions = append(actions, EndTurnAction{})

	team := state.TeamOf(state.ActiveTeam)
	for _, id := range sortedPlayerIDs(state) {
		p := state.Players[id]
		if p.Side != state.ActiveTeam || !p.CanAct() {
			continue
		}
		for _, dest := range SortedDestinations(FindPaths(state, id)) {
			actions = append(actions, MoveAction{PlayerID: id, X: dest.X, Y: dest.Y})
		}
		for _, leap := range LeapDestinations(state, id) {
			actions = append(actions, MoveAction{PlayerID: id, X: leap.X, Y: leap.Y})
		}

		for _, oppID := range state.StandingNeighbours(p.Pos, p.Side.Opponent()) {
			actions = append(actions, BlockAction{AttackerID: id, TargetID: oppID})
			if !team.BlitzUsedThisTurn {
				actions = append(actions, BlitzAction{PlayerID: id, ToX: p.Pos.X, ToY: p.Pos.Y, TargetID: oppID})
			}
		}

		if state.Ball.Location == BallCarried && state.Ball.Carrier == id {
			actions = append(actions, passAndHandoffActions(state, p)...)
		}

		for _, proneID := range pronePlayersAdjacent(state, p) {
			actions = append(actions, FoulAction{FoulerID: id, TargetID: proneID})
		}
	}
	return actions
}

func pronePlayersAdjacent(state *GameState, p *Player) []PlayerID {
	var out []PlayerID
	for _, id := range sortedPlayerIDs(state) {
		other := state.Players[id]
		if other.Side == p.Side {
			continue
		}
		if other.State != Prone && other.State != Stunned {
			continue
		}
		if geometry.IsAdjacent(p.Pos, other.Pos) {
			out = append(out, id)
		}
	}
	return out
}

// passAndHandoffActions lists hand-off to adjacent teammates and pass
// destinations on every second column and row of the pitch within distance
// 10 of the passer; the policy/search layer prunes this further via
// progressive widening.
func passAndHandoffActions(state *GameState, passer *Player) []Action {
	var out []Action
	for _, id := range sortedPlayerIDs(state) {
		other := state.Players[id]
		if other.Side == passer.Side && other.ID != passer.ID && geometry.IsAdjacent(passer.Pos, other.Pos) {
			out = append(out, HandOffAction{PasserID: passer.ID, TargetID: id})
		}
	}
	for x := int8(0); x < PitchWidth; x += 2 {
		for y := int8(0); y < PitchHeight; y += 2 {
			dest := Position{X: x, Y: y}
			if geometry.Distance(passer.Pos, dest) <= 10 {
				out = append(out, PassAction{PasserID: passer.ID, X: x, Y: y})
			}
		}
	}
	return out
}

// setupActions enumerates legal Setup placements: any off-pitch player of
// the active team onto any unoccupied on-pitch cell on their own half.
func setupActions(state *GameState) []Action {
	var out []Action
	for _, id := range sortedPlayerIDs(state) {
		p := state.Players[id]
		if p.Side != state.ActiveTeam || p.State != OffPitch {
			continue
		}
		for x := int8(0); x < PitchWidth; x++ {
			if p.Side == Home && x >= PitchWidth/2 {
				continue
			}
			if p.Side == Away && x < PitchWidth/2 {
				continue
			}
			for y := int8(0); y < PitchHeight; y++ {
				cell := Position{X: x, Y: y}
				if _, occ := state.occupied(cell); occ {
					continue
				}
				out = append(out, SetupAction{PlayerID: id, X: x, Y: y})
			}
		}
	}
	return out
}
