package engine

import (
	"sort"

	"github.com/tacklezone/matchcore/geometry"
)

// Step is one annotated cell of a computed path (spec.md §4.2).
type Step struct {
	To            Position
	RequiresDodge bool
	DodgeTarget   int
	IsGFI         bool
	IsLeap        bool
}

// Path is a full route from a mover's current cell to a reachable
// destination, plus its total movement cost.
type Path struct {
	Steps []Step
	Cost  int
}

// endsAt returns the cell the path's last step reaches, or the zero
// Position for an empty path.
func (p *Path) endsAt() Position {
	if len(p.Steps) == 0 {
		return Position{}
	}
	return p.Steps[len(p.Steps)-1].To
}

// gfiBudget returns the number of extra Going-For-It squares a mover may
// attempt beyond MovementRemaining: 3 with Sprint, 2 otherwise.
func gfiBudget(p *Player) int {
	if p.Skills.Has(Sprint) {
		return 3
	}
	return 2
}

// dodgeTarget computes clamp(2, 6, 7 - AG + TZ - bonuses) per spec.md §4.2,
// applying the Stunty/Two Heads/Titchy modifiers named there.
func dodgeTarget(mover *Player, tzAtDestination int, markerHasTackle bool) int {
	if mover.Skills.Has(Stunty) {
		tzAtDestination = 0
	}
	target := 7 - mover.AG + tzAtDestination
	if mover.Skills.Has(TwoHeads) {
		target--
	}
	if mover.Skills.Has(Titchy) {
		target++
	}
	if markerHasTackle {
		// Tackle negates the dodge skill's reroll, not the base target; the
		// +1 some editions add for other reasons is not modelled here, only
		// what spec.md §4.2/§4.4 explicitly states.
		_ = markerHasTackle
	}
	return geometry.Clamp(2, 6, target)
}

// FindPaths computes every reachable destination from mover's current cell
// under its remaining movement budget, one cheapest annotated Path per
// destination, tie-broken by geometry.Less on the destination cell so the
// search/policy layers see a stable ordering across implementations.
func FindPaths(state *GameState, moverID PlayerID) map[Position]Path {
	mover, ok := state.Players[moverID]
	if !ok || !mover.OnPitch() {
		return nil
	}

	type frontierEntry struct {
		pos        Position
		cost       int
		gfiUsed    int
		steps      []Step
	}

	best := map[Position]Path{}
	budget := mover.MovementRemaining
	gfiMax := gfiBudget(mover)

	start := frontierEntry{pos: mover.Pos, cost: 0}
	queue := []frontierEntry{start}
	visited := map[Position]int{mover.Pos: 0}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		neighbours := geometry.Adjacent(cur.pos)
		sort.Slice(neighbours, func(i, j int) bool { return geometry.Less(neighbours[i], neighbours[j]) })

		for _, n := range neighbours {
			if _, occupied := state.occupied(n); occupied {
				continue
			}
			isGFI := cur.cost >= budget
			newCost := cur.cost + 1
			newGFIUsed := cur.gfiUsed
			if isGFI {
				newGFIUsed++
				if newGFIUsed > gfiMax {
					continue
				}
			}
			if prevCost, seen := visited[n]; seen && prevCost <= newCost {
				continue
			}
			visited[n] = newCost

			tzHere := state.TacklezoneCount(cur.pos, mover.Side, moverID)
			requiresDodge := tzHere > 0
			tzDest := state.TacklezoneCount(n, mover.Side, moverID)
			markerHasTackle := false
			if requiresDodge {
				for _, id := range state.StandingNeighbours(cur.pos, mover.Side.Opponent()) {
					if state.Players[id].Skills.Has(Tackle) {
						markerHasTackle = true
					}
				}
			}

			step := Step{
				To:            n,
				RequiresDodge: requiresDodge,
				IsGFI:         isGFI,
			}
			if requiresDodge {
				step.DodgeTarget = dodgeTarget(mover, tzDest, markerHasTackle)
			}

			steps := make([]Step, len(cur.steps), len(cur.steps)+1)
			copy(steps, cur.steps)
			steps = append(steps, step)

			path := Path{Steps: steps, Cost: newCost}
			if existing, ok := best[n]; !ok || path.Cost < existing.Cost {
				best[n] = path
			}

			queue = append(queue, frontierEntry{pos: n, cost: newCost, gfiUsed: newGFIUsed, steps: steps})
		}
	}

	return best
}

// SortedDestinations returns paths' destination cells in the lexicographic
// order spec.md §4.2 mandates (via geometry.Less), so callers that range
// over a FindPaths result to build an action list see a stable ordering
// across runs instead of Go's randomized map iteration order.
func SortedDestinations(paths map[Position]Path) []Position {
	out := make([]Position, 0, len(paths))
	for p := range paths {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return geometry.Less(out[i], out[j]) })
	return out
}

// LeapDestinations returns the unoccupied cells at distance 2 that a
// Leap-skilled mover with at least 2 movement left can reach by skipping one
// intermediate cell. A cell reachable past several intermediate cells is
// listed once for each of them. It lists cells only: no movement cost and no
// AG roll is attached to them, and move resolution does not consult it.
func LeapDestinations(state *GameState, moverID PlayerID) []Position {
	mover, ok := state.Players[moverID]
	if !ok || !mover.Skills.Has(Leap) || mover.MovementRemaining < 2 {
		return nil
	}
	var out []Position
	for _, mid := range geometry.Adjacent(mover.Pos) {
		for _, dst := range geometry.Adjacent(mid) {
			if dst == mover.Pos || geometry.Distance(mover.Pos, dst) != 2 {
				continue
			}
			if _, occ := state.occupied(dst); occ {
				continue
			}
			out = append(out, dst)
		}
	}
	sort.Slice(out, func(i, j int) bool { return geometry.Less(out[i], out[j]) })
	return out
}
