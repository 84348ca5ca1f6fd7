// Package geometry provides pure grid arithmetic over the 26x15 pitch:
// positions, Chebyshev distance, adjacency, and zone classification. It has
// no notion of players or game state — those live in package engine, which
// layers tacklezone counting on top of these primitives.
package geometry

// Pitch dimensions (spec.md §3): 26 columns x 15 rows. Column 0 and column
// PitchWidth-1 are the two endzones; the line of scrimmage sits between
// columns 12 and 13.
const (
	PitchWidth  = 26
	PitchHeight = 15
)

// Side identifies which half of the roster a player belongs to, and which
// endzone they defend.
type Side uint8

const (
	Home Side = iota
	Away
)

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Home {
		return Away
	}
	return Home
}

// Position is a cell on the pitch. Off-pitch values are valid as data (a
// player not currently placed) but fail IsOnPitch.
type Position struct {
	X, Y int8
}

// IsOnPitch reports whether p falls within the 26x15 grid.
func IsOnPitch(p Position) bool {
	return p.X >= 0 && p.X < PitchWidth && p.Y >= 0 && p.Y < PitchHeight
}

// IsWideZone reports whether p sits in one of the two wide-zone row bands
// (rows 0-3 and 11-14).
func IsWideZone(p Position) bool {
	return (p.Y >= 0 && p.Y <= 3) || (p.Y >= 11 && p.Y <= PitchHeight-1)
}

// IsEndzone reports whether p is in the scoring endzone for side — the
// column a standing carrier of that side must reach to score (spec.md §4.8:
// home scores at column PitchWidth-1, away scores at column 0).
func IsEndzone(p Position, side Side) bool {
	if side == Home {
		return int(p.X) == PitchWidth-1
	}
	return int(p.X) == 0
}

// abs8 is a small int8-safe absolute value helper; Chebyshev distance never
// needs more range than the pitch itself provides.
func abs8(v int8) int8 {
	if v < 0 {
		return -v
	}
	return v
}

// Distance computes Chebyshev (king-move) distance between two cells.
func Distance(a, b Position) int {
	dx := abs8(a.X - b.X)
	dy := abs8(a.Y - b.Y)
	if dx > dy {
		return int(dx)
	}
	return int(dy)
}

// offsets is the fixed 8-neighbour walk order used by Adjacent. The order
// itself isn't semantically meaningful (unlike ScatterDirections) but is
// kept stable so callers that enumerate adjacency get deterministic
// iteration order, which matters for the pathfinder's documented tie-break
// rule.
var offsets = [8][2]int8{
	{-1, -1}, {0, -1}, {1, -1},
	{-1, 0}, {1, 0},
	{-1, 1}, {0, 1}, {1, 1},
}

// Adjacent returns the up-to-8 on-pitch neighbours of p.
func Adjacent(p Position) []Position {
	out := make([]Position, 0, 8)
	for _, o := range offsets {
		n := Position{X: p.X + o[0], Y: p.Y + o[1]}
		if IsOnPitch(n) {
			out = append(out, n)
		}
	}
	return out
}

// IsAdjacent reports whether a and b are exactly one Chebyshev step apart
// (the adjacency test the block/foul handlers require).
func IsAdjacent(a, b Position) bool {
	return a != b && Distance(a, b) == 1
}

// Less gives the stable lexicographic ordering (by Y then X, matching
// row-major reading order) the pathfinder uses to break ties between
// equal-cost destinations, per spec.md §4.2.
func Less(a, b Position) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	return a.X < b.X
}

// ScatterDirections is the frozen D8-roll-to-compass-direction mapping used
// by ball bounce and scatter (spec.md §4.3, §4.7, and the Open Question
// pinning it once by convention). Index 0 corresponds to a D8 roll of 1.
var ScatterDirections = [8]Position{
	{X: 1, Y: -1},  // 1: NE
	{X: 1, Y: 0},   // 2: E
	{X: 1, Y: 1},   // 3: SE
	{X: 0, Y: 1},   // 4: S
	{X: -1, Y: 1},  // 5: SW
	{X: -1, Y: 0},  // 6: W
	{X: -1, Y: -1}, // 7: NW
	{X: 0, Y: -1},  // 8: N
}

// Scatter applies a D8 roll (1..8) as a single-cell step from p. Callers
// that need multi-square scatter (throw-in's D8 + 2D6) add further steps in
// the same direction themselves.
func Scatter(p Position, d8Roll int) Position {
	d := ScatterDirections[(d8Roll-1+8)%8]
	return Position{X: p.X + d.X, Y: p.Y + d.Y}
}

// Clamp restricts a target-number style value to the inclusive [lo, hi]
// range used throughout the resolver for dodge/pickup/pass targets
// (spec.md's ubiquitous `clamp(2, 6, ...)`).
func Clamp(lo, hi, v int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// NearestSidelineCell returns the on-pitch cell nearest p along whichever
// edge p overshot, used by the ball resolver's throw-in procedure when a
// bounce or scatter lands off-pitch.
func NearestSidelineCell(p Position) Position {
	x, y := p.X, p.Y
	if x < 0 {
		x = 0
	}
	if x > PitchWidth-1 {
		x = PitchWidth - 1
	}
	if y < 0 {
		y = 0
	}
	if y > PitchHeight-1 {
		y = PitchHeight - 1
	}
	return Position{X: x, Y: y}
}
