// Package dice provides the engine's abstract randomness boundary: every
// roll the resolver consumes passes through a Source, so no call site ever
// touches ambient randomness directly.
package dice

// Source exposes the two die shapes the match engine needs. Implementations
// must be deterministic given their construction: two Sources built the same
// way must yield identical sequences.
type Source interface {
	D6() int
	D8() int
	// D3 serves the "D3" table lookups scattered through the kickoff and
	// handler resolvers; 2D6 sums go through Sum2D6 below.
	D3() int
}

// Sum2D6 rolls two D6 and returns their sum, the shape the armour/injury and
// kickoff-event tables index by.
func Sum2D6(s Source) int {
	return s.D6() + s.D6()
}
