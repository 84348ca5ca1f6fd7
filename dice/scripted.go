package dice

import "fmt"

// ErrExhausted is the panic value raised when a Scripted source runs out of
// queued rolls. Spec.md classifies this as a test-authoring bug, fatal in
// tests and unreachable with Seeded — so it panics rather than returning an
// error a caller might silently ignore.
type ErrExhausted struct {
	Kind string // "d6", "d8", or "d3"
}

func (e ErrExhausted) Error() string {
	return fmt.Sprintf("dice: scripted %s queue exhausted", e.Kind)
}

// Scripted is a fixed queue of rolls consumed in order, for tests that need
// to pin an exact dice sequence (spec.md §4.10, §8 concrete scenarios).
// Scripted keeps separate D6, D8 and D3 queues — each call pulls the next
// queued value for its kind so a test can script, e.g.,
// "dodge roll, then armour roll" independently of D8 scatter rolls.
type Scripted struct {
	d6 []int
	d8 []int
	d3 []int
}

// NewScripted builds a Scripted source from independent per-die-shape
// queues; any of the three may be nil if the test never rolls that shape.
func NewScripted(d6, d8, d3 []int) *Scripted {
	return &Scripted{d6: append([]int{}, d6...), d8: append([]int{}, d8...), d3: append([]int{}, d3...)}
}

func (s *Scripted) D6() int {
	if len(s.d6) == 0 {
		panic(ErrExhausted{Kind: "d6"})
	}
	v := s.d6[0]
	s.d6 = s.d6[1:]
	return v
}

func (s *Scripted) D8() int {
	if len(s.d8) == 0 {
		panic(ErrExhausted{Kind: "d8"})
	}
	v := s.d8[0]
	s.d8 = s.d8[1:]
	return v
}

func (s *Scripted) D3() int {
	if len(s.d3) == 0 {
		panic(ErrExhausted{Kind: "d3"})
	}
	v := s.d3[0]
	s.d3 = s.d3[1:]
	return v
}

// Remaining reports how many rolls of each kind are still queued, useful for
// tests asserting a handler consumed exactly the rolls it should have.
func (s *Scripted) Remaining() (d6, d8, d3 int) {
	return len(s.d6), len(s.d8), len(s.d3)
}
