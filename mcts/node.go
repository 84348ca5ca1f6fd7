// Package mcts implements the search policy spec.md §4.13 names: UCB or
// PUCT selection, optional value/policy-net evaluation, progressive
// widening, and iterative tree teardown. Grounded on the teacher's
// mcts.MCTSNode/Search (sync.Pool-backed node arena, UCB1/BestChild/
// MostVisitedChild), generalized from a fixed two-player card game onto
// engine.GameState/engine.Action and extended with the PUCT variant and
// value-net leaf evaluation spec.md requires.
package mcts

import (
	"math"
	"sync"

	"github.com/tacklezone/matchcore/engine"
)

// Node is one vertex of the search tree. Per spec.md §4.13, the tree does
// not store states — only the action that produced this node from its
// parent; Replay reconstructs the state by re-executing the action chain
// from the root. Parent owns its Children; Parent itself is a plain
// non-owning back-reference, valid only while the search holding this tree
// is active.
type Node struct {
	Action   engine.Action
	HasAction bool
	Parent   *Node
	Children []*Node
	Visits   int
	TotalValue float64
	Prior    float64
}

var nodePool = sync.Pool{
	New: func() any { return &Node{Children: make([]*Node, 0, 8)} },
}

// GetNode acquires a zeroed node from the pool.
func GetNode() *Node {
	n := nodePool.Get().(*Node)
	n.reset()
	return n
}

func (n *Node) reset() {
	n.Action = nil
	n.HasAction = false
	n.Parent = nil
	n.Children = n.Children[:0]
	n.Visits = 0
	n.TotalValue = 0
	n.Prior = 0
}

// ReleaseTree returns every node in the tree rooted at root to the pool,
// iteratively (spec.md's Design Notes call out recursive tree destruction
// as something to avoid for deep trees) using an explicit stack.
func ReleaseTree(root *Node) {
	if root == nil {
		return
	}
	stack := []*Node{root}
	for len(stack) > 0 {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		stack = append(stack, n.Children...)
		nodePool.Put(n)
	}
}

// Q is the node's mean backed-up value.
func (n *Node) Q() float64 {
	if n.Visits == 0 {
		return 0
	}
	return n.TotalValue / float64(n.Visits)
}

// UCB1 is the classic selection score: Q + C*sqrt(ln(parentVisits)/visits),
// +Inf for an unvisited child so it is always explored first.
func (n *Node) UCB1(c float64, parentVisits int) float64 {
	if n.Visits == 0 {
		return math.Inf(1)
	}
	return n.Q() + c*math.Sqrt(math.Log(float64(parentVisits))/float64(n.Visits))
}

// PUCT is the AlphaZero-style selection score spec.md §4.13 names:
// Q + C*P*sqrt(parentVisits)/(1+visits). fpu is the First-Play-Urgency
// value substituted for Q when the child is unvisited (mean Q of already-
// visited siblings, per spec.md).
func (n *Node) PUCT(c float64, parentVisits int, fpu float64) float64 {
	q := fpu
	if n.Visits > 0 {
		q = n.Q()
	}
	return q + c*n.Prior*math.Sqrt(float64(parentVisits))/float64(1+n.Visits)
}

// firstPlayUrgency is the mean Q of a node's already-visited children, the
// value substituted for unvisited children under PUCT.
func firstPlayUrgency(children []*Node) float64 {
	sum, n := 0.0, 0
	for _, c := range children {
		if c.Visits > 0 {
			sum += c.Q()
			n++
		}
	}
	if n == 0 {
		return 0
	}
	return sum / float64(n)
}

// BestChild returns the child with the highest selection score under the
// given mode; useUCB selects the UCB1 variant, otherwise PUCT.
func (n *Node) BestChild(c float64, useUCB bool) *Node {
	if len(n.Children) == 0 {
		return nil
	}
	fpu := firstPlayUrgency(n.Children)
	best := n.Children[0]
	bestScore := math.Inf(-1)
	for _, child := range n.Children {
		var score float64
		if useUCB {
			score = child.UCB1(c, n.Visits)
		} else {
			score = child.PUCT(c, n.Visits, fpu)
		}
		if score > bestScore {
			bestScore = score
			best = child
		}
	}
	return best
}

// MostVisitedChild is the root's action-selection rule: highest visit
// count, ties broken by higher Q.
func (n *Node) MostVisitedChild() *Node {
	if len(n.Children) == 0 {
		return nil
	}
	best := n.Children[0]
	for _, child := range n.Children[1:] {
		if child.Visits > best.Visits || (child.Visits == best.Visits && child.Q() > best.Q()) {
			best = child
		}
	}
	return best
}

// IsFullyExpanded reports whether every legal action from this node's state
// already has a child.
func (n *Node) IsFullyExpanded(legalCount int) bool {
	return len(n.Children) >= legalCount
}
