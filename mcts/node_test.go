package mcts

import (
	"math"
	"testing"
)

func TestUCB1IsInfiniteForUnvisitedChild(t *testing.T) {
	n := &Node{}
	if got := n.UCB1(1.4, 10); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf for an unvisited node, got %f", got)
	}
}

func TestUCB1RewardsHigherMeanValue(t *testing.T) {
	low := &Node{Visits: 10, TotalValue: 1}
	high := &Node{Visits: 10, TotalValue: 8}
	if high.UCB1(1.4, 20) <= low.UCB1(1.4, 20) {
		t.Fatalf("expected the higher mean-value node to score higher under UCB1")
	}
}

func TestPUCTUsesFirstPlayUrgencyForUnvisitedChild(t *testing.T) {
	unvisited := &Node{Prior: 0.5}
	got := unvisited.PUCT(1.0, 4, 0.7)
	// q term should equal fpu=0.7 plus the exploration term.
	if got <= 0.7 {
		t.Fatalf("expected PUCT to add a positive exploration bonus atop fpu, got %f", got)
	}
}

func TestFirstPlayUrgencyAveragesVisitedChildrenOnly(t *testing.T) {
	children := []*Node{
		{Visits: 5, TotalValue: 5},  // Q=1
		{Visits: 5, TotalValue: -5}, // Q=-1
		{Visits: 0, TotalValue: 0},  // unvisited, excluded
	}
	if got := firstPlayUrgency(children); got != 0 {
		t.Fatalf("expected the average of visited children's Q (1 and -1) to be 0, got %f", got)
	}
}

func TestBestChildUCBPrefersUnvisitedOverVisited(t *testing.T) {
	root := &Node{Children: []*Node{
		{Visits: 100, TotalValue: 50},
		{Visits: 0},
	}}
	best := root.BestChild(1.4, true)
	if best != root.Children[1] {
		t.Fatalf("expected the unvisited child to be selected first under UCB1 (infinite score)")
	}
}

func TestMostVisitedChildBreaksTiesOnQ(t *testing.T) {
	root := &Node{Children: []*Node{
		{Visits: 10, TotalValue: 1},
		{Visits: 10, TotalValue: 9},
	}}
	best := root.MostVisitedChild()
	if best != root.Children[1] {
		t.Fatalf("expected the tie to break toward the higher-Q child")
	}
}

func TestIsFullyExpanded(t *testing.T) {
	n := &Node{Children: []*Node{{}, {}}}
	if n.IsFullyExpanded(3) {
		t.Fatalf("expected not fully expanded with 2 children against 3 legal actions")
	}
	if !n.IsFullyExpanded(2) {
		t.Fatalf("expected fully expanded with 2 children against 2 legal actions")
	}
}

func TestReleaseTreeRecyclesEveryNode(t *testing.T) {
	root := GetNode()
	child1 := GetNode()
	child2 := GetNode()
	root.Children = append(root.Children, child1, child2)
	grandchild := GetNode()
	child1.Children = append(child1.Children, grandchild)

	// ReleaseTree must not panic on a populated multi-level tree; a reused
	// node pulled right after should come back zeroed by reset().
	ReleaseTree(root)

	fresh := GetNode()
	if fresh.Visits != 0 || fresh.TotalValue != 0 || len(fresh.Children) != 0 || fresh.HasAction {
		t.Fatalf("expected a freshly acquired node to be zeroed, got %+v", fresh)
	}
}
