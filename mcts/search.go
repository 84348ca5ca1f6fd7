package mcts

import (
	"time"

	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/engine"
	"github.com/tacklezone/matchcore/features"
	"github.com/tacklezone/matchcore/nets"
)

// Policy bundles the optional learned networks and the dice source the
// search consumes while replaying and rolling out states. Weights are
// immutable after load and may be shared by reference across concurrent
// searches in different matches, per spec.md §5.
type Policy struct {
	Dice         dice.Source
	Value        nets.ValueNet
	PolicyNet    *nets.PolicyNet
	RolloutDepth int
}

// Budget caps a search by whichever of MaxIterations or TimeBudgetMS comes
// first, per spec.md §4.13's termination rule.
type Budget struct {
	MaxIterations int
	TimeBudgetMS  int
	Exploration   float64
	WideningK     int
}

// Diagnostics reports the search's internal bookkeeping, per spec.md §6's
// "In" clause naming iterations/best Q/per-child visit counts.
type Diagnostics struct {
	Iterations   int
	BestQ        float64
	ChildVisits  []int
	ChildActions []engine.Action
}

// Search runs MCTS from root for perspective side and returns the chosen
// action (highest-visit-count child of the root, ties broken by Q) plus
// diagnostics. A single legal action short-circuits with zero iterations.
func Search(root *engine.GameState, side engine.Side, policy Policy, budget Budget) (engine.Action, Diagnostics) {
	legal := engine.AvailableActions(root)
	if len(legal) == 0 {
		return nil, Diagnostics{}
	}
	if len(legal) == 1 {
		return legal[0], Diagnostics{Iterations: 0, ChildActions: legal, ChildVisits: []int{0}}
	}

	rootNode := GetNode()
	defer ReleaseTree(rootNode)
	expand(rootNode, root, legal, policy, budget)

	deadline := time.Now().Add(time.Duration(budget.TimeBudgetMS) * time.Millisecond)
	useUCB := policy.PolicyNet == nil
	hasTimeBudget := budget.TimeBudgetMS > 0
	hasIterBudget := budget.MaxIterations > 0

	iterations := 0
	for {
		if hasIterBudget && iterations >= budget.MaxIterations {
			break
		}
		if hasTimeBudget && iterations > 0 && iterations%64 == 0 && time.Now().After(deadline) {
			break
		}
		if !hasIterBudget && !hasTimeBudget {
			break // no budget configured: treat the expansion above as the whole search
		}

		leaf, state := selectAndReplay(rootNode, root, policy, budget, useUCB)
		leafActions := engine.AvailableActions(state)
		if len(leafActions) > 0 && len(leaf.Children) == 0 {
			expand(leaf, state, leafActions, policy, budget)
		}

		value := evaluate(state, side, policy)
		backpropagate(leaf, value)
		iterations++
	}

	best := rootNode.MostVisitedChild()
	diag := Diagnostics{Iterations: iterations}
	for _, c := range rootNode.Children {
		diag.ChildVisits = append(diag.ChildVisits, c.Visits)
		diag.ChildActions = append(diag.ChildActions, c.Action)
	}
	if best != nil {
		diag.BestQ = best.Q()
		return best.Action, diag
	}
	return legal[0], diag
}

// expand enumerates actions, applies progressive widening when a policy
// net is present (keep the top-K by prior, renormalised), and creates one
// child per surviving action.
func expand(node *Node, state *engine.GameState, legal []engine.Action, policy Policy, budget Budget) {
	actions := legal
	priors := make([]float64, len(legal))
	for i := range priors {
		priors[i] = 1.0 / float64(len(legal))
	}

	if policy.PolicyNet != nil {
		stateFeatures := features.Extract(state, state.ActiveTeam)
		candidateFeatures := make([][]float64, len(legal))
		for i, a := range legal {
			candidateFeatures[i] = append(append([]float64{}, stateFeatures...), actionFeatures(a)...)
		}
		priors = policy.PolicyNet.Priors(candidateFeatures)

		k := budget.WideningK
		if k > 0 && k < len(legal) {
			order := topKIndices(priors, k)
			widenedActions := make([]engine.Action, k)
			widenedPriors := make([]float64, k)
			sum := 0.0
			for i, idx := range order {
				widenedActions[i] = legal[idx]
				widenedPriors[i] = priors[idx]
				sum += priors[idx]
			}
			if sum > 0 {
				for i := range widenedPriors {
					widenedPriors[i] /= sum
				}
			}
			actions = widenedActions
			priors = widenedPriors
		}
	}

	for i, a := range actions {
		child := GetNode()
		child.Action = a
		child.HasAction = true
		child.Parent = node
		child.Prior = priors[i]
		node.Children = append(node.Children, child)
	}
}

// topKIndices returns the indices of the k largest values in scores.
func topKIndices(scores []float64, k int) []int {
	idx := make([]int, len(scores))
	for i := range idx {
		idx[i] = i
	}
	for i := 0; i < k && i < len(idx); i++ {
		maxAt := i
		for j := i + 1; j < len(idx); j++ {
			if scores[idx[j]] > scores[idx[maxAt]] {
				maxAt = j
			}
		}
		idx[i], idx[maxAt] = idx[maxAt], idx[i]
	}
	return idx[:k]
}

// actionFeatures is the fixed-width per-action projection spec.md §4.12
// names: action type one-hot (collapsed to a type id here), plus the
// handful of range/coordinate fields that exist across the sum type.
func actionFeatures(a engine.Action) []float64 {
	typeID := 0.0
	x, y := 0.0, 0.0
	switch v := a.(type) {
	case engine.MoveAction:
		typeID, x, y = 1, float64(v.X), float64(v.Y)
	case engine.BlockAction:
		typeID = 2
	case engine.BlitzAction:
		typeID, x, y = 3, float64(v.ToX), float64(v.ToY)
	case engine.PassAction:
		typeID, x, y = 4, float64(v.X), float64(v.Y)
	case engine.HandOffAction:
		typeID = 5
	case engine.FoulAction:
		typeID = 6
	case engine.BombThrowAction:
		typeID, x, y = 7, float64(v.X), float64(v.Y)
	case engine.EndTurnAction:
		typeID = 8
	}
	return []float64{typeID, x / float64(engine.PitchWidth), y / float64(engine.PitchHeight)}
}

// selectAndReplay descends from root by repeated BestChild selection until
// a node with no children, then clones the root state and re-executes the
// action chain from root to that node (spec.md §4.13's "the tree does not
// store states").
func selectAndReplay(rootNode *Node, rootState *engine.GameState, policy Policy, budget Budget, useUCB bool) (*Node, *engine.GameState) {
	node := rootNode
	for len(node.Children) > 0 {
		node = node.BestChild(budget.Exploration, useUCB)
	}

	var chain []engine.Action
	for n := node; n != nil && n.HasAction; n = n.Parent {
		chain = append([]engine.Action{n.Action}, chain...)
	}

	state := rootState.Clone()
	for _, a := range chain {
		result, err := engine.Resolve(state, a, policy.Dice)
		if err != nil {
			break
		}
		state = result.State
	}
	return node, state
}

// evaluate scores a leaf state from side's perspective: the value net when
// present (through tanh, per spec.md §4.12), otherwise a bounded random
// rollout.
func evaluate(state *engine.GameState, side engine.Side, policy Policy) float64 {
	if policy.Value != nil {
		return policy.Value.Value(features.Extract(state, side))
	}
	return rollout(state, side, policy)
}

// rollout plays random legal actions to a bounded depth and scores the
// resulting state by score differential, spec.md §4.13's mode (b).
func rollout(state *engine.GameState, side engine.Side, policy Policy) float64 {
	depth := policy.RolloutDepth
	if depth <= 0 {
		depth = 8
	}
	cur := state.Clone()
	for i := 0; i < depth; i++ {
		legal := engine.AvailableActions(cur)
		if len(legal) == 0 {
			break
		}
		choice := legal[diceIndex(policy.Dice, len(legal))]
		result, err := engine.Resolve(cur, choice, policy.Dice)
		if err != nil {
			break
		}
		cur = result.State
		if cur.Phase == engine.PhaseGameOver {
			break
		}
	}
	my := cur.TeamOf(side).Score
	opp := cur.TeamOf(side.Opponent()).Score
	diff := float64(my-opp) / 3.0
	if diff > 1 {
		diff = 1
	}
	if diff < -1 {
		diff = -1
	}
	return diff
}

// diceIndex derives a deterministic index in [0, n) from the dice source,
// so rollout action selection consumes the same seeded stream as every
// other random decision in the engine — spec.md §5 permits no ambient
// randomness, and §8's MCTS determinism property requires that a fixed
// seeded dice source reproduce identical visit counts across runs.
func diceIndex(d dice.Source, n int) int {
	if n <= 1 {
		return 0
	}
	roll := (d.D6()-1)*8 + (d.D8() - 1) // 0..47
	return roll % n
}

// backpropagate walks from leaf to the tree root, incrementing visits and
// adding value at every node (spec.md §4.13's step 5).
func backpropagate(leaf *Node, value float64) {
	for n := leaf; n != nil; n = n.Parent {
		n.Visits++
		n.TotalValue += value
	}
}
