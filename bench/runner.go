// Package bench is the benchmark harness library spec.md §6 names as an
// external collaborator of the core: it drives complete matches end to end
// (setup placement, kickoff, turn-by-turn play, half-time, game-over) using
// only the core's exported `Resolve`/`AvailableActions`/`Kickoff` surface,
// selecting actions via one of the three named policies (random, greedy,
// mcts). Grounded on the teacher's simulation.RunBatch/RunSingleGame/
// aggregateResults (runner.go), generalized from a fixed-rank-count card
// game play-out onto a 22-figure tactical match.
package bench

import (
	"fmt"
	"sort"

	"github.com/tacklezone/matchcore/dice"
	"github.com/tacklezone/matchcore/engine"
	"github.com/tacklezone/matchcore/features"
	"github.com/tacklezone/matchcore/mcts"
	"github.com/tacklezone/matchcore/nets"
)

// PolicyKind is one of the three action-selection strategies spec.md §6's
// CLI names.
type PolicyKind string

const (
	PolicyRandom PolicyKind = "random"
	PolicyGreedy PolicyKind = "greedy"
	PolicyMCTS   PolicyKind = "mcts"
)

// PlayerConfig is one side's policy configuration for a batch.
type PlayerConfig struct {
	Policy       PolicyKind
	Weights      nets.Bundle
	Exploration  float64
	TimeBudgetMS int
	WideningK    int
}

// maxTotalTurns bounds a stuck game the way the teacher's maxTurns loop
// guard does; a match that has exhausted this many combined resolutions is
// over regardless of what AvailableActions still reports.
const maxTotalTurns = 4096

// Side mirrors engine.Side plus a draw sentinel, since a benchmark result
// must be able to express "nobody won" without reusing a valid side value.
type Side int8

const (
	SideNone Side = -1
	SideHome Side = 0
	SideAway Side = 1
)

// GameResult is the outcome of one complete match.
type GameResult struct {
	WinnerSide Side
	HomeScore  int
	AwayScore  int
	TurnCount  int
	DurationNs uint64
	Error      string
}

// AggregatedStats summarises a batch of GameResults.
type AggregatedStats struct {
	TotalGames    int
	HomeWins      int
	AwayWins      int
	Draws         int
	Errors        int
	AvgTurns      float64
	MedianTurns   int
	AvgDurationNs uint64
}

// RunBatch plays numGames complete matches between home and away rosters
// under the given policies, seeding each game's dice source from a stream
// derived from seed so the whole batch is reproducible.
func RunBatch(home, away engine.RosterDef, homeCfg, awayCfg PlayerConfig, numGames int, seed uint64) AggregatedStats {
	seedSource := dice.NewSeeded(seed)
	results := make([]GameResult, numGames)
	for i := 0; i < numGames; i++ {
		results[i] = RunSingleGame(home, away, homeCfg, awayCfg, nextSeed(seedSource))
	}
	return aggregateResults(results)
}

// nextSeed draws a fresh 64-bit seed for one game out of a shared seeded
// stream, the teacher's "seed the seed generator" idiom built on the
// engine's own deterministic dice source instead of math/rand, so no part
// of the harness touches ambient randomness.
func nextSeed(s *dice.Seeded) uint64 {
	var v uint64
	for i := 0; i < 8; i++ {
		v = v<<8 | uint64(s.D6()-1)&0xff
	}
	return v
}

// RunSingleGame plays one match to completion: setup placement for both
// sides, a kickoff, then alternating turns until game_over or the turn cap
// is hit.
func RunSingleGame(home, away engine.RosterDef, homeCfg, awayCfg PlayerConfig, seed uint64) GameResult {
	d := dice.NewSeeded(seed)
	state, err := runSetup(engine.NewMatch(home, away, 2), d)
	if err != nil {
		return GameResult{WinnerSide: SideNone, Error: err.Error()}
	}

	steps := 0
	for state.Phase != engine.PhaseGameOver && steps < maxTotalTurns {
		switch state.Phase {
		case engine.PhaseKickoff, engine.PhaseHalfTime:
			aim := engine.Position{X: engine.PitchWidth / 2, Y: engine.PitchHeight / 2}
			receiving := state.KickingTeam.Opponent()
			state, _ = engine.Kickoff(state, d, aim, receiving)
		case engine.PhasePlay:
			cfg := homeCfg
			if state.ActiveTeam == engine.Away {
				cfg = awayCfg
			}
			action, err := chooseAction(state, cfg, d)
			if err != nil {
				return GameResult{WinnerSide: SideNone, HomeScore: state.Home.Score, AwayScore: state.Away.Score, TurnCount: steps, Error: err.Error()}
			}
			result, err := engine.Resolve(state, action, d)
			if err != nil {
				return GameResult{WinnerSide: SideNone, HomeScore: state.Home.Score, AwayScore: state.Away.Score, TurnCount: steps, Error: err.Error()}
			}
			state = result.State
		default:
			steps = maxTotalTurns
		}
		steps++
	}

	return finalResult(state, steps)
}

// runSetup places every off-pitch player of both sides via repeated
// SetupAction resolution, alternating which side places next the way a
// real coin-toss-order setup phase would, until the engine flips the phase
// to kickoff on its own (the last player placed).
func runSetup(state *engine.GameState, d dice.Source) (*engine.GameState, error) {
	for state.Phase == engine.PhaseSetup {
		actions := engine.AvailableActions(state)
		if len(actions) == 0 {
			state.ActiveTeam = state.ActiveTeam.Opponent()
			continue
		}
		choice := actions[diceChoice(d, len(actions))]
		result, err := engine.Resolve(state, choice, d)
		if err != nil {
			return state, fmt.Errorf("bench: setup placement failed: %w", err)
		}
		state = result.State
		if state.Phase == engine.PhaseSetup {
			state.ActiveTeam = state.ActiveTeam.Opponent()
		}
	}
	return state, nil
}

func diceChoice(d dice.Source, n int) int {
	if n <= 1 {
		return 0
	}
	return ((d.D6()-1)*8 + (d.D8() - 1)) % n
}

// chooseAction dispatches to the policy named by cfg.Policy.
func chooseAction(state *engine.GameState, cfg PlayerConfig, d dice.Source) (engine.Action, error) {
	actions := engine.AvailableActions(state)
	if len(actions) == 0 {
		return engine.EndTurnAction{}, nil
	}

	switch cfg.Policy {
	case PolicyGreedy:
		return selectGreedy(state, actions), nil
	case PolicyMCTS:
		policy := mcts.Policy{
			Dice:         d,
			Value:        cfg.Weights.Value,
			PolicyNet:    cfg.Weights.Policy,
			RolloutDepth: 8,
		}
		budget := mcts.Budget{
			TimeBudgetMS: cfg.TimeBudgetMS,
			Exploration:  cfg.Exploration,
			WideningK:    cfg.WideningK,
		}
		if budget.TimeBudgetMS == 0 {
			budget.MaxIterations = 200
		}
		action, _ := mcts.Search(state, state.ActiveTeam, policy, budget)
		if action == nil {
			return engine.EndTurnAction{}, nil
		}
		return action, nil
	default:
		return actions[diceChoice(d, len(actions))], nil
	}
}

// selectGreedy scores every candidate action against the active side's
// current feature vector and keeps the best, the same "maximize immediate
// score" heuristic the teacher's selectGreedyMove uses, generalized from
// hand-size scoring to the engine's fixed feature projection.
func selectGreedy(state *engine.GameState, actions []engine.Action) engine.Action {
	best := actions[0]
	bestScore := scoreAction(state, best)
	for _, a := range actions[1:] {
		if score := scoreAction(state, a); score > bestScore {
			bestScore = score
			best = a
		}
	}
	return best
}

func scoreAction(state *engine.GameState, a engine.Action) float64 {
	if _, ok := a.(engine.EndTurnAction); ok {
		return -1 // ending the turn is the last resort for a greedy policy
	}
	// index 0 of features.Extract's frozen layout is the score-differential
	// feature; a greedy policy prefers actions that nudge it upward without
	// paying for a full Resolve call per candidate.
	score := features.Extract(state, state.ActiveTeam)[0]
	switch v := a.(type) {
	case engine.BlockAction:
		score += 0.1
	case engine.BlitzAction:
		score += 0.15
	case engine.MoveAction:
		score += ballCarrierAdvance(state, v.X)
	}
	return score
}

// ballCarrierAdvance rewards a move that advances the active side's ball
// carrier toward its scoring endzone.
func ballCarrierAdvance(state *engine.GameState, destX int8) float64 {
	if state.Ball.Location != engine.BallCarried {
		return 0
	}
	carrier := state.Players[state.Ball.Carrier]
	if carrier == nil || carrier.Side != state.ActiveTeam {
		return 0
	}
	goalX := float64(engine.PitchWidth - 1)
	if state.ActiveTeam == engine.Away {
		goalX = 0
	}
	dist := goalX - float64(destX)
	if dist < 0 {
		dist = -dist
	}
	return (float64(engine.PitchWidth) - dist) / float64(engine.PitchWidth)
}

func finalResult(state *engine.GameState, steps int) GameResult {
	winner := SideNone
	if state.Home.Score > state.Away.Score {
		winner = SideHome
	} else if state.Away.Score > state.Home.Score {
		winner = SideAway
	}
	return GameResult{
		WinnerSide: winner,
		HomeScore:  state.Home.Score,
		AwayScore:  state.Away.Score,
		TurnCount:  steps,
	}
}

// aggregateResults computes summary statistics, grounded on the teacher's
// aggregateResults/median (runner.go).
func aggregateResults(results []GameResult) AggregatedStats {
	stats := AggregatedStats{TotalGames: len(results)}
	turns := make([]int, 0, len(results))
	var totalDuration uint64

	for _, r := range results {
		if r.Error != "" {
			stats.Errors++
			continue
		}
		switch r.WinnerSide {
		case SideHome:
			stats.HomeWins++
		case SideAway:
			stats.AwayWins++
		default:
			stats.Draws++
		}
		turns = append(turns, r.TurnCount)
		totalDuration += r.DurationNs
	}

	if len(turns) > 0 {
		sum := 0
		for _, t := range turns {
			sum += t
		}
		stats.AvgTurns = float64(sum) / float64(len(turns))
		stats.MedianTurns = median(turns)
	}
	if stats.TotalGames > 0 {
		stats.AvgDurationNs = totalDuration / uint64(stats.TotalGames)
	}
	return stats
}

func median(values []int) int {
	sorted := append([]int{}, values...)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}
