// Package features implements the fixed-width numeric projection spec.md
// §4.11 names: (state, perspective_side) -> [f1..fN], keyed positionally so
// weight files can stay simple flat arrays. Grounded on the teacher's
// evolution/fitness.FitnessMetrics flat struct-of-floats shape, generalized
// from a post-match summary into a per-state feature vector.
package features

import (
	"math"

	"github.com/tacklezone/matchcore/engine"
	"github.com/tacklezone/matchcore/geometry"
)

// N is the frozen feature count. Index<->meaning is pinned by the order
// Extract appends to the slice below; weight files are keyed positionally
// against this exact order.
const N = 33

var weatherOneHot = []engine.Weather{
	engine.WeatherNice, engine.WeatherSwelteringHeat, engine.WeatherVerySunny,
	engine.WeatherPouringRain, engine.WeatherBlizzard,
}

var skillIncidence = []engine.Skill{
	engine.Block, engine.Dodge, engine.Guard, engine.MightyBlow, engine.Tackle, engine.Claw,
}

// Extract projects state from side's perspective into a fixed-width
// feature vector. Swapping home/away and re-extracting from the opposite
// side swaps every "my_*"/"opp_*" pair, the symmetry property spec.md §8
// requires.
func Extract(state *engine.GameState, side engine.Side) []float64 {
	f := make([]float64, 0, N)

	my := state.TeamOf(side)
	opp := state.TeamOf(side.Opponent())

	scoreDiff := clamp(-1, 1, float64(my.Score-opp.Score)/6.0)
	f = append(f, scoreDiff)
	f = append(f, float64(my.Score))
	f = append(f, float64(opp.Score))
	f = append(f, clamp(0, 1, float64(my.TurnNumber)/8.0))

	myCounts := countByState(state, side)
	oppCounts := countByState(state, side.Opponent())
	for _, st := range []engine.LifecycleState{engine.Standing, engine.Prone, engine.Stunned, engine.KnockedOut, engine.Injured} {
		f = append(f, float64(myCounts[st])/11.0)
	}
	for _, st := range []engine.LifecycleState{engine.Standing, engine.Prone, engine.Stunned, engine.KnockedOut, engine.Injured} {
		f = append(f, float64(oppCounts[st])/11.0)
	}

	f = append(f, float64(my.RerollsTotal)/8.0)
	f = append(f, float64(opp.RerollsTotal)/8.0)

	iHave, oppHas, onGround := ballPossession(state, side)
	f = append(f, boolF(iHave), boolF(oppHas), boolF(onGround))

	carrierDist, scoringThreat := carrierFeatures(state, side)
	f = append(f, carrierDist, boolF(scoringThreat))

	for _, w := range weatherOneHot {
		f = append(f, boolF(state.Weather == w))
	}

	for _, sk := range skillIncidence {
		f = append(f, skillFraction(state, side, sk))
	}

	f = append(f, 1.0) // bias

	for len(f) < N {
		f = append(f, 0)
	}
	return f[:N]
}

func countByState(state *engine.GameState, side engine.Side) map[engine.LifecycleState]int {
	counts := map[engine.LifecycleState]int{}
	for _, p := range state.Players {
		if p.Side == side {
			counts[p.State]++
		}
	}
	return counts
}

func ballPossession(state *engine.GameState, side engine.Side) (iHave, oppHas, onGround bool) {
	if state.Ball.Location != engine.BallCarried {
		return false, false, state.Ball.Location == engine.BallOnGround
	}
	carrier, ok := state.Players[state.Ball.Carrier]
	if !ok {
		return false, false, false
	}
	return carrier.Side == side, carrier.Side != side, false
}

func carrierFeatures(state *engine.GameState, side engine.Side) (distNorm float64, threat bool) {
	if state.Ball.Location != engine.BallCarried {
		return 1.0, false
	}
	carrier, ok := state.Players[state.Ball.Carrier]
	if !ok || carrier.Side != side {
		return 1.0, false
	}
	var endzoneCol int8
	if side == engine.Home {
		endzoneCol = engine.PitchWidth - 1
	}
	dist := geometry.Distance(carrier.Pos, geometry.Position{X: endzoneCol, Y: carrier.Pos.Y})
	distNorm = float64(dist) / float64(engine.PitchWidth)
	threat = dist <= carrier.MovementRemaining
	return distNorm, threat
}

func skillFraction(state *engine.GameState, side engine.Side, sk engine.Skill) float64 {
	total, has := 0, 0
	for _, p := range state.Players {
		if p.Side != side {
			continue
		}
		total++
		if p.Skills.Has(sk) {
			has++
		}
	}
	if total == 0 {
		return 0
	}
	return float64(has) / float64(total)
}

func boolF(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

func clamp(lo, hi, v float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
