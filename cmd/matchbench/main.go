// Package main provides the matchbench CLI: a benchmark harness that plays
// batches of complete matches between two configured policies and reports
// aggregate win/score/turn statistics.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/tacklezone/matchcore/bench"
	"github.com/tacklezone/matchcore/engine"
	"github.com/tacklezone/matchcore/nets"
	"github.com/tacklezone/matchcore/roster"
)

// Version is set by build flags; unset in a `go run` invocation.
var Version = "dev"

// CLI flags, matching spec.md §6's harness contract exactly plus --config
// and --workers.
var (
	homePolicy   string
	awayPolicy   string
	games        int
	timeBudgetMS int
	weightsPath  string
	exploration  float64
	seed         int64
	homeRoster   string
	awayRoster   string
	configPath   string
	workers      int
	verbose      bool
	showVersion  bool
)

func init() {
	flag.StringVar(&homePolicy, "home", "random", "home side policy: random, greedy, or mcts")
	flag.StringVar(&awayPolicy, "away", "random", "away side policy: random, greedy, or mcts")
	flag.IntVar(&games, "games", 10, "number of games to simulate")
	flag.IntVar(&timeBudgetMS, "time", 0, "MCTS per-decision time budget in milliseconds (0 = use a fixed iteration count)")
	flag.StringVar(&weightsPath, "weights", "", "path to a value/policy weights JSON file")
	flag.Float64Var(&exploration, "exploration", 1.414, "MCTS exploration constant C")
	flag.Int64Var(&seed, "seed", 0, "random seed (0 = derived from the current time)")
	flag.StringVar(&homeRoster, "home-roster", "", "path to a home roster YAML/JSON file (empty = built-in default)")
	flag.StringVar(&awayRoster, "away-roster", "", "path to an away roster YAML/JSON file (empty = built-in default)")
	flag.StringVar(&configPath, "config", "", "optional YAML config file layered under flags and MATCHCORE_* env vars")
	flag.IntVar(&workers, "workers", 0, "parallel worker count (0 = auto-detect CPU count, 1 = serial)")
	flag.BoolVar(&verbose, "verbose", false, "enable debug-level logging")
	flag.BoolVar(&showVersion, "version", false, "print version and exit")
}

// loadConfig reads --config and MATCHCORE_* environment variables, which
// applyConfigOverrides then applies over the defaults of every flag not
// passed explicitly (explicit flags always win), the way niceyeti-tabular's reinforcement.FromYaml uses
// viper.New() per invocation rather than the global viper instance.
func loadConfig(path string) *viper.Viper {
	vp := viper.New()
	vp.SetEnvPrefix("MATCHCORE")
	vp.AutomaticEnv()
	if path != "" {
		vp.SetConfigFile(path)
		if err := vp.ReadInConfig(); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("matchbench: could not read config file, using flags/env only")
		}
	}
	return vp
}

func main() {
	flag.Parse()
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}

	if showVersion {
		fmt.Printf("matchbench %s\n", Version)
		os.Exit(0)
	}

	vp := loadConfig(configPath)
	applyConfigOverrides(vp)

	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	home, err := loadRoster(homeRoster, "home")
	if err != nil {
		log.Error().Err(err).Msg("matchbench: failed to load home roster")
		os.Exit(2)
	}
	away, err := loadRoster(awayRoster, "away")
	if err != nil {
		log.Error().Err(err).Msg("matchbench: failed to load away roster")
		os.Exit(2)
	}

	homeCfg, err := buildPlayerConfig(homePolicy)
	if err != nil {
		log.Error().Err(err).Str("policy", homePolicy).Msg("matchbench: bad --home policy")
		os.Exit(2)
	}
	awayCfg, err := buildPlayerConfig(awayPolicy)
	if err != nil {
		log.Error().Err(err).Str("policy", awayPolicy).Msg("matchbench: bad --away policy")
		os.Exit(2)
	}

	if weightsPath != "" {
		bundle, err := nets.Load(weightsPath, 33)
		if err != nil {
			log.Error().Err(err).Str("path", weightsPath).Msg("matchbench: failed to load weights")
			os.Exit(1)
		}
		homeCfg.Weights = bundle
		awayCfg.Weights = bundle
	}

	printBanner()

	start := time.Now()
	var stats bench.AggregatedStats
	if workers == 1 {
		stats = bench.RunBatch(home, away, homeCfg, awayCfg, games, uint64(seed))
	} else {
		stats, err = bench.RunBatchParallel(home, away, homeCfg, awayCfg, games, uint64(seed), workers)
		if err != nil {
			log.Error().Err(err).Msg("matchbench: batch run failed")
			os.Exit(1)
		}
	}
	elapsed := time.Since(start)

	printSummary(stats, elapsed)
}

// applyConfigOverrides lets a --config file or MATCHCORE_* env var set any
// flag the user didn't pass explicitly on the command line.
func applyConfigOverrides(vp *viper.Viper) {
	seen := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { seen[f.Name] = true })

	setIfUnseen := func(name string, apply func()) {
		if !seen[name] && vp.IsSet(name) {
			apply()
		}
	}
	setIfUnseen("home", func() { homePolicy = vp.GetString("home") })
	setIfUnseen("away", func() { awayPolicy = vp.GetString("away") })
	setIfUnseen("games", func() { games = vp.GetInt("games") })
	setIfUnseen("time", func() { timeBudgetMS = vp.GetInt("time") })
	setIfUnseen("weights", func() { weightsPath = vp.GetString("weights") })
	setIfUnseen("exploration", func() { exploration = vp.GetFloat64("exploration") })
	setIfUnseen("seed", func() { seed = vp.GetInt64("seed") })
	setIfUnseen("home-roster", func() { homeRoster = vp.GetString("home-roster") })
	setIfUnseen("away-roster", func() { awayRoster = vp.GetString("away-roster") })
	setIfUnseen("workers", func() { workers = vp.GetInt("workers") })
}

func loadRoster(path, side string) (engine.RosterDef, error) {
	if path == "" {
		return roster.Builtin(side), nil
	}
	return roster.Load(path)
}

func buildPlayerConfig(policy string) (bench.PlayerConfig, error) {
	kind := bench.PolicyKind(policy)
	switch kind {
	case bench.PolicyRandom, bench.PolicyGreedy, bench.PolicyMCTS:
	default:
		return bench.PlayerConfig{}, fmt.Errorf("unknown policy %q (want random, greedy, or mcts)", policy)
	}
	return bench.PlayerConfig{
		Policy:       kind,
		Exploration:  exploration,
		TimeBudgetMS: timeBudgetMS,
		WideningK:    8,
	}, nil
}

func printBanner() {
	fmt.Println()
	fmt.Println("matchbench")
	fmt.Printf("  home:        %s\n", homePolicy)
	fmt.Printf("  away:        %s\n", awayPolicy)
	fmt.Printf("  games:       %d\n", games)
	fmt.Printf("  seed:        %d\n", seed)
	fmt.Printf("  workers:     %d (0=auto)\n", workers)
	if weightsPath != "" {
		fmt.Printf("  weights:     %s\n", weightsPath)
	}
	fmt.Println()
}

func printSummary(stats bench.AggregatedStats, elapsed time.Duration) {
	fmt.Println("── results ──────────────────────────────")
	fmt.Printf("  games:        %d\n", stats.TotalGames)
	fmt.Printf("  home wins:    %d\n", stats.HomeWins)
	fmt.Printf("  away wins:    %d\n", stats.AwayWins)
	fmt.Printf("  draws:        %d\n", stats.Draws)
	fmt.Printf("  errors:       %d\n", stats.Errors)
	fmt.Printf("  avg turns:    %.1f\n", stats.AvgTurns)
	fmt.Printf("  median turns: %d\n", stats.MedianTurns)
	fmt.Printf("  avg duration: %s\n", time.Duration(stats.AvgDurationNs))
	fmt.Printf("  wall time:    %s\n", elapsed)
	fmt.Println("──────────────────────────────────────────")
}
