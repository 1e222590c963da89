// chessduel plays engine-vs-engine games in the terminal.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/pprof"
	"time"

	"github.com/notnil/chess"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/hailam/chessduel/internal/board"
	"github.com/hailam/chessduel/internal/config"
	"github.com/hailam/chessduel/internal/match"
	"github.com/hailam/chessduel/internal/render"
	"github.com/hailam/chessduel/internal/storage"
)

var (
	configPath = flag.String("config", "", "YAML configuration file")
	games      = flag.Int("games", 1, "number of games to play")
	maxMoves   = flag.Int("max-moves", 0, "stop each game after this many half moves (0 = no limit)")
	record     = flag.Bool("record", false, "store finished games in the match database")
	dataDir    = flag.String("data-dir", "", "match database directory (default: platform data directory)")
	logLevel   = flag.String("log-level", "info", "log level (debug, info, warn, error)")
	cpuprofile = flag.String("cpuprofile", "", "write cpu profile to file")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger := cfg.SetupLogging()

	if err := run(cfg, logger); err != nil {
		log.Error().Err(err).Msg("chessduel failed")
		os.Exit(1)
	}
}

// run plays the configured games.
func run(cfg *config.Config, logger zerolog.Logger) error {
	if *cpuprofile != "" {
		f, err := os.Create(*cpuprofile)
		if err != nil {
			return fmt.Errorf("could not create CPU profile: %w", err)
		}
		defer f.Close()
		if err := pprof.StartCPUProfile(f); err != nil {
			return fmt.Errorf("could not start CPU profile: %w", err)
		}
		defer pprof.StopCPUProfile()
		log.Info().Msgf("CPU profiling enabled, writing to %s", *cpuprofile)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var store *storage.Storage
	if cfg.Record {
		var err error
		store, err = openStorage(cfg.DataDir)
		if err != nil {
			return fmt.Errorf("could not open match database: %w", err)
		}
		defer store.Close()
	}

	for i := 1; i <= cfg.Games && ctx.Err() == nil; i++ {
		log.Info().Msgf("Game %d of %d: White %s (%s) vs Black %s (%s)", i, cfg.Games,
			cfg.White.Algorithm, cfg.White.Settings(), cfg.Black.Algorithm, cfg.Black.Settings())

		m, err := playGame(ctx, cfg, logger)
		if err != nil {
			return fmt.Errorf("could not start game: %w", err)
		}
		report(m)

		if store != nil {
			r := m.Record()
			r.White.Settings = cfg.White.Settings()
			r.Black.Settings = cfg.Black.Settings()
			if err := store.SaveMatch(r); err != nil {
				log.Error().Err(err).Msg("could not record game")
			}
		}
	}

	if store != nil {
		printHistory(store)
	}
	return nil
}

// loadConfig reads the configuration file and applies explicitly set flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(*configPath)
	if err != nil {
		return nil, err
	}

	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "games":
			cfg.Games = *games
		case "max-moves":
			cfg.MaxMoves = *maxMoves
		case "record":
			cfg.Record = *record
		case "data-dir":
			cfg.DataDir = *dataDir
		case "log-level":
			cfg.LogLevel = *logLevel
		}
	})

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func openStorage(dir string) (*storage.Storage, error) {
	if dir == "" {
		return storage.NewStorage()
	}
	return storage.Open(dir)
}

func playGame(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*match.Match, error) {
	pos, err := board.ParseFEN(cfg.StartFEN)
	if err != nil {
		return nil, err
	}
	white, err := cfg.NewEngine(pos, chess.White, logger)
	if err != nil {
		return nil, err
	}
	black, err := cfg.NewEngine(pos, chess.Black, logger)
	if err != nil {
		return nil, err
	}

	m, err := match.New(pos, white, black)
	if err != nil {
		return nil, err
	}

	m.OnStep = func(step match.StepResult) {
		if step.Move == nil {
			fmt.Printf("%s plays: none\n\n", step.Side.Name())
			return
		}
		fmt.Printf("%s plays: %s (%s)\n\n", step.Side.Name(), step.Move, step.Duration.Round(time.Millisecond))
		fmt.Println(render.Text(pos))
	}

	m.Play(ctx, cfg.MaxMoves)
	return m, nil
}

func report(m *match.Match) {
	fmt.Printf("%s (%s) after %d half moves\n\n", m.Description(), m.Result(), len(m.Moves()))
	for _, side := range []chess.Color{chess.White, chess.Black} {
		e, t := m.Engine(side), m.Timing(side)
		fmt.Printf("%s (%s) moves analyzed: %d\n", side.Name(), e.Algorithm(), e.MovesAnalyzed())
		fmt.Printf("Average time per move for %s: %s\n", side.Name(), t.Average())
	}
	fmt.Println()
}

func printHistory(store *storage.Storage) {
	stats, err := store.LoadStats()
	if err != nil {
		log.Error().Err(err).Msg("could not load match statistics")
		return
	}

	fmt.Printf("Recorded games: %d (White %d, Black %d, draws %d, unfinished %d)\n",
		stats.GamesPlayed, stats.WhiteWins, stats.BlackWins, stats.Draws, stats.Unfinished)
	fmt.Printf("Average length: %.1f half moves\n", stats.AveragePlies())
	for algorithm, wins := range stats.WinsByAlgorithm {
		fmt.Printf("  %s wins: %d\n", algorithm, wins)
	}
}
