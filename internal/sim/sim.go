// Package sim runs batches of headless games driven by an autopilot.
package sim

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"slices"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/vovakirdan/snake3d/internal/autopilot"
	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/world"
)

// DefaultMaxTicks caps a game that never ends.
const DefaultMaxTicks = 10_000

// PilotFactory builds the pilot for one game. Each game gets its own,
// since a pilot may keep per-game state.
type PilotFactory func() (autopilot.Pilot, error)

// Options configures a batch.
type Options struct {
	Games    int
	Parallel int    // 0 means GOMAXPROCS
	BaseSeed int64  // game i plays with BaseSeed+i
	MaxTicks uint64 // 0 means DefaultMaxTicks
	World    world.Config
	Pilot    PilotFactory
	Logger   *log.Logger
}

// Result is the outcome of one game.
type Result struct {
	Index    int
	Seed     int64
	Pilot    string
	Final    world.Snapshot
	Journal  driver.Journal
	TimedOut bool // stopped by MaxTicks while still playing
}

// Run plays opts.Games games, at most opts.Parallel at a time. Every game
// owns its world; results are returned in game order. The first pilot
// error cancels the batch.
func Run(ctx context.Context, opts Options) ([]Result, error) {
	if opts.Pilot == nil {
		return nil, fmt.Errorf("sim: no pilot")
	}
	if opts.Games <= 0 {
		return nil, nil
	}
	parallel := opts.Parallel
	if parallel <= 0 {
		parallel = runtime.GOMAXPROCS(0)
	}
	maxTicks := opts.MaxTicks
	if maxTicks == 0 {
		maxTicks = DefaultMaxTicks
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	results := make([]Result, opts.Games)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)

	for i := range opts.Games {
		g.Go(func() error {
			r, err := playOne(ctx, opts, i, maxTicks)
			if err != nil {
				return fmt.Errorf("sim: game %d (seed %d): %w", i, opts.BaseSeed+int64(i), err)
			}
			logger.Debug("game finished", "game", i, "seed", r.Seed, "score", r.Final.Score, "ticks", r.Final.Tick)
			results[i] = r
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func playOne(ctx context.Context, opts Options, i int, maxTicks uint64) (Result, error) {
	pilot, err := opts.Pilot()
	if err != nil {
		return Result{}, err
	}
	defer autopilot.Release(pilot)

	cfg := opts.World
	cfg.Seed = opts.BaseSeed + int64(i)
	rec := driver.NewRecorder(driver.New(world.New(cfg)), cfg.Seed)

	final, err := autopilot.Run(ctx, rec, pilot, maxTicks)
	if err != nil {
		return Result{}, err
	}
	return Result{
		Index:    i,
		Seed:     cfg.Seed,
		Pilot:    pilot.Name(),
		Final:    final,
		Journal:  rec.Journal(),
		TimedOut: final.State == world.Playing,
	}, nil
}

// Stats summarizes a batch.
type Stats struct {
	Games     int
	Deaths    int // games that ended in game over
	Best      int
	Worst     int
	Mean      float64
	Median    float64
	MeanTicks float64
	BestSeed  int64
}

// Summarize computes batch statistics. An empty batch yields zero Stats.
func Summarize(results []Result) Stats {
	if len(results) == 0 {
		return Stats{}
	}

	st := Stats{Games: len(results), Worst: results[0].Final.Score, BestSeed: results[0].Seed, Best: results[0].Final.Score}
	scores := make([]int, len(results))
	var total, ticks float64
	for i, r := range results {
		s := r.Final.Score
		scores[i] = s
		total += float64(s)
		ticks += float64(r.Final.Tick)
		if !r.TimedOut {
			st.Deaths++
		}
		if s > st.Best {
			st.Best, st.BestSeed = s, r.Seed
		}
		st.Worst = min(st.Worst, s)
	}

	n := float64(len(results))
	st.Mean = total / n
	st.MeanTicks = ticks / n

	slices.Sort(scores)
	mid := len(scores) / 2
	if len(scores)%2 == 1 {
		st.Median = float64(scores[mid])
	} else {
		st.Median = float64(scores[mid-1]+scores[mid]) / 2
	}
	return st
}
