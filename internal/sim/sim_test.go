package sim

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/vovakirdan/snake3d/internal/autopilot"
	"github.com/vovakirdan/snake3d/internal/driver"
	"github.com/vovakirdan/snake3d/internal/world"
)

func greedy() (autopilot.Pilot, error) {
	return autopilot.NewGreedy(world.DefaultRules()), nil
}

func TestRunPlaysEveryGame(t *testing.T) {
	results, err := Run(context.Background(), Options{
		Games:    6,
		Parallel: 3,
		BaseSeed: 100,
		MaxTicks: 500,
		Pilot:    greedy,
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(results) != 6 {
		t.Fatalf("got %d results, expected 6", len(results))
	}

	for i, r := range results {
		if r.Index != i || r.Seed != 100+int64(i) {
			t.Errorf("result %d: index %d seed %d", i, r.Index, r.Seed)
		}
		if r.Pilot != "greedy" {
			t.Errorf("result %d: pilot %q", i, r.Pilot)
		}
		if r.TimedOut != (r.Final.State == world.Playing) {
			t.Errorf("result %d: TimedOut %v in state %v", i, r.TimedOut, r.Final.State)
		}
		if r.Final.Tick > 500 {
			t.Errorf("result %d: ran %d ticks past the cap", i, r.Final.Tick)
		}
		if r.Journal.Seed != r.Seed || r.Journal.Ticks != r.Final.Tick {
			t.Errorf("result %d: journal %+v", i, r.Journal)
		}
	}
}

func TestRunIsDeterministic(t *testing.T) {
	opts := Options{Games: 4, Parallel: 4, BaseSeed: 7, MaxTicks: 300, Pilot: greedy}

	a, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	opts.Parallel = 1
	b, err := Run(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}

	for i := range a {
		if a[i].Final.Score != b[i].Final.Score || a[i].Final.Tick != b[i].Final.Tick {
			t.Errorf("game %d differs: %+v vs %+v", i, a[i].Final, b[i].Final)
		}
	}
}

func TestRunJournalsReplay(t *testing.T) {
	results, err := Run(context.Background(), Options{Games: 2, BaseSeed: 3, MaxTicks: 400, Pilot: greedy})
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range results {
		got := driver.Replay(r.Journal, world.Config{}).Snapshot()
		if got.Score != r.Final.Score || got.State != r.Final.State || got.Head() != r.Final.Head() {
			t.Errorf("seed %d: replay ended %+v, game ended %+v", r.Seed, got, r.Final)
		}
	}
}

func TestRunJournalsCustomRules(t *testing.T) {
	rules := world.DefaultRules()
	rules.SpawnRange = 3

	results, err := Run(context.Background(), Options{
		Games:    3,
		BaseSeed: 40,
		MaxTicks: 300,
		World:    world.Config{Rules: rules},
		Pilot:    func() (autopilot.Pilot, error) { return autopilot.NewGreedy(rules), nil },
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, r := range results {
		if r.Journal.Rules != rules {
			t.Errorf("seed %d: journal rules %+v, want %+v", r.Seed, r.Journal.Rules, rules)
		}
		got := driver.Replay(r.Journal, world.Config{Rules: world.DefaultRules()}).Snapshot()
		if got.Score != r.Final.Score || got.State != r.Final.State || got.Head() != r.Final.Head() {
			t.Errorf("seed %d: replay ended score %d, game ended score %d", r.Seed, got.Score, r.Final.Score)
		}
	}
}

func TestRunLuaPilots(t *testing.T) {
	factory := func() (autopilot.Pilot, error) {
		return autopilot.NewLuaString("builtin", autopilot.BuiltinScript, world.DefaultRules(), nil)
	}

	lua, err := Run(context.Background(), Options{Games: 3, Parallel: 3, BaseSeed: 21, MaxTicks: 200, Pilot: factory})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	gr, err := Run(context.Background(), Options{Games: 3, BaseSeed: 21, MaxTicks: 200, Pilot: greedy})
	if err != nil {
		t.Fatal(err)
	}

	// Both pilots play the same strategy.
	for i := range lua {
		if lua[i].Final.Score != gr[i].Final.Score || lua[i].Final.Tick != gr[i].Final.Tick {
			t.Errorf("game %d: lua %+v, greedy %+v", i, lua[i].Final, gr[i].Final)
		}
	}
}

func TestRunPilotError(t *testing.T) {
	boom := errors.New("no script")
	_, err := Run(context.Background(), Options{
		Games: 3,
		Pilot: func() (autopilot.Pilot, error) { return nil, boom },
	})
	if !errors.Is(err, boom) {
		t.Errorf("error = %v, expected it to wrap %v", err, boom)
	}
	if err != nil && !strings.Contains(err.Error(), "seed") {
		t.Errorf("error %q should name the seed", err)
	}
}

func TestRunNeedsPilot(t *testing.T) {
	if _, err := Run(context.Background(), Options{Games: 1}); err == nil {
		t.Error("expected an error without a pilot")
	}
	if r, err := Run(context.Background(), Options{Pilot: greedy}); err != nil || r != nil {
		t.Errorf("zero games = %v, %v", r, err)
	}
}

func TestSummarize(t *testing.T) {
	mk := func(seed int64, score int, ticks uint64, timedOut bool) Result {
		return Result{Seed: seed, Final: world.Snapshot{Score: score, Tick: ticks}, TimedOut: timedOut}
	}

	st := Summarize([]Result{
		mk(1, 4, 100, false),
		mk(2, 10, 300, false),
		mk(3, 0, 20, false),
		mk(4, 6, 1000, true),
	})

	if st.Games != 4 || st.Deaths != 3 {
		t.Errorf("games %d deaths %d", st.Games, st.Deaths)
	}
	if st.Best != 10 || st.BestSeed != 2 || st.Worst != 0 {
		t.Errorf("best %d (seed %d) worst %d", st.Best, st.BestSeed, st.Worst)
	}
	if st.Mean != 5 || st.Median != 5 || st.MeanTicks != 355 {
		t.Errorf("mean %v median %v ticks %v", st.Mean, st.Median, st.MeanTicks)
	}

	if got := Summarize(nil); got != (Stats{}) {
		t.Errorf("empty summary = %+v", got)
	}
	if got := Summarize([]Result{mk(9, 3, 10, false)}); got.Median != 3 {
		t.Errorf("odd median = %v", got.Median)
	}
}
