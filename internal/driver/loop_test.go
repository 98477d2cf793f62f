package driver

import (
	"context"
	"testing"
	"time"

	"github.com/vovakirdan/snake3d/internal/world"
)

// startLoop runs a loop on a manual scheduler and returns the snapshot
// channel it publishes to.
func startLoop(t *testing.T, d *Driver, opts ...LoopOption) (*Loop, *ManualScheduler, <-chan world.Snapshot) {
	t.Helper()

	sched := NewManualScheduler()
	snaps := make(chan world.Snapshot, 64)
	opts = append(opts, WithPublisher(func(s world.Snapshot) { snaps <- s }))
	loop := NewLoop(d, sched, opts...)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- loop.Run(ctx) }()

	t.Cleanup(func() {
		cancel()
		select {
		case err := <-done:
			if err != nil {
				t.Errorf("Run() = %v, want nil", err)
			}
		case <-time.After(time.Second):
			t.Error("loop did not stop")
		}
	})

	return loop, sched, snaps
}

func nextSnapshot(t *testing.T, snaps <-chan world.Snapshot) world.Snapshot {
	t.Helper()
	select {
	case s := <-snaps:
		return s
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for snapshot")
		return world.Snapshot{}
	}
}

func TestLoopTicks(t *testing.T) {
	_, sched, snaps := startLoop(t, newTestDriver(t))

	initial := nextSnapshot(t, snaps)
	if initial.Tick != 0 {
		t.Errorf("initial Tick = %d, want 0", initial.Tick)
	}

	sched.Fire()
	snap := nextSnapshot(t, snaps)
	if snap.Tick != 1 {
		t.Errorf("Tick = %d, want 1", snap.Tick)
	}
	if snap.Head() != world.Cell(0, -1) {
		t.Errorf("head = %v, want %v", snap.Head(), world.Cell(0, -1))
	}
}

func TestLoopCommands(t *testing.T) {
	loop, sched, snaps := startLoop(t, newTestDriver(t))
	nextSnapshot(t, snaps)

	ctx := context.Background()
	if err := loop.Send(ctx, Turn(world.Down)); err != nil {
		t.Fatalf("Send: %v", err)
	}
	if err := loop.Send(ctx, Turn(world.Right)); err != nil {
		t.Fatalf("Send: %v", err)
	}

	// The rejected reverse publishes nothing; the accepted turn does.
	snap := nextSnapshot(t, snaps)
	if snap.Direction != world.Right {
		t.Errorf("Direction = %v, want right", snap.Direction)
	}

	sched.Fire()
	snap = nextSnapshot(t, snaps)
	if snap.Head() != world.Cell(1, 0) {
		t.Errorf("head = %v, want %v", snap.Head(), world.Cell(1, 0))
	}
}

func TestLoopPace(t *testing.T) {
	pace := func(score int) time.Duration {
		return 150*time.Millisecond - time.Duration(score)*10*time.Millisecond
	}
	_, sched, snaps := startLoop(t, newTestDriver(t), WithPace(pace))
	nextSnapshot(t, snaps)

	sched.Fire()
	nextSnapshot(t, snaps)

	if got := sched.Interval(); got != 150*time.Millisecond {
		t.Errorf("Interval() = %v, want 150ms", got)
	}
}

func TestLoopSendCancelled(t *testing.T) {
	loop := NewLoop(newTestDriver(t), NewManualScheduler())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Nobody is running the loop, so the buffer fills and Send gives up.
	var err error
	for range 16 {
		if err = loop.Send(ctx, Restart()); err != nil {
			break
		}
	}
	if err == nil {
		t.Error("Send on a cancelled context never failed")
	}
}
