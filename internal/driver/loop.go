package driver

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/snake3d/internal/world"
)

// Loop serializes ticks and player commands for one controller on a
// single goroutine.
type Loop struct {
	ctl      Controller
	sched    Scheduler
	commands chan Command
	publish  func(world.Snapshot)
	pace     func(score int) time.Duration
	logger   *log.Logger
}

// LoopOption configures a Loop.
type LoopOption func(*Loop)

// WithPublisher sets the callback that receives a snapshot after every
// tick and every accepted command. It runs on the loop goroutine.
func WithPublisher(fn func(world.Snapshot)) LoopOption {
	return func(l *Loop) { l.publish = fn }
}

// WithPace lets the tick interval follow the score.
func WithPace(fn func(score int) time.Duration) LoopOption {
	return func(l *Loop) { l.pace = fn }
}

// WithLogger sets the loop logger.
func WithLogger(logger *log.Logger) LoopOption {
	return func(l *Loop) { l.logger = logger }
}

// NewLoop creates a loop. Run must be called to start it.
func NewLoop(ctl Controller, sched Scheduler, opts ...LoopOption) *Loop {
	l := &Loop{
		ctl:      ctl,
		sched:    sched,
		commands: make(chan Command, 8),
		logger:   log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Send queues a command for the loop goroutine. It blocks until the
// command is queued or ctx is done.
func (l *Loop) Send(ctx context.Context, cmd Command) error {
	select {
	case l.commands <- cmd:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Run processes ticks and commands until ctx is cancelled.
// The scheduler is stopped on return.
func (l *Loop) Run(ctx context.Context) error {
	defer l.sched.Stop()

	l.emit()
	for {
		select {
		case <-l.sched.Ticks():
			l.ctl.Tick()
			if l.pace != nil {
				l.sched.SetInterval(l.pace(l.ctl.Snapshot().Score))
			}
			l.emit()
		case cmd := <-l.commands:
			if apply(l.ctl, cmd) {
				l.emit()
			} else {
				l.logger.Debug("command ignored", "kind", cmd.Kind, "dir", cmd.Dir)
			}
		case <-ctx.Done():
			l.logger.Debug("loop stopped", "err", ctx.Err())
			return nil
		}
	}
}

func (l *Loop) emit() {
	if l.publish != nil {
		l.publish(l.ctl.Snapshot())
	}
}
