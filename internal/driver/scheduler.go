package driver

import (
	"sync/atomic"
	"time"
)

// DefaultInterval is the reference tick period.
const DefaultInterval = 150 * time.Millisecond

// Scheduler produces the periodic tick signal.
type Scheduler interface {
	Ticks() <-chan time.Time
	SetInterval(d time.Duration)
	Stop()
}

// TickerScheduler is a Scheduler backed by time.Ticker.
type TickerScheduler struct {
	ticker   *time.Ticker
	interval time.Duration
}

// NewTickerScheduler starts ticking immediately. A non-positive interval
// falls back to DefaultInterval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &TickerScheduler{
		ticker:   time.NewTicker(interval),
		interval: interval,
	}
}

func (s *TickerScheduler) Ticks() <-chan time.Time { return s.ticker.C }

// SetInterval changes the period; ticks already pending are kept.
func (s *TickerScheduler) SetInterval(d time.Duration) {
	if d <= 0 || d == s.interval {
		return
	}
	s.interval = d
	s.ticker.Reset(d)
}

// Interval returns the current period.
func (s *TickerScheduler) Interval() time.Duration { return s.interval }

func (s *TickerScheduler) Stop() { s.ticker.Stop() }

// ManualScheduler fires only when told to.
type ManualScheduler struct {
	ch       chan time.Time
	interval atomic.Int64
}

// NewManualScheduler returns a scheduler with a buffered tick channel.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{ch: make(chan time.Time, 16)}
}

func (s *ManualScheduler) Ticks() <-chan time.Time { return s.ch }

// Fire queues one tick.
func (s *ManualScheduler) Fire() { s.ch <- time.Now() }

func (s *ManualScheduler) SetInterval(d time.Duration) { s.interval.Store(int64(d)) }

// Interval returns the last interval requested by SetInterval.
func (s *ManualScheduler) Interval() time.Duration { return time.Duration(s.interval.Load()) }

func (s *ManualScheduler) Stop() {}
