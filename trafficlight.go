// Package trafficlight implements a traffic light that cycles between red and
// green on a randomized timer, and lets other goroutines wait for it to turn
// green.
package trafficlight

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/creachadair/trafficlight/mailbox"
)

var (
	// ErrStarted is reported by Start if the light has already been started.
	ErrStarted = errors.New("light already started")

	// ErrStopped is reported by operations on a light that has been stopped.
	ErrStopped = errors.New("light is stopped")
)

// A Light is a traffic light that alternates between [Red] and [Green].
// A new light shows Red and does not change until it is started.
//
// Once started, the light holds each phase for a random interval, then
// switches to the other phase and publishes the change to its waiters. The
// light runs until it is stopped, or until the context passed to Start ends.
//
// The methods of a Light are safe for concurrent use by multiple goroutines.
type Light struct {
	// Read-only after initialization.
	name     string
	log      *slog.Logger
	minCycle time.Duration
	maxCycle time.Duration
	poll     time.Duration
	rng      *rand.Rand
	now      func() time.Time

	phase atomic.Int32 // the current Phase; written only by cycle
	mbox  *mailbox.Mailbox[Phase]

	μ       sync.Mutex // protects the fields below
	started bool
	stopped bool
	cancel  context.CancelFunc // ends the cycle, if started
	done    chan struct{}      // closed when the cycle exits
}

// New constructs a new [Light] showing Red. If cfg == nil, default settings
// are used (see [Config]). New panics if the cycle bounds in cfg are not
// positive, or if MaxCycle < MinCycle.
func New(cfg *Config) *Light {
	l := &Light{
		name:     cfg.name(),
		log:      cfg.logger(),
		minCycle: cfg.minCycle(),
		maxCycle: cfg.maxCycle(),
		poll:     cfg.pollInterval(),
		rng:      cfg.source(),
		now:      cfg.clock(),
		mbox:     mailbox.New[Phase](),
	}
	if l.minCycle <= 0 || l.maxCycle < l.minCycle {
		panic(fmt.Sprintf("trafficlight: invalid cycle bounds [%v, %v]", l.minCycle, l.maxCycle))
	}
	if l.poll <= 0 {
		panic(fmt.Sprintf("trafficlight: invalid poll interval %v", l.poll))
	}
	l.phase.Store(int32(Red))
	return l
}

// Name returns the name of l, as used in log records.
func (l *Light) Name() string { return l.name }

// Phase returns the current phase of l. It does not block.
//
// The result is a snapshot, and is not ordered with respect to the changes
// delivered to WaitFor and Next: a caller may see the new phase here before
// the change reaches a waiter, or the other way around.
func (l *Light) Phase() Phase { return Phase(l.phase.Load()) }

// WaitForGreen blocks until l turns green. It is shorthand for WaitFor with
// phase Green.
func (l *Light) WaitForGreen(ctx context.Context) error { return l.WaitFor(ctx, Green) }

// WaitFor blocks until the most recent phase change published by l is to
// phase p. If the last published change is already to p, WaitFor returns
// immediately. The initial Red of a new light is not a published change.
//
// Any number of goroutines may wait concurrently, and all of them are released
// by the same change. If ctx ends first, WaitFor reports ctx.Err(). If l is
// stopped before the change, WaitFor reports ErrStopped.
func (l *Light) WaitFor(ctx context.Context, p Phase) error {
	_, err := l.mbox.Await(ctx, func(q Phase) bool { return q == p })
	if errors.Is(err, mailbox.ErrClosed) {
		return ErrStopped
	}
	return err
}

// Next blocks until l publishes a phase change that has not yet been taken by
// a call to Next, and returns the most recent such change. Changes that occur
// while no caller is waiting are coalesced, so only the latest is delivered.
// Each change is delivered to at most one caller of Next; use WaitFor to
// observe changes from multiple goroutines.
//
// If ctx ends first, Next reports ctx.Err(). If l is stopped and no change is
// pending, Next reports ErrStopped.
func (l *Light) Next(ctx context.Context) (Phase, error) {
	p, err := l.mbox.Receive(ctx)
	if errors.Is(err, mailbox.ErrClosed) {
		return p, ErrStopped
	}
	return p, err
}

// Start starts the cycle of l in a new goroutine, and returns without
// blocking. The cycle runs until ctx ends or l is stopped.
//
// Start may be called at most once: subsequent calls report ErrStarted and do
// not affect the running cycle. If l was stopped, Start reports ErrStopped.
func (l *Light) Start(ctx context.Context) error {
	l.μ.Lock()
	defer l.μ.Unlock()
	if l.stopped {
		return ErrStopped
	} else if l.started {
		return ErrStarted
	}
	l.started = true

	ctx, l.cancel = context.WithCancel(ctx)
	l.done = make(chan struct{})
	l.log.Info("light started", "light", l.name, "phase", l.Phase(),
		slog.Duration("min", l.minCycle), slog.Duration("max", l.maxCycle))
	go func() {
		defer close(l.done)
		l.cycle(ctx)
	}()
	return nil
}

// Stop stops the cycle of l and blocks until it has exited. Any goroutines
// blocked in WaitFor are released with ErrStopped. Stop is safe to call more
// than once, and on a light that was never started.
func (l *Light) Stop() {
	l.μ.Lock()
	l.stopped = true
	cancel, done := l.cancel, l.done
	l.μ.Unlock()

	if cancel == nil {
		l.mbox.Close() // never started; release any waiters
		return
	}
	cancel()
	<-done
}
