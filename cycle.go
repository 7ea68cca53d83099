package trafficlight

import (
	"context"
	"log/slog"
	"math/rand/v2"
	"time"
)

// cycle runs the phase changes of l until ctx ends. When it returns, the
// mailbox is closed so that no waiter blocks on a light that will not change.
func (l *Light) cycle(ctx context.Context) {
	defer l.mbox.Close()

	tick := time.NewTicker(l.poll)
	defer tick.Stop()

	start := l.now()
	target := l.nextCycle()
	for {
		select {
		case <-ctx.Done():
			l.log.Info("light stopped", "light", l.name, "phase", l.Phase())
			return
		case <-tick.C:
		}

		elapsed := l.now().Sub(start)
		if elapsed <= target {
			continue
		}
		start = l.now()
		target = l.nextCycle()

		p := l.Phase().Toggle()
		l.phase.Store(int32(p))
		l.mbox.Send(p) // N.B. the mailbox stays open until cycle returns

		l.log.Debug("phase changed", "light", l.name, "phase", p,
			slog.Duration("elapsed", elapsed), slog.Duration("next", target))
	}
}

// nextCycle returns a cycle length chosen uniformly from the closed interval
// [l.minCycle, l.maxCycle].
func (l *Light) nextCycle() time.Duration {
	span := l.maxCycle - l.minCycle
	if span == 0 {
		return l.minCycle
	} else if l.rng != nil {
		return l.minCycle + time.Duration(l.rng.Int64N(int64(span)+1))
	}
	return l.minCycle + rand.N(span+1)
}
