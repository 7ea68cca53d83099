package trafficlight

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/creachadair/mds/value"
)

func TestNextCycle(t *testing.T) {
	for _, seeded := range []bool{true, false} {
		l := New(&Config{
			Rand: value.Cond(seeded, rand.New(rand.NewPCG(5, 6)), (*rand.Rand)(nil)),
		})

		lo, hi := time.Duration(1<<62), time.Duration(0)
		for range 1000 {
			d := l.nextCycle()
			if d < DefaultMinCycle || d > DefaultMaxCycle {
				t.Fatalf("nextCycle (seeded=%v): got %v, want in [%v, %v]",
					seeded, d, DefaultMinCycle, DefaultMaxCycle)
			}
			lo, hi = min(lo, d), max(hi, d)
		}

		// The draws should cover most of the range.
		if lo > 4100*time.Millisecond || hi < 5900*time.Millisecond {
			t.Errorf("nextCycle (seeded=%v): draws span [%v, %v], want wider", seeded, lo, hi)
		}
	}

	t.Run("Fixed", func(t *testing.T) {
		l := New(&Config{MinCycle: time.Second, MaxCycle: time.Second})
		for range 10 {
			if got := l.nextCycle(); got != time.Second {
				t.Errorf("nextCycle: got %v, want %v", got, time.Second)
			}
		}
	})
}
