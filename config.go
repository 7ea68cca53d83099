package trafficlight

import (
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/google/uuid"
)

// Default timing parameters for a [Light].
const (
	DefaultMinCycle     = 4 * time.Second
	DefaultMaxCycle     = 6 * time.Second
	DefaultPollInterval = 100 * time.Millisecond
)

// Config carries settings for a [Light]. A nil *Config is ready for use and
// provides default values as described.
type Config struct {
	// The bounds of the interval between phase changes. Each cycle draws its
	// length uniformly from [MinCycle, MaxCycle].
	// If zero, they default to DefaultMinCycle and DefaultMaxCycle.
	// Setting only one of them may leave the bounds inverted, which is an error.
	MinCycle, MaxCycle time.Duration

	// How often the cycle checks whether its interval has elapsed. This bounds
	// the latency of a phase change past its target.
	// If zero, it defaults to DefaultPollInterval.
	PollInterval time.Duration

	// A name identifying the light in log records.
	// If empty, a random UUID is assigned.
	Name string

	// If non-nil, log records are written here.
	// If nil, log records are discarded.
	Logger *slog.Logger

	// If non-nil, the source of randomness for cycle lengths. It is used only
	// by the cycle goroutine and must not be shared.
	// If nil, the global generator from math/rand/v2 is used.
	Rand *rand.Rand

	// If non-nil, the clock used to measure cycles.
	// If nil, time.Now is used.
	Now func() time.Time
}

func (c *Config) minCycle() time.Duration {
	if c == nil || c.MinCycle == 0 {
		return DefaultMinCycle
	}
	return c.MinCycle
}

func (c *Config) maxCycle() time.Duration {
	if c == nil || c.MaxCycle == 0 {
		return DefaultMaxCycle
	}
	return c.MaxCycle
}

func (c *Config) pollInterval() time.Duration {
	if c == nil || c.PollInterval == 0 {
		return DefaultPollInterval
	}
	return c.PollInterval
}

func (c *Config) name() string {
	if c == nil || c.Name == "" {
		return uuid.NewString()
	}
	return c.Name
}

func (c *Config) logger() *slog.Logger {
	if c == nil || c.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return c.Logger
}

func (c *Config) clock() func() time.Time {
	if c == nil || c.Now == nil {
		return time.Now
	}
	return c.Now
}

func (c *Config) source() *rand.Rand {
	if c == nil {
		return nil
	}
	return c.Rand
}
