// Package backoff computes reconnect and retry delays.
//
// A Strategy is stateless, so a single value can be shared across
// goroutines. Attempts are 1-indexed: attempt 1 is the first retry
// after the initial failure. Attempt values below 1 are treated as 1.
package backoff

import (
	"math/rand/v2"
	"time"
)

// Strategy computes the wait before a retry attempt.
type Strategy interface {
	Delay(attempt int) time.Duration
}

// Func adapts a plain function to the Strategy interface.
type Func func(attempt int) time.Duration

// Delay implements Strategy.
func (f Func) Delay(attempt int) time.Duration { return f(attempt) }

// DefaultStrategy returns the backoff the announcement feed client
// uses when none is configured: full-jitter exponential growth from
// 1s up to a 1m ceiling.
func DefaultStrategy() Strategy {
	return NewExponentialWithJitter(1*time.Second, 1*time.Minute)
}

// Constant waits the same interval before every retry.
type Constant struct {
	Interval time.Duration
}

// NewConstant returns a strategy with a fixed delay.
func NewConstant(interval time.Duration) *Constant {
	return &Constant{Interval: interval}
}

// Delay returns the fixed interval.
func (c *Constant) Delay(int) time.Duration { return c.Interval }

// Linear waits Initial on the first retry and adds Initial for each
// further attempt. Max, when positive, caps the result.
type Linear struct {
	Initial time.Duration
	Max     time.Duration
}

// NewLinear returns a linearly growing strategy.
func NewLinear(initial, maxDelay time.Duration) *Linear {
	return &Linear{Initial: initial, Max: maxDelay}
}

// Delay returns Initial scaled by the attempt number, capped at Max.
func (l *Linear) Delay(attempt int) time.Duration {
	return capAt(l.Initial*time.Duration(atLeastOne(attempt)), l.Max)
}

// Exponential waits Initial on the first retry and doubles the wait
// for each further attempt. Max, when positive, caps the result.
type Exponential struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponential returns a doubling strategy.
func NewExponential(initial, maxDelay time.Duration) *Exponential {
	return &Exponential{Initial: initial, Max: maxDelay}
}

// Delay returns Initial doubled attempt-1 times, capped at Max.
func (e *Exponential) Delay(attempt int) time.Duration {
	return doubled(e.Initial, e.Max, atLeastOne(attempt)-1)
}

// ExponentialWithJitter draws a uniform random wait from
// [0, ceiling), where the ceiling doubles per attempt like
// Exponential. Spreading retries out this way keeps many clients
// that failed together from reconnecting in lockstep.
type ExponentialWithJitter struct {
	Initial time.Duration
	Max     time.Duration
}

// NewExponentialWithJitter returns a full-jitter doubling strategy.
func NewExponentialWithJitter(initial, maxDelay time.Duration) *ExponentialWithJitter {
	return &ExponentialWithJitter{Initial: initial, Max: maxDelay}
}

// Delay returns a random duration below the attempt's ceiling.
func (e *ExponentialWithJitter) Delay(attempt int) time.Duration {
	ceiling := doubled(e.Initial, e.Max, atLeastOne(attempt)-1)
	if ceiling <= 0 {
		return 0
	}
	return rand.N(ceiling) //nolint:gosec // jitter does not need crypto rand
}

func atLeastOne(attempt int) int {
	if attempt < 1 {
		return 1
	}
	return attempt
}

func capAt(d, limit time.Duration) time.Duration {
	if limit > 0 && d > limit {
		return limit
	}
	return d
}

// doubled returns base doubled steps times, saturating at limit when
// limit is positive and at the last representable value otherwise.
func doubled(base, limit time.Duration, steps int) time.Duration {
	d := base
	for range steps {
		next := d * 2
		if limit > 0 && next >= limit {
			return limit
		}
		if next <= 0 {
			// Overflowed; hold at the last value that fit.
			return d
		}
		d = next
	}
	return capAt(d, limit)
}
