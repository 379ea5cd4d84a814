// Package retry provides a bounded-retry executor with classification-driven
// backoff for wrapping unreliable external calls, such as browser fetches and
// markup conversion.
package retry

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/pagearc/pagearc"
)

// Default policy values used by DefaultPolicy.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = 1 * time.Second
	DefaultMaxDelay    = 30 * time.Second
)

// Attempt describes a failed attempt that is about to be retried.
// It is passed to the policy's OnRetry observer.
type Attempt struct {
	Number int           // attempt that just failed (1-based)
	Next   int           // attempt about to be made
	Max    int           // total attempts allowed
	Delay  time.Duration // sleep before the next attempt
	Err    error         // the failure being retried
}

// Policy configures the retry executor. A Policy is an immutable value;
// construct it once and pass it by value.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int

	// BaseDelay is the backoff delay before the second attempt.
	// Subsequent delays double, subject to jitter and MaxDelay.
	BaseDelay time.Duration

	// MaxDelay caps the computed delay.
	MaxDelay time.Duration

	// OnRetry, if set, is called before each backoff sleep. Its return is
	// ignored; it exists for logging and progress reporting only.
	OnRetry func(Attempt)
}

// DefaultPolicy returns the policy used when callers don't supply one:
// 3 attempts, 1s base delay, 30s cap.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		BaseDelay:   DefaultBaseDelay,
		MaxDelay:    DefaultMaxDelay,
	}
}

// Validate returns an error if the policy is not usable.
func (p Policy) Validate() error {
	if p.MaxAttempts < 1 {
		return pagearc.Errorf(pagearc.EINVALID, "retry policy requires at least one attempt")
	}
	if p.BaseDelay <= 0 {
		return pagearc.Errorf(pagearc.EINVALID, "retry policy base delay must be positive")
	}
	if p.MaxDelay < p.BaseDelay {
		return pagearc.Errorf(pagearc.EINVALID, "retry policy max delay must be >= base delay")
	}
	return nil
}

// Delay computes the backoff before attempt+1: BaseDelay doubled per failed
// attempt, perturbed by jitter drawn uniformly from [0.9, 1.1], and capped at
// MaxDelay. The jitter avoids synchronized retry storms against a recovering
// source.
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	backoff := float64(p.BaseDelay) * math.Pow(2, float64(attempt-1))
	jitter := 0.9 + 0.2*rand.Float64()
	d := time.Duration(backoff * jitter)
	if d < 0 || d > p.MaxDelay {
		// Negative means the float math overflowed time.Duration.
		d = p.MaxDelay
	}
	return d
}
