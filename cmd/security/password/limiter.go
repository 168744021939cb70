package password

import (
	"context"
	"runtime"

	"golang.org/x/sync/semaphore"
)

// Limiter bounds concurrent Argon2id computations.
//
// Hashing is CPU- and memory-bound; without a bound, a burst of concurrent
// logins can pin every core and balloon memory (64 MiB per in-flight hash at
// default params). The limiter keeps request accept paths responsive by
// queueing excess hashing work instead of running it all at once.
type Limiter struct {
	cfg Config
	sem *semaphore.Weighted
}

// NewLimiter wraps cfg with a weighted limiter admitting at most maxConcurrent
// hash or verify computations. maxConcurrent <= 0 defaults to GOMAXPROCS.
func NewLimiter(cfg Config, maxConcurrent int64) *Limiter {
	if maxConcurrent <= 0 {
		maxConcurrent = int64(runtime.GOMAXPROCS(0))
	}
	return &Limiter{cfg: cfg, sem: semaphore.NewWeighted(maxConcurrent)}
}

// Config returns the wrapped configuration.
func (l *Limiter) Config() Config { return l.cfg }

// Hash acquires a slot (or waits, honoring ctx) and hashes the password.
func (l *Limiter) Hash(ctx context.Context, pw string) (string, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return "", err
	}
	defer l.sem.Release(1)
	return l.cfg.Hash(pw)
}

// Verify acquires a slot (or waits, honoring ctx) and verifies the password.
func (l *Limiter) Verify(ctx context.Context, encodedHash, pw string) (bool, error) {
	if err := l.sem.Acquire(ctx, 1); err != nil {
		return false, err
	}
	defer l.sem.Release(1)
	return l.cfg.Verify(encodedHash, pw)
}

// Validate applies the wrapped policy. It never blocks.
func (l *Limiter) Validate(pw string) error { return l.cfg.Validate(pw) }
