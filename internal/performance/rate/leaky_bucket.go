// Package rate provides the scheduling primitive behind rate-capped load
// test runs.
package rate

import (
	"context"
	"sync"
	"time"
)

// LeakyBucket spaces operation starts at a fixed rate.
//
// When a profile sets a target rate, every virtual user of the run shares
// one bucket: each user asks the bucket when its next operation may start,
// so aggregate starts across all users never exceed the configured rate no
// matter how many users are looping.
//
// # Algorithm
//
// The bucket keeps a virtual drip schedule that advances at rate
// iterations per second. Next returns the timestamp the caller may proceed
// at; if the schedule has fallen behind wall-clock time, the caller
// proceeds immediately. No bursting: at most one accumulated iteration is
// carried, so a quiet period never turns into a spike.
//
// # Thread Safety
//
// LeakyBucket is safe for concurrent use from many goroutines.
type LeakyBucket struct {
	rate        float64
	lastDrip    time.Time
	accumulated float64
	mu          sync.Mutex
}

// NewLeakyBucket creates a limiter targeting the given number of operation
// starts per second. Rates of zero or below are treated as one per second;
// callers that want no cap simply do not use a bucket.
func NewLeakyBucket(rate float64) *LeakyBucket {
	if rate <= 0 {
		rate = 1.0
	}
	return &LeakyBucket{
		rate:     rate,
		lastDrip: time.Now(),
	}
}

// Rate returns the configured operations per second.
func (lb *LeakyBucket) Rate() float64 {
	lb.mu.Lock()
	defer lb.mu.Unlock()
	return lb.rate
}

// Next returns when the next operation may start.
//
// The returned time may be in the past when the schedule is behind
// wall-clock time, meaning the caller should proceed immediately.
func (lb *LeakyBucket) Next() time.Time {
	lb.mu.Lock()
	defer lb.mu.Unlock()

	now := time.Now()
	elapsed := now.Sub(lb.lastDrip).Seconds()
	if elapsed < 0 {
		// lastDrip can sit in the future when a wait was just scheduled.
		elapsed = 0
	}

	lb.accumulated += elapsed * lb.rate
	if lb.accumulated > 1.0 {
		lb.accumulated = 1.0
	}

	if lb.accumulated >= 1.0 {
		lb.accumulated -= 1.0
		lb.lastDrip = now
		return now
	}

	// Schedule the next start in the future and anchor the drip time to
	// it, so waking up at nextTime does not double-count the wait as new
	// accumulation.
	deficit := 1.0 - lb.accumulated
	lb.accumulated = 0
	nextTime := now.Add(time.Duration(deficit / lb.rate * float64(time.Second)))
	lb.lastDrip = nextTime

	return nextTime
}

// Wait blocks until the next operation may start.
//
// Returns nil when the wait completed and ctx.Err() when the context was
// cancelled first. Virtual users treat a cancelled wait like any other
// loop suspension point: the loop-head check observes the cancellation.
func (lb *LeakyBucket) Wait(ctx context.Context) error {
	waitDuration := time.Until(lb.Next())
	if waitDuration <= 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(waitDuration):
		return nil
	}
}
