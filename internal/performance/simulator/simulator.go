package simulator

import (
	"fmt"
	"math/rand"
	"time"
)

// OperationError is the failure produced by a simulated operation.
//
// It is expected and probabilistic: virtual users record it on the sample
// for the failed operation and keep looping. It never aborts a run and is
// never propagated past the sample that carries it.
type OperationError struct {
	// WorkloadType is the workload that produced the failure.
	WorkloadType string

	// Message is the workload's fixed failure description.
	Message string
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s: %s", e.WorkloadType, e.Message)
}

// Simulator executes simulated operations for a single workload.
//
// Each virtual user owns its own Simulator and random source, so concurrent
// users never share mutable state. The workload definition itself is read
// only.
type Simulator struct {
	workload Workload
	rng      *rand.Rand
}

// New creates a simulator for the given workload.
//
// The random source drives both the latency draw and the failure draw and
// must not be shared across goroutines (*rand.Rand is not safe for
// concurrent use). Passing a seeded source makes the simulator's sequence
// of draws reproducible.
func New(workload Workload, rng *rand.Rand) *Simulator {
	return &Simulator{
		workload: workload,
		rng:      rng,
	}
}

// Workload returns the workload definition this simulator executes.
func (s *Simulator) Workload() Workload {
	return s.workload
}

// Invoke performs one simulated operation: it suspends the calling
// goroutine for a duration drawn uniformly from the workload's latency
// range, then independently fails with the workload's fixed error at its
// configured probability.
//
// The latency sleep is deliberately not cancellation-aware: an in-flight
// operation always completes, and stop requests take effect at the virtual
// user's next loop-head check.
func (s *Simulator) Invoke() error {
	time.Sleep(s.latency())

	if s.workload.FailureRate > 0 && s.rng.Float64() < s.workload.FailureRate {
		return &OperationError{
			WorkloadType: s.workload.Type,
			Message:      s.workload.ErrorMessage,
		}
	}
	return nil
}

// latency draws the next operation duration from the workload's range.
func (s *Simulator) latency() time.Duration {
	min, max := s.workload.LatencyMin, s.workload.LatencyMax
	if max <= min {
		return min
	}
	return min + time.Duration(s.rng.Int63n(int64(max-min)+1))
}
