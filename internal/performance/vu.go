// Package performance implements the concurrent load generation engine:
// virtual users, staggered ramp-up scheduling, and cooperative
// cancellation.
package performance

import (
	"context"
	"fmt"
	"math/rand"
	"sync/atomic"
	"time"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/metrics"
)

// Operation is one unit of simulated work executed by a virtual user.
// A non-nil error marks the resulting sample as failed; it never aborts
// the user's loop.
type Operation func() error

// VUState represents the lifecycle state of a virtual user.
type VUState int32

const (
	// VUStateIdle indicates the VU is ready but not currently executing.
	VUStateIdle VUState = iota
	// VUStateRunning indicates the VU is actively executing an operation.
	VUStateRunning
	// VUStateStopping indicates the VU has been requested to stop.
	VUStateStopping
	// VUStateStopped indicates the VU has fully stopped.
	VUStateStopped
)

func (s VUState) String() string {
	switch s {
	case VUStateIdle:
		return "idle"
	case VUStateRunning:
		return "running"
	case VUStateStopping:
		return "stopping"
	case VUStateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// VirtualUser is a single simulated user repeatedly executing its
// operation against the workload.
//
// Each VU has its own:
// - Operation (bound to a per-VU random source for reproducible runs)
// - Iteration counter
// - Lifecycle management
//
// VUs are created by the Scheduler, which drives their loops.
type VirtualUser struct {
	// Unique identifier within a run; doubles as the ramp-up index.
	ID int

	op        Operation
	collector *metrics.Collector

	// Per-VU random source; shared with the operation, used only from
	// this VU's goroutine.
	rng *rand.Rand

	// Lifecycle state (atomic for lock-free reads)
	state atomic.Int32

	// Stop signal
	stopCh chan struct{}

	// Done signal (closed when the VU fully stops)
	doneCh chan struct{}

	// Iteration counter
	iteration atomic.Int64
}

// NewVirtualUser creates a virtual user bound to an operation and the
// run's sample collector.
func NewVirtualUser(id int, op Operation, collector *metrics.Collector, rng *rand.Rand) *VirtualUser {
	return &VirtualUser{
		ID:        id,
		op:        op,
		collector: collector,
		rng:       rng,
		stopCh:    make(chan struct{}),
		doneCh:    make(chan struct{}),
	}
}

// GetState returns the current VU state.
func (vu *VirtualUser) GetState() VUState {
	return VUState(vu.state.Load())
}

// GetIteration returns the number of iterations started so far.
func (vu *VirtualUser) GetIteration() int64 {
	return vu.iteration.Load()
}

// RunIteration executes the operation once and records the outcome.
//
// The operation always runs to completion: a failure becomes a failed
// sample with its error message, never an aborted loop. Wall-clock time
// around the operation is the sample's latency.
//
// Returns an error only when the run is already cancelled or the VU is
// stopping or stopped; once the operation starts it is never interrupted.
func (vu *VirtualUser) RunIteration(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	currentState := vu.GetState()
	if currentState == VUStateStopping || currentState == VUStateStopped {
		return fmt.Errorf("virtual user %d is stopping or stopped", vu.ID)
	}

	vu.state.Store(int32(VUStateRunning))
	vu.iteration.Add(1)

	start := time.Now()
	err := vu.op()
	elapsed := time.Since(start)

	sample := metrics.Sample{
		Success: err == nil,
		Latency: elapsed,
	}
	if err != nil {
		sample.Error = err.Error()
	}
	vu.collector.Record(sample)

	// Only transition back to idle if no stop was requested meanwhile.
	vu.state.CompareAndSwap(int32(VUStateRunning), int32(VUStateIdle))
	return nil
}

// RequestStop signals the VU to stop after completing the current
// iteration.
func (vu *VirtualUser) RequestStop() {
	currentState := VUState(vu.state.Load())
	if currentState == VUStateStopped {
		return
	}

	// Try to transition to stopping state
	if vu.state.CompareAndSwap(int32(VUStateRunning), int32(VUStateStopping)) ||
		vu.state.CompareAndSwap(int32(VUStateIdle), int32(VUStateStopping)) {
		close(vu.stopCh)
	}
}

// WaitForStop waits for the VU to stop with a timeout.
//
// Returns true if the VU stopped within the timeout, false otherwise.
func (vu *VirtualUser) WaitForStop(timeout time.Duration) bool {
	select {
	case <-vu.doneCh:
		return true
	case <-time.After(timeout):
		return false
	}
}

// MarkStopped marks the VU as fully stopped.
// Called by the scheduler when the VU goroutine exits.
func (vu *VirtualUser) MarkStopped() {
	vu.state.Store(int32(VUStateStopped))
	select {
	case <-vu.doneCh:
		// Already closed
	default:
		close(vu.doneCh)
	}
}
