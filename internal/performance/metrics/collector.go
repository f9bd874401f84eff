// Package metrics collects execution samples and resource snapshots for a
// single load test run and reduces them into summary statistics.
//
// The package is split along the run lifecycle:
//   - Collector is the only shared mutable state while a run is live. Both
//     of its buffers are strictly append-only, and atomic counters expose
//     cheap live progress without touching the buffers.
//   - Aggregate is a pure, order-independent reduction applied once the run
//     has finished and no goroutine is writing anymore.
package metrics

import (
	"math/rand"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// snapshotProbability is the chance that recording a sample also captures
// a resource snapshot. Sampling on completion keeps snapshot overhead
// proportional to load instead of racing a fixed-interval timer against
// many concurrent users.
const snapshotProbability = 0.10

// Sample is the outcome of one completed simulated operation.
//
// Exactly one Sample is recorded per operation, success or failure alike.
type Sample struct {
	// Success is false when the operation returned a simulated failure.
	Success bool `json:"success"`

	// Latency is the wall-clock time the operation took, measured by the
	// virtual user around the call.
	Latency time.Duration `json:"latency"`

	// Error holds the failure description for unsuccessful operations.
	Error string `json:"error,omitempty"`
}

// ResourceSnapshot is a point-in-time heap usage reading.
type ResourceSnapshot struct {
	// Timestamp is when the snapshot was taken.
	Timestamp time.Time `json:"timestamp"`

	// HeapUsedMB is the live heap allocation in megabytes.
	HeapUsedMB float64 `json:"heapUsedMB"`
}

// Collector accumulates samples and resource snapshots for one run.
//
// # Thread Safety
//
// Collector is safe for concurrent use by many virtual users. Buffer
// appends are mutex-guarded; the counters are atomic so live progress
// reads never contend with the append path.
type Collector struct {
	mu        sync.Mutex
	samples   []Sample
	snapshots []ResourceSnapshot

	// rng drives the opportunistic snapshot draw. Guarded by mu because
	// *rand.Rand is not safe for concurrent use.
	rng *rand.Rand

	// snapshotProb is overridable for tests; defaults to
	// snapshotProbability.
	snapshotProb float64

	// Atomic counters for lock-free progress reads.
	totalOps  atomic.Int64
	failedOps atomic.Int64
}

// NewCollector creates a collector for a single run.
//
// The random source drives opportunistic snapshot draws; passing nil uses
// a time-seeded source.
func NewCollector(rng *rand.Rand) *Collector {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Collector{
		rng:          rng,
		snapshotProb: snapshotProbability,
	}
}

// Record appends one sample to the run's buffer.
//
// With a fixed low probability, recording also captures a resource
// snapshot, so snapshot density follows the actual operation rate.
func (c *Collector) Record(s Sample) {
	c.totalOps.Add(1)
	if !s.Success {
		c.failedOps.Add(1)
	}

	c.mu.Lock()
	c.samples = append(c.samples, s)
	if c.rng.Float64() < c.snapshotProb {
		c.captureSnapshotLocked()
	}
	c.mu.Unlock()
}

// TakeSnapshot captures a resource snapshot immediately.
//
// The engine calls this once before scheduling (baseline) and once after
// all user tasks have exited (final).
func (c *Collector) TakeSnapshot() {
	c.mu.Lock()
	c.captureSnapshotLocked()
	c.mu.Unlock()
}

func (c *Collector) captureSnapshotLocked() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	c.snapshots = append(c.snapshots, ResourceSnapshot{
		Timestamp:  time.Now(),
		HeapUsedMB: float64(m.HeapAlloc) / (1024 * 1024),
	})
}

// Samples returns a copy of the sample buffer.
func (c *Collector) Samples() []Sample {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]Sample, len(c.samples))
	copy(out, c.samples)
	return out
}

// Snapshots returns a copy of the snapshot buffer in capture order.
func (c *Collector) Snapshots() []ResourceSnapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]ResourceSnapshot, len(c.snapshots))
	copy(out, c.snapshots)
	return out
}

// TotalCount returns the number of samples recorded so far.
func (c *Collector) TotalCount() int64 {
	return c.totalOps.Load()
}

// FailedCount returns the number of failed samples recorded so far.
func (c *Collector) FailedCount() int64 {
	return c.failedOps.Load()
}

// SuccessCount returns the number of successful samples recorded so far.
func (c *Collector) SuccessCount() int64 {
	return c.totalOps.Load() - c.failedOps.Load()
}
