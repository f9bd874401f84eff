package performance

import (
	"context"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/metrics"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/rate"
)

const (
	// Default think-time window between iterations, applied when the
	// profile does not override it.
	defaultThinkMin = 50 * time.Millisecond
	defaultThinkMax = 150 * time.Millisecond
)

// SchedulerConfig describes one run's worth of virtual user scheduling.
type SchedulerConfig struct {
	// Concurrency is the number of virtual users to run.
	Concurrency int

	// Duration is how long each VU loops, measured from its own start
	// after the ramp-up offset. Zero means each VU exits before its
	// first iteration.
	Duration time.Duration

	// RampUp is the window across which VU starts are staggered. VU i
	// starts at RampUp * i / Concurrency; zero starts everyone at once.
	RampUp time.Duration

	// ThinkMin and ThinkMax bound the pause between iterations. When
	// both are zero the default window applies.
	ThinkMin time.Duration
	ThinkMax time.Duration

	// Limiter optionally caps aggregate operation starts per second
	// across all VUs. Nil means uncapped.
	Limiter *rate.LeakyBucket

	// Seed drives per-VU random sources. Zero picks a time-based seed.
	Seed int64

	// NewOperation builds the operation a VU executes each iteration.
	// Called once per VU with its ID and private random source.
	NewOperation func(id int, rng *rand.Rand) Operation
}

// Scheduler manages the lifecycle of a run's virtual users.
//
// It provides:
// - VU pool management (spawning, stopping)
// - Staggered starts across the ramp-up window
// - Graceful shutdown coordination
//
// Run blocks until every VU loop has exited, so the caller's wall-clock
// measurement around Run is the run's observed span.
type Scheduler struct {
	cfg       SchedulerConfig
	collector *metrics.Collector

	// Active VUs
	vus   map[int]*VirtualUser
	vusMu sync.RWMutex

	// Shutdown coordination
	shutdownCh   chan struct{}
	shutdownOnce sync.Once
	shutdownWg   sync.WaitGroup

	// First VU crash, if any
	crashMu  sync.Mutex
	crashErr error
}

// NewScheduler creates a scheduler for one run. The collector receives
// every sample the VUs produce.
func NewScheduler(cfg SchedulerConfig, collector *metrics.Collector) *Scheduler {
	if cfg.ThinkMin == 0 && cfg.ThinkMax == 0 {
		cfg.ThinkMin = defaultThinkMin
		cfg.ThinkMax = defaultThinkMax
	}
	if cfg.ThinkMax < cfg.ThinkMin {
		cfg.ThinkMax = cfg.ThinkMin
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Scheduler{
		cfg:        cfg,
		collector:  collector,
		vus:        make(map[int]*VirtualUser),
		shutdownCh: make(chan struct{}),
	}
}

// Run spawns all configured VUs and blocks until every loop has exited,
// whether by deadline, cancellation, or shutdown.
//
// A panic inside a VU loop is recovered rather than allowed to unwind
// the goroutine: the remaining VUs are stopped, samples recorded so far
// stay valid, and the first crash is returned. Ordinary operation
// failures never surface here; they are absorbed into samples.
func (s *Scheduler) Run(ctx context.Context) error {
	for i := 0; i < s.cfg.Concurrency; i++ {
		vu := s.spawnVU(i)
		offset := s.startOffset(i)

		s.shutdownWg.Add(1)
		go func(vu *VirtualUser, offset time.Duration) {
			defer s.shutdownWg.Done()
			defer func() {
				if r := recover(); r != nil {
					s.recordCrash(vu.ID, r)
				}
			}()
			s.runVU(ctx, vu, offset)
		}(vu, offset)
	}

	s.shutdownWg.Wait()

	s.crashMu.Lock()
	defer s.crashMu.Unlock()
	return s.crashErr
}

// recordCrash keeps the first crash and stops the remaining VUs; a run
// with a crashed user is no longer meaningful.
func (s *Scheduler) recordCrash(id int, cause interface{}) {
	s.crashMu.Lock()
	if s.crashErr == nil {
		s.crashErr = fmt.Errorf("virtual user %d crashed: %v", id, cause)
	}
	s.crashMu.Unlock()

	s.signalShutdown()
}

// signalShutdown closes the shutdown channel exactly once.
func (s *Scheduler) signalShutdown() {
	s.shutdownOnce.Do(func() {
		close(s.shutdownCh)
	})
}

// spawnVU creates and registers the VU at the given ramp-up index.
func (s *Scheduler) spawnVU(id int) *VirtualUser {
	rng := rand.New(rand.NewSource(s.cfg.Seed + int64(id) + 1))
	vu := NewVirtualUser(id, s.cfg.NewOperation(id, rng), s.collector, rng)

	s.vusMu.Lock()
	s.vus[id] = vu
	s.vusMu.Unlock()

	return vu
}

// startOffset returns when VU id may start, relative to the run start.
func (s *Scheduler) startOffset(id int) time.Duration {
	if s.cfg.Concurrency <= 0 || s.cfg.RampUp <= 0 {
		return 0
	}
	return s.cfg.RampUp * time.Duration(id) / time.Duration(s.cfg.Concurrency)
}

// runVU drives one VU: wait out the ramp-up offset, then loop until the
// VU's own deadline or a stop signal.
//
// Exit conditions are only checked at the top of the loop, so an
// operation in flight always completes and produces its sample. At worst
// one full iteration runs after a stop signal.
func (s *Scheduler) runVU(ctx context.Context, vu *VirtualUser, offset time.Duration) {
	defer vu.MarkStopped()

	if offset > 0 && !s.sleep(ctx, vu, offset) {
		return
	}

	started := time.Now()
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.shutdownCh:
			return
		case <-vu.stopCh:
			return
		default:
		}

		if time.Since(started) >= s.cfg.Duration {
			return
		}

		if s.cfg.Limiter != nil {
			if err := s.cfg.Limiter.Wait(ctx); err != nil {
				return
			}
			// A long rate wait may have crossed the deadline.
			if time.Since(started) >= s.cfg.Duration {
				return
			}
		}

		if err := vu.RunIteration(ctx); err != nil {
			return
		}

		if think := s.thinkTime(vu); think > 0 && !s.sleep(ctx, vu, think) {
			return
		}
	}
}

// thinkTime draws the next inter-iteration pause from the VU's source.
func (s *Scheduler) thinkTime(vu *VirtualUser) time.Duration {
	if s.cfg.ThinkMax <= s.cfg.ThinkMin {
		return s.cfg.ThinkMin
	}
	spread := int64(s.cfg.ThinkMax - s.cfg.ThinkMin)
	return s.cfg.ThinkMin + time.Duration(vu.rng.Int63n(spread+1))
}

// sleep waits for d or until a stop signal arrives. Returns true when
// the full duration elapsed. Offsets and think times are interruptible;
// only the operation itself is not.
func (s *Scheduler) sleep(ctx context.Context, vu *VirtualUser, d time.Duration) bool {
	select {
	case <-ctx.Done():
		return false
	case <-s.shutdownCh:
		return false
	case <-vu.stopCh:
		return false
	case <-time.After(d):
		return true
	}
}

// GetVU returns a VU by ID, or nil if not found.
func (s *Scheduler) GetVU(id int) *VirtualUser {
	s.vusMu.RLock()
	defer s.vusMu.RUnlock()
	return s.vus[id]
}

// GetActiveVUCount returns the count of non-stopped VUs.
func (s *Scheduler) GetActiveVUCount() int {
	s.vusMu.RLock()
	defer s.vusMu.RUnlock()

	count := 0
	for _, vu := range s.vus {
		if vu.GetState() != VUStateStopped {
			count++
		}
	}
	return count
}

// StopAllVUs requests every VU to stop after its current iteration.
func (s *Scheduler) StopAllVUs() {
	s.vusMu.RLock()
	defer s.vusMu.RUnlock()

	for _, vu := range s.vus {
		vu.RequestStop()
	}
}

// Shutdown stops all VUs and waits up to timeout for their loops to
// exit. Safe to call after Run has returned; it is then a no-op.
func (s *Scheduler) Shutdown(timeout time.Duration) {
	s.signalShutdown()
	s.StopAllVUs()

	done := make(chan struct{})
	go func() {
		s.shutdownWg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(timeout):
	}
}
