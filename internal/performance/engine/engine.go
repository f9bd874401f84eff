// Package engine orchestrates load test runs: it validates profiles,
// schedules virtual users, reduces their samples into a classified
// report, and retains a bounded history of results.
package engine

import (
	"context"
	"fmt"
	"io"
	"math/rand"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/metrics"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/rate"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/simulator"
)

// DefaultHistoryLimit is the number of reports an engine retains when
// WithHistoryLimit is not given.
const DefaultHistoryLimit = 50

// operationFactory builds the operation one virtual user executes each
// iteration. Swappable so tests can inject failing or panicking
// operations.
type operationFactory func(profile config.WorkloadProfile, id int, rng *rand.Rand) performance.Operation

// Engine runs load tests and retains their reports.
//
// Engines are independent: each owns its history and active-run table,
// so several can coexist in one process. All methods are safe for
// concurrent use, including overlapping RunLoadTest calls.
//
// Example usage:
//
//	eng := engine.NewEngine()
//	report, err := eng.RunLoadTest(ctx, config.WorkloadProfile{
//		Concurrency:  10,
//		Duration:     30,
//		WorkloadType: "analytics",
//	})
type Engine struct {
	logger  *logrus.Logger
	history *ReportStore

	newOperation operationFactory

	mu     sync.Mutex
	active map[string]*activeRun
}

// activeRun tracks one in-flight run for StopTest and ActiveRuns.
type activeRun struct {
	runID     string
	profile   config.WorkloadProfile
	startedAt time.Time
	cancel    context.CancelFunc
	collector *metrics.Collector
	scheduler *performance.Scheduler
}

// RunStatus is a point-in-time view of an in-flight run.
type RunStatus struct {
	RunID        string    `json:"runId"`
	Name         string    `json:"name,omitempty"`
	WorkloadType string    `json:"workloadType"`
	StartedAt    time.Time `json:"startedAt"`
	ActiveVUs    int       `json:"activeVUs"`
	TotalOps     int64     `json:"totalOps"`
	FailedOps    int64     `json:"failedOps"`
}

// Option configures an Engine.
type Option func(*Engine)

// WithHistoryLimit bounds the report history. Non-positive values keep
// the default.
func WithHistoryLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.history = NewReportStore(n)
		}
	}
}

// WithLogger replaces the engine's logger.
func WithLogger(logger *logrus.Logger) Option {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// NewEngine creates an engine with an empty history.
//
// The default logger is silent so the engine stays quiet as a library;
// pass WithLogger to see run lifecycle logs.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		logger:       silentLogger(),
		history:      NewReportStore(DefaultHistoryLimit),
		newOperation: newSimulatedOperation,
		active:       make(map[string]*activeRun),
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

func silentLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	logger.SetLevel(logrus.WarnLevel)
	return logger
}

// RunLoadTest executes one load test described by the profile and
// blocks until it finishes.
//
// Invalid profiles are rejected synchronously with a
// *config.ValidationErrors before any user is scheduled, and leave no
// trace in the history. Every scheduled run produces a report: normal
// completion and cooperative cancellation both yield a classified
// report, and an internal failure yields a FAIL report whose Error
// field explains the break. In all three cases the report is appended
// to the history and the returned error is nil.
func (e *Engine) RunLoadTest(ctx context.Context, profile config.WorkloadProfile) (*report.LoadTestReport, error) {
	if err := profile.Validate(); err != nil {
		e.logger.WithFields(logrus.Fields{
			"workloadType": profile.WorkloadType,
			"error":        err,
		}).Warn("rejecting invalid profile")
		return nil, err
	}

	runID := uuid.NewString()

	collector := metrics.NewCollector(collectorSource(profile.Seed))
	scheduler := performance.NewScheduler(e.schedulerConfig(profile), collector)

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	e.register(&activeRun{
		runID:     runID,
		profile:   profile,
		startedAt: time.Now(),
		cancel:    cancel,
		collector: collector,
		scheduler: scheduler,
	})
	defer e.unregister(runID)

	rep := e.executeRun(runCtx, runID, profile, collector, scheduler)
	e.history.Append(rep)

	return rep, nil
}

// executeRun drives one scheduled run to a report. A crashed virtual
// user or a panic anywhere in scheduling or aggregation is converted
// into an engine-failure report carrying whatever metrics were
// collected before the break.
func (e *Engine) executeRun(ctx context.Context, runID string, profile config.WorkloadProfile, collector *metrics.Collector, scheduler *performance.Scheduler) (rep *report.LoadTestReport) {
	startedAt := time.Now()

	defer func() {
		r := recover()
		if r == nil {
			return
		}

		cause := fmt.Sprintf("unexpected engine failure: %v", r)
		e.logger.WithFields(logrus.Fields{
			"runId": runID,
			"panic": r,
		}).Error("run aborted by internal error")

		sum := metrics.Aggregate(collector.Samples(), collector.Snapshots(), time.Since(startedAt))
		rep = report.BuildEngineFailure(runID, profile, sum, startedAt, time.Now(), cause)
	}()

	e.logger.WithFields(logrus.Fields{
		"runId":        runID,
		"workloadType": profile.WorkloadType,
		"concurrency":  profile.Concurrency,
		"duration":     profile.Duration,
		"rampUp":       profile.RampUpSeconds,
	}).Info("run started")

	collector.TakeSnapshot()
	runErr := scheduler.Run(ctx)
	observed := time.Since(startedAt)
	collector.TakeSnapshot()

	sum := metrics.Aggregate(collector.Samples(), collector.Snapshots(), observed)

	if runErr != nil {
		e.logger.WithFields(logrus.Fields{
			"runId": runID,
			"error": runErr,
		}).Error("run aborted by internal error")
		return report.BuildEngineFailure(runID, profile, sum, startedAt, time.Now(),
			fmt.Sprintf("unexpected engine failure: %v", runErr))
	}

	rep = report.Build(runID, profile, sum, startedAt, time.Now())

	e.logger.WithFields(logrus.Fields{
		"runId":         runID,
		"status":        rep.Status,
		"totalRequests": rep.TotalRequests,
		"errorRate":     rep.ErrorRatePercent,
		"durationMs":    rep.DurationMs,
	}).Info("run completed")

	return rep
}

// schedulerConfig translates a validated profile into scheduler terms.
func (e *Engine) schedulerConfig(profile config.WorkloadProfile) performance.SchedulerConfig {
	thinkMin, thinkMax := profile.ThinkWindow()

	var limiter *rate.LeakyBucket
	if profile.TargetRate > 0 {
		limiter = rate.NewLeakyBucket(profile.TargetRate)
	}

	return performance.SchedulerConfig{
		Concurrency: profile.Concurrency,
		Duration:    profile.RunDuration(),
		RampUp:      profile.RampUpDuration(),
		ThinkMin:    thinkMin,
		ThinkMax:    thinkMax,
		Limiter:     limiter,
		Seed:        profile.Seed,
		NewOperation: func(id int, rng *rand.Rand) performance.Operation {
			return e.newOperation(profile, id, rng)
		},
	}
}

// StopTest requests cooperative cancellation of an in-flight run.
//
// The run's users finish their current iteration and exit; the run
// still produces a report. Unknown or already-finished IDs are a no-op.
func (e *Engine) StopTest(runID string) {
	e.mu.Lock()
	run, ok := e.active[runID]
	e.mu.Unlock()

	if !ok {
		return
	}

	e.logger.WithField("runId", runID).Info("stop requested")
	run.cancel()
}

// StopAll requests cancellation of every in-flight run.
func (e *Engine) StopAll() {
	e.mu.Lock()
	runs := make([]*activeRun, 0, len(e.active))
	for _, run := range e.active {
		runs = append(runs, run)
	}
	e.mu.Unlock()

	for _, run := range runs {
		run.cancel()
	}
}

// GetTestResults returns a copy of the retained reports in append
// order, oldest first.
func (e *Engine) GetTestResults() []*report.LoadTestReport {
	return e.history.Reports()
}

// LatestResult returns the most recent report, or nil when the history
// is empty.
func (e *Engine) LatestResult() *report.LoadTestReport {
	return e.history.Latest()
}

// ClearResults discards the report history.
func (e *Engine) ClearResults() {
	e.history.Clear()
}

// ActiveRuns returns a snapshot of in-flight runs with live progress
// counters, ordered by start time.
func (e *Engine) ActiveRuns() []RunStatus {
	e.mu.Lock()
	statuses := make([]RunStatus, 0, len(e.active))
	for _, run := range e.active {
		statuses = append(statuses, RunStatus{
			RunID:        run.runID,
			Name:         run.profile.Name,
			WorkloadType: run.profile.WorkloadType,
			StartedAt:    run.startedAt,
			ActiveVUs:    run.scheduler.GetActiveVUCount(),
			TotalOps:     run.collector.TotalCount(),
			FailedOps:    run.collector.FailedCount(),
		})
	}
	e.mu.Unlock()

	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].StartedAt.Before(statuses[j].StartedAt)
	})
	return statuses
}

func (e *Engine) register(run *activeRun) {
	e.mu.Lock()
	e.active[run.runID] = run
	e.mu.Unlock()
}

func (e *Engine) unregister(runID string) {
	e.mu.Lock()
	delete(e.active, runID)
	e.mu.Unlock()
}

// collectorSource returns the snapshot-draw source for a run. A zero
// seed keeps the collector on its own time-based source.
func collectorSource(seed int64) *rand.Rand {
	if seed == 0 {
		return nil
	}
	return rand.New(rand.NewSource(seed))
}

// newSimulatedOperation is the default operation factory: each user
// gets its own simulator for the profile's resolved workload, with any
// profile overrides applied.
func newSimulatedOperation(profile config.WorkloadProfile, id int, rng *rand.Rand) performance.Operation {
	w := simulator.Resolve(profile.WorkloadType)

	if profile.FailureRate != nil {
		w.FailureRate = *profile.FailureRate
	}
	if profile.LatencyMinMs > 0 {
		w.LatencyMin = time.Duration(profile.LatencyMinMs) * time.Millisecond
	}
	if profile.LatencyMaxMs > 0 {
		w.LatencyMax = time.Duration(profile.LatencyMaxMs) * time.Millisecond
		if w.LatencyMax < w.LatencyMin {
			w.LatencyMin = w.LatencyMax
		}
	}

	return simulator.New(w, rng).Invoke
}
