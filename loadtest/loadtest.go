package loadtest

import (
	"context"
	"sync"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/engine"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

// Aliases re-exporting the working types, so callers never touch the
// internal packages directly.
type (
	// WorkloadProfile describes one load test run.
	WorkloadProfile = config.WorkloadProfile

	// ValidationErrors is the error returned for rejected profiles. Use
	// errors.As to inspect individual field errors.
	ValidationErrors = config.ValidationErrors

	// LoadTestReport is the immutable result of one run.
	LoadTestReport = report.LoadTestReport

	// MemoryUsage summarizes heap usage across a run.
	MemoryUsage = report.MemoryUsage

	// Status classifies a run's health.
	Status = report.Status

	// Engine runs load tests and keeps a bounded report history.
	Engine = engine.Engine

	// Option configures an Engine.
	Option = engine.Option

	// RunStatus is a point-in-time view of an active run.
	RunStatus = engine.RunStatus
)

// Status values a report can carry.
const (
	StatusPass    = report.StatusPass
	StatusWarning = report.StatusWarning
	StatusFail    = report.StatusFail
)

// DefaultHistoryLimit is the report history bound used when
// WithHistoryLimit is not given.
const DefaultHistoryLimit = engine.DefaultHistoryLimit

// Engine options.
var (
	WithHistoryLimit = engine.WithHistoryLimit
	WithLogger       = engine.WithLogger
)

// NewEngine creates an isolated engine. Engines do not share report
// history.
func NewEngine(opts ...Option) *Engine {
	return engine.NewEngine(opts...)
}

// LoadProfile reads a workload profile from a JSON or YAML file chosen
// by extension, validating it against the profile schema.
func LoadProfile(path string) (*WorkloadProfile, error) {
	return config.LoadProfile(path)
}

// The process-default engine behind the package-level functions,
// created on first use.
var (
	defaultOnce   sync.Once
	defaultEngine *Engine
)

// Default returns the process-default engine.
func Default() *Engine {
	defaultOnce.Do(func() {
		defaultEngine = engine.NewEngine()
	})
	return defaultEngine
}

// RunLoadTest runs one load test to completion on the process-default
// engine and appends its report to the shared history.
func RunLoadTest(ctx context.Context, profile WorkloadProfile) (*LoadTestReport, error) {
	return Default().RunLoadTest(ctx, profile)
}

// StopTest cancels an active run on the process-default engine.
// Unknown IDs are ignored.
func StopTest(runID string) {
	Default().StopTest(runID)
}

// GetTestResults returns the process-default engine's report history,
// oldest first.
func GetTestResults() []*LoadTestReport {
	return Default().GetTestResults()
}

// ClearResults empties the process-default engine's report history.
func ClearResults() {
	Default().ClearResults()
}
