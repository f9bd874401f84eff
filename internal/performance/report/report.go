// Package report turns aggregated run metrics into classified load test
// reports: PASS, WARNING, or FAIL plus advisory recommendations.
package report

import (
	"fmt"
	"time"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/metrics"
)

// Status is the overall health classification of a run.
type Status string

const (
	StatusPass    Status = "PASS"
	StatusWarning Status = "WARNING"
	StatusFail    Status = "FAIL"
)

// Classification thresholds. FAIL outranks WARNING; comparisons are
// strict, so a run sitting exactly on a boundary keeps the milder
// status.
const (
	failErrorRatePercent = 15.0
	failMemoryGrowthMB   = 100.0

	warnErrorRatePercent = 5.0
	warnAvgLatencyMs     = 1000.0
	warnMemoryGrowthMB   = 50.0
)

// MemoryUsage summarizes heap usage across a run's resource snapshots,
// in megabytes.
type MemoryUsage struct {
	InitialMB float64 `json:"initial" yaml:"initial"`
	PeakMB    float64 `json:"peak" yaml:"peak"`
	FinalMB   float64 `json:"final" yaml:"final"`
}

// GrowthMB is the net heap growth between the first and last snapshot.
func (m MemoryUsage) GrowthMB() float64 {
	return m.FinalMB - m.InitialMB
}

// LoadTestReport is the durable output of one run, immutable once
// produced.
type LoadTestReport struct {
	RunID  string                 `json:"runId" yaml:"runId"`
	Config config.WorkloadProfile `json:"config" yaml:"config"`

	TotalRequests      int64 `json:"totalRequests" yaml:"totalRequests"`
	SuccessfulRequests int64 `json:"successfulRequests" yaml:"successfulRequests"`
	FailedRequests     int64 `json:"failedRequests" yaml:"failedRequests"`

	AverageLatencyMs float64                    `json:"averageLatencyMs" yaml:"averageLatencyMs"`
	MinLatencyMs     float64                    `json:"minLatencyMs" yaml:"minLatencyMs"`
	MaxLatencyMs     float64                    `json:"maxLatencyMs" yaml:"maxLatencyMs"`
	Percentiles      metrics.LatencyPercentiles `json:"percentiles" yaml:"percentiles"`

	ThroughputReqPerSec float64 `json:"throughputReqPerSec" yaml:"throughputReqPerSec"`
	ErrorRatePercent    float64 `json:"errorRatePercent" yaml:"errorRatePercent"`

	Memory MemoryUsage `json:"memory" yaml:"memory"`

	DurationMs int64     `json:"durationMs" yaml:"durationMs"`
	StartedAt  time.Time `json:"startedAt" yaml:"startedAt"`
	EndedAt    time.Time `json:"endedAt" yaml:"endedAt"`

	Status          Status   `json:"status" yaml:"status"`
	Recommendations []string `json:"recommendations" yaml:"recommendations"`

	// Error carries the failure description when the engine itself
	// broke mid-run. Empty for ordinary runs, including FAIL ones.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`
}

// Build assembles the report for a completed run.
func Build(runID string, profile config.WorkloadProfile, sum metrics.Summary, startedAt, endedAt time.Time) *LoadTestReport {
	return &LoadTestReport{
		RunID:               runID,
		Config:              profile,
		TotalRequests:       sum.TotalRequests,
		SuccessfulRequests:  sum.SuccessfulRequests,
		FailedRequests:      sum.FailedRequests,
		AverageLatencyMs:    sum.AverageLatencyMs,
		MinLatencyMs:        sum.MinLatencyMs,
		MaxLatencyMs:        sum.MaxLatencyMs,
		Percentiles:         sum.Percentiles,
		ThroughputReqPerSec: sum.ThroughputReqPerSec,
		ErrorRatePercent:    sum.ErrorRatePercent,
		Memory: MemoryUsage{
			InitialMB: sum.MemoryInitialMB,
			PeakMB:    sum.MemoryPeakMB,
			FinalMB:   sum.MemoryFinalMB,
		},
		DurationMs:      sum.ObservedDuration.Milliseconds(),
		StartedAt:       startedAt,
		EndedAt:         endedAt,
		Status:          classify(sum),
		Recommendations: recommendations(sum),
	}
}

// BuildEngineFailure assembles the FAIL report recorded when the run
// itself broke (a panic in the scheduler or aggregator, not a simulated
// operation failure). Whatever metrics were collected before the break
// are preserved.
func BuildEngineFailure(runID string, profile config.WorkloadProfile, sum metrics.Summary, startedAt, endedAt time.Time, cause string) *LoadTestReport {
	r := Build(runID, profile, sum, startedAt, endedAt)
	r.Status = StatusFail
	r.Error = cause
	r.Recommendations = append(r.Recommendations,
		fmt.Sprintf("The run aborted with an internal error (%s): inspect engine logs before trusting these numbers.", cause))
	return r
}

// classify applies the fixed thresholds in precedence order.
func classify(sum metrics.Summary) Status {
	growth := sum.MemoryFinalMB - sum.MemoryInitialMB

	if sum.ErrorRatePercent > failErrorRatePercent || growth > failMemoryGrowthMB {
		return StatusFail
	}
	if sum.ErrorRatePercent > warnErrorRatePercent ||
		sum.AverageLatencyMs > warnAvgLatencyMs ||
		growth > warnMemoryGrowthMB {
		return StatusWarning
	}
	return StatusPass
}

// recommendations emits one advisory per breached concern, worded for
// the highest severity the concern reached. Advisory only; nothing here
// is ever applied automatically.
func recommendations(sum metrics.Summary) []string {
	recs := make([]string, 0, 3)
	growth := sum.MemoryFinalMB - sum.MemoryInitialMB

	switch {
	case sum.ErrorRatePercent > failErrorRatePercent:
		recs = append(recs, fmt.Sprintf(
			"Error rate of %.1f%% exceeds %.0f%%: add retry with exponential backoff around the failing operations and shed load until the rate recovers.",
			sum.ErrorRatePercent, failErrorRatePercent))
	case sum.ErrorRatePercent > warnErrorRatePercent:
		recs = append(recs, fmt.Sprintf(
			"Error rate of %.1f%% exceeds %.0f%%: review recent failures and consider retrying transient errors.",
			sum.ErrorRatePercent, warnErrorRatePercent))
	}

	if sum.AverageLatencyMs > warnAvgLatencyMs {
		recs = append(recs, fmt.Sprintf(
			"Average latency of %.0fms exceeds %.0fms: cache repeated lookups or batch requests to reduce per-operation overhead.",
			sum.AverageLatencyMs, warnAvgLatencyMs))
	}

	switch {
	case growth > failMemoryGrowthMB:
		recs = append(recs, fmt.Sprintf(
			"Heap grew %.1fMB over the run (limit %.0fMB): audit listener and subscription cleanup for leaks before rerunning.",
			growth, failMemoryGrowthMB))
	case growth > warnMemoryGrowthMB:
		recs = append(recs, fmt.Sprintf(
			"Heap grew %.1fMB over the run (watermark %.0fMB): watch allocation hot spots; growth at this level tends to compound under longer runs.",
			growth, warnMemoryGrowthMB))
	}

	return recs
}
