package metrics

import (
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

// Histogram bounds for the percentile reduction: 1 microsecond to 1 hour,
// 3 significant figures.
const (
	histogramMinMicros  = 1
	histogramMaxMicros  = 3600000000
	histogramSigFigures = 3
)

// LatencyPercentiles holds the HDR-histogram-derived latency distribution,
// in milliseconds.
type LatencyPercentiles struct {
	P50Ms    float64 `json:"p50Ms" yaml:"p50Ms"`
	P90Ms    float64 `json:"p90Ms" yaml:"p90Ms"`
	P95Ms    float64 `json:"p95Ms" yaml:"p95Ms"`
	P99Ms    float64 `json:"p99Ms" yaml:"p99Ms"`
	StdDevMs float64 `json:"stdDevMs" yaml:"stdDevMs"`
}

// Summary is the reduction of one run's samples and snapshots.
//
// All derived values are zero when the sample set is empty; the memory
// fields still reflect whatever snapshots were captured (baseline and
// final exist even for an empty run).
type Summary struct {
	TotalRequests      int64 `json:"totalRequests"`
	SuccessfulRequests int64 `json:"successfulRequests"`
	FailedRequests     int64 `json:"failedRequests"`

	// AverageLatencyMs is the exact mean over all samples, success and
	// failure alike: failed operations still consumed time and represent
	// load.
	AverageLatencyMs float64 `json:"averageLatencyMs"`
	MinLatencyMs     float64 `json:"minLatencyMs"`
	MaxLatencyMs     float64 `json:"maxLatencyMs"`

	Percentiles LatencyPercentiles `json:"percentiles"`

	// ThroughputReqPerSec divides by the observed wall-clock span, not the
	// nominal configured duration, so ramp-up and tail latency are
	// reflected.
	ThroughputReqPerSec float64 `json:"throughputReqPerSec"`
	ErrorRatePercent    float64 `json:"errorRatePercent"`

	MemoryInitialMB float64 `json:"memoryInitialMB"`
	MemoryPeakMB    float64 `json:"memoryPeakMB"`
	MemoryFinalMB   float64 `json:"memoryFinalMB"`

	// ObservedDuration is the wall-clock span from scheduling start to the
	// last task's completion.
	ObservedDuration time.Duration `json:"observedDuration"`
}

// Aggregate reduces a finished run's buffers into a Summary.
//
// The reduction is pure and order-independent: it never mutates its
// inputs, and every derived statistic is commutative over the sample set
// (sample emission order across users carries no meaning). An empty sample
// set produces a well-formed all-zero Summary, never an error.
func Aggregate(samples []Sample, snapshots []ResourceSnapshot, observed time.Duration) Summary {
	summary := Summary{ObservedDuration: observed}

	if len(snapshots) > 0 {
		summary.MemoryInitialMB = snapshots[0].HeapUsedMB
		summary.MemoryFinalMB = snapshots[len(snapshots)-1].HeapUsedMB
		for _, snap := range snapshots {
			if snap.HeapUsedMB > summary.MemoryPeakMB {
				summary.MemoryPeakMB = snap.HeapUsedMB
			}
		}
	}

	if len(samples) == 0 {
		return summary
	}

	hist := hdrhistogram.New(histogramMinMicros, histogramMaxMicros, histogramSigFigures)

	var (
		sumMs  float64
		minMs  float64
		maxMs  float64
		failed int64
	)

	for i, s := range samples {
		ms := float64(s.Latency) / float64(time.Millisecond)
		sumMs += ms

		if i == 0 || ms < minMs {
			minMs = ms
		}
		if ms > maxMs {
			maxMs = ms
		}

		if !s.Success {
			failed++
		}

		micros := s.Latency.Microseconds()
		if micros < histogramMinMicros {
			micros = histogramMinMicros
		}
		if micros > histogramMaxMicros {
			micros = histogramMaxMicros
		}
		// RecordValue only fails outside the clamped range.
		_ = hist.RecordValue(micros)
	}

	total := int64(len(samples))
	summary.TotalRequests = total
	summary.FailedRequests = failed
	summary.SuccessfulRequests = total - failed
	summary.AverageLatencyMs = sumMs / float64(total)
	summary.MinLatencyMs = minMs
	summary.MaxLatencyMs = maxMs
	summary.ErrorRatePercent = float64(failed) / float64(total) * 100

	if observed > 0 {
		summary.ThroughputReqPerSec = float64(total) / observed.Seconds()
	}

	// The histogram records microseconds; percentiles are reported in ms.
	summary.Percentiles = LatencyPercentiles{
		P50Ms:    float64(hist.ValueAtQuantile(50)) / 1000.0,
		P90Ms:    float64(hist.ValueAtQuantile(90)) / 1000.0,
		P95Ms:    float64(hist.ValueAtQuantile(95)) / 1000.0,
		P99Ms:    float64(hist.ValueAtQuantile(99)) / 1000.0,
		StdDevMs: hist.StdDev() / 1000.0,
	}

	return summary
}
