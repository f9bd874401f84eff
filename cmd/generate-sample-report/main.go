package main

import (
	"fmt"
	"os"
	"time"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/metrics"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

func main() {
	rep := createSampleReport()

	outputPath := "sample-report.html"
	if len(os.Args) > 1 {
		outputPath = os.Args[1]
	}

	if err := report.GenerateHTML(rep, outputPath); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sample report generated: %s\n", outputPath)
}

// createSampleReport builds a representative WARNING report through the
// real classification path, so the sample page always shows the badge,
// metric cards, memory table, and recommendations exactly as a live run
// would render them.
func createSampleReport() *report.LoadTestReport {
	now := time.Now()
	observed := 131500 * time.Millisecond

	profile := config.WorkloadProfile{
		Name:          "analytics dashboard soak",
		Concurrency:   25,
		Duration:      120,
		RampUpSeconds: 15,
		WorkloadType:  "analytics",
		TargetRate:    60,
	}

	// Error rate past the 5% watermark and heap growth past 50MB, both
	// below the FAIL thresholds.
	sum := metrics.Summary{
		TotalRequests:      5847,
		SuccessfulRequests: 5430,
		FailedRequests:     417,
		AverageLatencyMs:   487.3,
		MinLatencyMs:       302.4,
		MaxLatencyMs:       1893.6,
		Percentiles: metrics.LatencyPercentiles{
			P50Ms:    455.0,
			P90Ms:    721.0,
			P95Ms:    812.0,
			P99Ms:    1204.0,
			StdDevMs: 143.7,
		},
		ThroughputReqPerSec: 44.5,
		ErrorRatePercent:    7.13,
		MemoryInitialMB:     24.6,
		MemoryPeakMB:        97.8,
		MemoryFinalMB:       86.1,
		ObservedDuration:    observed,
	}

	return report.Build(
		"8c14f3a7-5b2d-4e19-9d6a-f07bb21c94e3",
		profile,
		sum,
		now.Add(-observed),
		now,
	)
}
