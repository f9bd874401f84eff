// Package loadtest provides a load testing library driving simulated workloads.
//
// A load test spins up a set of virtual users, staggers their starts across a
// ramp-up window, and has each one repeatedly execute a simulated operation
// for a fixed duration. Latency samples and resource snapshots collected
// during the run are reduced into a classified report: PASS, WARNING, or
// FAIL, plus recommendations for whatever breached a threshold.
//
// # Quick Start
//
// For simple use cases, run a profile on the process-default engine:
//
//	profile := loadtest.WorkloadProfile{
//	    Concurrency:   10,
//	    Duration:      30,
//	    RampUpSeconds: 5,
//	    WorkloadType:  "api-call",
//	}
//
//	report, err := loadtest.RunLoadTest(context.Background(), profile)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	fmt.Printf("Status: %s\n", report.Status)
//	fmt.Printf("Requests: %d\n", report.TotalRequests)
//	fmt.Printf("P95: %.1fms\n", report.Percentiles.P95Ms)
//
// # Profiles From Files
//
// Profiles can also be loaded from JSON or YAML files; the parser is chosen
// by extension and the document is checked against the profile schema:
//
//	profile, err := loadtest.LoadProfile("soak.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	report, err := loadtest.RunLoadTest(ctx, *profile)
//
// # Dedicated Engines
//
// The package-level functions share one engine and one report history. For
// isolated histories or custom limits, create an engine directly:
//
//	eng := loadtest.NewEngine(loadtest.WithHistoryLimit(10))
//
//	report, err := eng.RunLoadTest(ctx, profile)
//	history := eng.GetTestResults() // oldest first, bounded
//
// # Stopping Runs
//
// Runs respect context cancellation, and an active run can be stopped by ID:
//
//	for _, status := range eng.ActiveRuns() {
//	    eng.StopTest(status.RunID)
//	}
//
// A stopped run still produces a report from everything measured up to the
// stop.
package loadtest
