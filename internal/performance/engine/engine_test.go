package engine

import (
	"context"
	"errors"
	"io"
	"math/rand"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/report"
)

// quietLogger keeps engine log output out of test results.
func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

// fastProfile returns a short run with tiny simulated latencies.
func fastProfile() config.WorkloadProfile {
	return config.WorkloadProfile{
		Concurrency:  2,
		Duration:     1,
		WorkloadType: "ui-interaction",
		LatencyMinMs: 1,
		LatencyMaxMs: 3,
		ThinkMinMs:   1,
		ThinkMaxMs:   2,
		Seed:         7,
	}
}

// checkReportInvariants asserts the properties every report must
// satisfy regardless of how its run ended.
func checkReportInvariants(t *testing.T, r *report.LoadTestReport) {
	t.Helper()

	if r.RunID == "" {
		t.Error("RunID is empty")
	}
	if r.TotalRequests != r.SuccessfulRequests+r.FailedRequests {
		t.Errorf("request partition broken: total %d != successful %d + failed %d",
			r.TotalRequests, r.SuccessfulRequests, r.FailedRequests)
	}
	if r.ErrorRatePercent < 0 || r.ErrorRatePercent > 100 {
		t.Errorf("ErrorRatePercent = %v, want within [0, 100]", r.ErrorRatePercent)
	}
	if r.FailedRequests == 0 && r.ErrorRatePercent != 0 {
		t.Errorf("ErrorRatePercent = %v with zero failures, want 0", r.ErrorRatePercent)
	}
	if r.ThroughputReqPerSec < 0 {
		t.Errorf("ThroughputReqPerSec = %v, want >= 0", r.ThroughputReqPerSec)
	}
	if r.TotalRequests == 0 && r.ThroughputReqPerSec != 0 {
		t.Errorf("ThroughputReqPerSec = %v with zero requests, want 0", r.ThroughputReqPerSec)
	}
	if r.Status != report.StatusPass && r.Status != report.StatusWarning && r.Status != report.StatusFail {
		t.Errorf("Status = %q, want PASS, WARNING, or FAIL", r.Status)
	}
	if r.Recommendations == nil {
		t.Error("Recommendations is nil, want at least an empty slice")
	}
}

func TestNewEngine(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	if got := eng.GetTestResults(); len(got) != 0 {
		t.Errorf("new engine has %d results, want 0", len(got))
	}
	if eng.LatestResult() != nil {
		t.Error("LatestResult() on a new engine should be nil")
	}
	if got := eng.ActiveRuns(); len(got) != 0 {
		t.Errorf("new engine has %d active runs, want 0", len(got))
	}
}

func TestEngine_RunLoadTest_InvalidProfile(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	rep, err := eng.RunLoadTest(context.Background(), config.WorkloadProfile{
		Concurrency:  0,
		Duration:     1,
		WorkloadType: "api",
	})

	if err == nil {
		t.Fatal("RunLoadTest() error = nil, want a validation error")
	}
	if rep != nil {
		t.Errorf("RunLoadTest() report = %+v, want nil on rejection", rep)
	}

	var verrs *config.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Errorf("error type = %T, want *config.ValidationErrors", err)
	}

	if got := eng.GetTestResults(); len(got) != 0 {
		t.Errorf("rejected profile left %d history entries, want 0", len(got))
	}
}

func TestEngine_RunLoadTest_SingleUser(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	// An unrecognized workload type falls back to the generic workload
	// rather than failing the run.
	rep, err := eng.RunLoadTest(context.Background(), config.WorkloadProfile{
		Concurrency:  1,
		Duration:     1,
		WorkloadType: "api",
		LatencyMinMs: 1,
		LatencyMaxMs: 3,
		ThinkMinMs:   1,
		ThinkMaxMs:   2,
		Seed:         11,
	})

	if err != nil {
		t.Fatalf("RunLoadTest() error = %v", err)
	}
	checkReportInvariants(t, rep)

	if rep.TotalRequests < 1 {
		t.Errorf("TotalRequests = %d, want >= 1", rep.TotalRequests)
	}
	if rep.Config.WorkloadType != "api" {
		t.Errorf("Config.WorkloadType = %q, want the profile echoed back", rep.Config.WorkloadType)
	}
	if rep.DurationMs <= 0 {
		t.Errorf("DurationMs = %d, want > 0", rep.DurationMs)
	}
	if rep.Error != "" {
		t.Errorf("Error = %q, want empty for a normal run", rep.Error)
	}

	results := eng.GetTestResults()
	if len(results) != 1 {
		t.Fatalf("history has %d entries, want 1", len(results))
	}
	if results[0] != rep {
		t.Error("history entry is not the returned report")
	}
}

func TestEngine_RunLoadTest_ZeroDuration(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	profile := fastProfile()
	profile.Duration = 0

	rep, err := eng.RunLoadTest(context.Background(), profile)
	if err != nil {
		t.Fatalf("RunLoadTest() error = %v", err)
	}
	checkReportInvariants(t, rep)

	if rep.TotalRequests != 0 {
		t.Errorf("TotalRequests = %d, want 0 for a zero-duration run", rep.TotalRequests)
	}
	if rep.Status != report.StatusPass {
		t.Errorf("Status = %v, want %v", rep.Status, report.StatusPass)
	}
	// Baseline and final snapshots exist even when nothing ran.
	if rep.Memory.InitialMB <= 0 || rep.Memory.FinalMB <= 0 {
		t.Errorf("Memory = %+v, want populated baseline and final readings", rep.Memory)
	}
}

func TestEngine_RunLoadTest_AppendsInOrder(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	profile := fastProfile()
	profile.Duration = 0

	first, err := eng.RunLoadTest(context.Background(), profile)
	if err != nil {
		t.Fatalf("first RunLoadTest() error = %v", err)
	}
	second, err := eng.RunLoadTest(context.Background(), profile)
	if err != nil {
		t.Fatalf("second RunLoadTest() error = %v", err)
	}

	if first.RunID == second.RunID {
		t.Error("both runs share a RunID, want unique IDs")
	}

	results := eng.GetTestResults()
	if len(results) != 2 {
		t.Fatalf("history has %d entries, want 2", len(results))
	}
	if results[0].RunID != first.RunID || results[1].RunID != second.RunID {
		t.Error("history is not in append order")
	}
	if eng.LatestResult().RunID != second.RunID {
		t.Errorf("LatestResult().RunID = %q, want %q", eng.LatestResult().RunID, second.RunID)
	}
}

func TestEngine_RunLoadTest_FactoryPanicRecovered(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))
	eng.newOperation = func(profile config.WorkloadProfile, id int, rng *rand.Rand) performance.Operation {
		panic("factory exploded")
	}

	rep, err := eng.RunLoadTest(context.Background(), fastProfile())

	if err != nil {
		t.Fatalf("RunLoadTest() error = %v, internal failures must not surface as errors", err)
	}
	if rep.Status != report.StatusFail {
		t.Errorf("Status = %v, want %v", rep.Status, report.StatusFail)
	}
	if !strings.Contains(rep.Error, "unexpected engine failure") {
		t.Errorf("Error = %q, want it to name the engine failure", rep.Error)
	}
	if !strings.Contains(rep.Error, "factory exploded") {
		t.Errorf("Error = %q, want it to carry the panic value", rep.Error)
	}
	if len(rep.Recommendations) == 0 {
		t.Error("Recommendations is empty, want the internal-error advisory")
	}

	results := eng.GetTestResults()
	if len(results) != 1 || results[0] != rep {
		t.Error("failure report was not appended to history")
	}
}

func TestEngine_RunLoadTest_OperationPanicRecovered(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))
	eng.newOperation = func(profile config.WorkloadProfile, id int, rng *rand.Rand) performance.Operation {
		return func() error {
			panic("corrupted operation state")
		}
	}

	profile := fastProfile()
	profile.Duration = 10 // the crash must end the run, not the deadline

	start := time.Now()
	rep, err := eng.RunLoadTest(context.Background(), profile)
	elapsed := time.Since(start)

	if err != nil {
		t.Fatalf("RunLoadTest() error = %v, internal failures must not surface as errors", err)
	}
	if rep.Status != report.StatusFail {
		t.Errorf("Status = %v, want %v", rep.Status, report.StatusFail)
	}
	if !strings.Contains(rep.Error, "crashed") {
		t.Errorf("Error = %q, want it to mention the crashed user", rep.Error)
	}
	if elapsed > 5*time.Second {
		t.Errorf("run took %v, want prompt abort on crash", elapsed)
	}
	if len(eng.GetTestResults()) != 1 {
		t.Error("failure report was not appended to history")
	}
}

func TestEngine_StopTest_UnknownID(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	// Must not panic or block.
	eng.StopTest("no-such-run")
	eng.StopAll()
}

func TestEngine_StopTest_CancelsRun(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	profile := fastProfile()
	profile.Duration = 30

	type outcome struct {
		rep *report.LoadTestReport
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		rep, err := eng.RunLoadTest(context.Background(), profile)
		done <- outcome{rep, err}
	}()

	runID := waitForActiveRun(t, eng)

	status := eng.ActiveRuns()[0]
	if status.WorkloadType != profile.WorkloadType {
		t.Errorf("ActiveRuns()[0].WorkloadType = %q, want %q", status.WorkloadType, profile.WorkloadType)
	}

	start := time.Now()
	eng.StopTest(runID)

	select {
	case out := <-done:
		if out.err != nil {
			t.Fatalf("RunLoadTest() error = %v, cancellation must still produce a report", out.err)
		}
		checkReportInvariants(t, out.rep)
		if elapsed := time.Since(start); elapsed > 5*time.Second {
			t.Errorf("run finished %v after StopTest, want well within the 30s duration", elapsed)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("run did not finish after StopTest")
	}

	if len(eng.ActiveRuns()) != 0 {
		t.Error("run still listed as active after completion")
	}
	if len(eng.GetTestResults()) != 1 {
		t.Error("cancelled run left no history entry")
	}
}

// waitForActiveRun polls until the engine reports one in-flight run.
func waitForActiveRun(t *testing.T, eng *Engine) string {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if runs := eng.ActiveRuns(); len(runs) == 1 {
			return runs[0].RunID
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("engine never reported an active run")
	return ""
}

func TestEngine_ClearResults(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	profile := fastProfile()
	profile.Duration = 0
	if _, err := eng.RunLoadTest(context.Background(), profile); err != nil {
		t.Fatalf("RunLoadTest() error = %v", err)
	}

	eng.ClearResults()

	if got := eng.GetTestResults(); len(got) != 0 {
		t.Errorf("history has %d entries after ClearResults, want 0", len(got))
	}
	if eng.LatestResult() != nil {
		t.Error("LatestResult() after ClearResults should be nil")
	}
}

func TestEngine_WithHistoryLimit(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()), WithHistoryLimit(2))

	profile := fastProfile()
	profile.Duration = 0

	var ids []string
	for i := 0; i < 3; i++ {
		rep, err := eng.RunLoadTest(context.Background(), profile)
		if err != nil {
			t.Fatalf("RunLoadTest() error = %v", err)
		}
		ids = append(ids, rep.RunID)
	}

	results := eng.GetTestResults()
	if len(results) != 2 {
		t.Fatalf("history has %d entries, want 2", len(results))
	}
	if results[0].RunID != ids[1] || results[1].RunID != ids[2] {
		t.Error("history did not evict the oldest report")
	}
}

func TestEngine_RunLoadTest_FailureRateOverride(t *testing.T) {
	eng := NewEngine(WithLogger(quietLogger()))

	never := 0.0
	profile := fastProfile()
	profile.FailureRate = &never

	rep, err := eng.RunLoadTest(context.Background(), profile)
	if err != nil {
		t.Fatalf("RunLoadTest() error = %v", err)
	}
	checkReportInvariants(t, rep)

	if rep.FailedRequests != 0 {
		t.Errorf("FailedRequests = %d, want 0 with failureRate 0", rep.FailedRequests)
	}
	if rep.Status != report.StatusPass {
		t.Errorf("Status = %v, want %v", rep.Status, report.StatusPass)
	}
}
