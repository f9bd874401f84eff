package output

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/config"
	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/engine"
)

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		duration time.Duration
		expected string
	}{
		{500 * time.Millisecond, "500ms"},
		{1 * time.Second, "1.0s"},
		{1*time.Minute + 30*time.Second, "1m 30s"},
		{1*time.Hour + 2*time.Minute + 3*time.Second, "1h 02m 03s"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatDuration(tt.duration)
			if result != tt.expected {
				t.Errorf("formatDuration(%v) = %q, want %q", tt.duration, result, tt.expected)
			}
		})
	}
}

func TestFormatNumber(t *testing.T) {
	tests := []struct {
		number   int64
		expected string
	}{
		{0, "0"},
		{100, "100"},
		{1000, "1,000"},
		{12345, "12,345"},
		{1234567, "1,234,567"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := formatNumber(tt.number)
			if result != tt.expected {
				t.Errorf("formatNumber(%d) = %q, want %q", tt.number, result, tt.expected)
			}
		})
	}
}

func TestStripANSI(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "hello"},
		{"\033[32mgreen\033[0m", "green"},
		{"\033[1m\033[34mbold blue\033[0m", "bold blue"},
		{"no \033[31mcolors\033[0m here", "no colors here"},
	}

	for _, tt := range tests {
		t.Run(tt.expected, func(t *testing.T) {
			result := stripANSI(tt.input)
			if result != tt.expected {
				t.Errorf("stripANSI(%q) = %q, want %q", tt.input, result, tt.expected)
			}
		})
	}
}

func TestConsoleOutputCreation(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName:        "checkout soak",
		WorkloadType:   "api-call",
		UpdateInterval: time.Second,
		Writer:         &buf,
	})

	if output == nil {
		t.Fatal("NewConsoleOutput returned nil")
	}

	if output.runName != "checkout soak" {
		t.Errorf("runName = %q, want %q", output.runName, "checkout soak")
	}

	if output.UpdateEvery() != time.Second {
		t.Errorf("UpdateEvery() = %v, want %v", output.UpdateEvery(), time.Second)
	}

	// Should not be TTY when writing to buffer
	if output.IsTTY() {
		t.Error("Expected non-TTY when writing to buffer")
	}
}

func TestConsoleOutputDefaults(t *testing.T) {
	output := NewConsoleOutput(ConsoleOutputConfig{Writer: &bytes.Buffer{}})

	if output.UpdateEvery() != time.Second {
		t.Errorf("default UpdateEvery() = %v, want %v", output.UpdateEvery(), time.Second)
	}
}

func TestProgressBar(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName: "Test",
		Writer:  &buf,
	})

	tests := []struct {
		progress float64
		width    int
	}{
		{0.0, 20},
		{0.5, 20},
		{1.0, 20},
	}

	for _, tt := range tests {
		result := output.renderProgressBar(tt.progress, tt.width)

		// Should have brackets
		if !strings.HasPrefix(result, "[") || !strings.HasSuffix(result, "]") {
			t.Errorf("Progress bar should be wrapped in brackets: %q", result)
		}

		// Count runes (not bytes) because we use multi-byte Unicode characters
		runeCount := len([]rune(result))

		// Should be correct length in runes (width + 2 for brackets)
		if runeCount != tt.width+2 {
			t.Errorf("Progress bar rune count = %d, want %d", runeCount, tt.width+2)
		}
	}
}

func TestPrintHeader(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName:      "spike test",
		WorkloadType: "database-query",
		Writer:       &buf,
	})

	output.PrintHeader()
	header := buf.String()

	if !strings.Contains(header, "spike test") {
		t.Error("Header should contain the run name")
	}
	if !strings.Contains(header, "database-query") {
		t.Error("Header should contain the workload type")
	}
	if !strings.Contains(header, "Running") {
		t.Error("Header should show the running status")
	}
}

func TestPrintHeaderFallsBackToWorkloadType(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		WorkloadType: "file-io",
		Writer:       &buf,
	})

	output.PrintHeader()

	if !strings.Contains(buf.String(), "file-io - Running") {
		t.Errorf("Header should title an unnamed run by workload type, got %q", buf.String())
	}
}

func TestUpdateSkipsNonTTY(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName: "Test",
		Writer:  &buf,
	})

	output.Update(&LiveStats{Progress: 0.5, ActiveVUs: 5, TargetVUs: 10})

	if buf.Len() != 0 {
		t.Error("Update should not draw when the writer is not a TTY")
	}
}

func TestUpdateRedrawsInPlace(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName:  "Test",
		Writer:   &buf,
		ForceTTY: true,
	})

	output.Update(&LiveStats{Progress: 0.25, ActiveVUs: 2, TargetVUs: 4, TotalOps: 10, Phase: PhaseRampUp})
	first := stripANSI(buf.String())
	if !strings.Contains(first, "25%") {
		t.Errorf("First frame should show 25%%, got %q", first)
	}

	output.Update(&LiveStats{Progress: 0.5, ActiveVUs: 4, TargetVUs: 4, TotalOps: 60, Phase: PhaseSteady})
	full := stripANSI(buf.String())
	if !strings.Contains(full, "50%") {
		t.Errorf("Second frame should show 50%%, got %q", full)
	}
	if !strings.Contains(full, PhaseSteady) {
		t.Error("Second frame should show the steady phase")
	}
}

func TestFinishClearsLiveRegion(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName:  "Test",
		Writer:   &buf,
		ForceTTY: true,
	})

	output.Update(&LiveStats{Progress: 0.5})
	if output.linesOutput == 0 {
		t.Fatal("Update should have drawn the live region")
	}

	output.Finish()
	if output.linesOutput != 0 {
		t.Error("Finish should reset the live region")
	}

	// A second Finish has nothing left to clear.
	before := buf.Len()
	output.Finish()
	if buf.Len() != before {
		t.Error("Finish should be a no-op once cleared")
	}
}

func TestPrintNonInteractiveUpdate(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName: "Test",
		Writer:  &buf,
	})

	output.PrintNonInteractiveUpdate(&LiveStats{
		Progress:    0.5,
		Elapsed:     30 * time.Second,
		ActiveVUs:   5,
		TargetVUs:   10,
		TotalOps:    1234,
		CurrentRate: 41.1,
		Errors:      2,
		ErrorRate:   0.0016,
		Phase:       PhaseSteady,
	})

	line := buf.String()
	if !strings.Contains(line, "[30.0s]") {
		t.Errorf("Status line should contain the elapsed time, got %q", line)
	}
	if !strings.Contains(line, "steady") {
		t.Error("Status line should contain the phase")
	}
	if !strings.Contains(line, "VUs: 5/10") {
		t.Error("Status line should contain active/target VUs")
	}
	if !strings.Contains(line, "Ops: 1234") {
		t.Error("Status line should contain the operation count")
	}
}

func TestQuietMode(t *testing.T) {
	var buf bytes.Buffer

	output := NewConsoleOutput(ConsoleOutputConfig{
		RunName: "Test",
		Writer:  &buf,
		Quiet:   true,
	})

	// PrintHeader should not output in quiet mode
	output.PrintHeader()
	if buf.Len() != 0 {
		t.Error("PrintHeader should not output in quiet mode")
	}

	// Update should not output in quiet mode
	output.Update(&LiveStats{Progress: 0.5, ActiveVUs: 10, TargetVUs: 10})
	if buf.Len() != 0 {
		t.Error("Update should not output in quiet mode")
	}

	// Neither should the non-interactive fallback
	output.PrintNonInteractiveUpdate(&LiveStats{Progress: 0.5})
	if buf.Len() != 0 {
		t.Error("PrintNonInteractiveUpdate should not output in quiet mode")
	}
}

func TestStatsFromRun(t *testing.T) {
	profile := config.WorkloadProfile{
		Concurrency:   10,
		Duration:      30,
		RampUpSeconds: 5,
		WorkloadType:  "api-call",
	}
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	status := engine.RunStatus{
		RunID:        "run-1",
		WorkloadType: "api-call",
		StartedAt:    started,
		ActiveVUs:    7,
		TotalOps:     500,
		FailedOps:    10,
	}

	// 10s in: past the 5s ramp window, inside the steady run.
	// Expected wall clock: 5s*9/10 + 30s = 34.5s.
	stats := StatsFromRun(status, profile, started.Add(10*time.Second))

	if stats.Phase != PhaseSteady {
		t.Errorf("Phase = %q, want %q", stats.Phase, PhaseSteady)
	}
	if stats.Progress < 0.28 || stats.Progress > 0.30 {
		t.Errorf("Progress = %f, want ~0.29", stats.Progress)
	}
	if stats.Remaining != 24500*time.Millisecond {
		t.Errorf("Remaining = %v, want 24.5s", stats.Remaining)
	}
	if stats.ActiveVUs != 7 {
		t.Errorf("ActiveVUs = %d, want 7", stats.ActiveVUs)
	}
	if stats.TargetVUs != 10 {
		t.Errorf("TargetVUs = %d, want 10", stats.TargetVUs)
	}
	if stats.TotalOps != 500 {
		t.Errorf("TotalOps = %d, want 500", stats.TotalOps)
	}
	if stats.CurrentRate != 50.0 {
		t.Errorf("CurrentRate = %f, want 50.0", stats.CurrentRate)
	}
	if stats.Errors != 10 {
		t.Errorf("Errors = %d, want 10", stats.Errors)
	}
	if stats.ErrorRate != 0.02 {
		t.Errorf("ErrorRate = %f, want 0.02", stats.ErrorRate)
	}
}

func TestStatsFromRunPhases(t *testing.T) {
	profile := config.WorkloadProfile{
		Concurrency:   10,
		Duration:      30,
		RampUpSeconds: 5,
		WorkloadType:  "api-call",
	}
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	status := engine.RunStatus{StartedAt: started}

	tests := []struct {
		name    string
		elapsed time.Duration
		phase   string
	}{
		{"inside ramp window", 2 * time.Second, PhaseRampUp},
		{"steady state", 10 * time.Second, PhaseSteady},
		{"past expected end", 40 * time.Second, PhaseDraining},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := StatsFromRun(status, profile, started.Add(tt.elapsed))
			if stats.Phase != tt.phase {
				t.Errorf("Phase at %v = %q, want %q", tt.elapsed, stats.Phase, tt.phase)
			}
		})
	}

	// Past the end the bar pins at 100% with nothing remaining.
	stats := StatsFromRun(status, profile, started.Add(40*time.Second))
	if stats.Progress != 1.0 {
		t.Errorf("Progress past end = %f, want 1.0", stats.Progress)
	}
	if stats.Remaining != 0 {
		t.Errorf("Remaining past end = %v, want 0", stats.Remaining)
	}
}

func TestStatsFromRunZeroSafe(t *testing.T) {
	profile := config.WorkloadProfile{
		Concurrency:  1,
		Duration:     30,
		WorkloadType: "api-call",
	}
	started := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	status := engine.RunStatus{StartedAt: started}

	// Zero elapsed and zero ops must not divide by zero.
	stats := StatsFromRun(status, profile, started)
	if stats.CurrentRate != 0 {
		t.Errorf("CurrentRate = %f, want 0", stats.CurrentRate)
	}
	if stats.ErrorRate != 0 {
		t.Errorf("ErrorRate = %f, want 0", stats.ErrorRate)
	}
	if stats.Progress != 0 {
		t.Errorf("Progress = %f, want 0", stats.Progress)
	}

	// A clock reading before the start clamps rather than going negative.
	stats = StatsFromRun(status, profile, started.Add(-time.Second))
	if stats.Elapsed != 0 {
		t.Errorf("Elapsed = %v, want 0", stats.Elapsed)
	}

	// An instantaneous run reads as complete.
	zero := config.WorkloadProfile{Concurrency: 1, Duration: 0, WorkloadType: "api-call"}
	stats = StatsFromRun(status, zero, started)
	if stats.Progress != 1.0 {
		t.Errorf("Progress for zero-duration run = %f, want 1.0", stats.Progress)
	}
}
