package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/lindsaysblock/datadetective-lblock-sub004/internal/performance/simulator"
)

func TestWorkloadsCommand(t *testing.T) {
	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SetArgs([]string{"workloads"})

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("workloads returned error: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "TYPE") || !strings.Contains(out, "FAILURE RATE") {
		t.Error("table output missing header row")
	}

	for _, workload := range simulator.Catalog() {
		if !strings.Contains(out, workload.Type) {
			t.Errorf("table output missing workload type %q", workload.Type)
		}
	}
}

func TestWorkloadsCommand_JSON(t *testing.T) {
	buf := new(bytes.Buffer)
	RootCmd.SetOut(buf)
	RootCmd.SetErr(buf)
	RootCmd.SetArgs([]string{"workloads", "--json"})

	if err := RootCmd.Execute(); err != nil {
		t.Fatalf("workloads --json returned error: %v", err)
	}

	var views []workloadView
	if err := json.Unmarshal(buf.Bytes(), &views); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}

	catalog := simulator.Catalog()
	if len(views) != len(catalog) {
		t.Fatalf("got %d workloads, want %d", len(views), len(catalog))
	}

	for i, view := range views {
		if view.Type != catalog[i].Type {
			t.Errorf("views[%d].Type = %q, want %q", i, view.Type, catalog[i].Type)
		}
		if view.LatencyMinMs != catalog[i].LatencyMin.Milliseconds() {
			t.Errorf("views[%d].LatencyMinMs = %d, want %d", i, view.LatencyMinMs, catalog[i].LatencyMin.Milliseconds())
		}
		if view.ErrorMessage == "" {
			t.Errorf("views[%d].ErrorMessage is empty", i)
		}
	}
}

func TestPrintWorkloadsTable_Alignment(t *testing.T) {
	buf := new(bytes.Buffer)
	printWorkloadsTable(buf)

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != len(simulator.Catalog())+1 {
		t.Fatalf("got %d lines, want %d", len(lines), len(simulator.Catalog())+1)
	}

	// Every row starts its latency column where the header does.
	headerCol := strings.Index(lines[0], "LATENCY")
	for _, line := range lines[1:] {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			t.Errorf("row %q has fewer than 3 columns", line)
			continue
		}
		if strings.Index(line, fields[1]) != headerCol {
			t.Errorf("row %q latency column misaligned", line)
		}
	}
}

func TestFormatLatencyRange(t *testing.T) {
	tests := []struct {
		min  time.Duration
		max  time.Duration
		want string
	}{
		{30 * time.Millisecond, 90 * time.Millisecond, "30ms-90ms"},
		{400 * time.Millisecond, 1200 * time.Millisecond, "400ms-1.2s"},
		{time.Second, 2 * time.Second, "1s-2s"},
	}

	for _, tt := range tests {
		if got := formatLatencyRange(tt.min, tt.max); got != tt.want {
			t.Errorf("formatLatencyRange(%v, %v) = %q, want %q", tt.min, tt.max, got, tt.want)
		}
	}
}
