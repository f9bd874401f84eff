package jsonpath

import (
	"strings"
	"testing"
)

// reportDoc mirrors the shape of a serialized load test report.
const reportDoc = `{
	"runId": "9d3c0000-8a71-4b2e-b9f1-000000000001",
	"config": {
		"name": "checkout flow",
		"concurrency": 10,
		"duration": 30,
		"workloadType": "api-call"
	},
	"totalRequests": 12345,
	"successfulRequests": 12300,
	"failedRequests": 45,
	"averageLatencyMs": 12.3,
	"percentiles": {
		"p50Ms": 10,
		"p95Ms": 40,
		"p99Ms": 120
	},
	"errorRatePercent": 0.36,
	"memory": {
		"initial": 12,
		"peak": 48.5,
		"final": 20.1
	},
	"status": "WARNING",
	"recommendations": [
		"Investigate error sources and consider retry with backoff for transient failures.",
		"Profile allocation hotspots; the heap grew noticeably during the run."
	],
	"metadata": null
}`

func TestExtract(t *testing.T) {
	tests := []struct {
		name          string
		path          string
		expected      string
		expectedError bool
	}{
		{
			name:     "root path",
			path:     "$",
			expected: reportDoc,
		},
		{
			name:     "simple property",
			path:     "$.status",
			expected: "WARNING",
		},
		{
			name:     "numeric property",
			path:     "$.totalRequests",
			expected: "12345",
		},
		{
			name:     "float property",
			path:     "$.errorRatePercent",
			expected: "0.36",
		},
		{
			name:     "nested property",
			path:     "$.percentiles.p95Ms",
			expected: "40",
		},
		{
			name:     "deeply nested property",
			path:     "$.config.workloadType",
			expected: "api-call",
		},
		{
			name:     "bracket notation",
			path:     "$['runId']",
			expected: "9d3c0000-8a71-4b2e-b9f1-000000000001",
		},
		{
			name:     "array element",
			path:     "$.recommendations[1]",
			expected: "Profile allocation hotspots; the heap grew noticeably during the run.",
		},
		{
			name:     "null value",
			path:     "$.metadata",
			expected: "null",
		},
		{
			name:          "missing property",
			path:          "$.nonexistent",
			expectedError: true,
		},
		{
			name:          "missing nested property",
			path:          "$.memory.limit",
			expectedError: true,
		},
		{
			name:          "index out of bounds",
			path:          "$.recommendations[9]",
			expectedError: true,
		},
		{
			name:          "empty path",
			path:          "",
			expectedError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Extract(reportDoc, tt.path)

			if tt.expectedError && err == nil {
				t.Fatalf("Extract(%q) expected an error, got %q", tt.path, result)
			}
			if !tt.expectedError && err != nil {
				t.Fatalf("Extract(%q) error = %v", tt.path, err)
			}
			if !tt.expectedError && result != tt.expected {
				t.Errorf("Extract(%q) = %q, want %q", tt.path, result, tt.expected)
			}
		})
	}
}

func TestExtractObjectReturnsRawJSON(t *testing.T) {
	result, err := Extract(reportDoc, "$.memory")
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	for _, key := range []string{`"initial"`, `"peak"`, `"final"`} {
		if !strings.Contains(result, key) {
			t.Errorf("object extraction missing %s: %q", key, result)
		}
	}
}

func TestExtractEmptyDocument(t *testing.T) {
	if _, err := Extract("", "$.status"); err == nil {
		t.Error("Extract of an empty document should fail")
	}
}

func TestExtractMultiple(t *testing.T) {
	paths := map[string]string{
		"status": "$.status",
		"p95":    "$.percentiles.p95Ms",
		"errors": "$.failedRequests",
		"advice": "$.recommendations[0]",
	}

	results, err := ExtractMultiple(reportDoc, paths)
	if err != nil {
		t.Fatalf("ExtractMultiple() error = %v", err)
	}

	expected := map[string]string{
		"status": "WARNING",
		"p95":    "40",
		"errors": "45",
		"advice": "Investigate error sources and consider retry with backoff for transient failures.",
	}
	for name, want := range expected {
		if got := results[name]; got != want {
			t.Errorf("%s = %q, want %q", name, got, want)
		}
	}
}

func TestExtractMultiplePartialFailure(t *testing.T) {
	paths := map[string]string{
		"status":  "$.status",
		"bogus":   "$.no.such.field",
		"missing": "$.alsoAbsent",
	}

	results, err := ExtractMultiple(reportDoc, paths)
	if err == nil {
		t.Fatal("ExtractMultiple() should report failed paths")
	}

	// Resolved values still come back alongside the error.
	if results["status"] != "WARNING" {
		t.Errorf("status = %q, want WARNING", results["status"])
	}

	// Failures are listed in name order for stable output.
	msg := err.Error()
	if !strings.Contains(msg, "bogus") || !strings.Contains(msg, "missing") {
		t.Errorf("error should name every failed path: %v", msg)
	}
	if strings.Index(msg, "bogus") > strings.Index(msg, "missing") {
		t.Errorf("failures should be sorted by name: %v", msg)
	}
}

func TestExtractMultipleNoPaths(t *testing.T) {
	if _, err := ExtractMultiple(reportDoc, nil); err == nil {
		t.Error("ExtractMultiple with no paths should fail")
	}
}

func TestToGjsonPath(t *testing.T) {
	tests := []struct {
		jsonPath  string
		gjsonPath string
	}{
		{"$.status", "status"},
		{"$['status']", "status"},
		{`$["status"]`, "status"},
		{"$.percentiles.p95Ms", "percentiles.p95Ms"},
		{"$.recommendations[0]", "recommendations.0"},
		{"$.runs[2].percentiles[1].value", "runs.2.percentiles.1.value"},
		{"$", "@this"},
		{"$[0]", "0"},
		{"$[0].status", "0.status"},
	}

	for _, tt := range tests {
		t.Run(tt.jsonPath, func(t *testing.T) {
			result := toGjsonPath(tt.jsonPath)
			if result != tt.gjsonPath {
				t.Errorf("toGjsonPath(%q) = %q, want %q", tt.jsonPath, result, tt.gjsonPath)
			}
		})
	}
}
