// Package simulator provides the simulated workloads that virtual users
// execute during a load test run.
//
// A workload stands in for one class of application operation (a component
// render, an analytics query, an upstream API call) and is simulated by
// suspending the calling goroutine for a randomized duration and failing
// with a fixed, descriptive error at a workload-specific probability. No
// real I/O is performed.
package simulator

import "time"

// Workload type identifiers accepted in a profile's workloadType field.
const (
	TypeComponent           = "component"
	TypeDataProcessing      = "data-processing"
	TypeUIInteraction       = "ui-interaction"
	TypeAPICall             = "api-call"
	TypeAnalytics           = "analytics"
	TypeAnalyticsConcurrent = "analytics-concurrent"
	TypeResearchQuestion    = "research-question"
	TypeContextProcessing   = "context-processing"
	TypeGeneric             = "generic"
)

// Workload describes one simulated operation class: how long it takes,
// how often it fails, and what its failure looks like.
type Workload struct {
	// Type is the workload identifier.
	Type string `json:"type"`

	// LatencyMin and LatencyMax bound the uniform distribution the
	// operation's duration is drawn from.
	LatencyMin time.Duration `json:"latencyMin"`
	LatencyMax time.Duration `json:"latencyMax"`

	// FailureRate is the probability (0..1) that a single operation fails.
	FailureRate float64 `json:"failureRate"`

	// ErrorMessage is the fixed message attached to every failure of this
	// workload type.
	ErrorMessage string `json:"errorMessage"`
}

// workloads is the built-in catalog. Latency ranges and failure rates are
// defaults only; profiles may override both per run.
var workloads = []Workload{
	{
		Type:         TypeComponent,
		LatencyMin:   30 * time.Millisecond,
		LatencyMax:   90 * time.Millisecond,
		FailureRate:  0.02,
		ErrorMessage: "component render cycle failed",
	},
	{
		Type:         TypeDataProcessing,
		LatencyMin:   150 * time.Millisecond,
		LatencyMax:   500 * time.Millisecond,
		FailureRate:  0.05,
		ErrorMessage: "data pipeline stage aborted",
	},
	{
		Type:         TypeUIInteraction,
		LatencyMin:   50 * time.Millisecond,
		LatencyMax:   150 * time.Millisecond,
		FailureRate:  0.03,
		ErrorMessage: "ui event handler timed out",
	},
	{
		Type:         TypeAPICall,
		LatencyMin:   200 * time.Millisecond,
		LatencyMax:   700 * time.Millisecond,
		FailureRate:  0.08,
		ErrorMessage: "upstream api returned an error",
	},
	{
		Type:         TypeAnalytics,
		LatencyMin:   300 * time.Millisecond,
		LatencyMax:   900 * time.Millisecond,
		FailureRate:  0.04,
		ErrorMessage: "analytics query execution failed",
	},
	{
		Type:         TypeAnalyticsConcurrent,
		LatencyMin:   250 * time.Millisecond,
		LatencyMax:   750 * time.Millisecond,
		FailureRate:  0.06,
		ErrorMessage: "concurrent analytics worker crashed",
	},
	{
		Type:         TypeResearchQuestion,
		LatencyMin:   400 * time.Millisecond,
		LatencyMax:   1200 * time.Millisecond,
		FailureRate:  0.05,
		ErrorMessage: "research pipeline returned no answer",
	},
	{
		Type:         TypeContextProcessing,
		LatencyMin:   100 * time.Millisecond,
		LatencyMax:   400 * time.Millisecond,
		FailureRate:  0.04,
		ErrorMessage: "context window processing failed",
	},
	{
		Type:         TypeGeneric,
		LatencyMin:   100 * time.Millisecond,
		LatencyMax:   300 * time.Millisecond,
		FailureRate:  0.05,
		ErrorMessage: "simulated operation failed",
	},
}

// Resolve returns the workload definition for the given type.
//
// Unrecognized types resolve to the generic workload rather than failing:
// workload identifiers arrive from outside the engine (dashboards, profile
// files), and an unknown name degrades to a plausible default instead of
// rejecting the run.
func Resolve(workloadType string) Workload {
	var generic Workload
	for _, w := range workloads {
		if w.Type == workloadType {
			return w
		}
		if w.Type == TypeGeneric {
			generic = w
		}
	}
	return generic
}

// Catalog returns the built-in workload definitions in presentation order.
// The returned slice is a copy; mutating it does not affect the catalog.
func Catalog() []Workload {
	out := make([]Workload, len(workloads))
	copy(out, workloads)
	return out
}

// IsKnownType reports whether the given type is part of the built-in
// catalog (i.e. Resolve would not fall back to generic).
func IsKnownType(workloadType string) bool {
	for _, w := range workloads {
		if w.Type == workloadType {
			return true
		}
	}
	return false
}
