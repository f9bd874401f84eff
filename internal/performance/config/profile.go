// Package config defines workload profiles, the input describing one
// load test run, and their validation and file loading.
package config

import (
	"time"
)

// WorkloadProfile is the immutable input for one load test run.
//
// Only Concurrency, Duration, and WorkloadType are required; everything
// else tunes the run. Times arrive in whole seconds or milliseconds to
// keep profile files free of duration-string parsing.
//
// Example YAML:
//
//	name: "analytics soak"
//	concurrency: 10
//	duration: 30
//	rampUpSeconds: 5
//	workloadType: analytics
//	targetRate: 50
type WorkloadProfile struct {
	// Name labels the run in reports and logs. Optional.
	Name string `json:"name,omitempty" yaml:"name,omitempty"`

	// Concurrency is the number of virtual users. Must be at least 1.
	Concurrency int `json:"concurrency" yaml:"concurrency"`

	// Duration is each virtual user's run time in seconds, measured
	// from its own staggered start. Zero is valid and produces an
	// all-zero report.
	Duration int `json:"duration" yaml:"duration"`

	// RampUpSeconds is the window across which user starts are spread.
	// User i starts at rampUpSeconds * i / concurrency.
	RampUpSeconds int `json:"rampUpSeconds,omitempty" yaml:"rampUpSeconds,omitempty"`

	// WorkloadType selects the simulated workload. Unrecognized values
	// fall back to the generic workload; they are never rejected.
	WorkloadType string `json:"workloadType" yaml:"workloadType"`

	// FailureRate, when set, overrides the workload's failure
	// probability. 0.0 never fails, 1.0 always fails.
	FailureRate *float64 `json:"failureRate,omitempty" yaml:"failureRate,omitempty"`

	// LatencyMinMs and LatencyMaxMs, when LatencyMaxMs is set, override
	// the workload's simulated latency range.
	LatencyMinMs int `json:"latencyMinMs,omitempty" yaml:"latencyMinMs,omitempty"`
	LatencyMaxMs int `json:"latencyMaxMs,omitempty" yaml:"latencyMaxMs,omitempty"`

	// ThinkMinMs and ThinkMaxMs, when ThinkMaxMs is set, override the
	// pause between a user's iterations.
	ThinkMinMs int `json:"thinkMinMs,omitempty" yaml:"thinkMinMs,omitempty"`
	ThinkMaxMs int `json:"thinkMaxMs,omitempty" yaml:"thinkMaxMs,omitempty"`

	// TargetRate caps aggregate operation starts per second across all
	// users. Zero means uncapped.
	TargetRate float64 `json:"targetRate,omitempty" yaml:"targetRate,omitempty"`

	// Seed makes randomized latency, failures, and think times
	// reproducible. Zero picks a time-based seed.
	Seed int64 `json:"seed,omitempty" yaml:"seed,omitempty"`
}

// RunDuration returns each user's configured run time.
func (p *WorkloadProfile) RunDuration() time.Duration {
	return time.Duration(p.Duration) * time.Second
}

// RampUpDuration returns the ramp-up window.
func (p *WorkloadProfile) RampUpDuration() time.Duration {
	return time.Duration(p.RampUpSeconds) * time.Second
}

// ThinkWindow returns the configured think-time bounds, or zeros when
// the profile leaves the default in place.
func (p *WorkloadProfile) ThinkWindow() (min, max time.Duration) {
	if p.ThinkMaxMs == 0 {
		return 0, 0
	}
	return time.Duration(p.ThinkMinMs) * time.Millisecond,
		time.Duration(p.ThinkMaxMs) * time.Millisecond
}
