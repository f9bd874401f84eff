package config

import (
	"fmt"
	"strings"
)

// ValidationError represents a single profile validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors struct {
	Errors []*ValidationError
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d validation errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return sb.String()
}

// Add adds an error to the collection.
func (e *ValidationErrors) Add(field, message string) {
	e.Errors = append(e.Errors, &ValidationError{Field: field, Message: message})
}

// HasErrors returns true if there are any errors.
func (e *ValidationErrors) HasErrors() bool {
	return len(e.Errors) > 0
}

// Validate checks the profile's semantic rules. It runs synchronously
// before any scheduling begins; a rejected profile never starts a run.
//
// Returns nil if valid, or a ValidationErrors listing every problem.
// WorkloadType is deliberately not checked here: unknown types fall
// back to the generic workload.
func (p *WorkloadProfile) Validate() error {
	errs := &ValidationErrors{}

	if p.Concurrency < 1 {
		errs.Add("concurrency", "must be at least 1")
	}
	if p.Duration < 0 {
		errs.Add("duration", "cannot be negative")
	}
	if p.RampUpSeconds < 0 {
		errs.Add("rampUpSeconds", "cannot be negative")
	}

	if p.FailureRate != nil {
		if *p.FailureRate < 0 || *p.FailureRate > 1 {
			errs.Add("failureRate", "must be between 0.0 and 1.0")
		}
	}

	if p.LatencyMinMs < 0 {
		errs.Add("latencyMinMs", "cannot be negative")
	}
	if p.LatencyMaxMs < 0 {
		errs.Add("latencyMaxMs", "cannot be negative")
	} else if p.LatencyMaxMs > 0 && p.LatencyMaxMs < p.LatencyMinMs {
		errs.Add("latencyMaxMs", "must be greater than or equal to latencyMinMs")
	}

	if p.ThinkMinMs < 0 {
		errs.Add("thinkMinMs", "cannot be negative")
	}
	if p.ThinkMaxMs < 0 {
		errs.Add("thinkMaxMs", "cannot be negative")
	} else if p.ThinkMaxMs > 0 && p.ThinkMaxMs < p.ThinkMinMs {
		errs.Add("thinkMaxMs", "must be greater than or equal to thinkMinMs")
	}

	if p.TargetRate < 0 {
		errs.Add("targetRate", "cannot be negative")
	}

	if errs.HasErrors() {
		return errs
	}
	return nil
}
