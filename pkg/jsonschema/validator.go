// Package jsonschema wraps JSON Schema compilation and validation for
// the profile and report documents this tool reads and writes.
package jsonschema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// ValidationErrors represents a collection of validation errors
type ValidationErrors []error

// Error implements the error interface for ValidationErrors
func (ve ValidationErrors) Error() string {
	if len(ve) == 0 {
		return ""
	}

	var sb strings.Builder
	for i, err := range ve {
		if i > 0 {
			sb.WriteString("; ")
		}
		sb.WriteString(err.Error())
	}
	return sb.String()
}

// Schema is a compiled JSON Schema, safe for concurrent use.
type Schema struct {
	compiled *jsonschema.Schema
}

// Compile compiles a schema document. The name identifies the schema in
// error messages and must look like a file name (e.g. "profile.json").
func Compile(name, schemaStr string) (*Schema, error) {
	compiler := jsonschema.NewCompiler()

	if err := compiler.AddResource(name, strings.NewReader(schemaStr)); err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("invalid schema %s: %w", name, err)
	}

	return &Schema{compiled: compiled}, nil
}

// MustCompile is like Compile but panics on error. Intended for schemas
// embedded as package-level constants.
func MustCompile(name, schemaStr string) *Schema {
	s, err := Compile(name, schemaStr)
	if err != nil {
		panic(err)
	}
	return s
}

// Validate checks a JSON document against the compiled schema.
//
// Returns true when the document conforms. When it does not, the
// returned ValidationErrors lists every violation with its instance
// location. A malformed document (not JSON at all) is reported the same
// way, as a single error.
func (s *Schema) Validate(jsonStr string) (bool, ValidationErrors) {
	var jsonData interface{}
	if err := json.Unmarshal([]byte(jsonStr), &jsonData); err != nil {
		return false, ValidationErrors{fmt.Errorf("invalid JSON: %w", err)}
	}

	err := s.compiled.Validate(jsonData)
	if err == nil {
		return true, nil
	}

	if validationErr, ok := err.(*jsonschema.ValidationError); ok {
		return false, extractValidationErrors(validationErr)
	}
	return false, ValidationErrors{err}
}

// extractValidationErrors flattens a jsonschema.ValidationError tree
// into one error per violation.
func extractValidationErrors(err *jsonschema.ValidationError) ValidationErrors {
	var errors ValidationErrors

	if err.Message != "" {
		errors = append(errors, fmt.Errorf("validation error at %s: %s", err.InstanceLocation, err.Message))
	}

	for _, childErr := range err.Causes {
		errors = append(errors, extractValidationErrors(childErr)...)
	}

	return errors
}
