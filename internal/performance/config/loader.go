package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/lindsaysblock/datadetective-lblock-sub004/pkg/jsonschema"
)

// profileSchema constrains the structural shape of profile files:
// field names (typos are rejected), types, and required keys. Semantic
// rules like concurrency >= 1 live in Validate so they also apply to
// profiles built in code.
const profileSchema = `{
	"$schema": "http://json-schema.org/draft-07/schema#",
	"title": "Workload Profile",
	"type": "object",
	"properties": {
		"name":          { "type": "string" },
		"concurrency":   { "type": "integer" },
		"duration":      { "type": "integer" },
		"rampUpSeconds": { "type": "integer" },
		"workloadType":  { "type": "string" },
		"failureRate":   { "type": "number" },
		"latencyMinMs":  { "type": "integer" },
		"latencyMaxMs":  { "type": "integer" },
		"thinkMinMs":    { "type": "integer" },
		"thinkMaxMs":    { "type": "integer" },
		"targetRate":    { "type": "number" },
		"seed":          { "type": "integer" }
	},
	"required": ["concurrency", "duration", "workloadType"],
	"additionalProperties": false
}`

var compiledProfileSchema = jsonschema.MustCompile("workload-profile.json", profileSchema)

// LoadProfile reads a workload profile from a YAML or JSON file and
// validates it. The extension picks the format; anything that is not
// .json is parsed as YAML.
func LoadProfile(path string) (*WorkloadProfile, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("profile file not found: %s", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading profile file: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		return ParseJSON(data)
	}
	return ParseYAML(data)
}

// ParseJSON parses and validates a JSON profile document.
func ParseJSON(data []byte) (*WorkloadProfile, error) {
	if ok, verrs := compiledProfileSchema.Validate(string(data)); !ok {
		return nil, fmt.Errorf("profile does not match schema: %w", verrs)
	}

	var p WorkloadProfile
	decoder := json.NewDecoder(bytes.NewReader(data))
	if err := decoder.Decode(&p); err != nil {
		return nil, fmt.Errorf("error parsing profile: %w", err)
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// ParseYAML parses and validates a YAML profile document. The document
// is checked against the same schema as JSON profiles.
func ParseYAML(data []byte) (*WorkloadProfile, error) {
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("error parsing profile: %w", err)
	}

	jsonData, err := json.Marshal(raw)
	if err != nil {
		return nil, fmt.Errorf("error converting profile to JSON: %w", err)
	}

	return ParseJSON(jsonData)
}
