// Package jsonpath resolves JSONPath-style expressions against JSON
// documents, backed by gjson.
package jsonpath

import (
	"fmt"
	"sort"
	"strings"

	"github.com/tidwall/gjson"
)

// Extract resolves a JSONPath expression against a JSON document and
// returns the matched value as a string. Objects and arrays come back
// as their raw JSON; an explicit null comes back as "null".
func Extract(json string, path string) (string, error) {
	if json == "" {
		return "", fmt.Errorf("empty JSON document")
	}
	if path == "" {
		return "", fmt.Errorf("empty JSONPath expression")
	}

	// JSONPath: $.percentiles.p95Ms / $.recommendations[0]
	// gjson:    percentiles.p95Ms   / recommendations.0
	result := gjson.Get(json, toGjsonPath(path))
	if !result.Exists() {
		return "", fmt.Errorf("path not found: %s", path)
	}

	if result.Type == gjson.Null {
		return "null", nil
	}
	return result.String(), nil
}

// ExtractMultiple resolves a set of named JSONPath expressions against
// one document. Values that resolved are returned even when others
// failed; the error then lists every failed name.
func ExtractMultiple(json string, paths map[string]string) (map[string]string, error) {
	if json == "" {
		return nil, fmt.Errorf("empty JSON document")
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no JSONPath expressions provided")
	}

	// Stable order so repeated failures read the same.
	names := make([]string, 0, len(paths))
	for name := range paths {
		names = append(names, name)
	}
	sort.Strings(names)

	results := make(map[string]string, len(paths))
	var failures []string
	for _, name := range names {
		value, err := Extract(json, paths[name])
		if err != nil {
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
			continue
		}
		results[name] = value
	}

	if len(failures) > 0 {
		return results, fmt.Errorf("extraction errors: %s", strings.Join(failures, "; "))
	}
	return results, nil
}

// toGjsonPath converts a JSONPath expression to gjson's dotted form.
// Quoted bracket fields and numeric indices are supported; filter and
// wildcard expressions are not.
func toGjsonPath(path string) string {
	if path == "$" {
		return "@this"
	}
	path = strings.TrimPrefix(path, "$")

	// Bracket notation: ['name'] or ["name"]
	path = strings.ReplaceAll(path, "['", ".")
	path = strings.ReplaceAll(path, "']", "")
	path = strings.ReplaceAll(path, `["`, ".")
	path = strings.ReplaceAll(path, `"]`, "")

	// Array indices: [3] becomes .3
	path = strings.ReplaceAll(path, "[", ".")
	path = strings.ReplaceAll(path, "]", "")

	// Trimming last collapses the leading dot of both $.name and $[0].
	path = strings.TrimPrefix(path, ".")
	if path == "" {
		return "@this"
	}
	return path
}
