// Package contract validates structured model output against declarative
// shape contracts and extracts JSON objects from raw completion text.
package contract

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// Kind is the expected type of a contract field.
type Kind int

const (
	String Kind = iota
	Number
	Bool
	StringList
	Object
	ObjectList
)

// Field constrains one key of a structured result.
type Field struct {
	Name     string
	Kind     Kind
	Min, Max float64  // numeric range, used when Kind == Number and Min < Max
	Enum     []string // allowed values, used when Kind == String and non-empty
	Fields   []Field  // nested contract, used when Kind == Object or ObjectList
	Optional bool
}

// Contract is the full set of field constraints a result must satisfy.
type Contract struct {
	Name   string
	Fields []Field
}

// Mismatch describes one way a candidate failed its contract.
type Mismatch struct {
	Path   string
	Reason string
}

func (m Mismatch) String() string {
	return m.Path + ": " + m.Reason
}

// Validate checks candidate against the contract and returns every mismatch
// found. An empty slice means the candidate conforms.
func (c Contract) Validate(candidate map[string]any) []Mismatch {
	return validateFields("", c.Fields, candidate)
}

func validateFields(prefix string, fields []Field, obj map[string]any) []Mismatch {
	var out []Mismatch
	for _, f := range fields {
		path := f.Name
		if prefix != "" {
			path = prefix + "." + f.Name
		}
		val, ok := obj[f.Name]
		if !ok || val == nil {
			if !f.Optional {
				out = append(out, Mismatch{Path: path, Reason: "missing required field"})
			}
			continue
		}
		out = append(out, validateValue(path, f, val)...)
	}
	return out
}

func validateValue(path string, f Field, val any) []Mismatch {
	switch f.Kind {
	case String:
		s, ok := val.(string)
		if !ok {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("expected string, got %T", val)}}
		}
		if len(f.Enum) > 0 && !containsString(f.Enum, s) {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("value %q not in %v", s, f.Enum)}}
		}
	case Number:
		n, ok := toFloat(val)
		if !ok {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("expected number, got %T", val)}}
		}
		if f.Min < f.Max && (n < f.Min || n > f.Max) {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("value %g outside range [%g, %g]", n, f.Min, f.Max)}}
		}
	case Bool:
		if _, ok := val.(bool); !ok {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("expected bool, got %T", val)}}
		}
	case StringList:
		items, ok := val.([]any)
		if !ok {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("expected list, got %T", val)}}
		}
		for i, item := range items {
			if _, ok := item.(string); !ok {
				return []Mismatch{{Path: fmt.Sprintf("%s[%d]", path, i), Reason: fmt.Sprintf("expected string, got %T", item)}}
			}
		}
	case Object:
		obj, ok := val.(map[string]any)
		if !ok {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("expected object, got %T", val)}}
		}
		return validateFields(path, f.Fields, obj)
	case ObjectList:
		items, ok := val.([]any)
		if !ok {
			return []Mismatch{{Path: path, Reason: fmt.Sprintf("expected list, got %T", val)}}
		}
		var out []Mismatch
		for i, item := range items {
			obj, ok := item.(map[string]any)
			if !ok {
				out = append(out, Mismatch{Path: fmt.Sprintf("%s[%d]", path, i), Reason: fmt.Sprintf("expected object, got %T", item)})
				continue
			}
			out = append(out, validateFields(fmt.Sprintf("%s[%d]", path, i), f.Fields, obj)...)
		}
		return out
	}
	return nil
}

func toFloat(val any) (float64, bool) {
	switch n := val.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	}
	return 0, false
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

var codeBlockRe = regexp.MustCompile("(?s)```(?:json)?\\s*\\n?(.*?)\\n?```")

// ExtractObject tries to pull a JSON object out of raw model output: direct
// parse first, then a fenced code block, then the first '{' through the last
// '}'. Returns the decoded map and the exact text that decoded.
func ExtractObject(raw string) (map[string]any, string, bool) {
	trimmed := strings.TrimSpace(raw)
	if obj, ok := decodeObject(trimmed); ok {
		return obj, trimmed, true
	}

	if matches := codeBlockRe.FindStringSubmatch(raw); len(matches) > 1 {
		candidate := strings.TrimSpace(matches[1])
		if obj, ok := decodeObject(candidate); ok {
			return obj, candidate, true
		}
	}

	start := strings.Index(raw, "{")
	end := strings.LastIndex(raw, "}")
	if start >= 0 && end > start {
		candidate := raw[start : end+1]
		if obj, ok := decodeObject(candidate); ok {
			return obj, candidate, true
		}
	}

	return nil, "", false
}

func decodeObject(s string) (map[string]any, bool) {
	var obj map[string]any
	if err := json.Unmarshal([]byte(s), &obj); err != nil {
		return nil, false
	}
	return obj, true
}
