// Package pins selects definition fields that are kept even when no API
// surface declares them.
package pins

import (
	"path"
)

// Pin keeps matching fields of matching resources.
type Pin struct {
	Path     string `json:"path" yaml:"path" mapstructure:"path"`                               // e.g., "securitySettings", "iap.*"
	Resource string `json:"resource,omitempty" yaml:"resource,omitempty" mapstructure:"resource"` // resource type name; empty matches every resource
	Reason   string `json:"reason,omitempty" yaml:"reason,omitempty" mapstructure:"reason"`
}

// Pins is an ordered list of pin patterns.
type Pins []Pin

// Parse builds pins from plain patterns. A pattern of the form
// "Resource:path" only applies to that resource.
func Parse(patterns ...string) Pins {
	out := make(Pins, 0, len(patterns))
	for _, p := range patterns {
		pin := Pin{Path: p}
		for i := 0; i < len(p); i++ {
			if p[i] == ':' {
				pin.Resource, pin.Path = p[:i], p[i+1:]
				break
			}
		}
		if pin.Path != "" {
			out = append(out, pin)
		}
	}
	return out
}

// Match returns the most specific pin for fieldPath of resource, or nil.
func (ps Pins) Match(resource, fieldPath string) *Pin {
	var best *Pin
	for i, pin := range ps {
		if pin.Resource != "" && pin.Resource != resource {
			continue
		}
		if !MatchesPattern(fieldPath, pin.Path) {
			continue
		}
		if best == nil || len(pin.Path) > len(best.Path) {
			best = &ps[i]
		}
	}
	return best
}

// IsPinned reports whether any pin matches.
func (ps Pins) IsPinned(resource, fieldPath string) bool {
	return ps.Match(resource, fieldPath) != nil
}

// MatchesPattern checks if a dotted field path matches a pattern. A trailing
// "*" matches any suffix; other wildcards follow path.Match.
func MatchesPattern(fieldPath, pattern string) bool {
	if fieldPath == pattern {
		return true
	}

	if len(pattern) > 0 && pattern[len(pattern)-1] == '*' {
		prefix := pattern[:len(pattern)-1]
		return len(fieldPath) >= len(prefix) && fieldPath[:len(prefix)] == prefix
	}

	matched, err := path.Match(pattern, fieldPath)
	if err != nil {
		return false
	}
	return matched
}
