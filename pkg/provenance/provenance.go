// Package provenance provides field-level tracking of which API surface
// justified a field during a merge. Provenance is never persisted.
package provenance

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/agentstation/skaffolder/pkg/fields"
)

// Provenance records one source justifying a field.
type Provenance struct {
	Source    fields.Origin // ga, beta or manual
	Path      string        // dotted field path
	Reason    string        // why the source applies, e.g. "declared by schema", "pinned"
	Timestamp time.Time
}

// Map tracks provenance for multiple resources.
type Map map[string][]Provenance // key is "resource:fieldPath"

// Tracker manages provenance tracking during a merge.
type Tracker interface {
	// Track records provenance for a field
	Track(resource, path string, p Provenance)

	// FindByField retrieves provenance for a specific field
	FindByField(resource, path string) []Provenance

	// FindByResource retrieves all provenance for a resource
	FindByResource(resource string) map[string][]Provenance

	// Origin returns the union of the sources tracked for a field
	Origin(resource, path string) fields.Origin

	// Map returns the complete provenance map
	Map() Map

	// Clear removes all provenance data
	Clear()
}

// tracker is the default implementation.
type tracker struct {
	provenance Map
	enabled    bool
}

// NewTracker creates a new provenance tracker.
func NewTracker(enabled bool) Tracker {
	return &tracker{
		provenance: make(Map),
		enabled:    enabled,
	}
}

// Track records provenance for a field.
func (p *tracker) Track(resource, path string, history Provenance) {
	if !p.enabled {
		return
	}

	if history.Timestamp.IsZero() {
		history.Timestamp = time.Now()
	}
	if history.Path == "" {
		history.Path = path
	}

	key := makeKey(resource, path)
	p.provenance[key] = append(p.provenance[key], history)
}

// FindByField retrieves provenance for a specific field.
func (p *tracker) FindByField(resource, path string) []Provenance {
	if !p.enabled {
		return nil
	}
	return p.provenance[makeKey(resource, path)]
}

// FindByResource retrieves all provenance for a resource.
func (p *tracker) FindByResource(resource string) map[string][]Provenance {
	if !p.enabled {
		return nil
	}

	result := make(map[string][]Provenance)
	prefix := resource + ":"
	for key, info := range p.provenance {
		if field, found := strings.CutPrefix(key, prefix); found {
			result[field] = info
		}
	}
	return result
}

// Origin returns the union of the tracked sources.
func (p *tracker) Origin(resource, path string) fields.Origin {
	var o fields.Origin
	for _, info := range p.FindByField(resource, path) {
		o = o.With(info.Source)
	}
	return o
}

// Map returns the complete provenance map.
func (p *tracker) Map() Map {
	if !p.enabled {
		return nil
	}

	result := make(Map, len(p.provenance))
	for k, v := range p.provenance {
		result[k] = append([]Provenance{}, v...)
	}
	return result
}

// Clear removes all provenance data.
func (p *tracker) Clear() {
	p.provenance = make(Map)
}

func makeKey(resource, path string) string {
	return resource + ":" + path
}

// String renders the map grouped by resource, sorted by field path.
func (m Map) String() string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var sb strings.Builder
	current := ""
	for _, key := range keys {
		resource, path, _ := strings.Cut(key, ":")
		if resource != current {
			if current != "" {
				sb.WriteString("\n")
			}
			sb.WriteString(resource + "\n")
			sb.WriteString(strings.Repeat("-", 40) + "\n")
			current = resource
		}
		var sources []string
		for _, info := range m[key] {
			sources = append(sources, fmt.Sprintf("%s (%s)", info.Source, info.Reason))
		}
		sb.WriteString(fmt.Sprintf("  %s: %s\n", path, strings.Join(sources, ", ")))
	}
	return sb.String()
}
