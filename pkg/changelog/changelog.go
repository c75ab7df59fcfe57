// Package changelog records the decisions of one merge in traversal order.
package changelog

import (
	"fmt"
	"strings"

	"github.com/agentstation/skaffolder/pkg/fields"
)

// Action is the kind of change a record describes.
type Action string

const (
	// Added indicates a schema field was added to the definition.
	Added Action = "added"
	// Removed indicates a definition field was dropped.
	Removed Action = "removed"
	// Kept indicates a definition field survived unchanged.
	Kept Action = "kept"
	// Updated indicates unset attributes of a surviving field were filled.
	Updated Action = "updated"
	// NameMismatchWarning flags a schema name resembling a different definition name.
	NameMismatchWarning Action = "name_mismatch"
	// TypeMismatchWarning flags a definition type that differs from the schema type.
	TypeMismatchWarning Action = "type_mismatch"
	// UnresolvableReferenceWarning flags a field whose schema reference could not be expanded.
	UnresolvableReferenceWarning Action = "unresolvable_reference"
)

// Actions returns every action in report order.
func Actions() []Action {
	return []Action{Added, Removed, Updated, Kept, NameMismatchWarning, TypeMismatchWarning, UnresolvableReferenceWarning}
}

// IsWarning reports whether the action is a non-fatal warning.
func (a Action) IsWarning() bool {
	switch a {
	case NameMismatchWarning, TypeMismatchWarning, UnresolvableReferenceWarning:
		return true
	}
	return false
}

// IsModification reports whether the action changes the definition.
func (a Action) IsModification() bool {
	return a == Added || a == Removed || a == Updated
}

// Record is one entry of the change log.
type Record struct {
	Path    string        `json:"path" yaml:"path"`
	Action  Action        `json:"action" yaml:"action"`
	Origin  fields.Origin `json:"origin" yaml:"origin"`
	Message string        `json:"message,omitempty" yaml:"message,omitempty"`

	// Expected and Found are set for name mismatches: Expected is the
	// definition name, Found the schema name.
	Expected string `json:"expected,omitempty" yaml:"expected,omitempty"`
	Found    string `json:"found,omitempty" yaml:"found,omitempty"`

	// Existing and Defined are set for type mismatches: Existing is the
	// definition type, Defined the schema type.
	Existing string `json:"existing,omitempty" yaml:"existing,omitempty"`
	Defined  string `json:"defined,omitempty" yaml:"defined,omitempty"`

	Ref string `json:"ref,omitempty" yaml:"ref,omitempty"`
}

// Log is the ordered change log of one resource.
type Log struct {
	Resource string   `json:"resource" yaml:"resource"`
	Records  []Record `json:"records" yaml:"records"`
}

// New creates an empty log for resource.
func New(resource string) *Log {
	return &Log{Resource: resource}
}

// Append adds a record at the end of the log.
func (l *Log) Append(r Record) {
	l.Records = append(l.Records, r)
}

// Len returns the number of records.
func (l *Log) Len() int {
	return len(l.Records)
}

// Filter returns the records whose action is one of actions.
func (l *Log) Filter(actions ...Action) []Record {
	var out []Record
	for _, r := range l.Records {
		for _, a := range actions {
			if r.Action == a {
				out = append(out, r)
				break
			}
		}
	}
	return out
}

// Find returns the first record for path with the given action.
func (l *Log) Find(path string, action Action) (Record, bool) {
	for _, r := range l.Records {
		if r.Path == path && r.Action == action {
			return r, true
		}
	}
	return Record{}, false
}

// Summary counts records per action.
type Summary struct {
	Added          int `json:"added" yaml:"added"`
	Removed        int `json:"removed" yaml:"removed"`
	Updated        int `json:"updated" yaml:"updated"`
	Kept           int `json:"kept" yaml:"kept"`
	NameMismatches int `json:"name_mismatches" yaml:"name_mismatches"`
	TypeMismatches int `json:"type_mismatches" yaml:"type_mismatches"`
	Unresolvable   int `json:"unresolvable" yaml:"unresolvable"`
	Total          int `json:"total" yaml:"total"`
}

// Summary computes per-action counts.
func (l *Log) Summary() Summary {
	var s Summary
	for _, r := range l.Records {
		switch r.Action {
		case Added:
			s.Added++
		case Removed:
			s.Removed++
		case Updated:
			s.Updated++
		case Kept:
			s.Kept++
		case NameMismatchWarning:
			s.NameMismatches++
		case TypeMismatchWarning:
			s.TypeMismatches++
		case UnresolvableReferenceWarning:
			s.Unresolvable++
		}
	}
	s.Total = len(l.Records)
	return s
}

// HasChanges reports whether the merge modified the definition.
func (l *Log) HasChanges() bool {
	for _, r := range l.Records {
		if r.Action.IsModification() {
			return true
		}
	}
	return false
}

// HasWarnings reports whether any warning was recorded.
func (l *Log) HasWarnings() bool {
	for _, r := range l.Records {
		if r.Action.IsWarning() {
			return true
		}
	}
	return false
}

// String returns a human-readable summary of the log.
func (l *Log) String() string {
	s := l.Summary()
	if s.Added+s.Removed+s.Updated == 0 && !l.HasWarnings() {
		return fmt.Sprintf("%s: no changes", l.Resource)
	}

	var parts []string
	add := func(n int, label string) {
		if n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", n, label))
		}
	}
	add(s.Added, "added")
	add(s.Removed, "removed")
	add(s.Updated, "updated")
	add(s.NameMismatches+s.TypeMismatches+s.Unresolvable, "warnings")
	return fmt.Sprintf("%s: %s", l.Resource, strings.Join(parts, ", "))
}
