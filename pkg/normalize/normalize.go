// Package normalize turns discovery schemas into field trees.
//
// Named references are resolved once and memoized in an arena; every
// later reference to the same schema shares the already built children.
// A reference that is re-entered while it is still being resolved, or one
// nested deeper than the configured limit, becomes an opaque field marked
// Unresolvable instead of being expanded again.
package normalize

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/discovery"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/logging"
)

// Warning is a non-fatal degradation recorded while normalizing.
type Warning struct {
	Path   string
	Ref    string
	Reason string
}

// String formats the warning for logs.
func (w Warning) String() string {
	return fmt.Sprintf("unresolvable reference %s at %s: %s", w.Ref, w.Path, w.Reason)
}

// Normalizer converts the schemas of one discovery document.
// A Normalizer is not safe for concurrent use.
type Normalizer struct {
	doc      *discovery.Document
	maxDepth int
	width    int

	// arena holds resolved reference templates; memo maps a reference
	// name to its arena slot.
	arena      []*fields.Field
	memo       map[string]int
	inProgress map[string]bool

	warnings []Warning
}

// Option configures a Normalizer.
type Option func(*Normalizer)

// WithMaxDepth bounds nesting before fields degrade to opaque.
func WithMaxDepth(depth int) Option {
	return func(n *Normalizer) {
		n.maxDepth = depth
	}
}

// WithWidth sets the description wrap column.
func WithWidth(width int) Option {
	return func(n *Normalizer) {
		n.width = width
	}
}

// New creates a normalizer for doc.
func New(doc *discovery.Document, opts ...Option) *Normalizer {
	n := &Normalizer{
		doc:        doc,
		maxDepth:   constants.MaxSchemaDepth,
		width:      constants.DescriptionWidth,
		memo:       make(map[string]int),
		inProgress: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Warnings returns the unresolvable references met so far.
func (n *Normalizer) Warnings() []Warning {
	return n.warnings
}

// Size returns the number of memoized reference templates.
func (n *Normalizer) Size() int {
	return len(n.arena)
}

// Schema returns the property tree of the named schema.
func (n *Normalizer) Schema(ctx context.Context, typeName string) ([]*fields.Field, error) {
	if _, err := n.doc.Schema(typeName); err != nil {
		return nil, err
	}
	tmpl, err := n.resolve(ctx, typeName, fields.Path{}, 0)
	if err != nil {
		return nil, err
	}
	return tmpl.Children, nil
}

// Field converts a single schema into a field named name.
func (n *Normalizer) Field(ctx context.Context, name string, s *discovery.Schema) (*fields.Field, error) {
	return n.build(ctx, name, s, fields.Path{name}, 0)
}

func (n *Normalizer) build(ctx context.Context, name string, s *discovery.Schema, path fields.Path, depth int) (*fields.Field, error) {
	if s == nil {
		return nil, errors.NewSchemaError(n.doc.ID, path.String(), "missing schema")
	}
	if s.Ref != "" {
		tmpl, err := n.resolve(ctx, s.Ref, path, depth)
		if err != nil {
			return nil, err
		}
		f := *tmpl
		f.Name = name
		if s.Description != "" {
			f.Description = n.description(s)
		}
		declared(&f, s)
		return &f, nil
	}

	f := &fields.Field{Name: name, Description: n.description(s)}
	declared(f, s)

	switch s.Type {
	case "integer":
		f.Kind = fields.KindInteger
	case "number":
		f.Kind = fields.KindDouble
	case "boolean":
		f.Kind = fields.KindBoolean
	case "string":
		stringKind(f, name, s)
	case "array":
		if s.Items == nil {
			return nil, errors.NewSchemaError(n.doc.ID, path.String(), "array without items")
		}
		item, err := n.build(ctx, "", s.Items, path, depth+1)
		if err != nil {
			return nil, err
		}
		f.Kind = fields.KindArray
		f.ItemKind = item.Kind
		f.Children = item.Children
		f.Unresolvable = item.Unresolvable
		f.Ref = item.Ref
		f.Resource, f.Imports = item.Resource, item.Imports
		f.EnumValues.Fill(item.EnumValues)
	case "object":
		switch {
		case len(s.Properties) > 0:
			f.Kind = fields.KindNestedObject
			children, err := n.properties(ctx, s.Properties, path, depth+1)
			if err != nil {
				return nil, err
			}
			f.Children = children
		case s.AdditionalProperties != nil:
			f.Kind = fields.KindKeyValuePairs
		default:
			f.Kind = fields.KindNestedObject
		}
	case "":
		return nil, errors.NewSchemaError(n.doc.ID, path.String(), "no type nor $ref")
	default:
		return nil, errors.NewSchemaError(n.doc.ID, path.String(), fmt.Sprintf("unexpected type %s", s.Type))
	}
	return f, nil
}

func (n *Normalizer) properties(ctx context.Context, props discovery.Properties, path fields.Path, depth int) ([]*fields.Field, error) {
	out := make([]*fields.Field, 0, len(props))
	for _, p := range props {
		child, err := n.build(ctx, p.Name, p.Schema, path.Child(p.Name), depth)
		if err != nil {
			return nil, err
		}
		out = append(out, child)
	}
	return out, nil
}

// resolve returns the shared template for ref.
func (n *Normalizer) resolve(ctx context.Context, ref string, path fields.Path, depth int) (*fields.Field, error) {
	if id, ok := n.memo[ref]; ok {
		return n.arena[id], nil
	}
	if n.inProgress[ref] {
		return n.opaque(ctx, ref, path, "cyclic reference"), nil
	}
	if depth > n.maxDepth {
		return n.opaque(ctx, ref, path, "maximum depth exceeded"), nil
	}
	s, ok := n.doc.Schemas[ref]
	if !ok || s == nil {
		return n.opaque(ctx, ref, path, "undefined schema"), nil
	}

	n.inProgress[ref] = true
	tmpl, err := n.build(ctx, "", s, path, depth)
	delete(n.inProgress, ref)
	if err != nil {
		return nil, err
	}

	n.memo[ref] = len(n.arena)
	n.arena = append(n.arena, tmpl)
	return tmpl, nil
}

func (n *Normalizer) opaque(ctx context.Context, ref string, path fields.Path, reason string) *fields.Field {
	w := Warning{Path: path.String(), Ref: ref, Reason: reason}
	n.warnings = append(n.warnings, w)
	logging.FromContext(ctx).Warn().
		Str("api", n.doc.ID).
		Str("ref", ref).
		Str("path", w.Path).
		Msg(reason)
	return &fields.Field{Kind: fields.KindOpaque, Unresolvable: true, Ref: ref}
}

// declared copies attributes the schema states outright.
func declared(f *fields.Field, s *discovery.Schema) {
	if len(s.Enum) > 0 {
		f.EnumValues.Infer(s.Enum)
	}
	if s.ReadOnly {
		f.OutputOnly.Infer(true)
	}
	if s.Deprecated {
		f.Deprecated.Infer(true)
	}
	if s.Required {
		f.Required.Infer(true)
	}
}

var resourceRefPattern = regexp.MustCompile(`(?i)URL\s+referring\s+to\s+an?\s+([^\s]+)\s+`)

func stringKind(f *fields.Field, name string, s *discovery.Schema) {
	switch {
	case len(s.Enum) > 0:
		f.Kind = fields.KindEnum
	case s.Format == "int32" || s.Format == "int64" || s.Format == "uint32" || s.Format == "uint64":
		f.Kind = fields.KindInteger
	case s.Format == "double" || s.Format == "float":
		f.Kind = fields.KindDouble
	case s.Format == "byte" && name == "fingerprint":
		f.Kind = fields.KindFingerprint
	case s.Format == "google-datetime" ||
		strings.Contains(s.Description, "in RFC3339 text format") ||
		strings.Contains(strings.ToLower(name), "timestamp"):
		f.Kind = fields.KindTime
	case name == "etag":
		f.Kind = fields.KindFingerprint
	default:
		f.Kind = fields.KindString
		if m := resourceRefPattern.FindStringSubmatch(s.Description); m != nil {
			api, target, ok := strings.Cut(m[1], ".")
			if ok && target != "" {
				f.Kind = fields.KindResourceRef
				f.Resource = strings.TrimRight(target, ".,;")
				f.Imports = "name"
				if api == "compute" {
					f.Imports = "selfLink"
				}
			}
		}
	}
}
