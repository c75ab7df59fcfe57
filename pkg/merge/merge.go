// Package merge reconciles a resource definition with the GA and beta field
// trees of its API.
//
// Each object level is merged in one pass per surface: GA fields first, in
// schema order, then fields only the beta surface declares. Definition
// fields no surface declares are dropped unless pinned. Fields that survive
// keep every attribute their definition set; only unset attributes are
// filled. The merge never renames a field and never changes the type of an
// existing field; it reports both situations as warnings instead.
package merge

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/skaffolder/pkg/changelog"
	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/logging"
	"github.com/agentstation/skaffolder/pkg/provenance"
)

// Merger merges definitions with schema trees.
type Merger interface {
	// Merge reconciles definition with the GA and beta trees. Any of the
	// three may be nil; none of them is modified.
	Merge(ctx context.Context, definition, ga, beta *fields.Resource) (*Result, error)
}

// merger is the default implementation.
type merger struct {
	options *options
}

// New creates a Merger.
func New(opts ...Option) (Merger, error) {
	options, err := newOptions(opts...)
	if err != nil {
		return nil, err
	}
	return &merger{options: options}, nil
}

// Merge reconciles definition with the GA and beta trees.
func (m *merger) Merge(ctx context.Context, definition, ga, beta *fields.Resource) (*Result, error) {
	name := resourceName(definition, ga, beta)
	if name == "" {
		return nil, &errors.ValidationError{
			Field:   "resource",
			Message: "no definition or schema tree to merge",
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, errors.NewResourceError("merge", name, fmt.Errorf("%w: %w", errors.ErrCanceled, err))
	}

	logger := logging.FromContext(ctx).With().Str("resource", name).Logger()
	result := newResult(name)

	out := definition.Clone()
	if out == nil {
		out = fields.NewResource(name)
	}
	if out.Name == "" {
		out.Name = name
	}
	result.Metadata.Stats.FieldsBefore = out.Count()

	r := &run{
		options:  m.options,
		resource: name,
		log:      result.Log,
		tracker:  provenance.NewTracker(true),
		hasGA:    ga != nil,
	}
	for _, src := range []struct {
		name string
		tree *fields.Resource
	}{{constants.VersionGA, ga}, {constants.VersionBeta, beta}} {
		if src.tree == nil {
			continue
		}
		result.Metadata.Sources = append(result.Metadata.Sources, src.name)
		result.Metadata.Filled = appendUnique(result.Metadata.Filled, fillMetadata(out, src.tree)...)
	}

	out.Properties = r.level(nil, out.Properties, properties(ga), properties(beta))

	result.Resource = out
	if m.options.tracking {
		result.Provenance = r.tracker.Map()
	}
	result.finalize()

	logger.Debug().
		Int("added", result.Metadata.Stats.Added).
		Int("removed", result.Metadata.Stats.Removed).
		Int("updated", result.Metadata.Stats.Updated).
		Int("warnings", result.Metadata.Stats.Warnings).
		Dur("duration", result.Metadata.Duration).
		Msg("merged resource")

	return result, nil
}

// run holds the state of one merge.
type run struct {
	*options
	resource string
	log      *changelog.Log
	tracker  provenance.Tracker
	hasGA    bool
}

// entry is one field of the merged level under construction.
type entry struct {
	field *fields.Field
	// def is the definition field, nil when the field is new.
	def      *fields.Field
	ga, beta *fields.Field
	// created is the surface that introduced a new field.
	created fields.Origin
	records []changelog.Record
	recurse bool
}

func (e *entry) sources() []*fields.Field {
	var out []*fields.Field
	for _, s := range []*fields.Field{e.ga, e.beta} {
		if s != nil {
			out = append(out, s)
		}
	}
	return out
}

func (e *entry) resolvable() []*fields.Field {
	var out []*fields.Field
	for _, s := range e.sources() {
		if !s.Unresolvable {
			out = append(out, s)
		}
	}
	return out
}

// level merges one list of sibling fields and returns the merged list.
func (r *run) level(path fields.Path, def, ga, beta []*fields.Field) []*fields.Field {
	declared := make(map[string]bool, len(ga)+len(beta))
	for _, f := range ga {
		declared[f.Key()] = true
	}
	for _, f := range beta {
		declared[f.Key()] = true
	}
	var candidates []string
	for _, d := range def {
		if !declared[d.Key()] {
			candidates = append(candidates, d.Key())
		}
	}

	byKey := make(map[string]*entry)
	var order []*entry
	order = r.pass(path, fields.OriginGA, ga, def, candidates, byKey, order)
	order = r.pass(path, fields.OriginBeta, beta, def, candidates, byKey, order)

	for _, e := range order {
		r.settle(path.Child(e.field.Key()), e)
		for _, rec := range e.records {
			r.log.Append(rec)
		}
	}

	merged := make([]*fields.Field, 0, len(order))
	for _, e := range order {
		merged = append(merged, e.field)
	}

	for _, d := range def {
		if _, ok := byKey[d.Key()]; ok {
			continue
		}
		p := path.Child(d.Key())
		if reason, ok := r.pinned(p, d); ok {
			r.tracker.Track(r.resource, p.String(), provenance.Provenance{Source: fields.OriginManual, Reason: reason})
			d.Origin = fields.OriginManual
			r.log.Append(changelog.Record{Path: p.String(), Action: changelog.Kept, Origin: d.Origin, Message: "pinned"})
			merged = append(merged, d)
			continue
		}
		r.log.Append(changelog.Record{
			Path:    p.String(),
			Action:  changelog.Removed,
			Origin:  fields.OriginManual,
			Message: "not declared by any API version",
		})
	}

	for _, e := range order {
		if !e.recurse {
			continue
		}
		var defChildren []*fields.Field
		if e.def != nil {
			defChildren = e.def.Children
		}
		e.field.Children = r.level(path.Child(e.field.Key()), defChildren, children(e.ga), children(e.beta))
	}

	return merged
}

// pass matches one surface's fields against the level. A field already
// seen is only extended with the surface; otherwise it matches a definition
// field by key or is created.
func (r *run) pass(path fields.Path, origin fields.Origin, list, def []*fields.Field, candidates []string, byKey map[string]*entry, order []*entry) []*entry {
	for _, src := range list {
		key := src.Key()
		p := path.Child(key)
		e, seen := byKey[key]
		if !seen {
			e = &entry{}
			if d := fields.Find(def, key); d != nil {
				e.def, e.field = d, d
			} else {
				if w, ok := r.detector.Detect(key, candidates); ok {
					e.records = append(e.records, changelog.Record{
						Path:     p.String(),
						Action:   changelog.NameMismatchWarning,
						Origin:   origin,
						Message:  fmt.Sprintf("similarity %.2f", w.Similarity),
						Expected: w.Expected,
						Found:    w.Found,
					})
				}
				e.field = r.create(src, origin)
				e.created = origin
			}
			byKey[key] = e
			order = append(order, e)
		}
		if origin == fields.OriginGA {
			e.ga = src
		} else {
			e.beta = src
		}
		r.tracker.Track(r.resource, p.String(), provenance.Provenance{Source: origin, Reason: "declared by schema"})
	}
	return order
}

// create copies a schema field into a new definition field. Children are
// filled by the recursive merge.
func (r *run) create(src *fields.Field, origin fields.Origin) *fields.Field {
	shallow := *src
	shallow.Children = nil
	f := shallow.Clone()
	f.Origin = 0
	if origin == fields.OriginBeta && r.hasGA {
		f.MinVersion = constants.VersionBeta
	}
	r.infer(f, src.Description)
	return f
}

// settle decides the records of a matched or created field.
func (r *run) settle(p fields.Path, e *entry) {
	f := e.field
	key := p.String()

	if e.def == nil {
		e.records = append(e.records, changelog.Record{
			Path:    key,
			Action:  changelog.Added,
			Origin:  e.created,
			Message: e.created.String(),
		})
		if f.Unresolvable {
			e.records = append(e.records, unresolvable(key, f))
		}
		f.Origin = r.tracker.Origin(r.resource, key)
		e.recurse = len(children(e.ga))+len(children(e.beta)) > 0
		return
	}

	reason, pinned := r.pinned(p, f)
	if pinned {
		r.tracker.Track(r.resource, key, provenance.Provenance{Source: fields.OriginManual, Reason: reason})
	}
	f.Origin = r.tracker.Origin(r.resource, key)

	resolvable := e.resolvable()
	if len(resolvable) == 0 {
		e.records = append(e.records, unresolvable(key, e.sources()[0]))
		return
	}

	// An opaque definition field was saved while its reference did not
	// resolve; once a source resolves it takes that type like an untyped one.
	var changed []string
	if f.Kind == "" || f.Kind == fields.KindOpaque {
		f.Kind, f.ItemKind = resolvable[0].Kind, resolvable[0].ItemKind
		f.Unresolvable, f.Ref = false, ""
		changed = append(changed, "type")
	}

	mismatched := false
	var reported []string
	for _, s := range resolvable {
		if f.SameType(s) || slices.Contains(reported, s.TypeString()) {
			continue
		}
		reported = append(reported, s.TypeString())
		mismatched = true
		e.records = append(e.records, changelog.Record{
			Path:     key,
			Action:   changelog.TypeMismatchWarning,
			Origin:   f.Origin,
			Existing: f.TypeString(),
			Defined:  s.TypeString(),
		})
	}
	objectSource := slices.ContainsFunc(resolvable, (*fields.Field).IsObject)
	if mismatched {
		e.recurse = f.IsObject() && objectSource
		return
	}
	e.recurse = objectSource

	changed = append(changed, r.fill(f, resolvable[0])...)
	if r.hasGA && e.ga == nil && f.MinVersion == "" {
		f.MinVersion = constants.VersionBeta
		changed = append(changed, "min_version")
	}

	if len(changed) > 0 {
		e.records = append(e.records, changelog.Record{
			Path:    key,
			Action:  changelog.Updated,
			Origin:  f.Origin,
			Message: strings.Join(changed, ", "),
		})
		return
	}
	rec := changelog.Record{Path: key, Action: changelog.Kept, Origin: f.Origin}
	if pinned {
		rec.Message = "pinned"
	}
	e.records = append(e.records, rec)
}

// fill sets the unset attributes of f from the schema field s and from
// inference over its description. It returns the names of filled attributes.
func (r *run) fill(f, s *fields.Field) []string {
	var changed []string
	if f.Description == "" && s.Description != "" {
		f.Description = s.Description
		changed = append(changed, "description")
	}
	if f.Kind == fields.KindArray && f.ItemKind == "" && s.ItemKind != "" {
		f.ItemKind = s.ItemKind
		changed = append(changed, "item_type")
	}
	flag := func(name string, dst *fields.Flag, src fields.Flag) {
		if src.IsTrue() && dst.Infer(true) {
			changed = append(changed, name)
		}
	}
	flag("required", &f.Required, s.Required)
	flag("output_only", &f.OutputOnly, s.OutputOnly)
	flag("deprecated", &f.Deprecated, s.Deprecated)
	flag("sensitive", &f.Sensitive, s.Sensitive)
	flag("ignore_read", &f.IgnoreRead, s.IgnoreRead)
	if f.Kind == fields.KindEnum && f.EnumValues.Fill(s.EnumValues) {
		changed = append(changed, "enum_values")
	}
	if f.Kind == fields.KindResourceRef {
		if f.Resource == "" && s.Resource != "" {
			f.Resource = s.Resource
			changed = append(changed, "resource")
		}
		if f.Imports == "" && s.Imports != "" {
			f.Imports = s.Imports
			changed = append(changed, "imports")
		}
	}
	return appendUnique(changed, r.infer(f, s.Description)...)
}

// infer applies description inference to the unset attributes of f.
func (r *run) infer(f *fields.Field, description string) []string {
	attrs := r.inferrer.Infer(description)
	if f.Kind != fields.KindEnum {
		attrs.EnumValues = nil
	}
	return attrs.ApplyTo(f)
}

// pinned reports whether the definition field at p is kept regardless of
// the schema, and why.
func (r *run) pinned(p fields.Path, f *fields.Field) (string, bool) {
	if f.Pinned {
		return "pinned", true
	}
	if pin := r.pins.Match(r.resource, p.String()); pin != nil {
		if pin.Reason != "" {
			return pin.Reason, true
		}
		return "pinned by " + pin.Path, true
	}
	return "", false
}

func unresolvable(path string, f *fields.Field) changelog.Record {
	return changelog.Record{
		Path:    path,
		Action:  changelog.UnresolvableReferenceWarning,
		Origin:  f.Origin,
		Message: "kept as opaque",
		Ref:     f.Ref,
	}
}

// fillMetadata fills unset resource metadata of out from src and returns
// the names of the filled keys.
func fillMetadata(out, src *fields.Resource) []string {
	var filled []string
	str := func(name string, dst *string, v string) {
		if *dst == "" && v != "" {
			*dst = v
			filled = append(filled, name)
		}
	}
	str("product", &out.Product, src.Product)
	str("kind", &out.APIKind, src.APIKind)
	str("base_url", &out.BaseURL, src.BaseURL)
	if out.SelfLink == "" && src.HasSelfLink.IsTrue() && out.HasSelfLink.Infer(true) {
		filled = append(filled, "has_self_link")
	}
	if !out.HasSelfLink.IsTrue() {
		str("self_link", &out.SelfLink, src.SelfLink)
	}
	str("create_url", &out.CreateURL, src.CreateURL)
	str("update_verb", &out.UpdateVerb, src.UpdateVerb)
	if src.UpdateMask.IsTrue() && out.UpdateMask.Infer(true) {
		filled = append(filled, "update_mask")
	}
	if len(out.ImportFormat) == 0 && len(src.ImportFormat) > 0 {
		out.ImportFormat = slices.Clone(src.ImportFormat)
		filled = append(filled, "import_format")
	}
	if len(out.Parameters) == 0 && len(src.Parameters) > 0 {
		out.Parameters = fields.CloneAll(src.Parameters)
		filled = append(filled, "parameters")
	}
	return filled
}

func resourceName(trees ...*fields.Resource) string {
	for _, t := range trees {
		if t != nil && t.Name != "" {
			return t.Name
		}
	}
	return ""
}

func properties(r *fields.Resource) []*fields.Field {
	if r == nil {
		return nil
	}
	return r.Properties
}

func children(f *fields.Field) []*fields.Field {
	if f == nil || f.Unresolvable {
		return nil
	}
	return f.Children
}

func appendUnique(list []string, items ...string) []string {
	for _, s := range items {
		if !slices.Contains(list, s) {
			list = append(list, s)
		}
	}
	return list
}
