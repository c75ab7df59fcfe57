package report

import (
	"fmt"
	"io"

	"github.com/agentstation/skaffolder/pkg/changelog"
	"github.com/agentstation/skaffolder/pkg/fields"
)

// Line formats one record of resource as a log line.
func Line(resource string, rec changelog.Record) string {
	switch rec.Action {
	case changelog.Added:
		return fmt.Sprintf("INFO: adding %s as %s field to definition of %s", rec.Path, surface(rec.Origin), resource)
	case changelog.Removed:
		return fmt.Sprintf("WARNING: removing field %s from definition of %s", rec.Path, resource)
	case changelog.Updated:
		return fmt.Sprintf("INFO: updating field %s of %s: %s", rec.Path, resource, rec.Message)
	case changelog.Kept:
		return fmt.Sprintf("DEBUG: keeping field %s of %s", rec.Path, resource)
	case changelog.NameMismatchWarning:
		return fmt.Sprintf("WARNING: mismatch in field name %s: expected %q defined %q", rec.Path, rec.Found, rec.Expected)
	case changelog.TypeMismatchWarning:
		return fmt.Sprintf("WARNING: mismatch of type on field %s, existing type %s and defined %s", rec.Path, rec.Existing, rec.Defined)
	case changelog.UnresolvableReferenceWarning:
		return fmt.Sprintf("WARNING: unresolvable reference %s on field %s, kept as opaque", rec.Ref, rec.Path)
	default:
		return fmt.Sprintf("INFO: %s field %s of %s", rec.Action, rec.Path, resource)
	}
}

// surface names the API surface that introduced a field.
func surface(o fields.Origin) string {
	if o.Has(fields.OriginGA) {
		return "ga"
	}
	return "beta"
}

func (r *Reporter) writeText(w io.Writer, logs []*changelog.Log) error {
	for _, l := range logs {
		if l == nil {
			continue
		}
		for _, rec := range r.visible(l) {
			if _, err := fmt.Fprintln(w, Line(l.Resource, rec)); err != nil {
				return err
			}
		}
	}
	return nil
}
