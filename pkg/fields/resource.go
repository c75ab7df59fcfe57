package fields

import "slices"

// Resource is a resource definition: metadata plus the property tree.
type Resource struct {
	// Name is the resource type name, e.g. "BackendService".
	Name    string
	Product string
	// APIKind is the discovery "kind" identifier, e.g. "compute#backendService".
	APIKind string

	BaseURL      string
	SelfLink     string
	HasSelfLink  Flag
	CreateURL    string
	UpdateVerb   string
	UpdateMask   Flag
	ImportFormat []string

	// Parameters are URL parameters that are not part of the request body.
	Parameters []*Field
	Properties []*Field

	Annotations Annotations
}

// NewResource returns an empty definition for the named type.
func NewResource(name string) *Resource {
	return &Resource{Name: name}
}

// IsEmpty reports whether the definition has no fields at all.
func (r *Resource) IsEmpty() bool {
	return len(r.Properties) == 0 && len(r.Parameters) == 0
}

// Clone returns a deep copy of r.
func (r *Resource) Clone() *Resource {
	if r == nil {
		return nil
	}
	out := *r
	out.ImportFormat = slices.Clone(r.ImportFormat)
	out.Parameters = CloneAll(r.Parameters)
	out.Properties = CloneAll(r.Properties)
	out.Annotations = slices.Clone(r.Annotations)
	return &out
}

// Count returns the number of fields in the property tree.
func (r *Resource) Count() int {
	n := 0
	Walk(r.Properties, func(Path, *Field) bool {
		n++
		return true
	})
	return n
}
