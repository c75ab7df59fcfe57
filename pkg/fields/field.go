// Package fields defines the field tree shared by discovery schemas and
// resource definitions.
//
// A tree is an ordered list of fields; object-like fields own an ordered
// list of children. Sibling keys are unique within one list.
package fields

import (
	"slices"
	"strings"
)

// Path is the sequence of field keys from the resource root.
type Path []string

// String joins the path with dots.
func (p Path) String() string {
	return strings.Join(p, ".")
}

// Child returns a new path extended with key.
func (p Path) Child(key string) Path {
	out := make(Path, len(p), len(p)+1)
	copy(out, p)
	return append(out, key)
}

// ParsePath splits a dotted path.
func ParsePath(s string) Path {
	if s == "" {
		return nil
	}
	return strings.Split(s, ".")
}

// Annotation is a definition key the tool does not interpret.
type Annotation struct {
	Key   string
	Value any
}

// Annotations keeps unknown definition keys in their original order.
type Annotations []Annotation

// Get returns the value stored under key.
func (a Annotations) Get(key string) (any, bool) {
	for _, kv := range a {
		if kv.Key == key {
			return kv.Value, true
		}
	}
	return nil, false
}

// Field is one node of a field tree.
type Field struct {
	Name string
	// APIName is the schema name when it differs from Name.
	APIName string

	Kind     Kind
	ItemKind Kind

	Description string

	Required   Flag
	OutputOnly Flag
	Deprecated Flag
	Sensitive  Flag
	IgnoreRead Flag
	EnumValues List

	// MinVersion is "beta" for fields only available on the beta surface.
	MinVersion string
	Pinned     bool

	// Resource and Imports describe a ResourceRef target.
	Resource string
	Imports  string

	URLParamOnly bool

	// Unresolvable is set by the normalizer when Ref could not be expanded.
	Unresolvable bool
	Ref          string

	Children []*Field

	Origin      Origin
	Annotations Annotations
}

// Key returns the name used to match this field against schema fields.
func (f *Field) Key() string {
	if f.APIName != "" {
		return f.APIName
	}
	return f.Name
}

// IsObject reports whether the field carries children.
func (f *Field) IsObject() bool {
	return IsObjectKind(f.Kind, f.ItemKind)
}

// IsObjectKind reports whether a kind pair describes an object or an array of objects.
func IsObjectKind(kind, item Kind) bool {
	return kind == KindNestedObject || (kind == KindArray && item == KindNestedObject)
}

// SameType reports whether f and other have compatible kinds. An empty item
// kind on either side matches any item kind.
func (f *Field) SameType(other *Field) bool {
	if f.Kind != other.Kind {
		return false
	}
	if f.Kind != KindArray || f.ItemKind == "" || other.ItemKind == "" {
		return true
	}
	return f.ItemKind == other.ItemKind
}

// TypeString renders the kind, including the item kind of arrays.
func (f *Field) TypeString() string {
	if f.Kind == KindArray && f.ItemKind != "" {
		return string(f.Kind) + "<" + string(f.ItemKind) + ">"
	}
	return string(f.Kind)
}

// Child returns the direct child whose key is key.
func (f *Field) Child(key string) *Field {
	return Find(f.Children, key)
}

// Find returns the field in list whose key is key.
func Find(list []*Field, key string) *Field {
	for _, f := range list {
		if f.Key() == key {
			return f
		}
	}
	return nil
}

// Keys returns the keys of list in order.
func Keys(list []*Field) []string {
	keys := make([]string, len(list))
	for i, f := range list {
		keys[i] = f.Key()
	}
	return keys
}

// Clone returns a deep copy of f. Shared subtrees in f become independent copies.
func (f *Field) Clone() *Field {
	if f == nil {
		return nil
	}
	out := *f
	out.EnumValues = f.EnumValues.Clone()
	out.Annotations = slices.Clone(f.Annotations)
	out.Children = CloneAll(f.Children)
	return &out
}

// CloneAll deep copies a field list.
func CloneAll(list []*Field) []*Field {
	if list == nil {
		return nil
	}
	out := make([]*Field, len(list))
	for i, f := range list {
		out[i] = f.Clone()
	}
	return out
}

// Walk visits every field of list depth first, parents before children.
// Returning false from fn skips the field's children.
func Walk(list []*Field, fn func(path Path, f *Field) bool) {
	walk(nil, list, fn)
}

func walk(parent Path, list []*Field, fn func(Path, *Field) bool) {
	for _, f := range list {
		p := parent.Child(f.Key())
		if fn(p, f) {
			walk(p, f.Children, fn)
		}
	}
}

// Lookup finds the field at path.
func Lookup(list []*Field, path Path) *Field {
	var f *Field
	for _, key := range path {
		f = Find(list, key)
		if f == nil {
			return nil
		}
		list = f.Children
	}
	return f
}
