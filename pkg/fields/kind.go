package fields

// Kind is the type of a field as written in a resource definition.
// Unknown kinds read from a definition are kept verbatim.
type Kind string

// String returns the string representation of a kind.
func (k Kind) String() string {
	return string(k)
}

// Field kinds.
const (
	KindString        Kind = "String"
	KindInteger       Kind = "Integer"
	KindDouble        Kind = "Double"
	KindBoolean       Kind = "Boolean"
	KindEnum          Kind = "Enum"
	KindNestedObject  Kind = "NestedObject"
	KindArray         Kind = "Array"
	KindKeyValuePairs Kind = "KeyValuePairs"
	KindTime          Kind = "Time"
	KindFingerprint   Kind = "Fingerprint"
	KindResourceRef   Kind = "ResourceRef"

	// KindOpaque marks a field whose schema reference could not be resolved.
	KindOpaque Kind = "Opaque"
)

// Kinds returns every kind the normalizer can produce.
func Kinds() []Kind {
	return []Kind{
		KindString,
		KindInteger,
		KindDouble,
		KindBoolean,
		KindEnum,
		KindNestedObject,
		KindArray,
		KindKeyValuePairs,
		KindTime,
		KindFingerprint,
		KindResourceRef,
		KindOpaque,
	}
}

// IsKnown reports whether k is one of the kinds in Kinds.
func (k Kind) IsKnown() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// IsPrimitive reports whether k is a scalar value kind.
func (k Kind) IsPrimitive() bool {
	switch k {
	case KindString, KindInteger, KindDouble, KindBoolean, KindTime, KindFingerprint:
		return true
	}
	return false
}
