package fields

import "strings"

// Origin is the set of sources that justify a field's presence in a merged tree.
// It exists only while merging and is never persisted.
type Origin uint8

// Origin bits.
const (
	OriginGA Origin = 1 << iota
	OriginBeta
	OriginManual
)

// Sources returns the single-source origins in precedence order.
func Sources() []Origin {
	return []Origin{OriginGA, OriginBeta, OriginManual}
}

// Has reports whether o contains every bit of other.
func (o Origin) Has(other Origin) bool {
	return other != 0 && o&other == other
}

// With returns o extended with other.
func (o Origin) With(other Origin) Origin {
	return o | other
}

// IsEmpty reports whether no source justifies the field.
func (o Origin) IsEmpty() bool {
	return o == 0
}

// String returns the origin as "ga", "beta", "manual" or a "+"-joined combination.
func (o Origin) String() string {
	if o == 0 {
		return "none"
	}
	var parts []string
	if o.Has(OriginGA) {
		parts = append(parts, "ga")
	}
	if o.Has(OriginBeta) {
		parts = append(parts, "beta")
	}
	if o.Has(OriginManual) {
		parts = append(parts, "manual")
	}
	return strings.Join(parts, "+")
}

// MarshalText encodes the origin as its string form.
func (o Origin) MarshalText() ([]byte, error) {
	return []byte(o.String()), nil
}
