package fields

import "slices"

// State records how an attribute got its value.
type State uint8

// Attribute states.
const (
	// Unset means nobody has given the attribute a value.
	Unset State = iota
	// Inferred values come from a schema declaration or description inference.
	Inferred
	// Manual values were present in the existing definition.
	Manual
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case Inferred:
		return "inferred"
	case Manual:
		return "manual"
	default:
		return "unset"
	}
}

// Flag is a tri-state boolean attribute.
type Flag struct {
	Value bool
	State State
}

// ManualFlag returns a flag set explicitly in a definition.
func ManualFlag(v bool) Flag {
	return Flag{Value: v, State: Manual}
}

// InferredFlag returns a flag derived from a schema.
func InferredFlag(v bool) Flag {
	return Flag{Value: v, State: Inferred}
}

// IsSet reports whether the flag carries a value.
func (f Flag) IsSet() bool {
	return f.State != Unset
}

// IsTrue reports whether the flag is set to true.
func (f Flag) IsTrue() bool {
	return f.IsSet() && f.Value
}

// Infer assigns v only when the flag is unset. It reports whether the flag changed.
func (f *Flag) Infer(v bool) bool {
	if f.State != Unset {
		return false
	}
	f.Value = v
	f.State = Inferred
	return true
}

// Fill copies src into f when f is unset and src is set.
func (f *Flag) Fill(src Flag) bool {
	if !src.IsSet() {
		return false
	}
	return f.Infer(src.Value)
}

// List is a tri-state ordered string list attribute.
type List struct {
	Values []string
	State  State
}

// ManualList returns a list set explicitly in a definition.
func ManualList(values ...string) List {
	return List{Values: values, State: Manual}
}

// InferredList returns a list derived from a schema.
func InferredList(values ...string) List {
	return List{Values: values, State: Inferred}
}

// IsSet reports whether the list carries a value.
func (l List) IsSet() bool {
	return l.State != Unset
}

// Infer assigns values only when the list is unset and values is non-empty.
func (l *List) Infer(values []string) bool {
	if l.State != Unset || len(values) == 0 {
		return false
	}
	l.Values = slices.Clone(values)
	l.State = Inferred
	return true
}

// Fill copies src into l when l is unset and src is set.
func (l *List) Fill(src List) bool {
	if !src.IsSet() {
		return false
	}
	return l.Infer(src.Values)
}

// Clone returns a copy that does not share its backing array.
func (l List) Clone() List {
	return List{Values: slices.Clone(l.Values), State: l.State}
}
