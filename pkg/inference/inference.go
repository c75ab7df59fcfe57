// Package inference derives structured field attributes from free-text
// descriptions. Each rule is independent; a description matching no rule
// yields an empty attribute set.
package inference

import (
	"slices"

	"github.com/agentstation/skaffolder/pkg/fields"
)

// Attributes is the partial attribute set inferred from one description.
type Attributes struct {
	Required   bool
	OutputOnly bool
	Deprecated bool
	InputOnly  bool
	Sensitive  bool
	EnumValues []string
}

// IsEmpty reports whether nothing was inferred.
func (a Attributes) IsEmpty() bool {
	return !a.Required && !a.OutputOnly && !a.Deprecated && !a.InputOnly && !a.Sensitive && len(a.EnumValues) == 0
}

// ApplyTo sets the inferred attributes on f where f leaves them unset.
// It returns the names of the attributes that changed.
func (a Attributes) ApplyTo(f *fields.Field) []string {
	var changed []string
	set := func(name string, flag *fields.Flag, v bool) {
		if v && flag.Infer(true) {
			changed = append(changed, name)
		}
	}
	set("required", &f.Required, a.Required)
	set("output_only", &f.OutputOnly, a.OutputOnly)
	set("deprecated", &f.Deprecated, a.Deprecated)
	set("ignore_read", &f.IgnoreRead, a.InputOnly)
	set("sensitive", &f.Sensitive, a.Sensitive)
	if f.EnumValues.Infer(a.EnumValues) {
		changed = append(changed, "enum_values")
	}
	return changed
}

// Rule inspects a description and records what it recognizes.
type Rule interface {
	// Name returns the rule name
	Name() string

	// Apply records inferred attributes for description into attrs
	Apply(description string, attrs *Attributes)
}

// Inferrer runs a list of rules over descriptions.
type Inferrer struct {
	rules []Rule
}

// New creates an inferrer with the default rules followed by extra.
func New(extra ...Rule) *Inferrer {
	return NewWithRules(append(DefaultRules(), extra...)...)
}

// NewWithRules creates an inferrer with exactly the given rules.
func NewWithRules(rules ...Rule) *Inferrer {
	return &Inferrer{rules: slices.Clone(rules)}
}

// DefaultRules returns the built-in rule list.
func DefaultRules() []Rule {
	return []Rule{
		OutputOnlyRule{},
		RequiredRule{},
		DeprecatedRule{},
		InputOnlyRule{},
		SensitiveRule{},
		EnumValuesRule{},
	}
}

// Rules returns the names of the configured rules.
func (i *Inferrer) Rules() []string {
	names := make([]string, len(i.rules))
	for n, r := range i.rules {
		names[n] = r.Name()
	}
	return names
}

// Infer applies every rule to description.
func (i *Inferrer) Infer(description string) Attributes {
	var attrs Attributes
	if description == "" {
		return attrs
	}
	for _, r := range i.rules {
		r.Apply(description, &attrs)
	}
	return attrs
}

// Infer runs the default rules over description.
func Infer(description string) Attributes {
	return defaultInferrer.Infer(description)
}

var defaultInferrer = New()
