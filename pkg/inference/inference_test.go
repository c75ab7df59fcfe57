package inference_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/inference"
)

func TestRules(t *testing.T) {
	tests := []struct {
		name        string
		rule        inference.Rule
		description string
		want        inference.Attributes
	}{
		{"output only prefix", inference.OutputOnlyRule{}, "Output only. Creation timestamp.", inference.Attributes{OutputOnly: true}},
		{"output only bracket", inference.OutputOnlyRule{}, "[Output Only] Server-defined URL.", inference.Attributes{OutputOnly: true}},
		{"output only sentence", inference.OutputOnlyRule{}, "The id. This field is output only.", inference.Attributes{OutputOnly: true}},
		{"output only absent", inference.OutputOnlyRule{}, "Unlike other fields, this can be set.", inference.Attributes{}},
		{"required prefix", inference.RequiredRule{}, "Required. The name of the policy.", inference.Attributes{Required: true}},
		{"required sentence", inference.RequiredRule{}, "The zone. This field is required.", inference.Attributes{Required: true}},
		{"required not first word", inference.RequiredRule{}, "Whether a key is required for access.", inference.Attributes{}},
		{"deprecated", inference.DeprecatedRule{}, "This field is deprecated, use network instead.", inference.Attributes{Deprecated: true}},
		{"input only tag", inference.InputOnlyRule{}, "@InputOnly The raw key.", inference.Attributes{InputOnly: true}},
		{"input only prefix", inference.InputOnlyRule{}, "Input only. The password.", inference.Attributes{InputOnly: true}},
		{"sensitive", inference.SensitiveRule{}, "The root password for the instance.", inference.Attributes{Sensitive: true}},
		{"not sensitive", inference.SensitiveRule{}, "Name of the secret version.", inference.Attributes{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got inference.Attributes
			tt.rule.Apply(tt.description, &got)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEnumValuesRule(t *testing.T) {
	tests := []struct {
		name        string
		description string
		want        []string
	}{
		{
			name:        "inline quoted",
			description: `The protocol. Possible values are "HTTP", "HTTPS" and "HTTP2". Defaults to "HTTP".`,
			want:        []string{"HTTP", "HTTPS", "HTTP2"},
		},
		{
			name:        "dedupe keeps first order",
			description: "Must be one of `B`, `A`, `B`.",
			want:        []string{"B", "A"},
		},
		{
			name:        "bracketed list",
			description: "The mode. Valid values are [ROUND_ROBIN, RING_HASH].",
			want:        []string{"ROUND_ROBIN", "RING_HASH"},
		},
		{
			name: "bullet block",
			description: "The scheme.\nThe possible values are:\n\n* `EXTERNAL`: Used with `HTTP`\n     load balancers.\n\n* `INTERNAL`: Internal traffic.\n",
			want:        []string{"EXTERNAL", "INTERNAL"},
		},
		{
			name:        "no lead-in",
			description: `Set to "HTTP" for plain traffic.`,
			want:        nil,
		},
		{
			name:        "lead-in without tokens",
			description: "Possible values are described elsewhere.",
			want:        nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got inference.Attributes
			inference.EnumValuesRule{}.Apply(tt.description, &got)
			assert.Equal(t, tt.want, got.EnumValues)
		})
	}
}

func TestInferEmptyAndUnmatched(t *testing.T) {
	assert.True(t, inference.Infer("").IsEmpty())
	assert.True(t, inference.Infer("A plain description of a field.").IsEmpty())
}

func TestInferCombinesRules(t *testing.T) {
	got := inference.Infer("Output only. [Deprecated] The state. Possible values are 'UP', 'DOWN'.")
	assert.True(t, got.OutputOnly)
	assert.True(t, got.Deprecated)
	assert.Equal(t, []string{"UP", "DOWN"}, got.EnumValues)
	assert.False(t, got.Required)
}

func TestApplyToNeverOverridesManual(t *testing.T) {
	f := &fields.Field{
		Name:       "state",
		Required:   fields.ManualFlag(false),
		EnumValues: fields.ManualList("ON"),
	}
	attrs := inference.Attributes{Required: true, OutputOnly: true, EnumValues: []string{"UP"}}

	changed := attrs.ApplyTo(f)

	assert.Equal(t, []string{"output_only"}, changed)
	assert.Equal(t, fields.ManualFlag(false), f.Required)
	assert.Equal(t, fields.InferredFlag(true), f.OutputOnly)
	assert.Equal(t, fields.ManualList("ON"), f.EnumValues)
}

type markerRule struct{}

func (markerRule) Name() string { return "marker" }

func (markerRule) Apply(description string, attrs *inference.Attributes) {
	if description == "SECRET" {
		attrs.Sensitive = true
	}
}

func TestCustomRules(t *testing.T) {
	i := inference.New(markerRule{})
	assert.Contains(t, i.Rules(), "marker")
	assert.True(t, i.Infer("SECRET").Sensitive)

	only := inference.NewWithRules(markerRule{})
	assert.Equal(t, []string{"marker"}, only.Rules())
	assert.False(t, only.Infer("Output only.").OutputOnly)
}
