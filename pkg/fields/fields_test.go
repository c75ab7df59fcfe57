package fields_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder/pkg/fields"
)

func TestFlagInfer(t *testing.T) {
	t.Run("unset becomes inferred", func(t *testing.T) {
		var f fields.Flag
		assert.True(t, f.Infer(true))
		assert.Equal(t, fields.InferredFlag(true), f)
	})

	t.Run("manual is never overwritten", func(t *testing.T) {
		f := fields.ManualFlag(true)
		assert.False(t, f.Infer(false))
		assert.Equal(t, fields.ManualFlag(true), f)
	})

	t.Run("fill ignores unset source", func(t *testing.T) {
		var f fields.Flag
		assert.False(t, f.Fill(fields.Flag{}))
		assert.False(t, f.IsSet())
	})
}

func TestListInfer(t *testing.T) {
	var l fields.List
	assert.False(t, l.Infer(nil))
	assert.True(t, l.Infer([]string{"A", "B"}))
	assert.False(t, l.Infer([]string{"C"}))
	assert.Equal(t, []string{"A", "B"}, l.Values)
	assert.Equal(t, fields.Inferred, l.State)
}

func TestOrigin(t *testing.T) {
	o := fields.OriginGA
	assert.True(t, o.Has(fields.OriginGA))
	assert.False(t, o.Has(fields.OriginBeta))
	o = o.With(fields.OriginBeta)
	assert.Equal(t, "ga+beta", o.String())
	assert.True(t, fields.Origin(0).IsEmpty())
	assert.Equal(t, "none", fields.Origin(0).String())
}

func TestFieldKeyAndType(t *testing.T) {
	f := &fields.Field{Name: "network", APIName: "networkUrl", Kind: fields.KindArray, ItemKind: fields.KindNestedObject}
	assert.Equal(t, "networkUrl", f.Key())
	assert.True(t, f.IsObject())
	assert.Equal(t, "Array<NestedObject>", f.TypeString())

	other := &fields.Field{Name: "x", Kind: fields.KindArray}
	assert.True(t, f.SameType(other), "empty item kind matches any")
	other.ItemKind = fields.KindString
	assert.False(t, f.SameType(other))
}

func TestCloneIsDeep(t *testing.T) {
	shared := []*fields.Field{{Name: "leaf", Kind: fields.KindString}}
	a := &fields.Field{Name: "a", Kind: fields.KindNestedObject, Children: shared, EnumValues: fields.InferredList("X")}
	b := &fields.Field{Name: "b", Kind: fields.KindNestedObject, Children: shared}

	ca := a.Clone()
	ca.Children[0].Name = "changed"
	ca.EnumValues.Values[0] = "Y"

	assert.Equal(t, "leaf", b.Children[0].Name)
	assert.Equal(t, "X", a.EnumValues.Values[0])
}

func TestWalkAndLookup(t *testing.T) {
	tree := []*fields.Field{
		{Name: "a", Kind: fields.KindNestedObject, Children: []*fields.Field{
			{Name: "b", Kind: fields.KindString},
		}},
		{Name: "c", Kind: fields.KindInteger},
	}

	var paths []string
	fields.Walk(tree, func(p fields.Path, _ *fields.Field) bool {
		paths = append(paths, p.String())
		return true
	})
	assert.Equal(t, []string{"a", "a.b", "c"}, paths)

	got := fields.Lookup(tree, fields.ParsePath("a.b"))
	require.NotNil(t, got)
	assert.Equal(t, "b", got.Name)
	assert.Nil(t, fields.Lookup(tree, fields.ParsePath("a.z")))
}

func TestPathChildDoesNotAlias(t *testing.T) {
	base := make(fields.Path, 1, 4)
	base[0] = "root"
	x := base.Child("x")
	y := base.Child("y")
	assert.Equal(t, "root.x", x.String())
	assert.Equal(t, "root.y", y.String())
}

func TestResourceCloneAndCount(t *testing.T) {
	r := fields.NewResource("Thing")
	r.Properties = []*fields.Field{
		{Name: "a", Kind: fields.KindNestedObject, Children: []*fields.Field{{Name: "b", Kind: fields.KindString}}},
	}
	assert.Equal(t, 2, r.Count())
	assert.False(t, r.IsEmpty())

	c := r.Clone()
	c.Properties[0].Name = "z"
	assert.Equal(t, "a", r.Properties[0].Name)
}

func TestKinds(t *testing.T) {
	assert.True(t, fields.KindTime.IsPrimitive())
	assert.False(t, fields.KindEnum.IsPrimitive())
	assert.True(t, fields.KindOpaque.IsKnown())
	assert.False(t, fields.Kind("Custom").IsKnown())
}
