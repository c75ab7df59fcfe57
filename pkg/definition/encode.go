package definition

import (
	"github.com/goccy/go-yaml"

	"github.com/agentstation/skaffolder/pkg/fields"
)

// Encode renders a definition document. Known keys come first in a fixed
// order, followed by annotations in the order they were read. Unset
// attributes are omitted.
func Encode(r *fields.Resource) ([]byte, error) {
	return yaml.MarshalWithOptions(encodeResource(r),
		yaml.Indent(2),
		yaml.IndentSequence(true),
		yaml.UseLiteralStyleIfMultiline(true),
	)
}

type builder struct {
	out yaml.MapSlice
}

func (b *builder) add(key string, v any) {
	b.out = append(b.out, yaml.MapItem{Key: key, Value: v})
}

func (b *builder) str(key, v string) {
	if v != "" {
		b.add(key, v)
	}
}

func (b *builder) flag(key string, f fields.Flag) {
	if f.IsSet() {
		b.add(key, f.Value)
	}
}

func (b *builder) boolean(key string, v bool) {
	if v {
		b.add(key, true)
	}
}

func (b *builder) annotations(a fields.Annotations) {
	for _, kv := range a {
		b.add(kv.Key, kv.Value)
	}
}

func encodeResource(r *fields.Resource) yaml.MapSlice {
	b := &builder{}
	b.str(keyName, r.Name)
	b.str(keyProduct, r.Product)
	b.str(keyKind, r.APIKind)
	b.str(keyBaseURL, r.BaseURL)
	b.str(keySelfLink, r.SelfLink)
	b.flag(keyHasSelfLink, r.HasSelfLink)
	b.str(keyCreateURL, r.CreateURL)
	b.str(keyUpdateVerb, r.UpdateVerb)
	b.flag(keyUpdateMask, r.UpdateMask)
	if len(r.ImportFormat) > 0 {
		b.add(keyImportFormat, r.ImportFormat)
	}
	if len(r.Parameters) > 0 {
		b.add(keyParameters, encodeFields(r.Parameters))
	}
	b.add(keyProperties, encodeFields(r.Properties))
	b.annotations(r.Annotations)
	return b.out
}

func encodeFields(list []*fields.Field) []yaml.MapSlice {
	out := make([]yaml.MapSlice, 0, len(list))
	for _, f := range list {
		out = append(out, encodeField(f))
	}
	return out
}

func encodeField(f *fields.Field) yaml.MapSlice {
	b := &builder{}
	b.str(keyName, f.Name)
	b.str(keyAPIName, f.APIName)
	b.str(keyType, string(f.Kind))
	b.str(keyItemType, string(f.ItemKind))
	b.str(keyDescription, f.Description)
	b.flag(keyRequired, f.Required)
	b.flag(keyOutputOnly, f.OutputOnly)
	b.flag(keyDeprecated, f.Deprecated)
	b.flag(keySensitive, f.Sensitive)
	b.flag(keyIgnoreRead, f.IgnoreRead)
	b.boolean(keyURLParamOnly, f.URLParamOnly)
	b.str(keyMinVersion, f.MinVersion)
	b.boolean(keyPinned, f.Pinned)
	if f.EnumValues.IsSet() {
		values := f.EnumValues.Values
		if values == nil {
			values = []string{}
		}
		b.add(keyEnumValues, values)
	}
	b.str(keyResource, f.Resource)
	b.str(keyImports, f.Imports)
	if len(f.Children) > 0 {
		b.add(keyProperties, encodeFields(f.Children))
	}
	b.annotations(f.Annotations)
	return b.out
}
