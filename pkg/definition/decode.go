// Package definition reads and writes resource definition files.
//
// A definition is a YAML mapping. Known keys map onto fields.Resource and
// fields.Field; every other key is kept as an annotation and written back
// in its original order. An attribute present in the file is Manual; an
// absent one is Unset.
package definition

import (
	"fmt"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
)

// Resource keys.
const (
	keyName         = "name"
	keyProduct      = "product"
	keyKind         = "kind"
	keyBaseURL      = "base_url"
	keySelfLink     = "self_link"
	keyHasSelfLink  = "has_self_link"
	keyCreateURL    = "create_url"
	keyUpdateVerb   = "update_verb"
	keyUpdateMask   = "update_mask"
	keyImportFormat = "import_format"
	keyParameters   = "parameters"
	keyProperties   = "properties"
)

// Field keys.
const (
	keyAPIName      = "api_name"
	keyType         = "type"
	keyItemType     = "item_type"
	keyDescription  = "description"
	keyRequired     = "required"
	keyOutputOnly   = "output_only"
	keyDeprecated   = "deprecated"
	keySensitive    = "sensitive"
	keyIgnoreRead   = "ignore_read"
	keyURLParamOnly = "url_param_only"
	keyMinVersion   = "min_version"
	keyPinned       = "pinned"
	keyEnumValues   = "enum_values"
	keyResource     = "resource"
	keyImports      = "imports"
)

// Decode parses a definition document.
func Decode(data []byte) (*fields.Resource, error) {
	var doc yaml.MapSlice
	if err := yaml.UnmarshalWithOptions(data, &doc, yaml.UseOrderedMap()); err != nil {
		return nil, errors.NewDefinitionParseError("", err.Error(), err)
	}
	r, err := decodeResource(doc)
	if err != nil {
		return nil, errors.NewDefinitionParseError("", err.Error(), err)
	}
	return r, nil
}

func decodeResource(doc yaml.MapSlice) (*fields.Resource, error) {
	r := &fields.Resource{}
	for _, item := range doc {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("non-string key %v", item.Key)
		}
		var err error
		switch key {
		case keyName:
			r.Name, err = asString(key, item.Value)
		case keyProduct:
			r.Product, err = asString(key, item.Value)
		case keyKind:
			r.APIKind, err = asString(key, item.Value)
		case keyBaseURL:
			r.BaseURL, err = asString(key, item.Value)
		case keySelfLink:
			r.SelfLink, err = asString(key, item.Value)
		case keyHasSelfLink:
			r.HasSelfLink, err = asFlag(key, item.Value)
		case keyCreateURL:
			r.CreateURL, err = asString(key, item.Value)
		case keyUpdateVerb:
			r.UpdateVerb, err = asString(key, item.Value)
		case keyUpdateMask:
			r.UpdateMask, err = asFlag(key, item.Value)
		case keyImportFormat:
			r.ImportFormat, err = asStrings(key, item.Value)
		case keyParameters:
			r.Parameters, err = decodeFields(fields.Path{key}, item.Value)
		case keyProperties:
			r.Properties, err = decodeFields(nil, item.Value)
		default:
			r.Annotations = append(r.Annotations, fields.Annotation{Key: key, Value: item.Value})
		}
		if err != nil {
			return nil, err
		}
	}
	return r, nil
}

func decodeFields(parent fields.Path, v any) ([]*fields.Field, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list of fields, got %T", pathOrRoot(parent), v)
	}
	out := make([]*fields.Field, 0, len(items))
	seen := make(map[string]bool, len(items))
	for i, item := range items {
		m, ok := item.(yaml.MapSlice)
		if !ok {
			return nil, fmt.Errorf("%s[%d]: expected a mapping, got %T", pathOrRoot(parent), i, item)
		}
		f, err := decodeField(parent, m)
		if err != nil {
			return nil, err
		}
		if f.Name == "" {
			return nil, fmt.Errorf("%s[%d]: field has no name", pathOrRoot(parent), i)
		}
		if seen[f.Key()] {
			return nil, fmt.Errorf("%s: duplicate field %q", pathOrRoot(parent), f.Key())
		}
		seen[f.Key()] = true
		out = append(out, f)
	}
	return out, nil
}

func decodeField(parent fields.Path, m yaml.MapSlice) (*fields.Field, error) {
	f := &fields.Field{}
	var children any
	for _, item := range m {
		key, ok := item.Key.(string)
		if !ok {
			return nil, fmt.Errorf("%s: non-string key %v", pathOrRoot(parent), item.Key)
		}
		var err error
		switch key {
		case keyName:
			f.Name, err = asString(key, item.Value)
		case keyAPIName:
			f.APIName, err = asString(key, item.Value)
		case keyType:
			var s string
			s, err = asString(key, item.Value)
			f.Kind = fields.Kind(s)
		case keyItemType:
			var s string
			s, err = asString(key, item.Value)
			f.ItemKind = fields.Kind(s)
		case keyDescription:
			f.Description, err = asString(key, item.Value)
		case keyRequired:
			f.Required, err = asFlag(key, item.Value)
		case keyOutputOnly:
			f.OutputOnly, err = asFlag(key, item.Value)
		case keyDeprecated:
			f.Deprecated, err = asFlag(key, item.Value)
		case keySensitive:
			f.Sensitive, err = asFlag(key, item.Value)
		case keyIgnoreRead:
			f.IgnoreRead, err = asFlag(key, item.Value)
		case keyURLParamOnly:
			f.URLParamOnly, err = asBool(key, item.Value)
		case keyMinVersion:
			f.MinVersion, err = asString(key, item.Value)
		case keyPinned:
			f.Pinned, err = asBool(key, item.Value)
		case keyEnumValues:
			var values []string
			values, err = asStrings(key, item.Value)
			f.EnumValues = fields.ManualList(values...)
		case keyResource:
			f.Resource, err = asString(key, item.Value)
		case keyImports:
			f.Imports, err = asString(key, item.Value)
		case keyProperties:
			children = item.Value
		default:
			f.Annotations = append(f.Annotations, fields.Annotation{Key: key, Value: item.Value})
		}
		if err != nil {
			return nil, fmt.Errorf("%s: %w", pathOrRoot(parent.Child(f.Name)), err)
		}
	}
	if children != nil {
		var err error
		if f.Children, err = decodeFields(parent.Child(f.Key()), children); err != nil {
			return nil, err
		}
	}
	return f, nil
}

func pathOrRoot(p fields.Path) string {
	if len(p) == 0 {
		return "properties"
	}
	return p.String()
}

func asString(key string, v any) (string, error) {
	switch s := v.(type) {
	case nil:
		return "", nil
	case string:
		return s, nil
	default:
		return "", fmt.Errorf("%s: expected a string, got %T", key, v)
	}
}

func asBool(key string, v any) (bool, error) {
	b, ok := v.(bool)
	if !ok {
		return false, fmt.Errorf("%s: expected a boolean, got %T", key, v)
	}
	return b, nil
}

func asFlag(key string, v any) (fields.Flag, error) {
	b, err := asBool(key, v)
	if err != nil {
		return fields.Flag{}, err
	}
	return fields.ManualFlag(b), nil
}

func asStrings(key string, v any) ([]string, error) {
	if v == nil {
		return nil, nil
	}
	items, ok := v.([]any)
	if !ok {
		return nil, fmt.Errorf("%s: expected a list, got %T", key, v)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		s, ok := item.(string)
		if !ok {
			s = fmt.Sprint(item)
		}
		out = append(out, s)
	}
	return out, nil
}
