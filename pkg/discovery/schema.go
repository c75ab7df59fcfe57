// Package discovery defines the raw Google API discovery document as
// served by the discovery service. Property and parameter order is kept
// as declared so that generated definitions follow the document.
package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Schema is a JSON schema node of a discovery document.
type Schema struct {
	ID                   string     `json:"id,omitempty"`
	Type                 string     `json:"type,omitempty"`
	Ref                  string     `json:"$ref,omitempty"`
	Description          string     `json:"description,omitempty"`
	Format               string     `json:"format,omitempty"`
	Enum                 []string   `json:"enum,omitempty"`
	EnumDescriptions     []string   `json:"enumDescriptions,omitempty"`
	EnumDeprecated       []bool     `json:"enumDeprecated,omitempty"`
	Default              string     `json:"default,omitempty"`
	Pattern              string     `json:"pattern,omitempty"`
	Location             string     `json:"location,omitempty"`
	Required             bool       `json:"required,omitempty"`
	Repeated             bool       `json:"repeated,omitempty"`
	ReadOnly             bool       `json:"readOnly,omitempty"`
	Deprecated           bool       `json:"deprecated,omitempty"`
	Items                *Schema    `json:"items,omitempty"`
	AdditionalProperties *Schema    `json:"additionalProperties,omitempty"`
	Properties           Properties `json:"properties,omitempty"`
}

// Property returns the named property schema.
func (s *Schema) Property(name string) *Schema {
	return s.Properties.Get(name)
}

// Kind returns the default of the "kind" property, e.g. "compute#backendService".
func (s *Schema) Kind() string {
	if k := s.Property("kind"); k != nil {
		return k.Default
	}
	return ""
}

// Property is one named entry of an ordered property list.
type Property struct {
	Name   string
	Schema *Schema
}

// Properties is an ordered JSON object of schemas.
type Properties []Property

// Get returns the schema stored under name.
func (p Properties) Get(name string) *Schema {
	for _, prop := range p {
		if prop.Name == name {
			return prop.Schema
		}
	}
	return nil
}

// Has reports whether name is declared.
func (p Properties) Has(name string) bool {
	return p.Get(name) != nil
}

// Names returns the property names in declaration order.
func (p Properties) Names() []string {
	names := make([]string, len(p))
	for i, prop := range p {
		names[i] = prop.Name
	}
	return names
}

// UnmarshalJSON decodes an object while keeping key order.
func (p *Properties) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*p = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("properties: expected object, got %v", tok)
	}

	var out Properties
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		name, ok := tok.(string)
		if !ok {
			return fmt.Errorf("properties: expected key, got %v", tok)
		}
		var s Schema
		if err := dec.Decode(&s); err != nil {
			return fmt.Errorf("properties: %s: %w", name, err)
		}
		out = append(out, Property{Name: name, Schema: &s})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}
	*p = out
	return nil
}

// MarshalJSON encodes the properties as an object in declaration order.
func (p Properties) MarshalJSON() ([]byte, error) {
	if p == nil {
		return []byte("null"), nil
	}
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, prop := range p {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(prop.Name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(prop.Schema)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
