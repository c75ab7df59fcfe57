package discovery

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"

	"github.com/agentstation/skaffolder/pkg/errors"
)

// Document is a discovery REST description.
type Document struct {
	ID          string               `json:"id"`
	Name        string               `json:"name"`
	Version     string               `json:"version"`
	Title       string               `json:"title,omitempty"`
	RootURL     string               `json:"rootUrl,omitempty"`
	ServicePath string               `json:"servicePath,omitempty"`
	BaseURL     string               `json:"baseUrl,omitempty"`
	Schemas     map[string]*Schema   `json:"schemas"`
	Resources   map[string]*Resource `json:"resources,omitempty"`
}

// Resource is a REST collection with its methods and nested collections.
type Resource struct {
	Methods   map[string]*Method   `json:"methods,omitempty"`
	Resources map[string]*Resource `json:"resources,omitempty"`
}

// Method is one REST method of a collection.
type Method struct {
	ID             string     `json:"id,omitempty"`
	Path           string     `json:"path,omitempty"`
	FlatPath       string     `json:"flatPath,omitempty"`
	HTTPMethod     string     `json:"httpMethod,omitempty"`
	Description    string     `json:"description,omitempty"`
	Parameters     Properties `json:"parameters,omitempty"`
	ParameterOrder []string   `json:"parameterOrder,omitempty"`
	Request        *Schema    `json:"request,omitempty"`
	Response       *Schema    `json:"response,omitempty"`
}

// Parse decodes a discovery document.
func Parse(data []byte) (*Document, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	if doc.ID == "" && doc.Name != "" {
		doc.ID = doc.Name + ":" + doc.Version
	}
	return &doc, nil
}

// Schema returns the named schema or a SchemaError.
func (d *Document) Schema(typeName string) (*Schema, error) {
	s, ok := d.Schemas[typeName]
	if !ok || s == nil {
		return nil, errors.NewSchemaError(typeName, "", fmt.Sprintf("no type %s defined in schema for api %s", typeName, d.ID))
	}
	return s, nil
}

// collections returns the places a collection may live, in lookup order:
// organization level, project/location level, then top level.
func (d *Document) collections() []map[string]*Resource {
	var out []map[string]*Resource
	if org := d.Resources["organizations"]; org != nil {
		out = append(out, org.Resources)
	}
	if projects := d.Resources["projects"]; projects != nil {
		if locations := projects.Resources["locations"]; locations != nil {
			out = append(out, locations.Resources)
		}
	}
	return append(out, d.Resources)
}

// FindResource locates a collection by name.
func (d *Document) FindResource(name string) (*Resource, error) {
	seen := map[string]bool{}
	for _, level := range d.collections() {
		if r, ok := level[name]; ok && r != nil {
			return r, nil
		}
		for k := range level {
			seen[k] = true
		}
	}
	names := make([]string, 0, len(seen))
	for k := range seen {
		names = append(names, k)
	}
	slices.Sort(names)
	return nil, errors.NewSchemaError(name, "", fmt.Sprintf("resource %s not found, available resources %s", name, strings.Join(names, ", ")))
}

// CreateMethod returns the insert method, or create when there is no insert.
func (r *Resource) CreateMethod() (*Method, bool) {
	if m, ok := r.Methods["insert"]; ok {
		return m, true
	}
	m, ok := r.Methods["create"]
	return m, ok
}

// Method returns the named method.
func (r *Resource) Method(name string) *Method {
	return r.Methods[name]
}

// Directory is the discovery service listing of APIs.
type Directory struct {
	Items []DirectoryItem `json:"items"`
}

// DirectoryItem is one API version in the directory.
type DirectoryItem struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Version          string `json:"version"`
	Title            string `json:"title,omitempty"`
	DiscoveryRestURL string `json:"discoveryRestUrl"`
	Preferred        bool   `json:"preferred,omitempty"`
}

// ParseDirectory decodes a discovery directory listing.
func ParseDirectory(data []byte) (*Directory, error) {
	var dir Directory
	if err := json.Unmarshal(data, &dir); err != nil {
		return nil, err
	}
	return &dir, nil
}

// Lookup returns the item with the given api id.
func (d *Directory) Lookup(apiID string) (DirectoryItem, bool) {
	for _, item := range d.Items {
		if item.ID == apiID {
			return item, true
		}
	}
	return DirectoryItem{}, false
}

// Versions returns every version listed for the api named in apiID.
func (d *Directory) Versions(apiID string) []string {
	name, _, _ := strings.Cut(apiID, ":")
	var out []string
	for _, item := range d.Items {
		if n, v, ok := strings.Cut(item.ID, ":"); ok && n == name {
			out = append(out, v)
		}
	}
	return out
}

// SplitID splits an api id into name and version.
func SplitID(apiID string) (name, version string, err error) {
	name, version, ok := strings.Cut(apiID, ":")
	if !ok || name == "" || version == "" {
		return "", "", errors.NewValidationError("api", apiID, "expected <name>:<version>")
	}
	return name, version, nil
}
