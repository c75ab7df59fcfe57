package definition

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/goccy/go-yaml"

	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/errors"
)

var apiURLPattern = regexp.MustCompile(`^https://([^.]*)\.googleapis\.com/.*$`)

// Product is the product file shared by the definitions of one directory.
type Product struct {
	Name        string    `yaml:"name"`
	DisplayName string    `yaml:"display_name,omitempty"`
	Versions    []Version `yaml:"versions"`
}

// Version is one API surface of a product.
type Version struct {
	Name    string `yaml:"name"` // "ga" or "beta"
	BaseURL string `yaml:"base_url"`
}

// APIVersion maps a product version to its discovery API id.
type APIVersion struct {
	Version string
	APIID   string
}

// ReadProduct loads the product file of a product directory.
func ReadProduct(dir string) (*Product, error) {
	path := filepath.Join(dir, constants.ProductFile)
	data, err := os.ReadFile(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NewNotFoundError("product", path)
		}
		return nil, errors.NewDefinitionParseError(path, "cannot read file", err)
	}
	var p Product
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, errors.NewDefinitionParseError(path, err.Error(), err)
	}
	return &p, nil
}

// Version returns the version with the given name.
func (p *Product) Version(name string) (Version, bool) {
	for _, v := range p.Versions {
		if v.Name == name {
			return v, true
		}
	}
	return Version{}, false
}

// APIID returns the discovery id, e.g. "compute:v1", for a version name.
// It returns "" when the product does not have that version.
func (p *Product) APIID(version string) (string, error) {
	v, ok := p.Version(version)
	if !ok {
		return "", nil
	}
	match := apiURLPattern.FindStringSubmatch(v.BaseURL)
	if match == nil {
		return "", &errors.ValidationError{
			Field:   "base_url",
			Value:   v.BaseURL,
			Message: "does not match the expected google cloud platform API url",
		}
	}
	segments := strings.Split(strings.Trim(v.BaseURL, "/"), "/")
	return fmt.Sprintf("%s:%s", match[1], segments[len(segments)-1]), nil
}

// APIIDs returns the API ids of the GA and beta versions, in that order,
// skipping versions the product does not declare.
func (p *Product) APIIDs() ([]APIVersion, error) {
	var out []APIVersion
	for _, name := range []string{constants.VersionGA, constants.VersionBeta} {
		id, err := p.APIID(name)
		if err != nil {
			return nil, err
		}
		if id != "" {
			out = append(out, APIVersion{Version: name, APIID: id})
		}
	}
	return out, nil
}
