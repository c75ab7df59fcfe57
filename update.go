package skaffolder

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/agentstation/skaffolder/pkg/definition"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/logging"
)

// Updater merges a single definition file.
type Updater interface {
	// Update merges the definition in resourceFile with the discovery
	// schemas of its product. The product file is read from the directory
	// of resourceFile. Nothing is written unless WithOutput is given.
	Update(ctx context.Context, resourceFile string, opts ...RunOption) (*Outcome, error)
}

// Update merges the definition in resourceFile with the discovery schemas of its product.
func (c *client) Update(ctx context.Context, resourceFile string, opts ...RunOption) (*Outcome, error) {
	o := newRunOptions(opts...)
	ctx = logging.WithOperation(ctx, "update")

	def, err := definition.Read(resourceFile)
	if err != nil {
		return nil, err
	}
	if def.Name == "" {
		return nil, &errors.ValidationError{Field: "name", Value: resourceFile, Message: "definition has no name"}
	}
	collection := Collection(def.BaseURL)
	if collection == "" {
		return nil, &errors.ValidationError{Field: "base_url", Value: resourceFile, Message: "definition has no base_url to derive the resource collection from"}
	}

	product, err := definition.ReadProduct(filepath.Dir(resourceFile))
	if err != nil {
		return nil, err
	}

	ctx = logging.WithResource(ctx, def.Name)
	outcome, err := c.reconcile(ctx, product, def, collection)
	if err != nil {
		return nil, errors.NewResourceError("update", def.Name, err)
	}

	if o.output != "" && !o.dryRun {
		if err := c.persist(ctx, outcome, o.output); err != nil {
			return outcome, errors.NewResourceError("update", def.Name, err)
		}
	}
	return outcome, nil
}

// Collection returns the REST collection a base URL addresses, its last
// path segment: "projects/{{project}}/global/backendServices" gives
// "backendServices".
func Collection(baseURL string) string {
	base, _, _ := strings.Cut(baseURL, "?")
	base = strings.TrimRight(base, "/")
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if strings.Contains(base, "{{") {
		return ""
	}
	return base
}
