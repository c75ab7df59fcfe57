package skaffolder

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/definition"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/logging"
	"github.com/agentstation/skaffolder/pkg/normalize"
)

// Generator generates or refreshes resources of a product directory.
type Generator interface {
	// Generate reconciles every named collection, e.g. "backendServices",
	// with its definition file <productDir>/<Type>.yaml, creating the file
	// when it does not exist. Resources are processed in parallel; a
	// failing resource does not stop the others and is reported in a
	// *errors.BatchError. Outcomes keep the order of resources and omit
	// failed ones.
	Generate(ctx context.Context, productDir string, resources []string, opts ...RunOption) ([]*Outcome, error)
}

// Generate reconciles every named collection with its definition file.
func (c *client) Generate(ctx context.Context, productDir string, resources []string, opts ...RunOption) ([]*Outcome, error) {
	if len(resources) == 0 {
		return nil, &errors.ValidationError{Field: "resources", Message: "at least one resource is required"}
	}
	o := newRunOptions(opts...)
	ctx = logging.WithOperation(ctx, "generate")

	product, err := definition.ReadProduct(productDir)
	if err != nil {
		return nil, err
	}

	results := make([]*Outcome, len(resources))
	failures := make([]error, len(resources))

	g := new(errgroup.Group)
	g.SetLimit(c.options.concurrency)
	for i, name := range resources {
		i, name := i, name
		g.Go(func() error {
			outcome, err := c.generate(ctx, product, productDir, name, o)
			if err != nil {
				failures[i] = errors.NewResourceError("generate", name, err)
				logging.FromContext(ctx).Error().Err(err).Str("resource", name).Msg("generation failed")
				return nil
			}
			results[i] = outcome
			return nil
		})
	}
	_ = g.Wait()

	var outcomes []*Outcome
	var failed []error
	for i := range resources {
		if failures[i] != nil {
			failed = append(failed, failures[i])
			continue
		}
		outcomes = append(outcomes, results[i])
	}
	if len(failed) > 0 {
		return outcomes, &errors.BatchError{Errors: failed}
	}
	return outcomes, nil
}

// generate reconciles one collection of the product.
func (c *client) generate(ctx context.Context, product *definition.Product, dir, collection string, o *runOptions) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}

	typeName := normalize.TypeName(collection)
	path := filepath.Join(dir, typeName+constants.DefinitionExt)
	ctx = logging.WithResource(ctx, typeName)

	def, err := definition.Read(path)
	switch {
	case errors.IsNotFound(err):
		logging.FromContext(ctx).Debug().Str("path", path).Msg("no existing definition, starting from an empty one")
		def = fields.NewResource(typeName)
	case err != nil:
		return nil, err
	case def.Name == "":
		def.Name = typeName
	}

	outcome, err := c.reconcile(ctx, product, def, collection)
	if err != nil {
		return nil, err
	}
	if o.dryRun {
		outcome.Path = path
		return outcome, nil
	}
	if err := c.persist(ctx, outcome, path); err != nil {
		return nil, err
	}
	return outcome, nil
}
