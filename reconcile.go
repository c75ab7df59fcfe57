package skaffolder

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/agentstation/skaffolder/pkg/changelog"
	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/definition"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/logging"
	"github.com/agentstation/skaffolder/pkg/normalize"
)

// schemaTrees fetches and normalizes the GA and beta trees of a resource.
// A version the product does not declare yields a nil tree.
func (c *client) schemaTrees(ctx context.Context, product *definition.Product, collection, typeName string) (ga, beta *fields.Resource, err error) {
	versions, err := product.APIIDs()
	if err != nil {
		return nil, nil, err
	}
	if len(versions) == 0 {
		return nil, nil, &errors.ValidationError{
			Field:   "versions",
			Value:   product.Name,
			Message: "product declares neither a ga nor a beta version",
		}
	}

	trees := make([]*fields.Resource, len(versions))
	g, gctx := errgroup.WithContext(ctx)
	for i, v := range versions {
		i, v := i, v
		g.Go(func() error {
			doc, err := c.loader.Load(gctx, v.APIID)
			if err != nil {
				return err
			}
			vctx := logging.WithVersion(gctx, v.APIID, v.Version)
			n := normalize.New(doc, normalize.WithMaxDepth(c.options.maxDepth))
			tree, err := n.Resource(vctx, collection, typeName)
			if err != nil {
				return err
			}
			for _, w := range n.Warnings() {
				logging.FromContext(vctx).Warn().
					Str("path", w.Path).
					Str("ref", w.Ref).
					Msg(w.Reason)
			}
			trees[i] = tree
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	for i, v := range versions {
		switch v.Version {
		case constants.VersionGA:
			ga = trees[i]
		case constants.VersionBeta:
			beta = trees[i]
		}
	}
	return ga, beta, nil
}

// reconcile merges def with the schema trees of its resource.
func (c *client) reconcile(ctx context.Context, product *definition.Product, def *fields.Resource, collection string) (*Outcome, error) {
	ga, beta, err := c.schemaTrees(ctx, product, collection, def.Name)
	if err != nil {
		return nil, err
	}

	result, err := c.merger.Merge(ctx, def, ga, beta)
	if err != nil {
		return nil, err
	}

	output, err := definition.Encode(result.Resource)
	if err != nil {
		return nil, errors.WrapResource("encode", def.Name, err)
	}

	c.hooks.trigger(result.Log)
	return &Outcome{Resource: def.Name, Result: result, Output: output}, nil
}

// persist writes the outcome to path, asking for confirmation first when
// the merge removed fields.
func (c *client) persist(ctx context.Context, outcome *Outcome, path string) error {
	outcome.Path = path

	if c.options.confirm != nil && len(outcome.Result.Log.Filter(changelog.Removed)) > 0 {
		ok, err := c.options.confirm(ctx, outcome)
		if err != nil {
			return err
		}
		if !ok {
			outcome.Declined = true
			logging.FromContext(ctx).Info().Str("path", path).Msg("write declined")
			return nil
		}
	}

	// no write starts after cancellation
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", errors.ErrCanceled, err)
	}
	if err := definition.WriteFile(path, outcome.Output); err != nil {
		return err
	}
	outcome.Written = true

	logging.FromContext(ctx).Info().
		Str("path", path).
		Int("added", outcome.Result.Metadata.Stats.Added).
		Int("removed", outcome.Result.Metadata.Stats.Removed).
		Msg("definition written")
	return nil
}
