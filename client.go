// Package skaffolder keeps hand-maintained cloud resource definitions in
// sync with the Google API discovery service.
//
// A Client fetches the GA and beta discovery documents of a product,
// normalizes the schema of a resource into field trees and merges them into
// the existing definition. Fields the APIs add are added, fields no API
// declares any longer are removed unless pinned, and every attribute a
// person wrote on a surviving field is kept.
//
// Example usage:
//
//	client, err := skaffolder.New(skaffolder.WithConcurrency(8))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Merge one definition file and write it back
//	outcome, err := client.Update(ctx, "compute/BackendService.yaml",
//	    skaffolder.WithOutput("compute/BackendService.yaml"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(outcome.Result.Summary())
//
//	// Generate or refresh several resources of a product
//	outcomes, err := client.Generate(ctx, "compute", []string{"backendServices", "instances"})
package skaffolder

import (
	"github.com/agentstation/skaffolder/internal/cache"
	"github.com/agentstation/skaffolder/internal/loader"
	"github.com/agentstation/skaffolder/internal/transport"
	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/merge"
)

// Compile-time interface check to ensure proper implementation.
var _ Client = (*client)(nil)

// Client reconciles resource definitions with discovery metadata.
type Client interface {

	// Updater merges a single definition file
	Updater

	// Generator generates or refreshes resources of a product directory
	Generator

	// Hooks provides access to event callback registration
	Hooks
}

// Outcome is the result of reconciling one resource.
type Outcome struct {
	// Resource is the type name, e.g. "BackendService"
	Resource string

	// Path is the file the definition was written to, if any
	Path string

	// Result is the merge result with the change log
	Result *merge.Result

	// Output is the encoded merged definition
	Output []byte

	// Written reports whether Output was persisted to Path
	Written bool

	// Declined reports whether the confirm function refused the write
	Declined bool
}

// client is the internal implementation of the Client interface.
type client struct {
	options *options
	loader  *loader.Loader
	merger  merge.Merger
	hooks   *hooks
}

// New creates a new Client instance with the given options.
func New(opts ...Option) (Client, error) {
	o := defaults().apply(opts...)

	merger, err := merge.New(
		merge.WithPins(o.pins),
		merge.WithProvenance(o.provenance),
	)
	if err != nil {
		return nil, errors.WrapResource("create", "merger", err)
	}

	httpClient := transport.New(transport.ForAPIKey(o.apiKey), transport.WithTimeout(o.httpTimeout))
	l := loader.New(
		loader.WithClient(httpClient),
		loader.WithCache(cache.New(o.cacheTTL, constants.CacheCleanupInterval)),
		loader.WithDirectoryURL(o.discoveryURL),
		loader.WithTimeout(o.httpTimeout),
	)

	return &client{
		options: o,
		loader:  l,
		merger:  merger,
		hooks:   newHooks(),
	}, nil
}

// OnFieldAdded registers a callback for added fields
func (c *client) OnFieldAdded(fn FieldAddedHook) { c.hooks.OnFieldAdded(fn) }

// OnFieldRemoved registers a callback for removed fields
func (c *client) OnFieldRemoved(fn FieldRemovedHook) { c.hooks.OnFieldRemoved(fn) }

// OnWarning registers a callback for merge warnings
func (c *client) OnWarning(fn WarningHook) { c.hooks.OnWarning(fn) }
