package skaffolder

import (
	"context"
	"time"

	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/pins"
)

// ConfirmFunc is asked before a merged definition that drops fields is
// written. Returning false skips the write.
type ConfirmFunc func(ctx context.Context, outcome *Outcome) (bool, error)

// options holds the configuration of a client.
type options struct {
	discoveryURL string
	apiKey       string
	httpTimeout  time.Duration
	cacheTTL     time.Duration
	concurrency  int
	maxDepth     int
	pins         pins.Pins
	provenance   bool
	confirm      ConfirmFunc
}

// defaults returns options with default values.
func defaults() *options {
	return &options{
		discoveryURL: constants.DiscoveryURL,
		httpTimeout:  constants.DefaultHTTPTimeout,
		cacheTTL:     constants.CacheTTL,
		concurrency:  constants.MaxConcurrentResources,
		maxDepth:     constants.MaxSchemaDepth,
	}
}

// apply applies the given options.
func (o *options) apply(opts ...Option) *options {
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Option is a function that configures a Client.
type Option func(*options)

// WithDiscoveryURL overrides the discovery directory URL.
func WithDiscoveryURL(url string) Option {
	return func(o *options) {
		if url != "" {
			o.discoveryURL = url
		}
	}
}

// WithAPIKey sends key with every discovery request.
func WithAPIKey(key string) Option {
	return func(o *options) {
		o.apiKey = key
	}
}

// WithHTTPTimeout sets the timeout of discovery requests.
func WithHTTPTimeout(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.httpTimeout = d
		}
	}
}

// WithCacheTTL sets how long fetched discovery documents are reused.
func WithCacheTTL(d time.Duration) Option {
	return func(o *options) {
		if d > 0 {
			o.cacheTTL = d
		}
	}
}

// WithConcurrency bounds the number of resources generated in parallel.
func WithConcurrency(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMaxDepth bounds how deep nested references are expanded.
func WithMaxDepth(depth int) Option {
	return func(o *options) {
		if depth > 0 {
			o.maxDepth = depth
		}
	}
}

// WithPins keeps definition fields matching p even when no API declares them.
func WithPins(p pins.Pins) Option {
	return func(o *options) {
		o.pins = append(o.pins, p...)
	}
}

// WithProvenance records field-level provenance on every merge result.
func WithProvenance(enabled bool) Option {
	return func(o *options) {
		o.provenance = enabled
	}
}

// WithConfirm sets the function asked before writing a definition that
// loses fields.
func WithConfirm(fn ConfirmFunc) Option {
	return func(o *options) {
		o.confirm = fn
	}
}

// runOptions configures one Update or Generate call.
type runOptions struct {
	output string
	dryRun bool
}

// RunOption configures a single Update or Generate call.
type RunOption func(*runOptions)

// WithOutput writes the merged definition of Update to path.
func WithOutput(path string) RunOption {
	return func(o *runOptions) {
		o.output = path
	}
}

// WithDryRun merges without writing anything.
func WithDryRun(enabled bool) RunOption {
	return func(o *runOptions) {
		o.dryRun = enabled
	}
}

func newRunOptions(opts ...RunOption) *runOptions {
	o := &runOptions{}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
