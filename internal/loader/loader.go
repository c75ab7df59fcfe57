// Package loader fetches discovery documents by API id.
//
// The directory and every document are cached by URL for the lifetime of
// the loader, and concurrent requests for the same URL share one fetch. A
// shared fetch is not tied to any single caller: a caller whose context ends
// returns early while the others keep waiting for the result.
package loader

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/agentstation/skaffolder/internal/cache"
	"github.com/agentstation/skaffolder/internal/transport"
	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/discovery"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/logging"
)

// Loader fetches discovery documents.
type Loader struct {
	client       *transport.Client
	cache        *cache.Cache
	group        singleflight.Group
	directoryURL string
	timeout      time.Duration
}

// Option configures a Loader.
type Option func(*Loader)

// WithClient sets the HTTP client.
func WithClient(c *transport.Client) Option {
	return func(l *Loader) {
		if c != nil {
			l.client = c
		}
	}
}

// WithCache sets the document cache.
func WithCache(c *cache.Cache) Option {
	return func(l *Loader) {
		if c != nil {
			l.cache = c
		}
	}
}

// WithDirectoryURL overrides the discovery directory URL.
func WithDirectoryURL(url string) Option {
	return func(l *Loader) {
		if url != "" {
			l.directoryURL = url
		}
	}
}

// WithTimeout bounds a single shared fetch.
func WithTimeout(d time.Duration) Option {
	return func(l *Loader) {
		if d > 0 {
			l.timeout = d
		}
	}
}

// New creates a loader for the public discovery service.
func New(opts ...Option) *Loader {
	l := &Loader{
		client:       transport.New(nil),
		cache:        cache.New(constants.CacheTTL, constants.CacheCleanupInterval),
		directoryURL: constants.DiscoveryURL,
		timeout:      constants.DefaultHTTPTimeout,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Directory returns the discovery directory.
func (l *Loader) Directory(ctx context.Context) (*discovery.Directory, error) {
	v, err := l.fetch(ctx, "directory", l.directoryURL, func(body []byte) (any, error) {
		return discovery.ParseDirectory(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*discovery.Directory), nil
}

// Load returns the discovery document of apiID, e.g. "compute:v1".
// Unknown ids fail with a *errors.FetchError listing the known versions.
func (l *Loader) Load(ctx context.Context, apiID string) (*discovery.Document, error) {
	if _, _, err := discovery.SplitID(apiID); err != nil {
		return nil, err
	}

	dir, err := l.Directory(ctx)
	if err != nil {
		return nil, err
	}
	item, ok := dir.Lookup(apiID)
	if !ok {
		msg := "unknown api"
		if versions := dir.Versions(apiID); len(versions) > 0 {
			msg = fmt.Sprintf("unknown api version, available versions: %s", strings.Join(versions, ", "))
		}
		return nil, &errors.FetchError{API: apiID, URL: l.directoryURL, Message: msg}
	}

	v, err := l.fetch(ctx, apiID, item.DiscoveryRestURL, func(body []byte) (any, error) {
		return discovery.Parse(body)
	})
	if err != nil {
		return nil, err
	}
	return v.(*discovery.Document), nil
}

// fetch returns the cached value for url or downloads and decodes it.
func (l *Loader) fetch(ctx context.Context, api, url string, decode func([]byte) (any, error)) (any, error) {
	if v, ok := l.cache.Get(url); ok {
		return v, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, canceled(api, err)
	}

	ch := l.group.DoChan(url, func() (any, error) {
		if v, ok := l.cache.Get(url); ok {
			return v, nil
		}

		// The download outlives the caller that started it.
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), l.timeout)
		defer cancel()

		logging.FromContext(fetchCtx).Debug().
			Str("api", api).
			Str("url", url).
			Msg("fetching discovery metadata")

		resp, err := l.client.Get(fetchCtx, url)
		if err != nil {
			return nil, errors.WrapFetch(api, url, err)
		}
		body, err := transport.ReadBody(resp, api)
		if err != nil {
			return nil, err
		}
		v, err := decode(body)
		if err != nil {
			return nil, errors.WrapFetch(api, url, fmt.Errorf("decoding discovery metadata: %w", err))
		}
		l.cache.Set(url, v)
		return v, nil
	})

	select {
	case res := <-ch:
		if res.Shared {
			logging.FromContext(ctx).Debug().Str("url", url).Msg("shared in-flight fetch")
		}
		return res.Val, res.Err
	case <-ctx.Done():
		return nil, canceled(api, ctx.Err())
	}
}

func canceled(api string, err error) error {
	return fmt.Errorf("fetch %s: %w: %w", api, errors.ErrCanceled, err)
}

// Stats returns the cache statistics of the loader.
func (l *Loader) Stats() cache.Stats {
	return l.cache.GetStats()
}
