package loader_test

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder/internal/loader"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/logging"
)

const computeDoc = `{
  "kind": "discovery#restDescription",
  "name": "compute",
  "version": "v1",
  "schemas": {
    "BackendService": {
      "id": "BackendService",
      "type": "object",
      "properties": {
        "name": {"type": "string"},
        "timeoutSec": {"type": "integer", "format": "int32"}
      }
    }
  }
}`

type server struct {
	*httptest.Server
	hits sync.Map
}

func (s *server) count(path string) int64 {
	v, ok := s.hits.Load(path)
	if !ok {
		return 0
	}
	return v.(*atomic.Int64).Load()
}

func newServer(t *testing.T) *server {
	t.Helper()
	s := &server{}
	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		v, _ := s.hits.LoadOrStore(r.URL.Path, &atomic.Int64{})
		v.(*atomic.Int64).Add(1)

		switch r.URL.Path {
		case "/apis":
			fmt.Fprintf(w, `{"items": [
				{"id": "compute:v1", "name": "compute", "version": "v1", "discoveryRestUrl": "%[1]s/compute/v1/rest"},
				{"id": "compute:beta", "name": "compute", "version": "beta", "discoveryRestUrl": "%[1]s/compute/beta/rest"},
				{"id": "redis:v1", "name": "redis", "version": "v1", "discoveryRestUrl": "%[1]s/redis/v1/rest"},
				{"id": "broken:v1", "name": "broken", "version": "v1", "discoveryRestUrl": "%[1]s/broken/v1/rest"}
			]}`, s.URL)
		case "/compute/v1/rest":
			_, _ = w.Write([]byte(computeDoc))
		case "/compute/beta/rest":
			http.Error(w, "backend error", http.StatusServiceUnavailable)
		case "/broken/v1/rest":
			_, _ = w.Write([]byte(`{"schemas": [`))
		default:
			http.NotFound(w, r)
		}
	})
	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func TestLoad(t *testing.T) {
	srv := newServer(t)
	l := loader.New(loader.WithDirectoryURL(srv.URL + "/apis"))

	doc, err := l.Load(context.Background(), "compute:v1")
	require.NoError(t, err)
	assert.Equal(t, "compute:v1", doc.ID)
	schema, err := doc.Schema("BackendService")
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "timeoutSec"}, schema.Properties.Names())

	again, err := l.Load(context.Background(), "compute:v1")
	require.NoError(t, err)
	assert.Same(t, doc, again)
	assert.Equal(t, int64(1), srv.count("/apis"))
	assert.Equal(t, int64(1), srv.count("/compute/v1/rest"))
	assert.Positive(t, l.Stats().Hits)
}

func TestLoadConcurrent(t *testing.T) {
	logs := logging.CaptureLoggingForTest(t)
	srv := newServer(t)
	l := loader.New(loader.WithDirectoryURL(srv.URL + "/apis"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := l.Load(context.Background(), "compute:v1")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(1), srv.count("/apis"))
	assert.Equal(t, int64(1), srv.count("/compute/v1/rest"))

	docURL := fmt.Sprintf(`"url":"%s/compute/v1/rest"`, srv.URL)
	var fetched int
	for _, line := range logs.Lines() {
		if strings.Contains(line, "fetching discovery metadata") && strings.Contains(line, docURL) {
			fetched++
		}
	}
	assert.Equal(t, 1, fetched, "one logged download for eight callers")
}

func TestLoadErrors(t *testing.T) {
	srv := newServer(t)
	l := loader.New(loader.WithDirectoryURL(srv.URL + "/apis"))
	ctx := context.Background()

	t.Run("malformed id", func(t *testing.T) {
		_, err := l.Load(ctx, "compute")
		assert.True(t, errors.IsValidationError(err))
	})

	t.Run("unknown version lists available versions", func(t *testing.T) {
		_, err := l.Load(ctx, "compute:v2")
		require.Error(t, err)
		assert.True(t, errors.IsFetch(err))
		assert.Contains(t, err.Error(), "v1, beta")
	})

	t.Run("unknown api", func(t *testing.T) {
		_, err := l.Load(ctx, "nosuch:v1")
		assert.True(t, errors.IsFetch(err))
	})

	t.Run("server error", func(t *testing.T) {
		_, err := l.Load(ctx, "compute:beta")
		assert.True(t, errors.IsFetch(err))
		assert.True(t, errors.Is(err, errors.ErrUnavailable))
	})

	t.Run("missing document", func(t *testing.T) {
		_, err := l.Load(ctx, "redis:v1")
		assert.True(t, errors.IsFetch(err))
		assert.True(t, errors.IsNotFound(err))
	})

	t.Run("malformed document", func(t *testing.T) {
		_, err := l.Load(ctx, "broken:v1")
		assert.True(t, errors.IsFetch(err))
	})

	t.Run("directory unavailable", func(t *testing.T) {
		bad := loader.New(loader.WithDirectoryURL(srv.URL + "/missing"))
		_, err := bad.Load(ctx, "compute:v1")
		assert.True(t, errors.IsFetch(err))
	})

	t.Run("canceled", func(t *testing.T) {
		fresh := loader.New(loader.WithDirectoryURL(srv.URL + "/apis"))
		canceled, cancel := context.WithCancel(ctx)
		cancel()
		_, err := fresh.Load(canceled, "compute:v1")
		assert.True(t, errors.IsCanceled(err))
	})
}

func TestLoadCanceledCallerDoesNotAbortSharedFetch(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	var fetches atomic.Int64

	var srv *httptest.Server
	srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/apis" {
			fmt.Fprintf(w, `{"items": [{"id": "compute:v1", "name": "compute", "version": "v1", "discoveryRestUrl": "%s/doc"}]}`, srv.URL)
			return
		}
		if fetches.Add(1) == 1 {
			close(started)
		}
		select {
		case <-release:
		case <-r.Context().Done():
			return
		}
		_, _ = w.Write([]byte(computeDoc))
	}))
	t.Cleanup(srv.Close)

	l := loader.New(loader.WithDirectoryURL(srv.URL + "/apis"))

	first, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := l.Load(first, "compute:v1")
		firstErr <- err
	}()

	<-started
	cancel()
	assert.True(t, errors.IsCanceled(<-firstErr))

	second := make(chan error, 1)
	go func() {
		doc, err := l.Load(context.Background(), "compute:v1")
		if err == nil && doc.Name != "compute" {
			err = fmt.Errorf("unexpected document %q", doc.Name)
		}
		second <- err
	}()
	close(release)

	require.NoError(t, <-second)
	assert.Equal(t, int64(1), fetches.Load())
}
