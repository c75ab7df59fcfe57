package transport

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/agentstation/skaffolder/pkg/errors"
)

// TestNoAuth tests that NoAuth applies no authentication.
func TestNoAuth(t *testing.T) {
	auth := &NoAuth{}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	// Should not have any authentication headers
	if len(req.Header) != 0 {
		t.Errorf("Expected no headers, got %d", len(req.Header))
	}
}

// TestBearerAuth tests Bearer token authentication.
func TestBearerAuth(t *testing.T) {
	auth := &BearerAuth{Token: "test-token"}
	req := &http.Request{
		Header: make(http.Header),
	}

	auth.Apply(req)

	authHeader := req.Header.Get("Authorization")
	expected := "Bearer test-token"
	if authHeader != expected {
		t.Errorf("Expected Authorization header '%s', got '%s'", expected, authHeader)
	}
}

// TestQueryAuth tests API key query parameter authentication.
func TestQueryAuth(t *testing.T) {
	u, _ := url.Parse("https://www.googleapis.com/discovery/v1/apis?preferred=true")
	req := &http.Request{URL: u, Header: make(http.Header)}

	ForAPIKey("secret").Apply(req)

	if got := req.URL.Query().Get("key"); got != "secret" {
		t.Errorf("Expected key=secret, got %q", got)
	}
	if got := req.URL.Query().Get("preferred"); got != "true" {
		t.Errorf("Expected existing query to be kept, got %q", got)
	}
}

// TestForAPIKeyEmpty tests that an empty key means anonymous access.
func TestForAPIKeyEmpty(t *testing.T) {
	if _, ok := ForAPIKey("").(*NoAuth); !ok {
		t.Error("Expected NoAuth for an empty key")
	}
}

// TestClientGet tests headers and body handling against a test server.
func TestClientGet(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/json" {
			t.Errorf("Expected Accept header, got %q", r.Header.Get("Accept"))
		}
		if r.Header.Get("User-Agent") != "test-agent" {
			t.Errorf("Expected User-Agent header, got %q", r.Header.Get("User-Agent"))
		}
		if r.URL.Path == "/missing" {
			http.Error(w, "no such api", http.StatusNotFound)
			return
		}
		_, _ = w.Write([]byte(`{"items":[{"id":"compute:v1"}]}`))
	}))
	defer srv.Close()

	c := New(ForAPIKey("secret"), WithUserAgent("test-agent"))

	resp, err := c.Get(context.Background(), srv.URL+"/apis")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	var dir struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
	}
	if err := DecodeResponse(resp, "directory", &dir); err != nil {
		t.Fatalf("DecodeResponse() error = %v", err)
	}
	if len(dir.Items) != 1 || dir.Items[0].ID != "compute:v1" {
		t.Errorf("Unexpected directory %+v", dir)
	}

	resp, err = c.Get(context.Background(), srv.URL+"/missing")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	_, err = ReadBody(resp, "compute:v1")
	if !errors.IsFetch(err) || !errors.IsNotFound(err) {
		t.Fatalf("Expected a not found fetch error, got %v", err)
	}
	var fetchErr *errors.FetchError
	if !errors.As(err, &fetchErr) {
		t.Fatalf("Expected *errors.FetchError, got %T", err)
	}
	if fetchErr.StatusCode != http.StatusNotFound || fetchErr.Message != "no such api" {
		t.Errorf("Unexpected fetch error %+v", fetchErr)
	}
	if fetchErr.URL != srv.URL+"/missing" {
		t.Errorf("Expected the API key to be stripped from %q", fetchErr.URL)
	}
}

// TestClientGetCanceled tests that a canceled context aborts the request.
func TestClientGetCanceled(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := New(nil).Get(ctx, srv.URL); err == nil {
		t.Error("Expected an error for a canceled context")
	}
}
