// Package testhelper serves canned discovery metadata to tests.
package testhelper

import (
	_ "embed"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"

	"github.com/agentstation/skaffolder/pkg/constants"
)

var (
	//go:embed testdata/compute_v1.json
	computeV1 []byte

	//go:embed testdata/compute_beta.json
	computeBeta []byte
)

// ComputeProduct is a product file whose GA and beta versions resolve to
// the documents served by DiscoveryServer.
const ComputeProduct = `name: Compute
versions:
  - name: ga
    base_url: https://compute.googleapis.com/compute/v1/
  - name: beta
    base_url: https://compute.googleapis.com/compute/beta/
`

// DiscoveryServer is a discovery service listing compute:v1 and
// compute:beta. Both documents declare a BackendService schema served by
// the backendServices collection; beta adds securitySettings.
type DiscoveryServer struct {
	*httptest.Server

	// Fetches counts document downloads, directory requests excluded.
	Fetches atomic.Int64
}

// NewDiscoveryServer starts a DiscoveryServer that is closed with the test.
func NewDiscoveryServer(t testing.TB) *DiscoveryServer {
	t.Helper()
	s := &DiscoveryServer{}
	docs := map[string][]byte{
		"/compute/v1/rest":   computeV1,
		"/compute/beta/rest": computeBeta,
	}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/apis" {
			fmt.Fprintf(w, `{"items": [
				{"id": "compute:v1", "name": "compute", "version": "v1", "discoveryRestUrl": "%[1]s/compute/v1/rest"},
				{"id": "compute:beta", "name": "compute", "version": "beta", "discoveryRestUrl": "%[1]s/compute/beta/rest"}
			]}`, s.URL)
			return
		}
		doc, ok := docs[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		s.Fetches.Add(1)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(doc)
	}))
	t.Cleanup(s.Close)
	return s
}

// DirectoryURL returns the URL of the directory listing.
func (s *DiscoveryServer) DirectoryURL() string {
	return s.URL + "/apis"
}

// ProductDir creates a temporary product directory holding ComputeProduct.
func ProductDir(t testing.TB) string {
	t.Helper()
	dir := t.TempDir()
	path := filepath.Join(dir, constants.ProductFile)
	if err := os.WriteFile(path, []byte(ComputeProduct), constants.FilePermissions); err != nil {
		t.Fatalf("writing product file: %v", err)
	}
	return dir
}

// WriteFile writes data to name inside dir and returns the path.
func WriteFile(t testing.TB, dir, name, data string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(data), constants.FilePermissions); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}
