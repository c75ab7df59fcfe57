package transport

import (
	"net/http"
)

// Authenticator applies authentication to HTTP requests.
type Authenticator interface {
	Apply(req *http.Request)
}

// NoAuth implements no authentication.
type NoAuth struct{}

// Apply implements the Authenticator interface for NoAuth.
func (a *NoAuth) Apply(_ *http.Request) {
	// No authentication applied
}

// BearerAuth implements Bearer token authentication.
type BearerAuth struct {
	Token string
}

// Apply implements the Authenticator interface for BearerAuth.
func (a *BearerAuth) Apply(req *http.Request) {
	if a.Token == "" {
		return
	}
	req.Header.Set("Authorization", "Bearer "+a.Token)
}

// QueryAuth implements API key as query parameter authentication.
type QueryAuth struct {
	Param string
	Key   string
}

// Apply implements the Authenticator interface for QueryAuth.
func (a *QueryAuth) Apply(req *http.Request) {
	if req.URL == nil || a.Key == "" {
		return
	}

	// Parse existing query parameters
	query := req.URL.Query()
	query.Set(a.Param, a.Key)
	req.URL.RawQuery = query.Encode()
}

// ForAPIKey returns the authenticator for a discovery API key. An empty key
// means anonymous access, which the public discovery service allows.
func ForAPIKey(key string) Authenticator {
	if key == "" {
		return &NoAuth{}
	}
	return &QueryAuth{Param: "key", Key: key}
}
