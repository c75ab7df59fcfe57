package pins_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder/pkg/pins"
)

func TestMatchesPattern(t *testing.T) {
	tests := []struct {
		path, pattern string
		want          bool
	}{
		{"securitySettings", "securitySettings", true},
		{"iap.oauth2ClientId", "iap.*", true},
		{"iap.oauth2.clientId", "iap.*", true},
		{"iapConfig", "iap.*", false},
		{"cdnPolicy.cacheKeyPolicy", "*.cacheKeyPolicy", true},
		{"network", "net[", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, pins.MatchesPattern(tt.path, tt.pattern), "%s ~ %s", tt.path, tt.pattern)
	}
}

func TestParse(t *testing.T) {
	ps := pins.Parse("BackendService:securitySettings", "labels", "")
	require.Len(t, ps, 2)
	assert.Equal(t, pins.Pin{Resource: "BackendService", Path: "securitySettings"}, ps[0])
	assert.Equal(t, pins.Pin{Path: "labels"}, ps[1])
}

func TestMatch(t *testing.T) {
	ps := pins.Pins{
		{Path: "iap.*", Reason: "provider only"},
		{Path: "iap.enabled", Resource: "BackendService", Reason: "virtual"},
	}

	got := ps.Match("BackendService", "iap.enabled")
	require.NotNil(t, got)
	assert.Equal(t, "virtual", got.Reason, "longest pattern wins")

	got = ps.Match("UrlMap", "iap.enabled")
	require.NotNil(t, got)
	assert.Equal(t, "provider only", got.Reason)

	assert.False(t, ps.IsPinned("BackendService", "network"))
}
