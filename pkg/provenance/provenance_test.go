package provenance_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/provenance"
)

func TestTracker(t *testing.T) {
	tr := provenance.NewTracker(true)
	tr.Track("BackendService", "network", provenance.Provenance{Source: fields.OriginGA, Reason: "declared by schema"})
	tr.Track("BackendService", "network", provenance.Provenance{Source: fields.OriginBeta, Reason: "declared by schema"})
	tr.Track("BackendService", "iap", provenance.Provenance{Source: fields.OriginManual, Reason: "pinned"})
	tr.Track("UrlMap", "hostRules", provenance.Provenance{Source: fields.OriginGA})

	got := tr.FindByField("BackendService", "network")
	require.Len(t, got, 2)
	assert.Equal(t, "network", got[0].Path)
	assert.False(t, got[0].Timestamp.IsZero())

	assert.Equal(t, fields.OriginGA|fields.OriginBeta, tr.Origin("BackendService", "network"))
	assert.True(t, tr.Origin("BackendService", "missing").IsEmpty())

	byResource := tr.FindByResource("BackendService")
	assert.Len(t, byResource, 2)

	m := tr.Map()
	assert.Len(t, m, 3)
	assert.Contains(t, m.String(), "  iap: manual (pinned)")

	tr.Clear()
	assert.Empty(t, tr.Map())
}

func TestDisabledTracker(t *testing.T) {
	tr := provenance.NewTracker(false)
	tr.Track("X", "a", provenance.Provenance{Source: fields.OriginGA})
	assert.Nil(t, tr.FindByField("X", "a"))
	assert.Nil(t, tr.Map())
	assert.True(t, tr.Origin("X", "a").IsEmpty())
}
