package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/fields"
	"github.com/agentstation/skaffolder/pkg/normalize"
)

func TestTypeName(t *testing.T) {
	assert.Equal(t, "BackendService", normalize.TypeName("backendServices"))
	assert.Equal(t, "Instance", normalize.TypeName("instances"))
	assert.Equal(t, "Address", normalize.TypeName("addresses"))
}

func TestParamName(t *testing.T) {
	assert.Equal(t, "project", normalize.ParamName("projectsId"))
	assert.Equal(t, "location", normalize.ParamName("locationsId"))
	assert.Equal(t, "backend_service", normalize.ParamName("backendServicesId"))
	assert.Equal(t, "zone", normalize.ParamName("zone"))
}

func TestBaseURL(t *testing.T) {
	assert.Equal(t,
		"projects/{{project}}/locations/{{location}}/instances",
		normalize.BaseURL("v1/projects/{projectsId}/locations/{locationsId}/instances", "v1"))
	assert.Equal(t,
		"projects/{{project}}/global/backendServices",
		normalize.BaseURL("projects/{project}/global/backendServices", "v1"))
}

func TestResourceCompute(t *testing.T) {
	ctx, _ := testContext(t)
	n := normalize.New(loadDoc(t, "compute.json"))

	res, err := n.Resource(ctx, "backendServices", "BackendService")
	require.NoError(t, err)

	assert.Equal(t, "BackendService", res.Name)
	assert.Equal(t, "compute", res.Product)
	assert.Equal(t, "compute#backendService", res.APIKind)
	assert.Equal(t, "projects/{{project}}/global/backendServices", res.BaseURL)
	assert.True(t, res.HasSelfLink.IsTrue())
	assert.Empty(t, res.SelfLink)
	assert.Empty(t, res.UpdateVerb)
	assert.Equal(t, []string{"projects/{{project}}/global/backendServices/{{name}}"}, res.ImportFormat)
	assert.Empty(t, res.CreateURL)

	require.Len(t, res.Parameters, 1)
	assert.Equal(t, "project", res.Parameters[0].Name)
	assert.True(t, res.Parameters[0].Required.IsTrue())
	assert.NotNil(t, fields.Find(res.Properties, "name"), "name stays a property when it is not a URL parameter")
}

func TestResourceLocations(t *testing.T) {
	ctx, _ := testContext(t)
	n := normalize.New(loadDoc(t, "redis.json"))

	res, err := n.Resource(ctx, "instances", "Instance")
	require.NoError(t, err)

	assert.Equal(t, "projects/{{project}}/locations/{{location}}/instances", res.BaseURL)
	assert.Equal(t, res.BaseURL+"/{{name}}", res.SelfLink)
	assert.Equal(t, ":PATCH", res.UpdateVerb)
	assert.True(t, res.UpdateMask.IsTrue())
	assert.Equal(t, res.BaseURL+"/?instanceId={{name}}", res.CreateURL)

	require.Len(t, res.Parameters, 2)
	location, name := res.Parameters[0], res.Parameters[1]
	assert.Equal(t, "location", location.Name)
	assert.True(t, location.URLParamOnly)
	assert.Equal(t, "the location of the instance.", location.Description)
	assert.Equal(t, "name", name.Name)
	assert.True(t, name.URLParamOnly)
	assert.Equal(t, "A user-defined name which uniquely identifies a instance.", name.Description)

	assert.Equal(t, []string{"memorySizeGb", "createTime"}, fields.Keys(res.Properties))
	assert.Equal(t, fields.KindTime, res.Properties[1].Kind)
}

func TestResourceErrors(t *testing.T) {
	ctx, _ := testContext(t)
	n := normalize.New(loadDoc(t, "compute.json"))

	_, err := n.Resource(ctx, "widgets", "BackendService")
	assert.True(t, errors.IsFetch(err))

	_, err = n.Resource(ctx, "backendServices", "Widget")
	assert.True(t, errors.IsFetch(err))
}
