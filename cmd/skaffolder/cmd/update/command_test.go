package update

import (
	"bytes"
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder"
	"github.com/agentstation/skaffolder/internal/cmd/application"
	"github.com/agentstation/skaffolder/internal/testhelper"
)

const definition = `name: BackendService
base_url: "projects/{{project}}/global/backendServices"
properties:
  - name: name
    type: String
  - name: legacyField
    type: String
`

func newApp(t *testing.T, input string, interactive bool) (*application.Mock, *bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	srv := testhelper.NewDiscoveryServer(t)
	out, errOut := &bytes.Buffer{}, &bytes.Buffer{}
	app := &application.Mock{
		ClientFunc: func(opts ...skaffolder.Option) (skaffolder.Client, error) {
			return skaffolder.New(append(opts, skaffolder.WithDiscoveryURL(srv.DirectoryURL()))...)
		},
		Streams: &application.IOStreams{
			In:          bytes.NewBufferString(input),
			Out:         out,
			ErrOut:      errOut,
			Interactive: interactive,
		},
	}
	return app, out, errOut
}

func TestUpdateToStdout(t *testing.T) {
	app, out, errOut := newApp(t, "", false)
	path := testhelper.WriteFile(t, testhelper.ProductDir(t), "BackendService.yaml", definition)

	err := Execute(context.Background(), app, &Flags{ResourceFile: path})
	require.NoError(t, err)

	assert.Contains(t, out.String(), "name: timeoutSec")
	assert.NotContains(t, out.String(), "legacyField")
	assert.Contains(t, errOut.String(), "WARNING: removing field legacyField from definition of BackendService")
	assert.Contains(t, errOut.String(), "INFO: adding securitySettings as beta field to definition of BackendService")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, definition, string(data))
}

func TestUpdateInPlace(t *testing.T) {
	app, out, _ := newApp(t, "y\n", true)
	path := testhelper.WriteFile(t, testhelper.ProductDir(t), "BackendService.yaml", definition)

	err := Execute(context.Background(), app, &Flags{ResourceFile: path, InPlace: true})
	require.NoError(t, err)
	assert.Empty(t, out.String())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "timeoutSec")
	assert.NotContains(t, string(data), "legacyField")
}

func TestUpdateDeclined(t *testing.T) {
	app, _, errOut := newApp(t, "n\n", true)
	path := testhelper.WriteFile(t, testhelper.ProductDir(t), "BackendService.yaml", definition)

	err := Execute(context.Background(), app, &Flags{ResourceFile: path, InPlace: true})
	require.NoError(t, err)
	assert.Contains(t, errOut.String(), "Write cancelled")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, definition, string(data))
}

func TestUpdateCommandFlags(t *testing.T) {
	app, _, _ := newApp(t, "", false)
	cmd := NewCommand(app)
	cmd.SetArgs([]string{"--inplace", "--output-file", "x.yaml", "-f", "in.yaml"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.ExecuteContext(context.Background()))

	cmd = NewCommand(app)
	cmd.SetArgs([]string{})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	assert.Error(t, cmd.ExecuteContext(context.Background()), "resource file is required")
}
