package completion_test

import (
	"bytes"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/skaffolder/cmd/skaffolder/cmd/completion"
)

func newRoot(out *bytes.Buffer) *cobra.Command {
	root := &cobra.Command{Use: "skaffolder"}
	root.AddCommand(completion.NewCommand())
	root.SetOut(out)
	root.SetErr(out)
	return root
}

func TestShells(t *testing.T) {
	assert.Equal(t, []string{"bash", "fish", "powershell", "zsh"}, completion.Shells())
}

func TestCompletionScripts(t *testing.T) {
	for _, shell := range completion.Shells() {
		t.Run(shell, func(t *testing.T) {
			var out bytes.Buffer
			root := newRoot(&out)
			root.SetArgs([]string{"completion", shell})

			require.NoError(t, root.Execute())
			assert.Contains(t, out.String(), "skaffolder")
		})
	}
}

func TestCompletionRejectsUnknownShell(t *testing.T) {
	var out bytes.Buffer
	root := newRoot(&out)
	root.SetArgs([]string{"completion", "tcsh"})

	assert.Error(t, root.Execute())
}
