// Package completion provides the shell completion command.
package completion

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/spf13/cobra"
)

type shell struct {
	usage    string
	generate func(root *cobra.Command, w io.Writer) error
}

var shells = map[string]shell{
	"bash": {
		usage: `  source <(skaffolder completion bash)`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenBashCompletionV2(w, true)
		},
	},
	"zsh": {
		usage: `  skaffolder completion zsh > "${fpath[1]}/_skaffolder"`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenZshCompletion(w)
		},
	},
	"fish": {
		usage: `  skaffolder completion fish > ~/.config/fish/completions/skaffolder.fish`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenFishCompletion(w, true)
		},
	},
	"powershell": {
		usage: `  skaffolder completion powershell | Out-String | Invoke-Expression`,
		generate: func(root *cobra.Command, w io.Writer) error {
			return root.GenPowerShellCompletionWithDesc(w)
		},
	},
}

// Shells returns the supported shell names, sorted.
func Shells() []string {
	names := make([]string, 0, len(shells))
	for name := range shells {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewCommand creates the completion command. It replaces cobra's default
// so the script goes to the command's output stream.
func NewCommand() *cobra.Command {
	names := Shells()

	var usage strings.Builder
	for _, name := range names {
		fmt.Fprintf(&usage, "\n%s:\n%s\n", name, shells[name].usage)
	}

	return &cobra.Command{
		Use:   "completion " + strings.Join(names, "|"),
		Short: "Generate a shell completion script",
		Long: `Generate the autocompletion script for the given shell and print it to
stdout. To load completions:
` + usage.String(),
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs:             names,
		DisableFlagsInUseLine: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return shells[args[0]].generate(cmd.Root(), cmd.OutOrStdout())
		},
	}
}
