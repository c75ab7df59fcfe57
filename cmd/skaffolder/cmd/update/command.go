// Package update implements the update command.
package update

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/skaffolder"
	"github.com/agentstation/skaffolder/internal/cmd/application"
	"github.com/agentstation/skaffolder/internal/cmd/output"
	"github.com/agentstation/skaffolder/internal/cmd/prompt"
	"github.com/agentstation/skaffolder/pkg/logging"
)

// Flags holds the flags of the update command.
type Flags struct {
	ResourceFile string
	InPlace      bool
	OutputFile   string
	AutoApprove  bool
}

// NewCommand creates the update command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "update",
		GroupID: "core",
		Short:   "Merge a resource definition with its discovery schemas",
		Long: `Update merges an existing resource definition with the GA and beta
discovery schemas of its product. The product file is read from the
directory of the definition.

Fields the APIs declare are added, fields no API declares are removed
unless pinned, and attributes you set on surviving fields are kept.
Suspicious name and type mismatches are reported, never fixed.

Without --inplace or --output-file the merged definition is written to
stdout and the change report to stderr.`,
		Example: `  skaffolder update --resource-file compute/BackendService.yaml
  skaffolder update --resource-file compute/BackendService.yaml --inplace
  skaffolder update --resource-file compute/BackendService.yaml --output-file /tmp/out.yaml -y`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			return Execute(ctx, app, flags)
		},
	}

	cmd.Flags().StringVarP(&flags.ResourceFile, "resource-file", "f", "", "resource definition to update")
	cmd.Flags().BoolVarP(&flags.InPlace, "inplace", "i", false, "write the merged definition back to the resource file")
	cmd.Flags().StringVar(&flags.OutputFile, "output-file", "", "write the merged definition to this file")
	cmd.Flags().BoolVarP(&flags.AutoApprove, "yes", "y", false, "write without asking when fields are removed")
	_ = cmd.MarkFlagRequired("resource-file")
	cmd.MarkFlagsMutuallyExclusive("inplace", "output-file")

	return cmd
}

// Execute runs the update.
func Execute(ctx context.Context, app application.Application, flags *Flags) error {
	streams := app.IOStreams()

	client, err := app.Client(skaffolder.WithConfirm(prompt.Removals(streams, flags.AutoApprove)))
	if err != nil {
		return err
	}

	target := flags.OutputFile
	if flags.InPlace {
		target = flags.ResourceFile
	}
	var opts []skaffolder.RunOption
	if target != "" {
		opts = append(opts, skaffolder.WithOutput(target))
	}

	outcome, err := client.Update(ctx, flags.ResourceFile, opts...)
	if err != nil {
		return err
	}

	if err := output.Report(app, streams.ErrOut, outcome.Result.Log); err != nil {
		return err
	}
	if target == "" {
		_, err := streams.Out.Write(outcome.Output)
		return err
	}
	if outcome.Written {
		fmt.Fprintf(streams.ErrOut, "%s\n", outcome.Result.Summary())
	}
	return nil
}
