// Package generate implements the generate command.
package generate

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/agentstation/skaffolder"
	"github.com/agentstation/skaffolder/internal/cmd/application"
	"github.com/agentstation/skaffolder/internal/cmd/output"
	"github.com/agentstation/skaffolder/internal/cmd/prompt"
	"github.com/agentstation/skaffolder/pkg/changelog"
	"github.com/agentstation/skaffolder/pkg/logging"
)

// Flags holds the flags of the generate command.
type Flags struct {
	ProductDirectory string
	DryRun           bool
	Concurrency      int
	AutoApprove      bool
}

// NewCommand creates the generate command using app context.
func NewCommand(app application.Application) *cobra.Command {
	flags := &Flags{}

	cmd := &cobra.Command{
		Use:     "generate RESOURCE...",
		GroupID: "core",
		Short:   "Generate or refresh resource definitions of a product",
		Long: `Generate creates a definition for every named REST collection of a
product, or merges the existing <Type>.yaml of the product directory with
the current discovery schemas.

The type name is the singular, upper-first collection name:
backendServices becomes BackendService.yaml. Resources are processed in
parallel; a failing resource does not stop the others.`,
		Example: `  skaffolder generate --product-directory compute backendServices
  skaffolder generate --product-directory redis instances --dry-run
  skaffolder generate -p compute backendServices instances --concurrency 8 -y`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := logging.WithLogger(cmd.Context(), app.Logger())
			return Execute(ctx, app, flags, args)
		},
	}

	cmd.Flags().StringVarP(&flags.ProductDirectory, "product-directory", "p", "", "directory holding product.yaml and the definitions")
	cmd.Flags().BoolVar(&flags.DryRun, "dry-run", false, "preview changes without writing")
	cmd.Flags().IntVar(&flags.Concurrency, "concurrency", 0, "resources generated in parallel (default from config)")
	cmd.Flags().BoolVarP(&flags.AutoApprove, "yes", "y", false, "write without asking when fields are removed")
	_ = cmd.MarkFlagRequired("product-directory")

	return cmd
}

// Execute runs the generation of resources.
func Execute(ctx context.Context, app application.Application, flags *Flags, resources []string) error {
	streams := app.IOStreams()

	opts := []skaffolder.Option{skaffolder.WithConfirm(prompt.Removals(streams, flags.AutoApprove))}
	if flags.Concurrency > 0 {
		opts = append(opts, skaffolder.WithConcurrency(flags.Concurrency))
	}
	client, err := app.Client(opts...)
	if err != nil {
		return err
	}

	outcomes, genErr := client.Generate(ctx, flags.ProductDirectory, resources, skaffolder.WithDryRun(flags.DryRun))

	logs := make([]*changelog.Log, 0, len(outcomes))
	for _, o := range outcomes {
		logs = append(logs, o.Result.Log)
	}
	if err := output.Report(app, streams.Out, logs...); err != nil {
		return err
	}

	for _, o := range outcomes {
		switch {
		case flags.DryRun:
			fmt.Fprintf(streams.ErrOut, "dry run: %s not written\n", o.Path)
		case o.Declined:
			fmt.Fprintf(streams.ErrOut, "%s: skipped\n", o.Path)
		case o.Written:
			fmt.Fprintf(streams.ErrOut, "%s: %s\n", o.Path, o.Result.Summary())
		}
	}
	return genErr
}
