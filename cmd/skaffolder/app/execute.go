package app

import (
	"context"
	"os"

	"github.com/spf13/cobra"

	"github.com/agentstation/skaffolder/pkg/constants"
	"github.com/agentstation/skaffolder/pkg/errors"
	"github.com/agentstation/skaffolder/pkg/logging"
	"github.com/agentstation/skaffolder/pkg/report"
)

// Execute runs the skaffolder CLI application with the given arguments.
// This is the main entry point called from main.go.
func (a *App) Execute(ctx context.Context, args []string) error {
	ctx, cancel := context.WithTimeout(ctx, constants.CommandTimeout)
	defer cancel()

	rootCmd := a.createRootCommand()
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// createRootCommand creates the root cobra command with all subcommands.
func (a *App) createRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "skaffolder",
		Short:   "Keep resource definitions in sync with Google API discovery",
		Version: a.version,
		Long: `Skaffolder reconciles hand-maintained resource definitions with the GA
and beta schemas of the Google API discovery service.

It adds the fields the APIs declare, removes fields no API version
declares any longer (unless pinned), marks beta-only fields, and never
overwrites what you wrote on a field. Name and type mismatches are
reported for you to resolve.`,
		PersistentPreRunE: a.setupCommand,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	rootCmd.AddGroup(&cobra.Group{
		ID:    "core",
		Title: "Core Commands:",
	})

	// Global flags
	flags := rootCmd.PersistentFlags()
	flags.String("config", "", "config file (default is $HOME/.skaffolder.yaml)")
	flags.BoolP("verbose", "v", false, "verbose output, includes unchanged fields (shortcut for --log-level=debug)")
	flags.BoolP("quiet", "q", false, "minimal output (shortcut for --log-level=warn)")
	flags.Bool("no-color", false, "disable colored output")
	flags.StringP("format", "o", "", "report format: text, table, markdown, json, yaml")
	flags.String("log-level", "", "log level: trace, debug, info, warn, error (overrides -v/-q)")

	_ = rootCmd.RegisterFlagCompletionFunc("format", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		formats := report.Formats()
		names := make([]string, len(formats))
		for i, f := range formats {
			names[i] = string(f)
		}
		return names, cobra.ShellCompDirectiveNoFileComp
	})

	rootCmd.SetVersionTemplate("skaffolder {{.Version}}\n")
	rootCmd.SetIn(a.streams.In)
	rootCmd.SetOut(a.streams.Out)
	rootCmd.SetErr(a.streams.ErrOut)

	a.registerCommands(rootCmd)

	return rootCmd
}

// setupCommand is called before any command runs.
func (a *App) setupCommand(cmd *cobra.Command, _ []string) error {
	// These flags are defined as persistent flags in createRootCommand, so errors indicate programming errors
	if configFile := mustGetString(cmd, "config"); configFile != "" {
		config, err := LoadConfig(configFile)
		if err != nil {
			return errors.NewConfigError("app", "reading "+configFile, err)
		}
		a.config = config
	}

	format := mustGetString(cmd, "format")
	if format != "" {
		if _, err := report.ParseFormat(format); err != nil {
			return &errors.ValidationError{Field: "format", Value: format, Message: err.Error()}
		}
	}

	a.config.UpdateFromFlags(
		mustGetBool(cmd, "verbose"),
		mustGetBool(cmd, "quiet"),
		mustGetBool(cmd, "no-color"),
		format,
		mustGetString(cmd, "log-level"),
	)

	// Reinitialize logger with updated config
	logger := logging.Configure(loggerConfig(a.config))
	a.logger = &logger

	return nil
}

// ExitOnError is a helper that prints an error and exits with status 1.
// This is meant to be used in main.go for top-level error handling.
func ExitOnError(err error) {
	if err != nil {
		_, _ = os.Stderr.WriteString("Error: " + err.Error() + "\n")
		os.Exit(1)
	}
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic("programming error: failed to get flag " + name + ": " + err.Error())
	}
	return val
}
