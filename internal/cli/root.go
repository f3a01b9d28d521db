// Package cli provides the command-line interface for commitlens.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/commitlens/internal/cli/commands"
	"github.com/ccollicutt/commitlens/internal/cli/plugins"
)

// Execute runs the root command on the process arguments and returns the
// exit code.
func Execute() int {
	return run(context.Background(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	rootCmd := NewRootCommand()
	rootCmd.SetArgs(args)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	// A first argument that is not a flag or a built-in command may be a plugin
	name, isCandidate := pluginCandidate(rootCmd, args)
	if isCandidate {
		if pluginPath, err := plugins.FindPlugin(name); err == nil {
			return plugins.Execute(ctx, pluginPath, args[1:], plugins.Stdio{In: os.Stdin, Out: stdout, Err: stderr})
		}
	}

	commands.ExitCode = 0
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if isCandidate {
			_, _ = fmt.Fprintln(stderr, plugins.FormatNotFoundError(name))
			return 2
		}
		// SilenceErrors stops cobra printing it
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	_ = commands.Logger.Sync()
	return commands.ExitCode
}

func pluginCandidate(rootCmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		return "", false
	}
	return args[0], !isBuiltinCommand(rootCmd, args[0])
}

// isBuiltinCommand checks if a command name is a built-in cobra command.
func isBuiltinCommand(rootCmd *cobra.Command, name string) bool {
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return true
		}
	}
	return name == "help" || name == "completion"
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	var logLevel, logFormat string

	rootCmd := &cobra.Command{
		Use:   "commitlens",
		Short: "Explore a repository's commit history by time of day",
		Long: `commitlens turns a line-level change log (loc.csv) into a dashboard:
every commit plotted by date and hour of day, a time cutoff to scrub through
history, a brush to select commits and a breakdown of changed lines by
language.

PLUGINS:
  Commands commitlens does not know are run as plugins: standalone binaries
  named commitlens-<command>.

  Plugin locations (searched in order):
    1. Same directory as the commitlens binary
    2. ~/.commitlens/plugins/
    3. Anywhere in PATH`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger, err := commands.NewLogger(logLevel, logFormat)
			if err != nil {
				return err
			}
			commands.Logger = logger
			return nil
		},
	}

	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "Log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "console", "Log format (console|json)")

	rootCmd.AddCommand(commands.NewRenderCommand())
	rootCmd.AddCommand(commands.NewStatsCommand())
	rootCmd.AddCommand(commands.NewScrubCommand())
	rootCmd.AddCommand(commands.NewProjectsCommand())
	rootCmd.AddCommand(commands.NewServeCommand())
	rootCmd.AddCommand(commands.NewDetectCommand())
	rootCmd.AddCommand(commands.NewDiagnoseCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewCacheCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
