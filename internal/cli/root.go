// Package cli provides the command-line interface for logtally.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/internal/cli/commands"
	"github.com/ccollicutt/logtally/internal/cli/plugins"
)

// Execute runs the root command with the process arguments and returns the
// exit code.
func Execute() int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return Run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

// Run executes logtally with args. Unknown commands are handed to a
// logtally-<command> plugin when one is installed.
func Run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	commands.ExitCode = 0
	rootCmd := NewRootCommand()

	if name, ok := pluginCandidate(rootCmd, args); ok {
		if p, err := plugins.Find(name, plugins.SearchDirs()); err == nil {
			return p.Run(ctx, args[1:], plugins.Stdio{In: stdin, Out: stdout, Err: stderr})
		}
		fmt.Fprintln(stderr, plugins.NotFoundMessage(name))
		return 2
	}

	rootCmd.SetArgs(args)
	rootCmd.SetIn(stdin)
	rootCmd.SetOut(stdout)
	rootCmd.SetErr(stderr)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		// SilenceErrors keeps cobra from printing this itself.
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 2
	}
	return commands.ExitCode
}

// pluginCandidate returns the first argument when it names neither a flag
// nor a built-in command.
func pluginCandidate(rootCmd *cobra.Command, args []string) (string, bool) {
	if len(args) == 0 || args[0] == "" || args[0][0] == '-' {
		return "", false
	}
	name := args[0]
	if name == "help" || name == "completion" || name == cobra.ShellCompRequestCmd || name == cobra.ShellCompNoDescRequestCmd {
		return "", false
	}
	for _, cmd := range rootCmd.Commands() {
		if cmd.Name() == name || cmd.HasAlias(name) {
			return "", false
		}
	}
	return name, true
}

// NewRootCommand creates the root cobra command.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "logtally",
		Short: "Summarize plain-text log files",
		Long: `logtally parses plain-text log files and reports aggregate statistics:
entries per level, component and hour, error rate, the most active
component, the peak hour and the covered time span.

Expected line format:
  YYYY-MM-DD HH:MM:SS [LEVEL] component: message

PLUGINS:
  Unknown commands run a logtally-<command> binary from the directory of the
  logtally binary, ~/.logtally/plugins/ or PATH, in that order.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().String("log-level", commands.DefaultLogLevel, "Diagnostics level (debug|info|warn|error)")
	rootCmd.PersistentFlags().String("log-format", commands.DefaultLogFormat, "Diagnostics format (console|json)")

	rootCmd.AddCommand(commands.NewAnalyzeCommand())
	rootCmd.AddCommand(commands.NewCheckCommand())
	rootCmd.AddCommand(commands.NewValidateCommand())
	rootCmd.AddCommand(commands.NewVersionCommand())

	return rootCmd
}
