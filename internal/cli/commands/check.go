package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/config"
)

// CheckOptions holds command-line options for the check command.
type CheckOptions struct {
	Workers   int
	Recursive bool
	Quiet     bool
}

// NewCheckCommand creates the check command.
func NewCheckCommand() *cobra.Command {
	opts := &CheckOptions{}

	cmd := &cobra.Command{
		Use:   "check [paths...]",
		Short: "Report lines that do not parse",
		Long: `Parse log files without aggregating and list every line that does not
match the expected format, with its location and the reason.

Exit codes:
  0 - Every line parsed
  1 - At least one line failed to parse
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCheck(cmd, args, opts)
		},
	}

	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", config.DefaultWorkers(), "Files parsed concurrently")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Descend into nested directories")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only")

	return cmd
}

func runCheck(cmd *cobra.Command, args []string, opts *CheckOptions) error {
	ExitCode = 0

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := commandLogger(cmd)
	if err != nil {
		return err
	}

	cfg, err := config.FromEnvironment()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if len(args) > 0 {
		cfg.Sources = args
	}
	cfg.Recursive = opts.Recursive

	files, err := expandSources(cfg)
	if err != nil {
		return err
	}

	result, err := analyzer.New(
		analyzer.WithWorkers(opts.Workers),
		analyzer.WithLogger(logger),
	).Analyze(ctx, files)
	if err != nil {
		return fmt.Errorf("check failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if !opts.Quiet {
		for _, pe := range result.ParseErrors {
			fmt.Fprintf(out, "%s\n    %s\n", pe, pe.Content)
		}
	}
	fmt.Fprintf(out, "%d lines checked in %d files, %d malformed\n",
		result.Metadata.LinesRead, len(result.Metadata.Sources), len(result.ParseErrors))

	for _, fe := range result.FileErrors {
		logger.Error().Str("file", fe.Source).Err(fe.Err).Msg("could not read log file")
	}
	if len(result.FileErrors) > 0 {
		return fmt.Errorf("%d of %d files could not be read", len(result.FileErrors), len(files))
	}

	if len(result.ParseErrors) > 0 {
		ExitCode = 1
	}
	return nil
}
