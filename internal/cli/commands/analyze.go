package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/analyzer"
	"github.com/ccollicutt/logtally/pkg/config"
	"github.com/ccollicutt/logtally/pkg/output"
	"github.com/ccollicutt/logtally/pkg/parser"
	"github.com/ccollicutt/logtally/pkg/webhook"
)

// ExitCode is set by commands to indicate the result
var ExitCode = 0

// AnalyzeOptions holds command-line options for the analyze command.
type AnalyzeOptions struct {
	ConfigPath string
	Output     string
	Workers    int
	Recursive  bool
	Since      string
	Until      string
	MinLevel   string
	Verbose    bool
	Quiet      bool

	// Webhook options
	WebhookURL     string
	WebhookToken   string
	WebhookTrigger string
}

// NewAnalyzeCommand creates the analyze command.
func NewAnalyzeCommand() *cobra.Command {
	opts := &AnalyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze [paths...]",
		Short: "Summarize log files",
		Long: `Parse log files and report aggregate statistics.

Each line must look like:
  YYYY-MM-DD HH:MM:SS [LEVEL] component: message

Paths may be files, directories or glob patterns. When no paths are given,
the sources from --config or LOGTALLY_SOURCES are used. Lines that do not
parse are skipped and logged to stderr.

Exit codes:
  0 - Analysis completed
  2 - Configuration or runtime error`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, args, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Configuration file")
	cmd.Flags().StringVarP(&opts.Output, "output", "o", string(config.DefaultOutput), "Output format (text|json)")
	cmd.Flags().IntVarP(&opts.Workers, "workers", "w", config.DefaultWorkers(), "Files parsed concurrently")
	cmd.Flags().BoolVarP(&opts.Recursive, "recursive", "r", false, "Descend into nested directories")
	cmd.Flags().StringVar(&opts.Since, "since", "", `Ignore entries before this time ("YYYY-MM-DD HH:MM:SS")`)
	cmd.Flags().StringVar(&opts.Until, "until", "", `Ignore entries after this time ("YYYY-MM-DD HH:MM:SS")`)
	cmd.Flags().StringVar(&opts.MinLevel, "min-level", "", "Ignore entries below this level")
	cmd.Flags().BoolVarP(&opts.Verbose, "verbose", "v", false, "Include hourly breakdown and run details")
	cmd.Flags().BoolVarP(&opts.Quiet, "quiet", "q", false, "Summary only")

	cmd.Flags().StringVar(&opts.WebhookURL, "webhook-url", "", "Webhook endpoint URL")
	cmd.Flags().StringVar(&opts.WebhookToken, "webhook-token", "", "Bearer token for webhook auth")
	cmd.Flags().StringVar(&opts.WebhookTrigger, "webhook-trigger", string(config.WebhookTriggerOnErrors), "When to fire webhook (on_errors|always|never)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, args []string, opts *AnalyzeOptions) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	logger, err := commandLogger(cmd)
	if err != nil {
		return err
	}

	cfg, err := resolveConfig(ctx, cmd, args, opts)
	if err != nil {
		return err
	}

	files, err := expandSources(cfg)
	if err != nil {
		return err
	}

	analyzerOpts := []analyzer.Option{
		analyzer.WithWorkers(cfg.Workers),
		analyzer.WithTimeRange(cfg.Since, cfg.Until),
		analyzer.WithLogger(logger),
	}
	if cfg.MinLevel != nil {
		analyzerOpts = append(analyzerOpts, analyzer.WithMinLevel(*cfg.MinLevel))
	}

	result, err := analyzer.New(analyzerOpts...).Analyze(ctx, files)
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	logSkipped(logger, result.ParseErrors)
	for _, fe := range result.FileErrors {
		logger.Error().Str("file", fe.Source).Err(fe.Err).Msg("could not read log file")
	}
	if len(result.Metadata.Sources) == 0 {
		return errors.New("none of the log files could be read")
	}

	report := output.NewReport(result)

	formatter, err := output.NewFormatter(string(cfg.Output), output.FormatOptions{
		Verbose: opts.Verbose,
		Quiet:   opts.Quiet,
	})
	if err != nil {
		return err
	}

	if err := formatter.Format(ctx, report, cmd.OutOrStdout()); err != nil {
		return fmt.Errorf("formatting output: %w", err)
	}

	// Webhook failures are logged but don't fail the analysis.
	sendWebhooks(ctx, logger, cfg.Webhooks, report)

	return nil
}

// resolveConfig loads the config file (or the environment defaults) and
// applies the flags the user set explicitly.
func resolveConfig(ctx context.Context, cmd *cobra.Command, args []string, opts *AnalyzeOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.ConfigPath != "" {
		cfg, err = config.Load(ctx, opts.ConfigPath)
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	} else {
		cfg, err = config.FromEnvironment()
		if err != nil {
			return nil, fmt.Errorf("loading config: %w", err)
		}
	}

	if len(args) > 0 {
		cfg.Sources = args
	}

	flags := cmd.Flags()
	if flags.Changed("output") {
		cfg.Output = config.OutputFormat(opts.Output)
	}
	if flags.Changed("workers") {
		cfg.Workers = opts.Workers
	}
	if flags.Changed("recursive") {
		cfg.Recursive = opts.Recursive
	}
	if opts.Since != "" {
		ts, err := parser.ParseTimestamp(opts.Since)
		if err != nil {
			return nil, fmt.Errorf("invalid --since %q: %w", opts.Since, err)
		}
		cfg.Since = &ts
	}
	if opts.Until != "" {
		ts, err := parser.ParseTimestamp(opts.Until)
		if err != nil {
			return nil, fmt.Errorf("invalid --until %q: %w", opts.Until, err)
		}
		cfg.Until = &ts
	}
	if opts.MinLevel != "" {
		level, err := parser.ParseLevel(opts.MinLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid --min-level: %w", err)
		}
		cfg.MinLevel = &level
	}
	if opts.WebhookURL != "" {
		cfg.Webhooks = append(cfg.Webhooks, config.WebhookConfig{
			Name:    "cli",
			URL:     opts.WebhookURL,
			Token:   opts.WebhookToken,
			Trigger: config.WebhookTrigger(opts.WebhookTrigger),
		})
	}

	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return cfg, nil
}

func expandSources(cfg *config.Config) ([]string, error) {
	if len(cfg.Sources) == 0 {
		return nil, fmt.Errorf("no log sources given (pass paths, use --config, or set %s)", config.EnvSources)
	}

	files, err := parser.ExpandPaths(cfg.Sources, cfg.Recursive)
	if err != nil {
		return nil, fmt.Errorf("expanding log sources %v: %w", cfg.Sources, err)
	}
	return files, nil
}

func logSkipped(logger zerolog.Logger, skipped []*parser.ParseError) {
	for _, pe := range skipped {
		logger.Warn().
			Str("file", pe.Source).
			Int("line", pe.LineNum).
			Str("content", pe.Content).
			Str("reason", pe.Reason).
			Msg("skipped line")
	}
}

func sendWebhooks(ctx context.Context, logger zerolog.Logger, webhooks []config.WebhookConfig, report *output.Report) {
	if len(webhooks) == 0 {
		return
	}

	for _, d := range webhook.NewClient(nil).Dispatch(ctx, report, webhooks) {
		if d.Response.Success() {
			logger.Info().
				Str("webhook", d.Name).
				Int("status", d.Response.StatusCode).
				Dur("duration", d.Response.Duration).
				Msg("webhook sent")
			continue
		}
		logger.Warn().Str("webhook", d.Name).Err(d.Response.Error).Msg("webhook failed")
	}
}
