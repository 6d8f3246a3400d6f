package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ccollicutt/logtally/pkg/config"
	"github.com/ccollicutt/logtally/pkg/parser"
)

// NewValidateCommand creates the validate command.
func NewValidateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "validate <config-file>",
		Short: "Validate a configuration file",
		Long: `Validate a logtally configuration file without running analysis.

Checks:
  - YAML syntax
  - Output format, worker count and minimum level
  - Time window (since must not be after until)
  - Webhook URLs and triggers
  - Log source existence (warning only)`,
		Args: cobra.ExactArgs(1),
		RunE: runValidate,
	}
}

func runValidate(cmd *cobra.Command, args []string) error {
	configPath := args[0]
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	out := cmd.OutOrStdout()

	fmt.Fprintf(out, "Validating %s...\n", configPath)

	cfg, err := config.Load(ctx, configPath)
	if err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	fmt.Fprintf(out, "\nConfiguration valid!\n")
	fmt.Fprintf(out, "  Log sources: %d pattern(s)\n", len(cfg.Sources))
	fmt.Fprintf(out, "  Workers:     %d\n", cfg.Workers)
	fmt.Fprintf(out, "  Output:      %s\n", cfg.Output)
	if cfg.MinLevel != nil {
		fmt.Fprintf(out, "  Min level:   %s\n", cfg.MinLevel)
	}
	if cfg.Since != nil {
		fmt.Fprintf(out, "  Since:       %s\n", cfg.Since)
	}
	if cfg.Until != nil {
		fmt.Fprintf(out, "  Until:       %s\n", cfg.Until)
	}

	if len(cfg.Webhooks) > 0 {
		fmt.Fprintf(out, "\nWebhooks:\n")
		for i, wh := range cfg.Webhooks {
			name := wh.Name
			if name == "" {
				name = wh.URL
			}
			fmt.Fprintf(out, "  %d. [%s] %s\n", i+1, wh.Trigger, name)
		}
	}

	if len(cfg.Sources) == 0 {
		fmt.Fprintf(out, "\nWarning: No log sources configured; pass paths to analyze\n")
		return nil
	}

	files, err := parser.ExpandPaths(cfg.Sources, cfg.Recursive)
	if err != nil {
		fmt.Fprintf(out, "\nWarning: Error expanding log sources: %v\n", err)
		return nil
	}

	fmt.Fprintf(out, "\nLog files matched: %d\n", len(files))
	var missing []string
	for _, f := range files {
		if _, err := os.Stat(f); err != nil {
			missing = append(missing, f)
			continue
		}
		fmt.Fprintf(out, "  - %s\n", f)
	}
	for _, f := range missing {
		fmt.Fprintf(out, "\nWarning: Log source not found: %s\n", f)
	}

	return nil
}
