package commands

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// Logging defaults for the global --log-level and --log-format flags.
const (
	DefaultLogLevel  = "warn"
	DefaultLogFormat = "console"
)

// NewLogger builds the diagnostics logger. format is "console" or "json";
// console output is colored only when w is a terminal.
func NewLogger(w io.Writer, level, format string) (zerolog.Logger, error) {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return zerolog.Nop(), fmt.Errorf("invalid log level %q: %w", level, err)
	}

	switch format {
	case "json":
	case "", "console":
		w = zerolog.ConsoleWriter{
			Out:        w,
			NoColor:    !isTerminal(w),
			TimeFormat: time.TimeOnly,
		}
	default:
		return zerolog.Nop(), fmt.Errorf("invalid log format %q (valid: console, json)", format)
	}

	return zerolog.New(w).Level(lvl).With().Timestamp().Logger(), nil
}

// commandLogger builds a logger from the global flags, falling back to the
// defaults when the command runs without the root command.
func commandLogger(cmd *cobra.Command) (zerolog.Logger, error) {
	level, format := DefaultLogLevel, DefaultLogFormat
	if f := cmd.Flags().Lookup("log-level"); f != nil {
		level = f.Value.String()
	}
	if f := cmd.Flags().Lookup("log-format"); f != nil {
		format = f.Value.String()
	}
	return NewLogger(cmd.ErrOrStderr(), level, format)
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && (isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
}
