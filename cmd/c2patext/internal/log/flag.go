// Package log wires the CLI's structured logging flags: format (text/json),
// level, and the resulting slog.Logger, in the same shape as the rest of
// this module's ambient stack.
package log

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	FormatFlagName = "log-format"
	FormatText     = "text"
	FormatJSON     = "json"

	LevelFlagName = "log-level"
	LevelDebug    = "debug"
	LevelInfo     = "info"
	LevelWarn     = "warn"
	LevelError    = "error"
)

// RegisterFlags registers the logging flags as persistent flags on flagset,
// available to every subcommand.
func RegisterFlags(flagset *pflag.FlagSet) {
	flagset.String(FormatFlagName, FormatText, "log output format: text or json")
	flagset.String(LevelFlagName, LevelWarn, "log level: debug, info, warn, error")
}

// NewLogger builds a *slog.Logger from cmd's logging flags, writing to
// cmd's error stream so log lines never mix with the command's stdout
// output (JSON results, extracted payloads).
func NewLogger(cmd *cobra.Command) (*slog.Logger, error) {
	level, err := levelFromFlag(cmd)
	if err != nil {
		return nil, err
	}

	format, err := cmd.Flags().GetString(FormatFlagName)
	if err != nil {
		return nil, fmt.Errorf("reading --%s: %w", FormatFlagName, err)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	switch format {
	case FormatJSON:
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	case FormatText:
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	default:
		return nil, fmt.Errorf("invalid --%s %q", FormatFlagName, format)
	}
	return slog.New(handler), nil
}

func levelFromFlag(cmd *cobra.Command) (slog.Level, error) {
	raw, err := cmd.Flags().GetString(LevelFlagName)
	if err != nil {
		return slog.LevelWarn, fmt.Errorf("reading --%s: %w", LevelFlagName, err)
	}
	switch raw {
	case LevelDebug:
		return slog.LevelDebug, nil
	case LevelInfo:
		return slog.LevelInfo, nil
	case LevelWarn:
		return slog.LevelWarn, nil
	case LevelError:
		return slog.LevelError, nil
	default:
		return slog.LevelWarn, fmt.Errorf("invalid --%s %q", LevelFlagName, raw)
	}
}
