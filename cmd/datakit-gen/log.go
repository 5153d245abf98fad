package main

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	logFormatFlag = "logformat"
	logLevelFlag  = "loglevel"

	formatText = "text"
	formatJSON = "json"
)

// enumValue is a string flag restricted to a fixed set of options. The first
// option is the default.
type enumValue struct {
	options []string
	value   string
}

var _ pflag.Value = (*enumValue)(nil)

func newEnum(options ...string) *enumValue {
	if len(options) == 0 {
		panic("enum flag needs at least one option")
	}

	return &enumValue{options: options, value: options[0]}
}

func (e *enumValue) String() string { return e.value }

func (e *enumValue) Type() string { return "string" }

func (e *enumValue) Set(v string) error {
	if !slices.Contains(e.options, v) {
		return fmt.Errorf("must be one of %s", strings.Join(e.options, ", "))
	}

	e.value = v

	return nil
}

func registerLoggingFlags(flags *pflag.FlagSet) {
	flags.Var(newEnum(formatText, formatJSON), logFormatFlag, "log output format (text, json)")
	flags.Var(newEnum("warn", "debug", "info", "error"), logLevelFlag, "log level (debug, info, warn, error)")
}

// loggerFromCommand builds the logger described by the logging flags. Logs
// go to the command's error stream so generated output stays clean.
func loggerFromCommand(cmd *cobra.Command) (*slog.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cmd.Flag(logLevelFlag).Value.String())); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	opts := &slog.HandlerOptions{Level: level}
	out := cmd.ErrOrStderr()

	switch format := cmd.Flag(logFormatFlag).Value.String(); format {
	case formatJSON:
		return slog.New(slog.NewJSONHandler(out, opts)), nil
	case formatText:
		return slog.New(slog.NewTextHandler(out, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}
