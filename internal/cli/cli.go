package cli

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ExitError is a custom error type that includes a specific exit code.
type ExitError struct {
	Code    int
	Message string
}

// Error implements the error interface for ExitError.
func (e *ExitError) Error() string {
	return e.Message
}

// Config is the validated command-line configuration.
type Config struct {
	GraphPath string // Path to the graph file.
	Format    string // Report format: "text" or "json".
	LogLevel  string // "debug", "info", "warn" or "error".
	LogFormat string // "text" or "json".
	Workers   int    // Backward workers; 0 runs the sequential scheduler.
}

// Parse processes command-line arguments. It returns a populated Config,
// a boolean indicating if the program should exit cleanly, or an ExitError.
func Parse(args []string, output io.Writer) (*Config, bool, error) {
	slog.Debug("CLI parser started.")
	flagSet := flag.NewFlagSet("micrograd", flag.ContinueOnError)
	flagSet.SetOutput(output)

	flagSet.Usage = func() {
		fmt.Fprint(output, `
micrograd - evaluate and differentiate a scalar expression graph.

Usage:
  micrograd [options] GRAPH_FILE

Arguments:
  GRAPH_FILE
    Path to an .hcl graph file declaring leaf and node blocks.

Options:
`)
		flagSet.PrintDefaults()
	}

	formatFlag := flagSet.String("format", "text", "Report format. Options: 'text' or 'json'.")
	logFormatFlag := flagSet.String("log-format", "text", "Log output format. Options: 'text' or 'json'.")
	logLevelFlag := flagSet.String("log-level", "warn", "Set the logging level. Options: 'debug', 'info', 'warn', 'error'.")
	workersFlag := flagSet.Int("workers", 0, "Goroutines for the backward pass. 0 runs it sequentially.")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil, true, nil
		}
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	if flagSet.NArg() == 0 {
		slog.Debug("No graph path provided, printing usage and exiting.")
		flagSet.Usage()
		return nil, true, nil
	}
	if flagSet.NArg() > 1 {
		return nil, false, &ExitError{Code: 2, Message: "expected exactly one graph file"}
	}

	cfg := &Config{
		GraphPath: flagSet.Arg(0),
		Format:    strings.ToLower(*formatFlag),
		LogFormat: strings.ToLower(*logFormatFlag),
		LogLevel:  strings.ToLower(*logLevelFlag),
		Workers:   *workersFlag,
	}
	if err := cfg.validate(); err != nil {
		return nil, false, &ExitError{Code: 2, Message: err.Error()}
	}

	slog.Debug("CLI parser finished successfully.", "config", cfg)
	return cfg, false, nil
}

func (c *Config) validate() error {
	if c.Format != "text" && c.Format != "json" {
		return errors.New("invalid format: must be 'text' or 'json'")
	}
	if c.LogFormat != "text" && c.LogFormat != "json" {
		return errors.New("invalid log-format: must be 'text' or 'json'")
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
		// valid
	default:
		return errors.New("invalid log-level: must be 'debug', 'info', 'warn', or 'error'")
	}
	if c.Workers < 0 {
		return fmt.Errorf("invalid workers: %d must not be negative", c.Workers)
	}
	return nil
}
