// Package main provides the micrograd CLI.
//
// micrograd loads an HCL graph file, seeds the gradient of its output with
// 1.0, runs the backward pass and prints every node reachable from the
// output with its value and gradient.
package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/born-ml/micrograd/internal/cli"
	"github.com/born-ml/micrograd/internal/graphfile"
	"github.com/born-ml/micrograd/internal/parallel"
)

const version = "v0.1.0"

func main() {
	// Use a minimal logger until the full one is configured.
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := run(os.Stdout, os.Stderr, os.Args[1:]); err != nil {
		if exitErr, ok := err.(*cli.ExitError); ok {
			fmt.Fprintln(os.Stderr, exitErr.Message)
			os.Exit(exitErr.Code)
		}
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// run encapsulates the main application logic for easier testing and error handling.
func run(outW, logW io.Writer, args []string) error {
	if len(args) == 1 && args[0] == "version" {
		fmt.Fprintf(outW, "micrograd %s\n", version)
		return nil
	}

	cfg, shouldExit, err := cli.Parse(args, outW)
	if err != nil {
		return err
	}
	if shouldExit {
		return nil
	}

	logger := cli.NewLogger(cfg.LogLevel, cfg.LogFormat, logW)
	logger.Debug("Loading graph file", "path", cfg.GraphPath)

	prog, err := graphfile.Load(cfg.GraphPath)
	if err != nil {
		return err
	}
	g, root := prog.Graph, prog.Output
	logger.Info("Graph loaded", "nodes", g.Len(), "output", root.Label(), "value", root.Data())

	if !root.IsFinite() {
		logger.Warn("Output is not finite; gradients will be too", "value", root.Data())
	}

	root.SetGrad(1)
	if cfg.Workers > 0 {
		logger.Debug("Running parallel backward pass", "workers", cfg.Workers)
		g.BackwardParallel(root.ID(), parallel.WithWorkers(cfg.Workers))
	} else {
		logger.Debug("Running backward pass")
		g.Backward(root.ID())
	}

	return cli.NewReport(g, root.ID()).Write(outW, cfg.Format)
}
