package cmd

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"

	sim "github.com/inference-sim/priosim/sim"
	"github.com/inference-sim/priosim/sim/trace"
)

// runOptions controls where a run's trace and summary go.
type runOptions struct {
	RunID   string
	Format  trace.Format
	Trace   io.Writer
	Summary io.Writer // nil = no summary
}

// runSimulation runs one simulation and renders its trace.
func runSimulation(cfg sim.Config, opts runOptions) error {
	logger := logrus.WithField("run", opts.RunID)

	s, err := sim.NewSimulator(cfg)
	if err != nil {
		return err
	}
	s.Trace.RunID = opts.RunID

	startTime := time.Now()
	st := s.Run()
	logger.Infof("Simulated %.2f time units in %v (%d snapshots)", s.State.Clock, time.Since(startTime), st.Len())

	if err := trace.Write(opts.Trace, st, opts.Format); err != nil {
		return fmt.Errorf("writing trace: %w", err)
	}
	if opts.Summary != nil {
		trace.Summarize(st).Print(opts.Summary)
	}
	logger.Info("Simulation complete.")
	return nil
}

// openOutput returns stdout for "" or "-", otherwise a newly created file.
func openOutput(path string) (io.Writer, func() error, error) {
	if path == "" || path == "-" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, fmt.Errorf("create trace file: %w", err)
	}
	return f, f.Close, nil
}

// summaryWriter keeps machine-readable traces on stdout free of the summary block.
func summaryWriter(path string, format trace.Format) io.Writer {
	if path != "" && path != "-" {
		return os.Stdout
	}
	if format == trace.FormatTable || format == "" {
		return os.Stdout
	}
	return os.Stderr
}
