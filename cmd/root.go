package cmd

import (
	"fmt"
	"os"

	"github.com/rs/xid"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	sim "github.com/inference-sim/priosim/sim"
	"github.com/inference-sim/priosim/sim/trace"
)

var (
	// CLI flags for the traffic model
	rtInterarrival  float64 // Mean RT inter-arrival time
	nrtInterarrival float64 // Mean NRT inter-arrival time
	rtService       float64 // Mean RT service time
	nrtService      float64 // Mean NRT service time
	horizon         float64 // Simulated time at which the run stops
	stochastic      bool    // Exponential samples instead of constant means
	seed            int64   // Seed for exponential samples
	tolerance       float64 // Window within which event clocks count as simultaneous

	// CLI flags for presets, logging and output
	logLevel      string // Log verbosity level
	scenarioName  string // Preset from the scenarios file
	scenariosFile string // Path to the scenarios YAML file
	outputFormat  string // Trace format
	outputPath    string // Trace destination, stdout when empty
	printSummary  bool   // Print event counts after the trace
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "priosim",
	Short: "Discrete-event simulator for a preemptive-priority RT/NRT server",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the simulation and print its state trace",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidFormat(outputFormat) {
			logrus.Fatalf("Invalid output format %q; valid: table, csv, jsonl, yaml", outputFormat)
		}

		cfg, err := buildConfig(func(name string) bool { return cmd.Flags().Changed(name) })
		if err != nil {
			logrus.Fatalf("Invalid simulation parameters: %v", err)
		}

		out, closeOut, err := openOutput(outputPath)
		if err != nil {
			logrus.Fatalf("Unable to open trace output: %v", err)
		}
		defer func() {
			if err := closeOut(); err != nil {
				logrus.Errorf("Closing trace output: %v", err)
			}
		}()

		opts := runOptions{
			RunID:  xid.New().String(),
			Format: trace.Format(outputFormat),
			Trace:  out,
		}
		if printSummary {
			opts.Summary = summaryWriter(outputPath, opts.Format)
		}

		if err := runSimulation(cfg, opts); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// scenariosCmd lists the presets available to `run --scenario`
var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List the scenario presets",
	RunE: func(cmd *cobra.Command, args []string) error {
		file, err := LoadScenarioFile(scenariosFile)
		if err != nil {
			return err
		}
		for _, name := range file.Names() {
			sc := file.Scenarios[name]
			fmt.Fprintf(cmd.OutOrStdout(), "%-18s %s\n", name, sc.Description)
		}
		return nil
	},
}

// buildConfig assembles the run config from a preset (if any) and the flags.
// With a preset, only flags the user explicitly set override it; a preset
// without a seed takes the --seed value, default included.
func buildConfig(changed func(string) bool) (sim.Config, error) {
	cfg := sim.NewConfig(rtInterarrival, nrtInterarrival, rtService, nrtService, horizon, stochastic)
	cfg.Seed = seed
	cfg.Tolerance = tolerance

	if scenarioName != "" {
		file, err := LoadScenarioFile(scenariosFile)
		if err != nil {
			return sim.Config{}, err
		}
		sc, err := file.Lookup(scenarioName)
		if err != nil {
			return sim.Config{}, err
		}
		base, err := sc.ToConfig()
		if err != nil {
			return sim.Config{}, fmt.Errorf("scenario %q: %w", scenarioName, err)
		}
		logrus.Infof("Using scenario %q: %s", scenarioName, sc.Description)
		if sc.Seed == nil {
			base.Seed = cfg.Seed
		}
		cfg = applyFlagOverrides(base, cfg, changed)
	}

	if err := cfg.Validate(); err != nil {
		return sim.Config{}, err
	}
	return cfg, nil
}

// applyFlagOverrides copies into base every field whose flag was set explicitly.
func applyFlagOverrides(base, flags sim.Config, changed func(string) bool) sim.Config {
	if changed("rt-iat") {
		base.RT.MeanInterarrival = flags.RT.MeanInterarrival
	}
	if changed("nrt-iat") {
		base.NRT.MeanInterarrival = flags.NRT.MeanInterarrival
	}
	if changed("rt-service") {
		base.RT.MeanService = flags.RT.MeanService
	}
	if changed("nrt-service") {
		base.NRT.MeanService = flags.NRT.MeanService
	}
	if changed("horizon") {
		base.Horizon = flags.Horizon
	}
	if changed("random") {
		base.Stochastic = flags.Stochastic
	}
	if changed("seed") {
		base.Seed = flags.Seed
	}
	if changed("tolerance") {
		base.Tolerance = flags.Tolerance
	}
	return base
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Float64Var(&rtInterarrival, "rt-iat", 10, "Mean RT inter-arrival time")
	runCmd.Flags().Float64Var(&nrtInterarrival, "nrt-iat", 5, "Mean NRT inter-arrival time")
	runCmd.Flags().Float64Var(&rtService, "rt-service", 2, "Mean RT service time")
	runCmd.Flags().Float64Var(&nrtService, "nrt-service", 4, "Mean NRT service time")
	runCmd.Flags().Float64Var(&horizon, "horizon", 200, "Simulated time at which the run stops")
	runCmd.Flags().BoolVar(&stochastic, "random", false, "Draw exponential times with the given means instead of using them verbatim")
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for exponential samples; also used by presets that set no seed")
	runCmd.Flags().Float64Var(&tolerance, "tolerance", sim.DefaultTolerance, "Window within which event clocks count as simultaneous")

	runCmd.Flags().StringVar(&logLevel, "log", "error", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&scenarioName, "scenario", "", "Preset from the scenarios file; explicit flags override it")
	runCmd.Flags().StringVar(&outputFormat, "format", string(trace.FormatTable), "Trace format (table, csv, jsonl, yaml)")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write the trace to this file instead of stdout")
	runCmd.Flags().BoolVar(&printSummary, "summary", false, "Print event counts after the trace")

	rootCmd.PersistentFlags().StringVar(&scenariosFile, "scenarios-file", "scenarios.yaml", "Path to the scenarios YAML file")

	// Attach subcommands to `root`
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(scenariosCmd)
}
