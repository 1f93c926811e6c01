// Command eventualmon renders a live terminal dashboard of Go runtime
// metrics flowing through eventual pipelines.
//
// The dashboard is fed by a timer-driven sampling pipeline: runtime
// samples are mapped into memory and scheduler views, joined into
// frames, and throttled to the refresh rate. Every frame can also be
// logged to a file for later inspection.
//
// # Usage
//
//	eventualmon [flags]
//	eventualmon schema
//
// # Flags
//
//	--config string            YAML config file
//	--sample-interval duration how often the runtime is sampled
//	--throttle-window duration minimum delay between refreshes
//	--log-file string          file receiving the structured frame log
//	--log-level string         debug, info, warn, or error
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	charmlog "charm.land/log/v2"
	tea "charm.land/bubbletea/v2"

	"github.com/edgeandnode/eventuals/monitor"
	"github.com/edgeandnode/eventuals/version"
)

func main() {
	os.Exit(run0())
}

func run0() int {
	cfg := monitor.NewConfig()

	var configPath string

	rootCmd := &cobra.Command{
		Use:   "eventualmon [flags]",
		Short: "Live dashboard of Go runtime metrics built on eventuals",
		Long: `eventualmon samples the Go runtime on a timer and pushes the samples
through an eventual pipeline (map, join, throttle, pipe) into a live
terminal dashboard. It doubles as a worked example of composing the
eventuals combinators.`,
		Version:       version.String(),
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(_ *cobra.Command, _ []string) error {
			return run(cfg, configPath)
		},
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"YAML config file whose values override flags and defaults")
	cfg.RegisterFlags(rootCmd.PersistentFlags())

	completionErr := cfg.RegisterCompletions(rootCmd)
	if completionErr != nil {
		fmt.Fprintf(os.Stderr, "register completions: %v\n", completionErr)
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema for the YAML config file",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return printSchema(os.Stdout)
		},
	})

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)

		return 1
	}

	return 0
}

func printSchema(w io.Writer) error {
	b, err := json.MarshalIndent(monitor.Schema(), "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling schema: %w", err)
	}

	_, err = fmt.Fprintln(w, string(b))

	return err
}

func run(cfg *monitor.Config, configPath string) error {
	if configPath != "" {
		err := cfg.LoadFile(configPath)
		if err != nil {
			return err
		}
	}

	err := cfg.Validate()
	if err != nil {
		return err
	}

	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("eventualmon needs a terminal on stdout, even with --log-file")
	}

	cols, rows, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return fmt.Errorf("detecting terminal size: %w", err)
	}

	logger, closeLog, err := newLogger(cfg)
	if err != nil {
		return err
	}
	defer closeLog()

	pipeline := monitor.NewPipeline(cfg, logger)
	defer pipeline.Close()

	logger.Info("starting",
		"sampleInterval", cfg.SampleInterval.String(),
		"throttleWindow", cfg.ThrottleWindow.String(),
	)

	p := tea.NewProgram(newModel(pipeline, cols, rows))

	_, err = p.Run()
	if err != nil {
		return fmt.Errorf("running dashboard: %w", err)
	}

	return nil
}

// newLogger builds the frame logger. Without a log file everything is
// discarded; the TUI owns the terminal, so stderr is not an option.
func newLogger(cfg *monitor.Config) (*charmlog.Logger, func(), error) {
	if cfg.LogFile == "" {
		return charmlog.New(io.Discard), func() {}, nil
	}

	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // Log path from CLI flag is expected.
	if err != nil {
		return nil, nil, fmt.Errorf("opening log file: %w", err)
	}

	lvl, err := charmlog.ParseLevel(cfg.LogLevel)
	if err != nil {
		_ = f.Close()

		return nil, nil, fmt.Errorf("parsing log level: %w", err)
	}

	logger := charmlog.NewWithOptions(f, charmlog.Options{
		Level:           lvl,
		ReportTimestamp: true,
	})

	return logger, func() { _ = f.Close() }, nil
}
