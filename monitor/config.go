package monitor

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/goccy/go-yaml"
	"github.com/google/jsonschema-go/jsonschema"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	charmlog "charm.land/log/v2"
)

var (
	// ErrReadConfig indicates the config file could not be read.
	ErrReadConfig = errors.New("reading config")
	// ErrInvalidConfig indicates a config value is out of range.
	ErrInvalidConfig = errors.New("invalid config")
)

// Duration wraps [time.Duration] so YAML configs can spell intervals
// the Go way ("500ms", "2s").
type Duration time.Duration

// UnmarshalYAML parses a Go duration string.
func (d *Duration) UnmarshalYAML(b []byte) error {
	v, err := time.ParseDuration(strings.Trim(strings.TrimSpace(string(b)), `"'`))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	*d = Duration(v)

	return nil
}

// MarshalYAML renders the duration as a Go duration string.
func (d Duration) MarshalYAML() ([]byte, error) {
	return []byte(time.Duration(d).String()), nil
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

// Flags holds CLI flag names for monitor configuration, allowing callers
// to customize flag names while keeping sensible defaults via
// [NewConfig].
type Flags struct {
	SampleInterval string
	ThrottleWindow string
	LogFile        string
	LogLevel       string
}

// NewConfig creates a new [Config] embedding these flag names.
func (f Flags) NewConfig() *Config {
	return &Config{
		SampleInterval: Duration(500 * time.Millisecond),
		ThrottleWindow: Duration(time.Second),
		LogLevel:       "info",
		Flags:          f,
	}
}

// Config holds the monitor settings, populated from CLI flags and
// optionally overlaid from a YAML file via [Config.LoadFile].
//
// Create instances with [NewConfig] and register CLI flags with
// [Config.RegisterFlags].
type Config struct {
	SampleInterval Duration `yaml:"sampleInterval"`
	ThrottleWindow Duration `yaml:"throttleWindow"`
	LogFile        string   `yaml:"logFile"`
	LogLevel       string   `yaml:"logLevel"`
	Flags          Flags    `yaml:"-"`
}

// NewConfig returns a new [Config] with default flag names and values.
func NewConfig() *Config {
	f := Flags{
		SampleInterval: "sample-interval",
		ThrottleWindow: "throttle-window",
		LogFile:        "log-file",
		LogLevel:       "log-level",
	}

	return f.NewConfig()
}

// RegisterFlags adds monitor flags to the given [*pflag.FlagSet].
func (c *Config) RegisterFlags(flags *pflag.FlagSet) {
	flags.DurationVar((*time.Duration)(&c.SampleInterval), c.Flags.SampleInterval,
		time.Duration(c.SampleInterval), "how often the Go runtime is sampled")
	flags.DurationVar((*time.Duration)(&c.ThrottleWindow), c.Flags.ThrottleWindow,
		time.Duration(c.ThrottleWindow), "minimum delay between dashboard refreshes")
	flags.StringVar(&c.LogFile, c.Flags.LogFile, c.LogFile,
		"file receiving the structured frame log (empty disables logging)")
	flags.StringVar(&c.LogLevel, c.Flags.LogLevel, c.LogLevel,
		"log level, one of: debug, info, warn, error")
}

// RegisterCompletions registers shell completions for monitor flags on
// cmd.
func (c *Config) RegisterCompletions(cmd *cobra.Command) error {
	err := cmd.RegisterFlagCompletionFunc(c.Flags.LogLevel,
		cobra.FixedCompletions([]string{"debug", "info", "warn", "error"},
			cobra.ShellCompDirectiveNoFileComp))
	if err != nil {
		return fmt.Errorf("registering log-level completion: %w", err)
	}

	return nil
}

// LoadFile overlays c with values from a YAML config file. Unknown keys
// are rejected.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path) //nolint:gosec // Config path from CLI flag is expected.
	if err != nil {
		return fmt.Errorf("%w: %w", ErrReadConfig, err)
	}

	err = yaml.UnmarshalWithOptions(data, c, yaml.Strict())
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrReadConfig, path, err)
	}

	return nil
}

// Validate checks that intervals are positive and the log level is
// known.
func (c *Config) Validate() error {
	if time.Duration(c.SampleInterval) <= 0 {
		return fmt.Errorf("%w: sample interval must be positive, got %s",
			ErrInvalidConfig, c.SampleInterval)
	}

	if time.Duration(c.ThrottleWindow) <= 0 {
		return fmt.Errorf("%w: throttle window must be positive, got %s",
			ErrInvalidConfig, c.ThrottleWindow)
	}

	_, err := charmlog.ParseLevel(c.LogLevel)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	return nil
}

// Schema returns the JSON Schema (Draft 7) describing the YAML config
// file accepted by [Config.LoadFile].
func Schema() *jsonschema.Schema {
	duration := func(desc string, def time.Duration) *jsonschema.Schema {
		return &jsonschema.Schema{
			Type:        "string",
			Description: desc,
			Default:     defaultValue(def.String()),
		}
	}

	return &jsonschema.Schema{
		Schema:      "http://json-schema.org/draft-07/schema#",
		Title:       "eventualmon configuration",
		Description: "Settings for the eventualmon runtime dashboard.",
		Type:        "object",
		Properties: map[string]*jsonschema.Schema{
			"sampleInterval": duration(
				"How often the Go runtime is sampled, as a Go duration.",
				500*time.Millisecond),
			"throttleWindow": duration(
				"Minimum delay between dashboard refreshes, as a Go duration.",
				time.Second),
			"logFile": {
				Type:        "string",
				Description: "File receiving the structured frame log; empty disables logging.",
			},
			"logLevel": {
				Type:        "string",
				Description: "Log level: debug, info, warn, or error.",
				Default:     defaultValue("info"),
			},
		},
		AdditionalProperties: &jsonschema.Schema{Not: &jsonschema.Schema{}},
	}
}
