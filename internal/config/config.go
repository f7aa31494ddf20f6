// Package config defines the data structures related to configuration and
// includes functions for loading and validating the config.
package config

import (
	"fmt"
	"io"

	"github.com/bankstacx/bankstacx/internal/stress"
	"github.com/bankstacx/bankstacx/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for bankstacx.
type Configuration struct {
	DataFile   string             `yaml:"dataFile,omitempty"`
	PeerCount  int                `yaml:"peerCount,omitempty"`
	Benchmarks map[string]float64 `yaml:"benchmarks,omitempty"`
	Logging    LoggingConfig      `yaml:"logging,omitempty"`
	Output     OutputConfig       `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from an
// in-memory source, e.g. an uploaded file.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	configuration.applyDefaults()
	return &configuration, nil
}

// Default returns a configuration with all defaults applied, used when no
// config file is supplied.
func Default() *Configuration {
	conf := &Configuration{}
	conf.applyDefaults()
	return conf
}

func (c *Configuration) applyDefaults() {
	if c.DataFile == "" {
		c.DataFile = constants.DefaultDataFile
	}
	if c.PeerCount == 0 {
		c.PeerCount = constants.DefaultPeerCount
	}
}

// BenchmarkTable merges the configured benchmark overrides onto the default
// regulatory minimums. This is the single source of benchmark constants;
// consumers receive the table rather than embedding their own copies.
func (c *Configuration) BenchmarkTable() stress.Benchmarks {
	return stress.DefaultBenchmarks().Merge(c.Benchmarks)
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if c.PeerCount < 1 {
		warnings = append(warnings, fmt.Sprintf("peerCount %d is below 1 and will be rejected at selection time", c.PeerCount))
	}

	for name, value := range c.Benchmarks {
		if !stress.IsMetric(name) {
			warnings = append(warnings, fmt.Sprintf("benchmark %q does not match any stress metric and will be ignored", name))
			continue
		}
		if value < 0 {
			warnings = append(warnings, fmt.Sprintf("benchmark %q is negative (%v)", name, value))
		}
	}

	if c.Output.Format != "" &&
		c.Output.Format != constants.OutputFormatPretty &&
		c.Output.Format != constants.OutputFormatCSV {
		warnings = append(warnings, fmt.Sprintf("output format %q is not supported and will be rejected", c.Output.Format))
	}

	return warnings
}
