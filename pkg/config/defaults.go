package config

import (
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"github.com/ccollicutt/logtally/pkg/parser"
)

// Default values for configuration.
const (
	DefaultOutput         = OutputText
	DefaultWebhookTimeout = 10 * time.Second
)

// Environment variable names.
const (
	EnvSources  = "LOGTALLY_SOURCES"
	EnvWorkers  = "LOGTALLY_WORKERS"
	EnvMinLevel = "LOGTALLY_MIN_LEVEL"
)

// DefaultWorkers is the number of files parsed concurrently by default.
func DefaultWorkers() int {
	return runtime.NumCPU()
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Sources: []string{},
		Workers: DefaultWorkers(),
		Output:  DefaultOutput,
	}
}

// applyEnvironmentOverrides applies environment variable overrides to the config.
func (c *Config) applyEnvironmentOverrides() error {
	if v := os.Getenv(EnvSources); v != "" {
		c.Sources = nil
		for _, s := range strings.Split(v, ",") {
			if s = strings.TrimSpace(s); s != "" {
				c.Sources = append(c.Sources, s)
			}
		}
	}

	if v := os.Getenv(EnvWorkers); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWorkers, err)
		}
		c.Workers = n
	}

	if v := os.Getenv(EnvMinLevel); v != "" {
		level, err := parser.ParseLevel(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvMinLevel, err)
		}
		c.MinLevel = &level
	}

	return nil
}
