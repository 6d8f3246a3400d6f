// Package config provides configuration loading and validation for logtally.
package config

import (
	"time"

	"github.com/ccollicutt/logtally/pkg/parser"
)

// OutputFormat selects how the report is rendered.
type OutputFormat string

const (
	OutputText OutputFormat = "text"
	OutputJSON OutputFormat = "json"
)

// Config is the root configuration structure loaded from YAML.
type Config struct {
	// Sources are files, directories or glob patterns to read.
	Sources []string `yaml:"sources"`

	// Recursive descends into nested directories of directory sources.
	Recursive bool `yaml:"recursive,omitempty"`

	// Workers is the number of files parsed concurrently.
	Workers int `yaml:"workers,omitempty"`

	// Output is the report format.
	Output OutputFormat `yaml:"output,omitempty"`

	// MinLevel drops records below this severity before aggregation.
	MinLevel *parser.Level `yaml:"min_level,omitempty"`

	// Since and Until restrict analysis to an inclusive time window.
	Since *parser.Timestamp `yaml:"since,omitempty"`
	Until *parser.Timestamp `yaml:"until,omitempty"`

	Webhooks []WebhookConfig `yaml:"webhooks,omitempty"`
}

// WebhookTrigger determines when a webhook fires.
type WebhookTrigger string

const (
	// WebhookTriggerOnErrors fires only when ERROR records were found (default).
	WebhookTriggerOnErrors WebhookTrigger = "on_errors"
	// WebhookTriggerAlways fires after every analysis.
	WebhookTriggerAlways WebhookTrigger = "always"
	// WebhookTriggerNever disables the webhook.
	WebhookTriggerNever WebhookTrigger = "never"
)

// WebhookConfig defines a webhook endpoint for sending reports.
type WebhookConfig struct {
	// Name is an optional identifier for the webhook.
	Name string `yaml:"name,omitempty"`

	// URL is the webhook endpoint (required).
	URL string `yaml:"url"`

	// Token is an optional bearer token. ${VAR} and $VAR are expanded.
	Token string `yaml:"token,omitempty"`

	// Trigger defaults to "on_errors".
	Trigger WebhookTrigger `yaml:"trigger,omitempty"`

	// Timeout defaults to 10s.
	Timeout time.Duration `yaml:"timeout,omitempty"`
}
