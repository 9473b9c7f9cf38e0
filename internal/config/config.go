// SPDX-License-Identifier: MPL-2.0

package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ErrInvalidConfig is the sentinel wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

type (
	// Config holds everything one build run needs. It is assembled once
	// at startup and treated as read-only afterwards.
	Config struct {
		// Sources is the ordered list of "bucket:key" artifact
		// descriptors. Order is load-bearing: script steps execute in
		// this order.
		Sources []string `mapstructure:"sources"`

		// ParameterName is the SSM Parameter Store path that receives
		// the resulting AMI ID.
		ParameterName string `mapstructure:"parameter_name"`

		// InstanceType is the EC2 instance type for the transient
		// build instance.
		InstanceType string `mapstructure:"instance_type"`

		// KeyName optionally attaches an EC2 key pair for debugging
		// access to the build instance.
		KeyName string `mapstructure:"key_name"`

		// InstanceProfile optionally names the IAM instance profile
		// attached to the build instance. Without one the instance
		// needs S3/SSM access some other way.
		InstanceProfile string `mapstructure:"instance_profile"`

		// ExecutionTimeout bounds remote execution of the whole plan.
		ExecutionTimeout time.Duration `mapstructure:"execution_timeout"`

		// PollInterval is the delay between SSM invocation status
		// checks.
		PollInterval time.Duration `mapstructure:"poll_interval"`

		// FetchConcurrency bounds parallel artifact downloads.
		FetchConcurrency int `mapstructure:"fetch_concurrency"`
	}

	// ValidationError collects field-level problems found by Validate.
	// It wraps ErrInvalidConfig for errors.Is compatibility.
	ValidationError struct {
		FieldErrors []error
	}
)

// Error implements the error interface.
func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.FieldErrors))
	for _, err := range e.FieldErrors {
		msgs = append(msgs, err.Error())
	}
	return "invalid configuration: " + strings.Join(msgs, "; ")
}

// Unwrap makes errors.Is(err, ErrInvalidConfig) work.
func (e *ValidationError) Unwrap() error { return ErrInvalidConfig }

// DefaultConfig returns the built-in defaults, matching the historical
// behavior of the builder.
func DefaultConfig() *Config {
	return &Config{
		InstanceType:     "t2.micro",
		ExecutionTimeout: 30 * time.Minute,
		PollInterval:     30 * time.Second,
		FetchConcurrency: 4,
	}
}

// Load builds the effective configuration from defaults, an optional config
// file, and the environment. An empty configFile skips the file layer; a
// named file that cannot be read is an error.
func Load(configFile string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("instance_type", defaults.InstanceType)
	v.SetDefault("execution_timeout", defaults.ExecutionTimeout)
	v.SetDefault("poll_interval", defaults.PollInterval)
	v.SetDefault("fetch_concurrency", defaults.FetchConcurrency)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config file %s: %w", configFile, err)
		}
	}

	// Historical env names take precedence over the file layer. The
	// AMIB_-prefixed spellings are accepted as aliases.
	bindings := map[string][]string{
		"sources":           {"PACKAGE_SOURCES", "AMIB_SOURCES"},
		"parameter_name":    {"PARAM_STORE_NAME", "AMIB_PARAMETER_NAME"},
		"instance_type":     {"INSTANCE_TYPE", "AMIB_INSTANCE_TYPE"},
		"key_name":          {"KEY_NAME", "AMIB_KEY_NAME"},
		"instance_profile":  {"INSTANCE_PROFILE_NAME", "AMIB_INSTANCE_PROFILE"},
		"execution_timeout": {"AMIB_EXECUTION_TIMEOUT"},
		"poll_interval":     {"AMIB_POLL_INTERVAL"},
		"fetch_concurrency": {"AMIB_FETCH_CONCURRENCY"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal configuration: %w", err)
	}

	// PACKAGE_SOURCES arrives as a JSON array when set via environment;
	// viper hands it through as a single string element in that case.
	sources, err := normalizeSources(cfg.Sources)
	if err != nil {
		return nil, err
	}
	cfg.Sources = sources

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// normalizeSources accepts either an already-split descriptor list (config
// file) or a JSON array string (environment) and returns the ordered
// descriptor list. The decode hook splits env values on commas before we see
// them, so a JSON array may arrive as several fragments; rejoining restores
// the original value.
func normalizeSources(raw []string) ([]string, error) {
	if len(raw) == 0 || !strings.HasPrefix(strings.TrimSpace(raw[0]), "[") {
		return raw, nil
	}
	var parsed []string
	if err := json.Unmarshal([]byte(strings.Join(raw, ",")), &parsed); err != nil {
		return nil, fmt.Errorf("%w: PACKAGE_SOURCES is not a JSON string array: %v", ErrInvalidConfig, err)
	}
	return parsed, nil
}

// Validate checks the loaded configuration for completeness.
func (c *Config) Validate() error {
	var fieldErrors []error
	if len(c.Sources) == 0 {
		fieldErrors = append(fieldErrors, errors.New("sources must list at least one \"bucket:key\" descriptor"))
	}
	if c.ParameterName == "" {
		fieldErrors = append(fieldErrors, errors.New("parameter_name must name the Parameter Store path for the AMI ID"))
	}
	if c.ExecutionTimeout <= 0 {
		fieldErrors = append(fieldErrors, errors.New("execution_timeout must be positive"))
	}
	if c.PollInterval <= 0 {
		fieldErrors = append(fieldErrors, errors.New("poll_interval must be positive"))
	}
	if len(fieldErrors) > 0 {
		return &ValidationError{FieldErrors: fieldErrors}
	}
	return nil
}
