package config

import (
	"fmt"
)

// Validate checks config values for correctness.
// Returns an error if any values are invalid.
func (c *Config) Validate() error {
	var errs []string

	if c.Provider.DefaultModel == "" {
		errs = append(errs, "provider.default_model must not be empty")
	}

	if c.Tools.MaxFileSize < 1 {
		errs = append(errs, "tools.max_file_size must be >= 1")
	}
	if c.Tools.DefaultShellTimeout < 1 {
		errs = append(errs, "tools.default_shell_timeout must be >= 1")
	}
	if c.Tools.MaxShellTimeout < 1 {
		errs = append(errs, "tools.max_shell_timeout must be >= 1")
	}
	if c.Tools.DefaultMaxOutput < 1 {
		errs = append(errs, "tools.default_max_output must be >= 1")
	}
	if c.Tools.HardOutputCeiling < 1 {
		errs = append(errs, "tools.hard_output_ceiling must be >= 1")
	}
	if c.Tools.GracefulShutdownMs < 1 {
		errs = append(errs, "tools.graceful_shutdown_ms must be >= 1")
	}
	if c.Tools.BinarySampleSize < 1 {
		errs = append(errs, "tools.binary_sample_size must be >= 1")
	}
	if c.Tools.WebSearchMaxResults < 1 {
		errs = append(errs, "tools.web_search_max_results must be >= 1")
	}
	if c.Tools.WebFetchMaxContent < 1 {
		errs = append(errs, "tools.web_fetch_max_content must be >= 1")
	}
	if c.Tools.WebAPIBaseURL == "" {
		errs = append(errs, "tools.web_api_base_url must not be empty")
	}
	if c.Tools.MaxIterations < 1 {
		errs = append(errs, "tools.max_iterations must be >= 1")
	}

	// Semantic validation: Default <= Max constraints
	if c.Tools.DefaultShellTimeout > c.Tools.MaxShellTimeout {
		errs = append(errs, "tools.default_shell_timeout must be <= tools.max_shell_timeout")
	}
	if c.Tools.DefaultMaxOutput > c.Tools.HardOutputCeiling {
		errs = append(errs, "tools.default_max_output must be <= tools.hard_output_ceiling")
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %v", errs)
	}

	return nil
}
