package config

// Config holds all application configuration values.
// Defaults are set in DefaultConfig() and can be overridden via dotfile.
// NOTE: Values in config files override defaults, including explicit zero values.
// Missing keys are left at their default values.
type Config struct {
	Provider ProviderConfig `json:"provider"`
	Tools    ToolsConfig    `json:"tools"`
}

type ProviderConfig struct {
	// DefaultModel is used when no --model flag is given.
	DefaultModel string `json:"default_model"` // Default: "gemini-2.5-flash"
}

type ToolsConfig struct {
	// File Operations
	MaxFileSize int64 `json:"max_file_size"` // Default: 20 * 1024 * 1024 (20MB)

	// Command Execution
	DefaultShellTimeout int   `json:"default_shell_timeout"`   // Default: 30 (seconds)
	MaxShellTimeout     int   `json:"max_shell_timeout"`       // Default: 600 (10 minutes)
	DefaultMaxOutput    int   `json:"default_max_output"`      // Default: 64 * 1024 (bytes per stream)
	HardOutputCeiling   int   `json:"hard_output_ceiling"`     // Default: 10 * 1024 * 1024 (10MB)
	GracefulShutdownMs  int   `json:"graceful_shutdown_ms"`    // Default: 2000
	BinarySampleSize    int   `json:"binary_sample_size"`      // Default: 4096

	// Web
	WebSearchMaxResults int    `json:"web_search_max_results"` // Default: 5
	WebFetchMaxContent  int    `json:"web_fetch_max_content"`  // Default: 8000 (bytes)
	WebAPIBaseURL       string `json:"web_api_base_url"`       // Default: "https://ollama.com"

	// Workflow
	MaxIterations int `json:"max_iterations"` // Default: 50
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Provider: ProviderConfig{
			DefaultModel: "gemini-2.5-flash",
		},
		Tools: ToolsConfig{
			MaxFileSize:         20 * 1024 * 1024,
			DefaultShellTimeout: 30,
			MaxShellTimeout:     600,
			DefaultMaxOutput:    64 * 1024,
			HardOutputCeiling:   10 * 1024 * 1024,
			GracefulShutdownMs:  2000,
			BinarySampleSize:    4096,
			WebSearchMaxResults: 5,
			WebFetchMaxContent:  8000,
			WebAPIBaseURL:       "https://ollama.com",
			MaxIterations:       50,
		},
	}
}
