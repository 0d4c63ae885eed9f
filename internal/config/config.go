// Package config defines client configuration structures and loading hooks.
//
// Conventions:
// - Provide New() initializer to build a Config with defaults.
// - Load() layers defaults, optional YAML file, and environment variables.
package config

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// BackendURL is the base URL of the persistence/auth backend.
	BackendURL string `koanf:"backend_url"`

	// BackendAnonKey is the anonymous API key presented on every request
	// until a sign-in replaces the bearer token.
	BackendAnonKey string `koanf:"backend_anon_key"`

	// WordgenURL is the chat-completion endpoint for word generation.
	WordgenURL string `koanf:"wordgen_url"`

	// WordgenAPIKey authenticates against the word generator.
	WordgenAPIKey string `koanf:"wordgen_api_key"`

	// WordgenModel selects the completion model.
	WordgenModel string `koanf:"wordgen_model"`

	// SessionPath overrides where the session file is stored.
	// Empty selects a default under the user config dir.
	SessionPath string `koanf:"session_path"`

	// MetricsAddr serves Prometheus metrics when non-empty, e.g. ":9091".
	MetricsAddr string `koanf:"metrics_addr"`

	// LeaderboardLimit caps leaderboard queries.
	LeaderboardLimit int `koanf:"leaderboard_limit"`

	// Phase timing knobs, in seconds unless noted.
	WordRevealSeconds  int `koanf:"word_reveal_seconds"`
	WritingSeconds     int `koanf:"writing_seconds"`
	OwnTakeSkipSeconds int `koanf:"own_take_skip_seconds"`
	PollIntervalMS     int `koanf:"poll_interval_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:           "info",
		BackendURL:         "https://ylfzwxtrkxiitmldysso.supabase.co",
		BackendAnonKey:     "",
		WordgenURL:         "https://openrouter.ai/api/v1/chat/completions",
		WordgenAPIKey:      "",
		WordgenModel:       "mistralai/mistral-7b-instruct:free",
		SessionPath:        "",
		MetricsAddr:        "",
		LeaderboardLimit:   10,
		WordRevealSeconds:  5,
		WritingSeconds:     60,
		OwnTakeSkipSeconds: 3,
		PollIntervalMS:     1000,
	}
}
