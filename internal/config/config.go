// Package config defines portal configuration structures and loading hooks.
//
// Conventions:
// - New() builds a Config with defaults; Load(ctx) layers overrides on top.
// - External errors are wrapped with this package's sentinel errors.
package config

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the portal HTTP listen address, e.g. ":8090".
	Addr string `koanf:"addr"`

	// APIBaseURL is the origin of the platform API the request client talks to.
	APIBaseURL string `koanf:"api_base_url"`

	// RequestTimeoutMS bounds each upstream request. Zero leaves requests unbounded.
	RequestTimeoutMS int `koanf:"request_timeout_ms"`

	// ActivityLimit is the default page size of the activity feed.
	ActivityLimit int `koanf:"activity_limit"`

	// Sidebar footer identity.
	UserName     string `koanf:"user_name"`
	UserRole     string `koanf:"user_role"`
	UserInitials string `koanf:"user_initials"`

	// ActivityBadge is the badge text on the Activity navigation entry.
	ActivityBadge string `koanf:"activity_badge"`

	// LanguageColors overrides or extends the built-in language color table.
	LanguageColors map[string]string `koanf:"language_colors"`

	// Metrics configures the collectors exposed on /healthz. Empty buckets
	// keep the built-in latency buckets.
	MetricsEnabled   bool      `koanf:"metrics_enabled"`
	MetricsNamespace string    `koanf:"metrics_namespace"`
	MetricsSubsystem string    `koanf:"metrics_subsystem"`
	MetricsBucketsMS []float64 `koanf:"metrics_buckets_ms"`
}

// New creates a Config populated with defaults.
func New() *Config {
	return &Config{
		LogLevel:         "info",
		Addr:             ":8090",
		APIBaseURL:       "http://localhost:8000",
		RequestTimeoutMS: 10_000,
		ActivityLimit:    20,
		UserName:         "Shiva K.",
		UserRole:         "Platform Engineer",
		UserInitials:     "SK",
		ActivityBadge:    "12",
		LanguageColors:   map[string]string{},
		MetricsEnabled:   true,
		MetricsNamespace: "devportal",
		MetricsSubsystem: "portal",
	}
}
