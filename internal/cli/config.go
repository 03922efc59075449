package cli

import "time"

// Config holds the global flags of portalctl.
type Config struct {
	BaseURL string        // Base URL of the platform API
	Timeout time.Duration // HTTP request timeout
	Verbose bool          // Log debug diagnostics
}

// Exit codes.
const (
	ExitOK     = 0
	ExitNoData = 1
	ExitUsage  = 2
)
