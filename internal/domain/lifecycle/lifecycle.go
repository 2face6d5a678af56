// Package lifecycle holds shared timeouts for application start/stop hooks.
package lifecycle

import "time"

// DefaultTimeout bounds startup pings and graceful shutdown.
const DefaultTimeout = 30 * time.Second
