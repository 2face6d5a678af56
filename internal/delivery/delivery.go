// Package delivery defines the contract every transport (HTTP, worker, ...)
// implements so the application can start them uniformly.
package delivery

import "context"

// Delivery is a long-running transport serving the application.
type Delivery interface {
	// Serve blocks, serving requests until the server is shut down.
	Serve(ctx context.Context) error
}
