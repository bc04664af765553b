// Package backend defines the interface to text-generation backends
// and the catalog of known gateway models.
package backend

import "context"

// Request carries one generation call's inputs.
type Request struct {
	System string
	// User holds ordered user-role message parts.
	User []string
	// CorrelationID is forwarded to the gateway for tracing.
	CorrelationID string
}

// Backend is an opaque text-generation service. Implementations own
// transport, authentication, and timeouts; callers own retries (none
// in this tool) and concurrency.
type Backend interface {
	Name() string
	Generate(ctx context.Context, req Request) (string, error)
}

// Invoker adapts a plain function to run one backend call. The
// orchestrator takes an Invoker so tests and alternative transports
// can stand in for the gateway client.
type Invoker func(ctx context.Context, backendID string, req Request) (string, error)
