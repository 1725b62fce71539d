// Package transport defines the boundary between the pipeline and the
// workers that execute remote modules. The graph build itself never
// invokes a worker; invokers exist so that a fully built graph can be
// handed to an execution layer with live connections already attached.
package transport

import "context"

// Invoker executes one remote module on its worker. Implementations are
// created per remote endpoint and must be safe for sequential reuse.
type Invoker interface {
	// Invoke sends the positional arguments to the worker and returns the
	// module's result values. A module with a single (whole) result returns
	// a one-element slice.
	Invoke(ctx context.Context, args []any) ([]any, error)

	// Close releases any connection state held by the invoker.
	Close() error
}

// Factory creates an Invoker for a worker endpoint URL. Factories are
// registered per URL scheme.
type Factory func(workerURL string) (Invoker, error)
