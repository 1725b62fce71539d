// Package registry holds the transport implementations available to a
// single application instance and validates loaded manifests against them.
package registry

import (
	"fmt"
	"net/url"

	"github.com/vk/pipegraph/internal/transport"
)

// Module is the interface that all core modules must implement to be
// registered.
type Module interface {
	Register(r *Registry)
}

// RegisteredTransport binds a worker-URL scheme to a transport factory.
type RegisteredTransport struct {
	Description string
	New         transport.Factory
}

// Registry maps worker-URL schemes to their registered transports.
type Registry struct {
	Transports map[string]*RegisteredTransport
}

// New creates and initializes a new Registry instance.
func New() *Registry {
	return &Registry{
		Transports: make(map[string]*RegisteredTransport),
	}
}

// RegisterTransport makes a transport available under the given URL scheme.
// Registering a scheme twice overwrites the earlier entry.
func (r *Registry) RegisterTransport(scheme string, t *RegisteredTransport) {
	r.Transports[scheme] = t
}

// NewInvoker creates an invoker for a worker endpoint by dispatching on
// the URL scheme.
func (r *Registry) NewInvoker(workerURL string) (transport.Invoker, error) {
	u, err := url.Parse(workerURL)
	if err != nil {
		return nil, fmt.Errorf("invalid worker URL %q: %w", workerURL, err)
	}
	t, ok := r.Transports[u.Scheme]
	if !ok {
		return nil, fmt.Errorf("no transport registered for scheme %q (worker %q)", u.Scheme, workerURL)
	}
	return t.New(workerURL)
}
