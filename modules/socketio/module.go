// Package socketio provides the socket.io worker transport. It backs the
// ws and wss worker-URL schemes.
package socketio

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/vk/pipegraph/internal/registry"
	"github.com/vk/pipegraph/internal/transport"
	"github.com/zishang520/engine.io-client-go/transports"
	"github.com/zishang520/engine.io/v2/types"
	"github.com/zishang520/socket.io-client-go/socket"
)

// Module implements the registry.Module interface for this package.
type Module struct {
	// InsecureSkipVerify disables TLS certificate verification for wss
	// workers. Intended for local development only.
	InsecureSkipVerify bool

	// InvokeTimeout bounds a single Invoke round trip. Zero means the
	// default of 30 seconds.
	InvokeTimeout time.Duration
}

// opResult is a private struct to safely pass results through the done channel.
type opResult struct {
	values []any
	err    error
}

// invoker holds one socket.io connection to a worker endpoint.
type invoker struct {
	workerURL string
	io        *socket.Socket
	manager   *socket.Manager
	connected atomic.Bool
	timeout   time.Duration
}

// newInvoker parses the worker URL and prepares a lazily connected client.
func (m *Module) newInvoker(workerURL string) (transport.Invoker, error) {
	parsedURL, err := url.Parse(workerURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse worker URL: %w", err)
	}

	baseURL := fmt.Sprintf("%s://%s", parsedURL.Scheme, parsedURL.Host)
	opts := socket.DefaultOptions()
	opts.SetPath(parsedURL.Path)
	if m.InsecureSkipVerify {
		opts.SetTLSClientConfig(&tls.Config{InsecureSkipVerify: true})
	}
	opts.SetTransports(types.NewSet(transports.WebSocket))

	manager := socket.NewManager(baseURL, opts)
	io := manager.Socket("/", opts)

	timeout := m.InvokeTimeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	inv := &invoker{workerURL: workerURL, io: io, manager: manager, timeout: timeout}
	io.On(types.EventName("connect"), func(...any) {
		inv.connected.Store(true)
	})
	io.On(types.EventName("disconnect"), func(...any) {
		inv.connected.Store(false)
	})
	return inv, nil
}

// Invoke sends the positional arguments to the worker's invoke event and
// waits for a result, error, or connection failure.
func (v *invoker) Invoke(ctx context.Context, args []any) ([]any, error) {
	done := make(chan opResult, 1)
	opCtx, cancel := context.WithTimeout(ctx, v.timeout)
	defer cancel()

	v.io.Once(types.EventName("result"), func(data ...any) {
		done <- opResult{values: data}
	})
	v.io.Once(types.EventName("error"), func(data ...any) {
		done <- opResult{err: fmt.Errorf("worker %s reported an error: %v", v.workerURL, data)}
	})
	v.io.Once(types.EventName("connect_error"), func(errs ...any) {
		done <- opResult{err: errs[0].(error)}
	})

	if !v.connected.Load() {
		v.io.Connect()
	}
	v.io.Emit("invoke", args...)

	select {
	case <-opCtx.Done():
		if v.connected.Load() {
			return nil, fmt.Errorf("timed out after connecting while waiting for a result from %s", v.workerURL)
		}
		return nil, fmt.Errorf("timed out while waiting for initial connection to %s", v.workerURL)
	case res := <-done:
		return res.values, res.err
	}
}

// Close disconnects the socket client.
func (v *invoker) Close() error {
	v.io.Disconnect()
	return nil
}

// Register registers the transport with the engine for both websocket
// schemes.
func (m *Module) Register(r *registry.Registry) {
	t := &registry.RegisteredTransport{
		Description: "socket.io worker transport over websocket",
		New:         m.newInvoker,
	}
	r.RegisterTransport("ws", t)
	r.RegisterTransport("wss", t)
}
