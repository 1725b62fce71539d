package model

import (
	"context"
	"fmt"

	"github.com/vk/pipegraph/internal/trace"
	"github.com/vk/pipegraph/internal/transport"
)

// Remote is a handle to a module whose computation runs on a different
// worker. During tracing it is an opaque leaf: only its invocation is
// recorded, never its internals.
type Remote struct {
	// Name is the instance name within its parent module.
	Name string
	// Worker is the endpoint URL of the worker that executes this module.
	Worker string

	invoker transport.Invoker
	body    trace.Module
}

// NewRemote creates a remote module handle for the given worker endpoint.
func NewRemote(name, worker string) *Remote {
	return &Remote{Name: name, Worker: worker}
}

// SetInvoker attaches the transport connection used by Invoke.
func (r *Remote) SetInvoker(inv transport.Invoker) {
	r.invoker = inv
}

// SetBody attaches a local stand-in for the module's on-worker structure.
// The body is descriptive only; tracing must never descend into it.
func (r *Remote) SetBody(body trace.Module) {
	r.body = body
}

// Invoke executes the module on its worker through the attached transport.
func (r *Remote) Invoke(ctx context.Context, args []any) ([]any, error) {
	if r.invoker == nil {
		return nil, fmt.Errorf("remote module %q has no transport attached", r.Name)
	}
	return r.invoker.Invoke(ctx, args)
}

// Close releases the attached transport connection, if any.
func (r *Remote) Close() error {
	if r.invoker == nil {
		return nil
	}
	return r.invoker.Close()
}

// Forward implements trace.Module. A remote module never runs in-process;
// reaching this method means the tracer's leaf classification is broken.
func (r *Remote) Forward(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
	return trace.Value{}, fmt.Errorf("remote module %q cannot run in-process", r.Name)
}

// NamedChildren exposes the stand-in body's structure when one is
// attached. Tracing hides this listing via a scoped child-lister override.
func (r *Remote) NamedChildren() []trace.NamedChild {
	if r.body == nil {
		return nil
	}
	return r.body.NamedChildren()
}

// Sequential is a local container that chains its children: the first
// child receives the container's arguments, each later child receives the
// previous child's result.
type Sequential struct {
	children []trace.NamedChild
}

// NewSequential creates an empty sequential container.
func NewSequential() *Sequential {
	return &Sequential{}
}

// Add appends a named child and returns the container for chaining.
func (s *Sequential) Add(name string, m trace.Module) *Sequential {
	s.children = append(s.children, trace.NamedChild{Name: name, Module: m})
	return s
}

func (s *Sequential) Forward(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
	if len(s.children) == 0 {
		return trace.Value{}, fmt.Errorf("sequential module has no children")
	}
	out, err := sc.Call(ctx, s.children[0].Name, args...)
	if err != nil {
		return trace.Value{}, err
	}
	for _, c := range s.children[1:] {
		out, err = sc.Call(ctx, c.Name, out)
		if err != nil {
			return trace.Value{}, err
		}
	}
	return out, nil
}

func (s *Sequential) NamedChildren() []trace.NamedChild {
	return s.children
}

// ForwardFunc is the signature of a hand-written local forward.
type ForwardFunc func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error)

// Func is a local module whose forward is a plain function. It is the
// lightest way to assemble models in code.
type Func struct {
	children []trace.NamedChild
	forward  ForwardFunc
}

// NewFunc creates a local module around the given forward function.
func NewFunc(forward ForwardFunc) *Func {
	return &Func{forward: forward}
}

// Add appends a named child and returns the module for chaining.
func (f *Func) Add(name string, m trace.Module) *Func {
	f.children = append(f.children, trace.NamedChild{Name: name, Module: m})
	return f
}

func (f *Func) Forward(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
	return f.forward(ctx, sc, args...)
}

func (f *Func) NamedChildren() []trace.NamedChild {
	return f.children
}
