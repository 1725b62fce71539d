package model

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pipegraph/internal/config"
	"github.com/vk/pipegraph/internal/ctxlog"
	"github.com/vk/pipegraph/internal/registry"
	"github.com/vk/pipegraph/internal/trace"
)

// Declared is a local composite module built from a manifest. Its Forward
// interprets the declared steps symbolically: child calls go through the
// scope, indexed references become element selections, and the declared
// output reference names the result.
type Declared struct {
	name     string
	inputs   []string
	children []trace.NamedChild
	forward  *config.Forward
}

// Build constructs the module tree for a declared pipeline. Remote modules
// get a transport invoker from the registry; pass a nil registry to build
// a tree for inspection only.
func Build(ctx context.Context, p *config.Pipeline, reg *registry.Registry) (*Declared, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Build: constructing module tree.", "pipeline", p.Name)
	return buildDeclared(ctx, p.Name, p.Inputs, p.Remotes, p.Modules, p.Forward, reg)
}

func buildDeclared(ctx context.Context, name string, inputs []string, remotes []*config.Remote, modules []*config.Module, forward *config.Forward, reg *registry.Registry) (*Declared, error) {
	if forward == nil {
		return nil, fmt.Errorf("module %q has no forward block", name)
	}
	d := &Declared{name: name, inputs: inputs, forward: forward}

	for _, rc := range remotes {
		remote := NewRemote(rc.Name, rc.Worker)
		if reg != nil {
			inv, err := reg.NewInvoker(rc.Worker)
			if err != nil {
				return nil, fmt.Errorf("remote %q: %w", rc.Name, err)
			}
			remote.SetInvoker(inv)
		}
		d.children = append(d.children, trace.NamedChild{Name: rc.Name, Module: remote})
	}
	for _, mc := range modules {
		child, err := buildDeclared(ctx, mc.Name, mc.Inputs, mc.Remotes, mc.Modules, mc.Forward, reg)
		if err != nil {
			return nil, err
		}
		d.children = append(d.children, trace.NamedChild{Name: mc.Name, Module: child})
	}
	return d, nil
}

// Name returns the declared name of this module.
func (d *Declared) Name() string {
	return d.name
}

// Inputs returns the ordered declared input names.
func (d *Declared) Inputs() []string {
	return d.inputs
}

func (d *Declared) Forward(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
	if len(args) != len(d.inputs) {
		return trace.Value{}, fmt.Errorf("module %q expects %d inputs, got %d", d.name, len(d.inputs), len(args))
	}

	inputs := make(map[string]trace.Value, len(d.inputs))
	for i, name := range d.inputs {
		inputs[name] = args[i]
	}
	steps := make(map[string]trace.Value, len(d.forward.Steps))

	resolve := func(ref config.ArgRef) (trace.Value, error) {
		switch ref.Kind {
		case config.RefInput:
			v, ok := inputs[ref.Name]
			if !ok {
				return trace.Value{}, fmt.Errorf("module %q: reference to undeclared input %q", d.name, ref.Name)
			}
			return v, nil
		case config.RefStep:
			v, ok := steps[ref.Name]
			if !ok {
				return trace.Value{}, fmt.Errorf("module %q: reference to undefined step %q", d.name, ref.Name)
			}
			return v, nil
		case config.RefStepIndexed:
			v, ok := steps[ref.Name]
			if !ok {
				return trace.Value{}, fmt.Errorf("module %q: reference to undefined step %q", d.name, ref.Name)
			}
			return sc.Select(v, ref.Index)
		default:
			return trace.Value{}, fmt.Errorf("module %q: unrecognized argument reference %s", d.name, ref)
		}
	}

	for _, step := range d.forward.Steps {
		vals := make([]trace.Value, len(step.Args))
		for i, ref := range step.Args {
			v, err := resolve(ref)
			if err != nil {
				return trace.Value{}, err
			}
			vals[i] = v
		}
		out, err := sc.Call(ctx, step.Call, vals...)
		if err != nil {
			return trace.Value{}, err
		}
		steps[step.Name] = out
	}

	return resolve(d.forward.Output)
}

func (d *Declared) NamedChildren() []trace.NamedChild {
	return d.children
}

// Close releases the transport connections of every remote module in the
// tree.
func (d *Declared) Close() error {
	var errs []error
	for _, c := range d.children {
		switch m := c.Module.(type) {
		case *Remote:
			if err := m.Close(); err != nil {
				errs = append(errs, fmt.Errorf("remote %q: %w", c.Name, err))
			}
		case *Declared:
			if err := m.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
