package trace

import (
	"context"
	"fmt"
)

// Scope is handed to a module's Forward during tracing. All submodule
// invocations and element selections must go through it so they are
// recorded in the trace.
type Scope struct {
	tracer *Tracer
	run    *run
	module Module
	prefix string
}

// Call symbolically invokes the child with the given name. Leaf children
// (per the tracer's policy) are recorded as opaque module calls; local
// children are unfolded by running their Forward under a nested scope.
func (s *Scope) Call(ctx context.Context, name string, args ...Value) (Value, error) {
	var child Module
	for _, c := range s.tracer.lister(s.module) {
		if c.Name == name {
			child = c.Module
			break
		}
	}
	if child == nil {
		return Value{}, fmt.Errorf("module %q has no child named %q", s.location(), name)
	}

	qualified := joinPath(s.prefix, name)
	for i, a := range args {
		if a.node == nil {
			return Value{}, fmt.Errorf("call to %q: argument %d is not a traced value", qualified, i)
		}
	}

	if s.tracer.policy.IsLeaf(child, qualified) {
		refs := make([]*Node, len(args))
		for i, a := range args {
			refs[i] = a.node
		}
		n := s.run.record(&Node{Kind: KindModuleCall, Target: qualified, Args: refs})
		return Value{node: n}, nil
	}

	nested := &Scope{tracer: s.tracer, run: s.run, module: child, prefix: qualified}
	out, err := child.Forward(ctx, nested, args...)
	if err != nil {
		return Value{}, fmt.Errorf("%q: %w", qualified, err)
	}
	return out, nil
}

// Select records indexing into v's result. Selecting the same value at the
// same index twice within one trace reuses the first recorded node.
func (s *Scope) Select(v Value, index int) (Value, error) {
	if v.node == nil {
		return Value{}, fmt.Errorf("module %q: select on an untraced value", s.location())
	}
	if index < 0 {
		return Value{}, fmt.Errorf("module %q: negative selection index %d", s.location(), index)
	}
	key := selectKey{src: v.node, index: index}
	if n, ok := s.run.selects[key]; ok {
		return Value{node: n}, nil
	}
	n := s.run.record(&Node{Kind: KindSelectElement, Args: []*Node{v.node}, Index: index})
	s.run.selects[key] = n
	return Value{node: n}, nil
}

func (s *Scope) location() string {
	if s.prefix == "" {
		return "<root>"
	}
	return s.prefix
}
