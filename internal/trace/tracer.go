package trace

import (
	"context"
	"errors"
	"fmt"

	"github.com/vk/pipegraph/internal/ctxlog"
)

// LeafPolicy decides whether a module is traced through transparently or
// recorded as a single opaque call. qualifiedName is the module's dotted
// path relative to the trace root.
type LeafPolicy interface {
	IsLeaf(m Module, qualifiedName string) bool
}

// ChildLister is how the tracer introspects a module's children.
type ChildLister func(m Module) []NamedChild

// DefaultChildLister asks the module itself.
func DefaultChildLister(m Module) []NamedChild {
	return m.NamedChildren()
}

// Tracer records operation traces for symbolic module invocations. A
// Tracer must not be shared across concurrent Trace calls; tracing
// different models with different Tracer instances is safe.
type Tracer struct {
	policy LeafPolicy
	lister ChildLister
}

// NewTracer creates a tracer with the given leaf policy and the default
// child lister.
func NewTracer(policy LeafPolicy) *Tracer {
	return &Tracer{policy: policy, lister: DefaultChildLister}
}

// SetChildLister replaces how the tracer introspects module children and
// returns a function that restores the previous lister. Callers must
// invoke the restore function (normally via defer) so that a failed trace
// never leaves the override installed.
func (t *Tracer) SetChildLister(l ChildLister) (restore func()) {
	prev := t.lister
	t.lister = l
	return func() { t.lister = prev }
}

// Trace symbolically invokes root with one placeholder per entry of
// argNames and returns the recorded trace. Errors from the traced forward
// propagate wrapped with the module path that raised them.
func (t *Tracer) Trace(ctx context.Context, root Module, argNames []string) (*Trace, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Trace: starting symbolic invocation.", "inputs", len(argNames))

	if root == nil {
		return nil, errors.New("trace: root module is nil")
	}
	if err := t.validateTree(root); err != nil {
		return nil, err
	}

	r := &run{
		trace:   &Trace{Root: root},
		selects: make(map[selectKey]*Node),
	}
	sc := &Scope{tracer: t, run: r, module: root}

	args := make([]Value, len(argNames))
	for i, name := range argNames {
		args[i] = Value{node: r.record(&Node{Kind: KindPlaceholder, Target: name})}
	}

	out, err := root.Forward(ctx, sc, args...)
	if err != nil {
		return nil, fmt.Errorf("trace: %w", err)
	}
	if out.node == nil {
		return nil, errors.New("trace: forward returned no traced value")
	}
	r.record(&Node{Kind: KindOutput, Args: []*Node{out.node}})

	logger.Debug("Trace: symbolic invocation complete.", "nodes", len(r.trace.Nodes))
	return r.trace, nil
}

// validateTree walks the module tree through the configured child lister,
// rejecting duplicate sibling names and self-referential structure before
// any operation is recorded.
func (t *Tracer) validateTree(root Module) error {
	onPath := make(map[Module]bool)

	var walk func(m Module, prefix string) error
	walk = func(m Module, prefix string) error {
		if onPath[m] {
			return fmt.Errorf("trace: module tree contains a cycle at %q", prefix)
		}
		onPath[m] = true
		defer delete(onPath, m)

		seen := make(map[string]bool)
		for _, c := range t.lister(m) {
			if c.Module == nil {
				return fmt.Errorf("trace: child %q of %q is nil", c.Name, prefix)
			}
			if seen[c.Name] {
				return fmt.Errorf("trace: duplicate child name %q under %q", c.Name, prefix)
			}
			seen[c.Name] = true
			if err := walk(c.Module, joinPath(prefix, c.Name)); err != nil {
				return err
			}
		}
		return nil
	}

	return walk(root, "")
}

// run is the mutable state of a single trace invocation, shared by all
// scopes spawned from it.
type run struct {
	trace   *Trace
	selects map[selectKey]*Node
}

type selectKey struct {
	src   *Node
	index int
}

func (r *run) record(n *Node) *Node {
	n.Seq = len(r.trace.Nodes)
	r.trace.Nodes = append(r.trace.Nodes, n)
	return n
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
