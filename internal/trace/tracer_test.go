package trace_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipegraph/internal/trace"
)

// fakeModule is a scriptable trace.Module for tests.
type fakeModule struct {
	children []trace.NamedChild
	forward  func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error)
}

func (m *fakeModule) Forward(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
	if m.forward == nil {
		return trace.Value{}, errors.New("forward not scripted")
	}
	return m.forward(ctx, sc, args...)
}

func (m *fakeModule) NamedChildren() []trace.NamedChild {
	return m.children
}

func (m *fakeModule) add(name string, child trace.Module) *fakeModule {
	m.children = append(m.children, trace.NamedChild{Name: name, Module: child})
	return m
}

// leafSet classifies modules as leaves by their qualified path.
type leafSet map[string]bool

func (s leafSet) IsLeaf(m trace.Module, qualifiedName string) bool {
	return s[qualifiedName]
}

func TestTrace_PlaceholdersRecordedInOrder(t *testing.T) {
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return sc.Call(ctx, "leaf", args[0], args[1])
	}}
	root.add("leaf", &fakeModule{})

	tr, err := trace.NewTracer(leafSet{"leaf": true}).Trace(context.Background(), root, []string{"x", "y"})
	require.NoError(t, err)
	require.Len(t, tr.Nodes, 4)

	assert.Equal(t, trace.KindPlaceholder, tr.Nodes[0].Kind)
	assert.Equal(t, "x", tr.Nodes[0].Target)
	assert.Equal(t, trace.KindPlaceholder, tr.Nodes[1].Kind)
	assert.Equal(t, "y", tr.Nodes[1].Target)
	assert.Equal(t, trace.KindModuleCall, tr.Nodes[2].Kind)
	assert.Equal(t, trace.KindOutput, tr.Nodes[3].Kind)
	assert.Equal(t, []*trace.Node{tr.Nodes[2]}, tr.Nodes[3].Args)
}

func TestTrace_LeafForwardNeverInvoked(t *testing.T) {
	invoked := false
	leaf := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		invoked = true
		return trace.Value{}, nil
	}}
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return sc.Call(ctx, "leaf", args[0])
	}}
	root.add("leaf", leaf)

	_, err := trace.NewTracer(leafSet{"leaf": true}).Trace(context.Background(), root, []string{"x"})
	require.NoError(t, err)
	assert.False(t, invoked, "leaf modules must be recorded opaquely, not run")
}

func TestTrace_LocalModulesUnfoldWithQualifiedPaths(t *testing.T) {
	inner := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return sc.Call(ctx, "worker", args[0])
	}}
	inner.add("worker", &fakeModule{})
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return sc.Call(ctx, "stage", args[0])
	}}
	root.add("stage", inner)

	tr, err := trace.NewTracer(leafSet{"stage.worker": true}).Trace(context.Background(), root, []string{"x"})
	require.NoError(t, err)

	var calls []*trace.Node
	for _, n := range tr.Nodes {
		if n.Kind == trace.KindModuleCall {
			calls = append(calls, n)
		}
	}
	require.Len(t, calls, 1)
	assert.Equal(t, "stage.worker", calls[0].Target)
}

func TestTrace_SelectSameIndexIsDeduplicated(t *testing.T) {
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		out, err := sc.Call(ctx, "leaf", args[0])
		if err != nil {
			return trace.Value{}, err
		}
		first, err := sc.Select(out, 0)
		if err != nil {
			return trace.Value{}, err
		}
		again, err := sc.Select(out, 0)
		if err != nil {
			return trace.Value{}, err
		}
		if first.Node() != again.Node() {
			return trace.Value{}, errors.New("expected the same select node")
		}
		other, err := sc.Select(out, 1)
		if err != nil {
			return trace.Value{}, err
		}
		if other.Node() == first.Node() {
			return trace.Value{}, errors.New("distinct indices must record distinct nodes")
		}
		return first, nil
	}}
	root.add("leaf", &fakeModule{})

	tr, err := trace.NewTracer(leafSet{"leaf": true}).Trace(context.Background(), root, []string{"x"})
	require.NoError(t, err)

	selects := 0
	for _, n := range tr.Nodes {
		if n.Kind == trace.KindSelectElement {
			selects++
		}
	}
	assert.Equal(t, 2, selects)
}

func TestTrace_ForwardErrorIsQualified(t *testing.T) {
	failing := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return trace.Value{}, errors.New("boom")
	}}
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return sc.Call(ctx, "stage", args[0])
	}}
	root.add("stage", failing)

	_, err := trace.NewTracer(leafSet{}).Trace(context.Background(), root, []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `"stage"`)
	assert.Contains(t, err.Error(), "boom")
}

func TestTrace_UnknownChildFails(t *testing.T) {
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return sc.Call(ctx, "missing", args[0])
	}}

	_, err := trace.NewTracer(leafSet{}).Trace(context.Background(), root, []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `no child named "missing"`)
}

func TestTrace_DuplicateChildNamesRejected(t *testing.T) {
	root := &fakeModule{}
	root.add("twin", &fakeModule{})
	root.add("twin", &fakeModule{})

	_, err := trace.NewTracer(leafSet{}).Trace(context.Background(), root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate child name")
}

func TestTrace_CyclicTreeRejected(t *testing.T) {
	root := &fakeModule{}
	child := &fakeModule{}
	root.add("child", child)
	child.add("parent", root)

	_, err := trace.NewTracer(leafSet{}).Trace(context.Background(), root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestTrace_NilChildRejected(t *testing.T) {
	root := &fakeModule{}
	root.children = append(root.children, trace.NamedChild{Name: "ghost"})

	_, err := trace.NewTracer(leafSet{}).Trace(context.Background(), root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is nil")
}

func TestSetChildLister_RestoresPreviousLister(t *testing.T) {
	hidden := &fakeModule{}
	hidden.add("secret", &fakeModule{})
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return sc.Call(ctx, "hidden", args[0])
	}}
	root.add("hidden", hidden)

	tracer := trace.NewTracer(leafSet{"hidden": true})
	restore := tracer.SetChildLister(func(m trace.Module) []trace.NamedChild {
		if m == hidden {
			return nil
		}
		return m.NamedChildren()
	})

	// With the override the hidden module looks childless and is recorded
	// as an opaque leaf.
	tr, err := tracer.Trace(context.Background(), root, []string{"x"})
	require.NoError(t, err)
	require.Len(t, tr.Nodes, 3)

	restore()

	// The default lister sees hidden's children again, so the duplicate-free
	// tree walk descends into them.
	tr, err = tracer.Trace(context.Background(), root, []string{"x"})
	require.NoError(t, err)
	assert.Len(t, tr.Nodes, 3)
}

func TestSetChildLister_RestoreAfterFailedTrace(t *testing.T) {
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return trace.Value{}, errors.New("boom")
	}}

	tracer := trace.NewTracer(leafSet{})
	override := func(m trace.Module) []trace.NamedChild { return m.NamedChildren() }

	func() {
		restore := tracer.SetChildLister(override)
		defer restore()
		_, err := tracer.Trace(context.Background(), root, nil)
		require.Error(t, err)
	}()

	// A second override must capture the original lister, not the one from
	// the failed run.
	restore := tracer.SetChildLister(override)
	restore()
	_, err := tracer.Trace(context.Background(), root, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestTrace_NilRootRejected(t *testing.T) {
	_, err := trace.NewTracer(leafSet{}).Trace(context.Background(), nil, nil)
	require.Error(t, err)
}

func TestTrace_UntracedOutputRejected(t *testing.T) {
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		return trace.Value{}, nil
	}}

	_, err := trace.NewTracer(leafSet{}).Trace(context.Background(), root, []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no traced value")
}

func TestSelect_NegativeIndexRejected(t *testing.T) {
	root := &fakeModule{forward: func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		out, err := sc.Call(ctx, "leaf", args[0])
		if err != nil {
			return trace.Value{}, err
		}
		return sc.Select(out, -1)
	}}
	root.add("leaf", &fakeModule{})

	_, err := trace.NewTracer(leafSet{"leaf": true}).Trace(context.Background(), root, []string{"x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "negative selection index")
}
