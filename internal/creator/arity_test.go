package creator_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/pipegraph/internal/model"
	"github.com/vk/pipegraph/internal/pipeline"
	"github.com/vk/pipegraph/internal/trace"
)

func TestBuildGraph_RepeatedWholeConsumptionStaysSingle(t *testing.T) {
	// Two consumers taking the whole result are consistent observations.
	root := model.NewFunc(func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		out, err := sc.Call(ctx, "producer", args[0])
		if err != nil {
			return trace.Value{}, err
		}
		if _, err := sc.Call(ctx, "left", out); err != nil {
			return trace.Value{}, err
		}
		return sc.Call(ctx, "right", out)
	}).Add("producer", newRemote("producer")).Add("left", newRemote("left")).Add("right", newRemote("right"))

	graph := buildGraph(t, root, []string{"x"})
	assert.Equal(t, pipeline.Single(), graph.Layers()[0].Arity)
}

func TestBuildGraph_HighestSelectedIndexWins(t *testing.T) {
	// Indices observed out of order: the count settles on max(index)+1 and
	// a later lower index never shrinks it.
	root := model.NewFunc(func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		out, err := sc.Call(ctx, "producer", args[0])
		if err != nil {
			return trace.Value{}, err
		}
		var picked []trace.Value
		for _, idx := range []int{4, 0, 2} {
			el, err := sc.Select(out, idx)
			if err != nil {
				return trace.Value{}, err
			}
			picked = append(picked, el)
		}
		return sc.Call(ctx, "join", picked...)
	}).Add("producer", newRemote("producer")).Add("join", newRemote("join"))

	graph := buildGraph(t, root, []string{"x"})
	assert.Equal(t, pipeline.Count(5), graph.Layers()[0].Arity)
}

func TestBuildGraph_ArityTrackedPerModule(t *testing.T) {
	// Observations about one module never leak into another's state.
	root := model.NewFunc(func(ctx context.Context, sc *trace.Scope, args ...trace.Value) (trace.Value, error) {
		whole, err := sc.Call(ctx, "a", args[0])
		if err != nil {
			return trace.Value{}, err
		}
		multi, err := sc.Call(ctx, "b", args[0])
		if err != nil {
			return trace.Value{}, err
		}
		el, err := sc.Select(multi, 3)
		if err != nil {
			return trace.Value{}, err
		}
		return sc.Call(ctx, "join", whole, el)
	}).Add("a", newRemote("a")).Add("b", newRemote("b")).Add("join", newRemote("join"))

	graph := buildGraph(t, root, []string{"x"})

	layers := graph.Layers()
	require.Len(t, layers, 3)
	assert.Equal(t, pipeline.Single(), layers[0].Arity)
	assert.Equal(t, pipeline.Count(4), layers[1].Arity)
	assert.Equal(t, pipeline.Single(), layers[2].Arity)
}
