package creator

import (
	"context"

	"github.com/vk/pipegraph/internal/ctxlog"
	"github.com/vk/pipegraph/internal/pipeline"
)

// assemble emits one layer per module call, in trace order. Validation is
// already done by the earlier passes; this pass only shapes the result.
func (c *Creator) assemble(ctx context.Context, res *resolution, arities *arityTracker) *pipeline.Graph {
	logger := ctxlog.FromContext(ctx)
	graph := pipeline.New(c.inputNames)

	for _, call := range res.calls {
		inputs := make([]pipeline.DataSource, len(call.Args))
		for i, arg := range call.Args {
			inputs[i] = res.sources[arg]
		}
		remote := res.modules[call]
		layer := graph.AddLayer(remote, inputs, arities.arityOf(remote))
		logger.Debug("added pipeline layer", "layer", layer.DebugString())
	}

	return graph
}
