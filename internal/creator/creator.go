package creator

import (
	"context"

	"github.com/vk/pipegraph/internal/ctxlog"
	"github.com/vk/pipegraph/internal/pipeline"
	"github.com/vk/pipegraph/internal/trace"
)

// Creator converts one finished operation trace into a pipeline graph.
type Creator struct {
	trace      *trace.Trace
	inputNames []string
}

// New creates a Creator for the given trace and the ordered list of
// external input names the trace's placeholders resolve against.
func New(tr *trace.Trace, inputNames []string) *Creator {
	return &Creator{trace: tr, inputNames: inputNames}
}

// Create runs the build: data-source resolution, output-arity inference,
// and layer assembly. It either returns a complete validated graph or the
// first structural error; no partial graph is ever returned.
func (c *Creator) Create(ctx context.Context) (*pipeline.Graph, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Create: starting graph construction.", "nodes", len(c.trace.Nodes), "inputs", len(c.inputNames))

	res, err := c.resolveDataSources(ctx)
	if err != nil {
		return nil, err
	}
	logger.Debug("Create: data source resolution complete.", "module_calls", len(res.calls))

	arities, err := c.inferOutputArity(ctx, res)
	if err != nil {
		return nil, err
	}
	logger.Debug("Create: output arity inference complete.")

	graph := c.assemble(ctx, res, arities)
	logger.Debug("Create: graph construction successful.", "layers", len(res.calls))
	return graph, nil
}

// BuildGraph traces root and converts the result in one call. Tracing
// errors propagate unchanged; they are not part of the structural error
// taxonomy.
func BuildGraph(ctx context.Context, root trace.Module, inputNames []string) (*pipeline.Graph, error) {
	tr, err := Trace(ctx, root, inputNames)
	if err != nil {
		return nil, err
	}
	return New(tr, inputNames).Create(ctx)
}
