package creator

import (
	"context"
	"slices"

	"github.com/vk/pipegraph/internal/ctxlog"
	"github.com/vk/pipegraph/internal/model"
	"github.com/vk/pipegraph/internal/pipeline"
	"github.com/vk/pipegraph/internal/trace"
)

// resolution is the output of the first pass: every trace node mapped to
// its data source, plus the module-call bookkeeping the later passes need.
type resolution struct {
	sources map[*trace.Node]pipeline.DataSource
	modules map[*trace.Node]*model.Remote
	paths   map[*model.Remote]string
	// calls lists the module-call nodes in trace order; layer order
	// follows it.
	calls []*trace.Node
}

// resolveDataSources walks the trace in record order and resolves each
// node to the origin of the value it produces. Record order respects data
// dependencies, so a node's arguments are always resolved before the node
// itself.
func (c *Creator) resolveDataSources(ctx context.Context) (*resolution, error) {
	logger := ctxlog.FromContext(ctx)
	res := &resolution{
		sources: make(map[*trace.Node]pipeline.DataSource),
		modules: make(map[*trace.Node]*model.Remote),
		paths:   make(map[*model.Remote]string),
	}

	for _, n := range c.trace.Nodes {
		switch n.Kind {
		case trace.KindPlaceholder:
			idx := slices.Index(c.inputNames, n.Target)
			if idx < 0 {
				return nil, buildErrf(ErrUnknownInput, n, "", -1,
					"placeholder %q is not among the declared inputs %v", n.Target, c.inputNames)
			}
			res.sources[n] = pipeline.ExternalInput{Index: idx}

		case trace.KindModuleCall:
			m, err := model.Resolve(c.trace.Root, n.Target)
			if err != nil {
				return nil, buildErrf(ErrModuleResolution, n, n.Target, -1, "%v", err)
			}
			remote, ok := m.(*model.Remote)
			if !ok {
				return nil, buildErrf(ErrNotRemoteModule, n, n.Target, -1,
					"%q resolved to %T; only remote modules may appear as direct calls", n.Target, m)
			}
			for i, arg := range n.Args {
				if _, ok := res.sources[arg]; !ok {
					return nil, buildErrf(ErrUnsupportedOperation, n, n.Target, -1,
						"argument %d of call %q references a value recorded out of order", i, n.Target)
				}
			}
			res.modules[n] = remote
			res.paths[remote] = n.Target
			res.calls = append(res.calls, n)
			res.sources[n] = pipeline.WholeOutput{Module: remote}
			logger.Debug("resolved module call", "path", n.Target, "args", len(n.Args))

		case trace.KindSelectElement:
			if len(n.Args) != 1 {
				return nil, buildErrf(ErrSelectionOnNonModule, n, "", n.Index,
					"selection node references %d values, want 1", len(n.Args))
			}
			if n.Index < 0 {
				return nil, buildErrf(ErrSelectionOnNonModule, n, "", n.Index,
					"negative selection index %d", n.Index)
			}
			src, ok := res.sources[n.Args[0]]
			if !ok {
				return nil, buildErrf(ErrSelectionOnNonModule, n, "", n.Index,
					"selection references a value recorded out of order")
			}
			whole, ok := src.(pipeline.WholeOutput)
			if !ok {
				return nil, buildErrf(ErrSelectionOnNonModule, n, "", n.Index,
					"selection applies to %s; only a direct module-call result can be selected", src)
			}
			res.sources[n] = pipeline.IndexedOutput{Module: whole.Module, Index: n.Index}

		case trace.KindOutput:
			// End of trace; nothing to resolve.

		default:
			return nil, buildErrf(ErrUnsupportedOperation, n, "", -1,
				"trace node kind %s is not convertible", n.Kind)
		}
	}

	return res, nil
}
