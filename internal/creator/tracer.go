package creator

import (
	"context"

	"github.com/vk/pipegraph/internal/model"
	"github.com/vk/pipegraph/internal/trace"
)

// remoteLeafPolicy classifies remote modules as opaque leaves so the
// tracer records their invocation without descending into them. Every
// other module is traced through transparently.
type remoteLeafPolicy struct{}

func (remoteLeafPolicy) IsLeaf(m trace.Module, qualifiedName string) bool {
	_, ok := m.(*model.Remote)
	return ok
}

// hideRemoteInternals is a child lister that reports remote modules as
// childless. A remote may carry a stand-in body describing its on-worker
// structure; the tracer's tree walk must not see it, or the proxy
// structure would leak into qualified paths.
func hideRemoteInternals(m trace.Module) []trace.NamedChild {
	if _, ok := m.(*model.Remote); ok {
		return nil
	}
	return m.NamedChildren()
}

// Trace records an operation trace for root with remote modules treated
// as leaves. The child-lister override is installed for exactly the
// duration of the trace and restored on every path out of this function,
// including tracing failures.
func Trace(ctx context.Context, root trace.Module, inputNames []string) (*trace.Trace, error) {
	t := trace.NewTracer(remoteLeafPolicy{})
	restore := t.SetChildLister(hideRemoteInternals)
	defer restore()
	return t.Trace(ctx, root, inputNames)
}
