// Package trace implements a symbolic tracing facility for module trees.
//
// A trace is the recorded sequence of abstract operations performed during
// one symbolic invocation of a root module: placeholder nodes for its
// declared inputs, module-call nodes for invocations of opaque leaf
// modules, select-element nodes for indexing into a call result, and a
// final output node. Local (non-leaf) modules are unfolded: their Forward
// runs symbolically and only the operations it performs are recorded.
//
// Which modules count as leaves is decided by a caller-supplied LeafPolicy.
// How the tracer introspects a module's children can be overridden for the
// duration of a trace via Tracer.SetChildLister; the returned restore
// function makes the override a scoped acquisition rather than a permanent
// mutation.
package trace
