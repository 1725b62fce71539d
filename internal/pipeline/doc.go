// Package pipeline defines the dependency graph produced from a model
// trace: one layer per remote module invocation, each with resolved input
// sources and an inferred output arity. The graph is append-only while
// being built and treated as immutable once handed to a consumer, so it is
// safe to share read-only across goroutines.
package pipeline
