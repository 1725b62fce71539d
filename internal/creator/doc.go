// Package creator turns an operation trace of a model into a pipeline
// dependency graph. It is the structural-validation core of the system:
// every value consumed by a remote module call is resolved to a typed data
// source, every module's output arity is inferred from how its result is
// used, and any inconsistency fails the whole build before anything is
// executed. The passes run single-threaded to completion; there is no
// partial result on error.
package creator
