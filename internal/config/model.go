package config

import "fmt"

// Model is the format-agnostic representation of everything loaded from
// pipeline manifests.
type Model struct {
	Pipelines []*Pipeline
}

// Pipeline describes one top-level pipeline: its ordered external input
// names, its child modules, and the forward definition that wires them.
type Pipeline struct {
	Name    string
	Inputs  []string
	Remotes []*Remote
	Modules []*Module
	Forward *Forward
}

// Module is a local composite declared inside a pipeline (or inside
// another module). It is traced through transparently; only the remote
// modules it invokes end up as graph layers.
type Module struct {
	Name    string
	Inputs  []string
	Remotes []*Remote
	Modules []*Module
	Forward *Forward
}

// Remote declares an opaque distributed module and the worker endpoint
// that executes it.
type Remote struct {
	Name   string
	Worker string
}

// Forward is the declared body of a pipeline or module: an ordered list of
// steps and the reference naming the result.
type Forward struct {
	Steps  []*Step
	Output ArgRef
}

// Step invokes one child module with positional arguments.
type Step struct {
	Name string
	Call string
	Args []ArgRef
}

// RefKind discriminates the closed set of argument reference forms.
type RefKind int

const (
	// RefInput references a declared input by name.
	RefInput RefKind = iota
	// RefStep references the whole result of an earlier step.
	RefStep
	// RefStepIndexed references one element of an earlier step's result.
	RefStepIndexed
)

// ArgRef is a pre-parsed argument reference. Keeping references in this
// neutral form lets the model layer interpret forwards without depending
// on the manifest format.
type ArgRef struct {
	Kind  RefKind
	Name  string
	Index int
}

func (r ArgRef) String() string {
	switch r.Kind {
	case RefInput:
		return "input." + r.Name
	case RefStep:
		return "step." + r.Name
	case RefStepIndexed:
		return fmt.Sprintf("step.%s[%d]", r.Name, r.Index)
	default:
		return fmt.Sprintf("ref(%d)", int(r.Kind))
	}
}
