package creator

import (
	"errors"
	"fmt"

	"github.com/vk/pipegraph/internal/trace"
)

// Sentinel kinds for build failures. All are structural: they are detected
// while building the graph and are fatal to the build.
var (
	// ErrUnsupportedOperation marks a trace node outside the recognized kinds,
	// or a trace whose nodes violate record order.
	ErrUnsupportedOperation = errors.New("unsupported trace operation")
	// ErrUnknownInput marks a placeholder whose name is not among the
	// declared pipeline inputs.
	ErrUnknownInput = errors.New("unknown pipeline input")
	// ErrModuleResolution marks a call whose target path does not name a
	// reachable module.
	ErrModuleResolution = errors.New("module resolution failed")
	// ErrNotRemoteModule marks a call targeting a module that is not a
	// remote unit. Local modules are traced through, never called directly.
	ErrNotRemoteModule = errors.New("not a remote module")
	// ErrSelectionOnNonModule marks an element selection applied to
	// anything other than a direct module-call result.
	ErrSelectionOnNonModule = errors.New("selection on non-module value")
	// ErrMixedOutputAccess marks a module whose result is consumed both as
	// a whole value and via indexed selection.
	ErrMixedOutputAccess = errors.New("mixed output access")
)

// BuildError decorates a build failure with the trace location that caused
// it. Kind is one of the sentinel errors above and is reachable through
// errors.Is.
type BuildError struct {
	Kind error
	// Node is the trace node being processed when the failure was detected.
	Node *trace.Node
	// ModulePath is the dotted path of the module involved, when known.
	ModulePath string
	// Index is the selection index involved, or -1.
	Index int
	// Msg describes the specific failure.
	Msg string
}

func (e *BuildError) Error() string {
	s := e.Kind.Error() + ": " + e.Msg
	if e.Node != nil {
		s += " (at " + e.Node.DebugString() + ")"
	}
	return s
}

func (e *BuildError) Unwrap() error {
	return e.Kind
}

func buildErrf(kind error, node *trace.Node, modulePath string, index int, format string, args ...any) *BuildError {
	return &BuildError{
		Kind:       kind,
		Node:       node,
		ModulePath: modulePath,
		Index:      index,
		Msg:        fmt.Sprintf(format, args...),
	}
}
