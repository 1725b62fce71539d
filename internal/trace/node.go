package trace

import (
	"context"
	"fmt"
)

// Kind identifies the operation a trace node records. The set is closed:
// consumers must match all four kinds exhaustively and treat anything else
// as a malformed trace.
type Kind int

const (
	// KindPlaceholder marks a top-level input to the traced invocation.
	KindPlaceholder Kind = iota
	// KindModuleCall marks the invocation of an opaque leaf module.
	KindModuleCall
	// KindSelectElement marks indexing into another node's result.
	KindSelectElement
	// KindOutput marks the end of the trace and references its result.
	KindOutput
)

func (k Kind) String() string {
	switch k {
	case KindPlaceholder:
		return "placeholder"
	case KindModuleCall:
		return "module_call"
	case KindSelectElement:
		return "select_element"
	case KindOutput:
		return "output"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Node is a single recorded operation. For placeholders, Target is the
// declared input name; for module calls it is the dotted path of the
// invoked module. Args reference earlier nodes whose values feed this
// operation; Index is the selection index for KindSelectElement.
type Node struct {
	Kind   Kind
	Target string
	Args   []*Node
	Index  int

	// Seq is the node's position in record order, for diagnostics.
	Seq int
}

// DebugString renders the node for diagnostic output.
func (n *Node) DebugString() string {
	switch n.Kind {
	case KindPlaceholder:
		return fmt.Sprintf("#%d %s %q", n.Seq, n.Kind, n.Target)
	case KindModuleCall:
		return fmt.Sprintf("#%d %s %q args=%d", n.Seq, n.Kind, n.Target, len(n.Args))
	case KindSelectElement:
		return fmt.Sprintf("#%d %s [%d]", n.Seq, n.Kind, n.Index)
	case KindOutput:
		return fmt.Sprintf("#%d %s", n.Seq, n.Kind)
	default:
		return fmt.Sprintf("#%d %s", n.Seq, n.Kind)
	}
}

// Value is an opaque symbolic handle to a recorded node. Values are only
// meaningful within the trace run that produced them.
type Value struct {
	node *Node
}

// Node exposes the recorded node backing this value. It returns nil for
// the zero Value.
func (v Value) Node() *Node {
	return v.node
}

// NamedChild is one entry of a module's child listing.
type NamedChild struct {
	Name   string
	Module Module
}

// Module is anything the tracer can invoke symbolically. Local modules
// unfold by running Forward against a Scope; leaf modules are recorded as
// opaque calls and their Forward is never invoked by the tracer.
type Module interface {
	Forward(ctx context.Context, sc *Scope, args ...Value) (Value, error)
	NamedChildren() []NamedChild
}

// Trace is a finished operation trace: the root module it was recorded
// against and its nodes in record order. Node arguments always reference
// earlier nodes, so a forward walk respects data dependencies.
type Trace struct {
	Root  Module
	Nodes []*Node
}
