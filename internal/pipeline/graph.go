package pipeline

import (
	"fmt"
	"slices"
	"strings"

	"github.com/vk/pipegraph/internal/model"
)

// Layer is one node of the pipeline graph: a remote module, the resolved
// sources of its positional arguments, and its inferred output arity.
type Layer struct {
	Module *model.Remote
	Inputs []DataSource
	Arity  OutputArity
}

// DebugString renders the layer for diagnostic output.
func (l *Layer) DebugString() string {
	inputs := make([]string, len(l.Inputs))
	for i, in := range l.Inputs {
		inputs[i] = in.String()
	}
	return fmt.Sprintf("%s(inputs=[%s], output=%s, worker=%s)",
		l.Module.Name, strings.Join(inputs, ", "), l.Arity, l.Module.Worker)
}

// Graph is the ordered collection of layers plus the pipeline's external
// input names. Layers are appended in trace order during the build and
// never mutated afterwards.
type Graph struct {
	inputNames []string
	layers     []*Layer
}

// New creates an empty graph for a pipeline with the given ordered
// external input names.
func New(inputNames []string) *Graph {
	return &Graph{inputNames: slices.Clone(inputNames)}
}

// AddLayer appends a layer for one remote module invocation. The inputs
// slice lists one data source per positional argument, in argument order.
func (g *Graph) AddLayer(m *model.Remote, inputs []DataSource, arity OutputArity) *Layer {
	layer := &Layer{Module: m, Inputs: inputs, Arity: arity}
	g.layers = append(g.layers, layer)
	return layer
}

// Layers returns the graph's layers in build order. The returned slice is
// a copy; the layers themselves are shared and must be treated read-only.
func (g *Graph) Layers() []*Layer {
	return slices.Clone(g.layers)
}

// InputNames returns the pipeline's ordered external input names.
func (g *Graph) InputNames() []string {
	return slices.Clone(g.inputNames)
}

// DebugString renders every layer, one per line.
func (g *Graph) DebugString() string {
	var sb strings.Builder
	for _, l := range g.layers {
		sb.WriteString(l.DebugString())
		sb.WriteByte('\n')
	}
	return sb.String()
}
