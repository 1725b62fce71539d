package pipeline

import (
	"fmt"

	"github.com/vk/pipegraph/internal/model"
)

// DataSource is the resolved origin of a value consumed by a layer. The
// set of implementations is closed: an external input, the whole result of
// a remote module, or one element of a multi-valued result.
type DataSource interface {
	fmt.Stringer
	dataSource()
}

// ExternalInput is the Index-th top-level input of the whole pipeline.
type ExternalInput struct {
	Index int
}

func (ExternalInput) dataSource() {}

func (e ExternalInput) String() string {
	return fmt.Sprintf("input[%d]", e.Index)
}

// WholeOutput is the entire single result of a remote module.
type WholeOutput struct {
	Module *model.Remote
}

func (WholeOutput) dataSource() {}

func (w WholeOutput) String() string {
	return w.Module.Name
}

// IndexedOutput is one element of a remote module's multi-valued result.
type IndexedOutput struct {
	Module *model.Remote
	Index  int
}

func (IndexedOutput) dataSource() {}

func (i IndexedOutput) String() string {
	return fmt.Sprintf("%s[%d]", i.Module.Name, i.Index)
}
