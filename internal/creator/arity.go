package creator

import (
	"context"
	"fmt"

	"github.com/vk/pipegraph/internal/ctxlog"
	"github.com/vk/pipegraph/internal/model"
	"github.com/vk/pipegraph/internal/pipeline"
)

// arityState is the per-module accumulator for output arity inference.
// A module starts unset. Consuming its whole result pins it single;
// selecting element i forces a counted result of at least i+1. The two
// observations are mutually exclusive across the entire trace.
type arityState int

const (
	arityUnset arityState = iota
	aritySingle
	arityCounted
)

func (s arityState) String() string {
	switch s {
	case arityUnset:
		return "unset"
	case aritySingle:
		return "single"
	case arityCounted:
		return "counted"
	default:
		return fmt.Sprintf("arityState(%d)", int(s))
	}
}

// arityTracker accumulates output-arity observations per remote module.
// Updates are commutative: the final state does not depend on observation
// order, and an illegal pair of observations fails in either order.
type arityTracker struct {
	states map[*model.Remote]arityState
	counts map[*model.Remote]int
}

func newArityTracker() *arityTracker {
	return &arityTracker{
		states: make(map[*model.Remote]arityState),
		counts: make(map[*model.Remote]int),
	}
}

// observeWhole records that m's result is consumed as a single whole
// value. Legal from unset and single; illegal once the module is counted.
func (t *arityTracker) observeWhole(m *model.Remote) error {
	switch t.states[m] {
	case arityUnset, aritySingle:
		t.states[m] = aritySingle
		return nil
	case arityCounted:
		return fmt.Errorf("result consumed whole, but %d element(s) are selected elsewhere", t.counts[m])
	default:
		return fmt.Errorf("corrupt arity state %s", t.states[m])
	}
}

// observeIndexed records that element index of m's result is selected.
// Legal from unset and counted; illegal once the module is pinned single.
func (t *arityTracker) observeIndexed(m *model.Remote, index int) error {
	switch t.states[m] {
	case arityUnset, arityCounted:
		t.states[m] = arityCounted
		if index+1 > t.counts[m] {
			t.counts[m] = index + 1
		}
		return nil
	case aritySingle:
		return fmt.Errorf("element %d selected, but the whole result is consumed elsewhere", index)
	default:
		return fmt.Errorf("corrupt arity state %s", t.states[m])
	}
}

// arityOf returns the final inferred arity. A module never observed at all
// defaults to a single result.
func (t *arityTracker) arityOf(m *model.Remote) pipeline.OutputArity {
	if t.states[m] == arityCounted {
		return pipeline.Count(t.counts[m])
	}
	return pipeline.Single()
}

// inferOutputArity runs the second pass: for every module call, each
// argument's resolved source contributes one arity observation about the
// module that produced it. External inputs carry no arity information.
// All arguments of one call are processed together so a failure points at
// the call that exposed it.
func (c *Creator) inferOutputArity(ctx context.Context, res *resolution) (*arityTracker, error) {
	logger := ctxlog.FromContext(ctx)
	tracker := newArityTracker()

	for _, call := range res.calls {
		for _, arg := range call.Args {
			switch src := res.sources[arg].(type) {
			case pipeline.ExternalInput:
				// No arity information.
			case pipeline.WholeOutput:
				if err := tracker.observeWhole(src.Module); err != nil {
					return nil, buildErrf(ErrMixedOutputAccess, call, res.paths[src.Module], -1,
						"module %q: %v", res.paths[src.Module], err)
				}
			case pipeline.IndexedOutput:
				if err := tracker.observeIndexed(src.Module, src.Index); err != nil {
					return nil, buildErrf(ErrMixedOutputAccess, call, res.paths[src.Module], src.Index,
						"module %q: %v", res.paths[src.Module], err)
				}
			}
		}
	}

	for remote, state := range tracker.states {
		logger.Debug("inferred output arity", "module", res.paths[remote], "state", state.String(), "count", tracker.counts[remote])
	}
	return tracker, nil
}
