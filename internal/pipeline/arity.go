package pipeline

import "fmt"

// OutputArity describes how a layer's result is shaped: a single whole
// value (the default) or a fixed-size collection of selectable elements.
type OutputArity struct {
	count int
}

// Single is the arity of a module whose result is consumed whole, or not
// consumed at all.
func Single() OutputArity {
	return OutputArity{}
}

// Count is the arity of a module whose result is accessed by selection
// indices; n is one more than the highest index observed.
func Count(n int) OutputArity {
	if n < 1 {
		panic(fmt.Sprintf("pipeline: counted arity must be positive, got %d", n))
	}
	return OutputArity{count: n}
}

// IsSingle reports whether the result is a single whole value.
func (a OutputArity) IsSingle() bool {
	return a.count == 0
}

// Count returns the number of selectable elements; zero for a single
// result.
func (a OutputArity) Count() int {
	return a.count
}

func (a OutputArity) String() string {
	if a.IsSingle() {
		return "single"
	}
	return fmt.Sprintf("count(%d)", a.count)
}
