package model

import (
	"fmt"
	"strings"

	"github.com/vk/pipegraph/internal/trace"
)

// Resolve walks a dotted path from root through NamedChildren and returns
// the module it names. The error identifies the first missing segment.
func Resolve(root trace.Module, path string) (trace.Module, error) {
	if path == "" {
		return nil, fmt.Errorf("module path is empty")
	}
	current := root
	for _, segment := range strings.Split(path, ".") {
		var next trace.Module
		for _, c := range current.NamedChildren() {
			if c.Name == segment {
				next = c.Module
				break
			}
		}
		if next == nil {
			return nil, fmt.Errorf("module path %q: no child named %q", path, segment)
		}
		current = next
	}
	return current, nil
}
