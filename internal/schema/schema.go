// Package schema defines the HCL shapes of pipeline manifest files.
package schema

import "github.com/hashicorp/hcl/v2"

// Step invokes one child module inside a forward block. Args must be a
// list of input or step references.
type Step struct {
	Name string         `hcl:"name,label"`
	Call string         `hcl:"call"`
	Args hcl.Expression `hcl:"args"`
}

// Forward is the declared body of a pipeline or module.
type Forward struct {
	Steps  []*Step        `hcl:"step,block"`
	Output hcl.Expression `hcl:"output"`
}

// Remote declares an opaque distributed module bound to a worker endpoint.
type Remote struct {
	Name   string `hcl:"name,label"`
	Worker string `hcl:"worker"`
}

// Module is a local composite declared inside a pipeline or another
// module. It is traced through transparently.
type Module struct {
	Name    string    `hcl:"name,label"`
	Inputs  []string  `hcl:"inputs"`
	Remotes []*Remote `hcl:"remote,block"`
	Modules []*Module `hcl:"module,block"`
	Forward *Forward  `hcl:"forward,block"`
}

// Pipeline is a top-level pipeline declaration.
type Pipeline struct {
	Name    string    `hcl:"name,label"`
	Inputs  []string  `hcl:"inputs"`
	Remotes []*Remote `hcl:"remote,block"`
	Modules []*Module `hcl:"module,block"`
	Forward *Forward  `hcl:"forward,block"`
}
