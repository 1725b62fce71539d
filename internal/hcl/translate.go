package hcl

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/vk/pipegraph/internal/config"
	"github.com/vk/pipegraph/internal/schema"
	"github.com/zclconf/go-cty/cty"
)

// translatePipeline converts one decoded pipeline block into the agnostic
// model, validating every reference along the way.
func (l *Loader) translatePipeline(s *schema.Pipeline) (*config.Pipeline, error) {
	remotes, modules, err := l.translateChildren(s.Name, s.Remotes, s.Modules)
	if err != nil {
		return nil, err
	}
	forward, err := l.translateForward(s.Name, s.Forward, s.Inputs, childNames(remotes, modules))
	if err != nil {
		return nil, err
	}
	return &config.Pipeline{
		Name:    s.Name,
		Inputs:  s.Inputs,
		Remotes: remotes,
		Modules: modules,
		Forward: forward,
	}, nil
}

func (l *Loader) translateModule(scope string, s *schema.Module) (*config.Module, error) {
	path := scope + "." + s.Name
	remotes, modules, err := l.translateChildren(path, s.Remotes, s.Modules)
	if err != nil {
		return nil, err
	}
	forward, err := l.translateForward(path, s.Forward, s.Inputs, childNames(remotes, modules))
	if err != nil {
		return nil, err
	}
	return &config.Module{
		Name:    s.Name,
		Inputs:  s.Inputs,
		Remotes: remotes,
		Modules: modules,
		Forward: forward,
	}, nil
}

// translateChildren translates remote and module blocks, rejecting
// duplicate child names within one parent.
func (l *Loader) translateChildren(scope string, rs []*schema.Remote, ms []*schema.Module) ([]*config.Remote, []*config.Module, error) {
	names := make(map[string]bool)

	var remotes []*config.Remote
	for _, r := range rs {
		if names[r.Name] {
			return nil, nil, fmt.Errorf("%s: duplicate child name %q", scope, r.Name)
		}
		names[r.Name] = true
		remotes = append(remotes, &config.Remote{Name: r.Name, Worker: r.Worker})
	}

	var modules []*config.Module
	for _, m := range ms {
		if names[m.Name] {
			return nil, nil, fmt.Errorf("%s: duplicate child name %q", scope, m.Name)
		}
		names[m.Name] = true
		translated, err := l.translateModule(scope, m)
		if err != nil {
			return nil, nil, err
		}
		modules = append(modules, translated)
	}

	return remotes, modules, nil
}

func childNames(remotes []*config.Remote, modules []*config.Module) map[string]bool {
	names := make(map[string]bool)
	for _, r := range remotes {
		names[r.Name] = true
	}
	for _, m := range modules {
		names[m.Name] = true
	}
	return names
}

// translateForward translates a forward block, checking that each step
// calls a declared child, that references name declared inputs or earlier
// steps, and that step names are unique.
func (l *Loader) translateForward(scope string, f *schema.Forward, inputs []string, children map[string]bool) (*config.Forward, error) {
	if f == nil {
		return nil, fmt.Errorf("%s: missing forward block", scope)
	}

	declared := make(map[string]bool, len(inputs))
	for _, in := range inputs {
		declared[in] = true
	}
	defined := make(map[string]bool)

	check := func(ref config.ArgRef, rng hcl.Range) error {
		switch ref.Kind {
		case config.RefInput:
			if !declared[ref.Name] {
				return fmt.Errorf("%s: %s: reference to undeclared input %q", scope, rng, ref.Name)
			}
		default:
			if !defined[ref.Name] {
				return fmt.Errorf("%s: %s: reference to undefined step %q", scope, rng, ref.Name)
			}
		}
		return nil
	}

	forward := &config.Forward{}
	for _, st := range f.Steps {
		if defined[st.Name] {
			return nil, fmt.Errorf("%s: duplicate step name %q", scope, st.Name)
		}
		if !children[st.Call] {
			return nil, fmt.Errorf("%s: step %q calls undeclared module %q", scope, st.Name, st.Call)
		}
		args, err := translateArgs(st.Args)
		if err != nil {
			return nil, fmt.Errorf("%s: step %q: %w", scope, st.Name, err)
		}
		for _, ref := range args {
			if err := check(ref, st.Args.Range()); err != nil {
				return nil, err
			}
		}
		defined[st.Name] = true
		forward.Steps = append(forward.Steps, &config.Step{Name: st.Name, Call: st.Call, Args: args})
	}

	output, err := translateRef(f.Output)
	if err != nil {
		return nil, fmt.Errorf("%s: output: %w", scope, err)
	}
	if err := check(output, f.Output.Range()); err != nil {
		return nil, err
	}
	forward.Output = output

	return forward, nil
}

// translateArgs splits an args expression into its elements and translates
// each into a reference.
func translateArgs(expr hcl.Expression) ([]config.ArgRef, error) {
	exprs, diags := hcl.ExprList(expr)
	if diags.HasErrors() {
		return nil, fmt.Errorf("args must be a list of references: %s", diags.Error())
	}
	refs := make([]config.ArgRef, 0, len(exprs))
	for _, e := range exprs {
		ref, err := translateRef(e)
		if err != nil {
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

// translateRef parses a single reference expression. Recognized forms are
// input.<name>, step.<name>, and step.<name>[<index>].
func translateRef(expr hcl.Expression) (config.ArgRef, error) {
	traversal, diags := hcl.AbsTraversalForExpr(expr)
	if diags.HasErrors() {
		return config.ArgRef{}, fmt.Errorf("%s: expected an input or step reference: %s", expr.Range(), diags.Error())
	}

	switch root := traversal.RootName(); root {
	case "input":
		if len(traversal) != 2 {
			return config.ArgRef{}, fmt.Errorf("%s: input references take the form input.<name>", expr.Range())
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			return config.ArgRef{}, fmt.Errorf("%s: input references take the form input.<name>", expr.Range())
		}
		return config.ArgRef{Kind: config.RefInput, Name: attr.Name}, nil

	case "step":
		if len(traversal) < 2 || len(traversal) > 3 {
			return config.ArgRef{}, fmt.Errorf("%s: step references take the form step.<name> or step.<name>[<index>]", expr.Range())
		}
		attr, ok := traversal[1].(hcl.TraverseAttr)
		if !ok {
			return config.ArgRef{}, fmt.Errorf("%s: step references take the form step.<name>", expr.Range())
		}
		if len(traversal) == 2 {
			return config.ArgRef{Kind: config.RefStep, Name: attr.Name}, nil
		}
		index, ok := traversal[2].(hcl.TraverseIndex)
		if !ok {
			return config.ArgRef{}, fmt.Errorf("%s: step references take the form step.<name>[<index>]", expr.Range())
		}
		if index.Key.Type() != cty.Number {
			return config.ArgRef{}, fmt.Errorf("%s: selection index must be a number", expr.Range())
		}
		idx, _ := index.Key.AsBigFloat().Int64()
		if idx < 0 {
			return config.ArgRef{}, fmt.Errorf("%s: selection index must not be negative", expr.Range())
		}
		return config.ArgRef{Kind: config.RefStepIndexed, Name: attr.Name, Index: int(idx)}, nil

	default:
		return config.ArgRef{}, fmt.Errorf("%s: unknown reference root %q; use input.<name> or step.<name>", expr.Range(), root)
	}
}
