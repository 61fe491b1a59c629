package engine

import (
	"errors"
	"fmt"

	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
)

// Engine is a compiled Filter/Action Tree bound to one Application, ready
// to process any number of mapping sequences.
type Engine[T any] struct {
	app  Application[T]
	root []tree.Rule[T]
}

// Compile binds ruleSet's AST to app's registries, producing a runnable
// Engine, or a non-empty error list if anything failed to resolve (spec
// §4.F "compile(ast, application) -> RuntimeTree | Errors"). Compilation
// does not stop at the first error: every rule in the file is attempted so
// the host can report every problem at once.
func Compile[T any](ruleSet *rules.RuleSet, app Application[T]) (*Engine[T], []error) {
	app.OnInit(app.PrefixManager())

	var errs []error
	for _, decl := range ruleSet.Prefixes {
		if err := app.PrefixManager().Add(decl.Name, decl.IRI); err != nil {
			errs = append(errs, err)
		}
	}

	c := &compiler[T]{app: app}
	compiled := make([]tree.Rule[T], 0, len(ruleSet.Rules))
	for _, r := range ruleSet.Rules {
		node, rerrs := c.compileRule(r, nil)
		errs = append(errs, rerrs...)
		compiled = append(compiled, node)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return &Engine[T]{app: app, root: compiled}, nil
}

type compiler[T any] struct {
	app Application[T]
}

func unionTags(parent, own []string) []string {
	if len(parent) == 0 {
		return own
	}
	seen := make(map[string]bool, len(parent)+len(own))
	var out []string
	for _, t := range parent {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	for _, t := range own {
		if !seen[t] {
			seen[t] = true
			out = append(out, t)
		}
	}
	return out
}

// compileRule compiles one AST rule, merging parentTags into its own tag
// set per spec §4.D ("tags accumulate; innermost tag set is the union of
// all enclosing [...]").
func (c *compiler[T]) compileRule(r rules.Rule, parentTags []string) (tree.Rule[T], []error) {
	tags := unionTags(parentTags, r.Tags)

	var errs []error
	filter, ferrs := c.compileFilter(r.Filter)
	errs = append(errs, ferrs...)

	node := tree.Rule[T]{Tags: tags, Filter: filter}

	if r.Actions != nil {
		actions := make([]tree.Action[T], 0, len(r.Actions))
		for _, a := range r.Actions {
			act, err := c.compileAction(a)
			if err != nil {
				errs = append(errs, err)
				continue
			}
			actions = append(actions, act)
		}
		node.Actions = actions
		return node, errs
	}

	nested := make([]tree.Rule[T], 0, len(r.Nested))
	for _, nr := range r.Nested {
		nn, nerrs := c.compileRule(nr, tags)
		nested = append(nested, nn)
		errs = append(errs, nerrs...)
	}
	node.Nested = nested
	return node, errs
}

func (c *compiler[T]) compileFilter(f rules.FilterExpr) (tree.Filter, []error) {
	switch v := f.(type) {
	case rules.IdMatch:
		return tree.NewIdMatchFilter(v.Field, v.Value, c.app.PrefixManager()), nil
	case rules.PredicateModifierIsNot:
		return tree.PredicateModifierIsNotFilter{}, nil
	case rules.Not:
		inner, errs := c.compileFilter(v.Inner)
		return tree.NotFilter{Inner: inner}, errs
	case rules.And:
		left, lerrs := c.compileFilter(v.Left)
		right, rerrs := c.compileFilter(v.Right)
		return tree.AndFilter{Left: left, Right: right}, append(lerrs, rerrs...)
	case rules.Or:
		left, lerrs := c.compileFilter(v.Left)
		right, rerrs := c.compileFilter(v.Right)
		return tree.OrFilter{Left: left, Right: right}, append(lerrs, rerrs...)
	case rules.Group:
		inner, errs := c.compileFilter(v.Inner)
		return tree.GroupFilter{Inner: inner}, errs
	case rules.Call:
		fn, err := c.app.ResolveFilterFunction(v.Name, v.Args, v.Named)
		if err != nil {
			return alwaysFalseFilter{}, []error{resolveError(v.Name, v.Line, v.Col, err)}
		}
		return tree.NewCallFilter(fn), nil
	default:
		return alwaysFalseFilter{}, []error{fmt.Errorf("unrecognized filter AST node %T", f)}
	}
}

func (c *compiler[T]) compileAction(a rules.Action) (tree.Action[T], error) {
	switch v := a.(type) {
	case rules.Stop:
		return tree.StopAction[T]{}, nil
	case rules.Invert:
		return tree.InvertAction[T]{Table: c.app.InverseTable()}, nil
	case rules.Include:
		return tree.IncludeAction[T]{}, nil
	case rules.Call:
		fn, err := c.app.ResolveActionFunction(v.Name, v.Args, v.Named)
		if err != nil {
			return nil, resolveError(v.Name, v.Line, v.Col, err)
		}
		return tree.NewCallAction(fn), nil
	default:
		return nil, fmt.Errorf("unrecognized action AST node %T", a)
	}
}

func resolveError(name string, line, col int, err error) error {
	switch {
	case errors.Is(err, ErrUnknownFunction):
		return &UnknownFunction{Name: name, Line: line, Col: col}
	case errors.Is(err, ErrArityMismatch):
		return &ArityMismatch{Name: name, Message: err.Error(), Line: line, Col: col}
	default:
		return fmt.Errorf("%d:%d: resolving %q: %w", line, col, name, err)
	}
}

// alwaysFalseFilter stands in for a filter that failed to compile so the
// rest of the file can still be walked for further diagnostics (spec §4.F
// "compilation still produces a partial tree"). Compile never returns an
// Engine built from a tree containing one of these: the non-empty error
// list short-circuits Compile's return before any Engine is constructed.
type alwaysFalseFilter struct{}

func (alwaysFalseFilter) Eval(_ model.Mapping) bool { return false }
