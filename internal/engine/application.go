// Package engine implements the Rule Engine (spec §4.F): it compiles a
// parsed ruleset against an Application's registries into a Filter/Action
// Tree, then walks that tree over a mapping sequence to produce an ordered
// list of typed products.
package engine

import (
	"github.com/sssomt/sssomt/internal/format"
	"github.com/sssomt/sssomt/internal/invert"
	"github.com/sssomt/sssomt/internal/prefix"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
	"github.com/sssomt/sssomt/internal/uriexpr"
)

// Application is the Transform Application contract (spec §6): the host's
// single extension point, parameterized by the product type T the engine
// emits. Construction order, per spec §9, is Application → PrefixManager →
// Formatter → function registration → Parser → Engine; OnInit is called
// once by Compile before any rule in the file is processed.
type Application[T any] interface {
	PrefixManager() *prefix.Manager
	Formatter() *format.Formatter
	URIExpressionRegistry() *uriexpr.TemplateRegistry
	InverseTable() *invert.Table

	// EntityExists and AddClass together form the entity_checker collaborator
	// the exists() filter function defers to.
	EntityExists(iri string) bool
	AddClass(iri string)

	// ResolveFilterFunction and ResolveActionFunction bind a CALL node's name
	// to a concrete callable, validating args/named against the function's
	// arity. Unknown names and arity failures should be reported by wrapping
	// ErrUnknownFunction / ErrArityMismatch.
	ResolveFilterFunction(name string, args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error)
	ResolveActionFunction(name string, args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[T], error)

	// OnInit lets the host preload prefixes beyond the built-in set before
	// the ruleset's own "prefix" declarations are applied.
	OnInit(pm *prefix.Manager)
}
