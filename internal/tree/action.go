package tree

import (
	"fmt"

	"github.com/sssomt/sssomt/internal/invert"
	"github.com/sssomt/sssomt/internal/model"
)

// Kind distinguishes the outcomes an action can produce (spec §4.E:
// Continue, InvertedContinue, Drop, Emit, Error). InvertedContinue is not a
// separate Kind here: it is represented as Kind == Continue with Mapping
// set to the inverted value, since every Continue already carries forward
// whatever mapping the action produced.
type Kind int

const (
	Continue Kind = iota
	Drop
	Emit
	Error
)

// Result is the outcome of applying one action to a mapping.
type Result[T any] struct {
	Kind    Kind
	Mapping model.Mapping
	Product T
	Stop    bool // set by stop(); halts the remaining actions and rules for this mapping
	Cause   error
}

// ContinueWith produces a Continue result carrying the (possibly edited)
// mapping forward to the next action.
func ContinueWith[T any](m model.Mapping) Result[T] {
	return Result[T]{Kind: Continue, Mapping: m}
}

// DropResult produces a Drop result: the mapping is discarded silently.
func DropResult[T any](m model.Mapping) Result[T] {
	return Result[T]{Kind: Drop, Mapping: m}
}

// EmitResult produces an Emit result carrying product downstream.
func EmitResult[T any](m model.Mapping, product T) Result[T] {
	return Result[T]{Kind: Emit, Mapping: m, Product: product}
}

// ErrorResult wraps a FunctionRuntimeError-style failure raised while
// applying an action.
func ErrorResult[T any](m model.Mapping, cause error) Result[T] {
	return Result[T]{Kind: Error, Mapping: m, Cause: cause}
}

// Action applies one edit/effect to a mapping, producing a Result[T].
type Action[T any] interface {
	Apply(m model.Mapping) Result[T]
}

// ActionFunc adapts a resolved Application action function (spec §6
// resolve_action_function) into an Action[T].
type ActionFunc[T any] func(m model.Mapping) Result[T]

type callAction[T any] struct{ fn ActionFunc[T] }

// NewCallAction wraps a resolved action function as a tree Action.
func NewCallAction[T any](fn ActionFunc[T]) Action[T] { return callAction[T]{fn: fn} }

func (c callAction[T]) Apply(m model.Mapping) Result[T] { return c.fn(m) }

// StopAction halts evaluation of all remaining actions and rules for the
// current mapping (spec §4.E "stop()").
type StopAction[T any] struct{}

func (StopAction[T]) Apply(m model.Mapping) Result[T] {
	r := ContinueWith[T](m)
	r.Stop = true
	return r
}

// InvertAction swaps subject/object fields and inverts cardinality via
// model.Mapping.Invert, then consults Table for a predicate inversion
// (spec §4.E "invert()": the predicate is left untouched unless the
// application registered an inversion map).
type InvertAction[T any] struct {
	Table *invert.Table
}

func (a InvertAction[T]) Apply(m model.Mapping) Result[T] {
	out := m.Invert()
	if a.Table != nil {
		out.PredicateID = a.Table.Apply(m.PredicateID)
	}
	return ContinueWith[T](out)
}

// IncludeAction emits the current mapping itself as the product. It
// requires T = model.Mapping (spec §4.E); applications that parameterize
// the engine over any other product type must never reference include()
// from their rules, and get a runtime Error result if they do.
type IncludeAction[T any] struct{}

func (IncludeAction[T]) Apply(m model.Mapping) Result[T] {
	product, ok := any(m).(T)
	if !ok {
		return ErrorResult[T](m, fmt.Errorf("include(): product type is not model.Mapping"))
	}
	return EmitResult(m, product)
}
