// Package actionfunc is a per-Application registry of named action
// functions (spec §6 resolve_action_function), generic over the product
// type T so one table can hand out actions that emit T. See
// internal/registry/filterfunc for the rationale behind keeping this an
// instance, not a package-level singleton.
package actionfunc

import (
	"fmt"
	"strconv"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
)

// Builder binds a CALL's already-parsed arguments into a callable action
// function.
type Builder[T any] func(args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[T], error)

type entry[T any] struct {
	arity   string
	builder Builder[T]
}

// Registry is one Application's table of resolvable action functions.
type Registry[T any] struct {
	entries map[string]entry[T]
}

// New returns an empty registry. Construct one per Application instance.
func New[T any]() *Registry[T] {
	return &Registry[T]{entries: make(map[string]entry[T])}
}

// Register adds an action function under name with an arity signature (see
// filterfunc.Registry.Register for the encoding).
func (r *Registry[T]) Register(name, arity string, builder Builder[T]) {
	r.entries[name] = entry[T]{arity: arity, builder: builder}
}

// Names returns every registered action function name.
func (r *Registry[T]) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Resolve binds name's function against a CALL's arguments, wrapping
// engine.ErrUnknownFunction / engine.ErrArityMismatch as needed.
func (r *Registry[T]) Resolve(name string, args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[T], error) {
	e, ok := r.entries[name]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, engine.ErrUnknownFunction)
	}
	if err := checkArity(e.arity, args); err != nil {
		return nil, fmt.Errorf("%s: %w: %s", name, engine.ErrArityMismatch, err)
	}
	return e.builder(args, named)
}

func checkArity(arity string, args []rules.Arg) error {
	switch arity {
	case "":
		if len(args) != 0 {
			return fmt.Errorf("expected no arguments, got %d", len(args))
		}
	case "S", "I":
		if len(args) != 1 {
			return fmt.Errorf("expected exactly 1 argument, got %d", len(args))
		}
	case "*":
	case "(SS)+":
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("expected a positive even number of arguments (key/value pairs), got %d", len(args))
		}
	default:
		if n, err := strconv.Atoi(arity); err == nil && n >= 0 {
			if len(args) != n {
				return fmt.Errorf("expected exactly %d arguments, got %d", n, len(args))
			}
			return nil
		}
		return fmt.Errorf("unrecognized arity signature %q", arity)
	}
	return nil
}
