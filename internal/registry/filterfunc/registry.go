// Package filterfunc is a per-Application registry of named filter
// functions (spec §6 resolve_filter_function). It mirrors the shape of the
// teacher's internal/registry/*/plugin.go packages (Name, Register, Select)
// but deliberately drops their package-level var and sync.Once
// registration: spec §9 requires "registries without global state... no
// process-wide singleton", since two Applications in the same process must
// not share or clobber each other's function tables.
package filterfunc

import (
	"fmt"
	"strconv"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
)

// Builder binds a CALL's already-parsed arguments into a callable filter
// function, or reports an error if the arguments don't make sense for this
// function beyond plain arity (which Resolve checks first).
type Builder func(args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error)

type entry struct {
	arity   string
	builder Builder
}

// Registry is one Application's table of resolvable filter functions.
type Registry struct {
	entries map[string]entry
}

// New returns an empty registry. Construct one per Application instance.
func New() *Registry {
	return &Registry{entries: make(map[string]entry)}
}

// Register adds a filter function under name, with the arity signature
// encoding from spec §4.C ("" none, "S" one string-like arg, "I" one
// number, "*" variadic, "(SS)+" one-or-more pairs — reused here for
// positional CALL arguments since the grammar shapes are identical).
func (r *Registry) Register(name, arity string, builder Builder) {
	r.entries[name] = entry{arity: arity, builder: builder}
}

// Names returns every registered filter function name.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.entries))
	for name := range r.entries {
		names = append(names, name)
	}
	return names
}

// Resolve binds name's function against a CALL's arguments, wrapping
// engine.ErrUnknownFunction / engine.ErrArityMismatch as needed so
// Application.ResolveFilterFunction can return the result directly.
func (r *Registry) Resolve(name string, args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error) {
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
		// A plain digit string (e.g. "3") means "exactly that many
		// positional arguments" — for built-ins whose shape is fixed but
		// longer than one argument (uriexpr_contains's template/slot/value
		// triple), rather than stretching "(SS)+"'s pair-oriented encoding.
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
