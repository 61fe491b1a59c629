package format

import "fmt"

// ModifierFunc transforms the pipeline value flowing through a template
// placeholder. It is bound to its literal arguments at compile time; only
// the value threading through "%{field|mod1|mod2}" changes per call.
type ModifierFunc func(value string) (string, error)

// ModifierBuilder binds a modifier's literal argument list (already split
// and unquoted) into a ModifierFunc, or reports an error if the arguments
// don't make sense for this modifier (beyond plain arity, which the
// registry checks before Build is invoked).
type ModifierBuilder func(args []string) (ModifierFunc, error)

// modifier is one registered entry: a name, its arity signature (in the
// short encoding from spec §4.C: "" no args, "S" one string, "I" one
// integer, "*" variadic, "(SS)+" one-or-more key/value pairs), and the
// builder that binds literal arguments.
type modifier struct {
	arity   string
	builder ModifierBuilder
}

// ModifierRegistry is the pluggable table of %{...} modifiers. Applications
// register additional entries beyond the built-ins the Formatter seeds
// (short, uriexpr_slot_value, uriexpr_expand).
type ModifierRegistry struct {
	entries map[string]modifier
}

// NewModifierRegistry returns an empty registry.
func NewModifierRegistry() *ModifierRegistry {
	return &ModifierRegistry{entries: make(map[string]modifier)}
}

// Register adds a modifier under name with the given arity signature.
func (r *ModifierRegistry) Register(name, arity string, builder ModifierBuilder) {
	r.entries[name] = modifier{arity: arity, builder: builder}
}

// Lookup binds name's modifier against args, checking arity first. Returns
// (nil, false, nil) when name is not registered at all, versus (nil, true,
// err) when it is registered but arity/argument binding failed.
func (r *ModifierRegistry) Lookup(name string, args []string) (fn ModifierFunc, known bool, err error) {
	m, ok := r.entries[name]
	if !ok {
		return nil, false, nil
	}
	if arityErr := checkArity(m.arity, args); arityErr != nil {
		return nil, true, arityErr
	}
	fn, err = m.builder(args)
	return fn, true, err
}

func checkArity(arity string, args []string) error {
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
		// variadic: any count, including zero
	case "(SS)+":
		if len(args) == 0 || len(args)%2 != 0 {
			return fmt.Errorf("expected a positive even number of arguments (key/value pairs), got %d", len(args))
		}
	default:
		return fmt.Errorf("unrecognized arity signature %q", arity)
	}
	return nil
}
