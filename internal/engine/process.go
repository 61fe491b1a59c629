package engine

import (
	"errors"

	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/tree"
)

// ErrTagFilterConflict is returned when Options sets both IncludeTags and
// ExcludeTags, which spec §4.F forbids ("the two are mutually exclusive;
// specifying both is an error").
var ErrTagFilterConflict = errors.New("include-tags and exclude-tags are mutually exclusive")

// Listener is notified after every successful product emission, in
// emission order (spec §4.F, §6 "product sinks").
type Listener[T any] func(rule tree.Rule[T], mapping model.Mapping, product T)

// Options configures one Process invocation.
type Options[T any] struct {
	IncludeTags []string
	ExcludeTags []string
	// Strict converts a FunctionRuntimeError into a hard stop that aborts
	// Process; by default such errors drop only the offending mapping.
	Strict   bool
	Listener Listener[T]
}

// Process walks the compiled tree over mappings in order, producing the
// ordered product list (spec §4.F, §5: single-threaded, deterministic,
// order-preserving). It must not be called concurrently with itself on the
// same Engine.
func (e *Engine[T]) Process(mappings []model.Mapping, opts Options[T]) ([]T, error) {
	if len(opts.IncludeTags) > 0 && len(opts.ExcludeTags) > 0 {
		return nil, ErrTagFilterConflict
	}

	var out []T
	for _, m := range mappings {
		for _, rule := range e.root {
			products, stopAll, err := e.evalRule(rule, m, opts)
			out = append(out, products...)
			if err != nil {
				return out, err
			}
			if stopAll {
				break
			}
		}
	}
	return out, nil
}

func tagsMatch[T any](tags []string, opts Options[T]) bool {
	if len(opts.IncludeTags) > 0 {
		for _, t := range opts.IncludeTags {
			if tree.HasTag(tags, t) {
				return true
			}
		}
		return false
	}
	if len(opts.ExcludeTags) > 0 {
		for _, t := range opts.ExcludeTags {
			if tree.HasTag(tags, t) {
				return false
			}
		}
	}
	return true
}

// evalRule evaluates one rule node (and, for nested rules, its subtree)
// against mapping m. stopAll reports whether a stop()/runtime-drop fired,
// so the caller halts remaining sibling/top-level rules for this mapping
// (spec §4.F step 4: "stop() inside nested bodies halts all remaining
// rules for this mapping").
func (e *Engine[T]) evalRule(node tree.Rule[T], m model.Mapping, opts Options[T]) (products []T, stopAll bool, err error) {
	if !tagsMatch(node.Tags, opts) {
		return nil, false, nil
	}
	if !node.Filter.Eval(m) {
		return nil, false, nil
	}

	current := m

	if node.Actions != nil {
		for _, action := range node.Actions {
			result := action.Apply(current)
			current = result.Mapping

			switch result.Kind {
			case tree.Error:
				if opts.Strict {
					return products, true, &FunctionRuntimeError{Cause: result.Cause}
				}
				return products, true, nil
			case tree.Drop:
				return products, true, nil
			case tree.Emit:
				products = append(products, result.Product)
				if opts.Listener != nil {
					opts.Listener(node, current, result.Product)
				}
			}

			if result.Stop {
				return products, true, nil
			}
		}
		return products, false, nil
	}

	for _, nested := range node.Nested {
		nestedProducts, stop, nerr := e.evalRule(nested, current, opts)
		products = append(products, nestedProducts...)
		if nerr != nil {
			return products, true, nerr
		}
		if stop {
			return products, true, nil
		}
	}
	return products, false, nil
}
