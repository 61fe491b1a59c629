// Package tree implements the Filter/Action Tree (spec §4.E): the runtime
// representation the Rule Engine compiles an AST into. Filters are
// T-independent (spec §9); actions are generic over the product type T so
// a single tree shape drives OWL-axiom emission, mapping filtering, or
// plain string emission interchangeably.
package tree

import (
	"strings"

	"github.com/sssomt/sssomt/internal/model"
)

// Expander resolves a CURIE or bare IRI to its full IRI form, and looks up
// a bare prefix name's expansion directly — exactly like
// internal/prefix.Manager's Expand and Expansion methods.
type Expander interface {
	Expand(token string) string
	Expansion(name string) (string, bool)
}

// ExpandWildcardBase resolves the IRI a prefix-wildcard idValue (a CURIE
// ending in "*") should be compared against. "prefix:*" has an empty local
// part, which does not satisfy the CURIE grammar Expand requires, so that
// case is resolved via a direct prefix-table lookup instead; "prefix:local*"
// expands normally once the trailing "*" is stripped.
func ExpandWildcardBase(prefixes Expander, value string) (string, bool) {
	base := strings.TrimSuffix(value, "*")
	if strings.HasSuffix(base, ":") {
		return prefixes.Expansion(strings.TrimSuffix(base, ":"))
	}
	return prefixes.Expand(base), true
}

// Filter evaluates a boolean predicate over a mapping.
type Filter interface {
	Eval(m model.Mapping) bool
}

// FilterFunc adapts a resolved Application filter function (spec §6
// resolve_filter_function) into a Filter.
type FilterFunc func(m model.Mapping) bool

// callFilter wraps a FilterFunc so it satisfies Filter.
type callFilter struct{ fn FilterFunc }

// NewCallFilter wraps a resolved filter function as a tree Filter.
func NewCallFilter(fn FilterFunc) Filter { return callFilter{fn: fn} }

func (c callFilter) Eval(m model.Mapping) bool { return c.fn(m) }

// idFieldAliases maps the short idField names the grammar allows
// ("subject", "predicate", "object") to the underlying Mapping accessor.
var idFieldAliases = map[string]model.Field{
	"subject":   model.FieldSubjectID,
	"predicate": model.FieldPredicateID,
	"object":    model.FieldObjectID,
}

// IdMatchFilter implements the `field==value` filter (spec §4.E). value may
// be an exact CURIE, "*" (matches any non-empty field), or a CURIE ending
// in "*" (prefix-wildcard match against the expanded IRI).
type IdMatchFilter struct {
	Field    string
	Value    string
	Prefixes Expander
}

// NewIdMatchFilter builds the filter for one idField==idValue clause. The
// special field name "cardinality" compares mapping_cardinality literally,
// without CURIE expansion, since its values ("1:1", "n:1", ...) are not
// IRIs.
func NewIdMatchFilter(field, value string, prefixes Expander) Filter {
	return IdMatchFilter{Field: field, Value: value, Prefixes: prefixes}
}

func (f IdMatchFilter) Eval(m model.Mapping) bool {
	if f.Field == "cardinality" {
		actual, _ := model.ScalarAccessor(model.FieldMappingCardinality)(m)
		return actual == f.Value
	}

	mappedField, ok := idFieldAliases[f.Field]
	if !ok {
		mappedField = model.Field(f.Field)
	}
	accessor := model.ScalarAccessor(mappedField)
	if accessor == nil {
		return false
	}
	actual, ok := accessor(m)
	if !ok {
		return false
	}

	switch {
	case f.Value == "*":
		return actual != ""
	case strings.HasSuffix(f.Value, "*"):
		wanted, ok := ExpandWildcardBase(f.Prefixes, f.Value)
		if !ok {
			return false
		}
		return strings.HasPrefix(actual, wanted)
	default:
		return actual == f.Prefixes.Expand(f.Value)
	}
}

// PredicateModifierIsNotFilter implements the literal
// "predicate_modifier==Not" filter.
type PredicateModifierIsNotFilter struct{}

func (PredicateModifierIsNotFilter) Eval(m model.Mapping) bool {
	return m.PredicateModifier == "Not"
}

// NotFilter negates Inner.
type NotFilter struct{ Inner Filter }

func (f NotFilter) Eval(m model.Mapping) bool { return !f.Inner.Eval(m) }

// AndFilter short-circuits: Right is not evaluated when Left is false
// (testable property 6).
type AndFilter struct{ Left, Right Filter }

func (f AndFilter) Eval(m model.Mapping) bool {
	return f.Left.Eval(m) && f.Right.Eval(m)
}

// OrFilter short-circuits: Right is not evaluated when Left is true
// (testable property 6).
type OrFilter struct{ Left, Right Filter }

func (f OrFilter) Eval(m model.Mapping) bool {
	return f.Left.Eval(m) || f.Right.Eval(m)
}

// GroupFilter evaluates exactly like Inner; it exists only to mirror the
// AST's Group node one-to-one. It carries no source position.
type GroupFilter struct{ Inner Filter }

func (f GroupFilter) Eval(m model.Mapping) bool { return f.Inner.Eval(m) }
