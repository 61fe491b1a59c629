package sssomtapp

import (
	"fmt"
	"strings"

	"github.com/dlclark/regexp2"
	"github.com/itchyny/gojq"

	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
	"github.com/sssomt/sssomt/internal/uriexpr"
)

func (a *Application) registerBuiltinFunctions() {
	a.filters.Register("exists", "S", a.buildExistsFilter)
	a.filters.Register("uriexpr_contains", "3", a.buildURIExprContainsFilter)
	a.filters.Register("jq", "S", a.buildJQFilter)

	a.actions.Register("addSimpleAssign", "(SS)+", a.buildAddSimpleAssign)
	a.actions.Register("addReplacement", "3", a.buildAddReplacement)
	a.actions.Register("generateAxiomStub", "S", a.buildGenerateAxiomStub)
	a.actions.Register("jq", "S", a.buildJQAction)
}

// exists(idRef) reports whether idRef names an entity the host has
// asserted via AddClass (spec §4.H).
func (a *Application) buildExistsFilter(args []rules.Arg, _ []rules.NamedArg) (tree.FilterFunc, error) {
	value, err := a.bindArg(args[0])
	if err != nil {
		return nil, fmt.Errorf("exists: %w", err)
	}
	return func(m model.Mapping) bool {
		iri, err := value(m)
		if err != nil {
			return false
		}
		return a.EntityExists(iri)
	}, nil
}

// uriexpr_contains(template, slot, value) parses the rendered template as a
// URI Expression and reports whether its named slot's expanded IRI equals,
// or prefix-wildcard-matches, value. A subject/object that does not parse
// as a URI Expression, or lacks the named slot, simply does not match
// rather than erroring (spec §9 open question on partial data).
func (a *Application) buildURIExprContainsFilter(args []rules.Arg, _ []rules.NamedArg) (tree.FilterFunc, error) {
	transform, errs := a.formatter.Compile(args[0].Text)
	if len(errs) > 0 {
		return nil, fmt.Errorf("uriexpr_contains: %w", errs[0])
	}
	slot := args[1].Text
	pattern := args[2].Text

	return func(m model.Mapping) bool {
		value, err := transform(m)
		if err != nil {
			return false
		}
		expr, ok := uriexpr.Parse(value, a.prefixes)
		if !ok {
			return false
		}
		component, ok := expr.Component(slot)
		if !ok {
			return false
		}
		if strings.HasSuffix(pattern, "*") {
			wanted, ok := tree.ExpandWildcardBase(a.prefixes, pattern)
			return ok && strings.HasPrefix(component, wanted)
		}
		return component == a.prefixes.Expand(pattern)
	}, nil
}

// addSimpleAssign('field1','value1','field2','value2',...) sets each named
// scalar field to value, which may itself be a "%{...}" template (spec §3
// Assign; realized as a Call, see DESIGN.md).
func (a *Application) buildAddSimpleAssign(args []rules.Arg, _ []rules.NamedArg) (tree.ActionFunc[Product], error) {
	type assignment struct {
		field model.Field
		value argValue
	}
	assignments := make([]assignment, 0, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		field := model.Field(args[i].Text)
		value, err := a.bindArg(args[i+1])
		if err != nil {
			return nil, fmt.Errorf("addSimpleAssign: %w", err)
		}
		assignments = append(assignments, assignment{field: field, value: value})
	}

	return func(m model.Mapping) tree.Result[Product] {
		out := m.Clone()
		for _, asn := range assignments {
			rendered, err := asn.value(m)
			if err != nil {
				return tree.ErrorResult[Product](m, fmt.Errorf("addSimpleAssign: %w", err))
			}
			if err := setMappingField(&out, asn.field, rendered); err != nil {
				return tree.ErrorResult[Product](m, fmt.Errorf("addSimpleAssign: %w", err))
			}
		}
		return tree.ContinueWith[Product](out)
	}, nil
}

// addReplacement(field, pattern, replacement) rewrites field's current
// value with an ECMAScript-mode regular expression (spec §3 Replace,
// spec §9's note that regex replacement needs a real regex engine: the
// stdlib's RE2 lacks backreferences, so this uses dlclark/regexp2).
func (a *Application) buildAddReplacement(args []rules.Arg, _ []rules.NamedArg) (tree.ActionFunc[Product], error) {
	field := model.Field(args[0].Text)
	pattern := args[1].Text
	replacement := args[2].Text

	re, err := regexp2.Compile(pattern, regexp2.ECMAScript)
	if err != nil {
		return nil, fmt.Errorf("addReplacement: compiling %q: %w", pattern, err)
	}

	return func(m model.Mapping) tree.Result[Product] {
		accessor := model.ScalarAccessor(field)
		if accessor == nil {
			return tree.ErrorResult[Product](m, fmt.Errorf("addReplacement: unknown field %q", field))
		}
		current, ok := accessor(m)
		if !ok {
			return tree.ContinueWith[Product](m)
		}
		replaced, err := re.Replace(current, replacement, -1, -1)
		if err != nil {
			return tree.ErrorResult[Product](m, fmt.Errorf("addReplacement: %w", err))
		}
		out := m.Clone()
		if err := setMappingField(&out, field, replaced); err != nil {
			return tree.ErrorResult[Product](m, fmt.Errorf("addReplacement: %w", err))
		}
		return tree.ContinueWith[Product](out)
	}, nil
}

// generateAxiomStub(kind) emits an AxiomStubProduct carrying the current
// subject/predicate/object as the (subject, predicate, object, kind) tuple
// a real OWL axiom builder would consume.
func (a *Application) buildGenerateAxiomStub(args []rules.Arg, _ []rules.NamedArg) (tree.ActionFunc[Product], error) {
	kind := args[0].Text
	return func(m model.Mapping) tree.Result[Product] {
		product := Product{Kind: AxiomStubProduct, Axiom: AxiomStub{
			Subject:   m.SubjectID,
			Predicate: m.PredicateID,
			Object:    m.ObjectID,
			Kind:      kind,
		}}
		return tree.EmitResult(m, product)
	}, nil
}

// jq(expr), as a filter, evaluates a jq expression against the mapping's
// JSON projection and treats a jq-truthy result as a match. Demonstrates
// the "applications may register arbitrary filter functions" extensibility
// point (spec §4.F) with a real general-purpose query language rather than
// another bespoke DSL.
func (a *Application) buildJQFilter(args []rules.Arg, _ []rules.NamedArg) (tree.FilterFunc, error) {
	query, err := gojq.Parse(args[0].Text)
	if err != nil {
		return nil, fmt.Errorf("jq: %w", err)
	}
	return func(m model.Mapping) bool {
		v, ok := runJQOnce(query, mappingToJSON(m))
		if !ok {
			return false
		}
		return jqTruthy(v)
	}, nil
}

// jq(expr), as an action, evaluates a jq expression and emits its result as
// a StringProduct (formatted via fmt.Sprintf when the result is not
// already a string), or simply continues if the query yields nothing.
func (a *Application) buildJQAction(args []rules.Arg, _ []rules.NamedArg) (tree.ActionFunc[Product], error) {
	query, err := gojq.Parse(args[0].Text)
	if err != nil {
		return nil, fmt.Errorf("jq: %w", err)
	}
	return func(m model.Mapping) tree.Result[Product] {
		v, ok := runJQOnce(query, mappingToJSON(m))
		if !ok {
			return tree.ContinueWith[Product](m)
		}
		if err, isErr := v.(error); isErr {
			return tree.ErrorResult[Product](m, fmt.Errorf("jq: %w", err))
		}
		text, ok := v.(string)
		if !ok {
			text = fmt.Sprintf("%v", v)
		}
		return tree.EmitResult(m, Product{Kind: StringProduct, Text: text})
	}, nil
}

func runJQOnce(query *gojq.Query, input any) (any, bool) {
	iter := query.Run(input)
	return iter.Next()
}

func jqTruthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case error:
		return false
	default:
		return true
	}
}

func mappingToJSON(m model.Mapping) map[string]any {
	out := map[string]any{
		"subject_id":             m.SubjectID,
		"subject_label":          m.SubjectLabel,
		"subject_category":       m.SubjectCategory,
		"subject_type":           m.SubjectType,
		"subject_source":         m.SubjectSource,
		"subject_preprocessing":  m.SubjectPreprocessing,
		"predicate_id":           m.PredicateID,
		"predicate_modifier":     m.PredicateModifier,
		"object_id":              m.ObjectID,
		"object_label":           m.ObjectLabel,
		"object_category":        m.ObjectCategory,
		"object_type":            m.ObjectType,
		"object_source":          m.ObjectSource,
		"object_preprocessing":   m.ObjectPreprocessing,
		"mapping_justification":  m.MappingJustification,
		"mapping_cardinality":    m.MappingCardinality,
		"match_string":           m.MatchString,
		"comment":                m.Comment,
		"mapping_date":           m.MappingDate,
		"mapping_tool":           m.MappingTool,
		"similarity_measure":     m.SimilarityMeasure,
		"author_id":              m.AuthorID,
		"mapping_provider":       m.MappingProvider,
	}
	if m.Confidence != nil {
		out["confidence"] = *m.Confidence
	}
	if m.SimilarityScore != nil {
		out["similarity_score"] = *m.SimilarityScore
	}
	return out
}
