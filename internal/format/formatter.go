// Package format implements the Mapping Formatter (spec §4.C): compiling
// "%{field|mod1|mod2(args)}" template strings into a MappingTransformer
// that renders a Mapping to a string, dispatching modifiers to a pluggable
// registry.
package format

import (
	"fmt"
	"strings"

	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/prefix"
	"github.com/sssomt/sssomt/internal/uriexpr"
)

// Transformer renders a Mapping to a string. It is the compiled form of a
// single template; it never fails for a template that compiled cleanly,
// except where a modifier does genuinely data-dependent work at run time
// and returns an error, which the Transformer returns wrapped in a
// FormatError. None of the built-in modifiers returns an error.
type Transformer func(m model.Mapping) (string, error)

// CompileError is one problem found while compiling a template: an
// unbalanced brace, an unknown field, an unknown modifier, or an arity
// mismatch. Compilation collects these rather than stopping at the first.
type CompileError struct {
	Template string
	Message  string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("template %q: %s", e.Template, e.Message)
}

// Formatter compiles template strings against a fixed field table, a
// Prefix Manager, and a URI Expression template registry, dispatching
// modifiers through a ModifierRegistry seeded with the built-ins described
// in spec §4.C.
type Formatter struct {
	prefixes  *prefix.Manager
	uriTmpls  *uriexpr.TemplateRegistry
	modifiers *ModifierRegistry
}

// NewFormatter returns a Formatter wired to prefixes and uriTemplates, with
// the built-in modifiers (short, uriexpr_slot_value, uriexpr_expand)
// already registered.
func NewFormatter(prefixes *prefix.Manager, uriTemplates *uriexpr.TemplateRegistry) *Formatter {
	f := &Formatter{
		prefixes:  prefixes,
		uriTmpls:  uriTemplates,
		modifiers: NewModifierRegistry(),
	}
	f.registerBuiltins()
	return f
}

// Modifiers exposes the registry so a Transform Application can register
// additional modifiers beyond the built-ins.
func (f *Formatter) Modifiers() *ModifierRegistry {
	return f.modifiers
}

func (f *Formatter) registerBuiltins() {
	f.modifiers.Register("short", "", func([]string) (ModifierFunc, error) {
		return func(value string) (string, error) {
			if curie, ok := f.prefixes.Shorten(value); ok {
				return curie, nil
			}
			return value, nil
		}, nil
	})

	f.modifiers.Register("uriexpr_slot_value", "S", func(args []string) (ModifierFunc, error) {
		slotName := args[0]
		return func(value string) (string, error) {
			expr, ok := uriexpr.Parse(value, f.prefixes)
			if !ok {
				return value, nil
			}
			iri, ok := expr.Component(slotName)
			if !ok {
				return value, nil
			}
			return iri, nil
		}, nil
	})

	f.modifiers.Register("uriexpr_expand", "S", func(args []string) (ModifierFunc, error) {
		syntax := args[0]
		return func(value string) (string, error) {
			expr, ok := uriexpr.Parse(value, f.prefixes)
			if !ok {
				return value, nil
			}
			rendered, ok := f.uriTmpls.ApplyTemplate(expr, syntax)
			if !ok {
				return value, nil
			}
			return rendered, nil
		}, nil
	})
}

// piece is one element of a compiled template: either literal text or a
// placeholder (field + modifier pipeline).
type piece struct {
	literal     string
	isLiteral   bool
	field       model.Field
	transformers []ModifierFunc
}

// Compile parses template and returns a Transformer. Compile errors are
// collected and returned alongside a Transformer that always errors with
// the first collected problem, so a host parsing a whole rules file can
// keep going after a bad template (spec §4.C "Compilation errors").
func (f *Formatter) Compile(template string) (Transformer, []error) {
	pieces, errs := f.parse(template)
	if len(errs) > 0 {
		msg := errs[0].Error()
		return func(model.Mapping) (string, error) {
			return "", fmt.Errorf("template %q failed to compile: %s", template, msg)
		}, errs
	}

	t := func(m model.Mapping) (string, error) {
		var b strings.Builder
		for _, p := range pieces {
			if p.isLiteral {
				b.WriteString(p.literal)
				continue
			}
			value, ok := f.derefField(p.field, m)
			if !ok {
				value = ""
			}
			for _, fn := range p.transformers {
				var err error
				value, err = fn(value)
				if err != nil {
					return "", &FormatError{Template: template, Cause: err}
				}
			}
			b.WriteString(value)
		}
		return b.String(), nil
	}
	return t, nil
}

// FormatError is raised by the Formatter during process for a template
// whose modifier pipeline does genuinely data-dependent work that only
// fails for certain mappings (spec §7).
type FormatError struct {
	Template string
	Cause    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("format template %q: %v", e.Template, e.Cause)
}

func (e *FormatError) Unwrap() error { return e.Cause }

func (f *Formatter) derefField(field model.Field, m model.Mapping) (string, bool) {
	switch field {
	case model.FieldSubjectCURIE:
		return f.shortenOrEmpty(m.SubjectID)
	case model.FieldPredicateCURIE:
		return f.shortenOrEmpty(m.PredicateID)
	case model.FieldObjectCURIE:
		return f.shortenOrEmpty(m.ObjectID)
	}
	if acc := model.ScalarAccessor(field); acc != nil {
		return acc(m)
	}
	if acc := model.ListFieldAccessor(field); acc != nil {
		values := acc(m)
		return strings.Join(values, "|"), len(values) > 0
	}
	return "", false
}

func (f *Formatter) shortenOrEmpty(iri string) (string, bool) {
	if iri == "" {
		return "", false
	}
	if curie, ok := f.prefixes.Shorten(iri); ok {
		return curie, true
	}
	return iri, true
}
