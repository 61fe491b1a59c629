package uriexpr

import "strings"

// TemplateRegistry maps a schema IRI to the set of named rendering
// templates registered for it (one per target syntax, e.g. "Manchester").
// A template is literal text with "{slotName}" placeholders.
type TemplateRegistry struct {
	bySchema map[string]map[string]string
}

// NewTemplateRegistry returns an empty registry.
func NewTemplateRegistry() *TemplateRegistry {
	return &TemplateRegistry{bySchema: make(map[string]map[string]string)}
}

// Register adds (or replaces) the template for (schema, syntax).
func (r *TemplateRegistry) Register(schema, syntax, template string) {
	set, ok := r.bySchema[schema]
	if !ok {
		set = make(map[string]string)
		r.bySchema[schema] = set
	}
	set[syntax] = template
}

// ApplyTemplate looks up the template registered for (expr.Schema, syntax)
// and substitutes every "{slot}" placeholder with "<" + the slot's expanded
// IRI + ">". Returns ok=false if no template is registered for the pair, or
// if the template references a slot absent from expr.
func (r *TemplateRegistry) ApplyTemplate(expr Expression, syntax string) (string, bool) {
	set, ok := r.bySchema[expr.Schema]
	if !ok {
		return "", false
	}
	tmpl, ok := set[syntax]
	if !ok {
		return "", false
	}

	var b strings.Builder
	rest := tmpl
	for {
		open := strings.IndexByte(rest, '{')
		if open < 0 {
			b.WriteString(rest)
			break
		}
		closeIdx := strings.IndexByte(rest[open:], '}')
		if closeIdx < 0 {
			b.WriteString(rest)
			break
		}
		closeIdx += open
		b.WriteString(rest[:open])
		slotName := rest[open+1 : closeIdx]
		iri, ok := expr.Component(slotName)
		if !ok {
			return "", false
		}
		b.WriteByte('<')
		b.WriteString(iri)
		b.WriteByte('>')
		rest = rest[closeIdx+1:]
	}
	return b.String(), true
}
