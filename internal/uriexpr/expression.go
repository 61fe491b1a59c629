// Package uriexpr implements the URI Expression codec (spec §4.B): parsing
// and serializing structured identifiers of the form
// "<schemaIRI>/(k1:'v1',k2:'v2',...)" that embed named CURIE-valued slots
// into a mapping's subject or object IRI, plus a registry of per-schema
// string templates used to render an expression into another syntax (e.g.
// Manchester OWL class expression syntax).
package uriexpr

import (
	"regexp"
	"strings"
)

// Expander is the subset of the Prefix Manager the codec needs: expanding a
// CURIE to an IRI and shortening an IRI back. Kept as an interface here so
// uriexpr does not import prefix and the two packages can be tested in
// isolation.
type Expander interface {
	Expand(token string) string
	Shorten(iri string) (string, bool)
	IsKnownPrefix(name string) bool
}

var (
	keyPattern   = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
	curieForSlot = regexp.MustCompile(`^[A-Za-z0-9_]+:[A-Za-z0-9_*./#-]+$`)
)

// slot is one key/IRI pair in an Expression, kept in insertion order.
type slot struct {
	name string
	iri  string
}

// Expression is the parsed form of a URI Expression: a schema IRI plus an
// ordered, key-unique set of slot name to expanded IRI.
type Expression struct {
	Schema string
	slots  []slot
}

// Parse returns the parsed Expression for text, or ok=false if text is not
// structurally a URI Expression: missing the "/(...)" tail, a malformed
// key/value pair, a duplicate key, or a value that does not expand through
// prefixes (unknown prefix, or not a CURIE at all). Whitespace anywhere in
// text also disqualifies it, per the grammar's "no whitespace" rule.
func Parse(text string, prefixes Expander) (Expression, bool) {
	if text == "" || strings.ContainsAny(text, " \t\r\n") {
		return Expression{}, false
	}
	if !strings.HasSuffix(text, ")") {
		return Expression{}, false
	}
	tailStart := strings.LastIndex(text, "/(")
	if tailStart <= 0 {
		return Expression{}, false
	}
	schema := text[:tailStart]
	body := text[tailStart+2 : len(text)-1]
	if body == "" {
		return Expression{}, false
	}

	parts := strings.Split(body, ",")
	expr := Expression{Schema: schema}
	seen := make(map[string]bool, len(parts))
	for _, part := range parts {
		name, curie, ok := splitPair(part)
		if !ok {
			return Expression{}, false
		}
		if seen[name] {
			return Expression{}, false
		}
		if !curieForSlot.MatchString(curie) {
			return Expression{}, false
		}
		idx := strings.IndexByte(curie, ':')
		if !prefixes.IsKnownPrefix(curie[:idx]) {
			return Expression{}, false
		}
		seen[name] = true
		expr.slots = append(expr.slots, slot{name: name, iri: prefixes.Expand(curie)})
	}
	return expr, true
}

func splitPair(part string) (name, curie string, ok bool) {
	colon := strings.IndexByte(part, ':')
	if colon < 0 {
		return "", "", false
	}
	name = part[:colon]
	if !keyPattern.MatchString(name) {
		return "", "", false
	}
	rest := part[colon+1:]
	if len(rest) < 2 || rest[0] != '\'' || rest[len(rest)-1] != '\'' {
		return "", "", false
	}
	return name, rest[1 : len(rest)-1], true
}

// Serialize renders expr back to its canonical textual form, preserving
// slot order and shortening each slot's IRI through prefixes. If a slot's
// IRI cannot be shortened (no registered prefix is a match), the full IRI
// is written between the quotes in place of a CURIE so Serialize never
// fails outright; well-formed expressions built from Parse always shorten
// cleanly since they came from an expand in the first place.
func Serialize(expr Expression, prefixes Expander) string {
	var b strings.Builder
	b.WriteString(expr.Schema)
	b.WriteString("/(")
	for i, s := range expr.slots {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(s.name)
		b.WriteString(":'")
		if curie, ok := prefixes.Shorten(s.iri); ok {
			b.WriteString(curie)
		} else {
			b.WriteString(s.iri)
		}
		b.WriteByte('\'')
	}
	b.WriteByte(')')
	return b.String()
}

// Component returns the expanded IRI bound to the named slot.
func (e Expression) Component(name string) (string, bool) {
	for _, s := range e.slots {
		if s.name == name {
			return s.iri, true
		}
	}
	return "", false
}

// ComponentNames returns slot names in declaration order.
func (e Expression) ComponentNames() []string {
	names := make([]string, len(e.slots))
	for i, s := range e.slots {
		names[i] = s.name
	}
	return names
}
