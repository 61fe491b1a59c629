// Package prefix implements the Prefix Manager (spec §4.A): an ordered
// table mapping short prefix names to IRI expansions, used throughout the
// engine to resolve CURIEs to full IRIs and to shorten IRIs back for
// display.
package prefix

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// curiePattern matches a token that looks like a CURIE: a non-empty
// identifier prefix, a colon, and a non-empty local part. Tokens that don't
// match (bare IRIs, angle-bracketed IRIs, things starting with "http") are
// returned unchanged by Expand.
var curiePattern = regexp.MustCompile(`^[A-Za-z0-9_]+:[A-Za-z0-9_*./#-]+$`)

// builtin is the preloaded set of well-known prefixes every Manager starts
// with. Callers may override any of them by calling Add.
var builtin = map[string]string{
	"owl":    "http://www.w3.org/2002/07/owl#",
	"rdf":    "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
	"rdfs":   "http://www.w3.org/2000/01/rdf-schema#",
	"xsd":    "http://www.w3.org/2001/XMLSchema#",
	"skos":   "http://www.w3.org/2004/02/skos/core#",
	"semapv": "https://w3id.org/semapv/vocab/",
	"sssom":  "https://w3id.org/sssom/",
}

// builtinOrder preserves the insertion order of the built-in set so ties in
// Shorten break in a deterministic, documented way.
var builtinOrder = []string{"owl", "rdf", "rdfs", "xsd", "skos", "semapv", "sssom"}

// ConflictError is returned by Add in strict mode when a prefix name is
// already registered with a different expansion.
type ConflictError struct {
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("prefix: conflicting redefinition of %q", e.Name)
}

// entry keeps a prefix's expansion alongside its insertion index so
// Shorten can break ties deterministically.
type entry struct {
	iri   string
	order int
}

// Manager holds the live prefix table for one Application. It is not safe
// for concurrent mutation; per spec §5, registries are populated at
// initialization and read thereafter.
type Manager struct {
	entries map[string]entry
	next    int
	strict  bool
}

// NewManager returns a Manager preloaded with the built-in prefix set.
func NewManager() *Manager {
	m := &Manager{entries: make(map[string]entry)}
	for _, name := range builtinOrder {
		m.add(name, builtin[name])
	}
	return m
}

// SetStrict toggles strict mode: once enabled, Add returns a *ConflictError
// instead of silently replacing an existing prefix's expansion.
func (m *Manager) SetStrict(strict bool) {
	m.strict = strict
}

// Add registers prefix with the given IRI expansion, replacing any existing
// expansion for the same name. In strict mode, redefining a prefix with a
// different IRI returns a *ConflictError and the table is left unchanged.
func (m *Manager) Add(name, iri string) error {
	if existing, ok := m.entries[name]; ok && existing.iri != iri {
		if m.strict {
			return &ConflictError{Name: name}
		}
	}
	m.add(name, iri)
	return nil
}

func (m *Manager) add(name, iri string) {
	if existing, ok := m.entries[name]; ok {
		m.entries[name] = entry{iri: iri, order: existing.order}
		return
	}
	m.entries[name] = entry{iri: iri, order: m.next}
	m.next++
}

// IsKnownPrefix reports whether name has a registered expansion.
func (m *Manager) IsKnownPrefix(name string) bool {
	_, ok := m.entries[name]
	return ok
}

// Expand treats token as a CURIE ("prefix:local") when it matches the CURIE
// grammar and prefix is registered; it returns the expanded IRI. Any other
// token (a bare IRI, an angle-bracketed IRI, or a CURIE whose prefix is
// unknown) is returned unchanged.
func (m *Manager) Expand(token string) string {
	if token == "" {
		return token
	}
	if strings.HasPrefix(token, "<") && strings.HasSuffix(token, ">") {
		return token
	}
	if strings.HasPrefix(token, "http") {
		return token
	}
	if !curiePattern.MatchString(token) {
		return token
	}
	idx := strings.IndexByte(token, ':')
	name, local := token[:idx], token[idx+1:]
	e, ok := m.entries[name]
	if !ok {
		return token
	}
	return e.iri + local
}

// shortenCandidate is a match found while scanning the table for Shorten.
type shortenCandidate struct {
	name  string
	iri   string
	order int
}

// Shorten picks the registered prefix whose expansion is the longest
// matching leading substring of iri and returns "name:local". Ties are
// broken by insertion order (first registered wins). Returns ("", false)
// when no registered prefix's expansion is a prefix of iri.
func (m *Manager) Shorten(iri string) (string, bool) {
	var best *shortenCandidate
	for name, e := range m.entries {
		if !strings.HasPrefix(iri, e.iri) {
			continue
		}
		cand := shortenCandidate{name: name, iri: e.iri, order: e.order}
		if best == nil ||
			len(cand.iri) > len(best.iri) ||
			(len(cand.iri) == len(best.iri) && cand.order < best.order) {
			c := cand
			best = &c
		}
	}
	if best == nil {
		return "", false
	}
	return best.name + ":" + iri[len(best.iri):], true
}

// Names returns the registered prefix names in insertion order.
func (m *Manager) Names() []string {
	names := make([]string, 0, len(m.entries))
	for name := range m.entries {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		return m.entries[names[i]].order < m.entries[names[j]].order
	})
	return names
}

// Expansion returns the IRI registered for name, if any.
func (m *Manager) Expansion(name string) (string, bool) {
	e, ok := m.entries[name]
	if !ok {
		return "", false
	}
	return e.iri, true
}
