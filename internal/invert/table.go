// Package invert holds the inverse-predicate table consulted by the
// invert() action. The source hardcodes a small set of inversions; here it
// is a configurable map defaulting to the SSSOM-recommended set (spec §9).
package invert

// Table maps a predicate IRI to the IRI of its inverse. A predicate absent
// from the table is left untouched by invert() (spec §4.E).
type Table struct {
	entries map[string]string
}

// NewTable returns a Table preloaded with the SSSOM-recommended inversions.
// Entries not listed here (e.g. skos:exactMatch, owl:equivalentClass) are
// self-inverse and intentionally mapped to themselves so invert() never
// drops the predicate for them.
func NewTable() *Table {
	t := &Table{entries: make(map[string]string, len(defaultPairs)*2)}
	for _, p := range defaultPairs {
		t.Set(p[0], p[1])
	}
	for _, iri := range selfInverse {
		t.entries[iri] = iri
	}
	return t
}

var defaultPairs = [][2]string{
	{"https://w3id.org/semapv/vocab/broadMatch", "https://w3id.org/semapv/vocab/narrowMatch"},
	{skosBroadMatch, skosNarrowMatch},
}

const (
	skosBroadMatch   = "http://www.w3.org/2004/02/skos/core#broadMatch"
	skosNarrowMatch  = "http://www.w3.org/2004/02/skos/core#narrowMatch"
	skosExactMatch   = "http://www.w3.org/2004/02/skos/core#exactMatch"
	skosCloseMatch   = "http://www.w3.org/2004/02/skos/core#closeMatch"
	skosRelatedMatch = "http://www.w3.org/2004/02/skos/core#relatedMatch"
	owlEquivClass    = "http://www.w3.org/2002/07/owl#equivalentClass"
)

var selfInverse = []string{skosExactMatch, skosCloseMatch, skosRelatedMatch, owlEquivClass}

// Set registers a↔b as mutual inverses, overwriting any prior entries for
// either IRI. Applications use this to extend or override the default set.
func (t *Table) Set(a, b string) {
	t.entries[a] = b
	t.entries[b] = a
}

// Inverse returns the inverse of predicate, or predicate unchanged and
// false if no inversion is registered.
func (t *Table) Inverse(predicate string) (string, bool) {
	inv, ok := t.entries[predicate]
	if !ok {
		return predicate, false
	}
	return inv, true
}

// Apply returns the inverse of predicate if one is registered, else
// predicate unchanged — the form invert() actually wants, since an
// unregistered predicate is left untouched rather than treated as an error.
func (t *Table) Apply(predicate string) string {
	if inv, ok := t.entries[predicate]; ok {
		return inv
	}
	return predicate
}
