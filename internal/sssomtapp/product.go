package sssomtapp

import "github.com/sssomt/sssomt/internal/model"

// ProductKind distinguishes the three shapes a rule can emit (spec §3
// [EXPANSION]): the transformed mapping itself, a plain rendered string
// (e.g. from a Mapping Formatter template), or a stub standing in for the
// OWL axiom a real back end would construct — axiom construction proper is
// out of scope (spec §1).
type ProductKind int

const (
	MappingProduct ProductKind = iota
	StringProduct
	AxiomStubProduct
)

func (k ProductKind) String() string {
	switch k {
	case MappingProduct:
		return "MappingProduct"
	case StringProduct:
		return "StringProduct"
	case AxiomStubProduct:
		return "AxiomStubProduct"
	default:
		return "UnknownProduct"
	}
}

// AxiomStub carries the (subject, predicate, object, kind) tuple a real
// axiom builder would consume (e.g. "SubClassOf", "EquivalentClasses").
type AxiomStub struct {
	Subject   string
	Predicate string
	Object    string
	Kind      string
}

// Product is the Reference Application's product sum type: T in
// engine.Engine[T] is Product throughout internal/sssomtapp and cmd/sssomt.
type Product struct {
	Kind    ProductKind
	Mapping model.Mapping
	Text    string
	Axiom   AxiomStub
}
