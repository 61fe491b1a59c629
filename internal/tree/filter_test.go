package tree

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/prefix"
)

func newTestPrefixes(t *testing.T) *prefix.Manager {
	t.Helper()
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("UBERON", "http://purl.obolibrary.org/obo/UBERON_"))
	require.NoError(t, pm.Add("CL", "http://purl.obolibrary.org/obo/CL_"))
	return pm
}

func TestIdMatchFilterExactAndWildcard(t *testing.T) {
	pm := newTestPrefixes(t)
	m := model.Mapping{SubjectID: "http://purl.obolibrary.org/obo/UBERON_0000468"}

	exact := NewIdMatchFilter("subject", "UBERON:0000468", pm)
	require.True(t, exact.Eval(m))

	prefixWildcard := NewIdMatchFilter("subject", "UBERON:*", pm)
	require.True(t, prefixWildcard.Eval(m))

	other := NewIdMatchFilter("subject", "CL:*", pm)
	require.False(t, other.Eval(m))

	anyNonEmpty := NewIdMatchFilter("subject", "*", pm)
	require.True(t, anyNonEmpty.Eval(m))
}

func TestIdMatchFilterCardinalityIsLiteral(t *testing.T) {
	pm := newTestPrefixes(t)
	m := model.Mapping{MappingCardinality: "1:n"}
	require.True(t, NewIdMatchFilter("cardinality", "1:n", pm).Eval(m))
	require.False(t, NewIdMatchFilter("cardinality", "n:1", pm).Eval(m))
}

func TestPredicateModifierIsNotFilter(t *testing.T) {
	f := PredicateModifierIsNotFilter{}
	require.True(t, f.Eval(model.Mapping{PredicateModifier: "Not"}))
	require.False(t, f.Eval(model.Mapping{}))
}

func TestAndOrShortCircuit(t *testing.T) {
	var rightEvaluated bool
	right := NewCallFilter(func(m model.Mapping) bool {
		rightEvaluated = true
		return true
	})

	falseFilter := NewCallFilter(func(model.Mapping) bool { return false })
	require.False(t, AndFilter{Left: falseFilter, Right: right}.Eval(model.Mapping{}))
	require.False(t, rightEvaluated, "&& must not evaluate the right side when the left side is false")

	rightEvaluated = false
	trueFilter := NewCallFilter(func(model.Mapping) bool { return true })
	require.True(t, OrFilter{Left: trueFilter, Right: right}.Eval(model.Mapping{}))
	require.False(t, rightEvaluated, "|| must not evaluate the right side when the left side is true")
}

func TestNotFilterNegates(t *testing.T) {
	trueFilter := NewCallFilter(func(model.Mapping) bool { return true })
	require.False(t, NotFilter{Inner: trueFilter}.Eval(model.Mapping{}))
}

func TestGroupFilterDelegatesToInner(t *testing.T) {
	trueFilter := NewCallFilter(func(model.Mapping) bool { return true })
	require.True(t, GroupFilter{Inner: trueFilter}.Eval(model.Mapping{}))
}
