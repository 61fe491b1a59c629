package uriexpr

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sssomt/sssomt/internal/prefix"
)

func TestParseSimpleExpression(t *testing.T) {
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("COMENT", "https://example.com/entities/"))

	expr, ok := Parse("https://example.org/schema/0001/(field1:'COMENT:0011',field2:'COMENT:0012')", pm)
	require.True(t, ok)
	require.Equal(t, "https://example.org/schema/0001", expr.Schema)
	require.Equal(t, []string{"field1", "field2"}, expr.ComponentNames())

	v, ok := expr.Component("field1")
	require.True(t, ok)
	require.Equal(t, "https://example.com/entities/0011", v)
}

func TestParseRejectsMissingTail(t *testing.T) {
	pm := prefix.NewManager()
	_, ok := Parse("https://example.org/schema/0001", pm)
	require.False(t, ok)
}

func TestParseRejectsWhitespace(t *testing.T) {
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("COMENT", "https://example.com/entities/"))
	_, ok := Parse("https://example.org/schema/0001/(field1: 'COMENT:0011')", pm)
	require.False(t, ok)
}

func TestParseRejectsUnknownPrefixValue(t *testing.T) {
	pm := prefix.NewManager()
	_, ok := Parse("https://example.org/schema/0001/(field1:'ORGENT:0001')", pm)
	require.False(t, ok)
}

func TestParseRejectsDuplicateKeys(t *testing.T) {
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("COMENT", "https://example.com/entities/"))
	_, ok := Parse("https://example.org/schema/0001/(field1:'COMENT:1',field1:'COMENT:2')", pm)
	require.False(t, ok)
}

func TestSerializeRoundTrip(t *testing.T) {
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("COMENT", "https://example.com/entities/"))

	original := "https://example.org/schema/0001/(field1:'COMENT:0011',field2:'COMENT:0012')"
	expr, ok := Parse(original, pm)
	require.True(t, ok)

	require.Equal(t, original, Serialize(expr, pm))
}

func TestApplyTemplateSubstitutesSlots(t *testing.T) {
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("COMENT", "https://example.com/entities/"))
	expr, ok := Parse("https://example.org/schema/0001/(field1:'COMENT:0011',field2:'COMENT:0012')", pm)
	require.True(t, ok)

	reg := NewTemplateRegistry()
	reg.Register("https://example.org/schema/0001", "Manchester", "{field1} and {field2}")

	out, ok := reg.ApplyTemplate(expr, "Manchester")
	require.True(t, ok)
	require.Equal(t, "<https://example.com/entities/0011> and <https://example.com/entities/0012>", out)
}

func TestApplyTemplateMissingSlotReturnsFalse(t *testing.T) {
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("COMENT", "https://example.com/entities/"))
	expr, ok := Parse("https://example.org/schema/0001/(field1:'COMENT:0011')", pm)
	require.True(t, ok)

	reg := NewTemplateRegistry()
	reg.Register("https://example.org/schema/0001", "Manchester", "{field1} and {field3}")

	_, ok = reg.ApplyTemplate(expr, "Manchester")
	require.False(t, ok)
}
