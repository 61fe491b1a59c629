package engine

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sssomt/sssomt/internal/format"
	"github.com/sssomt/sssomt/internal/invert"
	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/prefix"
	"github.com/sssomt/sssomt/internal/rules"
	"github.com/sssomt/sssomt/internal/tree"
	"github.com/sssomt/sssomt/internal/uriexpr"
)

// testApp is a minimal Application[T] used to exercise the engine in
// isolation, standing in for a real host like internal/sssomtapp.
type testApp[T any] struct {
	pm          *prefix.Manager
	formatter   *format.Formatter
	uriRegistry *uriexpr.TemplateRegistry
	invTable    *invert.Table

	filterFns map[string]func(args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error)
	actionFns map[string]func(args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[T], error)
}

func newTestApp[T any]() *testApp[T] {
	pm := prefix.NewManager()
	uriReg := uriexpr.NewTemplateRegistry()
	app := &testApp[T]{
		pm:          pm,
		formatter:   format.NewFormatter(pm, uriReg),
		uriRegistry: uriReg,
		invTable:    invert.NewTable(),
		filterFns:   map[string]func(args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error){},
		actionFns:   map[string]func(args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[T], error){},
	}
	app.filterFns["uriexpr_contains"] = app.buildURIExprContains
	return app
}

func (a *testApp[T]) PrefixManager() *prefix.Manager                     { return a.pm }
func (a *testApp[T]) Formatter() *format.Formatter                       { return a.formatter }
func (a *testApp[T]) URIExpressionRegistry() *uriexpr.TemplateRegistry   { return a.uriRegistry }
func (a *testApp[T]) InverseTable() *invert.Table                        { return a.invTable }
func (a *testApp[T]) EntityExists(iri string) bool                       { return false }
func (a *testApp[T]) AddClass(iri string)                                {}
func (a *testApp[T]) OnInit(pm *prefix.Manager)                          {}

func (a *testApp[T]) ResolveFilterFunction(name string, args []rules.Arg, named []rules.NamedArg) (tree.FilterFunc, error) {
	build, ok := a.filterFns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return build(args, named)
}

func (a *testApp[T]) ResolveActionFunction(name string, args []rules.Arg, named []rules.NamedArg) (tree.ActionFunc[T], error) {
	build, ok := a.actionFns[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFunction, name)
	}
	return build(args, named)
}

// buildURIExprContains implements uriexpr_contains(%{field-template}, 'slot', CURIE[*]):
// per spec §9's open question, a subject whose value is not a URI
// expression (or lacks the slot) simply does not match rather than erroring.
func (a *testApp[T]) buildURIExprContains(args []rules.Arg, _ []rules.NamedArg) (tree.FilterFunc, error) {
	if len(args) != 3 {
		return nil, fmt.Errorf("%w: uriexpr_contains wants 3 args, got %d", ErrArityMismatch, len(args))
	}
	transform, errs := a.formatter.Compile(args[0].Text)
	if len(errs) > 0 {
		return nil, fmt.Errorf("uriexpr_contains: %v", errs[0])
	}
	slot := args[1].Text
	pattern := args[2].Text

	return func(m model.Mapping) bool {
		value, err := transform(m)
		if err != nil {
			return false
		}
		expr, ok := uriexpr.Parse(value, a.pm)
		if !ok {
			return false
		}
		component, ok := expr.Component(slot)
		if !ok {
			return false
		}
		if strings.HasSuffix(pattern, "*") {
			wanted, ok := tree.ExpandWildcardBase(a.pm, pattern)
			return ok && strings.HasPrefix(component, wanted)
		}
		return component == a.pm.Expand(pattern)
	}, nil
}

func mustParse(t *testing.T, src string) *rules.RuleSet {
	t.Helper()
	rs, errs := rules.Parse(src)
	require.Empty(t, errs)
	return rs
}

// TestScenarioS1URIExpressionContains exercises spec scenario S1.
func TestScenarioS1URIExpressionContains(t *testing.T) {
	src := `prefix COMENT: <https://example.com/entities/>
subject==SCHEMA:0001* && uriexpr_contains(%{subject_id}, 'field1', COMENT:*) -> include();
`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()
	require.NoError(t, app.pm.Add("SCHEMA", "https://example.org/schema/"))

	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	matching := model.Mapping{SubjectID: "https://example.org/schema/0001/(field1:'COMENT:0011',field2:'COMENT:0012')"}
	nonMatching := model.Mapping{SubjectID: "https://example.org/schema/0001/(field1:'ORGENT:0001',field2:'COMENT:0012')"}
	require.NoError(t, app.pm.Add("ORGENT", "https://example.org/entities/"))

	out, err := eng.Process([]model.Mapping{matching, nonMatching}, Options[model.Mapping]{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, matching.SubjectID, out[0].SubjectID)
}

// TestScenarioS3InvertThenFilter exercises spec scenario S3.
func TestScenarioS3InvertThenFilter(t *testing.T) {
	src := `(subject==UBERON:* || subject==CL:*) -> invert();
!(object==UBERON:* || object==CL:*) -> stop();
subject==FBbt:* && object==UBERON:* -> include();
`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()
	require.NoError(t, app.pm.Add("UBERON", "http://purl.obolibrary.org/obo/UBERON_"))
	require.NoError(t, app.pm.Add("CL", "http://purl.obolibrary.org/obo/CL_"))
	require.NoError(t, app.pm.Add("FBbt", "http://purl.obolibrary.org/obo/FBbt_"))

	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	m := model.Mapping{
		SubjectID: "http://purl.obolibrary.org/obo/UBERON_0000468",
		ObjectID:  "http://purl.obolibrary.org/obo/FBbt_00000001",
	}

	out, err := eng.Process([]model.Mapping{m}, Options[model.Mapping]{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, "http://purl.obolibrary.org/obo/FBbt_00000001", out[0].SubjectID)
	require.Equal(t, "http://purl.obolibrary.org/obo/UBERON_0000468", out[0].ObjectID)
}

// TestScenarioS5ParseErrorRecovery exercises spec scenario S5 at the
// compile layer: a single unresolvable function yields exactly one error
// and no runnable engine.
func TestScenarioS5ParseErrorRecovery(t *testing.T) {
	src := `subject==A:* -> include();
subject==B:* && uriexpr_containz(%{subject_id}, 'field1', COMENT:*) -> include();
`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()

	eng, errs := Compile[model.Mapping](rs, app)
	require.Nil(t, eng)
	require.Len(t, errs, 1)
	var unknown *UnknownFunction
	require.ErrorAs(t, errs[0], &unknown)
	require.Equal(t, "uriexpr_containz", unknown.Name)
}

// TestScenarioS6NestedRulesShareOuterFilter exercises spec scenario S6.
func TestScenarioS6NestedRulesShareOuterFilter(t *testing.T) {
	src := `[tag1] subject==A:* {
  [tag2] predicate==skos:exactMatch -> include();
}
`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()
	require.NoError(t, app.pm.Add("A", "https://example.org/a/"))

	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	require.Equal(t, []string{"tag1", "tag2"}, eng.root[0].Nested[0].Tags)

	matching := model.Mapping{SubjectID: "https://example.org/a/0001", PredicateID: "http://www.w3.org/2004/02/skos/core#exactMatch"}
	wrongPredicate := model.Mapping{SubjectID: "https://example.org/a/0001", PredicateID: "http://www.w3.org/2004/02/skos/core#broadMatch"}

	out, err := eng.Process([]model.Mapping{matching, wrongPredicate}, Options[model.Mapping]{})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, matching.SubjectID, out[0].SubjectID)
}

// TestTagFilteringIncludeExclude exercises testable property 7.
func TestTagFilteringIncludeExclude(t *testing.T) {
	src := `[keep] subject==A:* -> include();
[drop] subject==B:* -> include();
`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()
	require.NoError(t, app.pm.Add("A", "https://example.org/a/"))
	require.NoError(t, app.pm.Add("B", "https://example.org/b/"))

	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	a := model.Mapping{SubjectID: "https://example.org/a/1"}
	b := model.Mapping{SubjectID: "https://example.org/b/1"}

	out, err := eng.Process([]model.Mapping{a, b}, Options[model.Mapping]{IncludeTags: []string{"keep"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, a.SubjectID, out[0].SubjectID)

	out, err = eng.Process([]model.Mapping{a, b}, Options[model.Mapping]{ExcludeTags: []string{"drop"}})
	require.NoError(t, err)
	require.Len(t, out, 1)
	require.Equal(t, a.SubjectID, out[0].SubjectID)
}

func TestTagFilterConflictIsAnError(t *testing.T) {
	rs := mustParse(t, `subject==A:* -> include();`)
	app := newTestApp[model.Mapping]()
	require.NoError(t, app.pm.Add("A", "https://example.org/a/"))
	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	_, err := eng.Process(nil, Options[model.Mapping]{IncludeTags: []string{"x"}, ExcludeTags: []string{"y"}})
	require.ErrorIs(t, err, ErrTagFilterConflict)
}

// TestStopHaltsRemainingRules exercises testable property 8.
func TestStopHaltsRemainingRules(t *testing.T) {
	src := `subject==A:* -> stop();
subject==A:* -> include();
`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()
	require.NoError(t, app.pm.Add("A", "https://example.org/a/"))
	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	out, err := eng.Process([]model.Mapping{{SubjectID: "https://example.org/a/1"}}, Options[model.Mapping]{})
	require.NoError(t, err)
	require.Empty(t, out)
}

// TestOrderPreservation exercises testable property 2: products come out
// in rule-file order, then mapping-sequence order.
func TestOrderPreservation(t *testing.T) {
	src := `subject==*  -> include();`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()

	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	mappings := []model.Mapping{
		{SubjectID: "urn:1"},
		{SubjectID: "urn:2"},
		{SubjectID: "urn:3"},
	}
	out, err := eng.Process(mappings, Options[model.Mapping]{})
	require.NoError(t, err)
	require.Equal(t, []string{"urn:1", "urn:2", "urn:3"}, []string{out[0].SubjectID, out[1].SubjectID, out[2].SubjectID})
}

func TestListenerNotifiedOnEmission(t *testing.T) {
	src := `subject==* -> include();`
	rs := mustParse(t, src)
	app := newTestApp[model.Mapping]()
	eng, errs := Compile[model.Mapping](rs, app)
	require.Empty(t, errs)

	var seen []model.Mapping
	opts := Options[model.Mapping]{Listener: func(_ tree.Rule[model.Mapping], mapping model.Mapping, product model.Mapping) {
		seen = append(seen, product)
	}}
	_, err := eng.Process([]model.Mapping{{SubjectID: "urn:1"}}, opts)
	require.NoError(t, err)
	require.Len(t, seen, 1)
	require.Equal(t, "urn:1", seen[0].SubjectID)
}
