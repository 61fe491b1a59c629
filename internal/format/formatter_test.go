package format

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/prefix"
	"github.com/sssomt/sssomt/internal/uriexpr"
)

func newTestFormatter(t *testing.T) (*Formatter, *prefix.Manager) {
	t.Helper()
	pm := prefix.NewManager()
	require.NoError(t, pm.Add("ORGENT", "https://example.org/entities/"))
	require.NoError(t, pm.Add("COMENT", "https://example.com/entities/"))
	return NewFormatter(pm, uriexpr.NewTemplateRegistry()), pm
}

func TestFormatterSlotValueExtraction(t *testing.T) {
	f, _ := newTestFormatter(t)
	m := model.Mapping{SubjectID: "https://example.org/schema/0001/(field1:'ORGENT:0001',field2:'COMENT:0011')"}

	tr, errs := f.Compile("%{subject_id|uriexpr_slot_value(field1)}")
	require.Empty(t, errs)

	out, err := tr(m)
	require.NoError(t, err)
	require.Equal(t, "https://example.org/entities/0001", out)
}

func TestFormatterSlotValueThenShort(t *testing.T) {
	f, _ := newTestFormatter(t)
	m := model.Mapping{SubjectID: "https://example.org/schema/0001/(field1:'ORGENT:0001',field2:'COMENT:0011')"}

	tr, errs := f.Compile("%{subject_id|uriexpr_slot_value(field1)|short}")
	require.Empty(t, errs)

	out, err := tr(m)
	require.NoError(t, err)
	require.Equal(t, "ORGENT:0001", out)
}

func TestFormatterSlotValueAbsentSlotReturnsInputUnchanged(t *testing.T) {
	f, _ := newTestFormatter(t)
	subject := "https://example.org/schema/0001/(field1:'ORGENT:0001',field2:'COMENT:0011')"
	m := model.Mapping{SubjectID: subject}

	tr, errs := f.Compile("%{subject_id|uriexpr_slot_value(field3)}")
	require.Empty(t, errs)

	out, err := tr(m)
	require.NoError(t, err)
	require.Equal(t, subject, out)
}

func TestFormatterShorthandField(t *testing.T) {
	f, _ := newTestFormatter(t)
	m := model.Mapping{SubjectLabel: "multicellular organism"}

	tr, errs := f.Compile("label=%subject_label")
	require.Empty(t, errs)

	out, err := tr(m)
	require.NoError(t, err)
	require.Equal(t, "label=multicellular organism", out)
}

func TestFormatterUnknownFieldCollectsError(t *testing.T) {
	f, _ := newTestFormatter(t)
	_, errs := f.Compile("%{nonsense_field}")
	require.Len(t, errs, 1)
}

func TestFormatterUnbalancedBraceCollectsError(t *testing.T) {
	f, _ := newTestFormatter(t)
	tr, errs := f.Compile("%{subject_id")
	require.NotEmpty(t, errs)

	_, err := tr(model.Mapping{})
	require.Error(t, err)
}

func TestFormatterUnknownModifierCollectsError(t *testing.T) {
	f, _ := newTestFormatter(t)
	_, errs := f.Compile("%{subject_id|not_a_real_modifier}")
	require.Len(t, errs, 1)
}

func TestFormatterListFieldJoinsWithPipe(t *testing.T) {
	f, _ := newTestFormatter(t)
	m := model.Mapping{AuthorID: []string{"orcid:1", "orcid:2"}}

	tr, errs := f.Compile("%{author_id}")
	require.Empty(t, errs)

	out, err := tr(m)
	require.NoError(t, err)
	require.Equal(t, "orcid:1|orcid:2", out)
}
