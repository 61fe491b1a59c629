package legacy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyDeprecatedFieldCompatCopiesWhenModernAbsent(t *testing.T) {
	header := map[string]string{
		deprecatedScore:   "0.9",
		deprecatedMeasure: "cosine",
	}
	got := ApplyDeprecatedFieldCompat(header)
	require.Equal(t, "0.9", got[modernScore])
	require.Equal(t, "cosine", got[modernMeasure])
	require.NotContains(t, got, deprecatedScore)
	require.NotContains(t, got, deprecatedMeasure)
}

func TestApplyDeprecatedFieldCompatKeepsModernWhenPresent(t *testing.T) {
	header := map[string]string{
		deprecatedScore: "0.9",
		modernScore:     "0.5",
	}
	got := ApplyDeprecatedFieldCompat(header)
	require.Equal(t, "0.5", got[modernScore])
	require.NotContains(t, got, deprecatedScore)
}

func TestApplyDeprecatedFieldCompatNilHeader(t *testing.T) {
	require.Nil(t, ApplyDeprecatedFieldCompat(nil))
}
