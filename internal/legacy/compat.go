// Package legacy implements the pre-engine deprecated-field compatibility
// hook described in spec §6: it is applied to a mapping-set header before
// the header's defaults are used to fill in Mapping fields, and is not part
// of the engine itself.
package legacy

const (
	deprecatedScore   = "semantic_similarity_score"
	deprecatedMeasure = "semantic_similarity_measure"
	modernScore       = "similarity_score"
	modernMeasure     = "similarity_measure"
)

// ApplyDeprecatedFieldCompat copies semantic_similarity_score/
// semantic_similarity_measure header values to similarity_score/
// similarity_measure when the modern keys are absent, then removes the
// deprecated keys. header is mutated in place and also returned for
// convenience.
func ApplyDeprecatedFieldCompat(header map[string]string) map[string]string {
	if header == nil {
		return header
	}
	migrate(header, deprecatedScore, modernScore)
	migrate(header, deprecatedMeasure, modernMeasure)
	return header
}

func migrate(header map[string]string, deprecatedKey, modernKey string) {
	value, present := header[deprecatedKey]
	if !present {
		return
	}
	if _, hasModern := header[modernKey]; !hasModern {
		header[modernKey] = value
	}
	delete(header, deprecatedKey)
}
