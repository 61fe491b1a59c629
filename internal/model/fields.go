package model

// Field identifies one of the fixed mapping accessors the Formatter and the
// Filter/Action Tree dereference by name. It is a plain string type rather
// than an enum so the parser can carry the literal identifier through to
// compile-time "unknown field" diagnostics without an extra lookup table.
type Field string

const (
	FieldSubjectID            Field = "subject_id"
	FieldSubjectLabel         Field = "subject_label"
	FieldSubjectCategory      Field = "subject_category"
	FieldSubjectType          Field = "subject_type"
	FieldSubjectSource        Field = "subject_source"
	FieldSubjectPreprocessing Field = "subject_preprocessing"
	FieldSubjectMatchField    Field = "subject_match_field"
	FieldSubjectCURIE         Field = "subject_curie"

	FieldPredicateID       Field = "predicate_id"
	FieldPredicateModifier Field = "predicate_modifier"
	FieldPredicateCURIE    Field = "predicate_curie"

	FieldObjectID            Field = "object_id"
	FieldObjectLabel         Field = "object_label"
	FieldObjectCategory      Field = "object_category"
	FieldObjectType          Field = "object_type"
	FieldObjectSource        Field = "object_source"
	FieldObjectPreprocessing Field = "object_preprocessing"
	FieldObjectMatchField    Field = "object_match_field"
	FieldObjectCURIE         Field = "object_curie"

	FieldMappingJustification Field = "mapping_justification"
	FieldMappingCardinality   Field = "mapping_cardinality"
	FieldMatchString          Field = "match_string"
	FieldComment              Field = "comment"
	FieldMappingDate          Field = "mapping_date"
	FieldMappingTool          Field = "mapping_tool"
	FieldConfidence           Field = "confidence"
	FieldSimilarityScore      Field = "similarity_score"
	FieldSimilarityMeasure    Field = "similarity_measure"

	FieldAuthorID      Field = "author_id"
	FieldAuthorLabel   Field = "author_label"
	FieldReviewerID    Field = "reviewer_id"
	FieldReviewerLabel Field = "reviewer_label"
	FieldCreatorID     Field = "creator_id"
	FieldCreatorLabel  Field = "creator_label"

	FieldMappingProvider Field = "mapping_provider"
	FieldSeeAlso         Field = "see_also"
)

// Accessor reads one scalar field off a Mapping. ok is false when the
// underlying value is absent: a nil pointer for the numeric fields, an
// empty string for the text fields (so a text field set to "" reads as
// absent).
type Accessor func(m Mapping) (value string, ok bool)

// ListAccessor reads one list-valued field off a Mapping.
type ListAccessor func(m Mapping) []string

// scalarFields is the fixed table of known scalar accessors. CURIE variants
// (subject_curie, predicate_curie, object_curie) are intentionally absent
// here: they require prefix shortening and are synthesized by the Formatter,
// which shortens the matching ID through its Prefix Manager, rather than
// being plain fields.
var scalarFields = map[Field]Accessor{
	FieldSubjectID:            func(m Mapping) (string, bool) { return m.SubjectID, m.SubjectID != "" },
	FieldSubjectLabel:         func(m Mapping) (string, bool) { return m.SubjectLabel, m.SubjectLabel != "" },
	FieldSubjectCategory:      func(m Mapping) (string, bool) { return m.SubjectCategory, m.SubjectCategory != "" },
	FieldSubjectType:          func(m Mapping) (string, bool) { return m.SubjectType, m.SubjectType != "" },
	FieldSubjectSource:        func(m Mapping) (string, bool) { return m.SubjectSource, m.SubjectSource != "" },
	FieldSubjectPreprocessing: func(m Mapping) (string, bool) { return m.SubjectPreprocessing, m.SubjectPreprocessing != "" },

	FieldPredicateID:       func(m Mapping) (string, bool) { return m.PredicateID, m.PredicateID != "" },
	FieldPredicateModifier: func(m Mapping) (string, bool) { return m.PredicateModifier, m.PredicateModifier != "" },

	FieldObjectID:            func(m Mapping) (string, bool) { return m.ObjectID, m.ObjectID != "" },
	FieldObjectLabel:         func(m Mapping) (string, bool) { return m.ObjectLabel, m.ObjectLabel != "" },
	FieldObjectCategory:      func(m Mapping) (string, bool) { return m.ObjectCategory, m.ObjectCategory != "" },
	FieldObjectType:          func(m Mapping) (string, bool) { return m.ObjectType, m.ObjectType != "" },
	FieldObjectSource:        func(m Mapping) (string, bool) { return m.ObjectSource, m.ObjectSource != "" },
	FieldObjectPreprocessing: func(m Mapping) (string, bool) { return m.ObjectPreprocessing, m.ObjectPreprocessing != "" },

	FieldMappingJustification: func(m Mapping) (string, bool) { return m.MappingJustification, m.MappingJustification != "" },
	FieldMappingCardinality:   func(m Mapping) (string, bool) { return m.MappingCardinality, m.MappingCardinality != "" },
	FieldMatchString:          func(m Mapping) (string, bool) { return m.MatchString, m.MatchString != "" },
	FieldComment:              func(m Mapping) (string, bool) { return m.Comment, m.Comment != "" },
	FieldMappingDate:          func(m Mapping) (string, bool) { return m.MappingDate, m.MappingDate != "" },
	FieldMappingTool:          func(m Mapping) (string, bool) { return m.MappingTool, m.MappingTool != "" },
	FieldSimilarityMeasure:    func(m Mapping) (string, bool) { return m.SimilarityMeasure, m.SimilarityMeasure != "" },

	FieldConfidence:      floatAccessor(func(m Mapping) *float64 { return m.Confidence }),
	FieldSimilarityScore: floatAccessor(func(m Mapping) *float64 { return m.SimilarityScore }),
}

var listFields = map[Field]ListAccessor{
	FieldSubjectMatchField: func(m Mapping) []string { return m.SubjectMatchField },
	FieldObjectMatchField:  func(m Mapping) []string { return m.ObjectMatchField },
	FieldAuthorID:          func(m Mapping) []string { return m.AuthorID },
	FieldAuthorLabel:       func(m Mapping) []string { return m.AuthorLabel },
	FieldReviewerID:        func(m Mapping) []string { return m.ReviewerID },
	FieldReviewerLabel:     func(m Mapping) []string { return m.ReviewerLabel },
	FieldCreatorID:         func(m Mapping) []string { return m.CreatorID },
	FieldCreatorLabel:      func(m Mapping) []string { return m.CreatorLabel },
	FieldMappingProvider:   func(m Mapping) []string { return m.MappingProvider },
	FieldSeeAlso:           func(m Mapping) []string { return m.SeeAlso },
}

func floatAccessor(get func(Mapping) *float64) Accessor {
	return func(m Mapping) (string, bool) {
		v := get(m)
		if v == nil {
			return "", false
		}
		return formatFloat(*v), true
	}
}

// ScalarAccessor returns the accessor for field, or nil if field does not
// name a known scalar field.
func ScalarAccessor(field Field) Accessor {
	return scalarFields[field]
}

// ListFieldAccessor returns the accessor for field, or nil if field does not
// name a known list field.
func ListFieldAccessor(field Field) ListAccessor {
	return listFields[field]
}

// IsKnownField reports whether field names any scalar or list accessor, or
// one of the synthesized CURIE fields the Formatter handles specially.
func IsKnownField(field Field) bool {
	if _, ok := scalarFields[field]; ok {
		return true
	}
	if _, ok := listFields[field]; ok {
		return true
	}
	switch field {
	case FieldSubjectCURIE, FieldPredicateCURIE, FieldObjectCURIE:
		return true
	}
	return false
}
