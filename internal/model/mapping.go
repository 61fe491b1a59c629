// Package model defines the Mapping record the rule engine operates on and
// the field-accessor table the Formatter and Filter/Action Tree use to read
// and write it by name.
package model

// Mapping is one SSSOM mapping record. Identifier fields (subject_id,
// predicate_id, object_id) are expected to hold full IRIs at runtime; the
// Prefix Manager is responsible for expanding CURIEs before a Mapping
// reaches the engine.
//
// Mapping is immutable to the engine: filters read it, and the only way an
// action changes it is by returning a new value (see tree.Action).
type Mapping struct {
	SubjectID            string
	SubjectLabel          string
	SubjectCategory       string
	SubjectType           string
	SubjectSource         string
	SubjectPreprocessing  string
	SubjectMatchField     []string

	PredicateID       string
	PredicateModifier string

	ObjectID             string
	ObjectLabel          string
	ObjectCategory       string
	ObjectType           string
	ObjectSource         string
	ObjectPreprocessing  string
	ObjectMatchField     []string

	MappingJustification string
	MappingCardinality   string
	MatchString          string
	Comment              string
	MappingDate          string
	MappingTool          string

	// Confidence is nil when the column is absent from the source row.
	Confidence *float64
	// SimilarityScore and SimilarityMeasure are the modern replacements for
	// the deprecated semantic_similarity_* columns (see internal/legacy).
	SimilarityScore   *float64
	SimilarityMeasure string

	AuthorID     []string
	AuthorLabel  []string
	ReviewerID   []string
	ReviewerLabel []string
	CreatorID    []string
	CreatorLabel []string

	MappingProvider []string
	SeeAlso         []string
}

// Clone returns a deep copy suitable for an edit action to mutate and
// return without aliasing slices of the original.
func (m Mapping) Clone() Mapping {
	out := m
	out.SubjectMatchField = cloneStrings(m.SubjectMatchField)
	out.ObjectMatchField = cloneStrings(m.ObjectMatchField)
	out.AuthorID = cloneStrings(m.AuthorID)
	out.AuthorLabel = cloneStrings(m.AuthorLabel)
	out.ReviewerID = cloneStrings(m.ReviewerID)
	out.ReviewerLabel = cloneStrings(m.ReviewerLabel)
	out.CreatorID = cloneStrings(m.CreatorID)
	out.CreatorLabel = cloneStrings(m.CreatorLabel)
	out.MappingProvider = cloneStrings(m.MappingProvider)
	out.SeeAlso = cloneStrings(m.SeeAlso)
	if m.Confidence != nil {
		v := *m.Confidence
		out.Confidence = &v
	}
	if m.SimilarityScore != nil {
		v := *m.SimilarityScore
		out.SimilarityScore = &v
	}
	return out
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}

// Invert swaps the subject and object sides of the mapping, as required by
// the invert() action (spec §4.E). The predicate is left untouched here;
// predicate inversion is applied separately via the Application's inverse
// table (see internal/invert) because it is a lookup, not a structural
// swap.
func (m Mapping) Invert() Mapping {
	out := m.Clone()
	out.SubjectID, out.ObjectID = m.ObjectID, m.SubjectID
	out.SubjectLabel, out.ObjectLabel = m.ObjectLabel, m.SubjectLabel
	out.SubjectCategory, out.ObjectCategory = m.ObjectCategory, m.SubjectCategory
	out.SubjectType, out.ObjectType = m.ObjectType, m.SubjectType
	out.SubjectSource, out.ObjectSource = m.ObjectSource, m.SubjectSource
	out.SubjectPreprocessing, out.ObjectPreprocessing = m.ObjectPreprocessing, m.SubjectPreprocessing
	out.SubjectMatchField, out.ObjectMatchField = cloneStrings(m.ObjectMatchField), cloneStrings(m.SubjectMatchField)
	out.MappingCardinality = invertCardinality(m.MappingCardinality)
	return out
}

func invertCardinality(c string) string {
	switch c {
	case "1:n":
		return "n:1"
	case "n:1":
		return "1:n"
	case "1:1", "n:n", "*:1", "1:*", "":
		return swapStar(c)
	default:
		return c
	}
}

func swapStar(c string) string {
	switch c {
	case "*:1":
		return "1:*"
	case "1:*":
		return "*:1"
	default:
		return c
	}
}
