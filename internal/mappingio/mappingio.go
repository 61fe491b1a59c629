// Package mappingio is the SSSOM Mapping I/O collaborator (spec §4.G): a
// minimal TSV-body/YAML-header reader and writer kept outside the engine
// core's import graph, exactly as the core's Non-goals require ("no
// persistent storage" describes the engine; a host still has to get
// mappings from somewhere).
package mappingio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sssomt/sssomt/internal/legacy"
	"github.com/sssomt/sssomt/internal/model"
)

// Header is the YAML-ish metadata block an SSSOM TSV file carries as
// leading "#"-prefixed comment lines, decoded with gopkg.in/yaml.v3.
type Header struct {
	CurieMap        map[string]string `yaml:"curie_map"`
	MappingSetID    string            `yaml:"mapping_set_id"`
	License         string            `yaml:"license"`
	MappingProvider string            `yaml:"mapping_provider"`
	Extra           map[string]any    `yaml:",inline"`
}

// columns lists the SSSOM TSV columns this reader/writer understands, in
// the conventional SSSOM column order. A row's cells are matched to
// model.Mapping fields positionally against whatever header row the file
// itself declares, so files with a subset or reordering of these columns
// still round-trip; columns this package does not recognize are ignored on
// read and never emitted on write.
var columns = []string{
	"subject_id", "subject_label", "subject_category", "subject_type",
	"subject_source", "subject_preprocessing", "subject_match_field",
	"predicate_id", "predicate_modifier",
	"object_id", "object_label", "object_category", "object_type",
	"object_source", "object_preprocessing", "object_match_field",
	"mapping_justification", "mapping_cardinality", "match_string",
	"confidence", "similarity_score", "similarity_measure",
	"mapping_date", "mapping_tool", "comment",
	"author_id", "author_label", "reviewer_id", "reviewer_label",
	"creator_id", "creator_label", "mapping_provider", "see_also",
}

const listSeparator = "|"

// ReadTSV reads an SSSOM mapping set: a leading block of "#"-prefixed YAML
// header lines, a TSV column header row, and the TSV body. The legacy
// deprecated-field compat hook is applied to the decoded header before it
// is returned (spec §6).
func ReadTSV(r io.Reader) ([]model.Mapping, Header, error) {
	buffered := bufio.NewReader(r)

	var yamlLines []string
	for {
		peeked, err := buffered.Peek(1)
		if err != nil || len(peeked) == 0 || peeked[0] != '#' {
			break
		}
		line, err := buffered.ReadString('\n')
		if err != nil && line == "" {
			break
		}
		trimmed := strings.TrimPrefix(strings.TrimRight(line, "\r\n"), "#")
		yamlLines = append(yamlLines, trimmed)
		if err == io.EOF {
			break
		}
	}

	header, err := decodeHeader(strings.Join(yamlLines, "\n"))
	if err != nil {
		return nil, Header{}, fmt.Errorf("mappingio: decoding header: %w", err)
	}

	reader := csv.NewReader(buffered)
	reader.Comma = '\t'
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	columnHeader, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, header, nil
		}
		return nil, Header{}, fmt.Errorf("mappingio: reading TSV column header: %w", err)
	}

	var mappings []model.Mapping
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, Header{}, fmt.Errorf("mappingio: reading TSV row: %w", err)
		}
		m, err := rowToMapping(columnHeader, record)
		if err != nil {
			return nil, Header{}, fmt.Errorf("mappingio: %w", err)
		}
		mappings = append(mappings, m)
	}

	return mappings, header, nil
}

// decodeHeader parses the YAML block through a raw string-keyed map first
// so legacy.ApplyDeprecatedFieldCompat (spec §6) can migrate a header-level
// semantic_similarity_score/semantic_similarity_measure default (SSSOM
// headers may set per-column defaults applied to every row) before the
// result is decoded into the typed Header.
func decodeHeader(yamlBlock string) (Header, error) {
	var h Header
	if strings.TrimSpace(yamlBlock) == "" {
		return h, nil
	}

	var raw map[string]any
	if err := yaml.Unmarshal([]byte(yamlBlock), &raw); err != nil {
		return Header{}, err
	}

	stringDefaults(raw)

	migrated, err := yaml.Marshal(raw)
	if err != nil {
		return Header{}, err
	}
	if err := yaml.Unmarshal(migrated, &h); err != nil {
		return Header{}, err
	}
	return h, nil
}

// stringDefaults builds the map[string]string view ApplyDeprecatedFieldCompat
// operates on, mutating raw's deprecated/modern string-valued keys in
// place via the returned map (non-string values are left untouched, since
// they cannot be legacy similarity defaults).
func stringDefaults(raw map[string]any) map[string]string {
	view := make(map[string]string)
	for k, v := range raw {
		if s, ok := v.(string); ok {
			view[k] = s
		}
	}
	migrated := legacy.ApplyDeprecatedFieldCompat(view)
	for k := range raw {
		if _, wasString := raw[k].(string); wasString {
			if _, stillPresent := migrated[k]; !stillPresent {
				delete(raw, k)
			}
		}
	}
	for k, v := range migrated {
		raw[k] = v
	}
	return migrated
}

func rowToMapping(columnHeader, record []string) (model.Mapping, error) {
	var m model.Mapping
	for i, name := range columnHeader {
		if i >= len(record) {
			break
		}
		value := record[i]
		if err := setField(&m, name, value); err != nil {
			return model.Mapping{}, err
		}
	}
	return m, nil
}

func setField(m *model.Mapping, name, value string) error {
	switch name {
	case "subject_id":
		m.SubjectID = value
	case "subject_label":
		m.SubjectLabel = value
	case "subject_category":
		m.SubjectCategory = value
	case "subject_type":
		m.SubjectType = value
	case "subject_source":
		m.SubjectSource = value
	case "subject_preprocessing":
		m.SubjectPreprocessing = value
	case "subject_match_field":
		m.SubjectMatchField = splitList(value)
	case "predicate_id":
		m.PredicateID = value
	case "predicate_modifier":
		m.PredicateModifier = value
	case "object_id":
		m.ObjectID = value
	case "object_label":
		m.ObjectLabel = value
	case "object_category":
		m.ObjectCategory = value
	case "object_type":
		m.ObjectType = value
	case "object_source":
		m.ObjectSource = value
	case "object_preprocessing":
		m.ObjectPreprocessing = value
	case "object_match_field":
		m.ObjectMatchField = splitList(value)
	case "mapping_justification":
		m.MappingJustification = value
	case "mapping_cardinality":
		m.MappingCardinality = value
	case "match_string":
		m.MatchString = value
	case "confidence":
		f, err := parseOptionalFloat(value)
		if err != nil {
			return fmt.Errorf("confidence: %w", err)
		}
		m.Confidence = f
	case "similarity_score":
		f, err := parseOptionalFloat(value)
		if err != nil {
			return fmt.Errorf("similarity_score: %w", err)
		}
		m.SimilarityScore = f
	case "similarity_measure":
		m.SimilarityMeasure = value
	case "mapping_date":
		m.MappingDate = value
	case "mapping_tool":
		m.MappingTool = value
	case "comment":
		m.Comment = value
	case "author_id":
		m.AuthorID = splitList(value)
	case "author_label":
		m.AuthorLabel = splitList(value)
	case "reviewer_id":
		m.ReviewerID = splitList(value)
	case "reviewer_label":
		m.ReviewerLabel = splitList(value)
	case "creator_id":
		m.CreatorID = splitList(value)
	case "creator_label":
		m.CreatorLabel = splitList(value)
	case "mapping_provider":
		m.MappingProvider = splitList(value)
	case "see_also":
		m.SeeAlso = splitList(value)

	// semantic_similarity_* body columns are read here as synonyms of the
	// modern columns (legacy.ApplyDeprecatedFieldCompat only runs on the
	// header), so a file using the deprecated names alone does not silently
	// lose data. A value already set from the modern column is kept.
	case "semantic_similarity_score":
		f, err := parseOptionalFloat(value)
		if err != nil {
			return fmt.Errorf("semantic_similarity_score: %w", err)
		}
		if m.SimilarityScore == nil {
			m.SimilarityScore = f
		}
	case "semantic_similarity_measure":
		if m.SimilarityMeasure == "" {
			m.SimilarityMeasure = value
		}
	default:
		// unrecognized column: ignored, per package doc.
	}
	return nil
}

func splitList(value string) []string {
	if value == "" {
		return nil
	}
	parts := strings.Split(value, listSeparator)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		out = append(out, strings.TrimSpace(p))
	}
	return out
}

func parseOptionalFloat(value string) (*float64, error) {
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, err
	}
	return &f, nil
}

// WriteTSV writes header as a leading "#"-prefixed YAML block followed by
// the TSV column header and one row per mapping, in the fixed column order
// this package knows (see columns).
func WriteTSV(w io.Writer, header Header, mappings []model.Mapping) error {
	if err := writeHeader(w, header); err != nil {
		return fmt.Errorf("mappingio: writing header: %w", err)
	}

	writer := csv.NewWriter(w)
	writer.Comma = '\t'

	if err := writer.Write(columns); err != nil {
		return fmt.Errorf("mappingio: writing TSV column header: %w", err)
	}
	for _, m := range mappings {
		record := mappingToRow(m)
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("mappingio: writing TSV row: %w", err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeHeader(w io.Writer, header Header) error {
	out, err := yaml.Marshal(header)
	if err != nil {
		return err
	}
	lines := strings.Split(strings.TrimRight(string(out), "\n"), "\n")
	if len(lines) == 1 && lines[0] == "{}" {
		return nil
	}
	for _, line := range lines {
		if _, err := fmt.Fprintf(w, "#%s\n", line); err != nil {
			return err
		}
	}
	return nil
}

func mappingToRow(m model.Mapping) []string {
	record := make([]string, len(columns))
	for i, name := range columns {
		record[i] = fieldValue(m, name)
	}
	return record
}

func fieldValue(m model.Mapping, name string) string {
	switch name {
	case "subject_id":
		return m.SubjectID
	case "subject_label":
		return m.SubjectLabel
	case "subject_category":
		return m.SubjectCategory
	case "subject_type":
		return m.SubjectType
	case "subject_source":
		return m.SubjectSource
	case "subject_preprocessing":
		return m.SubjectPreprocessing
	case "subject_match_field":
		return joinList(m.SubjectMatchField)
	case "predicate_id":
		return m.PredicateID
	case "predicate_modifier":
		return m.PredicateModifier
	case "object_id":
		return m.ObjectID
	case "object_label":
		return m.ObjectLabel
	case "object_category":
		return m.ObjectCategory
	case "object_type":
		return m.ObjectType
	case "object_source":
		return m.ObjectSource
	case "object_preprocessing":
		return m.ObjectPreprocessing
	case "object_match_field":
		return joinList(m.ObjectMatchField)
	case "mapping_justification":
		return m.MappingJustification
	case "mapping_cardinality":
		return m.MappingCardinality
	case "match_string":
		return m.MatchString
	case "confidence":
		return formatOptionalFloat(m.Confidence)
	case "similarity_score":
		return formatOptionalFloat(m.SimilarityScore)
	case "similarity_measure":
		return m.SimilarityMeasure
	case "mapping_date":
		return m.MappingDate
	case "mapping_tool":
		return m.MappingTool
	case "comment":
		return m.Comment
	case "author_id":
		return joinList(m.AuthorID)
	case "author_label":
		return joinList(m.AuthorLabel)
	case "reviewer_id":
		return joinList(m.ReviewerID)
	case "reviewer_label":
		return joinList(m.ReviewerLabel)
	case "creator_id":
		return joinList(m.CreatorID)
	case "creator_label":
		return joinList(m.CreatorLabel)
	case "mapping_provider":
		return joinList(m.MappingProvider)
	case "see_also":
		return joinList(m.SeeAlso)
	default:
		return ""
	}
}

func joinList(values []string) string {
	return strings.Join(values, listSeparator)
}

func formatOptionalFloat(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'g', -1, 64)
}

// SortedPrefixNames returns header.CurieMap's keys in a deterministic
// order, for callers that preload a prefix manager from it and want
// reproducible diagnostics ordering.
func SortedPrefixNames(header Header) []string {
	names := make([]string, 0, len(header.CurieMap))
	for name := range header.CurieMap {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
