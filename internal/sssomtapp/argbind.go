package sssomtapp

import (
	"fmt"

	"github.com/sssomt/sssomt/internal/engine"
	"github.com/sssomt/sssomt/internal/model"
	"github.com/sssomt/sssomt/internal/rules"
)

// requiredIdentifierFields names the scalar fields that must never be blank:
// addSimpleAssign/addReplacement reject a null or empty-string value for
// these (spec.md S4: "setting object_id to null fails with IllegalArgument").
var requiredIdentifierFields = map[model.Field]bool{
	model.FieldSubjectID: true,
	model.FieldObjectID:  true,
}

// argValue renders one bound call argument against a mapping: a constant
// for literal argument kinds, or a compiled Mapping Formatter template for
// ArgTemplate (spec §9's "%{...}" call-argument open question; see
// DESIGN.md).
type argValue func(m model.Mapping) (string, error)

// bindArg binds one already-parsed call argument, resolving CURIE/IRI
// arguments through the prefix manager immediately (they never depend on
// the mapping being processed) and compiling template arguments once so
// per-mapping evaluation never reparses the template.
func (a *Application) bindArg(arg rules.Arg) (argValue, error) {
	switch arg.Kind {
	case rules.ArgTemplate:
		transform, errs := a.formatter.Compile(arg.Text)
		if len(errs) > 0 {
			return nil, fmt.Errorf("argument %q: %w", arg.Text, errs[0])
		}
		return argValue(transform), nil
	case rules.ArgCurie, rules.ArgIRI:
		expanded := a.prefixes.Expand(arg.Text)
		return func(model.Mapping) (string, error) { return expanded, nil }, nil
	case rules.ArgNull:
		return func(model.Mapping) (string, error) { return "", nil }, nil
	default: // ArgString, ArgNumber
		text := arg.Text
		return func(model.Mapping) (string, error) { return text, nil }, nil
	}
}

// setMappingField writes value into one of the scalar string-valued fields
// an action function is allowed to edit. List-valued and numeric fields
// (author_id, confidence, ...) are intentionally excluded: addSimpleAssign
// and addReplacement only ever touch text fields in the scenarios this
// Application demonstrates.
func setMappingField(m *model.Mapping, field model.Field, value string) error {
	if value == "" && requiredIdentifierFields[field] {
		return &engine.IllegalArgument{Field: string(field), Message: "must not be null or empty"}
	}
	switch field {
	case model.FieldSubjectID:
		m.SubjectID = value
	case model.FieldSubjectLabel:
		m.SubjectLabel = value
	case model.FieldSubjectCategory:
		m.SubjectCategory = value
	case model.FieldObjectID:
		m.ObjectID = value
	case model.FieldObjectLabel:
		m.ObjectLabel = value
	case model.FieldObjectCategory:
		m.ObjectCategory = value
	case model.FieldPredicateModifier:
		m.PredicateModifier = value
	case model.FieldMappingJustification:
		m.MappingJustification = value
	case model.FieldMatchString:
		m.MatchString = value
	case model.FieldComment:
		m.Comment = value
	case model.FieldMappingDate:
		m.MappingDate = value
	case model.FieldMappingTool:
		m.MappingTool = value
	case model.FieldSimilarityMeasure:
		m.SimilarityMeasure = value
	default:
		return fmt.Errorf("field %q is not writable by addSimpleAssign/addReplacement", field)
	}
	return nil
}
