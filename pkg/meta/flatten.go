// Package meta reshapes nested repository metadata into flat structures.
//
// Project descriptions come back as a single multi-line string with a
// fixed upstream layout. Rather than reading raw line offsets inline,
// callers resolve fields by name against a DescriptionSchema so a layout
// change fails loudly with the field name instead of silently returning
// the wrong line.
package meta

import (
	"fmt"
	"strings"

	"github.com/omero-tools/cellscout/pkg/omero"
)

// Canonical field names for the curated description layout.
const (
	FieldPublicationTitle = "publication_title"
	FieldShortDescription = "short_description"
)

// DescriptionSchema maps a field name to a zero-based line offset in the
// raw description text.
type DescriptionSchema map[string]int

// DefaultDescriptionSchema describes the layout used by curated
// experiment projects: the publication title sits on line 2 and the
// one-sentence study description on line 5.
//
// The layout is upstream convention, not API contract; Field returns a
// named error when it no longer holds.
func DefaultDescriptionSchema() DescriptionSchema {
	return DescriptionSchema{
		FieldPublicationTitle: 2,
		FieldShortDescription: 5,
	}
}

// FieldError reports a description field that could not be resolved.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("description field %q: %s", e.Field, e.Reason)
}

// Field resolves one named field from the raw description text. The
// field must be present in the schema and its line must exist and be
// non-blank; otherwise a *FieldError naming the field is returned.
func (s DescriptionSchema) Field(description, name string) (string, error) {
	offset, ok := s[name]
	if !ok {
		return "", &FieldError{Field: name, Reason: "not in schema"}
	}

	lines := strings.Split(description, "\n")
	if offset >= len(lines) {
		return "", &FieldError{
			Field:  name,
			Reason: fmt.Sprintf("description has %d lines, need line %d", len(lines), offset+1),
		}
	}

	value := strings.TrimSpace(lines[offset])
	if value == "" {
		return "", &FieldError{Field: name, Reason: fmt.Sprintf("line %d is blank", offset+1)}
	}
	return value, nil
}

// ProjectDetail is a Project with its description fields resolved.
type ProjectDetail struct {
	omero.Project
	PublicationTitle string
	ShortDescription string
}

// ResolveProject extracts the schema fields from a project's description.
func ResolveProject(p omero.Project, schema DescriptionSchema) (ProjectDetail, error) {
	title, err := schema.Field(p.Description, FieldPublicationTitle)
	if err != nil {
		return ProjectDetail{}, err
	}
	short, err := schema.Field(p.Description, FieldShortDescription)
	if err != nil {
		return ProjectDetail{}, err
	}
	return ProjectDetail{
		Project:          p,
		PublicationTitle: title,
		ShortDescription: short,
	}, nil
}

// FlattenAnnotation builds a key->value map from the nested value pairs
// of the first annotation record. When a key repeats, the last
// occurrence wins; this is deliberate and independent of map iteration
// order. Pairs shorter than two elements are skipped. A nil or empty
// annotation list yields an empty map.
func FlattenAnnotation(annotations []omero.Annotation) map[string]string {
	flat := make(map[string]string)
	if len(annotations) == 0 {
		return flat
	}

	for _, pair := range annotations[0].Values {
		if len(pair) < 2 {
			continue
		}
		flat[pair[0]] = pair[1]
	}
	return flat
}
