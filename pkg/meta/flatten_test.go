package meta

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/omero-tools/cellscout/pkg/omero"
)

const sampleDescription = "Experiment Description\n" +
	"Publication\n" +
	"Genome-wide analysis of cell shape in fission yeast\n" +
	"\n" +
	"Summary\n" +
	"A genome-wide screen for cell shape and microtubule phenotypes.\n"

func TestDescriptionSchemaField(t *testing.T) {
	schema := DefaultDescriptionSchema()

	t.Run("resolves fields by name", func(t *testing.T) {
		title, err := schema.Field(sampleDescription, FieldPublicationTitle)
		require.NoError(t, err)
		assert.Equal(t, "Genome-wide analysis of cell shape in fission yeast", title)

		short, err := schema.Field(sampleDescription, FieldShortDescription)
		require.NoError(t, err)
		assert.Equal(t, "A genome-wide screen for cell shape and microtubule phenotypes.", short)
	})

	t.Run("unknown field names the field", func(t *testing.T) {
		_, err := schema.Field(sampleDescription, "license")
		require.Error(t, err)

		var fieldErr *FieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, "license", fieldErr.Field)
	})

	t.Run("missing line fails, not truncates", func(t *testing.T) {
		_, err := schema.Field("only one line", FieldShortDescription)
		require.Error(t, err)

		var fieldErr *FieldError
		require.True(t, errors.As(err, &fieldErr))
		assert.Equal(t, FieldShortDescription, fieldErr.Field)
	})

	t.Run("blank line fails", func(t *testing.T) {
		_, err := schema.Field("a\nb\n\nd\ne\nf", FieldPublicationTitle)
		require.Error(t, err)
	})
}

func TestResolveProject(t *testing.T) {
	p := omero.Project{ID: 101, Name: "idr0001-graml/experimentA", Description: sampleDescription}

	detail, err := ResolveProject(p, DefaultDescriptionSchema())
	require.NoError(t, err)
	assert.Equal(t, int64(101), detail.ID)
	assert.Equal(t, "Genome-wide analysis of cell shape in fission yeast", detail.PublicationTitle)

	_, err = ResolveProject(omero.Project{Description: "too\nshort"}, DefaultDescriptionSchema())
	require.Error(t, err)
}

func TestFlattenAnnotation(t *testing.T) {
	t.Run("last duplicate key wins", func(t *testing.T) {
		anns := []omero.Annotation{{
			Values: [][]string{
				{"Organism", "Schizosaccharomyces pombe"},
				{"Screen Size", "49"},
				{"Organism", "S. pombe (corrected)"},
			},
		}}

		flat := FlattenAnnotation(anns)
		assert.Equal(t, "S. pombe (corrected)", flat["Organism"])
		assert.Equal(t, "49", flat["Screen Size"])
		assert.Len(t, flat, 2)
	})

	t.Run("only the first annotation record is used", func(t *testing.T) {
		anns := []omero.Annotation{
			{Values: [][]string{{"a", "1"}}},
			{Values: [][]string{{"b", "2"}}},
		}
		flat := FlattenAnnotation(anns)
		assert.Equal(t, map[string]string{"a": "1"}, flat)
	})

	t.Run("short pairs skipped, empty input tolerated", func(t *testing.T) {
		assert.Empty(t, FlattenAnnotation(nil))
		assert.Empty(t, FlattenAnnotation([]omero.Annotation{{Values: [][]string{{"lonely"}}}}))
	})
}
