package export

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/omero-tools/cellscout/pkg/omero"
	"github.com/omero-tools/cellscout/pkg/segment"
)

func TestWriteProjects(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ProjectsWorkbook)

	projects := []omero.Project{
		{ID: 101, Name: "idr0001-graml/experimentA", Description: "first"},
		{ID: 102, Name: "idr0002-heriche/experimentB", Description: "second"},
	}

	require.NoError(t, WriteProjects(path, projects))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("projects")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"id", "name", "description"}, rows[0])
	assert.Equal(t, "101", rows[1][0])
	assert.Equal(t, "idr0002-heriche/experimentB", rows[2][1])
}

func TestWriteProjectsEmptyTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectsWorkbook)
	require.NoError(t, WriteProjects(path, nil))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("projects")
	require.NoError(t, err)
	require.Len(t, rows, 1)
}

func TestWriteProjectsOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), ProjectsWorkbook)
	require.NoError(t, os.WriteFile(path, []byte("stale"), 0o644))

	require.NoError(t, WriteProjects(path, []omero.Project{{ID: 1, Name: "p/experiment"}}))

	_, err := excelize.OpenFile(path)
	require.NoError(t, err)
}

func TestWriteProjectsFailureCarriesPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", ProjectsWorkbook)
	err := WriteProjects(path, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestWriteRegions(t *testing.T) {
	path := filepath.Join(t.TempDir(), RegionsWorkbook)

	regions := []segment.Region{
		{Area: 9, Centroid: segment.Point{X: 4, Y: 4}},
		{Area: 25, Centroid: segment.Point{X: 12, Y: 7.5}},
	}

	require.NoError(t, WriteRegions(path, regions))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("regions")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "9", rows[1][1])
	assert.Equal(t, "7.5", rows[2][3])
}

func TestFigurePath(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "montage.png"), FigurePath("out", FigMontage))
}
