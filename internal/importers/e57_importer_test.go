package importers

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RECONupm/METASHAPE/internal/e57/e57test"
	"github.com/RECONupm/METASHAPE/internal/geometry"
	"github.com/RECONupm/METASHAPE/internal/project"
)

func TestImportPointCloud(t *testing.T) {
	path := filepath.Join(t.TempDir(), "StationA.e57")
	require.NoError(t, e57test.WriteFile(path,
		[]e57test.ScanSpec{{
			Name:        "StationA scan",
			HasPose:     true,
			Quaternion:  [4]float64{1, 0, 0, 0},
			Translation: [3]float64{1, 2, 3},
		}},
		[]e57test.ImageSpec{{Name: "pano_001"}, {Name: "pano_002"}},
	))

	chunk := &project.Chunk{}
	imported, err := NewE57Importer().ImportPointCloud(chunk, path)
	require.NoError(t, err)
	require.Len(t, imported, 1)

	pc := imported[0]
	assert.NotEmpty(t, pc.Key)
	assert.Equal(t, "StationA scan", pc.Label)
	assert.True(t, pc.IsLaserScan)
	assert.True(t, pc.Enabled)
	assert.Equal(t, path, pc.SourcePath)
	require.NotNil(t, pc.Transform)
	assert.Equal(t, geometry.Coordinate{X: 1, Y: 2, Z: 3}, pc.Transform.Translation())

	assert.Len(t, chunk.PointClouds, 1)

	cams := chunk.AttachedCameras(pc)
	require.Len(t, cams, 2)
	assert.Equal(t, "pano_001", cams[0].Label)
	assert.Equal(t, "pano_002", cams[1].Label)
	assert.Nil(t, cams[0].Mask)
}

func TestImportMultipleScans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "StationB.e57")
	require.NoError(t, e57test.WriteFile(path,
		[]e57test.ScanSpec{{Name: ""}, {Name: "second"}},
		[]e57test.ImageSpec{{Name: "pano_001"}},
	))

	chunk := &project.Chunk{}
	imported, err := NewE57Importer().ImportPointCloud(chunk, path)
	require.NoError(t, err)
	require.Len(t, imported, 2)

	// unnamed scans fall back to the file base name
	assert.Equal(t, "StationB", imported[0].Label)
	assert.Equal(t, "second", imported[1].Label)

	// scans without a pose get an identity transform
	require.NotNil(t, imported[0].Transform)
	assert.True(t, imported[0].Transform.ApproxEqual(geometry.Identity(), 1e-12))

	// cameras are attached to the first imported asset
	assert.Len(t, chunk.AttachedCameras(imported[0]), 1)
	assert.Empty(t, chunk.AttachedCameras(imported[1]))
}

func TestImportRejectsFileWithoutScans(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.e57")
	require.NoError(t, e57test.WriteFile(path, nil, nil))

	chunk := &project.Chunk{}
	_, err := NewE57Importer().ImportPointCloud(chunk, path)
	assert.Error(t, err)
	assert.Empty(t, chunk.PointClouds)
}
