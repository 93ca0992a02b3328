package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RECONupm/METASHAPE/internal/geometry"
)

func transformComparer() cmp.Option {
	return cmp.Comparer(func(a, b *geometry.Transform) bool {
		if a == nil || b == nil {
			return a == nil && b == nil
		}
		return a.ApproxEqual(b, 1e-12)
	})
}

func TestSaveLoadRoundTrip(t *testing.T) {
	transform, err := geometry.FromQuaternion(0.9, 0.1, 0, 0.2, geometry.Coordinate{X: 10, Y: 20, Z: 30})
	require.NoError(t, err)

	doc := &Document{
		Chunks: []*Chunk{{
			Label:  "Chunk 1",
			Active: true,
			Groups: []*PointCloudGroup{{Key: "g1", Label: "TLS", Transform: geometry.Identity()}},
			PointClouds: []*PointCloud{{
				Key:         "pc1",
				Label:       "StationA",
				IsLaserScan: true,
				Enabled:     true,
				GroupKey:    "g1",
				Transform:   transform,
			}},
			Cameras: []*Camera{{
				Key:           "cam1",
				Label:         "StationA_img_001",
				PointCloudKey: "pc1",
				Width:         100,
				Height:        50,
				Mask:          &Mask{Data: []byte{1, 2, 3}},
			}},
		}},
	}

	path := filepath.Join(t.TempDir(), "project.json")
	require.NoError(t, doc.Save(path))

	loaded, err := LoadDocument(path)
	require.NoError(t, err)

	if diff := cmp.Diff(doc, loaded, transformComparer()); diff != "" {
		t.Errorf("document round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadDocumentErrors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := LoadDocument(filepath.Join(t.TempDir(), "missing.json"))
		assert.Error(t, err)
	})

	t.Run("malformed file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.json")
		require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))
		_, err := LoadDocument(path)
		assert.Error(t, err)
	})
}

func TestActiveChunk(t *testing.T) {
	t.Run("no chunks", func(t *testing.T) {
		doc := &Document{}
		_, err := doc.ActiveChunk()
		assert.ErrorIs(t, err, ErrNoChunk)
	})

	t.Run("flagged chunk wins", func(t *testing.T) {
		doc := &Document{Chunks: []*Chunk{{Label: "first"}, {Label: "second", Active: true}}}
		chunk, err := doc.ActiveChunk()
		require.NoError(t, err)
		assert.Equal(t, "second", chunk.Label)
	})

	t.Run("defaults to first chunk", func(t *testing.T) {
		doc := &Document{Chunks: []*Chunk{{Label: "first"}, {Label: "second"}}}
		chunk, err := doc.ActiveChunk()
		require.NoError(t, err)
		assert.Equal(t, "first", chunk.Label)
	})
}
