package e57

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/RECONupm/METASHAPE/internal/e57/e57test"
)

func writeFixture(t *testing.T, scans []e57test.ScanSpec, images []e57test.ImageSpec) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "fixture.e57")
	require.NoError(t, e57test.WriteFile(path, scans, images))
	return path
}

func TestReadHeader(t *testing.T) {
	path := writeFixture(t, []e57test.ScanSpec{{Name: "Station001"}}, nil)

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	header, err := ReadHeader(f)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), header.Major)
	assert.Equal(t, uint32(0), header.Minor)
	assert.Equal(t, uint64(PageSize), header.PageSize)
	assert.Greater(t, header.XMLLogicalLength, uint64(0))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, uint64(info.Size()), header.PhysicalLength)
}

func TestOpenInventory(t *testing.T) {
	path := writeFixture(t,
		[]e57test.ScanSpec{
			{
				Name:        "Station001",
				GUID:        "guid-1",
				HasPose:     true,
				Quaternion:  [4]float64{1, 0, 0, 0},
				Translation: [3]float64{10, 20, 30},
			},
			{Name: "Station001 upper deck"},
		},
		[]e57test.ImageSpec{{Name: "pano_001"}, {Name: "pano_002"}},
	)

	file, err := Open(path)
	require.NoError(t, err)

	require.Len(t, file.Scans, 2)
	assert.Equal(t, "Station001", file.Scans[0].Name)
	assert.Equal(t, "guid-1", file.Scans[0].GUID)
	require.NotNil(t, file.Scans[0].Pose)
	assert.Equal(t, 1.0, file.Scans[0].Pose.W)
	assert.Equal(t, 10.0, file.Scans[0].Pose.TX)
	assert.Equal(t, 30.0, file.Scans[0].Pose.TZ)
	assert.Nil(t, file.Scans[1].Pose)

	require.Len(t, file.Images, 2)
	assert.Equal(t, "pano_001", file.Images[0].Name)
}

func TestOpenEmptyFile(t *testing.T) {
	path := writeFixture(t, nil, nil)
	file, err := Open(path)
	require.NoError(t, err)
	assert.Empty(t, file.Scans)
	assert.Empty(t, file.Images)
}

func TestOpenRejectsBadSignature(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.e57")
	require.NoError(t, os.WriteFile(path, make([]byte, 2048), 0644))

	_, err := Open(path)
	assert.ErrorIs(t, err, ErrBadSignature)
}

func TestOpenDetectsCorruptedPage(t *testing.T) {
	path := writeFixture(t, []e57test.ScanSpec{{Name: "Station001"}}, nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	// flip a payload byte inside the XML section without fixing the page CRC
	data[100] ^= 0xff
	require.NoError(t, os.WriteFile(path, data, 0644))

	_, err = Open(path)
	assert.ErrorIs(t, err, ErrBadChecksum)
}

// A header advertising an XML section larger than the file itself must be
// rejected instead of driving an oversized allocation
func TestOpenRejectsOversizedXMLSection(t *testing.T) {
	writeRawHeader := func(t *testing.T, xmlStart, xmlLength uint64) string {
		t.Helper()
		data := make([]byte, 2*PageSize)
		copy(data, Signature)
		binary.LittleEndian.PutUint32(data[8:12], 1)
		binary.LittleEndian.PutUint64(data[16:24], uint64(len(data)))
		binary.LittleEndian.PutUint64(data[24:32], xmlStart)
		binary.LittleEndian.PutUint64(data[32:40], xmlLength)
		binary.LittleEndian.PutUint64(data[40:48], PageSize)

		path := filepath.Join(t.TempDir(), "bad-header.e57")
		require.NoError(t, os.WriteFile(path, data, 0644))
		return path
	}

	t.Run("logical length beyond file size", func(t *testing.T) {
		path := writeRawHeader(t, 48, 1<<62)
		_, err := Open(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "exceeds the file size")
	})

	t.Run("offset beyond file size", func(t *testing.T) {
		path := writeRawHeader(t, 1<<40, 128)
		_, err := Open(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "outside the file")
	})

	t.Run("offset inside the header", func(t *testing.T) {
		path := writeRawHeader(t, 0, 128)
		_, err := Open(path)
		assert.Error(t, err)
	})
}

func TestOpenRejectsTruncatedFile(t *testing.T) {
	path := writeFixture(t, []e57test.ScanSpec{{Name: "Station001"}}, nil)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, data[:len(data)-512], 0644))

	_, err = Open(path)
	assert.Error(t, err)
}
