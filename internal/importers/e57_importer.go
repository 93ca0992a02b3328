package importers

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/RECONupm/METASHAPE/internal/e57"
	"github.com/RECONupm/METASHAPE/internal/geometry"
	"github.com/RECONupm/METASHAPE/internal/project"
)

type e57Importer struct{}

func NewE57Importer() Importer {
	return &e57Importer{}
}

// Imports every data3D section of the file as a laser scan point cloud asset.
// The raw asset transform comes from the section pose, identity when the file
// carries none. Cameras from the images2D inventory are attached to the first
// imported asset, the way the host associates station imagery on import.
func (importer *e57Importer) ImportPointCloud(chunk *project.Chunk, path string) ([]*project.PointCloud, error) {
	file, err := e57.Open(path)
	if err != nil {
		return nil, err
	}
	if len(file.Scans) == 0 {
		return nil, fmt.Errorf("%s: no point cloud data found in file", path)
	}

	base := baseName(path)

	var imported []*project.PointCloud
	for i, scan := range file.Scans {
		transform, err := scanTransform(scan)
		if err != nil {
			return nil, fmt.Errorf("%s: invalid pose for scan %d: %w", path, i, err)
		}

		label := scan.Name
		if label == "" {
			label = base
		}

		imported = append(imported, &project.PointCloud{
			Key:         uuid.NewString(),
			Label:       label,
			IsLaserScan: true,
			Enabled:     true,
			Transform:   transform,
			SourcePath:  path,
		})
	}

	owner := imported[0]
	var cameras []*project.Camera
	for i, image := range file.Images {
		label := image.Name
		if label == "" {
			label = fmt.Sprintf("%s_img_%03d", base, i+1)
		}
		cameras = append(cameras, &project.Camera{
			Key:           uuid.NewString(),
			Label:         label,
			PointCloudKey: owner.Key,
		})
	}

	// mutate the chunk only once the whole file is known to be importable
	chunk.PointClouds = append(chunk.PointClouds, imported...)
	chunk.Cameras = append(chunk.Cameras, cameras...)

	return imported, nil
}

func scanTransform(scan e57.Scan) (*geometry.Transform, error) {
	if scan.Pose == nil {
		return geometry.Identity(), nil
	}
	pose := scan.Pose
	return geometry.FromQuaternion(pose.W, pose.X, pose.Y, pose.Z, geometry.Coordinate{
		X: pose.TX,
		Y: pose.TY,
		Z: pose.TZ,
	})
}

func baseName(path string) string {
	name := filepath.Base(path)
	return strings.TrimSuffix(name, filepath.Ext(name))
}
