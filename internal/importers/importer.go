package importers

import (
	"github.com/RECONupm/METASHAPE/internal/project"
)

// Importer materializes the point cloud assets of a scan file into a chunk,
// mirroring the host application's import operation. One file may yield more
// than one asset. Cameras carried by the file are added to the chunk and
// associated to the imported assets.
type Importer interface {
	ImportPointCloud(chunk *project.Chunk, path string) ([]*project.PointCloud, error)
}
