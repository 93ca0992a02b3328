package project

import (
	"github.com/RECONupm/METASHAPE/internal/geometry"
)

// PointCloud is a point cloud asset of a chunk. A TLS station is a laser scan
// point cloud with an associated pose transform and a set of cameras.
type PointCloud struct {
	Key         string              `json:"key"`
	Label       string              `json:"label"`
	IsLaserScan bool                `json:"is_laser_scan"`
	Enabled     bool                `json:"enabled"`
	GroupKey    string              `json:"group,omitempty"`
	Transform   *geometry.Transform `json:"transform,omitempty"`
	SourcePath  string              `json:"source,omitempty"`
}

// PointCloudGroup gathers related point clouds under a shared group transform,
// typically the registration of a whole TLS campaign.
type PointCloudGroup struct {
	Key       string              `json:"key"`
	Label     string              `json:"label"`
	Transform *geometry.Transform `json:"transform,omitempty"`
}
