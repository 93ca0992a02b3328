package project

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RECONupm/METASHAPE/internal/geometry"
)

// Chunk groups a related set of cameras, point clouds and reconstruction
// products under a shared reference frame.
type Chunk struct {
	Label       string             `json:"label"`
	Active      bool               `json:"active,omitempty"`
	Groups      []*PointCloudGroup `json:"groups,omitempty"`
	PointClouds []*PointCloud      `json:"point_clouds,omitempty"`
	Cameras     []*Camera          `json:"cameras,omitempty"`
}

// Normalizes a label for robust matching (trim + lower)
func NormalizeLabel(label string) string {
	return strings.ToLower(strings.TrimSpace(label))
}

// Returns the group with the given key, or nil
func (chunk *Chunk) GroupByKey(key string) *PointCloudGroup {
	if key == "" {
		return nil
	}
	for _, group := range chunk.Groups {
		if group.Key == key {
			return group
		}
	}
	return nil
}

// Returns the point cloud assets flagged as laser scans, i.e. the TLS stations
func (chunk *Chunk) LaserScans() []*PointCloud {
	var scans []*PointCloud
	for _, pc := range chunk.PointClouds {
		if pc.IsLaserScan {
			scans = append(scans, pc)
		}
	}
	return scans
}

// Indexes the TLS stations of the chunk by normalized label. On duplicate
// labels the first station wins, the duplicated labels are returned alongside.
func (chunk *Chunk) LaserScanIndex() (map[string]*PointCloud, []string) {
	index := make(map[string]*PointCloud)
	var duplicates []string
	for _, pc := range chunk.LaserScans() {
		key := NormalizeLabel(pc.Label)
		if key == "" {
			continue
		}
		if _, found := index[key]; found {
			duplicates = append(duplicates, pc.Label)
			continue
		}
		index[key] = pc
	}
	return index, duplicates
}

// Returns the normalized labels of every point cloud asset in the chunk
func (chunk *Chunk) ExistingLabels() map[string]struct{} {
	labels := make(map[string]struct{})
	for _, pc := range chunk.PointClouds {
		if pc.Label == "" {
			continue
		}
		labels[NormalizeLabel(pc.Label)] = struct{}{}
	}
	return labels
}

// Ensures the label is unique inside the chunk by appending _02, _03, ...
func MakeUniqueLabel(desired string, existingLower map[string]struct{}) string {
	if _, found := existingLower[NormalizeLabel(desired)]; !found {
		return desired
	}

	for i := 2; ; i++ {
		candidate := fmt.Sprintf("%s_%02d", desired, i)
		if _, found := existingLower[NormalizeLabel(candidate)]; !found {
			return candidate
		}
	}
}

// Returns the composed transform taking the point cloud local frame to the
// chunk reference frame: group.transform * pc.transform when the point cloud
// belongs to a group carrying a transform, pc.transform otherwise.
// Returns nil when the point cloud has no transform at all.
func (chunk *Chunk) EffectiveTransform(pc *PointCloud) *geometry.Transform {
	if pc.Transform == nil {
		return nil
	}
	group := chunk.GroupByKey(pc.GroupKey)
	if group != nil && group.Transform != nil {
		return group.Transform.Mul(pc.Transform)
	}
	return pc.Transform.Copy()
}

// Returns the cameras associated with the given point cloud, sorted by
// (label, key) for stable deterministic pairing
func (chunk *Chunk) AttachedCameras(pc *PointCloud) []*Camera {
	var cams []*Camera
	for _, cam := range chunk.Cameras {
		if cam.PointCloudKey == pc.Key {
			cams = append(cams, cam)
		}
	}
	sort.Slice(cams, func(i, j int) bool {
		if cams[i].Label != cams[j].Label {
			return cams[i].Label < cams[j].Label
		}
		return cams[i].Key < cams[j].Key
	})
	return cams
}
