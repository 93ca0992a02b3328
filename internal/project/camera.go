package project

// Camera is an image of a chunk with an optional mask, associated to the
// point cloud asset it was acquired from.
type Camera struct {
	Key           string `json:"key"`
	Label         string `json:"label"`
	PointCloudKey string `json:"point_cloud,omitempty"`
	Width         int    `json:"width,omitempty"`
	Height        int    `json:"height,omitempty"`
	Mask          *Mask  `json:"mask,omitempty"`
}

// Removes the mask from the camera. Returns true if a mask was present.
func (cam *Camera) ClearMask() bool {
	if cam.Mask == nil {
		return false
	}
	cam.Mask = nil
	return true
}

// Replaces the camera mask with a deep copy of the given one
func (cam *Camera) SetMask(mask *Mask) {
	cam.Mask = mask.Clone()
}
