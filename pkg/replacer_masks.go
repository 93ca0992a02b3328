package pkg

import (
	"fmt"

	"github.com/RECONupm/METASHAPE/internal/project"
	"github.com/RECONupm/METASHAPE/internal/replacer"
	"github.com/RECONupm/METASHAPE/tools"
)

// Outcome of the mask transfer between a source station and its replacement
type MaskTransferStats struct {
	SourceCameras int      `json:"source_cameras"`
	NewCameras    int      `json:"new_cameras"`
	Cleared       int      `json:"cleared"`
	Copied        int      `json:"copied"`
	Failed        int      `json:"failed"`
	Warnings      []string `json:"warnings,omitempty"`
}

func (stats *MaskTransferStats) warn(format string, args ...interface{}) {
	message := fmt.Sprintf(format, args...)
	stats.Warnings = append(stats.Warnings, message)
	tools.LogOutput("  WARNING:", message)
}

// Removes the masks of the new station cameras, then copies the masks of the
// source station cameras across. Per camera problems are reported and counted
// but never abort the transfer.
func transferMasks(chunk *project.Chunk, src *project.PointCloud, dst *project.PointCloud, mode replacer.PairingMode) MaskTransferStats {
	srcCams := chunk.AttachedCameras(src)
	newCams := chunk.AttachedCameras(dst)

	stats := MaskTransferStats{
		SourceCameras: len(srcCams),
		NewCameras:    len(newCams),
	}

	tools.LogOutput(fmt.Sprintf("  Cameras attached | SRC: %d | NEW: %d", len(srcCams), len(newCams)))

	// imports may carry spurious default masks, always clear first
	for _, cam := range newCams {
		if cam.ClearMask() {
			stats.Cleared++
		}
	}
	if len(newCams) > 0 {
		tools.LogOutput(fmt.Sprintf("  Cleared masks on NEW cameras: %d/%d", stats.Cleared, len(newCams)))
	}

	if len(srcCams) == 0 || len(newCams) == 0 {
		stats.warn("cannot transfer masks (missing SRC cameras or NEW cameras)")
		return stats
	}

	if mode == replacer.PairingLabel {
		copyMasksByLabel(srcCams, newCams, &stats)
	} else {
		copyMasksByIndex(srcCams, newCams, &stats)
	}

	tools.LogOutput(fmt.Sprintf("  Masks copied to NEW cameras: %d", stats.Copied))
	return stats
}

// Pairs cameras by position inside the (label, key) sorted lists and copies
// masks for the common subset
func copyMasksByIndex(srcCams []*project.Camera, newCams []*project.Camera, stats *MaskTransferStats) {
	n := len(srcCams)
	if len(newCams) < n {
		n = len(newCams)
	}

	for i := 0; i < n; i++ {
		if srcCams[i].Mask == nil {
			// nothing to copy for this camera
			continue
		}
		copyMaskTo(newCams[i], srcCams[i].Mask, stats)
	}

	if len(srcCams) != len(newCams) {
		// surplus source cameras carrying a mask have no counterpart to copy to
		for _, srcCam := range srcCams[n:] {
			if srcCam.Mask != nil {
				stats.Failed++
			}
		}
		stats.warn("camera count mismatch (SRC=%d NEW=%d), transferred masks for first %d camera pairs",
			len(srcCams), len(newCams), n)
	}
}

// Pairs cameras whose normalized labels match, reporting source cameras with
// a mask but no counterpart
func copyMasksByLabel(srcCams []*project.Camera, newCams []*project.Camera, stats *MaskTransferStats) {
	newByLabel := make(map[string]*project.Camera)
	for _, cam := range newCams {
		key := project.NormalizeLabel(cam.Label)
		if _, found := newByLabel[key]; !found {
			newByLabel[key] = cam
		}
	}

	for _, srcCam := range srcCams {
		if srcCam.Mask == nil {
			continue
		}
		newCam, found := newByLabel[project.NormalizeLabel(srcCam.Label)]
		if !found {
			stats.Failed++
			stats.warn("no NEW camera matches label '%s', mask not transferred", srcCam.Label)
			continue
		}
		copyMaskTo(newCam, srcCam.Mask, stats)
	}
}

// Copies the mask bytes across unmodified. The raster is only decoded to
// validate it and to flag dimension mismatches with the target camera.
func copyMaskTo(cam *project.Camera, mask *project.Mask, stats *MaskTransferStats) {
	cam.SetMask(mask)
	stats.Copied++

	width, height, err := cam.Mask.Bounds()
	if err != nil {
		stats.warn("mask copied to camera '%s' but its raster is not decodable: %v", cam.Label, err)
		return
	}
	if cam.Width > 0 && cam.Height > 0 && (width != cam.Width || height != cam.Height) {
		stats.warn("mask copied to camera '%s' but its size %dx%d differs from the sensor size %dx%d",
			cam.Label, width, height, cam.Width, cam.Height)
	}
}
