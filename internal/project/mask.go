package project

import (
	"bytes"
	"fmt"
	"image"

	// masks are stored as encoded rasters, PNG or BMP
	_ "image/png"

	_ "golang.org/x/image/bmp"
)

// Mask is a per camera raster marking regions excluded from processing.
// The raster bytes are carried in their storage format and never reencoded.
type Mask struct {
	Data []byte `json:"data"`
}

// Returns a deep copy of the mask
func (m *Mask) Clone() *Mask {
	if m == nil {
		return nil
	}
	data := make([]byte, len(m.Data))
	copy(data, m.Data)
	return &Mask{Data: data}
}

// Decodes the raster header and returns the mask dimensions
func (m *Mask) Bounds() (width int, height int, err error) {
	if m == nil || len(m.Data) == 0 {
		return 0, 0, fmt.Errorf("mask has no raster data")
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(m.Data))
	if err != nil {
		return 0, 0, fmt.Errorf("cannot decode mask raster: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}
