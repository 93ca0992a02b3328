// Package e57 reads the container level of ASTM E2807 (E57) scan files:
// the file header and the XML section, enough to inventory the point cloud
// and image payloads of a file without decoding any binary point data.
package e57

import (
	"encoding/binary"
	"errors"
	"fmt"
	"hash/crc32"
	"io"
	"os"
)

const (
	// E57 file signature, first 8 bytes of every file
	Signature = "ASTM-E57"

	// E57 files are organized in physical pages whose last 4 bytes carry a
	// CRC-32C checksum of the preceding payload bytes
	PageSize    = 1024
	pagePayload = PageSize - 4

	headerLength = 48
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

var (
	ErrBadSignature = errors.New("not an E57 file: signature mismatch")
	ErrBadChecksum  = errors.New("E57 page checksum mismatch")
)

// Header is the 48 byte fixed-length file header of an E57 file
type Header struct {
	Major            uint32
	Minor            uint32
	PhysicalLength   uint64
	XMLPhysicalStart uint64
	XMLLogicalLength uint64
	PageSize         uint64
}

// Pose is the rigid pose of a scan inside an E57 file, a unit quaternion
// rotation plus a translation
type Pose struct {
	W, X, Y, Z float64
	TX, TY, TZ float64
}

// Scan describes one data3D section of an E57 file
type Scan struct {
	Name string
	GUID string
	Pose *Pose
}

// Image describes one images2D section of an E57 file
type Image struct {
	Name string
	GUID string
}

// File is the container level inventory of an E57 file
type File struct {
	Header Header
	Scans  []Scan
	Images []Image
}

// Reads and validates the header of an E57 file
func ReadHeader(r io.ReaderAt) (*Header, error) {
	buf := make([]byte, headerLength)
	if _, err := r.ReadAt(buf, 0); err != nil {
		return nil, fmt.Errorf("cannot read E57 header: %w", err)
	}
	if string(buf[0:8]) != Signature {
		return nil, ErrBadSignature
	}

	header := &Header{
		Major:            binary.LittleEndian.Uint32(buf[8:12]),
		Minor:            binary.LittleEndian.Uint32(buf[12:16]),
		PhysicalLength:   binary.LittleEndian.Uint64(buf[16:24]),
		XMLPhysicalStart: binary.LittleEndian.Uint64(buf[24:32]),
		XMLLogicalLength: binary.LittleEndian.Uint64(buf[32:40]),
		PageSize:         binary.LittleEndian.Uint64(buf[40:48]),
	}

	if header.PageSize != PageSize {
		return nil, fmt.Errorf("unsupported E57 page size %d", header.PageSize)
	}
	return header, nil
}

// The XML section the header advertises must fit inside the physical file.
// A corrupt header could otherwise drive an oversized allocation or a read
// past the end of the file.
func (header *Header) checkBounds(fileSize uint64) error {
	if header.PhysicalLength > fileSize {
		return fmt.Errorf("E57 physical length %d exceeds the file size %d (truncated file)", header.PhysicalLength, fileSize)
	}
	if header.XMLPhysicalStart < headerLength || header.XMLPhysicalStart >= fileSize {
		return fmt.Errorf("E57 XML offset %d outside the file (size %d)", header.XMLPhysicalStart, fileSize)
	}
	if header.XMLLogicalLength > fileSize {
		return fmt.Errorf("E57 XML logical length %d exceeds the file size %d", header.XMLLogicalLength, fileSize)
	}
	return nil
}

// Opens an E57 file and reads its container inventory
func Open(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open E57 file: %w", err)
	}
	defer func() { _ = f.Close() }()

	header, err := ReadHeader(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	info, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("cannot stat E57 file: %w", err)
	}
	if err := header.checkBounds(uint64(info.Size())); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	xmlData, err := readLogical(f, header.XMLPhysicalStart, header.XMLLogicalLength)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot read E57 XML section: %w", path, err)
	}

	scans, images, err := parseXMLSection(xmlData)
	if err != nil {
		return nil, fmt.Errorf("%s: cannot parse E57 XML section: %w", path, err)
	}

	return &File{
		Header: *header,
		Scans:  scans,
		Images: images,
	}, nil
}

// Reads logicalLength logical bytes starting at the given physical offset,
// skipping and verifying the per page CRC-32C checksums
func readLogical(r io.ReaderAt, physicalStart uint64, logicalLength uint64) ([]byte, error) {
	if physicalStart%PageSize >= pagePayload {
		return nil, fmt.Errorf("physical offset %d points inside a page checksum", physicalStart)
	}

	out := make([]byte, 0, logicalLength)
	page := make([]byte, PageSize)
	pageIndex := physicalStart / PageSize
	offsetInPage := physicalStart % PageSize

	for uint64(len(out)) < logicalLength {
		n, err := r.ReadAt(page, int64(pageIndex*PageSize))
		if err != nil && err != io.EOF {
			return nil, err
		}
		if n < PageSize {
			return nil, io.ErrUnexpectedEOF
		}

		stored := binary.LittleEndian.Uint32(page[pagePayload:])
		if crc32.Checksum(page[:pagePayload], crcTable) != stored {
			return nil, fmt.Errorf("%w at page %d", ErrBadChecksum, pageIndex)
		}

		payload := page[offsetInPage:pagePayload]
		missing := logicalLength - uint64(len(out))
		if uint64(len(payload)) > missing {
			payload = payload[:missing]
		}
		out = append(out, payload...)

		pageIndex++
		offsetInPage = 0
	}
	return out, nil
}
