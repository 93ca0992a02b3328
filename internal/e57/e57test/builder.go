// Package e57test builds minimal but well formed E57 files for tests:
// a valid header, a CRC-paged body and an XML section listing scans and images.
package e57test

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"os"
	"strings"
)

const (
	pageSize    = 1024
	pagePayload = pageSize - 4
)

var crcTable = crc32.MakeTable(crc32.Castagnoli)

// ScanSpec describes one data3D entry of the fixture file
type ScanSpec struct {
	Name        string
	GUID        string
	Quaternion  [4]float64 // w, x, y, z; zero value means no pose element
	Translation [3]float64
	HasPose     bool
}

// ImageSpec describes one images2D entry of the fixture file
type ImageSpec struct {
	Name string
	GUID string
}

// Writes a synthetic E57 file at the given path
func WriteFile(path string, scans []ScanSpec, images []ImageSpec) error {
	xmlData := []byte(buildXML(scans, images))

	// header occupies the first 48 logical bytes, XML follows immediately
	const headerLength = 48
	xmlPhysicalStart := uint64(headerLength)

	logical := make([]byte, headerLength+len(xmlData))
	copy(logical[0:8], "ASTM-E57")
	binary.LittleEndian.PutUint32(logical[8:12], 1)
	binary.LittleEndian.PutUint32(logical[12:16], 0)
	binary.LittleEndian.PutUint64(logical[24:32], xmlPhysicalStart)
	binary.LittleEndian.PutUint64(logical[32:40], uint64(len(xmlData)))
	binary.LittleEndian.PutUint64(logical[40:48], pageSize)
	copy(logical[headerLength:], xmlData)

	paged := Paginate(logical)
	binary.LittleEndian.PutUint64(logical[16:24], uint64(len(paged)))

	// repaginate with the final physical length in the header
	paged = Paginate(logical)
	return os.WriteFile(path, paged, 0644)
}

// Splits logical bytes into 1024 byte pages, each ending with its CRC-32C
func Paginate(logical []byte) []byte {
	numPages := (len(logical) + pagePayload - 1) / pagePayload
	out := make([]byte, numPages*pageSize)
	for p := 0; p < numPages; p++ {
		payload := out[p*pageSize : p*pageSize+pagePayload]
		start := p * pagePayload
		end := start + pagePayload
		if end > len(logical) {
			end = len(logical)
		}
		copy(payload, logical[start:end])
		crc := crc32.Checksum(payload, crcTable)
		binary.LittleEndian.PutUint32(out[p*pageSize+pagePayload:p*pageSize+pageSize], crc)
	}
	return out
}

func buildXML(scans []ScanSpec, images []ImageSpec) string {
	var sb strings.Builder
	sb.WriteString(`<?xml version="1.0" encoding="UTF-8"?>`)
	sb.WriteString(`<e57Root type="Structure" xmlns="http://www.astm.org/COMMIT/E57/2010-e57-v1.0">`)
	sb.WriteString(`<formatName type="String"><![CDATA[ASTM E57 3D Imaging Data File]]></formatName>`)

	sb.WriteString(`<data3D type="Vector" allowHeterogeneousChildren="1">`)
	for _, scan := range scans {
		sb.WriteString(`<vectorChild type="Structure">`)
		fmt.Fprintf(&sb, `<name type="String"><![CDATA[%s]]></name>`, scan.Name)
		if scan.GUID != "" {
			fmt.Fprintf(&sb, `<guid type="String"><![CDATA[%s]]></guid>`, scan.GUID)
		}
		if scan.HasPose {
			sb.WriteString(`<pose type="Structure">`)
			fmt.Fprintf(&sb,
				`<rotation type="Structure"><w type="Float">%g</w><x type="Float">%g</x><y type="Float">%g</y><z type="Float">%g</z></rotation>`,
				scan.Quaternion[0], scan.Quaternion[1], scan.Quaternion[2], scan.Quaternion[3])
			fmt.Fprintf(&sb,
				`<translation type="Structure"><x type="Float">%g</x><y type="Float">%g</y><z type="Float">%g</z></translation>`,
				scan.Translation[0], scan.Translation[1], scan.Translation[2])
			sb.WriteString(`</pose>`)
		}
		sb.WriteString(`</vectorChild>`)
	}
	sb.WriteString(`</data3D>`)

	sb.WriteString(`<images2D type="Vector" allowHeterogeneousChildren="1">`)
	for _, img := range images {
		sb.WriteString(`<vectorChild type="Structure">`)
		fmt.Fprintf(&sb, `<name type="String"><![CDATA[%s]]></name>`, img.Name)
		if img.GUID != "" {
			fmt.Fprintf(&sb, `<guid type="String"><![CDATA[%s]]></guid>`, img.GUID)
		}
		sb.WriteString(`</vectorChild>`)
	}
	sb.WriteString(`</images2D>`)

	sb.WriteString(`</e57Root>`)
	return sb.String()
}
