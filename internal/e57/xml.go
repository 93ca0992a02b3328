package e57

import (
	"bytes"
	"encoding/xml"
	"strings"
)

// Minimal mapping of the E57 root XML document: only the sections needed to
// inventory scans and images are decoded, everything else is skipped.
type xmlRoot struct {
	XMLName  xml.Name  `xml:"e57Root"`
	Data3D   xmlVector `xml:"data3D"`
	Images2D xmlVector `xml:"images2D"`
}

type xmlVector struct {
	Children []xmlVectorChild `xml:"vectorChild"`
}

type xmlVectorChild struct {
	Name string   `xml:"name"`
	GUID string   `xml:"guid"`
	Pose *xmlPose `xml:"pose"`
}

type xmlPose struct {
	Rotation    *xmlRotation    `xml:"rotation"`
	Translation *xmlTranslation `xml:"translation"`
}

type xmlRotation struct {
	W float64 `xml:"w"`
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
	Z float64 `xml:"z"`
}

type xmlTranslation struct {
	X float64 `xml:"x"`
	Y float64 `xml:"y"`
	Z float64 `xml:"z"`
}

func parseXMLSection(data []byte) ([]Scan, []Image, error) {
	root := &xmlRoot{}
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(root); err != nil {
		return nil, nil, err
	}

	var scans []Scan
	for _, child := range root.Data3D.Children {
		scan := Scan{
			Name: strings.TrimSpace(child.Name),
			GUID: strings.TrimSpace(child.GUID),
		}
		if pose := child.Pose; pose != nil {
			p := &Pose{W: 1}
			if pose.Rotation != nil {
				p.W, p.X, p.Y, p.Z = pose.Rotation.W, pose.Rotation.X, pose.Rotation.Y, pose.Rotation.Z
			}
			if pose.Translation != nil {
				p.TX, p.TY, p.TZ = pose.Translation.X, pose.Translation.Y, pose.Translation.Z
			}
			scan.Pose = p
		}
		scans = append(scans, scan)
	}

	var images []Image
	for _, child := range root.Images2D.Children {
		images = append(images, Image{
			Name: strings.TrimSpace(child.Name),
			GUID: strings.TrimSpace(child.GUID),
		})
	}

	return scans, images, nil
}
