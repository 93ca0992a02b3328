package pkg

import (
	"fmt"
	"regexp"

	"github.com/golang/glog"

	"github.com/RECONupm/METASHAPE/internal/project"
	"github.com/RECONupm/METASHAPE/internal/replacer"
	"github.com/RECONupm/METASHAPE/tools"
)

// Labels assigned by the replace command: <source>_new, <source>_new_02,
// plus the optional uniqueness suffix
var importedLabelSuffix = regexp.MustCompile(`(?i)_new(?:_\d{2,})*$`)

type ReplacerVerify struct{}

func NewReplacerVerify() IReplacer {
	return &ReplacerVerify{}
}

// Checks that every imported station still holds the pose of its source
// station: the effective transforms must match within the tolerance
func (rv *ReplacerVerify) Run(opts *replacer.ReplacerOptions) error {
	doc, err := project.LoadDocument(opts.ProjectPath)
	if err != nil {
		glog.Fatal(err)
	}
	chunk, err := doc.ActiveChunk()
	if err != nil {
		glog.Fatal(err)
	}

	tolerance := tools.TransformTolerance
	if opts.VerifyOptions != nil && opts.VerifyOptions.Tolerance > 0 {
		tolerance = opts.VerifyOptions.Tolerance
	}

	stations, _ := chunk.LaserScanIndex()

	checked := 0
	mismatched := 0
	for _, pc := range chunk.LaserScans() {
		sourceLabel, imported := SourceLabelFor(pc.Label)
		if !imported {
			continue
		}

		src, found := stations[project.NormalizeLabel(sourceLabel)]
		if !found {
			glog.Infoln("no source station found for imported scan", pc.Label)
			continue
		}

		srcEff := chunk.EffectiveTransform(src)
		newEff := chunk.EffectiveTransform(pc)
		if srcEff == nil || newEff == nil {
			glog.Infoln("cannot compare transforms for", pc.Label, "(missing transform)")
			continue
		}

		checked++
		if !srcEff.ApproxEqual(newEff, tolerance) {
			mismatched++
			glog.Infoln("MISMATCH:", src.Label, "<->", pc.Label)
			glog.Infoln("source effective:\n" + srcEff.String())
			glog.Infoln("imported effective:\n" + newEff.String())
			continue
		}
		glog.Infoln("OK:", src.Label, "<->", pc.Label)
	}

	glog.Infoln("> done verifying, checked:", checked, "mismatched:", mismatched)

	if mismatched > 0 {
		return fmt.Errorf("%d imported stations do not hold the pose of their source station", mismatched)
	}
	return nil
}

// Derives the source station label from an imported scan label. Returns false
// when the label does not carry the imported suffix.
func SourceLabelFor(label string) (string, bool) {
	stripped := importedLabelSuffix.ReplaceAllString(label, "")
	if stripped == label || stripped == "" {
		return "", false
	}
	return stripped, true
}
