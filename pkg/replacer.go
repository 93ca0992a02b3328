package pkg

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/RECONupm/METASHAPE/internal/converters"
	"github.com/RECONupm/METASHAPE/internal/geometry"
	"github.com/RECONupm/METASHAPE/internal/importers"
	"github.com/RECONupm/METASHAPE/internal/project"
	"github.com/RECONupm/METASHAPE/internal/replacer"
	"github.com/RECONupm/METASHAPE/tools"
)

const axisConventionWarning = "WARNING: the input scans must be generated using the same software as the " +
	"point clouds already loaded in this project, otherwise different axis conventions " +
	"(e.g. yaw) may cause incorrect orientations."

type IReplacer interface {
	Run(opts *replacer.ReplacerOptions) error
}

// StationReplacer imports the scans of a folder over the matching TLS
// stations of the active chunk, carrying over pose and camera masks.
type StationReplacer struct {
	fileFinder tools.FileFinder
	importer   importers.Importer
	converter  converters.CoordinateConverter
}

// The converter is only used to reproject station positions in the run
// report and may be nil when no reprojection is requested.
func NewStationReplacer(fileFinder tools.FileFinder, importer importers.Importer, converter converters.CoordinateConverter) IReplacer {
	return &StationReplacer{
		fileFinder: fileFinder,
		importer:   importer,
		converter:  converter,
	}
}

// Runs the full station replacement pipeline
func (sr *StationReplacer) Run(opts *replacer.ReplacerOptions) error {
	doc, err := project.LoadDocument(opts.ProjectPath)
	if err != nil {
		return err
	}
	chunk, err := doc.ActiveChunk()
	if err != nil {
		return err
	}

	tools.LogOutput(axisConventionWarning)

	if opts.Input == "" {
		return errors.New("no input folder selected")
	}
	if info, err := os.Stat(opts.Input); err != nil || !info.IsDir() {
		return fmt.Errorf("input folder not found: %s", opts.Input)
	}

	scanFiles := sr.fileFinder.GetScanFilesToProcess(opts)
	if len(scanFiles) == 0 {
		tools.LogOutput("No "+tools.ScanFileExtension+" files found in:", opts.Input)
		return nil
	}

	stations, duplicates := chunk.LaserScanIndex()
	for _, label := range duplicates {
		tools.LogOutput("WARNING: duplicate scan label '" + label + "'. The first one will be used.")
	}
	if len(stations) == 0 {
		tools.LogOutput("No TLS laser scans found in the active chunk.")
		return nil
	}

	existingLabels := chunk.ExistingLabels()

	tools.LogOutput("Chunk:", chunk.Label)
	tools.LogOutput("Folder:", opts.Input)
	tools.LogOutput("Scan files found:", len(scanFiles))
	tools.LogOutput("TLS scans in chunk:", len(stations))

	report := NewRunReport(opts)
	for i, filePath := range scanFiles {
		tools.LogOutput("Processing file " + strconv.Itoa(i+1) + "/" + strconv.Itoa(len(scanFiles)))
		sr.processScanFile(chunk, filePath, stations, existingLabels, opts, report)
	}
	if sr.converter != nil {
		sr.converter.Cleanup()
	}

	// callers driving the pipeline programmatically may leave the command
	// specific options unset, treat that as the defaults
	replaceOpts := opts.ReplaceOptions
	if replaceOpts == nil {
		replaceOpts = &replacer.ReplaceOptions{}
	}

	tools.LogOutput("Run report:", tools.FmtJSONString(report))
	if reportPath := replaceOpts.ReportPath; reportPath != "" {
		if err := report.Write(reportPath); err != nil {
			return err
		}
	}

	if replaceOpts.DryRun {
		tools.LogOutput("Dry run: project document not saved.")
		return nil
	}

	outputPath := replaceOpts.Output
	if outputPath == "" {
		outputPath = opts.ProjectPath
	}
	return doc.Save(outputPath)
}

// Processes one scan file: match, import, align and transfer masks.
// Failures are isolated to the file, the run continues with the next one.
func (sr *StationReplacer) processScanFile(
	chunk *project.Chunk,
	filePath string,
	stations map[string]*project.PointCloud,
	existingLabels map[string]struct{},
	opts *replacer.ReplacerOptions,
	report *RunReport,
) {
	base := getFilenameWithoutExtension(filePath)

	src, found := stations[project.NormalizeLabel(base)]
	if !found {
		tools.LogOutput("SKIP '"+filepath.Base(filePath)+"':", "no station label matches")
		report.AddSkip(filePath, "no matching station")
		return
	}
	if src.Transform == nil {
		tools.LogOutput("SKIP '"+filepath.Base(filePath)+"': '"+src.Label+"'", "has no transform")
		report.AddSkip(filePath, "matched station has no transform")
		return
	}

	srcEff := chunk.EffectiveTransform(src)

	tools.LogOutput("MATCH: '" + filepath.Base(filePath) + "' <-> '" + src.Label + "'")
	tools.LogOutput("SRC pc.transform:\n" + src.Transform.String())
	tools.LogOutput("SRC effective (group*pc if applicable):\n" + srcEff.String())

	newPCs, err := sr.importer.ImportPointCloud(chunk, filePath)
	if err != nil {
		tools.LogOutput("ERROR importing '"+filepath.Base(filePath)+"':", err)
		report.AddSkip(filePath, err.Error())
		return
	}

	for idx, newPC := range newPCs {
		desired := base + "_new"
		if idx > 0 {
			desired = fmt.Sprintf("%s_new_%02d", base, idx+1)
		}
		newLabel := project.MakeUniqueLabel(desired, existingLabels)
		newPC.Label = newLabel
		existingLabels[project.NormalizeLabel(newLabel)] = struct{}{}

		// same group as the source so effective transforms stay comparable
		newPC.GroupKey = src.GroupKey
		newPC.Enabled = src.Enabled

		entry := report.NewStation(filePath, src.Label, newLabel)

		if err := sr.alignToStation(chunk, srcEff, newPC); err != nil {
			tools.LogOutput("ERROR aligning '"+newLabel+"':", err)
			entry.Error = err.Error()
			continue
		}

		finalEff := chunk.EffectiveTransform(newPC)
		tools.LogOutput("FINAL pc.transform (label='" + newPC.Label + "'):\n" + newPC.Transform.String())
		tools.LogOutput("FINAL effective (group*pc if applicable):\n" + finalEff.String())

		entry.SetTransforms(srcEff, finalEff)
		sr.reportPosition(entry, finalEff, opts)

		entry.Masks = transferMasks(chunk, src, newPC, opts.Pairing)
	}
}

// Applies the rigid delta that takes the imported effective transform onto
// the source effective transform: delta = src_eff * inv(new_eff), applied
// multiplicatively so the transform frame is preserved.
func (sr *StationReplacer) alignToStation(chunk *project.Chunk, srcEff *geometry.Transform, newPC *project.PointCloud) error {
	if newPC.Transform == nil {
		return errors.New("imported point cloud has no transform")
	}

	newEff := chunk.EffectiveTransform(newPC)
	tools.LogOutput("IMPORTED pc.transform (raw):\n" + newPC.Transform.String())
	tools.LogOutput("IMPORTED effective (group*pc if applicable):\n" + newEff.String())

	inverse, err := newEff.Inverse()
	if err != nil {
		return err
	}
	delta := srcEff.Mul(inverse)
	tools.LogOutput("DELTA = SRC_eff * inv(IMPORTED_eff):\n" + delta.String())

	newPC.Transform = delta.Mul(newPC.Transform)
	return nil
}

// Fills the report entry world position, reprojected to the report srid when
// a converter is configured
func (sr *StationReplacer) reportPosition(entry *StationReport, finalEff *geometry.Transform, opts *replacer.ReplacerOptions) {
	position := finalEff.Translation()
	entry.Position = RoundCoordinate(position)

	if sr.converter == nil || opts.ReportSrid == 0 || opts.ProjectSrid == 0 {
		return
	}
	converted, err := sr.converter.ConvertCoordinateSrid(opts.ProjectSrid, opts.ReportSrid, position)
	if err != nil {
		tools.LogOutput("WARNING: cannot reproject station position:", err)
		return
	}
	entry.ReportSrid = opts.ReportSrid
	entry.ReportPosition = RoundCoordinate(converted)
}

func getFilenameWithoutExtension(filePath string) string {
	nameWext := filepath.Base(filePath)
	extension := filepath.Ext(nameWext)
	return nameWext[0 : len(nameWext)-len(extension)]
}
