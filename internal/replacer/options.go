package replacer

import "strings"

type PairingMode string

const (
	// Pair source and imported cameras by position inside the (label, key)
	// sorted camera lists. Mirrors the pairing the host scripting helpers use.
	PairingIndex PairingMode = "INDEX"

	// Pair source and imported cameras by normalized camera label. Cameras
	// without a counterpart are reported and skipped.
	PairingLabel PairingMode = "LABEL"
)

func (m PairingMode) String() string {
	if m == PairingIndex {
		return "INDEX"
	} else if m == PairingLabel {
		return "LABEL"
	}
	return ""
}

func ParsePairingMode(value string) PairingMode {
	normalizedValue := strings.Trim(strings.ToUpper(value), " ")
	if normalizedValue == "INDEX" {
		return PairingIndex
	} else if normalizedValue == "LABEL" {
		return PairingLabel
	}
	return ""
}

// Contains the options needed for the station replacement run
type ReplacerOptions struct {
	ProjectPath string      // Input project document
	Input       string      // Folder containing the .e57 scans to import
	Recursive   bool        // Recursive lookup of scan files in subfolders
	Pairing     PairingMode // Camera pairing strategy for the mask transfer
	ProjectSrid int         // EPSG srid of the chunk reference frame, 0 if unknown
	ReportSrid  int         // EPSG srid for station positions in the run report, 0 disables reprojection

	Command        string
	ReplaceOptions *ReplaceOptions
	VerifyOptions  *VerifyOptions
}

type ReplaceOptions struct {
	Output     string // Path where to save the updated project, empty saves in place
	ReportPath string // Path of the JSON run report, empty disables it
	DryRun     bool   // Run without saving the project document
}

type VerifyOptions struct {
	Tolerance float64 // Maximum per entry difference between effective transforms
}

func (opt *ReplacerOptions) Copy() *ReplacerOptions {
	newOpt := &ReplacerOptions{
		ProjectPath: opt.ProjectPath,
		Input:       opt.Input,
		Recursive:   opt.Recursive,
		Pairing:     opt.Pairing,
		ProjectSrid: opt.ProjectSrid,
		ReportSrid:  opt.ReportSrid,
		Command:     opt.Command,
	}

	if opt.ReplaceOptions != nil {
		replaceOpt := *opt.ReplaceOptions
		newOpt.ReplaceOptions = &replaceOpt
	}

	if opt.VerifyOptions != nil {
		verifyOpt := *opt.VerifyOptions
		newOpt.VerifyOptions = &verifyOpt
	}

	return newOpt
}
