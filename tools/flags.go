package tools

import (
	"flag"
	"log"
)

const (
	CommandReplace = "replace"
	CommandVerify  = "verify"
	CommandInspect = "inspect"
)

type FlagsGlobal struct {
	Help    *bool `json:"help"`
	Version *bool `json:"version"`
}

type ReplacerFlags struct {
	Project     *string `json:"project"`
	Input       *string `json:"input"`
	Recursive   *bool   `json:"recursive"`
	Pairing     *string `json:"pairing"`
	ProjectSrid *int    `json:"project_srid"`
	ReportSrid  *int    `json:"report_srid"`
}

type FlagsForCommandReplace struct {
	ReplacerFlags
	Output       *string
	Report       *string
	DryRun       *bool
	Silent       *bool
	LogTimestamp *bool
	Help         *bool
	Version      *bool
}

type FlagsForCommandVerify struct {
	ReplacerFlags
	Tolerance *float64
}

type FlagsForCommandInspect struct {
	Project *string
}

func ParseFlagsGlobal() FlagsGlobal {
	help := defineBoolFlag("help", "h", false, "Displays this help.")
	version := defineBoolFlag("version", "v", false, "Displays the version of the tool.")

	flag.Parse()

	return FlagsGlobal{
		Help:    help,
		Version: version,
	}
}

func ParseFlagsForCommandReplace(args []string) FlagsForCommandReplace {
	log.Println(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-replace", flag.ExitOnError)

	project := defineStringFlagCommand(flagCommand, "project", "p", "", "Specifies the project document to update.")
	input := defineStringFlagCommand(flagCommand, "input", "i", "", "Specifies the folder containing the .e57 scans to import.")
	output := defineStringFlagCommand(flagCommand, "output", "o", "", "Specifies where to save the updated project. Defaults to saving in place.")
	report := defineStringFlagCommand(flagCommand, "report", "", "", "Specifies the path of the JSON run report. Empty disables the report file.")
	recursive := defineBoolFlagCommand(flagCommand, "recursive", "r", false, "Enables recursive lookup for .e57 files inside subfolders of the input folder.")
	pairing := defineStringFlagCommand(flagCommand, "pairing", "", "INDEX", "Camera pairing strategy for the mask transfer, can be 'INDEX' or 'LABEL'. INDEX pairs cameras by position in the (label, key) sorted lists, LABEL pairs them by normalized camera label.")
	projectSrid := defineIntFlagCommand(flagCommand, "project-srid", "e", 0, "EPSG srid code of the chunk reference frame. 0 if unknown.")
	reportSrid := defineIntFlagCommand(flagCommand, "report-srid", "", 0, "EPSG srid code for station positions in the run report. 0 disables reprojection.")
	dryRun := defineBoolFlagCommand(flagCommand, "dry-run", "n", false, "Runs the full pipeline without saving the project document.")
	silent := defineBoolFlagCommand(flagCommand, "silent", "s", false, "Use to suppress all the non-error messages.")
	logTimestamp := defineBoolFlagCommand(flagCommand, "timestamp", "t", false, "Adds timestamp to log messages.")
	help := defineBoolFlagCommand(flagCommand, "help", "h", false, "Displays this help.")
	version := defineBoolFlagCommand(flagCommand, "version", "v", false, "Displays the version of the tool.")

	flagCommand.Parse(args)

	return FlagsForCommandReplace{
		ReplacerFlags: ReplacerFlags{
			Project:     project,
			Input:       input,
			Recursive:   recursive,
			Pairing:     pairing,
			ProjectSrid: projectSrid,
			ReportSrid:  reportSrid,
		},
		Output:       output,
		Report:       report,
		DryRun:       dryRun,
		Silent:       silent,
		LogTimestamp: logTimestamp,
		Help:         help,
		Version:      version,
	}
}

func ParseFlagsForCommandVerify(args []string) FlagsForCommandVerify {
	log.Println(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-verify", flag.ExitOnError)

	project := defineStringFlagCommand(flagCommand, "project", "p", "", "Specifies the project document to verify.")
	tolerance := defineFloat64FlagCommand(flagCommand, "tolerance", "", TransformTolerance, "Maximum allowed per entry difference between source and imported effective transforms.")

	recursive := false
	pairing := ""
	projectSrid := 0
	reportSrid := 0
	input := ""

	flagCommand.Parse(args)

	return FlagsForCommandVerify{
		ReplacerFlags: ReplacerFlags{
			Project:     project,
			Input:       &input,
			Recursive:   &recursive,
			Pairing:     &pairing,
			ProjectSrid: &projectSrid,
			ReportSrid:  &reportSrid,
		},
		Tolerance: tolerance,
	}
}

func ParseFlagsForCommandInspect(args []string) FlagsForCommandInspect {
	log.Println(FmtJSONString(args))

	flagCommand := flag.NewFlagSet("command-inspect", flag.ExitOnError)

	project := defineStringFlagCommand(flagCommand, "project", "p", "", "Specifies the project document to inspect.")

	flagCommand.Parse(args)

	return FlagsForCommandInspect{
		Project: project,
	}
}

func defineBoolFlag(name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flag.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name {
		flag.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineStringFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue string, usage string) *string {
	var output string
	flagCommand.StringVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.StringVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineIntFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue int, usage string) *int {
	var output int
	flagCommand.IntVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.IntVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}

	return &output
}

func defineFloat64FlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue float64, usage string) *float64 {
	var output float64
	flagCommand.Float64Var(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.Float64Var(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}

func defineBoolFlagCommand(flagCommand *flag.FlagSet, name string, shortHand string, defaultValue bool, usage string) *bool {
	var output bool
	flagCommand.BoolVar(&output, name, defaultValue, usage)
	if shortHand != name && shortHand != "" {
		flagCommand.BoolVar(&output, shortHand, defaultValue, usage+" (shorthand for "+name+")")
	}
	return &output
}
