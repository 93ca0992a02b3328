package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/RECONupm/METASHAPE/internal/converters"
	"github.com/RECONupm/METASHAPE/internal/importers"
	"github.com/RECONupm/METASHAPE/internal/replacer"
	"github.com/RECONupm/METASHAPE/pkg"
	"github.com/RECONupm/METASHAPE/tools"
)

const VERSION = "1.0.0"

const logo = `
  _   _                          _
 | |_| |___   _ __ ___ _ __  ___| | __ _  ___ ___
 | __| / __| | '__/ _ \ '_ \/ __| |/ _  |/ __/ _ \
 | |_| \__ \ | | |  __/ |_) \__ \ | (_| | (_|  __/
  \__|_|___/ |_|  \___| .__/|___/_|\__,_|\___\___|
                      |_|  TLS station replacement helper (E57)
`

func main() {
	log.SetPrefix("[tls-replace] ")
	log.SetFlags(log.LUTC | log.Ldate | log.Lmicroseconds | log.Lshortfile)

	flagsGlobal := tools.ParseFlagsGlobal()
	log.Println(tools.FmtJSONString(flagsGlobal))

	args := flag.Args()
	if len(args) == 0 {
		log.Fatal("Please specify a subcommand [replace|verify|inspect].")
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case tools.CommandReplace:
		mainCommandReplace(args)
	case tools.CommandVerify:
		mainCommandVerify(args)
	case tools.CommandInspect:
		mainCommandInspect(args)
	default:
		log.Fatalf("Unrecognized command [%q]. Command must be one of [replace|verify|inspect]", cmd)
	}
}

func mainCommandReplace(args []string) {
	flags := tools.ParseFlagsForCommandReplace(args)

	if *flags.Help {
		showHelp()
		return
	}
	if *flags.Version {
		printVersion()
		return
	}

	if *flags.Silent {
		tools.DisableLogger()
	} else {
		printLogo()
	}
	if *flags.LogTimestamp {
		tools.EnableLoggerTimestamp()
	}

	opts := replacer.ReplacerOptions{
		ProjectPath: *flags.Project,
		Input:       *flags.Input,
		Recursive:   *flags.Recursive,
		Pairing:     replacer.ParsePairingMode(*flags.Pairing),
		ProjectSrid: *flags.ProjectSrid,
		ReportSrid:  *flags.ReportSrid,
		Command:     tools.CommandReplace,
		ReplaceOptions: &replacer.ReplaceOptions{
			Output:     *flags.Output,
			ReportPath: *flags.Report,
			DryRun:     *flags.DryRun,
		},
	}

	if msg, res := validateOptionsForCommandReplace(&opts); !res {
		log.Fatal("Error parsing input parameters: " + msg)
	}

	var converter converters.CoordinateConverter
	if opts.ReportSrid != 0 {
		var err error
		converter, err = converters.NewProj4CoordinateConverter()
		if err != nil {
			log.Fatal("Error loading EPSG definitions: ", err)
		}
	}

	err := pkg.NewStationReplacer(tools.NewStandardFileFinder(), importers.NewE57Importer(), converter).Run(&opts)

	if err != nil {
		log.Fatal("Error while replacing stations: ", err)
	} else {
		tools.LogOutput("Replacement Completed")
	}
}

func validateOptionsForCommandReplace(opts *replacer.ReplacerOptions) (string, bool) {
	if opts.ProjectPath == "" {
		return "Project file not specified", false
	}
	if _, err := os.Stat(opts.ProjectPath); os.IsNotExist(err) {
		return "Project file not found", false
	}
	if opts.Input == "" {
		return "Input folder not specified", false
	}
	if _, err := os.Stat(opts.Input); os.IsNotExist(err) {
		return "Input folder not found", false
	}

	if opts.Pairing == "" {
		return "pairing should be either INDEX or LABEL", false
	}

	if opts.ReportSrid != 0 && opts.ProjectSrid == 0 {
		return "report-srid requires project-srid to be set", false
	}

	return "", true
}

func mainCommandVerify(args []string) {
	flags := tools.ParseFlagsForCommandVerify(args)

	opts := replacer.ReplacerOptions{
		ProjectPath: *flags.Project,
		Command:     tools.CommandVerify,
		VerifyOptions: &replacer.VerifyOptions{
			Tolerance: *flags.Tolerance,
		},
	}

	if opts.ProjectPath == "" {
		log.Fatal("Error parsing input parameters: Project file not specified")
	}
	if _, err := os.Stat(opts.ProjectPath); os.IsNotExist(err) {
		log.Fatal("Error parsing input parameters: Project file not found")
	}

	if err := pkg.NewReplacerVerify().Run(&opts); err != nil {
		log.Fatal("Error while verifying: ", err)
	}
	tools.LogOutput("Verification Completed")
}

func mainCommandInspect(args []string) {
	flags := tools.ParseFlagsForCommandInspect(args)

	opts := replacer.ReplacerOptions{
		ProjectPath: *flags.Project,
		Command:     tools.CommandInspect,
	}

	if opts.ProjectPath == "" {
		log.Fatal("Error parsing input parameters: Project file not specified")
	}

	if err := pkg.NewReplacerInspect().Run(&opts); err != nil {
		log.Fatal("Error while inspecting: ", err)
	}
}

func printLogo() {
	fmt.Print(logo + "\n")
}

func showHelp() {
	printLogo()
	fmt.Println("***")
	fmt.Println("tls-replace swaps the TLS stations of a project with freshly imported E57 scans,")
	fmt.Println("preserving the station pose and the per camera masks.")
	printVersion()
	fmt.Println("***")
	fmt.Println("")
	fmt.Println("Command line flags: ")
	flag.CommandLine.SetOutput(os.Stdout)
	flag.PrintDefaults()
}

func printVersion() {
	fmt.Println("v." + VERSION)
}
