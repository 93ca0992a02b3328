package tools

import (
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/RECONupm/METASHAPE/internal/replacer"
)

// Extension of the scan files recognized for import
const ScanFileExtension = ".e57"

type FileFinder interface {
	GetScanFilesToProcess(opts *replacer.ReplacerOptions) []string
}

type StandardFileFinder struct{}

func NewStandardFileFinder() FileFinder {
	return &StandardFileFinder{}
}

// Returns the scan files found in the input folder, sorted by path for a
// deterministic processing order. Nested folders are excluded unless the
// Recursive flag is enabled.
func (f *StandardFileFinder) GetScanFilesToProcess(opts *replacer.ReplacerOptions) []string {
	var scanFiles = make([]string, 0)

	baseInfo, _ := os.Stat(opts.Input)
	err := filepath.Walk(
		opts.Input,
		func(path string, info os.FileInfo, err error) error {
			if err != nil {
				return err
			}
			if info.IsDir() && !opts.Recursive && !os.SameFile(info, baseInfo) {
				return filepath.SkipDir
			} else {
				if !info.IsDir() && strings.ToLower(filepath.Ext(info.Name())) == ScanFileExtension {
					scanFiles = append(scanFiles, path)
				}
			}
			return nil
		},
	)

	if err != nil {
		log.Fatal(err)
	}

	sort.Strings(scanFiles)

	return scanFiles
}
