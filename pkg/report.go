package pkg

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/RECONupm/METASHAPE/internal/geometry"
	"github.com/RECONupm/METASHAPE/internal/replacer"
	"github.com/RECONupm/METASHAPE/tools"
)

// Number of decimal digits kept for coordinates in the run report
const reportDigits = 6

// RunReport collects the per station and per file outcome of a replacement run
type RunReport struct {
	RunID     string           `json:"run_id"`
	Project   string           `json:"project"`
	Input     string           `json:"input"`
	Pairing   string           `json:"pairing"`
	StartedAt string           `json:"started_at"`
	Stations  []*StationReport `json:"stations"`
	Skipped   []SkipEntry      `json:"skipped,omitempty"`
}

type SkipEntry struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

type StationReport struct {
	File            string            `json:"file"`
	SourceLabel     string            `json:"source_label"`
	NewLabel        string            `json:"new_label"`
	SourceTransform []float64         `json:"source_transform,omitempty"`
	FinalTransform  []float64         `json:"final_transform,omitempty"`
	Position        []string          `json:"position,omitempty"`
	ReportSrid      int               `json:"report_srid,omitempty"`
	ReportPosition  []string          `json:"report_position,omitempty"`
	Masks           MaskTransferStats `json:"masks"`
	Error           string            `json:"error,omitempty"`
}

func NewRunReport(opts *replacer.ReplacerOptions) *RunReport {
	return &RunReport{
		RunID:     uuid.NewString(),
		Project:   opts.ProjectPath,
		Input:     opts.Input,
		Pairing:   opts.Pairing.String(),
		StartedAt: time.Now().UTC().Format(time.RFC3339),
	}
}

func (report *RunReport) AddSkip(file string, reason string) {
	report.Skipped = append(report.Skipped, SkipEntry{File: file, Reason: reason})
}

func (report *RunReport) NewStation(file string, sourceLabel string, newLabel string) *StationReport {
	entry := &StationReport{
		File:        file,
		SourceLabel: sourceLabel,
		NewLabel:    newLabel,
	}
	report.Stations = append(report.Stations, entry)
	return entry
}

func (entry *StationReport) SetTransforms(source *geometry.Transform, final *geometry.Transform) {
	sourceValues := source.Values()
	finalValues := final.Values()
	entry.SourceTransform = sourceValues[:]
	entry.FinalTransform = finalValues[:]
}

// Formats a coordinate as fixed precision strings, stable across platforms
func RoundCoordinate(coord geometry.Coordinate) []string {
	return []string{
		decimal.NewFromFloat(coord.X).Round(reportDigits).String(),
		decimal.NewFromFloat(coord.Y).Round(reportDigits).String(),
		decimal.NewFromFloat(coord.Z).Round(reportDigits).String(),
	}
}

func (report *RunReport) Write(path string) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("cannot serialize run report: %w", err)
	}
	if err := tools.CreateDirectoryIfDoesNotExist(filepath.Dir(path)); err != nil {
		return fmt.Errorf("cannot create run report folder: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("cannot write run report %s: %w", path, err)
	}
	return nil
}
