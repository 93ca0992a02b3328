package replacer

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParsePairingMode(t *testing.T) {
	assert.Equal(t, PairingIndex, ParsePairingMode("index"))
	assert.Equal(t, PairingIndex, ParsePairingMode(" INDEX "))
	assert.Equal(t, PairingLabel, ParsePairingMode("Label"))
	assert.Equal(t, PairingMode(""), ParsePairingMode("nearest"))
}

func TestPairingModeString(t *testing.T) {
	assert.Equal(t, "INDEX", PairingIndex.String())
	assert.Equal(t, "LABEL", PairingLabel.String())
	assert.Equal(t, "", PairingMode("bogus").String())
}

func TestOptionsCopy(t *testing.T) {
	opt := &ReplacerOptions{
		ProjectPath: "project.json",
		Input:       "/scans",
		Recursive:   true,
		Pairing:     PairingLabel,
		ProjectSrid: 25830,
		ReportSrid:  4326,
		Command:     "replace",
		ReplaceOptions: &ReplaceOptions{
			Output:     "out.json",
			ReportPath: "report.json",
			DryRun:     true,
		},
		VerifyOptions: &VerifyOptions{Tolerance: 0.001},
	}

	copied := opt.Copy()
	require.Equal(t, opt, copied)

	copied.ReplaceOptions.Output = "changed.json"
	copied.VerifyOptions.Tolerance = 42
	assert.Equal(t, "out.json", opt.ReplaceOptions.Output)
	assert.Equal(t, 0.001, opt.VerifyOptions.Tolerance)
}
