// Package modalities holds the static per-modality knowledge used by the
// generators: SOP classes, built-in profiles, scanners and acquisition
// attributes.
package modalities

import (
	"strings"

	"github.com/mrsinham/examforge/internal/util"
)

// Modality is a DICOM modality code.
type Modality string

const (
	CT Modality = "CT" // Computed Tomography
	MR Modality = "MR" // Magnetic Resonance
	PT Modality = "PT" // Positron Emission Tomography
	NM Modality = "NM" // Nuclear Medicine
	CR Modality = "CR" // Computed Radiography
	DX Modality = "DX" // Digital Radiography
	MG Modality = "MG" // Mammography
	US Modality = "US" // Ultrasound
	XA Modality = "XA" // X-Ray Angiography
	RF Modality = "RF" // Radio Fluoroscopy
	OT Modality = "OT" // Other
)

// Parse normalizes a modality code ("ct " -> CT). Unknown codes are kept as
// given in upper case; they resolve to the generic defaults downstream.
func Parse(s string) Modality {
	return Modality(strings.ToUpper(strings.TrimSpace(s)))
}

// AllModalities returns the modalities with a known SOP class.
func AllModalities() []Modality {
	return []Modality{CT, MR, PT, NM, CR, DX, MG, US, XA, RF}
}

// IsValid reports whether m is a syntactically valid modality code: one to
// sixteen upper case letters or digits.
func IsValid(m string) bool {
	if m == "" || len(m) > 16 {
		return false
	}
	for _, r := range m {
		if (r < 'A' || r > 'Z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// Scanner is an imaging device reported in the generated files.
type Scanner struct {
	Manufacturer string
	Model        string
	// MR only, in tesla.
	FieldStrength float64
	// CT only.
	DetectorRows int
}

var scanners = map[Modality][]Scanner{
	CT: {
		{Manufacturer: "SIEMENS", Model: "SOMATOM Definition AS+", DetectorRows: 128},
		{Manufacturer: "SIEMENS", Model: "SOMATOM Force", DetectorRows: 192},
		{Manufacturer: "GE MEDICAL SYSTEMS", Model: "Revolution CT", DetectorRows: 256},
		{Manufacturer: "PHILIPS", Model: "Brilliance iCT", DetectorRows: 256},
		{Manufacturer: "CANON", Model: "Aquilion ONE", DetectorRows: 320},
	},
	MR: {
		{Manufacturer: "SIEMENS", Model: "Avanto", FieldStrength: 1.5},
		{Manufacturer: "SIEMENS", Model: "Skyra", FieldStrength: 3.0},
		{Manufacturer: "GE MEDICAL SYSTEMS", Model: "Discovery MR750", FieldStrength: 3.0},
		{Manufacturer: "PHILIPS", Model: "Ingenia", FieldStrength: 1.5},
	},
	PT: {
		{Manufacturer: "SIEMENS", Model: "Biograph Vision"},
		{Manufacturer: "GE MEDICAL SYSTEMS", Model: "Discovery MI"},
		{Manufacturer: "PHILIPS", Model: "Vereos"},
	},
	NM: {
		{Manufacturer: "SIEMENS", Model: "Symbia Intevo"},
		{Manufacturer: "GE MEDICAL SYSTEMS", Model: "NM/CT 870 DR"},
	},
}

var genericScanner = Scanner{Manufacturer: "EXAMFORGE", Model: "Synthetic"}

// Scanners returns the known devices for m, possibly none.
func Scanners(m Modality) []Scanner {
	return scanners[m]
}

// PickScanner draws a device for m, or a generic one when none is known.
func PickScanner(s *util.Stream, m Modality) Scanner {
	return util.Pick(s, scanners[m], genericScanner)
}
