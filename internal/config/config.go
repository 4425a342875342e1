// Package config loads, validates and saves examforge run configurations.
package config

import (
	"errors"

	"github.com/mrsinham/examforge/internal/dicom"
	"github.com/mrsinham/examforge/internal/util"
)

// ErrInvalidConfig is wrapped by every validation failure.
var ErrInvalidConfig = errors.New("invalid configuration")

// DateLayout is the layout of reference_date.
const DateLayout = "2006-01-02"

// Range is an inclusive min/max pair as written in configuration files.
type Range struct {
	Min int `mapstructure:"min" yaml:"min"`
	Max int `mapstructure:"max" yaml:"max"`
}

// PairConfig is one named modality pair of the exam mix.
type PairConfig struct {
	Modalities []string `mapstructure:"modalities" yaml:"modalities"`
	Weight     int      `mapstructure:"weight" yaml:"weight"`
}

// ExamMixConfig weights the two named pairs against uniform pool draws.
type ExamMixConfig struct {
	PairA       PairConfig `mapstructure:"pair_a" yaml:"pair_a"`
	PairB       PairConfig `mapstructure:"pair_b" yaml:"pair_b"`
	MixedWeight int        `mapstructure:"mixed_weight" yaml:"mixed_weight"`
}

// OrgIDConfig shapes organization codes.
type OrgIDConfig struct {
	Alphabet string `mapstructure:"alphabet" yaml:"alphabet"`
	Length   int    `mapstructure:"length" yaml:"length"`
}

// PatientIDConfig shapes patient identifiers.
type PatientIDConfig struct {
	InitialsAlphabet string `mapstructure:"initials_alphabet" yaml:"initials_alphabet"`
	InitialsLength   int    `mapstructure:"initials_length" yaml:"initials_length"`
	CodeAlphabet     string `mapstructure:"code_alphabet" yaml:"code_alphabet"`
	CodeLength       int    `mapstructure:"code_length" yaml:"code_length"`
	NumberWidth      int    `mapstructure:"number_width" yaml:"number_width"`
	Separator        string `mapstructure:"separator" yaml:"separator"`
}

// ImagingConfig is the global pixel format.
type ImagingConfig struct {
	Rows          int    `mapstructure:"rows" yaml:"rows"`
	Cols          int    `mapstructure:"cols" yaml:"cols"`
	BitsAllocated int    `mapstructure:"bits_allocated" yaml:"bits_allocated"`
	BitsStored    int    `mapstructure:"bits_stored" yaml:"bits_stored"`
	Photometric   string `mapstructure:"photometric" yaml:"photometric"`
	CharacterSet  string `mapstructure:"character_set" yaml:"character_set"`
	LabelOverlay  bool   `mapstructure:"label_overlay" yaml:"label_overlay"`
}

// ProfileConfig overrides the built-in profile of one modality. Zero or
// empty fields keep the built-in value.
type ProfileConfig struct {
	SeriesPerStudy     Range    `mapstructure:"series_per_study" yaml:"series_per_study,omitempty"`
	StudyDescriptions  []string `mapstructure:"study_descriptions" yaml:"study_descriptions,omitempty"`
	SeriesDescriptions []string `mapstructure:"series_descriptions" yaml:"series_descriptions,omitempty"`
	StandardFileCounts []int    `mapstructure:"standard_file_counts" yaml:"standard_file_counts,omitempty"`
	BodyParts          []string `mapstructure:"body_parts" yaml:"body_parts,omitempty"`
	Rows               int      `mapstructure:"rows" yaml:"rows,omitempty"`
	Cols               int      `mapstructure:"cols" yaml:"cols,omitempty"`
	BitsAllocated      int      `mapstructure:"bits_allocated" yaml:"bits_allocated,omitempty"`
	BitsStored         int      `mapstructure:"bits_stored" yaml:"bits_stored,omitempty"`
	Photometric        string   `mapstructure:"photometric" yaml:"photometric,omitempty"`
}

// Config is the complete run configuration.
type Config struct {
	OutputRoot string `mapstructure:"output_root" yaml:"output_root"`
	Container  string `mapstructure:"container" yaml:"container"`
	// Seed 0 picks a seed from the clock.
	Seed int64 `mapstructure:"seed" yaml:"seed"`

	Organizations           int   `mapstructure:"organizations" yaml:"organizations"`
	PatientsPerOrganization Range `mapstructure:"patients_per_organization" yaml:"patients_per_organization"`
	ExamsPerPatient         Range `mapstructure:"exams_per_patient" yaml:"exams_per_patient"`
	ModalitiesPerExam       Range `mapstructure:"modalities_per_exam" yaml:"modalities_per_exam"`

	ModalityPool   []string      `mapstructure:"modality_pool" yaml:"modality_pool"`
	ExamMix        ExamMixConfig `mapstructure:"exam_mix" yaml:"exam_mix"`
	DateRangeYears Range         `mapstructure:"date_range_years" yaml:"date_range_years"`
	ReferenceDate  string        `mapstructure:"reference_date" yaml:"reference_date"`

	OrganizationID OrgIDConfig     `mapstructure:"organization_id" yaml:"organization_id"`
	PatientID      PatientIDConfig `mapstructure:"patient_id" yaml:"patient_id"`
	Imaging        ImagingConfig   `mapstructure:"imaging" yaml:"imaging"`

	Naming                string `mapstructure:"naming" yaml:"naming"`
	FileCountPolicy       string `mapstructure:"file_count_policy" yaml:"file_count_policy"`
	DefaultFileCount      int    `mapstructure:"default_file_count" yaml:"default_file_count"`
	ExamFolderDescription bool   `mapstructure:"exam_folder_description" yaml:"exam_folder_description"`
	SeriesFolderSuffix    string `mapstructure:"series_folder_suffix" yaml:"series_folder_suffix"`
	VerifyAccession       bool   `mapstructure:"verify_accession" yaml:"verify_accession"`
	Manifest              bool   `mapstructure:"manifest" yaml:"manifest"`

	Profiles  map[string]ProfileConfig `mapstructure:"profiles" yaml:"profiles,omitempty"`
	Overrides map[string]string        `mapstructure:"overrides" yaml:"overrides,omitempty"`
}

// Defaults returns the configuration used when nothing is set.
func Defaults() Config {
	return Config{
		OutputRoot:              "./out",
		Container:               dicom.DefaultContainer,
		Organizations:           1,
		PatientsPerOrganization: Range{Min: 1, Max: 3},
		ExamsPerPatient:         Range{Min: 1, Max: 2},
		ModalitiesPerExam:       Range{Min: 1, Max: 2},
		ModalityPool:            []string{"CT", "MR", "PT", "NM"},
		ExamMix: ExamMixConfig{
			PairA:       PairConfig{Modalities: []string{"PT", "CT"}, Weight: 70},
			PairB:       PairConfig{Modalities: []string{"NM", "CT"}, Weight: 10},
			MixedWeight: 20,
		},
		DateRangeYears: Range{Min: 0, Max: 5},
		ReferenceDate:  dicom.DefaultReferenceDate.Format(DateLayout),
		OrganizationID: OrgIDConfig{Alphabet: util.AlphaNumeric, Length: 4},
		PatientID: PatientIDConfig{
			InitialsAlphabet: util.Letters,
			InitialsLength:   2,
			CodeAlphabet:     util.AlphaNumeric,
			CodeLength:       4,
			NumberWidth:      6,
			Separator:        "-",
		},
		Imaging: ImagingConfig{
			Rows:          256,
			Cols:          256,
			BitsAllocated: 8,
			BitsStored:    8,
			Photometric:   "MONOCHROME2",
		},
		Naming:             "uid",
		FileCountPolicy:    string(dicom.PolicyPartition),
		DefaultFileCount:   dicom.DefaultFileCount,
		SeriesFolderSuffix: string(dicom.SuffixAuto),
		Manifest:           true,
	}
}
