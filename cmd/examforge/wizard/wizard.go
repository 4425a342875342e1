// Package wizard provides the interactive form behind `examforge init`.
package wizard

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/mrsinham/examforge/internal/config"
	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

// Answers holds the form values. Numeric fields are strings because huh
// binds inputs to strings.
type Answers struct {
	OutputRoot              string
	Seed                    string
	Organizations           string
	PatientsPerOrganization string
	ExamsPerPatient         string
	ModalitiesPerExam       string
	ModalityPool            []string
	ImageSize               string
	Photometric             string
	Naming                  string
	UTF8Names               bool
	LabelOverlay            bool
	Manifest                bool
}

// AnswersFrom pre-fills the form from cfg.
func AnswersFrom(cfg config.Config) Answers {
	return Answers{
		OutputRoot:              cfg.OutputRoot,
		Seed:                    strconv.FormatInt(cfg.Seed, 10),
		Organizations:           strconv.Itoa(cfg.Organizations),
		PatientsPerOrganization: formatRange(cfg.PatientsPerOrganization),
		ExamsPerPatient:         formatRange(cfg.ExamsPerPatient),
		ModalitiesPerExam:       formatRange(cfg.ModalitiesPerExam),
		ModalityPool:            append([]string(nil), cfg.ModalityPool...),
		ImageSize:               strconv.Itoa(cfg.Imaging.Rows),
		Photometric:             cfg.Imaging.Photometric,
		Naming:                  cfg.Naming,
		UTF8Names:               cfg.Imaging.CharacterSet != "",
		LabelOverlay:            cfg.Imaging.LabelOverlay,
		Manifest:                cfg.Manifest,
	}
}

// Apply writes the answers into cfg. Fields the form does not ask about are
// left untouched.
func (a Answers) Apply(cfg *config.Config) error {
	var err error
	cfg.OutputRoot = strings.TrimSpace(a.OutputRoot)

	if cfg.Seed, err = strconv.ParseInt(strings.TrimSpace(a.Seed), 10, 64); err != nil {
		return fmt.Errorf("seed: must be a number")
	}
	if cfg.Organizations, err = strconv.Atoi(strings.TrimSpace(a.Organizations)); err != nil {
		return fmt.Errorf("organizations: must be a number")
	}
	if cfg.PatientsPerOrganization, err = parseRange(a.PatientsPerOrganization); err != nil {
		return fmt.Errorf("patients per organization: %w", err)
	}
	if cfg.ExamsPerPatient, err = parseRange(a.ExamsPerPatient); err != nil {
		return fmt.Errorf("exams per patient: %w", err)
	}
	if cfg.ModalitiesPerExam, err = parseRange(a.ModalitiesPerExam); err != nil {
		return fmt.Errorf("modalities per exam: %w", err)
	}
	cfg.ModalityPool = append([]string(nil), a.ModalityPool...)

	size, err := strconv.Atoi(strings.TrimSpace(a.ImageSize))
	if err != nil {
		return fmt.Errorf("image size: must be a number")
	}
	cfg.Imaging.Rows = size
	cfg.Imaging.Cols = size
	cfg.Imaging.Photometric = a.Photometric
	if a.Photometric == modalities.RGB {
		cfg.Imaging.BitsAllocated = 8
		cfg.Imaging.BitsStored = 8
	}
	cfg.Imaging.CharacterSet = ""
	if a.UTF8Names {
		cfg.Imaging.CharacterSet = "ISO_IR 192"
	}
	cfg.Imaging.LabelOverlay = a.LabelOverlay

	cfg.Naming = a.Naming
	cfg.Manifest = a.Manifest
	return nil
}

// NewForm builds the init form bound to a.
func NewForm(a *Answers) *huh.Form {
	modalityOptions := make([]huh.Option[string], 0, len(modalities.AllModalities()))
	for _, m := range modalities.AllModalities() {
		modalityOptions = append(modalityOptions, huh.NewOption(string(m), string(m)))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("output_root").
				Title("Output Directory").
				Value(&a.OutputRoot).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("output directory is required")
					}
					return nil
				}),

			huh.NewInput().
				Key("seed").
				Title("Seed").
				Description("0 picks a new seed on every run").
				Value(&a.Seed).
				Validate(validateInt),
		),
		huh.NewGroup(
			huh.NewInput().
				Key("organizations").
				Title("Organizations").
				Value(&a.Organizations).
				Validate(validateNonNegativeInt),

			huh.NewInput().
				Key("patients_per_organization").
				Title("Patients per Organization").
				Placeholder("e.g., 3 or 1-5").
				Value(&a.PatientsPerOrganization).
				Validate(validateRange),

			huh.NewInput().
				Key("exams_per_patient").
				Title("Exams per Patient").
				Placeholder("e.g., 2 or 1-3").
				Value(&a.ExamsPerPatient).
				Validate(validateRange),

			huh.NewInput().
				Key("modalities_per_exam").
				Title("Modalities per Exam").
				Placeholder("e.g., 1-2").
				Value(&a.ModalitiesPerExam).
				Validate(validateRange),

			huh.NewMultiSelect[string]().
				Key("modality_pool").
				Title("Modality Pool").
				Options(modalityOptions...).
				Value(&a.ModalityPool).
				Validate(func(v []string) error {
					if len(v) == 0 {
						return fmt.Errorf("select at least one modality")
					}
					return nil
				}),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("image_size").
				Title("Image Size").
				Options(
					huh.NewOption("64 x 64", "64"),
					huh.NewOption("128 x 128", "128"),
					huh.NewOption("256 x 256", "256"),
					huh.NewOption("512 x 512", "512"),
				).
				Value(&a.ImageSize),

			huh.NewSelect[string]().
				Key("photometric").
				Title("Pixel Format").
				Options(
					huh.NewOption("Grayscale (MONOCHROME2)", modalities.Monochrome2),
					huh.NewOption("Inverted grayscale (MONOCHROME1)", modalities.Monochrome1),
					huh.NewOption("Color (RGB)", modalities.RGB),
				).
				Value(&a.Photometric),

			huh.NewSelect[string]().
				Key("naming").
				Title("File Names").
				Options(
					huh.NewOption("<SOPInstanceUID>_Instance_00001.dcm", "uid"),
					huh.NewOption("IM00001.dcm", "simple"),
				).
				Value(&a.Naming),

			huh.NewConfirm().
				Key("utf8_names").
				Title("Keep accented names (UTF-8)?").
				Value(&a.UTF8Names),

			huh.NewConfirm().
				Key("label_overlay").
				Title("Draw a label on each image?").
				Value(&a.LabelOverlay),

			huh.NewConfirm().
				Key("manifest").
				Title("Write manifest.jsonl?").
				Value(&a.Manifest),
		),
	).WithShowHelp(true).WithShowErrors(true)
}

// Run shows the form pre-filled from base and returns the edited,
// validated configuration.
func Run(base config.Config) (config.Config, error) {
	answers := AnswersFrom(base)
	if err := NewForm(&answers).Run(); err != nil {
		return base, err
	}

	cfg := base
	if err := answers.Apply(&cfg); err != nil {
		return base, err
	}
	if err := cfg.Validate(); err != nil {
		return base, err
	}
	return cfg, nil
}

func formatRange(r config.Range) string {
	if r.Min == r.Max {
		return strconv.Itoa(r.Min)
	}
	return fmt.Sprintf("%d-%d", r.Min, r.Max)
}

func parseRange(s string) (config.Range, error) {
	r, err := util.ParseIntRange(s)
	if err != nil {
		return config.Range{}, err
	}
	return config.Range{Min: r.Min, Max: r.Max}, nil
}

func validateInt(s string) error {
	if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
		return fmt.Errorf("must be a number")
	}
	return nil
}

func validateNonNegativeInt(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return fmt.Errorf("must be a number")
	}
	if n < 0 {
		return fmt.Errorf("must be 0 or more")
	}
	return nil
}

func validateRange(s string) error {
	r, err := util.ParseIntRange(s)
	if err != nil {
		return err
	}
	if r.Min < 0 {
		return fmt.Errorf("must not be negative")
	}
	return nil
}
