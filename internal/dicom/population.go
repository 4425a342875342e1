package dicom

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

// DefaultModalityPool is used when no pool is configured.
var DefaultModalityPool = []modalities.Modality{modalities.CT, modalities.MR, modalities.PT, modalities.NM}

// DefaultExamMix returns the 70/10/20 PET-CT, NM-CT, mixed mix over pool.
func DefaultExamMix(pool []modalities.Modality) (*ExamMix, error) {
	return NewExamMix(pool,
		ModalityPair{modalities.PT, modalities.CT},
		ModalityPair{modalities.NM, modalities.CT},
		70, 10, 20,
	)
}

// PopulationOptions configures a full generation run.
type PopulationOptions struct {
	Settings Settings
	// Seed makes the run reproducible; nil seeds from the clock.
	Seed *int64

	Organizations           int
	PatientsPerOrganization util.IntRange
	ExamsPerPatient         util.IntRange
	ModalitiesPerExam       util.IntRange
	// Mix defaults to DefaultExamMix over DefaultModalityPool.
	Mix *ExamMix

	DateRangeYears util.IntRange
	// ReferenceDate defaults to DefaultReferenceDate.
	ReferenceDate time.Time

	OrgIDs     util.OrgIDGenerator
	PatientIDs util.PatientIDGenerator

	// Manifest writes <root>/<container>/manifest.jsonl.
	Manifest bool
	Writer   InstanceWriter
	Logger   *zerolog.Logger
	// Progress, when set, is called after every exam.
	Progress func(Progress)
}

// Progress is reported after each exam.
type Progress struct {
	Organization  int
	Organizations int
	PatientID     string
	Accession     string
	Exams         int
	Files         int
	Bytes         int64
}

// Metrics summarizes a run.
type Metrics struct {
	Seed              int64          `json:"seed"`
	Organizations     int            `json:"organizations"`
	Patients          int            `json:"patients"`
	Exams             int            `json:"exams"`
	Studies           int            `json:"studies"`
	Series            int            `json:"series"`
	Files             int            `json:"files"`
	Bytes             int64          `json:"bytes"`
	ExamsByBucket     map[string]int `json:"exams_by_bucket"`
	StudiesByModality map[string]int `json:"studies_by_modality"`
	ManifestPath      string         `json:"manifest_path,omitempty"`
	Duration          time.Duration  `json:"duration"`
}

// GeneratePopulation runs organizations → patients → exams in strict order,
// drawing everything from one stream seeded by opts.Seed. The first error
// aborts the run; files already written stay on disk.
func GeneratePopulation(opts PopulationOptions) (*Metrics, error) {
	if err := requireArguments(argument{"output root", opts.Settings.OutputRoot}); err != nil {
		return nil, err
	}
	if opts.Organizations < 0 {
		return nil, fmt.Errorf("%w: organizations must be >= 0, got %d", util.ErrInvalidRange, opts.Organizations)
	}
	mix := opts.Mix
	if mix == nil {
		var err error
		if mix, err = DefaultExamMix(DefaultModalityPool); err != nil {
			return nil, err
		}
	}
	ref := opts.ReferenceDate
	if ref.IsZero() {
		ref = DefaultReferenceDate
	}
	log := zerolog.Nop()
	if opts.Logger != nil {
		log = *opts.Logger
	}

	start := time.Now()
	stream := util.NewStream(opts.Seed)
	studies := NewStudyGenerator(stream, opts.Settings, opts.Writer, &log)
	exams := NewExamGenerator(studies)
	settings := studies.Settings()

	m := &Metrics{
		Seed:              stream.Seed(),
		ExamsByBucket:     map[string]int{},
		StudiesByModality: map[string]int{},
	}
	log.Info().Int64("seed", m.Seed).Str("output", settings.OutputRoot).Msg("generation started")

	var manifest *Manifest
	if opts.Manifest {
		m.ManifestPath = filepath.Join(settings.OutputRoot, util.SanitizePath(settings.Container), ManifestName)
		var err error
		if manifest, err = CreateManifest(m.ManifestPath, settings.OutputRoot); err != nil {
			return nil, err
		}
	}

	runErr := func() error {
		for o := 0; o < opts.Organizations; o++ {
			orgCode := opts.OrgIDs.Generate(stream)
			institution := util.GenerateInstitutionName(stream)
			m.Organizations++

			patients := opts.PatientsPerOrganization.Sample(stream)
			for p := 0; p < patients; p++ {
				patient := newPatient(stream, orgCode, ref, opts, settings.ASCIINames())
				m.Patients++

				examCount := opts.ExamsPerPatient.Sample(stream)
				for e := 0; e < examCount; e++ {
					k := opts.ModalitiesPerExam.Sample(stream)
					mods, bucket := mix.Select(stream, k)

					res, err := exams.Generate(ExamRequest{
						Organization: orgCode,
						Institution:  institution,
						Patient:      patient,
						Modalities:   mods,
						ExamTime:     examTime(stream, patient.BaseDate),
					})
					if err != nil {
						return err
					}

					m.Exams++
					m.ExamsByBucket[bucket]++
					m.Studies += len(res.Studies)
					for _, st := range res.Studies {
						m.StudiesByModality[string(st.Modality)]++
					}
					m.Series += res.SeriesCount
					m.Files += res.FileCount()
					m.Bytes += res.Bytes

					if manifest != nil {
						if err := manifest.Add(res.Files...); err != nil {
							return err
						}
					}
					if opts.Progress != nil {
						opts.Progress(Progress{
							Organization:  o + 1,
							Organizations: opts.Organizations,
							PatientID:     patient.ID,
							Accession:     res.Accession,
							Exams:         m.Exams,
							Files:         m.Files,
							Bytes:         m.Bytes,
						})
					}
				}
			}
		}
		return nil
	}()

	if manifest != nil {
		if err := manifest.Close(); err != nil && runErr == nil {
			runErr = err
		}
	}
	m.Duration = time.Since(start)
	if runErr != nil {
		return m, runErr
	}

	log.Info().
		Int64("seed", m.Seed).
		Int("patients", m.Patients).
		Int("exams", m.Exams).
		Int("files", m.Files).
		Str("size", humanize.Bytes(uint64(m.Bytes))).
		Dur("elapsed", m.Duration).
		Msg("generation finished")
	return m, nil
}

// newPatient draws a patient of organization orgCode. The base date lies a
// sampled number of years (plus up to a year) before ref.
func newPatient(s *util.Stream, orgCode string, ref time.Time, opts PopulationOptions, ascii bool) Patient {
	sex := util.GeneratePatientSex(s)
	name := util.GeneratePatientName(s, sex, ascii)
	id := opts.PatientIDs.Generate(s, orgCode)

	years := opts.DateRangeYears.Sample(s)
	base := ref.AddDate(-years, 0, -s.IntN(365))
	age := 18 + s.IntN(73)
	birth := base.AddDate(-age, 0, -s.IntN(365))

	return Patient{ID: id, Name: name, Sex: sex, BirthDate: birth, BaseDate: base}
}

// examTime places an exam within a year after the patient's base date, at a
// random second of the day.
func examTime(s *util.Stream, base time.Time) time.Time {
	day := base.AddDate(0, 0, s.IntN(365))
	midnight := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.Add(time.Duration(s.IntN(86400)) * time.Second)
}
