package dicom

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

const (
	// DefaultContainer is the first folder under the output root.
	DefaultContainer = "DICOM"
	// DefaultFileCount is used when a profile lists no standard file counts.
	DefaultFileCount = 10
)

// DefaultReferenceDate anchors patient and exam dates when none is given.
var DefaultReferenceDate = time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC)

// Settings are the run-wide options shared by every study.
type Settings struct {
	OutputRoot string
	Container  string

	// Imaging is the global default; profiles override it field by field.
	Imaging  modalities.Imaging
	Profiles map[modalities.Modality]modalities.Profile

	FileCountPolicy  FileCountPolicy
	DefaultFileCount int

	Namer                 FileNamer
	ExamFolderDescription bool
	SeriesFolderSuffix    SeriesSuffixPolicy

	// CharacterSet is written as SpecificCharacterSet. Empty means the
	// default repertoire, in which case person names are folded to ASCII.
	CharacterSet    string
	LabelOverlay    bool
	VerifyAccession bool
	Overrides       []util.Override
}

func (s Settings) withDefaults() Settings {
	if s.Container == "" {
		s.Container = DefaultContainer
	}
	s.Imaging = modalities.ResolveImaging(modalities.DefaultImaging, s.Imaging)
	if s.FileCountPolicy == "" {
		s.FileCountPolicy = PolicyPartition
	}
	if s.DefaultFileCount <= 0 {
		s.DefaultFileCount = DefaultFileCount
	}
	if s.Namer == nil {
		s.Namer = UIDFileNamer
	}
	if s.SeriesFolderSuffix == "" {
		s.SeriesFolderSuffix = SuffixAuto
	}
	return s
}

// ASCIINames reports whether person names must be folded to ASCII.
func (s Settings) ASCIINames() bool {
	return s.CharacterSet == ""
}

// GeneratedFile describes one written instance.
type GeneratedFile struct {
	Path           string `json:"path"`
	PatientID      string `json:"patient_id"`
	Accession      string `json:"accession"`
	Modality       string `json:"modality"`
	StudyUID       string `json:"study_uid"`
	SeriesUID      string `json:"series_uid"`
	SOPInstanceUID string `json:"sop_instance_uid"`
	SOPClassUID    string `json:"sop_class_uid"`
	SeriesNumber   int    `json:"series_number"`
	InstanceNumber int    `json:"instance_number"`
	Size           int64  `json:"size"`
}

// StudyRequest identifies one study to generate.
type StudyRequest struct {
	Organization       string
	Institution        string
	Patient            Patient
	Modality           modalities.Modality
	Accession          string
	StudyID            string
	StudyTime          time.Time
	Priority           util.Priority
	ReferringPhysician string
}

// StudyResult summarizes one generated study.
type StudyResult struct {
	StudyUID    string
	Modality    modalities.Modality
	Description string
	ExamDir     string
	SeriesCount int
	Bytes       int64
	Files       []GeneratedFile
}

// FileCount returns the number of instances written.
func (r *StudyResult) FileCount() int {
	return len(r.Files)
}

// StudyGenerator writes the series and instances of single-modality studies.
// It holds the run's random stream and UID generator and is not safe for
// concurrent use.
type StudyGenerator struct {
	stream   *util.Stream
	uids     *util.UIDGenerator
	writer   InstanceWriter
	settings Settings
	log      zerolog.Logger
}

// NewStudyGenerator returns a generator drawing from s. A nil writer writes
// files with FileWriter; a nil logger discards output.
func NewStudyGenerator(s *util.Stream, settings Settings, writer InstanceWriter, log *zerolog.Logger) *StudyGenerator {
	if writer == nil {
		writer = NewFileWriter()
	}
	l := zerolog.Nop()
	if log != nil {
		l = *log
	}
	return &StudyGenerator{
		stream:   s,
		uids:     util.NewUIDGenerator(s),
		writer:   writer,
		settings: settings.withDefaults(),
		log:      l,
	}
}

// Stream returns the random stream the generator draws from.
func (g *StudyGenerator) Stream() *util.Stream {
	return g.stream
}

// Settings returns the resolved settings.
func (g *StudyGenerator) Settings() Settings {
	return g.settings
}

// Generate writes one standalone study. A blank accession is drawn from the
// stream; a zero StudyTime means DefaultReferenceDate.
func (g *StudyGenerator) Generate(req StudyRequest) (*StudyResult, error) {
	if err := g.validate(req); err != nil {
		return nil, err
	}
	if req.StudyTime.IsZero() {
		req.StudyTime = DefaultReferenceDate
	}
	if req.Accession == "" {
		req.Accession = util.NewAccessionNumber(g.stream, req.StudyTime)
	}
	return g.generate(req)
}

// GenerateInExam writes one study of an exam. The accession is required and
// used unmodified.
func (g *StudyGenerator) GenerateInExam(req StudyRequest) (*StudyResult, error) {
	if err := g.validate(req, argument{"accession number", req.Accession}); err != nil {
		return nil, err
	}
	if req.StudyTime.IsZero() {
		req.StudyTime = DefaultReferenceDate
	}
	return g.generate(req)
}

func (g *StudyGenerator) validate(req StudyRequest, extra ...argument) error {
	args := append([]argument{
		{"output root", g.settings.OutputRoot},
		{"organization", req.Organization},
		{"patient id", req.Patient.ID},
		{"modality", string(req.Modality)},
	}, extra...)
	return requireArguments(args...)
}

// seriesPlan is the drawn shape of one series, fixed before anything is
// written so folder names can be checked for collisions.
type seriesPlan struct {
	description string
	count       int
}

func (g *StudyGenerator) generate(req StudyRequest) (*StudyResult, error) {
	s := g.stream
	set := g.settings
	mod := req.Modality

	profile := modalities.ResolveProfile(set.Profiles, mod)
	description := util.Pick(s, profile.StudyDescriptions, string(mod)+" Study")
	if v, ok := util.FindOverride(set.Overrides, "StudyDescription"); ok {
		description = v
	}

	imaging := modalities.ResolveImaging(set.Imaging, profile.Imaging)
	if err := imaging.Validate(); err != nil {
		return nil, fmt.Errorf("%s imaging: %w", mod, err)
	}

	seriesCount := max(1, profile.SeriesPerStudy.Sample(s))
	total := util.Pick(s, profile.StandardFileCounts, set.DefaultFileCount)
	counts, err := set.FileCountPolicy.Split(s, total, seriesCount)
	if err != nil {
		return nil, fmt.Errorf("split %d files over %d series: %w", total, seriesCount, err)
	}

	plans := make([]seriesPlan, len(counts))
	descriptions := make([]string, len(counts))
	seriesOverride, hasSeriesOverride := util.FindOverride(set.Overrides, "SeriesDescription")
	for i, n := range counts {
		d := util.Pick(s, profile.SeriesDescriptions, "Series "+strconv.Itoa(i+1))
		if hasSeriesOverride {
			d = seriesOverride
		}
		plans[i] = seriesPlan{description: d, count: n}
		descriptions[i] = d
	}
	duplicate := duplicateSeriesNames(string(mod), descriptions)
	bodyPart := util.Pick(s, profile.BodyParts, "")
	scanner := modalities.PickScanner(s, mod)

	studyUID, err := g.uids.New()
	if err != nil {
		return nil, err
	}
	studyID := req.StudyID
	if studyID == "" {
		studyID = "1"
	}

	examDir := filepath.Join(
		set.OutputRoot,
		util.SanitizePath(set.Container),
		util.SanitizePath(req.Organization),
		util.SanitizePath(req.Patient.ID),
		ExamFolderName(req.StudyTime, description, set.ExamFolderDescription),
	)

	result := &StudyResult{
		StudyUID:    studyUID,
		Modality:    mod,
		Description: description,
		ExamDir:     examDir,
		SeriesCount: len(plans),
	}

	for i, plan := range plans {
		seriesNumber := i + 1
		seriesUID, err := g.uids.New()
		if err != nil {
			return nil, err
		}
		acquisition := modalities.AcquisitionAttributes(s, mod, scanner)

		suffix := set.SeriesFolderSuffix == SuffixAlways || duplicate[i]
		seriesDir := filepath.Join(examDir, SeriesFolderName(string(mod), plan.description, seriesNumber, seriesUID, suffix))
		if err := os.MkdirAll(seriesDir, 0o755); err != nil {
			return nil, fmt.Errorf("create series directory: %w", err)
		}

		for n := 1; n <= plan.count; n++ {
			sopUID, err := g.uids.New()
			if err != nil {
				return nil, err
			}
			inst := BuildInstance(InstanceInput{
				Patient:            req.Patient,
				Institution:        req.Institution,
				ReferringPhysician: req.ReferringPhysician,
				Priority:           req.Priority,
				StudyUID:           studyUID,
				StudyID:            studyID,
				StudyDescription:   description,
				StudyTime:          req.StudyTime,
				Accession:          req.Accession,
				SeriesUID:          seriesUID,
				SeriesNumber:       seriesNumber,
				SeriesDescription:  plan.description,
				BodyPart:           bodyPart,
				Scanner:            scanner,
				Acquisition:        acquisition,
				Modality:           mod,
				SOPInstanceUID:     sopUID,
				InstanceNumber:     n,
				InstancesInSeries:  plan.count,
				Imaging:            imaging,
				CharacterSet:       set.CharacterSet,
				LabelOverlay:       set.LabelOverlay,
				Overrides:          set.Overrides,
			})

			path := filepath.Join(seriesDir, set.Namer(sopUID, n))
			size, err := g.writer.WriteInstance(path, inst)
			if err != nil {
				return nil, err
			}
			if set.VerifyAccession && len(result.Files) == 0 {
				verifyAccession(g.log, path, req.Accession)
			}

			result.Bytes += size
			result.Files = append(result.Files, GeneratedFile{
				Path:           path,
				PatientID:      req.Patient.ID,
				Accession:      req.Accession,
				Modality:       string(mod),
				StudyUID:       studyUID,
				SeriesUID:      seriesUID,
				SOPInstanceUID: sopUID,
				SOPClassUID:    inst.SOPClassUID,
				SeriesNumber:   seriesNumber,
				InstanceNumber: n,
				Size:           size,
			})
		}
	}

	g.log.Info().
		Str("patient_id", req.Patient.ID).
		Str("accession", req.Accession).
		Str("modality", string(mod)).
		Str("study", description).
		Int("series", result.SeriesCount).
		Int("files", result.FileCount()).
		Msg("study generated")

	return result, nil
}
