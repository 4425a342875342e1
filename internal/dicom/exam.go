package dicom

import (
	"fmt"
	"strconv"
	"time"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

// ExamRequest identifies one clinical exam: one study per modality, all
// sharing one accession number.
type ExamRequest struct {
	Organization string
	Institution  string
	Patient      Patient
	Modalities   []modalities.Modality
	ExamTime     time.Time
	// Accession is drawn from the stream when blank.
	Accession string
}

// ExamResult aggregates the studies of one exam.
type ExamResult struct {
	Accession          string
	ExamTime           time.Time
	Priority           util.Priority
	ReferringPhysician string
	Studies            []*StudyResult
	SeriesCount        int
	Bytes              int64
	Files              []GeneratedFile
}

// FileCount returns the number of instances written for the exam.
func (r *ExamResult) FileCount() int {
	return len(r.Files)
}

// ExamGenerator threads one accession through the studies of an exam.
type ExamGenerator struct {
	studies *StudyGenerator
}

// NewExamGenerator returns an exam generator writing through studies.
func NewExamGenerator(studies *StudyGenerator) *ExamGenerator {
	return &ExamGenerator{studies: studies}
}

// Generate writes every study of the exam in modality order. All required
// arguments, including every modality, are checked before anything is
// written.
func (g *ExamGenerator) Generate(req ExamRequest) (*ExamResult, error) {
	args := []argument{
		{"output root", g.studies.settings.OutputRoot},
		{"organization", req.Organization},
		{"patient id", req.Patient.ID},
	}
	if len(req.Modalities) == 0 {
		args = append(args, argument{"modality", ""})
	}
	for _, m := range req.Modalities {
		args = append(args, argument{"modality", string(m)})
	}
	if err := requireArguments(args...); err != nil {
		return nil, err
	}

	s := g.studies.stream
	examTime := req.ExamTime
	if examTime.IsZero() {
		examTime = DefaultReferenceDate
	}
	accession := req.Accession
	if accession == "" {
		accession = util.NewAccessionNumber(s, examTime)
	}

	result := &ExamResult{
		Accession:          accession,
		ExamTime:           examTime.UTC(),
		Priority:           util.GeneratePriority(s),
		ReferringPhysician: util.GeneratePhysicianName(s, g.studies.settings.ASCIINames()),
	}

	for i, m := range req.Modalities {
		study, err := g.studies.GenerateInExam(StudyRequest{
			Organization:       req.Organization,
			Institution:        req.Institution,
			Patient:            req.Patient,
			Modality:           m,
			Accession:          accession,
			StudyID:            strconv.Itoa(i + 1),
			StudyTime:          examTime,
			Priority:           result.Priority,
			ReferringPhysician: result.ReferringPhysician,
		})
		if err != nil {
			return nil, fmt.Errorf("exam %s study %s: %w", accession, m, err)
		}
		result.Studies = append(result.Studies, study)
		result.SeriesCount += study.SeriesCount
		result.Bytes += study.Bytes
		result.Files = append(result.Files, study.Files...)
	}
	return result, nil
}
