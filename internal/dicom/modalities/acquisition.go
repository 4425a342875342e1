package modalities

import (
	"strconv"

	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/examforge/internal/util"
)

// Attribute is one string-valued element added to every instance of a series.
type Attribute struct {
	Tag   tag.Tag
	Value []string
}

// AcquisitionAttributes draws the device-specific acquisition parameters of
// one series. Modalities without specific parameters return nil and draw
// nothing.
func AcquisitionAttributes(s *util.Stream, m Modality, scanner Scanner) []Attribute {
	switch m {
	case CT:
		return ctAttributes(s)
	case MR:
		return mrAttributes(s, scanner)
	case PT:
		return []Attribute{
			{Tag: tag.Units, Value: []string{"BQML"}},
			{Tag: tag.DecayCorrection, Value: []string{"START"}},
		}
	default:
		return nil
	}
}

func ctAttributes(s *util.Stream) []Attribute {
	kvp := util.Pick(s, []float64{80, 100, 120, 140}, 120)
	kernel := util.Pick(s, []string{"SOFT", "STANDARD", "BONE", "LUNG"}, "STANDARD")
	current := 100 + s.IntN(301) // mA

	return []Attribute{
		{Tag: tag.KVP, Value: []string{floatToDS(kvp)}},
		{Tag: tag.XRayTubeCurrent, Value: []string{strconv.Itoa(current)}},
		{Tag: tag.ConvolutionKernel, Value: []string{kernel}},
	}
}

func mrAttributes(s *util.Stream, scanner Scanner) []Attribute {
	field := scanner.FieldStrength
	if field == 0 {
		field = 1.5
	}
	sequence := util.Pick(s, []string{"T1_MPRAGE", "T1_SE", "T2_FSE", "T2_FLAIR"}, "T1_SE")
	echo := 10 + s.Float64()*20         // ms
	repetition := 400 + s.Float64()*400 // ms
	flip := 60 + s.Float64()*30         // degrees

	return []Attribute{
		{Tag: tag.MagneticFieldStrength, Value: []string{floatToDS(field)}},
		{Tag: tag.ImagingFrequency, Value: []string{floatToDS(field * 42.58)}},
		{Tag: tag.SequenceName, Value: []string{sequence}},
		{Tag: tag.EchoTime, Value: []string{floatToDS(echo)}},
		{Tag: tag.RepetitionTime, Value: []string{floatToDS(repetition)}},
		{Tag: tag.FlipAngle, Value: []string{floatToDS(flip)}},
	}
}

// floatToDS renders f as a DICOM Decimal String (at most 16 characters).
func floatToDS(f float64) string {
	return strconv.FormatFloat(f, 'g', 6, 64)
}
