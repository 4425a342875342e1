package dicom

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"

	"github.com/mrsinham/examforge/internal/dicom/modalities"
	"github.com/mrsinham/examforge/internal/util"
)

const (
	// ExplicitVRLittleEndian is the transfer syntax of every written file.
	ExplicitVRLittleEndian = "1.2.840.10008.1.2.1"
	// UTF8CharacterSet is written when person names keep non-ASCII text.
	UTF8CharacterSet = "ISO_IR 192"

	dateLayout = "20060102"
	timeLayout = "150405"
)

// Patient is a synthetic subject. BaseDate anchors the dates of all of the
// patient's exams.
type Patient struct {
	ID        string
	Name      string
	Sex       string
	BirthDate time.Time
	BaseDate  time.Time
}

// InstanceInput carries everything BuildInstance needs for one instance.
type InstanceInput struct {
	Patient            Patient
	Institution        string
	ReferringPhysician string
	Priority           util.Priority

	StudyUID         string
	StudyID          string
	StudyDescription string
	StudyTime        time.Time
	Accession        string

	SeriesUID         string
	SeriesNumber      int
	SeriesDescription string
	BodyPart          string
	Scanner           modalities.Scanner
	Acquisition       []modalities.Attribute

	Modality          modalities.Modality
	SOPInstanceUID    string
	InstanceNumber    int
	InstancesInSeries int

	Imaging      modalities.Imaging
	CharacterSet string
	LabelOverlay bool
	Overrides    []util.Override
}

// Instance is the resolved attribute set of one image, ready to encode.
type Instance struct {
	InstanceInput

	SOPClassUID     string
	StudyDate       string
	StudyTimeOfDay  string
	SamplesPerPixel int
	HighBit         int
	PixelSpacing    []string
	Orientation     []string
	Position        []string
	Pixels          PixelBuffer
}

// BuildInstance derives the full attribute set and the pixel frame of one
// instance. It draws nothing from the random stream.
func BuildInstance(in InstanceInput) *Instance {
	studyTime := in.StudyTime.UTC()
	inst := &Instance{
		InstanceInput:   in,
		SOPClassUID:     modalities.SOPClassUID(in.Modality),
		StudyDate:       studyTime.Format(dateLayout),
		StudyTimeOfDay:  studyTime.Format(timeLayout),
		SamplesPerPixel: in.Imaging.SamplesPerPixel(),
		HighBit:         in.Imaging.HighBit(),
		PixelSpacing:    []string{"1", "1"},
		Orientation:     []string{"1", "0", "0", "0", "1", "0"},
		Position:        []string{"0", "0", strconv.Itoa(in.InstanceNumber - 1)},
		Pixels:          GradientPixels(in.Imaging, in.InstanceNumber),
	}
	if in.LabelOverlay {
		inst.Pixels.DrawLabel(fmt.Sprintf("%s %d/%d", in.Modality, in.InstanceNumber, in.InstancesInSeries))
	}
	return inst
}

// Elements returns the dataset of the instance, file meta group first and
// the rest in ascending tag order. Overrides replace generated values.
func (i *Instance) Elements() []*dicom.Element {
	meta := []*dicom.Element{
		mustNewElement(tag.MediaStorageSOPClassUID, []string{i.SOPClassUID}),
		mustNewElement(tag.MediaStorageSOPInstanceUID, []string{i.SOPInstanceUID}),
		mustNewElement(tag.TransferSyntaxUID, []string{ExplicitVRLittleEndian}),
	}

	body := map[tag.Tag]*dicom.Element{}
	put := func(t tag.Tag, v any) {
		body[t] = mustNewElement(t, v)
	}

	if i.CharacterSet != "" {
		put(tag.SpecificCharacterSet, []string{i.CharacterSet})
	}
	put(tag.SOPClassUID, []string{i.SOPClassUID})
	put(tag.SOPInstanceUID, []string{i.SOPInstanceUID})
	put(tag.StudyDate, []string{i.StudyDate})
	put(tag.SeriesDate, []string{i.StudyDate})
	put(tag.StudyTime, []string{i.StudyTimeOfDay})
	put(tag.SeriesTime, []string{i.StudyTimeOfDay})
	put(tag.AccessionNumber, []string{i.Accession})
	put(tag.Modality, []string{string(i.Modality)})
	put(tag.Manufacturer, []string{i.Scanner.Manufacturer})
	put(tag.InstitutionName, []string{i.Institution})
	put(tag.ReferringPhysicianName, []string{i.ReferringPhysician})
	put(tag.StudyDescription, []string{i.StudyDescription})
	put(tag.SeriesDescription, []string{i.SeriesDescription})
	put(tag.ManufacturerModelName, []string{i.Scanner.Model})

	put(tag.PatientName, []string{i.Patient.Name})
	put(tag.PatientID, []string{i.Patient.ID})
	put(tag.PatientBirthDate, []string{formatDate(i.Patient.BirthDate)})
	put(tag.PatientSex, []string{i.Patient.Sex})
	if i.BodyPart != "" {
		put(tag.BodyPartExamined, []string{i.BodyPart})
	}

	put(tag.StudyInstanceUID, []string{i.StudyUID})
	put(tag.SeriesInstanceUID, []string{i.SeriesUID})
	put(tag.StudyID, []string{i.StudyID})
	put(tag.SeriesNumber, []string{strconv.Itoa(i.SeriesNumber)})
	put(tag.InstanceNumber, []string{strconv.Itoa(i.InstanceNumber)})
	put(tag.ImagePositionPatient, i.Position)
	put(tag.ImageOrientationPatient, i.Orientation)

	put(tag.SamplesPerPixel, []int{i.SamplesPerPixel})
	put(tag.PhotometricInterpretation, []string{i.Imaging.Photometric})
	if i.SamplesPerPixel > 1 {
		put(tag.PlanarConfiguration, []int{0})
	}
	put(tag.Rows, []int{i.Imaging.Rows})
	put(tag.Columns, []int{i.Imaging.Cols})
	put(tag.PixelSpacing, i.PixelSpacing)
	put(tag.BitsAllocated, []int{i.Imaging.BitsAllocated})
	put(tag.BitsStored, []int{i.Imaging.BitsStored})
	put(tag.HighBit, []int{i.HighBit})
	put(tag.PixelRepresentation, []int{0})

	put(tag.RequestedProcedurePriority, []string{i.Priority.String()})

	for _, a := range i.Acquisition {
		put(a.Tag, a.Value)
	}
	for _, o := range i.Overrides {
		put(o.Tag, []string{o.Value})
	}

	put(tag.PixelData, i.Pixels.PixelDataInfo())

	rest := make([]*dicom.Element, 0, len(body))
	for _, e := range body {
		rest = append(rest, e)
	}
	sort.Slice(rest, func(a, b int) bool {
		ta, tb := rest[a].Tag, rest[b].Tag
		if ta.Group != tb.Group {
			return ta.Group < tb.Group
		}
		return ta.Element < tb.Element
	})
	return append(meta, rest...)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(dateLayout)
}
