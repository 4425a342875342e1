package dicom

import (
	"fmt"
	"strings"
	"time"

	"github.com/mrsinham/examforge/internal/util"
)

// FileNamer maps an instance to its file name. Every implementation must
// embed instanceNumber so the name matches the file's InstanceNumber.
type FileNamer func(sopInstanceUID string, instanceNumber int) string

// UIDFileNamer names files <SOPInstanceUID>_Instance_<nnnnn>.dcm.
func UIDFileNamer(sopInstanceUID string, instanceNumber int) string {
	return fmt.Sprintf("%s_Instance_%05d.dcm", sopInstanceUID, instanceNumber)
}

// SimpleFileNamer names files IM<nnnnn>.dcm.
func SimpleFileNamer(_ string, instanceNumber int) string {
	return fmt.Sprintf("IM%05d.dcm", instanceNumber)
}

// FileNamerFor returns the namer for a naming policy ("uid" or "simple").
func FileNamerFor(policy string) (FileNamer, error) {
	switch strings.ToLower(strings.TrimSpace(policy)) {
	case "", "uid":
		return UIDFileNamer, nil
	case "simple":
		return SimpleFileNamer, nil
	default:
		return nil, fmt.Errorf("unknown naming policy %q (valid: uid, simple)", policy)
	}
}

// SeriesSuffixPolicy controls the _Sxx_<uid tail> series folder suffix.
type SeriesSuffixPolicy string

const (
	// SuffixAuto suffixes only series whose folder name repeats in a study.
	SuffixAuto SeriesSuffixPolicy = "auto"
	// SuffixAlways suffixes every series folder.
	SuffixAlways SeriesSuffixPolicy = "always"
)

// ParseSeriesSuffixPolicy parses a policy name; empty means auto.
func ParseSeriesSuffixPolicy(s string) (SeriesSuffixPolicy, error) {
	switch p := SeriesSuffixPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case "":
		return SuffixAuto, nil
	case SuffixAuto, SuffixAlways:
		return p, nil
	default:
		return "", fmt.Errorf("unknown series folder suffix policy %q (valid: auto, always)", s)
	}
}

const uidTailLength = 6

// ExamFolderName returns YYYYMMDD_HHmmss for the exam time, optionally
// followed by the study description, sanitized.
func ExamFolderName(examTime time.Time, description string, withDescription bool) string {
	name := examTime.UTC().Format("20060102_150405")
	if withDescription && strings.TrimSpace(description) != "" {
		name += " " + description
	}
	return util.SanitizePath(name)
}

// seriesFolderBase is the unsuffixed series folder name.
func seriesFolderBase(modality, description string) string {
	return util.SanitizePath(modality + " " + description)
}

// SeriesFolderName returns the folder of series index (1-based). With
// suffix set the name ends in _S<index>_<last 6 characters of the UID>,
// and the base is shortened so the whole name stays within bounds.
func SeriesFolderName(modality, description string, index int, seriesUID string, suffix bool) string {
	if !suffix {
		return seriesFolderBase(modality, description)
	}
	tail := seriesUID
	if len(tail) > uidTailLength {
		tail = tail[len(tail)-uidTailLength:]
	}
	sfx := fmt.Sprintf("_S%02d_%s", index, util.SanitizePath(tail))
	z := util.Sanitizer{MaxLength: util.DefaultMaxSegmentLength - len(sfx)}
	return z.Sanitize(modality+" "+description) + sfx
}

// duplicateSeriesNames reports, per series, whether its unsuffixed folder
// name is shared with another series of the same study.
func duplicateSeriesNames(modality string, descriptions []string) []bool {
	counts := make(map[string]int, len(descriptions))
	bases := make([]string, len(descriptions))
	for i, d := range descriptions {
		bases[i] = seriesFolderBase(modality, d)
		counts[bases[i]]++
	}
	dup := make([]bool, len(descriptions))
	for i, b := range bases {
		dup[i] = counts[b] > 1
	}
	return dup
}
