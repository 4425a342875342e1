package modalities

import (
	"fmt"
	"strings"

	"github.com/mrsinham/examforge/internal/util"
)

const (
	Monochrome1 = "MONOCHROME1"
	Monochrome2 = "MONOCHROME2"
	RGB         = "RGB"
)

// Imaging holds the image geometry and pixel format. In a profile a zero
// field means "use the global default".
type Imaging struct {
	Rows          int
	Cols          int
	BitsAllocated int
	BitsStored    int
	Photometric   string
}

// DefaultImaging is the global default when the configuration sets nothing.
var DefaultImaging = Imaging{
	Rows:          256,
	Cols:          256,
	BitsAllocated: 8,
	BitsStored:    8,
	Photometric:   Monochrome2,
}

// ResolveImaging returns override's non-zero fields layered over global.
// BitsStored is clamped to BitsAllocated when only the allocation was
// overridden.
func ResolveImaging(global, override Imaging) Imaging {
	out := global.overlay(override)
	if override.BitsAllocated > 0 && override.BitsStored == 0 && out.BitsStored > out.BitsAllocated {
		out.BitsStored = out.BitsAllocated
	}
	return out
}

func (i Imaging) overlay(o Imaging) Imaging {
	if o.Rows > 0 {
		i.Rows = o.Rows
	}
	if o.Cols > 0 {
		i.Cols = o.Cols
	}
	if o.BitsAllocated > 0 {
		i.BitsAllocated = o.BitsAllocated
	}
	if o.BitsStored > 0 {
		i.BitsStored = o.BitsStored
	}
	if o.Photometric != "" {
		i.Photometric = strings.ToUpper(o.Photometric)
	}
	return i
}

// SamplesPerPixel is 3 for RGB and 1 otherwise.
func (i Imaging) SamplesPerPixel() int {
	if i.Photometric == RGB {
		return 3
	}
	return 1
}

// HighBit is the most significant stored bit.
func (i Imaging) HighBit() int {
	return i.BitsStored - 1
}

// Validate checks a fully resolved Imaging.
func (i Imaging) Validate() error {
	switch {
	case i.Rows <= 0 || i.Rows > 65535:
		return fmt.Errorf("rows must be in [1, 65535], got %d", i.Rows)
	case i.Cols <= 0 || i.Cols > 65535:
		return fmt.Errorf("cols must be in [1, 65535], got %d", i.Cols)
	case i.BitsAllocated != 8 && i.BitsAllocated != 16:
		return fmt.Errorf("bits allocated must be 8 or 16, got %d", i.BitsAllocated)
	case i.BitsStored < 1 || i.BitsStored > i.BitsAllocated:
		return fmt.Errorf("bits stored must be in [1, %d], got %d", i.BitsAllocated, i.BitsStored)
	}
	switch i.Photometric {
	case Monochrome1, Monochrome2:
	case RGB:
		if i.BitsAllocated != 8 {
			return fmt.Errorf("RGB requires 8 bits allocated, got %d", i.BitsAllocated)
		}
	default:
		return fmt.Errorf("unsupported photometric interpretation %q", i.Photometric)
	}
	return nil
}

// Profile describes how studies of one modality are shaped.
type Profile struct {
	SeriesPerStudy     util.IntRange
	StudyDescriptions  []string
	SeriesDescriptions []string
	StandardFileCounts []int
	BodyParts          []string
	Imaging            Imaging
}

// DefaultProfile applies to modalities with neither a configured nor a
// built-in profile.
func DefaultProfile() Profile {
	return Profile{SeriesPerStudy: util.Fixed(1)}
}

var builtinProfiles = map[Modality]Profile{
	CT: {
		SeriesPerStudy:     util.IntRange{Min: 1, Max: 4},
		StudyDescriptions:  []string{"CT Chest", "CT Abdomen Pelvis", "CT Head", "CT Chest Abdomen Pelvis"},
		SeriesDescriptions: []string{"Axial 5mm", "Axial 1mm", "Coronal MPR", "Sagittal MPR", "Scout"},
		StandardFileCounts: []int{10, 20, 40},
		BodyParts:          []string{"CHEST", "ABDOMEN", "HEAD", "PELVIS"},
	},
	MR: {
		SeriesPerStudy:     util.IntRange{Min: 2, Max: 5},
		StudyDescriptions:  []string{"MR Brain", "MR Knee", "MR Lumbar Spine", "MR Abdomen"},
		SeriesDescriptions: []string{"T1 SE", "T2 FSE", "T2 FLAIR", "DWI", "T1 MPRAGE"},
		StandardFileCounts: []int{12, 24, 36},
		BodyParts:          []string{"BRAIN", "KNEE", "LSPINE", "ABDOMEN"},
	},
	PT: {
		SeriesPerStudy:     util.IntRange{Min: 1, Max: 2},
		StudyDescriptions:  []string{"PET FDG Whole Body", "PET FDG Skull Base to Thigh"},
		SeriesDescriptions: []string{"PET AC", "PET NAC", "MIP"},
		StandardFileCounts: []int{20, 40},
		BodyParts:          []string{"WHOLEBODY"},
	},
	NM: {
		SeriesPerStudy:     util.IntRange{Min: 1, Max: 2},
		StudyDescriptions:  []string{"NM Bone Scan", "NM Myocardial Perfusion"},
		SeriesDescriptions: []string{"Anterior", "Posterior", "SPECT"},
		StandardFileCounts: []int{4, 8},
		BodyParts:          []string{"WHOLEBODY", "HEART"},
	},
}

// BuiltinProfile returns the shipped profile for m, if any.
func BuiltinProfile(m Modality) (Profile, bool) {
	p, ok := builtinProfiles[m]
	return p, ok
}

// ResolveProfile layers the configured profile for m over the built-in one
// (or DefaultProfile when m has none). Set fields of the configured profile
// win; lists replace rather than append.
func ResolveProfile(configured map[Modality]Profile, m Modality) Profile {
	base, ok := BuiltinProfile(m)
	if !ok {
		base = DefaultProfile()
	}
	over, ok := configured[m]
	if !ok {
		return base
	}

	if over.SeriesPerStudy.Max > 0 {
		base.SeriesPerStudy = over.SeriesPerStudy
	}
	if len(over.StudyDescriptions) > 0 {
		base.StudyDescriptions = over.StudyDescriptions
	}
	if len(over.SeriesDescriptions) > 0 {
		base.SeriesDescriptions = over.SeriesDescriptions
	}
	if len(over.StandardFileCounts) > 0 {
		base.StandardFileCounts = over.StandardFileCounts
	}
	if len(over.BodyParts) > 0 {
		base.BodyParts = over.BodyParts
	}
	base.Imaging = base.Imaging.overlay(over.Imaging)
	return base
}
