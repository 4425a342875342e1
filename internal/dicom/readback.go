package dicom

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// ReadAccession parses path, skipping pixel data, and returns its
// AccessionNumber.
func ReadAccession(path string) (string, error) {
	ds, err := parseTolerant(path)
	if err != nil {
		return "", fmt.Errorf("read back %s: %w", path, err)
	}
	acc, ok := stringValue(ds, tag.AccessionNumber)
	if !ok {
		return "", fmt.Errorf("read back %s: no accession number", path)
	}
	return acc, nil
}

// verifyAccession is a best-effort check of a just-written file. It only
// logs; the generated output is never affected.
func verifyAccession(log zerolog.Logger, path, want string) {
	got, err := ReadAccession(path)
	switch {
	case err != nil:
		log.Warn().Err(err).Str("path", path).Msg("accession read-back failed")
	case got != want:
		log.Warn().Str("path", path).Str("want", want).Str("got", got).Msg("accession mismatch")
	default:
		log.Debug().Str("path", path).Str("accession", got).Msg("accession verified")
	}
}

// stringValue returns the first string value of t.
func stringValue(ds dicom.Dataset, t tag.Tag) (string, bool) {
	elem, err := ds.FindElementByTag(t)
	if err != nil || elem == nil {
		return "", false
	}
	values, ok := elem.Value.GetValue().([]string)
	if !ok || len(values) == 0 {
		return "", true
	}
	return strings.TrimRight(values[0], " \x00"), true
}

// parseTolerant parses a DICOM file element by element and keeps whatever
// parsed before the first error.
func parseTolerant(path string) (dicom.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return dicom.Dataset{}, err
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return dicom.Dataset{}, err
	}

	p, err := dicom.NewParser(f, info.Size(), nil, dicom.SkipPixelData())
	if err != nil {
		return dicom.Dataset{}, err
	}

	var elements []*dicom.Element
	for {
		elem, err := p.Next()
		if err != nil {
			break
		}
		elements = append(elements, elem)
	}
	if len(elements) == 0 {
		return dicom.Dataset{}, fmt.Errorf("no elements parsed")
	}

	meta := p.GetMetadata()
	return dicom.Dataset{Elements: append(meta.Elements, elements...)}, nil
}
