package dicom

import (
	"fmt"
	"os"

	"github.com/suyashkumar/dicom"
	"github.com/suyashkumar/dicom/pkg/tag"
)

// InstanceWriter encodes one instance to path and returns the bytes written.
type InstanceWriter interface {
	WriteInstance(path string, inst *Instance) (int64, error)
}

// FileWriter writes DICOM Part 10 files with github.com/suyashkumar/dicom.
type FileWriter struct {
	opts []dicom.WriteOption
}

// NewFileWriter returns a writer passing opts to every dicom.Write call.
func NewFileWriter(opts ...dicom.WriteOption) *FileWriter {
	return &FileWriter{opts: opts}
}

// WriteInstance implements InstanceWriter.
func (w *FileWriter) WriteInstance(path string, inst *Instance) (int64, error) {
	ds := dicom.Dataset{Elements: inst.Elements()}
	if err := writeDatasetToFile(path, ds, w.opts...); err != nil {
		return 0, fmt.Errorf("write %s: %w", path, err)
	}
	info, err := os.Stat(path)
	if err != nil {
		return 0, fmt.Errorf("stat %s: %w", path, err)
	}
	return info.Size(), nil
}

// writeDatasetToFile writes a DICOM dataset to a file
func writeDatasetToFile(filename string, ds dicom.Dataset, opts ...dicom.WriteOption) error {
	f, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := dicom.Write(f, ds, opts...); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}

// mustNewElement creates a new DICOM element, panicking on error. Values are
// built internally with the type each VR expects, so an error is a bug.
func mustNewElement(t tag.Tag, value interface{}) *dicom.Element {
	elem, err := dicom.NewElement(t, value)
	if err != nil {
		panic(fmt.Sprintf("failed to create element %v: %v", t, err))
	}
	return elem
}
