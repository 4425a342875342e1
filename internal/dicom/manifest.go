package dicom

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-json"
)

// ManifestName is the file name of the JSON-lines manifest.
const ManifestName = "manifest.jsonl"

// Manifest appends one JSON object per generated file. Paths are stored
// relative to the output root, with forward slashes.
type Manifest struct {
	f     *os.File
	w     *bufio.Writer
	enc   *json.Encoder
	root  string
	count int
}

// CreateManifest creates (or truncates) the manifest at path.
func CreateManifest(path, root string) (*Manifest, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create manifest directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create manifest: %w", err)
	}
	w := bufio.NewWriter(f)
	return &Manifest{f: f, w: w, enc: json.NewEncoder(w), root: root}, nil
}

// Add appends files to the manifest.
func (m *Manifest) Add(files ...GeneratedFile) error {
	for _, file := range files {
		if rel, err := filepath.Rel(m.root, file.Path); err == nil {
			file.Path = filepath.ToSlash(rel)
		}
		if err := m.enc.Encode(file); err != nil {
			return fmt.Errorf("encode manifest entry: %w", err)
		}
		m.count++
	}
	return nil
}

// Count returns the number of entries written.
func (m *Manifest) Count() int {
	return m.count
}

// Close flushes and closes the manifest.
func (m *Manifest) Close() error {
	if err := m.w.Flush(); err != nil {
		_ = m.f.Close()
		return fmt.Errorf("flush manifest: %w", err)
	}
	return m.f.Close()
}

// ReadManifest loads every entry of a manifest file.
func ReadManifest(path string) ([]GeneratedFile, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest: %w", err)
	}
	defer func() { _ = f.Close() }()

	var entries []GeneratedFile
	sc := bufio.NewScanner(f)
	sc.Buffer(make([]byte, 64*1024), 1024*1024)
	for line := 1; sc.Scan(); line++ {
		if len(sc.Bytes()) == 0 {
			continue
		}
		var e GeneratedFile
		if err := json.Unmarshal(sc.Bytes(), &e); err != nil {
			return nil, fmt.Errorf("manifest line %d: %w", line, err)
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	return entries, nil
}
