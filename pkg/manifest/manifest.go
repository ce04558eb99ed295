package manifest

import (
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/cockroachdb/errors"
	"gopkg.in/yaml.v3"
)

// Entry represents one generated file in the manifest. Paths are slash
// separated and relative to the manifest's directory.
type Entry struct {
	File   string   `yaml:"file" json:"file"`
	Source string   `yaml:"source" json:"source"`
	Types  []string `yaml:"types,omitempty" json:"types,omitempty"`
	SHA256 string   `yaml:"sha256" json:"sha256"`
}

// Manifest tracks the files written by generation runs.
type Manifest struct {
	RuntimeImport string  `yaml:"runtime_import,omitempty" json:"runtime_import,omitempty"`
	KeyPrefix     string  `yaml:"key_prefix,omitempty" json:"key_prefix,omitempty"`
	Files         []Entry `yaml:"files" json:"files"`
}

// Load reads a manifest from the provided path. If the file does not exist,
// an empty manifest is returned.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return &Manifest{}, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read manifest")
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrapf(err, "unmarshal manifest %s", path)
	}

	return &m, nil
}

// Save writes the manifest to the provided path, creating parent directories as needed.
func (m *Manifest) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "create manifest directory")
	}

	data, err := yaml.Marshal(m)
	if err != nil {
		return errors.Wrap(err, "marshal manifest")
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrap(err, "write manifest")
	}

	return nil
}

// AddFile records a file, replacing any entry for the same path. Entries stay
// sorted by path so the manifest diffs cleanly.
func (m *Manifest) AddFile(e Entry) {
	for i := range m.Files {
		if m.Files[i].File == e.File {
			m.Files[i] = e
			return
		}
	}

	m.Files = append(m.Files, e)
	sort.Slice(m.Files, func(i, j int) bool {
		return m.Files[i].File < m.Files[j].File
	})
}

// RemoveFile drops the entry for file and reports whether there was one.
func (m *Manifest) RemoveFile(file string) bool {
	for i := range m.Files {
		if m.Files[i].File == file {
			m.Files = append(m.Files[:i], m.Files[i+1:]...)
			return true
		}
	}
	return false
}

// Find returns the entry for file, if present.
func (m *Manifest) Find(file string) *Entry {
	for i := range m.Files {
		if m.Files[i].File == file {
			return &m.Files[i]
		}
	}
	return nil
}

// Hash returns the hex encoded SHA-256 of content.
func Hash(content []byte) string {
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:])
}

// Rel returns path relative to the directory holding the manifest at
// manifestPath, slash separated. Paths outside that directory stay absolute.
func Rel(manifestPath, path string) string {
	rel, err := filepath.Rel(filepath.Dir(manifestPath), path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return filepath.ToSlash(path)
	}
	return filepath.ToSlash(rel)
}
