// Package manifest handles nessie.toml project configuration.
package manifest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// FileName is the manifest file looked up in project directories.
const FileName = "nessie.toml"

// DefaultChunkName is the header used for anonymous chunks.
const DefaultChunkName = "<script>"

// Manifest represents a nessie.toml project configuration.
type Manifest struct {
	Project Project `toml:"project"`
	Disasm  Disasm  `toml:"disasm"`
	Log     Log     `toml:"log"`

	// Dir is the directory containing the nessie.toml file (set at load time).
	Dir string `toml:"-"`
}

// Project contains project metadata.
type Project struct {
	Name    string `toml:"name"`
	Version string `toml:"version"`
}

// Disasm configures disassembly listings.
type Disasm struct {
	DefaultName   string `toml:"default-name"`
	Validate      bool   `toml:"validate"`
	ShowConstants bool   `toml:"show-constants"`
	Annotate      bool   `toml:"annotate"`
}

// Log configures logging.
type Log struct {
	Verbosity int    `toml:"verbosity"`
	File      string `toml:"file"`
}

// Default returns the configuration used when no manifest exists.
func Default() *Manifest {
	return &Manifest{
		Disasm: Disasm{
			DefaultName: DefaultChunkName,
			Validate:    true,
		},
	}
}

// Load parses a nessie.toml file from the given directory.
// Keys missing from the file keep their Default values.
func Load(dir string) (*Manifest, error) {
	path := filepath.Join(dir, FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	m := Default()
	if err := toml.Unmarshal(data, m); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	m.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	if m.Disasm.DefaultName == "" {
		m.Disasm.DefaultName = DefaultChunkName
	}
	return m, nil
}

// FindAndLoad walks up from startDir to find a nessie.toml file,
// then loads and returns the manifest. Returns nil if no manifest is found.
func FindAndLoad(startDir string) (*Manifest, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

// LogFile returns the log file path, or nil to log to stderr. Relative
// paths resolve against the manifest directory.
func (m *Manifest) LogFile() *string {
	if m.Log.File == "" {
		return nil
	}
	path := m.Log.File
	if !filepath.IsAbs(path) && m.Dir != "" {
		path = filepath.Join(m.Dir, path)
	}
	return &path
}
