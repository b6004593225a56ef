package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// FileName is the optional tuning file read by Loader
const FileName = "arena.json"

// Loader loads configuration from JSON files using fs.FS interface
type Loader struct {
	fsys     fs.FS
	basePath string
}

// NewLoader creates a new config loader from filesystem path
func NewLoader(basePath string) *Loader {
	return &Loader{
		fsys:     os.DirFS(basePath),
		basePath: basePath,
	}
}

// NewFSLoader creates a new config loader from fs.FS
func NewFSLoader(fsys fs.FS, basePath string) *Loader {
	return &Loader{
		fsys:     fsys,
		basePath: basePath,
	}
}

// Load reads arena.json over the defaults. A missing file yields the defaults.
func (l *Loader) Load() (*Config, error) {
	cfg := Default()

	data, err := fs.ReadFile(l.fsys, FileName)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return cfg, nil
	case err != nil:
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}

	// Lists replace the defaults whole. Decoding into the default slices
	// would merge each entry over the default at the same index.
	cfg.Shapes.Archetypes = nil
	cfg.Shapes.Rarities = nil
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", FileName, err)
	}

	defaults := Default()
	if cfg.Shapes.Archetypes == nil {
		cfg.Shapes.Archetypes = defaults.Shapes.Archetypes
	}
	if cfg.Shapes.Rarities == nil {
		cfg.Shapes.Rarities = defaults.Shapes.Rarities
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid %s in %s: %w", FileName, l.basePath, err)
	}

	return cfg, nil
}
