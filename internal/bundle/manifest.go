package bundle

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

// ManifestPattern matches bundle manifests one folder below a bundle root.
const ManifestPattern = "*/bundle.{yaml,yml,toml}"

// Manifest is the declarative description of a bundle folder.
type Manifest struct {
	// Name must match a catalog entry.
	Name string `yaml:"name" toml:"name"`
	// Module is the bundle's module path, relative to the project root.
	// Defaults to the manifest's folder.
	Module      string `yaml:"module" toml:"module"`
	Description string `yaml:"description" toml:"description"`
	// Enabled defaults to true when omitted.
	Enabled *bool `yaml:"enabled" toml:"enabled"`

	// Path is where the manifest was read from.
	Path string `yaml:"-" toml:"-"`
}

// IsEnabled reports whether the manifest enables its bundle.
func (m *Manifest) IsEnabled() bool {
	return m.Enabled == nil || *m.Enabled
}

// LoadManifest reads a YAML or TOML manifest, chosen by file extension.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}

	var m Manifest
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &m)
	case ".toml":
		err = toml.Unmarshal(data, &m)
	default:
		return nil, fmt.Errorf("manifest %s: unsupported format %q", path, ext)
	}
	if err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	if m.Name == "" {
		return nil, fmt.Errorf("manifest %s: name is required", path)
	}
	m.Path = path
	return &m, nil
}
