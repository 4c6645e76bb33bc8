package metadata

import (
	"os"

	"github.com/BurntSushi/toml"

	"github.com/matzehuels/cargotree/pkg/errors"
)

// Manifest is the part of a Cargo.toml file read directly from disk.
type Manifest struct {
	Package struct {
		Name    string `toml:"name"`
		Version string `toml:"version"`
	} `toml:"package"`
	Workspace *struct {
		Members []string `toml:"members"`
	} `toml:"workspace"`
	Dependencies      map[string]any `toml:"dependencies"`
	DevDependencies   map[string]any `toml:"dev-dependencies"`
	BuildDependencies map[string]any `toml:"build-dependencies"`
}

// IsVirtual reports whether the manifest declares a workspace without a package.
func (m *Manifest) IsVirtual() bool {
	return m.Workspace != nil && m.Package.Name == ""
}

// ReadManifest parses the Cargo.toml at path.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "manifest not found: %s", path)
		}
		return nil, err
	}

	var m Manifest
	if err := toml.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidManifest, err, "failed to parse %s", path)
	}
	return &m, nil
}
