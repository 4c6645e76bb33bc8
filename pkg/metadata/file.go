package metadata

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/observability"
)

// FileProvider decodes a metadata document previously saved with
// `cargo metadata --format-version 1 > file`.
type FileProvider struct {
	Path string
}

// NewFileProvider returns a provider reading path.
func NewFileProvider(path string) *FileProvider {
	return &FileProvider{Path: path}
}

// Load reads and decodes the file. Resolution options are ignored since the
// document is already resolved.
func (p *FileProvider) Load(ctx context.Context, opts Options) (m *Metadata, err error) {
	start := time.Now()
	observability.Provider().OnLoadStart(ctx, "file", p.Path)
	defer func() {
		observability.Provider().OnLoadComplete(ctx, "file", packageCount(m), time.Since(start), err)
	}()

	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "metadata file not found: %s", p.Path)
		}
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "failed to read %s", p.Path)
	}

	m, err = Parse(data)
	if err != nil {
		return nil, err
	}
	m.ManifestPath = opts.ManifestPath
	return m, nil
}

var _ Provider = (*FileProvider)(nil)
