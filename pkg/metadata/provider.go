package metadata

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/observability"
)

// Provider returns the resolved dependency graph of a workspace.
type Provider interface {
	Load(ctx context.Context, opts Options) (*Metadata, error)
}

// Options mirror the cargo flags that influence resolution.
type Options struct {
	// ManifestPath points at a Cargo.toml. Empty means cargo searches from
	// the working directory.
	ManifestPath      string
	Features          []string
	AllFeatures       bool
	NoDefaultFeatures bool
	// FilterPlatform restricts platform-specific dependencies to the given
	// target triples.
	FilterPlatform []string
	Locked         bool
	Offline        bool
}

// Args returns the `cargo metadata` arguments for opts.
func Args(opts Options) []string {
	args := []string{"metadata", "--format-version", "1"}
	if opts.ManifestPath != "" {
		args = append(args, "--manifest-path", opts.ManifestPath)
	}
	if opts.AllFeatures {
		args = append(args, "--all-features")
	}
	if opts.NoDefaultFeatures {
		args = append(args, "--no-default-features")
	}
	if len(opts.Features) > 0 {
		args = append(args, "--features", strings.Join(opts.Features, ","))
	}
	for _, t := range opts.FilterPlatform {
		args = append(args, "--filter-platform", t)
	}
	if opts.Locked {
		args = append(args, "--locked")
	}
	if opts.Offline {
		args = append(args, "--offline")
	}
	return args
}

// Parse decodes a `cargo metadata` JSON document.
func Parse(data []byte) (*Metadata, error) {
	var m Metadata
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "unparsable cargo metadata output")
	}
	if m.Version != 0 && m.Version != 1 {
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported metadata format version %d", m.Version)
	}
	return &m, nil
}

// CargoProvider runs the cargo binary.
type CargoProvider struct {
	// Cargo is the cargo executable. Empty means "cargo" from PATH.
	Cargo string
}

// NewCargoProvider returns a provider that runs the given cargo binary.
func NewCargoProvider(cargo string) *CargoProvider {
	return &CargoProvider{Cargo: cargo}
}

// Load runs `cargo metadata` and decodes its output.
func (p *CargoProvider) Load(ctx context.Context, opts Options) (m *Metadata, err error) {
	start := time.Now()
	observability.Provider().OnLoadStart(ctx, "cargo", opts.ManifestPath)
	defer func() {
		observability.Provider().OnLoadComplete(ctx, "cargo", packageCount(m), time.Since(start), err)
	}()

	bin := p.Cargo
	if bin == "" {
		bin = "cargo"
	}

	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, Args(opts)...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, errors.Wrap(errors.ErrCodeProvider, err, "failed to execute cargo metadata: %s", lastLine(stderr.String()))
	}

	m, err = Parse(stdout.Bytes())
	if err != nil {
		return nil, err
	}
	m.ManifestPath = opts.ManifestPath
	return m, nil
}

func packageCount(m *Metadata) int {
	if m == nil {
		return 0
	}
	return len(m.Packages)
}

// lastLine returns the last non-empty line of cargo's stderr, which carries
// the error message.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return "no output"
}

var _ Provider = (*CargoProvider)(nil)
