package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/matzehuels/cargotree/pkg/deptree"
	"github.com/matzehuels/cargotree/pkg/metadata"
)

// =============================================================================
// Tree Loading
// =============================================================================

// loader resolves the workspace and builds trees from it.
type loader struct {
	settings *settings
	provider metadata.Provider

	// workspaceRoot is recorded by the last successful load. Reloads run
	// off the UI goroutine, so it is guarded by mu.
	mu            sync.Mutex
	workspaceRoot string
}

// prepare merges config and flags for cmd and returns its loader.
func (c *CLI) prepare(cmd *cobra.Command) (*loader, error) {
	cfg, err := c.loadConfig()
	if err != nil {
		return nil, err
	}
	s, err := c.flags.resolve(cmd, cfg)
	if err != nil {
		return nil, err
	}
	return newLoader(s)
}

// newLoader picks the provider: a saved metadata file when --metadata-file
// is set, otherwise `cargo metadata` behind the on-disk cache.
func newLoader(s *settings) (*loader, error) {
	if s.metadataFile != "" {
		return &loader{settings: s, provider: metadata.NewFileProvider(s.metadataFile)}, nil
	}
	c, err := newCache(s.cacheEnabled)
	if err != nil {
		return nil, err
	}
	cargo := metadata.NewCargoProvider(s.cargo)
	return &loader{
		settings: s,
		provider: metadata.NewCachedProvider(cargo, c, s.cfg.Cache.TTL),
	}, nil
}

// load runs the provider and builds the tree.
func (l *loader) load(ctx context.Context) (*deptree.Tree, error) {
	m, err := l.provider.Load(ctx, l.settings.metadata)
	if err != nil {
		return nil, err
	}
	tree, err := deptree.Build(m)
	if err != nil {
		return nil, err
	}
	l.mu.Lock()
	l.workspaceRoot = m.WorkspaceRoot
	l.mu.Unlock()
	return tree, nil
}

// loadWithProgress is load with a spinner on stderr when it is a terminal
// and a timing line in the log.
func (l *loader) loadWithProgress(ctx context.Context) (*deptree.Tree, error) {
	logger := loggerFromContext(ctx)
	prog := newProgress(logger)

	var spinner *Spinner
	if isTerminal(os.Stderr) && !l.fromFile() {
		spinner = newSpinner(ctx, os.Stderr, "Resolving dependency graph...")
		spinner.Start()
	}

	tree, err := l.load(ctx)
	if spinner != nil {
		spinner.Stop()
	}
	if err != nil {
		return nil, err
	}
	prog.done(fmt.Sprintf("Built tree of %s with %d nodes", tree.WorkspaceName, tree.Len()))
	return tree, nil
}

func (l *loader) fromFile() bool {
	return l.settings.metadataFile != ""
}

// watchPaths lists the files whose change should trigger a reload.
func (l *loader) watchPaths() []string {
	if l.fromFile() {
		return []string{l.settings.metadataFile}
	}
	var paths []string
	if fp, err := metadata.Fingerprint(l.settings.metadata.ManifestPath); err == nil {
		paths = append(paths, fp.Manifest)
	}
	l.mu.Lock()
	root := l.workspaceRoot
	l.mu.Unlock()
	if root != "" {
		paths = append(paths,
			filepath.Join(root, "Cargo.toml"),
			filepath.Join(root, "Cargo.lock"),
		)
	}
	return dedupe(paths)
}

func dedupe(in []string) []string {
	seen := make(map[string]bool, len(in))
	out := in[:0]
	for _, p := range in {
		if seen[p] {
			continue
		}
		seen[p] = true
		out = append(out, p)
	}
	return out
}

// isTerminal reports whether f is attached to a terminal.
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
