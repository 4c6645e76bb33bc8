package metadata

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	json "github.com/goccy/go-json"

	"github.com/matzehuels/cargotree/pkg/cache"
	"github.com/matzehuels/cargotree/pkg/observability"
)

// DefaultTTL is how long cached metadata stays valid when the workspace
// files do not change.
const DefaultTTL = 24 * time.Hour

// CachedProvider serves metadata from a cache while the lockfile and every
// local manifest are unchanged.
type CachedProvider struct {
	Inner Provider
	Cache cache.Cache
	TTL   time.Duration
}

// NewCachedProvider wraps inner with c.
func NewCachedProvider(inner Provider, c cache.Cache, ttl time.Duration) *CachedProvider {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedProvider{Inner: inner, Cache: c, TTL: ttl}
}

// Load returns cached metadata when available and otherwise delegates to the
// inner provider, storing its result.
func (p *CachedProvider) Load(ctx context.Context, opts Options) (*Metadata, error) {
	fp, err := Fingerprint(opts.ManifestPath)
	if err != nil {
		// No manifest on disk to key on; let cargo report the problem.
		return p.Inner.Load(ctx, opts)
	}

	key := cache.MetadataKey(cache.MetadataKeyOpts{
		ManifestPath:      fp.Manifest,
		Features:          opts.Features,
		AllFeatures:       opts.AllFeatures,
		NoDefaultFeatures: opts.NoDefaultFeatures,
		FilterPlatform:    opts.FilterPlatform,
		Fingerprint:       fp.String(),
	})

	if data, hit, _ := p.Cache.Get(ctx, key); hit {
		if m, ok := decodeEntry(data); ok {
			observability.Cache().OnCacheHit(ctx, "metadata")
			m.ManifestPath = opts.ManifestPath
			return m, nil
		}
		_ = p.Cache.Delete(ctx, key)
	}
	observability.Cache().OnCacheMiss(ctx, "metadata")

	m, err := p.Inner.Load(ctx, opts)
	if err != nil {
		return nil, err
	}

	if data, err := encodeEntry(m); err == nil {
		if err := p.Cache.Set(ctx, key, data, p.TTL); err == nil {
			observability.Cache().OnCacheSet(ctx, "metadata", len(data))
		}
	}
	return m, nil
}

// cacheEntry is the stored form of a metadata result. Manifests records the
// stat of every local manifest cargo read, so an edit to a member or path
// dependency invalidates the entry even when the root files are untouched.
type cacheEntry struct {
	Metadata  json.RawMessage   `json:"metadata"`
	Manifests map[string]string `json:"manifests"`
}

func encodeEntry(m *Metadata) ([]byte, error) {
	raw, err := json.Marshal(m)
	if err != nil {
		return nil, err
	}
	manifests := make(map[string]string)
	for _, path := range LocalManifests(m) {
		manifests[path] = statPath(path)
	}
	return json.Marshal(cacheEntry{Metadata: raw, Manifests: manifests})
}

// decodeEntry returns the cached metadata, or false when the entry is
// unreadable or any recorded manifest changed on disk.
func decodeEntry(data []byte) (*Metadata, bool) {
	var e cacheEntry
	if err := json.Unmarshal(data, &e); err != nil || e.Metadata == nil {
		return nil, false
	}
	for path, stat := range e.Manifests {
		if statPath(path) != stat {
			return nil, false
		}
	}
	m, err := Parse(e.Metadata)
	if err != nil {
		return nil, false
	}
	return m, true
}

// LocalManifests lists the manifests of the workspace root and of every
// package without a registry or git source, sorted.
func LocalManifests(m *Metadata) []string {
	seen := make(map[string]bool)
	if m.WorkspaceRoot != "" {
		seen[filepath.Join(m.WorkspaceRoot, "Cargo.toml")] = true
	}
	for i := range m.Packages {
		if pkg := &m.Packages[i]; pkg.IsLocal() && pkg.ManifestPath != "" {
			seen[pkg.ManifestPath] = true
		}
	}
	paths := make([]string, 0, len(seen))
	for p := range seen {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// statPath is statString for path, or "missing" when it cannot be read.
func statPath(path string) string {
	st, err := os.Stat(path)
	if err != nil {
		return "missing"
	}
	return statString(st)
}

// WorkspaceFingerprint identifies the on-disk state that cargo resolves from.
type WorkspaceFingerprint struct {
	Manifest     string
	ManifestStat string
	LockStat     string
}

func (f WorkspaceFingerprint) String() string {
	return f.ManifestStat + "|" + f.LockStat
}

// Fingerprint locates the manifest (searching upwards from the working
// directory when manifestPath is empty) and the nearest Cargo.lock, and
// records their modification times and sizes.
func Fingerprint(manifestPath string) (WorkspaceFingerprint, error) {
	var fp WorkspaceFingerprint

	manifest := manifestPath
	if manifest == "" {
		wd, err := os.Getwd()
		if err != nil {
			return fp, err
		}
		found, ok := findUp(wd, "Cargo.toml")
		if !ok {
			return fp, fmt.Errorf("could not find Cargo.toml in %s or any parent directory", wd)
		}
		manifest = found
	}
	manifest, err := filepath.Abs(manifest)
	if err != nil {
		return fp, err
	}

	st, err := os.Stat(manifest)
	if err != nil {
		return fp, err
	}
	fp.Manifest = manifest
	fp.ManifestStat = statString(st)

	if lock, ok := findUp(filepath.Dir(manifest), "Cargo.lock"); ok {
		if st, err := os.Stat(lock); err == nil {
			fp.LockStat = statString(st)
		}
	}
	return fp, nil
}

func statString(st os.FileInfo) string {
	return fmt.Sprintf("%d:%d", st.ModTime().UnixNano(), st.Size())
}

// findUp walks from dir towards the filesystem root looking for name.
func findUp(dir, name string) (string, bool) {
	for {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

var _ Provider = (*CachedProvider)(nil)
