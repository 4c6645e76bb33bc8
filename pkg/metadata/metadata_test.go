package metadata

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"github.com/matzehuels/cargotree/pkg/cache"
	"github.com/matzehuels/cargotree/pkg/errors"
)

const fixture = "testdata/workspace.json"

func loadFixture(t *testing.T) *Metadata {
	t.Helper()
	data, err := os.ReadFile(fixture)
	if err != nil {
		t.Fatalf("read fixture: %v", err)
	}
	m, err := Parse(data)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	return m
}

func TestParse(t *testing.T) {
	m := loadFixture(t)

	if len(m.Packages) != 5 {
		t.Errorf("len(Packages) = %d, want 5", len(m.Packages))
	}
	if len(m.WorkspaceMembers) != 2 {
		t.Errorf("len(WorkspaceMembers) = %d, want 2", len(m.WorkspaceMembers))
	}
	if m.Resolve == nil {
		t.Fatal("Resolve = nil")
	}
	if m.Resolve.Root != nil {
		t.Errorf("Resolve.Root = %v, want nil", *m.Resolve.Root)
	}

	app := m.Resolve.Nodes[0]
	kinds := make([]string, 0, len(app.Deps))
	for _, d := range app.Deps {
		kinds = append(kinds, d.DepKinds[0].KindName())
	}
	want := []string{KindNormal, KindNormal, KindDev, KindBuild}
	if !reflect.DeepEqual(kinds, want) {
		t.Errorf("dep kinds = %v, want %v", kinds, want)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
		code errors.Code
	}{
		{"garbage", "not json", errors.ErrCodeProvider},
		{"future version", `{"version": 2}`, errors.ErrCodeUnsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			if !errors.Is(err, tt.code) {
				t.Errorf("Parse() error = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestParseMissingResolve(t *testing.T) {
	m, err := Parse([]byte(`{"packages": [], "workspace_members": [], "resolve": null, "version": 1}`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if m.Resolve != nil {
		t.Error("Resolve should be nil when cargo ran with --no-deps")
	}
}

func TestPackageHelpers(t *testing.T) {
	m := loadFixture(t)

	tests := []struct {
		id          string
		local       bool
		procMacro   bool
		manifestDir string
	}{
		{"path+file:///w/app#0.1.0", true, false, "/w/app"},
		{"path+file:///w/macros#0.1.0", true, true, "/w/macros"},
		{"registry+https://github.com/rust-lang/crates.io-index#serde@1.0.200", false, false, "/home/u/.cargo/registry/src/serde-1.0.200"},
	}
	for _, tt := range tests {
		p, ok := m.Package(tt.id)
		if !ok {
			t.Fatalf("Package(%q) not found", tt.id)
		}
		if got := p.IsLocal(); got != tt.local {
			t.Errorf("%s IsLocal() = %v, want %v", p.Name, got, tt.local)
		}
		if got := p.IsProcMacro(); got != tt.procMacro {
			t.Errorf("%s IsProcMacro() = %v, want %v", p.Name, got, tt.procMacro)
		}
		if got := p.ManifestDir(); got != filepath.FromSlash(tt.manifestDir) {
			t.Errorf("%s ManifestDir() = %q, want %q", p.Name, got, tt.manifestDir)
		}
	}

	if _, ok := m.Package("missing"); ok {
		t.Error("Package(missing) ok = true, want false")
	}
	if !m.IsMember("path+file:///w/macros#0.1.0") {
		t.Error("macros should be a workspace member")
	}
}

func TestWorkspaceName(t *testing.T) {
	m := loadFixture(t)
	m.WorkspaceRoot = t.TempDir()
	if got := m.WorkspaceName(); got != "workspace" {
		t.Errorf("WorkspaceName() = %q, want %q", got, "workspace")
	}

	manifest := filepath.Join(t.TempDir(), "Cargo.toml")
	writeFile(t, manifest, "[package]\nname = \"from-manifest\"\nversion = \"0.2.0\"\n")
	m.ManifestPath = manifest
	if got := m.WorkspaceName(); got != "from-manifest" {
		t.Errorf("WorkspaceName() = %q, want %q", got, "from-manifest")
	}

	root := "path+file:///w/app#0.1.0"
	m.Resolve.Root = &root
	if got := m.WorkspaceName(); got != "app" {
		t.Errorf("WorkspaceName() = %q, want %q", got, "app")
	}
}

func TestReadManifest(t *testing.T) {
	dir := t.TempDir()

	virtual := filepath.Join(dir, "Cargo.toml")
	writeFile(t, virtual, "[workspace]\nmembers = [\"a\", \"b\"]\n")
	m, err := ReadManifest(virtual)
	if err != nil {
		t.Fatalf("ReadManifest: %v", err)
	}
	if !m.IsVirtual() {
		t.Error("IsVirtual() = false, want true")
	}
	if !reflect.DeepEqual(m.Workspace.Members, []string{"a", "b"}) {
		t.Errorf("Members = %v", m.Workspace.Members)
	}

	if _, err := ReadManifest(filepath.Join(dir, "missing", "Cargo.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing manifest error = %v, want FILE_NOT_FOUND", err)
	}

	bad := filepath.Join(dir, "bad", "Cargo.toml")
	writeFile(t, bad, "[package\nname=")
	if _, err := ReadManifest(bad); !errors.Is(err, errors.ErrCodeInvalidManifest) {
		t.Errorf("bad manifest error = %v, want INVALID_MANIFEST", err)
	}
}

func TestArgs(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want []string
	}{
		{
			name: "defaults",
			want: []string{"metadata", "--format-version", "1"},
		},
		{
			name: "everything",
			opts: Options{
				ManifestPath:      "crates/a/Cargo.toml",
				Features:          []string{"serde", "tokio"},
				AllFeatures:       true,
				NoDefaultFeatures: true,
				FilterPlatform:    []string{"x86_64-unknown-linux-gnu"},
				Locked:            true,
				Offline:           true,
			},
			want: []string{
				"metadata", "--format-version", "1",
				"--manifest-path", "crates/a/Cargo.toml",
				"--all-features", "--no-default-features",
				"--features", "serde,tokio",
				"--filter-platform", "x86_64-unknown-linux-gnu",
				"--locked", "--offline",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Args(tt.opts); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Args() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFileProvider(t *testing.T) {
	ctx := context.Background()

	m, err := NewFileProvider(fixture).Load(ctx, Options{ManifestPath: "/w/Cargo.toml"})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if m.ManifestPath != "/w/Cargo.toml" {
		t.Errorf("ManifestPath = %q", m.ManifestPath)
	}

	_, err = NewFileProvider("testdata/missing.json").Load(ctx, Options{})
	if !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestCargoProviderMissingBinary(t *testing.T) {
	p := NewCargoProvider(filepath.Join(t.TempDir(), "no-such-cargo"))
	_, err := p.Load(context.Background(), Options{})
	if !errors.Is(err, errors.ErrCodeProvider) {
		t.Errorf("Load() error = %v, want PROVIDER_ERROR", err)
	}
}

func TestCachedProvider(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	manifest := filepath.Join(dir, "Cargo.toml")
	writeFile(t, manifest, "[package]\nname = \"app\"\nversion = \"0.1.0\"\n")
	writeFile(t, filepath.Join(dir, "Cargo.lock"), "version = 3\n")

	fc, err := cache.NewFileCache(filepath.Join(dir, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingProvider{inner: NewFileProvider(fixture)}
	p := NewCachedProvider(inner, fc, 0)

	opts := Options{ManifestPath: manifest}
	first, err := p.Load(ctx, opts)
	if err != nil {
		t.Fatalf("first Load: %v", err)
	}
	second, err := p.Load(ctx, opts)
	if err != nil {
		t.Fatalf("second Load: %v", err)
	}
	if inner.calls != 1 {
		t.Errorf("inner calls = %d, want 1", inner.calls)
	}
	if len(second.Packages) != len(first.Packages) {
		t.Errorf("cached packages = %d, want %d", len(second.Packages), len(first.Packages))
	}
	if second.ManifestPath != manifest {
		t.Errorf("cached ManifestPath = %q, want %q", second.ManifestPath, manifest)
	}

	opts.Features = []string{"extra"}
	if _, err := p.Load(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls after option change = %d, want 2", inner.calls)
	}
}

func TestCachedProviderWithoutManifestBypassesCache(t *testing.T) {
	inner := &countingProvider{inner: NewFileProvider(fixture)}
	p := NewCachedProvider(inner, cache.NewNullCache(), 0)

	opts := Options{ManifestPath: filepath.Join(t.TempDir(), "Cargo.toml")}
	for range 2 {
		if _, err := p.Load(context.Background(), opts); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 2 {
		t.Errorf("inner calls = %d, want 2", inner.calls)
	}
}

func TestCachedProviderMemberManifestEdit(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	manifest := filepath.Join(root, "Cargo.toml")
	member := filepath.Join(root, "crates", "a", "Cargo.toml")
	writeFile(t, manifest, "[workspace]\nmembers = [\"crates/a\"]\n")
	writeFile(t, member, "[package]\nname = \"a\"\n")
	writeFile(t, filepath.Join(root, "Cargo.lock"), "version = 3\n")

	registry := "registry+https://github.com/rust-lang/crates.io-index"
	meta := &Metadata{
		Version:       1,
		WorkspaceRoot: root,
		Packages: []Package{
			{ID: "a 0.1.0", Name: "a", Version: "0.1.0", ManifestPath: member},
			{ID: "log 0.4.0", Name: "log", Version: "0.4.0", Source: &registry,
				ManifestPath: filepath.Join(root, "registry", "log", "Cargo.toml")},
		},
	}
	fc, err := cache.NewFileCache(filepath.Join(root, "cache"))
	if err != nil {
		t.Fatal(err)
	}
	inner := &countingProvider{inner: staticProvider{meta}}
	p := NewCachedProvider(inner, fc, 0)

	opts := Options{ManifestPath: manifest}
	for range 2 {
		if _, err := p.Load(ctx, opts); err != nil {
			t.Fatal(err)
		}
	}
	if inner.calls != 1 {
		t.Fatalf("inner calls before edit = %d, want 1", inner.calls)
	}

	writeFile(t, member, "[package]\nname = \"a\"\n\n[dependencies]\nlog = \"0.4\"\n")
	if _, err := p.Load(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls after member edit = %d, want 2", inner.calls)
	}

	if _, err := p.Load(ctx, opts); err != nil {
		t.Fatal(err)
	}
	if inner.calls != 2 {
		t.Errorf("inner calls after reload = %d, want 2", inner.calls)
	}
}

func TestLocalManifests(t *testing.T) {
	m := loadFixture(t)
	got := LocalManifests(m)
	want := map[string]bool{filepath.Join(m.WorkspaceRoot, "Cargo.toml"): true}
	for i := range m.Packages {
		if m.Packages[i].IsLocal() {
			want[m.Packages[i].ManifestPath] = true
		}
	}
	if len(got) != len(want) {
		t.Fatalf("LocalManifests() = %v, want %d paths", got, len(want))
	}
	for _, path := range got {
		if !want[path] {
			t.Errorf("LocalManifests() includes %q", path)
		}
	}
}

func TestFingerprintFindsLockfileUpwards(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "Cargo.lock"), "version = 3\n")
	member := filepath.Join(root, "crates", "a", "Cargo.toml")
	writeFile(t, member, "[package]\nname = \"a\"\n")

	fp, err := Fingerprint(member)
	if err != nil {
		t.Fatalf("Fingerprint: %v", err)
	}
	if fp.LockStat == "" {
		t.Error("LockStat is empty, want lockfile from workspace root")
	}
	if fp.Manifest != member {
		t.Errorf("Manifest = %q, want %q", fp.Manifest, member)
	}
}

type countingProvider struct {
	inner Provider
	calls int
}

func (p *countingProvider) Load(ctx context.Context, opts Options) (*Metadata, error) {
	p.calls++
	return p.inner.Load(ctx, opts)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

type staticProvider struct{ m *Metadata }

func (p staticProvider) Load(context.Context, Options) (*Metadata, error) {
	c := *p.m
	return &c, nil
}
