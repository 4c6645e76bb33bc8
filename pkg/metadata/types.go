package metadata

import (
	"path/filepath"
	"slices"
)

// Metadata is the subset of the `cargo metadata` document used to build trees.
type Metadata struct {
	Packages         []Package `json:"packages"`
	WorkspaceMembers []string  `json:"workspace_members"`
	Resolve          *Resolve  `json:"resolve"`
	WorkspaceRoot    string    `json:"workspace_root"`
	TargetDirectory  string    `json:"target_directory"`
	Version          int       `json:"version"`

	// ManifestPath is the manifest the metadata was requested for. It is not
	// part of cargo's output and is filled in by providers.
	ManifestPath string `json:"-"`
}

// Package is one entry of the package list.
type Package struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Version      string   `json:"version"`
	Source       *string  `json:"source"`
	ManifestPath string   `json:"manifest_path"`
	Targets      []Target `json:"targets"`
}

// Target is a build target of a package (lib, bin, proc-macro, ...).
type Target struct {
	Name       string   `json:"name"`
	Kind       []string `json:"kind"`
	CrateTypes []string `json:"crate_types"`
}

// Resolve is the resolved dependency graph. Root is set for single-package
// workspaces and nil for virtual workspaces.
type Resolve struct {
	Nodes []ResolveNode `json:"nodes"`
	Root  *string       `json:"root"`
}

// ResolveNode lists the resolved dependencies of one package.
type ResolveNode struct {
	ID           string    `json:"id"`
	Dependencies []string  `json:"dependencies"`
	Deps         []NodeDep `json:"deps"`
	Features     []string  `json:"features"`
}

// NodeDep is an edge of the resolved graph.
type NodeDep struct {
	Name     string        `json:"name"`
	Pkg      string        `json:"pkg"`
	DepKinds []DepKindInfo `json:"dep_kinds"`
}

// DepKindInfo describes how a dependency is used. Kind is nil for normal
// dependencies, "dev" or "build" otherwise.
type DepKindInfo struct {
	Kind   *string `json:"kind"`
	Target *string `json:"target"`
}

// Dependency kind strings used by cargo.
const (
	KindNormal = "normal"
	KindDev    = "dev"
	KindBuild  = "build"
)

// KindName returns the kind string, mapping a nil kind to [KindNormal].
func (d DepKindInfo) KindName() string {
	if d.Kind == nil {
		return KindNormal
	}
	return *d.Kind
}

// IsLocal reports whether the package is a path dependency or workspace
// member, i.e. has no registry or git source.
func (p *Package) IsLocal() bool { return p.Source == nil }

// IsProcMacro reports whether any target of the package is a proc-macro.
func (p *Package) IsProcMacro() bool {
	for _, t := range p.Targets {
		if slices.Contains(t.Kind, "proc-macro") {
			return true
		}
	}
	return false
}

// ManifestDir returns the directory holding the package manifest.
func (p *Package) ManifestDir() string {
	if p.ManifestPath == "" {
		return ""
	}
	return filepath.Dir(p.ManifestPath)
}

// Package returns the package with the given id.
func (m *Metadata) Package(id string) (*Package, bool) {
	for i := range m.Packages {
		if m.Packages[i].ID == id {
			return &m.Packages[i], true
		}
	}
	return nil, false
}

// RootPackage returns the package named by resolve.root, if any.
func (m *Metadata) RootPackage() (*Package, bool) {
	if m.Resolve == nil || m.Resolve.Root == nil {
		return nil, false
	}
	return m.Package(*m.Resolve.Root)
}

// IsMember reports whether id is a workspace member.
func (m *Metadata) IsMember(id string) bool {
	return slices.Contains(m.WorkspaceMembers, id)
}

// WorkspaceName picks a display name for the workspace: the root package
// name, then the [package] name from the requested manifest, then
// "workspace".
func (m *Metadata) WorkspaceName() string {
	if root, ok := m.RootPackage(); ok {
		return root.Name
	}
	path := m.ManifestPath
	if path == "" && m.WorkspaceRoot != "" {
		path = filepath.Join(m.WorkspaceRoot, "Cargo.toml")
	}
	if path != "" {
		if man, err := ReadManifest(path); err == nil && man.Package.Name != "" {
			return man.Package.Name
		}
	}
	return "workspace"
}
