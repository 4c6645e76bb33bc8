package deptree

import (
	"slices"

	"github.com/matzehuels/cargotree/pkg/errors"
	"github.com/matzehuels/cargotree/pkg/metadata"
)

// nodeKey identifies a crate node: one per package and parent.
type nodeKey struct {
	pkg    string
	parent NodeID
}

type builder struct {
	packages map[string]*metadata.Package
	resolve  map[string]*metadata.ResolveNode
	index    map[nodeKey]NodeID
	nodes    []Node
	// onPath holds the packages on the current root-to-node path. Cargo
	// allows cycles through dev-dependencies, so recursion stops there.
	onPath map[string]bool
}

// Build converts resolved cargo metadata into a tree rooted at the
// workspace members. It fails with a GRAPH_ERROR when meta carries no
// resolved dependency graph.
func Build(meta *metadata.Metadata) (*Tree, error) {
	if meta == nil {
		return nil, errors.GraphError(nil, "no cargo metadata")
	}
	if meta.Resolve == nil {
		return nil, errors.GraphError(nil, "failed to resolve dependency graph: metadata has no resolve section")
	}

	b := &builder{
		packages: make(map[string]*metadata.Package, len(meta.Packages)),
		resolve:  make(map[string]*metadata.ResolveNode, len(meta.Resolve.Nodes)),
		index:    make(map[nodeKey]NodeID),
		onPath:   make(map[string]bool),
	}
	for i := range meta.Packages {
		b.packages[meta.Packages[i].ID] = &meta.Packages[i]
	}
	for i := range meta.Resolve.Nodes {
		b.resolve[meta.Resolve.Nodes[i].ID] = &meta.Resolve.Nodes[i]
	}

	members := make(map[string]bool, len(meta.WorkspaceMembers))
	for _, id := range meta.WorkspaceMembers {
		members[id] = true
	}

	var roots []NodeID
	for _, pkg := range meta.Packages {
		if !members[pkg.ID] {
			continue
		}
		if id, ok := b.crate(pkg.ID, None); ok && !slices.Contains(roots, id) {
			roots = append(roots, id)
		}
	}

	return New(meta.WorkspaceName(), b.nodes, roots), nil
}

// crate materializes the package under parent, reusing the node when the
// same package was already attached to that parent.
func (b *builder) crate(pkgID string, parent NodeID) (NodeID, bool) {
	key := nodeKey{pkg: pkgID, parent: parent}
	if id, ok := b.index[key]; ok {
		return id, true
	}

	pkg, ok := b.packages[pkgID]
	if !ok {
		return None, false
	}

	c := &Crate{
		PackageID: pkg.ID,
		Name:      pkg.Name,
		Version:   pkg.Version,
		ProcMacro: pkg.IsProcMacro(),
		parent:    parent,
	}
	if pkg.IsLocal() {
		c.ManifestDir = pkg.ManifestDir()
	}
	id := b.push(c)
	b.index[key] = id

	rn, ok := b.resolve[pkgID]
	if !ok || b.onPath[pkgID] {
		return id, true
	}
	b.onPath[pkgID] = true
	defer delete(b.onPath, pkgID)

	var normal, dev, build []string
	for _, dep := range rn.Deps {
		if _, ok := b.packages[dep.Pkg]; !ok {
			continue
		}
		kind, ok := classify(dep.DepKinds)
		if !ok {
			continue
		}
		switch kind {
		case KindNormal:
			normal = append(normal, dep.Pkg)
		case KindDev:
			dev = append(dev, dep.Pkg)
		case KindBuild:
			build = append(build, dep.Pkg)
		}
	}

	children := b.attach(nil, normal, id)
	for _, bucket := range []struct {
		kind Kind
		deps []string
	}{{KindDev, dev}, {KindBuild, build}} {
		if len(bucket.deps) == 0 {
			continue
		}
		g := &Group{Kind: bucket.kind, parent: id}
		gid := b.push(g)
		children = append(children, gid)
		g.children = b.attach(nil, bucket.deps, gid)
	}
	c.children = children

	return id, true
}

// attach builds each package under parent and appends the resulting ids to
// children, skipping ids already present.
func (b *builder) attach(children []NodeID, deps []string, parent NodeID) []NodeID {
	for _, dep := range deps {
		child, ok := b.crate(dep, parent)
		if ok && !slices.Contains(children, child) {
			children = append(children, child)
		}
	}
	return children
}

func (b *builder) push(n Node) NodeID {
	b.nodes = append(b.nodes, n)
	return NodeID(len(b.nodes) - 1)
}

// classify returns the kind of the first recognized entry in kinds.
// Unknown kinds are skipped; an edge with no recognized kind is dropped.
func classify(kinds []metadata.DepKindInfo) (Kind, bool) {
	for _, k := range kinds {
		switch k.KindName() {
		case metadata.KindNormal:
			return KindNormal, true
		case metadata.KindDev:
			return KindDev, true
		case metadata.KindBuild:
			return KindBuild, true
		}
	}
	return KindNormal, false
}
