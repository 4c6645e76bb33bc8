// Package pkg provides the libraries behind cargo-tree-tui, an interactive
// viewer for the dependency tree of a Cargo workspace.
//
// # Overview
//
// The pkg directory is organized by stage:
//
//  1. [metadata] - Resolve the workspace with `cargo metadata`, with caching
//  2. [deptree] - Build the display tree (crates plus dev/build group headers)
//  3. [navigator] - Expansion, selection, paging and search over a tree
//  4. [render] - Turn a navigated tree into styled terminal lines
//  5. [export] - Write a tree as text, DOT, SVG, JSON or YAML
//
// Supporting packages are [cache], [errors], [observability] and [buildinfo].
//
// # Architecture
//
// The typical data flow:
//
//	Cargo.toml / Cargo.lock
//	         ↓
//	    [metadata] package (cargo metadata, cached)
//	         ↓
//	    [deptree] package (arena tree)
//	         ↓
//	    [navigator] package (open set, selection, search)
//	         ↓
//	    [render] package (lines, breadcrumb, scrollbar)
//	         ↓
//	    terminal UI or [export]
//
// # Quick Start
//
//	import (
//	    "github.com/matzehuels/cargotree/pkg/deptree"
//	    "github.com/matzehuels/cargotree/pkg/metadata"
//	    "github.com/matzehuels/cargotree/pkg/navigator"
//	    "github.com/matzehuels/cargotree/pkg/render"
//	)
//
//	m, err := metadata.NewCargoProvider("cargo").Load(ctx, metadata.Options{})
//	tree, err := deptree.Build(m)
//
//	state := navigator.New()
//	state.OpenToDepth(tree, 2)
//	frame := render.Project(tree, state, render.Area{Width: 80, Height: 24}, render.DefaultStyle())
//	for _, line := range frame.Lines {
//	    fmt.Println(line.String())
//	}
//
// [metadata]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/metadata
// [deptree]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/deptree
// [navigator]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/navigator
// [render]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/render
// [export]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/export
// [cache]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/cargotree/pkg/buildinfo
package pkg
