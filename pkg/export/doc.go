// Package export writes a dependency tree in non-interactive formats.
//
// # Formats
//
//   - text: the same drawing the TUI shows, fully expanded, without toggles
//   - dot: Graphviz DOT source with one box per tree node
//   - svg: the DOT source laid out in-process with Graphviz
//   - json, yaml: a nested document of crates and dependency groups
//
// # Usage
//
//	err := export.Write(os.Stdout, tree, export.FormatText, export.Options{Depth: 2})
//
// [Options.Depth] limits every format the same way the depth shortcut limits
// the TUI: depth 1 keeps the roots only and 0 keeps everything.
//
// # Dependencies
//
// SVG output uses [github.com/goccy/go-graphviz], which embeds Graphviz as
// WebAssembly, so no system install is needed.
package export
