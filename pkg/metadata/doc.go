// Package metadata loads the resolved dependency graph of a Cargo workspace.
//
// The graph comes from `cargo metadata --format-version 1`. A [Provider]
// returns the decoded [Metadata]; three implementations are available:
//
//   - [CargoProvider]: runs the cargo binary
//   - [FileProvider]: decodes a metadata document saved to disk
//   - [CachedProvider]: wraps another provider with a [cache.Cache]
//
// Only the fields needed to build a dependency tree are decoded. Unknown
// fields are ignored so newer cargo versions keep working.
//
// [cache.Cache]: github.com/matzehuels/cargotree/pkg/cache.Cache
package metadata
