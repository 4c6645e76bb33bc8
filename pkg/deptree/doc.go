// Package deptree holds the dependency tree shown by cargo-tree-tui.
//
// A [Tree] is an arena: every node lives in Tree.Nodes and is addressed by
// its index, a [NodeID]. Parents are stored as ids, so the tree has no
// pointer cycles and ids stay valid for the lifetime of the tree.
//
// Nodes come in two shapes, both implementing [Node]:
//
//   - [*Crate]: a package, with name, version and display metadata
//   - [*Group]: a synthetic "[dev-dependencies]" or "[build-dependencies]"
//     bucket under a crate
//
// [Build] converts resolved cargo metadata into a Tree. The same package may
// appear several times, once per distinct parent, but never twice under the
// same parent. The tree is never modified after Build returns.
package deptree
