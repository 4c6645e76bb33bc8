package export

import (
	"fmt"
	"io"

	json "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/cargotree/pkg/deptree"
)

// Document is the nested form of a tree written by the json and yaml
// formats.
type Document struct {
	Workspace string  `json:"workspace" yaml:"workspace"`
	Roots     []Entry `json:"roots" yaml:"roots"`
}

// Entry is a crate or a dependency group. Group entries carry Group and no
// Name.
type Entry struct {
	Name         string  `json:"name,omitempty" yaml:"name,omitempty"`
	Version      string  `json:"version,omitempty" yaml:"version,omitempty"`
	Group        string  `json:"group,omitempty" yaml:"group,omitempty"`
	ManifestDir  string  `json:"manifest_dir,omitempty" yaml:"manifest_dir,omitempty"`
	ProcMacro    bool    `json:"proc_macro,omitempty" yaml:"proc_macro,omitempty"`
	Dependencies []Entry `json:"dependencies,omitempty" yaml:"dependencies,omitempty"`
}

// NewDocument converts tree, honouring opts.Depth.
func NewDocument(tree *deptree.Tree, opts Options) Document {
	doc := Document{Workspace: tree.WorkspaceName, Roots: []Entry{}}
	for _, r := range tree.Roots() {
		doc.Roots = append(doc.Roots, newEntry(tree, r, 0, opts))
	}
	return doc
}

func newEntry(tree *deptree.Tree, id deptree.NodeID, depth int, opts Options) Entry {
	var e Entry
	n, _ := tree.Node(id)
	switch n := n.(type) {
	case *deptree.Crate:
		e = Entry{Name: n.Name, Version: n.Version, ManifestDir: n.ManifestDir, ProcMacro: n.ProcMacro}
	case *deptree.Group:
		e = Entry{Group: n.Kind.String()}
	}
	if !opts.keep(depth + 1) {
		return e
	}
	for _, c := range tree.Children(id) {
		e.Dependencies = append(e.Dependencies, newEntry(tree, c, depth+1, opts))
	}
	return e
}

// WriteJSON writes the tree as an indented JSON document.
func WriteJSON(w io.Writer, tree *deptree.Tree, opts Options) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(NewDocument(tree, opts)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteYAML writes the tree as a YAML document.
func WriteYAML(w io.Writer, tree *deptree.Tree, opts Options) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(NewDocument(tree, opts)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}
