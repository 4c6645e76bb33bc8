package render

import (
	"fmt"
	"strings"
)

// Symbols are the glyphs used to draw tree structure.
type Symbols struct {
	Branch       string // connector of a node with later siblings
	LastBranch   string // connector of the last node
	Continuation string // guide below an ancestor with later siblings
	Empty        string // guide below a last ancestor
	Open         string // toggle of an expanded node
	Closed       string // toggle of a collapsed node
	Leaf         string // toggle of a node without children
	Separator    string // between breadcrumb crumbs
	Ellipsis     string // replaces elided crumbs
}

// Charsets.
const (
	CharsetUnicode = "unicode"
	CharsetASCII   = "ascii"
)

var (
	// UnicodeSymbols draw box-drawing lines.
	UnicodeSymbols = Symbols{
		Branch:       "├──",
		LastBranch:   "└──",
		Continuation: "│  ",
		Empty:        "   ",
		Open:         "▾",
		Closed:       "▸",
		Leaf:         "•",
		Separator:    " → ",
		Ellipsis:     "…",
	}

	// ASCIISymbols work on terminals without Unicode support.
	ASCIISymbols = Symbols{
		Branch:       "|--",
		LastBranch:   "`--",
		Continuation: "|  ",
		Empty:        "   ",
		Open:         "-",
		Closed:       "+",
		Leaf:         "*",
		Separator:    " > ",
		Ellipsis:     "...",
	}
)

// SymbolsFor returns the symbols of a named charset.
func SymbolsFor(charset string) (Symbols, error) {
	switch strings.ToLower(charset) {
	case "", CharsetUnicode, "utf8":
		return UnicodeSymbols, nil
	case CharsetASCII:
		return ASCIISymbols, nil
	default:
		return Symbols{}, fmt.Errorf("unknown charset %q (want %s or %s)", charset, CharsetUnicode, CharsetASCII)
	}
}
