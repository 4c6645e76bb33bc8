// Package render projects a navigated dependency tree onto a terminal window.
//
// [Project] takes a tree, its navigation state and the size of the window,
// and returns the lines to draw plus the scroll geometry:
//
//	frame := render.Project(tree, state, render.Area{Width: 80, Height: 24}, render.DefaultStyle())
//	for _, line := range frame.Lines {
//	    fmt.Println(style.RenderLine(line))
//	}
//
// The window scrolls so the selected line stays near the middle. While
// scrolled, the first line is replaced by a breadcrumb showing the path to
// the selected node, shortened with an ellipsis when it does not fit.
//
// Lines are returned as typed spans so callers can style them
// ([Style.RenderLine]) or print them verbatim ([Line.String]). Widths are
// measured in terminal cells.
package render
