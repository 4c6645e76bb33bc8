package render

// Viewport is the scrolled window over the visible lines.
type Viewport struct {
	Height    int
	Offset    int
	MaxOffset int
}

// NewViewport centres the window on selectedLine, the 1-based line number
// of the selection, and clamps the offset to [0, total-height].
func NewViewport(height, selectedLine, total int) Viewport {
	if height <= 0 {
		return Viewport{}
	}
	maxOffset := max(0, total-height)
	offset := selectedLine - (height+1)/2
	return Viewport{
		Height:    height,
		Offset:    min(max(offset, 0), maxOffset),
		MaxOffset: maxOffset,
	}
}

// Scrollbar is the geometry of a vertical scrollbar next to the window.
type Scrollbar struct {
	Visible bool
	// Position is the first row of the thumb.
	Position int
	// Thumb is the thumb length in rows.
	Thumb int
}

// ScrollbarGeometry sizes the thumb in proportion to the share of lines on
// screen and places it in proportion to the offset. The scrollbar is hidden
// when everything fits.
func ScrollbarGeometry(offset, maxOffset, height, total int) Scrollbar {
	if height <= 0 || maxOffset <= 0 || total <= height {
		return Scrollbar{}
	}
	thumb := max(1, (height*height+total/2)/total)
	thumb = min(thumb, height)
	offset = min(max(offset, 0), maxOffset)
	pos := (offset*(height-thumb) + maxOffset/2) / maxOffset
	return Scrollbar{Visible: true, Position: pos, Thumb: thumb}
}

// Column draws the scrollbar as one glyph per row.
func (s Scrollbar) Column(height int, track, thumb string) []string {
	rows := make([]string, height)
	for i := range rows {
		switch {
		case !s.Visible:
			rows[i] = " "
		case i >= s.Position && i < s.Position+s.Thumb:
			rows[i] = thumb
		default:
			rows[i] = track
		}
	}
	return rows
}
