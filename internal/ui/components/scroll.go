package components

import "strings"

// Scroller shows a window of lines and keeps a cursor line in view.
type Scroller struct {
	lines  []string
	offset int
}

// SetContent replaces the text. With follow set the view jumps to the end.
func (s *Scroller) SetContent(text string, follow bool) {
	s.lines = strings.Split(strings.TrimRight(text, "\n"), "\n")
	if follow {
		s.offset = len(s.lines)
	}
}

// Scroll moves the window by delta lines.
func (s *Scroller) Scroll(delta int) {
	s.offset += delta
}

// Top jumps to the first line.
func (s *Scroller) Top() { s.offset = 0 }

// View renders height lines, clamping the offset so the window never runs
// past either end.
func (s *Scroller) View(height int) string {
	if height <= 0 || len(s.lines) == 0 {
		return ""
	}
	s.offset = min(s.offset, max(0, len(s.lines)-height))
	s.offset = max(0, s.offset)
	end := min(len(s.lines), s.offset+height)
	return strings.Join(s.lines[s.offset:end], "\n")
}

// AtEnd reports whether the last line is visible at the given height.
func (s *Scroller) AtEnd(height int) bool {
	return s.offset+height >= len(s.lines)
}
