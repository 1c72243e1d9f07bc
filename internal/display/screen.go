// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package display

// Screen is a character grid with line wrap and scrolling.
type Screen struct {
	cols, rows int
	lines      [][]byte
}

// NewScreen returns an empty grid. Dimensions are at least 1x1.
func NewScreen(cols, rows int) *Screen {
	s := &Screen{cols: max(cols, 1), rows: max(rows, 1)}
	s.Reset()
	return s
}

// Reset empties the grid.
func (s *Screen) Reset() {
	s.lines = [][]byte{nil}
}

// Write places text at the cursor. '\n' starts a new line, '\r' is ignored.
func (s *Screen) Write(p []byte) {
	for _, c := range p {
		switch c {
		case '\r':
		case '\n':
			s.newline()
		default:
			last := len(s.lines) - 1
			if len(s.lines[last]) == s.cols {
				s.newline()
				last = len(s.lines) - 1
			}
			s.lines[last] = append(s.lines[last], c)
		}
	}
}

func (s *Screen) newline() {
	s.lines = append(s.lines, nil)
	if len(s.lines) > s.rows {
		s.lines = s.lines[len(s.lines)-s.rows:]
	}
}

// Lines returns the visible rows, top first.
func (s *Screen) Lines() []string {
	out := make([]string, len(s.lines))
	for i, l := range s.lines {
		out[i] = string(l)
	}
	return out
}
