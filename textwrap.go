package main

// Dialog strings separate lines with CR and break long lines on spaces.
// The wrap accounting matters as much as the visual result: selection
// hit-testing reconstructs string offsets from the wrapped lines, counting
// one extra char per line for the space or CR that caused the wrap.

func stringWidth(font Font, s string) int {
	w := 0
	for i := 0; i < len(s); i++ {
		w += font.CharWidth(s[i])
	}
	return w
}

// wrapText wraps s into lines no wider than maxW pixels. CRs force a
// break; otherwise lines break greedily at the last space that fits. A
// single word wider than maxW stands alone on its line, never hyphenated,
// and that line simply overruns maxW. Returns the lines and the widest
// line's pixel width.
func wrapText(s string, maxW int, font Font) ([]string, int) {
	var lines []string
	maxWidth := 0

	emit := func(line string) {
		lines = append(lines, line)
		if w := stringWidth(font, line); w > maxWidth {
			maxWidth = w
		}
	}

	start := 0
	for start <= len(s) {
		i := start
		w := 0
		lastSpace := -1
		hardBreak := false
		for i < len(s) {
			ch := s[i]
			if ch == '\r' {
				hardBreak = true
				break
			}
			cw := font.CharWidth(ch)
			if w+cw > maxW {
				// A space that overflows is itself the break point;
				// it gets dropped at the wrap regardless.
				if ch == ' ' {
					lastSpace = i
				}
				break
			}
			if ch == ' ' {
				lastSpace = i
			}
			w += cw
			i++
		}
		switch {
		case i == len(s):
			emit(s[start:i])
			return lines, maxWidth
		case hardBreak:
			emit(s[start:i])
			start = i + 1
			if start == len(s) {
				// Trailing CR still yields its empty line.
				emit("")
				return lines, maxWidth
			}
		case lastSpace >= start:
			emit(s[start:lastSpace])
			start = lastSpace + 1
		default:
			// No usable space on this line; the word stays whole and
			// overruns. Splitting it would break the one-char accounting.
			for i < len(s) && s[i] != ' ' && s[i] != '\r' {
				i++
			}
			emit(s[start:i])
			if i == len(s) {
				return lines, maxWidth
			}
			start = i + 1
		}
	}
	return lines, maxWidth
}

// lineOffsets returns the offset of each wrapped line's first char within
// s, plus len(s) as a final entry. Offsets are rebuilt from line lengths
// with the one-char break accounting, mirroring how the selection code
// walks the string.
func lineOffsets(s string, lines []string) []int {
	offs := make([]int, 0, len(lines)+1)
	off := 0
	for _, l := range lines {
		offs = append(offs, off)
		off += len(l) + 1
	}
	offs = append(offs, len(s))
	return offs
}

// drawStringAligned draws one laid-out line either left-aligned or
// centered within a width pixels wide box starting at x.
func drawStringAligned(font Font, dst *Surface, s string, x, y, width int, color byte, center bool) {
	if center {
		x += (width - stringWidth(font, s)) / 2
	}
	font.DrawString(dst, s, x, y, color)
}
