package main

import "testing"

func TestWrapTextBreaksAtSpaces(t *testing.T) {
	// fontTiny is fixed width 4, so 12 pixels fit exactly three chars.
	lines, maxWidth := wrapText("aaa bb ccc", 12, fontTiny)
	want := []string{"aaa", "bb", "ccc"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %#v", len(want), lines)
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d: expected %q, got %q", i, want[i], lines[i])
		}
	}
	if maxWidth != 12 {
		t.Fatalf("expected max width 12, got %d", maxWidth)
	}
}

func TestWrapTextHardBreaks(t *testing.T) {
	lines, _ := wrapText("ab\r\rcd", 100, fontTiny)
	want := []string{"ab", "", "cd"}
	if len(lines) != 3 || lines[0] != "ab" || lines[1] != "" || lines[2] != "cd" {
		t.Fatalf("expected %v, got %#v", want, lines)
	}

	// A trailing CR still yields its empty line.
	lines, _ = wrapText("ab\r", 100, fontTiny)
	if len(lines) != 2 || lines[0] != "ab" || lines[1] != "" {
		t.Fatalf("trailing CR: expected [ab \"\"], got %#v", lines)
	}
}

// A word wider than the box is never hyphenated; it takes a line of its
// own and overruns the width, keeping the offset accounting intact.
func TestWrapTextOverlongWordStandsAlone(t *testing.T) {
	lines, maxWidth := wrapText("abcdefgh ij", 12, fontTiny)
	if len(lines) != 2 || lines[0] != "abcdefgh" || lines[1] != "ij" {
		t.Fatalf("expected [abcdefgh ij], got %#v", lines)
	}
	if maxWidth != 32 {
		t.Fatalf("expected the overlong line's width 32, got %d", maxWidth)
	}

	offs := lineOffsets("abcdefgh ij", lines)
	if len(offs) != 3 || offs[0] != 0 || offs[1] != 9 || offs[2] != 11 {
		t.Fatalf("offsets %v, want [0 9 11]", offs)
	}

	// A CR right after the overlong word is the break char for its line.
	lines, _ = wrapText("abcdefgh\rcd", 12, fontTiny)
	if len(lines) != 2 || lines[0] != "abcdefgh" || lines[1] != "cd" {
		t.Fatalf("CR after overlong word: got %#v", lines)
	}

	lines, _ = wrapText("abcdefgh", 12, fontTiny)
	if len(lines) != 1 || lines[0] != "abcdefgh" {
		t.Fatalf("lone overlong word: got %#v", lines)
	}
}

func TestWrapTextWidthBound(t *testing.T) {
	// Every word here fits the narrowest width, so no line may overrun.
	s := "the quick brown fox jumps over the lazy dog"
	for _, maxW := range []int{24, 40, 80} {
		lines, maxWidth := wrapText(s, maxW, fontTiny)
		if maxWidth > maxW {
			t.Fatalf("maxW %d: widest line %d exceeds bound", maxW, maxWidth)
		}
		for i, line := range lines {
			if w := stringWidth(fontTiny, line); w > maxW {
				t.Fatalf("maxW %d: line %d %q is %d wide", maxW, i, line, w)
			}
		}
	}
}

// Each wrapped line accounts for len(line)+1 chars of the original string,
// the extra one being the space or CR that caused the break. Offsets
// rebuilt from that rule must point at the right chars.
func TestLineOffsetsAccounting(t *testing.T) {
	s := "Pick a direction.\rGo north\rGo south"
	lines, _ := wrapText(s, 1000, fontTiny)
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %#v", lines)
	}

	offs := lineOffsets(s, lines)
	if len(offs) != len(lines)+1 {
		t.Fatalf("expected %d offsets, got %d", len(lines)+1, len(offs))
	}
	if offs[len(offs)-1] != len(s) {
		t.Fatalf("final offset %d, want len(s)=%d", offs[len(offs)-1], len(s))
	}
	for i, line := range lines {
		if offs[i+1] <= offs[i] {
			t.Fatalf("offsets not increasing at %d: %v", i, offs)
		}
		if got := s[offs[i] : offs[i]+len(line)]; got != line {
			t.Fatalf("offset %d points at %q, want %q", offs[i], got, line)
		}
	}
	if offs[1] != 18 || offs[2] != 27 {
		t.Fatalf("expected line starts 18 and 27, got %v", offs)
	}
}

func TestWrapTextNarrowSpaceOverflow(t *testing.T) {
	// The space itself overflows the line; it is the break point and gets
	// dropped, never carried onto the next line.
	lines, _ := wrapText("abc de", 12, fontTiny)
	if len(lines) != 2 || lines[0] != "abc" || lines[1] != "de" {
		t.Fatalf("expected [abc de], got %#v", lines)
	}
}
