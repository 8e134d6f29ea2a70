package main

// Font supplies the per-character pixel metrics the dialog layout engine
// works in, plus glyph drawing into a surface. Dialog strings are byte
// oriented; anything outside printable ASCII advances like a space.
type Font interface {
	Height() int
	CharWidth(ch byte) int
	MaxCharWidth() int
	DrawString(dst *Surface, s string, x, y int, color byte)
}

// Dialog font size classes. Zero picks the regular proportional face.
const (
	fontSizeDefault = 0
	fontSizeBig     = 1
	fontSizeTiny    = 3
)

var (
	fontGame = newBitmapFont(8, 8, false)
	fontBig  = newBitmapFont(8, 8, true)
	fontTiny = newBitmapFont(4, 5, true)
)

func fontForSize(size byte) Font {
	switch size {
	case fontSizeBig:
		return fontBig
	case fontSizeTiny:
		return fontTiny
	default:
		return fontGame
	}
}

// bitmapFont renders from the 8x8 glyph table, optionally resampled to a
// smaller cell. Proportional faces trim empty glyph columns.
type bitmapFont struct {
	cellW, cellH int
	fixed        bool
	left         [96]uint8
	width        [96]uint8
}

func newBitmapFont(cellW, cellH int, fixed bool) *bitmapFont {
	f := &bitmapFont{cellW: cellW, cellH: cellH, fixed: fixed}
	for g := range glyphs8x8 {
		lo, hi := 7, 0
		for _, row := range glyphs8x8[g] {
			for col := 0; col < 8; col++ {
				if row&(0x80>>col) == 0 {
					continue
				}
				if col < lo {
					lo = col
				}
				if col > hi {
					hi = col
				}
			}
		}
		if hi < lo {
			// Blank glyph, space sized.
			f.left[g] = 0
			f.width[g] = uint8(cellW / 2)
			continue
		}
		f.left[g] = uint8(lo)
		f.width[g] = uint8((hi-lo+1)*cellW/8 + 1)
	}
	return f
}

func (f *bitmapFont) Height() int { return f.cellH }

func (f *bitmapFont) MaxCharWidth() int { return f.cellW }

func (f *bitmapFont) CharWidth(ch byte) int {
	if f.fixed {
		return f.cellW
	}
	if ch < 0x20 || ch > 0x7e {
		return int(f.width[0])
	}
	return int(f.width[ch-0x20])
}

func (f *bitmapFont) DrawString(dst *Surface, s string, x, y int, color byte) {
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if ch < 0x20 || ch > 0x7e {
			x += f.CharWidth(' ')
			continue
		}
		f.drawGlyph(dst, ch, x, y, color)
		x += f.CharWidth(ch)
	}
}

func (f *bitmapFont) drawGlyph(dst *Surface, ch byte, x, y int, color byte) {
	g := ch - 0x20
	shift := 0
	if !f.fixed {
		shift = int(f.left[g])
	}
	for dy := 0; dy < f.cellH; dy++ {
		row := glyphs8x8[g][dy*8/f.cellH]
		for dx := 0; dx < f.cellW; dx++ {
			col := dx*8/f.cellW + shift
			if col > 7 {
				break
			}
			if row&(0x80>>col) != 0 {
				dst.Set(x+dx, y+dy, color)
			}
		}
	}
}

// glyphs8x8 holds printable ASCII 0x20..0x7e, one byte per row, bit 7 the
// leftmost pixel. The shapes follow the classic PC text mode face.
var glyphs8x8 = [95][8]byte{
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, // space
	{0x18, 0x18, 0x18, 0x18, 0x18, 0x00, 0x18, 0x00}, // !
	{0x6c, 0x6c, 0x48, 0x00, 0x00, 0x00, 0x00, 0x00}, // "
	{0x6c, 0x6c, 0xfe, 0x6c, 0xfe, 0x6c, 0x6c, 0x00}, // #
	{0x18, 0x7e, 0xc0, 0x7c, 0x06, 0xfc, 0x18, 0x00}, // $
	{0x00, 0xc6, 0xcc, 0x18, 0x30, 0x66, 0xc6, 0x00}, // %
	{0x38, 0x6c, 0x38, 0x76, 0xdc, 0xcc, 0x76, 0x00}, // &
	{0x18, 0x18, 0x30, 0x00, 0x00, 0x00, 0x00, 0x00}, // '
	{0x0c, 0x18, 0x30, 0x30, 0x30, 0x18, 0x0c, 0x00}, // (
	{0x30, 0x18, 0x0c, 0x0c, 0x0c, 0x18, 0x30, 0x00}, // )
	{0x00, 0x66, 0x3c, 0xff, 0x3c, 0x66, 0x00, 0x00}, // *
	{0x00, 0x18, 0x18, 0x7e, 0x18, 0x18, 0x00, 0x00}, // +
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x18, 0x30}, // ,
	{0x00, 0x00, 0x00, 0x7e, 0x00, 0x00, 0x00, 0x00}, // -
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x18, 0x18, 0x00}, // .
	{0x06, 0x0c, 0x18, 0x30, 0x60, 0xc0, 0x80, 0x00}, // /
	{0x7c, 0xc6, 0xce, 0xd6, 0xe6, 0xc6, 0x7c, 0x00}, // 0
	{0x18, 0x38, 0x18, 0x18, 0x18, 0x18, 0x7e, 0x00}, // 1
	{0x7c, 0xc6, 0x06, 0x1c, 0x30, 0x66, 0xfe, 0x00}, // 2
	{0x7c, 0xc6, 0x06, 0x3c, 0x06, 0xc6, 0x7c, 0x00}, // 3
	{0x1c, 0x3c, 0x6c, 0xcc, 0xfe, 0x0c, 0x1e, 0x00}, // 4
	{0xfe, 0xc0, 0xc0, 0xfc, 0x06, 0xc6, 0x7c, 0x00}, // 5
	{0x38, 0x60, 0xc0, 0xfc, 0xc6, 0xc6, 0x7c, 0x00}, // 6
	{0xfe, 0xc6, 0x0c, 0x18, 0x30, 0x30, 0x30, 0x00}, // 7
	{0x7c, 0xc6, 0xc6, 0x7c, 0xc6, 0xc6, 0x7c, 0x00}, // 8
	{0x7c, 0xc6, 0xc6, 0x7e, 0x06, 0x0c, 0x78, 0x00}, // 9
	{0x00, 0x18, 0x18, 0x00, 0x00, 0x18, 0x18, 0x00}, // :
	{0x00, 0x18, 0x18, 0x00, 0x00, 0x18, 0x18, 0x30}, // ;
	{0x06, 0x0c, 0x18, 0x30, 0x18, 0x0c, 0x06, 0x00}, // <
	{0x00, 0x00, 0x7e, 0x00, 0x00, 0x7e, 0x00, 0x00}, // =
	{0x60, 0x30, 0x18, 0x0c, 0x18, 0x30, 0x60, 0x00}, // >
	{0x7c, 0xc6, 0x0c, 0x18, 0x18, 0x00, 0x18, 0x00}, // ?
	{0x7c, 0xc6, 0xde, 0xde, 0xde, 0xc0, 0x78, 0x00}, // @
	{0x38, 0x6c, 0xc6, 0xc6, 0xfe, 0xc6, 0xc6, 0x00}, // A
	{0xfc, 0x66, 0x66, 0x7c, 0x66, 0x66, 0xfc, 0x00}, // B
	{0x3c, 0x66, 0xc0, 0xc0, 0xc0, 0x66, 0x3c, 0x00}, // C
	{0xf8, 0x6c, 0x66, 0x66, 0x66, 0x6c, 0xf8, 0x00}, // D
	{0xfe, 0x62, 0x68, 0x78, 0x68, 0x62, 0xfe, 0x00}, // E
	{0xfe, 0x62, 0x68, 0x78, 0x68, 0x60, 0xf0, 0x00}, // F
	{0x3c, 0x66, 0xc0, 0xc0, 0xce, 0x66, 0x3e, 0x00}, // G
	{0xc6, 0xc6, 0xc6, 0xfe, 0xc6, 0xc6, 0xc6, 0x00}, // H
	{0x3c, 0x18, 0x18, 0x18, 0x18, 0x18, 0x3c, 0x00}, // I
	{0x1e, 0x0c, 0x0c, 0x0c, 0xcc, 0xcc, 0x78, 0x00}, // J
	{0xe6, 0x66, 0x6c, 0x78, 0x6c, 0x66, 0xe6, 0x00}, // K
	{0xf0, 0x60, 0x60, 0x60, 0x62, 0x66, 0xfe, 0x00}, // L
	{0xc6, 0xee, 0xfe, 0xfe, 0xd6, 0xc6, 0xc6, 0x00}, // M
	{0xc6, 0xe6, 0xf6, 0xde, 0xce, 0xc6, 0xc6, 0x00}, // N
	{0x7c, 0xc6, 0xc6, 0xc6, 0xc6, 0xc6, 0x7c, 0x00}, // O
	{0xfc, 0x66, 0x66, 0x7c, 0x60, 0x60, 0xf0, 0x00}, // P
	{0x7c, 0xc6, 0xc6, 0xc6, 0xc6, 0xce, 0x7c, 0x0e}, // Q
	{0xfc, 0x66, 0x66, 0x7c, 0x6c, 0x66, 0xe6, 0x00}, // R
	{0x7c, 0xc6, 0x60, 0x38, 0x0c, 0xc6, 0x7c, 0x00}, // S
	{0x7e, 0x7e, 0x5a, 0x18, 0x18, 0x18, 0x3c, 0x00}, // T
	{0xc6, 0xc6, 0xc6, 0xc6, 0xc6, 0xc6, 0x7c, 0x00}, // U
	{0xc6, 0xc6, 0xc6, 0xc6, 0xc6, 0x6c, 0x38, 0x00}, // V
	{0xc6, 0xc6, 0xc6, 0xd6, 0xfe, 0xee, 0xc6, 0x00}, // W
	{0xc6, 0x6c, 0x38, 0x38, 0x38, 0x6c, 0xc6, 0x00}, // X
	{0x66, 0x66, 0x66, 0x3c, 0x18, 0x18, 0x3c, 0x00}, // Y
	{0xfe, 0xc6, 0x8c, 0x18, 0x32, 0x66, 0xfe, 0x00}, // Z
	{0x3c, 0x30, 0x30, 0x30, 0x30, 0x30, 0x3c, 0x00}, // [
	{0xc0, 0x60, 0x30, 0x18, 0x0c, 0x06, 0x02, 0x00}, // backslash
	{0x3c, 0x0c, 0x0c, 0x0c, 0x0c, 0x0c, 0x3c, 0x00}, // ]
	{0x10, 0x38, 0x6c, 0xc6, 0x00, 0x00, 0x00, 0x00}, // ^
	{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0xff}, // _
	{0x30, 0x18, 0x0c, 0x00, 0x00, 0x00, 0x00, 0x00}, // `
	{0x00, 0x00, 0x78, 0x0c, 0x7c, 0xcc, 0x76, 0x00}, // a
	{0xe0, 0x60, 0x7c, 0x66, 0x66, 0x66, 0xdc, 0x00}, // b
	{0x00, 0x00, 0x7c, 0xc6, 0xc0, 0xc6, 0x7c, 0x00}, // c
	{0x1c, 0x0c, 0x7c, 0xcc, 0xcc, 0xcc, 0x76, 0x00}, // d
	{0x00, 0x00, 0x7c, 0xc6, 0xfe, 0xc0, 0x7c, 0x00}, // e
	{0x3c, 0x66, 0x60, 0xf8, 0x60, 0x60, 0xf0, 0x00}, // f
	{0x00, 0x00, 0x76, 0xcc, 0xcc, 0x7c, 0x0c, 0xf8}, // g
	{0xe0, 0x60, 0x6c, 0x76, 0x66, 0x66, 0xe6, 0x00}, // h
	{0x18, 0x00, 0x38, 0x18, 0x18, 0x18, 0x3c, 0x00}, // i
	{0x06, 0x00, 0x0e, 0x06, 0x06, 0x66, 0x66, 0x3c}, // j
	{0xe0, 0x60, 0x66, 0x6c, 0x78, 0x6c, 0xe6, 0x00}, // k
	{0x38, 0x18, 0x18, 0x18, 0x18, 0x18, 0x3c, 0x00}, // l
	{0x00, 0x00, 0xec, 0xfe, 0xd6, 0xd6, 0xd6, 0x00}, // m
	{0x00, 0x00, 0xdc, 0x66, 0x66, 0x66, 0x66, 0x00}, // n
	{0x00, 0x00, 0x7c, 0xc6, 0xc6, 0xc6, 0x7c, 0x00}, // o
	{0x00, 0x00, 0xdc, 0x66, 0x66, 0x7c, 0x60, 0xf0}, // p
	{0x00, 0x00, 0x76, 0xcc, 0xcc, 0x7c, 0x0c, 0x1e}, // q
	{0x00, 0x00, 0xdc, 0x76, 0x60, 0x60, 0xf0, 0x00}, // r
	{0x00, 0x00, 0x7e, 0xc0, 0x7c, 0x06, 0xfc, 0x00}, // s
	{0x30, 0x30, 0xfc, 0x30, 0x30, 0x36, 0x1c, 0x00}, // t
	{0x00, 0x00, 0xcc, 0xcc, 0xcc, 0xcc, 0x76, 0x00}, // u
	{0x00, 0x00, 0xc6, 0xc6, 0xc6, 0x6c, 0x38, 0x00}, // v
	{0x00, 0x00, 0xc6, 0xd6, 0xd6, 0xfe, 0x6c, 0x00}, // w
	{0x00, 0x00, 0xc6, 0x6c, 0x38, 0x6c, 0xc6, 0x00}, // x
	{0x00, 0x00, 0xc6, 0xc6, 0xc6, 0x7e, 0x06, 0xfc}, // y
	{0x00, 0x00, 0x7e, 0x4c, 0x18, 0x32, 0x7e, 0x00}, // z
	{0x0e, 0x18, 0x18, 0x70, 0x18, 0x18, 0x0e, 0x00}, // {
	{0x18, 0x18, 0x18, 0x00, 0x18, 0x18, 0x18, 0x00}, // |
	{0x70, 0x18, 0x18, 0x0e, 0x18, 0x18, 0x70, 0x00}, // }
	{0x76, 0xdc, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}, // ~
}
