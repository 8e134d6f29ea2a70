package main

// Rect is a pixel rectangle in screen space. Width or height of zero means
// an empty rect; hit tests on an empty rect always miss.
type Rect struct {
	X, Y, W, H int
}

func (r Rect) Contains(x, y int) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

func (r Rect) Right() int  { return r.X + r.W }
func (r Rect) Bottom() int { return r.Y + r.H }

func (r Rect) Empty() bool { return r.W <= 0 || r.H <= 0 }

// Surface is an 8-bit paletted pixel buffer. All scene composition happens
// on surfaces; the palette is applied once per frame when the finished
// composition is pushed to the window.
type Surface struct {
	W, H int
	Pix  []byte
}

func newSurface(w, h int) *Surface {
	return &Surface{W: w, H: h, Pix: make([]byte, w*h)}
}

func (s *Surface) At(x, y int) byte {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return 0
	}
	return s.Pix[y*s.W+x]
}

func (s *Surface) Set(x, y int, color byte) {
	if x < 0 || y < 0 || x >= s.W || y >= s.H {
		return
	}
	s.Pix[y*s.W+x] = color
}

func (s *Surface) Fill(color byte) {
	for i := range s.Pix {
		s.Pix[i] = color
	}
}

func (s *Surface) clip(r Rect) Rect {
	if r.X < 0 {
		r.W += r.X
		r.X = 0
	}
	if r.Y < 0 {
		r.H += r.Y
		r.Y = 0
	}
	if r.X+r.W > s.W {
		r.W = s.W - r.X
	}
	if r.Y+r.H > s.H {
		r.H = s.H - r.Y
	}
	return r
}

func (s *Surface) FillRect(r Rect, color byte) {
	r = s.clip(r)
	if r.Empty() {
		return
	}
	for y := r.Y; y < r.Y+r.H; y++ {
		row := s.Pix[y*s.W+r.X : y*s.W+r.X+r.W]
		for i := range row {
			row[i] = color
		}
	}
}

// FrameRect draws a 1px outline just inside r.
func (s *Surface) FrameRect(r Rect, color byte) {
	if r.Empty() {
		return
	}
	s.FillRect(Rect{r.X, r.Y, r.W, 1}, color)
	s.FillRect(Rect{r.X, r.Y + r.H - 1, r.W, 1}, color)
	s.FillRect(Rect{r.X, r.Y, 1, r.H}, color)
	s.FillRect(Rect{r.X + r.W - 1, r.Y, 1, r.H}, color)
}

// FillEllipse paints a filled ellipse centered on (cx, cy) by scanline,
// matching the chunky look of the original circle fills.
func (s *Surface) FillEllipse(cx, cy, rx, ry int, color byte) {
	if rx <= 0 || ry <= 0 {
		return
	}
	for dy := -ry; dy <= ry; dy++ {
		rem := ry*ry - dy*dy
		if rem < 0 {
			continue
		}
		dx := rx * isqrt(rem) / ry
		s.FillRect(Rect{cx - dx, cy + dy, 2*dx + 1, 1}, color)
	}
}

// OutlineEllipse traces the ellipse rim one pixel wide.
func (s *Surface) OutlineEllipse(cx, cy, rx, ry int, color byte) {
	if rx <= 0 || ry <= 0 {
		return
	}
	prev := 0
	for dy := 0; dy <= ry; dy++ {
		rem := ry*ry - dy*dy
		if rem < 0 {
			continue
		}
		dx := rx * isqrt(rem) / ry
		if dy == ry {
			// Caps close the top and bottom rows.
			s.FillRect(Rect{cx - prev, cy - dy, 2*prev + 1, 1}, color)
			s.FillRect(Rect{cx - prev, cy + dy, 2*prev + 1, 1}, color)
			continue
		}
		if dy == 0 {
			s.Set(cx-dx, cy, color)
			s.Set(cx+dx, cy, color)
		} else {
			// Bridge the horizontal gap where the rim steps inward.
			step := prev - dx
			if step < 1 {
				step = 1
			}
			for _, sy := range []int{cy - dy, cy + dy} {
				s.FillRect(Rect{cx - dx - (step - 1), sy, step, 1}, color)
				s.FillRect(Rect{cx + dx, sy, step, 1}, color)
			}
		}
		prev = dx
	}
}

// roundInset gives the horizontal inset of a rounded corner row.
func roundInset(radius, dy int) int {
	k := radius - dy
	if k <= 0 {
		return 0
	}
	rem := radius*radius - k*k
	return radius - isqrt(rem)
}

// FillRoundRect fills r with corners rounded by radius. A radius of half
// the height makes a stadium shape.
func (s *Surface) FillRoundRect(r Rect, radius int, color byte) {
	if r.Empty() {
		return
	}
	for dy := 0; dy < r.H; dy++ {
		inset := 0
		if dy < radius {
			inset = roundInset(radius, dy)
		} else if dy >= r.H-radius {
			inset = roundInset(radius, r.H-1-dy)
		}
		s.FillRect(Rect{r.X + inset, r.Y + dy, r.W - 2*inset, 1}, color)
	}
}

// OutlineRoundRect traces the rounded rect rim one pixel wide.
func (s *Surface) OutlineRoundRect(r Rect, radius int, color byte) {
	if r.Empty() {
		return
	}
	prev := -1
	for dy := 0; dy < r.H; dy++ {
		inset := 0
		if dy < radius {
			inset = roundInset(radius, dy)
		} else if dy >= r.H-radius {
			inset = roundInset(radius, r.H-1-dy)
		}
		if dy == 0 || dy == r.H-1 {
			s.FillRect(Rect{r.X + inset, r.Y + dy, r.W - 2*inset, 1}, color)
		} else {
			run := 1
			if prev >= 0 && prev-inset > 1 {
				run = prev - inset
			} else if prev >= 0 && inset-prev > 1 {
				run = inset - prev
			}
			s.FillRect(Rect{r.X + inset, r.Y + dy, run, 1}, color)
			s.FillRect(Rect{r.X + r.W - inset - run, r.Y + dy, run, 1}, color)
		}
		prev = inset
	}
}

// FillVGradient fills r with a vertical color ramp starting at startCol,
// stepping one palette slot per band. Frame backgrounds use low palette
// runs laid out as ramps.
func (s *Surface) FillVGradient(r Rect, startCol byte) {
	if r.Empty() {
		return
	}
	const bands = 8
	bandH := r.H / bands
	if bandH < 1 {
		bandH = 1
	}
	for dy := 0; dy < r.H; dy++ {
		step := dy / bandH
		if step > bands-1 {
			step = bands - 1
		}
		s.FillRect(Rect{r.X, r.Y + dy, r.W, 1}, startCol+byte(step))
	}
}

func isqrt(n int) int {
	if n <= 0 {
		return 0
	}
	x := n
	y := (x + 1) / 2
	for y < x {
		x = y
		y = (x + n/x) / 2
	}
	return x
}

// CopyFrom replaces the whole buffer with src. Both surfaces must share
// dimensions; mismatches are a programming error and copy nothing.
func (s *Surface) CopyFrom(src *Surface) {
	if src == nil || src.W != s.W || src.H != s.H {
		return
	}
	copy(s.Pix, src.Pix)
}

// TransBlitFrom copies src over s treating color 0 as transparent. The
// stored-area buffer rides on this: untouched pixels stay 0 and let the
// background show through.
func (s *Surface) TransBlitFrom(src *Surface) {
	if src == nil || src.W != s.W || src.H != s.H {
		return
	}
	for i, c := range src.Pix {
		if c != 0 {
			s.Pix[i] = c
		}
	}
}

// ToRGBA expands the paletted pixels into the given RGBA scratch buffer
// (4 bytes per pixel) for the window upload.
func (s *Surface) ToRGBA(pal *Palette, dst []byte) {
	for i, c := range s.Pix {
		r, g, b := pal.RGB(c)
		o := i * 4
		dst[o] = r
		dst[o+1] = g
		dst[o+2] = b
		dst[o+3] = 0xff
	}
}
