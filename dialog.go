package main

import (
	"math"
	"strings"
)

// Dialog frame styles. The set is closed; scene data carrying anything
// else is rejected at load.
const (
	dlgFramePlain   = 1
	dlgFrameBorder  = 2
	dlgFrameThought = 3
	dlgFrameRounded = 4
)

// Dialog flags. The low word comes from scene data, the high word is
// runtime state. A few high bits appear in old save files without a
// known meaning and are carried as-is.
const (
	dlgFlagFlatBg   uint32 = 0x1
	dlgFlagLeftJust uint32 = 0x2

	dlgFlagFinished        uint32 = 0x10000
	dlgFlagRedrawSelection uint32 = 0x20000
	dlgFlagVisible         uint32 = 0x800000

	dlgFlagRuntimeClear uint32 = 0xf30000
)

// Draw stages. Background paints the frame and fixes the content rect,
// the two find stages run layout math without painting, foreground paints
// the wrapped text.
type dialogDrawStage int

const (
	stageBackground dialogDrawStage = iota
	stageFindSelectionXY
	stageFindSelectionTxtOffset
	stageForeground
)

// DialogAction is a selectable span of the dialog string plus the script
// ops to run when it is picked. Start and end are inclusive byte offsets
// into Str.
type DialogAction struct {
	StrStart int          `yaml:"start"`
	StrEnd   int          `yaml:"end"`
	Ops      []SceneOp    `yaml:"ops,omitempty"`
}

// DialogState is the transient part of a shown dialog. It exists from the
// first draw until the dialog clears; a nil state means never drawn.
type DialogState struct {
	hideTime    uint32
	lastMouseX  int
	lastMouseY  int
	charWidth   int
	charHeight  int
	strMouseLoc int
	loc         Rect

	// Index into the dialog's actions, -1 when nothing is selected.
	selectedAction int
}

func (st *DialogState) syncState(s *Serializer) {
	s.SyncU32(&st.hideTime)
	syncIntAsS16(s, &st.lastMouseX)
	syncIntAsS16(s, &st.lastMouseY)
	syncIntAsU16(s, &st.charWidth)
	syncIntAsU16(s, &st.charHeight)
	syncIntAsU32(s, &st.strMouseLoc)
	syncIntAsU16(s, &st.loc.X)
	syncIntAsU16(s, &st.loc.Y)
	syncIntAsU16(s, &st.loc.W)
	syncIntAsU16(s, &st.loc.H)
}

// Dialog is a modal text box defined by scene data, optionally holding
// selectable action spans.
type Dialog struct {
	Num             uint16         `yaml:"num"`
	FileNum         uint16         `yaml:"fileNum"`
	Rect            Rect           `yaml:"rect"`
	BgColor         byte           `yaml:"bgColor"`
	FontColor       byte           `yaml:"fontColor"`
	SelectionBgCol  byte           `yaml:"selectionBgColor"`
	SelectedFontCol byte           `yaml:"selectedColor"`
	FontSize        byte           `yaml:"fontSize"`
	Flags           uint32         `yaml:"flags"`
	FrameType       byte           `yaml:"frameType"`
	Time            uint16         `yaml:"time"`
	NextFileNum     uint16         `yaml:"nextFileNum,omitempty"`
	NextDlgNum      uint16         `yaml:"nextDlgNum,omitempty"`
	Actions         []DialogAction `yaml:"actions,omitempty"`
	Str             string         `yaml:"text"`
	RawText         []byte         `yaml:"textRaw,omitempty"`

	state *DialogState
}

// SelectionContext tracks which dialog last moved its selection and where
// it landed. The scene controller threads one context through every
// selection change instead of keeping shared ambient state.
type SelectionContext struct {
	owner *Dialog
	index int
}

func (d *Dialog) hasFlag(f uint32) bool { return d.Flags&f != 0 }
func (d *Dialog) setFlag(f uint32)      { d.Flags |= f }
func (d *Dialog) clearFlag(f uint32)    { d.Flags &^= f }

// ensureState creates the transient state on first use. The dialog owns
// it exclusively; clear drops it.
func (d *Dialog) ensureState() *DialogState {
	if d.state == nil {
		d.state = &DialogState{selectedAction: -1}
	}
	return d.state
}

// clear hides the dialog, drops its runtime flags and forgets the
// transient state.
func (d *Dialog) clear() {
	d.clearFlag(dlgFlagRuntimeClear)
	d.state = nil
}

func (d *Dialog) font() Font { return fontForSize(d.FontSize) }

// draw runs one stage of the staged draw protocol. The find stages only
// do layout math; dst may be nil for those.
func (d *Dialog) draw(e *Engine, dst *Surface, stage dialogDrawStage) {
	d.ensureState()
	switch d.FrameType {
	case dlgFramePlain:
		d.drawPlain(e, dst, stage)
	case dlgFrameBorder:
		d.drawBordered(e, dst, stage)
	case dlgFrameThought:
		d.drawThought(e, dst, stage)
	case dlgFrameRounded:
		d.drawRounded(e, dst, stage)
	default:
		// Scene data validation rejects unknown frames; recover anyway.
		logWarnEvery("dlgframe", "dialog %d: unknown frame type %d", d.Num, d.FrameType)
		d.drawPlain(e, dst, stage)
	}
}

// Plain box: bg colored frame with a one pixel inset panel.
func (d *Dialog) drawPlain(e *Engine, dst *Surface, stage dialogDrawStage) {
	x, y, w, h := d.Rect.X, d.Rect.Y, d.Rect.W, d.Rect.H
	switch stage {
	case stageBackground:
		dst.FillRect(Rect{x, y, w, h}, d.BgColor)
		dst.FillRect(Rect{x + 1, y + 1, w - 2, h - 2}, d.FontColor)
	case stageFindSelectionXY:
		d.findSelectionXY()
	case stageFindSelectionTxtOffset:
		d.findSelectionTxtOffset()
	default:
		d.state.loc = Rect{x + 3, y + 3, w - 6, h - 6}
		d.drawForeground(dst, d.BgColor, d.Str)
	}
}

// Bordered box with an optional title. Everything before the first colon
// is the title; a CR right after the colon is dropped so the body does
// not start with a blank line.
func (d *Dialog) drawBordered(e *Engine, dst *Surface, stage dialogDrawStage) {
	title := ""
	txt := d.Str
	if colon := strings.IndexByte(d.Str, ':'); colon >= 0 {
		title = d.Str[:colon]
		txt = d.Str[colon+1:]
		if len(txt) > 0 && txt[0] == '\r' {
			txt = txt[1:]
		}
	}

	switch stage {
	case stageBackground:
		if e.variant.DragonFrames {
			d.drawBorderedDragon(dst, title)
		} else {
			d.drawBorderedChina(dst, title)
		}
	case stageFindSelectionXY:
		d.findSelectionXY()
	case stageFindSelectionTxtOffset:
		d.findSelectionTxtOffset()
	default:
		d.drawForeground(dst, d.FontColor, txt)
	}
}

func (d *Dialog) drawBorderedDragon(dst *Surface, title string) {
	st := d.state
	st.loc = Rect{d.Rect.X + 6, d.Rect.Y + 6, d.Rect.W - 12, d.Rect.H - 12}
	dst.FillVGradient(d.Rect, 0)
	drawFrameCorners(dst, d.Rect, true)
	if title != "" {
		st.loc.Y += 10
		st.loc.H -= 10
		drawFrameHeader(dst, d.Rect, 4, title, 0, true)
	}

	if d.hasFlag(dlgFlagFlatBg) {
		dst.FillRect(st.loc, 0)
	} else {
		dst.FillVGradient(st.loc, 6)
	}
	drawFrameCorners(dst, Rect{st.loc.X - 2, st.loc.Y - 2, st.loc.W + 4, st.loc.H + 4}, true)

	st.loc.X += 8
	st.loc.W -= 16
}

func (d *Dialog) drawBorderedChina(dst *Surface, title string) {
	st := d.state
	st.loc = Rect{d.Rect.X + 12, d.Rect.Y + 10, d.Rect.W - 24, d.Rect.H - 20}
	if title == "" {
		dst.FillVGradient(d.Rect, 0)
		drawFrameCorners(dst, d.Rect, false)
		return
	}
	dst.FillRect(d.Rect, 0)
	drawFrameCorners(dst, d.Rect, true)
	st.loc.Y += 11
	st.loc.H -= 11
	drawFrameHeader(dst, d.Rect, 2, title, d.FontColor, false)
}

// Thought bubble: a ring of ellipses sized to the box, hollowed out with
// two fill rects, plus two pointer circles trailing toward the speaker.
// Ellipses are 5/4 wider than tall because the original pixels were not
// square.
func (d *Dialog) drawThought(e *Engine, dst *Surface, stage dialogDrawStage) {
	switch stage {
	case stageFindSelectionXY:
		d.findSelectionXY()
		return
	case stageFindSelectionTxtOffset:
		d.findSelectionTxtOffset()
		return
	case stageForeground:
		d.drawForeground(dst, d.FontColor, d.Str)
		return
	}

	usableY := d.Rect.H - 31
	usableX := d.Rect.W - 30

	// Pick the y radius leaving the least slack in both axes, preferring
	// larger circles once everything under 20 would only repeat choices.
	bestScore := math.MaxInt32
	yradius := 40
	for try := 40; try != 0; try-- {
		tryX := try * 5 / 4
		if usableX/tryX > 2 && usableY/try > 2 {
			score := usableX%tryX + usableY%try
			if score < bestScore {
				bestScore = score
				yradius = try
			}
		}
		if try < 20 && bestScore != math.MaxInt32 {
			break
		}
	}

	xradius := yradius * 5 / 4
	circlesAcross := usableX/xradius - 1
	circlesDown := usableY/yradius - 1

	x := d.Rect.X + xradius
	y := d.Rect.Y + yradius

	isBig := d.Rect.X+d.Rect.W/2 > 160
	if isBig {
		x += 30
	}

	fgCol, bgCol := byte(0), byte(15)
	if d.hasFlag(dlgFlagFlatBg) {
		bgCol = d.BgColor
		fgCol = d.FontColor
	}

	circle := func(cx, cy, rx, ry int) {
		dst.FillEllipse(cx, cy, rx, ry, bgCol)
		dst.OutlineEllipse(cx, cy, rx, ry, fgCol)
	}

	for i := 1; i < circlesDown; i++ {
		circle(x, y, xradius, yradius)
		y += yradius
	}
	for i := 1; i < circlesAcross; i++ {
		circle(x, y, xradius, yradius)
		x += xradius
	}
	for i := 1; i < circlesDown; i++ {
		circle(x, y, xradius, yradius)
		y -= yradius
	}
	for i := 1; i < circlesAcross; i++ {
		circle(x, y, xradius, yradius)
		x -= xradius
	}

	var smallX int
	if isBig {
		circle(x-xradius-5, y+circlesDown*yradius+5, 10, 8)
		smallX = x - xradius - 20
	} else {
		circle(x+circlesAcross*xradius+5, y+circlesDown*yradius+5, 10, 8)
		smallX = x + circlesAcross*xradius + 20
	}
	circle(smallX, y+circlesDown*yradius+25, 5, 4)

	yoff := yradius * 27 / 32
	dst.FillRect(Rect{x, y - yoff, (circlesAcross-1)*xradius + 1, (circlesDown-1)*yradius + 2*yoff + 1}, bgCol)
	xoff := xradius * 27 / 32
	dst.FillRect(Rect{x - xoff, y, (circlesAcross-1)*xradius + 2*xoff + 1, (circlesDown-1)*yradius + 1}, bgCol)

	d.state.loc = Rect{x - xradius/2, y - yradius/2, circlesAcross * xradius, circlesDown * yradius}
}

// Rounded box: a stadium shape with text in the flat middle part.
func (d *Dialog) drawRounded(e *Engine, dst *Surface, stage dialogDrawStage) {
	x, y, w, h := d.Rect.X, d.Rect.Y, d.Rect.W, d.Rect.H
	midY := (h - 1) / 2

	fillCol, fillBgCol := byte(0), byte(15)
	if d.hasFlag(dlgFlagFlatBg) {
		fillCol = d.FontColor
		fillBgCol = d.BgColor
	}

	switch stage {
	case stageBackground:
		dst.FillRoundRect(d.Rect, midY, fillBgCol)
		dst.OutlineRoundRect(d.Rect, midY, fillCol)
	case stageFindSelectionXY:
		d.findSelectionXY()
	case stageFindSelectionTxtOffset:
		d.findSelectionTxtOffset()
	default:
		d.state.loc = Rect{x + midY, y + 1, w - midY, h - 1}
		d.drawForeground(dst, fillCol, d.Str)
	}
}

// findSelectionXY recomputes the pixel location of the char at
// strMouseLoc, leaving the result in lastMouseX/lastMouseY and the char
// cell size in charWidth/charHeight.
func (d *Dialog) findSelectionXY() {
	st := d.state
	if st == nil {
		return
	}
	font := d.font()

	x := st.loc.X
	st.lastMouseX = x
	y := st.loc.Y + 1
	st.lastMouseY = y
	st.charWidth = font.MaxCharWidth()
	st.charHeight = font.Height()
	if st.strMouseLoc == 0 {
		return
	}

	lines, maxWidth := wrapText(d.Str, st.loc.W, font)

	if d.hasFlag(dlgFlagLeftJust) {
		x += (st.loc.W - maxWidth - 1) / 2
		st.lastMouseX = x
		y += (st.loc.H - len(lines)*st.charHeight - 1) / 2
		st.lastMouseY = y
	}

	if st.strMouseLoc >= len(d.Str) {
		st.strMouseLoc = len(d.Str) - 1
	}

	// Walk whole lines below the target offset. Each line consumed one
	// extra char for the space or CR that wrapped it.
	total := 0
	for _, line := range lines {
		next := total + len(line) + 1
		if next > st.strMouseLoc {
			break
		}
		total = next
		y += st.charHeight
	}

	x += stringWidth(font, d.Str[total:st.strMouseLoc])

	ch := d.Str[st.strMouseLoc]
	if st.loc.X+st.loc.W < x+font.CharWidth(ch) {
		if ch < '!' {
			// Nothing visible under the cursor past the right edge.
			st.charHeight = 0
			st.charWidth = 0
			st.lastMouseY = 0
			st.lastMouseX = 0
			return
		}
		x = st.loc.X
		y += st.charHeight
	}

	st.lastMouseX = x
	st.lastMouseY = y
	st.charWidth = font.CharWidth(ch)
}

// findSelectionTxtOffset recomputes strMouseLoc from the last mouse
// position: walk lines by height, then chars by width, falling back to
// the string length past the last line.
func (d *Dialog) findSelectionTxtOffset() {
	st := d.state
	if st == nil {
		return
	}
	font := d.font()

	lastMouseX := st.lastMouseX
	lastMouseY := st.lastMouseY
	lineHeight := font.Height()
	dlgx := st.loc.X
	dlgy := st.loc.Y

	lines, maxWidth := wrapText(d.Str, st.loc.W, font)

	if d.hasFlag(dlgFlagLeftJust) {
		dlgx += (st.loc.W - maxWidth - 1) / 2
		dlgy += (st.loc.H - len(lines)*lineHeight - 1) / 2
	}

	offs := lineOffsets(d.Str, lines)

	lineno := 0
	total := 0
	for lineno < len(lines) && dlgy+lineHeight < lastMouseY {
		total = offs[lineno+1]
		dlgy += lineHeight
		lineno++
	}

	startx := dlgx
	for lineno < len(lines) {
		line := lines[lineno]
		for charno := 0; charno < len(line); charno++ {
			charWidth := font.CharWidth(line[charno])
			// Strictly less: a char owns pixels [x, x+width), so the
			// position of a char's own left edge maps back to it.
			if lastMouseX < dlgx+charWidth {
				st.strMouseLoc = total + charno
				return
			}
			dlgx += charWidth
		}
		dlgx = startx
		total += len(line) + 1
		lineno++
	}

	st.strMouseLoc = len(d.Str)
}

// drawForeground wraps and paints txt inside the content rect, repainting
// lines touched by the selected action's span in the selection color. For
// bordered frames txt is the body after the title, so the highlight span
// shifts by the body's offset within the full string.
func (d *Dialog) drawForeground(dst *Surface, fontCol byte, txt string) {
	st := d.state
	font := d.font()
	h := font.Height()
	lines, _ := wrapText(txt, st.loc.W, font)

	ystart := st.loc.Y + (st.loc.H-len(lines)*h)/2
	x := st.loc.X

	highlightStart := math.MaxInt32
	highlightEnd := math.MaxInt32
	if st.selectedAction >= 0 && st.selectedAction < len(d.Actions) {
		txtOffset := strings.Index(d.Str, txt)
		if txtOffset < 0 {
			txtOffset = 0
		}
		a := &d.Actions[st.selectedAction]
		highlightStart = a.StrStart - txtOffset
		highlightEnd = a.StrEnd - txtOffset
	}

	offs := lineOffsets(txt, lines)

	center := true
	xwidth := st.loc.W
	if d.hasFlag(dlgFlagLeftJust) {
		// Lines stay left aligned but the block centers as a whole.
		maxLen := 0
		for _, line := range lines {
			if w := stringWidth(font, line); w > maxLen {
				maxLen = w
			}
		}
		x += (st.loc.W - maxLen) / 2
		center = false
		xwidth = maxLen
	}

	for i, line := range lines {
		drawStringAligned(font, dst, line, x, ystart+i*h, xwidth, fontCol, center)
		if highlightStart < offs[i+1] && highlightEnd > offs[i] {
			drawStringAligned(font, dst, line, x, ystart+i*h, xwidth, d.SelectedFontCol, center)
		}
	}
}

// updateSelectedAction moves the selection by delta, wrapping in both
// directions. The context decides whether this dialog continues its own
// selection or starts fresh after another dialog owned it. The engine's
// cursor warps to the newly selected span so mouse picks agree with
// keyboard moves.
func (d *Dialog) updateSelectedAction(e *Engine, delta int) {
	ctx := &e.selCtx
	if ctx.owner != d {
		ctx.owner = d
		ctx.index = -1
		if d.state != nil {
			d.state.selectedAction = -1
		}
	}

	if d.state == nil {
		return
	}

	idx := d.state.selectedAction
	idx += delta
	if n := len(d.Actions); n > 0 {
		for idx < 0 {
			idx += n
		}
		idx %= n
	} else {
		idx = -1
	}
	d.state.selectedAction = idx
	ctx.index = idx

	mouseX := d.state.loc.X + d.state.loc.W
	mouseY := d.state.loc.Y + d.state.loc.H - 2
	if len(d.Actions) > 1 && idx >= 0 {
		d.state.strMouseLoc = d.Actions[idx].StrStart
		d.draw(e, nil, stageFindSelectionXY)
		mouseY = d.state.lastMouseY + d.state.charHeight/2
	}

	if len(d.Actions) > 1 || delta == 0 {
		e.warpMouse(mouseX, mouseY)
	}
}

// pickAction resolves which action a close or click lands on, returning
// an index into Actions or -1. A normal close picks randomly; a forced
// close and a plain pick hit-test the last mouse position. An offset one
// past an action's end still counts when the char under the cursor is the
// CR that wrapped the action's line.
func (d *Dialog) pickAction(e *Engine, isClosing, isForceClose bool) int {
	if !isForceClose && isClosing {
		if len(d.Actions) == 0 {
			return -1
		}
		return e.rng.Intn(len(d.Actions))
	}

	st := d.state
	if st == nil {
		return -1
	}
	lm := e.lastMouse
	if st.loc.X <= lm.X && st.loc.X+st.loc.W >= lm.X &&
		st.loc.Y <= lm.Y && st.loc.Y+st.loc.H >= lm.Y {
		st.lastMouseX = lm.X
		st.lastMouseY = lm.Y
		d.draw(e, nil, stageFindSelectionTxtOffset)
		if i := d.actionAt(st.strMouseLoc); i >= 0 {
			return i
		}
	}

	// Closing with a single action always takes it, even off-target.
	if isClosing && len(d.Actions) == 1 {
		return 0
	}

	return -1
}

// actionAt returns the index of the action whose span contains a string
// offset, or -1. An offset one past an action's end still counts when it
// sits on a CR and the action itself does not end in one, so trailing
// punctuation next to a line break stays clickable.
func (d *Dialog) actionAt(off int) int {
	var under byte
	if off >= 0 && off < len(d.Str) {
		under = d.Str[off]
	}
	for i := range d.Actions {
		a := &d.Actions[i]
		if (a.StrStart <= off && off <= a.StrEnd) ||
			(off == a.StrEnd+1 && under == '\r' && d.Str[a.StrEnd] != '\r') {
			return i
		}
	}
	return -1
}

// fixupStringAndActions strips spaces sitting right before CRs so the
// wrapper does not generate blank lines, shifting action spans to match.
// It runs once when the scene loads.
func (d *Dialog) fixupStringAndActions() {
	s := []byte(d.Str)
	for i := 0; i < len(s); i++ {
		if s[i] != '\r' {
			continue
		}
		for i > 0 && s[i-1] == ' ' {
			s = append(s[:i-1], s[i:]...)
			for ai := range d.Actions {
				a := &d.Actions[ai]
				if a.StrStart >= i {
					a.StrStart--
				}
				if a.StrEnd >= i {
					a.StrEnd--
				}
			}
			i--
		}
	}
	d.Str = string(s)
}

// syncState carries the runtime part of a dialog through a save. The
// static definition always comes from scene data; only flags and the
// transient state travel.
func (d *Dialog) syncState(s *Serializer) {
	s.SyncU32(&d.Flags)
	hasState := d.state != nil
	s.SyncBool(&hasState)
	if hasState {
		d.ensureState()
		d.state.syncState(s)
	} else {
		d.state = nil
	}
}

// drawFrameCorners dresses a frame rect with a border, heavier for the
// ornate corner style.
func drawFrameCorners(dst *Surface, r Rect, heavy bool) {
	dst.FrameRect(r, 0)
	if !heavy {
		return
	}
	inner := Rect{r.X + 1, r.Y + 1, r.W - 2, r.H - 2}
	dst.FrameRect(inner, 15)
	// Corner ticks.
	for _, c := range [4][2]int{
		{r.X, r.Y}, {r.X + r.W - 4, r.Y},
		{r.X, r.Y + r.H - 4}, {r.X + r.W - 4, r.Y + r.H - 4},
	} {
		dst.FillRect(Rect{c[0], c[1], 4, 4}, 0)
	}
}

// drawFrameHeader centers a title in the band at the top of a frame,
// optionally with a rule under it.
func drawFrameHeader(dst *Surface, r Rect, yoff int, title string, color byte, rule bool) {
	font := fontGame
	tx := r.X + (r.W-stringWidth(font, title))/2
	ty := r.Y + yoff + 1
	font.DrawString(dst, title, tx, ty, color)
	if rule {
		dst.FillRect(Rect{r.X + 6, ty + font.Height() + 1, r.W - 12, 1}, color)
	}
}

func syncIntAsS16(s *Serializer, v *int) {
	x := int16(*v)
	s.SyncS16(&x)
	if s.IsLoading() && s.Err() == nil {
		*v = int(x)
	}
}

func syncIntAsU16(s *Serializer, v *int) {
	x := uint16(*v)
	s.SyncU16(&x)
	if s.IsLoading() && s.Err() == nil {
		*v = int(x)
	}
}

func syncIntAsU32(s *Serializer, v *int) {
	x := uint32(*v)
	s.SyncU32(&x)
	if s.IsLoading() && s.Err() == nil {
		*v = int(x)
	}
}
