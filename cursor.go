package main

// IconRenderer draws one icon from the converted icon sheet. Icon
// decoding is outside the engine core; the null renderer keeps the
// cursor visible without assets.
type IconRenderer interface {
	DrawIcon(dst *Surface, icon uint16, x, y int)
}

type nullIcons struct{}

func (nullIcons) DrawIcon(dst *Surface, icon uint16, x, y int) {
	// A plain arrow so the cursor shows up even without icon assets.
	for dy := 0; dy < 8; dy++ {
		dst.FillRect(Rect{x, y + dy, dy/2 + 1, 1}, 15)
		dst.Set(x, y+dy, 0)
	}
}

const cursorDefault = 0

// Cursor tracks which directory cursor is active and paints it into the
// composited frame. The hardware cursor stays hidden; scripts can hide
// this one too.
type Cursor struct {
	icons  IconRenderer
	defs   []CursorDef
	num    uint16
	hidden bool
}

func newCursor(icons IconRenderer, defs []CursorDef) *Cursor {
	if icons == nil {
		icons = nullIcons{}
	}
	return &Cursor{icons: icons, defs: defs}
}

func (c *Cursor) set(num uint16) {
	if int(num) >= len(c.defs) && len(c.defs) > 0 {
		logWarnEvery("cursor", "cursor %d out of range", num)
		num = cursorDefault
	}
	c.num = num
}

func (c *Cursor) reset()           { c.num = cursorDefault }
func (c *Cursor) setHidden(h bool) { c.hidden = h }

func (c *Cursor) draw(dst *Surface, mouseX, mouseY int) {
	if c.hidden {
		return
	}
	icon := uint16(0)
	hotX, hotY := 0, 0
	if int(c.num) < len(c.defs) {
		d := c.defs[c.num]
		icon = d.Icon
		hotX, hotY = d.HotX, d.HotY
	}
	c.icons.DrawIcon(dst, icon, mouseX-hotX, mouseY-hotY)
}
