package main

import (
	"fmt"
	"time"

	"github.com/hako/durafmt"
)

// Game time advances one minute per this many engine frames unless a
// script adds minutes directly.
const framesPerGameMin = 12

// Clock is the in-game calendar. Scripts read it through the read-only
// clock globals and advance it with the add-minutes op; the frame loop
// trickles time forward on its own as well.
type Clock struct {
	days  int16
	hours int16
	mins  int16

	tickRem int16
	visible bool
}

func newClock() *Clock {
	return &Clock{hours: 8}
}

// tick advances the frame remainder, rolling a game minute over when it
// fills up.
func (c *Clock) tick() {
	c.tickRem++
	if c.tickRem >= framesPerGameMin {
		c.tickRem = 0
		c.addMins(1)
	}
}

func (c *Clock) addMins(mins int16) {
	c.mins += mins
	for c.mins >= 60 {
		c.mins -= 60
		c.hours++
	}
	for c.hours >= 24 {
		c.hours -= 24
		c.days++
	}
}

func (c *Clock) setVisible(v bool) { c.visible = v }

func (c *Clock) String() string {
	return fmt.Sprintf("Day %d %02d:%02d", c.days+1, c.hours, c.mins)
}

// draw paints the time band in the top right corner when the clock is
// shown. Scripts toggle it per scene.
func (c *Clock) draw(dst *Surface) {
	if !c.visible {
		return
	}
	font := fontTiny
	s := c.String()
	w := stringWidth(font, s) + 4
	h := font.Height() + 3
	r := Rect{dst.W - w - 2, 2, w, h}
	dst.FillRect(r, 0)
	dst.FrameRect(r, 15)
	font.DrawString(dst, s, r.X+2, r.Y+2, 15)
}

// playTimeString formats elapsed play seconds for save descriptions.
func playTimeString(secs uint32) string {
	d := durafmt.Parse(time.Duration(secs) * time.Second).LimitFirstN(2)
	return d.String()
}

// syncState packs the calendar the way version 1 laid it out: days u16,
// hours and minutes a byte each, then the tick remainder.
func (c *Clock) syncState(s *Serializer) {
	days := uint16(c.days)
	hours := byte(c.hours)
	mins := byte(c.mins)
	rem := uint16(c.tickRem)
	s.SyncU16(&days)
	s.SyncByte(&hours)
	s.SyncByte(&mins)
	s.SyncU16(&rem)
	s.SyncBool(&c.visible)
	if s.IsLoading() && s.Err() == nil {
		c.days = int16(days)
		c.hours = int16(hours)
		c.mins = int16(mins)
		c.tickRem = int16(rem)
	}
}
