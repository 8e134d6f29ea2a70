package main

import (
	"bytes"
	"testing"
)

func testGlobals(variant *Variant) (*Globals, *Clock) {
	clock := newClock()
	speed := int16(5)
	return newGlobals(clock, &speed, variant), clock
}

func TestGlobalsReadOnlySlots(t *testing.T) {
	g, clock := testGlobals(nil)

	// Script writes to read-only slots keep the old value.
	if got := g.Set(globalClockHours, 23); got != 8 {
		t.Fatalf("read-only set returned %d, want the old 8", got)
	}
	if clock.hours != 8 {
		t.Fatalf("clock hours changed to %d", clock.hours)
	}

	if got := g.Set(globalDifficulty, 2); got != 2 {
		t.Fatalf("writable set returned %d", got)
	}
	if got := g.Get(globalDifficulty); got != 2 {
		t.Fatalf("get after set returned %d", got)
	}
}

func TestGlobalsClockBridging(t *testing.T) {
	g, clock := testGlobals(nil)
	clock.addMins(130)
	if got := g.Get(globalClockHours); got != 10 {
		t.Fatalf("clock hours global %d, want 10", got)
	}
	if got := g.Get(globalClockMins); got != 10 {
		t.Fatalf("clock mins global %d, want 10", got)
	}
}

func TestGlobalsUnknownSlot(t *testing.T) {
	g, _ := testGlobals(nil)
	if got := g.Get(0x7777); got != 0 {
		t.Fatalf("unknown get returned %d", got)
	}
	if got := g.Set(0x7777, 5); got != 0 {
		t.Fatalf("unknown set returned %d", got)
	}
}

func TestGlobalsVariantSlots(t *testing.T) {
	v := &Variant{
		ExtraGlobals: []GlobalDef{
			{Num: 0x80, Init: 3},
			{Num: 0x81, ReadOnly: true, Init: 12},
		},
		MinsOnLClick: 2,
	}
	g, _ := testGlobals(v)

	if got := g.Get(0x80); got != 3 {
		t.Fatalf("extra slot init %d, want 3", got)
	}
	g.Set(0x80, 6)
	if got := g.Get(0x80); got != 6 {
		t.Fatalf("extra slot after set %d", got)
	}
	if got := g.Set(0x81, 0); got != 12 {
		t.Fatalf("read-only extra slot changed to %d", got)
	}
	if got := g.Get(globalMinsOnLClick); got != 2 {
		t.Fatalf("minute cost slot %d, want 2", got)
	}
	if got := g.MinsOnLClick(); got != 2 {
		t.Fatalf("MinsOnLClick %d, want 2", got)
	}
}

// A save written by a build with extra slots loads into one without them,
// dropping the unknown numbers instead of failing.
func TestGlobalsSyncSkipsUnknownSlots(t *testing.T) {
	big, _ := testGlobals(&Variant{ExtraGlobals: []GlobalDef{{Num: 0x80, Init: 44}}})
	big.Set(globalDifficulty, 9)

	var buf bytes.Buffer
	s := newSaver(&buf)
	big.syncState(s)
	if s.Err() != nil {
		t.Fatalf("save: %v", s.Err())
	}

	small, _ := testGlobals(nil)
	l := newLoader(bytes.NewReader(buf.Bytes()), currentSaveVersion)
	small.syncState(l)
	if l.Err() != nil {
		t.Fatalf("load: %v", l.Err())
	}
	if got := small.Get(globalDifficulty); got != 9 {
		t.Fatalf("known slot lost: %d", got)
	}
}

// Read-only slots still accept values from a save; the restriction is on
// script writes, not restores.
func TestGlobalsSyncRestoresReadOnlySlots(t *testing.T) {
	g1, clock1 := testGlobals(nil)
	clock1.days = 2
	clock1.hours = 20

	var buf bytes.Buffer
	s := newSaver(&buf)
	g1.syncState(s)

	g2, clock2 := testGlobals(nil)
	l := newLoader(bytes.NewReader(buf.Bytes()), currentSaveVersion)
	g2.syncState(l)
	if l.Err() != nil {
		t.Fatalf("load: %v", l.Err())
	}
	if clock2.days != 2 || clock2.hours != 20 {
		t.Fatalf("clock slots not restored: %+v", clock2)
	}
}
