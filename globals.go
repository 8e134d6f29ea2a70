package main

// Global slot numbers shared by every game variant. Variant files add
// their own numbered slots on top of these.
const (
	globalMinsOnLClick       = 0x20
	globalMinsOnStartDrag    = 0x21
	globalMinsOnRClick       = 0x22
	globalMinsOnDragFinish   = 0x23
	globalMinsOnObjInteract  = 0x24
	globalGameInteractive    = 0x25
	globalClockDays          = 0x30
	globalClockHours         = 0x31
	globalClockMins          = 0x32
	globalDetailLevel        = 0x33
	globalDifficulty         = 0x34
	globalTextSpeedSlot      = 0x35
	globalLastVisitedScene   = 0x61
	globalLastSceneChangeNum = 0x62
	globalSelectedItem       = 0x63
)

// global is one numbered engine variable. Read-only slots ignore script
// writes but still accept values from saves and restarts.
type global struct {
	num      uint16
	readOnly bool
	val      *int16
}

// Globals is the numbered variable table scripts trade state through.
// There are only a couple dozen slots, so lookups just scan.
type Globals struct {
	slots []global

	lastSceneChangeNum int16
	lastVisitedScene   int16
	selectedItem       int16
	minsOnLClick       int16
	minsOnStartDrag    int16
	minsOnRClick       int16
	minsOnDragFinish   int16
	minsOnObjInteract  int16
	gameInteractive    int16
	detailLevel        int16
	difficulty         int16

	// Backing store for variant-defined slots.
	extra []int16
}

func newGlobals(clock *Clock, textSpeed *int16, variant *Variant) *Globals {
	g := &Globals{detailLevel: 1, gameInteractive: 1}
	g.slots = []global{
		{globalMinsOnLClick, true, &g.minsOnLClick},
		{globalMinsOnStartDrag, true, &g.minsOnStartDrag},
		{globalMinsOnRClick, true, &g.minsOnRClick},
		{globalMinsOnDragFinish, true, &g.minsOnDragFinish},
		{globalMinsOnObjInteract, true, &g.minsOnObjInteract},
		{globalGameInteractive, false, &g.gameInteractive},
		{globalClockDays, true, &clock.days},
		{globalClockHours, true, &clock.hours},
		{globalClockMins, true, &clock.mins},
		{globalDetailLevel, false, &g.detailLevel},
		{globalDifficulty, false, &g.difficulty},
		{globalTextSpeedSlot, false, textSpeed},
		{globalLastVisitedScene, false, &g.lastVisitedScene},
		{globalLastSceneChangeNum, false, &g.lastSceneChangeNum},
		{globalSelectedItem, false, &g.selectedItem},
	}

	if variant != nil {
		g.extra = make([]int16, len(variant.ExtraGlobals))
		for i, def := range variant.ExtraGlobals {
			g.extra[i] = def.Init
			g.slots = append(g.slots, global{def.Num, def.ReadOnly, &g.extra[i]})
		}
		g.minsOnLClick = variant.MinsOnLClick
		g.minsOnStartDrag = variant.MinsOnStartDrag
		g.minsOnRClick = variant.MinsOnRClick
		g.minsOnDragFinish = variant.MinsOnDragFinish
		g.minsOnObjInteract = variant.MinsOnObjInteract
	}
	return g
}

func (g *Globals) find(num uint16) *global {
	for i := range g.slots {
		if g.slots[i].num == num {
			return &g.slots[i]
		}
	}
	return nil
}

// Get returns a slot's value, or zero with a warning for a slot that does
// not exist in this variant.
func (g *Globals) Get(num uint16) int16 {
	if slot := g.find(num); slot != nil {
		return *slot.val
	}
	logWarnEvery("global-get", "get unknown global 0x%x", num)
	return 0
}

// Set writes a slot and returns the stored value. Writes to read-only
// slots keep the old value, matching how scripts see them.
func (g *Globals) Set(num uint16, val int16) int16 {
	slot := g.find(num)
	if slot == nil {
		logWarnEvery("global-set", "set unknown global 0x%x", num)
		return 0
	}
	if !slot.readOnly {
		*slot.val = val
	}
	return *slot.val
}

// SetLastSceneNum records the target of the most recent scene change op.
func (g *Globals) SetLastSceneNum(num int16) {
	g.lastSceneChangeNum = num
}

func (g *Globals) MinsOnLClick() int16      { return g.minsOnLClick }
func (g *Globals) MinsOnStartDrag() int16   { return g.minsOnStartDrag }
func (g *Globals) MinsOnRClick() int16      { return g.minsOnRClick }
func (g *Globals) MinsOnDragFinish() int16  { return g.minsOnDragFinish }
func (g *Globals) MinsOnObjInteract() int16 { return g.minsOnObjInteract }

// syncState writes the table as a count-prefixed list of (num, value)
// pairs. Slots a newer build dropped load with a warning instead of
// failing the whole save.
func (g *Globals) syncState(s *Serializer) {
	if s.IsLoading() {
		var count uint16
		s.SyncU16(&count)
		for i := 0; i < int(count) && s.Err() == nil; i++ {
			var num uint16
			var val int16
			s.SyncU16(&num)
			s.SyncS16(&val)
			if slot := g.find(num); slot != nil {
				*slot.val = val
			} else {
				logError("load: skipping unknown global 0x%x", num)
			}
		}
		return
	}
	count := uint16(len(g.slots))
	s.SyncU16(&count)
	for i := range g.slots {
		num := g.slots[i].num
		val := *g.slots[i].val
		s.SyncU16(&num)
		s.SyncS16(&val)
	}
}
