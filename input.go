package main

// Input arrives as a small per-frame queue of discrete events. The
// platform layer fills it; drainInput empties it before anything draws.
// Key events resolve before mouse events so a pending inventory toggle
// never races the click that caused it.

type inputEventKind int

const (
	evMouseMove inputEventKind = iota
	evLClick
	evRClick
	evKey
)

type keyAction int

const (
	keyNone keyAction = iota
	keyInventory
	keyNextAction
	keyPrevAction
	keyPickAction
	keyCloseDialog
)

type inputEvent struct {
	kind inputEventKind
	x, y int
	key  keyAction
}

func (e *Engine) pushEvent(ev inputEvent) {
	e.events = append(e.events, ev)
}

func (e *Engine) drainInput() {
	events := e.events
	e.events = e.events[:0]

	for _, ev := range events {
		if ev.kind == evKey {
			e.handleKey(ev.key)
		}
	}
	for _, ev := range events {
		switch ev.kind {
		case evMouseMove:
			e.lastMouse = mousePos{ev.x, ev.y}
			e.updateHoverCursor(ev.x, ev.y)
		case evLClick:
			e.lastMouse = mousePos{ev.x, ev.y}
			e.handleLClick(ev.x, ev.y)
		case evRClick:
			e.lastMouse = mousePos{ev.x, ev.y}
			e.handleRClick(ev.x, ev.y)
		}
	}
}

func (e *Engine) handleKey(key keyAction) {
	switch key {
	case keyInventory:
		if e.inv.isOpen {
			e.inv.close(e)
		} else {
			e.inv.open(e)
		}
	case keyNextAction:
		if d := e.focusedDialog(); d != nil {
			d.updateSelectedAction(e, 1)
		}
	case keyPrevAction:
		if d := e.focusedDialog(); d != nil {
			d.updateSelectedAction(e, -1)
		}
	case keyPickAction:
		d := e.focusedDialog()
		if d == nil {
			break
		}
		// A keyboard selection beats the pointer hit test; picking with
		// nothing selected degrades to a forced close.
		if st := d.state; st != nil && st.selectedAction >= 0 && st.selectedAction < len(d.Actions) {
			action := d.Actions[st.selectedAction]
			d.clear()
			if e.selCtx.owner == d {
				e.selCtx = SelectionContext{}
			}
			e.runOps(action.Ops)
		} else {
			e.closeDialog(d, true)
		}
	case keyCloseDialog:
		if d := e.topVisibleDialog(); d != nil {
			e.closeDialog(d, false)
		}
	}
}

// updateHoverCursor swaps to a hot area's cursor while the pointer rests
// on it. The dragged-item icon takes priority over any cursor.
func (e *Engine) updateHoverCursor(x, y int) {
	if e.dragItem >= 0 {
		return
	}
	if ha := e.hotAreaAt(x, y); ha != nil && ha.CursorNum != 0 {
		e.cursor.set(ha.CursorNum)
		return
	}
	e.cursor.reset()
}

func (e *Engine) topVisibleDialog() *Dialog {
	if e.scene == nil {
		return nil
	}
	for i := len(e.scene.Dialogs) - 1; i >= 0; i-- {
		if e.scene.Dialogs[i].hasFlag(dlgFlagVisible) {
			return &e.scene.Dialogs[i]
		}
	}
	return nil
}

// handleLClick walks the interaction layers top down: drag in flight,
// open dialogs, the inventory grid, hot areas, then scene items. The
// first layer that owns the pixel consumes the click.
func (e *Engine) handleLClick(x, y int) {
	if e.draggedItem() != nil {
		e.finishDrag(x, y)
		return
	}

	if d := e.dialogAt(x, y); d != nil {
		if idx := d.pickAction(e, false, false); idx >= 0 {
			action := d.Actions[idx]
			d.clear()
			if e.selCtx.owner == d {
				e.selCtx = SelectionContext{}
			}
			e.runOps(action.Ops)
			return
		}
		// A click anywhere else on the box dismisses it.
		e.closeDialog(d, true)
		return
	}

	if e.inv.handleClick(e, x, y) {
		return
	}

	if ha := e.hotAreaAt(x, y); ha != nil {
		e.clock.addMins(e.globals.MinsOnLClick())
		e.runOps(ha.OnLClick)
		return
	}

	if it := e.sceneItemAt(x, y); it != nil {
		e.clock.addMins(e.globals.MinsOnLClick())
		if len(it.OnLClick) > 0 {
			e.runOps(it.OnLClick)
		} else {
			e.startDrag(it)
		}
		return
	}
}

func (e *Engine) handleRClick(x, y int) {
	if e.draggedItem() != nil {
		// Right click cancels a drag, returning the item.
		it := e.draggedItem()
		e.dragItem = -1
		e.cursor.reset()
		if e.inv.isOpen {
			it.InSceneNum = sceneNumInventory
		}
		return
	}

	if d := e.dialogAt(x, y); d != nil {
		e.closeDialog(d, true)
		return
	}

	if ha := e.hotAreaAt(x, y); ha != nil {
		e.clock.addMins(e.globals.MinsOnRClick())
		e.runOps(ha.OnRClick)
		return
	}

	if it := e.sceneItemAt(x, y); it != nil {
		e.clock.addMins(e.globals.MinsOnRClick())
		e.runOps(it.OnRClick)
	}
}

// dialogAt finds the topmost visible dialog whose box covers a pixel.
func (e *Engine) dialogAt(x, y int) *Dialog {
	if e.scene == nil {
		return nil
	}
	for i := len(e.scene.Dialogs) - 1; i >= 0; i-- {
		d := &e.scene.Dialogs[i]
		if d.hasFlag(dlgFlagVisible) && d.Rect.Contains(x, y) {
			return d
		}
	}
	return nil
}

func (e *Engine) hotAreaAt(x, y int) *HotArea {
	if e.scene == nil {
		return nil
	}
	for i := range e.scene.HotAreas {
		ha := &e.scene.HotAreas[i]
		if ha.Num == hotAreaInvButton && !e.invButtonVisible {
			continue
		}
		if ha.Rect.Contains(x, y) {
			return ha
		}
	}
	return nil
}

// sceneItemAt finds an item lying in the current scene under a pixel.
// Carried items never match; the inventory grid handles those.
func (e *Engine) sceneItemAt(x, y int) *GameItem {
	for i := range e.gameData.Items {
		it := &e.gameData.Items[i]
		if it.InSceneNum == e.sceneNum && it.InSceneNum != sceneNumInventory && it.Rect.Contains(x, y) {
			return it
		}
	}
	return nil
}
