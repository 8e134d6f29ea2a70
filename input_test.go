package main

import "testing"

// Key events resolve before mouse events in the same frame. The click
// lands at the scene item's pixel, but the inventory toggle queued in the
// same frame must win, leaving the click to fall on the inventory scene.
func TestDrainInputKeysBeforeMouse(t *testing.T) {
	e := newTestEngine(t)
	e.pushEvent(inputEvent{kind: evLClick, x: 105, y: 85}) // item 1's rect in scene 5
	e.pushEvent(inputEvent{kind: evKey, key: keyInventory})
	e.drainInput()

	if !e.inv.isOpen {
		t.Fatal("inventory key not handled")
	}
	if e.dragItem != -1 {
		t.Fatal("click resolved against the scene the key already left")
	}
}

func TestClickSceneItemStartsDrag(t *testing.T) {
	e := newTestEngine(t)
	e.handleLClick(105, 85)
	if it := e.draggedItem(); it == nil || it.Num != 1 {
		t.Fatalf("expected item 1 dragged, got %v", it)
	}
	if got := e.globals.Get(globalSelectedItem); got != 1 {
		t.Fatalf("selected item global %d", got)
	}
}

func TestInvButtonVisibility(t *testing.T) {
	e := newTestEngine(t)
	r := e.gameData.InvButton
	x, y := r.X+r.W/2, r.Y+r.H/2

	e.handleLClick(x, y)
	if e.inv.isOpen {
		t.Fatal("hidden inventory button took a click")
	}

	e.invButtonVisible = true
	e.handleLClick(x, y)
	if !e.inv.isOpen {
		t.Fatal("visible inventory button ignored the click")
	}
}

func TestRClickCancelsDrag(t *testing.T) {
	e := newTestEngine(t)
	it := e.gameData.itemByNum(1)
	e.startDrag(it)
	e.handleRClick(0, 0)
	if e.dragItem != -1 {
		t.Fatal("right click did not cancel the drag")
	}
	if it.InSceneNum != 5 {
		t.Fatalf("cancelled drag moved the item to scene %d", it.InSceneNum)
	}
}

func TestClickDialogPicksAction(t *testing.T) {
	e := newTestEngine(t)
	e.showDialog(40)
	if err := e.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	// The 'n' of "Go north"; its action jumps to scene 6.
	e.handleLClick(26, 20)
	if e.sceneNum != 6 {
		t.Fatalf("dialog action did not run, scene %d", e.sceneNum)
	}
}

func TestClickDialogOffActionDismisses(t *testing.T) {
	e := newTestEngine(t)
	e.showDialog(40)
	if err := e.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	d := e.scene.dialogByNum(40)

	// The narration line is not an action; the click just dismisses.
	e.handleLClick(20, 15)
	if d.hasFlag(dlgFlagVisible) {
		t.Fatal("dialog still visible after a dismissing click")
	}
	if e.sceneNum != 5 {
		t.Fatalf("dismiss ran an action, scene %d", e.sceneNum)
	}
}

func TestKeySelectionThenPick(t *testing.T) {
	e := newTestEngine(t)
	e.showDialog(40)
	if err := e.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	// Down twice selects "Go south"; picking it runs no ops, so the
	// dialog just closes in place.
	e.handleKey(keyNextAction)
	e.handleKey(keyNextAction)
	e.handleKey(keyPickAction)
	if e.sceneNum != 5 {
		t.Fatalf("picking the second action changed scene to %d", e.sceneNum)
	}
	if d := e.scene.dialogByNum(40); d.hasFlag(dlgFlagVisible) {
		t.Fatal("dialog still visible after pick")
	}
}

func TestHoverCursorFollowsHotArea(t *testing.T) {
	e := newTestEngine(t)
	e.scene.HotAreas = append(e.scene.HotAreas, HotArea{
		Num:       3,
		Rect:      Rect{200, 100, 20, 20},
		CursorNum: 1,
	})

	e.pushEvent(inputEvent{kind: evMouseMove, x: 210, y: 110})
	e.drainInput()
	if e.cursor.num != 1 {
		t.Fatalf("cursor %d over the hot area, want 1", e.cursor.num)
	}

	e.pushEvent(inputEvent{kind: evMouseMove, x: 10, y: 10})
	e.drainInput()
	if e.cursor.num != cursorDefault {
		t.Fatalf("cursor %d off the hot area, want the default", e.cursor.num)
	}
}

func TestKeyPickRunsSelectedAction(t *testing.T) {
	e := newTestEngine(t)
	e.showDialog(40)
	if err := e.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}

	// Down once selects "Go north", whose action jumps to scene 6.
	e.handleKey(keyNextAction)
	e.handleKey(keyPickAction)
	if e.sceneNum != 6 {
		t.Fatalf("selected action did not run, scene %d", e.sceneNum)
	}
}
