package main

import (
	"errors"
	"math/rand"
	"testing"
)

// The fixture is a tiny converted game: a master directory, a start scene
// with a dialog and a trigger, a second room, the inventory scene and one
// scene whose tag does not match. Globals 51 (detail level) and 52
// (difficulty) are used as scratch markers by the op lists.
const testMasterYaml = `
tag: "TEST:01"
invButton: {x: 300, y: 180, w: 18, h: 16}
items:
  - num: 1
    name: "brass key"
    icon: 3
    inSceneNum: 5
    rect: {x: 100, y: 80, w: 16, h: 16}
  - num: 2
    name: "old lamp"
    icon: 4
    inSceneNum: 2
    rect: {x: 0, y: 0, w: 16, h: 16}
cursors:
  - {icon: 0, hotX: 0, hotY: 0}
  - {icon: 7, hotX: 8, hotY: 8}
`

const testScene5Yaml = `
num: 5
tag: "TEST:01"
enterOps:
  - {op: 2, args: [52, 7]}
leaveOps:
  - {op: 2, args: [51, 9]}
dialogs:
  - num: 40
    rect: {x: 10, y: 10, w: 208, h: 60}
    frameType: 1
    fontSize: 3
    time: 2
    text: "Pick a direction.\rGo north\rGo south"
    actions:
      - {start: 18, end: 25, ops: [{op: 1, args: [6]}]}
      - {start: 27, end: 34}
triggers:
  - num: 9
    enabled: true
    cond: [{global: 52, cmp: eq, value: 7}]
    ops: [{op: 2, args: [51, 4]}]
`

const testScene6Yaml = `
num: 6
tag: "TEST:01"
`

const testScene2Yaml = `
num: 2
tag: "TEST:01"
`

const testScene7Yaml = `
num: 7
tag: "OTHER:99"
`

func testResources() *memLoader {
	res := newMemLoader()
	res.add("TEST.yaml", []byte(testMasterYaml))
	res.add("S5.yaml", []byte(testScene5Yaml))
	res.add("S6.yaml", []byte(testScene6Yaml))
	res.add("S2.yaml", []byte(testScene2Yaml))
	res.add("S7.yaml", []byte(testScene7Yaml))
	return res
}

func testVariant() *Variant {
	return &Variant{
		Id:         "test",
		Title:      "Test Game",
		Master:     "TEST.yaml",
		StartScene: 5,
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	return newTestEngineWith(t, testResources())
}

func newTestEngineWith(t *testing.T, res *memLoader) *Engine {
	t.Helper()
	e, err := newEngine(res, testVariant(), nil, nil, nil)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	e.rng = rand.New(rand.NewSource(42))
	if err := e.startGame(); err != nil {
		t.Fatalf("startGame: %v", err)
	}
	return e
}

func TestStartGameLoadsStartScene(t *testing.T) {
	e := newTestEngine(t)
	if e.sceneNum != 5 || e.scene == nil {
		t.Fatalf("expected scene 5 loaded, got %d", e.sceneNum)
	}
	if got := e.globals.Get(globalDifficulty); got != 7 {
		t.Fatalf("enter ops did not run, difficulty = %d", got)
	}
	if !e.justChangedScene1 || !e.justChangedScene2 {
		t.Fatal("transition flags not set after the first scene change")
	}
}

func TestChangeSceneToCurrentIsIgnored(t *testing.T) {
	e := newTestEngine(t)
	if e.changeScene(5) {
		t.Fatal("change to the current scene should report false")
	}
	if e.sceneNum != 5 || e.fatal != nil {
		t.Fatalf("state disturbed: scene %d, fatal %v", e.sceneNum, e.fatal)
	}
}

func TestChangeSceneMissingResource(t *testing.T) {
	e := newTestEngine(t)
	if e.changeScene(99) {
		t.Fatal("change to a missing scene should report false")
	}
	if e.sceneNum != 5 || e.scene == nil {
		t.Fatalf("current scene lost: %d", e.sceneNum)
	}
	if e.fatal != nil {
		t.Fatalf("a missing scene must not be fatal: %v", e.fatal)
	}
}

func TestChangeSceneTagMismatchIsFatal(t *testing.T) {
	e := newTestEngine(t)
	if e.changeScene(7) {
		t.Fatal("mismatched tag should report false")
	}
	if !errors.Is(e.fatal, errTagMismatch) {
		t.Fatalf("expected tag mismatch, got %v", e.fatal)
	}
}

func TestChangeSceneRunsOpsInOrder(t *testing.T) {
	e := newTestEngine(t)
	if !e.changeScene(6) {
		t.Fatal("change to scene 6 failed")
	}
	if got := e.globals.Get(globalDetailLevel); got != 9 {
		t.Fatalf("leave ops did not run, detail = %d", got)
	}
	if got := e.globals.Get(globalLastVisitedScene); got != 5 {
		t.Fatalf("last visited scene = %d, want 5", got)
	}
	if got := e.globals.Get(globalLastSceneChangeNum); got != 6 {
		t.Fatalf("last scene change num = %d, want 6", got)
	}
	if e.scene == nil || e.sceneNum != 6 {
		t.Fatalf("scene slot wrong: %d", e.sceneNum)
	}
}

func TestTransitionFrameSuppressesTriggers(t *testing.T) {
	e := newTestEngine(t)

	// First tick is the transition frame: the trigger's condition already
	// holds but it must sit this one out.
	if err := e.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := e.globals.Get(globalDetailLevel); got != 1 {
		t.Fatalf("trigger ran on the transition frame, detail = %d", got)
	}
	if e.justChangedScene1 || e.justChangedScene2 {
		t.Fatal("transition flags survived the tick")
	}

	if err := e.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := e.globals.Get(globalDetailLevel); got != 4 {
		t.Fatalf("trigger did not run, detail = %d", got)
	}
	if e.scene.triggerByNum(9).Enabled {
		t.Fatal("trigger still enabled after running")
	}

	// A fired trigger stays quiet until something re-enables it.
	e.globals.Set(globalDetailLevel, 1)
	if err := e.tick(); err != nil {
		t.Fatalf("tick: %v", err)
	}
	if got := e.globals.Get(globalDetailLevel); got != 1 {
		t.Fatalf("disabled trigger ran again, detail = %d", got)
	}
}

func TestInvButtonRegistered(t *testing.T) {
	e := newTestEngine(t)
	ha := &e.scene.HotAreas[len(e.scene.HotAreas)-1]
	if ha.Num != hotAreaInvButton {
		t.Fatalf("last hot area is %d, want the inventory button", ha.Num)
	}
	if ha.Rect != e.gameData.InvButton {
		t.Fatalf("inventory button rect %+v, want %+v", ha.Rect, e.gameData.InvButton)
	}
}

func TestInventoryOpenClose(t *testing.T) {
	e := newTestEngine(t)
	e.inv.open(e)
	if e.sceneNum != sceneNumInventory || !e.inv.isOpen {
		t.Fatalf("inventory did not open: scene %d open %v", e.sceneNum, e.inv.isOpen)
	}
	if e.inv.openedFromScene != 5 {
		t.Fatalf("opened from %d, want 5", e.inv.openedFromScene)
	}

	e.inv.close(e)
	if e.sceneNum != 5 || e.inv.isOpen {
		t.Fatalf("inventory did not close back: scene %d open %v", e.sceneNum, e.inv.isOpen)
	}
}

func TestScriptedJumpForceClosesInventory(t *testing.T) {
	e := newTestEngine(t)
	e.inv.open(e)
	if !e.changeScene(6) {
		t.Fatal("change to scene 6 failed")
	}

	// The inventory never saw a proper close; the direct jump shut it.
	if e.inv.isOpen {
		t.Fatal("inventory still open after a direct scene jump")
	}
	if e.sceneNum != 6 {
		t.Fatalf("scene %d, want 6", e.sceneNum)
	}
}

// A drag in flight when a script jumps away from the open inventory is
// discarded; the item stays where it was picked up from.
func TestScriptedJumpDropsDrag(t *testing.T) {
	e := newTestEngine(t)
	e.inv.open(e)
	it := e.gameData.itemByNum(2)
	e.startDrag(it)

	if !e.changeScene(6) {
		t.Fatal("change to scene 6 failed")
	}
	if e.dragItem != -1 {
		t.Fatal("drag survived the forced inventory close")
	}
	if it.InSceneNum != sceneNumInventory {
		t.Fatalf("discarded drag moved the item to scene %d", it.InSceneNum)
	}
}

// Every transition except into the inventory starts from a cleared
// background, so a scene without a backdrop never shows leftovers.
func TestChangeSceneClearsBackground(t *testing.T) {
	e := newTestEngine(t)
	e.bgBuf.Fill(7)
	if !e.changeScene(6) {
		t.Fatal("change to scene 6 failed")
	}
	for i, p := range e.bgBuf.Pix {
		if p != 0 {
			t.Fatalf("background pixel %d is %d after the transition", i, p)
		}
	}
	if e.bgFile != "" {
		t.Fatalf("background file %q survived the transition", e.bgFile)
	}

	// Entering the inventory instead snapshots the composited frame.
	e.compBuf.Fill(9)
	e.inv.open(e)
	if e.bgBuf.Pix[0] != 9 {
		t.Fatalf("inventory backdrop pixel %d, want the composited 9", e.bgBuf.Pix[0])
	}
}

func TestShowDialogArmsHideTimer(t *testing.T) {
	e := newTestEngine(t)
	e.showDialog(40)
	d := e.scene.dialogByNum(40)
	if d == nil || !d.hasFlag(dlgFlagVisible) {
		t.Fatal("dialog not visible")
	}
	want := e.frameNum + uint32(d.Time)*uint32(e.textSpeed)
	if d.state.hideTime != want {
		t.Fatalf("hide time %d, want %d", d.state.hideTime, want)
	}

	for i := 0; i < int(d.Time)*int(e.textSpeed)+1; i++ {
		if err := e.tick(); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	// The auto close picked one of the actions; either the dialog is gone
	// or action 0 changed the scene, where it is also gone.
	if e.sceneNum == 5 {
		if d.hasFlag(dlgFlagVisible) {
			t.Fatal("dialog still visible past its hide time")
		}
	} else if e.sceneNum != 6 {
		t.Fatalf("unexpected scene %d", e.sceneNum)
	}
}

func TestDialogActionRunsOps(t *testing.T) {
	e := newTestEngine(t)
	e.showDialog(40)
	if err := e.tick(); err != nil { // compose fixes the content rect
		t.Fatalf("tick: %v", err)
	}
	d := e.scene.dialogByNum(40)

	// Click the 'n' of "Go north"; its action changes to scene 6.
	e.lastMouse = mousePos{26, 20}
	e.closeDialog(d, true)
	if e.sceneNum != 6 {
		t.Fatalf("action ops did not run, scene %d", e.sceneNum)
	}
}

func TestSetItemSceneOp(t *testing.T) {
	e := newTestEngine(t)
	e.runOps([]SceneOp{{Op: opSetItemScene, Args: []int16{1, 6}}})
	if got := e.gameData.itemByNum(1).InSceneNum; got != 6 {
		t.Fatalf("item 1 in scene %d, want 6", got)
	}
}

func TestRunOpsStopsAfterSceneChange(t *testing.T) {
	e := newTestEngine(t)
	done := e.runOps([]SceneOp{
		{Op: opChangeScene, Args: []int16{6}},
		{Op: opSetGlobal, Args: []int16{51, 99}},
	})
	if done {
		t.Fatal("runOps should report an early stop")
	}
	if got := e.globals.Get(globalDetailLevel); got == 99 {
		t.Fatal("op after a scene change still ran")
	}
}

func TestConditionalOps(t *testing.T) {
	e := newTestEngine(t)
	e.runOps([]SceneOp{
		{Op: opSetGlobal, Args: []int16{51, 30}, Cond: []SceneCond{{Global: globalDifficulty, Cmp: "eq", Value: 7}}},
		{Op: opSetGlobal, Args: []int16{52, 31}, Cond: []SceneCond{{Global: globalDifficulty, Cmp: "lt", Value: 7}}},
		{Op: opSetGlobal, Args: []int16{99, 32}, Cond: []SceneCond{{Item: 2, Cmp: "eq", Value: sceneNumInventory}}},
	})
	if got := e.globals.Get(globalDetailLevel); got != 30 {
		t.Fatalf("met condition skipped, detail = %d", got)
	}
	if got := e.globals.Get(globalDifficulty); got != 7 {
		t.Fatalf("unmet condition ran, difficulty = %d", got)
	}
	if got := e.globals.Get(globalSelectedItem); got != 32 {
		t.Fatalf("item condition failed, slot = %d", got)
	}
}

func TestDragLifecycle(t *testing.T) {
	e := newTestEngine(t)
	it := e.gameData.itemByNum(1)
	e.startDrag(it)
	if e.draggedItem() != it {
		t.Fatal("drag did not take the item")
	}
	if got := e.globals.Get(globalSelectedItem); got != 1 {
		t.Fatalf("selected item global = %d, want 1", got)
	}

	// No drop target in a plain scene: the item lands where the player is.
	e.finishDrag(160, 100)
	if e.dragItem != -1 {
		t.Fatal("drag still active after finish")
	}
	if it.InSceneNum != e.sceneNum {
		t.Fatalf("item in scene %d, want %d", it.InSceneNum, e.sceneNum)
	}
}

func TestPlayTimeAdvances(t *testing.T) {
	e := newTestEngine(t)
	for i := 0; i < framesPerSec*3; i++ {
		if err := e.tick(); err != nil {
			t.Fatalf("tick: %v", err)
		}
	}
	if e.playSecs != 3 {
		t.Fatalf("play seconds %d after 3s of frames", e.playSecs)
	}
}
