package main

import (
	"errors"
	"fmt"
	"math/rand"
	"time"
)

const screenW, screenH = 320, 200

// The engine steps once per displayed frame.
const frameMs = 200
const framesPerSec = 1000 / frameMs

// Conditions the engine cannot continue from. Everything else warns and
// carries on so a bad script line never freezes the player.
var (
	errTagMismatch  = errors.New("scene tag does not match master")
	errFutureSave   = errors.New("save version is newer than this build")
	errMissingScene = errors.New("saved scene resource is missing")
	errNoRestart    = errors.New("no restart state recorded")
)

// The implicit inventory button every scene gets on load.
const hotAreaInvButton uint16 = 0xfffe

type mousePos struct {
	X, Y int
}

// Engine owns the current scene and every subsystem that hangs off it.
// All mutation happens on the frame goroutine; there is no locking
// discipline beyond not re-entering tick.
type Engine struct {
	res      ResourceLoader
	variant  *Variant
	gameData *SceneDirectory
	globals  *Globals
	clock    *Clock
	pal      *Palette
	script   ScriptRunner
	sound    SoundPlayer
	icons    IconRenderer
	cursor   *Cursor
	inv      *Inventory

	// The single current-scene slot. scene == nil is the unloaded state.
	scene    *Scene
	sceneNum uint16

	compBuf   *Surface // this frame's composition
	bgBuf     *Surface // persistent background layer
	storedBuf *Surface // transient overlay, color 0 transparent
	bgFile    string

	selCtx    SelectionContext
	rng       *rand.Rand
	lastMouse mousePos

	// Index into gameData.Items, -1 when nothing is dragged.
	dragItem int

	invButtonVisible bool

	// Both flags hold through exactly one tick after a scene change so
	// triggers and tick ops sit out the transition frame.
	justChangedScene1 bool
	justChangedScene2 bool

	textSpeed int16
	playSecs  uint32
	frameNum  uint32

	events []inputEvent
	fatal  error
}

func newEngine(res ResourceLoader, variant *Variant, icons IconRenderer, sound SoundPlayer, script ScriptRunner) (*Engine, error) {
	dir, err := loadSceneDirectory(variant.Master, res)
	if err != nil {
		return nil, err
	}
	if icons == nil {
		icons = nullIcons{}
	}
	if sound == nil {
		sound = &nullSound{}
	}
	if script == nil {
		script = newNullScript(res)
	}

	e := &Engine{
		res:       res,
		variant:   variant,
		gameData:  dir,
		clock:     newClock(),
		pal:       newPalette(),
		script:    script,
		sound:     sound,
		icons:     icons,
		inv:       newInventory(),
		compBuf:   newSurface(screenW, screenH),
		bgBuf:     newSurface(screenW, screenH),
		storedBuf: newSurface(screenW, screenH),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
		dragItem:  -1,
		textSpeed: 5,
	}
	e.globals = newGlobals(e.clock, &e.textSpeed, variant)
	e.cursor = newCursor(icons, dir.Cursors)
	if variant.Palette != "" {
		if err := e.pal.Load(variant.Palette, res); err != nil {
			logError("boot palette: %v", err)
		} else {
			logDebug("boot palette %s", e.pal.Name())
		}
	}
	if _, isNull := icons.(nullIcons); isNull && variant.Icons != "" {
		sheet, err := loadIconSheet(variant.Icons, res, e.pal)
		if err != nil {
			logError("icon sheet: %v", err)
		} else {
			e.icons = sheet
			e.cursor.icons = sheet
		}
	}
	return e, nil
}

func (e *Engine) fatalf(format string, v ...interface{}) {
	err := fmt.Errorf(format, v...)
	logError("fatal: %v", err)
	if e.fatal == nil {
		e.fatal = err
	}
}

// startGame runs the master's start ops and loads the first scene when
// no op already did.
func (e *Engine) startGame() error {
	e.runOps(e.gameData.StartGameOps)
	if e.scene == nil && e.fatal == nil {
		if !e.changeScene(e.variant.StartScene) && e.fatal == nil {
			return fmt.Errorf("start scene %d could not load", e.variant.StartScene)
		}
	}
	return e.fatal
}

// changeScene swaps the current-scene slot. The order below is load
// bearing: leave ops still see the old scene, change ops see no scene,
// enter ops see the new one with the buffers already in their new state.
func (e *Engine) changeScene(num uint16) bool {
	if num == e.sceneNum && e.scene != nil {
		logWarnEvery("chgscene-same", "change to current scene %d ignored", num)
		return false
	}

	// A script jumping elsewhere while the inventory sits open closes it
	// without the usual return hop, discarding any drag in flight. The
	// normal close path clears isOpen before it gets here.
	if e.inv.isOpen && num != sceneNumInventory {
		e.inv.isOpen = false
		e.inv.highlight = -1
		e.dragItem = -1
	}

	file := e.variant.SceneFile(num)
	if !e.res.Has(file) {
		logWarnEvery("chgscene-miss", "change scene: %s does not exist", file)
		return false
	}

	// Entering the inventory keeps the composited frame as its backdrop;
	// every other transition starts from a cleared background so a scene
	// without a backdrop never shows the previous scene's pixels.
	if num == sceneNumInventory {
		e.bgBuf.CopyFrom(e.compBuf)
	} else {
		e.bgBuf.Fill(0)
	}

	if e.scene != nil {
		e.runOps(e.scene.LeaveOps)
		if e.sceneNum != sceneNumInventory {
			e.globals.Set(globalLastVisitedScene, int16(e.sceneNum))
		}
	}
	e.globals.SetLastSceneNum(int16(num))

	e.unloadScene()
	e.bgFile = ""
	e.sound.UnloadMusic()
	e.sound.StopAllSFX()

	e.runOps(e.gameData.ChangeSceneOps)

	if e.dragItem < 0 {
		e.cursor.reset()
	}
	e.storedBuf.Fill(0)

	sc, err := loadSceneFile(file, e.res)
	if err != nil {
		e.fatalf("change scene %d: %v", num, err)
		return false
	}
	if sc.Tag != e.gameData.Tag {
		e.fatalf("change scene %d: %w (%q vs %q)", num, errTagMismatch, sc.Tag, e.gameData.Tag)
		return false
	}
	e.scene = sc
	e.sceneNum = num
	e.registerInvButton()

	if sc.Overlay != "" {
		if err := e.script.LoadOverlay(sc.Overlay); err != nil {
			logError("change scene %d: %v", num, err)
		}
	} else {
		e.script.UnloadOverlay()
	}

	if sc.Backdrop != "" && num != sceneNumInventory {
		if err := drawScreen(sc.Backdrop, e.res, e.pal, e.bgBuf); err != nil {
			logError("change scene %d: %v", num, err)
		} else {
			e.bgFile = sc.Backdrop
		}
	}
	if sc.Music != "" {
		e.sound.PlayMusic(sc.Music)
	}

	e.runOps(sc.EnterOps)
	e.justChangedScene1 = true
	e.justChangedScene2 = true
	return true
}

func (e *Engine) unloadScene() {
	if e.scene == nil {
		return
	}
	for i := range e.scene.Dialogs {
		e.scene.Dialogs[i].clear()
	}
	if e.selCtx.owner != nil {
		e.selCtx = SelectionContext{}
	}
	e.scene = nil
}

// registerInvButton appends the implicit inventory hot area. It is part
// of every scene but never part of any scene file.
func (e *Engine) registerInvButton() {
	e.scene.HotAreas = append(e.scene.HotAreas, HotArea{
		Num:      hotAreaInvButton,
		Rect:     e.gameData.InvButton,
		OnLClick: []SceneOp{{Op: opOpenInventory}},
	})
}

// runOps executes an op list, stopping once an op changed the scene;
// the remaining ops belong to a scene that no longer exists. Returns
// false when it stopped early.
func (e *Engine) runOps(ops []SceneOp) bool {
	for i := range ops {
		op := &ops[i]
		met := true
		for c := range op.Cond {
			if !op.Cond[c].check(e) {
				met = false
				break
			}
		}
		if !met {
			continue
		}
		switch op.Op {
		case opNone:
		case opChangeScene:
			e.changeScene(uint16(op.arg(0)))
			return false
		case opChangeSceneToStored:
			e.changeScene(uint16(e.globals.Get(globalLastVisitedScene)))
			return false
		case opSetGlobal:
			e.globals.Set(uint16(op.arg(0)), op.arg(1))
		case opSetItemScene:
			if it := e.gameData.itemByNum(uint16(op.arg(0))); it != nil {
				it.InSceneNum = uint16(op.arg(1))
			} else {
				logWarnEvery("op-item", "op: unknown item %d", op.arg(0))
			}
		case opSetDragItem:
			if op.arg(0) < 0 {
				e.dragItem = -1
				e.cursor.reset()
			} else if it := e.gameData.itemByNum(uint16(op.arg(0))); it != nil {
				e.startDrag(it)
			}
		case opOpenInventory:
			e.inv.open(e)
			return false
		case opShowDialog:
			e.showDialog(uint16(op.arg(0)))
		case opShowInvButton:
			e.invButtonVisible = true
		case opHideInvButton:
			e.invButtonVisible = false
		case opEnableTrigger, opDisableTrigger:
			if e.scene == nil {
				break
			}
			if t := e.scene.triggerByNum(uint16(op.arg(0))); t != nil {
				t.Enabled = op.Op == opEnableTrigger
			} else {
				logWarnEvery("op-trig", "op: unknown trigger %d", op.arg(0))
			}
		case opShowClock:
			e.clock.setVisible(true)
		case opHideClock:
			e.clock.setVisible(false)
		case opShowMouse:
			e.cursor.setHidden(false)
		case opHideMouse:
			e.cursor.setHidden(true)
		case opPlaySound:
			e.sound.PlaySFX(op.arg(0))
		case opStopSound:
			e.sound.StopAllSFX()
		case opAddGameMins:
			e.clock.addMins(op.arg(0))
		default:
			if op.Op >= opOverlayBase {
				e.script.HandleOp(*op)
			} else {
				logWarnEvery("op-unknown", "unknown op %d ignored", op.Op)
			}
		}
	}
	return true
}

// showDialog makes a scene dialog visible and arms its hide timer. The
// hold time scales with the player's text speed setting.
func (e *Engine) showDialog(num uint16) {
	if e.scene == nil {
		return
	}
	d := e.scene.dialogByNum(num)
	if d == nil {
		logWarnEvery("dlg-miss", "show dialog: no dialog %d in scene %d", num, e.sceneNum)
		return
	}
	d.clear()
	d.setFlag(dlgFlagVisible)
	st := d.ensureState()
	if d.Time > 0 {
		st.hideTime = e.frameNum + uint32(d.Time)*uint32(e.textSpeed)
	}
}

// closeDialog resolves the dialog's action, hides it and chains to the
// follow-up dialog when no action was taken.
func (e *Engine) closeDialog(d *Dialog, force bool) {
	idx := d.pickAction(e, true, force)
	next := d.NextDlgNum
	d.clear()
	if e.selCtx.owner == d {
		e.selCtx = SelectionContext{}
	}
	if idx >= 0 && idx < len(d.Actions) {
		e.runOps(d.Actions[idx].Ops)
		return
	}
	if next != 0 {
		e.showDialog(next)
	}
}

// focusedDialog is the topmost visible dialog with actions, the one
// keyboard selection talks to.
func (e *Engine) focusedDialog() *Dialog {
	if e.scene == nil {
		return nil
	}
	for i := len(e.scene.Dialogs) - 1; i >= 0; i-- {
		d := &e.scene.Dialogs[i]
		if d.hasFlag(dlgFlagVisible) && len(d.Actions) > 0 {
			return d
		}
	}
	return nil
}

func (e *Engine) draggedItem() *GameItem {
	if e.dragItem < 0 || e.dragItem >= len(e.gameData.Items) {
		return nil
	}
	return &e.gameData.Items[e.dragItem]
}

func (e *Engine) startDrag(it *GameItem) {
	for i := range e.gameData.Items {
		if &e.gameData.Items[i] == it {
			e.dragItem = i
			break
		}
	}
	e.clock.addMins(e.globals.MinsOnStartDrag())
	e.globals.Set(globalSelectedItem, int16(it.Num))
}

// finishDrag drops the dragged item at a pixel. Inside the inventory the
// grid takes it; anywhere unresolved the item lands in the scene the
// player is looking at, which the original also settled for.
func (e *Engine) finishDrag(x, y int) {
	it := e.draggedItem()
	e.dragItem = -1
	e.cursor.reset()
	if it == nil {
		return
	}
	e.clock.addMins(e.globals.MinsOnDragFinish())
	if e.inv.isOpen {
		gridW := invCols * invCellW
		gridH := invRows * invCellH
		if (Rect{invOriginX, invOriginY, gridW, gridH}).Contains(x, y) {
			e.inv.dropInto(e, it)
			return
		}
		it.InSceneNum = e.inv.openedFromScene
		return
	}
	logWarnEvery("drag-drop", "no drop target for item %d at %d,%d", it.Num, x, y)
	it.InSceneNum = e.sceneNum
}

// warpMouse moves the virtual pointer. Selection moves call this so a
// following click resolves against the span the keyboard picked.
func (e *Engine) warpMouse(x, y int) {
	e.lastMouse = mousePos{x, y}
}

// tick is one frame: drain input, run the per-frame op lists and
// triggers, advance time, drop expired dialogs, compose. Transition
// frames skip trigger and tick ops once.
func (e *Engine) tick() error {
	e.frameNum++
	if e.frameNum%framesPerSec == 0 {
		e.playSecs++
	}

	e.drainInput()
	e.runOps(e.gameData.PreTickOps)
	if e.scene != nil && !e.justChangedScene1 {
		e.runTriggers()
		if e.scene != nil {
			e.runOps(e.scene.TickOps)
		}
	}
	e.script.Tick()
	e.clock.tick()
	e.autoHideDialogs()
	e.compose()
	e.runOps(e.gameData.PostTickOps)

	e.justChangedScene1 = false
	e.justChangedScene2 = false
	return e.fatal
}

func (e *Engine) runTriggers() {
	sc := e.scene
	for i := range sc.Triggers {
		t := &sc.Triggers[i]
		if !t.Enabled {
			continue
		}
		met := true
		for c := range t.Cond {
			if !t.Cond[c].check(e) {
				met = false
				break
			}
		}
		if !met {
			continue
		}
		t.Enabled = false
		if !e.runOps(t.Ops) || e.scene != sc {
			return
		}
	}
}

func (e *Engine) autoHideDialogs() {
	sc := e.scene
	if sc == nil {
		return
	}
	for i := range sc.Dialogs {
		d := &sc.Dialogs[i]
		if !d.hasFlag(dlgFlagVisible) || d.state == nil || d.state.hideTime == 0 {
			continue
		}
		if e.frameNum >= d.state.hideTime {
			e.closeDialog(d, false)
			if e.scene != sc {
				return
			}
		}
	}
}

// compose rebuilds this frame's picture: background, overlay, dialogs,
// inventory grid, clock, cursor or dragged item.
func (e *Engine) compose() {
	e.compBuf.CopyFrom(e.bgBuf)
	e.compBuf.TransBlitFrom(e.storedBuf)
	if e.scene != nil {
		for i := range e.scene.Dialogs {
			d := &e.scene.Dialogs[i]
			if !d.hasFlag(dlgFlagVisible) {
				continue
			}
			d.draw(e, e.compBuf, stageBackground)
			d.draw(e, e.compBuf, stageForeground)
		}
	}
	e.inv.draw(e, e.compBuf)
	e.clock.draw(e.compBuf)
	if it := e.draggedItem(); it != nil {
		e.icons.DrawIcon(e.compBuf, it.Icon, e.lastMouse.X-8, e.lastMouse.Y-8)
	} else {
		e.cursor.draw(e.compBuf, e.lastMouse.X, e.lastMouse.Y)
	}
}
