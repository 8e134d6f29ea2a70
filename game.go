package main

import (
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

const frameInterval = frameMs * time.Millisecond

// Game bridges ebiten's loop onto the engine's frame stepping. ebiten
// updates at display rate; the engine ticks on its own fixed cadence and
// the last composed frame just redraws in between.
type Game struct {
	e     *Engine
	saves *SaveManager

	frame    *ebiten.Image
	rgba     []byte
	lastTick time.Time

	prevMouse mousePos
}

func newGame(e *Engine, saves *SaveManager) *Game {
	return &Game{
		e:     e,
		saves: saves,
		frame: ebiten.NewImage(screenW, screenH),
		rgba:  make([]byte, screenW*screenH*4),
	}
}

func (g *Game) Update() error {
	g.collectInput()

	if time.Since(g.lastTick) >= frameInterval {
		g.lastTick = time.Now()
		if err := g.e.tick(); err != nil {
			return err
		}
		statFrames++
	}

	if settingsDirty {
		saveSettings()
		settingsDirty = false
	}
	return nil
}

// collectInput turns this display frame's raw input into engine events.
// Everything queues; the engine drains on its own tick.
func (g *Game) collectInput() {
	e := g.e

	mx, my := ebiten.CursorPosition()
	if (mousePos{mx, my}) != g.prevMouse {
		g.prevMouse = mousePos{mx, my}
		if mx >= 0 && my >= 0 && mx < screenW && my < screenH {
			e.pushEvent(inputEvent{kind: evMouseMove, x: mx, y: my})
		}
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		e.pushEvent(inputEvent{kind: evLClick, x: mx, y: my})
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonRight) {
		e.pushEvent(inputEvent{kind: evRClick, x: mx, y: my})
	}

	key := func(k keyAction) {
		e.pushEvent(inputEvent{kind: evKey, key: k})
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyI):
		key(keyInventory)
	case inpututil.IsKeyJustPressed(ebiten.KeyTab),
		inpututil.IsKeyJustPressed(ebiten.KeyArrowDown):
		key(keyNextAction)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowUp):
		key(keyPrevAction)
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter),
		inpututil.IsKeyJustPressed(ebiten.KeySpace):
		key(keyPickAction)
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		key(keyCloseDialog)
	}

	// Save handling stays outside the event queue; it is synchronous and
	// atomic from the engine's point of view.
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyF5):
		if err := g.saves.SaveSlot(e, 1, "quick save"); err != nil {
			logError("quick save: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF9):
		if err := g.saves.LoadSlot(e, 1); err != nil {
			logError("quick load: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF2):
		if err := g.saves.LoadRestart(e); err != nil {
			e.fatalf("restart: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF8):
		if err := g.saves.DeleteSlot(1); err != nil {
			logError("delete save: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF6):
		if err := g.saves.ExportSlot(1); err != nil {
			logError("export save: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF7):
		if err := g.saves.ImportSlot(e, 1); err != nil {
			logError("import save: %v", err)
		}
	}

	// Text speed on the bracket keys, 1 slow .. 9 fast.
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketLeft) && e.textSpeed > 1 {
		e.textSpeed--
		gs.TextSpeed = e.textSpeed
		settingsDirty = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyBracketRight) && e.textSpeed < 9 {
		e.textSpeed++
		gs.TextSpeed = e.textSpeed
		settingsDirty = true
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.e.compBuf.ToRGBA(g.e.pal, g.rgba)
	g.frame.WritePixels(g.rgba)

	op := &ebiten.DrawImageOptions{Filter: ebiten.FilterNearest, DisableMipmaps: true}
	screen.DrawImage(g.frame, op)
	statDraws++
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return screenW, screenH
}
