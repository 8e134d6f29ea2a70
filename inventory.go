package main

import "fmt"

// The inventory rides on the scene machinery: opening it changes to
// scene 2 with the originating scene remembered, closing changes back.
// Scene 2 itself carries the furniture; the engine draws the item grid
// over it.

const (
	invCols     = 4
	invRows     = 2
	invCellW    = 50
	invCellH    = 45
	invOriginX  = 60
	invOriginY  = 30
	invPageSize = invCols * invRows
)

type Inventory struct {
	openedFromScene uint16
	isOpen          bool
	highlight       int16 // item num, -1 none
	pageOffset      int16
}

func newInventory() *Inventory {
	return &Inventory{highlight: -1}
}

// open switches to the inventory scene. Opening while already there just
// re-runs the scene's enter ops, matching a scripted re-open.
func (inv *Inventory) open(e *Engine) {
	if inv.isOpen {
		return
	}
	inv.isOpen = true
	inv.highlight = -1
	inv.pageOffset = 0
	if e.sceneNum == sceneNumInventory {
		if e.scene != nil {
			e.runOps(e.scene.EnterOps)
		}
		return
	}
	inv.openedFromScene = e.sceneNum
	e.changeScene(sceneNumInventory)
}

func (inv *Inventory) close(e *Engine) {
	if !inv.isOpen {
		return
	}
	inv.isOpen = false
	inv.highlight = -1
	e.changeScene(inv.openedFromScene)
}

// carried lists the items currently in the inventory, master order.
func (inv *Inventory) carried(dir *SceneDirectory) []*GameItem {
	var items []*GameItem
	for i := range dir.Items {
		if dir.Items[i].InSceneNum == sceneNumInventory {
			items = append(items, &dir.Items[i])
		}
	}
	return items
}

func (inv *Inventory) pageCount(dir *SceneDirectory) int {
	n := len(inv.carried(dir))
	if n == 0 {
		return 1
	}
	return (n + invPageSize - 1) / invPageSize
}

func (inv *Inventory) nextPage(dir *SceneDirectory) {
	if int(inv.pageOffset)+invPageSize < len(inv.carried(dir)) {
		inv.pageOffset += invPageSize
	}
}

func (inv *Inventory) prevPage() {
	if inv.pageOffset >= invPageSize {
		inv.pageOffset -= invPageSize
	}
}

func invCellRect(slot int) Rect {
	col := slot % invCols
	row := slot / invCols
	return Rect{invOriginX + col*invCellW, invOriginY + row*invCellH, invCellW - 4, invCellH - 4}
}

// itemAt returns the carried item under a pixel on the current page.
func (inv *Inventory) itemAt(dir *SceneDirectory, x, y int) *GameItem {
	items := inv.carried(dir)
	for slot := 0; slot < invPageSize; slot++ {
		idx := int(inv.pageOffset) + slot
		if idx >= len(items) {
			break
		}
		if invCellRect(slot).Contains(x, y) {
			return items[idx]
		}
	}
	return nil
}

// draw paints the current page of the grid with the highlight box and
// page arrows. Item icons render through the engine's icon sheet.
func (inv *Inventory) draw(e *Engine, dst *Surface) {
	if !inv.isOpen {
		return
	}
	items := inv.carried(e.gameData)
	font := fontTiny
	for slot := 0; slot < invPageSize; slot++ {
		idx := int(inv.pageOffset) + slot
		if idx >= len(items) {
			break
		}
		it := items[idx]
		cell := invCellRect(slot)
		dst.FrameRect(cell, 15)
		if int16(it.Num) == inv.highlight {
			dst.FrameRect(Rect{cell.X - 1, cell.Y - 1, cell.W + 2, cell.H + 2}, 14)
		}
		icon := it.Icon
		if it.Flags&itemFlagAltIcon != 0 {
			icon = it.AltIcon
		}
		e.icons.DrawIcon(dst, icon, cell.X+(cell.W-16)/2, cell.Y+4)
		name := itemDisplayName(it.Name)
		font.DrawString(dst, name, cell.X+(cell.W-stringWidth(font, name))/2, cell.Y+cell.H-font.Height()-2, 15)
	}

	if inv.pageOffset > 0 {
		fontGame.DrawString(dst, "<", invOriginX-14, invOriginY+invRows*invCellH/2, 15)
	}
	if int(inv.pageOffset)+invPageSize < len(items) {
		fontGame.DrawString(dst, ">", invOriginX+invCols*invCellW+6, invOriginY+invRows*invCellH/2, 15)
	}
	if pages := inv.pageCount(e.gameData); pages > 1 {
		label := fmt.Sprintf("%d/%d", int(inv.pageOffset)/invPageSize+1, pages)
		fontTiny.DrawString(dst, label, invOriginX+(invCols*invCellW-stringWidth(fontTiny, label))/2,
			invOriginY+invRows*invCellH+4, 15)
	}
}

// handleClick resolves a left click inside the inventory scene: page
// arrows first, then the grid. Clicking a highlighted item starts a drag;
// clicking another item swaps the highlight (with the zoom box on
// variants that show one).
func (inv *Inventory) handleClick(e *Engine, x, y int) bool {
	if !inv.isOpen {
		return false
	}
	arrowY := invOriginY + invRows*invCellH/2
	if (Rect{invOriginX - 16, arrowY - 4, 12, 12}).Contains(x, y) {
		inv.prevPage()
		return true
	}
	if (Rect{invOriginX + invCols*invCellW + 4, arrowY - 4, 12, 12}).Contains(x, y) {
		inv.nextPage(e.gameData)
		return true
	}

	it := inv.itemAt(e.gameData, x, y)
	if it == nil {
		return false
	}
	if int16(it.Num) == inv.highlight {
		e.startDrag(it)
		return true
	}
	if inv.highlight >= 0 && e.variant.WillyZoom {
		inv.drawZoomBox(e, it)
	}
	inv.highlight = int16(it.Num)
	e.globals.Set(globalSelectedItem, int16(it.Num))
	return true
}

// drawZoomBox flashes the swap target enlarged in the middle of the
// screen for one frame, a quirk only one variant ships with.
func (inv *Inventory) drawZoomBox(e *Engine, it *GameItem) {
	r := Rect{e.compBuf.W/2 - 20, e.compBuf.H/2 - 20, 40, 40}
	e.storedBuf.FillRect(r, 0)
	e.storedBuf.FrameRect(r, 15)
	e.icons.DrawIcon(e.storedBuf, it.Icon, r.X+12, r.Y+12)
}

// dropInto puts a dragged item back into the inventory.
func (inv *Inventory) dropInto(e *Engine, it *GameItem) {
	it.InSceneNum = sceneNumInventory
	inv.highlight = int16(it.Num)
}

// syncState matches the version 1 layout exactly: opened-from scene,
// open flag, highlight, page offset.
func (inv *Inventory) syncState(s *Serializer) {
	s.SyncU16(&inv.openedFromScene)
	s.SyncBool(&inv.isOpen)
	s.SyncS16(&inv.highlight)
	s.SyncS16(&inv.pageOffset)
}
