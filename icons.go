package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
)

const iconSize = 16

// iconSheet renders item and cursor icons from the converted icon strip,
// a PNG of 16x16 tiles laid out left to right. Tiles quantize into the
// boot palette once at load; color 0 blits transparent.
type iconSheet struct {
	tiles []byte // iconSize*iconSize bytes per tile
	count int
}

func loadIconSheet(name string, res ResourceLoader, pal *Palette) (*iconSheet, error) {
	data, err := res.Load(name)
	if err != nil {
		return nil, err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode icon sheet %s: %w", name, err)
	}
	b := img.Bounds()
	if b.Dy() < iconSize || b.Dx() < iconSize {
		return nil, fmt.Errorf("icon sheet %s: %dx%d is smaller than one tile", name, b.Dx(), b.Dy())
	}

	rgba, ok := img.(*image.RGBA)
	if !ok {
		rgba = image.NewRGBA(b)
		for y := b.Min.Y; y < b.Max.Y; y++ {
			for x := b.Min.X; x < b.Max.X; x++ {
				rgba.Set(x, y, img.At(x, y))
			}
		}
	}

	count := b.Dx() / iconSize
	s := &iconSheet{
		tiles: make([]byte, count*iconSize*iconSize),
		count: count,
	}
	quantMu.Lock()
	defer quantMu.Unlock()
	for t := 0; t < count; t++ {
		for y := 0; y < iconSize; y++ {
			for x := 0; x < iconSize; x++ {
				o := rgba.PixOffset(b.Min.X+t*iconSize+x, b.Min.Y+y)
				if rgba.Pix[o+3] < 0x80 {
					continue // transparent source pixel stays color 0
				}
				c := nearestColor(pal, rgba.Pix[o], rgba.Pix[o+1], rgba.Pix[o+2])
				if c == 0 {
					c = 15
				}
				s.tiles[(t*iconSize+y)*iconSize+x] = c
			}
		}
	}
	return s, nil
}

func (s *iconSheet) DrawIcon(dst *Surface, icon uint16, x, y int) {
	if int(icon) >= s.count {
		logWarnEvery("icon-range", "icon %d beyond the sheet's %d tiles", icon, s.count)
		return
	}
	base := int(icon) * iconSize * iconSize
	for dy := 0; dy < iconSize; dy++ {
		for dx := 0; dx < iconSize; dx++ {
			if c := s.tiles[base+dy*iconSize+dx]; c != 0 {
				dst.Set(x+dx, y+dy, c)
			}
		}
	}
}
