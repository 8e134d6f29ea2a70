package main

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"sync"

	xdraw "golang.org/x/image/draw"
)

// Background art arrives as PNG from the asset converter. drawScreen
// decodes it, rescales to the frame size when the converter exported at
// a different resolution, and quantizes into the current palette.

var quantMu sync.Mutex
var quantCache = map[uint32]byte{}

func drawScreen(name string, res ResourceLoader, pal *Palette, dst *Surface) error {
	data, err := res.Load(name)
	if err != nil {
		return err
	}
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("decode backdrop %s: %w", name, err)
	}

	rgba, ok := img.(*image.RGBA)
	if !ok || img.Bounds().Dx() != dst.W || img.Bounds().Dy() != dst.H {
		scaled := image.NewRGBA(image.Rect(0, 0, dst.W, dst.H))
		xdraw.NearestNeighbor.Scale(scaled, scaled.Bounds(), img, img.Bounds(), xdraw.Src, nil)
		rgba = scaled
	}

	quantMu.Lock()
	defer quantMu.Unlock()
	for y := 0; y < dst.H; y++ {
		for x := 0; x < dst.W; x++ {
			o := rgba.PixOffset(x, y)
			r, g, b := rgba.Pix[o], rgba.Pix[o+1], rgba.Pix[o+2]
			dst.Pix[y*dst.W+x] = nearestColor(pal, r, g, b)
		}
	}
	return nil
}

func nearestColor(pal *Palette, r, g, b byte) byte {
	key := uint32(r)<<16 | uint32(g)<<8 | uint32(b)
	if c, ok := quantCache[key]; ok {
		return c
	}
	best := byte(0)
	bestDist := 1 << 30
	for i := 0; i < 256; i++ {
		pr, pg, pb := pal.RGB(byte(i))
		dr, dg, db := int(pr)-int(r), int(pg)-int(g), int(pb)-int(b)
		d := dr*dr + dg*dg + db*db
		if d < bestDist {
			bestDist = d
			best = byte(i)
		}
	}
	quantCache[key] = best
	return best
}

// invalidateQuantCache drops cached color matches after a palette change.
func invalidateQuantCache() {
	quantMu.Lock()
	quantCache = map[uint32]byte{}
	quantMu.Unlock()
}
