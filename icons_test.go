package main

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"testing"
)

// testIconPNG encodes a two-tile strip: tile 0 white with one transparent
// pixel at (2,3), tile 1 solid red.
func testIconPNG(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2*iconSize, iconSize))
	for y := 0; y < iconSize; y++ {
		for x := 0; x < iconSize; x++ {
			img.Set(x, y, color.RGBA{0xff, 0xff, 0xff, 0xff})
			img.Set(iconSize+x, y, color.RGBA{0xff, 0x00, 0x00, 0xff})
		}
	}
	img.Set(2, 3, color.RGBA{})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestIconSheetQuantizesAndBlits(t *testing.T) {
	res := newMemLoader()
	res.add("icons.png", testIconPNG(t))

	sheet, err := loadIconSheet("icons.png", res, newPalette())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if sheet.count != 2 {
		t.Fatalf("sheet has %d tiles, want 2", sheet.count)
	}

	dst := newSurface(32, 32)
	dst.FillRect(Rect{0, 0, 32, 32}, 3)
	sheet.DrawIcon(dst, 0, 4, 4)

	if got := dst.Pix[4*32+4]; got != 15 {
		t.Fatalf("white icon pixel quantized to %d, want 15", got)
	}
	// The transparent source pixel leaves the destination alone.
	if got := dst.Pix[(4+3)*32+4+2]; got != 3 {
		t.Fatalf("transparent pixel overwrote the backdrop with %d", got)
	}

	dst.FillRect(Rect{0, 0, 32, 32}, 3)
	sheet.DrawIcon(dst, 1, 0, 0)
	if got := dst.Pix[0]; got != 4 {
		t.Fatalf("red icon pixel quantized to %d, want 4", got)
	}
}

func TestIconSheetOutOfRange(t *testing.T) {
	res := newMemLoader()
	res.add("icons.png", testIconPNG(t))
	sheet, err := loadIconSheet("icons.png", res, newPalette())
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	dst := newSurface(iconSize, iconSize)
	dst.FillRect(Rect{0, 0, iconSize, iconSize}, 7)
	sheet.DrawIcon(dst, 9, 0, 0)
	for _, p := range dst.Pix {
		if p != 7 {
			t.Fatal("out-of-range icon drew pixels")
		}
	}
}

func TestIconSheetRejectsUndersized(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	res := newMemLoader()
	res.add("tiny.png", buf.Bytes())
	if _, err := loadIconSheet("tiny.png", res, newPalette()); err == nil {
		t.Fatal("undersized sheet accepted")
	}
}
