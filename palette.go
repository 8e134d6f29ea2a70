package main

import "fmt"

// Palette holds 256 RGB colors. Converted palette resources store VGA
// 6-bit channel values, 768 bytes per file.
type Palette struct {
	name string
	rgb  [256 * 3]byte
	boot [256 * 3]byte
}

func (p *Palette) RGB(idx byte) (byte, byte, byte) {
	o := int(idx) * 3
	return p.rgb[o], p.rgb[o+1], p.rgb[o+2]
}

func (p *Palette) Name() string { return p.name }

// newPalette starts from the stock 16 VGA colors plus a gray ramp so text
// and frames stay visible before any palette resource loads.
func newPalette() *Palette {
	p := &Palette{}
	base := [16][3]byte{
		{0x00, 0x00, 0x00}, {0x00, 0x00, 0xaa}, {0x00, 0xaa, 0x00}, {0x00, 0xaa, 0xaa},
		{0xaa, 0x00, 0x00}, {0xaa, 0x00, 0xaa}, {0xaa, 0x55, 0x00}, {0xaa, 0xaa, 0xaa},
		{0x55, 0x55, 0x55}, {0x55, 0x55, 0xff}, {0x55, 0xff, 0x55}, {0x55, 0xff, 0xff},
		{0xff, 0x55, 0x55}, {0xff, 0x55, 0xff}, {0xff, 0xff, 0x55}, {0xff, 0xff, 0xff},
	}
	for i, c := range base {
		p.rgb[i*3] = c[0]
		p.rgb[i*3+1] = c[1]
		p.rgb[i*3+2] = c[2]
	}
	for i := 16; i < 256; i++ {
		v := byte(i)
		p.rgb[i*3] = v
		p.rgb[i*3+1] = v
		p.rgb[i*3+2] = v
	}
	p.boot = p.rgb
	return p
}

// Load reads a converted palette resource and makes it current. The first
// palette loaded becomes the reset target.
func (p *Palette) Load(name string, res ResourceLoader) error {
	data, err := res.Load(name)
	if err != nil {
		return fmt.Errorf("load palette %s: %w", name, err)
	}
	if len(data) != 256*3 {
		return fmt.Errorf("palette %s: want 768 bytes, got %d", name, len(data))
	}
	for i, v := range data {
		// VGA DACs are 6-bit; replicate the top bits into the bottom.
		p.rgb[i] = v<<2 | v>>4
	}
	if p.name == "" {
		p.boot = p.rgb
	}
	p.name = name
	return nil
}

// Reset restores the boot palette. Saves newer than version 3 no longer
// carry palette data and rely on this during load.
func (p *Palette) Reset() {
	p.rgb = p.boot
	p.name = ""
}

// syncState reads or writes the legacy palette block found in saves before
// version 4.
func (p *Palette) syncState(s *Serializer) {
	s.SyncString(&p.name)
	raw := p.rgb[:]
	if s.IsLoading() {
		blob := []byte(nil)
		s.SyncBytes(&blob)
		if s.Err() == nil && len(blob) == len(raw) {
			copy(raw, blob)
		}
		return
	}
	blob := append([]byte(nil), raw...)
	s.SyncBytes(&blob)
}
