package main

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// GlobalDef declares one variant-specific global slot.
type GlobalDef struct {
	Num      uint16 `yaml:"num"`
	ReadOnly bool   `yaml:"readOnly,omitempty"`
	Init     int16  `yaml:"init,omitempty"`
}

// Variant describes one supported game. The asset converter writes a
// variants.yaml next to the converted resources; everything the engine
// used to hard-code per game lives here instead.
type Variant struct {
	Id         string `yaml:"id"`
	Title      string `yaml:"title"`
	Master     string `yaml:"master"`
	Palette    string `yaml:"palette,omitempty"`
	Icons      string `yaml:"icons,omitempty"`
	StartScene uint16 `yaml:"startScene"`

	// Frame style quirks. Dragon gets the ornate corner frames, Willy
	// the inventory zoom box on item swap.
	DragonFrames bool `yaml:"dragonFrames,omitempty"`
	WillyZoom    bool `yaml:"willyZoom,omitempty"`

	ExtraGlobals []GlobalDef `yaml:"extraGlobals,omitempty"`

	// Minute costs the read-only interaction globals report to scripts.
	MinsOnLClick      int16 `yaml:"minsOnLClick,omitempty"`
	MinsOnStartDrag   int16 `yaml:"minsOnStartDrag,omitempty"`
	MinsOnRClick      int16 `yaml:"minsOnRClick,omitempty"`
	MinsOnDragFinish  int16 `yaml:"minsOnDragFinish,omitempty"`
	MinsOnObjInteract int16 `yaml:"minsOnObjInteract,omitempty"`
}

// SceneFile names the converted resource for a scene number.
func (v *Variant) SceneFile(num uint16) string {
	return fmt.Sprintf("S%d.yaml", num)
}

func loadVariants(res ResourceLoader) ([]Variant, error) {
	data, err := res.Load("variants.yaml")
	if err != nil {
		return nil, fmt.Errorf("load variants: %w", err)
	}
	var doc struct {
		Variants []Variant `yaml:"variants"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse variants: %w", err)
	}
	if len(doc.Variants) == 0 {
		return nil, fmt.Errorf("variants.yaml lists no games")
	}
	for i := range doc.Variants {
		v := &doc.Variants[i]
		if v.Id == "" || v.Master == "" {
			return nil, fmt.Errorf("variant %d: id and master are required", i)
		}
	}
	return doc.Variants, nil
}

func findVariant(variants []Variant, id string) *Variant {
	for i := range variants {
		if variants[i].Id == id {
			return &variants[i]
		}
	}
	return nil
}
