package main

import (
	"encoding/json"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
)

type Settings struct {
	Scale      int    `json:"scale"`
	Fullscreen bool   `json:"fullscreen"`
	Vsync      bool   `json:"vsync"`
	TextSpeed  int16  `json:"textSpeed"`
	Debug      bool   `json:"debug"`
	DataDir    string `json:"dataDir"`
	Variant    string `json:"variant"`
	Presence   bool   `json:"presence"`
}

var gs = Settings{
	Scale:     3,
	Vsync:     true,
	TextSpeed: 5,
	Presence:  true,
}

var settingsDirty bool

func loadSettings() bool {
	path := filepath.Join(baseDir, "settings.json")
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, &gs); err != nil {
		log.Printf("settings.json unreadable, using defaults: %v", err)
		return false
	}
	if gs.Scale < 1 {
		gs.Scale = 1
	}
	if gs.TextSpeed < 1 || gs.TextSpeed > 9 {
		gs.TextSpeed = 5
	}
	return true
}

func applySettings() {
	ebiten.SetVsyncEnabled(gs.Vsync)
	ebiten.SetFullscreen(gs.Fullscreen)
	ebiten.SetWindowSize(screenW*gs.Scale, screenH*gs.Scale)
}

func saveSettings() {
	data, err := json.MarshalIndent(gs, "", "  ")
	if err != nil {
		log.Printf("save settings: %v", err)
		return
	}
	path := filepath.Join(baseDir, "settings.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		log.Printf("save settings: %v", err)
	}
}
