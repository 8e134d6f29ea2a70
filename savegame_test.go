package main

import (
	"bytes"
	"errors"
	"math/rand"
	"testing"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	e1 := newTestEngine(t)
	e1.clock.addMins(90)
	e1.globals.Set(globalSelectedItem, 42)
	e1.gameData.itemByNum(1).InSceneNum = sceneNumInventory
	e1.gameData.itemByNum(1).Quantity = 3
	e1.textSpeed = 7
	e1.playSecs = 123
	e1.showDialog(40)

	data, err := saveGameBytes(e1)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	e2 := newTestEngine(t)
	if err := loadGameBytes(e2, data); err != nil {
		t.Fatalf("load: %v", err)
	}

	if e2.sceneNum != 5 || e2.scene == nil {
		t.Fatalf("scene %d after load, want 5", e2.sceneNum)
	}
	if got := e2.globals.Get(globalSelectedItem); got != 42 {
		t.Fatalf("selected item %d, want 42", got)
	}
	if e2.clock.String() != e1.clock.String() {
		t.Fatalf("clock %q, want %q", e2.clock, e1.clock)
	}
	if e2.textSpeed != 7 {
		t.Fatalf("text speed %d, want 7", e2.textSpeed)
	}
	if e2.playSecs != 123 {
		t.Fatalf("play seconds %d, want 123", e2.playSecs)
	}
	it := e2.gameData.itemByNum(1)
	if it.InSceneNum != sceneNumInventory || it.Quantity != 3 {
		t.Fatalf("item state lost: %+v", it)
	}
	d := e2.scene.dialogByNum(40)
	if !d.hasFlag(dlgFlagVisible) || d.state == nil {
		t.Fatal("dialog visibility lost across the save")
	}
	if e2.dragItem != -1 {
		t.Fatalf("drag survived the load: %d", e2.dragItem)
	}
}

// Every supported version must load its own output; older layouts carry
// extra sections (palette, script blob) that newer ones dropped.
func TestSaveLoadAllVersions(t *testing.T) {
	for version := minSaveVersion; version <= currentSaveVersion; version++ {
		e1 := newTestEngine(t)
		e1.globals.Set(globalSelectedItem, int16(10 + version))
		e1.playSecs = uint32(version)

		var buf bytes.Buffer
		s := &Serializer{w: &buf, version: uint8(version)}
		if err := e1.syncGame(s); err != nil {
			t.Fatalf("version %d: save: %v", version, err)
		}
		data := append([]byte(saveMagic), byte(version))
		data = append(data, buf.Bytes()...)

		e2 := newTestEngine(t)
		if err := loadGameBytes(e2, data); err != nil {
			t.Fatalf("version %d: load: %v", version, err)
		}
		if got := e2.globals.Get(globalSelectedItem); got != int16(10+version) {
			t.Fatalf("version %d: selected item %d", version, got)
		}
		if e2.playSecs != uint32(version) {
			t.Fatalf("version %d: play seconds %d", version, e2.playSecs)
		}
	}
}

func TestItemFlagsNeedVersion2(t *testing.T) {
	e1 := newTestEngine(t)
	e1.gameData.itemByNum(1).Flags = itemFlagAltIcon

	for _, version := range []uint8{1, 2} {
		var buf bytes.Buffer
		s := &Serializer{w: &buf, version: version}
		if err := e1.syncGame(s); err != nil {
			t.Fatalf("version %d: save: %v", version, err)
		}
		data := append([]byte(saveMagic), version)
		data = append(data, buf.Bytes()...)

		e2 := newTestEngine(t)
		if err := loadGameBytes(e2, data); err != nil {
			t.Fatalf("version %d: load: %v", version, err)
		}
		got := e2.gameData.itemByNum(1).Flags
		if version == 1 && got != 0 {
			t.Fatalf("version 1 should not carry item flags, got %#x", got)
		}
		if version == 2 && got != itemFlagAltIcon {
			t.Fatalf("version 2 lost item flags, got %#x", got)
		}
	}
}

func TestLoadResetsPalette(t *testing.T) {
	e1 := newTestEngine(t)
	data, err := saveGameBytes(e1)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	e2 := newTestEngine(t)
	e2.pal.rgb[0] = 0x12 // scribble on the live palette
	if err := loadGameBytes(e2, data); err != nil {
		t.Fatalf("load: %v", err)
	}
	r, _, _ := e2.pal.RGB(0)
	if r == 0x12 {
		t.Fatal("version 4 load did not reset the palette")
	}
}

func TestLoadRejectsFutureVersion(t *testing.T) {
	e := newTestEngine(t)
	err := loadGameBytes(e, []byte("DGSV\x05"))
	if !errors.Is(err, errFutureSave) {
		t.Fatalf("expected future-save error, got %v", err)
	}
}

func TestLoadRejectsBadMagic(t *testing.T) {
	e := newTestEngine(t)
	if err := loadGameBytes(e, []byte("NOPE")); err == nil {
		t.Fatal("expected a bad magic to fail")
	}
	if err := loadGameBytes(e, nil); err == nil {
		t.Fatal("expected an empty payload to fail")
	}
}

func TestLoadMissingSceneResource(t *testing.T) {
	e1 := newTestEngine(t)
	data, err := saveGameBytes(e1)
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	// The target engine's data set lost S5; the load must refuse cleanly
	// instead of leaving a half-restored game.
	res := testResources()
	delete(res.files, "S5.yaml")
	v := testVariant()
	v.StartScene = 6
	e2, err := newEngine(res, v, nil, nil, nil)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	e2.rng = rand.New(rand.NewSource(42))
	if err := e2.startGame(); err != nil {
		t.Fatalf("startGame: %v", err)
	}

	if err := loadGameBytes(e2, data); !errors.Is(err, errMissingScene) {
		t.Fatalf("expected missing-scene error, got %v", err)
	}
}

func TestSaveWithoutSceneFails(t *testing.T) {
	res := testResources()
	e, err := newEngine(res, testVariant(), nil, nil, nil)
	if err != nil {
		t.Fatalf("newEngine: %v", err)
	}
	if _, err := saveGameBytes(e); err == nil {
		t.Fatal("expected saving with no scene loaded to fail")
	}
}

func TestSaveSlotLabel(t *testing.T) {
	info := SaveSlotInfo{
		Slot:        3,
		Description: "by the gate",
		SceneNum:    12,
		PlaySecs:    65,
		Size:        2048,
	}
	label := info.Label()
	if label == "" {
		t.Fatal("empty label")
	}
	for _, want := range []string{"3:", "by the gate", "scene 12"} {
		if !bytes.Contains([]byte(label), []byte(want)) {
			t.Fatalf("label %q missing %q", label, want)
		}
	}
}
