package main

import (
	"bytes"
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/quasilyte/gdata/v2"
	"github.com/sqweek/dialog"
	"gopkg.in/yaml.v3"
)

const saveMagic = "DGSV"

const (
	saveObject    = "saves"
	saveIndexProp = "index.yaml"
	restartProp   = "restart"
)

// syncGame walks every subsystem in the fixed protocol order. The first
// error wins and the whole operation reports it; there is no partial
// restore. Loading reloads the saved scene from its resource and re-runs
// its enter ops at the very end, regenerating the pixel state the save
// never carried.
func (e *Engine) syncGame(s *Serializer) error {
	if !s.IsLoading() && e.scene == nil {
		return fmt.Errorf("save: no scene loaded")
	}

	e.gameData.syncState(s)

	num := e.sceneNum
	s.SyncU16(&num)
	if s.IsLoading() {
		if s.Err() != nil {
			return s.Err()
		}
		file := e.variant.SceneFile(num)
		if !e.res.Has(file) {
			return fmt.Errorf("%w: scene %d (%s)", errMissingScene, num, file)
		}
		e.unloadScene()
		e.sound.UnloadMusic()
		e.sound.StopAllSFX()
		e.script.UnloadOverlay()
		sc, err := loadSceneFile(file, e.res)
		if err != nil {
			return err
		}
		if sc.Tag != e.gameData.Tag {
			return fmt.Errorf("%w: scene %d %q vs %q", errTagMismatch, num, sc.Tag, e.gameData.Tag)
		}
		e.scene = sc
		e.sceneNum = num
		e.registerInvButton()
		if sc.Overlay != "" {
			if err := e.script.LoadOverlay(sc.Overlay); err != nil {
				logError("load: %v", err)
			}
		}
	}

	e.scene.syncState(s)
	e.globals.syncState(s)
	e.clock.syncState(s)
	e.inv.syncState(s)

	// The palette block left the format in version 4; newer loads reset
	// to the boot palette instead.
	if s.Version() < 4 {
		e.pal.syncState(s)
		if s.IsLoading() {
			invalidateQuantCache()
		}
	} else if s.IsLoading() {
		e.pal.Reset()
		invalidateQuantCache()
	}

	e.script.SyncState(s)

	s.SyncS16(&e.textSpeed)
	s.SyncBool(&e.justChangedScene1)
	s.SyncBool(&e.justChangedScene2)
	s.SyncU32(&e.playSecs)
	s.SyncString(&e.bgFile)
	if s.Err() != nil {
		return s.Err()
	}

	if s.IsLoading() {
		if e.bgFile != "" {
			if err := drawScreen(e.bgFile, e.res, e.pal, e.bgBuf); err != nil {
				logError("load: redraw background: %v", err)
				e.bgFile = ""
				e.bgBuf.Fill(0)
			}
		} else {
			e.bgBuf.Fill(0)
		}
		e.storedBuf.Fill(0)
		e.dragItem = -1
		e.cursor.reset()
		e.runOps(e.scene.EnterOps)
	}
	return s.Err()
}

// saveGameBytes renders the whole game state into one payload: magic,
// version byte, then the syncGame stream.
func saveGameBytes(e *Engine) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(saveMagic)
	buf.WriteByte(currentSaveVersion)
	s := newSaver(&buf)
	if err := e.syncGame(s); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// loadGameBytes restores a payload produced by any supported version. A
// version from the future refuses outright.
func loadGameBytes(e *Engine, data []byte) error {
	if len(data) < len(saveMagic)+1 || string(data[:len(saveMagic)]) != saveMagic {
		return fmt.Errorf("not a saved game")
	}
	version := data[len(saveMagic)]
	if version > currentSaveVersion {
		return fmt.Errorf("%w: version %d, this build reads up to %d", errFutureSave, version, currentSaveVersion)
	}
	if version < minSaveVersion {
		return fmt.Errorf("save version %d is older than the oldest supported (%d)", version, minSaveVersion)
	}
	s := newLoader(bytes.NewReader(data[len(saveMagic)+1:]), version)
	return e.syncGame(s)
}

// SaveSlotInfo is one entry of the slot index. The index repeats enough
// of the payload header that the load menu never has to parse saves.
type SaveSlotInfo struct {
	Slot        int       `yaml:"slot"`
	Description string    `yaml:"description"`
	Variant     string    `yaml:"variant"`
	SceneNum    uint16    `yaml:"sceneNum"`
	PlaySecs    uint32    `yaml:"playSecs"`
	SavedAt     time.Time `yaml:"savedAt"`
	Size        int       `yaml:"size"`
}

// Label is what the save menu prints for a slot.
func (i SaveSlotInfo) Label() string {
	return fmt.Sprintf("%d: %s (scene %d, %s played, %s, %s)",
		i.Slot, i.Description, i.SceneNum, playTimeString(i.PlaySecs),
		humanize.Time(i.SavedAt), humanize.Bytes(uint64(i.Size)))
}

// SaveManager stores slots in the platform save-data directory, one
// payload per slot plus a yaml index listing the occupied ones.
type SaveManager struct {
	store *gdata.Manager
	index []SaveSlotInfo
}

func openSaveManager(appName string) (*SaveManager, error) {
	store, err := gdata.Open(gdata.Config{AppName: appName})
	if err != nil {
		return nil, fmt.Errorf("open save store: %w", err)
	}
	m := &SaveManager{store: store}
	if store.ObjectPropExists(saveObject, saveIndexProp) {
		data, err := store.LoadObjectProp(saveObject, saveIndexProp)
		if err != nil {
			return nil, fmt.Errorf("load save index: %w", err)
		}
		var idx struct {
			Slots []SaveSlotInfo `yaml:"slots"`
		}
		if err := yaml.Unmarshal(data, &idx); err != nil {
			logError("save index unreadable, starting empty: %v", err)
		} else {
			m.index = idx.Slots
		}
	}
	return m, nil
}

func slotProp(slot int) string { return fmt.Sprintf("slot%02d", slot) }

func (m *SaveManager) writeIndex() error {
	sort.Slice(m.index, func(a, b int) bool { return m.index[a].Slot < m.index[b].Slot })
	data, err := yaml.Marshal(struct {
		Slots []SaveSlotInfo `yaml:"slots"`
	}{m.index})
	if err != nil {
		return err
	}
	return m.store.SaveObjectProp(saveObject, saveIndexProp, data)
}

func (m *SaveManager) List() []SaveSlotInfo {
	return append([]SaveSlotInfo(nil), m.index...)
}

func (m *SaveManager) SaveSlot(e *Engine, slot int, description string) error {
	data, err := saveGameBytes(e)
	if err != nil {
		return err
	}
	if err := m.store.SaveObjectProp(saveObject, slotProp(slot), data); err != nil {
		return fmt.Errorf("save slot %d: %w", slot, err)
	}
	info := SaveSlotInfo{
		Slot:        slot,
		Description: description,
		Variant:     e.variant.Id,
		SceneNum:    e.sceneNum,
		PlaySecs:    e.playSecs,
		SavedAt:     time.Now(),
		Size:        len(data),
	}
	kept := m.index[:0]
	for _, old := range m.index {
		if old.Slot != slot {
			kept = append(kept, old)
		}
	}
	m.index = append(kept, info)
	return m.writeIndex()
}

func (m *SaveManager) LoadSlot(e *Engine, slot int) error {
	if !m.store.ObjectPropExists(saveObject, slotProp(slot)) {
		return fmt.Errorf("slot %d is empty", slot)
	}
	data, err := m.store.LoadObjectProp(saveObject, slotProp(slot))
	if err != nil {
		return fmt.Errorf("load slot %d: %w", slot, err)
	}
	return loadGameBytes(e, data)
}

func (m *SaveManager) DeleteSlot(slot int) error {
	if err := m.store.DeleteObjectProp(saveObject, slotProp(slot)); err != nil {
		return fmt.Errorf("delete slot %d: %w", slot, err)
	}
	kept := m.index[:0]
	for _, old := range m.index {
		if old.Slot != slot {
			kept = append(kept, old)
		}
	}
	m.index = kept
	return m.writeIndex()
}

// SaveRestart snapshots the boot state. LoadRestart refuses to run without
// one, so this is written right after the first scene loads.
func (m *SaveManager) SaveRestart(e *Engine) error {
	data, err := saveGameBytes(e)
	if err != nil {
		return err
	}
	return m.store.SaveObjectProp(saveObject, restartProp, data)
}

func (m *SaveManager) LoadRestart(e *Engine) error {
	if !m.store.ObjectPropExists(saveObject, restartProp) {
		return errNoRestart
	}
	data, err := m.store.LoadObjectProp(saveObject, restartProp)
	if err != nil {
		return fmt.Errorf("load restart state: %w", err)
	}
	return loadGameBytes(e, data)
}

// ExportSlot copies a slot out to a file the player picks.
func (m *SaveManager) ExportSlot(slot int) error {
	if !m.store.ObjectPropExists(saveObject, slotProp(slot)) {
		return fmt.Errorf("slot %d is empty", slot)
	}
	data, err := m.store.LoadObjectProp(saveObject, slotProp(slot))
	if err != nil {
		return err
	}
	path, err := dialog.File().Filter("Saved game", "sav").Title("Export saved game").Save()
	if err != nil {
		if err == dialog.ErrCancelled {
			return nil
		}
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ImportSlot brings an exported file back into a slot, validating the
// payload before anything is stored.
func (m *SaveManager) ImportSlot(e *Engine, slot int) error {
	path, err := dialog.File().Filter("Saved game", "sav").Title("Import saved game").Load()
	if err != nil {
		if err == dialog.ErrCancelled {
			return nil
		}
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if len(data) < len(saveMagic)+1 || string(data[:len(saveMagic)]) != saveMagic {
		return fmt.Errorf("%s is not a saved game", path)
	}
	if data[len(saveMagic)] > currentSaveVersion {
		return fmt.Errorf("%w: %s", errFutureSave, path)
	}
	if err := m.store.SaveObjectProp(saveObject, slotProp(slot), data); err != nil {
		return err
	}
	info := SaveSlotInfo{
		Slot:        slot,
		Description: "imported",
		Variant:     e.variant.Id,
		SavedAt:     time.Now(),
		Size:        len(data),
	}
	kept := m.index[:0]
	for _, old := range m.index {
		if old.Slot != slot {
			kept = append(kept, old)
		}
	}
	m.index = append(kept, info)
	return m.writeIndex()
}
