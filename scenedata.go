package main

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Scene 2 is the inventory. Items whose InSceneNum is 2 are carried.
const sceneNumInventory = 2

// Item flags. Alt-icon makes the inventory draw the second icon, used by
// items that change appearance after a script touches them.
const itemFlagAltIcon uint16 = 0x1

// CursorDef pairs an icon index with its click hotspot.
type CursorDef struct {
	Icon uint16 `yaml:"icon"`
	HotX int    `yaml:"hotX"`
	HotY int    `yaml:"hotY"`
}

// GameItem is one takeable object. The static definition comes from the
// master file; InSceneNum, Flags, Quality and Quantity change during play
// and travel through saves.
type GameItem struct {
	Num        uint16    `yaml:"num"`
	Name       string    `yaml:"name"`
	Icon       uint16    `yaml:"icon"`
	AltIcon    uint16    `yaml:"altIcon,omitempty"`
	InSceneNum uint16    `yaml:"inSceneNum"`
	Flags      uint16    `yaml:"flags,omitempty"`
	Quality    int16     `yaml:"quality,omitempty"`
	Quantity   int16     `yaml:"quantity,omitempty"`
	Rect       Rect      `yaml:"rect"`
	OnLClick   []SceneOp `yaml:"onLClick,omitempty"`
	OnRClick   []SceneOp `yaml:"onRClick,omitempty"`
}

// HotArea is a screen region bound to scene interaction ops.
type HotArea struct {
	Num       uint16    `yaml:"num"`
	Rect      Rect      `yaml:"rect"`
	CursorNum uint16    `yaml:"cursor,omitempty"`
	OnLClick  []SceneOp `yaml:"onLClick,omitempty"`
	OnRClick  []SceneOp `yaml:"onRClick,omitempty"`
}

// Trigger runs its ops once per enable when its conditions come true
// during a frame tick.
type Trigger struct {
	Num     uint16      `yaml:"num"`
	Cond    []SceneCond `yaml:"cond,omitempty"`
	Ops     []SceneOp   `yaml:"ops,omitempty"`
	Enabled bool        `yaml:"enabled"`
}

// SceneDirectory is the per-game master file: the tag every scene must
// match, the item table, cursors and the op lists that run around scene
// changes. The original kept this in the GDS resource.
type SceneDirectory struct {
	Tag       string `yaml:"tag"`
	Version   string `yaml:"version,omitempty"`
	InvButton Rect   `yaml:"invButton"`

	DefaultDlgBg   byte `yaml:"defaultDialogBg,omitempty"`
	DefaultDlgFont byte `yaml:"defaultDialogFont,omitempty"`

	StartGameOps   []SceneOp `yaml:"startGameOps,omitempty"`
	ChangeSceneOps []SceneOp `yaml:"changeSceneOps,omitempty"`
	PreTickOps     []SceneOp `yaml:"preTickOps,omitempty"`
	PostTickOps    []SceneOp `yaml:"postTickOps,omitempty"`

	Items   []GameItem  `yaml:"items,omitempty"`
	Cursors []CursorDef `yaml:"cursors,omitempty"`
}

func loadSceneDirectory(name string, res ResourceLoader) (*SceneDirectory, error) {
	data, err := res.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load master %s: %w", name, err)
	}
	var dir SceneDirectory
	if err := yaml.Unmarshal(data, &dir); err != nil {
		return nil, fmt.Errorf("parse master %s: %w", name, err)
	}
	if dir.Tag == "" {
		return nil, fmt.Errorf("master %s: missing tag", name)
	}
	for i := range dir.Items {
		if err := validateOps(dir.Items[i].OnLClick); err != nil {
			return nil, fmt.Errorf("master %s item %d: %w", name, dir.Items[i].Num, err)
		}
		if err := validateOps(dir.Items[i].OnRClick); err != nil {
			return nil, fmt.Errorf("master %s item %d: %w", name, dir.Items[i].Num, err)
		}
	}
	return &dir, nil
}

func (dir *SceneDirectory) itemByNum(num uint16) *GameItem {
	for i := range dir.Items {
		if dir.Items[i].Num == num {
			return &dir.Items[i]
		}
	}
	return nil
}

// syncState carries the mutable item table fields. Item flags joined the
// format in version 2.
func (dir *SceneDirectory) syncState(s *Serializer) {
	tag := dir.Tag
	s.SyncString(&tag)
	if s.IsLoading() && s.Err() == nil && tag != dir.Tag {
		logError("load: save was written for %q, master is %q", tag, dir.Tag)
	}

	count := uint16(len(dir.Items))
	s.SyncU16(&count)
	if s.IsLoading() && int(count) != len(dir.Items) {
		logError("load: save lists %d items, master has %d", count, len(dir.Items))
	}
	n := int(count)
	if n > len(dir.Items) {
		n = len(dir.Items)
	}
	for i := 0; i < n && s.Err() == nil; i++ {
		it := &dir.Items[i]
		s.SyncU16(&it.InSceneNum)
		if s.Version() >= 2 {
			s.SyncU16(&it.Flags)
		}
		s.SyncS16(&it.Quality)
		s.SyncS16(&it.Quantity)
	}
}

// Scene is one loadable room: its dialogs, hot areas, triggers and the
// ops run around its lifetime.
type Scene struct {
	Num      uint16 `yaml:"num"`
	Tag      string `yaml:"tag"`
	Backdrop string `yaml:"backdrop,omitempty"`
	Overlay  string `yaml:"overlay,omitempty"`
	Music    string `yaml:"music,omitempty"`

	EnterOps []SceneOp `yaml:"enterOps,omitempty"`
	LeaveOps []SceneOp `yaml:"leaveOps,omitempty"`
	TickOps  []SceneOp `yaml:"tickOps,omitempty"`

	Dialogs  []Dialog  `yaml:"dialogs,omitempty"`
	HotAreas []HotArea `yaml:"hotAreas,omitempty"`
	Triggers []Trigger `yaml:"triggers,omitempty"`
}

func loadSceneFile(name string, res ResourceLoader) (*Scene, error) {
	data, err := res.Load(name)
	if err != nil {
		return nil, fmt.Errorf("load scene %s: %w", name, err)
	}
	var sc Scene
	if err := yaml.Unmarshal(data, &sc); err != nil {
		return nil, fmt.Errorf("parse scene %s: %w", name, err)
	}
	if err := sc.validate(); err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	for i := range sc.Dialogs {
		d := &sc.Dialogs[i]
		if len(d.RawText) > 0 {
			d.Str = decodeCP437(d.RawText)
		}
		d.fixupStringAndActions()
	}
	return &sc, nil
}

func (sc *Scene) validate() error {
	for i := range sc.Dialogs {
		d := &sc.Dialogs[i]
		switch d.FrameType {
		case dlgFramePlain, dlgFrameBorder, dlgFrameThought, dlgFrameRounded:
		default:
			return fmt.Errorf("dialog %d: unknown frame type %d", d.Num, d.FrameType)
		}
		strLen := len(d.Str)
		if len(d.RawText) > 0 {
			strLen = len(decodeCP437(d.RawText))
		}
		prevEnd := -1
		for _, a := range d.Actions {
			if a.StrStart < 0 || a.StrEnd < a.StrStart || a.StrEnd >= strLen {
				return fmt.Errorf("dialog %d: action span %d..%d outside text", d.Num, a.StrStart, a.StrEnd)
			}
			if a.StrStart <= prevEnd {
				return fmt.Errorf("dialog %d: action spans overlap at %d", d.Num, a.StrStart)
			}
			prevEnd = a.StrEnd
			if err := validateOps(a.Ops); err != nil {
				return fmt.Errorf("dialog %d: %w", d.Num, err)
			}
		}
	}
	for i := range sc.HotAreas {
		if err := validateOps(sc.HotAreas[i].OnLClick); err != nil {
			return fmt.Errorf("hot area %d: %w", sc.HotAreas[i].Num, err)
		}
		if err := validateOps(sc.HotAreas[i].OnRClick); err != nil {
			return fmt.Errorf("hot area %d: %w", sc.HotAreas[i].Num, err)
		}
	}
	for i := range sc.Triggers {
		t := &sc.Triggers[i]
		for _, c := range t.Cond {
			if !validCmp(c.Cmp) {
				return fmt.Errorf("trigger %d: unknown comparator %q", t.Num, c.Cmp)
			}
		}
		if err := validateOps(t.Ops); err != nil {
			return fmt.Errorf("trigger %d: %w", t.Num, err)
		}
	}
	return nil
}

func validateOps(ops []SceneOp) error {
	for _, op := range ops {
		for _, c := range op.Cond {
			if !validCmp(c.Cmp) {
				return fmt.Errorf("op %d: unknown comparator %q", op.Op, c.Cmp)
			}
		}
	}
	return nil
}

func (sc *Scene) dialogByNum(num uint16) *Dialog {
	for i := range sc.Dialogs {
		if sc.Dialogs[i].Num == num {
			return &sc.Dialogs[i]
		}
	}
	return nil
}

func (sc *Scene) triggerByNum(num uint16) *Trigger {
	for i := range sc.Triggers {
		if sc.Triggers[i].Num == num {
			return &sc.Triggers[i]
		}
	}
	return nil
}

// syncState carries the per-session scene state: dialog flags and
// transient layout, trigger enables. Static content always reloads from
// the scene file first.
func (sc *Scene) syncState(s *Serializer) {
	count := uint16(len(sc.Dialogs))
	s.SyncU16(&count)
	n := int(count)
	if n > len(sc.Dialogs) {
		logError("load: save lists %d dialogs, scene has %d", count, len(sc.Dialogs))
		n = len(sc.Dialogs)
	}
	for i := 0; i < n && s.Err() == nil; i++ {
		sc.Dialogs[i].syncState(s)
	}

	count = uint16(len(sc.Triggers))
	s.SyncU16(&count)
	n = int(count)
	if n > len(sc.Triggers) {
		n = len(sc.Triggers)
	}
	for i := 0; i < n && s.Err() == nil; i++ {
		s.SyncBool(&sc.Triggers[i].Enabled)
	}
}
