package main

import "fmt"

// Scene op codes handled by the engine core. Anything else belongs to the
// script overlay interpreter and is forwarded there untouched.
const (
	opNone uint16 = iota
	opChangeScene
	opSetGlobal
	opSetItemScene
	opSetDragItem
	opOpenInventory
	opShowDialog
	opShowInvButton
	opHideInvButton
	opEnableTrigger
	opDisableTrigger
	opChangeSceneToStored
	opShowClock
	opHideClock
	opShowMouse
	opHideMouse
	opPlaySound
	opStopSound
	opAddGameMins
	opOverlayBase uint16 = 0x100
)

// SceneOp is one scripted operation from converted scene data. Conditions
// gate the op; all must hold for it to run.
type SceneOp struct {
	Op   uint16      `yaml:"op"`
	Args []int16     `yaml:"args,omitempty"`
	Cond []SceneCond `yaml:"cond,omitempty"`
}

func (op SceneOp) arg(i int) int16 {
	if i < len(op.Args) {
		return op.Args[i]
	}
	return 0
}

// SceneCond compares a global slot, or an item's current scene when Item
// is set, against a constant.
type SceneCond struct {
	Global uint16 `yaml:"global,omitempty"`
	Item   uint16 `yaml:"item,omitempty"`
	Cmp    string `yaml:"cmp"`
	Value  int16  `yaml:"value"`
}

func (c *SceneCond) check(e *Engine) bool {
	var lhs int16
	if c.Item != 0 {
		if item := e.gameData.itemByNum(c.Item); item != nil {
			lhs = int16(item.InSceneNum)
		}
	} else {
		lhs = e.globals.Get(c.Global)
	}
	switch c.Cmp {
	case "", "eq":
		return lhs == c.Value
	case "ne":
		return lhs != c.Value
	case "lt":
		return lhs < c.Value
	case "le":
		return lhs <= c.Value
	case "gt":
		return lhs > c.Value
	case "ge":
		return lhs >= c.Value
	default:
		logWarnEvery("cond", "unknown condition comparator %q", c.Cmp)
		return false
	}
}

func validCmp(cmp string) bool {
	switch cmp {
	case "", "eq", "ne", "lt", "le", "gt", "ge":
		return true
	}
	return false
}

// ScriptRunner owns the script overlay attached to the current scene and
// takes the ops the engine core does not implement itself. The overlay
// format is interpreted elsewhere; the engine only controls attach,
// detach and ticking.
type ScriptRunner interface {
	LoadOverlay(name string) error
	UnloadOverlay()
	OverlayName() string
	// HandleOp consumes one forwarded op, reporting whether it did.
	HandleOp(op SceneOp) bool
	// Tick advances the attached overlay by one frame.
	Tick()
	SyncState(s *Serializer)
}

// nullScript satisfies ScriptRunner when no overlay interpreter is wired
// in. It checks resources exist and keeps saves compatible, nothing more.
type nullScript struct {
	res  ResourceLoader
	name string
}

func newNullScript(res ResourceLoader) *nullScript {
	return &nullScript{res: res}
}

func (n *nullScript) LoadOverlay(name string) error {
	if !n.res.Has(name) {
		return fmt.Errorf("script overlay %s: not found", name)
	}
	n.name = name
	logDebug("script overlay attached: %s", name)
	return nil
}

func (n *nullScript) UnloadOverlay() {
	if n.name != "" {
		logDebug("script overlay detached: %s", n.name)
	}
	n.name = ""
}

func (n *nullScript) OverlayName() string { return n.name }

func (n *nullScript) HandleOp(op SceneOp) bool {
	logDebug("overlay op %d args %v ignored (no interpreter)", op.Op, op.Args)
	return true
}

func (n *nullScript) Tick() {}

// Saves before version 3 carried interpreter state; read and discard the
// legacy blob so the rest of the stream stays aligned.
func (n *nullScript) SyncState(s *Serializer) {
	if s.Version() >= 3 {
		return
	}
	var blob []byte
	s.SyncBytes(&blob)
	if s.IsLoading() && len(blob) > 0 {
		logDebug("discarded %d bytes of legacy overlay state", len(blob))
	}
}
