package wm

import (
	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
	"github.com/1broseidon/placewm/internal/tiling"
)

// Bar padding sides, in the order bar_padding takes them.
const (
	PadLeft = iota
	PadTop
	PadRight
	PadBottom
)

// Settings is the process-wide configuration changed through wm_config.
type Settings struct {
	BorderWidth    int
	FocusColor     uint32
	UnfocusColor   uint32
	Gaps           tiling.Gaps
	GridGap        int
	CursorPosition geom.Anchor
	Workspaces     int

	SloppyFocus        bool
	ResizeHints        bool
	StickyWindows      bool
	Borders            bool
	LastWindowFocusing bool
	ApplySettings      bool
	ReplayClickOnFocus bool

	// PointerActions is indexed by button - 1.
	PointerActions  [3]command.Action
	PointerModifier uint16
	ClickToFocus    int
	BarPadding      [4]int
}

// DefaultSettings returns the settings in effect before any wm_config call.
func DefaultSettings() Settings {
	return Settings{
		BorderWidth:        5,
		FocusColor:         0x97a293,
		UnfocusColor:       0x393638,
		CursorPosition:     geom.Center,
		Workspaces:         10,
		SloppyFocus:        true,
		Borders:            true,
		LastWindowFocusing: true,
		ApplySettings:      true,
		ReplayClickOnFocus: true,
		PointerActions: [3]command.Action{
			command.ActionMove,
			command.ActionResizeSide,
			command.ActionResizeCorner,
		},
		PointerModifier: command.Mod4,
		ClickToFocus:    command.ButtonAny,
	}
}

func (s Settings) binding() platform.ButtonBinding {
	b := platform.ButtonBinding{
		ClickToFocus: s.ClickToFocus,
		Modifier:     s.PointerModifier,
	}
	for i, a := range s.PointerActions {
		b.Actions[i] = a != command.ActionNothing
	}
	return b
}
