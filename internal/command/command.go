// Package command defines the remote-control surface of the window manager:
// the command and config-key enumerations, their argument kinds, and the
// string and in-band word encodings of a call.
//
// Ordinals are wire-visible. In-band messages carry the command ordinal in
// their first word, so new entries must only ever be appended.
package command

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownCommand = errors.New("unknown command")
	ErrUnknownKey     = errors.New("unknown config key")
	ErrArity          = errors.New("wrong number of arguments")
	ErrBadArgument    = errors.New("invalid argument")
)

// Command identifies one remote command.
type Command int

const (
	WindowMove Command = iota
	WindowMoveAbsolute
	WindowResize
	WindowResizeAbsolute
	WindowMaximize
	WindowUnmaximize
	WindowHorMaximize
	WindowVerMaximize
	WindowClose
	WindowPutInGrid
	WindowSnap
	WindowCycle
	WindowRevCycle
	WindowCardinalFocus
	WindowCardinalMove
	WindowCardinalGrow
	WindowCardinalShrink
	WindowFocus
	WindowFocusLast
	WorkspaceAddWindow
	WorkspaceGoto
	WorkspaceSetBar
	WMQuit
	WMConfig
	WinConfig
	GetFocused
)

// Kind is the type of a single command argument.
type Kind int

const (
	KindInt Kind = iota
	KindUint
	KindBool
	KindDirection
	KindPosition
	KindAction
	KindModifier
	KindButton
	KindWindow
)

var kindNames = [...]string{
	KindInt:       "int",
	KindUint:      "hex",
	KindBool:      "bool",
	KindDirection: "direction",
	KindPosition:  "position",
	KindAction:    "action",
	KindModifier:  "modifier",
	KindButton:    "button",
	KindWindow:    "window",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return fmt.Sprintf("Kind(%d)", int(k))
	}
	return kindNames[k]
}

type commandSpec struct {
	name string
	args []Kind
	// signed commands encode each int in-band as a sign word pair
	// followed by the magnitudes.
	signed bool
	// keyed commands take a config key first; its arguments follow.
	keyed bool
}

var commands = [...]commandSpec{
	WindowMove:           {name: "window_move", args: []Kind{KindInt, KindInt}, signed: true},
	WindowMoveAbsolute:   {name: "window_move_absolute", args: []Kind{KindInt, KindInt}, signed: true},
	WindowResize:         {name: "window_resize", args: []Kind{KindInt, KindInt}, signed: true},
	WindowResizeAbsolute: {name: "window_resize_absolute", args: []Kind{KindInt, KindInt}},
	WindowMaximize:       {name: "window_maximize"},
	WindowUnmaximize:     {name: "window_unmaximize"},
	WindowHorMaximize:    {name: "window_hor_maximize"},
	WindowVerMaximize:    {name: "window_ver_maximize"},
	WindowClose:          {name: "window_close"},
	WindowPutInGrid:      {name: "window_put_in_grid", args: []Kind{KindInt, KindInt, KindInt, KindInt}},
	WindowSnap:           {name: "window_snap", args: []Kind{KindPosition}},
	WindowCycle:          {name: "window_cycle"},
	WindowRevCycle:       {name: "window_rev_cycle"},
	WindowCardinalFocus:  {name: "window_cardinal_focus", args: []Kind{KindDirection}},
	WindowCardinalMove:   {name: "window_cardinal_move", args: []Kind{KindDirection}},
	WindowCardinalGrow:   {name: "window_cardinal_grow", args: []Kind{KindDirection}},
	WindowCardinalShrink: {name: "window_cardinal_shrink", args: []Kind{KindDirection}},
	WindowFocus:          {name: "window_focus", args: []Kind{KindWindow}},
	WindowFocusLast:      {name: "window_focus_last"},
	WorkspaceAddWindow:   {name: "workspace_add_window", args: []Kind{KindInt}},
	WorkspaceGoto:        {name: "workspace_goto", args: []Kind{KindInt}},
	WorkspaceSetBar:      {name: "workspace_set_bar", args: []Kind{KindInt, KindInt}},
	WMQuit:               {name: "wm_quit", args: []Kind{KindInt}},
	WMConfig:             {name: "wm_config", keyed: true},
	WinConfig:            {name: "win_config", keyed: true},
	GetFocused:           {name: "get_focused"},
}

func (c Command) valid() bool {
	return c >= 0 && int(c) < len(commands)
}

func (c Command) String() string {
	if !c.valid() {
		return fmt.Sprintf("Command(%d)", int(c))
	}
	return commands[c].name
}

// Args returns the argument kinds of a non-keyed command.
func (c Command) Args() []Kind {
	if !c.valid() {
		return nil
	}
	return commands[c].args
}

// Lookup resolves a command by name.
func Lookup(name string) (Command, error) {
	for i, spec := range commands {
		if spec.name == name {
			return Command(i), nil
		}
	}
	return 0, fmt.Errorf("%w: no command matches %q", ErrUnknownCommand, name)
}

// Commands returns every command in ordinal order.
func Commands() []Command {
	out := make([]Command, len(commands))
	for i := range commands {
		out[i] = Command(i)
	}
	return out
}

// Usage returns a one-line synopsis such as "window_snap <position>".
func Usage(c Command) string {
	if !c.valid() {
		return ""
	}
	spec := commands[c]
	s := spec.name
	switch c {
	case WMConfig:
		return s + " <key> <args...>"
	case WinConfig:
		return s + " <key> <window> <args...>"
	}
	for _, k := range spec.args {
		s += " <" + k.String() + ">"
	}
	return s
}

// ConfigKey identifies a global setting changed through wm_config.
type ConfigKey int

const (
	BorderWidth ConfigKey = iota
	ColorFocused
	ColorUnfocused
	GapWidth
	GridGapWidth
	CursorPosition
	WorkspacesNr
	EnableSloppyFocus
	EnableResizeHints
	StickyWindows
	EnableBorders
	EnableLastWindowFocusing
	ApplySettings
	ReplayClickOnFocus
	PointerActions
	PointerModifier
	ClickToFocus
	BarPadding
)

type keySpec struct {
	name string
	args []Kind
}

var configKeys = [...]keySpec{
	BorderWidth:              {"border_width", []Kind{KindInt}},
	ColorFocused:             {"color_focused", []Kind{KindUint}},
	ColorUnfocused:           {"color_unfocused", []Kind{KindUint}},
	GapWidth:                 {"gap_width", []Kind{KindPosition, KindInt}},
	GridGapWidth:             {"grid_gap_width", []Kind{KindInt}},
	CursorPosition:           {"cursor_position", []Kind{KindPosition}},
	WorkspacesNr:             {"workspaces_nr", []Kind{KindInt}},
	EnableSloppyFocus:        {"enable_sloppy_focus", []Kind{KindBool}},
	EnableResizeHints:        {"enable_resize_hints", []Kind{KindBool}},
	StickyWindows:            {"sticky_windows", []Kind{KindBool}},
	EnableBorders:            {"enable_borders", []Kind{KindBool}},
	EnableLastWindowFocusing: {"enable_last_window_focusing", []Kind{KindBool}},
	ApplySettings:            {"apply_settings", []Kind{KindBool}},
	ReplayClickOnFocus:       {"replay_click_on_focus", []Kind{KindBool}},
	PointerActions:           {"pointer_actions", []Kind{KindAction, KindAction, KindAction}},
	PointerModifier:          {"pointer_modifier", []Kind{KindModifier}},
	ClickToFocus:             {"click_to_focus", []Kind{KindButton}},
	BarPadding:               {"bar_padding", []Kind{KindInt, KindInt, KindInt, KindInt}},
}

func (k ConfigKey) String() string {
	if k < 0 || int(k) >= len(configKeys) {
		return fmt.Sprintf("ConfigKey(%d)", int(k))
	}
	return configKeys[k].name
}

// Args returns the argument kinds of the key.
func (k ConfigKey) Args() []Kind {
	if k < 0 || int(k) >= len(configKeys) {
		return nil
	}
	return configKeys[k].args
}

// LookupConfigKey resolves a config key by name.
func LookupConfigKey(name string) (ConfigKey, error) {
	for i, spec := range configKeys {
		if spec.name == name {
			return ConfigKey(i), nil
		}
	}
	return 0, fmt.Errorf("%w: no config key matches %q", ErrUnknownKey, name)
}

// ConfigKeys returns every config key in ordinal order.
func ConfigKeys() []ConfigKey {
	out := make([]ConfigKey, len(configKeys))
	for i := range configKeys {
		out[i] = ConfigKey(i)
	}
	return out
}

// WinConfigKey identifies a per-window setting changed through win_config.
type WinConfigKey int

const (
	AllowOffscreen WinConfigKey = iota
)

var winConfigKeys = [...]keySpec{
	AllowOffscreen: {"allow_offscreen", []Kind{KindBool}},
}

func (k WinConfigKey) String() string {
	if k < 0 || int(k) >= len(winConfigKeys) {
		return fmt.Sprintf("WinConfigKey(%d)", int(k))
	}
	return winConfigKeys[k].name
}

// Args returns the argument kinds of the key, excluding the window.
func (k WinConfigKey) Args() []Kind {
	if k < 0 || int(k) >= len(winConfigKeys) {
		return nil
	}
	return winConfigKeys[k].args
}

// LookupWinConfigKey resolves a per-window config key by name.
func LookupWinConfigKey(name string) (WinConfigKey, error) {
	for i, spec := range winConfigKeys {
		if spec.name == name {
			return WinConfigKey(i), nil
		}
	}
	return 0, fmt.Errorf("%w: no window config key matches %q", ErrUnknownKey, name)
}

// WinConfigKeys returns every per-window key in ordinal order.
func WinConfigKeys() []WinConfigKey {
	out := make([]WinConfigKey, len(winConfigKeys))
	for i := range winConfigKeys {
		out[i] = WinConfigKey(i)
	}
	return out
}
