package platform

import (
	"errors"

	"github.com/1broseidon/placewm/internal/geom"
)

// WindowID is a platform-neutral window identifier.
type WindowID uint32

// ErrClosed is returned by NextEvent once the display connection is gone.
var ErrClosed = errors.New("display connection closed")

// Display describes a physical output and its geometry.
type Display struct {
	ID     uint32
	Name   string
	Bounds geom.Rect
}

// WindowType is the window-type hint a client sets on itself.
type WindowType int

const (
	TypeDesktop WindowType = iota
	TypeDock
	TypeToolbar
	TypeMenu
	TypeUtility
	TypeSplash
	TypeDialog
	TypeDropdownMenu
	TypePopupMenu
	TypeTooltip
	TypeNotification
	TypeCombo
	TypeDND
	TypeNormal
)

var windowTypeNames = [...]string{
	TypeDesktop:      "desktop",
	TypeDock:         "dock",
	TypeToolbar:      "toolbar",
	TypeMenu:         "menu",
	TypeUtility:      "utility",
	TypeSplash:       "splash",
	TypeDialog:       "dialog",
	TypeDropdownMenu: "dropdown_menu",
	TypePopupMenu:    "popup_menu",
	TypeTooltip:      "tooltip",
	TypeNotification: "notification",
	TypeCombo:        "combo",
	TypeDND:          "dnd",
	TypeNormal:       "normal",
}

func (t WindowType) String() string {
	if t < 0 || int(t) >= len(windowTypeNames) {
		return "unknown"
	}
	return windowTypeNames[t]
}

// WindowInfo is what the display server knows about a window before it is
// managed.
type WindowInfo struct {
	Type WindowType
	// Typed is false when the window carries no type hint at all.
	Typed          bool
	Geom           geom.Rect
	UserPositioned bool
	MinWidth       int
	MinHeight      int
	WidthInc       int
	HeightInc      int
}

// WindowState is an EWMH state property the engine tracks.
type WindowState int

const (
	StateOther WindowState = iota
	StateFullscreen
	StateMaxVert
	StateMaxHorz
)

// StateAction is the _NET_WM_STATE request action.
type StateAction int

const (
	StateRemove StateAction = 0
	StateAdd    StateAction = 1
	StateToggle StateAction = 2
)

// ButtonBinding controls which buttons are grabbed on managed windows.
type ButtonBinding struct {
	// ClickToFocus is the button that focuses on click: 0 for any button,
	// -1 for none.
	ClickToFocus int
	// Actions marks buttons 1..3 that carry a pointer action.
	Actions  [3]bool
	Modifier uint16
}

// Backend abstracts the window-system operations the engine performs.
type Backend interface {
	Displays() ([]Display, error)
	ScreenSize() geom.Rect
	Describe(id WindowID) (WindowInfo, error)
	Manage(id WindowID) error

	Configure(id WindowID, r geom.Rect) error
	ConfigurePassthrough(req ConfigureRequest) error
	Restack(id WindowID, stackMode uint8) error
	Circulate(id WindowID, place uint8) error
	Map(id WindowID) error
	Unmap(id WindowID) error
	Raise(id WindowID) error
	SetBorder(id WindowID, width int, color uint32) error
	Focus(id WindowID) error
	InputFocus() (WindowID, error)
	Close(id WindowID) error

	SetWindowState(id WindowID, fullscreen, hmax, vmax bool) error
	SetClientList(ids []WindowID) error
	SetDesktopCount(n int) error
	SetCurrentDesktop(i int) error
	SetWindowDesktop(id WindowID, i int) error

	GrabButtons(id WindowID, b ButtonBinding) error
	UngrabButtons(id WindowID) error
	LockMask() uint16
	QueryPointer() (geom.Point, WindowID, error)
	WarpPointer(id WindowID, p geom.Point) error
	GrabPointer() error
	UngrabPointer() error
	AllowEvents(replay bool, time uint32) error

	NextEvent() (Event, error)
	Flush()
}
