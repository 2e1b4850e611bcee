package platform

import "github.com/1broseidon/placewm/internal/geom"

// Event is a display-server event translated for the engine.
type Event interface {
	isEvent()
}

// ConfigMask flags which fields of a ConfigureRequest the client set.
type ConfigMask uint16

const (
	ConfigX ConfigMask = 1 << iota
	ConfigY
	ConfigWidth
	ConfigHeight
	ConfigBorderWidth
	ConfigSibling
	ConfigStackMode
)

// ConfigureRequest is sent when a client asks to move, resize or restack
// itself.
type ConfigureRequest struct {
	Window      WindowID
	Mask        ConfigMask
	Geom        geom.Rect
	BorderWidth int
	Sibling     WindowID
	StackMode   uint8
}

type DestroyNotify struct {
	Window WindowID
}

type EnterNotify struct {
	Window WindowID
}

type MapRequest struct {
	Window WindowID
}

type MapNotify struct {
	Window WindowID
}

type UnmapNotify struct {
	Window WindowID
}

// ConfigureNotify reports a completed configure. Root is set when the root
// window changed size.
type ConfigureNotify struct {
	Window WindowID
	Root   bool
	Geom   geom.Rect
}

// CommandMessage is an in-band remote command: the first word is the
// command id and the rest are its encoded arguments.
type CommandMessage struct {
	Words []uint32
}

// StateMessage is an EWMH _NET_WM_STATE change request.
type StateMessage struct {
	Window WindowID
	Action StateAction
	States []WindowState
}

type FocusOut struct {
	Window WindowID
}

type ButtonPress struct {
	Button uint8
	State  uint16
	Time   uint32
	Root   geom.Point
	Child  WindowID
}

type ButtonRelease struct {
	Button uint8
	Root   geom.Point
}

type MotionNotify struct {
	Root geom.Point
}

// ScreenChange is emitted when the output configuration changes.
type ScreenChange struct{}

type CirculateRequest struct {
	Window WindowID
	Place  uint8
}

func (ConfigureRequest) isEvent() {}
func (DestroyNotify) isEvent()    {}
func (EnterNotify) isEvent()      {}
func (MapRequest) isEvent()       {}
func (MapNotify) isEvent()        {}
func (UnmapNotify) isEvent()      {}
func (ConfigureNotify) isEvent()  {}
func (CommandMessage) isEvent()   {}
func (StateMessage) isEvent()     {}
func (FocusOut) isEvent()         {}
func (ButtonPress) isEvent()      {}
func (ButtonRelease) isEvent()    {}
func (MotionNotify) isEvent()     {}
func (ScreenChange) isEvent()     {}
func (CirculateRequest) isEvent() {}
