//go:build linux

package platform

import (
	"errors"
	"fmt"
	"sort"

	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/x11"
	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/randr"
	"github.com/BurntSushi/xgb/xproto"
)

// LinuxBackend wraps an X11 connection behind the platform Backend interface.
type LinuxBackend struct {
	conn *x11.Connection
}

var _ Backend = (*LinuxBackend)(nil)

// NewLinuxBackend creates a Linux platform backend from an existing X11 connection.
func NewLinuxBackend(conn *x11.Connection) *LinuxBackend {
	return &LinuxBackend{conn: conn}
}

// NewLinuxBackendFromDisplay opens a fresh X11 connection and takes over
// window management on it.
func NewLinuxBackendFromDisplay() (*LinuxBackend, error) {
	conn, err := x11.NewConnection()
	if err != nil {
		return nil, fmt.Errorf("failed to connect to X11: %w", err)
	}
	if err := conn.Own(); err != nil {
		conn.Close()
		return nil, err
	}
	return &LinuxBackend{conn: conn}, nil
}

// Disconnect closes the underlying X11 connection.
func (b *LinuxBackend) Disconnect() {
	if b != nil && b.conn != nil {
		b.conn.Close()
	}
}

// Displays returns all active outputs ordered by id.
func (b *LinuxBackend) Displays() ([]Display, error) {
	outputs, err := b.conn.Outputs()
	if err != nil {
		return nil, err
	}

	displays := make([]Display, 0, len(outputs))
	for _, o := range outputs {
		displays = append(displays, Display{ID: o.ID, Name: o.Name, Bounds: o.Geom})
	}
	sort.Slice(displays, func(i, j int) bool {
		return displays[i].ID < displays[j].ID
	})
	return displays, nil
}

func (b *LinuxBackend) ScreenSize() geom.Rect {
	return b.conn.ScreenSize()
}

var windowTypes = map[string]WindowType{
	"_NET_WM_WINDOW_TYPE_DESKTOP":       TypeDesktop,
	"_NET_WM_WINDOW_TYPE_DOCK":          TypeDock,
	"_NET_WM_WINDOW_TYPE_TOOLBAR":       TypeToolbar,
	"_NET_WM_WINDOW_TYPE_MENU":          TypeMenu,
	"_NET_WM_WINDOW_TYPE_UTILITY":       TypeUtility,
	"_NET_WM_WINDOW_TYPE_SPLASH":        TypeSplash,
	"_NET_WM_WINDOW_TYPE_DIALOG":        TypeDialog,
	"_NET_WM_WINDOW_TYPE_DROPDOWN_MENU": TypeDropdownMenu,
	"_NET_WM_WINDOW_TYPE_POPUP_MENU":    TypePopupMenu,
	"_NET_WM_WINDOW_TYPE_TOOLTIP":       TypeTooltip,
	"_NET_WM_WINDOW_TYPE_NOTIFICATION":  TypeNotification,
	"_NET_WM_WINDOW_TYPE_COMBO":         TypeCombo,
	"_NET_WM_WINDOW_TYPE_DND":           TypeDND,
	"_NET_WM_WINDOW_TYPE_NORMAL":        TypeNormal,
}

// windowType resolves a type hint list: the first recognized type other
// than normal wins.
func windowType(names []string) WindowType {
	for _, name := range names {
		if t, ok := windowTypes[name]; ok && t != TypeNormal {
			return t
		}
	}
	return TypeNormal
}

func (b *LinuxBackend) Describe(id WindowID) (WindowInfo, error) {
	a, err := b.conn.Describe(uint32(id))
	if err != nil {
		return WindowInfo{}, err
	}
	return WindowInfo{
		Type:           windowType(a.Types),
		Typed:          a.Types != nil,
		Geom:           a.Geom,
		UserPositioned: a.UserPositioned,
		MinWidth:       a.MinWidth,
		MinHeight:      a.MinHeight,
		WidthInc:       a.WidthInc,
		HeightInc:      a.HeightInc,
	}, nil
}

func (b *LinuxBackend) Manage(id WindowID) error {
	return b.conn.Manage(uint32(id))
}

func (b *LinuxBackend) Configure(id WindowID, r geom.Rect) error {
	b.conn.MoveResizeWindow(uint32(id), r)
	return nil
}

// ConfigurePassthrough grants a configure request for an unmanaged window
// as asked.
func (b *LinuxBackend) ConfigurePassthrough(req ConfigureRequest) error {
	var values []uint32
	if req.Mask&ConfigX != 0 {
		values = append(values, uint32(int32(req.Geom.X)))
	}
	if req.Mask&ConfigY != 0 {
		values = append(values, uint32(int32(req.Geom.Y)))
	}
	if req.Mask&ConfigWidth != 0 {
		values = append(values, uint32(req.Geom.Width))
	}
	if req.Mask&ConfigHeight != 0 {
		values = append(values, uint32(req.Geom.Height))
	}
	if req.Mask&ConfigBorderWidth != 0 {
		values = append(values, uint32(req.BorderWidth))
	}
	if req.Mask&ConfigSibling != 0 {
		values = append(values, uint32(req.Sibling))
	}
	if req.Mask&ConfigStackMode != 0 {
		values = append(values, uint32(req.StackMode))
	}
	b.conn.ConfigureRaw(uint32(req.Window), uint16(req.Mask), values)
	return nil
}

func (b *LinuxBackend) Restack(id WindowID, stackMode uint8) error {
	b.conn.Restack(uint32(id), stackMode)
	return nil
}

func (b *LinuxBackend) Circulate(id WindowID, place uint8) error {
	b.conn.Circulate(uint32(id), place)
	return nil
}

func (b *LinuxBackend) Map(id WindowID) error {
	b.conn.Map(uint32(id))
	return nil
}

func (b *LinuxBackend) Unmap(id WindowID) error {
	b.conn.Unmap(uint32(id))
	return nil
}

func (b *LinuxBackend) Raise(id WindowID) error {
	b.conn.Raise(uint32(id))
	return nil
}

func (b *LinuxBackend) SetBorder(id WindowID, width int, color uint32) error {
	b.conn.SetBorder(uint32(id), width, color)
	return nil
}

// Focus gives id the input focus and publishes it as the active window.
func (b *LinuxBackend) Focus(id WindowID) error {
	b.conn.Focus(uint32(id))
	return b.conn.SetActiveWindow(uint32(id))
}

func (b *LinuxBackend) InputFocus() (WindowID, error) {
	id, err := b.conn.InputFocus()
	return WindowID(id), err
}

// Close requests graceful window close via WM_DELETE_WINDOW.
func (b *LinuxBackend) Close(id WindowID) error {
	return b.conn.CloseWindow(uint32(id))
}

func (b *LinuxBackend) SetWindowState(id WindowID, fullscreen, hmax, vmax bool) error {
	return b.conn.SetWindowState(uint32(id), fullscreen, hmax, vmax)
}

func (b *LinuxBackend) SetClientList(ids []WindowID) error {
	raw := make([]uint32, len(ids))
	for i, id := range ids {
		raw[i] = uint32(id)
	}
	return b.conn.SetClientList(raw)
}

func (b *LinuxBackend) SetDesktopCount(n int) error {
	return b.conn.SetDesktopCount(n)
}

func (b *LinuxBackend) SetCurrentDesktop(i int) error {
	return b.conn.SetCurrentDesktop(i)
}

func (b *LinuxBackend) SetWindowDesktop(id WindowID, i int) error {
	return b.conn.SetWindowDesktop(uint32(id), i)
}

func (b *LinuxBackend) GrabButtons(id WindowID, bind ButtonBinding) error {
	return b.conn.GrabButtons(uint32(id), bind.ClickToFocus, bind.Actions, bind.Modifier)
}

func (b *LinuxBackend) UngrabButtons(id WindowID) error {
	b.conn.UngrabButtons(uint32(id))
	return nil
}

func (b *LinuxBackend) LockMask() uint16 {
	return b.conn.LockMask()
}

func (b *LinuxBackend) QueryPointer() (geom.Point, WindowID, error) {
	p, child, err := b.conn.QueryPointer()
	return p, WindowID(child), err
}

func (b *LinuxBackend) WarpPointer(id WindowID, p geom.Point) error {
	b.conn.WarpPointer(uint32(id), p)
	return nil
}

func (b *LinuxBackend) GrabPointer() error {
	return b.conn.GrabPointer()
}

func (b *LinuxBackend) UngrabPointer() error {
	b.conn.UngrabPointer()
	return nil
}

func (b *LinuxBackend) AllowEvents(replay bool, time uint32) error {
	b.conn.AllowEvents(replay, time)
	return nil
}

// Flush is a no-op: xgb writes each request as it is issued.
func (b *LinuxBackend) Flush() {}

// NextEvent blocks for the next X event the engine understands.
func (b *LinuxBackend) NextEvent() (Event, error) {
	for {
		xev, err := b.conn.NextEvent()
		if err != nil {
			if errors.Is(err, x11.ErrClosed) {
				return nil, ErrClosed
			}
			return nil, err
		}
		if ev := b.translate(xev); ev != nil {
			return ev, nil
		}
	}
}

// translate maps an X event to an engine event, or nil when the engine
// has no use for it.
func (b *LinuxBackend) translate(xev xgb.Event) Event {
	switch ev := xev.(type) {
	case xproto.ConfigureRequestEvent:
		return ConfigureRequest{
			Window:      WindowID(ev.Window),
			Mask:        ConfigMask(ev.ValueMask),
			Geom:        geom.Rect{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)},
			BorderWidth: int(ev.BorderWidth),
			Sibling:     WindowID(ev.Sibling),
			StackMode:   ev.StackMode,
		}
	case xproto.DestroyNotifyEvent:
		return DestroyNotify{Window: WindowID(ev.Window)}
	case xproto.EnterNotifyEvent:
		return EnterNotify{Window: WindowID(ev.Event)}
	case xproto.MapRequestEvent:
		return MapRequest{Window: WindowID(ev.Window)}
	case xproto.MapNotifyEvent:
		return MapNotify{Window: WindowID(ev.Window)}
	case xproto.UnmapNotifyEvent:
		return UnmapNotify{Window: WindowID(ev.Window)}
	case xproto.ConfigureNotifyEvent:
		return ConfigureNotify{
			Window: WindowID(ev.Window),
			Root:   b.conn.IsRoot(uint32(ev.Window)),
			Geom:   geom.Rect{X: int(ev.X), Y: int(ev.Y), Width: int(ev.Width), Height: int(ev.Height)},
		}
	case xproto.ClientMessageEvent:
		return b.translateMessage(ev)
	case xproto.FocusOutEvent:
		return FocusOut{Window: WindowID(ev.Event)}
	case xproto.ButtonPressEvent:
		return ButtonPress{
			Button: uint8(ev.Detail),
			State:  ev.State,
			Time:   uint32(ev.Time),
			Root:   geom.Point{X: int(ev.RootX), Y: int(ev.RootY)},
			Child:  WindowID(ev.Child),
		}
	case xproto.ButtonReleaseEvent:
		return ButtonRelease{
			Button: uint8(ev.Detail),
			Root:   geom.Point{X: int(ev.RootX), Y: int(ev.RootY)},
		}
	case xproto.MotionNotifyEvent:
		return MotionNotify{Root: geom.Point{X: int(ev.RootX), Y: int(ev.RootY)}}
	case xproto.CirculateRequestEvent:
		return CirculateRequest{Window: WindowID(ev.Window), Place: ev.Place}
	case randr.ScreenChangeNotifyEvent:
		return ScreenChange{}
	case randr.NotifyEvent:
		return ScreenChange{}
	}
	return nil
}

func (b *LinuxBackend) translateMessage(ev xproto.ClientMessageEvent) Event {
	data := ev.Data.Data32
	switch {
	case b.conn.IsCommand(ev):
		words := make([]uint32, len(data))
		copy(words, data)
		return CommandMessage{Words: words}
	case b.conn.IsStateRequest(ev) && len(data) >= 3:
		msg := StateMessage{Window: WindowID(ev.Window), Action: StateAction(data[0])}
		for _, atom := range data[1:3] {
			switch b.conn.StateOf(atom) {
			case x11.StateFullscreen:
				msg.States = append(msg.States, StateFullscreen)
			case x11.StateMaxVert:
				msg.States = append(msg.States, StateMaxVert)
			case x11.StateMaxHorz:
				msg.States = append(msg.States, StateMaxHorz)
			}
		}
		return msg
	}
	return nil
}

// SendCommand delivers an in-band command over a fresh connection without
// taking over window management.
func SendCommand(words []uint32) error {
	conn, err := x11.NewConnection()
	if err != nil {
		return fmt.Errorf("failed to connect to X11: %w", err)
	}
	defer conn.Close()
	return conn.SendCommand(words)
}
