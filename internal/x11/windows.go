package x11

import (
	"fmt"

	"github.com/1broseidon/placewm/internal/geom"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// Attributes is what the window manager reads from a window before it
// manages it.
type Attributes struct {
	// Types holds the _NET_WM_WINDOW_TYPE atom names; nil when the
	// property is absent.
	Types          []string
	Geom           geom.Rect
	UserPositioned bool
	MinWidth       int
	MinHeight      int
	WidthInc       int
	HeightInc      int
}

// Describe reads the type hint, geometry and ICCCM size hints of a window.
func (c *Connection) Describe(windowID uint32) (Attributes, error) {
	win := xproto.Window(windowID)
	var a Attributes

	g, err := xproto.GetGeometry(c.XUtil.Conn(), xproto.Drawable(win)).Reply()
	if err != nil {
		return a, fmt.Errorf("failed to get geometry of 0x%08x: %w", windowID, err)
	}
	a.Geom = geom.Rect{X: int(g.X), Y: int(g.Y), Width: int(g.Width), Height: int(g.Height)}

	if types, err := ewmh.WmWindowTypeGet(c.XUtil, win); err == nil {
		a.Types = types
	}

	if hints, err := icccm.WmNormalHintsGet(c.XUtil, win); err == nil {
		if hints.Flags&icccm.SizeHintUSPosition != 0 {
			a.UserPositioned = true
		}
		if hints.Flags&icccm.SizeHintPMinSize != 0 {
			a.MinWidth = int(hints.MinWidth)
			a.MinHeight = int(hints.MinHeight)
		}
		if hints.Flags&icccm.SizeHintPResizeInc != 0 {
			a.WidthInc = int(hints.WidthInc)
			a.HeightInc = int(hints.HeightInc)
		}
	}
	return a, nil
}

// Manage subscribes to the events the window manager tracks on a client
// and adds it to the save set so it survives a crash of the manager.
func (c *Connection) Manage(windowID uint32) error {
	conn := c.XUtil.Conn()
	win := xproto.Window(windowID)

	err := xproto.ChangeWindowAttributesChecked(conn, win, xproto.CwEventMask,
		[]uint32{xproto.EventMaskEnterWindow | xproto.EventMaskFocusChange}).Check()
	if err != nil {
		return fmt.Errorf("failed to select events on 0x%08x: %w", windowID, err)
	}
	xproto.ChangeSaveSet(conn, xproto.SetModeInsert, win)
	return nil
}

// MoveResizeWindow moves and resizes a window to the specified geometry
func (c *Connection) MoveResizeWindow(windowID uint32, r geom.Rect) {
	if windowID == 0 || xproto.Window(windowID) == c.Root {
		return
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), xproto.Window(windowID),
		xproto.ConfigWindowX|xproto.ConfigWindowY|xproto.ConfigWindowWidth|xproto.ConfigWindowHeight,
		[]uint32{uint32(int32(r.X)), uint32(int32(r.Y)), uint32(max(r.Width, 1)), uint32(max(r.Height, 1))})
}

// ConfigureRaw forwards a configure request unchanged for a window the
// manager does not track. mask uses the core protocol bit layout; values
// must be in protocol order.
func (c *Connection) ConfigureRaw(windowID uint32, mask uint16, values []uint32) {
	if mask == 0 {
		return
	}
	xproto.ConfigureWindow(c.XUtil.Conn(), xproto.Window(windowID), mask, values)
}

// Restack applies a stack mode from a configure request.
func (c *Connection) Restack(windowID uint32, mode uint8) {
	xproto.ConfigureWindow(c.XUtil.Conn(), xproto.Window(windowID),
		xproto.ConfigWindowStackMode, []uint32{uint32(mode)})
}

// Raise puts a window at the top of the stack.
func (c *Connection) Raise(windowID uint32) {
	c.Restack(windowID, xproto.StackModeAbove)
}

// Circulate honors a circulate request.
func (c *Connection) Circulate(windowID uint32, place uint8) {
	xproto.CirculateWindow(c.XUtil.Conn(), place, xproto.Window(windowID))
}

func (c *Connection) Map(windowID uint32) {
	xproto.MapWindow(c.XUtil.Conn(), xproto.Window(windowID))
}

func (c *Connection) Unmap(windowID uint32) {
	xproto.UnmapWindow(c.XUtil.Conn(), xproto.Window(windowID))
}

// SetBorder sets the border width, and the border color when the border is
// visible.
func (c *Connection) SetBorder(windowID uint32, width int, color uint32) {
	conn := c.XUtil.Conn()
	win := xproto.Window(windowID)
	xproto.ConfigureWindow(conn, win, xproto.ConfigWindowBorderWidth, []uint32{uint32(width)})
	if width > 0 {
		xproto.ChangeWindowAttributes(conn, win, xproto.CwBorderPixel, []uint32{color})
	}
}

// Focus gives a window the input focus.
func (c *Connection) Focus(windowID uint32) {
	xproto.SetInputFocus(c.XUtil.Conn(), xproto.InputFocusPointerRoot,
		xproto.Window(windowID), xproto.TimeCurrentTime)
}

// InputFocus returns the window that currently holds the input focus.
func (c *Connection) InputFocus() (uint32, error) {
	reply, err := xproto.GetInputFocus(c.XUtil.Conn()).Reply()
	if err != nil {
		return 0, fmt.Errorf("failed to get input focus: %w", err)
	}
	return uint32(reply.Focus), nil
}

// CloseWindow asks a window to close through WM_DELETE_WINDOW when it
// supports the protocol, and destroys it otherwise.
func (c *Connection) CloseWindow(windowID uint32) error {
	win := xproto.Window(windowID)
	if !c.supportsDelete(win) {
		xproto.DestroyWindow(c.XUtil.Conn(), win)
		return nil
	}

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: win,
		Type:   c.atoms.wmProtocols,
		Data: xproto.ClientMessageDataUnionData32New([]uint32{
			uint32(c.atoms.deleteWindow), uint32(xproto.TimeCurrentTime), 0, 0, 0,
		}),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		win,
		xproto.EventMaskNoEvent,
		string(ev.Bytes()),
	).Check()
}

func (c *Connection) supportsDelete(win xproto.Window) bool {
	protocols, err := icccm.WmProtocolsGet(c.XUtil, win)
	if err != nil {
		return false
	}
	for _, p := range protocols {
		if p == "WM_DELETE_WINDOW" {
			return true
		}
	}
	return false
}
