package x11

import (
	"fmt"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/icccm"
)

// SetDesktopCount publishes _NET_NUMBER_OF_DESKTOPS.
func (c *Connection) SetDesktopCount(n int) error {
	if err := ewmh.NumberOfDesktopsSet(c.XUtil, uint(n)); err != nil {
		return fmt.Errorf("failed to set desktop count: %w", err)
	}
	return nil
}

// SetCurrentDesktop publishes _NET_CURRENT_DESKTOP (0-indexed).
func (c *Connection) SetCurrentDesktop(desktop int) error {
	if err := ewmh.CurrentDesktopSet(c.XUtil, uint(desktop)); err != nil {
		return fmt.Errorf("failed to set current desktop: %w", err)
	}
	return nil
}

// SetWindowDesktop writes _NET_WM_DESKTOP on a managed window. The window
// manager owns this property, so it is set directly rather than requested.
func (c *Connection) SetWindowDesktop(windowID uint32, desktop int) error {
	if err := ewmh.WmDesktopSet(c.XUtil, xproto.Window(windowID), uint(desktop)); err != nil {
		return fmt.Errorf("failed to set window desktop: %w", err)
	}
	return nil
}

// SetClientList replaces _NET_CLIENT_LIST and _NET_CLIENT_LIST_STACKING.
func (c *Connection) SetClientList(ids []uint32) error {
	wins := make([]xproto.Window, len(ids))
	for i, id := range ids {
		wins[i] = xproto.Window(id)
	}
	if err := ewmh.ClientListSet(c.XUtil, wins); err != nil {
		return fmt.Errorf("failed to set client list: %w", err)
	}
	if err := ewmh.ClientListStackingSet(c.XUtil, wins); err != nil {
		return fmt.Errorf("failed to set stacking client list: %w", err)
	}
	return nil
}

// SetActiveWindow publishes _NET_ACTIVE_WINDOW and marks the window as
// being in the ICCCM normal state.
func (c *Connection) SetActiveWindow(windowID uint32) error {
	win := xproto.Window(windowID)
	if err := ewmh.ActiveWindowSet(c.XUtil, win); err != nil {
		return fmt.Errorf("failed to set active window: %w", err)
	}
	if err := icccm.WmStateSet(c.XUtil, win, &icccm.WmState{State: icccm.StateNormal}); err != nil {
		return fmt.Errorf("failed to set WM_STATE: %w", err)
	}
	return nil
}

// SetWindowState writes _NET_WM_STATE from the maximize flags.
func (c *Connection) SetWindowState(windowID uint32, fullscreen, hmax, vmax bool) error {
	states := []string{}
	if fullscreen {
		states = append(states, "_NET_WM_STATE_FULLSCREEN")
	}
	if vmax {
		states = append(states, "_NET_WM_STATE_MAXIMIZED_VERT")
	}
	if hmax {
		states = append(states, "_NET_WM_STATE_MAXIMIZED_HORZ")
	}
	if err := ewmh.WmStateSet(c.XUtil, xproto.Window(windowID), states); err != nil {
		return fmt.Errorf("failed to set window state: %w", err)
	}
	return nil
}
