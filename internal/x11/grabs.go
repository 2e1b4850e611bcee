package x11

import (
	"fmt"

	"github.com/1broseidon/placewm/internal/geom"
	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/mousebind"
	"github.com/BurntSushi/xgbutil/xevent"
)

// configureIgnoreMods makes every grab also match with any combination of
// the lock modifiers held, and returns the union of those modifiers.
func configureIgnoreMods(xu *xgbutil.XUtil) uint16 {
	// Always ignore CapsLock.
	caps := uint16(xproto.ModMaskLock)

	numLock := modMaskForKeysym(xu, "Num_Lock")
	scrollLock := modMaskForKeysym(xu, "Scroll_Lock")

	unique := make(map[uint16]struct{})
	add := func(mask uint16) {
		unique[mask] = struct{}{}
	}

	add(0)
	base := []uint16{caps}
	if numLock != 0 && numLock != caps {
		base = append(base, numLock)
	}
	if scrollLock != 0 && scrollLock != caps && scrollLock != numLock {
		base = append(base, scrollLock)
	}

	var all uint16
	for _, m := range base {
		all |= m
	}

	for subset := 1; subset < (1 << len(base)); subset++ {
		var mask uint16
		for bit := range base {
			if subset&(1<<bit) != 0 {
				mask |= base[bit]
			}
		}
		add(mask)
	}

	ignore := make([]uint16, 0, len(unique))
	for mask := range unique {
		ignore = append(ignore, mask)
	}

	xevent.IgnoreMods = ignore
	return all
}

func modMaskForKeysym(xu *xgbutil.XUtil, keysym string) uint16 {
	for _, keycode := range keybind.StrToKeycodes(xu, keysym) {
		if mask := keybind.ModGet(xu, keycode); mask != 0 {
			return mask
		}
	}
	return 0
}

// LockMask returns the modifiers treated as locks.
func (c *Connection) LockMask() uint16 {
	return c.lockMask
}

// GrabButtons installs synchronous button grabs on a window: every button
// when clickToFocus is 0, only that button when it is 1 to 3, none when it
// is negative; plus modifier+button for each button that carries a pointer
// action. Pointer events stay frozen until AllowEvents.
func (c *Connection) GrabButtons(windowID uint32, clickToFocus int, actions [3]bool, modifier uint16) error {
	win := xproto.Window(windowID)
	for i, hasAction := range actions {
		button := xproto.Button(i + 1)
		if clickToFocus == 0 || clickToFocus == i+1 {
			if err := mousebind.GrabChecked(c.XUtil, win, 0, button, true); err != nil {
				return fmt.Errorf("failed to grab button %d: %w", button, err)
			}
		}
		if hasAction {
			if err := mousebind.GrabChecked(c.XUtil, win, modifier, button, true); err != nil {
				return fmt.Errorf("failed to grab button %d with modifier %#x: %w", button, modifier, err)
			}
		}
	}
	return nil
}

// UngrabButtons drops every button grab on a window.
func (c *Connection) UngrabButtons(windowID uint32) {
	xproto.UngrabButton(c.XUtil.Conn(), xproto.ButtonIndexAny, xproto.Window(windowID), xproto.ModMaskAny)
}

// QueryPointer returns the pointer position in root coordinates and the
// child of the root window under it.
func (c *Connection) QueryPointer() (geom.Point, uint32, error) {
	reply, err := xproto.QueryPointer(c.XUtil.Conn(), c.Root).Reply()
	if err != nil {
		return geom.Point{}, 0, fmt.Errorf("failed to query pointer: %w", err)
	}
	return geom.Point{X: int(reply.RootX), Y: int(reply.RootY)}, uint32(reply.Child), nil
}

// WarpPointer moves the pointer to p relative to the window's origin.
func (c *Connection) WarpPointer(windowID uint32, p geom.Point) {
	xproto.WarpPointer(c.XUtil.Conn(), 0, xproto.Window(windowID), 0, 0, 0, 0, int16(p.X), int16(p.Y))
}

// GrabPointer takes the pointer for an interactive move or resize.
func (c *Connection) GrabPointer() error {
	mask := uint16(xproto.EventMaskButtonPress | xproto.EventMaskButtonRelease | xproto.EventMaskPointerMotion)
	reply, err := xproto.GrabPointer(c.XUtil.Conn(), false, c.Root, mask,
		xproto.GrabModeAsync, xproto.GrabModeAsync, 0, 0, xproto.TimeCurrentTime).Reply()
	if err != nil {
		return fmt.Errorf("failed to grab pointer: %w", err)
	}
	if reply.Status != xproto.GrabStatusSuccess {
		return fmt.Errorf("failed to grab pointer: status %d", reply.Status)
	}
	return nil
}

func (c *Connection) UngrabPointer() {
	xproto.UngrabPointer(c.XUtil.Conn(), xproto.TimeCurrentTime)
}

// AllowEvents releases the pointer frozen by a synchronous button grab,
// optionally replaying the click to the client.
func (c *Connection) AllowEvents(replay bool, time uint32) {
	mode := byte(xproto.AllowSyncPointer)
	if replay {
		mode = xproto.AllowReplayPointer
	}
	xproto.AllowEvents(c.XUtil.Conn(), mode, xproto.Timestamp(time))
}
