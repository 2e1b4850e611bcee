package x11

import (
	"errors"
	"fmt"
	"os"

	"github.com/BurntSushi/xgb/xproto"
	"github.com/BurntSushi/xgbutil"
	"github.com/BurntSushi/xgbutil/ewmh"
	"github.com/BurntSushi/xgbutil/keybind"
	"github.com/BurntSushi/xgbutil/xprop"
)

// ErrOtherWM is returned by Own when another client already holds
// substructure redirection on the root window.
var ErrOtherWM = errors.New("another window manager is already running")

// CommandAtom is the client-message type of in-band commands.
const CommandAtom = "__WM_IPC_COMMAND"

// Name is published as _NET_WM_NAME on the root window.
const Name = "placewm"

// atoms interned once at connect time.
type atoms struct {
	command      xproto.Atom
	wmState      xproto.Atom
	fullscreen   xproto.Atom
	maxVert      xproto.Atom
	maxHorz      xproto.Atom
	wmProtocols  xproto.Atom
	deleteWindow xproto.Atom
}

// Connection manages the X11 connection and core X resources
type Connection struct {
	XUtil *xgbutil.XUtil
	Root  xproto.Window

	atoms    atoms
	randr    bool
	xinerama bool
	lockMask uint16
}

// NewConnection establishes a connection to the X11 server and interns the
// atoms the window manager needs.
func NewConnection() (*Connection, error) {
	xu, err := xgbutil.NewConn()
	if err != nil {
		return nil, err
	}

	// Needed to resolve lock modifiers from the keyboard mapping.
	keybind.Initialize(xu)

	c := &Connection{
		XUtil: xu,
		Root:  xu.RootWin(),
	}
	if err := c.internAtoms(); err != nil {
		xu.Conn().Close()
		return nil, err
	}
	return c, nil
}

func (c *Connection) internAtoms() error {
	names := []struct {
		name string
		dst  *xproto.Atom
	}{
		{CommandAtom, &c.atoms.command},
		{"_NET_WM_STATE", &c.atoms.wmState},
		{"_NET_WM_STATE_FULLSCREEN", &c.atoms.fullscreen},
		{"_NET_WM_STATE_MAXIMIZED_VERT", &c.atoms.maxVert},
		{"_NET_WM_STATE_MAXIMIZED_HORZ", &c.atoms.maxHorz},
		{"WM_PROTOCOLS", &c.atoms.wmProtocols},
		{"WM_DELETE_WINDOW", &c.atoms.deleteWindow},
	}
	for _, n := range names {
		atom, err := xprop.Atm(c.XUtil, n.name)
		if err != nil {
			return fmt.Errorf("failed to intern %s: %w", n.name, err)
		}
		*n.dst = atom
	}
	return nil
}

// Own selects substructure redirection on the root window, which only one
// client may hold at a time, and publishes the EWMH properties of a
// running window manager.
func (c *Connection) Own() error {
	err := xproto.ChangeWindowAttributesChecked(
		c.XUtil.Conn(),
		c.Root,
		xproto.CwEventMask,
		[]uint32{xproto.EventMaskSubstructureRedirect | xproto.EventMaskSubstructureNotify | xproto.EventMaskStructureNotify},
	).Check()
	if err != nil {
		return ErrOtherWM
	}

	supported := []string{
		"_NET_SUPPORTED",
		"_NET_WM_DESKTOP",
		"_NET_NUMBER_OF_DESKTOPS",
		"_NET_CURRENT_DESKTOP",
		"_NET_ACTIVE_WINDOW",
		"_NET_CLIENT_LIST",
		"_NET_WM_STATE",
		"_NET_WM_STATE_FULLSCREEN",
		"_NET_WM_STATE_MAXIMIZED_VERT",
		"_NET_WM_STATE_MAXIMIZED_HORZ",
		"_NET_WM_NAME",
		"_NET_WM_WINDOW_TYPE",
		"_NET_WM_WINDOW_TYPE_DOCK",
		"_NET_WM_WINDOW_TYPE_TOOLBAR",
		"_NET_WM_WINDOW_TYPE_DESKTOP",
		"_NET_WM_WINDOW_TYPE_NOTIFICATION",
		"_NET_WM_PID",
		"_NET_SUPPORTING_WM_CHECK",
		"WM_DELETE_WINDOW",
	}
	if err := ewmh.SupportedSet(c.XUtil, supported); err != nil {
		return fmt.Errorf("failed to set _NET_SUPPORTED: %w", err)
	}
	if err := ewmh.SupportingWmCheckSet(c.XUtil, c.Root, c.Root); err != nil {
		return fmt.Errorf("failed to set _NET_SUPPORTING_WM_CHECK: %w", err)
	}
	if err := ewmh.WmNameSet(c.XUtil, c.Root, Name); err != nil {
		return fmt.Errorf("failed to set _NET_WM_NAME: %w", err)
	}
	if err := ewmh.WmPidSet(c.XUtil, c.Root, uint(os.Getpid())); err != nil {
		return fmt.Errorf("failed to set _NET_WM_PID: %w", err)
	}

	c.lockMask = configureIgnoreMods(c.XUtil)
	c.setupOutputs()
	return nil
}

// Close cleanly disconnects from the X11 server
func (c *Connection) Close() {
	c.XUtil.Conn().Close()
}
