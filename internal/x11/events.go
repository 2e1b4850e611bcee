package x11

import (
	"errors"
	"fmt"
	"log"

	"github.com/BurntSushi/xgb"
	"github.com/BurntSushi/xgb/xproto"
)

// ErrClosed is returned by NextEvent once the connection is gone.
var ErrClosed = errors.New("x11 connection closed")

// State names a _NET_WM_STATE atom the window manager acts on.
type State int

const (
	StateOther State = iota
	StateFullscreen
	StateMaxVert
	StateMaxHorz
)

// NextEvent blocks until the next event arrives. Protocol errors against
// windows that vanished in the meantime are routine and skipped; others are
// logged.
func (c *Connection) NextEvent() (xgb.Event, error) {
	for {
		ev, xerr := c.XUtil.Conn().WaitForEvent()
		if ev == nil && xerr == nil {
			return nil, ErrClosed
		}
		if xerr != nil {
			switch xerr.(type) {
			case xproto.WindowError, xproto.DrawableError, xproto.MatchError:
			default:
				log.Printf("X11: %v", xerr)
			}
			continue
		}
		return ev, nil
	}
}

// IsRoot reports whether id is the root window.
func (c *Connection) IsRoot(id uint32) bool {
	return xproto.Window(id) == c.Root
}

// IsCommand reports whether a client message carries an in-band command.
func (c *Connection) IsCommand(ev xproto.ClientMessageEvent) bool {
	return ev.Type == c.atoms.command && ev.Format == 32
}

// IsStateRequest reports whether a client message is a _NET_WM_STATE
// change request.
func (c *Connection) IsStateRequest(ev xproto.ClientMessageEvent) bool {
	return ev.Type == c.atoms.wmState && ev.Format == 32
}

// StateOf maps a _NET_WM_STATE atom.
func (c *Connection) StateOf(atom uint32) State {
	switch xproto.Atom(atom) {
	case c.atoms.fullscreen:
		return StateFullscreen
	case c.atoms.maxVert:
		return StateMaxVert
	case c.atoms.maxHorz:
		return StateMaxHorz
	}
	return StateOther
}

// SendCommand delivers an in-band command to the window manager that owns
// the root window. Unused trailing words are zero.
func (c *Connection) SendCommand(words []uint32) error {
	if len(words) == 0 || len(words) > 5 {
		return fmt.Errorf("in-band commands carry 1 to 5 words, got %d", len(words))
	}
	data := make([]uint32, 5)
	copy(data, words)

	ev := xproto.ClientMessageEvent{
		Format: 32,
		Window: c.Root,
		Type:   c.atoms.command,
		Data:   xproto.ClientMessageDataUnionData32New(data),
	}
	return xproto.SendEventChecked(
		c.XUtil.Conn(),
		false,
		c.Root,
		xproto.EventMaskSubstructureRedirect|xproto.EventMaskSubstructureNotify,
		string(ev.Bytes()),
	).Check()
}
