package wm

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

// ErrFixedWorkspaces is returned by wm_config workspaces_nr.
var ErrFixedWorkspaces = errors.New("workspace count is fixed at startup")

// Execute runs a parsed command against the model and returns its textual
// result. Calls are validated by the command package before they get here;
// an error from Execute leaves the model untouched.
func (e *Engine) Execute(call command.Call) (string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	out, err := e.execLocked(call)
	e.backend.Flush()
	if err == nil {
		e.logger.Debug("command executed", "command", call.Command.String())
	}
	return out, err
}

// prepare returns the focused window, leaving any maximize state first.
func (e *Engine) prepare() *Window {
	f := e.focused()
	if f != nil && f.Maxed() {
		e.unmaximize(f)
		e.setFocused(f, true)
	}
	return f
}

func (e *Engine) execLocked(call command.Call) (string, error) {
	f := e.focused()

	switch call.Command {
	case command.WindowMove:
		if f = e.prepare(); f != nil {
			f.Geom.X += call.Int(0)
			f.Geom.Y += call.Int(1)
			e.apply(f)
		}

	case command.WindowMoveAbsolute:
		if f = e.prepare(); f != nil {
			f.Geom.X = call.Int(0)
			f.Geom.Y = call.Int(1)
			e.apply(f)
		}

	case command.WindowResize:
		if f = e.prepare(); f != nil {
			e.resizeBy(f, call.Int(0), call.Int(1))
		}

	case command.WindowResizeAbsolute:
		w, h := call.Int(0), call.Int(1)
		if w <= 0 || h <= 0 {
			return "", fmt.Errorf("%w: size %dx%d must be positive", command.ErrBadArgument, w, h)
		}
		if f = e.prepare(); f != nil {
			f.Geom.Width, f.Geom.Height = w, h
			e.apply(f)
		}

	case command.WindowMaximize:
		if f != nil {
			if f.HMaxed && f.VMaxed {
				e.unmaximize(f)
			} else {
				e.maximize(f)
			}
			e.setFocused(f, true)
		}

	case command.WindowUnmaximize:
		if f != nil {
			e.unmaximize(f)
			e.setFocused(f, true)
		}

	case command.WindowHorMaximize:
		if f != nil {
			if f.HMaxed {
				e.unmaximize(f)
			} else {
				e.hmaximize(f)
			}
			e.setFocused(f, true)
		}

	case command.WindowVerMaximize:
		if f != nil {
			if f.VMaxed {
				e.unmaximize(f)
			} else {
				e.vmaximize(f)
			}
			e.setFocused(f, true)
		}

	case command.WindowClose:
		if f != nil {
			e.debug("close", f.ID, e.backend.Close(f.ID))
		}

	case command.WindowPutInGrid:
		cols, rows, col, row := call.Int(0), call.Int(1), call.Int(2), call.Int(3)
		if cols <= 0 || rows <= 0 || col < 0 || row < 0 || col >= cols || row >= rows {
			return "", fmt.Errorf("%w: cell %d,%d outside %dx%d grid", command.ErrBadArgument, col, row, cols, rows)
		}
		if f != nil {
			if err := e.grid(f, cols, rows, col, row); err != nil {
				return "", err
			}
		}

	case command.WindowSnap:
		if f != nil {
			e.snap(f, call.Anchor(0))
		}

	case command.WindowCycle, command.WindowRevCycle:
		if f != nil {
			e.cycle(f, call.Command == command.WindowRevCycle)
		}

	case command.WindowCardinalFocus:
		e.cardinalFocus(call.Direction(0))

	case command.WindowCardinalMove:
		if f != nil {
			e.cardinalMove(f, call.Direction(0))
		}

	case command.WindowCardinalGrow, command.WindowCardinalShrink:
		if f != nil {
			e.cardinalResize(f, call.Direction(0), call.Command == command.WindowCardinalShrink)
		}

	case command.WindowFocus:
		if w := e.find(platform.WindowID(call.Uint32(0))); w != nil {
			e.setFocused(w, true)
			e.centerPointer(w)
		}

	case command.WindowFocusLast:
		if w := e.previous(); w != nil {
			e.setFocused(w, true)
			e.centerPointer(w)
		}

	case command.WorkspaceAddWindow:
		idx, err := e.workspaceIndex(call.Int(0))
		if err != nil {
			return "", err
		}
		if f != nil {
			e.addToWorkspace(f, idx)
		}

	case command.WorkspaceGoto:
		idx, err := e.workspaceIndex(call.Int(0))
		if err != nil {
			return "", err
		}
		e.gotoWorkspace(idx)

	case command.WorkspaceSetBar:
		idx := e.current
		if n := call.Int(0); n != 0 {
			var err error
			if idx, err = e.workspaceIndex(n); err != nil {
				return "", err
			}
		}
		e.setBar(idx, call.Int(1))

	case command.WMQuit:
		e.quit(call.Int(0))

	case command.WMConfig:
		return "", e.configure(call)

	case command.WinConfig:
		id := platform.WindowID(call.Uint32(1))
		w, _ := e.findAny(id)
		if w == nil {
			e.logger.Debug("win_config for unknown window", "window", uint32(id))
			return "", nil
		}
		switch call.WinConfigKey() {
		case command.AllowOffscreen:
			w.AllowOffscreen = call.Bool(2)
		}

	case command.GetFocused:
		if f == nil {
			return "", nil
		}
		return strconv.FormatUint(uint64(f.ID), 10), nil

	default:
		return "", fmt.Errorf("%w: %d", command.ErrUnknownCommand, int(call.Command))
	}
	return "", nil
}

// quit asks every window to close. A nonzero code stops the event loop at
// once; otherwise it stops when the last window is gone.
func (e *Engine) quit(code int) {
	e.eachWindow(func(w *Window) {
		e.debug("close", w.ID, e.backend.Close(w.ID))
	})
	e.shouldClose = true
	e.exitCode = code
	if code > 0 {
		e.halt = true
	}
	e.logger.Info("quit requested", "code", code)
}

// configure applies one wm_config call. Values are checked before any
// setting changes.
func (e *Engine) configure(call command.Call) error {
	s := &e.settings

	switch call.ConfigKey() {
	case command.BorderWidth:
		v := call.Int(1)
		if v < 0 {
			return fmt.Errorf("%w: border width %d is negative", command.ErrBadArgument, v)
		}
		s.BorderWidth = v
		e.refreshBorders()

	case command.ColorFocused:
		s.FocusColor = call.Uint32(1)
		e.refreshBorders()

	case command.ColorUnfocused:
		s.UnfocusColor = call.Uint32(1)
		e.refreshBorders()

	case command.GapWidth:
		v := call.Int(2)
		switch call.Anchor(1) {
		case geom.Left:
			s.Gaps.Left = v
		case geom.Bottom:
			s.Gaps.Bottom = v
		case geom.Top:
			s.Gaps.Top = v
		case geom.Right:
			s.Gaps.Right = v
		case geom.All:
			s.Gaps.Left, s.Gaps.Bottom, s.Gaps.Top, s.Gaps.Right = v, v, v, v
		default:
			return fmt.Errorf("%w: gap side must be left, bottom, top, right or all, got %s",
				command.ErrBadArgument, call.Anchor(1))
		}

	case command.GridGapWidth:
		s.GridGap = call.Int(1)

	case command.CursorPosition:
		s.CursorPosition = call.Anchor(1)

	case command.WorkspacesNr:
		return ErrFixedWorkspaces

	case command.EnableSloppyFocus:
		s.SloppyFocus = call.Bool(1)
	case command.EnableResizeHints:
		s.ResizeHints = call.Bool(1)
	case command.StickyWindows:
		s.StickyWindows = call.Bool(1)
	case command.EnableBorders:
		s.Borders = call.Bool(1)
		e.refreshBorders()
	case command.EnableLastWindowFocusing:
		s.LastWindowFocusing = call.Bool(1)
	case command.ApplySettings:
		s.ApplySettings = call.Bool(1)
	case command.ReplayClickOnFocus:
		s.ReplayClickOnFocus = call.Bool(1)

	case command.PointerActions:
		for i := range s.PointerActions {
			s.PointerActions[i] = call.Action(1 + i)
		}
		e.regrabButtons()

	case command.PointerModifier:
		s.PointerModifier = uint16(call.Int(1))
		e.regrabButtons()

	case command.ClickToFocus:
		s.ClickToFocus = call.Int(1)
		e.regrabButtons()

	case command.BarPadding:
		for i := range s.BarPadding {
			s.BarPadding[i] = call.Int(1 + i)
		}
		for _, w := range e.ws().Windows {
			e.fitOnScreen(w)
		}

	default:
		return fmt.Errorf("%w: %d", command.ErrUnknownKey, int(call.ConfigKey()))
	}
	return nil
}
