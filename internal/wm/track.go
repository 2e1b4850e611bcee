package wm

import (
	"errors"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

// ResizeHandle is the edge or corner a pointer resize drags.
type ResizeHandle int

const (
	HandleLeft ResizeHandle = iota
	HandleBottom
	HandleTop
	HandleRight
	HandleTopLeft
	HandleTopRight
	HandleBottomLeft
	HandleBottomRight
)

// HandleAt picks the resize handle for a press at p on a window with
// geometry r. Side resizes split the window along both diagonals; corner
// resizes use the quadrant around its midpoint. Anything else drags the
// top-left corner.
func HandleAt(r geom.Rect, p geom.Point, a command.Action) ResizeHandle {
	switch a {
	case command.ActionResizeSide:
		x := p.X - r.X
		y := p.Y - r.Y
		leftOfA := x*r.Height < r.Width*y
		leftOfB := (r.Width-x)*r.Height > r.Width*y
		switch {
		case leftOfA && leftOfB:
			return HandleLeft
		case leftOfA:
			return HandleBottom
		case leftOfB:
			return HandleTop
		default:
			return HandleRight
		}
	case command.ActionResizeCorner:
		mid := r.Position(geom.Center)
		switch {
		case p.Y < mid.Y && p.X < mid.X:
			return HandleTopLeft
		case p.Y < mid.Y:
			return HandleTopRight
		case p.X < mid.X:
			return HandleBottomLeft
		default:
			return HandleBottomRight
		}
	}
	return HandleTopLeft
}

// pointerGrab runs a pointer action on the window under the pointer. It
// returns false when the click should be replayed to the application.
func (e *Engine) pointerGrab(a command.Action) bool {
	p, child, err := e.backend.QueryPointer()
	if err != nil {
		return false
	}
	w := e.find(child)
	if w == nil {
		return true
	}

	e.debug("raise", w.ID, e.backend.Raise(w.ID))
	if a == command.ActionFocus {
		if w != e.focused() {
			e.setFocused(w, true)
			if !e.settings.ReplayClickOnFocus {
				return true
			}
		}
		return false
	}

	if a == command.ActionNothing || w.Maxed() {
		return true
	}
	if err := e.backend.GrabPointer(); err != nil {
		e.logger.Debug("pointer grab failed", "error", err)
		return true
	}
	e.track(w, a, p)
	return true
}

// track runs the nested event loop of an interactive move or resize until
// the button is released. Unrelated events are dispatched as usual.
func (e *Engine) track(w *Window, a command.Action, start geom.Point) {
	defer func() {
		e.debug("ungrab pointer", w.ID, e.backend.UngrabPointer())
	}()

	handle := HandleAt(w.Geom, start, a)
	orig := w.Geom

	for {
		e.backend.Flush()
		ev, err := e.backend.NextEvent()
		if err != nil {
			if !errors.Is(err, platform.ErrClosed) {
				e.logger.Warn("event wait failed during drag", "error", err)
			}
			return
		}

		switch ev := ev.(type) {
		case platform.MotionNotify:
			e.drag(w, a, handle, orig, start, ev.Root)
		case platform.ButtonRelease:
			return
		default:
			e.handleLocked(ev)
			if found, _ := e.findAny(w.ID); found == nil {
				return
			}
		}
	}
}

// drag applies one motion step. orig is the geometry at grab time.
func (e *Engine) drag(w *Window, a command.Action, h ResizeHandle, orig geom.Rect, start, at geom.Point) {
	dx := at.X - start.X
	dy := at.Y - start.Y

	if a == command.ActionMove {
		w.Geom.X = orig.X + dx
		w.Geom.Y = orig.Y + dy
		e.fitOnScreen(w)
		return
	}

	if e.settings.ResizeHints {
		dx = dx / w.WidthInc * w.WidthInc
		dy = dy / w.HeightInc * w.HeightInc
	}

	g := w.Geom
	switch h {
	case HandleLeft:
		g.X = orig.X + dx
		g.Width = orig.Width - dx
	case HandleBottom:
		g.Height = orig.Height + dy
	case HandleTop:
		g.Y = orig.Y + dy
		g.Height = orig.Height - dy
	case HandleRight:
		g.Width = orig.Width + dx
	case HandleTopLeft:
		g.Y = orig.Y + dy
		g.Height = orig.Height - dy
		g.X = orig.X + dx
		g.Width = orig.Width - dx
	case HandleTopRight:
		g.Y = orig.Y + dy
		g.Height = orig.Height - dy
		g.Width = orig.Width + dx
	case HandleBottomLeft:
		g.X = orig.X + dx
		g.Width = orig.Width - dx
		g.Height = orig.Height + dy
	case HandleBottomRight:
		g.Width = orig.Width + dx
		g.Height = orig.Height + dy
	}

	// Reject the edit per axis when it leaves the monitor.
	m := e.usableRect(w, true)
	if g.X < m.X {
		g.X = w.Geom.X
	}
	if g.Y < m.Y {
		g.Y = w.Geom.Y
	}
	if g.X+g.Width > m.X+m.Width {
		g.X = w.Geom.X
		g.Width = w.Geom.Width
	}
	if g.Y+g.Height > m.Y+m.Height {
		g.Y = w.Geom.Y
		g.Height = w.Geom.Height
	}
	if g.Width <= 0 {
		g.X, g.Width = w.Geom.X, w.Geom.Width
	}
	if g.Height <= 0 {
		g.Y, g.Height = w.Geom.Y, w.Geom.Height
	}

	w.Geom = g
	e.fitOnScreen(w)
}
