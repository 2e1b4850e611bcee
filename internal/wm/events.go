package wm

import (
	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

// handleLocked dispatches ev with the engine lock already held. The
// pointer tracking loop calls it for events unrelated to the drag.
func (e *Engine) handleLocked(ev platform.Event) {
	switch ev := ev.(type) {
	case platform.ConfigureRequest:
		e.onConfigureRequest(ev)
	case platform.DestroyNotify:
		e.onDestroy(ev.Window)
	case platform.EnterNotify:
		e.onEnter(ev.Window)
	case platform.MapRequest:
		e.onMapRequest(ev.Window)
	case platform.MapNotify:
		e.onMapNotify(ev.Window)
	case platform.UnmapNotify:
		e.onUnmapNotify(ev.Window)
	case platform.ConfigureNotify:
		e.onConfigureNotify(ev)
	case platform.CommandMessage:
		e.onCommandMessage(ev)
	case platform.StateMessage:
		e.onStateMessage(ev)
	case platform.FocusOut:
		e.onFocusOut()
	case platform.ButtonPress:
		e.onButtonPress(ev)
	case platform.ScreenChange:
		e.refreshMonitors()
	case platform.CirculateRequest:
		e.debug("circulate", ev.Window, e.backend.Circulate(ev.Window, ev.Place))
	case platform.MotionNotify, platform.ButtonRelease:
		// Only meaningful while tracking the pointer.
	default:
		e.logger.Debug("unhandled event", "type", ev)
	}
}

// onboard classifies a window and starts managing it. Bars, desktops and
// notifications are handled here and yield nil. With requireType set,
// windows without a type hint and typed windows that are not bars are
// ignored.
func (e *Engine) onboard(id platform.WindowID, requireType bool) *Window {
	info, err := e.backend.Describe(id)
	if err != nil {
		e.logger.Debug("cannot describe window", "window", uint32(id), "error", err)
		return nil
	}
	if requireType && !info.Typed {
		return nil
	}

	ignore := requireType
	bar := false
	switch info.Type {
	case platform.TypeDock, platform.TypeToolbar:
		bar, ignore = true, false
	case platform.TypeNotification:
		e.onTop = append(removeID(e.onTop, id), id)
		e.debug("map", id, e.backend.Map(id))
		return nil
	case platform.TypeDesktop:
		e.debug("map", id, e.backend.Map(id))
		return nil
	}
	if ignore {
		return nil
	}

	if err := e.backend.Manage(id); err != nil {
		e.logger.Debug("cannot manage window", "window", uint32(id), "error", err)
		return nil
	}

	if bar {
		e.bars = append(removeID(e.bars, id), id)
		e.updateBarVisibility()
		e.logger.Info("bar registered", "window", uint32(id))
		return nil
	}

	w := newWindow(id, info)
	w.Workspace = e.current
	e.ws().Windows = append(e.ws().Windows, w)
	e.debug("desktop", id, e.backend.SetWindowDesktop(id, e.current))
	e.logger.Info("window managed",
		"window", uint32(id),
		"type", info.Type.String(),
		"geometry", w.Geom.String())
	return w
}

func (e *Engine) onConfigureRequest(ev platform.ConfigureRequest) {
	w, _ := e.findAny(ev.Window)
	if w == nil {
		e.debug("configure passthrough", ev.Window, e.backend.ConfigurePassthrough(ev))
		return
	}

	freezeX := w.Fullscreen || w.HMaxed
	freezeY := w.Fullscreen || w.VMaxed
	if ev.Mask&platform.ConfigX != 0 && !freezeX {
		w.Geom.X = ev.Geom.X
	}
	if ev.Mask&platform.ConfigY != 0 && !freezeY {
		w.Geom.Y = ev.Geom.Y
	}
	if ev.Mask&platform.ConfigWidth != 0 && !freezeX {
		w.Geom.Width = ev.Geom.Width
	}
	if ev.Mask&platform.ConfigHeight != 0 && !freezeY {
		w.Geom.Height = ev.Geom.Height
	}
	if ev.Mask&platform.ConfigStackMode != 0 {
		e.debug("restack", w.ID, e.backend.Restack(w.ID, ev.StackMode))
	}

	if w.Fullscreen {
		e.apply(w)
	} else {
		e.fitOnScreen(w)
	}
	e.refreshBorder(w, e.focused())
}

func (e *Engine) onDestroy(id platform.WindowID) {
	e.onTop = removeID(e.onTop, id)
	e.bars = removeID(e.bars, id)

	if w, ws := e.findAny(id); w != nil {
		ws.remove(w)
		e.refreshBorders()
		e.logger.Info("window destroyed", "window", uint32(id), "workspace", ws.Index+1)
	}

	e.updateClientList()
	e.gotoWorkspace(e.current)
}

func (e *Engine) onEnter(id platform.WindowID) {
	if !e.settings.SloppyFocus {
		return
	}
	if f := e.focused(); f != nil && f.ID == id {
		return
	}
	if w := e.find(id); w != nil {
		e.setFocused(w, false)
	}
}

func (e *Engine) onMapRequest(id platform.WindowID) {
	w, _ := e.findAny(id)
	if w == nil {
		w = e.onboard(id, false)
		if w == nil {
			return
		}
		if !w.UserPositioned {
			if p, _, err := e.backend.QueryPointer(); err == nil {
				w.Geom.X = p.X - w.Geom.Width/2
				w.Geom.Y = p.Y - w.Geom.Height/2
			}
			e.apply(w)
		}
	}
	w.ShouldMap = true

	if w.Workspace == e.current {
		e.debug("map", id, e.backend.Map(id))
	} else {
		e.addToWorkspace(w, e.current)
	}

	e.assignMonitor(w)
	e.fitOnScreen(w)
	e.applyState(w)
	e.updateClientList()
	e.refreshBorder(w, e.focused())
}

func (e *Engine) onMapNotify(id platform.WindowID) {
	w, _ := e.findAny(id)
	if w == nil {
		return
	}
	w.Mapped = true
	if w.UserSetMap {
		w.ShouldMap = true
	}
	w.UserSetMap = true
	if w.Workspace == e.current {
		e.setFocused(w, true)
	}
}

func (e *Engine) onUnmapNotify(id platform.WindowID) {
	e.onTop = removeID(e.onTop, id)

	w, _ := e.findAny(id)
	if w == nil {
		return
	}
	w.Mapped = false
	if w.UserSetUnmap {
		w.ShouldMap = false
	} else {
		w.UserSetUnmap = true
	}

	if e.settings.LastWindowFocusing {
		e.focusLastBest()
	}
	e.updateClientList()
}

func (e *Engine) onConfigureNotify(ev platform.ConfigureNotify) {
	if ev.Root {
		if ev.Geom.Width > 0 && ev.Geom.Height > 0 {
			e.screen = geom.Rect{Width: ev.Geom.Width, Height: ev.Geom.Height}
		}
		e.refreshMonitors()
		for _, w := range e.ws().Windows {
			e.fitOnScreen(w)
		}
		return
	}

	if w, _ := e.findAny(ev.Window); w != nil {
		w.Monitor = e.monitorAt(w.Geom.Position(geom.TopLeft))
		return
	}
	// Windows that set their type after creation, docks in particular,
	// are picked up here.
	e.onboard(ev.Window, true)
}

func (e *Engine) onCommandMessage(ev platform.CommandMessage) {
	call, err := command.Decode(ev.Words)
	if err != nil {
		e.logger.Warn("bad in-band command", "words", ev.Words, "error", err)
		return
	}
	if _, err := e.execLocked(call); err != nil {
		e.logger.Warn("in-band command failed", "command", call.Command.String(), "error", err)
	}
}

func (e *Engine) onStateMessage(ev platform.StateMessage) {
	w := e.find(ev.Window)
	if w == nil {
		return
	}
	for _, s := range ev.States {
		var flag *bool
		switch s {
		case platform.StateFullscreen:
			flag = &w.Fullscreen
		case platform.StateMaxVert:
			flag = &w.VMaxed
		case platform.StateMaxHorz:
			flag = &w.HMaxed
		default:
			continue
		}
		switch ev.Action {
		case platform.StateAdd:
			*flag = true
		case platform.StateRemove:
			*flag = false
		case platform.StateToggle:
			*flag = !*flag
		}
	}
	e.refreshMaxed(w)
}

// onFocusOut adopts whatever the server reports as focused when it no
// longer matches the tracked focus.
func (e *Engine) onFocusOut() {
	id, err := e.backend.InputFocus()
	if err != nil {
		return
	}
	if f := e.focused(); f != nil && f.ID == id {
		return
	}
	if w := e.find(id); w != nil {
		e.setFocused(w, false)
	}
}

func (e *Engine) onButtonPress(ev platform.ButtonPress) {
	replay := false
	locks := e.backend.LockMask()

	for i, action := range e.settings.PointerActions {
		button := i + 1
		if int(ev.Button) != button {
			continue
		}
		ctf := e.settings.ClickToFocus
		if (ctf == command.ButtonAny || ctf == button) && ev.State&^locks == 0 {
			replay = !e.pointerGrab(command.ActionFocus)
		} else {
			e.pointerGrab(action)
		}
	}

	e.debug("allow events", 0, e.backend.AllowEvents(replay, ev.Time))
}
