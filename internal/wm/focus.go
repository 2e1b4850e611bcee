package wm

import "github.com/1broseidon/placewm/internal/platform"

// setFocused gives w the input focus and makes it the most recently focused
// window of the current workspace.
func (e *Engine) setFocused(w *Window, raise bool) {
	e.ws().moveToBack(w)

	e.debug("focus", w.ID, e.backend.Focus(w.ID))
	e.debug("grab buttons", w.ID, e.backend.GrabButtons(w.ID, e.settings.binding()))

	e.refreshBorders()

	if raise {
		e.debug("raise", w.ID, e.backend.Raise(w.ID))
		for _, id := range e.onTop {
			e.debug("raise", id, e.backend.Raise(id))
		}
	}
}

// focusLastBest focuses the most recently focused mapped window.
func (e *Engine) focusLastBest() {
	if w := e.focused(); w != nil {
		e.setFocused(w, true)
	}
}

// previous returns the mapped window focused before the current one.
func (e *Engine) previous() *Window {
	ws := e.ws()
	seen := false
	for i := len(ws.Windows) - 1; i >= 0; i-- {
		if !ws.Windows[i].Mapped {
			continue
		}
		if seen {
			return ws.Windows[i]
		}
		seen = true
	}
	return nil
}

// cycle focuses the next mapped window after w in workspace order,
// wrapping around.
func (e *Engine) cycle(w *Window, reverse bool) {
	wins := e.ws().Windows
	n := len(wins)
	start := e.ws().index(w)
	if start < 0 || n < 2 {
		return
	}

	step := 1
	if reverse {
		step = -1
	}
	for k := 1; k < n; k++ {
		c := wins[((start+k*step)%n+n)%n]
		if c.Mapped {
			e.setFocused(c, true)
			e.centerPointer(c)
			return
		}
	}
}

// refreshBorder derives border width and color of w from its state.
func (e *Engine) refreshBorder(w, focused *Window) {
	if w.Fullscreen || (w.HMaxed && w.VMaxed) || !e.settings.Borders {
		w.BorderWidth = 0
	} else {
		w.BorderWidth = e.settings.BorderWidth
	}
	if w == focused {
		w.BorderColor = e.settings.FocusColor
	} else {
		w.BorderColor = e.settings.UnfocusColor
	}
	e.applyBorders(w)
}

// refreshBorders updates every window of the current workspace, unless
// settings are not applied immediately.
func (e *Engine) refreshBorders() {
	if !e.settings.ApplySettings {
		return
	}
	focused := e.focused()
	for _, w := range e.ws().Windows {
		e.refreshBorder(w, focused)
	}
}

// updateClientList publishes the mapped windows of the current workspace.
func (e *Engine) updateClientList() {
	var ids []platform.WindowID
	for _, w := range e.ws().Windows {
		if w.Mapped {
			ids = append(ids, w.ID)
		}
	}
	if err := e.backend.SetClientList(ids); err != nil {
		e.logger.Debug("failed to update client list", "error", err)
	}
}

func (e *Engine) regrabButtons() {
	b := e.settings.binding()
	e.eachWindow(func(w *Window) {
		e.debug("ungrab buttons", w.ID, e.backend.UngrabButtons(w.ID))
		e.debug("grab buttons", w.ID, e.backend.GrabButtons(w.ID, b))
	})
}
