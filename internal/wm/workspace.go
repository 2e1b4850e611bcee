package wm

import "fmt"

// workspaceIndex converts a 1-based workspace number into an index.
func (e *Engine) workspaceIndex(n int) (int, error) {
	if n < 1 || n > len(e.workspaces) {
		return 0, fmt.Errorf("workspace %d out of range 1..%d", n, len(e.workspaces))
	}
	return n - 1, nil
}

// gotoWorkspace makes workspace idx current. Windows of every other
// workspace are unmapped; windows of idx are mapped when they should be.
func (e *Engine) gotoWorkspace(idx int) {
	e.current = idx

	for _, ws := range e.workspaces {
		if ws.Index == idx {
			continue
		}
		for _, w := range ws.Windows {
			e.unmapByWM(w)
		}
	}

	var last *Window
	for _, w := range e.ws().Windows {
		if w.ShouldMap {
			w.UserSetMap = false
			e.debug("map", w.ID, e.backend.Map(w.ID))
			e.refreshMaxed(w)
			last = w
		} else {
			e.unmapByWM(w)
		}
	}

	if e.focused() == nil && last != nil {
		e.setFocused(last, true)
	}

	e.refreshBorders()
	if err := e.backend.SetCurrentDesktop(idx); err != nil {
		e.logger.Debug("failed to set current desktop", "error", err)
	}
	e.updateBarVisibility()
	e.updateClientList()
}

// unmapByWM unmaps w. The user-unmap marker is only cleared on mapped
// windows: an already unmapped window gets no UnmapNotify to restore it.
func (e *Engine) unmapByWM(w *Window) {
	if w.Mapped {
		w.UserSetUnmap = false
	}
	e.debug("unmap", w.ID, e.backend.Unmap(w.ID))
}

// addToWorkspace transfers w to workspace idx. The window leaves its old
// workspace before it joins the new one, and only then is the current
// workspace re-applied.
func (e *Engine) addToWorkspace(w *Window, idx int) {
	if w.Workspace >= 0 && w.Workspace < len(e.workspaces) {
		e.workspaces[w.Workspace].remove(w)
	}
	w.Workspace = idx
	e.workspaces[idx].Windows = append(e.workspaces[idx].Windows, w)
	e.debug("desktop", w.ID, e.backend.SetWindowDesktop(w.ID, idx))
	e.gotoWorkspace(e.current)
}

// updateBarVisibility maps or unmaps every bar window to match the
// current workspace.
func (e *Engine) updateBarVisibility() {
	show := e.ws().BarShown
	for _, id := range e.bars {
		if show {
			e.debug("map bar", id, e.backend.Map(id))
		} else {
			e.debug("unmap bar", id, e.backend.Unmap(id))
		}
	}
}

// setBar changes the bar visibility of workspace idx: mode 0 hides, 1
// shows and anything greater toggles.
func (e *Engine) setBar(idx, mode int) {
	ws := e.workspaces[idx]
	switch {
	case mode > 1:
		ws.BarShown = !ws.BarShown
	default:
		ws.BarShown = mode != 0
	}

	e.updateBarVisibility()
	for _, w := range e.ws().Windows {
		e.fitOnScreen(w)
	}
}
