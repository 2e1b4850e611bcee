package wm

import (
	"slices"

	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

func (e *Engine) monitor(ref MonitorRef) (*Monitor, bool) {
	if !ref.Valid {
		return nil, false
	}
	for i := range e.monitors {
		if e.monitors[i].ID == ref.ID {
			return &e.monitors[i], true
		}
	}
	return nil, false
}

// monitorAt returns the monitor containing p, edges included.
func (e *Engine) monitorAt(p geom.Point) MonitorRef {
	for _, m := range e.monitors {
		if m.Geom.Contains(p) {
			return m.ref()
		}
	}
	return MonitorRef{}
}

// assignMonitor picks the monitor under the window's origin, falling back to
// the first monitor.
func (e *Engine) assignMonitor(w *Window) {
	w.Monitor = e.monitorAt(w.Geom.Position(geom.TopLeft))
	if !w.Monitor.Valid && len(e.monitors) > 0 {
		w.Monitor = e.monitors[0].ref()
	}
}

// monitorRect returns the geometry of the window's monitor, or the whole
// screen when it has none.
func (e *Engine) monitorRect(w *Window) geom.Rect {
	if m, ok := e.monitor(w.Monitor); ok {
		return m.Geom
	}
	if e.screen.Width > 0 && e.screen.Height > 0 {
		return e.screen
	}
	return e.backend.ScreenSize()
}

// usableRect is the monitor rectangle minus bar padding, when padded is set
// and the window's workspace shows its bar.
func (e *Engine) usableRect(w *Window, padded bool) geom.Rect {
	r := e.monitorRect(w)
	if !padded {
		return r
	}
	if w.Workspace >= 0 && w.Workspace < len(e.workspaces) && e.workspaces[w.Workspace].BarShown {
		p := e.settings.BarPadding
		r.X += p[PadLeft]
		r.Y += p[PadTop]
		r.Width -= p[PadLeft] + p[PadRight]
		r.Height -= p[PadTop] + p[PadBottom]
	}
	return r
}

// refreshMonitors reconciles the monitor list with the outputs the backend
// reports. Windows on a vanished monitor are moved to the first remaining
// one before the record is dropped. Known outputs are considered before
// new ones, so a new output mirroring a known one is the clone.
func (e *Engine) refreshMonitors() {
	displays, err := e.backend.Displays()
	if err != nil {
		e.logger.Warn("failed to query outputs", "error", err)
		return
	}
	displays = slices.Clone(displays)
	slices.SortStableFunc(displays, func(a, b platform.Display) int {
		return e.knownOrder(a.ID) - e.knownOrder(b.ID)
	})

	seen := make(map[uint32]bool)
	var accepted []geom.Rect
	for _, d := range displays {
		if isClone(accepted, d.Bounds) {
			e.logger.Debug("skipping cloned output", "output", d.Name)
			continue
		}
		seen[d.ID] = true
		accepted = append(accepted, d.Bounds)

		if m, ok := e.monitor(MonitorRef{ID: d.ID, Valid: true}); ok {
			m.Name = d.Name
			if m.Geom != d.Bounds {
				m.Geom = d.Bounds
				e.arrangeMonitor(m.ref())
			}
			continue
		}
		e.monitors = append(e.monitors, Monitor{ID: d.ID, Name: d.Name, Geom: d.Bounds})
		e.logger.Info("monitor added", "output", d.Name, "geometry", d.Bounds.String())
	}

	var gone []Monitor
	var kept []Monitor
	for _, m := range e.monitors {
		if seen[m.ID] {
			kept = append(kept, m)
		} else {
			gone = append(gone, m)
		}
	}

	var moved []*Window
	for _, m := range gone {
		var to MonitorRef
		if len(kept) > 0 {
			to = kept[0].ref()
		}
		n := 0
		e.eachWindow(func(w *Window) {
			if w.Monitor.Valid && w.Monitor.ID == m.ID {
				w.Monitor = to
				moved = append(moved, w)
				n++
			}
		})
		e.logger.Info("monitor removed", "output", m.Name, "windows", n)
	}
	e.monitors = kept

	for _, w := range moved {
		if w.Workspace == e.current {
			e.fitOnScreen(w)
		}
	}
}

// knownOrder is 0 for outputs with a monitor record and 1 for new ones.
func (e *Engine) knownOrder(id uint32) int {
	if _, ok := e.monitor(MonitorRef{ID: id, Valid: true}); ok {
		return 0
	}
	return 1
}

// isClone reports whether an output accepted earlier in the same refresh
// already sits at r's origin.
func isClone(accepted []geom.Rect, r geom.Rect) bool {
	for _, a := range accepted {
		if a.X == r.X && a.Y == r.Y {
			return true
		}
	}
	return false
}

func (e *Engine) arrangeMonitor(ref MonitorRef) {
	for _, w := range e.ws().Windows {
		if w.Monitor == ref {
			e.fitOnScreen(w)
		}
	}
}
