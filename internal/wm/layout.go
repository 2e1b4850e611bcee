package wm

import (
	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/tiling"
)

func (e *Engine) apply(w *Window) {
	e.debug("configure", w.ID, e.backend.Configure(w.ID, w.Geom))
}

func (e *Engine) applyBorders(w *Window) {
	e.debug("border", w.ID, e.backend.SetBorder(w.ID, w.BorderWidth, w.BorderColor))
}

func (e *Engine) applyState(w *Window) {
	e.debug("state", w.ID, e.backend.SetWindowState(w.ID, w.Fullscreen, w.HMaxed, w.VMaxed))
}

// fitOnScreen keeps the bordered box of w inside its usable monitor
// rectangle. Maximized windows are re-derived from their flags instead.
func (e *Engine) fitOnScreen(w *Window) {
	if w.AllowOffscreen {
		e.apply(w)
		return
	}
	if w.Maxed() {
		e.refreshMaxed(w)
		return
	}

	b2 := 2 * e.settings.BorderWidth
	m := e.usableRect(w, true)
	g := &w.Geom

	if g.Width == m.Width && g.Height == m.Height {
		g.X, g.Y = m.X, m.Y
		g.Width -= b2
		g.Height -= b2
		e.maximize(w)
		return
	}

	// Entirely outside: reposition only.
	if g.X > m.X+m.Width {
		g.X = m.X + m.Width - g.Width - b2
	} else if g.X < m.X {
		g.X = m.X
	}
	if g.Y > m.Y+m.Height {
		g.Y = m.Y + m.Height - g.Height - b2
	} else if g.Y < m.Y {
		g.Y = m.Y
	}

	if g.Width+b2 > m.Width {
		g.X = m.X
		g.Width = m.Width - b2
	} else if g.X+g.Width+b2 > m.X+m.Width {
		g.X = m.X + m.Width - g.Width - b2
	}

	if g.Height+b2 > m.Height {
		g.Y = m.Y
		g.Height = m.Height - b2
	} else if g.Y+g.Height+b2 > m.Y+m.Height {
		g.Y = m.Y + m.Height - g.Height - b2
	}

	e.apply(w)
}

// refreshMaxed re-derives the geometry of w from its maximize flags.
func (e *Engine) refreshMaxed(w *Window) {
	switch {
	case w.Fullscreen:
		e.fullscreen(w)
	case w.HMaxed || w.VMaxed:
		if w.HMaxed {
			e.hmaximize(w)
		}
		if w.VMaxed {
			e.vmaximize(w)
		}
	default:
		e.unmaximize(w)
	}
}

func (e *Engine) saveOriginal(w *Window, overwrite bool) {
	if overwrite || w.Saved == nil {
		saved := w.Geom
		w.Saved = &saved
	}
}

// restoreGeometry puts back the saved geometry and clears every maximize
// flag without touching the display.
func (e *Engine) restoreGeometry(w *Window) {
	if w.Saved != nil {
		w.Geom = *w.Saved
		w.Saved = nil
	}
	w.Fullscreen, w.HMaxed, w.VMaxed = false, false, false
}

func (e *Engine) fullscreen(w *Window) {
	m := e.usableRect(w, false)
	if w.Geom.Width != m.Width || w.Geom.Height != m.Height {
		e.saveOriginal(w, false)
	}

	w.BorderWidth = 0
	w.Fullscreen = true
	w.Geom = m
	e.applyBorders(w)
	e.applyState(w)
	e.apply(w)
}

// maximize fills the padded usable rectangle. The border is dropped but
// its width is still kept free on the far edges.
func (e *Engine) maximize(w *Window) {
	m := e.usableRect(w, true)
	if w.Geom.Width != m.Width || w.Geom.Height != m.Height {
		e.saveOriginal(w, false)
	}

	b2 := 2 * e.settings.BorderWidth
	w.BorderWidth = 0
	w.Geom = geom.Rect{X: m.X, Y: m.Y, Width: m.Width - b2, Height: m.Height - b2}
	w.HMaxed, w.VMaxed = true, true

	e.applyBorders(w)
	e.apply(w)
	e.applyState(w)
}

func (e *Engine) hmaximize(w *Window) {
	if w.VMaxed {
		e.maximize(w)
		return
	}
	e.restoreGeometry(w)

	m := e.usableRect(w, true)
	if w.Geom.Width != m.Width {
		e.saveOriginal(w, true)
	}
	gaps := e.settings.Gaps
	w.Geom.X = m.X + gaps.Left
	w.Geom.Width = m.Width - gaps.Left - gaps.Right - 2*e.settings.BorderWidth
	w.HMaxed = true
	e.apply(w)
	e.applyState(w)
}

func (e *Engine) vmaximize(w *Window) {
	if w.HMaxed {
		e.maximize(w)
		return
	}
	e.restoreGeometry(w)

	m := e.usableRect(w, true)
	if w.Geom.Height != m.Height {
		e.saveOriginal(w, true)
	}
	gaps := e.settings.Gaps
	w.Geom.Y = m.Y + gaps.Top
	w.Geom.Height = m.Height - gaps.Top - gaps.Bottom - 2*e.settings.BorderWidth
	w.VMaxed = true
	e.apply(w)
	e.applyState(w)
}

// unmaximize leaves fullscreen first, falling back to any remaining
// maximize state; otherwise it restores the saved geometry.
func (e *Engine) unmaximize(w *Window) {
	if w.Fullscreen {
		w.Fullscreen = false
		e.refreshMaxed(w)
		return
	}
	e.restoreGeometry(w)
	e.apply(w)
	e.applyState(w)
	e.refreshBorder(w, e.focused())
}

// snap moves w flush against a corner of its usable rectangle, or centers
// it.
func (e *Engine) snap(w *Window, a geom.Anchor) {
	if w.Maxed() {
		e.unmaximize(w)
		e.setFocused(w, true)
	}
	e.fitOnScreen(w)

	b2 := 2 * e.settings.BorderWidth
	m := e.usableRect(w, true)
	p, ok := tiling.SnapOrigin(m, e.settings.Gaps, w.Geom.Width+b2, w.Geom.Height+b2, a)
	if !ok {
		return
	}
	w.Geom.X, w.Geom.Y = p.X, p.Y
	e.apply(w)
}

// grid places w into cell (col, row) of a cols x rows grid.
func (e *Engine) grid(w *Window, cols, rows, col, row int) error {
	g := tiling.Grid{
		Cols:    cols,
		Rows:    rows,
		Gaps:    e.settings.Gaps,
		GridGap: e.settings.GridGap,
		Border:  e.settings.BorderWidth,
	}
	cell, err := g.Cell(e.usableRect(w, true), col, row)
	if err != nil {
		return err
	}

	if w.Maxed() {
		e.unmaximize(w)
		e.setFocused(w, true)
	}

	w.Geom = cell
	e.apply(w)
	return nil
}

// resizeBy grows or shrinks w. A dimension is left alone when the result
// would not be positive. With resize hints on, sizes are truncated to the
// window's increments.
func (e *Engine) resizeBy(w *Window, dw, dh int) {
	width, height := w.Geom.Width, w.Geom.Height
	if width+dw > 0 {
		width += dw
	}
	if height+dh > 0 {
		height += dh
	}
	if e.settings.ResizeHints {
		width -= width % w.WidthInc
		height -= height % w.HeightInc
	}
	w.Geom.Width, w.Geom.Height = width, height
	e.apply(w)
}

// centerPointer warps the pointer to the configured landing point of w.
func (e *Engine) centerPointer(w *Window) {
	p := w.Geom.Position(e.settings.CursorPosition)
	p.X -= w.Geom.X
	p.Y -= w.Geom.Y
	e.debug("warp", w.ID, e.backend.WarpPointer(w.ID, p))
}
