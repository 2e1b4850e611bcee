package tiling

import (
	"fmt"

	"github.com/1broseidon/placewm/internal/geom"
)

// Gaps are the outer margins kept free between windows and the monitor edge.
type Gaps struct {
	Left   int
	Bottom int
	Top    int
	Right  int
}

// Uniform returns gaps of the same size on every side.
func Uniform(n int) Gaps {
	return Gaps{Left: n, Bottom: n, Top: n, Right: n}
}

// Grid describes a cols x rows grid laid over a usable area.
type Grid struct {
	Cols    int
	Rows    int
	Gaps    Gaps
	GridGap int
	Border  int
}

// CellSize returns the client size of a single cell, excluding borders.
func (g Grid) CellSize(area geom.Rect) (w, h int) {
	w = (area.Width - g.Gaps.Left - g.Gaps.Right - (g.Cols-1)*g.GridGap - g.Cols*2*g.Border) / g.Cols
	h = (area.Height - g.Gaps.Top - g.Gaps.Bottom - (g.Rows-1)*g.GridGap - g.Rows*2*g.Border) / g.Rows
	return w, h
}

// Cell computes the client geometry of the cell at (col, row).
func (g Grid) Cell(area geom.Rect, col, row int) (geom.Rect, error) {
	if g.Cols <= 0 || g.Rows <= 0 {
		return geom.Rect{}, fmt.Errorf("invalid grid dimensions: cols=%d rows=%d", g.Cols, g.Rows)
	}
	if col < 0 || row < 0 || col >= g.Cols || row >= g.Rows {
		return geom.Rect{}, fmt.Errorf("cell %d,%d outside %dx%d grid", col, row, g.Cols, g.Rows)
	}

	w, h := g.CellSize(area)
	if w <= 0 || h <= 0 {
		return geom.Rect{}, fmt.Errorf(
			"insufficient space for grid: area=%dx%d cols=%d rows=%d border=%d (cell=%dx%d)",
			area.Width, area.Height, g.Cols, g.Rows, g.Border, w, h,
		)
	}

	return geom.Rect{
		X:      area.X + g.Gaps.Left + col*(g.Border+w+g.Border+g.GridGap),
		Y:      area.Y + g.Gaps.Top + row*(g.Border+h+g.Border+g.GridGap),
		Width:  w,
		Height: h,
	}, nil
}

// SnapOrigin returns the top-left corner for a window of outer size w x h
// (borders included) snapped to the given anchor of area. Only the four
// corners and Center are snap targets.
func SnapOrigin(area geom.Rect, gaps Gaps, w, h int, anchor geom.Anchor) (geom.Point, bool) {
	switch anchor {
	case geom.TopLeft:
		return geom.Point{X: area.X + gaps.Left, Y: area.Y + gaps.Top}, true
	case geom.TopRight:
		return geom.Point{X: area.X + area.Width - gaps.Right - w, Y: area.Y + gaps.Top}, true
	case geom.BottomLeft:
		return geom.Point{X: area.X + gaps.Left, Y: area.Y + area.Height - gaps.Bottom - h}, true
	case geom.BottomRight:
		return geom.Point{X: area.X + area.Width - gaps.Right - w, Y: area.Y + area.Height - gaps.Bottom - h}, true
	case geom.Center:
		return geom.Point{X: area.X + (area.Width-w)/2, Y: area.Y + (area.Height-h)/2}, true
	}
	return geom.Point{}, false
}
