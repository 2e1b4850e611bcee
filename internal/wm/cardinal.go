package wm

import (
	"math"

	"github.com/1broseidon/placewm/internal/geom"
)

// cone weights, tried in order. A candidate outside every cone is dropped.
var cones = []struct {
	delta  float64
	weight float64
}{
	{10, 0.80},
	{25, 0.85},
	{35, 0.90},
	{50, 3.0},
}

const (
	overlapWeight  = 0.1
	corridorWeight = 0.9
)

// inHalfPlane reports whether center c lies on the d side of center f.
// South and east include the boundary; north and west do not.
func inHalfPlane(d geom.Direction, f, c geom.Point) bool {
	switch d {
	case geom.North:
		return c.Y < f.Y
	case geom.South:
		return c.Y >= f.Y
	case geom.West:
		return c.X < f.X
	case geom.East:
		return c.X >= f.X
	}
	return false
}

// inCone reports whether a bearing lies within delta degrees of the ideal
// bearing for d.
func inCone(d geom.Direction, angle, delta float64) bool {
	switch d {
	case geom.North:
		return angle >= 180-delta || angle <= -180+delta
	case geom.South:
		return math.Abs(angle) <= delta
	case geom.East:
		return angle <= 90+delta && angle > 90-delta
	case geom.West:
		return angle <= -90+delta && angle >= -90-delta
	}
	return false
}

// inCorridor reports whether the center of b falls within the span of a
// perpendicular to d.
func inCorridor(d geom.Direction, a, b geom.Rect) bool {
	c := b.Position(geom.Center)
	switch d {
	case geom.North, geom.South:
		return a.X <= c.X && c.X <= a.X+a.Width
	default:
		return a.Y <= c.Y && c.Y <= a.Y+a.Height
	}
}

// cardinalTarget picks the window to focus when moving from the focused
// window in direction d, or nil. Ties keep the earlier candidate.
func (e *Engine) cardinalTarget(d geom.Direction) *Window {
	f := e.focused()
	if f == nil {
		return nil
	}
	fc := f.Geom.Position(geom.Center)

	var best *Window
	bestDist := -1.0
	for _, c := range e.ws().Windows {
		if c == f || !c.Mapped {
			continue
		}
		if !inHalfPlane(d, fc, c.Geom.Position(geom.Center)) {
			continue
		}

		dist := f.Geom.Distance(c.Geom)
		angle := f.Geom.Angle(c.Geom)

		matched := false
		for _, cone := range cones {
			if inCone(d, angle, cone.delta) {
				if f.Geom.Overlaps(c.Geom) {
					dist *= overlapWeight
				}
				dist *= cone.weight
				matched = true
				break
			}
		}
		if !matched {
			continue
		}
		if inCorridor(d, f.Geom, c.Geom) {
			dist *= corridorWeight
		}

		if bestDist < 0 || dist < bestDist {
			bestDist = dist
			best = c
		}
	}
	return best
}

func (e *Engine) cardinalFocus(d geom.Direction) {
	if w := e.cardinalTarget(d); w != nil {
		e.setFocused(w, true)
		e.centerPointer(w)
	}
}

// nearestEdge finds how far w can travel in direction d before touching
// another window's opposing edge or the monitor bound. With invert set the
// scan starts from the window's opposite edge and runs the other way. Only
// the coordinate along d is meaningful: a top-left for north or west, a
// far edge for south or east.
func (e *Engine) nearestEdge(w *Window, d geom.Direction, invert bool) geom.Point {
	b2 := 2 * e.settings.BorderWidth
	m := e.usableRect(w, true)
	tl := w.Geom.Position(geom.TopLeft)
	br := w.Geom.Position(geom.BottomRight)
	if invert {
		d = d.Opposite()
		tl, br = br, tl
	}

	res := w.Geom.Position(geom.TopLeft)
	wins := e.ws().Windows

	switch d {
	case geom.North:
		res.Y = m.Y - b2
		limit := tl.Y - b2
		for _, c := range wins {
			if !c.Mapped {
				continue
			}
			if y := c.Geom.Position(geom.BottomRight).Y; y < limit && y > res.Y {
				res.Y = y
			}
		}
		res.Y += b2
	case geom.South:
		res.Y = m.Y + m.Height
		limit := br.Y + b2
		for _, c := range wins {
			if !c.Mapped {
				continue
			}
			if y := c.Geom.Position(geom.TopLeft).Y; y > limit && y < res.Y {
				res.Y = y
			}
		}
		res.Y -= b2
	case geom.West:
		res.X = m.X - b2
		limit := tl.X - b2
		for _, c := range wins {
			if !c.Mapped {
				continue
			}
			if x := c.Geom.Position(geom.BottomRight).X; x < limit && x > res.X {
				res.X = x
			}
		}
		res.X += b2
	case geom.East:
		res.X = m.X + m.Width
		limit := br.X + b2
		for _, c := range wins {
			if !c.Mapped {
				continue
			}
			if x := c.Geom.Position(geom.TopLeft).X; x > limit && x < res.X {
				res.X = x
			}
		}
		res.X -= b2
	}
	return res
}

// cardinalMove slides w in direction d until it is flush with the nearest
// edge.
func (e *Engine) cardinalMove(w *Window, d geom.Direction) {
	edge := e.nearestEdge(w, d, false)
	switch d {
	case geom.North:
		w.Geom.Y = edge.Y
	case geom.South:
		w.Geom.Y = edge.Y - w.Geom.Height
	case geom.West:
		w.Geom.X = edge.X
	case geom.East:
		w.Geom.X = edge.X - w.Geom.Width
	}
	e.apply(w)
}

// cardinalResize moves the d edge of w to the nearest edge in that
// direction. With shrink set the edge moves inward instead. Results with
// no remaining area are dropped.
func (e *Engine) cardinalResize(w *Window, d geom.Direction, shrink bool) {
	tl := w.Geom.Position(geom.TopLeft)
	edge := e.nearestEdge(w, d, shrink)
	g := w.Geom

	switch d {
	case geom.North:
		g.Y = edge.Y
		g.Height += tl.Y - edge.Y
	case geom.South:
		g.Height = edge.Y - tl.Y
	case geom.West:
		g.X = edge.X
		g.Width += tl.X - edge.X
	case geom.East:
		g.Width = edge.X - tl.X
	}
	if g.Width <= 0 || g.Height <= 0 {
		return
	}
	w.Geom = g
	e.apply(w)
}
