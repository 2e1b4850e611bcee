package geom

import (
	"fmt"
	"math"
)

// Point is a position in root window coordinates.
type Point struct {
	X int
	Y int
}

// Rect represents a window position and size.
type Rect struct {
	X      int
	Y      int
	Width  int
	Height int
}

func (r Rect) String() string {
	return fmt.Sprintf("%d,%d %dx%d", r.X, r.Y, r.Width, r.Height)
}

// Anchor names a point on a rectangle. The ordinal order is part of the
// in-band command encoding and must not change.
type Anchor int

const (
	BottomLeft Anchor = iota
	BottomRight
	TopLeft
	TopRight
	Center
	Left
	Bottom
	Top
	Right
	All
)

var anchorNames = [...]string{
	BottomLeft:  "bottomleft",
	BottomRight: "bottomright",
	TopLeft:     "topleft",
	TopRight:    "topright",
	Center:      "center",
	Left:        "left",
	Bottom:      "bottom",
	Top:         "top",
	Right:       "right",
	All:         "all",
}

func (a Anchor) String() string {
	if a < 0 || int(a) >= len(anchorNames) {
		return fmt.Sprintf("Anchor(%d)", int(a))
	}
	return anchorNames[a]
}

// Direction is a cardinal direction. The ordinal order is part of the
// in-band command encoding.
type Direction int

const (
	North Direction = iota
	South
	East
	West
)

var directionNames = [...]string{
	North: "north",
	South: "south",
	East:  "east",
	West:  "west",
}

func (d Direction) String() string {
	if d < 0 || int(d) >= len(directionNames) {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// Opposite returns the reverse direction.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Position returns the named point of r. Halves use integer division so
// odd sizes round toward the top-left corner.
func (r Rect) Position(a Anchor) Point {
	switch a {
	case TopLeft:
		return Point{r.X, r.Y}
	case TopRight:
		return Point{r.X + r.Width, r.Y}
	case BottomRight:
		return Point{r.X + r.Width, r.Y + r.Height}
	case BottomLeft:
		return Point{r.X, r.Y + r.Height}
	case Center:
		return Point{r.X + r.Width/2, r.Y + r.Height/2}
	case Top:
		return Point{r.X + r.Width/2, r.Y}
	case Bottom:
		return Point{r.X + r.Width/2, r.Y + r.Height}
	case Left:
		return Point{r.X, r.Y + r.Height/2}
	case Right:
		return Point{r.X + r.Width, r.Y + r.Height/2}
	}
	return Point{}
}

// Overlaps reports whether the horizontal and vertical projections of r and b
// both intersect.
// Touching edges count as overlap.
func (r Rect) Overlaps(b Rect) bool {
	return spans(r.X, r.Width, b.X, b.Width) && spans(r.Y, r.Height, b.Y, b.Height)
}

// spans reports whether the closed intervals [a, a+al] and [b, b+bl] meet.
func spans(a, al, b, bl int) bool {
	if a > b {
		a, al, b, bl = b, bl, a, al
	}
	return a+al >= b
}

// Contains reports whether p lies inside r, edges included.
func (r Rect) Contains(p Point) bool {
	return p.X >= r.X && p.X <= r.X+r.Width && p.Y >= r.Y && p.Y <= r.Y+r.Height
}

// Angle returns the bearing in degrees from the center of r to the center
// of b, computed as atan2(dx, dy). South is 0, east +90, west -90 and north
// ±180. Identical centers yield 0.
func (r Rect) Angle(b Rect) float64 {
	ac := r.Position(Center)
	bc := b.Position(Center)
	dx := float64(bc.X - ac.X)
	dy := float64(bc.Y - ac.Y)
	if dx == 0 && dy == 0 {
		return 0
	}
	return math.Atan2(dx, dy) * 180 / math.Pi
}

// Distance returns the Euclidean distance between the centers of r and b.
func (r Rect) Distance(b Rect) float64 {
	ac := r.Position(Center)
	bc := b.Position(Center)
	return math.Hypot(float64(bc.X-ac.X), float64(bc.Y-ac.Y))
}
