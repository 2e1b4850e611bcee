package tiling

import (
	"testing"

	"github.com/1broseidon/placewm/internal/geom"
)

func TestGridCell_TwoByTwoWithBorder(t *testing.T) {
	area := geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	g := Grid{Cols: 2, Rows: 2, Border: 2}

	// cellW = (1920 - 0 - 0 - 2*2*2) / 2 = 956
	// cellH = (1080 - 8) / 2 = 536
	// x = 0 + 1*(2+956+2+0) = 960
	// y = 0 + 1*(2+536+2+0) = 540
	got, err := g.Cell(area, 1, 1)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := geom.Rect{X: 960, Y: 540, Width: 956, Height: 536}
	if got != want {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestGridCell_RejectsOutOfRange(t *testing.T) {
	area := geom.Rect{Width: 800, Height: 600}
	g := Grid{Cols: 2, Rows: 3}

	for _, tc := range [][2]int{{2, 0}, {0, 3}, {-1, 0}} {
		if _, err := g.Cell(area, tc[0], tc[1]); err == nil {
			t.Fatalf("expected error for cell %v", tc)
		}
	}
}

func TestGridCell_ErrorsWhenInsufficientSpace(t *testing.T) {
	area := geom.Rect{Width: 20, Height: 10}
	g := Grid{Cols: 2, Rows: 1, Border: 5}

	if _, err := g.Cell(area, 0, 0); err == nil {
		t.Fatalf("expected error for insufficient space")
	}
}

func TestGridCells_TileUsableArea(t *testing.T) {
	tests := []struct {
		name string
		area geom.Rect
		grid Grid
	}{
		{"plain", geom.Rect{Width: 1920, Height: 1080}, Grid{Cols: 3, Rows: 2, Border: 2}},
		{"gaps", geom.Rect{X: 1920, Y: 24, Width: 2560, Height: 1416}, Grid{Cols: 4, Rows: 3, Gaps: Gaps{Left: 10, Bottom: 7, Top: 5, Right: 11}, GridGap: 6, Border: 3}},
		{"single", geom.Rect{Width: 1000, Height: 700}, Grid{Cols: 1, Rows: 1, Gaps: Uniform(20), Border: 1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cells, err := allCells(tt.grid, tt.area)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if len(cells) != tt.grid.Cols*tt.grid.Rows {
				t.Fatalf("expected %d cells, got %d", tt.grid.Cols*tt.grid.Rows, len(cells))
			}

			b := tt.grid.Border
			for i, a := range cells {
				outerA := geom.Rect{X: a.X, Y: a.Y, Width: a.Width + 2*b - 1, Height: a.Height + 2*b - 1}
				for j := i + 1; j < len(cells); j++ {
					c := cells[j]
					outerC := geom.Rect{X: c.X, Y: c.Y, Width: c.Width + 2*b - 1, Height: c.Height + 2*b - 1}
					if outerA.Overlaps(outerC) {
						t.Fatalf("cells %d and %d overlap: %v %v", i, j, a, c)
					}
				}
			}

			w, h := tt.grid.CellSize(tt.area)
			usedW := tt.grid.Gaps.Left + tt.grid.Gaps.Right + tt.grid.Cols*(w+2*b) + (tt.grid.Cols-1)*tt.grid.GridGap
			usedH := tt.grid.Gaps.Top + tt.grid.Gaps.Bottom + tt.grid.Rows*(h+2*b) + (tt.grid.Rows-1)*tt.grid.GridGap
			if rem := tt.area.Width - usedW; rem < 0 || rem >= tt.grid.Cols {
				t.Fatalf("horizontal remainder %d outside [0,%d)", rem, tt.grid.Cols)
			}
			if rem := tt.area.Height - usedH; rem < 0 || rem >= tt.grid.Rows {
				t.Fatalf("vertical remainder %d outside [0,%d)", rem, tt.grid.Rows)
			}

			last := cells[len(cells)-1]
			if right := last.X + last.Width + 2*b; right > tt.area.X+tt.area.Width-tt.grid.Gaps.Right {
				t.Fatalf("last cell exceeds right gap: %d", right)
			}
		})
	}
}

func TestSnapOrigin(t *testing.T) {
	area := geom.Rect{X: 100, Y: 50, Width: 1000, Height: 800}
	gaps := Gaps{Left: 1, Bottom: 2, Top: 3, Right: 4}

	tests := []struct {
		anchor geom.Anchor
		want   geom.Point
	}{
		{geom.TopLeft, geom.Point{X: 101, Y: 53}},
		{geom.TopRight, geom.Point{X: 100 + 1000 - 4 - 200, Y: 53}},
		{geom.BottomLeft, geom.Point{X: 101, Y: 50 + 800 - 2 - 100}},
		{geom.BottomRight, geom.Point{X: 896, Y: 748}},
		{geom.Center, geom.Point{X: 100 + 400, Y: 50 + 350}},
	}
	for _, tt := range tests {
		t.Run(tt.anchor.String(), func(t *testing.T) {
			got, ok := SnapOrigin(area, gaps, 200, 100, tt.anchor)
			if !ok {
				t.Fatalf("expected %s to be a snap target", tt.anchor)
			}
			if got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}

	if _, ok := SnapOrigin(area, gaps, 200, 100, geom.Left); ok {
		t.Fatalf("edge anchors are not snap targets")
	}
}

// allCells returns every cell of g in row-major order.
func allCells(g Grid, area geom.Rect) ([]geom.Rect, error) {
	cells := make([]geom.Rect, 0, g.Cols*g.Rows)
	for row := 0; row < g.Rows; row++ {
		for col := 0; col < g.Cols; col++ {
			c, err := g.Cell(area, col, row)
			if err != nil {
				return nil, err
			}
			cells = append(cells, c)
		}
	}
	return cells, nil
}
