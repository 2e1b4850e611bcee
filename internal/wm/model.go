package wm

import (
	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

// MonitorRef is a non-owning handle to a monitor. Lookups through a stale
// handle report not-found instead of returning a removed monitor.
type MonitorRef struct {
	ID    uint32
	Valid bool
}

// Window is a managed top-level window.
type Window struct {
	ID   platform.WindowID
	Kind platform.WindowType

	Geom geom.Rect
	// Saved holds the pre-maximize geometry while any maximize state is set.
	Saved          *geom.Rect
	UserPositioned bool

	Fullscreen bool
	HMaxed     bool
	VMaxed     bool

	Mapped    bool
	ShouldMap bool
	// UserSetMap and UserSetUnmap are cleared while a map or unmap issued
	// by the window manager itself is in flight.
	UserSetMap     bool
	UserSetUnmap   bool
	AllowOffscreen bool

	MinWidth  int
	MinHeight int
	WidthInc  int
	HeightInc int

	BorderWidth int
	BorderColor uint32

	Monitor   MonitorRef
	Workspace int
}

func newWindow(id platform.WindowID, info platform.WindowInfo) *Window {
	w := &Window{
		ID:             id,
		Kind:           info.Type,
		Geom:           info.Geom,
		UserPositioned: info.UserPositioned,
		ShouldMap:      true,
		UserSetMap:     true,
		UserSetUnmap:   true,
		MinWidth:       info.MinWidth,
		MinHeight:      info.MinHeight,
		WidthInc:       info.WidthInc,
		HeightInc:      info.HeightInc,
	}
	if w.WidthInc <= 0 {
		w.WidthInc = 1
	}
	if w.HeightInc <= 0 {
		w.HeightInc = 1
	}
	return w
}

// Maxed reports whether any maximize state is set.
func (w *Window) Maxed() bool {
	return w.Fullscreen || w.HMaxed || w.VMaxed
}

// Workspace owns an ordered set of windows, most recently focused last.
type Workspace struct {
	Index    int
	BarShown bool
	Windows  []*Window
}

// Focused returns the last mapped window, or nil.
func (ws *Workspace) Focused() *Window {
	for i := len(ws.Windows) - 1; i >= 0; i-- {
		if ws.Windows[i].Mapped {
			return ws.Windows[i]
		}
	}
	return nil
}

func (ws *Workspace) find(id platform.WindowID) *Window {
	for _, w := range ws.Windows {
		if w.ID == id {
			return w
		}
	}
	return nil
}

func (ws *Workspace) index(w *Window) int {
	for i, c := range ws.Windows {
		if c == w {
			return i
		}
	}
	return -1
}

func (ws *Workspace) remove(w *Window) bool {
	i := ws.index(w)
	if i < 0 {
		return false
	}
	ws.Windows = append(ws.Windows[:i], ws.Windows[i+1:]...)
	return true
}

// moveToBack makes w the most recently focused window.
func (ws *Workspace) moveToBack(w *Window) {
	if ws.remove(w) {
		ws.Windows = append(ws.Windows, w)
	}
}

// Monitor is a physical output.
type Monitor struct {
	ID   uint32
	Name string
	Geom geom.Rect
}

func (m Monitor) ref() MonitorRef {
	return MonitorRef{ID: m.ID, Valid: true}
}
