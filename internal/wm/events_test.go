package wm

import (
	"bytes"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

func TestFitOnScreen(t *testing.T) {
	e, fb := newTestEngine(t)
	w := addWindow(t, e, fb, 1, geom.Rect{X: 10, Y: 10, Width: 100, Height: 100})

	tests := []struct {
		name string
		in   geom.Rect
		want geom.Rect
	}{
		{"inside", geom.Rect{X: 10, Y: 10, Width: 100, Height: 100}, geom.Rect{X: 10, Y: 10, Width: 100, Height: 100}},
		{"negative origin", geom.Rect{X: -50, Y: -50, Width: 100, Height: 100}, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100}},
		{"past right edge", geom.Rect{X: 5000, Y: 10, Width: 100, Height: 100}, geom.Rect{X: 1816, Y: 10, Width: 100, Height: 100}},
		{"overhanging corner", geom.Rect{X: 1900, Y: 1000, Width: 100, Height: 100}, geom.Rect{X: 1816, Y: 976, Width: 100, Height: 100}},
		{"too wide", geom.Rect{X: 10, Y: 10, Width: 3000, Height: 50}, geom.Rect{X: 0, Y: 10, Width: 1916, Height: 50}},
		{"too tall", geom.Rect{X: 10, Y: 10, Width: 50, Height: 3000}, geom.Rect{X: 10, Y: 0, Width: 50, Height: 1076}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w.Geom = tt.in
			e.fitOnScreen(w)
			if w.Geom != tt.want {
				t.Fatalf("fitOnScreen(%v) = %v, want %v", tt.in, w.Geom, tt.want)
			}
			g := w.Geom
			if g.X < 0 || g.Y < 0 || g.X+g.Width+4 > 1920 || g.Y+g.Height+4 > 1080 {
				t.Fatalf("bordered box %v leaves the monitor", g)
			}
		})
	}
}

func TestFitOnScreenFullSizeMaximizes(t *testing.T) {
	e, fb := newTestEngine(t)
	w := addWindow(t, e, fb, 1, geom.Rect{X: 10, Y: 10, Width: 100, Height: 100})

	w.Geom = geom.Rect{X: 0, Y: 0, Width: 1920, Height: 1080}
	e.fitOnScreen(w)

	if !w.HMaxed || !w.VMaxed {
		t.Fatalf("full-size window should be maximized")
	}
	if want := (geom.Rect{X: 0, Y: 0, Width: 1916, Height: 1076}); w.Geom != want {
		t.Fatalf("geometry = %v, want %v", w.Geom, want)
	}
}

func TestMapRequestCentersOnPointer(t *testing.T) {
	e, fb := newTestEngine(t)
	fb.pointer = geom.Point{X: 800, Y: 600}
	fb.infos[5] = platform.WindowInfo{Type: platform.TypeNormal, Geom: geom.Rect{Width: 200, Height: 100}}

	e.Handle(platform.MapRequest{Window: 5})

	w, _ := e.findAny(5)
	if w == nil {
		t.Fatalf("window not managed")
	}
	if want := (geom.Rect{X: 700, Y: 550, Width: 200, Height: 100}); w.Geom != want {
		t.Fatalf("geometry = %v, want %v", w.Geom, want)
	}
	if !w.Monitor.Valid || w.Monitor.ID != 1 {
		t.Fatalf("monitor = %+v, want output 1", w.Monitor)
	}
	if w.Mapped {
		t.Fatalf("window should not be marked mapped before MapNotify")
	}

	e.Handle(platform.MapNotify{Window: 5})
	if !w.Mapped || fb.focus != 5 {
		t.Fatalf("mapped window should be focused")
	}
}

func TestOnboardSpecialTypes(t *testing.T) {
	e, fb := newTestEngine(t)
	fb.infos[20] = platform.WindowInfo{Type: platform.TypeDock, Typed: true, Geom: geom.Rect{Width: 1920, Height: 30}}
	fb.infos[21] = platform.WindowInfo{Type: platform.TypeNotification, Typed: true}
	fb.infos[22] = platform.WindowInfo{Type: platform.TypeDesktop, Typed: true}

	for _, id := range []platform.WindowID{20, 21, 22} {
		e.Handle(platform.MapRequest{Window: id})
		if w, _ := e.findAny(id); w != nil {
			t.Fatalf("window %d should not be managed", id)
		}
	}
	if len(e.bars) != 1 || e.bars[0] != 20 {
		t.Fatalf("bars = %v, want [20]", e.bars)
	}
	if len(e.onTop) != 1 || e.onTop[0] != 21 {
		t.Fatalf("onTop = %v, want [21]", e.onTop)
	}

	e.Handle(platform.DestroyNotify{Window: 20})
	if len(e.bars) != 0 {
		t.Fatalf("destroyed bar still registered")
	}
}

func TestConfigureNotifyPicksUpTypedWindows(t *testing.T) {
	e, fb := newTestEngine(t)
	fb.infos[30] = platform.WindowInfo{Type: platform.TypeDock, Typed: true}
	fb.infos[31] = platform.WindowInfo{Type: platform.TypeNormal}

	e.Handle(platform.ConfigureNotify{Window: 30})
	e.Handle(platform.ConfigureNotify{Window: 31})

	if len(e.bars) != 1 || e.bars[0] != 30 {
		t.Fatalf("bars = %v, want [30]", e.bars)
	}
	if w, _ := e.findAny(31); w != nil {
		t.Fatalf("untyped window managed from a configure notify")
	}
}

func TestConfigureRequest(t *testing.T) {
	e, fb := newTestEngine(t)
	w := addWindow(t, e, fb, 1, geom.Rect{X: 100, Y: 100, Width: 300, Height: 200})

	e.Handle(platform.ConfigureRequest{
		Window: 1,
		Mask:   platform.ConfigX | platform.ConfigWidth,
		Geom:   geom.Rect{X: 50, Y: 999, Width: 400, Height: 999},
	})
	if want := (geom.Rect{X: 50, Y: 100, Width: 400, Height: 200}); w.Geom != want {
		t.Fatalf("geometry = %v, want %v", w.Geom, want)
	}

	mustRun(t, e, "window_hor_maximize")
	e.Handle(platform.ConfigureRequest{
		Window: 1,
		Mask:   platform.ConfigX | platform.ConfigWidth,
		Geom:   geom.Rect{X: 10, Width: 10},
	})
	if w.Geom.X != 0 || w.Geom.Width != 1916 {
		t.Fatalf("horizontally maximized window moved to %v", w.Geom)
	}
}

func TestStateMessageFullscreen(t *testing.T) {
	e, fb := newTestEngine(t)
	orig := geom.Rect{X: 100, Y: 100, Width: 300, Height: 200}
	w := addWindow(t, e, fb, 1, orig)

	e.Handle(platform.StateMessage{
		Window: 1,
		Action: platform.StateAdd,
		States: []platform.WindowState{platform.StateFullscreen},
	})
	if !w.Fullscreen || w.Geom != primary.Bounds || w.BorderWidth != 0 {
		t.Fatalf("fullscreen state = %v %v border %d", w.Fullscreen, w.Geom, w.BorderWidth)
	}

	e.Handle(platform.StateMessage{
		Window: 1,
		Action: platform.StateToggle,
		States: []platform.WindowState{platform.StateFullscreen},
	})
	if w.Fullscreen || w.Geom != orig {
		t.Fatalf("after toggle: fullscreen=%v geometry=%v, want %v", w.Fullscreen, w.Geom, orig)
	}
}

func TestUnmapRefocuses(t *testing.T) {
	e, fb := newTestEngine(t)
	addWindow(t, e, fb, 1, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	c := addWindow(t, e, fb, 2, geom.Rect{X: 200, Y: 0, Width: 100, Height: 100})

	e.Handle(platform.UnmapNotify{Window: 2})

	if c.Mapped || c.ShouldMap {
		t.Fatalf("client unmap should clear mapped and should-map")
	}
	if fb.focus != 1 {
		t.Fatalf("focus = %d, want 1", fb.focus)
	}
	if len(fb.clients) != 1 || fb.clients[0] != 1 {
		t.Fatalf("client list = %v, want [1]", fb.clients)
	}
}

func TestWorkspaceSwitchKeepsShouldMap(t *testing.T) {
	e, fb := newTestEngine(t)
	w := addWindow(t, e, fb, 1, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100})

	mustRun(t, e, "workspace_goto", "2")
	// The unmap the engine issued itself comes back as an event.
	e.Handle(platform.UnmapNotify{Window: 1})
	if !w.ShouldMap {
		t.Fatalf("engine-initiated unmap cleared should-map")
	}

	mustRun(t, e, "workspace_goto", "1")
	e.Handle(platform.MapNotify{Window: 1})
	if !w.Mapped || e.focused() != w {
		t.Fatalf("window not restored on return to its workspace")
	}
}

func TestDestroyRemovesFromAnyWorkspace(t *testing.T) {
	e, fb := newTestEngine(t)
	addWindow(t, e, fb, 1, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	mustRun(t, e, "workspace_add_window", "2")

	e.Handle(platform.DestroyNotify{Window: 1})
	if w, _ := e.findAny(1); w != nil {
		t.Fatalf("destroyed window still tracked")
	}
}

func TestMonitorRemovalReassignsWindows(t *testing.T) {
	second := platform.Display{ID: 2, Name: "HDMI-1", Bounds: geom.Rect{X: 1920, Width: 1280, Height: 1024}}
	e, fb := newTestEngine(t, primary, second)
	w := addWindow(t, e, fb, 1, geom.Rect{X: 2000, Y: 100, Width: 300, Height: 200})

	if w.Monitor.ID != 2 {
		t.Fatalf("monitor = %+v, want output 2", w.Monitor)
	}

	fb.displays = []platform.Display{primary}
	e.Handle(platform.ScreenChange{})

	if len(e.monitors) != 1 {
		t.Fatalf("monitors = %v, want one", e.monitors)
	}
	if !w.Monitor.Valid || w.Monitor.ID != 1 {
		t.Fatalf("window monitor = %+v, want output 1", w.Monitor)
	}
	if w.Geom.X != 1920-300-4 {
		t.Fatalf("x = %d, want %d", w.Geom.X, 1920-300-4)
	}
}

func TestMonitorRelayout(t *testing.T) {
	second := platform.Display{ID: 2, Name: "HDMI-1", Bounds: geom.Rect{X: 1920, Width: 1280, Height: 1024}}

	tests := []struct {
		name    string
		before  []platform.Display
		after   []platform.Display
		win     geom.Rect
		wantIDs []uint32
		wantMon uint32
		wantX   int
		wantY   int
	}{
		{
			name:   "swapped outputs keep the left window",
			before: []platform.Display{primary, second},
			after: []platform.Display{
				{ID: 1, Name: "DP-1", Bounds: geom.Rect{X: 1280, Width: 1920, Height: 1080}},
				{ID: 2, Name: "HDMI-1", Bounds: geom.Rect{Width: 1280, Height: 1024}},
			},
			win:     geom.Rect{X: 100, Y: 100, Width: 300, Height: 200},
			wantIDs: []uint32{1, 2},
			wantMon: 1,
			wantX:   1280,
			wantY:   100,
		},
		{
			name:   "swapped outputs keep the right window",
			before: []platform.Display{primary, second},
			after: []platform.Display{
				{ID: 1, Name: "DP-1", Bounds: geom.Rect{X: 1280, Width: 1920, Height: 1080}},
				{ID: 2, Name: "HDMI-1", Bounds: geom.Rect{Width: 1280, Height: 1024}},
			},
			win:     geom.Rect{X: 2000, Y: 100, Width: 300, Height: 200},
			wantIDs: []uint32{1, 2},
			wantMon: 2,
			wantX:   1280 - 300 - 4,
			wantY:   100,
		},
		{
			name:   "moved output",
			before: []platform.Display{primary, second},
			after: []platform.Display{
				primary,
				{ID: 2, Name: "HDMI-1", Bounds: geom.Rect{Y: 1080, Width: 1280, Height: 1024}},
			},
			win:     geom.Rect{X: 2000, Y: 100, Width: 300, Height: 200},
			wantIDs: []uint32{1, 2},
			wantMon: 2,
			wantX:   1280 - 300 - 4,
			wantY:   1080,
		},
		{
			name:    "output replaced at the same origin",
			before:  []platform.Display{primary},
			after:   []platform.Display{{ID: 2, Name: "HDMI-1", Bounds: geom.Rect{Width: 1280, Height: 1024}}},
			win:     geom.Rect{X: 100, Y: 100, Width: 300, Height: 200},
			wantIDs: []uint32{2},
			wantMon: 2,
			wantX:   100,
			wantY:   100,
		},
		{
			name:   "clone added in the same refresh",
			before: []platform.Display{primary, second},
			after: []platform.Display{
				primary,
				second,
				{ID: 3, Name: "eDP-1", Bounds: geom.Rect{X: 1920, Width: 1280, Height: 720}},
			},
			win:     geom.Rect{X: 2000, Y: 100, Width: 300, Height: 200},
			wantIDs: []uint32{1, 2},
			wantMon: 2,
			wantX:   2000,
			wantY:   100,
		},
		{
			name:   "new clone listed before the known output",
			before: []platform.Display{primary, second},
			after: []platform.Display{
				{ID: 3, Name: "eDP-1", Bounds: geom.Rect{X: 1920, Width: 1280, Height: 720}},
				primary,
				second,
			},
			win:     geom.Rect{X: 2000, Y: 100, Width: 300, Height: 200},
			wantIDs: []uint32{1, 2},
			wantMon: 2,
			wantX:   2000,
			wantY:   100,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, fb := newTestEngine(t, tt.before...)
			w := addWindow(t, e, fb, 1, tt.win)

			fb.displays = tt.after
			e.Handle(platform.ScreenChange{})

			if len(e.monitors) != len(tt.wantIDs) {
				t.Fatalf("monitors = %v, want ids %v", e.monitors, tt.wantIDs)
			}
			for _, id := range tt.wantIDs {
				m, ok := e.monitor(MonitorRef{ID: id, Valid: true})
				if !ok {
					t.Fatalf("monitor %d dropped: %v", id, e.monitors)
				}
				for _, d := range tt.after {
					if d.ID == id && m.Geom != d.Bounds {
						t.Errorf("monitor %d geometry = %v, want %v", id, m.Geom, d.Bounds)
					}
				}
			}
			if !w.Monitor.Valid || w.Monitor.ID != tt.wantMon {
				t.Fatalf("window monitor = %+v, want output %d", w.Monitor, tt.wantMon)
			}
			if w.Geom.X != tt.wantX || w.Geom.Y != tt.wantY {
				t.Fatalf("window at %d,%d, want %d,%d", w.Geom.X, w.Geom.Y, tt.wantX, tt.wantY)
			}
		})
	}
}

func TestMonitorRemovalLogsWindowsPerOutput(t *testing.T) {
	second := platform.Display{ID: 2, Name: "HDMI-1", Bounds: geom.Rect{X: 1920, Width: 1280, Height: 1024}}
	third := platform.Display{ID: 3, Name: "HDMI-2", Bounds: geom.Rect{X: 3200, Width: 1280, Height: 1024}}
	e, fb := newTestEngine(t, primary, second, third)
	addWindow(t, e, fb, 1, geom.Rect{X: 2000, Y: 100, Width: 300, Height: 200})
	addWindow(t, e, fb, 2, geom.Rect{X: 3300, Y: 100, Width: 300, Height: 200})

	var buf bytes.Buffer
	e.logger = slog.New(slog.NewTextHandler(&buf, nil))
	fb.displays = []platform.Display{primary}
	e.Handle(platform.ScreenChange{})

	out := buf.String()
	for _, want := range []string{"output=HDMI-1 windows=1", "output=HDMI-2 windows=1"} {
		if !strings.Contains(out, want) {
			t.Errorf("log %q missing %q", out, want)
		}
	}
}

func TestRootResizeWithoutMonitors(t *testing.T) {
	fb := newFakeBackend()
	e := New(fb, testSettings(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	w := addWindow(t, e, fb, 1, geom.Rect{X: 2000, Y: 100, Width: 300, Height: 200})
	if w.Geom.X != 1920-300-4 {
		t.Fatalf("x = %d, want %d", w.Geom.X, 1920-300-4)
	}

	e.Handle(platform.ConfigureNotify{Root: true, Geom: geom.Rect{Width: 2560, Height: 1440}})

	c := addWindow(t, e, fb, 2, geom.Rect{X: 2200, Y: 1100, Width: 300, Height: 200})
	if c.Geom.X != 2200 || c.Geom.Y != 1100 {
		t.Fatalf("window at %d,%d after root grew to 2560x1440, want 2200,1100", c.Geom.X, c.Geom.Y)
	}
}

func TestWorkspaceSwitchKeepsUnmapMarkerOfHiddenWindow(t *testing.T) {
	e, fb := newTestEngine(t)
	w := addWindow(t, e, fb, 1, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100})

	mustRun(t, e, "workspace_goto", "2")
	e.Handle(platform.UnmapNotify{Window: 1})

	// Already unmapped: no UnmapNotify follows this switch.
	mustRun(t, e, "workspace_goto", "3")
	if !w.UserSetUnmap {
		t.Fatalf("switching away from a hidden window cleared its unmap marker")
	}

	mustRun(t, e, "workspace_goto", "1")
	e.Handle(platform.MapNotify{Window: 1})
	if !w.Mapped || !w.ShouldMap {
		t.Fatalf("window not restored: mapped=%v should-map=%v", w.Mapped, w.ShouldMap)
	}

	// The client withdraws the window itself.
	e.Handle(platform.UnmapNotify{Window: 1})
	if w.ShouldMap {
		t.Fatalf("client unmap after workspace round trip kept should-map")
	}
}

func TestClonedOutputsIgnored(t *testing.T) {
	clone := platform.Display{ID: 9, Name: "eDP-1", Bounds: geom.Rect{Width: 1280, Height: 720}}
	e, _ := newTestEngine(t, primary, clone)
	if len(e.monitors) != 1 || e.monitors[0].ID != 1 {
		t.Fatalf("monitors = %v, want only output 1", e.monitors)
	}
}

func TestCommandMessage(t *testing.T) {
	e, fb := newTestEngine(t)
	w := addWindow(t, e, fb, 1, geom.Rect{X: 100, Y: 100, Width: 300, Height: 200})

	call, err := command.Parse("window_move", []string{"-10", "25"})
	if err != nil {
		t.Fatal(err)
	}
	words, err := command.Encode(call)
	if err != nil {
		t.Fatal(err)
	}
	e.Handle(platform.CommandMessage{Words: words})

	if w.Geom.X != 90 || w.Geom.Y != 125 {
		t.Fatalf("geometry = %v, want origin 90,125", w.Geom)
	}

	// Garbage is logged and dropped.
	e.Handle(platform.CommandMessage{Words: []uint32{999}})
}

func TestSloppyFocus(t *testing.T) {
	e, fb := newTestEngine(t)
	a := addWindow(t, e, fb, 1, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	addWindow(t, e, fb, 2, geom.Rect{X: 200, Y: 0, Width: 100, Height: 100})

	raised := len(fb.raised)
	e.Handle(platform.EnterNotify{Window: 1})
	if e.focused() != a {
		t.Fatalf("enter should focus window 1")
	}
	if len(fb.raised) != raised {
		t.Fatalf("sloppy focus should not raise")
	}

	mustRun(t, e, "wm_config", "enable_sloppy_focus", "false")
	e.Handle(platform.EnterNotify{Window: 2})
	if e.focused() != a {
		t.Fatalf("enter focused a window with sloppy focus off")
	}
}

func TestFocusOutAdoptsServerFocus(t *testing.T) {
	e, fb := newTestEngine(t)
	a := addWindow(t, e, fb, 1, geom.Rect{X: 0, Y: 0, Width: 100, Height: 100})
	addWindow(t, e, fb, 2, geom.Rect{X: 200, Y: 0, Width: 100, Height: 100})

	fb.focus = 1
	e.Handle(platform.FocusOut{Window: 2})
	if e.focused() != a {
		t.Fatalf("focused = %d, want 1", e.focused().ID)
	}
}
