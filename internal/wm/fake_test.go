package wm

import (
	"io"
	"log/slog"
	"testing"

	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

// fakeBackend records the requests the engine makes and replays scripted
// events.
type fakeBackend struct {
	displays []platform.Display
	infos    map[platform.WindowID]platform.WindowInfo

	pointer geom.Point
	child   platform.WindowID
	events  []platform.Event

	configured map[platform.WindowID]geom.Rect
	borders    map[platform.WindowID]int
	mapped     []platform.WindowID
	unmapped   []platform.WindowID
	raised     []platform.WindowID
	closed     []platform.WindowID
	focus      platform.WindowID
	warps      []geom.Point
	grabs      int
	ungrabs    int
	desktops   map[platform.WindowID]int
	current    int
	clients    []platform.WindowID

	pointerGrabbed bool
	pointerUngrabs int
	allowed        int
}

func newFakeBackend(displays ...platform.Display) *fakeBackend {
	return &fakeBackend{
		displays:   displays,
		infos:      make(map[platform.WindowID]platform.WindowInfo),
		configured: make(map[platform.WindowID]geom.Rect),
		borders:    make(map[platform.WindowID]int),
		desktops:   make(map[platform.WindowID]int),
	}
}

func (f *fakeBackend) Displays() ([]platform.Display, error) { return f.displays, nil }

func (f *fakeBackend) ScreenSize() geom.Rect { return geom.Rect{Width: 1920, Height: 1080} }

func (f *fakeBackend) Describe(id platform.WindowID) (platform.WindowInfo, error) {
	info, ok := f.infos[id]
	if !ok {
		return platform.WindowInfo{Type: platform.TypeNormal}, nil
	}
	return info, nil
}

func (f *fakeBackend) Manage(platform.WindowID) error { return nil }

func (f *fakeBackend) Configure(id platform.WindowID, r geom.Rect) error {
	f.configured[id] = r
	return nil
}

func (f *fakeBackend) ConfigurePassthrough(platform.ConfigureRequest) error { return nil }
func (f *fakeBackend) Restack(platform.WindowID, uint8) error               { return nil }
func (f *fakeBackend) Circulate(platform.WindowID, uint8) error             { return nil }

func (f *fakeBackend) Map(id platform.WindowID) error {
	f.mapped = append(f.mapped, id)
	return nil
}

func (f *fakeBackend) Unmap(id platform.WindowID) error {
	f.unmapped = append(f.unmapped, id)
	return nil
}

func (f *fakeBackend) Raise(id platform.WindowID) error {
	f.raised = append(f.raised, id)
	return nil
}

func (f *fakeBackend) SetBorder(id platform.WindowID, width int, _ uint32) error {
	f.borders[id] = width
	return nil
}

func (f *fakeBackend) Focus(id platform.WindowID) error {
	f.focus = id
	return nil
}

func (f *fakeBackend) InputFocus() (platform.WindowID, error) { return f.focus, nil }

func (f *fakeBackend) Close(id platform.WindowID) error {
	f.closed = append(f.closed, id)
	return nil
}

func (f *fakeBackend) SetWindowState(platform.WindowID, bool, bool, bool) error { return nil }

func (f *fakeBackend) SetClientList(ids []platform.WindowID) error {
	f.clients = append([]platform.WindowID(nil), ids...)
	return nil
}

func (f *fakeBackend) SetDesktopCount(int) error { return nil }

func (f *fakeBackend) SetCurrentDesktop(i int) error {
	f.current = i
	return nil
}

func (f *fakeBackend) SetWindowDesktop(id platform.WindowID, i int) error {
	f.desktops[id] = i
	return nil
}

func (f *fakeBackend) GrabButtons(platform.WindowID, platform.ButtonBinding) error {
	f.grabs++
	return nil
}

func (f *fakeBackend) UngrabButtons(platform.WindowID) error {
	f.ungrabs++
	return nil
}

func (f *fakeBackend) LockMask() uint16 { return 0x12 }

func (f *fakeBackend) QueryPointer() (geom.Point, platform.WindowID, error) {
	return f.pointer, f.child, nil
}

func (f *fakeBackend) WarpPointer(_ platform.WindowID, p geom.Point) error {
	f.warps = append(f.warps, p)
	return nil
}

func (f *fakeBackend) GrabPointer() error {
	f.pointerGrabbed = true
	return nil
}

func (f *fakeBackend) UngrabPointer() error {
	f.pointerUngrabs++
	return nil
}

func (f *fakeBackend) AllowEvents(bool, uint32) error {
	f.allowed++
	return nil
}

func (f *fakeBackend) NextEvent() (platform.Event, error) {
	if len(f.events) == 0 {
		return nil, platform.ErrClosed
	}
	ev := f.events[0]
	f.events = f.events[1:]
	return ev, nil
}

func (f *fakeBackend) Flush() {}

var primary = platform.Display{ID: 1, Name: "DP-1", Bounds: geom.Rect{Width: 1920, Height: 1080}}

func testSettings() Settings {
	s := DefaultSettings()
	s.BorderWidth = 2
	s.Workspaces = 3
	return s
}

func newTestEngine(t *testing.T, displays ...platform.Display) (*Engine, *fakeBackend) {
	t.Helper()
	if len(displays) == 0 {
		displays = []platform.Display{primary}
	}
	fb := newFakeBackend(displays...)
	e := New(fb, testSettings(), slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err := e.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	return e, fb
}

// addWindow maps a user-positioned normal window with geometry r and
// returns its model.
func addWindow(t *testing.T, e *Engine, fb *fakeBackend, id platform.WindowID, r geom.Rect) *Window {
	t.Helper()
	fb.infos[id] = platform.WindowInfo{Type: platform.TypeNormal, Geom: r, UserPositioned: true}
	e.Handle(platform.MapRequest{Window: id})
	e.Handle(platform.MapNotify{Window: id})
	w, _ := e.findAny(id)
	if w == nil {
		t.Fatalf("window %d not managed", id)
	}
	return w
}
