package daemon

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/config"
	"github.com/1broseidon/placewm/internal/platform"
)

type scriptedSource struct {
	events []platform.Event
	err    error
}

func (s *scriptedSource) NextEvent() (platform.Event, error) {
	if len(s.events) == 0 {
		return nil, s.err
	}
	ev := s.events[0]
	s.events = s.events[1:]
	return ev, nil
}

// countingHandler is done after quitAfter events.
type countingHandler struct {
	handled   []platform.Event
	quitAfter int
	code      int
}

func (h *countingHandler) Handle(ev platform.Event) {
	h.handled = append(h.handled, ev)
}

func (h *countingHandler) Done() (bool, int) {
	if h.quitAfter > 0 && len(h.handled) >= h.quitAfter {
		return true, h.code
	}
	return false, 0
}

func TestEventLoop_StopsWhenHandlerDone(t *testing.T) {
	src := &scriptedSource{
		events: []platform.Event{
			platform.MapRequest{Window: 1},
			platform.MapNotify{Window: 1},
			platform.DestroyNotify{Window: 1},
		},
		err: platform.ErrClosed,
	}
	h := &countingHandler{quitAfter: 2, code: 3}

	code, err := EventLoop(src, h)
	if err != nil {
		t.Fatalf("EventLoop() error: %v", err)
	}
	if code != 3 {
		t.Fatalf("EventLoop() code = %d, want 3", code)
	}
	if len(h.handled) != 2 {
		t.Fatalf("handled %d events, want 2", len(h.handled))
	}
	if len(src.events) != 1 {
		t.Fatalf("%d events left unread, want 1", len(src.events))
	}
}

func TestEventLoop_ReturnsSourceError(t *testing.T) {
	src := &scriptedSource{
		events: []platform.Event{platform.ScreenChange{}},
		err:    platform.ErrClosed,
	}
	h := &countingHandler{}

	_, err := EventLoop(src, h)
	if !errors.Is(err, platform.ErrClosed) {
		t.Fatalf("EventLoop() error = %v, want ErrClosed", err)
	}
	if len(h.handled) != 1 {
		t.Fatalf("handled %d events, want 1", len(h.handled))
	}
}

func TestEventLoop_ClosedAfterQuitIsClean(t *testing.T) {
	// The pipe server closes the connection once the engine is done.
	src := &scriptedSource{err: platform.ErrClosed}
	h := &doneOnSecondCheck{code: 5}

	code, err := EventLoop(src, h)
	if err != nil {
		t.Fatalf("EventLoop() error: %v", err)
	}
	if code != 5 {
		t.Fatalf("EventLoop() code = %d, want 5", code)
	}
}

type doneOnSecondCheck struct {
	checks int
	code   int
}

func (h *doneOnSecondCheck) Handle(platform.Event) {}

func (h *doneOnSecondCheck) Done() (bool, int) {
	h.checks++
	if h.checks >= 2 {
		return true, h.code
	}
	return false, 0
}

type recordingExecutor struct {
	calls []command.Call
	fail  command.ConfigKey
}

func (r *recordingExecutor) Execute(call command.Call) (string, error) {
	r.calls = append(r.calls, call)
	if call.ConfigKey() == r.fail {
		return "", errors.New("rejected")
	}
	return "", nil
}

func TestApplySettings_RunsEveryKeyInOrder(t *testing.T) {
	border := 3
	sloppy := false
	cursor := "topleft"
	settings := config.Settings{
		EnableSloppyFocus: &sloppy,
		BorderWidth:       &border,
		CursorPosition:    &cursor,
		BarPadding:        []int{0, 24, 0, 0},
	}

	exec := &recordingExecutor{fail: command.CursorPosition}
	ApplySettings(exec, settings)

	want := []command.ConfigKey{
		command.BorderWidth,
		command.CursorPosition,
		command.EnableSloppyFocus,
		command.BarPadding,
	}
	if len(exec.calls) != len(want) {
		t.Fatalf("executed %d calls, want %d", len(exec.calls), len(want))
	}
	for i, key := range want {
		call := exec.calls[i]
		if call.Command != command.WMConfig || call.ConfigKey() != key {
			t.Errorf("call %d = %v key %v, want wm_config %v", i, call.Command, call.ConfigKey(), key)
		}
	}
	if exec.calls[0].Int(1) != 3 {
		t.Errorf("border_width arg = %d, want 3", exec.calls[0].Int(1))
	}
	if exec.calls[3].Int(2) != 24 {
		t.Errorf("bar_padding top = %d, want 24", exec.calls[3].Int(2))
	}
}

func TestLauncher_RunsExecutable(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "ran")
	script := filepath.Join(dir, "placewmrc")
	body := "#!/bin/sh\necho started > " + out + "\n"
	if err := os.WriteFile(script, []byte(body), 0755); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := &Launcher{}
	if err := l.Launch(script); err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	if !l.Wait(5 * time.Second) {
		t.Fatal("Wait() timed out")
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("script did not run: %v", err)
	}
	if strings.TrimSpace(string(data)) != "started" {
		t.Fatalf("script output = %q", data)
	}
}

func TestLauncher_WaitGivesUpOnLongRunningExecutable(t *testing.T) {
	script := filepath.Join(t.TempDir(), "placewmrc")
	if err := os.WriteFile(script, []byte("#!/bin/sh\nsleep 1\n"), 0755); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := &Launcher{}
	if err := l.Launch(script); err != nil {
		t.Fatalf("Launch() error: %v", err)
	}
	if l.Wait(20 * time.Millisecond) {
		t.Fatal("Wait() = true while the executable is still running")
	}
	if !l.Wait(5 * time.Second) {
		t.Fatal("Wait() timed out after the executable exited")
	}
}

func TestLauncher_RejectsMissingOrNonExecutable(t *testing.T) {
	dir := t.TempDir()
	plain := filepath.Join(dir, "plain")
	if err := os.WriteFile(plain, []byte("#!/bin/sh\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	l := &Launcher{}
	for _, path := range []string{filepath.Join(dir, "missing"), plain, dir} {
		if err := l.Launch(path); err == nil {
			t.Errorf("Launch(%s) expected error", path)
		}
	}
}
