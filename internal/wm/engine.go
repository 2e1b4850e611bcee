// Package wm is the window-state engine: it keeps the model of windows,
// workspaces and monitors consistent with what the display server reports,
// and applies placement policy and remote commands to it.
//
// All entry points take the engine lock. Event handling and command
// execution run to completion before the next one starts; the interactive
// pointer loop re-dispatches nested events without releasing the lock.
package wm

import (
	"log/slog"
	"sync"

	"github.com/1broseidon/placewm/internal/geom"
	"github.com/1broseidon/placewm/internal/platform"
)

// Engine is the single context object threaded through every handler.
type Engine struct {
	mu sync.Mutex

	backend  platform.Backend
	logger   *slog.Logger
	settings Settings

	workspaces []*Workspace
	current    int
	monitors   []Monitor
	screen     geom.Rect
	bars       []platform.WindowID
	onTop      []platform.WindowID

	shouldClose bool
	halt        bool
	exitCode    int
}

// New creates an engine with settings.Workspaces workspaces. The workspace
// count is fixed for the lifetime of the engine.
func New(backend platform.Backend, settings Settings, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	if settings.Workspaces <= 0 {
		settings.Workspaces = 1
	}
	e := &Engine{
		backend:  backend,
		logger:   logger,
		settings: settings,
	}
	for i := 0; i < settings.Workspaces; i++ {
		e.workspaces = append(e.workspaces, &Workspace{Index: i, BarShown: true})
	}
	return e
}

// Start publishes the initial desktop state and reads the monitor layout.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.backend.SetDesktopCount(len(e.workspaces)); err != nil {
		return err
	}
	e.screen = e.backend.ScreenSize()
	e.refreshMonitors()
	if err := e.backend.SetCurrentDesktop(e.current); err != nil {
		return err
	}
	e.updateClientList()
	e.backend.Flush()
	return nil
}

// Handle dispatches one display-server event.
func (e *Engine) Handle(ev platform.Event) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.handleLocked(ev)
	e.backend.Flush()
}

// Done reports whether the event loop should stop, and the exit code.
// After wm_quit with code 0 the loop keeps running until every window has
// closed.
func (e *Engine) Done() (bool, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.halt {
		return true, e.exitCode
	}
	if e.shouldClose {
		for _, ws := range e.workspaces {
			if len(ws.Windows) > 0 {
				return false, e.exitCode
			}
		}
		return true, e.exitCode
	}
	return false, 0
}

// Settings returns a copy of the current settings.
func (e *Engine) Settings() Settings {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.settings
}

// CurrentWorkspace returns the index of the current workspace.
func (e *Engine) CurrentWorkspace() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.current
}

func (e *Engine) ws() *Workspace {
	return e.workspaces[e.current]
}

// find looks a window up in the current workspace.
func (e *Engine) find(id platform.WindowID) *Window {
	return e.ws().find(id)
}

// findAny looks a window up across every workspace.
func (e *Engine) findAny(id platform.WindowID) (*Window, *Workspace) {
	for _, ws := range e.workspaces {
		if w := ws.find(id); w != nil {
			return w, ws
		}
	}
	return nil, nil
}

func (e *Engine) focused() *Window {
	return e.ws().Focused()
}

func (e *Engine) eachWindow(fn func(*Window)) {
	for _, ws := range e.workspaces {
		for _, w := range ws.Windows {
			fn(w)
		}
	}
}

func removeID(ids []platform.WindowID, id platform.WindowID) []platform.WindowID {
	out := ids[:0]
	for _, v := range ids {
		if v != id {
			out = append(out, v)
		}
	}
	return out
}

// debug logs a failed display request. Requests on windows that vanished
// in the meantime are routine, so none of these are fatal.
func (e *Engine) debug(op string, id platform.WindowID, err error) {
	if err != nil {
		e.logger.Debug("display request failed", "op", op, "window", uint32(id), "error", err)
	}
}
