// Package daemon wires the window manager process together: display
// connection, engine, command pipe, autostart and signals.
package daemon

import (
	"errors"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/config"
	"github.com/1broseidon/placewm/internal/ipc"
	"github.com/1broseidon/placewm/internal/platform"
	"github.com/1broseidon/placewm/internal/runtimepath"
	"github.com/1broseidon/placewm/internal/wm"
)

// autostartGrace is how long exit waits to reap the configuration executable.
const autostartGrace = time.Second

// Options are the daemon command-line settings.
type Options struct {
	// ConfigPath overrides the bootstrap YAML location.
	ConfigPath string
	// Autostart overrides the configuration executable path.
	Autostart string
	Verbose   bool
}

// EventSource yields display-server events.
type EventSource interface {
	NextEvent() (platform.Event, error)
}

// Handler consumes display-server events until it reports it is done.
type Handler interface {
	Handle(ev platform.Event)
	Done() (bool, int)
}

// Run starts the window manager and blocks until it quits. It returns the
// process exit code.
func Run(opts Options) int {
	cfg, err := loadConfig(opts.ConfigPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	level := cfg.SlogLevel()
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	backend, err := platform.NewLinuxBackendFromDisplay()
	if err != nil {
		log.Fatalf("Failed to connect to display: %v", err)
	}
	var disconnect sync.Once
	stop := func() { disconnect.Do(backend.Disconnect) }
	defer stop()

	settings := wm.DefaultSettings()
	settings.Workspaces = cfg.Settings.Workspaces(settings.Workspaces)
	engine := wm.New(backend, settings, logger)
	if err := engine.Start(); err != nil {
		log.Fatalf("Failed to start window manager: %v", err)
	}
	ApplySettings(engine, cfg.Settings)

	pipeDir, err := runtimepath.PipeDir(cfg.PipeDir)
	if err != nil {
		log.Fatalf("Failed to resolve pipe directory: %v", err)
	}
	pipePath, err := runtimepath.RequestPipePath(pipeDir)
	if err != nil {
		log.Fatalf("Failed to resolve request pipe: %v", err)
	}
	ipcServer := ipc.NewServer(pipePath, &wakingExecutor{engine: engine, wake: stop})
	if err := ipcServer.Start(); err != nil {
		log.Fatalf("Failed to start IPC server: %v", err)
	}
	defer ipcServer.Stop()

	autostart, err := cfg.AutostartPath(opts.Autostart)
	if err != nil {
		log.Printf("Warning: %v", err)
	}
	launcher := &Launcher{}
	if autostart != "" {
		if err := launcher.Launch(autostart); err != nil {
			log.Printf("Warning: %v", err)
		}
	}

	var shuttingDown bool
	var shutdownMu sync.Mutex

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigCh)

	go func() {
		for sig := range sigCh {
			switch sig {
			case syscall.SIGHUP:
				log.Println("Received SIGHUP, rerunning autostart...")
				if autostart == "" {
					continue
				}
				if err := launcher.Launch(autostart); err != nil {
					log.Printf("Autostart failed: %v", err)
				}
			case os.Interrupt, syscall.SIGTERM:
				log.Println("Shutting down placewm...")
				shutdownMu.Lock()
				shuttingDown = true
				shutdownMu.Unlock()
				stop()
				return
			}
		}
	}()

	log.Println("Entering event loop...")
	code, err := EventLoop(backend, engine)
	signal.Stop(sigCh)
	if !launcher.Wait(autostartGrace) {
		log.Println("Autostart: configuration executable still running at exit")
	}
	if err != nil {
		shutdownMu.Lock()
		clean := shuttingDown
		shutdownMu.Unlock()
		if !clean || !errors.Is(err, platform.ErrClosed) {
			log.Printf("Event loop stopped: %v", err)
			return 1
		}
	}
	return code
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.LoadFromPath(path)
	}
	return config.Load()
}

// ApplySettings runs the configured settings through wm_config, in
// config-key order. Settings that fail are logged and skipped.
func ApplySettings(exec ipc.Executor, settings config.Settings) {
	for _, args := range settings.Args() {
		call, err := command.Parse(command.WMConfig.String(), args)
		if err == nil {
			_, err = exec.Execute(call)
		}
		if err != nil {
			log.Printf("Warning: setting %s: %v", args[0], err)
		}
	}
}

// EventLoop feeds events to h until h reports it is done or the source
// fails. Closing the source after h is done is a normal exit.
func EventLoop(src EventSource, h Handler) (int, error) {
	for {
		if done, code := h.Done(); done {
			return code, nil
		}
		ev, err := src.NextEvent()
		if err != nil {
			if done, code := h.Done(); done {
				return code, nil
			}
			return 0, err
		}
		h.Handle(ev)
	}
}

// wakingExecutor runs pipe commands on the engine and unblocks the event
// loop once a command has made the engine done.
type wakingExecutor struct {
	engine *wm.Engine
	wake   func()
}

func (w *wakingExecutor) Execute(call command.Call) (string, error) {
	out, err := w.engine.Execute(call)
	if done, _ := w.engine.Done(); done {
		w.wake()
	}
	return out, err
}
