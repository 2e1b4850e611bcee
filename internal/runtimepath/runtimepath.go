package runtimepath

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// Dir returns the runtime directory used for the command pipes. Priority:
// 1) XDG_RUNTIME_DIR (if set)
// 2) /run/user/<uid> (if present)
// 3) /tmp/placewm-runtime-<uid> (created)
func Dir() (string, error) {
	if runtimeDir := os.Getenv("XDG_RUNTIME_DIR"); runtimeDir != "" {
		return runtimeDir, nil
	}

	uid := os.Getuid()
	runUserDir := fmt.Sprintf("/run/user/%d", uid)
	if info, err := os.Stat(runUserDir); err == nil && info.IsDir() {
		return runUserDir, nil
	}

	tmpDir := fmt.Sprintf("/tmp/placewm-runtime-%d", uid)
	if err := os.MkdirAll(tmpDir, 0700); err != nil {
		return "", fmt.Errorf("failed to create runtime dir: %w", err)
	}
	return tmpDir, nil
}

// PipeDir returns override when set, and Dir otherwise.
func PipeDir(override string) (string, error) {
	if override != "" {
		return override, nil
	}
	return Dir()
}

// ParseDisplay splits an X display name of the form [proto/]host:display[.screen].
func ParseDisplay(name string) (host string, display, screen int, err error) {
	i := strings.LastIndex(name, ":")
	if i < 0 {
		return "", 0, 0, fmt.Errorf("invalid display %q", name)
	}
	host = name[:i]
	if j := strings.LastIndex(host, "/"); j >= 0 {
		host = host[j+1:]
	}

	num := name[i+1:]
	if d, s, ok := strings.Cut(num, "."); ok {
		num = d
		if screen, err = strconv.Atoi(s); err != nil || screen < 0 {
			return "", 0, 0, fmt.Errorf("invalid display %q", name)
		}
	}
	if display, err = strconv.Atoi(num); err != nil || display < 0 {
		return "", 0, 0, fmt.Errorf("invalid display %q", name)
	}
	return host, display, screen, nil
}

// RequestPipePath returns the request pipe for the display named by
// $DISPLAY, inside dir.
func RequestPipePath(dir string) (string, error) {
	name := os.Getenv("DISPLAY")
	if name == "" {
		return "", fmt.Errorf("DISPLAY is not set")
	}
	return DisplayPipePath(dir, name)
}

// DisplayPipePath returns the request pipe for the named display, inside dir.
func DisplayPipePath(dir, displayName string) (string, error) {
	host, display, screen, err := ParseDisplay(displayName)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, fmt.Sprintf("placewm-%s-%d-%d.fifo", host, display, screen)), nil
}

// ResponsePipePath returns the response pipe of the client with pid.
func ResponsePipePath(dir string, pid int) string {
	return filepath.Join(dir, fmt.Sprintf("placewm-response-%d.fifo", pid))
}
