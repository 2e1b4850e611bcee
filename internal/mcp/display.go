package mcp

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/1broseidon/placewm/internal/config"
)

var (
	runCommandOutputFn        = runCommandOutput
	readFileFn                = os.ReadFile
	readDirFn                 = os.ReadDir
	detectSessionDisplayFn    = detectSessionDisplay
	detectDisplayFromSocketFn = detectDisplayFromSockets
)

// resolveDisplay picks the X display whose window manager the server talks
// to. MCP clients often start servers without a GUI environment, so after
// $DISPLAY and the config it falls back to the login session and finally to
// the highest-numbered local X socket.
func resolveDisplay(cfg *config.Config) (string, error) {
	if d := strings.TrimSpace(os.Getenv("DISPLAY")); d != "" {
		return d, nil
	}
	if cfg != nil {
		if d := strings.TrimSpace(cfg.Display); d != "" {
			return d, nil
		}
	}
	if d := strings.TrimSpace(detectSessionDisplayFn()); d != "" {
		return d, nil
	}
	if d := detectDisplayFromSocketFn("/tmp/.X11-unix"); d != "" {
		return d, nil
	}
	return "", fmt.Errorf("no X display found; export DISPLAY or set display in config (e.g. display: \":0\")")
}

func runCommandOutput(name string, args ...string) (string, error) {
	out, err := exec.Command(name, args...).Output()
	return string(out), err
}

// detectSessionDisplay asks logind for the display of the caller's first
// graphical session. The session leader's environment wins over the
// Display property, which is only the seat's initial display.
func detectSessionDisplay() string {
	list, err := runCommandOutputFn("loginctl", "list-sessions", "--no-legend")
	if err != nil {
		return ""
	}
	for _, id := range parseLoginctlSessions(list, strconv.Itoa(os.Getuid())) {
		display := sessionProp(id, "Display")
		if display == "" || strings.EqualFold(display, "n/a") {
			continue
		}
		if leader := sessionProp(id, "Leader"); leader != "" && leader != "0" {
			if env, err := procEnviron(leader); err == nil && env["DISPLAY"] != "" {
				return env["DISPLAY"]
			}
		}
		return display
	}
	return ""
}

// parseLoginctlSessions returns the ids of the sessions owned by uid, in
// listing order. Lines are "<session> <uid> <user> <seat> ...".
func parseLoginctlSessions(output string, uid string) []string {
	var ids []string
	for _, line := range strings.Split(output, "\n") {
		f := strings.Fields(line)
		if len(f) >= 2 && f[1] == uid {
			ids = append(ids, f[0])
		}
	}
	return ids
}

func sessionProp(id, prop string) string {
	out, err := runCommandOutputFn("loginctl", "show-session", id, "-p", prop, "--value")
	if err != nil {
		return ""
	}
	return strings.TrimSpace(out)
}

func procEnviron(pid string) (map[string]string, error) {
	data, err := readFileFn(filepath.Join("/proc", pid, "environ"))
	if err != nil {
		return nil, err
	}
	env := make(map[string]string)
	for _, kv := range strings.Split(string(data), "\x00") {
		if k, v, ok := strings.Cut(kv, "="); ok {
			env[k] = strings.TrimSpace(v)
		}
	}
	return env, nil
}

// detectDisplayFromSockets picks the highest-numbered X<n> socket in dir.
func detectDisplayFromSockets(dir string) string {
	entries, err := readDirFn(dir)
	if err != nil {
		return ""
	}
	best := -1
	for _, entry := range entries {
		num, ok := strings.CutPrefix(entry.Name(), "X")
		if !ok {
			continue
		}
		if n, err := strconv.Atoi(num); err == nil && n > best {
			best = n
		}
	}
	if best < 0 {
		return ""
	}
	return ":" + strconv.Itoa(best)
}
