package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/runtimepath"
)

const (
	appName        = "placewm"
	autostartName  = "placewmrc"
	configFileName = "config.yaml"
)

// Config is the bootstrap configuration read once at daemon start.
type Config struct {
	// Autostart overrides the configuration executable path.
	Autostart string `yaml:"autostart,omitempty"`
	// Display is used by clients started without $DISPLAY.
	Display  string `yaml:"display,omitempty"`
	LogLevel string `yaml:"log_level"`
	// PipeDir overrides the directory holding the command pipes.
	PipeDir  string   `yaml:"pipe_dir,omitempty"`
	Settings Settings `yaml:"settings,omitempty"`
}

// Gaps sets screen-edge gaps per side.
type Gaps struct {
	Left   *int `yaml:"left,omitempty"`
	Bottom *int `yaml:"bottom,omitempty"`
	Top    *int `yaml:"top,omitempty"`
	Right  *int `yaml:"right,omitempty"`
}

// Settings mirrors the wm_config keys. Unset fields keep the built-in
// defaults.
type Settings struct {
	BorderWidth              *int     `yaml:"border_width,omitempty"`
	ColorFocused             *string  `yaml:"color_focused,omitempty"`
	ColorUnfocused           *string  `yaml:"color_unfocused,omitempty"`
	GapWidth                 *Gaps    `yaml:"gap_width,omitempty"`
	GridGapWidth             *int     `yaml:"grid_gap_width,omitempty"`
	CursorPosition           *string  `yaml:"cursor_position,omitempty"`
	WorkspacesNr             *int     `yaml:"workspaces_nr,omitempty"`
	EnableSloppyFocus        *bool    `yaml:"enable_sloppy_focus,omitempty"`
	EnableResizeHints        *bool    `yaml:"enable_resize_hints,omitempty"`
	StickyWindows            *bool    `yaml:"sticky_windows,omitempty"`
	EnableBorders            *bool    `yaml:"enable_borders,omitempty"`
	EnableLastWindowFocusing *bool    `yaml:"enable_last_window_focusing,omitempty"`
	ApplySettings            *bool    `yaml:"apply_settings,omitempty"`
	ReplayClickOnFocus       *bool    `yaml:"replay_click_on_focus,omitempty"`
	PointerActions           []string `yaml:"pointer_actions,omitempty"`
	PointerModifier          *string  `yaml:"pointer_modifier,omitempty"`
	ClickToFocus             *string  `yaml:"click_to_focus,omitempty"`
	BarPadding               []int    `yaml:"bar_padding,omitempty"`
}

// DefaultConfig returns the configuration used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
	}
}

// Validate performs strict validation of the configuration.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warning", "error":
	default:
		return &ValidationError{Path: "log_level", Err: fmt.Errorf("log_level must be one of: debug, info, warning, error")}
	}
	if c.Display != "" {
		if _, _, _, err := runtimepath.ParseDisplay(c.Display); err != nil {
			return &ValidationError{Path: "display", Err: err}
		}
	}
	if ws := c.Settings.WorkspacesNr; ws != nil && *ws <= 0 {
		return &ValidationError{Path: "settings.workspaces_nr", Err: fmt.Errorf("workspaces_nr must be > 0")}
	}
	if n := len(c.Settings.PointerActions); n != 0 && n != 3 {
		return &ValidationError{Path: "settings.pointer_actions", Err: fmt.Errorf("pointer_actions needs one action per button, got %d", n)}
	}
	if n := len(c.Settings.BarPadding); n != 0 && n != 4 {
		return &ValidationError{Path: "settings.bar_padding", Err: fmt.Errorf("bar_padding needs left, top, right and bottom, got %d values", n)}
	}

	for _, args := range c.Settings.Args() {
		if _, err := command.Parse(command.WMConfig.String(), args); err != nil {
			return &ValidationError{Path: "settings." + args[0], Err: err}
		}
	}
	return nil
}

// SlogLevel maps log_level onto a slog level.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// Args renders the settings as wm_config argument lists, key first, in
// config-key order. workspaces_nr is left out: the workspace count is taken
// from Workspaces before the engine starts.
func (s Settings) Args() [][]string {
	var out [][]string
	add := func(key command.ConfigKey, args ...string) {
		out = append(out, append([]string{key.String()}, args...))
	}
	itoa := strconv.Itoa
	btoa := strconv.FormatBool

	if s.BorderWidth != nil {
		add(command.BorderWidth, itoa(*s.BorderWidth))
	}
	if s.ColorFocused != nil {
		add(command.ColorFocused, *s.ColorFocused)
	}
	if s.ColorUnfocused != nil {
		add(command.ColorUnfocused, *s.ColorUnfocused)
	}
	if g := s.GapWidth; g != nil {
		sides := []struct {
			name string
			v    *int
		}{
			{"left", g.Left},
			{"bottom", g.Bottom},
			{"top", g.Top},
			{"right", g.Right},
		}
		for _, side := range sides {
			if side.v != nil {
				add(command.GapWidth, side.name, itoa(*side.v))
			}
		}
	}
	if s.GridGapWidth != nil {
		add(command.GridGapWidth, itoa(*s.GridGapWidth))
	}
	if s.CursorPosition != nil {
		add(command.CursorPosition, *s.CursorPosition)
	}

	bools := []struct {
		key command.ConfigKey
		v   *bool
	}{
		{command.EnableSloppyFocus, s.EnableSloppyFocus},
		{command.EnableResizeHints, s.EnableResizeHints},
		{command.StickyWindows, s.StickyWindows},
		{command.EnableBorders, s.EnableBorders},
		{command.EnableLastWindowFocusing, s.EnableLastWindowFocusing},
		{command.ApplySettings, s.ApplySettings},
		{command.ReplayClickOnFocus, s.ReplayClickOnFocus},
	}
	for _, b := range bools {
		if b.v != nil {
			add(b.key, btoa(*b.v))
		}
	}

	if len(s.PointerActions) > 0 {
		add(command.PointerActions, s.PointerActions...)
	}
	if s.PointerModifier != nil {
		add(command.PointerModifier, *s.PointerModifier)
	}
	if s.ClickToFocus != nil {
		add(command.ClickToFocus, *s.ClickToFocus)
	}
	if len(s.BarPadding) > 0 {
		pad := make([]string, len(s.BarPadding))
		for i, v := range s.BarPadding {
			pad[i] = itoa(v)
		}
		add(command.BarPadding, pad...)
	}
	return out
}

// Workspaces returns the configured workspace count, or def when unset.
func (s Settings) Workspaces(def int) int {
	if s.WorkspacesNr != nil {
		return *s.WorkspacesNr
	}
	return def
}

// configHome returns $XDG_CONFIG_HOME, falling back to ~/.config.
func configHome() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return dir, nil
	}
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(homeDir, ".config"), nil
}

// AutostartPath resolves the configuration executable: the flag value, then
// the autostart key, then <config home>/placewm/placewmrc.
func (c *Config) AutostartPath(flag string) (string, error) {
	if flag != "" {
		return flag, nil
	}
	if c.Autostart != "" {
		return expandHome(c.Autostart)
	}
	dir, err := configHome()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, appName, autostartName), nil
}
