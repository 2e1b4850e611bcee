package mcp

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/config"
	"github.com/1broseidon/placewm/internal/ipc"
)

type sentCommand struct {
	name string
	args []string
}

type fakeSender struct {
	sent   []sentCommand
	output string
	err    error
}

func (f *fakeSender) Send(cmd string, args ...string) (string, error) {
	f.sent = append(f.sent, sentCommand{name: cmd, args: args})
	return f.output, f.err
}

func TestHandleRunCommand_SendsCanonicalForm(t *testing.T) {
	sender := &fakeSender{}
	s := NewServer(sender)

	_, out, err := s.handleRunCommand(context.Background(), nil, RunCommandInput{
		Command: "wm_config",
		Args:    []string{"color_focused", "#FF0000"},
	})
	if err != nil {
		t.Fatalf("handleRunCommand() error: %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("sent %d commands, want 1", len(sender.sent))
	}
	got := sender.sent[0]
	if got.name != "wm_config" || strings.Join(got.args, " ") != "color_focused 0xff0000" {
		t.Fatalf("sent %s %v, want wm_config color_focused 0xff0000", got.name, got.args)
	}
	if out.Command != "wm_config color_focused 0xff0000" {
		t.Fatalf("Command = %q", out.Command)
	}
}

func TestHandleRunCommand_RejectsBeforeSending(t *testing.T) {
	tests := []struct {
		name    string
		input   RunCommandInput
		wantErr error
	}{
		{name: "empty", input: RunCommandInput{Command: "  "}},
		{name: "unknown", input: RunCommandInput{Command: "window_fly"}, wantErr: command.ErrUnknownCommand},
		{name: "arity", input: RunCommandInput{Command: "window_move", Args: []string{"10"}}, wantErr: command.ErrArity},
		{name: "argument", input: RunCommandInput{Command: "window_snap", Args: []string{"sideways"}}, wantErr: command.ErrBadArgument},
		{name: "key", input: RunCommandInput{Command: "wm_config", Args: []string{"border_colour", "1"}}, wantErr: command.ErrUnknownKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{}
			s := NewServer(sender)

			_, _, err := s.handleRunCommand(context.Background(), nil, tt.input)
			if err == nil {
				t.Fatal("expected error")
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("error = %v, want %v", err, tt.wantErr)
			}
			if len(sender.sent) != 0 {
				t.Fatalf("sent %v for an invalid call", sender.sent)
			}
		})
	}
}

func TestHandleRunCommand_WrapsSendError(t *testing.T) {
	sender := &fakeSender{err: errors.New("failed to connect to window manager")}
	s := NewServer(sender)

	_, _, err := s.handleRunCommand(context.Background(), nil, RunCommandInput{Command: "wm_quit", Args: []string{"0"}})
	if err == nil || !strings.Contains(err.Error(), "wm_quit: failed to connect") {
		t.Fatalf("error = %v", err)
	}
}

func TestHandleListCommands(t *testing.T) {
	s := NewServer(&fakeSender{})

	_, out, err := s.handleListCommands(context.Background(), nil, ListCommandsInput{})
	if err != nil {
		t.Fatalf("handleListCommands() error: %v", err)
	}
	if len(out.Commands) != len(command.Commands()) {
		t.Fatalf("listed %d commands, want %d", len(out.Commands), len(command.Commands()))
	}
	if len(out.ConfigKeys) != len(command.ConfigKeys()) {
		t.Fatalf("listed %d config keys, want %d", len(out.ConfigKeys), len(command.ConfigKeys()))
	}

	var gap string
	for _, k := range out.ConfigKeys {
		if k.Name == "gap_width" {
			gap = k.Usage
		}
	}
	if gap != "wm_config gap_width <position> <int>" {
		t.Fatalf("gap_width usage = %q", gap)
	}
	if len(out.WinConfigKeys) != 1 || out.WinConfigKeys[0].Usage != "win_config allow_offscreen <window> <bool>" {
		t.Fatalf("win_config keys = %+v", out.WinConfigKeys)
	}

	_, filtered, err := s.handleListCommands(context.Background(), nil, ListCommandsInput{Filter: "workspace_"})
	if err != nil {
		t.Fatalf("handleListCommands() error: %v", err)
	}
	if len(filtered.Commands) != 3 {
		t.Fatalf("filtered commands = %+v, want 3 workspace commands", filtered.Commands)
	}
}

func TestHandleGetFocused(t *testing.T) {
	tests := []struct {
		name    string
		output  string
		want    GetFocusedOutput
		wantErr bool
	}{
		{name: "focused", output: "4194307", want: GetFocusedOutput{Focused: true, Window: 4194307}},
		{name: "none", output: "", want: GetFocusedOutput{}},
		{name: "garbage", output: "window", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sender := &fakeSender{output: tt.output}
			s := NewServer(sender)

			_, got, err := s.handleGetFocused(context.Background(), nil, GetFocusedInput{})
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("handleGetFocused() error: %v", err)
			}
			if got != tt.want {
				t.Fatalf("handleGetFocused() = %+v, want %+v", got, tt.want)
			}
			if sender.sent[0].name != "get_focused" {
				t.Fatalf("sent %q, want get_focused", sender.sent[0].name)
			}
		})
	}
}

func TestNewServerFromConfig_UsesResolvedDisplay(t *testing.T) {
	restore := stubDetectFns(
		func() string { return "" },
		func(string) string { return "" },
	)
	defer restore()

	t.Setenv("DISPLAY", "")
	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.PipeDir = dir
	cfg.Display = ":3"

	s, err := NewServerFromConfig(cfg)
	if err != nil {
		t.Fatalf("NewServerFromConfig() error: %v", err)
	}
	client, ok := s.sender.(*ipc.Client)
	if !ok {
		t.Fatalf("sender = %T, want *ipc.Client", s.sender)
	}
	if want := filepath.Join(dir, "placewm--3-0.fifo"); client.Path() != want {
		t.Fatalf("request pipe = %q, want %q", client.Path(), want)
	}

	cfg.Display = ""
	if _, err := NewServerFromConfig(cfg); err == nil {
		t.Fatal("expected error without any display")
	}
}
