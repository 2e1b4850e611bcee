package mcp

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/1broseidon/placewm/internal/command"
)

func (s *Server) handleRunCommand(_ context.Context, _ *mcpsdk.CallToolRequest, args RunCommandInput) (*mcpsdk.CallToolResult, RunCommandOutput, error) {
	name := strings.TrimSpace(args.Command)
	if name == "" {
		return nil, RunCommandOutput{}, fmt.Errorf("command is required")
	}
	call, err := command.Parse(name, args.Args)
	if err != nil {
		return nil, RunCommandOutput{}, err
	}
	name, tokens, err := command.Format(call)
	if err != nil {
		return nil, RunCommandOutput{}, err
	}

	out, err := s.sender.Send(name, tokens...)
	if err != nil {
		return nil, RunCommandOutput{}, fmt.Errorf("%s: %w", name, err)
	}
	return nil, RunCommandOutput{
		Command: strings.Join(append([]string{name}, tokens...), " "),
		Output:  out,
	}, nil
}

func (s *Server) handleListCommands(_ context.Context, _ *mcpsdk.CallToolRequest, args ListCommandsInput) (*mcpsdk.CallToolResult, ListCommandsOutput, error) {
	filter := strings.TrimSpace(args.Filter)
	out := ListCommandsOutput{
		Commands:      []CommandInfo{},
		ConfigKeys:    []CommandInfo{},
		WinConfigKeys: []CommandInfo{},
	}

	for _, c := range command.Commands() {
		if filter != "" && !strings.Contains(c.String(), filter) {
			continue
		}
		out.Commands = append(out.Commands, CommandInfo{Name: c.String(), Usage: command.Usage(c)})
	}
	for _, k := range command.ConfigKeys() {
		out.ConfigKeys = append(out.ConfigKeys, CommandInfo{
			Name:  k.String(),
			Usage: keyUsage(command.WMConfig.String()+" "+k.String(), k.Args()),
		})
	}
	for _, k := range command.WinConfigKeys() {
		out.WinConfigKeys = append(out.WinConfigKeys, CommandInfo{
			Name:  k.String(),
			Usage: keyUsage(command.WinConfig.String()+" "+k.String()+" <window>", k.Args()),
		})
	}
	return nil, out, nil
}

func (s *Server) handleGetFocused(_ context.Context, _ *mcpsdk.CallToolRequest, _ GetFocusedInput) (*mcpsdk.CallToolResult, GetFocusedOutput, error) {
	out, err := s.sender.Send(command.GetFocused.String())
	if err != nil {
		return nil, GetFocusedOutput{}, err
	}
	out = strings.TrimSpace(out)
	if out == "" {
		return nil, GetFocusedOutput{}, nil
	}
	id, err := strconv.ParseUint(out, 10, 32)
	if err != nil {
		return nil, GetFocusedOutput{}, fmt.Errorf("unexpected get_focused output %q", out)
	}
	return nil, GetFocusedOutput{Focused: true, Window: uint32(id)}, nil
}

func keyUsage(prefix string, kinds []command.Kind) string {
	for _, k := range kinds {
		prefix += " <" + k.String() + ">"
	}
	return prefix
}
