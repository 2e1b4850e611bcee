package mcp

// RunCommandInput is the input for the run_command tool.
type RunCommandInput struct {
	Command string   `json:"command" jsonschema:"required,Command name, e.g. window_move, workspace_goto or wm_config"`
	Args    []string `json:"args,omitempty" jsonschema:"Command arguments as they would be typed on the command line (e.g. [\"10\", \"-20\"] or [\"border_width\", \"3\"])"`
}

// RunCommandOutput is the output for the run_command tool.
type RunCommandOutput struct {
	Command string `json:"command"`
	Output  string `json:"output"`
}

// ListCommandsInput is the input for the list_commands tool.
type ListCommandsInput struct {
	Filter string `json:"filter,omitempty" jsonschema:"Only list commands whose name contains this text"`
}

// CommandInfo describes one command or config key.
type CommandInfo struct {
	Name  string `json:"name"`
	Usage string `json:"usage"`
}

// ListCommandsOutput is the output for the list_commands tool.
type ListCommandsOutput struct {
	Commands      []CommandInfo `json:"commands"`
	ConfigKeys    []CommandInfo `json:"config_keys"`
	WinConfigKeys []CommandInfo `json:"win_config_keys"`
}

// GetFocusedInput is the input for the get_focused tool.
type GetFocusedInput struct{}

// GetFocusedOutput is the output for the get_focused tool.
type GetFocusedOutput struct {
	Focused bool   `json:"focused"`
	Window  uint32 `json:"window,omitempty"`
}
