package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/config"
	"github.com/1broseidon/placewm/internal/daemon"
)

func main() {
	if len(os.Args) < 2 {
		printMainUsage(os.Stdout)
		os.Exit(0)
	}

	switch os.Args[1] {
	case "daemon":
		os.Exit(runDaemon(os.Args[2:]))
	case "msg":
		os.Exit(runMsg(os.Args[2:]))
	case "commands":
		os.Exit(runCommands(os.Args[2:]))
	case "config":
		os.Exit(runConfig(os.Args[2:]))
	case "mcp":
		os.Exit(runMCP(os.Args[2:]))
	case "help", "-h", "--help":
		printMainUsage(os.Stdout)
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", os.Args[1])
		printMainUsage(os.Stderr)
		os.Exit(2)
	}
}

func printMainUsage(w io.Writer) {
	fmt.Fprintln(w, "Usage: placewm <command> [options]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  daemon              Start the window manager (foreground)")
	fmt.Fprintln(w, "  msg                 Send a command to the running window manager")
	fmt.Fprintln(w, "  commands            List commands and config keys")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  config validate     Validate configuration")
	fmt.Fprintln(w, "  config print        Print configuration")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "  mcp serve           Start MCP server (stdio transport)")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Run 'placewm <command> --help' for command-specific options.")
}

func runDaemon(args []string) int {
	fs := flag.NewFlagSet("daemon", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	autostart := fs.String("c", "", "Configuration executable (default: ~/.config/placewm/placewmrc)")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/placewm/config.yaml)")
	verbose := fs.Bool("v", false, "Log at debug level")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: placewm daemon [-c FILE] [--config PATH] [-v]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Take over window management on $DISPLAY and run until wm_quit.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "daemon takes no arguments")
		fs.Usage()
		return 2
	}

	return daemon.Run(daemon.Options{
		ConfigPath: *configPath,
		Autostart:  *autostart,
		Verbose:    *verbose,
	})
}

func runCommands(args []string) int {
	fs := flag.NewFlagSet("commands", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: placewm commands")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "List every command, wm_config key and win_config key.")
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() != 0 {
		fmt.Fprintln(os.Stderr, "commands takes no arguments")
		fs.Usage()
		return 2
	}

	printCommands(os.Stdout)
	return 0
}

func printCommands(w io.Writer) {
	fmt.Fprintln(w, "Commands:")
	for _, c := range command.Commands() {
		fmt.Fprintf(w, "  %s\n", command.Usage(c))
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "wm_config keys:")
	for _, k := range command.ConfigKeys() {
		fmt.Fprintf(w, "  %s%s\n", k, kindList(k.Args()))
	}
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "win_config keys:")
	for _, k := range command.WinConfigKeys() {
		fmt.Fprintf(w, "  %s <window>%s\n", k, kindList(k.Args()))
	}
}

func kindList(kinds []command.Kind) string {
	var b strings.Builder
	for _, k := range kinds {
		b.WriteString(" <" + k.String() + ">")
	}
	return b.String()
}

func runConfig(args []string) int {
	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		fmt.Fprintln(os.Stderr, "Usage:")
		fmt.Fprintln(os.Stderr, "  placewm config validate [--path PATH]")
		fmt.Fprintln(os.Stderr, "  placewm config print [--path PATH] [--defaults]")
		return 2
	}

	switch args[0] {
	case "validate":
		fs := flag.NewFlagSet("validate", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/placewm/config.yaml)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		if _, err := loadConfig(*path); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Println("config: ok")
		return 0

	case "print":
		fs := flag.NewFlagSet("print", flag.ContinueOnError)
		fs.SetOutput(os.Stderr)
		path := fs.String("path", "", "Config file path (default: ~/.config/placewm/config.yaml)")
		printDefaults := fs.Bool("defaults", false, "Print built-in defaults (no files)")
		if err := fs.Parse(args[1:]); err != nil {
			return 2
		}

		cfg := config.DefaultConfig()
		if !*printDefaults {
			var err error
			if cfg, err = loadConfig(*path); err != nil {
				fmt.Fprintln(os.Stderr, err)
				return 1
			}
		}
		data, err := cfg.Marshal()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		fmt.Print(string(data))
		return 0

	default:
		fmt.Fprintf(os.Stderr, "Unknown config command: %s\n", args[0])
		return 2
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return config.Load()
	}
	return config.LoadFromPath(path)
}
