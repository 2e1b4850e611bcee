package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/ipc"
	"github.com/1broseidon/placewm/internal/platform"
	"github.com/1broseidon/placewm/internal/runtimepath"
)

func runMsg(args []string) int {
	fs := flag.NewFlagSet("msg", flag.ContinueOnError)
	fs.SetOutput(os.Stderr)
	inband := fs.Bool("inband", false, "Send as an X client message instead of through the command pipe (no output)")
	configPath := fs.String("config", "", "Config file path (default: ~/.config/placewm/config.yaml)")
	fs.Usage = func() {
		fmt.Fprintln(os.Stderr, "Usage: placewm msg [--inband] [--config PATH] <command> [args...]")
		fmt.Fprintln(os.Stderr, "")
		fmt.Fprintln(os.Stderr, "Send one command to the window manager on $DISPLAY and print its output.")
		fmt.Fprintln(os.Stderr, "Run 'placewm commands' for the command list.")
		fmt.Fprintln(os.Stderr, "")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "msg requires a command")
		fs.Usage()
		return 2
	}

	name, rest := fs.Arg(0), fs.Args()[1:]
	stderrTTY := term.IsTerminal(int(os.Stderr.Fd()))

	call, err := command.Parse(name, rest)
	if err != nil {
		reportMsgError(os.Stderr, stderrTTY, name, err)
		return 2
	}

	if *inband {
		words, err := command.Encode(call)
		if err == nil {
			err = platform.SendCommand(words)
		}
		if err != nil {
			reportMsgError(os.Stderr, stderrTTY, name, err)
			return 1
		}
		return 0
	}

	cfg, err := loadConfig(*configPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	dir, err := runtimepath.PipeDir(cfg.PipeDir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	path, err := runtimepath.RequestPipePath(dir)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	out, err := ipc.NewClient(path).Send(name, rest...)
	if err != nil {
		reportMsgError(os.Stderr, stderrTTY, name, err)
		return 1
	}
	if out != "" {
		fmt.Fprint(os.Stdout, out)
		if !strings.HasSuffix(out, "\n") {
			fmt.Fprintln(os.Stdout)
		}
	}
	return 0
}

// reportMsgError prints err. On a terminal it adds the command synopsis for
// malformed calls; otherwise the bare message is printed for scripts.
func reportMsgError(w io.Writer, tty bool, name string, err error) {
	msg := err.Error()
	if !tty {
		fmt.Fprintln(w, msg)
		return
	}

	fmt.Fprintf(w, "placewm msg: %s: %s\n", name, msg)
	if errors.Is(err, command.ErrArity) || errors.Is(err, command.ErrBadArgument) {
		if c, lerr := command.Lookup(name); lerr == nil {
			fmt.Fprintf(w, "Usage: placewm msg %s\n", command.Usage(c))
		}
	}
	if errors.Is(err, command.ErrUnknownCommand) {
		fmt.Fprintln(w, "Run 'placewm commands' for the command list.")
	}
}
