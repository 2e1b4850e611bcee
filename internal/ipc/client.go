package ipc

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/1broseidon/placewm/internal/runtimepath"
	"golang.org/x/sys/unix"
)

// Client sends commands to a running window manager.
type Client struct {
	requestPath string
	timeout     time.Duration
}

// NewClient creates a client for the request pipe at requestPath. The
// response pipe is created next to it.
func NewClient(requestPath string) *Client {
	return &Client{
		requestPath: requestPath,
		timeout:     5 * time.Second,
	}
}

// Path returns the request pipe path.
func (c *Client) Path() string {
	return c.requestPath
}

// Send runs a command and returns its output. A failure reported by the
// window manager is a *ResponseError.
func (c *Client) Send(cmd string, args ...string) (string, error) {
	pid := os.Getpid()
	req := Request{PID: pid, Command: cmd, Args: args}
	line := req.Marshal()
	if len(line) > MaxRequestSize {
		return "", fmt.Errorf("%w: %d bytes", ErrRequestTooLong, len(line))
	}

	// The response pipe must exist before the request is sent.
	respPath := runtimepath.ResponsePipePath(filepath.Dir(c.requestPath), pid)
	os.Remove(respPath)
	if err := unix.Mkfifo(respPath, 0600); err != nil {
		return "", fmt.Errorf("failed to create response pipe: %w", err)
	}
	defer os.Remove(respPath)

	if err := c.write(line); err != nil {
		return "", err
	}

	resp, err := c.read(respPath)
	if err != nil {
		return "", err
	}
	return parseResponse(resp)
}

func (c *Client) write(line string) error {
	f, err := os.OpenFile(c.requestPath, os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		if errors.Is(err, unix.ENXIO) || errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to connect to window manager: %w (is the daemon running?)", err)
		}
		return fmt.Errorf("failed to open request pipe: %w", err)
	}
	defer f.Close()

	if _, err := io.WriteString(f, line); err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	return nil
}

func (c *Client) read(path string) (string, error) {
	type opened struct {
		f   *os.File
		err error
	}
	ch := make(chan opened, 1)
	go func() {
		f, err := os.OpenFile(path, os.O_RDONLY, 0)
		ch <- opened{f, err}
	}()

	var f *os.File
	select {
	case o := <-ch:
		if o.err != nil {
			return "", fmt.Errorf("failed to open response pipe: %w", o.err)
		}
		f = o.f
	case <-time.After(c.timeout):
		// Release the pending open.
		if w, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0); err == nil {
			w.Close()
		}
		if o := <-ch; o.f != nil {
			o.f.Close()
		}
		return "", fmt.Errorf("timed out waiting for response")
	}
	defer f.Close()

	f.SetReadDeadline(time.Now().Add(c.timeout))
	data, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}
	return string(data), nil
}
