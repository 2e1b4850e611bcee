// Package ipc carries remote commands to the window manager over named
// pipes. A request is one line written to the shared request pipe; the
// reply goes back through a per-client response pipe.
package ipc

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxRequestSize is PIPE_BUF on Linux. Writes up to this size are atomic,
// so concurrent clients never interleave on the request pipe.
const MaxRequestSize = 4096

// QuitLine makes the server stop reading.
const QuitLine = "QUIT"

// ErrorPrefix marks a failed request in the response.
const ErrorPrefix = "Error: "

// ErrRequestTooLong is returned by the client for a request that does not fit
// in one atomic pipe write.
var ErrRequestTooLong = errors.New("request exceeds PIPE_BUF")

// Request is one line read from the request pipe: <pid>:<cmd>\t<arg>\t...
type Request struct {
	PID     int
	Command string
	Args    []string
}

// ParseRequest parses a request line. Empty trailing fields are dropped.
func ParseRequest(line string) (Request, error) {
	line = strings.TrimRight(line, "\n")

	pidField, rest, ok := strings.Cut(line, ":")
	if !ok {
		return Request{}, fmt.Errorf("malformed request %q: missing pid", line)
	}
	pid, err := strconv.Atoi(pidField)
	if err != nil || pid <= 0 {
		return Request{}, fmt.Errorf("malformed request %q: bad pid", line)
	}

	fields := strings.Split(rest, "\t")
	for len(fields) > 0 && fields[len(fields)-1] == "" {
		fields = fields[:len(fields)-1]
	}
	if len(fields) == 0 {
		return Request{PID: pid}, fmt.Errorf("malformed request %q: missing command", line)
	}
	return Request{PID: pid, Command: fields[0], Args: fields[1:]}, nil
}

// Marshal renders the request line, including the trailing newline.
func (r Request) Marshal() string {
	var b strings.Builder
	b.WriteString(strconv.Itoa(r.PID))
	b.WriteByte(':')
	b.WriteString(r.Command)
	for _, a := range r.Args {
		b.WriteByte('\t')
		b.WriteString(a)
	}
	b.WriteByte('\n')
	return b.String()
}

// ResponseError is a failure reported by the window manager.
type ResponseError struct {
	Message string
}

func (e *ResponseError) Error() string {
	return e.Message
}

// formatResponse renders a handler result for the response pipe.
func formatResponse(out string, err error) string {
	if err != nil {
		return ErrorPrefix + err.Error()
	}
	return out
}

// parseResponse splits a response into output or a ResponseError.
func parseResponse(resp string) (string, error) {
	if msg, ok := strings.CutPrefix(resp, ErrorPrefix); ok {
		return "", &ResponseError{Message: strings.TrimRight(msg, "\n")}
	}
	return resp, nil
}
