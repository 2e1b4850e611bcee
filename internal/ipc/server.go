package ipc

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/1broseidon/placewm/internal/command"
	"github.com/1broseidon/placewm/internal/runtimepath"
	"golang.org/x/sys/unix"
)

// Executor runs a parsed command and returns its output.
type Executor interface {
	Execute(call command.Call) (string, error)
}

// Server reads requests from the request pipe and runs them one at a time.
type Server struct {
	path     string
	executor Executor

	// replyTimeout bounds how long a reply waits for the client to open its
	// response pipe.
	replyTimeout time.Duration

	file *os.File
	done chan struct{}

	shuttingDown bool
	shutdownMu   sync.Mutex
}

// NewServer creates a server for the request pipe at path.
func NewServer(path string, executor Executor) *Server {
	return &Server{
		path:         path,
		executor:     executor,
		replyTimeout: 2 * time.Second,
	}
}

// Path returns the request pipe path.
func (s *Server) Path() string {
	return s.path
}

// Start creates the request pipe and begins reading it.
func (s *Server) Start() error {
	// Remove a pipe left behind by a previous run
	os.Remove(s.path)

	if err := unix.Mkfifo(s.path, 0600); err != nil {
		return fmt.Errorf("failed to create request pipe: %w", err)
	}

	// Read-write so the pipe never reports EOF between clients.
	f, err := os.OpenFile(s.path, os.O_RDWR, 0)
	if err != nil {
		os.Remove(s.path)
		return fmt.Errorf("failed to open request pipe: %w", err)
	}
	s.file = f
	s.done = make(chan struct{})

	log.Printf("IPC server listening on %s", s.path)

	go s.readLoop()

	return nil
}

func (s *Server) readLoop() {
	defer close(s.done)
	defer func() {
		s.file.Close()
		os.Remove(s.path)
	}()

	reader := bufio.NewReader(s.file)
	for {
		line, err := reader.ReadString('\n')
		if err != nil {
			if err != io.EOF {
				log.Printf("IPC read error: %v", err)
			}
			return
		}
		if line == QuitLine+"\n" {
			return
		}
		s.handleLine(line)
	}
}

// handleLine runs one request and replies when the client made a response
// pipe.
func (s *Server) handleLine(line string) {
	req, err := ParseRequest(line)
	if err != nil {
		log.Printf("IPC: %v", err)
		if req.PID > 0 {
			s.reply(req.PID, formatResponse("", err))
		}
		return
	}

	out, err := s.run(req)
	if err != nil {
		log.Printf("IPC: %s failed: %v", req.Command, err)
	}
	s.reply(req.PID, formatResponse(out, err))
}

func (s *Server) run(req Request) (string, error) {
	call, err := command.Parse(req.Command, req.Args)
	if err != nil {
		return "", err
	}
	return s.executor.Execute(call)
}

func (s *Server) reply(pid int, resp string) {
	path := runtimepath.ResponsePipePath(filepath.Dir(s.path), pid)
	if _, err := os.Stat(path); err != nil {
		return
	}

	// Once opened, the reader holds the pipe and the name can go. A pipe
	// nobody opens belongs to a client that is gone.
	defer os.Remove(path)

	f, err := openWriter(path, s.replyTimeout)
	if err != nil {
		log.Printf("IPC: failed to open response pipe %s: %v", path, err)
		return
	}
	defer f.Close()

	if _, err := io.WriteString(f, resp); err != nil {
		log.Printf("Failed to send response: %v", err)
	}
}

// openWriter opens a pipe for writing without blocking on a reader that
// never shows up.
func openWriter(path string, timeout time.Duration) (*os.File, error) {
	deadline := time.Now().Add(timeout)
	for {
		f, err := os.OpenFile(path, os.O_WRONLY|unix.O_NONBLOCK, 0)
		if err == nil {
			return f, nil
		}
		if !errors.Is(err, unix.ENXIO) || time.Now().After(deadline) {
			return nil, err
		}
		time.Sleep(10 * time.Millisecond)
	}
}

// Stop asks the read loop to exit and waits until the request pipe is gone.
func (s *Server) Stop() {
	s.shutdownMu.Lock()
	if s.shuttingDown || s.file == nil {
		s.shutdownMu.Unlock()
		return
	}
	s.shuttingDown = true
	s.shutdownMu.Unlock()

	if _, err := io.WriteString(s.file, QuitLine+"\n"); err != nil {
		log.Printf("IPC: failed to stop server: %v", err)
		return
	}
	<-s.done
}
