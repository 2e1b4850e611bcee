package daemon

import (
	"fmt"
	"log"
	"os"
	"os/exec"
	"sync"
	"syscall"
	"time"
)

// Launcher runs the configuration executable in its own session and reaps
// it when it exits.
type Launcher struct {
	wg sync.WaitGroup
}

// Launch starts the executable at path. It returns once the process has
// started; the exit status is only logged.
func (l *Launcher) Launch(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("autostart %s: %w", path, err)
	}
	if info.IsDir() || info.Mode().Perm()&0111 == 0 {
		return fmt.Errorf("autostart %s: not an executable file", path)
	}

	cmd := exec.Command(path)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to launch %s: %w", path, err)
	}
	log.Printf("Autostart: launched %s (pid %d)", path, cmd.Process.Pid)

	l.wg.Add(1)
	go func() {
		defer l.wg.Done()
		if err := cmd.Wait(); err != nil {
			log.Printf("Autostart: %s exited: %v", path, err)
		}
	}()
	return nil
}

// Wait blocks until every launched process has exited or timeout passes.
// It reports whether all of them exited.
func (l *Launcher) Wait(timeout time.Duration) bool {
	done := make(chan struct{})
	go func() {
		l.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return true
	case <-time.After(timeout):
		return false
	}
}
