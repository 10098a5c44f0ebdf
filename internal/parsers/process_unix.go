//go:build unix

package parsers

import (
	"errors"
	"os/exec"
	"syscall"
)

// killProcessGroup starts the child in its own process group and makes
// cancellation kill the whole group, so processes spawned by the script
// do not outlive it.
func killProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		err := syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
		if errors.Is(err, syscall.ESRCH) {
			return nil
		}
		return err
	}
}
