//go:build !windows

package vice

import (
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup puts the emulator in its own process group so
// killProcessGroup can bring down any children it spawns (VICE forks a
// UI helper process on some platforms) along with it.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}

// killProcessGroup sends SIGTERM to the whole process group, giving
// the emulator a chance to tear down its window before the process
// table entry disappears out from under cmd.Wait.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = unix.Kill(-cmd.Process.Pid, unix.SIGTERM)
}
