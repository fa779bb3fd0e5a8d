//go:build windows

package vice

import (
	"os/exec"

	"golang.org/x/sys/windows"
)

// setProcessGroup puts the emulator in its own process group (a new
// console process group on Windows) so killProcessGroup can reach
// every process it spawned, not just the immediate child.
func setProcessGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &windows.SysProcAttr{CreationFlags: windows.CREATE_NEW_PROCESS_GROUP}
}

// killProcessGroup terminates the emulator's process tree; Windows has
// no SIGTERM, so this is a hard TerminateProcess rather than the
// graceful shutdown the Unix path attempts.
func killProcessGroup(cmd *exec.Cmd) {
	if cmd.Process == nil {
		return
	}
	_ = cmd.Process.Kill()
}
