package vice

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
)

// Run launches binaryPath against prgPath (a PRG file already written
// to disk by the output package) and waits for the emulator to exit.
// Argument validation mirrors the command-injection checks the
// original compiler's secure command executor ran before any exec.Cmd
// was built, narrowed to the one binary and argument shape this driver
// ever invokes.
func Run(ctx context.Context, binaryPath, prgPath string) error {
	if err := validateArgument(prgPath); err != nil {
		return newError(ErrSpawnFailed, "invalid program path %q: %v", prgPath, err)
	}

	cmd := exec.CommandContext(ctx, binaryPath, "-autostart", prgPath)
	cmd.Env = secureEnvironment()
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	setProcessGroup(cmd)

	if err := cmd.Start(); err != nil {
		return newError(ErrSpawnFailed, "starting %q: %v", binaryPath, err)
	}

	done := make(chan error, 1)
	go func() { done <- cmd.Wait() }()

	select {
	case <-ctx.Done():
		killProcessGroup(cmd)
		<-done
		return ctx.Err()
	case err := <-done:
		if err != nil {
			return newError(ErrSpawnFailed, "%q exited: %v", binaryPath, err)
		}
		return nil
	}
}

// validateArgument rejects shell metacharacters and null bytes in a
// path about to become a child process argument; exec.Cmd never goes
// through a shell, but a stray injection pattern in a user-supplied
// output path is still worth refusing outright rather than passing
// through silently.
func validateArgument(arg string) error {
	if len(arg) > 4096 {
		return fmt.Errorf("argument too long")
	}
	if strings.ContainsRune(arg, 0) {
		return fmt.Errorf("null byte in argument")
	}
	for _, pattern := range []string{";", "|", "`", "$(", "&&", "||"} {
		if strings.Contains(arg, pattern) {
			return fmt.Errorf("suspicious pattern %q in argument", pattern)
		}
	}
	return nil
}

// secureEnvironment passes through only the environment variables the
// emulator plausibly needs, rather than the full ambient environment.
func secureEnvironment() []string {
	var env []string
	for _, key := range []string{"PATH", "HOME", "DISPLAY", "XAUTHORITY"} {
		if v := os.Getenv(key); v != "" {
			env = append(env, key+"="+v)
		}
	}
	return env
}
