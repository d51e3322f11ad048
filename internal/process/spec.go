// Package process launches supervised commands fire-and-forget and reports
// the spawned pid.
package process

import (
	"os/exec"
	"strings"

	"github.com/vigil-run/vigil/internal/logger"
)

// Spec describes a command to launch.
type Spec struct {
	Command string        // command line to start (shell-aware)
	WorkDir string        // optional working dir
	Env     []string      // optional extra env (KEY=VALUE)
	Log     logger.Config // stdout/stderr destinations for the child
}

// BuildCommand constructs an *exec.Cmd for the spec's command string. It
// avoids invoking a shell when not necessary, and it respects an explicit
// shell invocation already present in the command string (e.g.
// "sh -c 'echo hi'") without wrapping it in another shell layer.
func (s *Spec) BuildCommand() *exec.Cmd {
	cmdStr := strings.TrimSpace(s.Command)
	if cmdStr == "" {
		// #nosec G204
		return exec.Command("/bin/true")
	}
	if after, ok := parseExplicitShell(cmdStr); ok {
		// Absolute shell path so PATH overrides cannot break the launch.
		// #nosec G204
		return exec.Command("/bin/sh", "-c", after)
	}
	if strings.ContainsAny(cmdStr, "|&;<>*?`$\"'(){}[]~") {
		// #nosec G204
		return exec.Command("/bin/sh", "-c", cmdStr)
	}
	parts := strings.Fields(cmdStr)
	name := parts[0]
	var args []string
	if len(parts) > 1 {
		args = parts[1:]
	}
	// #nosec G204
	return exec.Command(name, args...)
}

// parseExplicitShell detects "sh -c <ARG>" style prefixes and returns the
// argument passed to -c. One pair of wrapping quotes is stripped so the
// actual script reaches the shell.
func parseExplicitShell(cmdStr string) (string, bool) {
	trim := strings.TrimLeft(cmdStr, " \t")
	for _, p := range []string{"sh -c ", "/bin/sh -c ", "/usr/bin/sh -c "} {
		if !strings.HasPrefix(trim, p) {
			continue
		}
		after := trim[len(p):]
		if n := len(after); n >= 2 {
			if (after[0] == '\'' && after[n-1] == '\'') || (after[0] == '"' && after[n-1] == '"') {
				after = after[1 : n-1]
			}
		}
		return after, true
	}
	return "", false
}
