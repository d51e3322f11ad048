//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// setSysProcAttr detaches the child into its own process group so signals
// aimed at the supervisor never reach it.
func setSysProcAttr(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
