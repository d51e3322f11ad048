package process

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/vigil-run/vigil/internal/detector"
)

// ErrEmptyCommand is returned when a spec has nothing to execute.
var ErrEmptyCommand = errors.New("empty command")

// Start launches the spec's command without waiting for it to exit and
// returns the spawned pid together with its observed start time (Unix
// seconds, 0 when unavailable). name keys the child's log files.
//
// The child is detached into its own process group and released, so it
// survives the supervisor invocation that spawned it.
func Start(spec Spec, name string) (pid int, startedUnix int64, err error) {
	if strings.TrimSpace(spec.Command) == "" {
		return 0, 0, ErrEmptyCommand
	}
	cmd := spec.BuildCommand()
	if spec.WorkDir != "" {
		cmd.Dir = spec.WorkDir
	}
	if len(spec.Env) > 0 {
		cmd.Env = append(os.Environ(), spec.Env...)
	}
	setSysProcAttr(cmd)

	stdout, stderr, err := spec.Log.ChildFiles(name)
	if err != nil {
		return 0, 0, err
	}
	if stdout == nil {
		stdout, _ = os.OpenFile(os.DevNull, os.O_RDWR, 0)
	}
	if stderr == nil {
		stderr, _ = os.OpenFile(os.DevNull, os.O_RDWR, 0)
	}
	cmd.Stdout = stdout
	cmd.Stderr = stderr

	startErr := cmd.Start()
	// The child inherited the descriptors; the parent's copies are closed
	// regardless of the outcome.
	if stdout != nil {
		_ = stdout.Close()
	}
	if stderr != nil {
		_ = stderr.Close()
	}
	if startErr != nil {
		return 0, 0, fmt.Errorf("start %q: %w", spec.Command, startErr)
	}

	pid = cmd.Process.Pid
	startedUnix = detector.ProcStartUnix(pid)
	// Release, never Wait: the supervisor is a short-lived cron tick.
	_ = cmd.Process.Release()
	return pid, startedUnix, nil
}
