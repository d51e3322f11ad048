package detector

import (
	"fmt"

	gopsproc "github.com/shirou/gopsutil/v4/process"
)

// PIDDetector checks the OS process table for an entry whose pid field
// equals PID. It never matches pids textually, so pid 123 cannot be shadowed
// by an unrelated pid 1234.
//
// When StartedUnix is non-zero the observed start time of the live process
// must match it too; a recycled pid with a different start time counts as
// not running.
type PIDDetector struct {
	PID         int
	StartedUnix int64
}

func (d PIDDetector) Alive() (bool, error) {
	if d.PID <= 0 {
		return false, nil
	}
	exists, err := gopsproc.PidExists(int32(d.PID))
	if err != nil {
		return false, fmt.Errorf("query process table for pid %d: %w", d.PID, err)
	}
	if !exists {
		return false, nil
	}
	if d.StartedUnix > 0 {
		cur := ProcStartUnix(d.PID)
		if cur > 0 && cur != d.StartedUnix {
			// PID reused by an unrelated process.
			return false, nil
		}
	}
	return true, nil
}

func (d PIDDetector) Describe() string { return fmt.Sprintf("pid:%d", d.PID) }
