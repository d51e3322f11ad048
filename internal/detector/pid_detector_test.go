package detector

import (
	"os"
	"testing"
)

func TestPIDDetectorSelf(t *testing.T) {
	d := PIDDetector{PID: os.Getpid()}
	alive, err := d.Alive()
	if err != nil {
		t.Fatalf("alive: %v", err)
	}
	if !alive {
		t.Fatal("our own pid must be alive")
	}
}

func TestPIDDetectorInvalidPIDs(t *testing.T) {
	for _, pid := range []int{0, -1, -12345} {
		d := PIDDetector{PID: pid}
		alive, err := d.Alive()
		if err != nil {
			t.Fatalf("pid %d: unexpected error %v", pid, err)
		}
		if alive {
			t.Fatalf("pid %d must not be alive", pid)
		}
	}
}

func TestPIDDetectorNonexistent(t *testing.T) {
	// PID max on Linux defaults to 4194304; this should not exist.
	d := PIDDetector{PID: 1<<22 + 7}
	alive, err := d.Alive()
	if err != nil {
		t.Skipf("process table query failed: %v", err)
	}
	if alive {
		t.Fatal("absurd pid reported alive")
	}
}

func TestPIDDetectorStartTimeMismatch(t *testing.T) {
	self := os.Getpid()
	cur := ProcStartUnix(self)
	if cur == 0 {
		t.Skip("start time unavailable on this platform")
	}
	d := PIDDetector{PID: self, StartedUnix: cur - 100000}
	alive, err := d.Alive()
	if err != nil {
		t.Fatalf("alive: %v", err)
	}
	if alive {
		t.Fatal("mismatched start time must be treated as pid reuse")
	}
}

func TestPIDDetectorStartTimeMatch(t *testing.T) {
	self := os.Getpid()
	cur := ProcStartUnix(self)
	if cur == 0 {
		t.Skip("start time unavailable on this platform")
	}
	d := PIDDetector{PID: self, StartedUnix: cur}
	alive, err := d.Alive()
	if err != nil {
		t.Fatalf("alive: %v", err)
	}
	if !alive {
		t.Fatal("matching start time must be alive")
	}
}

func TestDescribe(t *testing.T) {
	d := PIDDetector{PID: 42}
	if d.Describe() != "pid:42" {
		t.Fatalf("unexpected description: %s", d.Describe())
	}
}
