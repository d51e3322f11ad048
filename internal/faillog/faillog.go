// Package faillog persists per-command failure timestamps and evaluates the
// frequent-failure policy that gates notifications.
package faillog

import (
	"bufio"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"
)

// Log stores one append-only plain-text file per command identifier, one
// RFC3339 timestamp per line. Files are never truncated automatically; the
// full history is the input to the windowing policy.
type Log struct {
	Dir string
}

// Path returns the backing file for an identifier.
func (l Log) Path(id string) string {
	return filepath.Join(l.Dir, id+".log")
}

// Append durably appends one failure timestamp for id.
func (l Log) Append(id string, t time.Time) error {
	if err := os.MkdirAll(l.Dir, 0o750); err != nil {
		return fmt.Errorf("create failure log dir %s: %w", l.Dir, err)
	}
	f, err := os.OpenFile(l.Path(id), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return fmt.Errorf("open failure log for %s: %w", id, err)
	}
	_, werr := fmt.Fprintln(f, t.Format(time.RFC3339))
	if cerr := f.Close(); werr == nil {
		werr = cerr
	}
	if werr != nil {
		return fmt.Errorf("append failure for %s: %w", id, werr)
	}
	return nil
}

// Load reads the full failure history for id in recorded order. A missing
// file means no failures. Lines that do not parse are skipped with a
// warning; a damaged line must not abort a sweep.
func (l Log) Load(id string) ([]time.Time, error) {
	f, err := os.Open(l.Path(id))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("open failure log for %s: %w", id, err)
	}
	defer func() { _ = f.Close() }()

	var out []time.Time
	s := bufio.NewScanner(f)
	for s.Scan() {
		line := s.Text()
		if line == "" {
			continue
		}
		ts, perr := time.Parse(time.RFC3339, line)
		if perr != nil {
			slog.Warn("skipping unparseable failure log line", "id", id, "line", line)
			continue
		}
		out = append(out, ts)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("read failure log for %s: %w", id, err)
	}
	return out, nil
}

// Remove deletes the failure history for id. Missing history is not an
// error.
func (l Log) Remove(id string) error {
	if err := os.Remove(l.Path(id)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove failure log for %s: %w", id, err)
	}
	return nil
}
