package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/vigil-run/vigil/internal/faillog"
	"github.com/vigil-run/vigil/internal/registry"
)

// RunOptions carries per-command overrides supplied on the command line.
type RunOptions struct {
	MaxFailures           int
	NotificationRecipient string
}

// Run registers command (or updates its config in place, since the
// identifier is a pure function of the command string) and starts it unless
// it is already running.
func (s *Supervisor) Run(ctx context.Context, command string, opts RunOptions) error {
	if strings.TrimSpace(command) == "" {
		return fmt.Errorf("command must not be empty")
	}
	lock, err := registry.AcquireLock(s.opts.LockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	reg, err := registry.Load(s.opts.RegistryPath)
	if err != nil {
		return err
	}

	id := registry.DeriveID(command)
	rec, known := reg[id]
	rec.Command = command
	if opts.MaxFailures > 0 {
		rec.MaxFailures = opts.MaxFailures
	} else if rec.MaxFailures <= 0 {
		rec.MaxFailures = s.opts.MaxFailures
	}
	if opts.NotificationRecipient != "" {
		rec.NotificationRecipient = opts.NotificationRecipient
	}

	alive := false
	if known && rec.PID > 0 {
		alive, err = s.opts.DetectorFor(rec).Alive()
		if err != nil {
			slog.Error("liveness check failed, assuming not running",
				"command", command, "pid", rec.PID, "error", err)
			alive = false
		}
	}
	if alive {
		// Already supervised and running: config update only, never a
		// second process.
		slog.Info("already running", "command", command, "pid", rec.PID)
	} else {
		pid, startedUnix, err := s.opts.Start(s.spec(rec), shortID(id))
		if err != nil {
			// Persist the registration anyway; the next sweep retries.
			reg[id] = rec
			if serr := registry.Save(s.opts.RegistryPath, reg); serr != nil {
				slog.Error("saving registry after failed start", "error", serr)
			}
			return fmt.Errorf("start %q: %w", command, err)
		}
		rec.PID = pid
		rec.StartedUnix = startedUnix
		slog.Info("process started", "command", command, "pid", pid)
	}

	reg[id] = rec
	return registry.Save(s.opts.RegistryPath, reg)
}

// Remove deletes the command's record. The failure log is kept unless purge
// is set: history survives re-registration of the same command string, which
// is intentional.
func (s *Supervisor) Remove(ctx context.Context, command string, purge bool) error {
	lock, err := registry.AcquireLock(s.opts.LockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	reg, err := registry.Load(s.opts.RegistryPath)
	if err != nil {
		return err
	}
	id := registry.DeriveID(command)
	if _, ok := reg[id]; !ok {
		return fmt.Errorf("command not registered: %q", command)
	}
	delete(reg, id)
	if err := registry.Save(s.opts.RegistryPath, reg); err != nil {
		return err
	}
	if purge {
		if err := s.flog.Remove(id); err != nil {
			slog.Warn("purging failure history", "command", command, "error", err)
		}
	}
	slog.Info("process removed", "command", command, "purged", purge)
	return nil
}

// Summary is one row of the list view.
type Summary struct {
	ID               string
	Command          string
	PID              int
	Alive            bool
	FailuresToday    int
	FailuresLastHour int
	FailuresTotal    int
}

// List reports every registered command with a failure digest. Liveness
// problems degrade to "not running" per row; they never fail the listing.
func (s *Supervisor) List(ctx context.Context) ([]Summary, error) {
	lock, err := registry.AcquireLock(s.opts.LockPath)
	if err != nil {
		return nil, err
	}
	defer func() { _ = lock.Release() }()

	reg, err := registry.Load(s.opts.RegistryPath)
	if err != nil {
		return nil, err
	}

	now := s.opts.Now()
	out := make([]Summary, 0, len(reg))
	for _, id := range reg.IDs() {
		rec := reg[id]
		alive, err := s.opts.DetectorFor(rec).Alive()
		if err != nil {
			slog.Warn("liveness check failed", "command", rec.Command, "error", err)
			alive = false
		}
		failures, err := s.flog.Load(id)
		if err != nil {
			slog.Warn("loading failure history", "command", rec.Command, "error", err)
		}
		out = append(out, Summary{
			ID:               shortID(id),
			Command:          rec.Command,
			PID:              rec.PID,
			Alive:            alive,
			FailuresToday:    faillog.CountSince(failures, faillog.StartOfLocalDay(now)),
			FailuresLastHour: faillog.CountSince(failures, now.Add(-faillog.Window)),
			FailuresTotal:    len(failures),
		})
	}
	return out, nil
}
