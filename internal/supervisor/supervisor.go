// Package supervisor orchestrates one invocation over the registered
// commands: liveness checks, failure accounting, notification and restart.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/vigil-run/vigil/internal/detector"
	"github.com/vigil-run/vigil/internal/faillog"
	"github.com/vigil-run/vigil/internal/history"
	"github.com/vigil-run/vigil/internal/logger"
	"github.com/vigil-run/vigil/internal/notify"
	"github.com/vigil-run/vigil/internal/process"
	"github.com/vigil-run/vigil/internal/registry"
)

// Options wires a Supervisor. Notifier, History, Now, Start and DetectorFor
// are injectable; zero values get working defaults.
type Options struct {
	RegistryPath string
	LockPath     string
	FailureDir   string
	Log          logger.Config

	// Defaults applied to new records.
	MaxFailures           int
	NotificationRecipient string

	Notifier    notify.Notifier
	History     history.Sink
	Now         func() time.Time
	Start       func(spec process.Spec, name string) (pid int, startedUnix int64, err error)
	DetectorFor func(rec registry.Record) detector.Detector
}

// Supervisor is a run-to-completion worker: every operation loads the
// registry under an advisory lock, transforms it and saves it back.
type Supervisor struct {
	opts Options
	flog faillog.Log
}

// New builds a Supervisor, filling in default collaborators.
func New(opts Options) *Supervisor {
	if opts.Notifier == nil {
		opts.Notifier = notify.LogNotifier{}
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Start == nil {
		opts.Start = process.Start
	}
	if opts.DetectorFor == nil {
		opts.DetectorFor = func(rec registry.Record) detector.Detector {
			return detector.PIDDetector{PID: rec.PID, StartedUnix: rec.StartedUnix}
		}
	}
	if opts.MaxFailures <= 0 {
		opts.MaxFailures = registry.DefaultMaxFailures
	}
	return &Supervisor{opts: opts, flog: faillog.Log{Dir: opts.FailureDir}}
}

// Sweep checks every registered command, restarting the dead ones. Faults in
// one command never abort the others, and the registry save is attempted
// even when commands in the loop errored.
func (s *Supervisor) Sweep(ctx context.Context) error {
	lock, err := registry.AcquireLock(s.opts.LockPath)
	if err != nil {
		return err
	}
	defer func() { _ = lock.Release() }()

	reg, err := registry.Load(s.opts.RegistryPath)
	if err != nil {
		return err
	}
	for _, id := range reg.IDs() {
		reg[id] = s.sweepOne(ctx, id, reg[id])
	}
	return registry.Save(s.opts.RegistryPath, reg)
}

// sweepOne performs the per-command state machine: alive is a no-op, dead
// records a failure, evaluates the notification policy and restarts.
func (s *Supervisor) sweepOne(ctx context.Context, id string, rec registry.Record) registry.Record {
	alive, err := s.opts.DetectorFor(rec).Alive()
	if err != nil {
		// A failed process-table query drives a real restart decision, so
		// it degrades to "not running" rather than propagating.
		slog.Error("liveness check failed, assuming not running",
			"command", rec.Command, "pid", rec.PID, "error", err)
		alive = false
	}
	if alive {
		slog.Debug("process alive", "command", rec.Command, "pid", rec.PID)
		return rec
	}

	now := s.opts.Now()
	slog.Info("process not running", "command", rec.Command, "pid", rec.PID)

	if err := s.flog.Append(id, now); err != nil {
		slog.Error("recording failure", "command", rec.Command, "error", err)
	}
	s.mirror(ctx, history.Event{Type: history.EventFailure, OccurredAt: now, ID: id, Command: rec.Command, PID: rec.PID})

	failures, err := s.flog.Load(id)
	if err != nil {
		slog.Error("loading failure history", "command", rec.Command, "error", err)
	}
	maxFailures := rec.MaxFailures
	if maxFailures <= 0 {
		maxFailures = s.opts.MaxFailures
	}
	if faillog.Frequent(failures, maxFailures, now) {
		s.alert(ctx, id, rec, failures, maxFailures, now)
	}

	pid, startedUnix, err := s.opts.Start(s.spec(rec), shortID(id))
	if err != nil {
		slog.Error("restart failed", "command", rec.Command, "error", err)
		rec.PID = 0
		rec.StartedUnix = 0
		return rec
	}
	slog.Info("process restarted", "command", rec.Command, "pid", pid)
	rec.PID = pid
	rec.StartedUnix = startedUnix
	s.mirror(ctx, history.Event{Type: history.EventRestart, OccurredAt: now, ID: id, Command: rec.Command, PID: pid})
	return rec
}

// alert sends the frequent-failure notification. Delivery problems are
// logged and never block the restart.
func (s *Supervisor) alert(ctx context.Context, id string, rec registry.Record, failures []time.Time, maxFailures int, now time.Time) {
	recipient := rec.NotificationRecipient
	if recipient == "" {
		recipient = s.opts.NotificationRecipient
	}
	today := faillog.CountSince(failures, faillog.StartOfLocalDay(now))
	lastHour := faillog.CountSince(failures, now.Add(-faillog.Window))
	n := notify.Notification{
		Recipient: recipient,
		Subject:   fmt.Sprintf("vigil: frequent failures: %s", rec.Command),
		Body: fmt.Sprintf(
			"Command %q crossed its failure threshold of %d within one hour.\n"+
				"Failures today: %d\nFailures in the last hour: %d\n"+
				"The process is being restarted.",
			rec.Command, maxFailures, today, lastHour),
	}
	if err := s.opts.Notifier.Send(ctx, n); err != nil {
		slog.Error("notification failed", "command", rec.Command, "recipient", recipient, "error", err)
		return
	}
	s.mirror(ctx, history.Event{Type: history.EventNotify, OccurredAt: now, ID: id, Command: rec.Command, PID: rec.PID})
}

// mirror sends an event to the optional history sink.
func (s *Supervisor) mirror(ctx context.Context, e history.Event) {
	if s.opts.History == nil {
		return
	}
	if err := s.opts.History.Send(ctx, e); err != nil {
		slog.Warn("history sink rejected event", "event", e.Type, "command", e.Command, "error", err)
	}
}

func (s *Supervisor) spec(rec registry.Record) process.Spec {
	return process.Spec{Command: rec.Command, Log: s.opts.Log}
}

// shortID keys child log files without dumping a full digest into filenames.
func shortID(id string) string {
	if len(id) > 12 {
		return id[:12]
	}
	return id
}
