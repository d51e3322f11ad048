// Package vigil wires a Supervisor from resolved configuration. The heavy
// lifting lives in the internal packages; this facade is what the CLI (and
// embedders) construct.
package vigil

import (
	"fmt"

	"github.com/vigil-run/vigil/internal/config"
	"github.com/vigil-run/vigil/internal/history"
	historysqlite "github.com/vigil-run/vigil/internal/history/sqlite"
	"github.com/vigil-run/vigil/internal/notify"
	"github.com/vigil-run/vigil/internal/supervisor"
)

// New builds a Supervisor from cfg. The returned closer must be called when
// the invocation is done; it releases the history sink when one is
// configured.
func New(cfg config.Config) (*supervisor.Supervisor, func(), error) {
	var notifier notify.Notifier = notify.LogNotifier{}
	if cfg.SMTP.Enabled() {
		notifier = notify.NewSMTPNotifier(cfg.SMTP)
	}

	var sink history.Sink
	closer := func() {}
	if cfg.HistoryDSN != "" {
		s, err := historysqlite.New(cfg.HistoryDSN)
		if err != nil {
			return nil, nil, fmt.Errorf("open history sink: %w", err)
		}
		sink = s
		closer = func() { _ = s.Close() }
	}

	sup := supervisor.New(supervisor.Options{
		RegistryPath:          cfg.RegistryPath(),
		LockPath:              cfg.LockPath(),
		FailureDir:            cfg.FailureDir(),
		Log:                   cfg.Log,
		MaxFailures:           cfg.MaxFailures,
		NotificationRecipient: cfg.NotificationRecipient,
		Notifier:              notifier,
		History:               sink,
	})
	return sup, closer, nil
}
