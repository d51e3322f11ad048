package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Dir == "" {
		t.Fatal("state dir must default")
	}
	if c.MaxFailures != 5 {
		t.Fatalf("default max_failures should be 5, got %d", c.MaxFailures)
	}
	if c.Log.Dir != filepath.Join(c.Dir, "logs") {
		t.Fatalf("log dir not derived from state dir: %s", c.Log.Dir)
	}
	if c.RegistryPath() != filepath.Join(c.Dir, "registry.yaml") {
		t.Fatalf("unexpected registry path: %s", c.RegistryPath())
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
dir = "` + dir + `"
max_failures = 3
notification_recipient = "ops@example.com"
history_dsn = "sqlite://:memory:"

[smtp]
host = "mail.example.com"
port = 587
from = "vigil@example.com"

[log]
dir = "` + filepath.Join(dir, "mylogs") + `"
max_size_mb = 1
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.MaxFailures != 3 {
		t.Fatalf("max_failures: %d", c.MaxFailures)
	}
	if c.NotificationRecipient != "ops@example.com" {
		t.Fatalf("recipient: %s", c.NotificationRecipient)
	}
	if !c.SMTP.Enabled() || c.SMTP.Port != 587 {
		t.Fatalf("smtp not decoded: %+v", c.SMTP)
	}
	if c.Log.Dir != filepath.Join(dir, "mylogs") || c.Log.MaxSizeMB != 1 {
		t.Fatalf("log not decoded: %+v", c.Log)
	}
	if c.HistoryDSN != "sqlite://:memory:" {
		t.Fatalf("history dsn: %s", c.HistoryDSN)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("VIGIL_DIR", dir)
	t.Setenv("VIGIL_MAX_FAILURES", "7")
	c, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if c.Dir != dir {
		t.Fatalf("env dir not honored: %s", c.Dir)
	}
	if c.MaxFailures != 7 {
		t.Fatalf("env max_failures not honored: %d", c.MaxFailures)
	}
}

func TestLoadMissingExplicitFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.toml")); err == nil {
		t.Fatal("explicit missing config must error")
	}
}

func TestEnsureDirs(t *testing.T) {
	c := Config{Dir: filepath.Join(t.TempDir(), "state")}
	if err := c.EnsureDirs(); err != nil {
		t.Fatalf("ensure: %v", err)
	}
	for _, d := range []string{c.Dir, c.FailureDir()} {
		st, err := os.Stat(d)
		if err != nil || !st.IsDir() {
			t.Fatalf("missing dir %s: %v", d, err)
		}
	}
}
