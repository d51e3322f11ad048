package registry

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"sort"

	"github.com/google/renameio/v2"
	"gopkg.in/yaml.v3"
)

// DefaultMaxFailures is the failure threshold applied when a record does not
// carry an explicit one.
const DefaultMaxFailures = 5

// Record is the persisted state for one supervised command. PID and
// StartedUnix are zero when the command has not been started yet.
// StartedUnix is the observed process start time (Unix seconds) and is used
// to detect PID reuse between sweeps.
type Record struct {
	Command               string `yaml:"command"`
	PID                   int    `yaml:"pid,omitempty"`
	StartedUnix           int64  `yaml:"started_unix,omitempty"`
	MaxFailures           int    `yaml:"max_failures"`
	NotificationRecipient string `yaml:"notification_recipient,omitempty"`
}

// Registry maps command identifiers to records. It is a plain value: callers
// load it, transform it, and save it back; there is no shared global copy.
type Registry map[string]Record

// DeriveID returns the identifier for a command string: the hex SHA-256
// digest of the exact string, arguments included. The same command always
// maps to the same identifier, so re-registering updates the existing record
// in place.
func DeriveID(command string) string {
	sum := sha256.Sum256([]byte(command))
	return hex.EncodeToString(sum[:])
}

// Load reads the registry document at path. A missing or empty file yields
// an empty registry; malformed YAML is an error the caller must treat as
// fatal.
func Load(path string) (Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Registry{}, nil
		}
		return nil, fmt.Errorf("read registry %s: %w", path, err)
	}
	reg := Registry{}
	if len(data) == 0 {
		return reg, nil
	}
	if err := yaml.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("parse registry %s: %w", path, err)
	}
	return reg, nil
}

// Save writes the whole registry atomically via rename, replacing the
// previous document. Saving the result of Load without changes produces an
// identical document.
func Save(path string, reg Registry) error {
	data, err := yaml.Marshal(reg)
	if err != nil {
		return fmt.Errorf("encode registry: %w", err)
	}
	if err := renameio.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write registry %s: %w", path, err)
	}
	return nil
}

// IDs returns the identifiers in sorted order so sweeps iterate
// deterministically.
func (r Registry) IDs() []string {
	ids := make([]string, 0, len(r))
	for id := range r {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
