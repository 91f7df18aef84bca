package audit

import (
	"encoding/json"
	"os"
	"time"

	"github.com/sealbox-dev/sealbox/internal/configs"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp string `json:"ts"`   // RFC3339 with microseconds.
	Operation string `json:"op"`   // Operation name.
	VaultUUID string `json:"uuid"` // UUID of the vault being operated on.

	// Optional fields depending on operation.
	Record       string `json:"record,omitempty"`        // For put/get/rm.
	Purpose      string `json:"purpose,omitempty"`       // For put/rotate.
	RecordsCount int    `json:"records_count,omitempty"` // For rotate/status.
	FailedCount  int    `json:"failed_count,omitempty"`  // For rotate.
	Epoch        uint64 `json:"epoch,omitempty"`         // Secret epoch after the operation.
	VaultName    string `json:"vault_name,omitempty"`    // For init.
	KeySource    string `json:"key_source,omitempty"`    // For init/rotate.
}

// Log appends an entry to the audit log.
// If logging fails, the entry is dropped silently: operations must not fail
// just because audit logging failed, and plaintext never goes in the log
// anyway.
func Log(entry Entry) {
	// Set timestamp if not already set.
	if entry.Timestamp == "" {
		entry.Timestamp = time.Now().UTC().Format("2006-01-02T15:04:05.000000Z")
	}

	logPath := configs.ProjectSealboxSettings.ProjectAuditPath
	if logPath == "" {
		// Project not initialized, skip logging.
		return
	}

	// Open file for appending (create if doesn't exist).
	// #nosec G306 -- the audit log holds no secrets, only operation metadata.
	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return
	}
	defer f.Close()

	data, err := json.Marshal(entry)
	if err != nil {
		return
	}

	_, _ = f.Write(append(data, '\n'))
}

// LogPath returns the path to the audit log file.
// Returns empty string if project is not initialized.
func LogPath() string {
	return configs.ProjectSealboxSettings.ProjectAuditPath
}

// ReadEntries reads all entries from the audit log.
// Returns an empty slice if the log doesn't exist.
func ReadEntries() ([]Entry, error) {
	logPath := LogPath()
	if logPath == "" {
		return nil, nil
	}

	data, err := os.ReadFile(logPath)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return ParseEntries(data)
}

// ParseEntries parses JSON Lines data into audit entries.
// Malformed lines are silently skipped.
func ParseEntries(data []byte) ([]Entry, error) {
	if len(data) == 0 {
		return nil, nil
	}

	var entries []Entry
	start := 0

	for i := 0; i <= len(data); i++ {
		if i == len(data) || data[i] == '\n' {
			line := data[start:i]
			start = i + 1

			if len(line) == 0 {
				continue
			}

			var entry Entry
			if err := json.Unmarshal(line, &entry); err != nil {
				// Skip malformed entries.
				continue
			}
			entries = append(entries, entry)
		}
	}

	return entries, nil
}
