package crypto

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	serrors "github.com/sealbox-dev/sealbox/internal/errors"
)

// KeyFilePermission is the required mode for file-encryption key files:
// owner read/write only.
const KeyFilePermission = 0600

// fileKeyRecord is the on-disk shape of a caller-managed file key. It holds
// only the key: IVs are generated per encryption and travel with the
// encrypted output, never with the key.
type fileKeyRecord struct {
	Key string `json:"key"`
}

// SaveFileKey writes a file-encryption key to path as JSON with 0600
// permissions, creating parent directories as needed.
func SaveFileKey(path string, key []byte) error {
	if len(key) != KeySize {
		return fmt.Errorf("invalid key size: expected %d bytes, got %d bytes", KeySize, len(key))
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("failed to create key directory: %w", err)
	}

	data, err := json.Marshal(fileKeyRecord{
		Key: hex.EncodeToString(key),
	})
	if err != nil {
		return fmt.Errorf("failed to encode key file: %w", err)
	}

	if err := os.WriteFile(path, data, KeyFilePermission); err != nil {
		return fmt.Errorf("failed to write key file: %w", err)
	}

	// Verify permissions took effect (umask or an existing file could have
	// widened them).
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to verify key file permissions: %w", err)
	}
	if info.Mode().Perm() != KeyFilePermission {
		return fmt.Errorf("key file has incorrect permissions: got %o, expected %o", info.Mode().Perm(), KeyFilePermission)
	}

	return nil
}

// LoadFileKey reads a key file written by SaveFileKey. It refuses files with
// permissions wider than 0600 and treats any parse problem as
// ErrMalformedKeyFile.
func LoadFileKey(path string) ([]byte, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("failed to stat key file: %w", err)
	}
	if info.Mode().Perm()&0077 != 0 {
		return nil, fmt.Errorf("%w: %s has mode %o", serrors.ErrInsecureKeyFile, path, info.Mode().Perm())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read key file: %w", err)
	}

	var record fileKeyRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, serrors.ErrMalformedKeyFile
	}

	key, err := hex.DecodeString(record.Key)
	if err != nil || len(key) != KeySize {
		return nil, serrors.ErrMalformedKeyFile
	}

	return key, nil
}
