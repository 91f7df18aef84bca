package configs

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sealbox-dev/sealbox/internal/crypto"
	serrors "github.com/sealbox-dev/sealbox/internal/errors"
	"github.com/sealbox-dev/sealbox/internal/keyring"
)

// MasterKeyEnv is the environment variable holding the base64 master key.
// It takes precedence over every other source.
const MasterKeyEnv = "SEALBOX_MASTER_KEY"

// GenerateMasterKey returns a fresh random 32-byte master key, base64 encoded.
func GenerateMasterKey() (string, error) {
	key := make([]byte, crypto.MasterKeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		return "", fmt.Errorf("failed to generate master key: %w", err)
	}
	return base64.StdEncoding.EncodeToString(key), nil
}

// DecodeMasterKey decodes a base64 master key and validates its length.
// Anything that does not decode to exactly 32 bytes fails closed with
// ErrInvalidMasterKey.
func DecodeMasterKey(encoded string) ([]byte, error) {
	key, err := base64.StdEncoding.DecodeString(strings.TrimSpace(encoded))
	if err != nil {
		return nil, fmt.Errorf("%w: not valid base64", serrors.ErrInvalidMasterKey)
	}
	if len(key) != crypto.MasterKeySize {
		return nil, fmt.Errorf("%w: got %d bytes", serrors.ErrInvalidMasterKey, len(key))
	}
	return key, nil
}

// ResolveMasterKey resolves the master key for a vault, trying sources in
// order: the SEALBOX_MASTER_KEY environment variable, the OS keyring under
// the vault UUID, then the key file named in the project config. Every
// source is validated the same way; a present-but-malformed key is an error,
// not a reason to fall through, so a typo can never silently select a
// different key.
func ResolveMasterKey(config *ProjectConfig) ([]byte, error) {
	if encoded := os.Getenv(MasterKeyEnv); encoded != "" {
		key, err := DecodeMasterKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", MasterKeyEnv, err)
		}
		return key, nil
	}

	if config.Vault.UUID != "" && keyring.HasMasterKey(config.Vault.UUID) {
		encoded, err := keyring.GetMasterKey(config.Vault.UUID)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key from keyring: %w", err)
		}
		key, err := DecodeMasterKey(encoded)
		if err != nil {
			return nil, fmt.Errorf("keyring: %w", err)
		}
		return key, nil
	}

	if config.Vault.KeyFile != "" {
		encoded, err := os.ReadFile(config.Vault.KeyFile)
		if err != nil {
			return nil, fmt.Errorf("failed to read master key file %s: %w", config.Vault.KeyFile, err)
		}
		key, err := DecodeMasterKey(string(encoded))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", config.Vault.KeyFile, err)
		}
		return key, nil
	}

	return nil, serrors.ErrNoMasterKey
}

// StoreMasterKey persists a base64 master key to the source named in the
// project config: the OS keyring, or a 0600 key file.
func StoreMasterKey(config *ProjectConfig, encoded string) error {
	switch config.Vault.KeySource {
	case KeySourceKeyring:
		if err := keyring.SaveMasterKey(config.Vault.UUID, encoded); err != nil {
			return fmt.Errorf("failed to store master key in keyring: %w", err)
		}
		return nil
	case KeySourceFile:
		if config.Vault.KeyFile == "" {
			return fmt.Errorf("key source is %q but no key file is configured", KeySourceFile)
		}
		if err := os.WriteFile(config.Vault.KeyFile, []byte(encoded+"\n"), 0600); err != nil {
			return fmt.Errorf("failed to write master key file: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("unknown key source %q", config.Vault.KeySource)
	}
}
