package configs

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
)

// Key source names for ProjectConfig.Vault.KeySource.
const (
	KeySourceKeyring = "keyring"
	KeySourceFile    = "file"
)

type ProjectConfig struct {
	Vault VaultConfig `toml:"vault"`
}

type VaultConfig struct {
	UUID      string    `toml:"vault_uuid"`
	Name      string    `toml:"name"`
	CreatedAt time.Time `toml:"created_at"`

	// KeySource records where the master key lives when it is not supplied
	// via the environment: "keyring" or "file". The environment variable
	// always takes precedence regardless of this setting.
	KeySource string `toml:"key_source"`

	// KeyFile is the path to the base64 master key file when KeySource is
	// "file".
	KeyFile string `toml:"key_file,omitempty"`
}

// LoadProjectConfig loads the project configuration.
// Note: Caller should ensure InitProjectSettings is called first.
func LoadProjectConfig() (*ProjectConfig, error) {
	configPath := ProjectSealboxSettings.ProjectConfigPath

	config := &ProjectConfig{}
	if configPath == "" {
		return config, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return config, nil
	}

	if err := LoadTOML(configPath, config); err != nil {
		return nil, fmt.Errorf("failed to load project config: %w", err)
	}

	return config, nil
}

// SaveProjectConfig saves the project configuration.
// Note: Caller should ensure InitProjectSettings is called first.
func SaveProjectConfig(config *ProjectConfig) error {
	if err := SaveTOML(ProjectSealboxSettings.ProjectConfigPath, config); err != nil {
		return fmt.Errorf("failed to save project config: %w", err)
	}
	return nil
}

// GenerateVaultUUID generates a new UUID for a vault.
func GenerateVaultUUID() string {
	return uuid.New().String()
}
