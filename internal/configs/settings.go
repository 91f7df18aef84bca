package configs

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/sealbox-dev/sealbox/internal/utils"
)

type UserSettings struct {
	UserConfigsPath string
	UserDataPath    string
}

type ProjectSettings struct {
	ProjectName       string
	ProjectPath       string
	ProjectConfigPath string
	ProjectVaultPath  string
	ProjectAuditPath  string
}

var (
	UserSealboxSettings    *UserSettings
	ProjectSealboxSettings *ProjectSettings
)

func init() {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		log.Fatalf("error getting home directory: %s", err)
	}

	configDir, err := os.UserConfigDir()
	if err != nil {
		log.Fatalf("error getting config directory: %s", err)
	}

	dataDir := os.Getenv("XDG_DATA_HOME")
	if dataDir == "" {
		dataDir = filepath.Join(homeDir, ".local", "share")
	}

	// This is independent of what repo you are in, so it is ok to init here
	UserSealboxSettings = &UserSettings{
		UserConfigsPath: filepath.Join(configDir, "sealbox"),
		UserDataPath:    filepath.Join(dataDir, "sealbox"),
	}
	ProjectSealboxSettings = &ProjectSettings{}
}

// InitProjectSettings discovers the project root and fills in the project
// paths. An empty ProjectPath afterwards means no sealbox project was found.
func InitProjectSettings() error {
	projectName, err := utils.GetProjectName()
	if err != nil {
		return fmt.Errorf("error getting project name: %w", err)
	}

	projectPath, err := utils.FindProjectSealboxRoot()
	if err != nil {
		return fmt.Errorf("error getting project root: %w", err)
	}

	ProjectSealboxSettings = &ProjectSettings{
		ProjectName: projectName,
		ProjectPath: projectPath,
	}
	if projectPath != "" {
		ProjectSealboxSettings.ProjectConfigPath = filepath.Join(projectPath, ".sealbox", "config.toml")
		ProjectSealboxSettings.ProjectVaultPath = filepath.Join(projectPath, ".sealbox", "vault.db")
		ProjectSealboxSettings.ProjectAuditPath = filepath.Join(projectPath, ".sealbox", "audit.jsonl")
	}

	return nil
}
