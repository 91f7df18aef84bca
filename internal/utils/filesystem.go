package utils

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
)

// FindProjectSealboxRoot traverses up directories to find the project's
// sealbox root (the directory containing .sealbox/). Returns the path to the
// project root if found, empty string otherwise. Stops searching one level
// above the user's home directory.
func FindProjectSealboxRoot() (string, error) {
	currentDir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get working directory: %w", err)
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}

	for {
		// Stop searching at one level above home directory
		if currentDir == path.Join(homeDir, "..") {
			return "", nil
		}

		sealboxDir := filepath.Join(currentDir, ".sealbox")
		fileInfo, err := os.Stat(sealboxDir)
		// No error means the path exists
		if err == nil {
			if fileInfo.IsDir() {
				return currentDir, nil
			}
		} else if !os.IsNotExist(err) {
			// Return any error that's not "file not found" (like permission issues)
			return "", fmt.Errorf("error checking for .sealbox directory at %s: %w", currentDir, err)
		}

		parentDir := filepath.Dir(currentDir)

		// If we've reached the filesystem root and haven't found .sealbox
		if parentDir == currentDir {
			return "", nil
		}
		currentDir = parentDir
	}
}

// GetProjectName returns the name of the current project (directory).
func GetProjectName() (string, error) {
	projectRoot, err := FindProjectSealboxRoot()
	if err != nil {
		return "", fmt.Errorf("failed to get project directory: %w", err)
	}
	// No project root means no project name, but that's not an error:
	// non-init commands need to run cleanly in uninitialized repos.
	if projectRoot == "" {
		return "", nil
	}
	return filepath.Base(projectRoot), nil
}
