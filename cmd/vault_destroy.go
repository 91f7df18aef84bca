package cmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sealbox-dev/sealbox/internal/configs"
	"github.com/sealbox-dev/sealbox/internal/keyring"
	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var destroyForce bool

func init() {
	destroyCmd.Flags().BoolVar(&destroyForce, "force", false, "skip confirmation prompt")
}

// resetDestroyCommandState resets the destroy command's global state for testing.
func resetDestroyCommandState() {
	destroyForce = false
}

// confirmDestroy prompts the user to confirm destruction of the vault.
// Returns true if the user confirms, false otherwise.
func confirmDestroy(s *spinner.Spinner, name string) bool {
	s.Stop()

	fmt.Printf("\n%s This permanently deletes the vault %s, every sealed record in it, and its master key.\n", ui.Warning.Sprint("Warning:"), ui.Highlight.Sprint(name))
	fmt.Println("  There is no way to recover any record afterwards.")
	fmt.Println()

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Do you want to continue? [y/N]: ")
	response, err := reader.ReadString('\n')
	if err != nil {
		Logger.Errorf("Failed to read response: %v", err)
		s.Restart()
		return false
	}
	response = strings.TrimSpace(strings.ToLower(response))

	s.Restart()
	return response == "y" || response == "yes"
}

var destroyCmd = &cobra.Command{
	Use:   "destroy",
	Short: "Permanently deletes the vault and its master key",
	Long: `Deletes the .sealbox directory with every sealed record in it and
removes the master key from its configured source, the OS keyring or the
key file.

This cannot be undone. Records are not recoverable without the vault
database and the master key.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault destroy command")
		spinner, cleanup := startSpinner("Destroying vault...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}
		if configs.ProjectSealboxSettings.ProjectPath == "" {
			spinner.FinalMSG = color.RedString("✗") + " Sealbox has not been initialized\n" +
				color.CyanString("→") + " There is nothing to destroy"
			return nil
		}

		config, err := configs.LoadProjectConfig()
		if err != nil {
			failSpinner(spinner, "Failed to load the project config", err)
			return nil
		}

		if !destroyForce && !confirmDestroy(spinner, config.Vault.Name) {
			spinner.FinalMSG = color.YellowString("⚠") + " Destroy cancelled"
			return nil
		}

		switch config.Vault.KeySource {
		case configs.KeySourceKeyring:
			if err := keyring.DeleteMasterKey(config.Vault.UUID); err != nil {
				Logger.WarnfAlways("Failed to remove master key from keyring: %v", err)
			}
		case configs.KeySourceFile:
			if config.Vault.KeyFile != "" {
				if err := os.Remove(config.Vault.KeyFile); err != nil && !os.IsNotExist(err) {
					Logger.WarnfAlways("Failed to remove master key file %s: %v", config.Vault.KeyFile, err)
				}
			}
		}

		sealboxDir := filepath.Join(configs.ProjectSealboxSettings.ProjectPath, ".sealbox")
		Logger.Debugf("Removing %s", sealboxDir)
		if err := os.RemoveAll(sealboxDir); err != nil {
			failSpinner(spinner, "Failed to remove the .sealbox directory", err)
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Vault " + ui.Highlight.Sprint(config.Vault.Name) + " destroyed\n" +
			color.CyanString("→") + " The master key was removed from its " + config.Vault.KeySource + " source"
		return nil
	},
}
