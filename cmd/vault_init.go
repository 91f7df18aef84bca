package cmd

import (
	"os"
	"path/filepath"
	"time"

	"github.com/sealbox-dev/sealbox/internal/audit"
	"github.com/sealbox-dev/sealbox/internal/configs"
	"github.com/sealbox-dev/sealbox/internal/vault"

	"github.com/common-nighthawk/go-figure"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	initKeyFile string
	initName    string
)

func init() {
	initCmd.Flags().StringVar(&initKeyFile, "key-file", "", "store the master key in this file instead of the OS keyring")
	initCmd.Flags().StringVar(&initName, "name", "", "vault name (defaults to the directory name)")
}

// resetInitCommandState resets the init command's global state for testing.
func resetInitCommandState() {
	initKeyFile = ""
	initName = ""
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initializes a sealbox vault in the current directory",
	Long: `Creates the .sealbox directory, generates a fresh 32-byte master key,
stores it in the OS keyring (or a key file with --key-file), and creates
the vault database.

The master key never touches the project directory unless --key-file
points there, which you should not do for anything you commit.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault init command")
		spinner, cleanup := startSpinner("Initializing sealbox...", verbose)
		defer cleanup()

		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to init project settings: %v", err)
		}

		if configs.ProjectSealboxSettings.ProjectPath != "" {
			finalMessage := color.RedString("✗") + " Sealbox has already been initialized\n" +
				color.CyanString("→") + " Run " + color.YellowString("sealbox vault status") + " instead"
			spinner.FinalMSG = finalMessage
			return nil
		}

		wd, err := os.Getwd()
		if err != nil {
			return Logger.ErrorfAndReturn("failed to get working directory: %v", err)
		}

		sealboxDir := filepath.Join(wd, ".sealbox")
		Logger.Debugf("Creating %s", sealboxDir)
		if err := os.MkdirAll(sealboxDir, 0700); err != nil {
			failSpinner(spinner, "Failed to create the .sealbox directory", err)
			return nil
		}

		name := initName
		if name == "" {
			name = filepath.Base(wd)
		}

		config := &configs.ProjectConfig{}
		config.Vault.UUID = configs.GenerateVaultUUID()
		config.Vault.Name = name
		config.Vault.CreatedAt = time.Now().UTC()
		config.Vault.KeySource = configs.KeySourceKeyring
		if initKeyFile != "" {
			config.Vault.KeySource = configs.KeySourceFile
			config.Vault.KeyFile = initKeyFile
		}

		Logger.Debugf("Generating master key for vault %s", config.Vault.UUID)
		encodedKey, err := configs.GenerateMasterKey()
		if err != nil {
			failSpinner(spinner, "Failed to generate a master key", err)
			return nil
		}

		if err := configs.StoreMasterKey(config, encodedKey); err != nil {
			failSpinner(spinner, "Failed to store the master key", err)
			return nil
		}
		Logger.Infof("Master key stored via %s", config.Vault.KeySource)

		// Settings were computed before .sealbox existed; recompute now.
		if err := configs.InitProjectSettings(); err != nil {
			return Logger.ErrorfAndReturn("failed to re-init project settings: %v", err)
		}

		if err := configs.SaveProjectConfig(config); err != nil {
			failSpinner(spinner, "Failed to write the project config", err)
			return nil
		}

		store, err := vault.Open(configs.ProjectSealboxSettings.ProjectVaultPath)
		if err != nil {
			failSpinner(spinner, "Failed to create the vault database", err)
			return nil
		}
		defer store.Close()

		if err := store.Initialize(config.Vault.UUID); err != nil {
			failSpinner(spinner, "Failed to initialize the vault database", err)
			return nil
		}

		audit.Log(audit.Entry{
			Operation: "init",
			VaultUUID: config.Vault.UUID,
			VaultName: name,
			KeySource: config.Vault.KeySource,
		})

		if !verbose && !debug {
			spinner.Stop()
			banner := figure.NewColorFigure("sealbox", "", "green", true)
			banner.Print()
			spinner.Start()
		}

		finalMessage := color.GreenString("✓") + " Vault " + color.CyanString(name) + " initialized successfully!\n" +
			color.CyanString("→") + " Run " + color.YellowString("sealbox vault put <name>") + " to seal your first record"
		spinner.FinalMSG = finalMessage
		return nil
	},
}
