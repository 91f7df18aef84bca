package cmd

import (
	"os"

	"github.com/sealbox-dev/sealbox/internal/crypto"
	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var fileKeygenForce bool

func init() {
	fileKeygenCmd.Flags().BoolVar(&fileKeygenForce, "force", false, "overwrite an existing key file")
}

var fileKeygenCmd = &cobra.Command{
	Use:   "keygen",
	Short: "Generates a new file-encryption key",
	Long: `Generates a random key and writes it to the key file with owner-only
permissions. The key file holds only the key: every encryption generates
its own IV and stores it with the encrypted output.

An existing key file is never overwritten without --force: every file
encrypted under it becomes unrecoverable once the key is gone.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting file keygen command")
		spinner, cleanup := startSpinner("Generating file key...", verbose)
		defer cleanup()

		if !fileKeygenForce {
			if _, err := os.Stat(fileKeyPath); err == nil {
				spinner.FinalMSG = color.RedString("✗") + " Key file " + ui.Path.Sprint(fileKeyPath) + " already exists\n" +
					color.CyanString("→") + " Pass " + ui.Code.Sprint("--force") + " to overwrite it (files encrypted under the old key will be lost)"
				return nil
			}
		}

		key, err := crypto.GenerateFileKey()
		if err != nil {
			failSpinner(spinner, "Failed to generate key material", err)
			return nil
		}
		defer crypto.ClearBytes(key)

		if err := crypto.SaveFileKey(fileKeyPath, key); err != nil {
			failSpinner(spinner, "Failed to write the key file", err)
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Key file written to " + ui.Path.Sprint(fileKeyPath) + "\n" +
			color.CyanString("→") + " Keep it safe: without it, encrypted files cannot be recovered"
		return nil
	},
}
