package cmd

import (
	"fmt"

	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Shows the vault's identity, key source, and record count",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting status command")
		spinner, cleanup := startSpinner("Checking vault status...", verbose)
		defer cleanup()

		vc, err := openVault()
		if err != nil {
			reportVaultError(spinner, err)
			return nil
		}
		defer vc.Close()

		count, err := vc.store.Count()
		if err != nil {
			failSpinner(spinner, "Failed to count records", err)
			return nil
		}

		keyLocation := vc.config.Vault.KeySource
		if vc.config.Vault.KeyFile != "" {
			keyLocation += " (" + vc.config.Vault.KeyFile + ")"
		}

		spinner.Stop()
		fmt.Println(ui.Success.Sprint("✓") + " Vault is healthy")
		fmt.Printf("  name:       %s\n", ui.Highlight.Sprint(vc.config.Vault.Name))
		fmt.Printf("  vault uuid: %s\n", vc.config.Vault.UUID)
		fmt.Printf("  key source: %s\n", keyLocation)
		fmt.Printf("  records:    %d\n", count)
		fmt.Printf("  created:    %s\n", vc.config.Vault.CreatedAt.Format("2006-01-02 15:04"))
		return nil
	},
}
