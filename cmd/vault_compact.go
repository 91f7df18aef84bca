package cmd

import (
	"fmt"
	"os"

	"github.com/sealbox-dev/sealbox/internal/audit"
	"github.com/sealbox-dev/sealbox/internal/configs"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var compactCmd = &cobra.Command{
	Use:   "compact",
	Short: "Reclaims disk space from the vault database",
	Long: `Rewrites the vault database into a compacted copy and swaps it into
place. Useful after removing many records: the database file never
shrinks on its own.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting vault compact command")
		spinner, cleanup := startSpinner("Compacting vault...", verbose)
		defer cleanup()

		vc, err := openVault()
		if err != nil {
			reportVaultError(spinner, err)
			return nil
		}

		vaultPath := configs.ProjectSealboxSettings.ProjectVaultPath
		before, err := os.Stat(vaultPath)
		if err != nil {
			vc.Close()
			failSpinner(spinner, "Failed to stat the vault database", err)
			return nil
		}

		compactedPath := vaultPath + ".compact"
		if err := vc.store.CompactTo(compactedPath); err != nil {
			vc.Close()
			_ = os.Remove(compactedPath)
			failSpinner(spinner, "Failed to compact the vault", err)
			return nil
		}

		// The live handle must be released before the compacted copy
		// replaces the database file.
		vc.Close()

		if err := os.Rename(compactedPath, vaultPath); err != nil {
			_ = os.Remove(compactedPath)
			failSpinner(spinner, "Failed to swap in the compacted vault", err)
			return nil
		}

		after, err := os.Stat(vaultPath)
		if err != nil {
			failSpinner(spinner, "Failed to stat the compacted vault", err)
			return nil
		}

		audit.Log(audit.Entry{
			Operation: "compact",
			VaultUUID: vc.config.Vault.UUID,
		})

		spinner.FinalMSG = color.GreenString("✓") + fmt.Sprintf(" Vault compacted: %d bytes down to %d bytes", before.Size(), after.Size())
		return nil
	},
}
