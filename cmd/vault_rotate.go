package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sealbox-dev/sealbox/internal/audit"
	"github.com/sealbox-dev/sealbox/internal/configs"
	"github.com/sealbox-dev/sealbox/internal/crypto"
	"github.com/sealbox-dev/sealbox/internal/ui"
	"github.com/sealbox-dev/sealbox/internal/vault"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var rotateForce bool

func init() {
	rotateCmd.Flags().BoolVar(&rotateForce, "force", false, "skip confirmation prompt")
}

// resetRotateCommandState resets the rotate command's global state for testing.
func resetRotateCommandState() {
	rotateForce = false
}

// confirmRotate prompts the user to confirm the master key rotation.
// Returns true if the user confirms, false otherwise.
func confirmRotate(s *spinner.Spinner) bool {
	s.Stop()

	fmt.Printf("\n%s This will generate a new master key and re-encrypt every record.\n", ui.Warning.Sprint("Warning:"))
	fmt.Println("  The old master key will no longer decrypt anything in this vault.")
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

var rotateCmd = &cobra.Command{
	Use:   "rotate",
	Short: "Rotates the master key and re-encrypts every record",
	Long: `Generates a new master key and re-encrypts all vault records under it.

The command will:
  1. Resolve the current master key (this becomes the old key)
  2. Generate a fresh 32-byte master key
  3. Re-encrypt every record: decrypt under the old key, encrypt under the new
  4. Store the new master key in the configured key source

Records are rewritten in one database transaction. The new key is only
persisted after the re-encryption commits, so an interrupted rotation
leaves the vault readable under the old key. A record that fails to
re-encrypt (already corrupted, or sealed under some other key) is left
untouched and reported; fix or remove it, then rotate again.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rotate command")
		spinner, cleanup := startSpinner("Rotating master key...", verbose)
		defer cleanup()

		vc, err := openVault()
		if err != nil {
			reportVaultError(spinner, err)
			return nil
		}
		defer vc.Close()

		if !rotateForce && !confirmRotate(spinner) {
			spinner.FinalMSG = color.YellowString("⚠") + " Rotation cancelled"
			return nil
		}

		// The key the vault currently uses becomes the "old" secret.
		oldKey, err := configs.ResolveMasterKey(vc.config)
		if err != nil {
			failSpinner(spinner, "Failed to resolve the current master key", err)
			return nil
		}
		defer crypto.ClearBytes(oldKey)

		encodedNewKey, err := configs.GenerateMasterKey()
		if err != nil {
			failSpinner(spinner, "Failed to generate a new master key", err)
			return nil
		}

		newKey, err := configs.DecodeMasterKey(encodedNewKey)
		if err != nil {
			failSpinner(spinner, "Failed to decode the new master key", err)
			return nil
		}
		defer crypto.ClearBytes(newKey)

		// The service runs under the NEW secret; Rotate swaps the old one in
		// just long enough to decrypt each blob.
		svc, err := crypto.NewService(newKey)
		if err != nil {
			failSpinner(spinner, "Failed to build the crypto service", err)
			return nil
		}

		Logger.Debugf("Re-encrypting all records")
		updated, failed, err := vc.store.Update(func(record vault.Record) (vault.Record, error) {
			blob, err := svc.Rotate(oldKey, record.Blob, record.Purpose)
			if err != nil {
				Logger.Warnf("Failed to rotate record %s: %v", record.Name, err)
				return vault.Record{}, err
			}
			record.Blob = blob
			return record, nil
		})
		if err != nil {
			failSpinner(spinner, "Failed to rewrite the vault", err)
			return nil
		}

		// Only persist the new key once the re-encrypted records are on disk.
		if err := configs.StoreMasterKey(vc.config, encodedNewKey); err != nil {
			failSpinner(spinner, "Re-encryption succeeded but storing the new master key failed", err)
			return nil
		}
		Logger.Infof("Rotated %d records, %d failures", updated, len(failed))

		audit.Log(audit.Entry{
			Operation:    "rotate",
			VaultUUID:    vc.config.Vault.UUID,
			RecordsCount: updated,
			FailedCount:  len(failed),
			Epoch:        svc.Epoch(),
			KeySource:    vc.config.Vault.KeySource,
		})

		if len(failed) > 0 {
			finalMessage := color.YellowString("⚠") + fmt.Sprintf(" Rotated %d records, but %d could not be re-encrypted:\n", updated, len(failed))
			for _, name := range failed {
				finalMessage += "    - " + ui.Error.Sprint(name) + "\n"
			}
			finalMessage += color.CyanString("→") + " These records kept their old blobs and need the old key to recover"
			spinner.FinalMSG = finalMessage
			return nil
		}

		finalMessage := color.GreenString("✓") + fmt.Sprintf(" Master key rotated, %d records re-encrypted", updated)
		spinner.FinalMSG = finalMessage
		return nil
	},
}
