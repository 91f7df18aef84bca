package cmd

import (
	"errors"

	"github.com/sealbox-dev/sealbox/internal/audit"
	"github.com/sealbox-dev/sealbox/internal/crypto"
	serrors "github.com/sealbox-dev/sealbox/internal/errors"
	"github.com/sealbox-dev/sealbox/internal/utils"
	"github.com/sealbox-dev/sealbox/internal/vault"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var (
	putPurpose string
	putForce   bool
	putStdin   bool
)

func init() {
	putCmd.Flags().StringVar(&putPurpose, "purpose", crypto.DefaultPurpose, "domain-separation purpose tag for the record's key")
	putCmd.Flags().BoolVar(&putForce, "force", false, "overwrite an existing record")
	putCmd.Flags().BoolVar(&putStdin, "stdin", false, "read the value from stdin instead of prompting")
}

// resetPutCommandState resets the put command's global state for testing.
func resetPutCommandState() {
	putPurpose = crypto.DefaultPurpose
	putForce = false
	putStdin = false
}

var putCmd = &cobra.Command{
	Use:   "put <name> [value]",
	Short: "Encrypts a value and stores it in the vault",
	Long: `Seals a value under a key derived for the record's purpose and stores
the encrypted blob. The value comes from the second argument, from stdin
with --stdin, or from a hidden prompt.

Records with different purposes are sealed under different derived keys,
so a leaked key for one purpose exposes nothing sealed under another.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting put command")
		name := args[0]

		var value []byte
		switch {
		case len(args) == 2:
			value = []byte(args[1])
		case putStdin:
			data, err := utils.ReadStdin()
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read value from stdin: %v", err)
			}
			value = data
		default:
			data, err := utils.ReadSecret("Value for " + name + ": ")
			if err != nil {
				return Logger.ErrorfAndReturn("failed to read value: %v", err)
			}
			value = data
		}
		defer crypto.ClearBytes(value)

		spinner, cleanup := startSpinner("Sealing record...", verbose)
		defer cleanup()

		vc, err := openVault()
		if err != nil {
			reportVaultError(spinner, err)
			return nil
		}
		defer vc.Close()

		Logger.Debugf("Encrypting record %s with purpose %s", name, putPurpose)
		blob, err := vc.svc.Encrypt(value, putPurpose)
		if err != nil {
			failSpinner(spinner, "Failed to encrypt the value", err)
			return nil
		}

		record := vault.Record{Name: name, Purpose: putPurpose, Blob: blob}
		if err := vc.store.Put(record, putForce); err != nil {
			if errors.Is(err, serrors.ErrRecordExists) {
				finalMessage := color.RedString("✗") + " Record " + color.CyanString(name) + " already exists\n" +
					color.CyanString("→") + " Pass " + color.YellowString("--force") + " to overwrite it"
				spinner.FinalMSG = finalMessage
				return nil
			}
			failSpinner(spinner, "Failed to store the record", err)
			return nil
		}

		audit.Log(audit.Entry{
			Operation: "put",
			VaultUUID: vc.config.Vault.UUID,
			Record:    name,
			Purpose:   putPurpose,
			Epoch:     vc.svc.Epoch(),
		})

		finalMessage := color.GreenString("✓") + " Record " + color.CyanString(name) + " sealed\n" +
			color.CyanString("→") + " Run " + color.YellowString("sealbox vault get "+name) + " to read it back"
		spinner.FinalMSG = finalMessage
		return nil
	},
}
