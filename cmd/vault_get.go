package cmd

import (
	"errors"
	"fmt"

	"github.com/sealbox-dev/sealbox/internal/audit"
	serrors "github.com/sealbox-dev/sealbox/internal/errors"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var getCmd = &cobra.Command{
	Use:   "get <name>",
	Short: "Decrypts a vault record and prints its value",
	Long: `Unseals the named record and writes the plaintext to stdout, with no
trailing decoration, so the output is safe to pipe.

A record that fails integrity verification (tampered blob, wrong master
key) produces a single generic failure: decryption is all-or-nothing.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting get command")
		name := args[0]

		spinner, cleanup := startSpinner("Unsealing record...", verbose)
		defer cleanup()

		vc, err := openVault()
		if err != nil {
			reportVaultError(spinner, err)
			return nil
		}
		defer vc.Close()

		record, err := vc.store.Get(name)
		if err != nil {
			if errors.Is(err, serrors.ErrRecordNotFound) {
				finalMessage := color.RedString("✗") + " No record named " + color.CyanString(name) + "\n" +
					color.CyanString("→") + " Run " + color.YellowString("sealbox vault ls") + " to see what is stored"
				spinner.FinalMSG = finalMessage
				return nil
			}
			failSpinner(spinner, "Failed to load the record", err)
			return nil
		}

		Logger.Debugf("Decrypting record %s with purpose %s", name, record.Purpose)
		plaintext, err := vc.svc.Decrypt(record.Blob, record.Purpose)
		if err != nil {
			finalMessage := color.RedString("✗") + " Failed to unseal " + color.CyanString(name) + "\n" +
				color.CyanString("→") + " The record is corrupted or was sealed under a different master key"
			spinner.FinalMSG = finalMessage
			return nil
		}

		audit.Log(audit.Entry{
			Operation: "get",
			VaultUUID: vc.config.Vault.UUID,
			Record:    name,
			Epoch:     vc.svc.Epoch(),
		})

		spinner.Stop()
		fmt.Println(string(plaintext))
		return nil
	},
}
