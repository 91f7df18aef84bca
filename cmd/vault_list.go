package cmd

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "ls",
	Aliases: []string{"list"},
	Short:   "Lists the records stored in the vault",
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting ls command")
		spinner, cleanup := startSpinner("Listing records...", verbose)
		defer cleanup()

		vc, err := openVault()
		if err != nil {
			reportVaultError(spinner, err)
			return nil
		}
		defer vc.Close()

		records, err := vc.store.List()
		if err != nil {
			failSpinner(spinner, "Failed to list records", err)
			return nil
		}

		if len(records) == 0 {
			finalMessage := color.YellowString("⚠") + " The vault is empty\n" +
				color.CyanString("→") + " Run " + color.YellowString("sealbox vault put <name>") + " to seal a record"
			spinner.FinalMSG = finalMessage
			return nil
		}

		spinner.Stop()
		for _, record := range records {
			fmt.Printf("%s  %s  %s\n",
				record.Name,
				color.HiBlackString("purpose=%s", record.Purpose),
				color.HiBlackString(record.UpdatedAt.Format("2006-01-02 15:04")))
		}
		return nil
	},
}
