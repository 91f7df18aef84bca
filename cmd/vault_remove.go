package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/sealbox-dev/sealbox/internal/audit"
	serrors "github.com/sealbox-dev/sealbox/internal/errors"
	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/briandowns/spinner"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var removeForce bool

func init() {
	removeCmd.Flags().BoolVar(&removeForce, "force", false, "skip confirmation prompt")
}

// resetRemoveCommandState resets the remove command's global state for testing.
func resetRemoveCommandState() {
	removeForce = false
}

// confirmRemove prompts the user to confirm removal of a record.
// Returns true if the user confirms, false otherwise.
func confirmRemove(s *spinner.Spinner, name string) bool {
	s.Stop()

	fmt.Printf("\n%s This permanently deletes the sealed record %s.\n", ui.Warning.Sprint("Warning:"), ui.Highlight.Sprint(name))
	fmt.Println("  There is no way to recover the value afterwards.")
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

var removeCmd = &cobra.Command{
	Use:     "rm <name>",
	Aliases: []string{"remove"},
	Short:   "Removes a record from the vault",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting rm command")
		name := args[0]

		spinner, cleanup := startSpinner("Removing record...", verbose)
		defer cleanup()

		vc, err := openVault()
		if err != nil {
			reportVaultError(spinner, err)
			return nil
		}
		defer vc.Close()

		if !removeForce && !confirmRemove(spinner, name) {
			spinner.FinalMSG = color.YellowString("⚠") + " Removal cancelled"
			return nil
		}

		if err := vc.store.Remove(name); err != nil {
			if errors.Is(err, serrors.ErrRecordNotFound) {
				spinner.FinalMSG = color.RedString("✗") + " No record named " + color.CyanString(name)
				return nil
			}
			failSpinner(spinner, "Failed to remove the record", err)
			return nil
		}

		audit.Log(audit.Entry{
			Operation: "rm",
			VaultUUID: vc.config.Vault.UUID,
			Record:    name,
		})

		spinner.FinalMSG = color.GreenString("✓") + " Record " + color.CyanString(name) + " removed"
		return nil
	},
}
