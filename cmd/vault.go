package cmd

import (
	logger "github.com/sealbox-dev/sealbox/internal/logging"
	"github.com/spf13/cobra"
)

var (
	verbose bool
	debug   bool
	Logger  logger.Logger

	VaultCmd = &cobra.Command{
		Use:   "vault",
		Short: "Manage the sealed-record vault for this project",
		Long:  `Provides initialization, sealing, unsealing, listing, removal, rotation, compaction, teardown, and status of vault records.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			Logger = logger.Logger{
				Verbose: verbose,
				Debug:   debug,
			}
			Logger.Debugf("Initializing vault command with verbose=%t, debug=%t", verbose, debug)
		},
	}
)

func init() {
	VaultCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	VaultCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	VaultCmd.AddCommand(initCmd)
	VaultCmd.AddCommand(statusCmd)
	VaultCmd.AddCommand(putCmd)
	VaultCmd.AddCommand(getCmd)
	VaultCmd.AddCommand(listCmd)
	VaultCmd.AddCommand(removeCmd)
	VaultCmd.AddCommand(rotateCmd)
	VaultCmd.AddCommand(compactCmd)
	VaultCmd.AddCommand(destroyCmd)
}

// Helper functions for testing

// GetVaultCmd returns the VaultCmd for testing.
func GetVaultCmd() *cobra.Command {
	return VaultCmd
}

// ResetGlobalState resets all global variables to their default values for testing.
func ResetGlobalState() {
	verbose = false
	debug = false
	resetInitCommandState()
	resetPutCommandState()
	resetRemoveCommandState()
	resetRotateCommandState()
	resetDestroyCommandState()
	resetTokenCommandState()
	resetHmacCommandState()
	resetFileCommandState()
}

// SetVerbose sets the verbose flag for testing.
func SetVerbose(v bool) {
	verbose = v
}

// SetDebug sets the debug flag for testing.
func SetDebug(d bool) {
	debug = d
}

// SetLogger sets the logger for testing.
func SetLogger(l logger.Logger) {
	Logger = l
}
