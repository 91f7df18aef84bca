package cmd

import (
	logger "github.com/sealbox-dev/sealbox/internal/logging"

	"github.com/spf13/cobra"
)

var (
	fileKeyPath string
	fileOutPath string
)

var FileCmd = &cobra.Command{
	Use:   "file",
	Short: "Encrypt and decrypt files with a caller-managed key",
	Long: `Encrypts and decrypts files of any size using a standalone key file.

Unlike vault records, file encryption does not involve the master key:
generate a key file once with "sealbox file keygen", then pass it to
encrypt and decrypt. Losing the key file means losing the data.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
	},
}

func init() {
	FileCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	FileCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")
	FileCmd.PersistentFlags().StringVarP(&fileKeyPath, "key", "k", "sealbox.key", "path to the key file")

	fileEncryptCmd.Flags().StringVarP(&fileOutPath, "out", "o", "", "output path (default: input path plus .enc)")
	fileDecryptCmd.Flags().StringVarP(&fileOutPath, "out", "o", "", "output path (default: input path without .enc)")

	FileCmd.AddCommand(fileKeygenCmd)
	FileCmd.AddCommand(fileEncryptCmd)
	FileCmd.AddCommand(fileDecryptCmd)
}

// resetFileCommandState resets the file command's global state for testing.
func resetFileCommandState() {
	fileKeyPath = "sealbox.key"
	fileOutPath = ""
	fileKeygenForce = false
}
