package cmd

import (
	"fmt"

	"github.com/sealbox-dev/sealbox/internal/crypto"
	logger "github.com/sealbox-dev/sealbox/internal/logging"
	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/spf13/cobra"
)

var tokenLength int

var TokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Generate random tokens and API keys",
	Long:  `Generates cryptographically secure random tokens and prefixed API keys.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
	},
}

func init() {
	TokenCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	TokenCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	tokenNewCmd.Flags().IntVarP(&tokenLength, "length", "l", crypto.DefaultTokenSize, "number of random bytes in the token")

	TokenCmd.AddCommand(tokenNewCmd)
	TokenCmd.AddCommand(tokenAPIKeyCmd)
}

// resetTokenCommandState resets the token command's global state for testing.
func resetTokenCommandState() {
	tokenLength = crypto.DefaultTokenSize
}

var tokenNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generates a random hex token",
	Long: `Generates a token of hex-encoded random bytes and prints it to stdout.

The --length flag sets the number of random bytes; the printed token is
twice that many hex characters. The default is 32 bytes (64 characters).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting token new command with length=%d", tokenLength)

		token, err := crypto.GenerateToken(tokenLength)
		if err != nil {
			Logger.Errorf("Failed to generate token: %v", err)
			fmt.Println(ui.Error.Sprint("✗") + " Failed to generate token: " + err.Error())
			return nil
		}

		fmt.Println(token)
		return nil
	},
}

var tokenAPIKeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Generates a prefixed API key",
	Long: `Generates an API key of the form pk_ followed by 64 lowercase hex
characters and prints it to stdout.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting token apikey command")

		key, err := crypto.GenerateAPIKey()
		if err != nil {
			Logger.Errorf("Failed to generate API key: %v", err)
			fmt.Println(ui.Error.Sprint("✗") + " Failed to generate API key: " + err.Error())
			return nil
		}

		fmt.Println(key)
		return nil
	},
}
