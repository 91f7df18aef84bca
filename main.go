package main

import (
	"fmt"
	"os"

	"github.com/sealbox-dev/sealbox/cmd"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "sealbox",
	Short: "Sealbox - A CLI for sealing secrets, hashing passwords, and encrypting files.",
	Long: `Sealbox is a command-line tool for application-level cryptography:
a per-project vault of sealed records, password hashing, token and API key
generation, HMAC signing, and file encryption.

Features:
  - Seal and unseal named records in a per-project vault
  - Rotate the master key and re-encrypt everything under it
  - Hash and verify passwords with a memory-hard KDF
  - Generate secure random tokens and API keys
  - Sign and verify messages with HMAC-SHA256
  - Encrypt files of any size under a standalone key file

Usage:
  sealbox <command> [flags]

Available Commands:
  vault      Manage the sealed-record vault
  password   Hash and verify passwords
  token      Generate tokens and API keys
  hmac       Sign and verify messages
  file       Encrypt and decrypt files
  config     Inspect the configuration

Run 'sealbox help <command>' for more details on a specific command.
`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("Welcome to Sealbox! Run 'sealbox --help' to see available commands.")
	},
}

func main() {
	rootCmd.AddCommand(cmd.VaultCmd)
	rootCmd.AddCommand(cmd.PasswordCmd)
	rootCmd.AddCommand(cmd.TokenCmd)
	rootCmd.AddCommand(cmd.HmacCmd)
	rootCmd.AddCommand(cmd.FileCmd)
	rootCmd.AddCommand(cmd.ConfigCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
