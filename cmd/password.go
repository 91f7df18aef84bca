package cmd

import (
	"fmt"

	"github.com/sealbox-dev/sealbox/internal/crypto"
	logger "github.com/sealbox-dev/sealbox/internal/logging"
	"github.com/sealbox-dev/sealbox/internal/ui"
	"github.com/sealbox-dev/sealbox/internal/utils"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var PasswordCmd = &cobra.Command{
	Use:   "password",
	Short: "Hash and verify passwords",
	Long:  `Hashes passwords with a memory-hard KDF and verifies them in constant time.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		Logger = logger.Logger{
			Verbose: verbose,
			Debug:   debug,
		}
	},
}

func init() {
	PasswordCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	PasswordCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug output")

	PasswordCmd.AddCommand(passwordHashCmd)
	PasswordCmd.AddCommand(passwordVerifyCmd)
}

// readPassword returns the password from args if present, otherwise prompts
// for it without echo.
func readPassword(args []string, index int) (string, error) {
	if len(args) > index {
		return args[index], nil
	}
	secret, err := utils.ReadSecret("Password: ")
	if err != nil {
		return "", err
	}
	defer crypto.ClearBytes(secret)
	return string(secret), nil
}

var passwordHashCmd = &cobra.Command{
	Use:   "hash [password]",
	Short: "Hashes a password into a salted, storable record",
	Long: `Hashes a password with scrypt and prints the record to stdout.

The record has the form hex(salt):hex(hash) with a fresh random salt,
so hashing the same password twice produces different records. Store
the record; verify later with "sealbox password verify".

If no password argument is given, it is read from the terminal without
echo.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting password hash command")

		password, err := readPassword(args, 0)
		if err != nil {
			Logger.Errorf("Failed to read password: %v", err)
			fmt.Println(ui.Error.Sprint("✗") + " Failed to read password: " + err.Error())
			return nil
		}

		record, err := crypto.HashPassword(password)
		if err != nil {
			Logger.Errorf("Failed to hash password: %v", err)
			fmt.Println(ui.Error.Sprint("✗") + " Failed to hash password: " + err.Error())
			return nil
		}

		fmt.Println(record)
		return nil
	},
}

var passwordVerifyCmd = &cobra.Command{
	Use:   "verify <record> [password]",
	Short: "Verifies a password against a stored record",
	Long: `Recomputes the hash with the record's salt and compares in constant time.

A malformed record verifies as false rather than erroring, so the exit
message never reveals whether the record or the password was wrong.

If no password argument is given, it is read from the terminal without
echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting password verify command")

		password, err := readPassword(args, 1)
		if err != nil {
			Logger.Errorf("Failed to read password: %v", err)
			fmt.Println(ui.Error.Sprint("✗") + " Failed to read password: " + err.Error())
			return nil
		}

		if crypto.VerifyPassword(password, args[0]) {
			fmt.Println(color.GreenString("✓") + " Password matches")
			return nil
		}

		fmt.Println(color.RedString("✗") + " Password does not match")
		return nil
	},
}
