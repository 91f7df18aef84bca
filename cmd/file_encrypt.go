package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/sealbox-dev/sealbox/internal/crypto"
	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var fileEncryptCmd = &cobra.Command{
	Use:   "encrypt <file>",
	Short: "Encrypts a file under the key file",
	Long: `Encrypts a file of any size using the key file.

Every encryption generates a fresh IV, so one key file can safely cover
many files. The output is the 16-byte IV, the encrypted stream, then a
32-byte authentication tag, so tampering is detected on decryption. The
default output path is the input path with a .enc suffix.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting file encrypt command")
		spinner, cleanup := startSpinner("Encrypting file...", verbose)
		defer cleanup()

		inputPath := args[0]
		outputPath := fileOutPath
		if outputPath == "" {
			outputPath = inputPath + ".enc"
		}

		key, err := crypto.LoadFileKey(fileKeyPath)
		if err != nil {
			failSpinner(spinner, "Failed to load the key file", err)
			return nil
		}
		defer crypto.ClearBytes(key)

		iv, err := crypto.GenerateIV()
		if err != nil {
			failSpinner(spinner, "Failed to generate an IV", err)
			return nil
		}

		if err := encryptFile(inputPath, outputPath, key, iv); err != nil {
			failSpinner(spinner, "Failed to encrypt "+inputPath, err)
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Encrypted " + ui.Path.Sprint(inputPath) + " to " + ui.Path.Sprint(outputPath)
		return nil
	},
}

// encryptFile streams input through the encrypter into output. The output
// starts with the IV and ends with the authentication tag, so the key file
// never has to carry an IV.
func encryptFile(inputPath, outputPath string, key, iv []byte) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	// #nosec G304 -- outputPath comes from the user running the command.
	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()

	if _, err := out.Write(iv); err != nil {
		return fmt.Errorf("failed to write IV header: %w", err)
	}

	enc, err := crypto.NewStreamEncrypter(key, iv, out)
	if err != nil {
		return err
	}

	if _, err := io.Copy(enc, in); err != nil {
		return fmt.Errorf("failed to encrypt: %w", err)
	}
	if err := enc.Close(); err != nil {
		return err
	}

	if _, err := out.Write(enc.Tag()); err != nil {
		return fmt.Errorf("failed to write authentication tag: %w", err)
	}

	return out.Close()
}
