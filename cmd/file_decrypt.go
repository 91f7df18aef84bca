package cmd

import (
	"crypto/sha256"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/sealbox-dev/sealbox/internal/crypto"
	"github.com/sealbox-dev/sealbox/internal/ui"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var fileDecryptCmd = &cobra.Command{
	Use:   "decrypt <file>",
	Short: "Decrypts a file under the key file",
	Long: `Decrypts a file produced by "sealbox file encrypt" using the key file.

The authentication tag is verified over the whole stream; on a
mismatch the output file is removed and nothing is recovered. The
default output path strips the .enc suffix from the input path.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		Logger.Infof("Starting file decrypt command")
		spinner, cleanup := startSpinner("Decrypting file...", verbose)
		defer cleanup()

		inputPath := args[0]
		outputPath := fileOutPath
		if outputPath == "" {
			if !strings.HasSuffix(inputPath, ".enc") {
				spinner.FinalMSG = color.RedString("✗") + " Cannot infer an output path from " + ui.Path.Sprint(inputPath) + "\n" +
					color.CyanString("→") + " Pass one with " + ui.Code.Sprint("--out")
				return nil
			}
			outputPath = strings.TrimSuffix(inputPath, ".enc")
		}

		key, err := crypto.LoadFileKey(fileKeyPath)
		if err != nil {
			failSpinner(spinner, "Failed to load the key file", err)
			return nil
		}
		defer crypto.ClearBytes(key)

		if err := decryptFile(inputPath, outputPath, key); err != nil {
			// Never leave unverified plaintext behind.
			_ = os.Remove(outputPath)
			failSpinner(spinner, "Failed to decrypt "+inputPath, err)
			return nil
		}

		spinner.FinalMSG = color.GreenString("✓") + " Decrypted " + ui.Path.Sprint(inputPath) + " to " + ui.Path.Sprint(outputPath)
		return nil
	},
}

// decryptFile reads the IV header, splits the trailing authentication tag
// off the input, streams the ciphertext through the decrypter into output,
// and verifies the tag.
func decryptFile(inputPath, outputPath string, key []byte) error {
	in, err := os.Open(inputPath)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat input: %w", err)
	}
	if info.Size() < crypto.IVSize+sha256.Size {
		return fmt.Errorf("input is too short to carry an IV and authentication tag")
	}
	ciphertextSize := info.Size() - crypto.IVSize - sha256.Size

	iv := make([]byte, crypto.IVSize)
	if _, err := io.ReadFull(in, iv); err != nil {
		return fmt.Errorf("failed to read IV header: %w", err)
	}

	tag := make([]byte, sha256.Size)
	if _, err := in.ReadAt(tag, crypto.IVSize+ciphertextSize); err != nil {
		return fmt.Errorf("failed to read authentication tag: %w", err)
	}

	dec, err := crypto.NewStreamDecrypter(key, iv, tag, io.LimitReader(in, ciphertextSize))
	if err != nil {
		return err
	}

	// #nosec G304 -- outputPath comes from the user running the command.
	out, err := os.OpenFile(outputPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
	if err != nil {
		return fmt.Errorf("failed to create output: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, dec); err != nil {
		return fmt.Errorf("failed to decrypt: %w", err)
	}
	if err := dec.Close(); err != nil {
		return err
	}

	return out.Close()
}
