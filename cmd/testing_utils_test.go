package cmd

import (
	"bytes"
	"io"
	"log"
	"os"
	"testing"

	logger "github.com/sealbox-dev/sealbox/internal/logging"

	"github.com/spf13/cobra"
)

// captureOutput captures both stdout and stderr during function execution.
func captureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stdoutReader); err != nil {
			log.Fatalf("Failed to copy captured stdout: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		if _, err := io.Copy(&buf, stderrReader); err != nil {
			log.Fatalf("Failed to copy captured stderr: %s", err)
		}
		outputChan <- buf.String()
	}()

	err := fn()

	stdoutWriter.Close()
	stderrWriter.Close()

	os.Stdout = originalStdout
	os.Stderr = originalStderr

	stdout := <-outputChan
	stderr := <-outputChan

	return stdout + stderr, err
}

// runTestCLI executes the given args against a fresh root wired to the real
// command groups, returning the combined output.
func runTestCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()

	ResetGlobalState()
	Logger = logger.Logger{}

	root := &cobra.Command{Use: "sealbox"}
	root.AddCommand(VaultCmd)
	root.AddCommand(PasswordCmd)
	root.AddCommand(TokenCmd)
	root.AddCommand(HmacCmd)
	root.AddCommand(FileCmd)
	root.AddCommand(ConfigCmd)
	root.SetArgs(args)

	return captureOutput(root.Execute)
}
