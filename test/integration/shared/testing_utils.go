// Package shared contains testing utilities shared between integration tests.
// This file provides common functions for setting up test environments,
// capturing output, and building CLI instances wired to the real commands.
package shared

import (
	"bytes"
	"encoding/base64"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/sealbox-dev/sealbox/cmd"
	"github.com/sealbox-dev/sealbox/internal/configs"
	logger "github.com/sealbox-dev/sealbox/internal/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// TestMasterKey is a fixed base64 32-byte master key for tests that exercise
// the SEALBOX_MASTER_KEY environment override.
var TestMasterKey = base64.StdEncoding.EncodeToString(bytes.Repeat([]byte{0x42}, 32))

// SetupTestEnvironment moves the test into a temp directory and points the
// user settings at a second temp directory. The master key environment
// variable is cleared so an ambient key can never leak into a test; vault
// tests use --key-file to avoid the OS keyring.
func SetupTestEnvironment(t *testing.T, tempDir, tempUserDir, originalWd string, originalUserSettings *configs.UserSettings) {
	if err := os.Chdir(tempDir); err != nil {
		t.Fatalf("Failed to change to temp directory: %v", err)
	}

	t.Setenv(configs.MasterKeyEnv, "")

	t.Cleanup(func() {
		if err := os.Chdir(originalWd); err != nil {
			t.Fatalf("Failed to change to original directory: %v", err)
		}
		configs.UserSealboxSettings = originalUserSettings
		configs.ProjectSealboxSettings = &configs.ProjectSettings{}
		cmd.ResetGlobalState()
	})

	configs.UserSealboxSettings = &configs.UserSettings{
		UserConfigsPath: filepath.Join(tempUserDir, "config"),
		UserDataPath:    filepath.Join(tempUserDir, "data"),
	}
	configs.ProjectSealboxSettings = &configs.ProjectSettings{}
}

// CaptureOutput captures both stdout and stderr during function execution.
func CaptureOutput(fn func() error) (string, error) {
	originalStdout := os.Stdout
	originalStderr := os.Stderr

	stdoutReader, stdoutWriter, _ := os.Pipe()
	stderrReader, stderrWriter, _ := os.Pipe()

	os.Stdout = stdoutWriter
	os.Stderr = stderrWriter

	outputChan := make(chan string, 2)

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stdoutReader)
		if err != nil {
			log.Fatalf("Failed to copy captured stdout: %s", err)
		}
		outputChan <- buf.String()
	}()

	go func() {
		var buf bytes.Buffer
		_, err := io.Copy(&buf, stderrReader)
		if err != nil {
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

// ResetCommandFlags restores every flag on the command tree to its default
// value so flag state never leaks between tests.
func ResetCommandFlags(c *cobra.Command) {
	reset := func(fs *pflag.FlagSet) {
		fs.VisitAll(func(f *pflag.Flag) {
			if f.Changed {
				if err := f.Value.Set(f.DefValue); err != nil {
					log.Fatalf("Failed to reset flag %s: %s", f.Name, err)
				}
				f.Changed = false
			}
		})
	}
	reset(c.Flags())
	reset(c.PersistentFlags())
	for _, sub := range c.Commands() {
		ResetCommandFlags(sub)
	}
}

// CreateTestCLI creates a root command wired to the real command groups with
// the given args already set.
func CreateTestCLI(args []string, stdout, stderr io.Writer, verboseFlag, debugFlag bool) *cobra.Command {
	cmd.ResetGlobalState()
	cmd.SetVerbose(verboseFlag)
	cmd.SetDebug(debugFlag)
	cmd.SetLogger(logger.Logger{
		Verbose: verboseFlag,
		Debug:   debugFlag,
	})

	rootCmd := &cobra.Command{
		Use:   "sealbox",
		Short: "Sealbox - A CLI for sealing secrets, hashing passwords, and encrypting files.",
	}

	groups := []*cobra.Command{
		cmd.VaultCmd,
		cmd.PasswordCmd,
		cmd.TokenCmd,
		cmd.HmacCmd,
		cmd.FileCmd,
		cmd.ConfigCmd,
	}
	for _, group := range groups {
		ResetCommandFlags(group)
		rootCmd.AddCommand(group)
		if stdout != nil {
			group.SetOut(stdout)
			for _, subcmd := range group.Commands() {
				subcmd.SetOut(stdout)
			}
		}
		if stderr != nil {
			group.SetErr(stderr)
			for _, subcmd := range group.Commands() {
				subcmd.SetErr(stderr)
			}
		}
	}

	if stdout != nil {
		rootCmd.SetOut(stdout)
	}
	if stderr != nil {
		rootCmd.SetErr(stderr)
	}

	rootCmd.SetArgs(args)
	return rootCmd
}

// RunCLI executes the given sealbox CLI args and returns the combined output.
func RunCLI(args ...string) (string, error) {
	return CaptureOutput(func() error {
		return CreateTestCLI(args, nil, nil, false, false).Execute()
	})
}

// VerifyProjectStructure verifies that vault init created the expected files.
func VerifyProjectStructure(t *testing.T, tempDir string) {
	sealboxDir := filepath.Join(tempDir, ".sealbox")
	if _, err := os.Stat(sealboxDir); os.IsNotExist(err) {
		t.Errorf(".sealbox directory was not created")
	}

	configFile := filepath.Join(sealboxDir, "config.toml")
	if _, err := os.Stat(configFile); os.IsNotExist(err) {
		t.Errorf("config file was not created at %s", configFile)
	}

	vaultFile := filepath.Join(sealboxDir, "vault.db")
	if _, err := os.Stat(vaultFile); os.IsNotExist(err) {
		t.Errorf("vault database was not created at %s", vaultFile)
	}
}

// InitializeVault initializes a vault in the current test directory using a
// key file so tests never touch the OS keyring.
func InitializeVault(t *testing.T, tempDir string) {
	keyFile := filepath.Join(tempDir, "master.key")
	output, err := RunCLI("vault", "init", "--key-file", keyFile)
	if err != nil {
		t.Fatalf("Failed to initialize vault: %v\noutput: %s", err, output)
	}
	VerifyProjectStructure(t, tempDir)
}
