package password_test

import (
	"os"
	"regexp"
	"strings"
	"testing"

	"github.com/sealbox-dev/sealbox/internal/configs"
	"github.com/sealbox-dev/sealbox/test/integration/shared"
)

var recordPattern = regexp.MustCompile(`(?m)^[0-9a-f]{64}:[0-9a-f]{128}$`)

// TestPasswordCommands exercises `sealbox password hash` and
// `sealbox password verify` through the CLI.
func TestPasswordCommands(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}
	originalUserSettings := configs.UserSealboxSettings

	tempDir, err := os.MkdirTemp("", "sealbox-test-password-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	tempUserDir, err := os.MkdirTemp("", "sealbox-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempUserDir) })

	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	t.Run("HashProducesRecord", func(t *testing.T) {
		output, err := shared.RunCLI("password", "hash", "Tr0ub4dor&3")
		if err != nil {
			t.Fatalf("hash failed: %v\noutput: %s", err, output)
		}
		if !recordPattern.MatchString(output) {
			t.Errorf("Output is not a salt:hash record: %s", output)
		}
	})

	t.Run("HashIsSalted", func(t *testing.T) {
		first, err := shared.RunCLI("password", "hash", "same-password")
		if err != nil {
			t.Fatalf("hash failed: %v", err)
		}
		second, err := shared.RunCLI("password", "hash", "same-password")
		if err != nil {
			t.Fatalf("hash failed: %v", err)
		}
		if strings.TrimSpace(first) == strings.TrimSpace(second) {
			t.Errorf("Two hashes of the same password are identical")
		}
	})

	t.Run("VerifyRoundTrip", func(t *testing.T) {
		output, err := shared.RunCLI("password", "hash", "Tr0ub4dor&3")
		if err != nil {
			t.Fatalf("hash failed: %v", err)
		}
		record := strings.TrimSpace(recordPattern.FindString(output))
		if record == "" {
			t.Fatalf("No record in hash output: %s", output)
		}

		output, err = shared.RunCLI("password", "verify", record, "Tr0ub4dor&3")
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if !strings.Contains(output, "Password matches") {
			t.Errorf("Expected match, got: %s", output)
		}

		output, err = shared.RunCLI("password", "verify", record, "wrong-password")
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if !strings.Contains(output, "does not match") {
			t.Errorf("Expected mismatch, got: %s", output)
		}
	})

	t.Run("VerifyMalformedRecord", func(t *testing.T) {
		output, err := shared.RunCLI("password", "verify", "not-a-record", "whatever")
		if err != nil {
			t.Fatalf("verify failed: %v", err)
		}
		if !strings.Contains(output, "does not match") {
			t.Errorf("Malformed record should verify as false, got: %s", output)
		}
	})
}
