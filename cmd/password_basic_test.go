package cmd

import (
	"regexp"
	"strings"
	"testing"
)

var passwordRecordPattern = regexp.MustCompile(`(?m)^[0-9a-f]{64}:[0-9a-f]{128}$`)

// TestPasswordHashBasic contains basic tests for the `sealbox password hash` command.
func TestPasswordHashBasic(t *testing.T) {
	t.Run("ProducesRecord", func(t *testing.T) {
		output, err := runTestCLI(t, "password", "hash", "correct horse battery staple")
		if err != nil {
			t.Errorf("Command failed: %v", err)
			t.Errorf("Output: %s", output)
		}
		if !passwordRecordPattern.MatchString(output) {
			t.Errorf("Output is not a salt:hash record: %s", output)
		}
	})

	t.Run("RecordsAreSalted", func(t *testing.T) {
		first, err := runTestCLI(t, "password", "hash", "same")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		second, err := runTestCLI(t, "password", "hash", "same")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if strings.TrimSpace(first) == strings.TrimSpace(second) {
			t.Error("Two hashes of the same password are identical")
		}
	})
}

// TestPasswordVerifyBasic contains basic tests for the `sealbox password verify` command.
func TestPasswordVerifyBasic(t *testing.T) {
	output, err := runTestCLI(t, "password", "hash", "Tr0ub4dor&3")
	if err != nil {
		t.Fatalf("hash failed: %v", err)
	}
	record := passwordRecordPattern.FindString(output)
	if record == "" {
		t.Fatalf("No record in hash output: %s", output)
	}

	t.Run("CorrectPassword", func(t *testing.T) {
		output, err := runTestCLI(t, "password", "verify", record, "Tr0ub4dor&3")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !strings.Contains(output, "Password matches") {
			t.Errorf("Expected match message, got: %s", output)
		}
	})

	t.Run("WrongPassword", func(t *testing.T) {
		output, err := runTestCLI(t, "password", "verify", record, "troubador")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !strings.Contains(output, "does not match") {
			t.Errorf("Expected mismatch message, got: %s", output)
		}
	})

	t.Run("MalformedRecord", func(t *testing.T) {
		output, err := runTestCLI(t, "password", "verify", "garbage", "Tr0ub4dor&3")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !strings.Contains(output, "does not match") {
			t.Errorf("Malformed record must verify as false, got: %s", output)
		}
	})
}
