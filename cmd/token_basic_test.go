package cmd

import (
	"regexp"
	"strings"
	"testing"
)

// TestTokenBasic contains basic tests for the `sealbox token` commands.
func TestTokenBasic(t *testing.T) {
	t.Run("NewDefaultLength", func(t *testing.T) {
		output, err := runTestCLI(t, "token", "new")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !regexp.MustCompile(`(?m)^[0-9a-f]{64}$`).MatchString(output) {
			t.Errorf("Expected 64 hex characters, got: %s", output)
		}
	})

	t.Run("NewWithLength", func(t *testing.T) {
		output, err := runTestCLI(t, "token", "new", "--length", "24")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !regexp.MustCompile(`(?m)^[0-9a-f]{48}$`).MatchString(output) {
			t.Errorf("Expected 48 hex characters for 24 bytes, got: %s", output)
		}
	})

	t.Run("APIKeyFormat", func(t *testing.T) {
		output, err := runTestCLI(t, "token", "apikey")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !regexp.MustCompile(`(?m)^pk_[0-9a-f]{64}$`).MatchString(output) {
			t.Errorf("API key does not match pk_ format: %s", output)
		}
	})
}

// TestHmacBasic tests `sealbox hmac` with an explicit secret, which needs no vault.
func TestHmacBasic(t *testing.T) {
	signOutput, err := runTestCLI(t, "hmac", "sign", "payload", "--secret", "s3cret")
	if err != nil {
		t.Fatalf("sign failed: %v", err)
	}
	signature := regexp.MustCompile(`(?m)^[0-9a-f]{64}$`).FindString(signOutput)
	if signature == "" {
		t.Fatalf("No digest in sign output: %s", signOutput)
	}

	t.Run("ValidSignature", func(t *testing.T) {
		output, err := runTestCLI(t, "hmac", "verify", signature, "payload", "--secret", "s3cret")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !strings.Contains(output, "Signature is valid") {
			t.Errorf("Expected valid message, got: %s", output)
		}
	})

	t.Run("TamperedMessage", func(t *testing.T) {
		output, err := runTestCLI(t, "hmac", "verify", signature, "Payload", "--secret", "s3cret")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if !strings.Contains(output, "does not match") {
			t.Errorf("Expected mismatch message, got: %s", output)
		}
	})

	t.Run("DeterministicForSameSecret", func(t *testing.T) {
		again, err := runTestCLI(t, "hmac", "sign", "payload", "--secret", "s3cret")
		if err != nil {
			t.Fatalf("Command failed: %v", err)
		}
		if regexp.MustCompile(`(?m)^[0-9a-f]{64}$`).FindString(again) != signature {
			t.Errorf("Same message and secret produced a different digest: %s", again)
		}
	})
}
