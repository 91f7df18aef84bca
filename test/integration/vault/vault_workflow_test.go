package vault_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sealbox-dev/sealbox/internal/configs"
	"github.com/sealbox-dev/sealbox/test/integration/shared"
)

// TestVaultWorkflow exercises the full put/get/ls/rm lifecycle of the
// `sealbox vault` commands.
func TestVaultWorkflow(t *testing.T) {
	originalWd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get original working directory: %v", err)
	}
	originalUserSettings := configs.UserSealboxSettings

	t.Run("InitInEmptyFolder", func(t *testing.T) {
		testInitInEmptyFolder(t, originalWd, originalUserSettings)
	})

	t.Run("InitInAlreadyInitializedFolder", func(t *testing.T) {
		testInitInAlreadyInitializedFolder(t, originalWd, originalUserSettings)
	})

	t.Run("PutGetListRemove", func(t *testing.T) {
		testPutGetListRemove(t, originalWd, originalUserSettings)
	})

	t.Run("WarnsOnInsecureKeyFile", func(t *testing.T) {
		testWarnsOnInsecureKeyFile(t, originalWd, originalUserSettings)
	})

	t.Run("CompactKeepsRecords", func(t *testing.T) {
		testCompactKeepsRecords(t, originalWd, originalUserSettings)
	})

	t.Run("DestroyRemovesEverything", func(t *testing.T) {
		testDestroyRemovesEverything(t, originalWd, originalUserSettings)
	})

	t.Run("GetMissingRecord", func(t *testing.T) {
		testGetMissingRecord(t, originalWd, originalUserSettings)
	})

	t.Run("PutWithoutInit", func(t *testing.T) {
		testPutWithoutInit(t, originalWd, originalUserSettings)
	})
}

func makeTempDirs(t *testing.T, pattern string) (string, string) {
	tempDir, err := os.MkdirTemp("", "sealbox-test-"+pattern+"-*")
	if err != nil {
		t.Fatalf("Failed to create temp directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempDir) })

	tempUserDir, err := os.MkdirTemp("", "sealbox-user-*")
	if err != nil {
		t.Fatalf("Failed to create temp user directory: %v", err)
	}
	t.Cleanup(func() { os.RemoveAll(tempUserDir) })

	return tempDir, tempUserDir
}

func testInitInEmptyFolder(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "init-empty")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	keyFile := tempDir + "/master.key"
	output, err := shared.RunCLI("vault", "init", "--key-file", keyFile)
	if err != nil {
		t.Errorf("Command failed: %v", err)
		t.Errorf("Output: %s", output)
	}

	shared.VerifyProjectStructure(t, tempDir)

	if _, err := os.Stat(keyFile); os.IsNotExist(err) {
		t.Errorf("Master key file was not created at %s", keyFile)
	}

	if !strings.Contains(output, "initialized successfully") {
		t.Errorf("Expected success message not found in output: %s", output)
	}
}

func testInitInAlreadyInitializedFolder(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "init-existing")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	shared.InitializeVault(t, tempDir)

	output, err := shared.RunCLI("vault", "init")
	if err != nil {
		t.Errorf("Command failed: %v", err)
	}

	if !strings.Contains(output, "already been initialized") {
		t.Errorf("Expected already-initialized message not found in output: %s", output)
	}
}

func testPutGetListRemove(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "workflow")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	shared.InitializeVault(t, tempDir)

	// Seal two records, one with an explicit purpose.
	output, err := shared.RunCLI("vault", "put", "db-password", "hunter2")
	if err != nil {
		t.Fatalf("put failed: %v\noutput: %s", err, output)
	}
	output, err = shared.RunCLI("vault", "put", "api-token", "tok_123", "--purpose", "tokens")
	if err != nil {
		t.Fatalf("put failed: %v\noutput: %s", err, output)
	}

	// Unseal and check the plaintext comes back verbatim.
	output, err = shared.RunCLI("vault", "get", "db-password")
	if err != nil {
		t.Fatalf("get failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "hunter2") {
		t.Errorf("Expected plaintext in get output, got: %s", output)
	}

	// The sealed blob must not appear anywhere in plain listing output.
	output, err = shared.RunCLI("vault", "ls")
	if err != nil {
		t.Fatalf("ls failed: %v\noutput: %s", err, output)
	}
	for _, name := range []string{"db-password", "api-token"} {
		if !strings.Contains(output, name) {
			t.Errorf("Expected %s in ls output, got: %s", name, output)
		}
	}
	if strings.Contains(output, "hunter2") || strings.Contains(output, "tok_123") {
		t.Errorf("Plaintext leaked into ls output: %s", output)
	}

	// Overwrite without --force must be refused.
	output, err = shared.RunCLI("vault", "put", "db-password", "changed")
	if err != nil {
		t.Fatalf("put failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "--force") {
		t.Errorf("Expected overwrite hint in output: %s", output)
	}
	output, err = shared.RunCLI("vault", "get", "db-password")
	if err != nil || !strings.Contains(output, "hunter2") {
		t.Errorf("Record changed without --force: %v %s", err, output)
	}

	// With --force the record is replaced.
	if output, err = shared.RunCLI("vault", "put", "db-password", "changed", "--force"); err != nil {
		t.Fatalf("forced put failed: %v\noutput: %s", err, output)
	}
	output, err = shared.RunCLI("vault", "get", "db-password")
	if err != nil || !strings.Contains(output, "changed") {
		t.Errorf("Forced put did not replace the record: %v %s", err, output)
	}

	// Remove and confirm it is gone.
	if output, err = shared.RunCLI("vault", "rm", "api-token", "--force"); err != nil {
		t.Fatalf("rm failed: %v\noutput: %s", err, output)
	}
	output, err = shared.RunCLI("vault", "ls")
	if err != nil {
		t.Fatalf("ls failed: %v\noutput: %s", err, output)
	}
	if strings.Contains(output, "api-token") {
		t.Errorf("Removed record still listed: %s", output)
	}
}

func testWarnsOnInsecureKeyFile(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "insecure-keyfile")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	shared.InitializeVault(t, tempDir)

	keyFile := filepath.Join(tempDir, "master.key")
	if err := os.Chmod(keyFile, 0644); err != nil {
		t.Fatalf("Failed to chmod key file: %v", err)
	}

	output, err := shared.RunCLI("vault", "ls")
	if err != nil {
		t.Fatalf("ls failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "[warn] Master key file") || !strings.Contains(output, "0600") {
		t.Errorf("Expected an insecure key file warning, got: %s", output)
	}

	if err := os.Chmod(keyFile, 0600); err != nil {
		t.Fatalf("Failed to chmod key file: %v", err)
	}
	output, err = shared.RunCLI("vault", "ls")
	if err != nil {
		t.Fatalf("ls failed: %v\noutput: %s", err, output)
	}
	if strings.Contains(output, "[warn] Master key file") {
		t.Errorf("Warning shown for a 0600 key file: %s", output)
	}
}

func testCompactKeepsRecords(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "compact")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	shared.InitializeVault(t, tempDir)

	if output, err := shared.RunCLI("vault", "put", "db-password", "hunter2"); err != nil {
		t.Fatalf("put failed: %v\noutput: %s", err, output)
	}
	if output, err := shared.RunCLI("vault", "put", "api-token", "tok-123"); err != nil {
		t.Fatalf("put failed: %v\noutput: %s", err, output)
	}
	if output, err := shared.RunCLI("vault", "rm", "api-token", "--force"); err != nil {
		t.Fatalf("rm failed: %v\noutput: %s", err, output)
	}

	output, err := shared.RunCLI("vault", "compact")
	if err != nil {
		t.Fatalf("compact failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "Vault compacted") {
		t.Errorf("Expected compaction message, got: %s", output)
	}
	if _, err := os.Stat(filepath.Join(tempDir, ".sealbox", "vault.db.compact")); !os.IsNotExist(err) {
		t.Errorf("Compaction left its temporary database behind")
	}

	output, err = shared.RunCLI("vault", "get", "db-password")
	if err != nil {
		t.Fatalf("get failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "hunter2") {
		t.Errorf("Record unreadable after compaction: %s", output)
	}
}

func testDestroyRemovesEverything(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "destroy")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	shared.InitializeVault(t, tempDir)

	if output, err := shared.RunCLI("vault", "put", "db-password", "hunter2"); err != nil {
		t.Fatalf("put failed: %v\noutput: %s", err, output)
	}

	output, err := shared.RunCLI("vault", "destroy", "--force")
	if err != nil {
		t.Fatalf("destroy failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "destroyed") {
		t.Errorf("Expected destruction message, got: %s", output)
	}

	if _, err := os.Stat(filepath.Join(tempDir, ".sealbox")); !os.IsNotExist(err) {
		t.Errorf(".sealbox directory still exists after destroy")
	}
	if _, err := os.Stat(filepath.Join(tempDir, "master.key")); !os.IsNotExist(err) {
		t.Errorf("Master key file still exists after destroy")
	}

	output, err = shared.RunCLI("vault", "get", "db-password")
	if err != nil {
		t.Fatalf("get failed: %v\noutput: %s", err, output)
	}
	if !strings.Contains(output, "has not been initialized") {
		t.Errorf("Expected not-initialized message after destroy, got: %s", output)
	}
}

func testGetMissingRecord(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "get-missing")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)
	shared.InitializeVault(t, tempDir)

	output, err := shared.RunCLI("vault", "get", "nope")
	if err != nil {
		t.Fatalf("get failed: %v", err)
	}
	if !strings.Contains(output, "No record named") {
		t.Errorf("Expected not-found message, got: %s", output)
	}
}

func testPutWithoutInit(t *testing.T, originalWd string, originalUserSettings *configs.UserSettings) {
	tempDir, tempUserDir := makeTempDirs(t, "no-init")
	shared.SetupTestEnvironment(t, tempDir, tempUserDir, originalWd, originalUserSettings)

	output, err := shared.RunCLI("vault", "put", "name", "value")
	if err != nil {
		t.Fatalf("put failed: %v", err)
	}
	if !strings.Contains(output, "has not been initialized") {
		t.Errorf("Expected not-initialized message, got: %s", output)
	}
}
