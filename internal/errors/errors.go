package errors

import "errors"

// Configuration errors indicate the master key or vault setup is unusable.
// These are fatal at startup: the CLI refuses to run rather than operating
// with a wrong or missing secret.
var (
	// ErrNoMasterKey indicates no master key could be resolved from any source.
	ErrNoMasterKey = errors.New("no master key configured")

	// ErrInvalidMasterKey indicates the master key does not decode to exactly 32 bytes.
	ErrInvalidMasterKey = errors.New("master key must decode to exactly 32 bytes")

	// ErrVaultNotInitialized indicates the current project has no sealbox vault.
	ErrVaultNotInitialized = errors.New("vault has not been initialized")

	// ErrVaultAlreadyInitialized indicates the current project already has a vault.
	ErrVaultAlreadyInitialized = errors.New("vault has already been initialized")
)

// Integrity errors indicate a blob or key file could not be trusted.
var (
	// ErrDecryptionFailed is the single signal for every decryption failure:
	// malformed blob, truncated data, tag mismatch, or wrong key/purpose.
	// The cause is deliberately not distinguished to avoid decryption oracles.
	ErrDecryptionFailed = errors.New("decryption failed")

	// ErrMalformedKeyFile indicates a file-encryption key file could not be parsed.
	ErrMalformedKeyFile = errors.New("malformed key file")

	// ErrInsecureKeyFile indicates a key file has permissions wider than 0600.
	ErrInsecureKeyFile = errors.New("key file has insecure permissions")
)

// Rotation errors indicate a master-secret rotation could not complete.
// The active secret is always restored before one of these is returned.
var (
	// ErrRotationFailed indicates a blob could not be re-encrypted under a new secret.
	ErrRotationFailed = errors.New("rotation failed")
)

// Vault errors indicate issues with stored records.
var (
	// ErrRecordNotFound indicates the named record does not exist in the vault.
	ErrRecordNotFound = errors.New("record not found")

	// ErrRecordExists indicates a record with that name already exists.
	ErrRecordExists = errors.New("record already exists")
)
