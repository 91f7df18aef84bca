// Package errors provides typed error values for the sealbox application.
//
// Using sentinel errors allows callers to handle specific error conditions
// programmatically with errors.Is() rather than string matching. This makes
// error handling more robust and refactoring-safe.
//
// # Error Categories
//
// Errors are grouped by category:
//
//   - Configuration errors: Master key or vault setup problems
//     (ErrNoMasterKey, ErrInvalidMasterKey, ErrVaultNotInitialized)
//   - Integrity errors: Untrustworthy ciphertext or key material
//     (ErrDecryptionFailed, ErrMalformedKeyFile)
//   - Rotation errors: Re-encryption under a new secret failed (ErrRotationFailed)
//   - Vault errors: Stored record state issues (ErrRecordNotFound, ErrRecordExists)
//
// Password and HMAC verification mismatches are NOT errors in this taxonomy.
// They are normal outcomes and are reported as a boolean false by the crypto
// package.
//
// # Usage
//
// Return errors from internal packages:
//
//	if len(decoded) < crypto.BlobOverhead {
//	    return nil, errors.ErrDecryptionFailed
//	}
//
// Handle errors in the CLI layer:
//
//	plaintext, err := svc.Decrypt(blob, purpose)
//	if errors.Is(err, serrors.ErrDecryptionFailed) {
//	    // Show user-friendly message
//	}
//
// Wrap errors with additional context:
//
//	return fmt.Errorf("opening vault at %s: %w", path, errors.ErrVaultNotInitialized)
package errors
