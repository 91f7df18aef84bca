package crypto

import (
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

// HashPassword hashes a password with a fresh random salt and returns the
// record as hex(salt):hex(hash). Passwords run through scrypt directly, not
// through purpose-scoped derivation: they are not domain-separated, and the
// 64-byte output length keeps password hashes distinguishable from the
// 32-byte encryption keys.
func HashPassword(password string) (string, error) {
	salt, err := randomBytes(SaltSize)
	if err != nil {
		return "", err
	}

	hash, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, PasswordHashSize)
	if err != nil {
		return "", fmt.Errorf("scrypt password hashing failed: %w", err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(hash), nil
}

// VerifyPassword recomputes the hash with the stored salt and compares in
// constant time. A malformed record (wrong field count, bad hex, wrong
// lengths) is a verification failure, never an error: verification fails
// closed.
func VerifyPassword(password, record string) bool {
	parts := strings.Split(record, ":")
	if len(parts) != 2 {
		return false
	}

	salt, err := hex.DecodeString(parts[0])
	if err != nil || len(salt) != SaltSize {
		return false
	}

	want, err := hex.DecodeString(parts[1])
	if err != nil || len(want) != PasswordHashSize {
		return false
	}

	got, err := scrypt.Key([]byte(password), salt, ScryptN, ScryptR, ScryptP, PasswordHashSize)
	if err != nil {
		return false
	}

	return subtle.ConstantTimeCompare(got, want) == 1
}
