package crypto

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
)

// DefaultTokenSize is the number of random bytes in a token when no length
// is given.
const DefaultTokenSize = 32

// APIKeyPrefix marks sealbox-issued API keys.
const APIKeyPrefix = "pk_"

// GenerateToken returns length random bytes as a lowercase hex string.
// A length of zero or less falls back to DefaultTokenSize. No derivation is
// involved; tokens come straight from the secure random source.
func GenerateToken(length int) (string, error) {
	if length <= 0 {
		length = DefaultTokenSize
	}
	b, err := randomBytes(length)
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

// GenerateAPIKey returns "pk_" followed by 64 lowercase hex characters
// (32 random bytes).
func GenerateAPIKey() (string, error) {
	b, err := randomBytes(DefaultTokenSize)
	if err != nil {
		return "", err
	}
	return APIKeyPrefix + hex.EncodeToString(b), nil
}

// SignHMAC returns the hex HMAC-SHA256 digest of data under the given secret.
func SignHMAC(data []byte, secret string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(data)
	return hex.EncodeToString(mac.Sum(nil))
}

// CheckHMAC recomputes the digest and compares in constant time. A mismatch
// is a normal outcome, reported as false rather than an error.
func CheckHMAC(data []byte, signature, secret string) bool {
	expected := SignHMAC(data, secret)
	return hmac.Equal([]byte(expected), []byte(signature))
}

// CreateHMAC returns the hex HMAC-SHA256 digest of data. An empty secret
// defaults to the hex encoding of the active master secret, which is a
// convenience for internal integrity checks; callers providing their own
// secret are unaffected by master-secret rotation.
func (s *Service) CreateHMAC(data []byte, secret string) string {
	if secret == "" {
		secret = hex.EncodeToString(s.snapshot().secret)
	}
	return SignHMAC(data, secret)
}

// VerifyHMAC recomputes the digest and compares in constant time.
func (s *Service) VerifyHMAC(data []byte, signature, secret string) bool {
	return hmac.Equal([]byte(s.CreateHMAC(data, secret)), []byte(signature))
}
