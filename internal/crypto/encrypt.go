package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"encoding/base64"
	"encoding/json"
	"fmt"

	serrors "github.com/sealbox-dev/sealbox/internal/errors"
)

// BlobOverhead is the minimum decoded size of a valid blob: everything
// before the ciphertext.
const BlobOverhead = SaltSize + IVSize + TagSize

// Encrypt seals plaintext under a key derived for purpose and returns the
// base64 blob: salt[32] ‖ iv[16] ‖ tag[16] ‖ ciphertext. Salt and IV are
// freshly random on every call, so encrypting the same plaintext twice never
// yields the same blob. An empty purpose means "general".
func (s *Service) Encrypt(plaintext []byte, purpose string) (string, error) {
	return s.snapshot().encrypt(plaintext, normalizePurpose(purpose))
}

// Decrypt reverses Encrypt. Decryption is all-or-nothing: a malformed blob,
// a tampered byte, or a wrong purpose/key all yield ErrDecryptionFailed with
// no further detail and no partial output.
func (s *Service) Decrypt(blob string, purpose string) ([]byte, error) {
	return s.snapshot().decrypt(blob, normalizePurpose(purpose))
}

// EncryptObject serializes v as JSON and encrypts the result. Any value
// representable in JSON round-trips through DecryptObject.
func (s *Service) EncryptObject(v any, purpose string) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to serialize value: %w", err)
	}
	return s.Encrypt(data, purpose)
}

// DecryptObject decrypts blob and unmarshals the plaintext into v.
func (s *Service) DecryptObject(blob string, purpose string, v any) error {
	data, err := s.Decrypt(blob, purpose)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to deserialize value: %w", err)
	}
	return nil
}

func (st *secretState) encrypt(plaintext []byte, purpose string) (string, error) {
	salt, err := randomBytes(SaltSize)
	if err != nil {
		return "", err
	}
	iv, err := randomBytes(IVSize)
	if err != nil {
		return "", err
	}

	key, err := st.deriveKey(purpose, salt)
	if err != nil {
		return "", err
	}

	gcm, err := newGCM(key)
	if err != nil {
		return "", err
	}

	// Seal appends the 16-byte tag after the ciphertext; the wire format
	// carries it between the IV and the ciphertext.
	sealed := gcm.Seal(nil, iv, plaintext, nil)
	ciphertext := sealed[:len(sealed)-TagSize]
	tag := sealed[len(sealed)-TagSize:]

	blob := make([]byte, 0, BlobOverhead+len(ciphertext))
	blob = append(blob, salt...)
	blob = append(blob, iv...)
	blob = append(blob, tag...)
	blob = append(blob, ciphertext...)

	return base64.StdEncoding.EncodeToString(blob), nil
}

func (st *secretState) decrypt(blob string, purpose string) ([]byte, error) {
	// Every failure below maps to the same generic error. Distinguishing
	// "malformed" from "tag mismatch" would hand an attacker a decryption
	// oracle.
	raw, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return nil, serrors.ErrDecryptionFailed
	}
	if len(raw) < BlobOverhead {
		return nil, serrors.ErrDecryptionFailed
	}

	salt := raw[:SaltSize]
	iv := raw[SaltSize : SaltSize+IVSize]
	tag := raw[SaltSize+IVSize : BlobOverhead]
	ciphertext := raw[BlobOverhead:]

	key, err := st.deriveKey(purpose, salt)
	if err != nil {
		return nil, serrors.ErrDecryptionFailed
	}

	gcm, err := newGCM(key)
	if err != nil {
		return nil, serrors.ErrDecryptionFailed
	}

	// gcm.Open expects ciphertext ‖ tag.
	sealed := make([]byte, 0, len(ciphertext)+TagSize)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, iv, sealed, nil)
	if err != nil {
		return nil, serrors.ErrDecryptionFailed
	}

	return plaintext, nil
}

// newGCM builds an AES-256-GCM instance with the wire format's 16-byte nonce.
func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, IVSize)
	if err != nil {
		return nil, fmt.Errorf("failed to create GCM: %w", err)
	}
	return gcm, nil
}
