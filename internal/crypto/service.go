package crypto

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"sync"

	serrors "github.com/sealbox-dev/sealbox/internal/errors"

	"golang.org/x/crypto/scrypt"
)

const (
	// MasterKeySize is the required length of the master secret in bytes.
	MasterKeySize = 32

	// KeySize is the size of derived encryption keys in bytes (256 bits for AES-256).
	KeySize = 32

	// SaltSize is the size of derivation salts in bytes.
	SaltSize = 32

	// IVSize is the size of the AES-GCM nonce in bytes.
	IVSize = 16

	// TagSize is the size of the GCM authentication tag in bytes.
	TagSize = 16

	// PasswordHashSize is the scrypt output length for password hashing.
	// Deliberately distinct from KeySize so a password hash can never be
	// mistaken for an encryption key.
	PasswordHashSize = 64

	// ScryptN is the scrypt CPU/memory cost parameter.
	ScryptN = 32768

	// ScryptR is the scrypt block size parameter.
	ScryptR = 8

	// ScryptP is the scrypt parallelization parameter.
	ScryptP = 1

	// DefaultPurpose is the domain-separation tag used when none is given.
	DefaultPurpose = "general"
)

// secretState is one immutable generation of the master secret together with
// its derived-key cache. A state is never mutated after publication (only the
// cache map fills in under its own lock); rotation replaces the whole state.
type secretState struct {
	secret []byte
	epoch  uint64

	mu    sync.Mutex
	cache map[string][]byte
}

func newSecretState(secret []byte, epoch uint64) *secretState {
	owned := make([]byte, MasterKeySize)
	copy(owned, secret)
	return &secretState{
		secret: owned,
		epoch:  epoch,
		cache:  make(map[string][]byte),
	}
}

// deriveKey derives the 32-byte key for (purpose, salt) under this state's
// secret, memoizing the result. Derivation is a pure function of
// (secret, purpose, salt), which is what makes the cache sound; the cache
// exists purely for performance and has no security role.
func (st *secretState) deriveKey(purpose string, salt []byte) ([]byte, error) {
	cacheKey := purpose + "|" + hex.EncodeToString(salt)

	st.mu.Lock()
	if key, ok := st.cache[cacheKey]; ok {
		st.mu.Unlock()
		return key, nil
	}
	st.mu.Unlock()

	// The master length is fixed at 32 bytes, so master ‖ purpose is an
	// unambiguous derivation input.
	input := make([]byte, 0, len(st.secret)+len(purpose))
	input = append(input, st.secret...)
	input = append(input, purpose...)

	key, err := scrypt.Key(input, salt, ScryptN, ScryptR, ScryptP, KeySize)
	if err != nil {
		return nil, fmt.Errorf("scrypt key derivation failed: %w", err)
	}

	st.mu.Lock()
	st.cache[cacheKey] = key
	st.mu.Unlock()

	return key, nil
}

// Service provides encryption, decryption, HMAC, and rotation under a single
// master secret. Construct one with NewService and inject it into whatever
// needs it; there is no process-wide singleton.
type Service struct {
	mu    sync.RWMutex
	state *secretState
}

// NewService validates the master key and builds the initial secret state.
// The key must be exactly 32 bytes; anything else fails closed.
func NewService(masterKey []byte) (*Service, error) {
	if len(masterKey) != MasterKeySize {
		return nil, fmt.Errorf("%w: got %d bytes", serrors.ErrInvalidMasterKey, len(masterKey))
	}
	return &Service{state: newSecretState(masterKey, 1)}, nil
}

// snapshot returns the current secret state. Every read-path operation works
// against one snapshot for its whole duration, so a concurrent rotation can
// never split an operation across two secrets.
func (s *Service) snapshot() *secretState {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Epoch returns the generation counter of the active master secret. It
// starts at 1 and increments on every rotation.
func (s *Service) Epoch() uint64 {
	return s.snapshot().epoch
}

// ClearCache drops all memoized derived keys. Keys are recomputed on demand,
// so this is safe to call at any time for defense in depth.
func (s *Service) ClearCache() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.state = newSecretState(s.state.secret, s.state.epoch)
}

func normalizePurpose(purpose string) string {
	if purpose == "" {
		return DefaultPurpose
	}
	return purpose
}

// randomBytes returns n bytes from the system's cryptographically secure
// random source.
func randomBytes(n int) ([]byte, error) {
	b := make([]byte, n)
	if _, err := io.ReadFull(rand.Reader, b); err != nil {
		return nil, fmt.Errorf("failed to generate random bytes: %w", err)
	}
	return b, nil
}

// ClearBytes zeroes a byte slice holding key material.
func ClearBytes(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
