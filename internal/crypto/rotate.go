package crypto

import (
	"fmt"

	serrors "github.com/sealbox-dev/sealbox/internal/errors"
)

// Rotate re-encrypts a blob produced under oldSecret so it decrypts under
// the service's active master secret. Three strictly sequential steps run
// under the service's write lock, so no concurrent Encrypt or Decrypt can
// ever observe the swapped-in old secret:
//
//  1. swap-in: publish a state holding the caller-supplied old secret, with
//     a fresh cache and bumped epoch
//  2. decrypt the blob under the old secret
//  3. swap-back: publish a state holding the saved active secret (fresh
//     cache, bumped epoch again), then re-encrypt under it
//
// Step 3's restoration runs via defer even when step 2 fails: the active
// secret is never left pointing at the old value after a failed attempt.
func (s *Service) Rotate(oldSecret []byte, blob string, purpose string) (string, error) {
	if len(oldSecret) != MasterKeySize {
		return "", fmt.Errorf("%w: old secret is %d bytes", serrors.ErrInvalidMasterKey, len(oldSecret))
	}
	purpose = normalizePurpose(purpose)

	s.mu.Lock()
	defer s.mu.Unlock()

	saved := s.state
	s.state = newSecretState(oldSecret, saved.epoch+1)

	restored := false
	restore := func() {
		if !restored {
			s.state = newSecretState(saved.secret, s.state.epoch+1)
			restored = true
		}
	}
	defer restore()

	plaintext, err := s.state.decrypt(blob, purpose)
	if err != nil {
		return "", fmt.Errorf("%w: %w", serrors.ErrRotationFailed, err)
	}

	restore()

	reencrypted, err := s.state.encrypt(plaintext, purpose)
	if err != nil {
		return "", fmt.Errorf("%w: %w", serrors.ErrRotationFailed, err)
	}
	return reencrypted, nil
}
