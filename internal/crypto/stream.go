package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"fmt"
	"hash"
	"io"

	serrors "github.com/sealbox-dev/sealbox/internal/errors"
)

// GenerateFileKey returns a fresh random 32-byte key for the external-key
// streaming path. Nothing here is derived from the master secret: running
// the memory-hard KDF once per large file would be prohibitively slow, so
// this path trades derivation for caller-managed key custody. Persist the
// key with SaveFileKey/LoadFileKey; IVs come from GenerateIV, one per
// encryption.
func GenerateFileKey() ([]byte, error) {
	return randomBytes(KeySize)
}

// GenerateIV returns a fresh random 16-byte IV. A file key is reused across
// many encryptions, so every encryption must get its own IV: CTR mode under
// a repeated (key, IV) pair reuses the keystream, and XORing two such
// ciphertexts yields the XOR of their plaintexts.
func GenerateIV() ([]byte, error) {
	return randomBytes(IVSize)
}

// StreamEncrypter encrypts a stream with AES-CTR and accumulates an
// encrypt-then-MAC HMAC-SHA256 tag over the IV and ciphertext. The tag is
// available from Tag after Close.
type StreamEncrypter struct {
	dst    io.Writer
	stream cipher.Stream
	mac    hash.Hash
	tag    []byte
}

// NewStreamEncrypter wraps dst with an encrypting writer using the
// caller-supplied key and IV.
func NewStreamEncrypter(key, iv []byte, dst io.Writer) (*StreamEncrypter, error) {
	stream, mac, err := newStreamCipher(key, iv)
	if err != nil {
		return nil, err
	}
	return &StreamEncrypter{dst: dst, stream: stream, mac: mac}, nil
}

func (e *StreamEncrypter) Write(p []byte) (int, error) {
	buf := make([]byte, len(p))
	e.stream.XORKeyStream(buf, p)
	e.mac.Write(buf)
	return e.dst.Write(buf)
}

// Close finalizes the authentication tag. No more writes are expected after
// Close.
func (e *StreamEncrypter) Close() error {
	e.tag = e.mac.Sum(nil)
	return nil
}

// Tag returns the authentication tag, or nil before Close.
func (e *StreamEncrypter) Tag() []byte {
	return e.tag
}

// StreamDecrypter decrypts a stream produced by StreamEncrypter. Plaintext
// flows out of Read immediately; a streaming MAC cannot reject data it has
// not finished reading, so the final verdict only comes from Close. Callers
// must discard all output if Close reports a mismatch.
type StreamDecrypter struct {
	src    io.Reader
	stream cipher.Stream
	mac    hash.Hash
	tag    []byte
}

// NewStreamDecrypter wraps src with a decrypting reader. The tag must be the
// one returned by the encrypter's Tag.
func NewStreamDecrypter(key, iv, tag []byte, src io.Reader) (*StreamDecrypter, error) {
	if len(tag) != sha256.Size {
		return nil, serrors.ErrDecryptionFailed
	}
	stream, mac, err := newStreamCipher(key, iv)
	if err != nil {
		return nil, err
	}
	owned := make([]byte, len(tag))
	copy(owned, tag)
	return &StreamDecrypter{src: src, stream: stream, mac: mac, tag: owned}, nil
}

func (d *StreamDecrypter) Read(p []byte) (int, error) {
	n, err := d.src.Read(p)
	if n > 0 {
		d.mac.Write(p[:n])
		d.stream.XORKeyStream(p[:n], p[:n])
	}
	return n, err
}

// Close verifies the authentication tag over everything read. Returns
// ErrDecryptionFailed if the stream was tampered with or the key is wrong.
func (d *StreamDecrypter) Close() error {
	if !hmac.Equal(d.mac.Sum(nil), d.tag) {
		return serrors.ErrDecryptionFailed
	}
	return nil
}

func newStreamCipher(key, iv []byte) (cipher.Stream, hash.Hash, error) {
	if len(key) != KeySize {
		return nil, nil, fmt.Errorf("invalid key size: expected %d bytes, got %d bytes", KeySize, len(key))
	}
	if len(iv) != IVSize {
		return nil, nil, fmt.Errorf("invalid IV size: expected %d bytes, got %d bytes", IVSize, len(iv))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create AES cipher: %w", err)
	}

	mac := hmac.New(sha256.New, streamMACKey(key))
	mac.Write(iv)

	return cipher.NewCTR(block, iv), mac, nil
}

// streamMACKey derives the HMAC key from the encryption key so the two
// primitives never share key material directly.
func streamMACKey(key []byte) []byte {
	input := make([]byte, 0, len(key)+len("sealbox/stream-mac"))
	input = append(input, key...)
	input = append(input, "sealbox/stream-mac"...)
	sum := sha256.Sum256(input)
	return sum[:]
}
