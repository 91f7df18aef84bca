package crypto

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	serrors "github.com/sealbox-dev/sealbox/internal/errors"
)

func TestStream_RoundTrip(t *testing.T) {
	key, err := GenerateFileKey()
	if err != nil {
		t.Fatalf("GenerateFileKey failed: %v", err)
	}
	iv, err := GenerateIV()
	if err != nil {
		t.Fatalf("GenerateIV failed: %v", err)
	}

	plaintext := bytes.Repeat([]byte("large file contents "), 1024)

	var sealed bytes.Buffer
	enc, err := NewStreamEncrypter(key, iv, &sealed)
	if err != nil {
		t.Fatalf("NewStreamEncrypter failed: %v", err)
	}

	// Write in uneven chunks to exercise streaming.
	for chunk := plaintext; len(chunk) > 0; {
		n := 333
		if n > len(chunk) {
			n = len(chunk)
		}
		if _, err := enc.Write(chunk[:n]); err != nil {
			t.Fatalf("Write failed: %v", err)
		}
		chunk = chunk[n:]
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if enc.Tag() == nil {
		t.Fatal("Tag is nil after Close")
	}

	if bytes.Contains(sealed.Bytes(), []byte("large file contents")) {
		t.Fatal("ciphertext contains plaintext")
	}

	dec, err := NewStreamDecrypter(key, iv, enc.Tag(), &sealed)
	if err != nil {
		t.Fatalf("NewStreamDecrypter failed: %v", err)
	}
	out, err := io.ReadAll(dec)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if err := dec.Close(); err != nil {
		t.Fatalf("Close reported tag mismatch on untampered stream: %v", err)
	}
	if !bytes.Equal(out, plaintext) {
		t.Error("round trip plaintext mismatch")
	}
}

func TestStream_TamperDetectedAtClose(t *testing.T) {
	key, err := GenerateFileKey()
	if err != nil {
		t.Fatalf("GenerateFileKey failed: %v", err)
	}
	iv, err := GenerateIV()
	if err != nil {
		t.Fatalf("GenerateIV failed: %v", err)
	}

	var sealed bytes.Buffer
	enc, err := NewStreamEncrypter(key, iv, &sealed)
	if err != nil {
		t.Fatalf("NewStreamEncrypter failed: %v", err)
	}
	if _, err := enc.Write([]byte("stream payload")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	raw := sealed.Bytes()
	raw[len(raw)/2] ^= 0x01

	dec, err := NewStreamDecrypter(key, iv, enc.Tag(), bytes.NewReader(raw))
	if err != nil {
		t.Fatalf("NewStreamDecrypter failed: %v", err)
	}
	if _, err := io.ReadAll(dec); err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if err := dec.Close(); !errors.Is(err, serrors.ErrDecryptionFailed) {
		t.Errorf("Close on tampered stream: got %v, want ErrDecryptionFailed", err)
	}
}

func TestStream_WrongTagRejected(t *testing.T) {
	key, err := GenerateFileKey()
	if err != nil {
		t.Fatalf("GenerateFileKey failed: %v", err)
	}
	iv, err := GenerateIV()
	if err != nil {
		t.Fatalf("GenerateIV failed: %v", err)
	}

	var sealed bytes.Buffer
	enc, err := NewStreamEncrypter(key, iv, &sealed)
	if err != nil {
		t.Fatalf("NewStreamEncrypter failed: %v", err)
	}
	if _, err := enc.Write([]byte("payload")); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := enc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	wrongTag := make([]byte, len(enc.Tag()))
	copy(wrongTag, enc.Tag())
	wrongTag[0] ^= 0x01

	dec, err := NewStreamDecrypter(key, iv, wrongTag, &sealed)
	if err != nil {
		t.Fatalf("NewStreamDecrypter failed: %v", err)
	}
	if _, err := io.ReadAll(dec); err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}
	if err := dec.Close(); !errors.Is(err, serrors.ErrDecryptionFailed) {
		t.Errorf("Close with wrong tag: got %v, want ErrDecryptionFailed", err)
	}
}

func TestStream_InvalidKeySizes(t *testing.T) {
	if _, err := NewStreamEncrypter(make([]byte, 16), make([]byte, IVSize), io.Discard); err == nil {
		t.Error("NewStreamEncrypter accepted a 16-byte key")
	}
	if _, err := NewStreamEncrypter(make([]byte, KeySize), make([]byte, 12), io.Discard); err == nil {
		t.Error("NewStreamEncrypter accepted a 12-byte IV")
	}
}

func TestFileKey_SaveAndLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "keys", "upload.key")

	key, err := GenerateFileKey()
	if err != nil {
		t.Fatalf("GenerateFileKey failed: %v", err)
	}

	if err := SaveFileKey(path, key); err != nil {
		t.Fatalf("SaveFileKey failed: %v", err)
	}

	info, err := os.Stat(path)
	if err != nil {
		t.Fatalf("Stat failed: %v", err)
	}
	if info.Mode().Perm() != KeyFilePermission {
		t.Errorf("key file permissions = %o, want %o", info.Mode().Perm(), KeyFilePermission)
	}

	gotKey, err := LoadFileKey(path)
	if err != nil {
		t.Fatalf("LoadFileKey failed: %v", err)
	}
	if !bytes.Equal(gotKey, key) {
		t.Error("loaded key does not match saved key")
	}
}

func TestGenerateIV_FreshPerCall(t *testing.T) {
	first, err := GenerateIV()
	if err != nil {
		t.Fatalf("GenerateIV failed: %v", err)
	}
	second, err := GenerateIV()
	if err != nil {
		t.Fatalf("GenerateIV failed: %v", err)
	}
	if len(first) != IVSize || len(second) != IVSize {
		t.Fatalf("IV lengths = %d, %d, want %d", len(first), len(second), IVSize)
	}
	if bytes.Equal(first, second) {
		t.Error("consecutive IVs are identical")
	}
}

func TestFileKey_RefusesInsecurePermissions(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "upload.key")

	key, err := GenerateFileKey()
	if err != nil {
		t.Fatalf("GenerateFileKey failed: %v", err)
	}
	if err := SaveFileKey(path, key); err != nil {
		t.Fatalf("SaveFileKey failed: %v", err)
	}

	if err := os.Chmod(path, 0644); err != nil {
		t.Fatalf("Chmod failed: %v", err)
	}

	if _, err := LoadFileKey(path); !errors.Is(err, serrors.ErrInsecureKeyFile) {
		t.Errorf("LoadFileKey on 0644 file: got %v, want ErrInsecureKeyFile", err)
	}
}

func TestFileKey_MalformedFile(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{"not json", "not json at all"},
		{"missing key", "{}"},
		{"non-hex key", `{"key":"zz"}`},
		{"wrong length", `{"key":"abcd"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name+".key")
			if err := os.WriteFile(path, []byte(tt.content), 0600); err != nil {
				t.Fatalf("WriteFile failed: %v", err)
			}
			if _, err := LoadFileKey(path); !errors.Is(err, serrors.ErrMalformedKeyFile) {
				t.Errorf("got %v, want ErrMalformedKeyFile", err)
			}
		})
	}
}
