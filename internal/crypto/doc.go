// Package crypto provides sealbox's application-wide cryptographic services:
// purpose-scoped key derivation from a single 32-byte master secret,
// authenticated encryption of opaque payloads, memory-hard password hashing,
// secure random tokens and API keys, HMAC signing, and master-secret rotation.
//
// # Wire Format
//
// Every encrypted blob is the base64 (standard encoding) of a fixed-offset
// concatenation:
//
//	salt[32] ‖ iv[16] ‖ tag[16] ‖ ciphertext[n]
//
// The cipher is AES-256-GCM with a 16-byte nonce and 16-byte authentication
// tag. Each blob is self-describing (it carries its own salt and IV) and
// immutable once produced. There is no version or algorithm identifier in
// the format: if the scrypt cost parameters or the cipher ever change, stored
// blobs become undecodable without out-of-band knowledge of which parameters
// produced them. Any format evolution has to happen in a separate envelope;
// changing this layout breaks every existing stored blob.
//
// # Key Derivation
//
// Keys are derived with scrypt (N=32768, r=8, p=1) over the master secret
// concatenated with a purpose tag, so compromise of one purpose's key does
// not expose another's. Derivation is deterministic and intentionally
// expensive; derived keys are memoized per secret state. The streaming
// file-encryption path (NewStreamEncrypter/NewStreamDecrypter) skips
// derivation entirely and takes a caller-supplied key, because running the
// memory-hard KDF per large file would be prohibitively slow. That path
// provides primitives only; key lifecycle management belongs to the caller.
//
// # Concurrency
//
// A Service holds its secret and derived-key cache in an immutable state
// value behind a read-write lock. Readers snapshot the state and work
// against a consistent secret/cache pair; Rotate publishes a replacement
// state with a bumped epoch rather than mutating in place, so no concurrent
// Encrypt or Decrypt can observe a half-rotated secret. Rotation of the
// cache happens by handle replacement, not by an explicit clear that could
// race with in-flight derivations.
//
// Scrypt calls are CPU- and memory-bound and can take tens of milliseconds.
// Callers on latency-sensitive paths should run Encrypt/Decrypt on their own
// goroutines. No operation in this package performs network or disk I/O
// except the file-key custody helpers.
package crypto
