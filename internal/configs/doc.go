// Package configs manages sealbox's configuration state and master-key
// resolution.
//
// # Paths
//
// User-level settings follow the XDG base directory layout (config and data
// directories). Project-level state lives under a .sealbox directory at the
// project root, discovered by walking up from the working directory:
//
//	.sealbox/config.toml   vault identity and key source
//	.sealbox/vault.db      sealed records (bbolt)
//	.sealbox/audit.jsonl   operation audit trail
//
// # Master Key Resolution
//
// The 32-byte master key is supplied base64 encoded and resolved at startup
// from the first available source:
//
//  1. SEALBOX_MASTER_KEY environment variable
//  2. OS keyring, keyed by vault UUID
//  3. Key file named in config.toml
//
// A key that is present but does not decode to exactly 32 bytes is a fatal
// configuration error from any source. The module refuses to initialize
// rather than running with a malformed secret.
package configs
