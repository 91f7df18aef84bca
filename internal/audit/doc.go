// Package audit provides audit trail logging for sealbox operations.
//
// Every significant operation (init, put, get, rm, rotate) is recorded in a
// project-level audit log so a team can reconstruct what happened to a vault
// and when. Entries carry operation metadata only (record names, purposes,
// counts, the secret epoch), never plaintext or key material.
//
// # Log Format
//
// The audit log is stored as JSON Lines (one JSON object per line) at:
//
//	.sealbox/audit.jsonl
//
// Each entry contains:
//   - Timestamp (RFC3339 with microseconds, UTC)
//   - Vault UUID and operation name
//   - Operation-specific details (record, purpose, counts, epoch)
//
// # Failure Handling
//
// Audit logging is best-effort. If logging fails (permissions, disk full,
// etc.), the operation continues without error. Operations never fail just
// because audit logging failed.
//
// # Reading Logs
//
// Use ReadEntries() to parse the audit log for display or analysis.
// Malformed entries are silently skipped to handle partial writes.
package audit
