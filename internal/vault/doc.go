// Package vault stores sealed records in a bbolt database.
//
// The vault treats encrypted blobs as opaque strings: it never decodes,
// decrypts, or validates them. Record names and purpose tags are stored in
// clear, alongside timestamps and the vault's UUID; a purpose is a
// domain-separation label, not a secret.
//
// Layout is two buckets: "records" maps record name to a JSON-encoded
// Record, and "config" holds the vault UUID, creation time, and a format
// version for the bucket layout itself. The blobs inside records carry no
// version tag; their wire format is fixed by the crypto package.
package vault
