// Package keyring stores the base64 master key in the OS keyring, keyed by
// vault UUID so multiple vaults on one machine never collide.
package keyring

import (
	"github.com/zalando/go-keyring"
)

const serviceName = "sealbox"

// SaveMasterKey stores the base64-encoded master key in the OS keyring.
func SaveMasterKey(vaultID string, encodedKey string) error {
	return keyring.Set(serviceName, vaultID, encodedKey)
}

// GetMasterKey retrieves the base64-encoded master key from the OS keyring.
func GetMasterKey(vaultID string) (string, error) {
	return keyring.Get(serviceName, vaultID)
}

// DeleteMasterKey removes the master key from the OS keyring.
func DeleteMasterKey(vaultID string) error {
	return keyring.Delete(serviceName, vaultID)
}

// HasMasterKey checks if a master key is stored for the vault.
func HasMasterKey(vaultID string) bool {
	_, err := keyring.Get(serviceName, vaultID)
	return err == nil
}
