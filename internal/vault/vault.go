package vault

import (
	"encoding/json"
	"fmt"
	"sort"
	"time"

	serrors "github.com/sealbox-dev/sealbox/internal/errors"

	bolt "go.etcd.io/bbolt"
)

// Bucket names.
var (
	recordsBucket = []byte("records") // name -> JSON Record, blob opaque
	configBucket  = []byte("config")  // vault identity and timestamps
)

// Config keys.
var (
	configVersion = []byte("format_version")
	configVaultID = []byte("vault_uuid")
	configCreated = []byte("created")
)

// FormatVersion identifies the vault's bucket layout, not the blob wire
// format. Encrypted blobs carry no version of their own.
const FormatVersion = "1"

// Record is one sealed entry. The Blob field is an opaque encrypted string;
// the vault never inspects it. Purpose is stored in clear: it is a domain
// tag, not a secret, and rotation needs it to re-derive keys.
type Record struct {
	Name      string    `json:"name"`
	Purpose   string    `json:"purpose"`
	Blob      string    `json:"blob"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Store is a bbolt-backed vault of sealed records.
type Store struct {
	db *bolt.DB
}

// Open opens or creates the vault database at path.
func Open(path string) (*Store, error) {
	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open vault database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Initialize creates the bucket structure and records the vault identity.
// Fails if the vault is already initialized.
func (s *Store) Initialize(vaultID string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config != nil && config.Get(configVersion) != nil {
			return serrors.ErrVaultAlreadyInitialized
		}

		for _, bucket := range [][]byte{configBucket, recordsBucket} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", bucket, err)
			}
		}

		config = tx.Bucket(configBucket)
		if err := config.Put(configVersion, []byte(FormatVersion)); err != nil {
			return err
		}
		if err := config.Put(configVaultID, []byte(vaultID)); err != nil {
			return err
		}
		return config.Put(configCreated, []byte(time.Now().UTC().Format(time.RFC3339)))
	})
}

// IsInitialized reports whether the vault has been initialized.
func (s *Store) IsInitialized() (bool, error) {
	var initialized bool
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config != nil && config.Get(configVersion) != nil {
			initialized = true
		}
		return nil
	})
	return initialized, err
}

// VaultID returns the vault's UUID.
func (s *Store) VaultID() (string, error) {
	var id string
	err := s.db.View(func(tx *bolt.Tx) error {
		config := tx.Bucket(configBucket)
		if config == nil {
			return serrors.ErrVaultNotInitialized
		}
		raw := config.Get(configVaultID)
		if raw == nil {
			return serrors.ErrVaultNotInitialized
		}
		id = string(raw)
		return nil
	})
	return id, err
}

// Put stores a record. An existing record with the same name is overwritten
// unless overwrite is false, in which case ErrRecordExists is returned.
// Timestamps are managed here: CreatedAt survives overwrites, UpdatedAt
// always advances.
func (s *Store) Put(record Record, overwrite bool) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		if records == nil {
			return serrors.ErrVaultNotInitialized
		}

		now := time.Now().UTC()
		record.CreatedAt = now
		record.UpdatedAt = now

		if existing := records.Get([]byte(record.Name)); existing != nil {
			if !overwrite {
				return fmt.Errorf("%w: %s", serrors.ErrRecordExists, record.Name)
			}
			var prev Record
			if err := json.Unmarshal(existing, &prev); err == nil {
				record.CreatedAt = prev.CreatedAt
			}
		}

		data, err := json.Marshal(record)
		if err != nil {
			return fmt.Errorf("failed to encode record: %w", err)
		}
		return records.Put([]byte(record.Name), data)
	})
}

// Get returns the named record.
func (s *Store) Get(name string) (Record, error) {
	var record Record
	err := s.db.View(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		if records == nil {
			return serrors.ErrVaultNotInitialized
		}
		raw := records.Get([]byte(name))
		if raw == nil {
			return fmt.Errorf("%w: %s", serrors.ErrRecordNotFound, name)
		}
		return json.Unmarshal(raw, &record)
	})
	return record, err
}

// List returns all records sorted by name.
func (s *Store) List() ([]Record, error) {
	var out []Record
	err := s.db.View(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		if records == nil {
			return serrors.ErrVaultNotInitialized
		}
		return records.ForEach(func(_, v []byte) error {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to decode record: %w", err)
			}
			out = append(out, record)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

// Remove deletes the named record.
func (s *Store) Remove(name string) error {
	return s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		if records == nil {
			return serrors.ErrVaultNotInitialized
		}
		if records.Get([]byte(name)) == nil {
			return fmt.Errorf("%w: %s", serrors.ErrRecordNotFound, name)
		}
		return records.Delete([]byte(name))
	})
}

// Update rewrites records in a single transaction. The function receives
// each record and returns the replacement, or an error to skip it. Used by
// rotation to re-encrypt every blob atomically: either the whole walk
// commits or none of it does.
func (s *Store) Update(fn func(Record) (Record, error)) (updated int, failed []string, err error) {
	err = s.db.Update(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		if records == nil {
			return serrors.ErrVaultNotInitialized
		}

		// Collect first: bbolt forbids mutating a bucket mid-cursor.
		var pending []Record
		if err := records.ForEach(func(_, v []byte) error {
			var record Record
			if err := json.Unmarshal(v, &record); err != nil {
				return fmt.Errorf("failed to decode record: %w", err)
			}
			pending = append(pending, record)
			return nil
		}); err != nil {
			return err
		}

		for _, record := range pending {
			replacement, err := fn(record)
			if err != nil {
				failed = append(failed, record.Name)
				continue
			}
			replacement.UpdatedAt = time.Now().UTC()
			data, err := json.Marshal(replacement)
			if err != nil {
				return fmt.Errorf("failed to encode record: %w", err)
			}
			if err := records.Put([]byte(replacement.Name), data); err != nil {
				return err
			}
			updated++
		}
		return nil
	})
	return updated, failed, err
}

// CompactTo writes a compacted copy of the vault to path, reclaiming space
// freed by removed records. The source vault stays open and untouched;
// callers swap the files in themselves after verifying the copy.
func (s *Store) CompactTo(path string) error {
	dst, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 2 * time.Second})
	if err != nil {
		return fmt.Errorf("failed to create compacted database: %w", err)
	}
	defer dst.Close()

	if err := bolt.Compact(dst, s.db, 0); err != nil {
		return fmt.Errorf("failed to compact vault: %w", err)
	}
	return dst.Close()
}

// Count returns the number of stored records.
func (s *Store) Count() (int, error) {
	var n int
	err := s.db.View(func(tx *bolt.Tx) error {
		records := tx.Bucket(recordsBucket)
		if records == nil {
			return serrors.ErrVaultNotInitialized
		}
		n = records.Stats().KeyN
		return nil
	})
	return n, err
}
