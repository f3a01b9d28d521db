// Package cache stores parsed log files in a bbolt database keyed by the
// SHA-256 digest of their content, so unchanged logs skip CSV parsing.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"go.etcd.io/bbolt"

	"github.com/ccollicutt/commitlens/pkg/loader"
)

// formatVersion is bumped when the stored record layout changes.
const formatVersion = 1

var bucketRecords = []byte("records")

type entry struct {
	Version  int                 `json:"version"`
	StoredAt time.Time           `json:"stored_at"`
	Records  []loader.LineRecord `json:"records"`
}

// Store is a parsed-record cache.
type Store struct {
	db *bbolt.DB
}

// Open opens or creates the cache database at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: 5 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("opening cache %s: %w", path, err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(bucketRecords)
		return err
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("initialising cache %s: %w", path, err)
	}

	return &Store{db: db}, nil
}

// Get returns the records stored under digest. ok is false on a miss or
// when the entry was written by another format version.
func (s *Store) Get(digest string) (records []loader.LineRecord, ok bool, err error) {
	var e entry
	err = s.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(bucketRecords).Get([]byte(digest))
		if data == nil {
			return nil
		}
		ok = true
		return json.Unmarshal(data, &e)
	})
	if err != nil {
		return nil, false, fmt.Errorf("reading cache entry %s: %w", digest, err)
	}
	if !ok || e.Version != formatVersion {
		return nil, false, nil
	}
	return e.Records, true, nil
}

// Put stores records under digest.
func (s *Store) Put(digest string, records []loader.LineRecord) error {
	data, err := json.Marshal(entry{Version: formatVersion, StoredAt: time.Now().UTC(), Records: records})
	if err != nil {
		return fmt.Errorf("encoding cache entry: %w", err)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketRecords).Put([]byte(digest), data)
	})
}

// Len returns the number of cached files.
func (s *Store) Len() (int, error) {
	n := 0
	err := s.db.View(func(tx *bbolt.Tx) error {
		n = tx.Bucket(bucketRecords).Stats().KeyN
		return nil
	})
	return n, err
}

// Purge removes every entry.
func (s *Store) Purge() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketRecords); err != nil {
			return err
		}
		_, err := tx.CreateBucket(bucketRecords)
		return err
	})
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Digest returns the hex SHA-256 of the file at path.
func Digest(path string) (string, error) {
	f, err := os.Open(path) // #nosec G304 -- user-provided paths are expected
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("hashing %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
