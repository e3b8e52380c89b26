// Package hashstore provides a disk-backed duplicate hash table for very
// large corpora, as an alternative to the in-memory map-based detectors in
// internal/hashing. It backs the "external-file mode" described for
// duplicate detection: a virtual hash table chosen once at startup,
// removed on normal termination.
package hashstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// Entry records one game's hash signature, mirroring the in-memory
// GameSignature shape (internal/hashing.GameSignature) so the two
// detectors agree on what "the same game" means.
type Entry struct {
	FinalHash uint64 `json:"final_hash"`
	MoveCount int    `json:"move_count"`
	WeakHash  uint64 `json:"weak_hash"`
	FileName  string `json:"file_name"`
}

// Store is a Badger-backed chain-of-entries table keyed by the hash
// bucket, playing the role the C implementation gives a hand-rolled
// prev-pointer linked-list file: one key per hash, one JSON-encoded slice
// of Entry per key.
type Store struct {
	db        *badger.DB
	dir       string
	exactMode bool
}

// Open creates a fresh Badger database under a process-private temporary
// directory. The caller must call Close when done; Close removes the
// directory, matching "temporary files are deleted on normal termination".
func Open(exactMode bool) (*Store, error) {
	dir, err := os.MkdirTemp("", "pgn-extract-virtual-*")
	if err != nil {
		return nil, fmt.Errorf("hashstore: create temp dir: %w", err)
	}

	opts := badger.DefaultOptions(dir)
	opts.Logger = nil
	db, err := badger.Open(opts)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("hashstore: open: %w", err)
	}

	return &Store{db: db, dir: dir, exactMode: exactMode}, nil
}

// Close closes the database and removes its backing directory.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	err := s.db.Close()
	os.RemoveAll(s.dir)
	return err
}

func key(hash uint64) []byte {
	return []byte(fmt.Sprintf("h:%016x", hash))
}

// CheckAndAdd looks up finalHash's bucket; if an existing entry matches
// (same weak hash, and same move count when exactMode is set) it reports
// the duplicate's recorded file name without inserting. Otherwise it
// appends the new entry and reports no duplicate.
func (s *Store) CheckAndAdd(e Entry) (duplicateOf string, isDuplicate bool, err error) {
	err = s.db.Update(func(txn *badger.Txn) error {
		var existing []Entry

		item, getErr := txn.Get(key(e.FinalHash))
		switch {
		case getErr == nil:
			if valErr := item.Value(func(val []byte) error {
				return json.Unmarshal(val, &existing)
			}); valErr != nil {
				return valErr
			}
		case errors.Is(getErr, badger.ErrKeyNotFound):
			// no bucket yet
		default:
			return getErr
		}

		for _, prior := range existing {
			if prior.WeakHash != e.WeakHash {
				continue
			}
			if s.exactMode && prior.MoveCount != e.MoveCount {
				continue
			}
			duplicateOf = prior.FileName
			isDuplicate = true
			return nil
		}

		existing = append(existing, e)
		data, marshalErr := json.Marshal(existing)
		if marshalErr != nil {
			return marshalErr
		}
		return txn.Set(key(e.FinalHash), data)
	})
	return duplicateOf, isDuplicate, err
}
