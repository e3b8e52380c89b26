package hashing

import (
	"github.com/MichaelB7/pgn-extract-sub000/internal/chess"
	"github.com/MichaelB7/pgn-extract-sub000/internal/hashstore"
)

// VirtualDuplicateDetector implements DuplicateChecker on top of a
// disk-backed hashstore.Store instead of an in-process map, for corpora too
// large to hold comfortably in memory. It mirrors DuplicateDetector's
// matching rules exactly; only the storage medium differs.
type VirtualDuplicateDetector struct {
	store          *hashstore.Store
	useExactMatch  bool
	duplicateCount int
	uniqueCount    int
}

// NewVirtualDuplicateDetector opens a fresh on-disk store. Close must be
// called when duplicate detection is done to remove the backing files.
func NewVirtualDuplicateDetector(exactMatch bool) (*VirtualDuplicateDetector, error) {
	store, err := hashstore.Open(exactMatch)
	if err != nil {
		return nil, err
	}
	return &VirtualDuplicateDetector{store: store, useExactMatch: exactMatch}, nil
}

// CheckAndAdd checks if a game is a duplicate and records it in the store.
func (d *VirtualDuplicateDetector) CheckAndAdd(game *chess.Game, board *chess.Board) bool {
	if board == nil {
		return false
	}

	entry := hashstore.Entry{
		FinalHash: GenerateZobristHash(board),
		MoveCount: countMoves(game),
		WeakHash:  uint64(WeakHash(board)),
	}

	_, isDuplicate, err := d.store.CheckAndAdd(entry)
	if err != nil {
		// Treat a storage failure as "not a duplicate" rather than abort
		// the run; the caller still sees the game.
		return false
	}
	if isDuplicate {
		d.duplicateCount++
	} else {
		d.uniqueCount++
	}
	return isDuplicate
}

// DuplicateCount returns the number of duplicates detected.
func (d *VirtualDuplicateDetector) DuplicateCount() int {
	return d.duplicateCount
}

// UniqueCount returns the number of unique games recorded.
func (d *VirtualDuplicateDetector) UniqueCount() int {
	return d.uniqueCount
}

// Close releases the backing on-disk store.
func (d *VirtualDuplicateDetector) Close() error {
	return d.store.Close()
}
