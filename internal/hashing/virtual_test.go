package hashing

import (
	"testing"

	"github.com/MichaelB7/pgn-extract-sub000/internal/chess"
)

func newVirtualDetector(t *testing.T, exactMatch bool) *VirtualDuplicateDetector {
	t.Helper()
	d, err := NewVirtualDuplicateDetector(exactMatch)
	if err != nil {
		t.Fatalf("NewVirtualDuplicateDetector: %v", err)
	}
	t.Cleanup(func() {
		if err := d.Close(); err != nil {
			t.Errorf("Close: %v", err)
		}
	})
	return d
}

func TestVirtualDuplicateDetector_CheckAndAdd(t *testing.T) {
	detector := newVirtualDetector(t, false)

	board := chess.NewBoard()
	board.SetupInitialPosition()
	game := &chess.Game{Tags: make(map[string]string)}

	if detector.CheckAndAdd(game, board) {
		t.Error("First game was marked as duplicate")
	}
	if !detector.CheckAndAdd(game, board) {
		t.Error("Duplicate game was not detected")
	}
	if detector.DuplicateCount() != 1 {
		t.Errorf("Expected 1 duplicate, got %d", detector.DuplicateCount())
	}
	if detector.UniqueCount() != 1 {
		t.Errorf("Expected 1 unique game, got %d", detector.UniqueCount())
	}
}

func TestVirtualDuplicateDetector_DifferentGames(t *testing.T) {
	detector := newVirtualDetector(t, false)

	board1 := chess.NewBoard()
	board1.SetupInitialPosition()
	game1 := &chess.Game{Tags: make(map[string]string)}

	board2 := chess.NewBoard()
	board2.SetupInitialPosition()
	board2.Set('e', '2', chess.Empty)
	board2.Set('e', '4', chess.W(chess.Pawn))
	game2 := &chess.Game{Tags: make(map[string]string)}

	if detector.CheckAndAdd(game1, board1) {
		t.Error("First game incorrectly marked as duplicate")
	}
	if detector.CheckAndAdd(game2, board2) {
		t.Error("Distinct position incorrectly marked as duplicate")
	}
	if detector.DuplicateCount() != 0 {
		t.Errorf("Expected 0 duplicates, got %d", detector.DuplicateCount())
	}
}

func TestVirtualDuplicateDetector_NilBoard(t *testing.T) {
	detector := newVirtualDetector(t, false)
	game := &chess.Game{Tags: make(map[string]string)}

	if detector.CheckAndAdd(game, nil) {
		t.Error("nil board should never be reported as a duplicate")
	}
}

func TestVirtualDuplicateDetector_ExactMatchRequiresMoveCount(t *testing.T) {
	detector := newVirtualDetector(t, true)

	board := chess.NewBoard()
	board.SetupInitialPosition()

	shortGame := &chess.Game{Tags: make(map[string]string)}
	longGame := &chess.Game{
		Tags:  make(map[string]string),
		Moves: &chess.Move{Next: &chess.Move{}},
	}

	if detector.CheckAndAdd(shortGame, board) {
		t.Error("First game incorrectly marked as duplicate")
	}
	if detector.CheckAndAdd(longGame, board) {
		t.Error("Differing move count should not match in exact mode")
	}
}
