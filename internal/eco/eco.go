// Package eco provides ECO (Encyclopaedia of Chess Openings) classification.
package eco

import (
	"fmt"
	"io"
	"os"

	"github.com/MichaelB7/pgn-extract-sub000/internal/chess"
	"github.com/MichaelB7/pgn-extract-sub000/internal/config"
	"github.com/MichaelB7/pgn-extract-sub000/internal/engine"
	"github.com/MichaelB7/pgn-extract-sub000/internal/hashing"
	"github.com/MichaelB7/pgn-extract-sub000/internal/parser"
)

// ECOHalfMoveLimit bounds how far a game's position may drift in half-move
// count from a loaded ECO line and still count as a match.
const ECOHalfMoveLimit = 6

// ECOTableSize is the number of buckets in the classifier's hash table.
const ECOTableSize = 4096

// ECOEntry is one opening line loaded from an ECO reference file, keyed
// by the Zobrist hash of the position it ends on.
type ECOEntry struct {
	ECOCode        string // e.g., "B33"
	Opening        string // e.g., "Sicilian"
	Variation      string // e.g., "Sveshnikov"
	SubVariation   string
	RequiredHash   uint64 // hash of the position this line ends on
	CumulativeHash uint64 // XOR of every position hash visited along the line
	HalfMoves      int    // depth, in plies, of this line
	Next           *ECOEntry
}

// ECOClassifier looks up ECO codes for games by replaying them and
// probing a chained hash table of reference lines at every ply.
type ECOClassifier struct {
	table         [ECOTableSize]*ECOEntry
	maxHalfMoves  int
	entriesLoaded int
}

// NewECOClassifier creates an empty classifier; load reference lines
// with LoadFromFile or LoadFromReader before classifying games.
func NewECOClassifier() *ECOClassifier {
	return &ECOClassifier{maxHalfMoves: ECOHalfMoveLimit}
}

// LoadFromFile reads ECO reference lines from a PGN file.
func (ec *ECOClassifier) LoadFromFile(filename string) error {
	file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return fmt.Errorf("cannot open ECO file: %w", err)
	}
	defer file.Close()
	return ec.LoadFromReader(file)
}

// LoadFromReader reads ECO reference lines from r. Each game is one
// reference line; its ECO/Opening/Variation/SubVariation tags supply
// the entry's classification.
func (ec *ECOClassifier) LoadFromReader(r io.Reader) error {
	cfg := config.NewEngine()
	cfg.Verbosity = 0

	p := parser.NewParser(r, cfg)
	games, err := p.ParseAllGames()
	if err != nil {
		return fmt.Errorf("error parsing ECO file: %w", err)
	}
	for _, game := range games {
		ec.addLine(game)
	}
	return nil
}

// replayState is the running state kept while walking a game's moves
// from the initial (or custom FEN) position, shared by line-loading
// and game classification.
type replayState struct {
	board          *chess.Board
	cumulativeHash uint64
	halfMoves      int
}

func startReplay(board *chess.Board) *replayState {
	return &replayState{board: board}
}

// advance applies one move, updating the running cumulative hash and
// ply count, and reports whether the move applied cleanly.
func (rs *replayState) advance(move *chess.Move) bool {
	if !engine.ApplyMove(rs.board, move) {
		return false
	}
	rs.halfMoves++
	rs.cumulativeHash ^= hashing.GenerateZobristHash(rs.board)
	return true
}

// addLine replays a reference game to its final position and records
// it in the table, keyed by the ending position's hash.
func (ec *ECOClassifier) addLine(game *chess.Game) {
	ecoCode := game.Tags["ECO"]
	if ecoCode == "" {
		return
	}

	board, _ := engine.NewBoardFromFEN(engine.InitialFEN) //nolint:errcheck // InitialFEN is known valid
	rs := startReplay(board)
	for move := game.Moves; move != nil; move = move.Next {
		if !rs.advance(move) {
			break
		}
	}
	if rs.halfMoves == 0 {
		return
	}

	entry := &ECOEntry{
		ECOCode:        ecoCode,
		Opening:        game.Tags["Opening"],
		Variation:      game.Tags["Variation"],
		SubVariation:   game.Tags["SubVariation"],
		RequiredHash:   hashing.GenerateZobristHash(rs.board),
		CumulativeHash: rs.cumulativeHash,
		HalfMoves:      rs.halfMoves,
	}

	if ec.duplicateOf(entry) {
		fmt.Fprintf(os.Stderr, "ECO line %s duplicates an existing entry; skipped\n", ecoCode)
		return
	}
	ec.insert(entry)
}

// duplicateOf reports whether an entry matching the same (hash,
// half-moves, cumulative hash) triple is already in the table; a
// collision on that triple is logged by addLine and not stored twice.
func (ec *ECOClassifier) duplicateOf(entry *ECOEntry) bool {
	ix := entry.RequiredHash % ECOTableSize
	for existing := ec.table[ix]; existing != nil; existing = existing.Next {
		if existing.RequiredHash == entry.RequiredHash &&
			existing.HalfMoves == entry.HalfMoves &&
			existing.CumulativeHash == entry.CumulativeHash {
			return true
		}
	}
	return false
}

// insert adds entry to its bucket and extends the classifier's search
// depth so later classification replays far enough to reach it.
func (ec *ECOClassifier) insert(entry *ECOEntry) {
	ix := entry.RequiredHash % ECOTableSize
	entry.Next = ec.table[ix]
	ec.table[ix] = entry
	ec.entriesLoaded++

	if reach := entry.HalfMoves + ECOHalfMoveLimit; reach > ec.maxHalfMoves {
		ec.maxHalfMoves = reach
	}
}

// ClassifyGame replays game from its starting position (the board's
// custom FEN tag if present, otherwise the standard start) and returns
// the deepest matching ECO line, or nil if none matched.
func (ec *ECOClassifier) ClassifyGame(game *chess.Game) *ECOEntry {
	if ec.entriesLoaded == 0 {
		return nil
	}

	rs := startReplay(ec.startingBoard(game))
	var bestMatch *ECOEntry

	for move := game.Moves; move != nil; move = move.Next {
		if !rs.advance(move) {
			break
		}
		if rs.halfMoves > ec.maxHalfMoves {
			break
		}
		posHash := hashing.GenerateZobristHash(rs.board)
		if match := ec.findMatch(posHash, rs.cumulativeHash, rs.halfMoves); match != nil {
			bestMatch = match
		}
	}
	return bestMatch
}

// startingBoard resolves the board a game's replay should begin from,
// honouring a custom FEN tag (e.g. for Chess960 starts) when present.
func (ec *ECOClassifier) startingBoard(game *chess.Game) *chess.Board {
	if fen, ok := game.Tags["FEN"]; ok {
		if board, err := engine.NewBoardFromFEN(fen); err == nil {
			return board
		}
	}
	board, _ := engine.NewBoardFromFEN(engine.InitialFEN) //nolint:errcheck // InitialFEN is known valid
	return board
}

// findMatch looks up posHash in the table, preferring an exact
// (position, half-moves, cumulative hash) match over a partial one
// within ECOHalfMoveLimit plies of the reference line's own depth.
func (ec *ECOClassifier) findMatch(posHash, cumulativeHash uint64, halfMoves int) *ECOEntry {
	var partial *ECOEntry
	for entry := ec.table[posHash%ECOTableSize]; entry != nil; entry = entry.Next {
		if entry.RequiredHash != posHash {
			continue
		}
		if entry.HalfMoves == halfMoves && entry.CumulativeHash == cumulativeHash {
			return entry
		}
		if absInt(halfMoves-entry.HalfMoves) <= ECOHalfMoveLimit {
			partial = entry
		}
	}
	return partial
}

// AddECOTags classifies game and, on a match, writes its ECO, Opening,
// Variation, and SubVariation tags onto the game. Reports whether a
// match was found.
func (ec *ECOClassifier) AddECOTags(game *chess.Game) bool {
	match := ec.ClassifyGame(game)
	if match == nil {
		return false
	}
	if match.ECOCode != "" {
		game.Tags["ECO"] = match.ECOCode
	}
	if match.Opening != "" {
		game.Tags["Opening"] = match.Opening
	}
	if match.Variation != "" {
		game.Tags["Variation"] = match.Variation
	}
	if match.SubVariation != "" {
		game.Tags["SubVariation"] = match.SubVariation
	}
	return true
}

// EntriesLoaded returns the number of distinct reference lines loaded.
func (ec *ECOClassifier) EntriesLoaded() int {
	return ec.entriesLoaded
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
