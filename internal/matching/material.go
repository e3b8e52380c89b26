// Package matching provides game filtering by tags and positions.
package matching

import (
	"strings"
	"unicode"

	"github.com/MichaelB7/pgn-extract-sub000/internal/chess"
	"github.com/MichaelB7/pgn-extract-sub000/internal/engine"
)

// MaterialMatcher matches games by material balance, optionally
// requiring the balance to hold for several consecutive plies before
// it counts as a genuine ending rather than a passing position.
type MaterialMatcher struct {
	pattern     string // e.g. "QR:qrr" -- white pieces : black pieces
	exactMatch  bool
	whitePieces map[chess.Piece]int
	blackPieces map[chess.Piece]int
	whiteMinor  int // bishops+knights required of white via the "L" aggregate letter, 0 = unset
	blackMinor  int
	moveDepth   int // consecutive matching plies required; <=1 means any single ply
}

// NewMaterialMatcher creates a new material matcher.
// Pattern format: "QRN:qrn" (white pieces : black pieces). Uppercase
// names white's required pieces, lowercase black's. K=King, Q=Queen,
// R=Rook, B=Bishop, N=Knight, P=Pawn, L=bishops+knights combined.
func NewMaterialMatcher(pattern string, exact bool) *MaterialMatcher {
	mm := &MaterialMatcher{
		pattern:     pattern,
		exactMatch:  exact,
		whitePieces: make(map[chess.Piece]int),
		blackPieces: make(map[chess.Piece]int),
	}
	mm.parsePattern(pattern)
	return mm
}

// SetMoveDepth requires a material match to persist for depth
// consecutive plies before MatchGame accepts it -- lets callers tell a
// genuine ending from a position that only passes through in transit.
func (mm *MaterialMatcher) SetMoveDepth(depth int) {
	mm.moveDepth = depth
}

// parsePattern splits a pattern like "QR:qrr" into its white and black halves.
func (mm *MaterialMatcher) parsePattern(pattern string) {
	parts := strings.SplitN(pattern, ":", 2)
	if len(parts) >= 1 {
		mm.parsePieces(parts[0], chess.White)
	}
	if len(parts) >= 2 {
		mm.parsePieces(parts[1], chess.Black)
	}
}

// parsePieces parses a piece specification string for the given color.
// White pieces use uppercase (KQRBNPL), black pieces use lowercase.
func (mm *MaterialMatcher) parsePieces(s string, color chess.Colour) {
	target := mm.whitePieces
	minor := &mm.whiteMinor
	if color == chess.Black {
		target = mm.blackPieces
		minor = &mm.blackMinor
	}

	for _, c := range s {
		switch unicode.ToUpper(c) {
		case 'K':
			target[chess.King]++
		case 'Q':
			target[chess.Queen]++
		case 'R':
			target[chess.Rook]++
		case 'B':
			target[chess.Bishop]++
		case 'N':
			target[chess.Knight]++
		case 'P':
			target[chess.Pawn]++
		case 'L':
			*minor++
		}
	}
}

// MatchGame checks whether the material balance holds for at least
// moveDepth consecutive plies anywhere in the game.
func (mm *MaterialMatcher) MatchGame(game *chess.Game) bool {
	depth := mm.moveDepth
	if depth < 1 {
		depth = 1
	}

	board, _ := engine.NewBoardFromFEN(engine.InitialFEN) //nolint:errcheck // InitialFEN is known valid
	run := 0
	if mm.advanceRun(board, &run, depth) {
		return true
	}

	for move := game.Moves; move != nil; move = move.Next {
		if !engine.ApplyMove(board, move) {
			break
		}
		if mm.advanceRun(board, &run, depth) {
			return true
		}
	}
	return false
}

// advanceRun evaluates board against the pattern, extending or resetting
// the running streak of consecutive matching plies, and reports whether
// the streak has now reached the required depth.
func (mm *MaterialMatcher) advanceRun(board *chess.Board, run *int, depth int) bool {
	if mm.matchPosition(board) {
		*run++
	} else {
		*run = 0
	}
	return *run >= depth
}

// matchPosition checks if a position matches the material pattern.
func (mm *MaterialMatcher) matchPosition(board *chess.Board) bool {
	whiteCounts, blackCounts := countMaterial(board)

	if mm.exactMatch {
		return sideMatchesExactly(whiteCounts, mm.whitePieces, mm.whiteMinor) &&
			sideMatchesExactly(blackCounts, mm.blackPieces, mm.blackMinor)
	}
	return sideHasAtLeast(whiteCounts, mm.whitePieces, mm.whiteMinor) &&
		sideHasAtLeast(blackCounts, mm.blackPieces, mm.blackMinor)
}

// countMaterial tallies the pieces of each colour currently on board.
func countMaterial(board *chess.Board) (white, black map[chess.Piece]int) {
	white = make(map[chess.Piece]int)
	black = make(map[chess.Piece]int)
	for col := chess.Hedge; col < chess.Hedge+chess.BoardSize; col++ {
		for rank := chess.Hedge; rank < chess.Hedge+chess.BoardSize; rank++ {
			piece := board.Squares[col][rank]
			if piece == chess.Empty || piece == chess.Off {
				continue
			}
			if chess.ExtractColour(piece) == chess.White {
				white[chess.ExtractPiece(piece)]++
			} else {
				black[chess.ExtractPiece(piece)]++
			}
		}
	}
	return white, black
}

// sideHasAtLeast reports whether actual contains at least the counts
// required. When minor (the "L" aggregate) is set, it is checked as a
// combined bishop+knight requirement of its own; if individual bishop
// or knight counts were also required, either the individual check or
// the aggregate check passing is enough.
func sideHasAtLeast(actual, required map[chess.Piece]int, minor int) bool {
	for piece, count := range required {
		if piece == chess.Bishop || piece == chess.Knight {
			continue
		}
		if actual[piece] < count {
			return false
		}
	}

	hasIndividual := required[chess.Bishop] > 0 || required[chess.Knight] > 0
	individualOK := actual[chess.Bishop] >= required[chess.Bishop] && actual[chess.Knight] >= required[chess.Knight]

	if minor > 0 {
		aggregateOK := actual[chess.Bishop]+actual[chess.Knight] >= minor
		if hasIndividual {
			return individualOK || aggregateOK
		}
		return aggregateOK
	}
	return !hasIndividual || individualOK
}

// sideMatchesExactly reports whether actual has exactly the counts
// required (with the same minor-piece fallback) and no unspecified
// piece types present.
func sideMatchesExactly(actual, required map[chess.Piece]int, minor int) bool {
	for piece, count := range required {
		if piece == chess.Bishop || piece == chess.Knight {
			continue
		}
		if actual[piece] != count {
			return false
		}
	}

	hasIndividual := required[chess.Bishop] > 0 || required[chess.Knight] > 0
	individualOK := actual[chess.Bishop] == required[chess.Bishop] && actual[chess.Knight] == required[chess.Knight]

	var minorMatched bool
	switch {
	case minor > 0:
		aggregateOK := actual[chess.Bishop]+actual[chess.Knight] == minor
		if hasIndividual {
			minorMatched = individualOK || aggregateOK
		} else {
			minorMatched = aggregateOK
		}
	case hasIndividual:
		minorMatched = individualOK
	default:
		// Neither an individual bishop/knight count nor the "L"
		// aggregate was specified: exact mode still requires none
		// be present on the board.
		minorMatched = actual[chess.Bishop] == 0 && actual[chess.Knight] == 0
	}
	if !minorMatched {
		return false
	}

	allPieces := []chess.Piece{chess.King, chess.Queen, chess.Rook, chess.Pawn} // Bishop/Knight handled above
	for _, piece := range allPieces {
		if required[piece] == 0 && actual[piece] != 0 {
			return false
		}
	}
	return true
}

// HasCriteria returns true if a material pattern is set.
func (mm *MaterialMatcher) HasCriteria() bool {
	return mm.pattern != ""
}

// Match implements GameMatcher interface.
func (mm *MaterialMatcher) Match(game *chess.Game) bool {
	return mm.MatchGame(game)
}

// Name implements GameMatcher interface.
func (mm *MaterialMatcher) Name() string {
	return "MaterialMatcher"
}
