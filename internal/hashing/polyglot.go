package hashing

import (
	"github.com/MichaelB7/pgn-extract-sub000/internal/chess"
)

// polyglotRandom64 lays out random codes in the standard Polyglot book
// layout: 768 piece/square codes (12 piece kinds * 64 squares), 4 castling
// codes (white king/queen side, black king/queen side), 8 en-passant-file
// codes, and 1 side-to-move code. It is filled independently of
// zobristTable (see zobrist.go) by splitmix64, seeded differently, so the
// two tables never collide by construction. This mirrors the public
// Polyglot scheme closely enough for -H hash matching against
// externally-supplied hex hashes produced by the same scheme; it is not a
// byte-for-byte reproduction of any third-party constant table.
var polyglotRandom64 [781]uint64

const (
	polyglotPieceBase     = 0   // 768 entries: pieceIndex*64 + square
	polyglotCastleBase    = 768 // 4 entries
	polyglotEPBase        = 772 // 8 entries, one per file
	polyglotTurnBase      = 780 // 1 entry
	polyglotSeed   uint64 = 0x9E3779B97F4A7C15
)

func init() {
	state := polyglotSeed
	splitmix64 := func() uint64 {
		state += 0x9E3779B97F4A7C15
		z := state
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		return z ^ (z >> 31)
	}
	for i := range polyglotRandom64 {
		polyglotRandom64[i] = splitmix64()
	}
}

// polyglotPieceIndex maps a piece kind (chess.Pawn..chess.King) and colour
// to Polyglot's conventional piece ordering: black pawn=0, white pawn=1,
// black knight=2, white knight=3, ... black king=10, white king=11.
func polyglotPieceIndex(kind chess.Piece, colour chess.Colour) int {
	order := map[chess.Piece]int{
		chess.Pawn:   0,
		chess.Knight: 1,
		chess.Bishop: 2,
		chess.Rook:   3,
		chess.Queen:  4,
		chess.King:   5,
	}
	idx := order[kind]*2 + 1
	if colour == chess.Black {
		idx = order[kind] * 2
	}
	return idx
}

// PolyglotHash computes the Polyglot-scheme hash of a board, including
// side to move, castling rights and the en-passant file — unlike
// GenerateZobristHash, which is placement-only. This is the hash consulted
// for the -H / hex-hashcode positional matcher (spec: a second,
// independent table used only for matching externally supplied hash
// values against opening-book-style position keys).
func PolyglotHash(board *chess.Board) uint64 {
	if board == nil {
		return 0
	}
	var hash uint64

	for file := chess.FirstCol; file <= chess.LastCol; file++ {
		for rank := chess.FirstRank; rank <= chess.LastRank; rank++ {
			piece := board.Get(file, rank)
			if piece == chess.Off || piece == chess.Empty {
				continue
			}
			colour := chess.ExtractColour(piece)
			kind := chess.ExtractPiece(piece)
			square := int(rank-chess.FirstRank)*8 + int(file-chess.FirstCol)
			hash ^= polyglotRandom64[polyglotPieceBase+polyglotPieceIndex(kind, colour)*64+square]
		}
	}

	if board.WKingCastle != 0 {
		hash ^= polyglotRandom64[polyglotCastleBase+0]
	}
	if board.WQueenCastle != 0 {
		hash ^= polyglotRandom64[polyglotCastleBase+1]
	}
	if board.BKingCastle != 0 {
		hash ^= polyglotRandom64[polyglotCastleBase+2]
	}
	if board.BQueenCastle != 0 {
		hash ^= polyglotRandom64[polyglotCastleBase+3]
	}

	if board.EnPassant {
		fileIdx := int(board.EPCol - chess.FirstCol)
		if fileIdx >= 0 && fileIdx < 8 {
			hash ^= polyglotRandom64[polyglotEPBase+fileIdx]
		}
	}

	if board.ToMove == chess.White {
		hash ^= polyglotRandom64[polyglotTurnBase]
	}

	return hash
}
