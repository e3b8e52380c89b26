package engine

import "github.com/MichaelB7/pgn-extract-sub000/internal/chess"

// knightOffsets, kingOffsets, diagonalDirs and straightDirs are the
// (file, rank) steps each piece type can take in one hop; the sliding
// pieces walk repeatedly along their directions until blocked.
var (
	knightOffsets = [][2]int{{-2, -1}, {-2, 1}, {-1, -2}, {-1, 2}, {1, -2}, {1, 2}, {2, -1}, {2, 1}}
	kingOffsets   = [][2]int{{-1, -1}, {-1, 0}, {-1, 1}, {0, -1}, {0, 1}, {1, -1}, {1, 0}, {1, 1}}
	diagonalDirs  = [][2]int{{-1, -1}, {-1, 1}, {1, -1}, {1, 1}}
	straightDirs  = [][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}}
)

// IsInCheck reports whether colour's king currently sits on an attacked
// square.
func IsInCheck(board *chess.Board, colour chess.Colour) bool {
	col, rank := kingSquare(board, colour)
	if col == 0 {
		return false
	}
	return squareAttackedBy(board, col, rank, colour.Opposite())
}

// kingSquare returns colour's king location, preferring the board's
// cached coordinates and falling back to a scan if they were never set
// (e.g. a board built straight from a FEN string).
func kingSquare(board *chess.Board, colour chess.Colour) (chess.Col, chess.Rank) {
	if colour == chess.White && board.WKingCol != 0 && board.WKingRank != 0 {
		return board.WKingCol, board.WKingRank
	}
	if colour == chess.Black && board.BKingCol != 0 && board.BKingRank != 0 {
		return board.BKingCol, board.BKingRank
	}
	return findKing(board, colour)
}

// findKing searches every square for colour's king.
func findKing(board *chess.Board, colour chess.Colour) (chess.Col, chess.Rank) {
	king := chess.MakeColouredPiece(colour, chess.King)
	var atCol chess.Col
	var atRank chess.Rank
	forEachSquare(func(col chess.Col, rank chess.Rank) bool {
		if board.Get(col, rank) == king {
			atCol, atRank = col, rank
			return false
		}
		return true
	})
	return atCol, atRank
}

// squareAttackedBy reports whether any piece belonging to attacker
// threatens (col, rank) under standard chess movement rules.
func squareAttackedBy(board *chess.Board, col chess.Col, rank chess.Rank, attacker chess.Colour) bool {
	if pawnThreatens(board, col, rank, attacker) {
		return true
	}
	if hopThreatens(board, col, rank, chess.MakeColouredPiece(attacker, chess.Knight), knightOffsets) {
		return true
	}
	if hopThreatens(board, col, rank, chess.MakeColouredPiece(attacker, chess.King), kingOffsets) {
		return true
	}
	diagAttackers := [2]chess.Piece{chess.MakeColouredPiece(attacker, chess.Bishop), chess.MakeColouredPiece(attacker, chess.Queen)}
	if rayThreatens(board, col, rank, diagonalDirs, diagAttackers) {
		return true
	}
	straightAttackers := [2]chess.Piece{chess.MakeColouredPiece(attacker, chess.Rook), chess.MakeColouredPiece(attacker, chess.Queen)}
	return rayThreatens(board, col, rank, straightDirs, straightAttackers)
}

// pawnThreatens checks the two squares a pawn of attacker's colour would
// capture from onto (col, rank).
func pawnThreatens(board *chess.Board, col chess.Col, rank chess.Rank, attacker chess.Colour) bool {
	pawn := chess.MakeColouredPiece(attacker, chess.Pawn)
	behind := -1
	if attacker == chess.Black {
		behind = 1
	}
	sourceRank := chess.Rank(int(rank) + behind)
	if sourceRank < '1' || sourceRank > '8' {
		return false
	}
	if col > 'a' && board.Get(col-1, sourceRank) == pawn {
		return true
	}
	return col < 'h' && board.Get(col+1, sourceRank) == pawn
}

// hopThreatens checks whether a single-step attacker (knight or king)
// sits on one of offsets away from (col, rank).
func hopThreatens(board *chess.Board, col chess.Col, rank chess.Rank, attacker chess.Piece, offsets [][2]int) bool {
	for _, step := range offsets {
		c := chess.Col(int(col) + step[0])
		r := chess.Rank(int(rank) + step[1])
		if isOnBoard(c, r) && board.Get(c, r) == attacker {
			return true
		}
	}
	return false
}

// rayThreatens walks each direction in dirs from (col, rank) until it
// hits a piece, reporting whether that piece is one of attackers.
func rayThreatens(board *chess.Board, col chess.Col, rank chess.Rank, dirs [][2]int, attackers [2]chess.Piece) bool {
	for _, dir := range dirs {
		c := chess.Col(int(col) + dir[0])
		r := chess.Rank(int(rank) + dir[1])
		for isOnBoard(c, r) {
			piece := board.Get(c, r)
			if piece != chess.Empty {
				if piece == attackers[0] || piece == attackers[1] {
					return true
				}
				break
			}
			c = chess.Col(int(c) + dir[0])
			r = chess.Rank(int(r) + dir[1])
		}
	}
	return false
}

// isOnBoard reports whether the coordinate pair falls within the 8x8 grid.
func isOnBoard(col chess.Col, rank chess.Rank) bool {
	return col >= 'a' && col <= 'h' && rank >= '1' && rank <= '8'
}
