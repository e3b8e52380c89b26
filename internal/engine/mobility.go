package engine

import "github.com/MichaelB7/pgn-extract-sub000/internal/chess"

// HasLegalMoves reports whether colour has at least one move that does
// not leave its own king in check. It stops at the first one found
// rather than enumerating every legal move, since callers only need a
// checkmate/stalemate yes-or-no answer.
func HasLegalMoves(board *chess.Board, colour chess.Colour) bool {
	found := false
	forEachSquare(func(col chess.Col, rank chess.Rank) bool {
		piece := board.Get(col, rank)
		if piece == chess.Empty || piece == chess.Off || chess.ExtractColour(piece) != colour {
			return true
		}
		if pieceHasEscape(board, col, rank, chess.ExtractPiece(piece), colour) {
			found = true
			return false
		}
		return true
	})
	return found
}

// pieceHasEscape reports whether the piece of kind standing on
// (fromCol, fromRank) has any destination that doesn't leave colour's
// king in check.
func pieceHasEscape(board *chess.Board, fromCol chess.Col, fromRank chess.Rank, kind chess.Piece, colour chess.Colour) bool {
	switch kind {
	case chess.Pawn:
		return pawnHasEscape(board, fromCol, fromRank, colour)
	case chess.Knight:
		return hopHasEscape(board, fromCol, fromRank, colour, knightOffsets)
	case chess.King:
		return hopHasEscape(board, fromCol, fromRank, colour, kingOffsets)
	case chess.Bishop:
		return rayHasEscape(board, fromCol, fromRank, colour, diagonalDirs)
	case chess.Rook:
		return rayHasEscape(board, fromCol, fromRank, colour, straightDirs)
	case chess.Queen:
		return rayHasEscape(board, fromCol, fromRank, colour, diagonalDirs) ||
			rayHasEscape(board, fromCol, fromRank, colour, straightDirs)
	}
	return false
}

// pawnHasEscape checks a pawn's single push, double push, and two
// capture squares (including en passant).
func pawnHasEscape(board *chess.Board, fromCol chess.Col, fromRank chess.Rank, colour chess.Colour) bool {
	step := chess.ColourOffset(colour)
	oneAhead := chess.Rank(int(fromRank) + step)
	if !isOnBoard(fromCol, oneAhead) {
		return false
	}

	if board.Get(fromCol, oneAhead) == chess.Empty {
		if safeAfterMove(board, fromCol, fromRank, fromCol, oneAhead, colour) {
			return true
		}
		homeRank := chess.Rank('2')
		if colour == chess.Black {
			homeRank = '7'
		}
		if fromRank == homeRank {
			twoAhead := chess.Rank(int(fromRank) + 2*step)
			if board.Get(fromCol, twoAhead) == chess.Empty && safeAfterMove(board, fromCol, fromRank, fromCol, twoAhead, colour) {
				return true
			}
		}
	}

	for _, side := range []int{-1, 1} {
		toCol := chess.Col(int(fromCol) + side)
		if !isOnBoard(toCol, oneAhead) {
			continue
		}
		target := board.Get(toCol, oneAhead)
		captures := target != chess.Empty && chess.ExtractColour(target) != colour
		enPassant := board.EnPassant && toCol == board.EPCol && oneAhead == board.EPRank
		if (captures || enPassant) && safeAfterMove(board, fromCol, fromRank, toCol, oneAhead, colour) {
			return true
		}
	}
	return false
}

// hopHasEscape checks a single-step piece's (knight or king) offsets.
func hopHasEscape(board *chess.Board, fromCol chess.Col, fromRank chess.Rank, colour chess.Colour, offsets [][2]int) bool {
	for _, step := range offsets {
		toCol := chess.Col(int(fromCol) + step[0])
		toRank := chess.Rank(int(fromRank) + step[1])
		if !isOnBoard(toCol, toRank) {
			continue
		}
		target := board.Get(toCol, toRank)
		if target != chess.Empty && chess.ExtractColour(target) == colour {
			continue
		}
		if safeAfterMove(board, fromCol, fromRank, toCol, toRank, colour) {
			return true
		}
	}
	return false
}

// rayHasEscape checks a sliding piece's directions one step at a time
// until blocked.
func rayHasEscape(board *chess.Board, fromCol chess.Col, fromRank chess.Rank, colour chess.Colour, dirs [][2]int) bool {
	for _, dir := range dirs {
		toCol := chess.Col(int(fromCol) + dir[0])
		toRank := chess.Rank(int(fromRank) + dir[1])
		for isOnBoard(toCol, toRank) {
			target := board.Get(toCol, toRank)
			if target != chess.Empty {
				if chess.ExtractColour(target) != colour && safeAfterMove(board, fromCol, fromRank, toCol, toRank, colour) {
					return true
				}
				break
			}
			if safeAfterMove(board, fromCol, fromRank, toCol, toRank, colour) {
				return true
			}
			toCol = chess.Col(int(toCol) + dir[0])
			toRank = chess.Rank(int(toRank) + dir[1])
		}
	}
	return false
}

// safeAfterMove plays the candidate move on a scratch copy of the board
// and reports whether colour's king is safe afterward.
func safeAfterMove(board *chess.Board, fromCol chess.Col, fromRank chess.Rank, toCol chess.Col, toRank chess.Rank, colour chess.Colour) bool {
	scratch := board.Copy()
	piece := scratch.Get(fromCol, fromRank)
	scratch.Set(fromCol, fromRank, chess.Empty)
	scratch.Set(toCol, toRank, piece)

	if chess.ExtractPiece(piece) == chess.King {
		setKingSquare(scratch, colour, toCol, toRank)
	}

	return !IsInCheck(scratch, colour)
}
