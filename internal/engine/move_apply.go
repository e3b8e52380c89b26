package engine

import "github.com/MichaelB7/pgn-extract-sub000/internal/chess"

// ApplyMove mutates board in place to reflect move, toggling the side to
// move and updating castling/en-passant/clock state as a side effect.
// It reports whether the move could be resolved against the current
// position at all; it does not re-validate legality the parser already
// assumed (e.g. it trusts move.Class from decoding).
func ApplyMove(board *chess.Board, move *chess.Move) bool {
	if move == nil {
		return false
	}

	switch move.Class {
	case chess.NullMove:
		board.ToMove = board.ToMove.Opposite()
		board.EnPassant = false
		return true
	case chess.KingsideCastle:
		return castleKingRook(board, true)
	case chess.QueensideCastle:
		return castleKingRook(board, false)
	case chess.PawnMove, chess.PawnMoveWithPromotion, chess.EnPassantPawnMove:
		return movePawn(board, move)
	case chess.PieceMove:
		return movePiece(board, move)
	default:
		return false
	}
}

// movePawn resolves and plays a pawn move, including en-passant capture
// and promotion.
func movePawn(board *chess.Board, move *chess.Move) bool {
	side := board.ToMove
	fromCol, fromRank := move.FromCol, move.FromRank
	toCol, toRank := move.ToCol, move.ToRank

	if fromCol == 0 || fromRank == 0 {
		var ok bool
		fromCol, fromRank, ok = locatePawnOrigin(board, move, side)
		if !ok {
			return false
		}
	}

	mover := board.Get(fromCol, fromRank)

	if move.Class == chess.EnPassantPawnMove {
		capturedRank := toRank - 1
		if side == chess.Black {
			capturedRank = toRank + 1
		}
		board.Set(toCol, capturedRank, chess.Empty)
	}

	board.Set(fromCol, fromRank, chess.Empty)

	if move.Class == chess.PawnMoveWithPromotion {
		promoted := move.PromotedPiece
		if promoted == chess.Empty {
			promoted = chess.Queen
		}
		board.Set(toCol, toRank, chess.MakeColouredPiece(side, promoted))
	} else {
		board.Set(toCol, toRank, mover)
	}

	board.EnPassant = false
	switch {
	case side == chess.White && fromRank == '2' && toRank == '4':
		board.EnPassant = true
		board.EPCol, board.EPRank = toCol, '3'
	case side == chess.Black && fromRank == '7' && toRank == '5':
		board.EnPassant = true
		board.EPCol, board.EPRank = toCol, '6'
	}

	board.HalfmoveClock = 0
	if side == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = side.Opposite()
	return true
}

// locatePawnOrigin recovers the origin square of a pawn move that the
// decoder left partially disambiguated (captures name a from-file only;
// quiet moves name neither).
func locatePawnOrigin(board *chess.Board, move *chess.Move, side chess.Colour) (chess.Col, chess.Rank, bool) {
	toCol, toRank := move.ToCol, move.ToRank
	pawn := chess.MakeColouredPiece(side, chess.Pawn)
	step := chess.ColourOffset(side)

	if move.FromCol != 0 {
		originRank := chess.Rank(byte(toRank) - byte(step))
		if board.Get(move.FromCol, originRank) == pawn {
			return move.FromCol, originRank, true
		}
		return 0, 0, false
	}

	originRank := chess.Rank(byte(toRank) - byte(step))
	if board.Get(toCol, originRank) == pawn {
		return toCol, originRank, true
	}

	onDoublePushRank := (side == chess.White && toRank == '4') || (side == chess.Black && toRank == '5')
	if onDoublePushRank {
		farRank := chess.Rank(byte(toRank) - byte(2*step))
		passThroughRank := chess.Rank(byte(toRank) - byte(step))
		if board.Get(toCol, farRank) == pawn && board.Get(toCol, passThroughRank) == chess.Empty {
			return toCol, farRank, true
		}
	}

	return 0, 0, false
}

// movePiece resolves and plays a move by any piece other than a pawn.
func movePiece(board *chess.Board, move *chess.Move) bool {
	side := board.ToMove
	fromCol, fromRank := move.FromCol, move.FromRank
	toCol, toRank := move.ToCol, move.ToRank
	kind := move.PieceToMove

	if fromCol == 0 || fromRank == 0 {
		var ok bool
		fromCol, fromRank, ok = locatePieceOrigin(board, move, side)
		if !ok {
			return false
		}
	}

	mover := board.Get(fromCol, fromRank)
	captured := board.Get(toCol, toRank)

	board.Set(fromCol, fromRank, chess.Empty)
	board.Set(toCol, toRank, mover)

	if kind == chess.King {
		setKingSquare(board, side, toCol, toRank)
		clearCastlingRights(board, side)
	}
	if kind == chess.Rook {
		revokeRookRight(board, side, fromCol, fromRank)
	}
	if captured != chess.Empty && chess.ExtractPiece(captured) == chess.Rook {
		revokeRookRight(board, chess.ExtractColour(captured), toCol, toRank)
	}

	board.EnPassant = false
	if captured != chess.Empty {
		board.HalfmoveClock = 0
	} else {
		board.HalfmoveClock++
	}
	if side == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = side.Opposite()
	return true
}

// locatePieceOrigin scans the board for the single piece of move.PieceToMove
// that both satisfies any file/rank disambiguation the decoder supplied and
// can reach the target square unobstructed.
func locatePieceOrigin(board *chess.Board, move *chess.Move, side chess.Colour) (chess.Col, chess.Rank, bool) {
	kind := move.PieceToMove
	wanted := chess.MakeColouredPiece(side, kind)

	found := false
	var atCol chess.Col
	var atRank chess.Rank
	forEachSquare(func(col chess.Col, rank chess.Rank) bool {
		if board.Get(col, rank) != wanted {
			return true
		}
		if move.FromCol != 0 && col != move.FromCol {
			return true
		}
		if move.FromRank != 0 && rank != move.FromRank {
			return true
		}
		if canReach(board, kind, col, rank, move.ToCol, move.ToRank) {
			atCol, atRank, found = col, rank, true
			return false
		}
		return true
	})
	return atCol, atRank, found
}

// forEachSquare visits every board square in file-major order, stopping
// early when visit returns false.
func forEachSquare(visit func(col chess.Col, rank chess.Rank) bool) {
	for col := chess.Col('a'); col <= 'h'; col++ {
		for rank := chess.Rank('1'); rank <= '8'; rank++ {
			if !visit(col, rank) {
				return
			}
		}
	}
}

// castleKingRook slides the king and its chosen rook to their castled
// squares for the side to move.
func castleKingRook(board *chess.Board, kingside bool) bool {
	side := board.ToMove
	rank := chess.Rank('1')
	kingFrom := board.WKingCol
	rookFrom := board.WKingCastle
	kingTo, rookTo := chess.Col('g'), chess.Col('f')
	if !kingside {
		rookFrom = board.WQueenCastle
		kingTo, rookTo = 'c', 'd'
	}
	if side == chess.Black {
		rank = '8'
		kingFrom = board.BKingCol
		rookFrom = board.BKingCastle
		if !kingside {
			rookFrom = board.BQueenCastle
		}
	}

	king := board.Get(kingFrom, rank)
	board.Set(kingFrom, rank, chess.Empty)
	board.Set(kingTo, rank, king)

	rook := board.Get(rookFrom, rank)
	board.Set(rookFrom, rank, chess.Empty)
	board.Set(rookTo, rank, rook)

	setKingSquare(board, side, kingTo, rank)
	clearCastlingRights(board, side)

	board.EnPassant = false
	board.HalfmoveClock++
	if side == chess.Black {
		board.MoveNumber++
	}
	board.ToMove = side.Opposite()
	return true
}

// setKingSquare records where a side's king now sits.
func setKingSquare(board *chess.Board, side chess.Colour, col chess.Col, rank chess.Rank) {
	if side == chess.White {
		board.WKingCol, board.WKingRank = col, rank
	} else {
		board.BKingCol, board.BKingRank = col, rank
	}
}

// clearCastlingRights drops both of a side's castling rights, used when
// its king moves for any reason (including castling itself).
func clearCastlingRights(board *chess.Board, side chess.Colour) {
	if side == chess.White {
		board.WKingCastle, board.WQueenCastle = 0, 0
	} else {
		board.BKingCastle, board.BQueenCastle = 0, 0
	}
}

// revokeRookRight drops a single castling right when the rook that backs
// it moves away or is captured on its home square.
func revokeRookRight(board *chess.Board, side chess.Colour, col chess.Col, rank chess.Rank) {
	if side == chess.White && rank == '1' {
		if col == board.WKingCastle {
			board.WKingCastle = 0
		}
		if col == board.WQueenCastle {
			board.WQueenCastle = 0
		}
	} else if side == chess.Black && rank == '8' {
		if col == board.BKingCastle {
			board.BKingCastle = 0
		}
		if col == board.BQueenCastle {
			board.BQueenCastle = 0
		}
	}
}
