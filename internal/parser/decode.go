package parser

import (
	"strings"

	"github.com/MichaelB7/pgn-extract-sub000/internal/chess"
)

// isCol reports whether c names a file (column) letter.
func isCol(c byte) bool {
	return c >= chess.FirstCol && c <= chess.LastCol
}

// isRank reports whether c names a rank digit.
func isRank(c byte) bool {
	return c >= chess.FirstRank && c <= chess.LastRank
}

// isPiece returns the piece type named by the leading character(s) of
// move, recognizing English, Dutch/German, and Russian letter sets.
func isPiece(move string) chess.Piece {
	if len(move) == 0 {
		return chess.Empty
	}

	switch move[0] {
	case 'K', 'k':
		return chess.King
	case 'Q', 'q', 'D': // D = Dutch/German Queen
		return chess.Queen
	case 'R', 'r', 'T': // T = Dutch/German Rook
		return chess.Rook
	case 'N', 'n', 'P', 'S': // P = Dutch Knight, S = German Knight
		return chess.Knight
	case 'B', 'L': // L = Dutch/German Bishop; lowercase 'b' is usually a pawn file
		return chess.Bishop
	case RussianQueen:
		return chess.Queen
	case RussianRook:
		return chess.Rook
	case RussianBishop:
		return chess.Bishop
	case RussianKnightOrKing:
		if len(move) > 1 && move[1] == RussianKingSecondLetter {
			return chess.King
		}
		return chess.Knight
	}
	return chess.Empty
}

// isCapture reports whether c separates a from-square from a to-square
// as a capture or plain move dash.
func isCapture(c byte) bool {
	return c == 'x' || c == 'X' || c == ':' || c == '-'
}

// isCastlingChar reports whether c is one of the letters used to spell castling.
func isCastlingChar(c byte) bool {
	return c == 'O' || c == '0' || c == 'o'
}

// isCheck reports whether c is a trailing check/checkmate annotation.
func isCheck(c byte) bool {
	return c == '+' || c == '#'
}

// cursor walks a move string one byte at a time, the way a recursive-
// descent reader would, without copying substrings on every step.
type cursor struct {
	text string
	pos  int
}

func (c *cursor) cur() byte {
	if c.pos >= len(c.text) {
		return 0
	}
	return c.text[c.pos]
}

func (c *cursor) advance() {
	if c.pos < len(c.text) {
		c.pos++
	}
}

func (c *cursor) rest() string {
	if c.pos >= len(c.text) {
		return ""
	}
	return c.text[c.pos:]
}

// decoded accumulates the fields DecodeMove fills in while walking a
// move string; squares default to zero, meaning "unspecified".
type decoded struct {
	class         chess.MoveClass
	pieceToMove   chess.Piece
	promotedPiece chess.Piece
	fromCol       chess.Col
	fromRank      chess.Rank
	toCol         chess.Col
	toRank        chess.Rank
	ok            bool
}

// DecodeMove parses algebraic move text into a Move, classifying it as
// a pawn move, piece move, castle, or null move. Squares left ambiguous
// by the notation (e.g. "Nf3" never naming a from-square) are resolved
// later against the board by the applier, not here.
func DecodeMove(moveString string) *chess.Move {
	move := chess.NewMove()
	move.Text = moveString

	c := &cursor{text: moveString}
	var d decoded

	switch {
	case isCol(c.cur()):
		d = decodePawnMove(c)
	case isPiece(c.rest()) != chess.Empty:
		d = decodePieceMove(c)
	case isCastlingChar(c.cur()):
		d = decodeCastle(c)
	case moveString == chess.NullMoveString:
		d = decoded{class: chess.NullMove, ok: true}
	default:
		d.ok = false
	}

	if d.ok && d.class != chess.NullMove {
		for isCheck(c.cur()) {
			c.advance()
		}
		switch {
		case c.cur() == 0:
			// nothing left to consume
		case (strings.HasSuffix(c.rest(), "ep") || strings.HasSuffix(c.rest(), "e.p.")) && d.class == chess.PawnMove:
			d.class = chess.EnPassantPawnMove
		default:
			d.ok = false
		}
	}

	if !d.ok {
		d.class = chess.UnknownMove
	}

	move.Class = d.class
	move.PieceToMove = d.pieceToMove
	move.PromotedPiece = d.promotedPiece
	move.FromCol = d.fromCol
	move.FromRank = d.fromRank
	move.ToCol = d.toCol
	move.ToRank = d.toRank
	return move
}

// decodePawnMove reads a pawn move ("e4", "e2e4", "exd5", "bxa1=Q", ...)
// starting at the file letter the caller already confirmed is present.
func decodePawnMove(c *cursor) decoded {
	d := decoded{class: chess.PawnMove, pieceToMove: chess.Pawn, ok: true}

	col := chess.Col(c.cur())
	c.advance()

	if isRank(c.cur()) {
		rank := chess.Rank(c.cur())
		c.advance()
		if isCapture(c.cur()) {
			c.advance()
		}
		if isCol(c.cur()) {
			d.fromCol, d.fromRank = col, rank
			d.toCol = chess.Col(c.cur())
			c.advance()
			if isRank(c.cur()) {
				d.toRank = chess.Rank(c.cur())
				c.advance()
			}
		} else {
			d.toCol, d.toRank = col, rank
		}
	} else {
		if isCapture(c.cur()) {
			c.advance() // axb
		}
		if !isCol(c.cur()) {
			d.ok = false
			return d
		}
		d.fromCol = col
		d.toCol = chess.Col(c.cur())
		c.advance()
		if isRank(c.cur()) {
			d.toRank = chess.Rank(c.cur())
			c.advance()
			if d.fromCol != 'b' && d.fromCol != chess.Col(byte(d.toCol)+1) && d.fromCol != chess.Col(byte(d.toCol)-1) {
				d.ok = false
			}
		} else if d.fromCol != chess.Col(byte(d.toCol)+1) && d.fromCol != chess.Col(byte(d.toCol)-1) {
			d.ok = false
		}
	}

	if d.ok {
		if c.cur() == '=' {
			c.advance()
		}
		if piece := isPiece(c.rest()); piece != chess.Empty {
			d.class = chess.PawnMoveWithPromotion
			d.promotedPiece = piece
			c.advance()
		} else if c.cur() == 'b' { // trailing 'b' as Bishop promotion
			d.class = chess.PawnMoveWithPromotion
			d.promotedPiece = chess.Bishop
			c.advance()
		}
	}

	return d
}

// decodePieceMove reads a non-pawn move, handling the disambiguation
// forms algebraic notation allows: none ("Nf3"), a from-file ("Rae1"),
// a from-rank ("R1e1"), or both ("Re1d1").
func decodePieceMove(c *cursor) decoded {
	d := decoded{class: chess.PieceMove, ok: true}
	d.pieceToMove = isPiece(c.rest())

	if c.cur() == RussianKnightOrKing && d.pieceToMove == chess.King {
		c.advance()
	}
	c.advance()

	if isRank(c.cur()) {
		return decodePieceMoveFromRank(c, d)
	}
	if isCapture(c.cur()) {
		return decodePieceMoveDirectCapture(c, d)
	}
	if isCol(c.cur()) {
		return decodePieceMoveFromCol(c, d)
	}
	d.ok = false
	return d
}

// decodePieceMoveFromRank handles the "R1e1"/"R1xe3" disambiguating-rank form.
func decodePieceMoveFromRank(c *cursor, d decoded) decoded {
	d.fromRank = chess.Rank(c.cur())
	c.advance()
	if isCapture(c.cur()) {
		c.advance()
	}
	if !isCol(c.cur()) {
		d.ok = false
		return d
	}
	d.toCol = chess.Col(c.cur())
	c.advance()
	if isRank(c.cur()) {
		d.toRank = chess.Rank(c.cur())
		c.advance()
	}
	return d
}

// decodePieceMoveDirectCapture handles the unambiguous "Rxe1" form.
func decodePieceMoveDirectCapture(c *cursor, d decoded) decoded {
	c.advance()
	if !isCol(c.cur()) {
		d.ok = false
		return d
	}
	d.toCol = chess.Col(c.cur())
	c.advance()
	if !isRank(c.cur()) {
		d.ok = false
		return d
	}
	d.toRank = chess.Rank(c.cur())
	c.advance()
	return d
}

// decodePieceMoveFromCol handles every form that opens with a second
// file letter: "Re1", "Re1d1", "Re1xd1", and "Rae1".
func decodePieceMoveFromCol(c *cursor, d decoded) decoded {
	col := chess.Col(c.cur())
	c.advance()
	if isCapture(c.cur()) {
		c.advance()
	}

	if isRank(c.cur()) {
		rank := chess.Rank(c.cur())
		c.advance()
		if isCapture(c.cur()) {
			c.advance()
		}
		if isCol(c.cur()) {
			// Re1d1
			d.fromCol, d.fromRank = col, rank
			d.toCol = chess.Col(c.cur())
			c.advance()
			if !isRank(c.cur()) {
				d.ok = false
				return d
			}
			d.toRank = chess.Rank(c.cur())
			c.advance()
			return d
		}
		d.toCol, d.toRank = col, rank
		return d
	}

	if isCol(c.cur()) {
		// Rae1
		d.fromCol = col
		d.toCol = chess.Col(c.cur())
		c.advance()
		if !isRank(c.cur()) {
			d.ok = false
			return d
		}
		d.toRank = chess.Rank(c.cur())
		c.advance()
		return d
	}

	d.ok = false
	return d
}

// decodeCastle reads kingside or queenside castling notation, with or
// without dash separators ("O-O", "OO", "0-0-0").
func decodeCastle(c *cursor) decoded {
	d := decoded{pieceToMove: chess.King}

	c.advance()
	if c.cur() == '-' {
		c.advance()
	}
	if !isCastlingChar(c.cur()) {
		d.ok = false
		return d
	}
	c.advance()
	if c.cur() == '-' {
		c.advance()
	}
	if isCastlingChar(c.cur()) {
		d.class = chess.QueensideCastle
		c.advance()
	} else {
		d.class = chess.KingsideCastle
	}
	d.ok = true
	return d
}

// DecodeAlgebraic refines a decoded move's class using board context —
// the only way to tell a king step from castling, or a pawn step from
// a piece move, once the notation itself is purely coordinate-based
// ("e2e4" style rather than "e4"/"Nf3").
func DecodeAlgebraic(move *chess.Move, board *chess.Board) *chess.Move {
	fromR := chess.RankConvert(move.FromRank)
	fromC := chess.ColConvert(move.FromCol)
	if fromR == 0 || fromC == 0 {
		return move
	}

	piece := chess.ExtractPiece(board.GetByIndex(fromC, fromR))
	if piece == chess.Empty {
		return move
	}

	if piece == chess.King && move.FromCol == 'e' {
		switch move.ToCol {
		case 'g':
			move.Class = chess.KingsideCastle
		case 'c':
			move.Class = chess.QueensideCastle
		default:
			move.Class = chess.PieceMove
			move.PieceToMove = piece
		}
		return move
	}

	if piece == chess.Pawn {
		move.Class = chess.PawnMove
	} else {
		move.Class = chess.PieceMove
	}
	move.PieceToMove = piece
	return move
}
