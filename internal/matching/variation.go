// Package matching provides game filtering by tags and positions.
package matching

import (
	"bufio"
	"os"
	"strings"

	"github.com/MichaelB7/pgn-extract-sub000/internal/chess"
	"github.com/MichaelB7/pgn-extract-sub000/internal/engine"
)

// variantToken is one slot of a prepared variation line: either a set
// of pipe-separated literal alternatives, the "*" wildcard (always
// satisfied), or a "!"-prefixed disallowed alternative (satisfied only
// when the game move does NOT match it).
type variantToken struct {
	alts       []string
	disallowed bool
	any        bool
}

// VariationMatcher matches games against prepared move sequences (by
// SAN text, permutation-tolerant) and position sequences (by FEN).
type VariationMatcher struct {
	lines             [][]variantToken
	positionSequences [][]string
	matchAnywhere     bool
	strictOrder       bool
}

// NewVariationMatcher creates a new variation matcher.
func NewVariationMatcher() *VariationMatcher {
	return &VariationMatcher{}
}

// SetMatchAnywhere controls whether a variation line may start matching
// at any ply of the game (true) or only at the very first move (false,
// the default).
func (vm *VariationMatcher) SetMatchAnywhere(anywhere bool) {
	vm.matchAnywhere = anywhere
}

// SetStraightMode selects one-for-one ordered matching instead of the
// default permutation matching, where tokens of the same colour may
// satisfy the game's moves in any order.
func (vm *VariationMatcher) SetStraightMode(strict bool) {
	vm.strictOrder = strict
}

// LoadFromFile loads one variation line per non-blank, non-comment line
// of filename, e.g. "1. e4 c5 2. Nf3|Nc3 !d4".
func (vm *VariationMatcher) LoadFromFile(filename string) error {
	file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if tokens := parseVariantLine(line); len(tokens) > 0 {
			vm.lines = append(vm.lines, tokens)
		}
	}
	return scanner.Err()
}

// LoadPositionalFromFile loads positional variations from filename.
// Each line is a FEN position; blank lines separate sequences.
func (vm *VariationMatcher) LoadPositionalFromFile(filename string) error {
	file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return err
	}
	defer file.Close()

	var current []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(current) > 0 {
				vm.positionSequences = append(vm.positionSequences, current)
				current = nil
			}
			continue
		}
		if strings.HasPrefix(line, "#") {
			continue
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		vm.positionSequences = append(vm.positionSequences, current)
	}
	return scanner.Err()
}

// AddMoveSequence registers a variation line built from already-split
// move tokens (no "!"/"|" parsing — each entry is taken as a single
// required literal).
func (vm *VariationMatcher) AddMoveSequence(moves []string) {
	tokens := make([]variantToken, len(moves))
	for i, m := range moves {
		tokens[i] = variantToken{alts: []string{m}}
	}
	vm.lines = append(vm.lines, tokens)
}

// MatchGame reports whether game satisfies any loaded move line or
// position sequence. A matcher with nothing loaded matches everything,
// so it can be wired in unconditionally and act as a no-op filter.
func (vm *VariationMatcher) MatchGame(game *chess.Game) bool {
	if len(vm.lines) == 0 && len(vm.positionSequences) == 0 {
		return true
	}

	if len(vm.lines) > 0 {
		moves := flattenMoves(game)
		for _, tokens := range vm.lines {
			if vm.matchLine(tokens, moves) {
				return true
			}
		}
	}

	for _, seq := range vm.positionSequences {
		if matchPositionSequence(game, seq) {
			return true
		}
	}

	return false
}

// flattenMoves collects a game's main-line moves into a slice so the
// matchers can index and window over them instead of re-walking a
// linked list per candidate offset.
func flattenMoves(game *chess.Game) []*chess.Move {
	var moves []*chess.Move
	for m := game.Moves; m != nil; m = m.Next {
		moves = append(moves, m)
	}
	return moves
}

// matchLine tries tokens against every legal start offset in moves
// (just offset 0 unless matchAnywhere is set).
func (vm *VariationMatcher) matchLine(tokens []variantToken, moves []*chess.Move) bool {
	length := len(tokens)
	if length == 0 || len(moves) < length {
		return false
	}

	lastOffset := 0
	if vm.matchAnywhere {
		lastOffset = len(moves) - length
	}
	for offset := 0; offset <= lastOffset; offset++ {
		window := moves[offset : offset+length]
		if vm.strictOrder {
			if matchStraight(tokens, window) {
				return true
			}
		} else if matchPermutation(tokens, window) {
			return true
		}
	}
	return false
}

// matchStraight aligns tokens and window one-for-one in order.
func matchStraight(tokens []variantToken, window []*chess.Move) bool {
	for i, tok := range tokens {
		if !tokenSatisfiedBy(tok, window[i].Text) {
			return false
		}
	}
	return true
}

// matchPermutation implements the two-stage permutation algorithm: a
// disallowed move anywhere in the correctly-coloured slot fails the
// whole window; otherwise disallowed tokens become wildcards and the
// remaining literal tokens are greedily matched colour-by-colour.
func matchPermutation(tokens []variantToken, window []*chess.Move) bool {
	for i, tok := range tokens {
		if !tok.disallowed {
			continue
		}
		white := i%2 == 0
		for j, mv := range window {
			if (j%2 == 0) != white {
				continue
			}
			if literalTokenMatches(tok, mv.Text) {
				return false
			}
		}
	}

	var whiteLits, blackLits []variantToken
	whiteWild, blackWild := 0, 0
	for i, tok := range tokens {
		white := i%2 == 0
		switch {
		case tok.disallowed || tok.any:
			if white {
				whiteWild++
			} else {
				blackWild++
			}
		default:
			if white {
				whiteLits = append(whiteLits, tok)
			} else {
				blackLits = append(blackLits, tok)
			}
		}
	}
	whiteUsed := make([]bool, len(whiteLits))
	blackUsed := make([]bool, len(blackLits))

	for j, mv := range window {
		white := j%2 == 0
		lits, used := whiteLits, whiteUsed
		wild := &whiteWild
		if !white {
			lits, used = blackLits, blackUsed
			wild = &blackWild
		}

		matched := false
		for k, lit := range lits {
			if used[k] {
				continue
			}
			if literalTokenMatches(lit, mv.Text) {
				used[k] = true
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		if *wild > 0 {
			*wild--
			continue
		}
		return false
	}
	return true
}

// tokenSatisfiedBy reports whether moveText satisfies tok under
// straight matching (disallowed tokens negate the literal test).
func tokenSatisfiedBy(tok variantToken, moveText string) bool {
	if tok.any {
		return true
	}
	matched := literalTokenMatches(tok, moveText)
	if tok.disallowed {
		return !matched
	}
	return matched
}

// literalTokenMatches reports whether any of tok's alternatives appears
// in moveText as a bounded substring.
func literalTokenMatches(tok variantToken, moveText string) bool {
	for _, alt := range tok.alts {
		if boundedSubstring(moveText, alt) {
			return true
		}
	}
	return false
}

// boundedSubstring reports whether needle occurs in text flanked on
// both sides by a non-move character (or the string boundary), so
// "Nf3" matches within "Nf3+" but "c6" does not match within "Nc6".
func boundedSubstring(text, needle string) bool {
	if needle == "" {
		return false
	}
	start := 0
	for {
		idx := strings.Index(text[start:], needle)
		if idx < 0 {
			return false
		}
		idx += start
		leftOK := idx == 0 || !isMoveChar(text[idx-1])
		rightIdx := idx + len(needle)
		rightOK := rightIdx == len(text) || !isMoveChar(text[rightIdx])
		if leftOK && rightOK {
			return true
		}
		start = idx + 1
	}
}

// isMoveChar reports whether b can appear inside algebraic move text
// (so it must NOT appear adjacent to a bounded match).
func isMoveChar(b byte) bool {
	return (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// parseVariantLine splits a variation line into tokens, stripping move
// numbers ("1.", "2...") and parsing "!"-disallowed and "|"-alternative
// syntax on each remaining word.
func parseVariantLine(line string) []variantToken {
	var tokens []variantToken
	for _, word := range strings.Fields(line) {
		if word[len(word)-1] == '.' || strings.Contains(word, "...") {
			continue
		}
		tokens = append(tokens, parseVariantWord(word))
	}
	return tokens
}

// parseVariantWord builds one token from a single space-separated word
// of a variation line.
func parseVariantWord(word string) variantToken {
	if word == "*" {
		return variantToken{any: true}
	}
	disallowed := strings.HasPrefix(word, "!")
	if disallowed {
		word = word[1:]
	}
	return variantToken{alts: strings.Split(word, "|"), disallowed: disallowed}
}

// matchPositionSequence reports whether game passes through every FEN
// in seq, in order, at any plies (not necessarily consecutive).
func matchPositionSequence(game *chess.Game, seq []string) bool {
	if len(seq) == 0 {
		return true
	}

	board, _ := engine.NewBoardFromFEN(engine.InitialFEN) //nolint:errcheck // InitialFEN is known valid
	next := 0

	if matchesFENPosition(board, seq[next]) {
		next++
		if next >= len(seq) {
			return true
		}
	}

	for move := game.Moves; move != nil; move = move.Next {
		if !engine.ApplyMove(board, move) {
			break
		}
		if matchesFENPosition(board, seq[next]) {
			next++
			if next >= len(seq) {
				return true
			}
		}
	}
	return false
}

// matchesFENPosition compares just the piece-placement field of fen
// against board, so callers may pass partial FEN strings.
func matchesFENPosition(board *chess.Board, fen string) bool {
	boardFEN := engine.BoardToFEN(board)
	boardParts := strings.Split(boardFEN, " ")
	fenParts := strings.Split(fen, " ")
	if len(boardParts) == 0 || len(fenParts) == 0 {
		return false
	}
	return boardParts[0] == fenParts[0]
}

// HasCriteria reports whether any matching criteria are loaded.
func (vm *VariationMatcher) HasCriteria() bool {
	return len(vm.lines) > 0 || len(vm.positionSequences) > 0
}

// Match implements GameMatcher.
func (vm *VariationMatcher) Match(game *chess.Game) bool {
	return vm.MatchGame(game)
}

// Name implements GameMatcher.
func (vm *VariationMatcher) Name() string {
	return "VariationMatcher"
}
