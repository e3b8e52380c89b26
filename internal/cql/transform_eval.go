package cql

import "strings"

// squareTransform maps a square's (file, rank) coordinates to the
// square they land on under some symmetry of the board.
type squareTransform func(col, rank int) (int, int)

// transformKind distinguishes a geometric symmetry (reflect/translate
// squares) from a color swap (squares stay put, piece letters flip),
// since the two need different handling when walking a PieceNode.
type transformKind int

const (
	transformGeometry transformKind = iota
	transformColor
)

// boardTransform pairs a transform's coordinate mapping with what kind
// of symmetry it represents, so transformNode can dispatch on kind
// directly instead of probing the function's behavior at runtime.
type boardTransform struct {
	kind transformKind
	fn   squareTransform
}

// colorSwapMap maps piece characters to their opposite color equivalents.
var colorSwapMap = map[rune]rune{
	'K': 'k', 'Q': 'q', 'R': 'r', 'B': 'b', 'N': 'n', 'P': 'p',
	'k': 'K', 'q': 'Q', 'r': 'R', 'b': 'B', 'n': 'N', 'p': 'P',
	'A': 'a', 'a': 'A',
}

func identitySquares(col, rank int) (int, int) { return col, rank }

var (
	horizontalFlip = boardTransform{kind: transformGeometry, fn: func(col, rank int) (int, int) {
		return 7 - col, rank // a<->h, b<->g, etc.
	}}
	verticalFlip = boardTransform{kind: transformGeometry, fn: func(col, rank int) (int, int) {
		return col, 7 - rank // 1<->8, 2<->7, etc.
	}}
	colorFlip = boardTransform{kind: transformColor, fn: identitySquares}
)

// tryTransforms evaluates the original pattern, then each alternative
// transform in turn, short-circuiting on the first that matches.
func (e *Evaluator) tryTransforms(node Node, alternatives ...boardTransform) bool {
	if e.Evaluate(node) {
		return true
	}
	for _, t := range alternatives {
		if e.Evaluate(e.transformNode(node, t)) {
			return true
		}
	}
	return false
}

// evalFlip evaluates the child expression with horizontal flip transformation.
// Tries both the original pattern and its horizontal mirror (a<->h files).
func (e *Evaluator) evalFlip(args []Node) bool {
	if len(args) < 1 {
		return false
	}
	return e.tryTransforms(args[0], horizontalFlip)
}

// evalFlipVertical evaluates with vertical flip transformation (1<->8 ranks).
func (e *Evaluator) evalFlipVertical(args []Node) bool {
	if len(args) < 1 {
		return false
	}
	return e.tryTransforms(args[0], verticalFlip)
}

// evalFlipColor evaluates with color flip transformation (white<->black).
func (e *Evaluator) evalFlipColor(args []Node) bool {
	if len(args) < 1 {
		return false
	}
	return e.tryTransforms(args[0], colorFlip)
}

// shiftRange yields the translation offsets to probe for evalShift and
// its axis-restricted variants: every combination of dCol/dRank the
// caller allows, each no larger in magnitude than 7 squares.
func shiftRange(allowCol, allowRank bool) []boardTransform {
	var shifts []boardTransform
	for dCol := -7; dCol <= 7; dCol++ {
		if !allowCol && dCol != 0 {
			continue
		}
		for dRank := -7; dRank <= 7; dRank++ {
			if !allowRank && dRank != 0 {
				continue
			}
			if dCol == 0 && dRank == 0 {
				continue
			}
			dCol, dRank := dCol, dRank
			shifts = append(shifts, boardTransform{
				kind: transformGeometry,
				fn:   func(col, rank int) (int, int) { return col + dCol, rank + dRank },
			})
		}
	}
	return shifts
}

// evalShift tries every translation of the pattern across both axes.
func (e *Evaluator) evalShift(args []Node) bool {
	if len(args) < 1 {
		return false
	}
	return e.tryTransforms(args[0], shiftRange(true, true)...)
}

// evalShiftHorizontal tries every horizontal-only translation.
func (e *Evaluator) evalShiftHorizontal(args []Node) bool {
	if len(args) < 1 {
		return false
	}
	return e.tryTransforms(args[0], shiftRange(true, false)...)
}

// evalShiftVertical tries every vertical-only translation.
func (e *Evaluator) evalShiftVertical(args []Node) bool {
	if len(args) < 1 {
		return false
	}
	return e.tryTransforms(args[0], shiftRange(false, true)...)
}

// transformNode creates a transformed copy of an AST node.
func (e *Evaluator) transformNode(node Node, transform boardTransform) Node {
	switch n := node.(type) {
	case *FilterNode:
		return e.transformFilterNode(n, transform)
	case *LogicalNode:
		children := make([]Node, len(n.Children))
		for i, child := range n.Children {
			children[i] = e.transformNode(child, transform)
		}
		return &LogicalNode{Op: n.Op, Children: children}
	case *SquareNode:
		return e.transformSquareNode(n, transform)
	case *PieceNode:
		if transform.kind == transformColor {
			return e.transformPieceNodeColor(n)
		}
		return n
	default:
		return node
	}
}

// transformFilterNode transforms a filter node with the given transform.
func (e *Evaluator) transformFilterNode(f *FilterNode, transform boardTransform) *FilterNode {
	args := make([]Node, len(f.Args))
	for i, arg := range f.Args {
		args[i] = e.transformNode(arg, transform)
	}
	return &FilterNode{Name: f.Name, Args: args}
}

// transformSquareNode transforms a square node with the given transform.
func (e *Evaluator) transformSquareNode(s *SquareNode, transform boardTransform) *SquareNode {
	squares := e.parseSquareSet(s.Designator)
	if len(squares) == 0 {
		return s
	}

	// For single squares, transform and create new designator.
	if len(squares) == 1 {
		sq := squares[0]
		newCol, newRank := transform.fn(int(sq.col), int(sq.rank))
		if newCol >= 0 && newCol < 8 && newRank >= 0 && newRank < 8 {
			newDesig := string(rune('a'+newCol)) + string(rune('1'+newRank))
			return &SquareNode{Designator: newDesig}
		}
		// Out of bounds - return original (won't match).
		return s
	}

	// Complex square sets aren't expanded element-by-element yet.
	return s
}

// transformPieceNodeColor swaps piece colors in a piece node.
func (e *Evaluator) transformPieceNodeColor(p *PieceNode) *PieceNode {
	var sb strings.Builder
	sb.Grow(len(p.Designator))

	for _, c := range p.Designator {
		if swapped, ok := colorSwapMap[c]; ok {
			sb.WriteRune(swapped)
		} else {
			sb.WriteRune(c)
		}
	}

	return &PieceNode{Designator: sb.String()}
}
