// flags.go - Command-line flag definitions and configuration
package main

import (
	"flag"

	"github.com/MichaelB7/pgn-extract-sub000/internal/config"
	"github.com/seekerror/stdlib/pkg/lang"
)

var (
	// Output options
	outputFile    = flag.String("o", "", "Output file (default: stdout)")
	appendOutput  = flag.Bool("a", false, "Append to output file instead of overwrite")
	sevenTagOnly  = flag.Bool("7", false, "Output only the seven tag roster")
	noTags        = flag.Bool("notags", false, "Don't output any tags")
	lineLength    = flag.Int("w", 80, "Maximum line length")
	outputFormat  = flag.String("W", "", "Output format: san, lalg, halg, elalg, uci, epd, fen")
	jsonOutput    = flag.Bool("J", false, "Output in JSON format")
	splitGames    = flag.Int("#", 0, "Split output into files of N games each")
	splitPattern  = flag.String("split-pattern", "%s_%d.pgn", "Filename pattern used by -# output splitting")
	ecoSplit      = flag.Int("E", 0, "Split output by ECO level (1-3)")
	ecoMaxHandles = flag.Int("eco-max-handles", 128, "Maximum concurrently open files for ECO-level output splitting")

	// Content options
	noComments   = flag.Bool("C", false, "Don't output comments")
	noNAGs       = flag.Bool("N", false, "Don't output NAGs")
	noVariations = flag.Bool("V", false, "Don't output variations")
	noResults    = flag.Bool("noresults", false, "Don't output results")
	noClocks     = flag.Bool("noclocks", false, "Strip clock annotations from comments")

	// Duplicate detection
	suppressDuplicates = flag.Bool("D", false, "Suppress duplicate games")
	duplicateFile      = flag.String("d", "", "Output duplicates to this file")
	outputDupsOnly     = flag.Bool("U", false, "Output only duplicates (suppress unique games)")
	checkFile          = flag.String("c", "", "Check file for duplicate detection")
	virtualHashTable   = flag.Bool("virtual-hash-table", false, "Use a disk-backed hash table for duplicate detection instead of in-memory (for very large corpora)")
	duplicateCapacity  = flag.Int("duplicate-capacity", 0, "Maximum hash table entries for duplicate detection (0 = unlimited)")
	deleteSameSetup    = flag.Bool("deletesamesetup", false, "Discard games that repeat an already-seen starting setup")

	// ECO classification
	ecoFile = flag.String("e", "", "ECO classification file (PGN format)")

	// Filtering options
	tagFile      = flag.String("t", "", "Tag criteria file for filtering")
	playerFilter = flag.String("p", "", "Filter by player name (either color)")
	whiteFilter  = flag.String("Tw", "", "Filter by White player")
	blackFilter  = flag.String("Tb", "", "Filter by Black player")
	ecoFilter    = flag.String("Te", "", "Filter by ECO code prefix")
	resultFilter = flag.String("Tr", "", "Filter by result (1-0, 0-1, 1/2-1/2)")
	fenFilter    = flag.String("Tf", "", "Filter by FEN position")
	negateMatch  = flag.Bool("n", false, "Output games that DON'T match criteria")
	useSoundex   = flag.Bool("S", false, "Use Soundex for player name matching")
	tagSubstring = flag.Bool("tagsubstr", false, "Match tag values anywhere (substring)")

	// Ply/move bounds
	minPly    = flag.Int("minply", 0, "Minimum ply count")
	maxPly    = flag.Int("maxply", 0, "Maximum ply count (0 = no limit)")
	minMoves  = flag.Int("minmoves", 0, "Minimum number of moves")
	maxMoves  = flag.Int("maxmoves", 0, "Maximum number of moves (0 = no limit)")
	stopAfter = flag.Int("stopafter", 0, "Stop after matching N games")
	exactPly  = flag.Int("exactply", 0, "Only games with exactly N plies")
	exactMove = flag.Int("exactmove", 0, "Only games with exactly N moves")
	plyRange  = flag.String("plyrange", "", "Only games whose ply count falls in MIN-MAX")
	moveRange = flag.String("moverange", "", "Only games whose move count falls in MIN-MAX")

	// Game selection by ordinal position
	selectOnly   = flag.String("matchgames", "", "Comma-separated list of game positions to include (1-based)")
	skipMatching = flag.String("skipgames", "", "Comma-separated list of game positions to exclude (1-based)")

	// Move truncation
	dropPly    = flag.Int("dropply", 0, "Drop the first N plies before output")
	startPly   = flag.Int("startply", 0, "Start output at the given ply")
	plyLimit   = flag.Int("plylimit", 0, "Limit output to at most N plies")
	dropBefore = flag.String("dropbefore", "", "Drop all plies up to and including the first comment containing this text")

	// Ending filters
	checkmateFilter = flag.Bool("checkmate", false, "Only output games ending in checkmate")
	stalemateFilter = flag.Bool("stalemate", false, "Only output games ending in stalemate")

	// Game feature filters
	fiftyMoveFilter      = flag.Bool("fifty", false, "Games with 50-move rule")
	repetitionFilter     = flag.Bool("repetition", false, "Games with 3-fold repetition")
	underpromotionFilter = flag.Bool("underpromotion", false, "Games with underpromotion")
	commentedFilter      = flag.Bool("commented", false, "Only games with comments")
	higherRatedWinner    = flag.Bool("higherratedwinner", false, "Higher-rated player won")
	lowerRatedWinner     = flag.Bool("lowerratedwinner", false, "Lower-rated player won")
	seventyFiveMoveFilter = flag.Bool("seventyfive", false, "Games with 75-move rule (automatic draw)")
	fiveFoldRepFilter     = flag.Bool("fivefold", false, "Games with 5-fold repetition (automatic draw)")
	insufficientFilter    = flag.Bool("insufficient", false, "Games ending in insufficient mating material")
	materialOddsFilter    = flag.Bool("materialodds", false, "Games played at material odds")
	pieceCount            = flag.Int("pieces", 0, "Only games that reach a position with exactly N pieces on the board")
	noSetupTags           = flag.Bool("nosetuptags", false, "Exclude games with a SetUp tag")
	onlySetupTags         = flag.Bool("onlysetuptags", false, "Only games with a SetUp tag")

	// CQL filter
	cqlQuery = flag.String("cql", "", "CQL query to filter games by position patterns")
	cqlFile  = flag.String("cql-file", "", "File containing CQL query")

	// Variation matching
	variationFile = flag.String("v", "", "File with move sequences to match")
	positionFile  = flag.String("x", "", "File with positional variations to match")
	varAnywhere   = flag.Bool("varanywhere", false, "Match variations anywhere in the game, not just from the start")

	// Material matching
	materialMatch      = flag.String("z", "", "Material balance to match (e.g., 'QR:qrr')")
	materialMatchExact = flag.String("y", "", "Exact material balance to match")
	materialMatchDepth = flag.Int("materialdepth", 0, "Consecutive plies the material balance must hold before it counts as a match")

	// Annotations
	addPlyCount     = flag.Bool("plycount", false, "Add PlyCount tag")
	addFENComments  = flag.Bool("fencomments", false, "Add FEN comment after each move")
	addHashComments = flag.Bool("hashcomments", false, "Add position hash after each move")
	addHashcodeTag  = flag.Bool("addhashcode", false, "Add HashCode tag")

	// Tag management
	fixResultTags = flag.Bool("fixresulttags", false, "Fix inconsistent result tags")
	fixTagStrings = flag.Bool("fixtagstrings", false, "Fix malformed tag strings")

	// Validation
	strictMode   = flag.Bool("strict", false, "Only output games that parse without errors")
	validateMode = flag.Bool("validate", false, "Verify all moves are legal")
	fixableMode  = flag.Bool("fixable", false, "Attempt to fix common issues")

	// Logging
	logFile    = flag.String("l", "", "Write diagnostics to log file")
	appendLog  = flag.String("L", "", "Append diagnostics to log file")
	reportOnly = flag.Bool("r", false, "Report errors without extracting games")

	// Batch input
	fileListFile = flag.String("fl", "", "File containing a list of input PGN files, one per line")

	// Polyglot hash
	hashMatch = flag.String("H", "", "Match positions by polyglot hashcode")

	// Other options
	quiet   = flag.Bool("s", false, "Silent mode (no game count)")
	help    = flag.Bool("h", false, "Show help")
	version = flag.Bool("version", false, "Show version")

	// Performance options
	workers = flag.Int("workers", 0, "Number of worker threads (0 = auto-detect based on CPU cores)")
	jobs    = flag.Int("jobs", 1, "Number of input files to process concurrently (1 = sequential)")

	// Phase 4: parsing and matching extensions
	nestedComments = flag.Bool("nestedcomments", false, "Allow {} comments to nest instead of terminating at the first }")
	splitVariants  = flag.Bool("splitvariants", false, "Emit each variation as its own game instead of inlining it")
	chess960Mode   = flag.Bool("chess960", false, "Interpret castling under Chess960/Fischer Random rules")
	fuzzyDepth     = flag.Int("fuzzydepth", -1, "Tolerate this many half-moves of divergence when fuzzy-matching duplicates (unset disables fuzzy matching)")
)

// fuzzyDepthOption reports the configured fuzzy-match depth, distinguishing an
// explicit --fuzzydepth=0 (exact-length fuzzy matching) from the flag never
// having been set at all.
func fuzzyDepthOption() lang.Optional[int] {
	if *fuzzyDepth < 0 {
		return lang.Optional[int]{}
	}
	return lang.Some(*fuzzyDepth)
}

// applyTagOutputFlags resolves the tag-roster presentation flags.
func applyTagOutputFlags(cfg *config.Engine) {
	if *sevenTagOnly {
		cfg.Output.TagFormat = config.SevenTagRoster
	}
	if *noTags {
		cfg.Output.TagFormat = config.NoTags
	}
}

// applyContentFlags resolves which move-text elements survive into the output.
func applyContentFlags(cfg *config.Engine) {
	cfg.Output.KeepComments = !*noComments
	cfg.Output.KeepNAGs = !*noNAGs
	cfg.Output.KeepVariations = !*noVariations
	cfg.Output.KeepResults = !*noResults
	cfg.Output.StripClockAnnotations = *noClocks
	cfg.Output.JSONFormat = *jsonOutput
	cfg.Output.MaxLineLength = uint(*lineLength)
}

// applyOutputFormatFlags resolves the move notation used for output.
func applyOutputFormatFlags(cfg *config.Engine) {
	switch *outputFormat {
	case "lalg":
		cfg.Output.Format = config.LALG
	case "halg":
		cfg.Output.Format = config.HALG
	case "elalg":
		cfg.Output.Format = config.ELALG
	case "uci":
		cfg.Output.Format = config.UCI
	case "epd":
		cfg.Output.Format = config.EPD
	case "fen":
		cfg.Output.Format = config.FEN
	default:
		cfg.Output.Format = config.SAN
	}
}

// applyMoveBoundsFlags resolves the ply/move-count filter window.
func applyMoveBoundsFlags(cfg *config.Engine) {
	if *minPly > 0 || *maxPly > 0 || *minMoves > 0 || *maxMoves > 0 {
		cfg.Filter.CheckMoveBounds = true
		if *minMoves > 0 {
			cfg.Filter.LowerMoveBound = uint(*minMoves)
		}
		if *maxMoves > 0 {
			cfg.Filter.UpperMoveBound = uint(*maxMoves)
		}
	}
}

// applyAnnotationFlags resolves the per-move annotations to add and the tag
// repairs to perform.
func applyAnnotationFlags(cfg *config.Engine) {
	cfg.Annotation.AddPlyCount = *addPlyCount
	cfg.Annotation.AddFENComments = *addFENComments
	cfg.Annotation.AddHashComments = *addHashComments
	cfg.Annotation.AddHashTag = *addHashcodeTag

	cfg.Annotation.FixResultTags = *fixResultTags
	cfg.Annotation.FixTagStrings = *fixTagStrings
}

// applyFilterFlags resolves the game-ending and player-matching filters.
func applyFilterFlags(cfg *config.Engine) {
	cfg.Filter.MatchCheckmate = *checkmateFilter
	cfg.Filter.MatchStalemate = *stalemateFilter
	cfg.Filter.CheckFiftyMoveRule = *fiftyMoveFilter
	cfg.Filter.CheckRepetition = *repetitionFilter
	cfg.Filter.MatchUnderpromotion = *underpromotionFilter
	cfg.Filter.UseSoundex = *useSoundex
}

// applyDuplicateFlags resolves the hash-table capacity bound for duplicate
// detection.
func applyDuplicateFlags(cfg *config.Engine) {
	cfg.Duplicate.MaxCapacity = *duplicateCapacity
}

// applyPhase4Flags resolves the parsing and matching extensions added after
// the original feature set: nested comments, variation splitting, Chess960
// castling, and fuzzy-depth duplicate tolerance.
func applyPhase4Flags(cfg *config.Engine) {
	cfg.AllowNestedComments = *nestedComments
	cfg.SplitVariants = *splitVariants
	cfg.Chess960Mode = *chess960Mode

	if depth, ok := fuzzyDepthOption().V(); ok {
		cfg.FuzzyDepth = depth
	}
}

// applyFlags applies every command-line flag to the configuration.
func applyFlags(cfg *config.Engine) {
	applyTagOutputFlags(cfg)
	applyContentFlags(cfg)
	applyOutputFormatFlags(cfg)
	applyMoveBoundsFlags(cfg)
	applyAnnotationFlags(cfg)
	applyFilterFlags(cfg)
	applyDuplicateFlags(cfg)
	applyPhase4Flags(cfg)

	if *quiet {
		cfg.Verbosity = 0
	}
	cfg.CheckOnly = *reportOnly
}
