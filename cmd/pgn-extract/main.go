// pgn-extract is a tool for searching, manipulating, and formatting chess games in PGN format.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"github.com/seekerror/logw"

	"github.com/MichaelB7/pgn-extract-sub000/internal/config"
	"github.com/MichaelB7/pgn-extract-sub000/internal/cql"
	"github.com/MichaelB7/pgn-extract-sub000/internal/eco"
	"github.com/MichaelB7/pgn-extract-sub000/internal/hashing"
	"github.com/MichaelB7/pgn-extract-sub000/internal/matching"
	"github.com/MichaelB7/pgn-extract-sub000/internal/profile"
)

const programVersion = "0.1.0"

func main() {
	appCtx := context.Background()

	flag.Usage = usage

	// First pass: check for -A flag to load arguments file
	// We need to do a quick scan of os.Args to find -A before full parsing
	argsFromFile := loadArgsFromFileIfSpecified(appCtx)
	if len(argsFromFile) > 0 {
		// Prepend file args to os.Args (after program name, before user args)
		// This allows user args to override file args
		newArgs := make([]string, 0, 1+len(argsFromFile)+len(os.Args)-1)
		newArgs = append(newArgs, os.Args[0])
		newArgs = append(newArgs, argsFromFile...)
		newArgs = append(newArgs, os.Args[1:]...)
		os.Args = newArgs
	}

	if err := loadProfileIfSpecified(); err != nil {
		logw.Exitf(appCtx, "Error loading profile: %v", err)
	}

	flag.Parse()

	if *help {
		usage()
		os.Exit(0)
	}

	if *version {
		fmt.Printf("pgn-extract-go version %s\n", programVersion)
		os.Exit(0)
	}

	cfg := config.NewEngine()
	applyFlags(cfg)

	// Initialize selection sets for selectOnly/skipMatching flags
	initSelectionSets()

	// Set up logging and output files
	setupLogFile(appCtx, cfg)
	setupOutputFile(appCtx, cfg)
	setupDuplicateFile(appCtx, cfg)

	// Set up non-matching file for -n flag
	if *negateMatch && *outputFile != "" {
		cfg.NonMatchingFile = cfg.OutputFile
		cfg.OutputFile = nil
	}

	// Create duplicate detector and load check file if needed
	detector := setupDuplicateDetector(appCtx, cfg)
	if virtualDetector, ok := detector.(*hashing.VirtualDuplicateDetector); ok {
		defer virtualDetector.Close()
	}

	// Load ECO classifier if specified
	ecoClassifier := loadECOClassifier(appCtx, cfg)

	// Set up game filter with all criteria
	gameFilter := setupGameFilter(appCtx)

	// Load variation matcher if specified
	variationMatcher := loadVariationMatcher(appCtx)

	// Parse material match criteria
	materialMatcher := loadMaterialMatcher()

	// Parse CQL query
	cqlNode := parseCQLQuery(appCtx)

	// Set up output splitting
	var splitWriter *SplitWriter
	if *splitGames > 0 {
		base := "output"
		if *outputFile != "" {
			base = strings.TrimSuffix(*outputFile, filepath.Ext(*outputFile))
		}
		splitWriter = NewSplitWriterWithPattern(base, *splitGames, *splitPattern)
		cfg.OutputFile = splitWriter
	}

	// Set up ECO-based output splitting
	var ecoSplitWriter *ECOSplitWriter
	if *ecoSplit > 0 && *ecoSplit <= 3 {
		base := "output"
		if *outputFile != "" {
			base = strings.TrimSuffix(*outputFile, filepath.Ext(*outputFile))
		}
		ecoSplitWriter = NewECOSplitWriter(base, *ecoSplit, cfg, *ecoMaxHandles)
	}

	// Set up same-setup duplicate detection
	var setupDetector *hashing.SetupDuplicateDetector
	if *deleteSameSetup {
		setupDetector = hashing.NewSetupDuplicateDetector()
	}

	// Create processing context
	ctx := &ProcessingContext{
		appCtx:           appCtx,
		cfg:              cfg,
		detector:         detector,
		setupDetector:    setupDetector,
		ecoClassifier:    ecoClassifier,
		gameFilter:       gameFilter,
		cqlNode:          cqlNode,
		variationMatcher: variationMatcher,
		materialMatcher:  materialMatcher,
		ecoSplitWriter:   ecoSplitWriter,
	}

	// Process input files or stdin
	totalGames, outputGames, duplicates := processAllInputs(ctx, splitWriter)

	// Report statistics
	if cfg.Verbosity > 0 && !*quiet && !*reportOnly {
		reportStatistics(appCtx, detector, outputGames, duplicates, totalGames)
	}
}

// setupLogFile configures the log file based on command-line flags.
func setupLogFile(ctx context.Context, cfg *config.Engine) {
	if *logFile != "" {
		file, err := os.Create(*logFile)
		if err != nil {
			logw.Exitf(ctx, "Error creating log file %s: %v", *logFile, err)
		}
		cfg.LogFile = file
	}

	if *appendLog != "" {
		file, err := os.OpenFile(*appendLog, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created log files
		if err != nil {
			logw.Exitf(ctx, "Error opening log file %s: %v", *appendLog, err)
		}
		cfg.LogFile = file
	}
}

// setupOutputFile configures the output file based on command-line flags.
func setupOutputFile(ctx context.Context, cfg *config.Engine) {
	if *outputFile == "" {
		return
	}

	var file *os.File
	var err error

	if *appendOutput {
		file, err = os.OpenFile(*outputFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644) //nolint:gosec // G302: 0644 is appropriate for user-created output files
	} else {
		file, err = os.Create(*outputFile)
	}

	if err != nil {
		logw.Exitf(ctx, "Error creating output file %s: %v", *outputFile, err)
	}
	cfg.OutputFile = file
}

// setupDuplicateFile configures the duplicate output file.
func setupDuplicateFile(ctx context.Context, cfg *config.Engine) {
	if *duplicateFile == "" {
		return
	}

	file, err := os.Create(*duplicateFile)
	if err != nil {
		logw.Exitf(ctx, "Error creating duplicate file %s: %v", *duplicateFile, err)
	}
	cfg.Duplicate.DuplicateFile = file
}

// setupDuplicateDetector creates and configures the duplicate detector.
func setupDuplicateDetector(ctx context.Context, cfg *config.Engine) hashing.DuplicateChecker {
	if !*suppressDuplicates && *duplicateFile == "" && !*outputDupsOnly && *checkFile == "" {
		return nil
	}

	cfg.Duplicate.Suppress = *suppressDuplicates
	cfg.Duplicate.SuppressOriginals = *outputDupsOnly
	cfg.Duplicate.UseVirtualHashTable = *virtualHashTable

	// Virtual hash table mode skips the check-file preload path: it is
	// meant for corpora too large to hold comfortably in memory, and the
	// check file is instead folded in as the first batch of adds.
	if cfg.Duplicate.UseVirtualHashTable {
		detector, err := hashing.NewVirtualDuplicateDetector(false)
		if err != nil {
			logw.Exitf(ctx, "Error opening virtual hash table: %v", err)
		}
		if *checkFile != "" {
			file, err := os.Open(*checkFile)
			if err != nil {
				logw.Exitf(ctx, "Error opening check file %s: %v", *checkFile, err)
			}
			checkGames := processInput(ctx, file, *checkFile, cfg)
			file.Close()
			for _, game := range checkGames {
				board := replayGame(game)
				detector.CheckAndAdd(game, board)
			}
			if cfg.Verbosity > 0 {
				fmt.Fprintf(cfg.LogFile, "Loaded %d games from check file\n", len(checkGames))
			}
		}
		return detector
	}

	// Load check file for duplicate detection
	if *checkFile != "" {
		file, err := os.Open(*checkFile)
		if err != nil {
			logw.Exitf(ctx, "Error opening check file %s: %v", *checkFile, err)
		}
		defer file.Close()

		// Load games into a temporary non-thread-safe detector
		tempDetector := hashing.NewDuplicateDetector(false, 0)
		checkGames := processInput(ctx, file, *checkFile, cfg)
		for _, game := range checkGames {
			board := replayGame(game)
			tempDetector.CheckAndAdd(game, board)
		}

		if cfg.Verbosity > 0 {
			fmt.Fprintf(cfg.LogFile, "Loaded %d games from check file\n", len(checkGames))
		}

		// Create thread-safe detector and load from temporary detector
		detector := hashing.NewThreadSafeDuplicateDetector(false)
		detector.LoadFromDetector(tempDetector)
		return detector
	}

	// No check file - create empty thread-safe detector
	return hashing.NewThreadSafeDuplicateDetector(false)
}

// loadECOClassifier loads the ECO classification file if specified.
func loadECOClassifier(ctx context.Context, cfg *config.Engine) *eco.ECOClassifier {
	if *ecoFile == "" {
		return nil
	}

	classifier := eco.NewECOClassifier()
	if err := classifier.LoadFromFile(*ecoFile); err != nil {
		logw.Exitf(ctx, "Error loading ECO file %s: %v", *ecoFile, err)
	}

	if cfg.Verbosity > 0 {
		fmt.Fprintf(cfg.LogFile, "Loaded %d ECO entries\n", classifier.EntriesLoaded())
	}
	cfg.AddECO = true

	return classifier
}

// setupGameFilter creates and configures the game filter with all criteria.
func setupGameFilter(ctx context.Context) *matching.GameFilter {
	filter := matching.NewGameFilter()
	filter.SetUseSoundex(*useSoundex)
	filter.SetSubstringMatch(*tagSubstring)

	// Load tag criteria file if specified
	if *tagFile != "" {
		if err := filter.LoadTagFile(*tagFile); err != nil {
			logw.Exitf(ctx, "Error loading tag file %s: %v", *tagFile, err)
		}
	}

	// Add individual filter criteria
	if *playerFilter != "" {
		filter.AddPlayerFilter(*playerFilter)
	}
	if *whiteFilter != "" {
		filter.AddWhiteFilter(*whiteFilter)
	}
	if *blackFilter != "" {
		filter.AddBlackFilter(*blackFilter)
	}
	if *ecoFilter != "" {
		filter.AddECOFilter(*ecoFilter)
	}
	if *resultFilter != "" {
		filter.AddResultFilter(*resultFilter)
	}
	if *fenFilter != "" {
		if err := filter.AddFENFilter(*fenFilter); err != nil {
			logw.Exitf(ctx, "Error parsing FEN filter: %v", err)
		}
	}

	// -H matches externally-supplied Polyglot hex hashcodes, comma-separated.
	if *hashMatch != "" {
		for _, hex := range strings.Split(*hashMatch, ",") {
			hex = strings.TrimSpace(hex)
			if hex == "" {
				continue
			}
			if err := filter.PositionMatcher.AddPolyglotHex(hex, ""); err != nil {
				logw.Exitf(ctx, "Error parsing -H hash %q: %v", hex, err)
			}
		}
	}

	return filter
}

// loadVariationMatcher loads variation and position files if specified.
func loadVariationMatcher(ctx context.Context) *matching.VariationMatcher {
	if *variationFile == "" && *positionFile == "" {
		return nil
	}

	matcher := matching.NewVariationMatcher()

	// Set matchAnywhere option if specified
	if *varAnywhere {
		matcher.SetMatchAnywhere(true)
	}

	if *variationFile != "" {
		if err := matcher.LoadFromFile(*variationFile); err != nil {
			logw.Exitf(ctx, "Error loading variation file %s: %v", *variationFile, err)
		}
	}

	if *positionFile != "" {
		if err := matcher.LoadPositionalFromFile(*positionFile); err != nil {
			logw.Exitf(ctx, "Error loading position file %s: %v", *positionFile, err)
		}
	}

	return matcher
}

// loadMaterialMatcher creates a material matcher if specified.
func loadMaterialMatcher() *matching.MaterialMatcher {
	var mm *matching.MaterialMatcher
	switch {
	case *materialMatchExact != "":
		mm = matching.NewMaterialMatcher(*materialMatchExact, true)
	case *materialMatch != "":
		mm = matching.NewMaterialMatcher(*materialMatch, false)
	default:
		return nil
	}
	if *materialMatchDepth > 0 {
		mm.SetMoveDepth(*materialMatchDepth)
	}
	return mm
}

// parseCQLQuery parses the CQL query from file or command line.
func parseCQLQuery(ctx context.Context) cql.Node {
	queryStr := *cqlQuery

	if *cqlFile != "" {
		content, err := os.ReadFile(*cqlFile)
		if err != nil {
			logw.Exitf(ctx, "Error reading CQL file %s: %v", *cqlFile, err)
		}
		queryStr = strings.TrimSpace(string(content))
	}

	if queryStr == "" {
		return nil
	}

	node, err := cql.Parse(queryStr)
	if err != nil {
		logw.Exitf(ctx, "Error parsing CQL query: %v", err)
	}

	return node
}

// processAllInputs processes all input files or stdin.
func processAllInputs(ctx *ProcessingContext, splitWriter *SplitWriter) (totalGames, outputGames, duplicates int) {
	args := flag.Args()

	// If -f flag is specified, load file list from file
	if *fileListFile != "" {
		fileList, err := loadFileList(*fileListFile)
		if err != nil {
			logw.Exitf(ctx.appCtx, "Error loading file list %s: %v", *fileListFile, err)
		}
		// Append file list to command-line args
		args = append(args, fileList...)
	}

	if len(args) == 0 {
		games := processInput(ctx.appCtx, os.Stdin, "stdin", ctx.cfg)
		totalGames = len(games)
		outputGames, duplicates = outputGamesWithProcessing(games, ctx)
	} else {
		for _, filename := range args {
			if *stopAfter > 0 && atomic.LoadInt64(&matchedCount) >= int64(*stopAfter) {
				break
			}

			file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
			if err != nil {
				logw.Warningf(ctx.appCtx, "Error opening file %s: %v", filename, err)
				continue
			}

			games := processInput(ctx.appCtx, file, filename, ctx.cfg)
			totalGames += len(games)
			out, dup := outputGamesWithProcessing(games, ctx)
			outputGames += out
			duplicates += dup

			file.Close() //nolint:errcheck,gosec // G104: cleanup on exit
		}
	}

	if splitWriter != nil {
		splitWriter.Close() //nolint:errcheck,gosec // G104: cleanup on exit
	}

	// Close ECO split writer if used
	if ctx.ecoSplitWriter != nil {
		ctx.ecoSplitWriter.Close() //nolint:errcheck,gosec // G104: cleanup on exit
	}

	return totalGames, outputGames, duplicates
}

// reportStatistics prints the final statistics to stderr.
func reportStatistics(ctx context.Context, detector hashing.DuplicateChecker, outputGames, duplicates, totalGames int) {
	if detector != nil {
		logw.Infof(ctx, "%d game(s) output, %d duplicate(s) out of %d.", outputGames, duplicates, totalGames)
	} else {
		logw.Infof(ctx, "%d game(s) matched out of %d.", outputGames, totalGames)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: pgn-extract [options] [input-files...]\n\n")
	fmt.Fprintf(os.Stderr, "A tool for manipulating chess games in PGN format.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nOutput formats (-W):\n")
	fmt.Fprintf(os.Stderr, "  san    Standard Algebraic Notation (default)\n")
	fmt.Fprintf(os.Stderr, "  lalg   Long algebraic (e2e4)\n")
	fmt.Fprintf(os.Stderr, "  halg   Hyphenated long algebraic (e2-e4)\n")
	fmt.Fprintf(os.Stderr, "  elalg  Enhanced long algebraic (Ng1f3)\n")
	fmt.Fprintf(os.Stderr, "  uci    UCI format\n")
	fmt.Fprintf(os.Stderr, "  epd    Extended Position Description\n")
	fmt.Fprintf(os.Stderr, "  fen    FEN sequence\n")
}

// loadArgsFile reads command-line arguments from a file.
// Lines starting with # are treated as comments and ignored.
// Empty lines are also ignored.
func loadArgsFile(filename string) ([]string, error) {
	file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var args []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		// Split line into individual arguments (handles quoted strings)
		lineArgs := splitArgsLine(line)
		args = append(args, lineArgs...)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return args, nil
}

// splitArgsLine splits a line into individual arguments, respecting quotes.
func splitArgsLine(line string) []string {
	var args []string
	var current strings.Builder
	inQuote := false
	quoteChar := rune(0)

	for _, r := range line {
		switch {
		case !inQuote && (r == '"' || r == '\''):
			inQuote = true
			quoteChar = r
		case inQuote && r == quoteChar:
			inQuote = false
			quoteChar = 0
		case !inQuote && (r == ' ' || r == '\t'):
			if current.Len() > 0 {
				args = append(args, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(r)
		}
	}

	if current.Len() > 0 {
		args = append(args, current.String())
	}

	return args
}

// loadFileList reads a list of PGN file paths from a file.
// Returns the list of file paths, skipping empty lines.
func loadFileList(filename string) ([]string, error) {
	file, err := os.Open(filename) //nolint:gosec // G304: CLI tool opens user-specified files
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var files []string
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		// Skip empty lines and comments
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		files = append(files, line)
	}

	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return files, nil
}

// loadArgsFromFileIfSpecified scans os.Args for -A flag and loads args from file if found.
// This must happen before flag.Parse() to inject file arguments.
func loadArgsFromFileIfSpecified(ctx context.Context) []string {
	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]

		var filename string
		if arg == "-A" && i+1 < len(os.Args) {
			filename = os.Args[i+1]
		} else if strings.HasPrefix(arg, "-A=") {
			filename = strings.TrimPrefix(arg, "-A=")
		}

		if filename == "" {
			continue
		}

		args, err := loadArgsFile(filename)
		if err != nil {
			logw.Exitf(ctx, "Error loading arguments file %s: %v", filename, err)
		}
		return args
	}
	return nil
}

// loadProfileIfSpecified scans os.Args for --profile and, if found, applies
// the named profile's flag defaults to flag.CommandLine. This must happen
// before flag.Parse() so that flags actually typed on the command line
// still take priority over the profile.
func loadProfileIfSpecified() error {
	for i := 1; i < len(os.Args); i++ {
		arg := os.Args[i]

		var path string
		if arg == "--profile" && i+1 < len(os.Args) {
			path = os.Args[i+1]
		} else if strings.HasPrefix(arg, "--profile=") {
			path = strings.TrimPrefix(arg, "--profile=")
		}

		if path == "" {
			continue
		}

		p, err := profile.Load(path)
		if err != nil {
			return err
		}
		return p.Apply(flag.CommandLine)
	}
	return nil
}
