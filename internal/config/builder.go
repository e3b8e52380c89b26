package config

import "io"

// EngineBuilder provides a fluent API for building Engine instances.
type EngineBuilder struct {
	cfg *Engine
}

// NewEngineBuilder creates a new EngineBuilder with default values.
func NewEngineBuilder() *EngineBuilder {
	return &EngineBuilder{
		cfg: NewEngine(),
	}
}

// Build returns the built Engine.
func (b *EngineBuilder) Build() *Engine {
	return b.cfg
}

// WithOutputFormat sets the output format.
func (b *EngineBuilder) WithOutputFormat(format OutputFormat) *EngineBuilder {
	b.cfg.Output.Format = format
	return b
}

// WithMaxLineLength sets the maximum line length.
func (b *EngineBuilder) WithMaxLineLength(length uint) *EngineBuilder {
	b.cfg.Output.MaxLineLength = length
	return b
}

// WithJSONOutput enables JSON output.
func (b *EngineBuilder) WithJSONOutput(enabled bool) *EngineBuilder {
	b.cfg.Output.JSONFormat = enabled
	return b
}

// WithDuplicateSuppression enables duplicate suppression.
func (b *EngineBuilder) WithDuplicateSuppression(enabled bool) *EngineBuilder {
	b.cfg.Duplicate.Suppress = enabled
	return b
}

// WithFuzzyMatch enables fuzzy duplicate matching.
func (b *EngineBuilder) WithFuzzyMatch(enabled bool, depth uint) *EngineBuilder {
	b.cfg.Duplicate.FuzzyMatch = enabled
	b.cfg.Duplicate.FuzzyDepth = depth
	return b
}

// WithMoveBounds sets move bounds for filtering.
func (b *EngineBuilder) WithMoveBounds(lower, upper uint) *EngineBuilder {
	b.cfg.Filter.CheckMoveBounds = true
	b.cfg.Filter.LowerMoveBound = lower
	b.cfg.Filter.UpperMoveBound = upper
	return b
}

// WithCheckmateFilter enables checkmate-only filtering.
func (b *EngineBuilder) WithCheckmateFilter(enabled bool) *EngineBuilder {
	b.cfg.Filter.MatchCheckmate = enabled
	return b
}

// WithFENComments enables FEN comments.
func (b *EngineBuilder) WithFENComments(enabled bool) *EngineBuilder {
	b.cfg.Annotation.AddFENComments = enabled
	return b
}

// WithHashTag enables hashcode tags.
func (b *EngineBuilder) WithHashTag(enabled bool) *EngineBuilder {
	b.cfg.Annotation.AddHashTag = enabled
	return b
}

// WithOutput sets the output writer.
func (b *EngineBuilder) WithOutput(w io.Writer) *EngineBuilder {
	b.cfg.OutputFile = w
	return b
}

// WithVerbosity sets the verbosity level.
func (b *EngineBuilder) WithVerbosity(level int) *EngineBuilder {
	b.cfg.Verbosity = level
	return b
}

// KeepComments controls whether comments are kept.
func (b *EngineBuilder) KeepComments(keep bool) *EngineBuilder {
	b.cfg.Output.KeepComments = keep
	return b
}

// KeepVariations controls whether variations are kept.
func (b *EngineBuilder) KeepVariations(keep bool) *EngineBuilder {
	b.cfg.Output.KeepVariations = keep
	return b
}

// KeepNAGs controls whether NAGs are kept.
func (b *EngineBuilder) KeepNAGs(keep bool) *EngineBuilder {
	b.cfg.Output.KeepNAGs = keep
	return b
}
