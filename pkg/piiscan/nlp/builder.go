package nlp

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
	"github.com/cognicore/piiscan/pkg/piiscan/temporal"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	Engine Engine
	// Parser supplies temporal matches. Nil skips the temporal merge.
	Parser temporal.Parser
	// OverwriteDates lets temporal matches replace tagger entities.
	OverwriteDates bool
	Logger         *slog.Logger
}

// Builder produces Artifacts: text → Engine → temporal merge → bundle.
// It holds no per-text state and is safe for concurrent use when its Engine
// and Parser are.
type Builder struct {
	engine Engine
	parser temporal.Parser
	merger temporal.Merger
}

// NewBuilder creates a Builder with the given collaborators.
func NewBuilder(opts BuilderOptions) *Builder {
	return &Builder{
		engine: opts.Engine,
		parser: opts.Parser,
		merger: temporal.Merger{Overwrite: opts.OverwriteDates, Logger: opts.Logger},
	}
}

// Engine returns the builder's engine.
func (b *Builder) Engine() Engine { return b.engine }

// Build runs the pipeline for one text. A language without a loaded model
// fails with an *UnsupportedLanguageError.
func (b *Builder) Build(text, language string) (*Artifacts, error) {
	lang := NormalizeLanguage(language)
	if b.engine == nil {
		return nil, fmt.Errorf("build artifacts: %w", &UnsupportedLanguageError{Language: lang})
	}

	d, err := b.engine.Process(text, lang)
	if err != nil {
		var unsupported *UnsupportedLanguageError
		if errors.Is(err, internalerr.ErrUnsupportedLanguage) && !errors.As(err, &unsupported) {
			err = &UnsupportedLanguageError{Language: lang}
		}
		return nil, fmt.Errorf("build artifacts: %w", err)
	}

	if b.parser != nil {
		d = b.merger.Merge(d, b.parser.Parse(text))
	}

	return NewArtifacts(d, lang, b.engine), nil
}
