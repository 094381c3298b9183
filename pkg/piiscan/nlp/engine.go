// Package nlp turns text into the read-only NLP artifacts recognizers work on.
//
// An Engine is the tokenizer/tagger capability. The Builder runs an Engine,
// folds temporal parser matches into the tagged entities (see temporal.Merge)
// and packages the result as Artifacts.
package nlp

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"

	"github.com/cognicore/piiscan/pkg/piiscan/doc"
	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
)

// Engine tokenizes and tags text and answers lexical questions for the
// languages it has models for. Implementations must be safe for concurrent
// use once constructed.
type Engine interface {
	// Process tokenizes and tags text. It returns an error wrapping
	// internalerr.ErrUnsupportedLanguage when no model is loaded for language.
	Process(text, language string) (*doc.Doc, error)
	IsStopword(word, language string) bool
	IsPunct(word, language string) bool
}

// UnsupportedLanguageError reports a language with no loaded model.
type UnsupportedLanguageError struct {
	Language string
}

func (e *UnsupportedLanguageError) Error() string {
	return fmt.Sprintf("no nlp model loaded for language %q", e.Language)
}

// Unwrap makes errors.Is(err, internalerr.ErrUnsupportedLanguage) hold.
func (e *UnsupportedLanguageError) Unwrap() error {
	return internalerr.ErrUnsupportedLanguage
}

// NormalizeLanguage reduces a BCP 47 tag to its base language code
// ("en-US" -> "en"). Unparseable input is returned trimmed and lowercased.
func NormalizeLanguage(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return ""
	}
	tag, err := language.Parse(code)
	if err != nil {
		return strings.ToLower(code)
	}
	base, _ := tag.Base()
	return base.String()
}
