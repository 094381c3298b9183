package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cognicore/piiscan/pkg/piiscan/enhance"
	"github.com/cognicore/piiscan/pkg/piiscan/lexicon"
	"github.com/cognicore/piiscan/pkg/piiscan/nlp"
	"github.com/cognicore/piiscan/pkg/piiscan/nlp/lexical"
	"github.com/cognicore/piiscan/pkg/piiscan/recognizer"
	"github.com/cognicore/piiscan/pkg/piiscan/store"
	"github.com/cognicore/piiscan/pkg/piiscan/store/sqlite"
	"github.com/cognicore/piiscan/pkg/piiscan/temporal"
)

// Loader constructs components from a Config
type Loader struct {
	Config *Config
	Logger *slog.Logger
	// StorePath overrides store.path when set.
	StorePath string
}

// Components holds the wired components of a setup
type Components struct {
	Engine   *lexical.Engine
	Builder  *nlp.Builder
	Enhancer *enhance.LemmaEnhancer
	Registry *recognizer.Registry
	// Store is nil when persistence is disabled.
	Store store.Store
}

// Close releases the engine and the store.
func (c *Components) Close() error {
	var errs []error
	if c.Store != nil {
		errs = append(errs, c.Store.Close())
	}
	if c.Engine != nil {
		errs = append(errs, c.Engine.Close())
	}
	return errors.Join(errs...)
}

// Load builds the engine, artifact builder, enhancer and recognizers, and
// opens the store if one is configured. A nil Config means Default().
func (l *Loader) Load(ctx context.Context) (*Components, error) {
	cfg := l.Config
	if cfg == nil {
		cfg = Default()
	}
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}

	models, err := cfg.models()
	if err != nil {
		return nil, err
	}
	comp := &Components{Engine: lexical.New(models)}

	comp.Builder = nlp.NewBuilder(nlp.BuilderOptions{
		Engine:         comp.Engine,
		Parser:         temporal.NewRuleParser(),
		OverwriteDates: cfg.OverwriteDates(),
		Logger:         logger,
	})

	comp.Enhancer = enhance.New()
	if v := cfg.Context.PrefixCount; v > 0 {
		comp.Enhancer.PrefixCount = v
	}
	if v := cfg.Context.SuffixCount; v > 0 {
		comp.Enhancer.SuffixCount = v
	}
	if v := cfg.Context.SimilarityThreshold; v > 0 {
		comp.Enhancer.SimilarityThreshold = v
	}
	if v := cfg.Context.SimilarityFactor; v > 0 {
		comp.Enhancer.SimilarityFactor = v
	}
	if v := cfg.Context.MinScoreWithContext; v > 0 {
		comp.Enhancer.MinScoreWithContext = v
	}

	comp.Registry = recognizer.NewRegistry()
	for _, rc := range cfg.Recognizers {
		comp.Registry.Add(rc.build(comp.Enhancer, logger))
	}

	path := cfg.resolve(cfg.Store.Path)
	if l.StorePath != "" {
		path = l.StorePath
	}
	if path != "" {
		st, err := sqlite.OpenSQLite(ctx, path)
		if err != nil {
			comp.Close()
			return nil, fmt.Errorf("open store: %w", err)
		}
		comp.Store = st
	}

	logger.Debug("components loaded",
		"languages", comp.Engine.Languages(),
		"recognizers", comp.Registry.Len(),
		"store", path != "")
	return comp, nil
}

// models converts the language sections into lexical models. Without any
// language section the built-in English model is used.
func (c *Config) models() (map[string]*lexical.Model, error) {
	if len(c.NLP.Languages) == 0 {
		return map[string]*lexical.Model{"en": lexical.DefaultModel()}, nil
	}

	models := make(map[string]*lexical.Model, len(c.NLP.Languages))
	for code, lang := range c.NLP.Languages {
		m := &lexical.Model{Lexicon: lexicon.New(), Gazetteer: map[string][]string{}}
		if lang.ExtendDefault {
			m = lexical.DefaultModel()
		}

		if lang.Lexicon != "" {
			lex, err := lexicon.LoadFromYAML(c.resolve(lang.Lexicon))
			if err != nil {
				return nil, fmt.Errorf("load lexicon for %s: %w", code, err)
			}
			m.Lexicon = lex
		}
		for lemma, forms := range lang.Lemmas {
			m.Lexicon.AddGroup(lemma, forms)
		}

		m.Stopwords = append(m.Stopwords, lang.Stopwords...)
		m.Punctuation = append(m.Punctuation, lang.Punctuation...)
		gaz := make(map[string][]string, len(m.Gazetteer)+len(lang.Gazetteer))
		for label, phrases := range m.Gazetteer {
			gaz[label] = append(gaz[label], phrases...)
		}
		for label, phrases := range lang.Gazetteer {
			gaz[label] = append(gaz[label], phrases...)
		}
		m.Gazetteer = gaz

		models[code] = m
	}
	return models, nil
}

func (rc Recognizer) build(enh recognizer.ContextEnhancer, logger *slog.Logger) recognizer.Recognizer {
	cfg := recognizer.Config{
		Name:        rc.Name,
		Language:    rc.Language,
		Entities:    rc.Entities,
		LabelGroups: rc.LabelGroups,
		BaseScore:   rc.BaseScore,
		Explanation: rc.Explanation,
		Context: recognizer.Context{
			Words:               rc.Context,
			PrefixCount:         rc.PrefixCount,
			SuffixCount:         rc.SuffixCount,
			MinScoreWithContext: rc.MinScoreWithContext,
		},
		Enhancer: enh,
		Logger:   logger,
	}
	if rc.Kind == KindBirthday {
		return recognizer.NewBirthday(cfg)
	}
	return recognizer.NewNER(cfg)
}
