// Package piiscan finds personally identifiable information in text.
//
// An Analyzer builds NLP artifacts once per text, runs every registered
// recognizer for the text's language over them, and optionally records the
// run in a Store. Only offsets and scores are persisted, never the text.
package piiscan

import (
	"context"
	"crypto/rand"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
	"github.com/cognicore/piiscan/pkg/piiscan/nlp"
	"github.com/cognicore/piiscan/pkg/piiscan/recognizer"
	"github.com/cognicore/piiscan/pkg/piiscan/store"
)

// Analyzer is the PII detection facade
type Analyzer struct {
	builder  *nlp.Builder
	registry *recognizer.Registry
	store    store.Store
	logger   *slog.Logger
	now      func() time.Time

	mu      sync.Mutex // guards entropy
	entropy *ulid.MonotonicEntropy
}

// Options configures an Analyzer
type Options struct {
	Builder     *nlp.Builder
	Recognizers *recognizer.Registry
	// Store records runs when set.
	Store  store.Store
	Logger *slog.Logger
	// Now overrides the clock; used by tests.
	Now func() time.Time
}

// New creates an Analyzer with the given dependencies
func New(opts Options) *Analyzer {
	a := &Analyzer{
		builder:  opts.Builder,
		registry: opts.Recognizers,
		store:    opts.Store,
		logger:   opts.Logger,
		now:      opts.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	if a.registry == nil {
		a.registry = recognizer.NewRegistry()
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if a.now == nil {
		a.now = time.Now
	}
	return a
}

// Close cleanly shuts down the Analyzer and its store
func (a *Analyzer) Close() error {
	if a.store == nil {
		return nil
	}
	return a.store.Close()
}

// Request is one text to analyze.
type Request struct {
	Text     string
	Language string
	// Entities restricts the entity types reported. Empty means every type
	// supported for the language.
	Entities []string
	// ScoreThreshold drops results scoring below it.
	ScoreThreshold float64
}

// Response carries the findings of one Analyze call.
type Response struct {
	RunID    string              `json:"run_id"`
	Language string              `json:"language"`
	Results  []recognizer.Result `json:"results"`
}

// Analyze runs the recognizers over req.Text. Results are ordered by start
// offset, then end offset, then entity type. Recognizers may report the same
// span more than once.
func (a *Analyzer) Analyze(ctx context.Context, req Request) (Response, error) {
	if err := ctx.Err(); err != nil {
		return Response{}, err
	}
	if a.builder == nil {
		return Response{}, fmt.Errorf("analyzer has no nlp builder: %w", internalerr.ErrInvalidConfig)
	}

	arts, err := a.builder.Build(req.Text, req.Language)
	if err != nil {
		return Response{}, err
	}
	lang := arts.Language()

	entities := req.Entities
	if len(entities) == 0 {
		entities = a.registry.Entities(lang)
	}

	var results []recognizer.Result
	for _, r := range a.registry.For(lang, entities) {
		for _, res := range r.Analyze(req.Text, entities, arts) {
			if res.Score >= req.ScoreThreshold {
				results = append(results, res)
			}
		}
	}
	sortResults(results)

	created := a.now()
	resp := Response{
		RunID:    a.newID(created),
		Language: lang,
		Results:  results,
	}

	if a.store != nil {
		run := store.Run{
			ID:         resp.RunID,
			Language:   lang,
			CreatedAt:  created,
			TextLength: len(req.Text),
			Entities:   entities,
			Findings:   findings(results),
		}
		if err := a.store.SaveRun(ctx, run); err != nil {
			return Response{}, fmt.Errorf("save run %s: %w", resp.RunID, err)
		}
	}

	a.logger.Debug("analyzed text",
		"run", resp.RunID,
		"language", lang,
		"entities", len(arts.Entities()),
		"results", len(results))
	return resp, nil
}

// History lists stored runs, newest first.
func (a *Analyzer) History(ctx context.Context, limit int) ([]store.Run, error) {
	if a.store == nil {
		return nil, fmt.Errorf("analyzer has no store: %w", internalerr.ErrStoreUnavailable)
	}
	return a.store.ListRuns(ctx, limit)
}

// Run returns one stored run.
func (a *Analyzer) Run(ctx context.Context, id string) (store.Run, error) {
	if a.store == nil {
		return store.Run{}, fmt.Errorf("analyzer has no store: %w", internalerr.ErrStoreUnavailable)
	}
	return a.store.GetRun(ctx, id)
}

// SupportedEntities lists the entity types the registered recognizers
// report for language.
func (a *Analyzer) SupportedEntities(language string) []string {
	return a.registry.Entities(nlp.NormalizeLanguage(language))
}

func (a *Analyzer) newID(t time.Time) string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(t), a.entropy).String()
}

func sortResults(results []recognizer.Result) {
	sort.SliceStable(results, func(i, j int) bool {
		ri, rj := results[i], results[j]
		if ri.Start != rj.Start {
			return ri.Start < rj.Start
		}
		if ri.End != rj.End {
			return ri.End < rj.End
		}
		return ri.EntityType < rj.EntityType
	})
}

func findings(results []recognizer.Result) []store.Finding {
	out := make([]store.Finding, len(results))
	for i, r := range results {
		out[i] = store.Finding{
			EntityType:  r.EntityType,
			Start:       r.Start,
			End:         r.End,
			Score:       r.Score,
			Recognizer:  r.Explanation.Recognizer,
			ContextWord: r.Explanation.SupportiveContextWord,
		}
	}
	return out
}
