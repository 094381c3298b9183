package recognizer

import (
	"log/slog"

	"github.com/cognicore/piiscan/pkg/piiscan/nlp"
)

// Recognizer finds entities of its supported types in analyzed text.
type Recognizer interface {
	Name() string
	SupportedEntities() []string
	SupportedLanguage() string
	// Analyze returns findings for the requested entity types. Types the
	// recognizer does not support are ignored. Nil artifacts yield no results.
	Analyze(text string, entities []string, artifacts *nlp.Artifacts) []Result
}

// Context is the keyword configuration a recognizer passes to its enhancer.
// Zero counts and scores mean "use the enhancer's defaults".
type Context struct {
	Words               []string
	PrefixCount         int
	SuffixCount         int
	MinScoreWithContext float64
}

// ContextEnhancer raises result scores when context words occur near a match.
//
// Implementations return one result per input result in the same order, must
// never lower a score, and must leave results without supporting context as
// they were.
type ContextEnhancer interface {
	Enhance(text string, results []Result, artifacts *nlp.Artifacts, ctx Context) []Result
}

// Config describes an NER recognizer.
type Config struct {
	Name     string
	Language string
	Entities []string
	// LabelGroups maps requested entity types to tagger labels.
	LabelGroups LabelGroups
	BaseScore   float64
	Explanation string
	Context     Context
	Enhancer    ContextEnhancer
	Logger      *slog.Logger
}

// NER recognizes entities by mapping the tagger's labels onto its own
// entity types through a label-group table.
type NER struct {
	name        string
	language    string
	entities    []string
	groups      LabelGroups
	baseScore   float64
	explanation string
	context     Context
	enhancer    ContextEnhancer
	logger      *slog.Logger
}

var _ Recognizer = (*NER)(nil)

// NewNER builds a recognizer from cfg. Without explicit entities, it supports
// every entity type its label groups name. The language defaults to "en".
func NewNER(cfg Config) *NER {
	r := &NER{
		name:        cfg.Name,
		language:    "en",
		entities:    append([]string(nil), cfg.Entities...),
		groups:      append(LabelGroups(nil), cfg.LabelGroups...),
		baseScore:   cfg.BaseScore,
		explanation: cfg.Explanation,
		context:     cfg.Context,
		enhancer:    cfg.Enhancer,
		logger:      cfg.Logger,
	}
	r.context.Words = append([]string(nil), cfg.Context.Words...)
	if r.name == "" {
		r.name = "NERRecognizer"
	}
	if cfg.Language != "" {
		r.language = nlp.NormalizeLanguage(cfg.Language)
	}
	if len(r.entities) == 0 {
		r.entities = r.groups.Entities()
	}
	if r.explanation == "" {
		r.explanation = "Identified by the named entity tagger"
	}
	if r.logger == nil {
		r.logger = slog.Default()
	}
	return r
}

func (r *NER) Name() string { return r.name }

func (r *NER) SupportedLanguage() string { return r.language }

func (r *NER) SupportedEntities() []string {
	return append([]string(nil), r.entities...)
}

// Context returns the recognizer's context configuration.
func (r *NER) Context() Context { return r.context }

// Supports reports whether entity is one of the recognizer's types.
func (r *NER) Supports(entity string) bool {
	return contains(r.entities, entity)
}

// Analyze pairs each supported requested type with every artifact entity
// whose label the label groups accept, then enhances the results.
func (r *NER) Analyze(text string, entities []string, artifacts *nlp.Artifacts) []Result {
	if artifacts == nil {
		r.logger.Warn("skipping recognizer, nlp artifacts not provided", "recognizer", r.name)
		return nil
	}

	var results []Result
	tagged := artifacts.Entities()
	for _, entity := range entities {
		if !r.Supports(entity) {
			continue
		}
		for _, ent := range tagged {
			if !r.groups.Match(entity, ent.Label) {
				continue
			}
			results = append(results, newResult(entity, ent.Start, ent.End, r.baseScore, r.name, r.explanation))
		}
	}

	if r.enhancer == nil || len(results) == 0 {
		return results
	}
	return r.enhancer.Enhance(text, results, artifacts, r.context)
}
