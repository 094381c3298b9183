package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
	"github.com/cognicore/piiscan/pkg/piiscan/recognizer"
)

// Recognizer kinds.
const (
	KindBirthday = "birthday"
	KindNER      = "ner"
)

// Config is the YAML configuration of a piiscan setup.
//
// Example:
//
//	nlp:
//	  overwrite_dates: true
//	  languages:
//	    en:
//	      extend_default: true
//	      gazetteer:
//	        GPE: [Springfield]
//	context:
//	  similarity_threshold: 0.65
//	recognizers:
//	  - kind: birthday
//	  - kind: ner
//	    label_groups:
//	      - {entities: [LOCATION], labels: [GPE, LOC]}
//	store:
//	  path: piiscan.db
type Config struct {
	NLP         NLP          `yaml:"nlp"`
	Context     Context      `yaml:"context"`
	Recognizers []Recognizer `yaml:"recognizers"`
	Store       Store        `yaml:"store"`

	// baseDir resolves relative file paths; set by Load.
	baseDir string
}

// NLP configures the engine and the temporal merge.
type NLP struct {
	// OverwriteDates lets temporal matches replace tagger entities. Defaults to true.
	OverwriteDates *bool               `yaml:"overwrite_dates"`
	Languages      map[string]Language `yaml:"languages"`
}

// Language is one language model of the lexical engine.
type Language struct {
	// ExtendDefault starts from the built-in English model.
	ExtendDefault bool     `yaml:"extend_default"`
	Stopwords     []string `yaml:"stopwords"`
	Punctuation   []string `yaml:"punctuation"`
	// Lexicon is a lemma YAML file (see lexicon.LoadFromYAML).
	Lexicon   string              `yaml:"lexicon"`
	Lemmas    map[string][]string `yaml:"lemmas"`
	Gazetteer map[string][]string `yaml:"gazetteer"`
}

// Context configures the default context enhancer. Zero values keep the
// enhancer defaults.
type Context struct {
	PrefixCount         int     `yaml:"prefix_count"`
	SuffixCount         int     `yaml:"suffix_count"`
	SimilarityThreshold float64 `yaml:"similarity_threshold"`
	SimilarityFactor    float64 `yaml:"similarity_factor"`
	MinScoreWithContext float64 `yaml:"min_score_with_context"`
}

// Recognizer declares one recognizer.
type Recognizer struct {
	Kind                string                  `yaml:"kind"`
	Name                string                  `yaml:"name"`
	Language            string                  `yaml:"language"`
	Entities            []string                `yaml:"entities"`
	BaseScore           float64                 `yaml:"base_score"`
	LabelGroups         []recognizer.LabelGroup `yaml:"label_groups"`
	Context             []string                `yaml:"context"`
	PrefixCount         int                     `yaml:"prefix_count"`
	SuffixCount         int                     `yaml:"suffix_count"`
	MinScoreWithContext float64                 `yaml:"min_score_with_context"`
	Explanation         string                  `yaml:"explanation"`
}

// Store configures run persistence.
type Store struct {
	// Path of the SQLite database. Empty disables persistence.
	Path string `yaml:"path"`
}

// Load reads and validates a YAML config file. Relative paths inside it are
// resolved against the file's directory.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	cfg.baseDir = filepath.Dir(path)
	return cfg, nil
}

// Parse decodes and validates YAML config data.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", internalerr.ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a working English setup: the built-in lexical model, a
// birthday recognizer and a general NER recognizer, no persistence.
func Default() *Config {
	return &Config{
		NLP: NLP{
			Languages: map[string]Language{"en": {ExtendDefault: true}},
		},
		Recognizers: []Recognizer{
			{Kind: KindBirthday},
			{
				Kind:      KindNER,
				Name:      "NERRecognizer",
				BaseScore: 0.85,
				LabelGroups: []recognizer.LabelGroup{
					{Entities: []string{"LOCATION"}, Labels: []string{"GPE", "LOC"}},
					{Entities: []string{"PERSON"}, Labels: []string{"PERSON", "PER"}},
					{Entities: []string{"DATE_TIME"}, Labels: []string{"DATE", "TIME"}},
					{Entities: []string{"NRP"}, Labels: []string{"NORP"}},
				},
			},
		},
	}
}

// OverwriteDates returns nlp.overwrite_dates, true when unset.
func (c *Config) OverwriteDates() bool {
	return c.NLP.OverwriteDates == nil || *c.NLP.OverwriteDates
}

// Validate checks value ranges and recognizer declarations.
func (c *Config) Validate() error {
	ctx := c.Context
	if ctx.PrefixCount < 0 || ctx.SuffixCount < 0 {
		return invalid("context window counts must not be negative")
	}
	for name, v := range map[string]float64{
		"similarity_threshold":   ctx.SimilarityThreshold,
		"similarity_factor":      ctx.SimilarityFactor,
		"min_score_with_context": ctx.MinScoreWithContext,
	} {
		if v < 0 || v > 1 {
			return invalid("context.%s must be within [0,1], got %v", name, v)
		}
	}

	for i, r := range c.Recognizers {
		switch r.Kind {
		case KindBirthday:
		case KindNER:
			if len(r.LabelGroups) == 0 {
				return invalid("recognizers[%d]: ner recognizer needs label_groups", i)
			}
		default:
			return invalid("recognizers[%d]: unknown kind %q", i, r.Kind)
		}
		if r.BaseScore < 0 || r.BaseScore > 1 {
			return invalid("recognizers[%d]: base_score must be within [0,1], got %v", i, r.BaseScore)
		}
		if r.MinScoreWithContext < 0 || r.MinScoreWithContext > 1 {
			return invalid("recognizers[%d]: min_score_with_context must be within [0,1]", i)
		}
		if r.PrefixCount < 0 || r.SuffixCount < 0 {
			return invalid("recognizers[%d]: context window counts must not be negative", i)
		}
		for j, g := range r.LabelGroups {
			if len(g.Entities) == 0 || len(g.Labels) == 0 {
				return invalid("recognizers[%d].label_groups[%d]: entities and labels are required", i, j)
			}
		}
	}
	return nil
}

func (c *Config) resolve(path string) string {
	if path == "" || filepath.IsAbs(path) || c.baseDir == "" {
		return path
	}
	return filepath.Join(c.baseDir, path)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", internalerr.ErrInvalidConfig, fmt.Sprintf(format, args...))
}
