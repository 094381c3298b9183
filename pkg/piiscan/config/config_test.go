package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func TestParse(t *testing.T) {
	cfg, err := Parse([]byte(`
nlp:
  overwrite_dates: false
  languages:
    en:
      stopwords: [the, was]
      gazetteer:
        GPE: [Springfield]
context:
  prefix_count: 3
  similarity_threshold: 0.8
recognizers:
  - kind: birthday
    context: [born, dob]
  - kind: ner
    name: LocationRecognizer
    base_score: 0.6
    label_groups:
      - entities: [LOCATION]
        labels: [GPE, LOC]
store:
  path: runs.db
`))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if cfg.OverwriteDates() {
		t.Error("overwrite_dates: false was ignored")
	}
	if got := cfg.NLP.Languages["en"].Gazetteer["GPE"]; len(got) != 1 || got[0] != "Springfield" {
		t.Errorf("gazetteer = %v", got)
	}
	if cfg.Context.PrefixCount != 3 || cfg.Context.SimilarityThreshold != 0.8 {
		t.Errorf("context = %+v", cfg.Context)
	}
	if len(cfg.Recognizers) != 2 || cfg.Recognizers[1].LabelGroups[0].Labels[1] != "LOC" {
		t.Errorf("recognizers = %+v", cfg.Recognizers)
	}
	if cfg.Store.Path != "runs.db" {
		t.Errorf("store path = %q", cfg.Store.Path)
	}
}

func TestOverwriteDatesDefaultsTrue(t *testing.T) {
	cfg, err := Parse([]byte("recognizers: [{kind: birthday}]"))
	if err != nil {
		t.Fatal(err)
	}
	if !cfg.OverwriteDates() || !Default().OverwriteDates() {
		t.Error("overwrite_dates should default to true")
	}
}

func TestParseRejectsInvalid(t *testing.T) {
	tests := map[string]string{
		"unknown kind":     "recognizers: [{kind: phone}]",
		"ner no groups":    "recognizers: [{kind: ner}]",
		"empty group":      "recognizers: [{kind: ner, label_groups: [{entities: [X]}]}]",
		"score range":      "recognizers: [{kind: birthday, base_score: 1.5}]",
		"negative window":  "context: {prefix_count: -1}",
		"threshold range":  "context: {similarity_threshold: 2}",
		"malformed yaml":   "recognizers: [",
		"recognizer count": "recognizers: [{kind: birthday, suffix_count: -2}]",
	}
	for name, data := range tests {
		if _, err := Parse([]byte(data)); !errors.Is(err, internalerr.ErrInvalidConfig) {
			t.Errorf("%s: expected ErrInvalidConfig, got %v", name, err)
		}
	}
}

func TestLoaderDefault(t *testing.T) {
	comp, err := (&Loader{}).Load(context.Background())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	defer comp.Close()

	if comp.Store != nil {
		t.Error("default config should not persist")
	}
	if got := strings.Join(comp.Registry.Entities("en"), ","); got != "BIRTHDAY,DATE_TIME,LOCATION,NRP,PERSON" {
		t.Errorf("entities = %s", got)
	}

	text := "Ada was born in Paris on 10 December 1815."
	arts, err := comp.Builder.Build(text, "en")
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, r := range comp.Registry.For("en", []string{"BIRTHDAY"}) {
		for _, res := range r.Analyze(text, []string{"BIRTHDAY"}, arts) {
			if text[res.Start:res.End] == "10 December 1815" && res.Score >= 0.7 {
				found = true
			}
		}
	}
	if !found {
		t.Errorf("expected a boosted birthday over the date in %q", text)
	}
}

func TestLoadResolvesRelativePaths(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "lemmas.yaml", `
lemmas:
  - lemma: geboren
    forms: [geb]
`)
	path := writeFile(t, dir, "piiscan.yaml", `
nlp:
  languages:
    de:
      stopwords: [am, der, die]
      lexicon: lemmas.yaml
recognizers:
  - kind: birthday
    language: de
    context: [geboren]
store:
  path: runs.db
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	comp, err := (&Loader{Config: cfg}).Load(context.Background())
	if err != nil {
		t.Fatalf("Loader.Load: %v", err)
	}
	defer comp.Close()

	if comp.Store == nil {
		t.Fatal("store should be opened")
	}
	if _, err := os.Stat(filepath.Join(dir, "runs.db")); err != nil {
		t.Errorf("store not created next to the config: %v", err)
	}

	arts, err := comp.Builder.Build("geb. am 1990", "de")
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if lemmas := arts.Lemmas(); lemmas[0] != "geboren" {
		t.Errorf("lemmas = %v, want geb -> geboren", lemmas)
	}
	if !arts.IsStopword("am") {
		t.Error("configured stopword not loaded")
	}
	if _, err := comp.Builder.Build("hello", "en"); !errors.Is(err, internalerr.ErrUnsupportedLanguage) {
		t.Errorf("only de is configured, got %v", err)
	}
}

func TestLoaderStorePathOverride(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "override.db")
	comp, err := (&Loader{Config: Default(), StorePath: dbPath}).Load(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	defer comp.Close()
	if comp.Store == nil {
		t.Fatal("StorePath should enable the store")
	}
}

func TestLoadMissingLexicon(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "piiscan.yaml", "nlp: {languages: {en: {lexicon: missing.yaml}}}\n")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := (&Loader{Config: cfg}).Load(context.Background()); err == nil {
		t.Error("expected an error for a missing lexicon file")
	}
}
