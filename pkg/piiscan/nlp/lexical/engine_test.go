package lexical

import (
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/cognicore/piiscan/pkg/piiscan/doc"
	"github.com/cognicore/piiscan/pkg/piiscan/internalerr"
	"github.com/cognicore/piiscan/pkg/piiscan/lexicon"
	"github.com/cognicore/piiscan/pkg/piiscan/nlp"
	"github.com/cognicore/piiscan/pkg/piiscan/temporal"
)

func tokenTexts(d *doc.Doc) []string {
	out := make([]string, d.Len())
	for i := range out {
		out[i] = d.Token(i).Text
	}
	return out
}

func entityTexts(d *doc.Doc) []string {
	var out []string
	for _, e := range d.Entities() {
		out = append(out, e.Label+":"+d.SpanText(e.Span))
	}
	return out
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"John was born on May 3, 1987.", "John|was|born|on|May|3|,|1987|."},
		{"don't stop", "don't|stop"},
		{"rock 'n' roll", "rock|'|n|'|roll"},
		{"at 7 o'clock", "at|7|o'clock"},
		{"Zoë’s café", "Zoë’s|café"},
		{"1987-05-03", "1987|-|05|-|03"},
		{"  spaced\tout\n", "spaced|out"},
		{"", ""},
	}
	for _, tt := range tests {
		var got []string
		for _, s := range tokenize(tt.text) {
			got = append(got, tt.text[s.start:s.end])
		}
		if strings.Join(got, "|") != tt.want {
			t.Errorf("tokenize(%q) = %q, want %q", tt.text, strings.Join(got, "|"), tt.want)
		}
	}
}

func TestProcessOffsetsAndLemmas(t *testing.T) {
	e := NewDefault()
	text := "John was born on May 3, 1987."
	d, err := e.Process(text, "en")
	if err != nil {
		t.Fatalf("Process: %v", err)
	}
	if err := d.Validate(); err != nil {
		t.Fatalf("invalid doc: %v", err)
	}

	for i := 0; i < d.Len(); i++ {
		tok := d.Token(i)
		if text[tok.Start:tok.End] != tok.Text {
			t.Errorf("token %d offsets [%d,%d) do not match %q", i, tok.Start, tok.End, tok.Text)
		}
	}
	if tok := d.Token(2); tok.Lemma != "bear" {
		t.Errorf("lemma of born = %q, want bear", tok.Lemma)
	}
	if tok := d.Token(0); tok.Lemma != "john" {
		t.Errorf("lemma of John = %q, want john", tok.Lemma)
	}
}

func TestProcessTagsNumerals(t *testing.T) {
	e := NewDefault()
	d, err := e.Process("On May 3, 1987 we bought 12 chairs and 0999 pens for 3000 or 1899", "en")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(entityTexts(d), ",")
	want := "CARDINAL:3,DATE:1987,CARDINAL:12,CARDINAL:0999,CARDINAL:3000,CARDINAL:1899"
	if got != want {
		t.Errorf("entities = %s, want %s", got, want)
	}
	for _, ent := range d.Entities() {
		if ent.Source != doc.SourceTagger {
			t.Errorf("entity %v should come from the tagger", ent)
		}
	}
}

func TestProcessGazetteerLongestMatch(t *testing.T) {
	e := New(map[string]*Model{
		"en": {
			Gazetteer: map[string][]string{
				"GPE": {"New York", "York"},
				"ORG": {"New York Times"},
			},
		},
	})
	d, err := e.Process("I read the new york times in New York, not York.", "en")
	if err != nil {
		t.Fatal(err)
	}
	got := strings.Join(entityTexts(d), ",")
	want := "ORG:new york times,GPE:New York,GPE:York"
	if got != want {
		t.Errorf("entities = %s, want %s", got, want)
	}
}

func TestProcessGazetteerPhraseWithPunctuation(t *testing.T) {
	e := New(map[string]*Model{"en": {Gazetteer: map[string][]string{"GPE": {"St. Louis"}}}})
	d, err := e.Process("moved to st. louis", "en")
	if err != nil {
		t.Fatal(err)
	}
	if got := entityTexts(d); len(got) != 1 || got[0] != "GPE:st. louis" {
		t.Errorf("entities = %v", got)
	}
}

func TestStopwordsAndPunct(t *testing.T) {
	e := New(map[string]*Model{
		"en": {Stopwords: []string{"The", "was"}, Punctuation: []string{"--"}},
	})
	if !e.IsStopword("the", "en") || !e.IsStopword("WAS", "en-GB") {
		t.Error("stopwords should match case-insensitively and by base language")
	}
	if e.IsStopword("born", "en") {
		t.Error("born is not a stopword")
	}
	for _, w := range []string{".", ",", "!?", "$", "--"} {
		if !e.IsPunct(w, "en") {
			t.Errorf("IsPunct(%q) = false", w)
		}
	}
	if e.IsPunct("a.b", "en") || e.IsPunct("", "en") {
		t.Error("mixed or empty words are not punctuation")
	}
	if e.IsStopword("the", "de") || e.IsPunct(".", "de") {
		t.Error("unknown language should answer false")
	}
}

func TestProcessUnsupportedLanguage(t *testing.T) {
	_, err := NewDefault().Process("hallo", "de")
	if !errors.Is(err, internalerr.ErrUnsupportedLanguage) {
		t.Fatalf("expected ErrUnsupportedLanguage, got %v", err)
	}
	var ule *nlp.UnsupportedLanguageError
	if !errors.As(err, &ule) || ule.Language != "de" {
		t.Errorf("expected *UnsupportedLanguageError for de, got %v", err)
	}
}

func TestCloseRejectsCalls(t *testing.T) {
	e := NewDefault()
	if got := e.Languages(); len(got) != 1 || got[0] != "en" {
		t.Fatalf("Languages = %v", got)
	}
	if err := e.Close(); err != nil {
		t.Fatal(err)
	}
	if _, err := e.Process("text", "en"); !errors.Is(err, ErrEngineClosed) {
		t.Errorf("expected ErrEngineClosed, got %v", err)
	}
	if e.IsStopword("the", "en") {
		t.Error("closed engine should not answer lexical queries")
	}
}

func TestNewNormalizesAndSkipsNil(t *testing.T) {
	e := New(map[string]*Model{"en-US": {}, "fr": nil})
	if got := e.Languages(); len(got) != 1 || got[0] != "en" {
		t.Errorf("Languages = %v, want [en]", got)
	}
}

func TestModelLexicon(t *testing.T) {
	lex := lexicon.FromMap(map[string][]string{"run": {"ran", "running"}})
	e := New(map[string]*Model{"en": {Lexicon: lex}})
	d, err := e.Process("She ran home", "en")
	if err != nil {
		t.Fatal(err)
	}
	if d.Token(1).Lemma != "run" || d.Token(0).Lemma != "she" {
		t.Errorf("lemmas = %q %q", d.Token(0).Lemma, d.Token(1).Lemma)
	}
}

func TestBuilderWithRuleParser(t *testing.T) {
	text := "John was born on May 3, 1987."

	b := nlp.NewBuilder(nlp.BuilderOptions{
		Engine:         NewDefault(),
		Parser:         temporal.NewRuleParser(),
		OverwriteDates: true,
	})
	arts, err := b.Build(text, "en")
	if err != nil {
		t.Fatal(err)
	}
	ents := arts.Entities()
	if len(ents) != 1 {
		t.Fatalf("entities = %+v, want one date", ents)
	}
	if ents[0].Label != "DATE" || text[ents[0].Start:ents[0].End] != "May 3, 1987" || ents[0].Source != doc.SourceTemporal {
		t.Errorf("entity = %+v", ents[0])
	}

	b = nlp.NewBuilder(nlp.BuilderOptions{Engine: NewDefault(), Parser: temporal.NewRuleParser()})
	arts, err = b.Build(text, "en")
	if err != nil {
		t.Fatal(err)
	}
	var got []string
	for _, e := range arts.Entities() {
		got = append(got, e.Label+":"+text[e.Start:e.End])
	}
	if strings.Join(got, ",") != "CARDINAL:3,DATE:1987" {
		t.Errorf("without overwrite tagger entities should stay, got %v", got)
	}
}

// TestBuilderDropsEarlyYears tests that four digit numbers below 1900 end up
// with no DATE entity, from either the tagger or the rule parser.
func TestBuilderDropsEarlyYears(t *testing.T) {
	b := nlp.NewBuilder(nlp.BuilderOptions{
		Engine:         NewDefault(),
		Parser:         temporal.NewRuleParser(),
		OverwriteDates: true,
	})

	tests := []struct {
		text string
		want string
	}{
		{"born in 1111 there", "CARDINAL:1111"},
		{"born in 1899 there", "CARDINAL:1899"},
		{"born in 1900 there", "DATE:1900/temporal"},
		{"born in 1987 there", "DATE:1987/temporal"},
	}
	for _, tt := range tests {
		arts, err := b.Build(tt.text, "en")
		if err != nil {
			t.Fatalf("Build(%q): %v", tt.text, err)
		}
		var got []string
		for _, e := range arts.Entities() {
			s := e.Label + ":" + tt.text[e.Start:e.End]
			if e.Source == doc.SourceTemporal {
				s += "/temporal"
			}
			got = append(got, s)
		}
		if strings.Join(got, ",") != tt.want {
			t.Errorf("%q: entities = %v, want %s", tt.text, got, tt.want)
		}
	}
}

func TestProcessConcurrent(t *testing.T) {
	e := NewDefault()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				d, err := e.Process("Born in London in 1990", "en")
				if err != nil {
					t.Error(err)
					return
				}
				if len(d.Entities()) != 2 {
					t.Errorf("entities = %v", entityTexts(d))
					return
				}
				e.IsStopword("in", "en")
			}
		}()
	}
	wg.Wait()
}
