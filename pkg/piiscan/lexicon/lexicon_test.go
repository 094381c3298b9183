package lexicon

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLemma(t *testing.T) {
	lex := New()
	lex.AddGroup("be", []string{"is", "was", "were"})
	lex.AddGroup("bear", []string{"born", "bore"})

	tests := []struct {
		word string
		want string
	}{
		{"was", "be"},
		{"WAS", "be"},
		{"Born", "bear"},
		{"be", "be"},
		{"Berlin", "berlin"},
	}
	for _, tt := range tests {
		if got := lex.Lemma(tt.word); got != tt.want {
			t.Errorf("Lemma(%q) = %q, want %q", tt.word, got, tt.want)
		}
	}
}

func TestForms(t *testing.T) {
	lex := New()
	lex.AddGroup("birthday", []string{"birthdays", "birthdate"})

	forms := lex.Forms("birthdate")
	if len(forms) != 3 {
		t.Fatalf("expected 3 forms, got %v", forms)
	}
	if forms[0] != "birthday" {
		t.Errorf("lemma should be first, got %q", forms[0])
	}

	unknown := lex.Forms("Unknown")
	if len(unknown) != 1 || unknown[0] != "unknown" {
		t.Errorf("unknown word should map to itself, got %v", unknown)
	}
}

func TestAddGroupReplaces(t *testing.T) {
	lex := New()
	lex.AddGroup("go", []string{"went", "gone"})
	lex.AddGroup("go", []string{"goes"})

	if lex.Has("went") {
		t.Error("'went' should be removed when the group is replaced")
	}
	if lex.Lemma("goes") != "go" {
		t.Error("'goes' should map to 'go'")
	}
	if lex.Len() != 1 {
		t.Errorf("expected 1 group, got %d", lex.Len())
	}
}

func TestNilLexicon(t *testing.T) {
	var lex *Lexicon
	if got := lex.Lemma("Hello"); got != "hello" {
		t.Errorf("nil lexicon Lemma = %q, want folded word", got)
	}
	if lex.Has("hello") {
		t.Error("nil lexicon has no forms")
	}
}

func TestLoadFromYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "lemmas.yaml")
	content := `lemmas:
  - lemma: bear
    forms: [born, bore]
  - lemma: ""
    forms: [ignored]
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	lex, err := LoadFromYAML(path)
	if err != nil {
		t.Fatalf("LoadFromYAML: %v", err)
	}
	if lex.Lemma("born") != "bear" {
		t.Errorf("born should map to bear")
	}
	if lex.Has("ignored") {
		t.Error("entries without a lemma should be skipped")
	}
}

func TestLoadFromYAMLMissing(t *testing.T) {
	if _, err := LoadFromYAML(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for missing file")
	}
}
