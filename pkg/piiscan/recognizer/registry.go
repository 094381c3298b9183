package recognizer

import (
	"sort"
	"sync"

	"github.com/cognicore/piiscan/pkg/piiscan/nlp"
)

// Registry holds the recognizers available to an analyzer.
type Registry struct {
	mu          sync.RWMutex
	recognizers []Recognizer
}

// NewRegistry returns a registry holding rs.
func NewRegistry(rs ...Recognizer) *Registry {
	reg := &Registry{}
	for _, r := range rs {
		reg.Add(r)
	}
	return reg
}

// Add registers r. Nil recognizers are ignored.
func (reg *Registry) Add(r Recognizer) {
	if r == nil {
		return
	}
	reg.mu.Lock()
	defer reg.mu.Unlock()
	reg.recognizers = append(reg.recognizers, r)
}

// Len returns the number of registered recognizers.
func (reg *Registry) Len() int {
	reg.mu.RLock()
	defer reg.mu.RUnlock()
	return len(reg.recognizers)
}

// For returns the recognizers for language that support at least one of
// entities, in registration order. Empty entities selects every recognizer
// of the language.
func (reg *Registry) For(language string, entities []string) []Recognizer {
	lang := nlp.NormalizeLanguage(language)
	reg.mu.RLock()
	defer reg.mu.RUnlock()

	var out []Recognizer
	for _, r := range reg.recognizers {
		if r.SupportedLanguage() != lang {
			continue
		}
		if len(entities) == 0 || supportsAny(r, entities) {
			out = append(out, r)
		}
	}
	return out
}

// Entities returns the sorted union of entity types supported for language.
func (reg *Registry) Entities(language string) []string {
	set := make(map[string]struct{})
	for _, r := range reg.For(language, nil) {
		for _, e := range r.SupportedEntities() {
			set[e] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for e := range set {
		out = append(out, e)
	}
	sort.Strings(out)
	return out
}

func supportsAny(r Recognizer, entities []string) bool {
	supported := r.SupportedEntities()
	for _, e := range entities {
		if contains(supported, e) {
			return true
		}
	}
	return false
}
