package recognizer

// LabelGroup pairs recognizer-facing entity types with the tagger labels
// that may stand for them.
type LabelGroup struct {
	Entities []string `yaml:"entities" json:"entities"`
	Labels   []string `yaml:"labels" json:"labels"`
}

// LabelGroups is a recognizer's label compatibility table.
type LabelGroups []LabelGroup

// Match reports whether some group contains entity among its entity types
// and label among its tagger labels. Comparison is exact.
func (gs LabelGroups) Match(entity, label string) bool {
	for _, g := range gs {
		if contains(g.Entities, entity) && contains(g.Labels, label) {
			return true
		}
	}
	return false
}

// Entities returns every entity type named by the table, in order of first
// appearance.
func (gs LabelGroups) Entities() []string {
	var out []string
	for _, g := range gs {
		for _, e := range g.Entities {
			if !contains(out, e) {
				out = append(out, e)
			}
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
