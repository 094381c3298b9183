package recognizer

// Birthday recognizer defaults.
const (
	BirthdayEntity              = "BIRTHDAY"
	BirthdayName                = "BirthdayRecognizer"
	BirthdayExplanation         = "Identified as Birthday due to surrounding context words"
	BirthdayMinScoreWithContext = 0.7
	BirthdayPrefixCount         = 5
	BirthdaySuffixCount         = 5
)

// BirthdayContext lists the words that support a date being a birthday.
var BirthdayContext = []string{"born", "birthday", "birth", "dob"}

// BirthdayLabelGroups maps BIRTHDAY onto the tagger's DATE label.
var BirthdayLabelGroups = LabelGroups{
	{Entities: []string{BirthdayEntity}, Labels: []string{"DATE"}},
}

// NewBirthday returns a recognizer that reports tagged dates as BIRTHDAY.
// The base score is cfg.BaseScore (zero unless set), so a date only becomes a
// credible birthday once the enhancer finds a context word near it. Unset
// fields take the birthday defaults above.
func NewBirthday(cfg Config) *NER {
	if cfg.Name == "" {
		cfg.Name = BirthdayName
	}
	if len(cfg.Entities) == 0 {
		cfg.Entities = []string{BirthdayEntity}
	}
	if len(cfg.LabelGroups) == 0 {
		cfg.LabelGroups = BirthdayLabelGroups
	}
	if cfg.Explanation == "" {
		cfg.Explanation = BirthdayExplanation
	}
	if len(cfg.Context.Words) == 0 {
		cfg.Context.Words = BirthdayContext
	}
	if cfg.Context.PrefixCount == 0 {
		cfg.Context.PrefixCount = BirthdayPrefixCount
	}
	if cfg.Context.SuffixCount == 0 {
		cfg.Context.SuffixCount = BirthdaySuffixCount
	}
	if cfg.Context.MinScoreWithContext == 0 {
		cfg.Context.MinScoreWithContext = BirthdayMinScoreWithContext
	}
	return NewNER(cfg)
}
