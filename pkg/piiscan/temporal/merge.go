package temporal

import (
	"log/slog"
	"strconv"

	"github.com/cognicore/piiscan/pkg/piiscan/doc"
)

// Discard reasons reported in debug logs.
const (
	reasonInvalidRange  = "invalid_range"
	reasonMissingType   = "missing_type"
	reasonUnaligned     = "unaligned"
	reasonNumeral       = "numeral"
	reasonExistingLabel = "existing_label"
	reasonOverlap       = "overlap"
)

// Merger folds parser matches into a Doc's entities.
type Merger struct {
	// Overwrite lets a match replace tagger entities on the same tokens.
	// When false, a match touching any tagger-labeled token is dropped.
	Overwrite bool
	// Logger receives one debug record per discarded match. Nil disables logging.
	Logger *slog.Logger
}

// Merge is shorthand for Merger{Overwrite: overwrite}.Merge(d, matches).
func Merge(d *doc.Doc, matches []Match, overwrite bool) *doc.Doc {
	return Merger{Overwrite: overwrite}.Merge(d, matches)
}

// Merge returns a Doc whose entities are d's tagger entities combined with
// the accepted matches. Matches are considered in order and the first one to
// claim a token wins. Tagger entities overlapping an accepted match are
// removed. d itself is never modified; when nothing is accepted d is returned.
func (m Merger) Merge(d *doc.Doc, matches []Match) *doc.Doc {
	if len(matches) == 0 {
		return d
	}

	taggerLabels := d.TokenLabels()
	surviving := d.Entities()
	var accepted []doc.Entity
	seen := make(map[int]struct{})

	for i, match := range matches {
		if match.Start >= match.End {
			m.discard(i, match, reasonInvalidRange)
			continue
		}
		if match.Type == "" {
			m.discard(i, match, reasonMissingType)
			continue
		}
		span, ok := d.CharSpan(match.Start, match.End)
		if !ok {
			m.discard(i, match, reasonUnaligned)
			continue
		}
		// Bare numbers such as "1111" or "12345" are reported as dates by
		// temporal parsers far more often than they are dates.
		if isNoiseNumeral(d.SpanText(span)) {
			m.discard(i, match, reasonNumeral)
			continue
		}
		if !m.Overwrite && anyLabeled(taggerLabels, span) {
			m.discard(i, match, reasonExistingLabel)
			continue
		}
		if anySeen(seen, span) {
			m.discard(i, match, reasonOverlap)
			continue
		}

		accepted = append(accepted, doc.Entity{Span: span, Label: match.Type, Source: doc.SourceTemporal})
		surviving = dropOverlapping(surviving, span)
		for t := span.TokenStart; t < span.TokenEnd; t++ {
			seen[t] = struct{}{}
		}
	}

	if len(accepted) == 0 {
		return d
	}
	return d.WithEntities(append(surviving, accepted...))
}

func (m Merger) discard(i int, match Match, reason string) {
	if m.Logger == nil {
		return
	}
	m.Logger.Debug("temporal match discarded",
		slog.Int("index", i),
		slog.Int("start", match.Start),
		slog.Int("end", match.End),
		slog.String("type", match.Type),
		slog.String("reason", reason))
}

// isNoiseNumeral reports whether text is all ASCII digits and either longer
// than four characters or a four digit number below 1900.
func isNoiseNumeral(text string) bool {
	if text == "" {
		return false
	}
	for i := 0; i < len(text); i++ {
		if text[i] < '0' || text[i] > '9' {
			return false
		}
	}
	switch {
	case len(text) > 4:
		return true
	case len(text) == 4:
		year, err := strconv.Atoi(text)
		return err == nil && year < 1900
	default:
		return false
	}
}

func anyLabeled(labels []string, span doc.Span) bool {
	for t := span.TokenStart; t < span.TokenEnd; t++ {
		if labels[t] != "" {
			return true
		}
	}
	return false
}

func anySeen(seen map[int]struct{}, span doc.Span) bool {
	for t := span.TokenStart; t < span.TokenEnd; t++ {
		if _, ok := seen[t]; ok {
			return true
		}
	}
	return false
}

func dropOverlapping(entities []doc.Entity, span doc.Span) []doc.Entity {
	kept := entities[:0]
	for _, e := range entities {
		if e.Overlaps(span) {
			continue
		}
		kept = append(kept, e)
	}
	return kept
}
