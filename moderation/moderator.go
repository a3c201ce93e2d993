package moderation

import (
	"unicode"

	goahocorasick "github.com/anknown/ahocorasick"
)

// Moderator detects flagged terms in message content. Detection is
// observational only: persisted and delivered content is never altered or
// blocked, flags feed telemetry.
type Moderator struct {
	matcher *goahocorasick.Machine
}

// NewModerator initializes the Aho-Corasick automaton with a normalized
// version of the provided term list.
func NewModerator(flaggedTerms []string) (Moderator, error) {
	patterns := make([][]rune, len(flaggedTerms))
	for i, term := range flaggedTerms {
		patterns[i] = normalizeRunes([]rune(term))
	}

	m := new(goahocorasick.Machine)
	if err := m.Build(patterns); err != nil {
		return Moderator{}, err
	}
	return Moderator{matcher: m}, nil
}

// Flag returns the distinct flagged terms present in the content, leet-speak
// and punctuation tricks normalized away. Empty result means clean.
func (m *Moderator) Flag(content string) []string {
	normalized := normalizeRunes([]rune(content))
	if len(normalized) == 0 {
		return nil
	}

	spans := m.matcher.MultiPatternSearch(normalized, false)
	if len(spans) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(spans))
	var terms []string
	for _, span := range spans {
		term := string(span.Word)
		if _, ok := seen[term]; ok {
			continue
		}
		seen[term] = struct{}{}
		terms = append(terms, term)
	}
	return terms
}

// normalizeRunes applies simplification and noise removal to a slice of runes.
func normalizeRunes(input []rune) []rune {
	out := make([]rune, 0, len(input))
	for _, r := range input {
		clean := simplifyRune(r)
		if isNoise(clean) {
			continue
		}
		out = append(out, unicode.ToLower(clean))
	}
	return out
}

// simplifyRune maps common Leet speak characters back to their standard alphabet counterparts.
func simplifyRune(r rune) rune {
	switch r {
	case '4', '@':
		return 'a'
	case '3', '€':
		return 'e'
	case '1', '!', '|':
		return 'i'
	case '0':
		return 'o'
	case '5', '$':
		return 's'
	default:
		return r
	}
}

// isNoise identifies characters ignored during the pattern matching phase.
func isNoise(r rune) bool {
	return unicode.IsPunct(r) || unicode.IsSpace(r) || unicode.IsSymbol(r)
}
