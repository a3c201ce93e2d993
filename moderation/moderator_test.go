package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

// The dictionary uses specific words to avoid partial collisions (e.g., "he" inside "The")
func TestModerator_Flag(t *testing.T) {
	req := require.New(t)
	dictionary := []string{"badger", "snake", "mushroom"}
	mod, err := NewModerator(dictionary)
	req.NoError(err)

	tests := []struct {
		name  string
		input string
		terms []string
	}{
		{
			name:  "Simple word",
			input: "The badger is here",
			terms: []string{"badger"},
		},
		{
			name:  "Multiple occurrences flagged once",
			input: "badger badger badger",
			terms: []string{"badger"},
		},
		{
			name:  "Leet speak and internal punctuation",
			input: "Look at B.4.d.g.€r !",
			terms: []string{"badger"},
		},
		{
			name:  "Uppercase and extreme noise",
			input: "S-N-A-K-E is a B.A.D.G.E.R",
			terms: []string{"snake", "badger"},
		},
		{
			name:  "Accents and special characters (UTF-8)",
			input: "Un été avec un badger",
			terms: []string{"badger"},
		},
		{
			name:  "Nothing to flag",
			input: "Chat rooms are amazing",
			terms: nil,
		},
		{
			name:  "Empty string",
			input: "",
			terms: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := require.New(t)
			req.ElementsMatch(tt.terms, mod.Flag(tt.input))
		})
	}
}
