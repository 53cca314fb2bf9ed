package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlugify(t *testing.T) {
	tests := []struct {
		name     string
		title    string
		expected string
	}{
		{
			name:     "simple title",
			title:    "Web3 Jam",
			expected: "web3-jam",
		},
		{
			name:     "punctuation collapsed",
			title:    "DeFi Builders' Edition!!",
			expected: "defi-builders-edition",
		},
		{
			name:     "leading and trailing separators stripped",
			title:    "  --Hack The Planet--  ",
			expected: "hack-the-planet",
		},
		{
			name:     "consecutive non-alphanumeric runs",
			title:    "AI / ML @ Scale",
			expected: "ai-ml-scale",
		},
		{
			name:     "already a slug",
			title:    "already-a-slug",
			expected: "already-a-slug",
		},
		{
			name:     "only punctuation",
			title:    "!!!",
			expected: "",
		},
		{
			name:     "empty title",
			title:    "",
			expected: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, Slugify(tt.title))
		})
	}
}

func TestSlugifyDeterministic(t *testing.T) {
	first := Slugify("DeFi Builders' Edition!!")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, Slugify("DeFi Builders' Edition!!"))
	}
}
