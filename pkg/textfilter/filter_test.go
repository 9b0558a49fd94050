package textfilter

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeHint(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{
			name:     "converts emphasis and splits paragraphs",
			input:    "*You approach the first crate.*\n\n*Something glints inside.*",
			expected: []string{"_You approach the first crate._", "_Something glints inside._"},
		},
		{
			name:     "collapses blank lines",
			input:    "One.\n\n\n\nTwo.\nThree.",
			expected: []string{"One.", "Two.", "Three."},
		},
		{
			name:     "trims surrounding whitespace",
			input:    "  *A faint smell.*  \n\n   ",
			expected: []string{"_A faint smell._"},
		},
		{
			name:     "doubled asterisks become single underscore",
			input:    "**Bold claim.**",
			expected: []string{"_Bold claim._"},
		},
		{
			name:     "empty input",
			input:    "",
			expected: []string{},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeHint(tc.input))
		})
	}
}
