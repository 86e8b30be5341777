package strings

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDedupeAndTrim(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "nil slice",
			input:    nil,
			expected: nil,
		},
		{
			name:     "trims whitespace",
			input:    []string{"  al1  ", "al2  "},
			expected: []string{"al1", "al2"},
		},
		{
			name:     "removes duplicates preserving order",
			input:    []string{"al2", "al1", "al2"},
			expected: []string{"al2", "al1"},
		},
		{
			name:     "removes empty strings",
			input:    []string{"al1", "", "  ", "al2"},
			expected: []string{"al1", "al2"},
		},
		{
			name:     "preserves case",
			input:    []string{"AL2", "al2"},
			expected: []string{"AL2", "al2"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, DedupeAndTrim(tt.input))
		})
	}
}
