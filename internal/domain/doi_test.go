package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeDOI(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "empty",
			input:    "",
			expected: "",
		},
		{
			name:     "bare DOI",
			input:    "10.1037/0003-066X.59.1.9",
			expected: "10.1037/0003-066X.59.1.9",
		},
		{
			name:     "doi label",
			input:    "doi:10.1037/a0029146",
			expected: "10.1037/a0029146",
		},
		{
			name:     "doi label uppercase with spaces",
			input:    "DOI : 10.1037/a0029146",
			expected: "10.1037/a0029146",
		},
		{
			name:     "https resolver prefix",
			input:    "https://doi.org/10.1037/a0029146",
			expected: "10.1037/a0029146",
		},
		{
			name:     "http dx resolver prefix",
			input:    "http://dx.doi.org/10.1037/a0029146",
			expected: "10.1037/a0029146",
		},
		{
			name:     "label then resolver prefix",
			input:    "doi:https://doi.org/10.1037/a0029146",
			expected: "10.1037/a0029146",
		},
		{
			name:     "surrounding whitespace",
			input:    "  10.1037/a0029146  ",
			expected: "10.1037/a0029146",
		},
		{
			name:     "case is preserved",
			input:    "https://doi.org/10.1038/NATURE12373",
			expected: "10.1038/NATURE12373",
		},
		{
			name:     "trailing punctuation is kept",
			input:    "10.1037/a0029146).",
			expected: "10.1037/a0029146).",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, NormalizeDOI(tc.input))
		})
	}
}

func TestNormalizeDOI_Idempotent(t *testing.T) {
	inputs := []string{
		"",
		"10.1037/0003-066X.59.1.9",
		"doi:10.1037/a0029146",
		"https://doi.org/10.1037/a0029146).",
		"  DOI: http://dx.doi.org/10.1000/xyz123  ",
		"cognitive bias",
	}

	for _, in := range inputs {
		once := NormalizeDOI(in)
		assert.Equal(t, once, NormalizeDOI(once), "normalize must be idempotent for %q", in)
	}
}

func TestCleanDOI(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected string
	}{
		{
			name:     "strips trailing parenthesis and period",
			input:    "https://doi.org/10.1037/a0029146).",
			expected: "10.1037/a0029146",
		},
		{
			name:     "strips trailing comma and semicolon",
			input:    "10.1037/a0029146,;",
			expected: "10.1037/a0029146",
		},
		{
			name:     "leaves interior punctuation alone",
			input:    "10.1037/0003-066X.59.1.9",
			expected: "10.1037/0003-066X.59.1.9",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, CleanDOI(tc.input))
		})
	}
}

func TestLooksLikeDOI(t *testing.T) {
	testCases := []struct {
		name     string
		input    string
		expected bool
	}{
		{
			name:     "plain DOI",
			input:    "10.1037/0003-066X.59.1.9",
			expected: true,
		},
		{
			name:     "resolver URL with trailing punctuation",
			input:    "https://doi.org/10.1037/a0029146).",
			expected: true,
		},
		{
			name:     "doi label",
			input:    "doi:10.1234/abc",
			expected: true,
		},
		{
			name:     "free text",
			input:    "cognitive bias",
			expected: false,
		},
		{
			name:     "DOI embedded in a sentence",
			input:    "see 10.1037/a0029146 for details",
			expected: false,
		},
		{
			name:     "registrant too short",
			input:    "10.123/abc",
			expected: false,
		},
		{
			name:     "missing suffix",
			input:    "10.1037/",
			expected: false,
		},
		{
			name:     "empty",
			input:    "",
			expected: false,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, LooksLikeDOI(tc.input))
		})
	}
}
