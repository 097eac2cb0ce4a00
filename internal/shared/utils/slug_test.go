package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGenerateSlug(t *testing.T) {
	cases := []struct {
		input string
		want  string
	}{
		{"Nick the Greek", "nick-the-greek"},
		{"Nick the Greek 2", "nick-the-greek-2"},
		{"The Matrix: Reloaded!", "the-matrix-reloaded"},
		{"  spaced   out  ", "spaced-out"},
		{"UPPER CASE", "upper-case"},
		{"---already-hyphenated---", "already-hyphenated"},
		{"", ""},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, GenerateSlug(tc.input), "input: %q", tc.input)
	}
}
