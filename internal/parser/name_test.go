package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

func TestNameExtractor_Rules(t *testing.T) {
	n := NewNameExtractor(lexicon.Default())

	testCases := []struct {
		line string
		want string
		rule string
	}{
		{"Jane A. Smith", "Jane A. Smith", "personal_name"},
		{"John Doe", "John Doe", "personal_name"},
		{"JOHN DOE", "John Doe", "all_caps"},
		{"Mary Jane Watson Parker", "Mary Jane Watson Parker", "title_case"},
	}
	for _, tc := range testCases {
		t.Run(tc.line, func(t *testing.T) {
			got, rule, ok := n.rules.Trace(tc.line)
			assert.True(t, ok)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.rule, rule)
		})
	}
}

func TestNameExtractor_Rejects(t *testing.T) {
	n := NewNameExtractor(lexicon.Default())

	for _, line := range []string{
		"",
		"Resume Of John Doe",
		"John Doe CV",
		"Curriculum Vitae",
		"jane@example.com",
		"John Doe 2024",
		"Alexander Maximilian Bartholomew Fitzgerald",
	} {
		assert.True(t, n.rejected(line), line)
	}

	lines := []string{"Resume Of John Doe", "John Doe CV", "jane@example.com", "John Doe 2024", "Grace Hopper"}
	assert.Equal(t, "Grace Hopper", n.Extract(lines))
	assert.Equal(t, types.Sentinel, n.Extract(lines[:4]))
}

func TestNameExtractor_OnlyFirstFiveLines(t *testing.T) {
	n := NewNameExtractor(lexicon.Default())
	lines := []string{"1", "2", "3", "4", "5", "Grace Hopper"}

	assert.Equal(t, types.Sentinel, n.Extract(lines))
	assert.Equal(t, types.Sentinel, n.Extract(nil))
}
