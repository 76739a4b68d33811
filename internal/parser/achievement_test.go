package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

func TestAchievementExtractor(t *testing.T) {
	a := NewAchievementExtractor(lexicon.Default())

	testCases := []struct {
		name    string
		content string
		want    []string
		rule    string
	}{
		{
			name:    "项目符号",
			content: "Achievements\n• Won the campus hackathon\n- Dean's list 2020",
			want:    []string{"Won the campus hackathon", "Dean's list 2020"},
			rule:    "bullets",
		},
		{
			name:    "标题后的句子",
			content: "Awards\nWon the national coding contest.\nranked in top ten",
			want:    []string{"Won the national coding contest."},
			rule:    "header_sentences",
		},
		{
			name:    "标题后的所有行",
			content: "Honors\nhackathon winner 2021\nopen source maintainer",
			want:    []string{"hackathon winner 2021", "open source maintainer"},
			rule:    "lines_after_first",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, rule, ok := a.rules.Trace(splitLines(tc.content))
			assert.True(t, ok)
			assert.Equal(t, tc.rule, rule)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want, a.Extract(tc.content))
		})
	}
}

func TestAchievementExtractor_EmptySection(t *testing.T) {
	a := NewAchievementExtractor(lexicon.Default())

	assert.Equal(t, []string{types.Sentinel}, a.Extract("Achievements"))
	assert.Equal(t, []string{types.Sentinel}, a.Extract(""))
}
