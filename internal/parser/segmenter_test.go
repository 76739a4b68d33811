package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

func TestNewSegmenter(t *testing.T) {
	s, err := NewSegmenter("line", nil)
	require.NoError(t, err)
	assert.IsType(t, &LineAnchorSegmenter{}, s)

	s, err = NewSegmenter("", lexicon.Default())
	require.NoError(t, err)
	assert.IsType(t, &RegexSegmenter{}, s)

	_, err = NewSegmenter("magic", nil)
	assert.Error(t, err)
}

func TestLineAnchorSegmenter_Coverage(t *testing.T) {
	doc := NormalizeText("Jane Doe\njane@example.com\nSkills\nGo, Docker\nEducation\nAcme University\n2018-2022\nProjects\nParser")
	secs := NewLineAnchorSegmenter(lexicon.Default()).Segment(doc)
	require.Equal(t, StrategyLine, secs.Strategy)
	require.Equal(t, []string{"skills", "education", "projects"}, secs.Labels())

	// 首个锚点之前的行 + 每个章节的标题行与内容，必须恰好还原原始行序列
	all := secs.All()
	rebuilt := append([]string{}, doc.Lines[:all[0].Anchor]...)
	for _, sec := range all {
		rebuilt = append(rebuilt, sec.Header)
		rebuilt = append(rebuilt, sec.Lines...)
	}
	assert.Equal(t, doc.Lines, rebuilt)

	edu, ok := secs.Get(types.SectionEducation)
	require.True(t, ok)
	assert.False(t, edu.IsBlock())
	assert.Equal(t, []string{"Acme University", "2018-2022"}, edu.Lines)
	assert.Equal(t, "Acme University\n2018-2022", edu.Body())
	assert.Equal(t, "Education\nAcme University\n2018-2022", edu.Content())
}

func TestLineAnchorSegmenter_TieBreak(t *testing.T) {
	doc := NormalizeText("Education and Experience\nAcme University\nWork Experience\nAcme Corp")
	secs := NewLineAnchorSegmenter(lexicon.Default()).Segment(doc)

	edu, ok := secs.Get(types.SectionEducation)
	require.True(t, ok)
	assert.Equal(t, 0, edu.Anchor)
	assert.Equal(t, []string{"Acme University"}, edu.Lines)

	exp, ok := secs.Get(types.SectionExperience)
	require.True(t, ok)
	assert.Equal(t, 2, exp.Anchor)
	assert.Equal(t, []string{"Acme Corp"}, exp.Lines)
}

func TestLineAnchorSegmenter_NoHeaders(t *testing.T) {
	secs := NewLineAnchorSegmenter(lexicon.Default()).Segment(NormalizeText("Jane Doe\nI like Go"))

	assert.Zero(t, secs.Len())
	_, ok := secs.Get(types.SectionSkills)
	assert.False(t, ok)
}

func TestRegexSegmenter_Strict(t *testing.T) {
	doc := NormalizeText("Jane Doe\n\nSummary\nBackend engineer\n\nEducation:\nAcme University\n\nSkills\nGo")
	secs := NewRegexSegmenter(lexicon.Default()).Segment(doc)

	require.Equal(t, []string{"summary", "education", "skills"}, secs.Labels())

	edu, ok := secs.Get(types.SectionEducation)
	require.True(t, ok)
	assert.True(t, edu.IsBlock())
	assert.Equal(t, "education", edu.Header)
	assert.Equal(t, "Acme University", edu.Body())
	assert.Equal(t, "Education:\nAcme University", edu.Content())

	skills, ok := secs.Get(types.SectionSkills)
	require.True(t, ok)
	assert.Equal(t, "Go", skills.Body())
}

func TestRegexSegmenter_ResolvesLongerPhrases(t *testing.T) {
	doc := NormalizeText("Work Experience\nAcme Corp\nTechnical Skills:\nGo")
	secs := NewRegexSegmenter(lexicon.Default()).Segment(doc)

	require.Equal(t, []string{"experience", "skills"}, secs.Labels())
	exp, _ := secs.Get(types.SectionExperience)
	assert.Equal(t, "work experience", exp.Header)
}

func TestRegexSegmenter_LooseFallback(t *testing.T) {
	doc := NormalizeText("Education at Acme University\nSkills include Go and Docker")
	secs := NewRegexSegmenter(lexicon.Default()).Segment(doc)

	require.Equal(t, []string{"education", "skills"}, secs.Labels())
	skills, _ := secs.Get(types.SectionSkills)
	assert.Equal(t, "include Go and Docker", skills.Body())
}

func TestRegexSegmenter_FullText(t *testing.T) {
	doc := NormalizeText("Jane Doe\nI write Go")
	secs := NewRegexSegmenter(lexicon.Default()).Segment(doc)

	require.Equal(t, 1, secs.Len())
	full, ok := secs.Get(types.SectionFullText)
	require.True(t, ok)
	assert.Equal(t, "Jane Doe\nI write Go", full.Body())
}
