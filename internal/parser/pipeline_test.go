package parser

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

const sampleResume = `JANE DOE
jane.doe@example.com | +1 555-123-4567
github.com/janedoe

EDUCATION
Acme University, Springfield
Bachelor of Computer Science
CGPA: 8.7/10
2018-2022

EXPERIENCE
Senior Software Engineer
Acme Technologies Inc, San Francisco, CA
Jan 2020 - Present
• Built scalable APIs in Go
• Led a team of five engineers

PROJECTS
Resume Parser | Jan 2023
Technologies: Go, Redis, Docker
• Built a heuristic parser

ACHIEVEMENTS
• Won the campus hackathon

SKILLS
Java, Python, Docker
`

func newLinePipeline(t *testing.T) *Pipeline {
	t.Helper()
	seg, err := NewSegmenter(StrategyLine, lexicon.Default())
	require.NoError(t, err)
	return NewPipeline(WithSegmenter(seg))
}

func assertCommonFields(t *testing.T, rec *types.ResumeRecord) {
	t.Helper()
	assert.Equal(t, "Jane Doe", rec.Name)
	assert.Equal(t, "jane.doe@example.com", rec.Email)
	assert.Equal(t, "+15551234567", rec.Phone)
	assert.Equal(t, "github.com/janedoe", rec.GitHub)
	assert.Equal(t, types.Sentinel, rec.LinkedIn)
	assert.Equal(t, []string{"Java", "Python", "Docker"}, rec.Skills)
	assert.Equal(t, []string{"Won the campus hackathon"}, rec.Achievements)
	assert.Len(t, rec.InterviewTopics, types.MaxInterviewTopics)
	assert.Equal(t, lexicon.Default().CoreTopics(), rec.InterviewTopics[:3])

	require.Len(t, rec.Education, 1)
	assert.Equal(t, "Acme University", rec.Education[0].Institution)
	assert.Equal(t, "Bachelor of Computer Science", rec.Education[0].Degree)
	assert.Equal(t, "2018-2022", rec.Education[0].Period)

	require.Len(t, rec.Experience, 1)
	assert.Equal(t, "Senior Software Engineer", rec.Experience[0].Position)
	assert.Equal(t, "Jan 2020 - Present", rec.Experience[0].Period)
	assert.Len(t, rec.Experience[0].Responsibilities, 2)

	require.Len(t, rec.Projects, 1)
	assert.Equal(t, "Resume Parser", rec.Projects[0].Name)
	assert.Equal(t, []string{"Go", "Redis", "Docker"}, rec.Projects[0].Technologies)
	assert.Equal(t, "Jan 2023", rec.Projects[0].Date)
}

func TestPipeline_RegexStrategy(t *testing.T) {
	rec := NewPipeline().Parse(sampleResume)

	assertCommonFields(t, rec)
	assert.Equal(t, "8.7/10", rec.Education[0].CGPA)
	assert.Equal(t, "Springfield", rec.Education[0].Location)
	assert.Equal(t, "Acme Technologies Inc", rec.Experience[0].Company)
	assert.Equal(t, "San Francisco, CA", rec.Experience[0].Location)
	assert.False(t, rec.IsInsufficient())
}

func TestPipeline_LineStrategy(t *testing.T) {
	rec := newLinePipeline(t).Parse(sampleResume)

	assertCommonFields(t, rec)
	// 行过滤模式只保留含学位词、年份或机构名的行
	assert.Equal(t, types.Sentinel, rec.Education[0].CGPA)
}

func TestPipeline_NoHeaders(t *testing.T) {
	for _, p := range []*Pipeline{NewPipeline(), newLinePipeline(t)} {
		rec := p.Parse("John Doe\nI write java and docker daily")

		assert.Equal(t, "John Doe", rec.Name)
		assert.Equal(t, []string{"Java", "Docker"}, rec.Skills)
		assert.Empty(t, rec.Education)
		assert.Empty(t, rec.Experience)
		assert.Empty(t, rec.Projects)
		assert.Empty(t, rec.Achievements)
		assert.Len(t, rec.InterviewTopics, 9)
	}
}

func TestPipeline_EmptyDocument(t *testing.T) {
	for _, p := range []*Pipeline{NewPipeline(), newLinePipeline(t)} {
		rec, err := p.Extract(context.Background(), "")
		require.NoError(t, err)

		assert.Equal(t, types.Sentinel, rec.Name)
		assert.Equal(t, types.Sentinel, rec.Email)
		assert.Equal(t, types.Sentinel, rec.Phone)
		assert.Equal(t, types.Sentinel, rec.LinkedIn)
		assert.Equal(t, types.Sentinel, rec.GitHub)
		assert.Empty(t, rec.Skills)
		assert.Equal(t, lexicon.Default().CoreTopics(), rec.InterviewTopics)
		assert.True(t, rec.IsInsufficient())

		data, err := json.Marshal(rec)
		require.NoError(t, err)
		assert.NotContains(t, string(data), "null")
	}
}

func TestPipeline_Idempotent(t *testing.T) {
	p := NewPipeline()

	first, err := json.Marshal(p.Parse(sampleResume))
	require.NoError(t, err)
	second, err := json.Marshal(p.Parse(sampleResume))
	require.NoError(t, err)
	assert.Equal(t, string(first), string(second))

	again, err := json.Marshal(p.Parse(sampleResume).Normalize())
	require.NoError(t, err)
	assert.Equal(t, string(first), string(again))
}

func TestPipeline_ConcurrentUse(t *testing.T) {
	p := NewPipeline()
	want := p.Parse(sampleResume)

	var wg sync.WaitGroup
	results := make([]*types.ResumeRecord, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], _ = p.Extract(context.Background(), sampleResume)
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
	assert.Equal(t, HeuristicBackend, p.Name())
}
