package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

func TestEducationExtractor_ParseEntry(t *testing.T) {
	e := NewEducationExtractor(lexicon.Default())

	edu, ok := e.ParseEntry("Acme University, Springfield\nBachelor of Computer Science\nCGPA: 8.7/10\n2018-2022")
	require.True(t, ok)
	assert.Equal(t, "Acme University", edu.Institution)
	assert.Contains(t, edu.Degree, "Bachelor of Computer Science")
	assert.Equal(t, "8.7/10", edu.CGPA)
	assert.Equal(t, "2018-2022", edu.Period)
	assert.Equal(t, "Springfield", edu.Location)
}

func TestEducationExtractor_Details(t *testing.T) {
	e := NewEducationExtractor(lexicon.Default())

	t.Run("默认绩点满分", func(t *testing.T) {
		edu, ok := e.ParseEntry("Beta College\nMBA\nGPA 3.8\n2020 to Present")
		require.True(t, ok)
		assert.Equal(t, "Beta College", edu.Institution)
		assert.Equal(t, "MBA", edu.Degree)
		assert.Equal(t, "3.8/10", edu.CGPA)
		assert.Equal(t, "2020-Present", edu.Period)
		assert.Equal(t, types.Sentinel, edu.Location)
	})

	t.Run("去除标题残留", func(t *testing.T) {
		edu, ok := e.ParseEntry("Education/ Acme University")
		require.True(t, ok)
		assert.Equal(t, "Acme University", edu.Institution)
		assert.Equal(t, types.Sentinel, edu.Location)

		edu, ok = e.ParseEntry("Education/ Springfield College\nMaster of Business Administration")
		require.True(t, ok)
		assert.Equal(t, "Springfield College", edu.Institution)
		assert.Equal(t, "Master of Business Administration", edu.Degree)
		assert.Equal(t, types.Sentinel, edu.Location)
	})

	t.Run("章节标题不是地点", func(t *testing.T) {
		assert.True(t, e.excludedPlace(placeContext{}, "Education"))
		assert.True(t, e.excludedPlace(placeContext{}, "Qualifications"))
		assert.False(t, e.excludedPlace(placeContext{}, "Springfield"))
	})

	t.Run("单独一行的地点", func(t *testing.T) {
		edu, ok := e.ParseEntry("Acme University\nSpringfield\nBachelor of Science")
		require.True(t, ok)
		assert.Equal(t, "Springfield", edu.Location)
	})

	t.Run("学位字段使用 in", func(t *testing.T) {
		edu, ok := e.ParseEntry("B.Tech in Computer Science")
		require.True(t, ok)
		assert.Equal(t, "B.Tech of Computer Science", edu.Degree)
		assert.Equal(t, types.Sentinel, edu.Institution)
		assert.Equal(t, types.Sentinel, edu.Location)
	})

	t.Run("无学校无学位的条目被丢弃", func(t *testing.T) {
		_, ok := e.ParseEntry("Springfield\n2019")
		assert.False(t, ok)
	})
}

func TestEducationExtractor_FromBlock(t *testing.T) {
	e := NewEducationExtractor(lexicon.Default())

	entries := e.FromBlock("Acme University\nBachelor of Science\n2014-2018\n\nRandom note\n\nBeta College\nMBA")
	require.Len(t, entries, 2)
	assert.Equal(t, "Acme University", entries[0].Institution)
	assert.Equal(t, "2014-2018", entries[0].Period)
	assert.Equal(t, "Beta College", entries[1].Institution)
}

func TestEducationExtractor_Lines(t *testing.T) {
	e := NewEducationExtractor(lexicon.Default())
	lines := []string{
		"Acme University",
		"B.Tech in Computer Science",
		"Relevant coursework",
		"Beta College",
		"MBA",
		"2020-2022",
	}

	assert.Equal(t, []string{"Acme University", "B.Tech in Computer Science", "Beta College", "MBA", "2020-2022"}, e.FilterLines(lines))

	entries := e.FromLines(lines)
	require.Len(t, entries, 2)
	assert.Equal(t, "Acme University", entries[0].Institution)
	assert.Equal(t, "B.Tech of Computer Science", entries[0].Degree)
	assert.Equal(t, "Beta College", entries[1].Institution)
	assert.Equal(t, "MBA", entries[1].Degree)
	assert.Equal(t, "2020-2022", entries[1].Period)
}
