package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

const sampleJob = `Senior Software Engineer
Acme Technologies Inc, San Francisco, CA
Jan 2020 - Present
• Built scalable APIs in Go
• Led a team of five engineers`

func TestExperienceExtractor_ParseEntry(t *testing.T) {
	x := NewExperienceExtractor(lexicon.Default())

	exp, ok := x.ParseEntry(sampleJob)
	require.True(t, ok)
	assert.Equal(t, "Acme Technologies Inc", exp.Company)
	assert.Equal(t, "Senior Software Engineer", exp.Position)
	assert.Equal(t, "San Francisco, CA", exp.Location)
	assert.Equal(t, "Jan 2020 - Present", exp.Period)
	assert.Equal(t, []string{"Built scalable APIs in Go", "Led a team of five engineers"}, exp.Responsibilities)
}

func TestExperienceExtractor_Rules(t *testing.T) {
	x := NewExperienceExtractor(lexicon.Default())

	company, rule, ok := x.company.Trace("Globex\nBuilt internal tools.")
	require.True(t, ok)
	assert.Equal(t, "Globex", company)
	assert.Equal(t, "leading_phrase", rule)

	position, rule, ok := x.position.Trace("Initech LLC\nData Analyst")
	require.True(t, ok)
	assert.Equal(t, "Data Analyst", position)
	assert.Equal(t, "title_role", rule)

	position, rule, ok = x.position.Trace("Globex\nIntern")
	require.True(t, ok)
	assert.Equal(t, "Intern", position)
	assert.Equal(t, "role_noun", rule)
}

func TestExperienceExtractor_Variants(t *testing.T) {
	x := NewExperienceExtractor(lexicon.Default())

	t.Run("远程", func(t *testing.T) {
		exp, ok := x.ParseEntry("Data Analyst\nInitech LLC | Remote\n2019 - 2021")
		require.True(t, ok)
		assert.Equal(t, "Initech LLC", exp.Company)
		assert.Equal(t, "Data Analyst", exp.Position)
		assert.Equal(t, "Remote", exp.Location)
		assert.Equal(t, "2019 - 2021", exp.Period)
	})

	t.Run("没有项目符号时取句子", func(t *testing.T) {
		exp, ok := x.ParseEntry("Globex\nBuilt internal tools.\nsome trailing note")
		require.True(t, ok)
		assert.Equal(t, "Globex", exp.Company)
		assert.Equal(t, types.Sentinel, exp.Position)
		assert.Equal(t, types.Sentinel, exp.Period)
		assert.Equal(t, []string{"Built internal tools."}, exp.Responsibilities)
	})

	t.Run("公司之后紧跟职位", func(t *testing.T) {
		cases := []struct {
			entry    string
			company  string
			position string
		}{
			{"Acme Corp | Software Engineer | Jan 2020 - Present\n• Built APIs", "Acme Corp", "Software Engineer"},
			{"Acme Technologies - Backend Developer", "Acme Technologies", "Backend Developer"},
			{"Globex Inc, Senior Data Analyst", "Globex Inc", "Senior Data Analyst"},
		}
		for _, tc := range cases {
			exp, ok := x.ParseEntry(tc.entry)
			require.True(t, ok, tc.entry)
			assert.Equal(t, tc.company, exp.Company, tc.entry)
			assert.Equal(t, tc.position, exp.Position, tc.entry)
			assert.Equal(t, types.Sentinel, exp.Location, tc.entry)
		}
	})

	t.Run("职位之后的城市仍被识别", func(t *testing.T) {
		exp, ok := x.ParseEntry("Globex Inc | Data Analyst | Austin, TX")
		require.True(t, ok)
		assert.Equal(t, "Data Analyst", exp.Position)
		assert.Equal(t, "Austin, TX", exp.Location)
	})

	t.Run("无法识别的条目被丢弃", func(t *testing.T) {
		_, ok := x.ParseEntry("lorem ipsum dolor")
		assert.False(t, ok)
	})
}

func TestExperienceExtractor_FromBlock(t *testing.T) {
	x := NewExperienceExtractor(lexicon.Default())

	entries := x.FromBlock(sampleJob + "\n\nData Analyst\nInitech LLC\n2017 - 2019\n\nlorem ipsum")
	require.Len(t, entries, 2)
	assert.Equal(t, "Acme Technologies Inc", entries[0].Company)
	assert.Equal(t, "Initech LLC", entries[1].Company)
	assert.Equal(t, "2017 - 2019", entries[1].Period)
}

func TestExperienceExtractor_Lines(t *testing.T) {
	x := NewExperienceExtractor(lexicon.Default())
	lines := []string{
		"Software Engineer at Globex",
		"Python",
		"Developed a billing service",
		"Jan 2020 - Dec 2021",
		"Go",
	}

	assert.Equal(t, []string{"Software Engineer at Globex", "Developed a billing service", "Jan 2020 - Dec 2021"}, x.FilterLines(lines))

	entries := x.FromLines(lines)
	require.Len(t, entries, 1)
	assert.Equal(t, "Software Engineer", entries[0].Position)
	assert.Equal(t, "Jan 2020 - Dec 2021", entries[0].Period)
}

func TestExperienceExtractor_LinesSplitAfterBullets(t *testing.T) {
	x := NewExperienceExtractor(lexicon.Default())
	lines := []string{
		"Backend Developer at Initech",
		"• Built payment APIs",
		"• Maintained CI pipelines",
		"Lead Engineer at Globex",
		"• Led platform migration work",
	}

	entries := x.FromLines(lines)
	require.Len(t, entries, 2)
	assert.Equal(t, "Backend Developer", entries[0].Position)
	assert.Len(t, entries[0].Responsibilities, 2)
	assert.Equal(t, "Lead Engineer", entries[1].Position)
	assert.Equal(t, []string{"Led platform migration work"}, entries[1].Responsibilities)
}
