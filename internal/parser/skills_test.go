package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/lexicon"
)

func TestSkillExtractor_Vocabulary(t *testing.T) {
	s := NewSkillExtractor(lexicon.Default())

	got, rule, ok := s.rules.Trace("Skills\nDocker, React, Python, Java")
	require.True(t, ok)
	assert.Equal(t, "vocabulary", rule)
	// 按词表顺序而非输入顺序输出
	assert.Equal(t, []string{"Java", "Python", "React", "Docker"}, got)
}

func TestSkillExtractor_WordBoundaries(t *testing.T) {
	s := NewSkillExtractor(lexicon.Default())

	assert.Equal(t, []string{"C++", "C#", "Go"}, s.Extract("Languages: C++, C#, Go"))
	assert.Equal(t, []string{"Javascript"}, s.Extract("JavaScript"))
	assert.Equal(t, []string{"Data Structures", "Algorithms"}, s.Extract("strong in data structures and algorithms"))
}

func TestSkillExtractor_LabeledListFallback(t *testing.T) {
	s := NewSkillExtractor(lexicon.Default())

	got, rule, ok := s.rules.Trace("Skills: Figma, Sketch, X, figma")
	require.True(t, ok)
	assert.Equal(t, "labeled_list", rule)
	assert.Equal(t, []string{"Figma", "Sketch"}, got)
}

func TestSkillExtractor_Empty(t *testing.T) {
	s := NewSkillExtractor(lexicon.Default())

	got := s.Extract("nothing relevant here")
	assert.NotNil(t, got)
	assert.Empty(t, got)
}

func TestSkillExtractor_CustomVocabulary(t *testing.T) {
	s := NewSkillExtractor(lexicon.New(lexicon.WithSkills("research and development")))

	assert.Contains(t, s.Extract("Led research and development efforts"), "Research and Development")
}

func TestSkillTitle(t *testing.T) {
	assert.Equal(t, "Research and Development", skillTitle("research and development"))
	assert.Equal(t, "Node", skillTitle("node"))
	assert.Equal(t, "Machine Learning", skillTitle("machine learning"))
	assert.Equal(t, "Ci/cd", skillTitle("ci/cd"))
	assert.Equal(t, "Tcp/ip", skillTitle("tcp/ip"))
	assert.Equal(t, "Node.js", skillTitle("node.js"))
}

func TestTopicMapper(t *testing.T) {
	m := NewTopicMapper(lexicon.Default())
	core := lexicon.Default().CoreTopics()

	t.Run("只有核心主题", func(t *testing.T) {
		assert.Equal(t, core, m.Map(nil))
	})

	t.Run("按技能顺序追加并截断", func(t *testing.T) {
		got := m.Map([]string{"Java", "Python", "React", "Docker"})
		require.Len(t, got, 10)
		assert.Equal(t, core, got[:3])
		assert.Equal(t, []string{
			"Java Programming", "Spring Framework", "JVM Architecture",
			"Python Programming", "Flask/Django Frameworks", "Python Libraries",
			"React.js",
		}, got[3:])
	})

	t.Run("去重", func(t *testing.T) {
		got := m.Map([]string{"Docker", "Docker Compose"})
		assert.Equal(t, append(append([]string{}, core...), "Containerization", "Docker", "Kubernetes"), got)
	})

	t.Run("子串匹配", func(t *testing.T) {
		got := m.Map([]string{"Spring Boot"})
		assert.Contains(t, got, "Spring Boot")
		assert.Contains(t, got, "Spring Security")
	})
}
