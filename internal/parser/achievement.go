package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

// AchievementExtractor 奖项与证书抽取
type AchievementExtractor struct {
	rules Rules[[]string, []string]
}

// NewAchievementExtractor 创建奖项抽取器
func NewAchievementExtractor(lex *lexicon.Lexicon) *AchievementExtractor {
	header := regexp.MustCompile(`(?i)\b(?:` + alternation(lex.AchievementKeywords()) + `)\b`)
	return &AchievementExtractor{rules: Rules[[]string, []string]{
		{Name: "bullets", Match: func(lines []string) ([]string, bool) {
			items := bulletItems(strings.Join(lines, "\n"))
			return items, len(items) > 0
		}, Handle: nonEmpty},
		{Name: "header_sentences", Match: func(lines []string) ([]string, bool) {
			if len(lines) == 0 || !header.MatchString(lines[0]) {
				return nil, false
			}
			s := sentences(lines[1:])
			return s, len(s) > 0
		}, Handle: nonEmpty},
		{Name: "lines_after_first", Match: func(lines []string) ([]string, bool) {
			if len(lines) < 2 {
				return nil, false
			}
			return lines[1:], true
		}, Handle: nonEmpty},
	}}
}

// Extract 输入为含标题行的章节内容；没有任何结果时返回单元素 Sentinel 列表
func (a *AchievementExtractor) Extract(content string) []string {
	if out, ok := a.rules.Apply(splitLines(content)); ok {
		return out
	}
	return []string{types.Sentinel}
}

func nonEmpty(items []string) ([]string, bool) {
	out := make([]string, 0, len(items))
	for _, it := range items {
		if it = strings.TrimSpace(it); it != "" {
			out = append(out, it)
		}
	}
	return out, len(out) > 0
}
