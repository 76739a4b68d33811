package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"resume-parser-go/internal/lexicon"
)

// 标签列表兜底："Skills: a, b" / "Technologies include a, b"
var reSkillLabel = regexp.MustCompile(`(?im)(?:skills|technologies)[ \t]*(?::|includes?|are)[ \t]*([^\n]+)`)

// 标题化时保持小写的连接词
var lowerConnectors = map[string]bool{"and": true, "of": true, "or": true}

type skillPattern struct {
	display string
	re      *regexp.Regexp
}

// SkillExtractor 基于规范词表的技能抽取
type SkillExtractor struct {
	vocab []skillPattern
	rules Rules[string, []string]
}

// NewSkillExtractor 预编译词表中每个技能的匹配模式
// 单词边界自定义为非字母数字且非 + #，使 c++ / c# 能整词匹配
func NewSkillExtractor(lex *lexicon.Lexicon) *SkillExtractor {
	skills := lex.Skills()
	s := &SkillExtractor{vocab: make([]skillPattern, 0, len(skills))}
	for _, skill := range skills {
		s.vocab = append(s.vocab, skillPattern{
			display: skillTitle(skill),
			re:      regexp.MustCompile(`(?:^|[^a-z0-9+#])` + regexp.QuoteMeta(skill) + `(?:[^a-z0-9+#]|$)`),
		})
	}
	s.rules = Rules[string, []string]{
		{Name: "vocabulary", Match: s.matchVocabulary, Handle: nonEmpty},
		{Name: "labeled_list", Match: func(text string) ([]string, bool) {
			m := reSkillLabel.FindStringSubmatch(text)
			if m == nil {
				return nil, false
			}
			var out []string
			for _, tok := range splitList(m[1]) {
				if utf8.RuneCountInString(tok) > 1 {
					out = append(out, tok)
				}
			}
			return out, len(out) > 0
		}, Handle: dedupeStrings},
	}
	return s
}

// Extract 输出顺序遵循词表声明顺序；无结果时返回空切片
func (s *SkillExtractor) Extract(text string) []string {
	if out, ok := s.rules.Apply(text); ok {
		return out
	}
	return []string{}
}

func (s *SkillExtractor) matchVocabulary(text string) ([]string, bool) {
	lower := strings.ToLower(text)
	var hits []string
	for _, p := range s.vocab {
		if p.re.MatchString(lower) {
			hits = append(hits, p.display)
		}
	}
	return hits, len(hits) > 0
}

// skillTitle 逐词首字母大写，连接词保持小写
// 只改词首字母，"ci/cd" -> "Ci/cd"，"node.js" -> "Node.js"
func skillTitle(skill string) string {
	words := strings.Fields(skill)
	for i, w := range words {
		if i > 0 && lowerConnectors[w] {
			continue
		}
		words[i] = capitalize(w)
	}
	return strings.Join(words, " ")
}

func capitalize(w string) string {
	r, size := utf8.DecodeRuneInString(w)
	if r == utf8.RuneError {
		return w
	}
	return string(unicode.ToUpper(r)) + strings.ToLower(w[size:])
}

func dedupeStrings(items []string) ([]string, bool) {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, it := range items {
		key := strings.ToLower(it)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, it)
	}
	return out, len(out) > 0
}
