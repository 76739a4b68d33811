package parser

import (
	"fmt"
	"regexp"
	"slices"
	"sort"
	"strings"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

// 分段策略名称，对应配置 parser.segmenter
const (
	StrategyLine  = "line"
	StrategyRegex = "regex"
)

// Section 一个已识别的章节
// 行锚点策略填充 Lines，全文正则策略填充 Text；Body 对两者给出统一视图
type Section struct {
	Label  types.SectionType
	Header string // 命中的标题原文（行锚点为整行，全文正则为小写、去冒号的标题）
	Anchor int    // 行锚点策略为行号，全文正则策略为字节偏移
	Lines  []string
	Text   string
	body   string
	block  bool
}

// IsBlock 章节内容是否为连续文本块
func (s *Section) IsBlock() bool { return s.block }

// Body 不含标题的章节内容
func (s *Section) Body() string {
	if s.block {
		return s.body
	}
	return strings.Join(s.Lines, "\n")
}

// Content 含标题行的完整章节内容
func (s *Section) Content() string {
	if s.block {
		return s.Text
	}
	if len(s.Lines) == 0 {
		return s.Header
	}
	return s.Header + "\n" + strings.Join(s.Lines, "\n")
}

// Sections 按文档顺序排列的章节集合
// 未识别到的章节不在集合中，Get 返回 (nil, false)
type Sections struct {
	Strategy string
	items    []*Section
}

// Get 返回第一个标签匹配的章节
func (s *Sections) Get(label types.SectionType) (*Section, bool) {
	for _, sec := range s.items {
		if sec.Label == label {
			return sec, true
		}
	}
	return nil, false
}

// All 返回所有章节（文档顺序）
func (s *Sections) All() []*Section {
	return slices.Clone(s.items)
}

// Len 章节数量
func (s *Sections) Len() int { return len(s.items) }

// Labels 章节标签列表，用于日志
func (s *Sections) Labels() []string {
	labels := make([]string, len(s.items))
	for i, sec := range s.items {
		labels[i] = string(sec.Label)
	}
	return labels
}

// Segmenter 将规范化文档切分为章节
type Segmenter interface {
	Segment(doc Document) *Sections
}

// NewSegmenter 按策略名创建分段器
func NewSegmenter(strategy string, lex *lexicon.Lexicon) (Segmenter, error) {
	if lex == nil {
		lex = lexicon.Default()
	}
	switch strings.ToLower(strings.TrimSpace(strategy)) {
	case StrategyLine:
		return NewLineAnchorSegmenter(lex), nil
	case StrategyRegex, "":
		return NewRegexSegmenter(lex), nil
	default:
		return nil, fmt.Errorf("unknown segmenter strategy %q", strategy)
	}
}

// LineAnchorSegmenter 逐章节查找第一条包含标题短语的行作为锚点
type LineAnchorSegmenter struct {
	sections []lexicon.SectionKeywords
}

// NewLineAnchorSegmenter 创建行锚点分段器
func NewLineAnchorSegmenter(lex *lexicon.Lexicon) *LineAnchorSegmenter {
	return &LineAnchorSegmenter{sections: lex.Sections()}
}

// Segment 实现 Segmenter
// 同一行命中多个章节时，声明顺序靠前的章节占用该行，其余章节继续向下查找
func (s *LineAnchorSegmenter) Segment(doc Document) *Sections {
	lines := doc.Lines
	claimed := make(map[int]bool)
	var anchors []*Section

	for _, sk := range s.sections {
		for i, line := range lines {
			if claimed[i] {
				continue
			}
			if containsAny(strings.ToLower(line), sk.Phrases) {
				claimed[i] = true
				anchors = append(anchors, &Section{Label: sk.Section, Header: line, Anchor: i})
				break
			}
		}
	}

	sort.SliceStable(anchors, func(i, j int) bool { return anchors[i].Anchor < anchors[j].Anchor })
	for i, a := range anchors {
		end := len(lines)
		if i+1 < len(anchors) {
			end = anchors[i+1].Anchor
		}
		a.Lines = slices.Clone(lines[a.Anchor+1 : end])
	}
	return &Sections{Strategy: StrategyLine, items: anchors}
}

// RegexSegmenter 在全文中查找行首标题，标题之间的文本为章节内容
type RegexSegmenter struct {
	lex    *lexicon.Lexicon
	strict *regexp.Regexp
	loose  *regexp.Regexp
}

// NewRegexSegmenter 创建全文正则分段器
func NewRegexSegmenter(lex *lexicon.Lexicon) *RegexSegmenter {
	alt := alternation(lex.HeaderPhrases())
	return &RegexSegmenter{
		lex: lex,
		// 标题后必须是冒号或行尾
		strict: regexp.MustCompile(`(?im)^[ \t]*((?:` + alt + `)(?:[ \t]*:|[ \t]*$))`),
		// 宽松模式：标题后只要求单词边界
		loose: regexp.MustCompile(`(?im)^[ \t]*((?:` + alt + `)\b)`),
	}
}

// Segment 实现 Segmenter
func (s *RegexSegmenter) Segment(doc Document) *Sections {
	text := doc.Text
	matches := s.strict.FindAllStringSubmatchIndex(text, -1)
	if len(matches) == 0 {
		matches = s.loose.FindAllStringSubmatchIndex(text, -1)
	}
	if len(matches) == 0 {
		full := strings.TrimSpace(text)
		return &Sections{Strategy: StrategyRegex, items: []*Section{{
			Label:  types.SectionFullText,
			Header: string(types.SectionFullText),
			Text:   full,
			body:   full,
			block:  true,
		}}}
	}

	items := make([]*Section, 0, len(matches))
	for i, m := range matches {
		end := len(text)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}
		header := strings.ToLower(strings.TrimSpace(text[m[2]:m[3]]))
		header = strings.TrimSpace(strings.TrimSuffix(header, ":"))
		items = append(items, &Section{
			Label:  s.lex.ResolveSection(header),
			Header: header,
			Anchor: m[0],
			Text:   strings.TrimSpace(text[m[0]:end]),
			body:   strings.TrimSpace(text[m[1]:end]),
			block:  true,
		})
	}
	return &Sections{Strategy: StrategyRegex, items: items}
}

func containsAny(s string, subs []string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}
