package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/types"
)

var (
	reProjectStart     = regexp.MustCompile(`^([A-Z][A-Za-z0-9 \t&\-:]+)`)
	reProjectSeparated = regexp.MustCompile(`([A-Z][A-Za-z0-9 \t&\-:]+?)[ \t]*(?:\||–|—|\n|$)`)
	// 多词标签后的分隔符可省略，单独的 stack / tools 必须带分隔符
	reTechLabel    = regexp.MustCompile(`(?i)\b(?:(?:technologies(?:[ \t]+used)?|tech[ \t]+stack|tools[ \t]+used)[ \t]*(?::|–|-)?|(?:stack|tools)[ \t]*(?::|–|-))[ \t]*([^\n]+)`)
	reBuiltWith    = regexp.MustCompile(`(?i)\bbuilt[ \t]+(?:with|using)[ \t]*:?[ \t]*([^\n]+)`)
	reBracketGroup = regexp.MustCompile(`\[([^\]\n]+)\]|\(([^)\n]+)\)`)
	reMonthYear    = regexp.MustCompile(`(?i)\b(` + monthPattern + `[ \t,]+\d{4})\b`)
	reYear2000s    = regexp.MustCompile(`\b(20\d{2})\b`)
	// 括号中只有日期时不当作技术栈
	reOnlyDate = regexp.MustCompile(`(?i)^[ \t]*(?:` + monthPattern + `[ \t,]*)?\d{4}(?:[ \t]*[-–—][ \t]*(?:(?:` + monthPattern + `[ \t,]*)?\d{4}|present|current))?[ \t]*$`)
)

// ProjectExtractor 项目经历抽取
type ProjectExtractor struct {
	name         Rules[string, string]
	technologies Rules[string, []string]
	date         Rules[string, string]
}

// NewProjectExtractor 创建项目经历抽取器
func NewProjectExtractor() *ProjectExtractor {
	list := func(g []string) ([]string, bool) {
		v, ok := firstGroup(g)
		if !ok {
			return nil, false
		}
		items := splitList(v)
		return items, len(items) > 0
	}
	return &ProjectExtractor{
		name: Rules[string, string]{
			{Name: "leading_phrase", Match: matchRegex(reProjectStart), Handle: trimmedGroup},
			{Name: "before_separator", Match: matchRegex(reProjectSeparated), Handle: trimmedGroup},
		},
		technologies: Rules[string, []string]{
			{Name: "label", Match: matchRegex(reTechLabel), Handle: list},
			{Name: "built_with", Match: matchRegex(reBuiltWith), Handle: list},
			{Name: "brackets", Match: firstNonDateBracket, Handle: list},
		},
		date: Rules[string, string]{
			regexRule("month_year", reMonthYear),
			regexRule("year", reYear2000s),
		},
	}
}

// FromBlock 连续文本块：按空行切分条目后逐条解析
func (p *ProjectExtractor) FromBlock(block string) []types.ProjectEntry {
	return p.parseAll(splitEntries(block))
}

// FromLines 扁平行序列：以 "项目符号之后的非项目符号行" 为界分组
func (p *ProjectExtractor) FromLines(lines []string) []types.ProjectEntry {
	groups := groupLines(lines, afterBulletRun)
	entries := make([]string, len(groups))
	for i, g := range groups {
		entries[i] = strings.Join(g, "\n")
	}
	return p.parseAll(entries)
}

func (p *ProjectExtractor) parseAll(entries []string) []types.ProjectEntry {
	out := make([]types.ProjectEntry, 0, len(entries))
	for _, entry := range entries {
		if proj, ok := p.ParseEntry(entry); ok {
			out = append(out, proj)
		}
	}
	return out
}

// ParseEntry 解析单个项目；项目名和技术栈都未识别时返回 false
func (p *ProjectExtractor) ParseEntry(entry string) (types.ProjectEntry, bool) {
	proj := types.NewProjectEntry()
	entry = strings.TrimSpace(entry)

	if name, ok := p.name.Apply(entry); ok {
		proj.Name = name
	}
	if techs, ok := p.technologies.Apply(entry); ok {
		proj.Technologies = techs
	}
	if date, ok := p.date.Apply(entry); ok {
		proj.Date = date
	}

	if items := bulletItems(entry); len(items) > 0 {
		proj.Description = items
	} else if lines := splitLines(entry); len(lines) > 1 {
		// 第一行是项目名
		if s := sentences(lines[1:]); len(s) > 0 {
			proj.Description = s
		}
	}

	return proj, proj.Identified()
}

// firstNonDateBracket 第一个不是纯日期的括号内容
func firstNonDateBracket(s string) ([]string, bool) {
	for _, m := range reBracketGroup.FindAllStringSubmatch(s, -1) {
		inner := m[1]
		if inner == "" {
			inner = m[2]
		}
		if strings.TrimSpace(inner) == "" || reOnlyDate.MatchString(inner) {
			continue
		}
		return []string{m[0], inner}, true
	}
	return nil, false
}
