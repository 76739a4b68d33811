package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

// defaultCGPAScale 缺省的绩点满分
const defaultCGPAScale = "10"

var (
	reDegree = regexp.MustCompile(`(?i)\b((?:(?:Bachelor|Master)(?:'?s)?|Ph\.?D|B\.?Tech|M\.?Tech|B\.?Sc|M\.?Sc|MBA|BCA|MCA)\b\.?|(?:B\.E|M\.E|B\.S|M\.S|B\.A|M\.A)\.)(?:[ \t]+(?:of|in)[ \t]+|[ \t]*[,\-–][ \t]*|[ \t]+)?([A-Za-z][A-Za-z &]*)?`)
	reCGPA   = regexp.MustCompile(`(?i)\b(?:CGPA|GPA)(?:[ \t]*[:=][ \t]*|[ \t]+)(\d+(?:\.\d+)?)(?:[ \t]*/[ \t]*(\d+(?:\.\d+)?))?`)
	// 学年区间：2018-2022 / 2018 to Present
	reYearPeriod = regexp.MustCompile(`(?i)\b(\d{4})(?:[ \t]*[-–—][ \t]*|[ \t]+to[ \t]+)(\d{4}|Present|Current)\b`)
	// 行过滤模式的学位词
	reDegreeToken = regexp.MustCompile(`(?i)\b(?:BACHELOR|MASTER|B\.?TECH|M\.?TECH|BCA|MCA|B\.?SC|M\.?SC|BE|B\.E\.?|ME|M\.E\.?|PHD|MBA)\b`)
	reFourDigit   = regexp.MustCompile(`\b\d{4}\b`)
	// 标题残留，例如 "Education/ Acme University"
	reEducationPrefix = regexp.MustCompile(`(?i)^education\s*[/:]?\s*`)
	// 城市, 州 形式的地点
	reCityPair = regexp.MustCompile(`\b([A-Z][a-z]+(?:[ \t][A-Z][a-z]+)?,[ \t]*[A-Z][A-Za-z]+)\b`)
	// 紧跟在机构名之后的地点，例如 ", Springfield" / " - San Francisco, CA"
	reTrailingPlace = regexp.MustCompile(`^[ \t]*[,|\-–][ \t]*([A-Z][a-z]+(?:[ \t]+[A-Z][a-z]+)*(?:,[ \t]*[A-Z][A-Za-z]+)?)`)
	reCapitalWord   = regexp.MustCompile(`\b([A-Z][a-z]+(?:,[ \t]*[A-Z][a-z]+)?)\b`)
)

// placeContext 地点规则的输入：条目全文与已识别的锚点字段
type placeContext struct {
	entry  string
	anchor string   // 机构名或公司名
	remove []string // 查找地点前需要从条目中移除的已识别字段
}

// remainder 去掉已识别字段后的文本
func (p placeContext) remainder() string {
	rest := p.entry
	for _, r := range p.remove {
		if types.IsPresent(r) {
			rest = strings.Replace(rest, r, "\n", 1)
		}
	}
	return rest
}

// overlapsIdentified 候选与某个已识别字段相同或互相包含
func (p placeContext) overlapsIdentified(v string) bool {
	for _, r := range p.remove {
		if types.IsPresent(r) && (strings.Contains(v, r) || strings.Contains(r, v)) {
			return true
		}
	}
	return false
}

// placeRules 地点抽取规则；excluded 判断候选是否应被丢弃
// 规则的 Handle 只能看到分组，所以匹配时把候选与上下文一起检查
func placeRules(excluded func(placeContext, string) bool) Rules[placeContext, string] {
	accept := func(p placeContext, m []string) ([]string, bool) {
		if m == nil {
			return nil, false
		}
		v, ok := firstGroup(m)
		if !ok || excluded(p, v) {
			return nil, false
		}
		return m, true
	}
	return Rules[placeContext, string]{
		{Name: "after_anchor", Match: func(p placeContext) ([]string, bool) {
			if !types.IsPresent(p.anchor) {
				return nil, false
			}
			idx := strings.Index(p.entry, p.anchor)
			if idx < 0 {
				return nil, false
			}
			tail := p.entry[idx+len(p.anchor):]
			if nl := strings.IndexByte(tail, '\n'); nl >= 0 {
				tail = tail[:nl]
			}
			return accept(p, reTrailingPlace.FindStringSubmatch(tail))
		}, Handle: firstGroup},
		{Name: "city_pair", Match: func(p placeContext) ([]string, bool) {
			return accept(p, reCityPair.FindStringSubmatch(p.remainder()))
		}, Handle: firstGroup},
	}
}

// EducationExtractor 教育经历抽取
type EducationExtractor struct {
	institutionWords []string
	headers          []string
	institution      *regexp.Regexp
	location         Rules[placeContext, string]
}

// NewEducationExtractor 创建教育经历抽取器
func NewEducationExtractor(lex *lexicon.Lexicon) *EducationExtractor {
	words := lex.InstitutionKeywords()
	titled := make([]string, len(words))
	for i, w := range words {
		titled[i] = titleCase(w)
	}
	e := &EducationExtractor{
		institutionWords: words,
		headers:          lex.HeaderPhrases(),
		institution: regexp.MustCompile(`((?:[A-Z][A-Za-z \t&]*?[A-Za-z&][ \t]+)?(?:` + alternation(titled) +
			`)(?:[ \t]+of[ \t]+[A-Z][A-Za-z]+(?:[ \t]+[A-Z][A-Za-z]+)*)?)\b`),
	}
	e.location = append(placeRules(e.excludedPlace), Rule[placeContext, string]{
		Name: "capitalized_word",
		Match: func(p placeContext) ([]string, bool) {
			m := reCapitalWord.FindStringSubmatch(p.remainder())
			return m, m != nil
		},
		Handle: func(g []string) (string, bool) {
			v, ok := firstGroup(g)
			return v, ok && !e.excludedPlace(placeContext{}, v)
		},
	})
	return e
}

// FromBlock 连续文本块：按空行切分条目后逐条解析
func (e *EducationExtractor) FromBlock(block string) []types.EducationEntry {
	return e.parseAll(splitEntries(block))
}

// FilterLines 行过滤模式：保留含学位词、四位年份或机构关键字的行
func (e *EducationExtractor) FilterLines(lines []string) []string {
	var kept []string
	for _, line := range lines {
		if reDegreeToken.MatchString(line) || reFourDigit.MatchString(line) || e.hasInstitutionWord(line) {
			kept = append(kept, line)
		}
	}
	return kept
}

// FromLines 扁平行序列：过滤后按机构行分组，再逐条解析
func (e *EducationExtractor) FromLines(lines []string) []types.EducationEntry {
	groups := groupLines(e.FilterLines(lines), func(group []string, line string) bool {
		if !e.hasInstitutionWord(line) {
			return false
		}
		for _, g := range group {
			if e.hasInstitutionWord(g) {
				return true
			}
		}
		return false
	})
	entries := make([]string, len(groups))
	for i, g := range groups {
		entries[i] = strings.Join(g, "\n")
	}
	return e.parseAll(entries)
}

func (e *EducationExtractor) parseAll(entries []string) []types.EducationEntry {
	out := make([]types.EducationEntry, 0, len(entries))
	for _, entry := range entries {
		if edu, ok := e.ParseEntry(entry); ok {
			out = append(out, edu)
		}
	}
	return out
}

// ParseEntry 解析单条教育经历；学校和学位都未识别时返回 false
func (e *EducationExtractor) ParseEntry(entry string) (types.EducationEntry, bool) {
	edu := types.NewEducationEntry()
	var degreeText, cgpaText, periodText string

	if m := e.institution.FindStringSubmatch(entry); m != nil {
		if inst := strings.TrimSpace(reEducationPrefix.ReplaceAllString(m[1], "")); inst != "" {
			edu.Institution = trimPunct(inst)
		}
	}
	if m := reDegree.FindStringSubmatch(entry); m != nil {
		edu.Degree = composeDegree(m[1], m[2])
		degreeText = m[0]
	}
	if m := reCGPA.FindStringSubmatch(entry); m != nil {
		scale := m[2]
		if scale == "" {
			scale = defaultCGPAScale
		}
		edu.CGPA = m[1] + "/" + scale
		cgpaText = m[0]
	}
	if m := reYearPeriod.FindStringSubmatch(entry); m != nil {
		edu.Period = m[1] + "-" + m[2]
		periodText = m[0]
	}

	ctx := placeContext{
		entry:  reEducationPrefix.ReplaceAllString(entry, ""),
		anchor: edu.Institution,
		remove: []string{edu.Institution, degreeText, cgpaText, periodText},
	}
	if loc, ok := e.location.Apply(ctx); ok {
		edu.Location = loc
	}

	return edu, edu.Identified()
}

// composeDegree 组合为 "{prefix} of {field}"
func composeDegree(prefix, field string) string {
	prefix = strings.TrimSpace(prefix)
	field = strings.TrimSpace(field)
	if field == "" {
		return prefix
	}
	return prefix + " of " + field
}

func (e *EducationExtractor) hasInstitutionWord(s string) bool {
	return containsAny(strings.ToLower(s), e.institutionWords)
}

// excludedPlace 地点候选不能是机构名、学位词、日期词或章节标题
func (e *EducationExtractor) excludedPlace(_ placeContext, s string) bool {
	return e.hasInstitutionWord(s) || reDegreeToken.MatchString(s) || reDegree.MatchString(s) ||
		reDateToken.MatchString(s) || e.isHeader(s)
}

func (e *EducationExtractor) isHeader(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, h := range e.headers {
		if s == h {
			return true
		}
	}
	return false
}
