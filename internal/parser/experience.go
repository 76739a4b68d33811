package parser

import (
	"regexp"
	"strings"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

const minExperienceLineWords = 3

var (
	reLeadingPhrase = regexp.MustCompile(`^([A-Z][A-Za-z0-9 \t&,.]+)`)
	reRemote        = regexp.MustCompile(`(?i)\b(remote|hybrid|on-?site)\b`)
)

// monthPattern 月份缩写或全称
const monthPattern = `(?:Jan(?:uary)?|Feb(?:ruary)?|Mar(?:ch)?|Apr(?:il)?|May|June?|July?|Aug(?:ust)?|Sep(?:t(?:ember)?)?|Oct(?:ober)?|Nov(?:ember)?|Dec(?:ember)?)\.?`

var (
	// 时间点：月份+年份、MM/YYYY 或年份
	datePoint = `(?:` + monthPattern + `[ \t,]+\d{4}|\d{1,2}/\d{4}|\d{4})`
	// 工作时间段，结束可以是 Present/Current/Now
	reDateRange = regexp.MustCompile(`(?i)\b(` + datePoint + `)[ \t]*(?:–|—|-|to|through)[ \t]*(` + datePoint + `|Present|Current|Now)\b`)
	// 行过滤模式的日期标记
	reDateToken = regexp.MustCompile(`(?i)\b(?:` + monthPattern + `)\b|\b\d{4}\b|\b(?:present|current)\b`)
)

// ExperienceExtractor 工作经历抽取
type ExperienceExtractor struct {
	company   Rules[string, string]
	position  Rules[string, string]
	location  Rules[placeContext, string]
	jobWords  *regexp.Regexp
	actions   *regexp.Regexp
	roleWords *regexp.Regexp
}

// NewExperienceExtractor 创建工作经历抽取器
func NewExperienceExtractor(lex *lexicon.Lexicon) *ExperienceExtractor {
	suffixes := alternation(lex.CompanySuffixes())
	roles := alternation(lex.RoleNouns())
	reCompany := regexp.MustCompile(`([A-Z][A-Za-z0-9 \t&,.]*[A-Za-z0-9&][ \t]+(?:` + suffixes + `)\b\.?)`)
	reTitledRole := regexp.MustCompile(`(?i)\b((?:` + alternation(lex.TitleTokens()) + `)(?:[ \t]+[A-Za-z/]+)*?[ \t]+(?:` + roles + `)s?)\b`)
	reRole := regexp.MustCompile(`(?m)^[ \t]*((?:[A-Z][A-Za-z/&]*[ \t]+){0,3}(?:` + roles + `))\b`)

	x := &ExperienceExtractor{
		company: Rules[string, string]{
			{Name: "company_suffix", Match: matchRegex(reCompany), Handle: trimmedGroup},
			{Name: "leading_phrase", Match: matchRegex(reLeadingPhrase), Handle: trimmedGroup},
		},
		position: Rules[string, string]{
			regexRule("title_role", reTitledRole),
			regexRule("role_noun", reRole),
		},
		jobWords:  regexp.MustCompile(`(?i)\b(?:` + alternation(lex.JobKeywords()) + `)`),
		actions:   regexp.MustCompile(`(?i)\b(?:` + alternation(lex.ActionKeywords()) + `)`),
		roleWords: regexp.MustCompile(`(?i)\b(?:` + roles + `)s?\b`),
	}
	x.location = append(placeRules(x.excludedPlace), onRemainder(regexRule("remote", reRemote)))
	return x
}

// FromBlock 连续文本块：按空行切分条目后逐条解析
func (x *ExperienceExtractor) FromBlock(block string) []types.ExperienceEntry {
	return x.parseAll(splitEntries(block))
}

// FilterLines 行过滤模式：保留含职位词、动作词或日期的行，再丢弃少于 3 个词的行
func (x *ExperienceExtractor) FilterLines(lines []string) []string {
	var kept []string
	for _, line := range lines {
		if !x.jobWords.MatchString(line) && !x.actions.MatchString(line) && !reDateToken.MatchString(line) {
			continue
		}
		if len(strings.Fields(line)) < minExperienceLineWords {
			continue
		}
		kept = append(kept, line)
	}
	return kept
}

// FromLines 扁平行序列：过滤后以 "项目符号之后的非项目符号行" 为界分组
func (x *ExperienceExtractor) FromLines(lines []string) []types.ExperienceEntry {
	groups := groupLines(x.FilterLines(lines), afterBulletRun)
	entries := make([]string, len(groups))
	for i, g := range groups {
		entries[i] = strings.Join(g, "\n")
	}
	return x.parseAll(entries)
}

func (x *ExperienceExtractor) parseAll(entries []string) []types.ExperienceEntry {
	out := make([]types.ExperienceEntry, 0, len(entries))
	for _, entry := range entries {
		if exp, ok := x.ParseEntry(entry); ok {
			out = append(out, exp)
		}
	}
	return out
}

// ParseEntry 解析单条工作经历；公司和职位都未识别时返回 false
func (x *ExperienceExtractor) ParseEntry(entry string) (types.ExperienceEntry, bool) {
	exp := types.NewExperienceEntry()

	if company, ok := x.company.Apply(entry); ok {
		exp.Company = company
	}
	if position, ok := x.position.Apply(entry); ok {
		exp.Position = position
	}
	// 公司兜底规则可能把职位行整行当成公司
	if exp.Company == exp.Position {
		exp.Company = types.Sentinel
	}

	var period string
	if m := reDateRange.FindStringSubmatch(entry); m != nil {
		period = m[0]
		exp.Period = strings.TrimSpace(m[1]) + " - " + strings.TrimSpace(m[2])
	}

	ctx := placeContext{
		entry:  entry,
		anchor: exp.Company,
		remove: []string{exp.Company, exp.Position, period},
	}
	if loc, ok := x.location.Apply(ctx); ok && loc != exp.Company {
		exp.Location = loc
	}

	if items := bulletItems(entry); len(items) > 0 {
		exp.Responsibilities = items
	} else if s := sentences(splitLines(entry)); len(s) > 0 {
		exp.Responsibilities = s
	}

	return exp, exp.Identified()
}

// excludedPlace "Company | Role" 这类排版中锚点之后往往是职位或日期，不能当作地点
func (x *ExperienceExtractor) excludedPlace(p placeContext, s string) bool {
	return p.overlapsIdentified(s) || x.roleWords.MatchString(s) || reDateToken.MatchString(s)
}

func trimmedGroup(g []string) (string, bool) {
	v, ok := firstGroup(g)
	if !ok {
		return "", false
	}
	v = trimPunct(v)
	return v, v != ""
}

// onRemainder 把字符串规则包装为地点规则，作用于去掉已识别字段后的文本
func onRemainder(r Rule[string, string]) Rule[placeContext, string] {
	return Rule[placeContext, string]{
		Name:   r.Name,
		Match:  func(p placeContext) ([]string, bool) { return r.Match(p.remainder()) },
		Handle: r.Handle,
	}
}
