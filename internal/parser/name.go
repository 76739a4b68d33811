package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

const (
	nameScanLines = 5
	nameMaxLen    = 40
)

var (
	rePersonalName  = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z]\.?)?\s+[A-Z][a-z]+$`)
	reAllCapsName   = regexp.MustCompile(`^[A-Z]{2,}(?:\s+[A-Z]{2,})+$`)
	reTitleCaseName = regexp.MustCompile(`^[A-Z][a-z]+(?:\s+[A-Z][a-z]+)+$`)
)

// NameExtractor 在文档开头几行中寻找姓名
type NameExtractor struct {
	rules  Rules[string, string]
	reject *regexp.Regexp
}

// NewNameExtractor 创建姓名抽取器
func NewNameExtractor(lex *lexicon.Lexicon) *NameExtractor {
	return &NameExtractor{
		rules: Rules[string, string]{
			regexRule("personal_name", rePersonalName),
			{Name: "all_caps", Match: matchRegex(reAllCapsName), Handle: func(g []string) (string, bool) {
				return titleCase(g[0]), true
			}},
			regexRule("title_case", reTitleCaseName),
		},
		reject: regexp.MustCompile(`(?i)\b(?:` + alternation(lex.NameRejectTokens()) + `)\b`),
	}
}

// Extract 扫描前 5 行，第一条通过过滤并命中规则的行即为姓名
func (n *NameExtractor) Extract(lines []string) string {
	for i, line := range lines {
		if i >= nameScanLines {
			break
		}
		line = strings.TrimSpace(line)
		if n.rejected(line) {
			continue
		}
		if name, ok := n.rules.Apply(line); ok {
			return name
		}
	}
	return types.Sentinel
}

func (n *NameExtractor) rejected(line string) bool {
	if line == "" || utf8.RuneCountInString(line) >= nameMaxLen {
		return true
	}
	if strings.ContainsRune(line, '@') || strings.IndexFunc(line, unicode.IsDigit) >= 0 {
		return true
	}
	return n.reject.MatchString(line)
}

// titleCase Caser 有状态，不能跨 goroutine 共享，每次调用新建
func titleCase(s string) string {
	return cases.Title(language.English).String(strings.ToLower(s))
}
