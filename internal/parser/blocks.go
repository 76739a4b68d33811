package parser

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// 项目符号：常见符号、星号、短横线，以及 "1." / "2)" 这类编号（编号后必须有空白）
	reBullet = regexp.MustCompile(`^[ \t]*(?:[•∙■◦◘○◙▪▫●*\-–]|\d{1,2}[.)][ \t])[ \t]*(.+)$`)
	// 首字母大写、以句号结尾的整行句子
	reSentence = regexp.MustCompile(`^[A-Z][\w\s,;:'"().\-/&%+#]+\.$`)
	// 空行分隔条目
	reEntrySplit = regexp.MustCompile(`\n[ \t]*\n`)
)

// splitEntries 按空行切分条目，丢弃空条目
func splitEntries(block string) []string {
	var entries []string
	for _, part := range reEntrySplit.Split(strings.TrimSpace(block), -1) {
		if part = strings.TrimSpace(part); part != "" {
			entries = append(entries, part)
		}
	}
	return entries
}

// splitLines 切分为去空白的非空行
func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

// isBullet 判断一行是否以项目符号开头
func isBullet(line string) bool {
	return reBullet.MatchString(line)
}

// bulletItems 提取项目符号行；紧跟在项目符号行后、以小写字母开头的行视为上一条的续行
func bulletItems(text string) []string {
	var items []string
	inBullet := false
	for _, line := range splitLines(text) {
		if m := reBullet.FindStringSubmatch(line); m != nil {
			if item := strings.TrimSpace(m[1]); item != "" {
				items = append(items, item)
				inBullet = true
				continue
			}
		}
		if inBullet && startsLower(line) {
			items[len(items)-1] += " " + line
			continue
		}
		inBullet = false
	}
	return items
}

// sentences 提取首字母大写、句号结尾的行
func sentences(lines []string) []string {
	var out []string
	for _, line := range lines {
		if reSentence.MatchString(line) {
			out = append(out, line)
		}
	}
	return out
}

// groupLines 把扁平的行序列分组为条目，startsNew 决定当前行是否开启新条目
func groupLines(lines []string, startsNew func(group []string, line string) bool) [][]string {
	var groups [][]string
	var current []string
	for _, line := range lines {
		if len(current) > 0 && startsNew(current, line) {
			groups = append(groups, current)
			current = nil
		}
		current = append(current, line)
	}
	if len(current) > 0 {
		groups = append(groups, current)
	}
	return groups
}

// afterBulletRun 非项目符号行紧跟在项目符号行之后时开启新条目
func afterBulletRun(group []string, line string) bool {
	return !isBullet(line) && isBullet(group[len(group)-1])
}

func startsLower(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return unicode.IsLower(r)
}

// trimPunct 去除首尾空白与分隔符，句点只去除结尾的（保留 .NET 这类写法）
func trimPunct(s string) string {
	s = strings.Trim(s, " \t,;:|-–—")
	return strings.TrimSpace(strings.TrimRight(s, "."))
}

// splitList 按逗号、分号、竖线和项目符号切分列表
var reListSep = regexp.MustCompile(`[,;|•∙■◦◘○◙▪▫●]`)

func splitList(s string) []string {
	var out []string
	for _, part := range reListSep.Split(s, -1) {
		if part = trimPunct(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
