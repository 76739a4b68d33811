package parser

import (
	"regexp"
	"strings"
)

// Document 规范化后的简历文本
// Text 保留空行（条目切分依赖空行），Lines 只包含去除首尾空白后的非空行
type Document struct {
	Text  string
	Lines []string
}

var (
	reManyBlankLines = regexp.MustCompile(`\n{3,}`)
	// PDF 提取常见的不可见字符
	invisibleReplacer = strings.NewReplacer(
		"\u00a0", " ",
		"\u200b", "",
		"\ufeff", "",
		"\f", "\n",
		"\v", "\n",
	)
)

// NormalizeText 统一换行、清理行尾空白，并切分出非空行序列
func NormalizeText(raw string) Document {
	text := strings.ReplaceAll(raw, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = invisibleReplacer.Replace(text)

	rows := strings.Split(text, "\n")
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		rows[i] = strings.TrimRight(row, " \t")
		if trimmed := strings.TrimSpace(row); trimmed != "" {
			lines = append(lines, trimmed)
		}
	}

	text = strings.Join(rows, "\n")
	text = reManyBlankLines.ReplaceAllString(text, "\n\n")
	return Document{
		Text:  strings.TrimSpace(text),
		Lines: lines,
	}
}

// NormalizeLines 从已有行序列构建 Document，供外部已经按行提取的调用方使用
func NormalizeLines(lines []string) Document {
	return NormalizeText(strings.Join(lines, "\n"))
}
