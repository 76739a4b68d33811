package parser

import (
	"regexp"
	"strings"
)

// Rule 一条字段抽取规则
// Match 判断输入是否命中并给出分组，Handle 把分组转换为结果；Handle 返回 false 视为未命中
type Rule[In, Out any] struct {
	Name   string
	Match  func(In) ([]string, bool)
	Handle func(groups []string) (Out, bool)
}

// Rules 按优先级排列的规则，第一条成功的规则胜出，之后的规则不再执行
type Rules[In, Out any] []Rule[In, Out]

// Apply 依次执行规则，返回第一条成功规则的结果
func (rs Rules[In, Out]) Apply(in In) (Out, bool) {
	out, _, ok := rs.Trace(in)
	return out, ok
}

// Trace 与 Apply 相同，同时返回命中的规则名，便于逐条测试
func (rs Rules[In, Out]) Trace(in In) (Out, string, bool) {
	for _, r := range rs {
		groups, ok := r.Match(in)
		if !ok {
			continue
		}
		if out, ok := r.Handle(groups); ok {
			return out, r.Name, true
		}
	}
	var zero Out
	return zero, "", false
}

// Names 返回规则名列表
func (rs Rules[In, Out]) Names() []string {
	names := make([]string, len(rs))
	for i, r := range rs {
		names[i] = r.Name
	}
	return names
}

// matchRegex 以正则首个匹配作为命中条件
func matchRegex(re *regexp.Regexp) func(string) ([]string, bool) {
	return func(s string) ([]string, bool) {
		m := re.FindStringSubmatch(s)
		return m, m != nil
	}
}

// firstGroup 取第一个非空的捕获分组（没有捕获分组时取整个匹配）
func firstGroup(groups []string) (string, bool) {
	if len(groups) == 1 {
		v := strings.TrimSpace(groups[0])
		return v, v != ""
	}
	for _, g := range groups[1:] {
		if v := strings.TrimSpace(g); v != "" {
			return v, true
		}
	}
	return "", false
}

// regexRule 最常见的规则形态：正则命中后取第一个非空分组
func regexRule(name string, re *regexp.Regexp) Rule[string, string] {
	return Rule[string, string]{Name: name, Match: matchRegex(re), Handle: firstGroup}
}

// alternation 把词表转成正则分支，按原样转义
func alternation(words []string) string {
	quoted := make([]string, len(words))
	for i, w := range words {
		quoted[i] = regexp.QuoteMeta(w)
	}
	return strings.Join(quoted, "|")
}
