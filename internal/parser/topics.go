package parser

import (
	"strings"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

// TopicMapper 由技能推导面试主题
type TopicMapper struct {
	core  []string
	table []lexicon.TopicMapping
}

// NewTopicMapper 创建面试主题映射器
func NewTopicMapper(lex *lexicon.Lexicon) *TopicMapper {
	return &TopicMapper{core: lex.CoreTopics(), table: lex.TopicTable()}
}

// Map 先放入核心主题，再按技能顺序追加映射表中的主题，先出现的保留，最多 10 个
func (t *TopicMapper) Map(skills []string) []string {
	out := make([]string, 0, types.MaxInterviewTopics)
	seen := make(map[string]bool)
	add := func(topic string) bool {
		if len(out) >= types.MaxInterviewTopics {
			return false
		}
		if !seen[topic] {
			seen[topic] = true
			out = append(out, topic)
		}
		return true
	}

	for _, topic := range t.core {
		add(topic)
	}
	for _, skill := range skills {
		lower := strings.ToLower(skill)
		for _, m := range t.table {
			if !strings.Contains(lower, m.Key) {
				continue
			}
			for _, topic := range m.Topics {
				if !add(topic) {
					return out
				}
			}
		}
	}
	return out
}
