// Package lexicon 保存简历解析用到的全部静态词表。
//
// Lexicon 在进程启动时构建一次，之后只读；所有访问方法都返回副本，
// 调用方无法修改内部数据，因此可以在多个 goroutine 间共享。
package lexicon

import (
	"slices"
	"strings"

	"resume-parser-go/internal/types"
)

// SectionKeywords 一个章节及其标题短语
type SectionKeywords struct {
	Section types.SectionType
	Phrases []string
}

// TopicMapping 技能关键字到面试话题的映射
type TopicMapping struct {
	Key    string
	Topics []string
}

// Lexicon 只读词表集合
type Lexicon struct {
	sections     []SectionKeywords
	extraHeaders []string

	skills      []string
	coreTopics  []string
	topicTable  []TopicMapping
	institution []string
	company     []string
	titleTokens []string
	roleNouns   []string
	jobWords    []string
	actionWords []string
	achievement []string
	months      []string
	nameReject  []string
}

// Option 构建 Lexicon 时的可选项
type Option func(*Lexicon)

// WithExtraHeaders 追加全文正则策略可识别的附加章节标题
func WithExtraHeaders(headers ...string) Option {
	return func(l *Lexicon) {
		for _, h := range headers {
			h = strings.ToLower(strings.TrimSpace(h))
			if h != "" && !slices.Contains(l.extraHeaders, h) {
				l.extraHeaders = append(l.extraHeaders, h)
			}
		}
	}
}

// WithSkills 在默认技能词表之后追加技能
func WithSkills(skills ...string) Option {
	return func(l *Lexicon) {
		for _, s := range skills {
			s = strings.ToLower(strings.TrimSpace(s))
			if s != "" && !slices.Contains(l.skills, s) {
				l.skills = append(l.skills, s)
			}
		}
	}
}

// New 基于默认词表构建 Lexicon
func New(opts ...Option) *Lexicon {
	l := &Lexicon{
		sections:     cloneSections(defaultSections),
		extraHeaders: slices.Clone(defaultExtraHeaders),
		skills:       dedupe(defaultSkills),
		coreTopics:   slices.Clone(defaultCoreTopics),
		topicTable:   cloneTopics(defaultTopicTable),
		institution:  slices.Clone(institutionKeywords),
		company:      slices.Clone(companySuffixes),
		titleTokens:  slices.Clone(titleTokens),
		roleNouns:    slices.Clone(roleNouns),
		jobWords:     slices.Clone(jobKeywords),
		actionWords:  slices.Clone(actionKeywords),
		achievement:  slices.Clone(achievementKeywords),
		months:       slices.Clone(monthNames),
		nameReject:   slices.Clone(nameRejectTokens),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

var defaultLexicon = New()

// Default 返回进程级共享的默认词表
func Default() *Lexicon {
	return defaultLexicon
}

// Sections 按声明顺序返回章节关键字表
func (l *Lexicon) Sections() []SectionKeywords {
	return cloneSections(l.sections)
}

// HeaderPhrases 返回所有章节标题短语（含附加标题），按长度降序，长短语优先匹配
func (l *Lexicon) HeaderPhrases() []string {
	var out []string
	for _, s := range l.sections {
		for _, p := range s.Phrases {
			if !slices.Contains(out, p) {
				out = append(out, p)
			}
		}
	}
	for _, h := range l.extraHeaders {
		if !slices.Contains(out, h) {
			out = append(out, h)
		}
	}
	slices.SortStableFunc(out, func(a, b string) int { return len(b) - len(a) })
	return out
}

// ResolveSection 将标题文本映射为章节；无法映射时返回标题本身
// 按声明顺序检查，第一个包含关系成立的章节胜出
func (l *Lexicon) ResolveSection(header string) types.SectionType {
	h := strings.ToLower(strings.TrimSpace(header))
	for _, s := range l.sections {
		for _, p := range s.Phrases {
			if strings.Contains(h, p) {
				return s.Section
			}
		}
	}
	return types.SectionType(h)
}

// Skills 规范技能词表（小写，按声明顺序）
func (l *Lexicon) Skills() []string { return slices.Clone(l.skills) }

// CoreTopics 始终输出的核心面试话题
func (l *Lexicon) CoreTopics() []string { return slices.Clone(l.coreTopics) }

// TopicTable 技能到面试话题的有序映射
func (l *Lexicon) TopicTable() []TopicMapping { return cloneTopics(l.topicTable) }

// InstitutionKeywords 学校类关键字
func (l *Lexicon) InstitutionKeywords() []string { return slices.Clone(l.institution) }

// CompanySuffixes 公司类型后缀
func (l *Lexicon) CompanySuffixes() []string { return slices.Clone(l.company) }

// TitleTokens 职位修饰词
func (l *Lexicon) TitleTokens() []string { return slices.Clone(l.titleTokens) }

// RoleNouns 职位名词
func (l *Lexicon) RoleNouns() []string { return slices.Clone(l.roleNouns) }

// JobKeywords 行过滤模式下的职位关键字
func (l *Lexicon) JobKeywords() []string { return slices.Clone(l.jobWords) }

// ActionKeywords 行过滤模式下的动作词
func (l *Lexicon) ActionKeywords() []string { return slices.Clone(l.actionWords) }

// AchievementKeywords 获奖章节标题关键字
func (l *Lexicon) AchievementKeywords() []string { return slices.Clone(l.achievement) }

// Months 月份名（完整拼写，小写）
func (l *Lexicon) Months() []string { return slices.Clone(l.months) }

// NameRejectTokens 含有这些词的行不可能是姓名
func (l *Lexicon) NameRejectTokens() []string { return slices.Clone(l.nameReject) }

func cloneSections(in []SectionKeywords) []SectionKeywords {
	out := make([]SectionKeywords, len(in))
	for i, s := range in {
		out[i] = SectionKeywords{Section: s.Section, Phrases: slices.Clone(s.Phrases)}
	}
	return out
}

func cloneTopics(in []TopicMapping) []TopicMapping {
	out := make([]TopicMapping, len(in))
	for i, m := range in {
		out[i] = TopicMapping{Key: m.Key, Topics: slices.Clone(m.Topics)}
	}
	return out
}

func dedupe(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if !slices.Contains(out, s) {
			out = append(out, s)
		}
	}
	return out
}
