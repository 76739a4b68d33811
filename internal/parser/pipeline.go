package parser

import (
	"context"

	"github.com/rs/zerolog"

	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/types"
)

// HeuristicBackend 启发式解析后端名称
const HeuristicBackend = "heuristic"

// Pipeline 启发式简历解析流水线
// 创建后只读，可被多个 goroutine 并发使用
type Pipeline struct {
	lex          *lexicon.Lexicon
	segmenter    Segmenter
	contact      *ContactExtractor
	name         *NameExtractor
	education    *EducationExtractor
	experience   *ExperienceExtractor
	projects     *ProjectExtractor
	achievements *AchievementExtractor
	skills       *SkillExtractor
	topics       *TopicMapper
	logger       zerolog.Logger
}

// PipelineOption 流水线选项
type PipelineOption func(*Pipeline)

// WithLexicon 使用自定义词表
func WithLexicon(lex *lexicon.Lexicon) PipelineOption {
	return func(p *Pipeline) {
		if lex != nil {
			p.lex = lex
		}
	}
}

// WithSegmenter 使用指定的分段器，默认为全文正则策略
func WithSegmenter(s Segmenter) PipelineOption {
	return func(p *Pipeline) {
		if s != nil {
			p.segmenter = s
		}
	}
}

// WithPipelineLogger 设置调试日志
func WithPipelineLogger(logger zerolog.Logger) PipelineOption {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// NewPipeline 创建流水线，所有正则在此处预编译
func NewPipeline(opts ...PipelineOption) *Pipeline {
	p := &Pipeline{lex: lexicon.Default(), logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(p)
	}
	if p.segmenter == nil {
		p.segmenter = NewRegexSegmenter(p.lex)
	}
	p.contact = NewContactExtractor()
	p.name = NewNameExtractor(p.lex)
	p.education = NewEducationExtractor(p.lex)
	p.experience = NewExperienceExtractor(p.lex)
	p.projects = NewProjectExtractor()
	p.achievements = NewAchievementExtractor(p.lex)
	p.skills = NewSkillExtractor(p.lex)
	p.topics = NewTopicMapper(p.lex)
	return p
}

// Name 实现 processor.Extractor
func (p *Pipeline) Name() string { return HeuristicBackend }

// Extract 实现 processor.Extractor；启发式解析不会失败
func (p *Pipeline) Extract(ctx context.Context, text string) (*types.ResumeRecord, error) {
	doc := NormalizeText(text)
	sections := p.segmenter.Segment(doc)
	p.logger.Debug().
		Str("strategy", sections.Strategy).
		Strs("sections", sections.Labels()).
		Int("lines", len(doc.Lines)).
		Msg("简历分段完成")
	return p.ParseDocument(doc, sections), nil
}

// Parse 解析原始文本，返回字段完整的记录
func (p *Pipeline) Parse(text string) *types.ResumeRecord {
	doc := NormalizeText(text)
	return p.ParseDocument(doc, p.segmenter.Segment(doc))
}

// ParseDocument 在已分段的文档上执行各字段抽取
func (p *Pipeline) ParseDocument(doc Document, sections *Sections) *types.ResumeRecord {
	rec := types.NewResumeRecord()

	contact := p.contact.Extract(doc.Text)
	rec.Email = contact.Email
	rec.Phone = contact.Phone
	rec.LinkedIn = contact.LinkedIn
	rec.GitHub = contact.GitHub
	rec.Name = p.name.Extract(doc.Lines)

	if sec, ok := sections.Get(types.SectionEducation); ok {
		if sec.IsBlock() {
			rec.Education = p.education.FromBlock(sec.Body())
		} else {
			rec.Education = p.education.FromLines(sec.Lines)
		}
	}
	if sec, ok := sections.Get(types.SectionExperience); ok {
		if sec.IsBlock() {
			rec.Experience = p.experience.FromBlock(sec.Body())
		} else {
			rec.Experience = p.experience.FromLines(sec.Lines)
		}
	}
	if sec, ok := sections.Get(types.SectionProjects); ok {
		if sec.IsBlock() {
			rec.Projects = p.projects.FromBlock(sec.Body())
		} else {
			rec.Projects = p.projects.FromLines(sec.Lines)
		}
	}
	if sec, ok := sections.Get(types.SectionAchievements); ok {
		rec.Achievements = p.achievements.Extract(sec.Content())
	}

	// 没有技能章节时在全文中扫描词表
	skillText := doc.Text
	if sec, ok := sections.Get(types.SectionSkills); ok {
		skillText = sec.Content()
	}
	rec.Skills = p.skills.Extract(skillText)
	rec.InterviewTopics = p.topics.Map(rec.Skills)

	return rec.Normalize()
}
