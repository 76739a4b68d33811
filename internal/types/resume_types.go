package types

import "strings"

// Sentinel 表示字段未能抽取到内容
const Sentinel = "Not Present"

// MaxInterviewTopics 面试话题数量上限
const MaxInterviewTopics = 10

// SectionType 表示简历章节类型
type SectionType string

const (
	// SectionEducation 教育经历章节
	SectionEducation SectionType = "education"
	// SectionExperience 工作经历章节
	SectionExperience SectionType = "experience"
	// SectionProjects 项目经历章节
	SectionProjects SectionType = "projects"
	// SectionAchievements 获奖/证书章节
	SectionAchievements SectionType = "achievements"
	// SectionInterviewTopics 面试话题章节
	SectionInterviewTopics SectionType = "interview_topics"
	// SectionSkills 技能章节
	SectionSkills SectionType = "skills"
	// SectionFullText 完整文本（未识别到任何章节标题）
	SectionFullText SectionType = "full_text"
)

// EducationEntry 一条教育经历
type EducationEntry struct {
	Institution string `json:"institution"`
	Location    string `json:"location"`
	Degree      string `json:"degree"`
	CGPA        string `json:"cgpa"`
	Period      string `json:"period"`
}

// ExperienceEntry 一条工作经历
type ExperienceEntry struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Location         string   `json:"location"`
	Period           string   `json:"period"`
	Responsibilities []string `json:"responsibilities"`
}

// ProjectEntry 一条项目经历
type ProjectEntry struct {
	Name         string   `json:"name"`
	Technologies []string `json:"technologies"`
	Date         string   `json:"date"`
	Description  []string `json:"description"`
}

// ResumeRecord 简历结构化抽取结果
// 所有字段始终存在：要么是抽取到的内容，要么是 Sentinel / 空切片
type ResumeRecord struct {
	Name            string            `json:"name"`
	Email           string            `json:"email"`
	Phone           string            `json:"phone"`
	LinkedIn        string            `json:"linkedin"`
	GitHub          string            `json:"github"`
	Skills          []string          `json:"skills"`
	Education       []EducationEntry  `json:"education"`
	Experience      []ExperienceEntry `json:"experience"`
	Projects        []ProjectEntry    `json:"projects"`
	Achievements    []string          `json:"achievements"`
	InterviewTopics []string          `json:"interview_topics"`
}

// NewResumeRecord 返回所有字段均为默认值的记录
func NewResumeRecord() *ResumeRecord {
	return &ResumeRecord{
		Name:            Sentinel,
		Email:           Sentinel,
		Phone:           Sentinel,
		LinkedIn:        Sentinel,
		GitHub:          Sentinel,
		Skills:          []string{},
		Education:       []EducationEntry{},
		Experience:      []ExperienceEntry{},
		Projects:        []ProjectEntry{},
		Achievements:    []string{},
		InterviewTopics: []string{},
	}
}

// NewEducationEntry 返回字段全部为 Sentinel 的教育经历
func NewEducationEntry() EducationEntry {
	return EducationEntry{
		Institution: Sentinel,
		Location:    Sentinel,
		Degree:      Sentinel,
		CGPA:        Sentinel,
		Period:      Sentinel,
	}
}

// NewExperienceEntry 返回字段全部为默认值的工作经历
func NewExperienceEntry() ExperienceEntry {
	return ExperienceEntry{
		Company:          Sentinel,
		Position:         Sentinel,
		Location:         Sentinel,
		Period:           Sentinel,
		Responsibilities: []string{},
	}
}

// NewProjectEntry 返回字段全部为默认值的项目经历
func NewProjectEntry() ProjectEntry {
	return ProjectEntry{
		Name:         Sentinel,
		Technologies: []string{},
		Date:         Sentinel,
		Description:  []string{},
	}
}

// IsPresent 判断字符串字段是否抽取到了内容
func IsPresent(v string) bool {
	return v != "" && v != Sentinel
}

// Identified 是否至少识别出学校或学位
func (e EducationEntry) Identified() bool {
	return IsPresent(e.Institution) || IsPresent(e.Degree)
}

// Identified 是否至少识别出公司或职位
func (e ExperienceEntry) Identified() bool {
	return IsPresent(e.Company) || IsPresent(e.Position)
}

// Identified 是否识别出项目名或技术栈
func (e ProjectEntry) Identified() bool {
	return IsPresent(e.Name) || len(e.Technologies) > 0
}

// IsInsufficient 判断抽取结果是否不足以使用
// 当且仅当姓名、邮箱都缺失且技能为空时成立
func (r *ResumeRecord) IsInsufficient() bool {
	return r.Name == Sentinel && r.Email == Sentinel && len(r.Skills) == 0
}

// Normalize 补齐默认值并丢弃无法识别的条目，返回 r 本身
// 任何后端（规则或 LLM）产出的记录都要经过这里，保证形状一致
func (r *ResumeRecord) Normalize() *ResumeRecord {
	r.Name = orSentinel(r.Name)
	r.Email = orSentinel(r.Email)
	r.Phone = orSentinel(r.Phone)
	r.LinkedIn = orSentinel(r.LinkedIn)
	r.GitHub = orSentinel(r.GitHub)
	r.Skills = cleanStrings(r.Skills)
	r.Achievements = cleanStrings(r.Achievements)

	education := make([]EducationEntry, 0, len(r.Education))
	for _, e := range r.Education {
		e.Institution = orSentinel(e.Institution)
		e.Location = orSentinel(e.Location)
		e.Degree = orSentinel(e.Degree)
		e.CGPA = orSentinel(e.CGPA)
		e.Period = orSentinel(e.Period)
		if e.Identified() {
			education = append(education, e)
		}
	}
	r.Education = education

	experience := make([]ExperienceEntry, 0, len(r.Experience))
	for _, e := range r.Experience {
		e.Company = orSentinel(e.Company)
		e.Position = orSentinel(e.Position)
		e.Location = orSentinel(e.Location)
		e.Period = orSentinel(e.Period)
		e.Responsibilities = cleanStrings(e.Responsibilities)
		if e.Identified() {
			experience = append(experience, e)
		}
	}
	r.Experience = experience

	projects := make([]ProjectEntry, 0, len(r.Projects))
	for _, p := range r.Projects {
		p.Name = orSentinel(p.Name)
		p.Date = orSentinel(p.Date)
		p.Technologies = cleanStrings(p.Technologies)
		p.Description = cleanStrings(p.Description)
		if p.Identified() {
			projects = append(projects, p)
		}
	}
	r.Projects = projects

	topics := make([]string, 0, len(r.InterviewTopics))
	seen := make(map[string]struct{}, len(r.InterviewTopics))
	for _, t := range cleanStrings(r.InterviewTopics) {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		topics = append(topics, t)
	}
	if len(topics) > MaxInterviewTopics {
		topics = topics[:MaxInterviewTopics]
	}
	r.InterviewTopics = topics
	return r
}

func orSentinel(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return Sentinel
	}
	return v
}

// cleanStrings 去除空白项，nil 转为空切片
func cleanStrings(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
	}
	return out
}
