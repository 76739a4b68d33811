package parser

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"resume-parser-go/internal/types"
)

var (
	reEmail    = regexp.MustCompile(`\b[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}\b`)
	rePhone    = regexp.MustCompile(`(\+\d{1,3}[-\s]?)?\(?\d{3}\)?[-.\s]?\d{3}[-.\s]?\d{4}`)
	reLinkedIn = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[\w-]+`)
	reGitHub   = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?github\.com/[\w-]+`)
)

// minPhoneDigits 去除分隔符后电话号码至少需要的位数
const minPhoneDigits = 10

// ContactFields 联系方式字段
type ContactFields struct {
	Email    string
	Phone    string
	LinkedIn string
	GitHub   string
}

// ContactExtractor 从全文抽取邮箱、电话、LinkedIn、GitHub
// 每个字段只取第一个匹配；validator.Validate 可并发使用
type ContactExtractor struct {
	validate *validator.Validate
}

// NewContactExtractor 创建联系方式抽取器
func NewContactExtractor() *ContactExtractor {
	return &ContactExtractor{validate: validator.New()}
}

// Extract 抽取全部联系方式字段，未命中的字段为 Sentinel
func (c *ContactExtractor) Extract(text string) ContactFields {
	return ContactFields{
		Email:    c.Email(text),
		Phone:    c.Phone(text),
		LinkedIn: firstMatch(reLinkedIn, text),
		GitHub:   firstMatch(reGitHub, text),
	}
}

// Email 第一个匹配必须通过语法校验，否则保持 Sentinel，不再尝试后续匹配
func (c *ContactExtractor) Email(text string) string {
	m := reEmail.FindString(text)
	if m == "" {
		return types.Sentinel
	}
	if err := c.validate.Var(m, "required,email"); err != nil {
		return types.Sentinel
	}
	return m
}

// Phone 只保留数字和开头的 +，不足 10 位视为误匹配
func (c *ContactExtractor) Phone(text string) string {
	m := rePhone.FindString(text)
	if m == "" {
		return types.Sentinel
	}
	if phone, ok := normalizePhone(m); ok {
		return phone
	}
	return types.Sentinel
}

// Sanitize 校验外部来源（如 LLM）给出的邮箱和电话，不合格的字段改为 Sentinel
func (c *ContactExtractor) Sanitize(rec *types.ResumeRecord) {
	if types.IsPresent(rec.Email) {
		email := strings.TrimSpace(rec.Email)
		if c.validate.Var(email, "required,email") != nil {
			email = types.Sentinel
		}
		rec.Email = email
	}
	if types.IsPresent(rec.Phone) {
		phone, ok := normalizePhone(rec.Phone)
		if !ok {
			phone = types.Sentinel
		}
		rec.Phone = phone
	}
}

func normalizePhone(raw string) (string, bool) {
	var b strings.Builder
	digits := 0
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
			digits++
		case r == '+' && b.Len() == 0:
			b.WriteRune(r)
		}
	}
	return b.String(), digits >= minPhoneDigits
}

func firstMatch(re *regexp.Regexp, text string) string {
	if m := re.FindString(text); m != "" {
		return m
	}
	return types.Sentinel
}
