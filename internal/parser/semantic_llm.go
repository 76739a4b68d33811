package parser

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"

	"resume-parser-go/internal/types"
)

// 语义抽取模式
const (
	SemanticDirect = "direct"
	SemanticRefine = "refine"

	DirectBackend = "llm-direct"
	RefineBackend = "llm-refine"
)

var (
	// ErrLLMResponse LLM 调用失败或返回内容无法解码
	ErrLLMResponse = errors.New("llm response error")
	// ErrNoJSON LLM 响应中找不到 JSON 对象
	ErrNoJSON = errors.New("no JSON object in llm response")
)

var reFencedJSON = regexp.MustCompile("(?s)```json\\s*(\\{.*?\\})\\s*```")

// recordTemplate 两种模式共用的输出格式说明
const recordTemplate = `Return ONLY one JSON object with exactly these keys:
{
  "name": string, "email": string, "phone": string, "linkedin": string, "github": string,
  "skills": [string],
  "education": [{"institution": string, "location": string, "degree": string, "cgpa": string, "period": string}],
  "experience": [{"company": string, "position": string, "location": string, "period": string, "responsibilities": [string]}],
  "projects": [{"name": string, "technologies": [string], "date": string, "description": [string]}],
  "achievements": [string],
  "interview_topics": [string]
}
Use the literal string "Not Present" for any string field you cannot find and [] for empty lists.
Write phone numbers as digits with an optional leading "+". Give at most 10 interview_topics.`

const directSystemPrompt = "You extract structured data from resumes.\n" + recordTemplate

const refineSystemPrompt = "You review a draft produced by a rule-based resume parser. " +
	"Correct wrong fields, fill missing ones from the resume text, and drop entries that are not real. " +
	"Do not invent information that is not in the text.\n" + recordTemplate

// LLMSemanticExtractor 基于 LLM 的简历抽取，与启发式流水线输出同样形状的记录
type LLMSemanticExtractor struct {
	llm         model.BaseChatModel
	mode        string
	heuristic   *Pipeline
	contact     *ContactExtractor
	callTimeout time.Duration
	maxRetries  int
	retryDelay  time.Duration
	logger      zerolog.Logger
}

// SemanticOption 语义抽取器选项
type SemanticOption func(*LLMSemanticExtractor)

// WithHeuristic refine 模式使用的启发式流水线
func WithHeuristic(p *Pipeline) SemanticOption {
	return func(e *LLMSemanticExtractor) {
		if p != nil {
			e.heuristic = p
		}
	}
}

// WithCallTimeout 单次 LLM 调用超时
func WithCallTimeout(d time.Duration) SemanticOption {
	return func(e *LLMSemanticExtractor) {
		if d > 0 {
			e.callTimeout = d
		}
	}
}

// WithLLMRetry 设置重试次数与初始退避
func WithLLMRetry(maxRetries int, delay time.Duration) SemanticOption {
	return func(e *LLMSemanticExtractor) {
		if maxRetries >= 0 {
			e.maxRetries = maxRetries
		}
		if delay > 0 {
			e.retryDelay = delay
		}
	}
}

// WithSemanticLogger 设置日志
func WithSemanticLogger(logger zerolog.Logger) SemanticOption {
	return func(e *LLMSemanticExtractor) {
		e.logger = logger
	}
}

// NewLLMSemanticExtractor 创建语义抽取器，mode 为 direct 或 refine
func NewLLMSemanticExtractor(llm model.BaseChatModel, mode string, opts ...SemanticOption) (*LLMSemanticExtractor, error) {
	if llm == nil {
		return nil, fmt.Errorf("llm model is nil")
	}
	mode = strings.ToLower(strings.TrimSpace(mode))
	if mode != SemanticDirect && mode != SemanticRefine {
		return nil, fmt.Errorf("unknown semantic mode %q", mode)
	}
	e := &LLMSemanticExtractor{
		llm:         llm,
		mode:        mode,
		contact:     NewContactExtractor(),
		callTimeout: 60 * time.Second,
		maxRetries:  2,
		retryDelay:  2 * time.Second,
		logger:      zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.heuristic == nil {
		e.heuristic = NewPipeline()
	}
	return e, nil
}

// Name 实现 processor.Extractor
func (e *LLMSemanticExtractor) Name() string {
	if e.mode == SemanticRefine {
		return RefineBackend
	}
	return DirectBackend
}

// Extract 实现 processor.Extractor
// refine 模式下 LLM 失败时回退到启发式结果，direct 模式直接返回错误
func (e *LLMSemanticExtractor) Extract(ctx context.Context, text string) (*types.ResumeRecord, error) {
	if e.mode == SemanticDirect {
		return e.extractDirect(ctx, text)
	}
	return e.extractRefine(ctx, text)
}

func (e *LLMSemanticExtractor) extractDirect(ctx context.Context, text string) (*types.ResumeRecord, error) {
	resp, err := e.callLLM(ctx, directSystemPrompt, text)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLLMResponse, err)
	}
	return e.parseRecord(resp)
}

func (e *LLMSemanticExtractor) extractRefine(ctx context.Context, text string) (*types.ResumeRecord, error) {
	draft := e.heuristic.Parse(text)
	draftJSON, err := json.Marshal(draft)
	if err != nil {
		return draft, nil
	}

	var user strings.Builder
	user.WriteString("Draft record:\n")
	user.Write(draftJSON)
	user.WriteString("\n\nResume text:\n")
	user.WriteString(text)

	resp, err := e.callLLM(ctx, refineSystemPrompt, user.String())
	if err == nil {
		var rec *types.ResumeRecord
		if rec, err = e.parseRecord(resp); err == nil {
			return rec, nil
		}
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	e.logger.Warn().Err(err).Msg("LLM 修正失败，使用启发式结果")
	return draft, nil
}

// callLLM 带超时和退避重试的单轮调用
func (e *LLMSemanticExtractor) callLLM(ctx context.Context, system, user string) (string, error) {
	messages := []*schema.Message{
		schema.SystemMessage(system),
		schema.UserMessage(user),
	}

	delay := e.retryDelay
	var lastErr error
	for retry := 0; retry <= e.maxRetries; retry++ {
		if retry > 0 {
			select {
			case <-ctx.Done():
				return "", fmt.Errorf("上下文已取消: %w", ctx.Err())
			case <-time.After(delay):
				delay *= 2
			}
			e.logger.Debug().Int("retry", retry).Msg("重试 LLM 调用")
		}

		callCtx, cancel := context.WithTimeout(ctx, e.callTimeout)
		resp, err := e.llm.Generate(callCtx, messages)
		cancel()
		if err == nil {
			if resp == nil {
				return "", fmt.Errorf("empty llm message")
			}
			return resp.Content, nil
		}

		lastErr = err
		if ctx.Err() != nil || !isRetryableError(err) {
			break
		}
	}
	return "", lastErr
}

// parseRecord 从 LLM 响应中取出 JSON 并解码为规范化记录
// 邮箱和电话按启发式后端的规则重新校验，保证不同后端的输出可以互换
func (e *LLMSemanticExtractor) parseRecord(resp string) (*types.ResumeRecord, error) {
	js := extractJSON(resp)
	if js == "" {
		return nil, ErrNoJSON
	}
	rec := types.NewResumeRecord()
	if err := json.Unmarshal([]byte(js), rec); err != nil {
		return nil, fmt.Errorf("%w: decode record: %w", ErrLLMResponse, err)
	}
	rec.Normalize()
	e.contact.Sanitize(rec)
	return rec, nil
}

// extractJSON 优先取 ```json 代码块，否则取第一个括号配平的对象
func extractJSON(text string) string {
	if m := reFencedJSON.FindStringSubmatch(text); len(m) > 1 {
		return strings.TrimSpace(m[1])
	}

	start := strings.Index(text, "{")
	if start == -1 {
		return ""
	}
	level := 0
	inString, escaped := false, false
	for i := start; i < len(text); i++ {
		c := text[i]
		switch {
		case escaped:
			escaped = false
		case inString && c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			level++
		case c == '}':
			level--
			if level == 0 {
				return strings.TrimSpace(text[start : i+1])
			}
		}
	}
	return ""
}

// isRetryableError 超时、限流、临时错误、5xx 与连接异常可以重试
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	for _, s := range []string{
		"timeout", "deadline exceeded", "connection reset", "connection refused", "eof", "no such host",
		"rate limit", "429", "temporar", "500", "502", "503", "504",
	} {
		if strings.Contains(msg, s) {
			return true
		}
	}
	return false
}
