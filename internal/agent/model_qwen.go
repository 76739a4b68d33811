package agent

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
)

const (
	// DashScope 的 OpenAI 兼容接口
	openAICompatibleQwenAPIURL = "https://dashscope.aliyuncs.com/compatible-mode/v1/chat/completions"
	defaultQwenModelName       = "qwen-plus"
	defaultHTTPTimeout         = 90 * time.Second
)

// QwenChatModel 通过 OpenAI 兼容接口调用通义千问
// 只实现 model.BaseChatModel，简历抽取不需要工具调用
type QwenChatModel struct {
	apiKey      string
	modelName   string
	apiURL      string
	temperature *float32
	httpClient  *http.Client
	logger      zerolog.Logger
}

// QwenOption QwenChatModel 的可选项
type QwenOption func(*QwenChatModel)

// WithQwenHTTPClient 替换默认的 HTTP 客户端
func WithQwenHTTPClient(c *http.Client) QwenOption {
	return func(q *QwenChatModel) {
		if c != nil {
			q.httpClient = c
		}
	}
}

// WithQwenLogger 设置日志
func WithQwenLogger(logger zerolog.Logger) QwenOption {
	return func(q *QwenChatModel) {
		q.logger = logger
	}
}

// WithQwenTemperature 设置采样温度
func WithQwenTemperature(t float32) QwenOption {
	return func(q *QwenChatModel) {
		q.temperature = &t
	}
}

// NewQwenChatModel 创建通义千问模型，modelName 和 apiURL 为空时使用默认值
func NewQwenChatModel(apiKey, modelName, apiURL string, opts ...QwenOption) (*QwenChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultQwenModelName
	}
	if strings.TrimSpace(apiURL) == "" {
		apiURL = openAICompatibleQwenAPIURL
	}

	q := &QwenChatModel{
		apiKey:     apiKey,
		modelName:  modelName,
		apiURL:     apiURL,
		httpClient: &http.Client{Timeout: defaultHTTPTimeout},
		logger:     zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(q)
	}
	q.logger.Info().Str("api_url", apiURL).Str("model", modelName).Msg("使用通义千问 LLM 客户端")
	return q, nil
}

type chatCompletionMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model          string                  `json:"model"`
	Messages       []chatCompletionMessage `json:"messages"`
	Temperature    *float32                `json:"temperature,omitempty"`
	ResponseFormat *responseFormat         `json:"response_format,omitempty"`
}

type responseFormat struct {
	Type string `json:"type"`
}

type chatCompletionChoice struct {
	Index        int                  `json:"index"`
	Message      chatCompletionAnswer `json:"message"`
	FinishReason string               `json:"finish_reason"`
}

type chatCompletionAnswer struct {
	Role    string  `json:"role"`
	Content *string `json:"content"`
}

type chatCompletionUsage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type chatCompletionResponse struct {
	ID      string                 `json:"id"`
	Model   string                 `json:"model"`
	Choices []chatCompletionChoice `json:"choices"`
	Usage   chatCompletionUsage    `json:"usage"`
}

// Generate 实现 model.BaseChatModel
func (q *QwenChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{Temperature: q.temperature}, opts...)

	payload := chatCompletionRequest{
		Model:          q.modelName,
		Messages:       make([]chatCompletionMessage, 0, len(messages)),
		Temperature:    options.Temperature,
		ResponseFormat: &responseFormat{Type: "json_object"},
	}
	if options.Model != nil && *options.Model != "" {
		payload.Model = *options.Model
	}
	for _, m := range messages {
		if m == nil {
			continue
		}
		payload.Messages = append(payload.Messages, chatCompletionMessage{Role: string(m.Role), Content: m.Content})
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("序列化请求体失败: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, q.apiURL, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("创建 HTTP 请求失败: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+q.apiKey)
	req.Header.Set("Content-Type", "application/json")

	start := time.Now()
	resp, err := q.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("发送 HTTP 请求失败: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取响应体失败: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("API 请求失败，状态 %s: %s", resp.Status, truncate(string(data), 512))
	}

	var out chatCompletionResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("反序列化 API 响应失败: %w", err)
	}
	if len(out.Choices) == 0 {
		return nil, fmt.Errorf("API 返回空 choices")
	}

	q.logger.Debug().
		Str("model", out.Model).
		Int("total_tokens", out.Usage.TotalTokens).
		Dur("latency", time.Since(start)).
		Msg("通义千问调用完成")

	content := ""
	if c := out.Choices[0].Message.Content; c != nil {
		content = *c
	}
	return &schema.Message{
		Role:    schema.Assistant,
		Content: content,
		ResponseMeta: &schema.ResponseMeta{
			FinishReason: out.Choices[0].FinishReason,
			Usage: &schema.TokenUsage{
				PromptTokens:     out.Usage.PromptTokens,
				CompletionTokens: out.Usage.CompletionTokens,
				TotalTokens:      out.Usage.TotalTokens,
			},
		},
	}, nil
}

// Stream 实现 model.BaseChatModel，以单条消息的流返回完整结果
func (q *QwenChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := q.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

var _ model.BaseChatModel = (*QwenChatModel)(nil)
