package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/google/generative-ai-go/genai"
	"github.com/rs/zerolog"
	"google.golang.org/api/option"
)

const defaultGeminiModelName = "gemini-1.5-flash"

// GeminiChatModel 把 Gemini 适配为 eino 的 model.BaseChatModel
type GeminiChatModel struct {
	client    *genai.Client
	modelName string
	logger    zerolog.Logger
}

// NewGeminiChatModel 创建 Gemini 模型；使用完毕需要 Close
func NewGeminiChatModel(ctx context.Context, apiKey, modelName string, logger zerolog.Logger) (*GeminiChatModel, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("API 密钥不能为空")
	}
	client, err := genai.NewClient(ctx, option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("创建 Gemini 客户端失败: %w", err)
	}
	if strings.TrimSpace(modelName) == "" {
		modelName = defaultGeminiModelName
	}
	logger.Info().Str("model", modelName).Msg("使用 Gemini LLM 客户端")
	return &GeminiChatModel{client: client, modelName: modelName, logger: logger}, nil
}

// Close 释放底层连接
func (g *GeminiChatModel) Close() error {
	if g.client != nil {
		return g.client.Close()
	}
	return nil
}

// Generate 实现 model.BaseChatModel
// system 消息合并为 SystemInstruction，其余消息按顺序作为文本片段发送
func (g *GeminiChatModel) Generate(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.Message, error) {
	options := model.GetCommonOptions(&model.Options{}, opts...)

	name := g.modelName
	if options.Model != nil && *options.Model != "" {
		name = *options.Model
	}
	m := g.client.GenerativeModel(name)
	m.ResponseMIMEType = "application/json"
	if options.Temperature != nil {
		m.SetTemperature(*options.Temperature)
	}

	var system []genai.Part
	var parts []genai.Part
	for _, msg := range messages {
		if msg == nil || msg.Content == "" {
			continue
		}
		if msg.Role == schema.System {
			system = append(system, genai.Text(msg.Content))
			continue
		}
		parts = append(parts, genai.Text(msg.Content))
	}
	if len(system) > 0 {
		m.SystemInstruction = &genai.Content{Parts: system}
	}
	if len(parts) == 0 {
		return nil, fmt.Errorf("没有可发送的消息")
	}

	resp, err := m.GenerateContent(ctx, parts...)
	if err != nil {
		return nil, fmt.Errorf("gemini generate: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, fmt.Errorf("gemini 返回空 candidates")
	}

	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if t, ok := p.(genai.Text); ok {
			b.WriteString(string(t))
		}
	}

	out := &schema.Message{Role: schema.Assistant, Content: b.String()}
	if u := resp.UsageMetadata; u != nil {
		out.ResponseMeta = &schema.ResponseMeta{Usage: &schema.TokenUsage{
			PromptTokens:     int(u.PromptTokenCount),
			CompletionTokens: int(u.CandidatesTokenCount),
			TotalTokens:      int(u.TotalTokenCount),
		}}
	}
	g.logger.Debug().Str("model", name).Int("chars", b.Len()).Msg("Gemini 调用完成")
	return out, nil
}

// Stream 实现 model.BaseChatModel，以单条消息的流返回完整结果
func (g *GeminiChatModel) Stream(ctx context.Context, messages []*schema.Message, opts ...model.Option) (*schema.StreamReader[*schema.Message], error) {
	msg, err := g.Generate(ctx, messages, opts...)
	if err != nil {
		return nil, err
	}
	return schema.StreamReaderFromArray([]*schema.Message{msg}), nil
}

var _ model.BaseChatModel = (*GeminiChatModel)(nil)
