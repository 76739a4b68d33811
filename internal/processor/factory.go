package processor

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/cloudwego/eino/components/model"
	"github.com/rs/zerolog"

	"resume-parser-go/internal/agent"
	"resume-parser-go/internal/config"
	"resume-parser-go/internal/lexicon"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/ratelimit"
	"resume-parser-go/internal/storage"
)

// NewServiceFromConfig 按配置创建简历服务
// 返回的 closer 释放 LLM 客户端，调用方负责在退出时调用
func NewServiceFromConfig(ctx context.Context, cfg *config.Config, st *storage.Storage, logger zerolog.Logger) (*ResumeService, io.Closer, error) {
	lex := lexicon.New(lexicon.WithExtraHeaders(cfg.Parser.ExtraHeaders...))
	segmenter, err := parser.NewSegmenter(cfg.Parser.Segmenter, lex)
	if err != nil {
		return nil, nil, err
	}
	heuristic := parser.NewPipeline(
		parser.WithLexicon(lex),
		parser.WithSegmenter(segmenter),
		parser.WithPipelineLogger(logger.With().Str("component", "pipeline").Logger()),
	)

	extractors, err := NewDefaultTextExtractors(ctx, cfg.Parser.SupportedFormats, logger)
	if err != nil {
		return nil, nil, err
	}

	opts := []ServiceOption{
		WithBackend(heuristic),
		WithTextExtractors(extractors),
		WithSupportedFormats(cfg.Parser.SupportedFormats),
		WithExtractTimeout(config.GetDuration(cfg.Parser.ExtractTimeout, defaultExtractTimeout)),
		WithStorage(st),
		WithServiceLogger(logger),
	}

	var closer io.Closer = nopCloser{}
	llm, llmCloser, err := NewChatModel(ctx, cfg.LLM, logger)
	if err != nil {
		return nil, nil, err
	}
	if llm != nil {
		closer = llmCloser
		callTimeout := config.GetDuration(cfg.LLM.CallTimeout, 60*time.Second)
		for _, mode := range []string{parser.SemanticRefine, parser.SemanticDirect} {
			x, err := parser.NewLLMSemanticExtractor(llm, mode,
				parser.WithHeuristic(heuristic),
				parser.WithCallTimeout(callTimeout),
				parser.WithSemanticLogger(logger.With().Str("component", "llm_"+mode).Logger()),
			)
			if err != nil {
				return nil, nil, err
			}
			opts = append(opts, WithBackend(x))
		}
		logger.Info().Str("provider", cfg.LLM.Provider).Str("model", cfg.LLM.Model).Msg("LLM 抽取后端已启用")
	} else {
		logger.Info().Msg("未配置 LLM，仅启用启发式后端")
	}

	return NewResumeService(opts...), closer, nil
}

// NewChatModel 按 provider 创建带限流的聊天模型；provider 为空时返回 nil
func NewChatModel(ctx context.Context, cfg config.LLMConfig, logger zerolog.Logger) (model.BaseChatModel, io.Closer, error) {
	var base model.BaseChatModel
	var closer io.Closer = nopCloser{}

	switch cfg.Provider {
	case "":
		return nil, closer, nil
	case "qwen":
		qwen, err := agent.NewQwenChatModel(cfg.APIKey, cfg.Model, cfg.APIURL,
			agent.WithQwenTemperature(cfg.Temperature),
			agent.WithQwenLogger(logger),
		)
		if err != nil {
			return nil, nil, fmt.Errorf("创建千问模型失败: %w", err)
		}
		base = qwen
	case "gemini":
		gemini, err := agent.NewGeminiChatModel(ctx, cfg.APIKey, cfg.Model, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("创建 Gemini 模型失败: %w", err)
		}
		base, closer = gemini, gemini
	default:
		return nil, nil, fmt.Errorf("unknown llm provider %q", cfg.Provider)
	}

	retryWait := config.GetDuration(cfg.RetryWait, 2*time.Second)
	return ratelimit.NewLLMWithRateLimit(base, cfg.Model, cfg.ModelQPMLimits, cfg.QPM, cfg.MaxRetries, retryWait), closer, nil
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }
