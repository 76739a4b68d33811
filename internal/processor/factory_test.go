package processor

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"resume-parser-go/internal/config"
	"resume-parser-go/internal/parser"
)

func TestNewServiceFromConfig_HeuristicOnly(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Parser.SupportedFormats = []string{"txt", "docx"}
	cfg.Parser.Segmenter = "line"

	svc, closer, err := NewServiceFromConfig(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	defer closer.Close()

	assert.Equal(t, []string{"docx", "txt"}, svc.SupportedFormats())
	assert.True(t, svc.HasBackend(parser.HeuristicBackend))
	assert.False(t, svc.HasBackend(parser.RefineBackend))
	assert.False(t, svc.HasBackend(parser.DirectBackend))
}

func TestNewServiceFromConfig_WithQwen(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Parser.SupportedFormats = []string{"txt"}
	cfg.LLM.Provider = "qwen"
	cfg.LLM.APIKey = "sk-test"

	svc, closer, err := NewServiceFromConfig(context.Background(), cfg, nil, zerolog.Nop())
	require.NoError(t, err)
	defer closer.Close()

	assert.True(t, svc.HasBackend(parser.RefineBackend))
	assert.True(t, svc.HasBackend(parser.DirectBackend))
}

func TestNewServiceFromConfig_Errors(t *testing.T) {
	testCases := []struct {
		name   string
		modify func(*config.Config)
	}{
		{"未知分段策略", func(c *config.Config) { c.Parser.Segmenter = "magic" }},
		{"未知格式", func(c *config.Config) { c.Parser.SupportedFormats = []string{"odt"} }},
		{"未知模型提供方", func(c *config.Config) { c.LLM.Provider = "other" }},
		{"缺少密钥", func(c *config.Config) { c.LLM.Provider = "qwen" }},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tc.modify(cfg)
			_, _, err := NewServiceFromConfig(context.Background(), cfg, nil, zerolog.Nop())
			assert.Error(t, err)
		})
	}
}
