package processor

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"resume-parser-go/internal/parser"
)

// NewDefaultTextExtractors 为配置中的格式创建文本提取器
// pdf 使用 eino PDF 解析器，docx 使用 docconv，txt 直接读取
func NewDefaultTextExtractors(ctx context.Context, formats []string, logger zerolog.Logger) (map[string]TextExtractor, error) {
	extractors := make(map[string]TextExtractor, len(formats))
	for _, f := range formats {
		ext := normalizeExt(f)
		switch ext {
		case "pdf":
			pdf, err := parser.NewEinoPDFTextExtractor(ctx, parser.WithEinoLogger(logger))
			if err != nil {
				return nil, fmt.Errorf("创建PDF提取器失败: %w", err)
			}
			extractors[ext] = pdf
		case "docx":
			extractors[ext] = parser.NewDocxTextExtractor(logger)
		case "txt":
			extractors[ext] = parser.PlainTextExtractor{}
		default:
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, ext)
		}
	}
	return extractors, nil
}
