package parser

import (
	"context"
	"fmt"
	"io"

	"code.sajari.com/docconv"
	"github.com/rs/zerolog"
)

const docxMimeType = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"

// DocxTextExtractor 使用 docconv 提取 Word 文档文本
type DocxTextExtractor struct {
	logger zerolog.Logger
}

// NewDocxTextExtractor 创建 DOCX 提取器
func NewDocxTextExtractor(logger zerolog.Logger) *DocxTextExtractor {
	return &DocxTextExtractor{logger: logger}
}

// ExtractText 实现 processor.TextExtractor
func (d *DocxTextExtractor) ExtractText(ctx context.Context, r io.Reader, uri string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	res, err := docconv.Convert(r, docxMimeType, false)
	if err != nil {
		d.logger.Warn().Err(err).Str("uri", uri).Msg("DOCX 解析失败")
		return "", fmt.Errorf("docconv failed for URI %s: %w", uri, err)
	}
	d.logger.Debug().Str("uri", uri).Int("chars", len(res.Body)).Msg("DOCX 提取完成")
	return res.Body, nil
}
