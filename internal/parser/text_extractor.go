package parser

import (
	"context"
	"fmt"
	"io"
	"strings"
)

// maxPlainTextBytes 纯文本读取上限
const maxPlainTextBytes = 8 << 20

// PlainTextExtractor 读取 UTF-8 纯文本，非法字节替换为 U+FFFD
type PlainTextExtractor struct{}

// ExtractText 实现 processor.TextExtractor
func (PlainTextExtractor) ExtractText(ctx context.Context, r io.Reader, uri string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	b, err := io.ReadAll(io.LimitReader(r, maxPlainTextBytes))
	if err != nil {
		return "", fmt.Errorf("read %s: %w", uri, err)
	}
	return strings.ToValidUTF8(string(b), "�"), nil
}
