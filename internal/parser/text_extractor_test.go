package parser

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlainTextExtractor(t *testing.T) {
	text, err := PlainTextExtractor{}.ExtractText(context.Background(), strings.NewReader("John Smith\nSkills: Go"), "cv.txt")
	require.NoError(t, err)
	assert.Equal(t, "John Smith\nSkills: Go", text)

	text, err = PlainTextExtractor{}.ExtractText(context.Background(), bytes.NewReader([]byte{'a', 0xff, 'b'}), "bad.txt")
	require.NoError(t, err)
	assert.Equal(t, "a�b", text)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = PlainTextExtractor{}.ExtractText(ctx, strings.NewReader("x"), "cv.txt")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEinoPDFTextExtractor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	extractor, err := NewEinoPDFTextExtractor(ctx, WithEinoLogger(zerolog.Nop()), WithEinoTimeout(time.Second))
	require.NoError(t, err, "创建PDF提取器不应返回错误")
	require.NotNil(t, extractor.parser)
	assert.Equal(t, time.Second, extractor.timeout)

	_, err = extractor.ExtractText(ctx, strings.NewReader("this is not a pdf"), "fake.pdf")
	assert.Error(t, err, "非 PDF 内容应返回错误")
}

// buildDocx 生成只包含正文的最小 DOCX
func buildDocx(t *testing.T, paragraphs ...string) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	write := func(name, content string) {
		w, err := zw.Create(name)
		require.NoError(t, err)
		_, err = w.Write([]byte(content))
		require.NoError(t, err)
	}
	write("[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`)

	var body strings.Builder
	for _, p := range paragraphs {
		body.WriteString(`<w:p><w:r><w:t>` + p + `</w:t></w:r></w:p>`)
	}
	write("word/document.xml", `<?xml version="1.0" encoding="UTF-8"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>`+body.String()+`</w:body></w:document>`)

	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func TestDocxTextExtractor(t *testing.T) {
	x := NewDocxTextExtractor(zerolog.Nop())

	text, err := x.ExtractText(context.Background(), bytes.NewReader(buildDocx(t, "Jane Doe", "EDUCATION")), "cv.docx")
	require.NoError(t, err)
	assert.Contains(t, text, "Jane Doe")
	assert.Contains(t, text, "EDUCATION")

	_, err = x.ExtractText(context.Background(), strings.NewReader("not a zip"), "bad.docx")
	assert.Error(t, err)
}
