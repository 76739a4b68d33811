package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"testing"

	"github.com/cloudwego/hertz/pkg/app/server"
	"github.com/cloudwego/hertz/pkg/common/ut"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"resume-parser-go/internal/agent"
	"resume-parser-go/internal/api/handler"
	"resume-parser-go/internal/api/router"
	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/processor"
)

const (
	testResume = "Jane A. Smith\njane.smith@example.com\n(555) 123-4567\n\nSkills\nJava, Python, Docker\n"
	llmReply   = "```json\n{\"name\":\"Jane Smith\",\"email\":\"jane@example.com\",\"skills\":[\"Go\"]}\n```"
)

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

func newTestEngine(t *testing.T, apiKeys ...string) *server.Hertz {
	t.Helper()
	direct, err := parser.NewLLMSemanticExtractor(agent.NewMockChatModel(llmReply, nil), parser.SemanticDirect)
	require.NoError(t, err)

	svc := processor.NewResumeService(
		processor.WithTextExtractor("txt", parser.PlainTextExtractor{}),
		processor.WithBackend(direct),
	)
	h := server.New()
	router.RegisterRoutes(h, handler.NewResumeHandler(svc, 1<<20), apiKeys)
	return h
}

func multipartBody(t *testing.T, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)
		_, err = part.Write(content)
		require.NoError(t, err)
	} else {
		require.NoError(t, writer.WriteField("note", "no file"))
	}
	require.NoError(t, writer.Close())
	return body, writer.FormDataContentType()
}

func upload(t *testing.T, h *server.Hertz, path, filename string, content []byte, headers ...ut.Header) *ut.ResponseRecorder {
	body, contentType := multipartBody(t, filename, content)
	headers = append(headers, ut.Header{Key: "Content-Type", Value: contentType})
	return ut.PerformRequest(h.Engine, http.MethodPost, path, &ut.Body{Body: body, Len: body.Len()}, headers...)
}

func decode(t *testing.T, w *ut.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func TestExtract_Success(t *testing.T) {
	h := newTestEngine(t)

	w := upload(t, h, "/api/v1/resume/extract", "cv.txt", []byte(testResume))
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)
	assert.Equal(t, "Resume data extracted successfully", env.Message)

	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "Jane A. Smith", rec["name"])
	assert.Equal(t, "jane.smith@example.com", rec["email"])
	assert.Equal(t, parser.HeuristicBackend, string(w.Header().Peek(handler.HeaderBackend)))
	assert.NotEmpty(t, w.Header().Peek(handler.HeaderSubmissionID))
}

func TestExtract_Insufficient(t *testing.T) {
	h := newTestEngine(t)

	w := upload(t, h, "/api/v1/resume/extract", "notes.txt", []byte("lorem ipsum dolor\n"))
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, constants.InsufficientMessage, env.Message)
	assert.Contains(t, string(env.Data), `"name":"Not Present"`)
}

func TestExtract_Errors(t *testing.T) {
	h := newTestEngine(t)

	testCases := []struct {
		name     string
		filename string
		content  []byte
		code     int
	}{
		{"缺少文件", "", nil, http.StatusBadRequest},
		{"不支持的格式", "cv.odt", []byte("x"), http.StatusBadRequest},
		{"空文件", "cv.txt", []byte{}, http.StatusBadRequest},
		{"文件过大", "big.txt", bytes.Repeat([]byte("a"), 1<<20+1), http.StatusRequestEntityTooLarge},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			w := upload(t, h, "/api/v1/resume/extract", tc.filename, tc.content)
			assert.Equal(t, tc.code, w.Code)
			env := decode(t, w)
			assert.False(t, env.Success)
			assert.NotEmpty(t, env.Message)
		})
	}
}

func TestExtract_ErrorRecordedOnSpan(t *testing.T) {
	recorder := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
	otel.SetTracerProvider(tp)
	t.Cleanup(func() { _ = tp.Shutdown(context.Background()) })

	h := newTestEngine(t)
	w := upload(t, h, "/api/v1/resume/extract", "cv.odt", []byte("x"))
	require.Equal(t, http.StatusBadRequest, w.Code)

	var span sdktrace.ReadOnlySpan
	for _, s := range recorder.Ended() {
		if s.Name() == "ResumeHandler.Extract" {
			span = s
		}
	}
	require.NotNil(t, span)
	assert.Equal(t, codes.Error, span.Status().Code)
	assert.Contains(t, span.Attributes(), attribute.Int("http.status_code", http.StatusBadRequest))
	assert.Contains(t, span.Attributes(), attribute.String("error.category", "client_error"))
}

func TestDirectExtract(t *testing.T) {
	h := newTestEngine(t)

	w := upload(t, h, "/api/v1/resume/direct-extract", "cv.txt", []byte(testResume))
	require.Equal(t, http.StatusOK, w.Code)

	env := decode(t, w)
	assert.True(t, env.Success)
	var rec map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &rec))
	assert.Equal(t, "Jane Smith", rec["name"])
	assert.Equal(t, "Not Present", rec["phone"])
	assert.Equal(t, parser.DirectBackend, string(w.Header().Peek(handler.HeaderBackend)))
}

func TestRefineExtract_NotConfigured(t *testing.T) {
	h := newTestEngine(t)

	w := upload(t, h, "/api/v1/resume/refine-extract", "cv.txt", []byte(testResume))
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, decode(t, w).Message, "unknown extraction backend")
}

func TestSupportedFormatsAndHealth(t *testing.T) {
	h := newTestEngine(t)

	w := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/supported-formats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"supported_formats":["txt"]}`, w.Body.String())

	w = ut.PerformRequest(h.Engine, http.MethodGet, "/health", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestAPIKeyAuth(t *testing.T) {
	h := newTestEngine(t, "secret-key")

	w := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/supported-formats", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/supported-formats", nil,
		ut.Header{Key: router.APIKeyHeader, Value: "wrong"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/supported-formats", nil,
		ut.Header{Key: router.APIKeyHeader, Value: "secret-key"})
	assert.Equal(t, http.StatusOK, w.Code)

	// 健康检查不需要鉴权
	w = ut.PerformRequest(h.Engine, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestHistory_NotConfigured(t *testing.T) {
	h := newTestEngine(t)

	w := ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/history/d41d8cd98f00b204e9800998ecf8427e", nil)
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	w = ut.PerformRequest(h.Engine, http.MethodGet, "/api/v1/resume/history/d41d8cd98f00b204e9800998ecf8427e?limit=x", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
