package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/cloudwego/hertz/pkg/app"
	"github.com/cloudwego/hertz/pkg/common/utils"
	"github.com/cloudwego/hertz/pkg/protocol/consts"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/processor"
	"resume-parser-go/internal/tracing"
)

var tracer = otel.Tracer("handler")

// 响应头，携带本次解析的元信息
const (
	HeaderSubmissionID = "X-Submission-ID"
	HeaderBackend      = "X-Resume-Backend"
	HeaderCached       = "X-Resume-Cached"
)

// Response 统一响应结构
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message"`
	Data    interface{} `json:"data"`
}

// HistoryItem 抽取日志条目，不返回候选人信息
type HistoryItem struct {
	SubmissionID     string `json:"submission_id"`
	OriginalFilename string `json:"original_filename"`
	Backend          string `json:"backend"`
	Status           string `json:"status"`
	ArchiveKey       string `json:"archive_key,omitempty"`
	SkillCount       int    `json:"skill_count"`
	DurationMS       int64  `json:"duration_ms"`
	CreatedAt        string `json:"created_at"`
}

// ResumeHandler 简历解析接口
type ResumeHandler struct {
	service        *processor.ResumeService
	maxUploadBytes int64
}

// NewResumeHandler 创建简历解析接口；maxUploadBytes <= 0 表示不限制
func NewResumeHandler(service *processor.ResumeService, maxUploadBytes int64) *ResumeHandler {
	return &ResumeHandler{service: service, maxUploadBytes: maxUploadBytes}
}

// Extract 启发式解析
func (h *ResumeHandler) Extract(c context.Context, ctx *app.RequestContext) {
	h.handleExtract(c, ctx, parser.HeuristicBackend, "Resume data extracted successfully")
}

// RefineExtract 启发式结果经 LLM 修正
func (h *ResumeHandler) RefineExtract(c context.Context, ctx *app.RequestContext) {
	h.handleExtract(c, ctx, parser.RefineBackend, "Resume data extracted successfully using LLM refinement")
}

// DirectExtract LLM 直接抽取
func (h *ResumeHandler) DirectExtract(c context.Context, ctx *app.RequestContext) {
	h.handleExtract(c, ctx, parser.DirectBackend, "Resume data extracted successfully using LLM (direct)")
}

// SupportedFormats 返回支持的文件格式
func (h *ResumeHandler) SupportedFormats(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, utils.H{"supported_formats": h.service.SupportedFormats()})
}

// History 查询同一文件的历史抽取日志
func (h *ResumeHandler) History(c context.Context, ctx *app.RequestContext) {
	limit, err := strconv.Atoi(ctx.DefaultQuery("limit", "0"))
	if err != nil {
		ctx.JSON(consts.StatusBadRequest, Response{Message: "limit must be an integer"})
		return
	}

	entries, err := h.service.History(c, ctx.Param("md5"), limit)
	switch {
	case errors.Is(err, processor.ErrInvalidMD5):
		ctx.JSON(consts.StatusBadRequest, Response{Message: err.Error()})
		return
	case errors.Is(err, processor.ErrRepositoryOff):
		ctx.JSON(consts.StatusServiceUnavailable, Response{Message: err.Error()})
		return
	case err != nil:
		logger.Ctx(c).Error().Err(err).Msg("查询抽取日志失败")
		ctx.JSON(consts.StatusInternalServerError, Response{Message: err.Error()})
		return
	}

	items := make([]HistoryItem, 0, len(entries))
	for _, e := range entries {
		items = append(items, HistoryItem{
			SubmissionID:     e.SubmissionID,
			OriginalFilename: e.OriginalFilename,
			Backend:          e.Backend,
			Status:           e.Status,
			ArchiveKey:       e.ArchiveKey,
			SkillCount:       e.SkillCount,
			DurationMS:       e.DurationMS,
			CreatedAt:        e.CreatedAt.Format(time.RFC3339),
		})
	}
	ctx.JSON(consts.StatusOK, Response{Success: true, Message: "ok", Data: items})
}

// Health 健康检查
func (h *ResumeHandler) Health(c context.Context, ctx *app.RequestContext) {
	ctx.JSON(consts.StatusOK, utils.H{"status": "ok"})
}

func (h *ResumeHandler) handleExtract(c context.Context, ctx *app.RequestContext, backend, okMessage string) {
	c, span := tracer.Start(c, "ResumeHandler.Extract", trace.WithAttributes(attribute.String("resume.backend", backend)))
	defer span.End()

	// 获取上传的文件
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		fail(ctx, span, consts.StatusBadRequest, "file is required", err)
		return
	}
	span.SetAttributes(attribute.String("resume.filename", tracing.SafeFilename(fileHeader.Filename)))
	if h.maxUploadBytes > 0 && fileHeader.Size > h.maxUploadBytes {
		msg := fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes)
		fail(ctx, span, consts.StatusRequestEntityTooLarge, msg, errors.New(msg))
		return
	}

	// 打开文件
	file, err := fileHeader.Open()
	if err != nil {
		fail(ctx, span, consts.StatusInternalServerError, "failed to open uploaded file", err)
		return
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		fail(ctx, span, consts.StatusInternalServerError, "failed to read uploaded file", err)
		return
	}

	result, err := h.service.Process(c, processor.ParseRequest{
		Filename: fileHeader.Filename,
		Content:  content,
		Backend:  backend,
	})
	if err != nil {
		status := statusForError(err)
		if status >= consts.StatusInternalServerError {
			logger.Ctx(c).Error().Err(err).Str("backend", backend).Str("filename", fileHeader.Filename).Msg("简历解析失败")
		}
		fail(ctx, span, status, err.Error(), err)
		return
	}

	ctx.Response.Header.Set(HeaderSubmissionID, result.SubmissionID)
	ctx.Response.Header.Set(HeaderBackend, result.Backend)
	ctx.Response.Header.Set(HeaderCached, strconv.FormatBool(result.Cached))

	if result.Insufficient {
		ctx.JSON(consts.StatusOK, Response{
			Success: false,
			Message: constants.InsufficientMessage,
			Data:    result.Record,
		})
		return
	}
	ctx.JSON(consts.StatusOK, Response{Success: true, Message: okMessage, Data: result.Record})
}

// fail 写错误响应，并按状态码把错误记录到 span
func fail(ctx *app.RequestContext, span trace.Span, status int, msg string, err error) {
	tracing.RecordHTTPError(span, err, status)
	ctx.JSON(status, Response{Message: msg})
}

// statusForError 格式错误和空文件属于请求错误，其余为服务端错误
func statusForError(err error) int {
	switch {
	case errors.Is(err, processor.ErrUnsupportedFormat), errors.Is(err, processor.ErrEmptyFile):
		return consts.StatusBadRequest
	default:
		return consts.StatusInternalServerError
	}
}
