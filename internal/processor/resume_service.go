package processor

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"strings"
	"sort"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"resume-parser-go/internal/constants"
	"resume-parser-go/internal/logger"
	"resume-parser-go/internal/parser"
	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/storage/models"
	"resume-parser-go/internal/tracing"
	"resume-parser-go/internal/types"
	"resume-parser-go/pkg/utils"
)

const (
	defaultExtractTimeout = 30 * time.Second
	defaultHistoryLimit   = 20
	maxHistoryLimit       = 100
)

var reMD5 = regexp.MustCompile(`^[0-9a-f]{32}$`)

// 定义tracer
var tracer = otel.Tracer("processor")

// ParseRequest 一次解析请求
type ParseRequest struct {
	Filename string
	Content  []byte
	// Backend 为空时使用启发式后端
	Backend string
}

// ParseResult 解析结果
type ParseResult struct {
	SubmissionID string              `json:"submission_id"`
	Record       *types.ResumeRecord `json:"record"`
	Insufficient bool                `json:"insufficient"`
	Backend      string              `json:"backend"`
	Cached       bool                `json:"cached"`
}

// ResumeService 简历解析服务
// 负责格式校验、文本提取、后端选择和缓存、归档、持久化、事件发布等副作用
// 所有存储组件都是可选的，未设置时跳过对应步骤
type ResumeService struct {
	textExtractors map[string]TextExtractor
	backends       map[string]Extractor
	formats        map[string]struct{}

	cache     RecordCache
	archiver  Archiver
	repo      Repository
	publisher Publisher

	extractTimeout time.Duration
	logger         zerolog.Logger
}

// NewResumeService 创建简历服务，默认注册启发式后端
func NewResumeService(opts ...ServiceOption) *ResumeService {
	s := &ResumeService{
		textExtractors: make(map[string]TextExtractor),
		backends:       map[string]Extractor{parser.HeuristicBackend: parser.NewPipeline()},
		extractTimeout: defaultExtractTimeout,
		logger:         zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SupportedFormats 当前可处理的扩展名，已排序
func (s *ResumeService) SupportedFormats() []string {
	out := make([]string, 0, len(s.textExtractors))
	for ext := range s.textExtractors {
		if s.formatAllowed(ext) {
			out = append(out, ext)
		}
	}
	sort.Strings(out)
	return out
}

// withLogger 上下文中没有日志时使用服务自身的日志
func (s *ResumeService) withLogger(ctx context.Context) context.Context {
	if zerolog.Ctx(ctx).GetLevel() == zerolog.Disabled && s.logger.GetLevel() != zerolog.Disabled {
		return s.logger.WithContext(ctx)
	}
	return ctx
}

// HasBackend 是否注册了指定后端
func (s *ResumeService) HasBackend(name string) bool {
	_, ok := s.backends[name]
	return ok
}

func (s *ResumeService) formatAllowed(ext string) bool {
	if s.formats == nil {
		return true
	}
	_, ok := s.formats[ext]
	return ok
}

// Process 处理一份简历文件
func (s *ResumeService) Process(ctx context.Context, req ParseRequest) (*ParseResult, error) {
	ctx, span := tracer.Start(ctx, "ResumeService.Process", trace.WithSpanKind(trace.SpanKindInternal))
	defer span.End()

	backendName := req.Backend
	if backendName == "" {
		backendName = parser.HeuristicBackend
	}
	ext := normalizeExt(filepath.Ext(req.Filename))
	span.SetAttributes(
		attribute.String("resume.filename", tracing.SafeFilename(req.Filename)),
		attribute.String("resume.format", ext),
		attribute.String("resume.backend", backendName),
		attribute.Int("resume.size_bytes", len(req.Content)),
	)

	// 1. 格式与内容校验
	textExtractor, ok := s.textExtractors[ext]
	if !ok || !s.formatAllowed(ext) {
		err := NewUnsupportedFormatError(req.Filename, ext)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	if len(req.Content) == 0 {
		err := NewEmptyFileError(req.Filename)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}
	backend, ok := s.backends[backendName]
	if !ok {
		err := NewBackendError("", req.Filename, backendName, ErrUnknownBackend)
		tracing.RecordError(span, err, tracing.ErrorTypeValidation)
		return nil, err
	}

	// 2. 文件指纹与提交ID
	start := time.Now()
	fileMD5 := utils.CalculateMD5(req.Content)
	id, err := uuid.NewV7()
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeInternal)
		return nil, err
	}
	submissionID := id.String()
	span.SetAttributes(attribute.String("submission_id", submissionID), attribute.String("resume.md5", fileMD5))

	ctx = logger.WithSubmissionID(s.withLogger(ctx), submissionID)
	log := logger.Ctx(ctx).With().Str("backend", backendName).Str("md5", fileMD5).Logger()

	// 3. 缓存
	if s.cache != nil {
		rec, hit, err := s.cache.GetRecord(ctx, backendName, fileMD5)
		if err != nil {
			log.Warn().Err(err).Msg("读取缓存失败，继续解析")
			tracing.RecordSideEffectError(span, err, tracing.ErrorTypeRedis)
		} else if hit {
			log.Info().Msg("命中抽取缓存")
			span.SetAttributes(attribute.Bool("resume.cached", true))
			return &ParseResult{
				SubmissionID: submissionID,
				Record:       rec,
				Insufficient: rec.IsInsufficient(),
				Backend:      backendName,
				Cached:       true,
			}, nil
		}
	}

	// 4. 文本提取，失败时以空文本继续
	text, err := s.extractText(ctx, textExtractor, req)
	if err != nil {
		log.Warn().Err(err).Str("filename", req.Filename).Msg("文本提取失败，按空文本解析")
		tracing.RecordSideEffectError(span, err, tracing.ErrorTypeExtraction)
		text = ""
	}
	span.SetAttributes(attribute.Int("resume.text_length", len(text)))
	span.AddEvent("text_extraction_completed")

	// 5. 结构化抽取
	rec, err := backend.Extract(ctx, text)
	if err != nil {
		log.Error().Err(err).Msg("结构化抽取失败")
		tracing.RecordError(span, err, tracing.ErrorTypeLLM)
		return nil, NewBackendError(submissionID, req.Filename, backendName, err)
	}
	rec.Normalize()
	insufficient := rec.IsInsufficient()
	span.SetAttributes(
		attribute.Bool("resume.insufficient", insufficient),
		attribute.String("resume.candidate_name", tracing.SafeAttributeValue("name", rec.Name, tracing.DefaultMaxLength)),
	)
	log.Info().
		Bool("insufficient", insufficient).
		Int("skills", len(rec.Skills)).
		Int("education", len(rec.Education)).
		Int("experience", len(rec.Experience)).
		Int("projects", len(rec.Projects)).
		Dur("elapsed", time.Since(start)).
		Msg("简历解析完成")

	// 6. 副作用，失败只记录
	s.runSideEffects(ctx, span, sideEffectInput{
		submissionID: submissionID,
		filename:     req.Filename,
		ext:          ext,
		content:      req.Content,
		md5:          fileMD5,
		backend:      backendName,
		record:       rec,
		insufficient: insufficient,
		textLength:   len(text),
		duration:     time.Since(start),
	})

	span.SetStatus(codes.Ok, "处理成功")
	return &ParseResult{
		SubmissionID: submissionID,
		Record:       rec,
		Insufficient: insufficient,
		Backend:      backendName,
	}, nil
}

// History 查询同一文件的历史抽取日志；limit <= 0 时取默认值
func (s *ResumeService) History(ctx context.Context, md5Hex string, limit int) ([]models.ResumeExtraction, error) {
	ctx, span := tracer.Start(ctx, "ResumeService.History")
	defer span.End()

	if s.repo == nil {
		return nil, ErrRepositoryOff
	}
	md5Hex = strings.ToLower(strings.TrimSpace(md5Hex))
	if !reMD5.MatchString(md5Hex) {
		return nil, ErrInvalidMD5
	}
	switch {
	case limit <= 0:
		limit = defaultHistoryLimit
	case limit > maxHistoryLimit:
		limit = maxHistoryLimit
	}

	entries, err := s.repo.FindByMD5(ctx, md5Hex, limit)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeDB)
		return nil, err
	}
	span.SetAttributes(attribute.Int("resume.history_count", len(entries)))
	return entries, nil
}

func (s *ResumeService) extractText(ctx context.Context, x TextExtractor, req ParseRequest) (string, error) {
	ctx, span := tracer.Start(ctx, "ResumeService.ExtractText")
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, s.extractTimeout)
	defer cancel()

	text, err := x.ExtractText(ctx, bytes.NewReader(req.Content), req.Filename)
	if err != nil {
		tracing.RecordError(span, err, tracing.ErrorTypeExtraction)
		return "", &ResumeProcessError{Op: "extract_text", Filename: req.Filename, BaseErr: ErrExtractText, Detail: err.Error()}
	}
	span.SetAttributes(attribute.String("resume.text_preview", tracing.SafeResumeContent(text)))
	return text, nil
}

type sideEffectInput struct {
	submissionID string
	filename     string
	ext          string
	content      []byte
	md5          string
	backend      string
	record       *types.ResumeRecord
	insufficient bool
	textLength   int
	duration     time.Duration
}

// runSideEffects 第一阶段并发写缓存和归档原文件，第二阶段带上归档键写抽取日志和发布事件
func (s *ResumeService) runSideEffects(ctx context.Context, span trace.Span, in sideEffectInput) {
	log := logger.Ctx(ctx)
	var archiveKey string

	var g errgroup.Group
	if s.cache != nil {
		g.Go(func() error {
			if err := s.cache.SetRecord(ctx, in.backend, in.md5, in.record); err != nil {
				log.Warn().Err(err).Msg("写入抽取缓存失败")
				tracing.RecordSideEffectError(span, err, tracing.ErrorTypeRedis)
			}
			return nil
		})
	}
	if s.archiver != nil {
		g.Go(func() error {
			key, err := s.archiver.ArchiveOriginal(ctx, in.submissionID, in.ext, in.content)
			if err != nil {
				log.Warn().Err(err).Msg("归档原始文件失败")
				tracing.RecordSideEffectError(span, err, tracing.ErrorTypeObjectStorage)
				return nil
			}
			archiveKey = key
			return nil
		})
	}
	_ = g.Wait()

	var g2 errgroup.Group
	if s.repo != nil {
		g2.Go(func() error {
			if err := s.repo.SaveExtraction(ctx, buildExtraction(in, archiveKey)); err != nil {
				log.Warn().Err(err).Msg("保存抽取日志失败")
				tracing.RecordSideEffectError(span, err, tracing.ErrorTypeDB)
			}
			return nil
		})
	}
	if s.publisher != nil {
		g2.Go(func() error {
			event := storage.ResumeParsedEvent{
				EventType:        constants.ParsedEventType,
				SubmissionID:     in.submissionID,
				OriginalFilename: in.filename,
				FileMD5:          in.md5,
				Backend:          in.backend,
				ArchiveKey:       archiveKey,
				Insufficient:     in.insufficient,
				Record:           in.record,
				ParsedAt:         time.Now().UTC(),
			}
			if err := s.publisher.PublishParsed(ctx, event); err != nil {
				log.Warn().Err(err).Msg("发布解析事件失败")
				tracing.RecordSideEffectError(span, err, tracing.ErrorTypeRabbitMQ)
			}
			return nil
		})
	}
	_ = g2.Wait()
}

func buildExtraction(in sideEffectInput, archiveKey string) *models.ResumeExtraction {
	status := constants.StatusParsed
	if in.insufficient {
		status = constants.StatusInsufficient
	}
	return &models.ResumeExtraction{
		SubmissionID:     in.submissionID,
		OriginalFilename: in.filename,
		FileMD5:          in.md5,
		Backend:          in.backend,
		ArchiveKey:       archiveKey,
		Status:           status,
		CandidateName:    in.record.Name,
		CandidateEmail:   in.record.Email,
		SkillCount:       len(in.record.Skills),
		RecordJSON:       utils.ToJSON(in.record, "{}"),
		TextLength:       in.textLength,
		DurationMS:       in.duration.Milliseconds(),
	}
}
