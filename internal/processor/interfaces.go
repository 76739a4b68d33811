package processor

import (
	"context"
	"io"

	"resume-parser-go/internal/storage"
	"resume-parser-go/internal/storage/models"
	"resume-parser-go/internal/types"
)

//
// 抽取相关接口
//

// Extractor 简历结构化抽取能力
// 启发式流水线与 LLM 抽取器都实现该接口，返回的记录字段集合与默认值约定一致
type Extractor interface {
	// Name 后端名称，用作缓存键与日志字段
	Name() string

	// Extract 从纯文本抽取结构化记录
	Extract(ctx context.Context, text string) (*types.ResumeRecord, error)
}

// TextExtractor 从原始文件内容提取纯文本
type TextExtractor interface {
	// ExtractText 读取 reader 中的文件内容并返回文本
	// uri 仅用于日志和元数据
	ExtractText(ctx context.Context, r io.Reader, uri string) (string, error)
}

//
// 存储相关接口
//

// RecordCache 抽取结果缓存，按文件 MD5 与后端名称区分
type RecordCache interface {
	GetRecord(ctx context.Context, backend, md5Hex string) (*types.ResumeRecord, bool, error)
	SetRecord(ctx context.Context, backend, md5Hex string, rec *types.ResumeRecord) error
}

// Archiver 原始文件归档
type Archiver interface {
	ArchiveOriginal(ctx context.Context, submissionID, fileExt string, data []byte) (string, error)
}

// Repository 抽取日志持久化
type Repository interface {
	SaveExtraction(ctx context.Context, entry *models.ResumeExtraction) error
	// FindByMD5 按文件 MD5 查询最近的抽取日志，按时间倒序
	FindByMD5(ctx context.Context, md5Hex string, limit int) ([]models.ResumeExtraction, error)
}

// Publisher 解析完成事件发布
type Publisher interface {
	PublishParsed(ctx context.Context, event storage.ResumeParsedEvent) error
}
