package storage

import (
	"time"

	"resume-parser-go/internal/types"
)

// ResumeParsedEvent 解析完成后发布到 RabbitMQ 的事件
type ResumeParsedEvent struct {
	EventType        string              `json:"event_type"`
	SubmissionID     string              `json:"submission_id"`
	OriginalFilename string              `json:"original_filename"`
	FileMD5          string              `json:"file_md5"`
	Backend          string              `json:"backend"`
	ArchiveKey       string              `json:"archive_key,omitempty"` // 原始文件在MinIO中的对象键
	Insufficient     bool                `json:"insufficient"`
	Record           *types.ResumeRecord `json:"record"`
	ParsedAt         time.Time           `json:"parsed_at"`
}
