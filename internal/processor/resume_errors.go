package processor

import (
	"errors"
	"fmt"

	"resume-parser-go/internal/parser"
)

// 定义基础错误类型
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrEmptyFile         = errors.New("empty file")
	ErrExtractText       = errors.New("提取简历文本失败")
	ErrUnknownBackend    = errors.New("unknown extraction backend")
	ErrRepositoryOff     = errors.New("extraction log is not configured")
	ErrInvalidMD5        = errors.New("invalid md5")

	// LLM 后端的错误，调用方无需导入 parser 即可判断
	ErrLLMResponse = parser.ErrLLMResponse
	ErrNoJSON      = parser.ErrNoJSON
)

// ResumeProcessError 包含详细错误信息的自定义错误
type ResumeProcessError struct {
	SubmissionID string
	Op           string
	Filename     string
	BaseErr      error
	Detail       string
}

func (e *ResumeProcessError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s (操作:%s, 文件:%s, ID:%s): %s", e.BaseErr, e.Op, e.Filename, e.SubmissionID, e.Detail)
	}
	return fmt.Sprintf("%s (操作:%s, 文件:%s, ID:%s)", e.BaseErr, e.Op, e.Filename, e.SubmissionID)
}

func (e *ResumeProcessError) Unwrap() error {
	return e.BaseErr
}

// Is 实现 errors.Is 接口以支持错误比较
func (e *ResumeProcessError) Is(target error) bool {
	return errors.Is(e.BaseErr, target)
}

// 错误构造函数
func NewUnsupportedFormatError(filename, ext string) error {
	return &ResumeProcessError{
		Op:       "validate",
		Filename: filename,
		BaseErr:  ErrUnsupportedFormat,
		Detail:   fmt.Sprintf("扩展名 %q 不受支持", ext),
	}
}

func NewEmptyFileError(filename string) error {
	return &ResumeProcessError{
		Op:       "validate",
		Filename: filename,
		BaseErr:  ErrEmptyFile,
	}
}

func NewBackendError(id, filename, backend string, err error) error {
	return &ResumeProcessError{
		SubmissionID: id,
		Op:           "extract",
		Filename:     filename,
		BaseErr:      err,
		Detail:       "backend=" + backend,
	}
}
