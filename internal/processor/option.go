package processor

import (
	"strings"
	"time"

	"github.com/rs/zerolog"

	"resume-parser-go/internal/storage"
)

// ServiceOption 简历服务选项
type ServiceOption func(*ResumeService)

// ----- 组件选项 -----

// WithTextExtractor 为某个扩展名注册文本提取器，扩展名不区分大小写，可带点
func WithTextExtractor(ext string, extractor TextExtractor) ServiceOption {
	return func(s *ResumeService) {
		if extractor != nil {
			s.textExtractors[normalizeExt(ext)] = extractor
		}
	}
}

// WithTextExtractors 批量注册文本提取器
func WithTextExtractors(extractors map[string]TextExtractor) ServiceOption {
	return func(s *ResumeService) {
		for ext, x := range extractors {
			WithTextExtractor(ext, x)(s)
		}
	}
}

// WithBackend 注册抽取后端，按 Name() 区分，同名后注册的覆盖先注册的
func WithBackend(backend Extractor) ServiceOption {
	return func(s *ResumeService) {
		if backend != nil {
			s.backends[backend.Name()] = backend
		}
	}
}

// WithCache 设置抽取结果缓存
func WithCache(cache RecordCache) ServiceOption {
	return func(s *ResumeService) {
		s.cache = cache
	}
}

// WithArchiver 设置原始文件归档
func WithArchiver(archiver Archiver) ServiceOption {
	return func(s *ResumeService) {
		s.archiver = archiver
	}
}

// WithRepository 设置抽取日志持久化
func WithRepository(repo Repository) ServiceOption {
	return func(s *ResumeService) {
		s.repo = repo
	}
}

// WithPublisher 设置事件发布
func WithPublisher(publisher Publisher) ServiceOption {
	return func(s *ResumeService) {
		s.publisher = publisher
	}
}

// WithStorage 从存储管理器装配全部存储组件
// 只装配非 nil 的组件，避免把 nil 指针包进接口
func WithStorage(st *storage.Storage) ServiceOption {
	return func(s *ResumeService) {
		if st == nil {
			return
		}
		if st.Redis != nil {
			s.cache = st.Redis
		}
		if st.MinIO != nil {
			s.archiver = st.MinIO
		}
		if st.MySQL != nil {
			s.repo = st.MySQL
		}
		if st.RabbitMQ != nil {
			s.publisher = st.RabbitMQ
		}
	}
}

// ----- 设置选项 -----

// WithServiceLogger 设置日志记录器
func WithServiceLogger(logger zerolog.Logger) ServiceOption {
	return func(s *ResumeService) {
		s.logger = logger
	}
}

// WithSupportedFormats 限定允许的扩展名；为空时以已注册的提取器为准
func WithSupportedFormats(formats []string) ServiceOption {
	return func(s *ResumeService) {
		s.formats = make(map[string]struct{}, len(formats))
		for _, f := range formats {
			if f = normalizeExt(f); f != "" {
				s.formats[f] = struct{}{}
			}
		}
	}
}

// WithExtractTimeout 单次文本提取的超时时间
func WithExtractTimeout(d time.Duration) ServiceOption {
	return func(s *ResumeService) {
		if d > 0 {
			s.extractTimeout = d
		}
	}
}

// normalizeExt ".PDF" -> "pdf"
func normalizeExt(ext string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(ext)), ".")
}
