package logger // 全局日志记录器与上下文日志辅助函数

import (
	"context" // 在上下文中传递请求范围的日志
	"io"      // 输出目标
	"os"      // 标准输出
	"time"    // 时间戳格式

	"github.com/rs/zerolog"     // 高性能结构化日志
	"github.com/rs/zerolog/log" // zerolog 的全局日志实例
)

var (
	// Logger 默认的全局日志实例，应用中其他地方可以直接使用
	Logger = log.Logger
)

// Config 日志配置结构体
type Config struct {
	Level        string `json:"level" yaml:"level"`                 // 日志级别：debug, info, warn, error等
	Format       string `json:"format" yaml:"format"`               // json（机器可读）或 pretty（控制台格式）
	TimeFormat   string `json:"time_format" yaml:"time_format"`     // 时间戳的格式
	ReportCaller bool   `json:"report_caller" yaml:"report_caller"` // 是否报告调用者的文件名和行号
}

// Init 初始化日志系统，输出到标准输出
func Init(config Config) {
	InitWithWriter(config, os.Stdout)
}

// InitWithWriter 初始化日志系统并指定输出目标
func InitWithWriter(config Config, out io.Writer) {
	level, err := zerolog.ParseLevel(config.Level) // 解析字符串格式的日志级别
	if err != nil || config.Level == "" {
		level = zerolog.InfoLevel // 默认使用Info级别
	}
	zerolog.SetGlobalLevel(level)

	output := out
	if config.Format == "pretty" { // 人类可读的控制台输出
		output = zerolog.ConsoleWriter{
			Out:        out,
			TimeFormat: config.TimeFormat,
			NoColor:    out != os.Stdout, // 非终端输出时关闭颜色
		}
	}

	if config.TimeFormat == "" {
		zerolog.TimeFieldFormat = time.RFC3339
	} else {
		zerolog.TimeFieldFormat = config.TimeFormat
	}

	contextLogger := zerolog.New(output).
		Level(level).
		With().
		Timestamp()

	if config.ReportCaller { // 在日志中添加调用者信息（文件:行号）
		contextLogger = contextLogger.Caller()
	}

	Logger = contextLogger.Logger() // 替换包内全局变量
	log.Logger = Logger             // 同时替换zerolog库的全局logger
}

// Debug 开始一条调试级别的日志事件
func Debug() *zerolog.Event {
	return Logger.Debug()
}

// Info 开始一条信息级别的日志事件
func Info() *zerolog.Event {
	return Logger.Info()
}

// Warn 开始一条警告级别的日志事件
func Warn() *zerolog.Event {
	return Logger.Warn()
}

// Error 开始一条错误级别的日志事件
func Error() *zerolog.Event {
	return Logger.Error()
}

// Fatal 开始一条致命错误级别的日志事件，记录后程序将退出
func Fatal() *zerolog.Event {
	return Logger.Fatal()
}

// Ctx 从上下文中获取日志记录器，没有时返回全局日志
func Ctx(ctx context.Context) *zerolog.Logger {
	if l := zerolog.Ctx(ctx); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &Logger
}

// WithContext 将全局日志记录器添加到上下文中，并返回一个新的上下文
func WithContext(ctx context.Context) context.Context {
	return Logger.WithContext(ctx)
}

// WithSubmissionID 在上下文日志中附加 submission_id 字段
func WithSubmissionID(ctx context.Context, submissionID string) context.Context {
	l := Ctx(ctx).With().Str("submission_id", submissionID).Logger()
	return l.WithContext(ctx)
}
