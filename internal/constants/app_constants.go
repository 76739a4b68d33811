package constants

const (
	// ParsedEventType 解析完成事件类型
	ParsedEventType = "resume.parsed"

	// InsufficientMessage 记录信息不足时返回给调用方的提示
	InsufficientMessage = "Could not extract sufficient information from the resume"

	// ExtractionStatus 抽取日志状态
	StatusParsed       = "PARSED"
	StatusInsufficient = "INSUFFICIENT"
)
