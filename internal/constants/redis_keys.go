package constants

// Redis Key 前缀和格式常量
// 使用统一的命名规范: app:{module}:{entity}:{unique_id}
const (
	// AppPrefix 是所有Redis Key的统一应用前缀
	AppPrefix = "app"

	// ResumeModulePrefix 简历解析模块
	ResumeModulePrefix = "resume"

	// EntityRecord 解析结果实体
	EntityRecord = "record"

	// KeyResumeRecord 解析结果缓存 (STRING, JSON)
	// 格式: app:resume:record:{backend}:{md5}
	KeyResumeRecord = AppPrefix + ":" + ResumeModulePrefix + ":" + EntityRecord + ":%s:%s"
)
