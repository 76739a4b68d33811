package models

import (
	"time"

	"gorm.io/datatypes"
)

// ResumeExtraction 每次解析请求的抽取日志
type ResumeExtraction struct {
	SubmissionID     string         `gorm:"type:char(36);primaryKey"`
	OriginalFilename string         `gorm:"type:varchar(255)"`
	FileMD5          string         `gorm:"type:char(32);index:idx_resume_extractions_md5"`
	Backend          string         `gorm:"type:varchar(32);index:idx_resume_extractions_backend"`
	ArchiveKey       string         `gorm:"type:varchar(512)"`
	Status           string         `gorm:"type:varchar(32)"`
	CandidateName    string         `gorm:"type:varchar(255)"`
	CandidateEmail   string         `gorm:"type:varchar(255)"`
	SkillCount       int            `gorm:"type:int"`
	RecordJSON       datatypes.JSON `gorm:"type:json"`
	TextLength       int            `gorm:"type:int"`
	DurationMS       int64          `gorm:"type:bigint"`
	CreatedAt        time.Time      `gorm:"type:datetime(6);default:CURRENT_TIMESTAMP(6)"`
}

func (ResumeExtraction) TableName() string {
	return "resume_extractions"
}
