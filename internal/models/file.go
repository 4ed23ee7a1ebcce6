package models

import (
	"time"
)

// FileKind 文件用途类型
type FileKind string

const (
	FileKindDocument FileKind = "document" // 源文档
	FileKindImage    FileKind = "image"    // 图片素材
	FileKindResult   FileKind = "result"   // 生成结果文件
)

// File 表示一个已上传或已镜像到本地存储的文件
// swagger:model
type File struct {
	ID          uint       `json:"id" gorm:"primarykey,autoIncrement"` // 文件ID
	CreatedAt   time.Time  `json:"created_at"`                         // 创建时间
	UpdatedAt   time.Time  `json:"updated_at"`                         // 更新时间
	DeletedAt   *time.Time `json:"deleted_at,omitempty" gorm:"index"`  // 删除时间
	UserID      uint       `json:"user_id" gorm:"not null;index"`      // 上传用户ID
	Name        string     `json:"name" gorm:"size:200;not null"`      // 原始文件名
	ObjectKey   string     `json:"object_key" gorm:"size:100;uniqueIndex"` // 存储对象键
	URL         string     `json:"url" gorm:"size:500;not null"`       // 访问URL
	Size        int64      `json:"size"`                               // 文件大小(bytes)
	ContentType string     `json:"content_type" gorm:"size:100"`       // MIME类型
	Kind        FileKind   `json:"kind" gorm:"size:20;index"`          // 文件用途
}
