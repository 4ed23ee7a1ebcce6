package models

import (
	"time"
)

// Template 表示一个设计模板（静态配置数据，注入引擎提示词）
// swagger:model
type Template struct {
	ID        uint       `json:"id" gorm:"primarykey,autoIncrement"` // 模板ID
	CreatedAt time.Time  `json:"created_at"`                         // 创建时间
	UpdatedAt time.Time  `json:"updated_at"`                         // 更新时间
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`  // 删除时间
	Name      string     `json:"name" gorm:"size:100;not null"`      // 模板名称
	Category  string     `json:"category" gorm:"size:50;index"`      // 模板分类
	CoverURL  string     `json:"cover_url" gorm:"size:500"`          // 预览图URL
	Prompt    string     `json:"prompt" gorm:"type:text"`            // 注入引擎的设计提示词
	SortOrder int        `json:"sort_order" gorm:"default:0"`        // 排序权重
}
