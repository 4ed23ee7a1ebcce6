package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

// TaskStatus 定义PPT生成任务状态
type TaskStatus string

const (
	TaskStatusPending   TaskStatus = "pending"   // 已创建，等待提交到生成引擎
	TaskStatusUploading TaskStatus = "uploading" // 素材上传/任务初始化中
	TaskStatusRunning   TaskStatus = "running"   // 引擎生成中
	TaskStatusAsk       TaskStatus = "ask"       // 引擎等待用户确认
	TaskStatusCompleted TaskStatus = "completed" // 生成完成
	TaskStatusFailed    TaskStatus = "failed"    // 生成失败
)

// ImageUsageMode 图片使用方式
type ImageUsageMode string

const (
	ImageMustUse    ImageUsageMode = "must_use"    // 必须使用
	ImageSuggestUse ImageUsageMode = "suggest_use" // 建议使用
	ImageAIDecide   ImageUsageMode = "ai_decide"   // AI自行决定
)

// ImageCategory 图片用途分类
type ImageCategory string

const (
	ImageCategoryCover      ImageCategory = "cover"      // 封面
	ImageCategoryContent    ImageCategory = "content"    // 内容配图
	ImageCategoryChart      ImageCategory = "chart"      // 图表
	ImageCategoryLogo       ImageCategory = "logo"       // 标志
	ImageCategoryBackground ImageCategory = "background" // 背景
	ImageCategoryOther      ImageCategory = "other"      // 其他
)

// ImageAttachment 任务关联的图片素材（按用户提交顺序保存）
type ImageAttachment struct {
	FileID      uint           `json:"file_id"`
	UsageMode   ImageUsageMode `json:"usage_mode"`
	Category    ImageCategory  `json:"category"`
	Description string         `json:"description"`
}

// TimelineEvent 任务时间线事件（只追加，不删除不排序）
type TimelineEvent struct {
	Time   time.Time  `json:"time"`
	Event  string     `json:"event"`
	Status TaskStatus `json:"status"`
}

// Task 表示一次PPT生成任务
// swagger:model
type Task struct {
	ID        uint       `json:"id" gorm:"primarykey,autoIncrement"` // 任务ID
	CreatedAt time.Time  `json:"created_at"`                         // 创建时间
	UpdatedAt time.Time  `json:"updated_at"`                         // 更新时间
	DeletedAt *time.Time `json:"deleted_at,omitempty" gorm:"index"`  // 删除时间
	UserID    uint       `json:"user_id" gorm:"not null;index"`      // 所属用户ID

	// 创建输入（创建后不可变，重试时原样复用）
	Title        string `json:"title" gorm:"size:200;not null"`       // 演示文稿标题
	TemplateID   *uint  `json:"template_id,omitempty" gorm:"index"`   // 设计模板ID
	SourceFileID *uint  `json:"source_file_id,omitempty" gorm:"index"` // 源文档文件ID
	ProposalText string `json:"proposal_text,omitempty" gorm:"type:text"` // 策划案文本
	Images       string `json:"-" gorm:"type:text"`                   // 图片素材列表(JSON格式)

	// 引擎关联
	EngineTaskID string `json:"engine_task_id,omitempty" gorm:"size:100;index"` // 引擎侧任务ID

	// 状态与派生字段（仅由生命周期控制器修改）
	Status          TaskStatus `json:"status" gorm:"size:20;not null;index"` // 任务状态
	Progress        int        `json:"progress" gorm:"default:0"`            // 进度(0-100)
	CurrentStep     string     `json:"current_step" gorm:"size:200"`         // 当前步骤描述
	OutputContent   string     `json:"output_content,omitempty" gorm:"type:text"`   // 引擎原始输出(JSON格式)
	InteractionData string     `json:"interaction_data,omitempty" gorm:"type:text"` // 待确认交互数据(JSON格式)
	ShareURL        string     `json:"share_url,omitempty" gorm:"size:500"`         // 引擎分享链接
	ResultPptxURL   string     `json:"result_pptx_url,omitempty" gorm:"size:500"`   // PPTX结果文件链接
	ResultPdfURL    string     `json:"result_pdf_url,omitempty" gorm:"size:500"`    // PDF结果文件链接
	ErrorMessage    string     `json:"error_message,omitempty" gorm:"size:500"`     // 失败原因
	Timeline        string     `json:"-" gorm:"type:text"`                          // 时间线事件(JSON格式)
}

// BeforeCreate 创建前的钩子函数
func (t *Task) BeforeCreate(tx *gorm.DB) error {
	// 如果没有指定状态，默认为等待提交状态
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	return nil
}

// IsActive 任务是否处于进行中（会被轮询）
func (t *Task) IsActive() bool {
	return t.Status == TaskStatusUploading || t.Status == TaskStatusRunning
}

// IsCompleted 任务是否已完成
func (t *Task) IsCompleted() bool {
	return t.Status == TaskStatusCompleted
}

// IsFailed 任务是否失败
func (t *Task) IsFailed() bool {
	return t.Status == TaskStatusFailed
}

// NeedsInteraction 任务是否等待用户确认
func (t *Task) NeedsInteraction() bool {
	return t.Status == TaskStatusAsk
}

// IsTerminal 任务是否处于终态
func (t *Task) IsTerminal() bool {
	return t.Status == TaskStatusCompleted || t.Status == TaskStatusFailed
}

// ImageAttachments 反序列化图片素材列表
func (t *Task) ImageAttachments() ([]ImageAttachment, error) {
	if t.Images == "" {
		return nil, nil
	}
	var images []ImageAttachment
	if err := json.Unmarshal([]byte(t.Images), &images); err != nil {
		return nil, err
	}
	return images, nil
}

// SetImageAttachments 序列化并保存图片素材列表
func (t *Task) SetImageAttachments(images []ImageAttachment) error {
	if len(images) == 0 {
		t.Images = ""
		return nil
	}
	data, err := json.Marshal(images)
	if err != nil {
		return err
	}
	t.Images = string(data)
	return nil
}

// TimelineEvents 反序列化时间线事件列表
func (t *Task) TimelineEvents() ([]TimelineEvent, error) {
	if t.Timeline == "" {
		return nil, nil
	}
	var events []TimelineEvent
	if err := json.Unmarshal([]byte(t.Timeline), &events); err != nil {
		return nil, err
	}
	return events, nil
}
