package engine

import (
	"encoding/json"
	"fmt"
)

// 引擎侧任务状态词汇表（与本地状态的映射在 lifecycle 包中完成）
const (
	StatusRunning    = "running"
	StatusInProgress = "in_progress" // 部分引擎版本上报的同义状态
	StatusAsk        = "ask"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
	StatusStopped    = "stopped"
)

// ContentItem 引擎输出流中的一个单元：文本或文件引用。
// 引擎对两种形态使用不同的JSON结构，在反序列化时归一化为一个类型，
// 之后的代码不再需要分支判断原始payload形态。
type ContentItem struct {
	Type     string `json:"type,omitempty"`
	Text     string `json:"text,omitempty"`
	FileURL  string `json:"fileUrl,omitempty"`
	FileName string `json:"fileName,omitempty"`
}

// IsText 是否为文本输出单元（output_text 或 reasoning）
func (c *ContentItem) IsText() bool {
	return c.Text != ""
}

// IsFile 是否为文件输出单元
func (c *ContentItem) IsFile() bool {
	return c.FileURL != ""
}

// Message 引擎输出流中的一条消息
type Message struct {
	Role    string        `json:"role,omitempty"`
	Content []ContentItem `json:"content"`
}

// Attachment 引擎上报的结果附件
type Attachment struct {
	Filename string `json:"filename"`
	URL      string `json:"url"`
}

// Snapshot 一次任务查询的归一化结果
type Snapshot struct {
	Status      string       `json:"status"`
	Output      []Message    `json:"output"`
	Attachments []Attachment `json:"attachments"`
	ShareURL    string       `json:"shareUrl,omitempty"`
}

// rawSnapshot 引擎原始响应。output 字段在不同引擎版本间既可能是
// 消息数组，也可能是 {"messages":[...]} 包装对象，此处统一吸收。
type rawSnapshot struct {
	Status      string          `json:"status"`
	Output      json.RawMessage `json:"output"`
	Attachments []Attachment    `json:"attachments"`
	ShareURL    string          `json:"shareUrl"`
}

func (r *rawSnapshot) normalize() (*Snapshot, error) {
	snap := &Snapshot{
		Status:      r.Status,
		Attachments: r.Attachments,
		ShareURL:    r.ShareURL,
	}

	if len(r.Output) == 0 || string(r.Output) == "null" {
		return snap, nil
	}

	// 先按数组解析，失败则按包装对象解析
	var messages []Message
	if err := json.Unmarshal(r.Output, &messages); err == nil {
		snap.Output = messages
		return snap, nil
	}

	var wrapped struct {
		Messages []Message `json:"messages"`
	}
	if err := json.Unmarshal(r.Output, &wrapped); err != nil {
		return nil, fmt.Errorf("无法解析引擎输出: %w", err)
	}
	snap.Output = wrapped.Messages
	return snap, nil
}

// ImageDirective 创建任务时传给引擎的图片指令
type ImageDirective struct {
	FileID      string `json:"fileId"`
	UsageMode   string `json:"usageMode"`
	Category    string `json:"category"`
	Description string `json:"description"`
}

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title        string           `json:"title"`
	Content      string           `json:"content"`
	Images       []ImageDirective `json:"images,omitempty"`
	DesignPrompt string           `json:"designPrompt,omitempty"`
}
