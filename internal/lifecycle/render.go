package lifecycle

import (
	"encoding/json"

	"aippt-backend/internal/engine"
)

// DisplayBlock 提供给展示层的一个输出块（已过滤、已分类）
type DisplayBlock struct {
	Category BlockCategory `json:"category"`
	Text     string        `json:"text,omitempty"`
	FileURL  string        `json:"file_url,omitempty"`
	FileName string        `json:"file_name,omitempty"`
}

// BuildDisplayBlocks 把任务存储的原始引擎输出转换为展示块列表。
// 文本片段经由 Classify 过滤分类，文件片段按扩展名分类，
// 被拦截的片段不出现在结果中。输入无法解析时返回空列表。
func BuildDisplayBlocks(rawOutput string) []DisplayBlock {
	if rawOutput == "" {
		return nil
	}
	var messages []engine.Message
	if err := json.Unmarshal([]byte(rawOutput), &messages); err != nil {
		return nil
	}

	blocks := make([]DisplayBlock, 0, len(messages))
	for _, msg := range messages {
		for _, item := range msg.Content {
			switch {
			case item.IsText():
				cls, ok := Classify(item.Text)
				if !ok {
					continue
				}
				// 引擎的推理过程单独标注
				if item.Type == "reasoning" {
					cls.Category = CategoryThinking
				}
				blocks = append(blocks, DisplayBlock{
					Category: cls.Category,
					Text:     cls.DisplayText,
				})
			case item.IsFile():
				blocks = append(blocks, DisplayBlock{
					Category: ClassifyFile(item.FileName),
					FileURL:  item.FileURL,
					FileName: item.FileName,
				})
			}
		}
	}
	return blocks
}
