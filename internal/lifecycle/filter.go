package lifecycle

import (
	"strings"
)

// BlockCategory 输出片段的展示分类
type BlockCategory string

const (
	CategoryThinking BlockCategory = "thinking" // 思考过程
	CategoryContent  BlockCategory = "content"  // 普通内容
	CategorySlide    BlockCategory = "slide"    // 幻灯片内容
	CategoryAction   BlockCategory = "action"   // 进行中的动作
	CategoryResult   BlockCategory = "result"   // 结果文件
	CategoryImage    BlockCategory = "image"    // 图片文件
)

// 内部指令泄漏关键词。引擎的系统提示词偶尔会混入输出流，
// 命中任何一条的片段直接拦截，不向用户展示。
// 关键词作为配置数据集中维护，误判是已知的取舍，不做复杂分类器。
var leakageKeywords = []string{
	"不要出现任何品牌标识",
	"不得体现生成工具",
	"系统提示词",
	"内部指令",
	"严格按照以下要求执行",
	"你是一名专业",
	"我是一个AI",
	"作为AI助手",
	"system prompt",
	"[internal]",
}

// 低信息量套话关键词。下载方式说明、链接引导等对时间线展示无价值。
var meaninglessKeywords = []string{
	"如何获取文件",
	"下载链接",
	"点击下方链接",
	"查看演示文稿",
	"以下是内容概览",
	"感谢您的耐心等待",
	"how to download",
}

// 进行中动作的特征动词，用于识别短小的状态播报
var actionVerbs = []string{
	"正在分析",
	"正在生成",
	"正在处理",
	"正在解析",
	"分析中",
	"生成中",
	"处理中",
	"已完成",
	"analyzing",
	"generating",
	"completed",
}

const (
	// 剥离标题行后的最小有效内容长度(字节)，低于此长度的片段视为噪音
	minMeaningfulLength = 50
	// 含标题标记且超过此长度(字节)的片段按幻灯片内容展示
	slideLengthThreshold = 60
	// 低于此长度(字节)且含进行动词的片段按动作播报展示
	actionLengthThreshold = 100
	// 当前步骤描述的最大长度(字符)
	maxStepLength = 100
)

// Classification 分类结果
type Classification struct {
	Category    BlockCategory `json:"category"`
	DisplayText string        `json:"display_text"`
}

// Classify 对一个文本片段做拦截与分类。纯函数：
// 相同输入永远得到相同结果，无任何外部状态。
// 第二个返回值为 false 表示片段被拦截，不应向用户展示。
func Classify(fragment string) (Classification, bool) {
	text := strings.TrimSpace(fragment)
	if text == "" {
		return Classification{}, false
	}

	for _, kw := range leakageKeywords {
		if strings.Contains(text, kw) {
			return Classification{}, false
		}
	}
	for _, kw := range meaninglessKeywords {
		if strings.Contains(text, kw) {
			return Classification{}, false
		}
	}

	// 剥离首行标题后内容过短的片段没有展示价值
	if len(stripLeadingHeading(text)) < minMeaningfulLength {
		return Classification{}, false
	}

	// 顺序规则，首个命中生效
	category := CategoryContent
	switch {
	case strings.Contains(text, "#") && len(text) > slideLengthThreshold:
		category = CategorySlide
	case len(text) < actionLengthThreshold && containsActionVerb(text):
		category = CategoryAction
	}

	return Classification{Category: category, DisplayText: text}, true
}

// ClassifyFile 按文件名扩展名对文件类输出分类，与文本规则无关
func ClassifyFile(filename string) BlockCategory {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".png"),
		strings.HasSuffix(lower, ".jpg"),
		strings.HasSuffix(lower, ".jpeg"),
		strings.HasSuffix(lower, ".gif"),
		strings.HasSuffix(lower, ".webp"):
		return CategoryImage
	default:
		return CategoryResult
	}
}

// ExtractStep 从一个文本片段提取当前步骤描述：
// 片段需先通过拦截检查，取首行并截断到最大长度。
// 返回空串表示该片段不可用作步骤描述。
func ExtractStep(fragment string) string {
	cls, ok := Classify(fragment)
	if !ok {
		return ""
	}
	line := cls.DisplayText
	if idx := strings.IndexByte(line, '\n'); idx >= 0 {
		line = line[:idx]
	}
	line = strings.TrimSpace(strings.TrimLeft(line, "# "))
	runes := []rune(line)
	if len(runes) > maxStepLength {
		line = string(runes[:maxStepLength])
	}
	return line
}

// stripLeadingHeading 剥离片段开头的markdown标题行
func stripLeadingHeading(text string) string {
	if !strings.HasPrefix(text, "#") {
		return text
	}
	idx := strings.IndexByte(text, '\n')
	if idx < 0 {
		return ""
	}
	return strings.TrimSpace(text[idx+1:])
}

func containsActionVerb(text string) bool {
	for _, verb := range actionVerbs {
		if strings.Contains(text, verb) {
			return true
		}
	}
	return false
}
