package lifecycle

import (
	"strings"
	"testing"
)

// TestClassifySuppressKeywords 测试每个拦截关键词在片段任意位置都生效
func TestClassifySuppressKeywords(t *testing.T) {
	// 不含任何关键词时该片段正常通过，拦截必须归因于嵌入的关键词
	control := "以下为本页的详细说明内容，请结合上下文理解其余要点并继续阅读后续章节"
	if _, ok := Classify(control); !ok {
		t.Fatalf("对照片段不应被拦截: %q", control)
	}

	var keywords []string
	keywords = append(keywords, leakageKeywords...)
	keywords = append(keywords, meaninglessKeywords...)
	for _, kw := range keywords {
		fragment := "以下为本页的详细说明内容，" + kw + "，请结合上下文理解其余要点并继续阅读后续章节"
		if _, ok := Classify(fragment); ok {
			t.Errorf("期望关键词 %q 触发拦截，实际通过", kw)
		}
	}
}

// TestClassifySuppressMeaningless 测试低信息量套话拦截
func TestClassifySuppressMeaningless(t *testing.T) {
	fragment := "点击下方链接查看演示文稿，您也可以通过下载链接获取PPTX文件，感谢您的耐心等待"
	if _, ok := Classify(fragment); ok {
		t.Errorf("期望拦截套话片段，实际通过: %q", fragment)
	}
}

// TestClassifySuppressShort 测试过短片段拦截
func TestClassifySuppressShort(t *testing.T) {
	cases := []string{
		"",
		"   ",
		"好的",
		"# 标题",       // 只有标题行，剥离后为空
		"# 标题\n很短", // 剥离标题后内容过短
	}

	for _, f := range cases {
		if _, ok := Classify(f); ok {
			t.Errorf("期望拦截过短片段，实际通过: %q", f)
		}
	}
}

// TestClassifySlide 测试幻灯片内容识别
func TestClassifySlide(t *testing.T) {
	fragment := "## 市场分析\n市场规模同比增长15%，达到500亿元，主要驱动因素包括..."

	cls, ok := Classify(fragment)
	if !ok {
		t.Fatalf("期望通过，实际被拦截: %q", fragment)
	}
	if cls.Category != CategorySlide {
		t.Errorf("期望分类 %s，实际 %s", CategorySlide, cls.Category)
	}
	if cls.DisplayText != fragment {
		t.Errorf("展示文本不应被改写: %q", cls.DisplayText)
	}
}

// TestClassifyAction 测试进行中动作识别
func TestClassifyAction(t *testing.T) {
	fragment := "正在分析您上传的文档内容，提取关键信息用于生成大纲"

	cls, ok := Classify(fragment)
	if !ok {
		t.Fatalf("期望通过，实际被拦截: %q", fragment)
	}
	if cls.Category != CategoryAction {
		t.Errorf("期望分类 %s，实际 %s", CategoryAction, cls.Category)
	}
}

// TestClassifyContent 测试默认内容分类
func TestClassifyContent(t *testing.T) {
	// 无标题标记、无动作动词、长度足够的普通叙述
	fragment := strings.Repeat("本次演示文稿围绕年度经营情况展开，", 8)

	cls, ok := Classify(fragment)
	if !ok {
		t.Fatalf("期望通过，实际被拦截")
	}
	if cls.Category != CategoryContent {
		t.Errorf("期望分类 %s，实际 %s", CategoryContent, cls.Category)
	}
}

// TestClassifyIdempotent 测试分类的幂等性
func TestClassifyIdempotent(t *testing.T) {
	fragment := "## 市场分析\n市场规模同比增长15%，达到500亿元，主要驱动因素包括..."

	first, ok1 := Classify(fragment)
	second, ok2 := Classify(fragment)
	if ok1 != ok2 || first != second {
		t.Errorf("相同输入应得到相同结果: %+v vs %+v", first, second)
	}

	// 分类结果的展示文本再次分类，结论不变
	again, ok3 := Classify(first.DisplayText)
	if !ok3 || again.Category != first.Category {
		t.Errorf("展示文本重新分类结果应一致")
	}
}

// TestClassifyFile 测试文件扩展名分类
func TestClassifyFile(t *testing.T) {
	cases := []struct {
		filename string
		want     BlockCategory
	}{
		{"cover.png", CategoryImage},
		{"Chart.JPG", CategoryImage},
		{"photo.jpeg", CategoryImage},
		{"banner.webp", CategoryImage},
		{"年度汇报.pptx", CategoryResult},
		{"report.pdf", CategoryResult},
		{"archive.zip", CategoryResult},
	}

	for _, c := range cases {
		if got := ClassifyFile(c.filename); got != c.want {
			t.Errorf("%s: 期望 %s，实际 %s", c.filename, c.want, got)
		}
	}
}

// TestExtractStep 测试步骤描述提取
func TestExtractStep(t *testing.T) {
	fragment := "## 市场分析\n市场规模同比增长15%，达到500亿元，主要驱动因素包括..."
	if got := ExtractStep(fragment); got != "市场分析" {
		t.Errorf("期望步骤 %q，实际 %q", "市场分析", got)
	}

	// 被拦截的片段不应产生步骤描述
	if got := ExtractStep("点击下方链接查看演示文稿，您也可以通过下载链接获取PPTX文件"); got != "" {
		t.Errorf("被拦截片段的步骤描述应为空，实际 %q", got)
	}
}

// TestExtractStepTruncate 测试步骤描述截断
func TestExtractStepTruncate(t *testing.T) {
	long := strings.Repeat("业务回顾与展望分析内容第一章", 20)
	got := ExtractStep(long)
	if got == "" {
		t.Fatalf("长片段应产生步骤描述")
	}
	if n := len([]rune(got)); n > 100 {
		t.Errorf("步骤描述应截断到100字符，实际 %d", n)
	}
}
