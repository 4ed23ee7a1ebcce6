package engine

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

// TestCreateTask 测试任务创建与鉴权头
func TestCreateTask(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/v1/tasks" {
			t.Errorf("意外的请求: %s %s", r.Method, r.URL.Path)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer test-key" {
			t.Errorf("期望鉴权头 Bearer test-key，实际 %q", got)
		}

		var req CreateTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("解析请求体失败: %v", err)
		}
		if req.Title != "年度汇报" {
			t.Errorf("期望标题 年度汇报，实际 %q", req.Title)
		}

		json.NewEncoder(w).Encode(map[string]string{"engineTaskId": "eng-123"})
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	id, err := client.CreateTask(context.Background(), &CreateTaskRequest{
		Title:   "年度汇报",
		Content: "2025年度经营情况汇报材料",
	})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}
	if id != "eng-123" {
		t.Errorf("期望任务ID eng-123，实际 %q", id)
	}
}

// TestCreateTaskEmptyID 测试引擎未返回任务ID的情况
func TestCreateTaskEmptyID(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.CreateTask(context.Background(), &CreateTaskRequest{Title: "测试"})

	var engineErr *EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("期望 EngineError，实际 %v", err)
	}
}

// TestGetTaskArrayOutput 测试输出为消息数组的快照解析
func TestGetTaskArrayOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tasks/eng-123" {
			t.Errorf("意外的路径: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"status": "running",
			"output": [
				{"role": "assistant", "content": [
					{"type": "output_text", "text": "正在生成大纲"},
					{"fileUrl": "https://cdn.example.com/cover.png", "fileName": "cover.png"}
				]}
			]
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	snap, err := client.GetTask(context.Background(), "eng-123")
	if err != nil {
		t.Fatalf("查询任务失败: %v", err)
	}

	if snap.Status != StatusRunning {
		t.Errorf("期望状态 running，实际 %q", snap.Status)
	}
	if len(snap.Output) != 1 || len(snap.Output[0].Content) != 2 {
		t.Fatalf("输出结构不符: %+v", snap.Output)
	}

	text := snap.Output[0].Content[0]
	if !text.IsText() || text.Text != "正在生成大纲" {
		t.Errorf("文本单元解析错误: %+v", text)
	}
	file := snap.Output[0].Content[1]
	if !file.IsFile() || file.FileName != "cover.png" {
		t.Errorf("文件单元解析错误: %+v", file)
	}
}

// TestGetTaskWrappedOutput 测试输出为包装对象的快照解析
func TestGetTaskWrappedOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"status": "completed",
			"output": {"messages": [
				{"role": "assistant", "content": [{"type": "output_text", "text": "生成完成"}]}
			]},
			"attachments": [
				{"filename": "年度汇报.pptx", "url": "https://cdn.example.com/a.pptx"},
				{"filename": "年度汇报.pdf", "url": "https://cdn.example.com/a.pdf"}
			],
			"shareUrl": "https://share.example.com/t/abc"
		}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	snap, err := client.GetTask(context.Background(), "eng-123")
	if err != nil {
		t.Fatalf("查询任务失败: %v", err)
	}

	if len(snap.Output) != 1 {
		t.Fatalf("包装对象输出应解析出1条消息，实际 %d", len(snap.Output))
	}
	if len(snap.Attachments) != 2 {
		t.Errorf("期望2个附件，实际 %d", len(snap.Attachments))
	}
	if snap.ShareURL != "https://share.example.com/t/abc" {
		t.Errorf("分享链接解析错误: %q", snap.ShareURL)
	}
}

// TestGetTaskNullOutput 测试输出为空的快照
func TestGetTaskNullOutput(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status": "running", "output": null}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	snap, err := client.GetTask(context.Background(), "eng-123")
	if err != nil {
		t.Fatalf("查询任务失败: %v", err)
	}
	if len(snap.Output) != 0 {
		t.Errorf("空输出应解析为空切片，实际 %+v", snap.Output)
	}
}

// TestSubmitContinuation 测试提交用户回复
func TestSubmitContinuation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v1/tasks/eng-123/continue" {
			t.Errorf("意外的路径: %s", r.URL.Path)
		}
		var body map[string]string
		json.NewDecoder(r.Body).Decode(&body)
		if body["text"] != "选择方案A" {
			t.Errorf("回复文本解析错误: %+v", body)
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	if err := client.SubmitContinuation(context.Background(), "eng-123", "选择方案A"); err != nil {
		t.Fatalf("提交回复失败: %v", err)
	}
}

// TestServerErrorUnavailable 测试5xx归类为引擎不可用
func TestServerErrorUnavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.GetTask(context.Background(), "eng-123")
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("期望 ErrEngineUnavailable，实际 %v", err)
	}
}

// TestNetworkErrorUnavailable 测试网络错误归类为引擎不可用
func TestNetworkErrorUnavailable(t *testing.T) {
	client := NewClient("http://127.0.0.1:1", "test-key")
	_, err := client.GetTask(context.Background(), "eng-123")
	if !errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("期望 ErrEngineUnavailable，实际 %v", err)
	}
}

// TestClientErrorParsed 测试4xx解析为引擎业务错误
func TestClientErrorParsed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		w.Write([]byte(`{"code": "invalid_content", "message": "内容不能为空"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-key")
	_, err := client.CreateTask(context.Background(), &CreateTaskRequest{Title: "测试"})

	var engineErr *EngineError
	if !errors.As(err, &engineErr) {
		t.Fatalf("期望 EngineError，实际 %v", err)
	}
	if engineErr.Code != "invalid_content" || engineErr.Message != "内容不能为空" {
		t.Errorf("错误内容解析错误: %+v", engineErr)
	}
	if errors.Is(err, ErrEngineUnavailable) {
		t.Errorf("业务错误不应归类为引擎不可用")
	}
}
