package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrEngineUnavailable 网络或引擎服务不可达（瞬时错误，轮询时可忽略）
var ErrEngineUnavailable = errors.New("生成引擎暂时不可用")

// EngineError 引擎明确返回的业务错误
type EngineError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("引擎错误 [%s]: %s", e.Code, e.Message)
}

// Client 生成引擎HTTP客户端。无本地状态，所有调用均为一次远程往返。
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// CreateTask 向引擎提交新的生成任务，返回引擎侧任务ID
func (c *Client) CreateTask(ctx context.Context, req *CreateTaskRequest) (string, error) {
	var resp struct {
		EngineTaskID string `json:"engineTaskId"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/tasks", req, &resp); err != nil {
		return "", err
	}
	if resp.EngineTaskID == "" {
		return "", &EngineError{Code: "empty_task_id", Message: "引擎未返回任务ID"}
	}
	return resp.EngineTaskID, nil
}

// GetTask 查询任务当前快照（幂等读取）
func (c *Client) GetTask(ctx context.Context, engineTaskID string) (*Snapshot, error) {
	var raw rawSnapshot
	if err := c.do(ctx, http.MethodGet, "/v1/tasks/"+engineTaskID, nil, &raw); err != nil {
		return nil, err
	}
	return raw.normalize()
}

// SubmitContinuation 提交用户回复，解除 ask 状态的阻塞
func (c *Client) SubmitContinuation(ctx context.Context, engineTaskID, text string) error {
	body := map[string]string{
		"engineTaskId": engineTaskID,
		"text":         text,
	}
	return c.do(ctx, http.MethodPost, "/v1/tasks/"+engineTaskID+"/continue", body, nil)
}

// do 执行一次引擎请求并解析响应。网络错误与5xx归为 ErrEngineUnavailable，
// 引擎上报的业务错误解析为 EngineError。
func (c *Client) do(ctx context.Context, method, path string, body, out interface{}) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrEngineUnavailable, err)
	}

	if resp.StatusCode >= 500 {
		return fmt.Errorf("%w: HTTP %d", ErrEngineUnavailable, resp.StatusCode)
	}
	if resp.StatusCode >= 400 {
		var engineErr EngineError
		if err := json.Unmarshal(data, &engineErr); err == nil && engineErr.Message != "" {
			return &engineErr
		}
		return &EngineError{
			Code:    fmt.Sprintf("http_%d", resp.StatusCode),
			Message: string(data),
		}
	}

	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("解析引擎响应失败: %w", err)
	}
	return nil
}
