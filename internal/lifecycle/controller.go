package lifecycle

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"aippt-backend/internal/engine"
	"aippt-backend/internal/models"
	"aippt-backend/internal/repository"

	"gorm.io/gorm"
)

// EngineAPI 生成引擎的操作面（测试时注入假实现）
type EngineAPI interface {
	CreateTask(ctx context.Context, req *engine.CreateTaskRequest) (string, error)
	GetTask(ctx context.Context, engineTaskID string) (*engine.Snapshot, error)
	SubmitContinuation(ctx context.Context, engineTaskID, text string) error
}

// FileMirror 结果文件镜像能力：把引擎侧文件拉取到本地存储，返回本地URL
type FileMirror interface {
	MirrorRemote(ctx context.Context, userID uint, url, filename string) (string, error)
}

// Controller 任务生命周期控制器。
// 任务状态只能经由它修改：提交、轮询、用户确认、重试。
type Controller struct {
	taskRepo *repository.TaskRepository
	engine   EngineAPI
	mirror   FileMirror

	progressCfg  ProgressConfig
	pollInterval time.Duration

	mu      sync.Mutex
	pollers map[uint]*poller
}

type poller struct {
	taskID   uint
	stop     chan struct{}
	inFlight atomic.Bool // 上一次轮询尚未返回时跳过本周期
}

func NewController(taskRepo *repository.TaskRepository, engineAPI EngineAPI, mirror FileMirror, progressCfg ProgressConfig, pollInterval time.Duration) *Controller {
	if pollInterval <= 0 {
		pollInterval = 2 * time.Second
	}
	return &Controller{
		taskRepo:     taskRepo,
		engine:       engineAPI,
		mirror:       mirror,
		progressCfg:  progressCfg,
		pollInterval: pollInterval,
		pollers:      make(map[uint]*poller),
	}
}

// Start 把任务提交给引擎并进入轮询。创建失败则任务转为失败态，
// 引擎任务ID保持未设置，可由用户重试。
func (c *Controller) Start(ctx context.Context, task *models.Task, req *engine.CreateTaskRequest) error {
	engineTaskID, err := c.engine.CreateTask(ctx, req)
	if err != nil {
		log.Printf("任务 %d 提交引擎失败: %v", task.ID, err)
		_ = c.taskRepo.UpdateFields(task.ID, map[string]interface{}{
			"status":        models.TaskStatusFailed,
			"error_message": err.Error(),
		})
		_ = c.taskRepo.AppendTimelineEvent(task.ID, "提交生成引擎失败", models.TaskStatusFailed)
		return err
	}

	// 引擎已受理：记录引擎任务ID，经由 uploading 进入 running
	if err := c.taskRepo.UpdateFields(task.ID, map[string]interface{}{
		"engine_task_id": engineTaskID,
		"status":         models.TaskStatusUploading,
	}); err != nil {
		return err
	}
	_ = c.taskRepo.AppendTimelineEvent(task.ID, "任务已提交生成引擎", models.TaskStatusUploading)

	if err := c.taskRepo.UpdateFields(task.ID, map[string]interface{}{
		"status": models.TaskStatusRunning,
	}); err != nil {
		return err
	}
	_ = c.taskRepo.AppendTimelineEvent(task.ID, "开始生成", models.TaskStatusRunning)

	c.StartPolling(task.ID)
	return nil
}

// Continue 用户在 ask 状态下提交回复。引擎确认后任务回到 running 并恢复轮询；
// 引擎侧失败则任务停留在 ask，交互数据原样保留，用户可重新提交。
func (c *Controller) Continue(ctx context.Context, task *models.Task, text string) error {
	if task.Status != models.TaskStatusAsk {
		return errors.New("任务当前不在等待确认状态")
	}

	if err := c.engine.SubmitContinuation(ctx, task.EngineTaskID, text); err != nil {
		return err
	}

	if err := c.taskRepo.UpdateFields(task.ID, map[string]interface{}{
		"status":           models.TaskStatusRunning,
		"interaction_data": "",
	}); err != nil {
		return err
	}
	_ = c.taskRepo.AppendTimelineEvent(task.ID, "用户已确认，继续生成", models.TaskStatusRunning)

	c.StartPolling(task.ID)
	return nil
}

// RefreshResult 手动刷新已完成任务的结果文件链接。
// 引擎完成时文件镜像可能滞后，刷新只补齐缺失的链接，不改变状态。
func (c *Controller) RefreshResult(ctx context.Context, task *models.Task) error {
	if task.Status != models.TaskStatusCompleted {
		return errors.New("任务尚未完成")
	}
	snap, err := c.engine.GetTask(ctx, task.EngineTaskID)
	if err != nil {
		return err
	}

	pptxURL, pdfURL := c.resolveResultURLs(ctx, task.UserID, snap.Attachments)
	fields := map[string]interface{}{}
	if task.ResultPptxURL == "" && pptxURL != "" {
		fields["result_pptx_url"] = pptxURL
	}
	if task.ResultPdfURL == "" && pdfURL != "" {
		fields["result_pdf_url"] = pdfURL
	}
	if len(fields) == 0 {
		return nil
	}
	return c.taskRepo.UpdateFields(task.ID, fields)
}

// StartPolling 启动任务的轮询循环（已在轮询则什么都不做）
func (c *Controller) StartPolling(taskID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.pollers[taskID]; exists {
		return
	}
	p := &poller{
		taskID: taskID,
		stop:   make(chan struct{}),
	}
	c.pollers[taskID] = p
	go c.runPoller(p)
}

// StopPolling 停止任务的轮询循环
func (c *Controller) StopPolling(taskID uint) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if p, exists := c.pollers[taskID]; exists {
		close(p.stop)
		delete(c.pollers, taskID)
	}
}

// StopAll 停止全部轮询（进程退出时调用，不留孤儿定时器）
func (c *Controller) StopAll() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for id, p := range c.pollers {
		close(p.stop)
		delete(c.pollers, id)
	}
}

// ResumeActive 服务重启后恢复所有进行中任务的轮询
func (c *Controller) ResumeActive() {
	tasks, err := c.taskRepo.ListActive()
	if err != nil {
		log.Printf("恢复轮询失败: %v", err)
		return
	}
	for i := range tasks {
		c.StartPolling(tasks[i].ID)
	}
	if len(tasks) > 0 {
		log.Printf("已恢复 %d 个进行中任务的轮询", len(tasks))
	}
}

func (c *Controller) runPoller(p *poller) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-p.stop:
			return
		case <-ticker.C:
			// 同一任务同一时刻只允许一个在途请求
			if !p.inFlight.CompareAndSwap(false, true) {
				continue
			}
			go func() {
				defer p.inFlight.Store(false)
				c.pollOnce(p.taskID)
			}()
		}
	}
}

// pollOnce 执行一次轮询。瞬时错误只记录日志，状态原样保留，
// 下个周期重试；只有引擎明确的终态才改变任务状态。
func (c *Controller) pollOnce(taskID uint) {
	task, err := c.taskRepo.GetByID(taskID)
	if err != nil {
		// 任务记录不存在才终止轮询；本地DB的瞬时错误
		// (如sqlite写锁竞争)留给下个周期重试
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.StopPolling(taskID)
			return
		}
		log.Printf("轮询读取任务 %d 失败(下个周期重试): %v", taskID, err)
		return
	}
	if !task.IsActive() {
		c.StopPolling(taskID)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), c.pollInterval*10)
	defer cancel()

	snap, err := c.engine.GetTask(ctx, task.EngineTaskID)
	if err != nil {
		log.Printf("轮询任务 %d 失败(下个周期重试): %v", taskID, err)
		return
	}

	// 引擎往返期间任务可能已被更权威的转换接管（用户确认、更快的
	// 并发请求）。重新读取，不在进行态就丢弃本次结果，绝不回退状态。
	current, err := c.taskRepo.GetByID(taskID)
	if err != nil || !current.IsActive() {
		return
	}

	switch MapEngineStatus(snap.Status, current.Status) {
	case models.TaskStatusRunning:
		c.handleRunning(current, snap)
	case models.TaskStatusAsk:
		c.handleAsk(current, snap)
	case models.TaskStatusCompleted:
		c.handleCompleted(ctx, current, snap)
	case models.TaskStatusFailed:
		c.handleFailed(current, snap)
	}
}

func (c *Controller) handleRunning(task *models.Task, snap *engine.Snapshot) {
	progress, step := EstimateProgress(task.Progress, task.CurrentStep, snap, c.progressCfg)
	fields := map[string]interface{}{
		"status":         models.TaskStatusRunning,
		"progress":       progress,
		"current_step":   step,
		"output_content": marshalOutput(snap.Output),
	}
	if snap.ShareURL != "" {
		fields["share_url"] = snap.ShareURL
	}
	if err := c.taskRepo.UpdateFields(task.ID, fields); err != nil {
		log.Printf("更新任务 %d 进度失败: %v", task.ID, err)
	}
}

func (c *Controller) handleAsk(task *models.Task, snap *engine.Snapshot) {
	fields := map[string]interface{}{
		"status":           models.TaskStatusAsk,
		"interaction_data": marshalOutput(snap.Output),
		"output_content":   marshalOutput(snap.Output),
	}
	if snap.ShareURL != "" {
		fields["share_url"] = snap.ShareURL
	}
	if err := c.taskRepo.UpdateFields(task.ID, fields); err != nil {
		log.Printf("任务 %d 进入等待确认状态失败: %v", task.ID, err)
		return
	}
	_ = c.taskRepo.AppendTimelineEvent(task.ID, "等待用户确认", models.TaskStatusAsk)
	c.StopPolling(task.ID)
}

func (c *Controller) handleCompleted(ctx context.Context, task *models.Task, snap *engine.Snapshot) {
	pptxURL, pdfURL := c.resolveResultURLs(ctx, task.UserID, snap.Attachments)

	fields := map[string]interface{}{
		"status":           models.TaskStatusCompleted,
		"progress":         100,
		"output_content":   marshalOutput(snap.Output),
		"interaction_data": "",
		"result_pptx_url":  pptxURL,
		"result_pdf_url":   pdfURL,
	}
	if snap.ShareURL != "" {
		fields["share_url"] = snap.ShareURL
	}
	if err := c.taskRepo.UpdateFields(task.ID, fields); err != nil {
		log.Printf("任务 %d 完成状态写入失败: %v", task.ID, err)
		return
	}
	_ = c.taskRepo.AppendTimelineEvent(task.ID, "生成完成", models.TaskStatusCompleted)
	log.Printf("任务 %d 生成完成", task.ID)
	c.StopPolling(task.ID)
}

func (c *Controller) handleFailed(task *models.Task, snap *engine.Snapshot) {
	message := "生成引擎任务失败"
	if snap.Status == engine.StatusStopped {
		message = "生成引擎任务已停止"
	}
	fields := map[string]interface{}{
		"status":        models.TaskStatusFailed,
		"error_message": message,
	}
	if out := marshalOutput(snap.Output); out != "" {
		fields["output_content"] = out
	}
	if err := c.taskRepo.UpdateFields(task.ID, fields); err != nil {
		log.Printf("任务 %d 失败状态写入失败: %v", task.ID, err)
		return
	}
	_ = c.taskRepo.AppendTimelineEvent(task.ID, "生成失败", models.TaskStatusFailed)
	c.StopPolling(task.ID)
}

// resolveResultURLs 按文件名后缀匹配结果附件并尽力镜像到本地存储。
// 镜像失败不影响任务完成，直接回退使用引擎提供的链接。
func (c *Controller) resolveResultURLs(ctx context.Context, userID uint, attachments []engine.Attachment) (pptxURL, pdfURL string) {
	for _, att := range attachments {
		lower := strings.ToLower(att.Filename)
		switch {
		case strings.HasSuffix(lower, ".pptx"):
			pptxURL = c.mirrorOrFallback(ctx, userID, att)
		case strings.HasSuffix(lower, ".pdf"):
			pdfURL = c.mirrorOrFallback(ctx, userID, att)
		}
	}
	return pptxURL, pdfURL
}

func (c *Controller) mirrorOrFallback(ctx context.Context, userID uint, att engine.Attachment) string {
	if c.mirror == nil {
		return att.URL
	}
	localURL, err := c.mirror.MirrorRemote(ctx, userID, att.URL, att.Filename)
	if err != nil {
		log.Printf("镜像结果文件 %s 失败，回退使用引擎链接: %v", att.Filename, err)
		return att.URL
	}
	return localURL
}

func marshalOutput(output []engine.Message) string {
	if len(output) == 0 {
		return ""
	}
	data, err := json.Marshal(output)
	if err != nil {
		return "[]"
	}
	return string(data)
}
