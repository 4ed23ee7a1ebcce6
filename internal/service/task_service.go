package service

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"aippt-backend/internal/engine"
	"aippt-backend/internal/lifecycle"
	"aippt-backend/internal/models"
	"aippt-backend/internal/repository"
)

// CreateTaskRequest 创建任务的入参
type CreateTaskRequest struct {
	Title        string                   `json:"title" binding:"required"`
	TemplateID   *uint                    `json:"template_id,omitempty"`
	SourceFileID *uint                    `json:"source_file_id,omitempty"`
	ProposalText string                   `json:"proposal_text,omitempty"`
	Images       []models.ImageAttachment `json:"images,omitempty"`
}

// TaskDetail 提供给展示层的完整任务读模型
type TaskDetail struct {
	*models.Task
	DisplayBlocks []lifecycle.DisplayBlock `json:"display_blocks"`
	Timeline      []models.TimelineEvent   `json:"timeline"`
	Attachments   []models.ImageAttachment `json:"image_attachments"`
	IsActive      bool                     `json:"is_active"`
	IsCompleted   bool                     `json:"is_completed"`
	IsFailed      bool                     `json:"is_failed"`
	NeedsInput    bool                     `json:"needs_interaction"`
}

// TaskOverview 仪表盘概览统计
type TaskOverview struct {
	TotalTasks     int64 `json:"total_tasks"`
	ActiveTasks    int64 `json:"active_tasks"`
	CompletedTasks int64 `json:"completed_tasks"`
	FailedTasks    int64 `json:"failed_tasks"`
	UserCount      int64 `json:"user_count"`
	TemplateCount  int64 `json:"template_count"`
}

type TaskService struct {
	taskRepo     *repository.TaskRepository
	templateRepo *repository.TemplateRepository
	fileService  *FileService
	controller   *lifecycle.Controller
}

func NewTaskService(taskRepo *repository.TaskRepository, templateRepo *repository.TemplateRepository, fileService *FileService, controller *lifecycle.Controller) *TaskService {
	return &TaskService{
		taskRepo:     taskRepo,
		templateRepo: templateRepo,
		fileService:  fileService,
		controller:   controller,
	}
}

// CreateTask 创建任务并异步提交给生成引擎。
// 输入校验在任何引擎调用之前完成，校验失败不产生任务记录。
func (s *TaskService) CreateTask(userID uint, req *CreateTaskRequest) (*models.Task, error) {
	if strings.TrimSpace(req.Title) == "" {
		return nil, errors.New("标题不能为空")
	}
	for _, img := range req.Images {
		if img.FileID == 0 {
			return nil, errors.New("图片素材缺少文件引用")
		}
	}

	task := &models.Task{
		UserID:       userID,
		Title:        strings.TrimSpace(req.Title),
		TemplateID:   req.TemplateID,
		SourceFileID: req.SourceFileID,
		ProposalText: req.ProposalText,
		Status:       models.TaskStatusPending,
	}
	if err := task.SetImageAttachments(req.Images); err != nil {
		return nil, err
	}
	if err := s.taskRepo.Create(task); err != nil {
		return nil, err
	}
	_ = s.taskRepo.AppendTimelineEvent(task.ID, "任务已创建", models.TaskStatusPending)

	go s.startProcessing(task)

	return task, nil
}

// startProcessing 解析任务输入并驱动生命周期控制器提交引擎
func (s *TaskService) startProcessing(task *models.Task) {
	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	req, err := s.buildEngineRequest(task)
	if err != nil {
		log.Printf("任务 %d 构建引擎请求失败: %v", task.ID, err)
		_ = s.taskRepo.UpdateFields(task.ID, map[string]interface{}{
			"status":        models.TaskStatusFailed,
			"error_message": err.Error(),
		})
		_ = s.taskRepo.AppendTimelineEvent(task.ID, "任务初始化失败", models.TaskStatusFailed)
		return
	}

	// 提交失败的状态落库由控制器完成
	_ = s.controller.Start(ctx, task, req)
}

// buildEngineRequest 把任务输入解析为引擎创建请求：
// 内容优先级为 源文档文本 > 策划案文本 > 仅标题。
func (s *TaskService) buildEngineRequest(task *models.Task) (*engine.CreateTaskRequest, error) {
	content := ""
	if task.SourceFileID != nil {
		text, err := s.fileService.ReadDocumentText(*task.SourceFileID)
		if err != nil {
			return nil, errors.New("读取源文档失败")
		}
		content = text
	} else if task.ProposalText != "" {
		content = task.ProposalText
	} else {
		content = task.Title
	}

	attachments, err := task.ImageAttachments()
	if err != nil {
		return nil, errors.New("图片素材数据损坏")
	}
	directives := make([]engine.ImageDirective, 0, len(attachments))
	for _, att := range attachments {
		file, err := s.fileService.GetFile(att.FileID)
		if err != nil {
			return nil, errors.New("图片素材文件不存在")
		}
		directives = append(directives, engine.ImageDirective{
			FileID:      file.URL,
			UsageMode:   string(att.UsageMode),
			Category:    string(att.Category),
			Description: att.Description,
		})
	}

	designPrompt := ""
	if task.TemplateID != nil {
		template, err := s.templateRepo.GetByID(*task.TemplateID)
		if err != nil {
			return nil, errors.New("设计模板不存在")
		}
		designPrompt = template.Prompt
	}

	return &engine.CreateTaskRequest{
		Title:        task.Title,
		Content:      content,
		Images:       directives,
		DesignPrompt: designPrompt,
	}, nil
}

// GetTask 获取任务（含归属校验）
func (s *TaskService) GetTask(userID, taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, errors.New("任务不存在")
	}
	if task.UserID != userID {
		return nil, errors.New("无权访问该任务")
	}
	return task, nil
}

// GetTaskDetail 获取任务的完整读模型
func (s *TaskService) GetTaskDetail(userID, taskID uint) (*TaskDetail, error) {
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}

	timeline, err := task.TimelineEvents()
	if err != nil {
		timeline = nil
	}
	attachments, err := task.ImageAttachments()
	if err != nil {
		attachments = nil
	}

	return &TaskDetail{
		Task:          task,
		DisplayBlocks: lifecycle.BuildDisplayBlocks(task.OutputContent),
		Timeline:      timeline,
		Attachments:   attachments,
		IsActive:      task.IsActive(),
		IsCompleted:   task.IsCompleted(),
		IsFailed:      task.IsFailed(),
		NeedsInput:    task.NeedsInteraction(),
	}, nil
}

// ListTasks 获取用户任务列表
func (s *TaskService) ListTasks(userID uint, current, size int, status models.TaskStatus) ([]models.Task, int64, error) {
	offset := (current - 1) * size
	return s.taskRepo.ListByUser(userID, offset, size, status)
}

// ContinueTask 用户回复 ask 状态的任务
func (s *TaskService) ContinueTask(ctx context.Context, userID, taskID uint, text string) error {
	if strings.TrimSpace(text) == "" {
		return errors.New("回复内容不能为空")
	}
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return err
	}
	return s.controller.Continue(ctx, task, strings.TrimSpace(text))
}

// RetryTask 对失败任务发起重试：原始输入原样复用，派生字段全部重置，
// 重新走一遍创建路径并获得新的引擎任务ID。配置不需要用户重新填写。
func (s *TaskService) RetryTask(userID, taskID uint) (*models.Task, error) {
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusFailed {
		return nil, errors.New("仅失败的任务可以重试")
	}

	if err := s.taskRepo.UpdateFields(task.ID, map[string]interface{}{
		"engine_task_id":   "",
		"status":           models.TaskStatusPending,
		"progress":         0,
		"current_step":     "",
		"output_content":   "",
		"interaction_data": "",
		"share_url":        "",
		"result_pptx_url":  "",
		"result_pdf_url":   "",
		"error_message":    "",
	}); err != nil {
		return nil, err
	}
	_ = s.taskRepo.AppendTimelineEvent(task.ID, "重新生成", models.TaskStatusPending)

	fresh, err := s.taskRepo.GetByID(task.ID)
	if err != nil {
		return nil, err
	}
	go s.startProcessing(fresh)

	return fresh, nil
}

// RefreshTask 手动刷新已完成任务的结果文件链接（状态不变）
func (s *TaskService) RefreshTask(ctx context.Context, userID, taskID uint) (*models.Task, error) {
	task, err := s.GetTask(userID, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.controller.RefreshResult(ctx, task); err != nil {
		return nil, err
	}
	return s.taskRepo.GetByID(taskID)
}

// DeleteTask 删除任务（管理员操作，核心流程之外的维护动作）
func (s *TaskService) DeleteTask(taskID uint) error {
	if _, err := s.taskRepo.GetByID(taskID); err != nil {
		return errors.New("任务不存在")
	}
	s.controller.StopPolling(taskID)
	return s.taskRepo.Delete(taskID)
}

// GetOverview 获取仪表盘概览统计
func (s *TaskService) GetOverview(userCount, templateCount int64) (*TaskOverview, error) {
	overview := &TaskOverview{
		UserCount:     userCount,
		TemplateCount: templateCount,
	}

	var err error
	overview.TotalTasks, err = s.taskRepo.CountByStatus("")
	if err != nil {
		return nil, err
	}
	running, err := s.taskRepo.CountByStatus(models.TaskStatusRunning)
	if err != nil {
		return nil, err
	}
	uploading, err := s.taskRepo.CountByStatus(models.TaskStatusUploading)
	if err != nil {
		return nil, err
	}
	overview.ActiveTasks = running + uploading

	overview.CompletedTasks, err = s.taskRepo.CountByStatus(models.TaskStatusCompleted)
	if err != nil {
		return nil, err
	}
	overview.FailedTasks, err = s.taskRepo.CountByStatus(models.TaskStatusFailed)
	if err != nil {
		return nil, err
	}

	return overview, nil
}
