package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"aippt-backend/internal/engine"
	"aippt-backend/internal/lifecycle"
	"aippt-backend/internal/models"
	"aippt-backend/internal/repository"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// fakeEngine 可编程的引擎假实现
type fakeEngine struct {
	mu        sync.Mutex
	createID  string
	createErr error
	snapshots map[string]*engine.Snapshot
}

func (f *fakeEngine) CreateTask(ctx context.Context, req *engine.CreateTaskRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return "", f.createErr
	}
	return f.createID, nil
}

func (f *fakeEngine) GetTask(ctx context.Context, engineTaskID string) (*engine.Snapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if snap, ok := f.snapshots[engineTaskID]; ok {
		return snap, nil
	}
	return &engine.Snapshot{Status: engine.StatusRunning}, nil
}

func (f *fakeEngine) SubmitContinuation(ctx context.Context, engineTaskID, text string) error {
	return nil
}

type testEnv struct {
	repo    *repository.TaskRepository
	files   *repository.FileRepository
	service *TaskService
	ctrl    *lifecycle.Controller
}

func setupTestEnv(t *testing.T, eng *fakeEngine) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开内存数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&models.Task{}, &models.File{}, &models.Template{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	db.Exec("DELETE FROM tasks")
	db.Exec("DELETE FROM files")
	db.Exec("DELETE FROM templates")

	taskRepo := repository.NewTaskRepository(db)
	fileRepo := repository.NewFileRepository(db)
	fileService := NewFileService(fileRepo, t.TempDir(), "/static/uploads")
	ctrl := lifecycle.NewController(taskRepo, eng, fileService, lifecycle.DefaultProgressConfig, 10*time.Millisecond)
	t.Cleanup(ctrl.StopAll)

	svc := NewTaskService(taskRepo, repository.NewTemplateRepository(db), fileService, ctrl)
	return &testEnv{repo: taskRepo, files: fileRepo, service: svc, ctrl: ctrl}
}

// waitForStatus 等待任务到达目标状态(后台提交是异步的)
func waitForStatus(t *testing.T, repo *repository.TaskRepository, taskID uint, want models.TaskStatus) *models.Task {
	t.Helper()
	deadline := time.Now().Add(3 * time.Second)
	for time.Now().Before(deadline) {
		task, err := repo.GetByID(taskID)
		if err == nil && task.Status == want {
			return task
		}
		time.Sleep(10 * time.Millisecond)
	}
	task, _ := repo.GetByID(taskID)
	t.Fatalf("等待状态 %s 超时，当前 %s", want, task.Status)
	return nil
}

// TestCreateTaskValidation 测试输入校验在引擎调用之前完成
func TestCreateTaskValidation(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{createID: "eng-1"})

	if _, err := env.service.CreateTask(1, &CreateTaskRequest{Title: "   "}); err == nil {
		t.Errorf("空标题应被拒绝")
	}
	if _, err := env.service.CreateTask(1, &CreateTaskRequest{
		Title:  "年度汇报",
		Images: []models.ImageAttachment{{FileID: 0, UsageMode: models.ImageMustUse}},
	}); err == nil {
		t.Errorf("缺少文件引用的图片素材应被拒绝")
	}

	// 校验失败不应产生任务记录
	total, _ := env.repo.CountByStatus("")
	if total != 0 {
		t.Errorf("校验失败后不应有任务记录，实际 %d", total)
	}
}

// TestCreateTaskPipeline 测试创建后任务进入生成态
func TestCreateTaskPipeline(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{createID: "eng-1"})

	task, err := env.service.CreateTask(1, &CreateTaskRequest{
		Title:        "年度汇报",
		ProposalText: "围绕2025年度经营情况展开",
	})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	got := waitForStatus(t, env.repo, task.ID, models.TaskStatusRunning)
	if got.EngineTaskID != "eng-1" {
		t.Errorf("引擎任务ID未记录: %q", got.EngineTaskID)
	}

	events, _ := got.TimelineEvents()
	if len(events) == 0 || events[0].Event != "任务已创建" {
		t.Errorf("时间线首条事件应为创建，实际 %+v", events)
	}
}

// TestCreateTaskEngineFailure 测试引擎拒绝后任务转为失败态
func TestCreateTaskEngineFailure(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{
		createErr: &engine.EngineError{Code: "quota_exceeded", Message: "配额不足"},
	})

	task, err := env.service.CreateTask(1, &CreateTaskRequest{Title: "年度汇报"})
	if err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	got := waitForStatus(t, env.repo, task.ID, models.TaskStatusFailed)
	if got.ErrorMessage == "" {
		t.Errorf("失败原因应被记录")
	}
}

// TestRetryTask 测试重试保留原始输入并重置派生字段
func TestRetryTask(t *testing.T) {
	eng := &fakeEngine{createID: "eng-2"}
	env := setupTestEnv(t, eng)

	// 图片素材引用一个真实文件记录，重试时会重新解析
	cover := &models.File{
		UserID: 1, Name: "cover.png", ObjectKey: "cover-key.png",
		URL: "/static/uploads/cover-key.png", Kind: models.FileKindImage,
	}
	if err := env.files.Create(cover); err != nil {
		t.Fatalf("创建文件记录失败: %v", err)
	}

	task := &models.Task{
		UserID:       1,
		Title:        "年度汇报",
		ProposalText: "围绕2025年度经营情况展开",
		Status:       models.TaskStatusFailed,
		EngineTaskID: "eng-1",
		Progress:     42,
		CurrentStep:  "生成大纲",
		ErrorMessage: "引擎任务失败",
		ShareURL:     "https://share.example.com/t/old",
	}
	task.SetImageAttachments([]models.ImageAttachment{{
		FileID:      cover.ID,
		UsageMode:   models.ImageMustUse,
		Category:    models.ImageCategoryCover,
		Description: "封面主视觉",
	}})
	if err := env.repo.Create(task); err != nil {
		t.Fatalf("创建任务失败: %v", err)
	}

	fresh, err := env.service.RetryTask(1, task.ID)
	if err != nil {
		t.Fatalf("重试失败: %v", err)
	}

	// 原始输入原样保留，图片素材序列化内容逐字节一致
	if fresh.Title != task.Title || fresh.ProposalText != task.ProposalText {
		t.Errorf("重试不应改变原始输入: %+v", fresh)
	}
	if fresh.Images != task.Images {
		t.Errorf("图片素材应原样保留: %q vs %q", fresh.Images, task.Images)
	}
	// 派生字段全部重置
	if fresh.Progress != 0 || fresh.CurrentStep != "" || fresh.ErrorMessage != "" || fresh.ShareURL != "" {
		t.Errorf("派生字段应被重置: %+v", fresh)
	}

	// 重新提交后获得新的引擎任务ID
	got := waitForStatus(t, env.repo, task.ID, models.TaskStatusRunning)
	if got.EngineTaskID != "eng-2" {
		t.Errorf("期望新的引擎任务ID eng-2，实际 %q", got.EngineTaskID)
	}
}

// TestRetryTaskWrongState 测试仅失败任务可重试
func TestRetryTaskWrongState(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{createID: "eng-1"})

	task := &models.Task{UserID: 1, Title: "年度汇报", Status: models.TaskStatusRunning}
	env.repo.Create(task)

	if _, err := env.service.RetryTask(1, task.ID); err == nil {
		t.Errorf("进行中任务不应允许重试")
	}
}

// TestGetTaskOwnership 测试任务归属校验
func TestGetTaskOwnership(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{createID: "eng-1"})

	task := &models.Task{UserID: 1, Title: "年度汇报", Status: models.TaskStatusCompleted}
	env.repo.Create(task)

	if _, err := env.service.GetTask(1, task.ID); err != nil {
		t.Errorf("所有者应能访问: %v", err)
	}
	if _, err := env.service.GetTask(2, task.ID); err == nil {
		t.Errorf("其他用户不应能访问")
	}
	if _, err := env.service.GetTask(1, 9999); err == nil {
		t.Errorf("不存在的任务应返回错误")
	}
}

// TestContinueTaskValidation 测试空回复被拒绝
func TestContinueTaskValidation(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{})

	task := &models.Task{UserID: 1, Title: "年度汇报", Status: models.TaskStatusAsk, EngineTaskID: "eng-1"}
	env.repo.Create(task)

	if err := env.service.ContinueTask(context.Background(), 1, task.ID, "  "); err == nil {
		t.Errorf("空回复应被拒绝")
	}
}

// TestGetTaskDetail 测试任务详情读模型
func TestGetTaskDetail(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{})

	task := &models.Task{
		UserID:        1,
		Title:         "年度汇报",
		Status:        models.TaskStatusAsk,
		OutputContent: `[{"role":"assistant","content":[{"type":"output_text","text":"## 市场分析\n市场规模同比增长15%，达到500亿元，主要驱动因素包括..."}]}]`,
	}
	env.repo.Create(task)
	env.repo.AppendTimelineEvent(task.ID, "等待用户确认", models.TaskStatusAsk)

	detail, err := env.service.GetTaskDetail(1, task.ID)
	if err != nil {
		t.Fatalf("获取详情失败: %v", err)
	}
	if !detail.NeedsInput || detail.IsActive {
		t.Errorf("状态标记错误: %+v", detail)
	}
	if len(detail.DisplayBlocks) != 1 || detail.DisplayBlocks[0].Category != lifecycle.CategorySlide {
		t.Errorf("展示块构建错误: %+v", detail.DisplayBlocks)
	}
	if len(detail.Timeline) != 1 {
		t.Errorf("时间线读取错误: %+v", detail.Timeline)
	}
}

// TestGetOverview 测试概览统计
func TestGetOverview(t *testing.T) {
	env := setupTestEnv(t, &fakeEngine{})

	env.repo.Create(&models.Task{UserID: 1, Title: "任务", Status: models.TaskStatusRunning})
	env.repo.Create(&models.Task{UserID: 1, Title: "任务", Status: models.TaskStatusUploading})
	env.repo.Create(&models.Task{UserID: 1, Title: "任务", Status: models.TaskStatusCompleted})
	env.repo.Create(&models.Task{UserID: 1, Title: "任务", Status: models.TaskStatusFailed})

	overview, err := env.service.GetOverview(3, 4)
	if err != nil {
		t.Fatalf("获取概览失败: %v", err)
	}
	if overview.TotalTasks != 4 || overview.ActiveTasks != 2 ||
		overview.CompletedTasks != 1 || overview.FailedTasks != 1 {
		t.Errorf("统计错误: %+v", overview)
	}
	if overview.UserCount != 3 || overview.TemplateCount != 4 {
		t.Errorf("用户/模板计数错误: %+v", overview)
	}
}
