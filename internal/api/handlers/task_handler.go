package handlers

import (
	"errors"
	"strconv"

	"aippt-backend/internal/engine"
	"aippt-backend/internal/models"
	"aippt-backend/internal/service"
	"aippt-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TaskHandler struct {
	taskService *service.TaskService
}

func NewTaskHandler(taskService *service.TaskService) *TaskHandler {
	return &TaskHandler{
		taskService: taskService,
	}
}

// ContinueRequest 用户确认回复
type ContinueRequest struct {
	Text string `json:"text" binding:"required"`
}

// CreateTask godoc
// @Summary 创建生成任务
// @Description 提交标题、可选的源文档/策划案与图片素材，创建PPT生成任务
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param task body service.CreateTaskRequest true "任务创建参数"
// @Success 200 {object} utils.Response{data=models.Task}
// @Failure 400 {object} utils.Response
// @Router /tasks [post]
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req service.CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "无效的任务参数")
		return
	}

	task, err := h.taskService.CreateTask(currentUserID(c), &req)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	utils.SuccessWithMessage(c, task, "任务创建成功")
}

// ListTasks godoc
// @Summary 获取任务列表
// @Description 获取当前用户的任务列表，支持分页和状态筛选
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param current query int false "页码(默认1)"
// @Param size query int false "每页数量(默认10)"
// @Param status query string false "任务状态筛选"
// @Success 200 {object} utils.Response{data=utils.PageResult{records=[]models.Task}}
// @Router /tasks [get]
func (h *TaskHandler) ListTasks(c *gin.Context) {
	current, _ := strconv.Atoi(c.DefaultQuery("current", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("size", "10"))
	status := models.TaskStatus(c.Query("status"))

	tasks, total, err := h.taskService.ListTasks(currentUserID(c), current, size, status)
	if err != nil {
		utils.Error(c, utils.ERROR, "获取任务列表失败")
		return
	}

	utils.SuccessWithPage(c, tasks, current, size, total)
}

// GetTask godoc
// @Summary 获取任务详情
// @Description 获取任务的完整读模型：状态、进度、展示块、时间线
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} utils.Response{data=service.TaskDetail}
// @Failure 404 {object} utils.Response
// @Router /tasks/{id} [get]
func (h *TaskHandler) GetTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "无效的任务ID")
		return
	}

	detail, err := h.taskService.GetTaskDetail(currentUserID(c), id)
	if err != nil {
		utils.Error(c, utils.NOT_FOUND, err.Error())
		return
	}

	utils.Success(c, detail)
}

// ContinueTask godoc
// @Summary 回复等待确认的任务
// @Description 任务处于等待确认状态时提交用户回复，任务恢复生成
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Param request body ContinueRequest true "回复内容"
// @Success 200 {object} utils.Response
// @Failure 400 {object} utils.Response
// @Router /tasks/{id}/continue [post]
func (h *TaskHandler) ContinueTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "无效的任务ID")
		return
	}

	var req ContinueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "回复内容不能为空")
		return
	}

	if err := h.taskService.ContinueTask(c.Request.Context(), currentUserID(c), id, req.Text); err != nil {
		// 引擎侧失败：任务停留在等待确认状态，用户可重新提交
		var engineErr *engine.EngineError
		if errors.As(err, &engineErr) || errors.Is(err, engine.ErrEngineUnavailable) {
			utils.Error(c, utils.ENGINE_ERROR, err.Error())
			return
		}
		utils.Error(c, utils.VALIDATION_ERROR, err.Error())
		return
	}

	utils.SuccessWithMessage(c, nil, "已确认，继续生成")
}

// RetryTask godoc
// @Summary 重试失败的任务
// @Description 复用原始输入重新发起生成，配置无需重新填写
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} utils.Response{data=models.Task}
// @Failure 400 {object} utils.Response
// @Router /tasks/{id}/retry [post]
func (h *TaskHandler) RetryTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "无效的任务ID")
		return
	}

	task, err := h.taskService.RetryTask(currentUserID(c), id)
	if err != nil {
		utils.Error(c, utils.ERROR, err.Error())
		return
	}

	utils.SuccessWithMessage(c, task, "已重新发起生成")
}

// RefreshTask godoc
// @Summary 刷新任务结果文件
// @Description 已完成任务的结果文件可能滞后，手动刷新补齐下载链接
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} utils.Response{data=models.Task}
// @Failure 400 {object} utils.Response
// @Router /tasks/{id}/refresh [post]
func (h *TaskHandler) RefreshTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "无效的任务ID")
		return
	}

	task, err := h.taskService.RefreshTask(c.Request.Context(), currentUserID(c), id)
	if err != nil {
		utils.Error(c, utils.ERROR, err.Error())
		return
	}

	utils.Success(c, task)
}

// DeleteTask godoc
// @Summary 删除任务
// @Description 删除指定任务（管理员操作）
// @Tags 任务管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "任务ID"
// @Success 200 {object} utils.Response
// @Failure 404 {object} utils.Response
// @Router /admin/tasks/{id} [delete]
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	id, err := parseTaskID(c)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "无效的任务ID")
		return
	}

	if err := h.taskService.DeleteTask(id); err != nil {
		utils.Error(c, utils.NOT_FOUND, err.Error())
		return
	}

	utils.SuccessWithMessage(c, nil, "任务已删除")
}

func parseTaskID(c *gin.Context) (uint, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	return uint(id), err
}

// currentUserID 从上下文读取认证中间件写入的用户ID
func currentUserID(c *gin.Context) uint {
	userID, _ := c.Get("userID")
	id, _ := userID.(uint)
	return id
}
