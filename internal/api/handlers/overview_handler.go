package handlers

import (
	"aippt-backend/internal/service"
	"aippt-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type OverviewHandler struct {
	taskService     *service.TaskService
	userService     *service.UserService
	templateService *service.TemplateService
}

func NewOverviewHandler(taskService *service.TaskService, userService *service.UserService, templateService *service.TemplateService) *OverviewHandler {
	return &OverviewHandler{
		taskService:     taskService,
		userService:     userService,
		templateService: templateService,
	}
}

// GetOverview godoc
// @Summary 获取仪表盘概览信息
// @Description 获取任务数量、各状态分布、用户与模板统计
// @Tags 系统概览
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} utils.Response{data=service.TaskOverview}
// @Router /overview [get]
func (h *OverviewHandler) GetOverview(c *gin.Context) {
	userCount, err := h.userService.Count()
	if err != nil {
		utils.Error(c, utils.ERROR, "获取概览信息失败")
		return
	}

	templates, err := h.templateService.ListTemplates("")
	if err != nil {
		utils.Error(c, utils.ERROR, "获取概览信息失败")
		return
	}

	overview, err := h.taskService.GetOverview(userCount, int64(len(templates)))
	if err != nil {
		utils.Error(c, utils.ERROR, "获取概览信息失败")
		return
	}

	utils.Success(c, overview)
}
