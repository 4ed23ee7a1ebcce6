package handlers

import (
	"strconv"

	"aippt-backend/internal/service"
	"aippt-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type TemplateHandler struct {
	templateService *service.TemplateService
}

func NewTemplateHandler(templateService *service.TemplateService) *TemplateHandler {
	return &TemplateHandler{
		templateService: templateService,
	}
}

// ListTemplates godoc
// @Summary 获取设计模板列表
// @Description 获取内置设计模板目录，支持分类筛选
// @Tags 模板管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param category query string false "模板分类筛选"
// @Success 200 {object} utils.Response{data=[]models.Template}
// @Router /templates [get]
func (h *TemplateHandler) ListTemplates(c *gin.Context) {
	templates, err := h.templateService.ListTemplates(c.Query("category"))
	if err != nil {
		utils.Error(c, utils.ERROR, "获取模板列表失败")
		return
	}

	utils.Success(c, templates)
}

// GetTemplate godoc
// @Summary 获取模板详情
// @Description 根据ID获取设计模板详细信息
// @Tags 模板管理
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param id path int true "模板ID"
// @Success 200 {object} utils.Response{data=models.Template}
// @Failure 404 {object} utils.Response
// @Router /templates/{id} [get]
func (h *TemplateHandler) GetTemplate(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "无效的模板ID")
		return
	}

	template, err := h.templateService.GetTemplate(uint(id))
	if err != nil {
		utils.Error(c, utils.NOT_FOUND, "模板不存在")
		return
	}

	utils.Success(c, template)
}
