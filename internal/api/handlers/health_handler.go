package handlers

import (
	"time"

	"aippt-backend/internal/service"
	"aippt-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// HealthHandler 处理健康检查相关的请求
type HealthHandler struct {
	monitorService *service.MonitorService
}

// NewHealthHandler 创建一个新的健康检查处理器
func NewHealthHandler(monitorService *service.MonitorService) *HealthHandler {
	return &HealthHandler{
		monitorService: monitorService,
	}
}

// CheckHealth godoc
// @Summary      健康检查接口
// @Description  返回API服务的运行状态、版本和系统指标
// @Tags         系统监控
// @Accept       json
// @Produce      json
// @Success      200  {object}  utils.Response
// @Router       /health [get]
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	metrics, _ := h.monitorService.GetSystemMetrics()

	status := map[string]interface{}{
		"status":    "up",
		"timestamp": time.Now().Format(time.RFC3339),
		"service":   "aippt-backend API",
		"version":   "1.0.0",
		"metrics":   metrics,
	}

	utils.Success(c, status)
}
