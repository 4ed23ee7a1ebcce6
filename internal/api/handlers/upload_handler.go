package handlers

import (
	"aippt-backend/internal/models"
	"aippt-backend/internal/service"
	"aippt-backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

type UploadHandler struct {
	fileService *service.FileService
}

func NewUploadHandler(fileService *service.FileService) *UploadHandler {
	return &UploadHandler{
		fileService: fileService,
	}
}

// UploadFile godoc
// @Summary 上传文件
// @Description 上传源文档或图片素材，返回文件ID和访问URL
// @Tags 文件管理
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "文件内容"
// @Param kind formData string false "文件用途(document/image)"
// @Success 200 {object} utils.Response{data=models.File}
// @Failure 400 {object} utils.Response
// @Router /files [post]
func (h *UploadHandler) UploadFile(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		utils.Error(c, utils.VALIDATION_ERROR, "未提供文件")
		return
	}

	kind := models.FileKind(c.DefaultPostForm("kind", string(models.FileKindDocument)))
	switch kind {
	case models.FileKindDocument, models.FileKindImage:
	default:
		utils.Error(c, utils.VALIDATION_ERROR, "无效的文件用途")
		return
	}

	file, err := h.fileService.Upload(currentUserID(c), header, kind)
	if err != nil {
		utils.Error(c, utils.ERROR, "文件上传失败")
		return
	}

	utils.SuccessWithMessage(c, file, "文件上传成功")
}
