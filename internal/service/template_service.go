package service

import (
	"aippt-backend/internal/models"
	"aippt-backend/internal/repository"
)

// TemplateService 设计模板目录（静态配置数据）
type TemplateService struct {
	templateRepo *repository.TemplateRepository
}

func NewTemplateService(templateRepo *repository.TemplateRepository) *TemplateService {
	return &TemplateService{
		templateRepo: templateRepo,
	}
}

// ListTemplates 获取模板列表
func (s *TemplateService) ListTemplates(category string) ([]models.Template, error) {
	return s.templateRepo.List(category)
}

// GetTemplate 获取模板详情
func (s *TemplateService) GetTemplate(id uint) (*models.Template, error) {
	return s.templateRepo.GetByID(id)
}
