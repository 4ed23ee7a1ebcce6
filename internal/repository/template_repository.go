package repository

import (
	"aippt-backend/internal/models"

	"gorm.io/gorm"
)

type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// GetByID 根据ID获取模板
func (r *TemplateRepository) GetByID(id uint) (*models.Template, error) {
	var template models.Template
	err := r.db.First(&template, id).Error
	if err != nil {
		return nil, err
	}
	return &template, nil
}

// List 获取模板列表，支持分类过滤
func (r *TemplateRepository) List(category string) ([]models.Template, error) {
	var templates []models.Template
	query := r.db.Model(&models.Template{})
	if category != "" {
		query = query.Where("category = ?", category)
	}
	err := query.Order("sort_order ASC, id ASC").Find(&templates).Error
	return templates, err
}

// Count 统计模板数量
func (r *TemplateRepository) Count() (int64, error) {
	var count int64
	err := r.db.Model(&models.Template{}).Count(&count).Error
	return count, err
}

// Create 创建模板（种子数据导入用）
func (r *TemplateRepository) Create(template *models.Template) error {
	return r.db.Create(template).Error
}
