package repository

import (
	"encoding/json"
	"time"

	"aippt-backend/internal/models"

	"gorm.io/gorm"
)

type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

// Create 创建新任务记录
func (r *TaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByID 根据ID获取任务
func (r *TaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	err := r.db.First(&task, id).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

// ListByUser 获取用户的任务列表，支持分页和状态过滤
func (r *TaskRepository) ListByUser(userID uint, offset, limit int, status models.TaskStatus) ([]models.Task, int64, error) {
	var tasks []models.Task
	var total int64

	query := r.db.Model(&models.Task{}).Where("user_id = ?", userID)
	if status != "" {
		query = query.Where("status = ?", status)
	}

	err := query.Count(&total).Error
	if err != nil {
		return nil, 0, err
	}

	err = query.Offset(offset).Limit(limit).Order("created_at DESC").Find(&tasks).Error
	if err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// UpdateFields 字段级局部更新。并发轮询与用户操作只写各自关心的字段，
// 不做整行覆盖，避免互相踩掉对方的写入。updated_at 随每次更新推进。
func (r *TaskRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	fields["updated_at"] = time.Now()
	return r.db.Model(&models.Task{}).Where("id = ?", id).Updates(fields).Error
}

// AppendTimelineEvent 追加一条时间线事件。读改写在同一事务内完成，
// 事件只追加，从不删除或重排。
func (r *TaskRepository) AppendTimelineEvent(id uint, event string, status models.TaskStatus) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		var task models.Task
		if err := tx.First(&task, id).Error; err != nil {
			return err
		}

		events, err := task.TimelineEvents()
		if err != nil {
			// 历史数据损坏时从当前事件重新开始，不阻塞状态推进
			events = nil
		}
		events = append(events, models.TimelineEvent{
			Time:   time.Now(),
			Event:  event,
			Status: status,
		})

		data, err := json.Marshal(events)
		if err != nil {
			return err
		}
		return tx.Model(&models.Task{}).Where("id = ?", id).Updates(map[string]interface{}{
			"timeline":   string(data),
			"updated_at": time.Now(),
		}).Error
	})
}

// CountByStatus 按状态统计任务数量（status为空统计全部）
func (r *TaskRepository) CountByStatus(status models.TaskStatus) (int64, error) {
	var count int64
	query := r.db.Model(&models.Task{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Count(&count).Error
	return count, err
}

// ListActive 获取所有进行中的任务（服务重启后恢复轮询用）
func (r *TaskRepository) ListActive() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.Where("status IN ?", []models.TaskStatus{
		models.TaskStatusUploading,
		models.TaskStatusRunning,
	}).Find(&tasks).Error
	return tasks, err
}

// Delete 删除任务（管理操作，核心流程不调用）
func (r *TaskRepository) Delete(id uint) error {
	return r.db.Delete(&models.Task{}, id).Error
}
