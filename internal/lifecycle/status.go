package lifecycle

import (
	"log"

	"aippt-backend/internal/engine"
	"aippt-backend/internal/models"
)

// MapEngineStatus 把引擎自己的状态词汇映射为本地任务状态。
// 未知状态记录日志并保持原状态，不做静默兜底。
func MapEngineStatus(engineStatus string, prev models.TaskStatus) models.TaskStatus {
	switch engineStatus {
	case engine.StatusRunning, engine.StatusInProgress:
		return models.TaskStatusRunning
	case engine.StatusAsk:
		return models.TaskStatusAsk
	case engine.StatusCompleted:
		return models.TaskStatusCompleted
	case engine.StatusFailed, engine.StatusStopped:
		return models.TaskStatusFailed
	default:
		log.Printf("未知的引擎状态 %q，保持本地状态 %s", engineStatus, prev)
		return prev
	}
}
