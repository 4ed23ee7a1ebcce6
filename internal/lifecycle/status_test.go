package lifecycle

import (
	"testing"

	"aippt-backend/internal/engine"
	"aippt-backend/internal/models"
)

// TestMapEngineStatus 测试引擎状态到本地状态的映射
func TestMapEngineStatus(t *testing.T) {
	cases := []struct {
		engineStatus string
		prev         models.TaskStatus
		want         models.TaskStatus
	}{
		{engine.StatusRunning, models.TaskStatusUploading, models.TaskStatusRunning},
		{engine.StatusInProgress, models.TaskStatusRunning, models.TaskStatusRunning},
		{engine.StatusAsk, models.TaskStatusRunning, models.TaskStatusAsk},
		{engine.StatusCompleted, models.TaskStatusRunning, models.TaskStatusCompleted},
		{engine.StatusFailed, models.TaskStatusRunning, models.TaskStatusFailed},
		{engine.StatusStopped, models.TaskStatusAsk, models.TaskStatusFailed},
	}

	for _, c := range cases {
		if got := MapEngineStatus(c.engineStatus, c.prev); got != c.want {
			t.Errorf("%s: 期望 %s，实际 %s", c.engineStatus, c.want, got)
		}
	}
}

// TestMapEngineStatusUnknown 测试未知状态保持原状态
func TestMapEngineStatusUnknown(t *testing.T) {
	if got := MapEngineStatus("queued", models.TaskStatusRunning); got != models.TaskStatusRunning {
		t.Errorf("未知状态应保持原状态，实际 %s", got)
	}
	if got := MapEngineStatus("", models.TaskStatusAsk); got != models.TaskStatusAsk {
		t.Errorf("空状态应保持原状态，实际 %s", got)
	}
}
