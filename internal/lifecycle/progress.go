package lifecycle

import (
	"aippt-backend/internal/engine"
)

// ProgressConfig 进度估算参数。引擎不提供数值进度，
// 只能从输出消息的累积量推断，参数可在配置文件中调整。
type ProgressConfig struct {
	Baseline     int // 进入生成阶段后的基线进度
	GrowthFactor int // 每条输出消息带来的进度增量
	Ceiling      int // 真正完成前允许到达的上限
}

// DefaultProgressConfig 参考默认值
var DefaultProgressConfig = ProgressConfig{
	Baseline:     60,
	GrowthFactor: 3,
	Ceiling:      95,
}

// EstimateProgress 由引擎快照推导进度百分比与当前步骤描述。
// 纯函数：结果只取决于 (prev, prevStep, snap, cfg)。
//   - 进行中：progress = min(baseline + 输出条数*growth, ceiling)，且不低于上次的值
//   - completed：强制100
//   - failed/stopped：冻结在上次的值
func EstimateProgress(prev int, prevStep string, snap *engine.Snapshot, cfg ProgressConfig) (int, string) {
	switch snap.Status {
	case engine.StatusCompleted:
		return 100, prevStep
	case engine.StatusFailed, engine.StatusStopped:
		return prev, prevStep
	}

	progress := cfg.Baseline + len(snap.Output)*cfg.GrowthFactor
	if progress > cfg.Ceiling {
		progress = cfg.Ceiling
	}
	// 进度只升不降，避免用户看到回退
	if progress < prev {
		progress = prev
	}

	step := latestStep(snap)
	if step == "" {
		step = prevStep
	}
	return progress, step
}

// latestStep 从最新的助手文本输出中提取步骤描述。
// 与时间线展示共用同一套拦截规则，内部指令不会经由步骤描述泄漏。
func latestStep(snap *engine.Snapshot) string {
	for i := len(snap.Output) - 1; i >= 0; i-- {
		msg := snap.Output[i]
		if msg.Role != "" && msg.Role != "assistant" {
			continue
		}
		for j := len(msg.Content) - 1; j >= 0; j-- {
			item := msg.Content[j]
			if !item.IsText() {
				continue
			}
			if step := ExtractStep(item.Text); step != "" {
				return step
			}
		}
	}
	return ""
}
