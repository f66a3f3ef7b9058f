package task

import (
	"context"

	"peermall/pkg/logger"
)

// ==================== TaskManager 后台任务管理器 ====================

// TaskManager 统一管理后台任务的生命周期
type TaskManager struct {
	statsTask *StatsTask
}

// TaskManagerConfig 任务管理器配置
type TaskManagerConfig struct {
	StatsEnabled bool
	StatsSpec    string
}

// DefaultConfig 默认配置
func DefaultConfig() *TaskManagerConfig {
	return &TaskManagerConfig{
		StatsEnabled: true,
		StatsSpec:    DefaultStatsSpec,
	}
}

// NewTaskManager 创建任务管理器
func NewTaskManager(deps StatsTaskDeps, cfg *TaskManagerConfig) *TaskManager {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	tm := &TaskManager{}
	if cfg.StatsEnabled && deps.Metrics != nil {
		tm.statsTask = NewStatsTask(deps, cfg.StatsSpec)
	}
	return tm
}

// ==================== 生命周期管理 ====================

// Start 启动所有任务
func (tm *TaskManager) Start() error {
	logger.GetLogger().Info("[TaskManager] 正在启动后台任务...")

	if tm.statsTask != nil {
		if err := tm.statsTask.Start(); err != nil {
			return err
		}
	}
	return nil
}

// Stop 停止所有任务
func (tm *TaskManager) Stop() {
	if tm.statsTask != nil {
		tm.statsTask.Stop()
	}
	logger.GetLogger().Info("[TaskManager] 后台任务已全部停止")
}

// ==================== 手动触发接口 ====================

// TriggerStatsRefresh 立即刷新统计
func (tm *TaskManager) TriggerStatsRefresh(ctx context.Context) error {
	if tm.statsTask == nil {
		return ErrTaskDisabled
	}
	return tm.statsTask.RefreshNow(ctx)
}

// Status 获取任务状态
func (tm *TaskManager) Status() map[string]bool {
	return map[string]bool{
		"stats": tm.statsTask != nil,
	}
}

// ==================== 错误定义 ====================

type TaskError string

func (e TaskError) Error() string { return string(e) }

const (
	ErrTaskDisabled TaskError = "task is disabled"
)
