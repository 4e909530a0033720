/*
 * @module service/scheduler/retrain_scheduler
 * @description 模型重训调度器，按cron表达式周期性触发批量重训
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 启动调度器 -> 注册cron任务 -> 定时触发训练 -> 停止释放
 * @rules 重训仍是批量全量重算，训练失败只记录日志不中断调度；重复启动返回错误
 * @dependencies github.com/robfig/cron/v3, powergrid-service/service/maintenance
 * @refs service/maintenance/service.go, service/init.go
 */

package scheduler

import (
	"fmt"
	"log/slog"

	"powergrid-service/service/maintenance"

	"github.com/robfig/cron/v3"
)

// 默认每天凌晨2点重训
const DefaultRetrainCron = "0 0 2 * * *"

// RetrainScheduler 模型重训调度器
type RetrainScheduler struct {
	service *maintenance.MaintenanceService
	cron    *cron.Cron
	started bool
}

// NewRetrainScheduler 创建模型重训调度器
func NewRetrainScheduler(service *maintenance.MaintenanceService) *RetrainScheduler {
	return &RetrainScheduler{
		service: service,
		cron:    cron.New(cron.WithSeconds()),
	}
}

// Start 按cron表达式启动周期重训
func (s *RetrainScheduler) Start(cronExpr string) error {
	if s.started {
		return fmt.Errorf("重训调度器已经启动")
	}
	if cronExpr == "" {
		cronExpr = DefaultRetrainCron
	}

	_, err := s.cron.AddFunc(cronExpr, func() {
		slog.Info("开始周期性模型重训")
		result, err := s.service.Train()
		if err != nil {
			slog.Error("周期性模型重训失败", "error", err)
			return
		}
		if !result.Success {
			slog.Warn("周期性模型重训跳过", "message", result.Message, "samples", result.SampleCount)
			return
		}
		slog.Info("周期性模型重训完成", "samples", result.SampleCount)
	})
	if err != nil {
		return fmt.Errorf("注册重训任务失败: %w", err)
	}

	s.cron.Start()
	s.started = true
	slog.Info("模型重训调度器启动完成", "cron", cronExpr)
	return nil
}

// Stop 停止调度器
func (s *RetrainScheduler) Stop() {
	if !s.started {
		return
	}
	s.cron.Stop()
	s.started = false
	slog.Info("模型重训调度器已停止")
}
