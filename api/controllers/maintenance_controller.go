/*
 * @module api/controllers/maintenance_controller
 * @description 预测性维护控制器，提供模型训练、风险预测和模型评估接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow HTTP请求 -> 管线调用 -> 按错误类别渲染响应
 * @rules 样本不足返回结构化报告而非失败；工件损坏和未见类别作为硬错误上报
 * @dependencies powergrid-service/service, powergrid-service/service/maintenance, github.com/prometheus/client_golang
 * @refs api/routes.go, service/maintenance/service.go
 */

package controllers

import (
	"errors"
	"net/http"

	"powergrid-service/service"
	"powergrid-service/service/cache"
	"powergrid-service/service/maintenance"
	"powergrid-service/service/models"

	"github.com/go-chi/render"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// 管线操作计数，按操作和结果分类
var maintenanceOps = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "powergrid_maintenance_operations_total",
	Help: "预测性维护管线操作计数",
}, []string{"operation", "status"})

// MaintenanceController 预测性维护控制器
type MaintenanceController struct {
	service *maintenance.MaintenanceService
	cache   *cache.ResultCache
}

// NewMaintenanceController 创建预测性维护控制器实例
func NewMaintenanceController() *MaintenanceController {
	return &MaintenanceController{
		service: service.GlobalMaintenanceService,
		cache:   service.GlobalResultCache,
	}
}

// TrainModel 训练预测性维护模型
// @Summary 训练预测性维护模型
// @Description 全量重新提取特征并训练风险分类模型，训练成功后原子替换持久化工件
// @Tags 预测性维护
// @Produce json
// @Success 200 {object} APIResponse{data=models.TrainResult}
// @Failure 500 {object} APIResponse
// @Router /api/ai/train-model [post]
func (c *MaintenanceController) TrainModel(w http.ResponseWriter, r *http.Request) {
	result, err := c.service.Train()
	if err != nil {
		maintenanceOps.WithLabelValues("train", "error").Inc()
		render.JSON(w, r, InternalErrorResponse("模型训练失败", err))
		return
	}

	if result.Success {
		maintenanceOps.WithLabelValues("train", "success").Inc()
		// 重训后预测结果缓存立即失效
		if c.cache != nil {
			_ = c.cache.Invalidate(r.Context(), cache.PredictionsKey)
		}
		render.JSON(w, r, SuccessResponse("模型训练成功", result))
		return
	}

	maintenanceOps.WithLabelValues("train", "insufficient_data").Inc()
	render.JSON(w, r, SuccessResponse(result.Message, result))
}

// GetPredictiveMaintenance 获取风险预测结果
// @Summary 获取风险预测结果
// @Description 返回预测为中/高风险的线路，按预测概率降序排列；工件缺失时同步触发训练
// @Tags 预测性维护
// @Produce json
// @Success 200 {object} APIResponse{data=[]models.RiskPrediction}
// @Failure 500 {object} APIResponse
// @Router /api/ai/predictive-maintenance [get]
func (c *MaintenanceController) GetPredictiveMaintenance(w http.ResponseWriter, r *http.Request) {
	if c.cache != nil {
		var cached []models.RiskPrediction
		hit, err := c.cache.Get(r.Context(), cache.PredictionsKey, &cached)
		if err == nil && hit {
			maintenanceOps.WithLabelValues("predict", "cache_hit").Inc()
			render.JSON(w, r, SuccessResponse("获取风险预测成功", cached))
			return
		}
	}

	predictions, err := c.service.PredictRisks()
	if err != nil {
		var insufficient *maintenance.InsufficientDataError
		if errors.As(err, &insufficient) {
			maintenanceOps.WithLabelValues("predict", "insufficient_data").Inc()
			render.JSON(w, r, SuccessResponse("训练样本不足，暂无法预测", models.InsufficientDataInfo{
				Error:          "Not enough data for prediction",
				Message:        insufficient.Error(),
				CurrentSamples: insufficient.CurrentSamples,
			}))
			return
		}
		maintenanceOps.WithLabelValues("predict", "error").Inc()
		render.JSON(w, r, InternalErrorResponse("风险预测失败", err))
		return
	}

	maintenanceOps.WithLabelValues("predict", "success").Inc()
	if c.cache != nil {
		_ = c.cache.Set(r.Context(), cache.PredictionsKey, predictions)
	}
	render.JSON(w, r, SuccessResponse("获取风险预测成功", predictions))
}

// GetModelMetrics 获取模型评估指标
// @Summary 获取模型评估指标
// @Description 基于80/20留出集训练临时模型并报告准确率、加权精确率/召回率/F1、特征重要度和混淆矩阵
// @Tags 预测性维护
// @Produce json
// @Success 200 {object} APIResponse{data=models.ModelMetrics}
// @Failure 500 {object} APIResponse
// @Router /api/ai/model-metrics [get]
func (c *MaintenanceController) GetModelMetrics(w http.ResponseWriter, r *http.Request) {
	metrics, err := c.service.Evaluate()
	if err != nil {
		var insufficient *maintenance.InsufficientDataError
		if errors.As(err, &insufficient) {
			maintenanceOps.WithLabelValues("evaluate", "insufficient_data").Inc()
			render.JSON(w, r, SuccessResponse("训练样本不足，暂无法评估", models.InsufficientDataInfo{
				Error:          "Not enough data for evaluation",
				Message:        insufficient.Error(),
				CurrentSamples: insufficient.CurrentSamples,
			}))
			return
		}
		maintenanceOps.WithLabelValues("evaluate", "error").Inc()
		render.JSON(w, r, InternalErrorResponse("模型评估失败", err))
		return
	}

	maintenanceOps.WithLabelValues("evaluate", "success").Inc()
	render.JSON(w, r, SuccessResponse("获取模型评估指标成功", metrics))
}
