/*
 * @module service/models/maintenance_models
 * @description 预测性维护相关模型定义，包括特征记录、风险预测结果和模型评估报告
 * @architecture DDD领域驱动设计 - 值对象
 * @documentReference dev_docs/model.md
 * @stateFlow 特征提取 -> 训练/推理/评估 -> 结果输出
 * @rules 特征记录为瞬态数据，每次调用重新计算，风险标签不落库
 * @dependencies 无
 * @refs service/maintenance/
 */

package models

import "time"

// 风险等级，由标注启发式产生或由分类器预测
const (
	RiskLow    = 0
	RiskMedium = 1
	RiskHigh   = 2
)

// FeatureRecord 每条输电线路的特征记录，临时数据，每次调用重新计算
type FeatureRecord struct {
	LineID              string  `json:"line_id"`
	LineName            string  `json:"line_name"`
	VoltageLevel        string  `json:"voltage_level"`
	TotalLengthKM       float64 `json:"total_length_km"`
	LineAgeYears        float64 `json:"line_age_years"`
	IncidentCount       int     `json:"incident_count"`
	RecentIncidentCount int     `json:"recent_incident_count"`
	TowerCount          int     `json:"tower_count"`
	PoorTowerCount      int     `json:"poor_tower_count"`
	// 风险标签，仅训练和评估阶段由启发式填充，不持久化
	RiskLevel int `json:"risk_level"`
}

// TrainResult 模型训练结果
type TrainResult struct {
	Success     bool      `json:"success"`
	SampleCount int       `json:"sample_count"`
	Message     string    `json:"message"`
	TrainedAt   time.Time `json:"trained_at,omitempty"`
}

// RiskPrediction 单条线路的风险预测结果
type RiskPrediction struct {
	LineID              string  `json:"line_id"`
	LineName            string  `json:"line_name"`
	VoltageLevel        string  `json:"voltage_level"`
	LineAgeYears        float64 `json:"line_age_years"`
	RecentIncidentCount int     `json:"recent_incidents"`
	PredictedRisk       int     `json:"predicted_risk"`
	RiskProbability     float64 `json:"risk_probability"`
}

// FeatureImportance 单个特征的重要度
type FeatureImportance struct {
	Name       string  `json:"name"`
	Importance float64 `json:"importance"`
}

// RiskDistribution 全量数据集上的风险等级分布
type RiskDistribution struct {
	Low    int `json:"low"`
	Medium int `json:"medium"`
	High   int `json:"high"`
}

// ModelMetrics 模型评估报告，基于80/20留出集的诚实估计
type ModelMetrics struct {
	Accuracy          float64             `json:"accuracy"`
	Precision         float64             `json:"precision"`
	Recall            float64             `json:"recall"`
	F1Score           float64             `json:"f1_score"`
	TrainingSamples   int                 `json:"training_samples"`
	TestSamples       int                 `json:"test_samples"`
	TotalSamples      int                 `json:"total_samples"`
	FeatureImportance []FeatureImportance `json:"feature_importance"`
	ConfusionMatrix   [][]int             `json:"confusion_matrix"`
	RiskDistribution  RiskDistribution    `json:"risk_distribution"`
}

// InsufficientDataInfo 样本不足时返回的结构化报告
type InsufficientDataInfo struct {
	Error          string `json:"error"`
	Message        string `json:"message"`
	CurrentSamples int    `json:"current_samples"`
}
