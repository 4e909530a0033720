/*
 * @module service/maintenance/labeling
 * @description 风险标注启发式，将派生特征映射为三级有序风险标签
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 特征记录 -> 优先级级联判定 -> 风险标签
 * @rules 高风险分支优先判定且与中风险分支互斥，阈值为系统唯一可调参数
 * @dependencies powergrid-service/service/models
 * @refs features.go, service.go
 */

package maintenance

import "powergrid-service/service/models"

// 标注启发式的阈值常量，整个系统的可调参数面
const (
	// HighRiskRecentIncidents 近180天事件数超过该值判定为高风险
	HighRiskRecentIncidents = 3
	// MediumRiskRecentIncidents 近180天事件数超过该值判定为中风险
	MediumRiskRecentIncidents = 1
	// MediumRiskLineAgeYears 线龄超过该值判定为中风险
	MediumRiskLineAgeYears = 30.0
	// MediumRiskPoorTowers 劣化杆塔数超过该值判定为中风险
	MediumRiskPoorTowers = 2
)

// LabelRisk 风险标注启发式，纯函数，仅在训练和评估阶段作为监督目标使用
// 优先级级联：高风险分支先判定且与中风险分支互斥
func LabelRisk(record *models.FeatureRecord) int {
	if record.RecentIncidentCount > HighRiskRecentIncidents {
		return models.RiskHigh
	}
	if record.RecentIncidentCount > MediumRiskRecentIncidents ||
		record.LineAgeYears > MediumRiskLineAgeYears ||
		record.PoorTowerCount > MediumRiskPoorTowers {
		return models.RiskMedium
	}
	return models.RiskLow
}
