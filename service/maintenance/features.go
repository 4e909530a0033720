/*
 * @module service/maintenance/features
 * @description 特征提取引擎，将线路/事件/杆塔三类记录连接为每线路一行的特征表
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 读取线路 -> 逐线路连接事件与杆塔 -> 归约为特征记录
 * @rules 纯读取归约，无副作用；评估时间每次调用取当前时间，不缓存；结果全量物化后返回
 * @dependencies powergrid-service/service/models
 * @refs reader.go, service.go
 */

package maintenance

import (
	"time"

	"powergrid-service/service/models"
)

// 近期事件统计的回溯窗口
const recentIncidentWindowDays = 180

// 一天的时长，线龄按天数/365折算为年
const day = 24 * time.Hour

// 特征矩阵的列顺序，持久化模型依赖的契约，变更后必须重新训练
var featureColumns = []string{
	"total_length_km",
	"line_age_years",
	"incident_count",
	"recent_incidents",
	"tower_count",
	"poor_tower_count",
	"voltage_encoded",
}

// FeatureExtractor 特征提取引擎
// 评估时间通过now注入，生产路径使用time.Now
type FeatureExtractor struct {
	reader AssetReader
	now    func() time.Time
}

// NewFeatureExtractor 创建特征提取引擎
func NewFeatureExtractor(reader AssetReader) *FeatureExtractor {
	return &FeatureExtractor{
		reader: reader,
		now:    time.Now,
	}
}

// Extract 为存储中的每条线路生成一条特征记录，顺序与存储返回顺序一致
// 查询失败时原样上抛，不重试也不返回部分结果
func (e *FeatureExtractor) Extract() ([]models.FeatureRecord, error) {
	lines, err := e.reader.ListLines()
	if err != nil {
		return nil, err
	}

	evalDate := e.now()
	windowStart := evalDate.Add(-recentIncidentWindowDays * day)
	records := make([]models.FeatureRecord, 0, len(lines))

	for _, line := range lines {
		incidents, err := e.reader.ListIncidentsForLine(line.ID)
		if err != nil {
			return nil, err
		}
		towers, err := e.reader.ListTowersForLine(line.ID)
		if err != nil {
			return nil, err
		}

		recentIncidents := 0
		for _, incident := range incidents {
			// 闭区间 [评估时间-180天, 评估时间]
			if !incident.FaultDate.Before(windowStart) && !incident.FaultDate.After(evalDate) {
				recentIncidents++
			}
		}

		poorTowers := 0
		for _, tower := range towers {
			if tower.Condition == models.TowerConditionNeedsInspection ||
				tower.Condition == models.TowerConditionUnderRepair {
				poorTowers++
			}
		}

		// 投运日期晚于评估时间时线龄为负值，表示尚未投运的线路，不做特殊处理
		lineAge := evalDate.Sub(line.CommissionDate).Hours() / 24 / 365

		records = append(records, models.FeatureRecord{
			LineID:              line.ID,
			LineName:            line.LineName,
			VoltageLevel:        line.VoltageLevel,
			TotalLengthKM:       line.TotalLengthKM,
			LineAgeYears:        lineAge,
			IncidentCount:       len(incidents),
			RecentIncidentCount: recentIncidents,
			TowerCount:          len(towers),
			PoorTowerCount:      poorTowers,
		})
	}

	return records, nil
}

// featureVector 按固定列顺序组装数值特征向量
func featureVector(record *models.FeatureRecord, voltageCode int) []float64 {
	return []float64{
		record.TotalLengthKM,
		record.LineAgeYears,
		float64(record.IncidentCount),
		float64(record.RecentIncidentCount),
		float64(record.TowerCount),
		float64(record.PoorTowerCount),
		float64(voltageCode),
	}
}
