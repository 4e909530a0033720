/*
 * @module service/maintenance/fixture_test
 * @description 预测性维护管线测试夹具，提供无存储依赖的内存资产读取器
 * @architecture 测试基础设施
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 构造内存夹具 -> 注入管线 -> 执行测试
 * @rules 夹具实现AssetReader接口，可注入指定错误验证错误传播
 * @dependencies powergrid-service/service/models
 * @refs reader.go, features.go
 */

package maintenance

import (
	"fmt"
	"time"

	"powergrid-service/service/models"
)

// fixtureReader 内存资产读取器
type fixtureReader struct {
	lines        []models.TransmissionLine
	incidents    map[string][]models.TrippingIncident
	towers       map[string][]models.TowerLocation
	linesErr     error
	incidentsErr error
	towersErr    error
}

func newFixtureReader() *fixtureReader {
	return &fixtureReader{
		incidents: make(map[string][]models.TrippingIncident),
		towers:    make(map[string][]models.TowerLocation),
	}
}

func (r *fixtureReader) ListLines() ([]models.TransmissionLine, error) {
	if r.linesErr != nil {
		return nil, r.linesErr
	}
	return r.lines, nil
}

func (r *fixtureReader) ListIncidentsForLine(lineID string) ([]models.TrippingIncident, error) {
	if r.incidentsErr != nil {
		return nil, r.incidentsErr
	}
	return r.incidents[lineID], nil
}

func (r *fixtureReader) ListTowersForLine(lineID string) ([]models.TowerLocation, error) {
	if r.towersErr != nil {
		return nil, r.towersErr
	}
	return r.towers[lineID], nil
}

// addLine 添加一条线路，长度按序号递增以保证特征可区分
func (r *fixtureReader) addLine(id, voltage string, ageYears float64, recentIncidents, poorTowers int) {
	now := time.Now()
	r.lines = append(r.lines, models.TransmissionLine{
		ID:             id,
		LineName:       fmt.Sprintf("%s LINE-%s", voltage, id),
		VoltageLevel:   voltage,
		CommissionDate: now.AddDate(0, 0, -int(ageYears*365)),
		TotalLengthKM:  50 + float64(len(r.lines))*7.5,
	})

	for i := 0; i < recentIncidents; i++ {
		r.incidents[id] = append(r.incidents[id], models.TrippingIncident{
			ID:                 fmt.Sprintf("%s-incident-%d", id, i),
			TransmissionLineID: id,
			FaultDate:          now.AddDate(0, 0, -(10 + i*7)),
			FaultType:          "Lightning",
		})
	}

	// 每条线路固定5座杆塔，其中poorTowers座为劣化状态
	for i := 0; i < 5; i++ {
		condition := models.TowerConditionGood
		if i < poorTowers {
			condition = models.TowerConditionNeedsInspection
		}
		r.towers[id] = append(r.towers[id], models.TowerLocation{
			ID:                 fmt.Sprintf("%s-tower-%d", id, i),
			TransmissionLineID: id,
			TowerNumber:        fmt.Sprintf("T-%03d", i+1),
			Condition:          condition,
		})
	}
}
