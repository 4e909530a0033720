/*
 * @module service/maintenance/labeling_test
 * @description 风险标注启发式测试，覆盖优先级级联的边界条件
 * @architecture 测试层
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 构造特征记录 -> 标注 -> 断言标签
 * @rules 启发式为纯函数，相同输入必须产生相同标签
 * @dependencies testing, stretchr/testify
 * @refs labeling.go
 */

package maintenance

import (
	"testing"

	"powergrid-service/service/models"

	"github.com/stretchr/testify/assert"
)

func TestLabelRisk(t *testing.T) {
	tests := []struct {
		name     string
		record   models.FeatureRecord
		expected int
	}{
		{
			name:     "近期事件超过3次为高风险",
			record:   models.FeatureRecord{RecentIncidentCount: 4},
			expected: models.RiskHigh,
		},
		{
			name: "高风险优先于中风险分支",
			record: models.FeatureRecord{
				RecentIncidentCount: 4,
				LineAgeYears:        45,
				PoorTowerCount:      6,
			},
			expected: models.RiskHigh,
		},
		{
			name: "近期事件2次为中风险",
			record: models.FeatureRecord{
				RecentIncidentCount: 2,
				LineAgeYears:        5,
				PoorTowerCount:      0,
			},
			expected: models.RiskMedium,
		},
		{
			name:     "线龄超过30年为中风险",
			record:   models.FeatureRecord{LineAgeYears: 31},
			expected: models.RiskMedium,
		},
		{
			name:     "劣化杆塔超过2座为中风险",
			record:   models.FeatureRecord{PoorTowerCount: 3},
			expected: models.RiskMedium,
		},
		{
			name: "各项均低于阈值为低风险",
			record: models.FeatureRecord{
				RecentIncidentCount: 0,
				LineAgeYears:        10,
				PoorTowerCount:      0,
			},
			expected: models.RiskLow,
		},
		{
			name: "阈值边界取值不触发升级",
			record: models.FeatureRecord{
				RecentIncidentCount: 1,
				LineAgeYears:        30,
				PoorTowerCount:      2,
			},
			expected: models.RiskLow,
		},
		{
			name:     "近期事件3次仍为中风险",
			record:   models.FeatureRecord{RecentIncidentCount: 3},
			expected: models.RiskMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, LabelRisk(&tt.record))
			// 纯函数：重复调用结果一致
			assert.Equal(t, tt.expected, LabelRisk(&tt.record))
		})
	}
}

func TestLabelRiskRange(t *testing.T) {
	// 标签恒在{0,1,2}范围内
	for recent := 0; recent <= 10; recent++ {
		for poor := 0; poor <= 10; poor++ {
			record := models.FeatureRecord{
				RecentIncidentCount: recent,
				PoorTowerCount:      poor,
				LineAgeYears:        float64(recent * 7),
			}
			label := LabelRisk(&record)
			assert.GreaterOrEqual(t, label, models.RiskLow)
			assert.LessOrEqual(t, label, models.RiskHigh)
		}
	}
}
