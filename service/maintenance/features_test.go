/*
 * @module service/maintenance/features_test
 * @description 特征提取引擎测试：窗口边界、计数不变式、错误传播
 * @architecture 测试层
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 构造夹具 -> 固定评估时间 -> 提取 -> 断言特征记录
 * @rules 评估时间通过now字段注入，保证窗口断言不依赖真实时钟
 * @dependencies testing, stretchr/testify
 * @refs features.go, fixture_test.go
 */

package maintenance

import (
	"errors"
	"testing"
	"time"

	"powergrid-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedExtractor(reader AssetReader, evalDate time.Time) *FeatureExtractor {
	extractor := NewFeatureExtractor(reader)
	extractor.now = func() time.Time { return evalDate }
	return extractor
}

func TestExtractBasicJoin(t *testing.T) {
	evalDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	reader := newFixtureReader()
	reader.lines = []models.TransmissionLine{
		{
			ID:             "line-1",
			LineName:       "220 KV ALPHA",
			VoltageLevel:   "220 KV",
			CommissionDate: evalDate.AddDate(-10, 0, 0),
			TotalLengthKM:  123.4,
		},
	}
	reader.incidents["line-1"] = []models.TrippingIncident{
		{ID: "i-1", TransmissionLineID: "line-1", FaultDate: evalDate.AddDate(0, 0, -30)},
		{ID: "i-2", TransmissionLineID: "line-1", FaultDate: evalDate.AddDate(-2, 0, 0)},
	}
	reader.towers["line-1"] = []models.TowerLocation{
		{ID: "t-1", TransmissionLineID: "line-1", Condition: models.TowerConditionGood},
		{ID: "t-2", TransmissionLineID: "line-1", Condition: models.TowerConditionNeedsInspection},
		{ID: "t-3", TransmissionLineID: "line-1", Condition: models.TowerConditionUnderRepair},
	}

	records, err := fixedExtractor(reader, evalDate).Extract()
	require.NoError(t, err)
	require.Len(t, records, 1)

	record := records[0]
	assert.Equal(t, "line-1", record.LineID)
	assert.Equal(t, "220 KV ALPHA", record.LineName)
	assert.Equal(t, "220 KV", record.VoltageLevel)
	assert.Equal(t, 123.4, record.TotalLengthKM)
	assert.InDelta(t, 10.0, record.LineAgeYears, 0.02)
	assert.Equal(t, 2, record.IncidentCount)
	assert.Equal(t, 1, record.RecentIncidentCount)
	assert.Equal(t, 3, record.TowerCount)
	assert.Equal(t, 2, record.PoorTowerCount)
}

func TestExtractRecentWindowBoundary(t *testing.T) {
	evalDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	reader := newFixtureReader()
	reader.lines = []models.TransmissionLine{
		{ID: "line-1", VoltageLevel: "132 KV", CommissionDate: evalDate.AddDate(-5, 0, 0)},
	}
	reader.incidents["line-1"] = []models.TrippingIncident{
		// 正好180天前，闭区间内计入
		{ID: "i-edge", FaultDate: evalDate.Add(-recentIncidentWindowDays * day)},
		// 181天前，窗口外
		{ID: "i-out", FaultDate: evalDate.Add(-(recentIncidentWindowDays + 1) * day)},
		// 正好评估时间当天计入
		{ID: "i-now", FaultDate: evalDate},
		// 未来日期不计入近期
		{ID: "i-future", FaultDate: evalDate.AddDate(0, 0, 1)},
	}

	records, err := fixedExtractor(reader, evalDate).Extract()
	require.NoError(t, err)
	require.Len(t, records, 1)

	assert.Equal(t, 4, records[0].IncidentCount)
	assert.Equal(t, 2, records[0].RecentIncidentCount)
}

func TestExtractInvariants(t *testing.T) {
	evalDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	reader := newFixtureReader()
	reader.addLine("a", "132 KV", 12, 3, 1)
	reader.addLine("b", "220 KV", 40, 0, 4)
	reader.addLine("c", "400 KV", 2, 6, 0)

	records, err := fixedExtractor(reader, evalDate).Extract()
	require.NoError(t, err)
	require.Len(t, records, 3)

	for _, record := range records {
		assert.LessOrEqual(t, record.RecentIncidentCount, record.IncidentCount)
		assert.LessOrEqual(t, record.PoorTowerCount, record.TowerCount)
	}
}

func TestExtractFutureCommissionDate(t *testing.T) {
	evalDate := time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC)
	reader := newFixtureReader()
	reader.lines = []models.TransmissionLine{
		// 尚未投运的线路，线龄为负值
		{ID: "line-1", VoltageLevel: "400 KV", CommissionDate: evalDate.AddDate(1, 0, 0)},
	}

	records, err := fixedExtractor(reader, evalDate).Extract()
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Negative(t, records[0].LineAgeYears)
}

func TestExtractNoLines(t *testing.T) {
	reader := newFixtureReader()
	records, err := NewFeatureExtractor(reader).Extract()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestExtractPropagatesReaderErrors(t *testing.T) {
	queryErr := errors.New("connection reset")

	reader := newFixtureReader()
	reader.linesErr = queryErr
	_, err := NewFeatureExtractor(reader).Extract()
	assert.ErrorIs(t, err, queryErr)

	reader = newFixtureReader()
	reader.addLine("a", "132 KV", 10, 0, 0)
	reader.incidentsErr = queryErr
	_, err = NewFeatureExtractor(reader).Extract()
	assert.ErrorIs(t, err, queryErr)

	reader = newFixtureReader()
	reader.addLine("a", "132 KV", 10, 0, 0)
	reader.towersErr = queryErr
	_, err = NewFeatureExtractor(reader).Extract()
	assert.ErrorIs(t, err, queryErr)
}
