/*
 * @module service/maintenance/service_test
 * @description 预测性维护服务端到端测试：训练门槛、冷启动、推理过滤排序与评估指标
 * @architecture 测试层
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 内存夹具+临时工件目录 -> 执行管线 -> 断言行为
 * @rules 全程不连接数据库，资产读取由fixtureReader提供
 * @dependencies testing, stretchr/testify
 * @refs service.go, fixture_test.go
 */

package maintenance

import (
	"errors"
	"testing"

	"powergrid-service/service/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type MaintenanceServiceTestSuite struct {
	suite.Suite
	reader *fixtureReader
	store  *ArtifactStore
}

func (s *MaintenanceServiceTestSuite) SetupTest() {
	s.reader = newFixtureReader()

	store, err := NewArtifactStore(s.T().TempDir())
	s.Require().NoError(err)
	s.store = store
}

func (s *MaintenanceServiceTestSuite) newService(autoTrain bool) *MaintenanceService {
	return NewMaintenanceService(s.reader, s.store, autoTrain)
}

// addHealthyLines 添加n条低风险线路
func (s *MaintenanceServiceTestSuite) addHealthyLines(n int) {
	voltages := []string{"132 KV", "220 KV", "400 KV"}
	for i := 0; i < n; i++ {
		s.reader.addLine(
			string(rune('a'+i)),
			voltages[i%len(voltages)],
			float64(5+i), // 线龄均低于30年
			0,
			0,
		)
	}
}

func (s *MaintenanceServiceTestSuite) TestTrainInsufficientSamples() {
	s.addHealthyLines(9)

	result, err := s.newService(false).Train()
	s.Require().NoError(err)
	s.False(result.Success)
	s.Equal(9, result.SampleCount)
	s.Contains(result.Message, "训练样本不足")

	// 失败的训练不得留下工件
	_, _, err = s.store.Load()
	s.ErrorIs(err, ErrArtifactNotFound)
}

func (s *MaintenanceServiceTestSuite) TestTrainSuccess() {
	s.addHealthyLines(10)

	result, err := s.newService(false).Train()
	s.Require().NoError(err)
	s.True(result.Success)
	s.Equal(10, result.SampleCount)

	model, encoder, err := s.store.Load()
	s.Require().NoError(err)
	s.NotNil(model)
	s.Equal([]string{"132 KV", "220 KV", "400 KV"}, encoder.Classes)
}

func (s *MaintenanceServiceTestSuite) TestPredictWithoutArtifactNoAutoTrain() {
	s.addHealthyLines(10)

	_, err := s.newService(false).PredictRisks()
	s.ErrorIs(err, ErrArtifactNotFound)
}

func (s *MaintenanceServiceTestSuite) TestPredictAutoTrainColdStart() {
	s.addHealthyLines(11)
	s.reader.addLine("flagged", "220 KV", 8, 5, 0)

	// 未显式训练过，推理应自行触发训练并返回结果
	predictions, err := s.newService(true).PredictRisks()
	s.Require().NoError(err)

	_, _, loadErr := s.store.Load()
	s.NoError(loadErr)

	s.Require().Len(predictions, 1)
	s.Equal("flagged", predictions[0].LineID)
}

func (s *MaintenanceServiceTestSuite) TestPredictAutoTrainInsufficientData() {
	s.addHealthyLines(5)

	_, err := s.newService(true).PredictRisks()
	s.Require().Error(err)

	var insufficient *InsufficientDataError
	s.Require().True(errors.As(err, &insufficient))
	s.Equal(5, insufficient.CurrentSamples)
	s.Equal(minTrainingSamples, insufficient.RequiredSamples)
}

func (s *MaintenanceServiceTestSuite) TestPredictFiltersAndSorts() {
	s.addHealthyLines(8)
	s.reader.addLine("old-1", "220 KV", 40, 0, 0)  // 线龄超标，中风险
	s.reader.addLine("old-2", "132 KV", 45, 0, 0)  // 线龄超标，中风险
	s.reader.addLine("hot-1", "400 KV", 10, 5, 0)  // 近期事件超标，高风险
	s.reader.addLine("hot-2", "220 KV", 12, 6, 1)  // 近期事件超标，高风险

	service := s.newService(false)
	result, err := service.Train()
	s.Require().NoError(err)
	s.Require().True(result.Success)

	predictions, err := service.PredictRisks()
	s.Require().NoError(err)
	s.Require().NotEmpty(predictions)

	for i, p := range predictions {
		// 低风险线路全部被过滤
		s.GreaterOrEqual(p.PredictedRisk, models.RiskMedium)
		s.GreaterOrEqual(p.RiskProbability, 0.0)
		s.LessOrEqual(p.RiskProbability, 1.0)
		// 按预测概率非递增排列
		if i > 0 {
			s.GreaterOrEqual(predictions[i-1].RiskProbability, p.RiskProbability)
		}
	}
}

func (s *MaintenanceServiceTestSuite) TestPredictDeterministic() {
	s.addHealthyLines(10)
	s.reader.addLine("flagged", "220 KV", 8, 5, 0)

	service := s.newService(false)
	_, err := service.Train()
	s.Require().NoError(err)

	first, err := service.PredictRisks()
	s.Require().NoError(err)
	second, err := service.PredictRisks()
	s.Require().NoError(err)

	s.Require().Len(second, len(first))
	for i := range first {
		s.Equal(first[i].LineID, second[i].LineID)
		s.Equal(first[i].PredictedRisk, second[i].PredictedRisk)
		s.InDelta(first[i].RiskProbability, second[i].RiskProbability, 1e-6)
	}
}

func (s *MaintenanceServiceTestSuite) TestPredictUnseenVoltageLevel() {
	s.addHealthyLines(10)

	service := s.newService(false)
	_, err := service.Train()
	s.Require().NoError(err)

	// 训练后录入了编码器未见过的电压等级
	s.reader.addLine("new-voltage", "765 KV", 3, 0, 0)

	_, err = service.PredictRisks()
	s.Require().Error(err)

	var unseen *UnseenCategoryError
	s.Require().True(errors.As(err, &unseen))
	s.Equal("765 KV", unseen.Value)
}

func (s *MaintenanceServiceTestSuite) TestEvaluateInsufficientData() {
	s.addHealthyLines(9)

	_, err := s.newService(false).Evaluate()
	s.Require().Error(err)

	var insufficient *InsufficientDataError
	s.Require().True(errors.As(err, &insufficient))
	s.Equal(9, insufficient.CurrentSamples)
}

func (s *MaintenanceServiceTestSuite) TestEvaluateMetrics() {
	s.addHealthyLines(11)
	s.reader.addLine("flagged", "220 KV", 8, 5, 0)

	metrics, err := s.newService(false).Evaluate()
	s.Require().NoError(err)

	s.Equal(12, metrics.TotalSamples)
	s.Equal(metrics.TotalSamples, metrics.TrainingSamples+metrics.TestSamples)
	s.Positive(metrics.TestSamples)

	s.GreaterOrEqual(metrics.Accuracy, 0.0)
	s.LessOrEqual(metrics.Accuracy, 1.0)
	s.GreaterOrEqual(metrics.F1Score, 0.0)
	s.LessOrEqual(metrics.F1Score, 1.0)

	// 标签分布：11条低风险，1条高风险
	s.Equal(11, metrics.RiskDistribution.Low)
	s.Equal(0, metrics.RiskDistribution.Medium)
	s.Equal(1, metrics.RiskDistribution.High)

	// 混淆矩阵行和等于测试集各类支持度之和
	s.Require().Len(metrics.ConfusionMatrix, riskClassCount)
	cells := 0
	for _, row := range metrics.ConfusionMatrix {
		s.Require().Len(row, riskClassCount)
		for _, v := range row {
			cells += v
		}
	}
	s.Equal(metrics.TestSamples, cells)

	// 特征重要度覆盖全部特征列且降序排列
	s.Require().Len(metrics.FeatureImportance, len(featureColumns))
	names := make(map[string]bool)
	sum := 0.0
	for i, fi := range metrics.FeatureImportance {
		names[fi.Name] = true
		sum += fi.Importance
		if i > 0 {
			s.GreaterOrEqual(metrics.FeatureImportance[i-1].Importance, fi.Importance)
		}
	}
	for _, column := range featureColumns {
		s.True(names[column], "缺少特征列 %s", column)
	}
	s.InDelta(1.0, sum, 1e-9)
}

func (s *MaintenanceServiceTestSuite) TestEvaluateSingleClass() {
	// 全部低风险时退化为普通随机切分，指标仍可计算
	s.addHealthyLines(10)

	metrics, err := s.newService(false).Evaluate()
	s.Require().NoError(err)

	s.Equal(10, metrics.TotalSamples)
	s.Equal(10, metrics.RiskDistribution.Low)
	// 单一类别训练集上测试集应全部命中
	s.InDelta(1.0, metrics.Accuracy, 1e-9)
}

func (s *MaintenanceServiceTestSuite) TestTrainPropagatesReaderError() {
	s.reader.linesErr = errors.New("connection refused")

	_, err := s.newService(false).Train()
	s.Require().Error(err)
	s.Contains(err.Error(), "提取训练特征失败")
}

func TestMaintenanceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(MaintenanceServiceTestSuite))
}

func TestFeatureVectorColumnOrder(t *testing.T) {
	record := models.FeatureRecord{
		TotalLengthKM:       120.5,
		LineAgeYears:        18.2,
		IncidentCount:       7,
		RecentIncidentCount: 2,
		TowerCount:          40,
		PoorTowerCount:      3,
	}

	vector := featureVector(&record, 1)
	require.Len(t, vector, len(featureColumns))
	assert.Equal(t, []float64{120.5, 18.2, 7, 2, 40, 3, 1}, vector)
}
