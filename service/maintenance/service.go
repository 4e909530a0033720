/*
 * @module service/maintenance/service
 * @description 预测性维护服务，编排特征提取、标注、训练、推理与评估管线
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 训练: 提取->标注->编码->拟合->持久化；推理: 加载工件->提取->编码->预测->排序；评估: 提取->标注->切分->临时拟合->指标
 * @rules 训练使用全量数据，评估使用独立的临时模型保证留出集指标诚实；推理冷启动时是否自动训练由构造方显式决定
 * @dependencies powergrid-service/service/models, log/slog
 * @refs features.go, labeling.go, forest.go, artifact.go
 */

package maintenance

import (
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sort"
	"time"

	"powergrid-service/service/models"
)

// 训练样本下限，低于该值的三分类拟合没有统计意义，分层切分也无法定义
const minTrainingSamples = 10

// 风险标签类别数
const riskClassCount = 3

// MaintenanceService 预测性维护服务
type MaintenanceService struct {
	extractor *FeatureExtractor
	artifacts *ArtifactStore
	config    ForestConfig
	// autoTrain 为真时推理在工件缺失的冷存储上同步触发一次训练
	autoTrain bool
}

// NewMaintenanceService 创建预测性维护服务
// autoTrain由调用方决定：API进程传true实现冷启动自愈，测试或批处理可传false快速失败
func NewMaintenanceService(reader AssetReader, artifacts *ArtifactStore, autoTrain bool) *MaintenanceService {
	return &MaintenanceService{
		extractor: NewFeatureExtractor(reader),
		artifacts: artifacts,
		config:    DefaultForestConfig(),
		autoTrain: autoTrain,
	}
}

// Train 训练管线：提取全量特征 -> 标注 -> 编码 -> 全量拟合 -> 原子持久化
// 样本不足返回失败结果而非错误，等待更多记录录入后可恢复
func (s *MaintenanceService) Train() (*models.TrainResult, error) {
	records, err := s.extractor.Extract()
	if err != nil {
		return nil, fmt.Errorf("提取训练特征失败: %w", err)
	}

	if len(records) < minTrainingSamples {
		slog.Warn("训练样本不足，跳过本次训练",
			"current_samples", len(records),
			"required_samples", minTrainingSamples)
		return &models.TrainResult{
			Success:     false,
			SampleCount: len(records),
			Message:     fmt.Sprintf("训练样本不足: 当前%d条, 至少需要%d条输电线路", len(records), minTrainingSamples),
		}, nil
	}

	features, labels, encoder, err := s.assembleTrainingSet(records)
	if err != nil {
		return nil, err
	}

	forest, err := TrainForest(features, labels, riskClassCount, s.config)
	if err != nil {
		return nil, fmt.Errorf("训练分类器失败: %w", err)
	}

	if err := s.artifacts.Save(forest, encoder, len(records)); err != nil {
		return nil, fmt.Errorf("持久化模型工件失败: %w", err)
	}

	slog.Info("预测性维护模型训练完成",
		"samples", len(records),
		"trees", s.config.TreeCount)
	return &models.TrainResult{
		Success:     true,
		SampleCount: len(records),
		Message:     "模型训练成功",
		TrainedAt:   time.Now(),
	}, nil
}

// PredictRisks 推理管线：加载持久化工件 -> 重新提取当前特征 -> 预测 -> 过滤排序
// 只返回中/高风险线路，按预测类别概率降序排列，同概率保持提取顺序
func (s *MaintenanceService) PredictRisks() ([]models.RiskPrediction, error) {
	model, encoder, err := s.artifacts.Load()
	if errors.Is(err, ErrArtifactNotFound) && s.autoTrain {
		slog.Info("模型工件不存在，推理前同步触发训练")
		result, trainErr := s.Train()
		if trainErr != nil {
			return nil, trainErr
		}
		if !result.Success {
			return nil, &InsufficientDataError{
				CurrentSamples:  result.SampleCount,
				RequiredSamples: minTrainingSamples,
			}
		}
		model, encoder, err = s.artifacts.Load()
	}
	if err != nil {
		return nil, err
	}

	records, err := s.extractor.Extract()
	if err != nil {
		return nil, fmt.Errorf("提取推理特征失败: %w", err)
	}

	predictions := make([]models.RiskPrediction, 0, len(records))
	for i := range records {
		record := &records[i]

		code, err := encoder.Transform(record.VoltageLevel)
		if err != nil {
			return nil, err
		}

		predicted, probability, err := model.Predict(featureVector(record, code))
		if err != nil {
			return nil, err
		}
		if predicted < models.RiskMedium {
			continue
		}

		predictions = append(predictions, models.RiskPrediction{
			LineID:              record.LineID,
			LineName:            record.LineName,
			VoltageLevel:        record.VoltageLevel,
			LineAgeYears:        record.LineAgeYears,
			RecentIncidentCount: record.RecentIncidentCount,
			PredictedRisk:       predicted,
			RiskProbability:     probability,
		})
	}

	// 稳定排序，保证同概率行的输出顺序可复现
	sort.SliceStable(predictions, func(i, j int) bool {
		return predictions[i].RiskProbability > predictions[j].RiskProbability
	})

	return predictions, nil
}

// Evaluate 评估管线：80/20切分 -> 训练集上拟合临时模型 -> 测试集上打分
// 临时模型用后即弃，从不触碰持久化工件，保证指标不被生产推理污染
func (s *MaintenanceService) Evaluate() (*models.ModelMetrics, error) {
	records, err := s.extractor.Extract()
	if err != nil {
		return nil, fmt.Errorf("提取评估特征失败: %w", err)
	}

	if len(records) < minTrainingSamples {
		return nil, &InsufficientDataError{
			CurrentSamples:  len(records),
			RequiredSamples: minTrainingSamples,
		}
	}

	features, labels, _, err := s.assembleTrainingSet(records)
	if err != nil {
		return nil, err
	}

	distribution := models.RiskDistribution{}
	distinct := make(map[int]struct{})
	for _, label := range labels {
		distinct[label] = struct{}{}
		switch label {
		case models.RiskLow:
			distribution.Low++
		case models.RiskMedium:
			distribution.Medium++
		case models.RiskHigh:
			distribution.High++
		}
	}

	// 单一类别的数据集无法分层，退化为普通随机切分
	rng := rand.New(rand.NewSource(s.config.Seed))
	trainIdx, testIdx := trainTestSplit(labels, rng, len(distinct) > 1)

	trainX := make([][]float64, 0, len(trainIdx))
	trainY := make([]int, 0, len(trainIdx))
	for _, i := range trainIdx {
		trainX = append(trainX, features[i])
		trainY = append(trainY, labels[i])
	}

	forest, err := TrainForest(trainX, trainY, riskClassCount, s.config)
	if err != nil {
		return nil, fmt.Errorf("训练评估模型失败: %w", err)
	}

	testY := make([]int, 0, len(testIdx))
	predY := make([]int, 0, len(testIdx))
	for _, i := range testIdx {
		predicted, _, err := forest.Predict(features[i])
		if err != nil {
			return nil, err
		}
		testY = append(testY, labels[i])
		predY = append(predY, predicted)
	}

	precision, recall, f1 := weightedScores(testY, predY, riskClassCount)

	importances := forest.FeatureImportances()
	ranked := make([]models.FeatureImportance, len(featureColumns))
	for i, name := range featureColumns {
		ranked[i] = models.FeatureImportance{Name: name, Importance: importances[i]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Importance > ranked[j].Importance
	})

	return &models.ModelMetrics{
		Accuracy:          accuracyScore(testY, predY),
		Precision:         precision,
		Recall:            recall,
		F1Score:           f1,
		TrainingSamples:   len(trainIdx),
		TestSamples:       len(testIdx),
		TotalSamples:      len(records),
		FeatureImportance: ranked,
		ConfusionMatrix:   confusionMatrix(testY, predY, riskClassCount),
		RiskDistribution:  distribution,
	}, nil
}

// assembleTrainingSet 标注全部记录并组装监督学习用的特征矩阵与标签
func (s *MaintenanceService) assembleTrainingSet(records []models.FeatureRecord) ([][]float64, []int, *LabelEncoder, error) {
	voltages := make([]string, len(records))
	labels := make([]int, len(records))
	for i := range records {
		records[i].RiskLevel = LabelRisk(&records[i])
		labels[i] = records[i].RiskLevel
		voltages[i] = records[i].VoltageLevel
	}

	encoder := FitLabelEncoder("voltage_level", voltages)
	features := make([][]float64, len(records))
	for i := range records {
		code, err := encoder.Transform(records[i].VoltageLevel)
		if err != nil {
			return nil, nil, nil, err
		}
		features[i] = featureVector(&records[i], code)
	}

	return features, labels, encoder, nil
}
