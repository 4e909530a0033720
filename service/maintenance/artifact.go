/*
 * @module service/maintenance/artifact
 * @description 模型工件存储，将分类器与类别编码器作为一个整体持久化
 * @architecture 分层架构 - 存储层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 训练写入 -> 推理只读 -> 重训整体替换
 * @rules 先写临时文件再rename实现原子替换，并发读取方永远看不到半写状态；分类器与编码器成对加载，缺一即损坏
 * @dependencies encoding/json, os, path/filepath
 * @refs forest.go, encoder.go, service.go
 */

package maintenance

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// 工件固定文件名，单一全局模型，无多租户和版本键
const artifactFileName = "maintenance_model.json"

// modelArtifact 持久化单元：分类器、编码器与特征列契约成对版本化
type modelArtifact struct {
	Model          *RandomForest `json:"model"`
	VoltageEncoder *LabelEncoder `json:"voltage_encoder"`
	FeatureColumns []string      `json:"feature_columns"`
	SampleCount    int           `json:"sample_count"`
	TrainedAt      time.Time     `json:"trained_at"`
}

// ArtifactStore 基于文件系统的模型工件存储
type ArtifactStore struct {
	dir string
}

// NewArtifactStore 创建模型工件存储，目录不存在时自动创建
func NewArtifactStore(dir string) (*ArtifactStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("创建模型工件目录失败: %w", err)
	}
	return &ArtifactStore{dir: dir}, nil
}

// Save 原子持久化分类器与编码器
// 先写同目录临时文件再rename，并发save不排序，最后写入者胜出
func (s *ArtifactStore) Save(model *RandomForest, encoder *LabelEncoder, sampleCount int) error {
	artifact := modelArtifact{
		Model:          model,
		VoltageEncoder: encoder,
		FeatureColumns: featureColumns,
		SampleCount:    sampleCount,
		TrainedAt:      time.Now(),
	}

	data, err := json.Marshal(&artifact)
	if err != nil {
		return fmt.Errorf("序列化模型工件失败: %w", err)
	}

	tmp, err := os.CreateTemp(s.dir, artifactFileName+".tmp-*")
	if err != nil {
		return fmt.Errorf("创建模型工件临时文件失败: %w", err)
	}
	tmpPath := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("写入模型工件失败: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("关闭模型工件临时文件失败: %w", err)
	}

	if err := os.Rename(tmpPath, s.path()); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("替换模型工件失败: %w", err)
	}
	return nil
}

// Load 加载分类器与编码器
// 工件不存在返回ErrArtifactNotFound；无法反序列化为匹配的成对单元返回ErrArtifactCorrupt
func (s *ArtifactStore) Load() (*RandomForest, *LabelEncoder, error) {
	data, err := os.ReadFile(s.path())
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, ErrArtifactNotFound
		}
		return nil, nil, fmt.Errorf("读取模型工件失败: %w", err)
	}

	var artifact modelArtifact
	if err := json.Unmarshal(data, &artifact); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrArtifactCorrupt, err)
	}
	if artifact.Model == nil || artifact.VoltageEncoder == nil {
		return nil, nil, fmt.Errorf("%w: 分类器与编码器必须成对存储", ErrArtifactCorrupt)
	}
	if !columnsMatch(artifact.FeatureColumns, featureColumns) {
		// 特征列契约变更后旧工件静默产生错形预测，按损坏处理，强制显式重训
		return nil, nil, fmt.Errorf("%w: 特征列与当前版本不一致", ErrArtifactCorrupt)
	}

	return artifact.Model, artifact.VoltageEncoder, nil
}

func (s *ArtifactStore) path() string {
	return filepath.Join(s.dir, artifactFileName)
}

func columnsMatch(stored, current []string) bool {
	if len(stored) != len(current) {
		return false
	}
	for i := range stored {
		if stored[i] != current[i] {
			return false
		}
	}
	return true
}
