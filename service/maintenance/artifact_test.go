/*
 * @module service/maintenance/artifact_test
 * @description 模型工件存储测试：往返加载、缺失、损坏与特征列契约校验
 * @architecture 测试层
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 临时目录建存储 -> 保存/篡改工件 -> 断言加载行为
 * @rules 加载失败必须区分ErrArtifactNotFound与ErrArtifactCorrupt
 * @dependencies testing, os, encoding/json, stretchr/testify
 * @refs artifact.go
 */

package maintenance

import (
	"encoding/json"
	"errors"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func trainedPair(t *testing.T) (*RandomForest, *LabelEncoder) {
	t.Helper()
	rng := rand.New(rand.NewSource(7))
	features, labels := separableDataset(rng, 10)
	forest, err := TrainForest(features, labels, 3, ForestConfig{TreeCount: 20, Seed: 42})
	require.NoError(t, err)
	return forest, FitLabelEncoder("voltage_level", []string{"132 KV", "220 KV", "400 KV"})
}

func TestArtifactSaveLoadRoundTrip(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	forest, encoder := trainedPair(t)
	require.NoError(t, store.Save(forest, encoder, 30))

	loadedModel, loadedEncoder, err := store.Load()
	require.NoError(t, err)
	require.NotNil(t, loadedModel)
	require.NotNil(t, loadedEncoder)

	assert.Equal(t, encoder.Classes, loadedEncoder.Classes)
	assert.Equal(t, forest.ClassCount, loadedModel.ClassCount)

	// 加载后的分类器对相同输入产生完全一致的预测
	rng := rand.New(rand.NewSource(7))
	features, _ := separableDataset(rng, 10)
	for _, row := range features {
		original, err := forest.PredictProba(row)
		require.NoError(t, err)
		restored, err := loadedModel.PredictProba(row)
		require.NoError(t, err)
		assert.Equal(t, original, restored)
	}
}

func TestArtifactLoadNotFound(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	_, _, err = store.Load()
	assert.ErrorIs(t, err, ErrArtifactNotFound)
}

func TestArtifactLoadCorruptJSON(t *testing.T) {
	dir := t.TempDir()
	store, err := NewArtifactStore(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, artifactFileName), []byte("not json{"), 0o644))

	_, _, err = store.Load()
	assert.ErrorIs(t, err, ErrArtifactCorrupt)
}

func TestArtifactLoadMissingEncoder(t *testing.T) {
	dir := t.TempDir()
	store, err := NewArtifactStore(dir)
	require.NoError(t, err)

	forest, _ := trainedPair(t)
	artifact := modelArtifact{Model: forest, FeatureColumns: featureColumns}
	data, err := json.Marshal(&artifact)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifactFileName), data, 0o644))

	// 分类器与编码器必须成对存在
	_, _, err = store.Load()
	assert.ErrorIs(t, err, ErrArtifactCorrupt)
}

func TestArtifactLoadColumnMismatch(t *testing.T) {
	dir := t.TempDir()
	store, err := NewArtifactStore(dir)
	require.NoError(t, err)

	forest, encoder := trainedPair(t)
	artifact := modelArtifact{
		Model:          forest,
		VoltageEncoder: encoder,
		FeatureColumns: []string{"total_length_km", "line_age_years"},
	}
	data, err := json.Marshal(&artifact)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, artifactFileName), data, 0o644))

	// 特征列契约不一致的旧工件按损坏处理
	_, _, err = store.Load()
	assert.ErrorIs(t, err, ErrArtifactCorrupt)

	assert.False(t, errors.Is(err, ErrArtifactNotFound))
}

func TestArtifactSaveOverwrites(t *testing.T) {
	store, err := NewArtifactStore(t.TempDir())
	require.NoError(t, err)

	forest, encoder := trainedPair(t)
	require.NoError(t, store.Save(forest, encoder, 30))

	// 第二次保存整体替换第一次的工件
	secondEncoder := FitLabelEncoder("voltage_level", []string{"765 KV"})
	require.NoError(t, store.Save(forest, secondEncoder, 45))

	_, loadedEncoder, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"765 KV"}, loadedEncoder.Classes)
}
