/*
 * @module service/maintenance/forest
 * @description 装袋决策树集成分类器，对数值/类别编码混合量纲稳健，无需特征归一化
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 自助采样 -> 逐棵生长CART树 -> 叶子分布平均得到类别概率
 * @rules 固定随机种子保证同一数据集上训练结果可复现，树结构可JSON序列化以便工件持久化
 * @dependencies math, math/rand, sort
 * @refs artifact.go, service.go
 */

package maintenance

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

const (
	defaultTreeCount  = 100
	defaultRandomSeed = 42

	// 分裂增益低于该值视为无效分裂
	minSplitGain = 1e-12
)

// ForestConfig 集成分类器训练配置
type ForestConfig struct {
	TreeCount int
	Seed      int64
}

// DefaultForestConfig 生产与评估共用的默认超参数
func DefaultForestConfig() ForestConfig {
	return ForestConfig{
		TreeCount: defaultTreeCount,
		Seed:      defaultRandomSeed,
	}
}

// TreeNode 决策树节点，Feature为-1时表示叶子节点
type TreeNode struct {
	Feature   int       `json:"feature"`
	Threshold float64   `json:"threshold"`
	Left      int       `json:"left"`
	Right     int       `json:"right"`
	Probs     []float64 `json:"probs,omitempty"`
}

// DecisionTree 以扁平节点数组表示的CART决策树，根节点下标为0
type DecisionTree struct {
	Nodes []TreeNode `json:"nodes"`
}

func (t *DecisionTree) predictProba(x []float64) []float64 {
	idx := 0
	for {
		node := &t.Nodes[idx]
		if node.Feature < 0 {
			return node.Probs
		}
		if x[node.Feature] <= node.Threshold {
			idx = node.Left
		} else {
			idx = node.Right
		}
	}
}

// RandomForest 装袋决策树集成分类器
type RandomForest struct {
	Trees        []DecisionTree `json:"trees"`
	ClassCount   int            `json:"class_count"`
	FeatureCount int            `json:"feature_count"`
	Importances  []float64      `json:"importances"`
}

// TrainForest 在特征矩阵上训练集成分类器
// 每棵树使用有放回的自助采样，分裂时随机抽取sqrt(特征数)个候选特征
func TrainForest(features [][]float64, labels []int, classCount int, cfg ForestConfig) (*RandomForest, error) {
	if len(features) == 0 {
		return nil, fmt.Errorf("特征矩阵为空，无法训练")
	}
	if len(features) != len(labels) {
		return nil, fmt.Errorf("特征矩阵与标签长度不一致: %d != %d", len(features), len(labels))
	}
	featureCount := len(features[0])
	for i, row := range features {
		if len(row) != featureCount {
			return nil, fmt.Errorf("特征矩阵第%d行列数不一致: %d != %d", i, len(row), featureCount)
		}
	}
	for i, label := range labels {
		if label < 0 || label >= classCount {
			return nil, fmt.Errorf("第%d个标签越界: %d", i, label)
		}
	}
	if cfg.TreeCount <= 0 {
		cfg.TreeCount = defaultTreeCount
	}

	maxFeatures := int(math.Sqrt(float64(featureCount)))
	if maxFeatures < 1 {
		maxFeatures = 1
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	forest := &RandomForest{
		Trees:        make([]DecisionTree, 0, cfg.TreeCount),
		ClassCount:   classCount,
		FeatureCount: featureCount,
		Importances:  make([]float64, featureCount),
	}

	for i := 0; i < cfg.TreeCount; i++ {
		sample := make([]int, len(features))
		for j := range sample {
			sample[j] = rng.Intn(len(features))
		}

		builder := &treeBuilder{
			features:    features,
			labels:      labels,
			classCount:  classCount,
			maxFeatures: maxFeatures,
			rng:         rng,
			importance:  make([]float64, featureCount),
			totalRows:   len(sample),
		}
		builder.build(sample)
		forest.Trees = append(forest.Trees, DecisionTree{Nodes: builder.nodes})

		// 单棵树的重要度归一化后累加，避免深树主导整体权重
		treeTotal := 0.0
		for _, v := range builder.importance {
			treeTotal += v
		}
		if treeTotal > 0 {
			for f, v := range builder.importance {
				forest.Importances[f] += v / treeTotal
			}
		}
	}

	total := 0.0
	for _, v := range forest.Importances {
		total += v
	}
	if total > 0 {
		for f := range forest.Importances {
			forest.Importances[f] /= total
		}
	}

	return forest, nil
}

// PredictProba 返回各类别概率，为全部树叶子分布的平均值
func (f *RandomForest) PredictProba(x []float64) ([]float64, error) {
	if len(x) != f.FeatureCount {
		return nil, fmt.Errorf("特征向量长度不匹配: %d != %d", len(x), f.FeatureCount)
	}
	probs := make([]float64, f.ClassCount)
	for i := range f.Trees {
		leaf := f.Trees[i].predictProba(x)
		for c, p := range leaf {
			probs[c] += p
		}
	}
	for c := range probs {
		probs[c] /= float64(len(f.Trees))
	}
	return probs, nil
}

// Predict 返回预测类别及该类别的概率（类别概率向量的最大值）
func (f *RandomForest) Predict(x []float64) (int, float64, error) {
	probs, err := f.PredictProba(x)
	if err != nil {
		return 0, 0, err
	}
	best := 0
	for c := 1; c < len(probs); c++ {
		if probs[c] > probs[best] {
			best = c
		}
	}
	return best, probs[best], nil
}

// FeatureImportances 各特征的平均不纯度下降贡献，总和归一化为1
func (f *RandomForest) FeatureImportances() []float64 {
	out := make([]float64, len(f.Importances))
	copy(out, f.Importances)
	return out
}

// treeBuilder 单棵CART树的生长过程
type treeBuilder struct {
	features    [][]float64
	labels      []int
	classCount  int
	maxFeatures int
	rng         *rand.Rand
	nodes       []TreeNode
	importance  []float64
	totalRows   int
}

// build 递归生长子树，返回子树根节点在nodes中的下标
func (b *treeBuilder) build(indices []int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, TreeNode{Feature: -1})

	counts := make([]int, b.classCount)
	for _, i := range indices {
		counts[b.labels[i]]++
	}

	if len(indices) < 2 || isPure(counts) {
		b.nodes[idx] = leafNode(counts, len(indices))
		return idx
	}

	feature, threshold, gain := b.bestSplit(indices, counts)
	if feature < 0 {
		b.nodes[idx] = leafNode(counts, len(indices))
		return idx
	}

	var left, right []int
	for _, i := range indices {
		if b.features[i][feature] <= threshold {
			left = append(left, i)
		} else {
			right = append(right, i)
		}
	}

	// 平均不纯度下降：按节点样本占比加权
	b.importance[feature] += gain * float64(len(indices)) / float64(b.totalRows)

	leftIdx := b.build(left)
	rightIdx := b.build(right)
	b.nodes[idx] = TreeNode{
		Feature:   feature,
		Threshold: threshold,
		Left:      leftIdx,
		Right:     rightIdx,
	}
	return idx
}

// bestSplit 在随机抽取的候选特征上寻找基尼增益最大的分裂点
// 未找到有效分裂时返回 feature = -1
func (b *treeBuilder) bestSplit(indices []int, counts []int) (int, float64, float64) {
	parentGini := gini(counts, len(indices))
	bestFeature := -1
	bestThreshold := 0.0
	bestGain := 0.0

	candidates := b.rng.Perm(len(b.features[0]))[:b.maxFeatures]
	n := len(indices)

	for _, feature := range candidates {
		sorted := make([]int, len(indices))
		copy(sorted, indices)
		sort.Slice(sorted, func(i, j int) bool {
			vi, vj := b.features[sorted[i]][feature], b.features[sorted[j]][feature]
			if vi != vj {
				return vi < vj
			}
			return sorted[i] < sorted[j] // 同值按行下标排序，保证确定性
		})

		leftCounts := make([]int, b.classCount)
		for i := 0; i < n-1; i++ {
			leftCounts[b.labels[sorted[i]]]++
			vi, vnext := b.features[sorted[i]][feature], b.features[sorted[i+1]][feature]
			if vi == vnext {
				continue
			}

			nl := i + 1
			nr := n - nl
			rightCounts := make([]int, b.classCount)
			for c := range counts {
				rightCounts[c] = counts[c] - leftCounts[c]
			}
			weighted := float64(nl)/float64(n)*gini(leftCounts, nl) +
				float64(nr)/float64(n)*gini(rightCounts, nr)
			gain := parentGini - weighted
			if gain > bestGain+minSplitGain {
				bestGain = gain
				bestFeature = feature
				bestThreshold = (vi + vnext) / 2
			}
		}
	}

	return bestFeature, bestThreshold, bestGain
}

func isPure(counts []int) bool {
	nonZero := 0
	for _, c := range counts {
		if c > 0 {
			nonZero++
		}
	}
	return nonZero <= 1
}

func leafNode(counts []int, n int) TreeNode {
	probs := make([]float64, len(counts))
	if n > 0 {
		for c, cnt := range counts {
			probs[c] = float64(cnt) / float64(n)
		}
	}
	return TreeNode{Feature: -1, Probs: probs}
}

func gini(counts []int, n int) float64 {
	if n == 0 {
		return 0
	}
	impurity := 1.0
	for _, c := range counts {
		p := float64(c) / float64(n)
		impurity -= p * p
	}
	return impurity
}
