/*
 * @module service/maintenance/metrics
 * @description 评估管线使用的数据切分与分类指标计算
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 切分训练/测试集 -> 测试集上打分 -> 汇总指标
 * @rules 标签多于一类时分层切分，单一类别退化为普通随机切分；除零一律按0计而非报错
 * @dependencies math/rand
 * @refs service.go
 */

package maintenance

import "math/rand"

// 测试集占比，对应80/20切分
const testSetRatio = 0.2

// trainTestSplit 将下标集合切分为训练/测试两部分
// stratify为真时按标签分层，每个标签组独立抽取约20%进测试集；
// 仅有一个成员的标签组整组留在训练集，避免无意义的分层
func trainTestSplit(labels []int, rng *rand.Rand, stratify bool) (trainIdx, testIdx []int) {
	n := len(labels)

	if !stratify {
		perm := rng.Perm(n)
		testCount := int(float64(n) * testSetRatio)
		testIdx = append(testIdx, perm[:testCount]...)
		trainIdx = append(trainIdx, perm[testCount:]...)
		return trainIdx, testIdx
	}

	groups := make(map[int][]int)
	order := make([]int, 0)
	for i, label := range labels {
		if _, ok := groups[label]; !ok {
			order = append(order, label)
		}
		groups[label] = append(groups[label], i)
	}

	for _, label := range order {
		group := groups[label]
		rng.Shuffle(len(group), func(i, j int) {
			group[i], group[j] = group[j], group[i]
		})

		testCount := int(float64(len(group)) * testSetRatio)
		if testCount == 0 && len(group) > 1 {
			testCount = 1
		}
		testIdx = append(testIdx, group[:testCount]...)
		trainIdx = append(trainIdx, group[testCount:]...)
	}

	return trainIdx, testIdx
}

// accuracyScore 预测正确的样本占比
func accuracyScore(yTrue, yPred []int) float64 {
	if len(yTrue) == 0 {
		return 0
	}
	correct := 0
	for i := range yTrue {
		if yTrue[i] == yPred[i] {
			correct++
		}
	}
	return float64(correct) / float64(len(yTrue))
}

// weightedScores 按类别支持度加权的精确率/召回率/F1，除零按0计
func weightedScores(yTrue, yPred []int, classCount int) (precision, recall, f1 float64) {
	if len(yTrue) == 0 {
		return 0, 0, 0
	}

	tp := make([]int, classCount)
	fp := make([]int, classCount)
	fn := make([]int, classCount)
	support := make([]int, classCount)

	for i := range yTrue {
		support[yTrue[i]]++
		if yTrue[i] == yPred[i] {
			tp[yTrue[i]]++
		} else {
			fp[yPred[i]]++
			fn[yTrue[i]]++
		}
	}

	total := float64(len(yTrue))
	for c := 0; c < classCount; c++ {
		var p, r, f float64
		if tp[c]+fp[c] > 0 {
			p = float64(tp[c]) / float64(tp[c]+fp[c])
		}
		if tp[c]+fn[c] > 0 {
			r = float64(tp[c]) / float64(tp[c]+fn[c])
		}
		if p+r > 0 {
			f = 2 * p * r / (p + r)
		}
		weight := float64(support[c]) / total
		precision += p * weight
		recall += r * weight
		f1 += f * weight
	}

	return precision, recall, f1
}

// confusionMatrix 混淆矩阵，行为真实标签、列为预测标签，按标签序[0..classCount)排列
func confusionMatrix(yTrue, yPred []int, classCount int) [][]int {
	matrix := make([][]int, classCount)
	for i := range matrix {
		matrix[i] = make([]int, classCount)
	}
	for i := range yTrue {
		matrix[yTrue[i]][yPred[i]]++
	}
	return matrix
}
