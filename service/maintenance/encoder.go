/*
 * @module service/maintenance/encoder
 * @description 类别特征编码器，将字符串类别映射为数值编码
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 训练期拟合类别表 -> 推理期查表转换
 * @rules 类别表排序后下标即编码值，未见类别显式报错而非映射默认值
 * @dependencies sort
 * @refs forest.go, artifact.go
 */

package maintenance

import "sort"

// LabelEncoder 类别特征编码器
// 拟合时收集去重排序后的类别表，下标即编码值，保证同一输入集合拟合结果确定
type LabelEncoder struct {
	Feature string   `json:"feature"`
	Classes []string `json:"classes"`
}

// FitLabelEncoder 在观测到的类别取值上拟合编码器
func FitLabelEncoder(feature string, values []string) *LabelEncoder {
	seen := make(map[string]struct{}, len(values))
	classes := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		classes = append(classes, v)
	}
	sort.Strings(classes)

	return &LabelEncoder{
		Feature: feature,
		Classes: classes,
	}
}

// Transform 将类别取值转换为数值编码
// 未见过的取值返回 UnseenCategoryError
func (e *LabelEncoder) Transform(value string) (int, error) {
	idx := sort.SearchStrings(e.Classes, value)
	if idx >= len(e.Classes) || e.Classes[idx] != value {
		return 0, &UnseenCategoryError{Feature: e.Feature, Value: value}
	}
	return idx, nil
}
