/*
 * @module service/maintenance/errors
 * @description 预测性维护管线的错误分类定义
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 管线各阶段按错误类别决定恢复策略
 * @rules 样本不足可等待恢复；工件缺失可重训恢复；工件损坏需人工重训；未见类别直接上抛
 * @dependencies errors, fmt
 * @refs service.go, artifact.go, encoder.go
 */

package maintenance

import (
	"errors"
	"fmt"
)

var (
	// ErrArtifactNotFound 模型工件不存在，可通过重新训练恢复
	ErrArtifactNotFound = errors.New("模型工件不存在")
	// ErrArtifactCorrupt 模型工件无法反序列化为匹配的分类器/编码器对，需要人工重训
	ErrArtifactCorrupt = errors.New("模型工件已损坏")
)

// InsufficientDataError 可提取样本数低于训练下限
type InsufficientDataError struct {
	CurrentSamples  int
	RequiredSamples int
}

func (e *InsufficientDataError) Error() string {
	return fmt.Sprintf("训练样本不足: 当前%d条, 至少需要%d条输电线路", e.CurrentSamples, e.RequiredSamples)
}

// UnseenCategoryError 编码器遇到训练时未见过的类别取值
// 静默映射到任意编码会破坏下游数值含义，必须显式上抛
type UnseenCategoryError struct {
	Feature string
	Value   string
}

func (e *UnseenCategoryError) Error() string {
	return fmt.Sprintf("类别特征 %s 存在训练时未见过的取值: %q", e.Feature, e.Value)
}
