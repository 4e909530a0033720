/*
 * @module service/maintenance/reader
 * @description 资产只读访问抽象及其gorm实现，管线对记录存储的唯一依赖面
 * @architecture 分层架构 - 数据访问层
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 管线按线路逐一读取事件与杆塔记录
 * @rules 管线只读不写，查询错误原样上抛，不做重试
 * @dependencies gorm.io/gorm, powergrid-service/service/models
 * @refs features.go, service/init.go
 */

package maintenance

import (
	"powergrid-service/service/models"

	"gorm.io/gorm"
)

// AssetReader 管线消费的三个只读查询
// 以接口注入，管线可在无存储依赖的内存夹具上测试
type AssetReader interface {
	// ListLines 列出当前全部输电线路
	ListLines() ([]models.TransmissionLine, error)
	// ListIncidentsForLine 列出归属于指定线路的跳闸事件
	ListIncidentsForLine(lineID string) ([]models.TrippingIncident, error)
	// ListTowersForLine 列出归属于指定线路的杆塔
	ListTowersForLine(lineID string) ([]models.TowerLocation, error)
}

// GormAssetReader 基于gorm记录存储的AssetReader实现
type GormAssetReader struct {
	db *gorm.DB
}

// NewGormAssetReader 创建gorm资产读取器
func NewGormAssetReader(db *gorm.DB) *GormAssetReader {
	return &GormAssetReader{db: db}
}

// ListLines 列出当前全部输电线路
func (r *GormAssetReader) ListLines() ([]models.TransmissionLine, error) {
	var lines []models.TransmissionLine
	if err := r.db.Find(&lines).Error; err != nil {
		return nil, err
	}
	return lines, nil
}

// ListIncidentsForLine 列出归属于指定线路的跳闸事件
func (r *GormAssetReader) ListIncidentsForLine(lineID string) ([]models.TrippingIncident, error) {
	var incidents []models.TrippingIncident
	if err := r.db.Where("transmission_line_id = ?", lineID).Find(&incidents).Error; err != nil {
		return nil, err
	}
	return incidents, nil
}

// ListTowersForLine 列出归属于指定线路的杆塔
func (r *GormAssetReader) ListTowersForLine(lineID string) ([]models.TowerLocation, error) {
	var towers []models.TowerLocation
	if err := r.db.Where("transmission_line_id = ?", lineID).Find(&towers).Error; err != nil {
		return nil, err
	}
	return towers, nil
}
