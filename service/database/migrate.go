/*
 * @module service/database/migrate
 * @description 数据库迁移模块，负责创建和更新数据库表结构及基础数据初始化
 * @architecture 数据访问层 - 迁移管理
 * @documentReference dev_docs/model.md
 * @stateFlow 应用启动时执行数据库迁移
 * @rules 确保数据库结构与模型定义保持一致，基础数据初始化幂等
 * @dependencies powergrid-service/service/models, gorm.io/gorm
 * @refs dev_docs/backend_requirements.md
 */

package database

import (
	"log"

	"powergrid-service/service/models"

	"gorm.io/gorm"
)

// AutoMigrate 自动迁移数据库表结构
func AutoMigrate(db *gorm.DB) error {
	log.Println("开始数据库迁移...")

	// 基础行政数据表
	err := db.AutoMigrate(
		&models.State{},
		&models.MaintenanceOffice{},
	)
	if err != nil {
		return err
	}

	// 输电资产相关表
	err = db.AutoMigrate(
		&models.TransmissionLine{},
		&models.TrippingIncident{},
		&models.TowerLocation{},
	)
	if err != nil {
		return err
	}

	log.Println("数据库迁移完成")
	return nil
}

// InitializeData 初始化基础数据，重复执行不产生重复记录
func InitializeData(db *gorm.DB) error {
	log.Println("开始初始化基础数据...")

	// 东北区域各邦
	states := []models.State{
		{Name: "Assam", Code: "AS"},
		{Name: "Meghalaya", Code: "ML"},
		{Name: "Manipur", Code: "MN"},
		{Name: "Mizoram", Code: "MZ"},
		{Name: "Nagaland", Code: "NL"},
		{Name: "Tripura", Code: "TR"},
		{Name: "Arunachal Pradesh", Code: "AR"},
		{Name: "Sikkim", Code: "SK"},
	}
	for _, state := range states {
		if err := db.Where("name = ?", state.Name).FirstOrCreate(&state).Error; err != nil {
			return err
		}
	}

	// 默认运维办事处
	offices := []models.MaintenanceOffice{
		{Name: "Guwahati Maintenance Office", Location: "Guwahati, Assam"},
		{Name: "Shillong Maintenance Office", Location: "Shillong, Meghalaya"},
		{Name: "Imphal Maintenance Office", Location: "Imphal, Manipur"},
	}
	for _, office := range offices {
		if err := db.Where("name = ?", office.Name).FirstOrCreate(&office).Error; err != nil {
			return err
		}
	}

	log.Println("基础数据初始化完成")
	return nil
}
