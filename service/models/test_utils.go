/*
 * @module service/models/test_utils
 * @description 模型测试辅助工具
 * @architecture 测试基础设施 - 专门为模型测试提供工具
 * @documentReference .specify/memory/test_plan.md
 * @stateFlow 测试环境初始化 -> 测试数据创建 -> 测试执行 -> 清理资源
 * @rules 避免循环导入，专门为模型层测试提供工具
 * @dependencies gorm, sqlite, time
 */

package models

import (
	"fmt"
	"math/rand"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ModelTestDB 模型测试数据库配置
type ModelTestDB struct {
	DB *gorm.DB
}

// NewModelTestDB 创建模型测试数据库
func NewModelTestDB() *ModelTestDB {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic(fmt.Sprintf("failed to connect test database: %v", err))
	}

	// 自动迁移所有模型
	err = db.AutoMigrate(
		&State{},
		&MaintenanceOffice{},
		&TransmissionLine{},
		&TrippingIncident{},
		&TowerLocation{},
	)
	if err != nil {
		panic(fmt.Sprintf("failed to migrate test database: %v", err))
	}

	return &ModelTestDB{DB: db}
}

// CleanDB 清理数据库
func (tdb *ModelTestDB) CleanDB() {
	// 清空所有表的数据，先清子表再清父表
	tables := []string{
		"tripping_incidents",
		"tower_locations",
		"transmission_lines",
		"maintenance_offices",
		"states",
	}

	for _, table := range tables {
		tdb.DB.Exec(fmt.Sprintf("DELETE FROM %s", table))
	}
}

// Close 关闭数据库连接
func (tdb *ModelTestDB) Close() {
	sqlDB, err := tdb.DB.DB()
	if err != nil {
		fmt.Printf("Error getting underlying DB: %v\n", err)
		return
	}
	sqlDB.Close()
}

// ModelTestDataFactory 模型测试数据工厂
type ModelTestDataFactory struct {
	DB *gorm.DB
}

// NewModelTestDataFactory 创建新的模型测试数据工厂
func NewModelTestDataFactory(db *gorm.DB) *ModelTestDataFactory {
	return &ModelTestDataFactory{DB: db}
}

// CreateState 创建测试邦
func (f *ModelTestDataFactory) CreateState() *State {
	state := &State{
		Name:   "Test State " + generateSuffix(),
		Code:   "TS",
		Region: "North East",
	}
	f.DB.Create(state)
	return state
}

// CreateMaintenanceOffice 创建测试运维办事处
func (f *ModelTestDataFactory) CreateMaintenanceOffice() *MaintenanceOffice {
	office := &MaintenanceOffice{
		Name:          "Test Office " + generateSuffix(),
		Location:      "Guwahati",
		ContactPerson: "Test Engineer",
		Phone:         "0361-0000000",
	}
	f.DB.Create(office)
	return office
}

// CreateTransmissionLine 创建测试输电线路
func (f *ModelTestDataFactory) CreateTransmissionLine() *TransmissionLine {
	state := f.CreateState()
	office := f.CreateMaintenanceOffice()

	line := &TransmissionLine{
		LineName:            "400 KV TEST-LINE-" + generateSuffix(),
		VoltageLevel:        "400 KV",
		CommissionDate:      time.Now().AddDate(-15, 0, 0),
		TotalLengthKM:       215.8,
		StateID:             state.ID,
		MaintenanceOfficeID: office.ID,
		Status:              "Active",
	}
	f.DB.Create(line)
	return line
}

// CreateTrippingIncident 为指定线路创建测试跳闸事件
func (f *ModelTestDataFactory) CreateTrippingIncident(lineID string) *TrippingIncident {
	incident := &TrippingIncident{
		TransmissionLineID:    lineID,
		FaultDate:             time.Now().AddDate(0, 0, -30),
		FaultTime:             "14:35",
		FaultType:             "Lightning",
		AffectedPhases:        "R-Y",
		DowntimeMinutes:       45,
		AttributedToPowergrid: "YES",
	}
	f.DB.Create(incident)
	return incident
}

// CreateTowerLocation 为指定线路创建测试杆塔
func (f *ModelTestDataFactory) CreateTowerLocation(lineID, condition string) *TowerLocation {
	tower := &TowerLocation{
		TransmissionLineID: lineID,
		TowerNumber:        "T-" + generateSuffix(),
		Latitude:           26.14,
		Longitude:          91.73,
		TowerType:          "Suspension",
		HeightMeters:       42.5,
		Condition:          condition,
	}
	f.DB.Create(tower)
	return tower
}

func generateSuffix() string {
	return fmt.Sprintf("%d%03d", time.Now().UnixNano(), rand.Intn(1000))
}
