/*
 * @module service/models/asset
 * @description 输电资产相关模型定义，包括输电线路、杆塔、跳闸事件等核心实体
 * @architecture DDD领域驱动设计 - 实体模型
 * @documentReference dev_docs/model.md
 * @stateFlow 输电资产全生命周期管理
 * @rules 遵循数据库设计规范，确保数据完整性和一致性
 * @dependencies gorm.io/gorm, github.com/google/uuid
 * @refs dev_docs/requirements.md
 */

package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// 杆塔状态枚举值，PoorTowerConditions 中的状态视为"劣化"状态参与风险特征计算
const (
	TowerConditionGood            = "Good"
	TowerConditionFair            = "Fair"
	TowerConditionNeedsInspection = "Needs Inspection"
	TowerConditionUnderRepair     = "Under Repair"
)

// State 省/邦行政区模型
type State struct {
	ID     string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name   string `json:"name" gorm:"not null;unique;size:100" example:"Assam"`
	Code   string `json:"code" gorm:"size:10" example:"AS"`
	Region string `json:"region" gorm:"not null;default:'North East';size:100"`
	// 关联关系
	Lines []TransmissionLine `json:"lines,omitempty" gorm:"foreignKey:StateID"`
}

// BeforeCreate 创建前生成UUID
func (s *State) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return nil
}

// MaintenanceOffice 运维办事处模型
type MaintenanceOffice struct {
	ID            string `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name          string `json:"name" gorm:"not null;unique;size:100" example:"Guwahati Maintenance Office"`
	Location      string `json:"location" gorm:"size:200"`
	ContactPerson string `json:"contact_person" gorm:"size:100"`
	Phone         string `json:"phone" gorm:"size:20"`
	// 关联关系
	Lines []TransmissionLine `json:"lines,omitempty" gorm:"foreignKey:MaintenanceOfficeID"`
}

// BeforeCreate 创建前生成UUID
func (o *MaintenanceOffice) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.New().String()
	}
	return nil
}

// TransmissionLine 输电线路模型，风险预测的基本单元
type TransmissionLine struct {
	ID                  string    `json:"id" gorm:"primaryKey;type:varchar(36)" example:"550e8400-e29b-41d4-a716-446655440000"`
	LineName            string    `json:"line_name" gorm:"not null;size:200;index" example:"400 KV SILCHAR-IMPHAL"`
	VoltageLevel        string    `json:"voltage_level" gorm:"not null;size:20" example:"400 KV"`
	CommissionDate      time.Time `json:"commission_date" gorm:"not null"`
	TotalLengthKM       float64   `json:"total_length_km" gorm:"not null" example:"215.8"`
	StateID             string    `json:"state_id" gorm:"type:varchar(36);index"`
	MaintenanceOfficeID string    `json:"maintenance_office_id" gorm:"type:varchar(36);index"`
	Status              string    `json:"status" gorm:"not null;default:'Active';size:50" example:"Active"`
	Remarks             string    `json:"remarks" gorm:"type:text"`
	CreatedAt           time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	// 关联关系
	State             State              `json:"state,omitempty" gorm:"foreignKey:StateID"`
	MaintenanceOffice MaintenanceOffice  `json:"maintenance_office,omitempty" gorm:"foreignKey:MaintenanceOfficeID"`
	TrippingIncidents []TrippingIncident `json:"tripping_incidents,omitempty" gorm:"foreignKey:TransmissionLineID;constraint:OnDelete:CASCADE"`
	Towers            []TowerLocation    `json:"towers,omitempty" gorm:"foreignKey:TransmissionLineID;constraint:OnDelete:CASCADE"`
}

// BeforeCreate 创建前生成UUID
func (l *TransmissionLine) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.New().String()
	}
	return nil
}

// TrippingIncident 跳闸事件模型，记录归属于某条线路的故障事件
type TrippingIncident struct {
	ID                    string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TransmissionLineID    string    `json:"transmission_line_id" gorm:"not null;type:varchar(36);index"`
	FaultDate             time.Time `json:"fault_date" gorm:"not null;index"`
	FaultTime             string    `json:"fault_time" gorm:"size:10" example:"14:35"`
	FaultType             string    `json:"fault_type" gorm:"size:100" example:"Lightning"`
	FaultLocation         string    `json:"fault_location" gorm:"size:200"`
	AffectedPhases        string    `json:"affected_phases" gorm:"size:50" example:"R-Y"`
	RestorationTime       string    `json:"restoration_time" gorm:"size:10"`
	DowntimeMinutes       int       `json:"downtime_minutes"`
	AttributedToPowergrid string    `json:"attributed_to_powergrid" gorm:"not null;default:'YES';size:10"`
	RootCause             string    `json:"root_cause" gorm:"type:text"`
	CorrectiveAction      string    `json:"corrective_action" gorm:"type:text"`
	Remarks               string    `json:"remarks" gorm:"type:text"`
	CreatedAt             time.Time `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	// 关联关系
	TransmissionLine TransmissionLine `json:"transmission_line,omitempty" gorm:"foreignKey:TransmissionLineID"`
}

// BeforeCreate 创建前生成UUID
func (i *TrippingIncident) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.New().String()
	}
	return nil
}

// TowerLocation 杆塔模型，隶属于某条线路的物理支撑结构
type TowerLocation struct {
	ID                 string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	TransmissionLineID string     `json:"transmission_line_id" gorm:"not null;type:varchar(36);index"`
	TowerNumber        string     `json:"tower_number" gorm:"size:20" example:"T-042"`
	Latitude           float64    `json:"latitude"`
	Longitude          float64    `json:"longitude"`
	FoundationType     string     `json:"foundation_type" gorm:"size:50"`
	TowerType          string     `json:"tower_type" gorm:"size:50" example:"Suspension"`
	HeightMeters       float64    `json:"height_meters"`
	InstallationDate   *time.Time `json:"installation_date,omitempty"`
	LastInspectionDate *time.Time `json:"last_inspection_date,omitempty"`
	Condition          string     `json:"condition" gorm:"not null;default:'Good';size:50" example:"Good"`
	Remarks            string     `json:"remarks" gorm:"type:text"`
	CreatedAt          time.Time  `json:"created_at" gorm:"not null;default:CURRENT_TIMESTAMP"`
	// 关联关系
	TransmissionLine TransmissionLine `json:"transmission_line,omitempty" gorm:"foreignKey:TransmissionLineID"`
}

// BeforeCreate 创建前生成UUID
func (t *TowerLocation) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
