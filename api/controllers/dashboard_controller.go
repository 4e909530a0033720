/*
 * @module api/controllers/dashboard_controller
 * @description Dashboard统计数据控制器，提供输电资产总览和关键指标数据
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求处理流程
 * @rules 统一的错误处理和响应格式，数据聚合展示
 * @dependencies powergrid-service/service, github.com/go-chi/render
 * @refs api/routes.go
 */

package controllers

import (
	"net/http"
	"sort"
	"time"

	"powergrid-service/service"
	"powergrid-service/service/models"

	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// DashboardController Dashboard控制器
type DashboardController struct {
	db *gorm.DB
}

// NewDashboardController 创建Dashboard控制器实例
func NewDashboardController() *DashboardController {
	return &DashboardController{db: service.DB}
}

// VoltageBreakdown 按电压等级的事件与里程统计
type VoltageBreakdown struct {
	Voltage string  `json:"voltage"`
	Count   int     `json:"count"`
	KM      float64 `json:"km"`
}

// FaultBreakdown 按故障类型的事件统计
type FaultBreakdown struct {
	Type  string `json:"type"`
	Count int    `json:"count"`
}

// MonthlyTrend 按月的事件趋势
type MonthlyTrend struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// DashboardStatsResponse Dashboard统计响应
type DashboardStatsResponse struct {
	TotalLines       int64              `json:"total_lines"`
	TotalTowers      int64              `json:"total_towers"`
	TotalIncidents   int64              `json:"total_incidents"`
	TotalKM          float64            `json:"total_km"`
	RecentIncidents  int64              `json:"recent_incidents"`
	PGAttributed     int64              `json:"pg_attributed"`
	VoltageBreakdown []VoltageBreakdown `json:"voltage_breakdown"`
	FaultBreakdown   []FaultBreakdown   `json:"fault_breakdown"`
	MonthlyTrend     []MonthlyTrend     `json:"monthly_trend"`
}

// GetDashboardStats 获取Dashboard统计数据
// @Summary 获取Dashboard统计数据
// @Description 返回资产总量、近30天事件数、按电压等级/故障类型的统计和近6个月事件趋势
// @Tags Dashboard
// @Produce json
// @Success 200 {object} APIResponse{data=DashboardStatsResponse}
// @Failure 500 {object} APIResponse
// @Router /dashboard/stats [get]
func (c *DashboardController) GetDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats := DashboardStatsResponse{}

	if err := c.db.Model(&models.TransmissionLine{}).Count(&stats.TotalLines).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("统计输电线路失败", err))
		return
	}
	if err := c.db.Model(&models.TowerLocation{}).Count(&stats.TotalTowers).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("统计杆塔失败", err))
		return
	}
	if err := c.db.Model(&models.TrippingIncident{}).Count(&stats.TotalIncidents).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("统计跳闸事件失败", err))
		return
	}

	var totalKM *float64
	if err := c.db.Model(&models.TransmissionLine{}).
		Select("SUM(total_length_km)").Scan(&totalKM).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("统计线路里程失败", err))
		return
	}
	if totalKM != nil {
		stats.TotalKM = *totalKM
	}

	now := time.Now()
	thirtyDaysAgo := now.AddDate(0, 0, -30)
	if err := c.db.Model(&models.TrippingIncident{}).
		Where("fault_date >= ?", thirtyDaysAgo).Count(&stats.RecentIncidents).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("统计近期事件失败", err))
		return
	}

	if err := c.db.Model(&models.TrippingIncident{}).
		Where("attributed_to_powergrid = ?", "YES").Count(&stats.PGAttributed).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("统计责任归属事件失败", err))
		return
	}

	// 细分统计在内存中聚合，避免依赖具体数据库方言的日期函数
	var lines []models.TransmissionLine
	if err := c.db.Find(&lines).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询输电线路失败", err))
		return
	}
	var incidents []models.TrippingIncident
	if err := c.db.Find(&incidents).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询跳闸事件失败", err))
		return
	}

	lineByID := make(map[string]*models.TransmissionLine, len(lines))
	for i := range lines {
		lineByID[lines[i].ID] = &lines[i]
	}

	voltageCount := make(map[string]int)
	voltageKM := make(map[string]float64)
	voltageLines := make(map[string]map[string]struct{})
	faultCount := make(map[string]int)
	monthCount := make(map[string]int)
	sixMonthsAgo := now.AddDate(0, 0, -180)

	for _, incident := range incidents {
		if line, ok := lineByID[incident.TransmissionLineID]; ok {
			voltageCount[line.VoltageLevel]++
			if _, seen := voltageLines[line.VoltageLevel]; !seen {
				voltageLines[line.VoltageLevel] = make(map[string]struct{})
			}
			// 同一线路的里程只计一次
			if _, counted := voltageLines[line.VoltageLevel][line.ID]; !counted {
				voltageLines[line.VoltageLevel][line.ID] = struct{}{}
				voltageKM[line.VoltageLevel] += line.TotalLengthKM
			}
		}
		if incident.FaultType != "" {
			faultCount[incident.FaultType]++
		}
		if !incident.FaultDate.Before(sixMonthsAgo) {
			monthCount[incident.FaultDate.Format("2006-01")]++
		}
	}

	for voltage, count := range voltageCount {
		stats.VoltageBreakdown = append(stats.VoltageBreakdown, VoltageBreakdown{
			Voltage: voltage,
			Count:   count,
			KM:      voltageKM[voltage],
		})
	}
	sort.Slice(stats.VoltageBreakdown, func(i, j int) bool {
		return stats.VoltageBreakdown[i].Voltage < stats.VoltageBreakdown[j].Voltage
	})

	for faultType, count := range faultCount {
		stats.FaultBreakdown = append(stats.FaultBreakdown, FaultBreakdown{Type: faultType, Count: count})
	}
	sort.Slice(stats.FaultBreakdown, func(i, j int) bool {
		return stats.FaultBreakdown[i].Type < stats.FaultBreakdown[j].Type
	})

	for month, count := range monthCount {
		stats.MonthlyTrend = append(stats.MonthlyTrend, MonthlyTrend{Month: month, Count: count})
	}
	sort.Slice(stats.MonthlyTrend, func(i, j int) bool {
		return stats.MonthlyTrend[i].Month < stats.MonthlyTrend[j].Month
	})

	render.JSON(w, r, SuccessResponse("获取Dashboard统计成功", stats))
}
