/*
 * @module api/controllers/asset_controller
 * @description 输电资产控制器，提供线路、杆塔、跳闸事件的记录管理接口
 * @architecture MVC架构 - 控制器层
 * @documentReference dev_docs/requirements.md
 * @stateFlow HTTP请求 -> 参数验证 -> 存储读写 -> 响应返回
 * @rules 统一的错误处理和响应格式；资产记录的写操作不触碰模型工件
 * @dependencies powergrid-service/service, powergrid-service/service/models, gorm.io/gorm
 * @refs api/routes.go
 */

package controllers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"powergrid-service/service"
	"powergrid-service/service/models"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"gorm.io/gorm"
)

// AssetController 输电资产控制器
type AssetController struct {
	db *gorm.DB
}

// NewAssetController 创建输电资产控制器实例
func NewAssetController() *AssetController {
	return &AssetController{db: service.DB}
}

// GetTransmissionLines 获取输电线路列表
// @Summary 获取输电线路列表
// @Description 分页获取输电线路，支持按电压等级和邦过滤
// @Tags 输电资产
// @Produce json
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(20)
// @Param voltage_level query string false "电压等级" Enums(132 KV,220 KV,400 KV)
// @Param state_id query string false "邦ID"
// @Success 200 {object} PaginatedResponse{data=[]models.TransmissionLine}
// @Failure 500 {object} APIResponse
// @Router /transmission-lines [get]
func (c *AssetController) GetTransmissionLines(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 20
	}

	query := c.db.Model(&models.TransmissionLine{})
	if voltage := r.URL.Query().Get("voltage_level"); voltage != "" {
		query = query.Where("voltage_level = ?", voltage)
	}
	if stateID := r.URL.Query().Get("state_id"); stateID != "" {
		query = query.Where("state_id = ?", stateID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询输电线路总数失败", err))
		return
	}

	var lines []models.TransmissionLine
	if err := query.Offset((page - 1) * size).Limit(size).Find(&lines).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询输电线路列表失败", err))
		return
	}

	render.JSON(w, r, &PaginatedResponse{
		Status: 0,
		Msg:    "获取输电线路列表成功",
		Data:   lines,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// CreateTransmissionLine 创建输电线路
// @Summary 创建输电线路
// @Tags 输电资产
// @Accept json
// @Produce json
// @Param line body models.TransmissionLine true "线路信息"
// @Success 200 {object} APIResponse{data=models.TransmissionLine}
// @Failure 400 {object} APIResponse
// @Failure 500 {object} APIResponse
// @Router /transmission-lines [post]
func (c *AssetController) CreateTransmissionLine(w http.ResponseWriter, r *http.Request) {
	var line models.TransmissionLine
	if err := json.NewDecoder(r.Body).Decode(&line); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err.Error()))
		return
	}
	if line.LineName == "" || line.VoltageLevel == "" {
		render.JSON(w, r, BadRequestResponse("线路名称和电压等级不能为空", nil))
		return
	}

	if err := c.db.Create(&line).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("创建输电线路失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("创建输电线路成功", line))
}

// UpdateTransmissionLine 更新输电线路
// @Summary 更新输电线路
// @Tags 输电资产
// @Accept json
// @Produce json
// @Param id path string true "线路ID"
// @Param line body models.TransmissionLine true "线路信息"
// @Success 200 {object} APIResponse{data=models.TransmissionLine}
// @Failure 404 {object} APIResponse
// @Router /transmission-lines/{id} [put]
func (c *AssetController) UpdateTransmissionLine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var existing models.TransmissionLine
	if err := c.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("输电线路不存在"))
			return
		}
		render.JSON(w, r, InternalErrorResponse("查询输电线路失败", err))
		return
	}

	var payload models.TransmissionLine
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err.Error()))
		return
	}
	payload.ID = existing.ID

	if err := c.db.Model(&existing).Updates(&payload).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("更新输电线路失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("更新输电线路成功", existing))
}

// DeleteTransmissionLine 删除输电线路
// @Summary 删除输电线路
// @Description 级联删除线路下属的跳闸事件与杆塔记录
// @Tags 输电资产
// @Produce json
// @Param id path string true "线路ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /transmission-lines/{id} [delete]
func (c *AssetController) DeleteTransmissionLine(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result := c.db.Delete(&models.TransmissionLine{}, "id = ?", id)
	if result.Error != nil {
		render.JSON(w, r, InternalErrorResponse("删除输电线路失败", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		render.JSON(w, r, NotFoundResponse("输电线路不存在"))
		return
	}

	// 下属记录一并清理
	c.db.Delete(&models.TrippingIncident{}, "transmission_line_id = ?", id)
	c.db.Delete(&models.TowerLocation{}, "transmission_line_id = ?", id)

	render.JSON(w, r, SuccessResponse("删除输电线路成功", nil))
}

// GetTrippingIncidents 获取跳闸事件列表
// @Summary 获取跳闸事件列表
// @Tags 输电资产
// @Produce json
// @Param line_id query string false "线路ID"
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(20)
// @Success 200 {object} PaginatedResponse{data=[]models.TrippingIncident}
// @Router /tripping-incidents [get]
func (c *AssetController) GetTrippingIncidents(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 20
	}

	query := c.db.Model(&models.TrippingIncident{})
	if lineID := r.URL.Query().Get("line_id"); lineID != "" {
		query = query.Where("transmission_line_id = ?", lineID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询跳闸事件总数失败", err))
		return
	}

	var incidents []models.TrippingIncident
	if err := query.Order("fault_date DESC").Offset((page - 1) * size).Limit(size).Find(&incidents).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询跳闸事件列表失败", err))
		return
	}

	render.JSON(w, r, &PaginatedResponse{
		Status: 0,
		Msg:    "获取跳闸事件列表成功",
		Data:   incidents,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// CreateTrippingIncident 创建跳闸事件
// @Summary 创建跳闸事件
// @Tags 输电资产
// @Accept json
// @Produce json
// @Param incident body models.TrippingIncident true "跳闸事件信息"
// @Success 200 {object} APIResponse{data=models.TrippingIncident}
// @Failure 400 {object} APIResponse
// @Router /tripping-incidents [post]
func (c *AssetController) CreateTrippingIncident(w http.ResponseWriter, r *http.Request) {
	var incident models.TrippingIncident
	if err := json.NewDecoder(r.Body).Decode(&incident); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err.Error()))
		return
	}
	if incident.TransmissionLineID == "" {
		render.JSON(w, r, BadRequestResponse("归属线路ID不能为空", nil))
		return
	}

	var line models.TransmissionLine
	if err := c.db.First(&line, "id = ?", incident.TransmissionLineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, BadRequestResponse("归属线路不存在", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse("校验归属线路失败", err))
		return
	}

	if err := c.db.Create(&incident).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("创建跳闸事件失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("创建跳闸事件成功", incident))
}

// DeleteTrippingIncident 删除跳闸事件
// @Summary 删除跳闸事件
// @Tags 输电资产
// @Produce json
// @Param id path string true "事件ID"
// @Success 200 {object} APIResponse
// @Failure 404 {object} APIResponse
// @Router /tripping-incidents/{id} [delete]
func (c *AssetController) DeleteTrippingIncident(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	result := c.db.Delete(&models.TrippingIncident{}, "id = ?", id)
	if result.Error != nil {
		render.JSON(w, r, InternalErrorResponse("删除跳闸事件失败", result.Error))
		return
	}
	if result.RowsAffected == 0 {
		render.JSON(w, r, NotFoundResponse("跳闸事件不存在"))
		return
	}

	render.JSON(w, r, SuccessResponse("删除跳闸事件成功", nil))
}

// GetTowerLocations 获取杆塔列表
// @Summary 获取杆塔列表
// @Tags 输电资产
// @Produce json
// @Param line_id query string false "线路ID"
// @Param condition query string false "杆塔状态" Enums(Good,Fair,Needs Inspection,Under Repair)
// @Param page query int false "页码" default(1)
// @Param size query int false "每页大小" default(20)
// @Success 200 {object} PaginatedResponse{data=[]models.TowerLocation}
// @Router /tower-locations [get]
func (c *AssetController) GetTowerLocations(w http.ResponseWriter, r *http.Request) {
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page <= 0 {
		page = 1
	}
	size, _ := strconv.Atoi(r.URL.Query().Get("size"))
	if size <= 0 {
		size = 20
	}

	query := c.db.Model(&models.TowerLocation{})
	if lineID := r.URL.Query().Get("line_id"); lineID != "" {
		query = query.Where("transmission_line_id = ?", lineID)
	}
	if condition := r.URL.Query().Get("condition"); condition != "" {
		query = query.Where("condition = ?", condition)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询杆塔总数失败", err))
		return
	}

	var towers []models.TowerLocation
	if err := query.Offset((page - 1) * size).Limit(size).Find(&towers).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("查询杆塔列表失败", err))
		return
	}

	render.JSON(w, r, &PaginatedResponse{
		Status: 0,
		Msg:    "获取杆塔列表成功",
		Data:   towers,
		Total:  total,
		Page:   page,
		Size:   size,
	})
}

// CreateTowerLocation 创建杆塔记录
// @Summary 创建杆塔记录
// @Tags 输电资产
// @Accept json
// @Produce json
// @Param tower body models.TowerLocation true "杆塔信息"
// @Success 200 {object} APIResponse{data=models.TowerLocation}
// @Failure 400 {object} APIResponse
// @Router /tower-locations [post]
func (c *AssetController) CreateTowerLocation(w http.ResponseWriter, r *http.Request) {
	var tower models.TowerLocation
	if err := json.NewDecoder(r.Body).Decode(&tower); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err.Error()))
		return
	}
	if tower.TransmissionLineID == "" {
		render.JSON(w, r, BadRequestResponse("归属线路ID不能为空", nil))
		return
	}

	var line models.TransmissionLine
	if err := c.db.First(&line, "id = ?", tower.TransmissionLineID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, BadRequestResponse("归属线路不存在", nil))
			return
		}
		render.JSON(w, r, InternalErrorResponse("校验归属线路失败", err))
		return
	}

	if err := c.db.Create(&tower).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("创建杆塔记录失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("创建杆塔记录成功", tower))
}

// UpdateTowerCondition 更新杆塔状态
// @Summary 更新杆塔状态
// @Tags 输电资产
// @Accept json
// @Produce json
// @Param id path string true "杆塔ID"
// @Param tower body models.TowerLocation true "杆塔信息"
// @Success 200 {object} APIResponse{data=models.TowerLocation}
// @Failure 404 {object} APIResponse
// @Router /tower-locations/{id} [put]
func (c *AssetController) UpdateTowerCondition(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var existing models.TowerLocation
	if err := c.db.First(&existing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			render.JSON(w, r, NotFoundResponse("杆塔记录不存在"))
			return
		}
		render.JSON(w, r, InternalErrorResponse("查询杆塔记录失败", err))
		return
	}

	var payload models.TowerLocation
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		render.JSON(w, r, BadRequestResponse("请求参数解析失败", err.Error()))
		return
	}
	payload.ID = existing.ID

	if err := c.db.Model(&existing).Updates(&payload).Error; err != nil {
		render.JSON(w, r, InternalErrorResponse("更新杆塔记录失败", err))
		return
	}

	render.JSON(w, r, SuccessResponse("更新杆塔记录成功", existing))
}
