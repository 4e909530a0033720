/*
 * @module api/routes
 * @description API路由配置模块，负责初始化和配置所有HTTP路由
 * @architecture RESTful API架构
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 无状态HTTP请求处理
 * @rules 遵循RESTful API设计规范，统一错误处理和响应格式
 * @dependencies github.com/go-chi/chi/v5, github.com/go-chi/cors, github.com/go-chi/render
 * @refs dev_docs/model.md
 */

package api

import (
	"powergrid-service/api/controllers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/render"
)

// InitRoute 初始化所有API路由
func InitRoute(r *chi.Mux) {
	// 基础中间件
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(render.SetContentType(render.ContentTypeJSON))

	// CORS配置
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// 健康检查
	healthController := controllers.NewHealthController()
	r.Get("/health", healthController.Health)
	r.Get("/ready", healthController.Ready)

	// Dashboard统计
	dashboardController := controllers.NewDashboardController()
	r.Get("/dashboard/stats", dashboardController.GetDashboardStats)

	// 输电资产管理
	assetController := controllers.NewAssetController()
	r.Route("/transmission-lines", func(r chi.Router) {
		r.Get("/", assetController.GetTransmissionLines)
		r.Post("/", assetController.CreateTransmissionLine)
		r.Put("/{id}", assetController.UpdateTransmissionLine)
		r.Delete("/{id}", assetController.DeleteTransmissionLine)
	})
	r.Route("/tripping-incidents", func(r chi.Router) {
		r.Get("/", assetController.GetTrippingIncidents)
		r.Post("/", assetController.CreateTrippingIncident)
		r.Delete("/{id}", assetController.DeleteTrippingIncident)
	})
	r.Route("/tower-locations", func(r chi.Router) {
		r.Get("/", assetController.GetTowerLocations)
		r.Post("/", assetController.CreateTowerLocation)
		r.Put("/{id}", assetController.UpdateTowerCondition)
	})

	// 预测性维护
	maintenanceController := controllers.NewMaintenanceController()
	r.Route("/api/ai", func(r chi.Router) {
		r.Post("/train-model", maintenanceController.TrainModel)
		r.Get("/predictive-maintenance", maintenanceController.GetPredictiveMaintenance)
		r.Get("/model-metrics", maintenanceController.GetModelMetrics)
	})
}
