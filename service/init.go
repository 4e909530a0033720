/*
 * @module service/init
 * @description 服务初始化模块，负责数据库连接、迁移、全局服务和调度器的初始化
 * @architecture 分层架构 - 服务层
 * @documentReference dev_docs/backend_requirements.md
 * @stateFlow 应用启动时执行初始化流程
 * @rules 确保所有依赖服务正常启动后才提供API服务；Redis缓存和重训调度为可选能力，初始化失败只降级不中断
 * @dependencies gorm.io/gorm, gorm.io/driver/postgres
 * @refs dev_docs/model.md
 */

package service

import (
	"fmt"
	"log"
	"log/slog"
	"os"

	"powergrid-service/service/cache"
	"powergrid-service/service/database"
	"powergrid-service/service/maintenance"
	"powergrid-service/service/scheduler"

	"github.com/spf13/cast"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var (
	DB                       *gorm.DB
	GlobalMaintenanceService *maintenance.MaintenanceService
	GlobalRetrainScheduler   *scheduler.RetrainScheduler
	GlobalResultCache        *cache.ResultCache
)

func init() {
	initDatabase()
	runMigrations()
	initServices()
}

// initDatabase 初始化数据库连接
func initDatabase() {
	var dsn string

	// 优先使用DATABASE_URL环境变量
	if databaseURL := os.Getenv("DATABASE_URL"); databaseURL != "" {
		dsn = databaseURL
	} else {
		// 使用分离的环境变量构建连接字符串
		host := getEnvWithDefault("DB_HOST", "localhost")
		port := getEnvWithDefault("DB_PORT", "5432")
		user := getEnvWithDefault("DB_USER", "postgres")
		password := getEnvWithDefault("DB_PASSWORD", "powergrid2024")
		dbname := getEnvWithDefault("DB_NAME", "postgres")
		sslmode := getEnvWithDefault("DB_SSLMODE", "disable")
		schema := getEnvWithDefault("DB_SCHEMA", "public")

		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s search_path=%s TimeZone=Asia/Kolkata",
			host, port, user, password, dbname, sslmode, schema)
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("数据库连接失败: %v", err)
	}

	log.Println("数据库连接成功")
}

// getEnvWithDefault 获取环境变量，如果不存在则返回默认值
func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// runMigrations 运行数据库迁移
func runMigrations() {
	if err := database.AutoMigrate(DB); err != nil {
		log.Fatalf("数据库迁移失败: %v", err)
	}

	if err := database.InitializeData(DB); err != nil {
		log.Fatalf("基础数据初始化失败: %v", err)
	}
}

// initServices 初始化服务
func initServices() {
	modelDir := getEnvWithDefault("MODEL_DIR", "./models")
	artifacts, err := maintenance.NewArtifactStore(modelDir)
	if err != nil {
		log.Fatalf("初始化模型工件存储失败: %v", err)
	}

	// 冷启动自愈：API进程在工件缺失时由推理路径同步触发训练
	autoTrain := cast.ToBool(getEnvWithDefault("PREDICT_AUTO_TRAIN", "true"))
	reader := maintenance.NewGormAssetReader(DB)
	GlobalMaintenanceService = maintenance.NewMaintenanceService(reader, artifacts, autoTrain)

	// Redis结果缓存为可选能力，连接失败时降级为直连管线
	if cast.ToBool(os.Getenv("CACHE_ENABLED")) {
		GlobalResultCache, err = cache.NewResultCache()
		if err != nil {
			slog.Warn("结果缓存初始化失败，降级为无缓存模式", "error", err)
			GlobalResultCache = nil
		}
	}

	// 周期重训为可选能力
	if cast.ToBool(os.Getenv("RETRAIN_ENABLED")) {
		GlobalRetrainScheduler = scheduler.NewRetrainScheduler(GlobalMaintenanceService)
		cronExpr := getEnvWithDefault("RETRAIN_CRON", scheduler.DefaultRetrainCron)
		if err := GlobalRetrainScheduler.Start(cronExpr); err != nil {
			slog.Error("启动重训调度器失败", "error", err)
		}
	}
}
