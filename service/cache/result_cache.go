/*
 * @module service/cache/result_cache
 * @description Redis结果缓存，用于仪表盘高频读取预测结果时减轻管线重算压力
 * @architecture 工具层 - 提供短时效响应缓存能力
 * @documentReference dev_docs/maintenance_pipeline.md
 * @stateFlow 读请求查缓存 -> 未命中走管线并回填 -> 训练后主动失效
 * @rules 仅缓存API层响应，管线本身每次调用仍重新提取特征；TTL可通过环境变量调整
 * @dependencies github.com/go-redis/redis/v8, github.com/spf13/cast
 * @refs api/controllers/maintenance_controller.go, service/init.go
 */

package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/spf13/cast"
)

// 预测结果缓存键
const PredictionsKey = "maintenance:predictions"

// 缓存默认时效（秒）
const defaultTTLSeconds = 60

// ResultCache Redis结果缓存
type ResultCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewResultCache 创建结果缓存，从环境变量读取Redis配置并校验连通性
func NewResultCache() (*ResultCache, error) {
	host := getEnvWithDefault("REDIS_HOST", "localhost")
	port := getEnvWithDefault("REDIS_PORT", "6379")
	password := os.Getenv("REDIS_PASSWORD")
	db := cast.ToInt(os.Getenv("REDIS_DB"))

	client := redis.NewClient(&redis.Options{
		Addr:         fmt.Sprintf("%s:%s", host, port),
		Password:     password,
		DB:           db,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("Redis连接失败: %w", err)
	}

	ttlSeconds := cast.ToInt(os.Getenv("RESULT_CACHE_TTL_SECONDS"))
	if ttlSeconds <= 0 {
		ttlSeconds = defaultTTLSeconds
	}

	slog.Info("结果缓存初始化成功",
		"redis_host", host,
		"redis_port", port,
		"ttl_seconds", ttlSeconds)

	return &ResultCache{
		client: client,
		ttl:    time.Duration(ttlSeconds) * time.Second,
	}, nil
}

// Get 读取缓存并反序列化到dest，返回是否命中
func (c *ResultCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dest); err != nil {
		return false, fmt.Errorf("反序列化缓存内容失败: %w", err)
	}
	return true, nil
}

// Set 序列化并写入缓存
func (c *ResultCache) Set(ctx context.Context, key string, value interface{}) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("序列化缓存内容失败: %w", err)
	}
	return c.client.Set(ctx, key, data, c.ttl).Err()
}

// Invalidate 删除指定缓存键，模型重训后调用
func (c *ResultCache) Invalidate(ctx context.Context, key string) error {
	return c.client.Del(ctx, key).Err()
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
