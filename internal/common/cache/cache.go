// Package cache 提供 Redis 缓存功能
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/logger"
)

var client *redis.Client

// 缓存键前缀
const (
	KeyPrefixPolicy      = "hotel:policy"           // 酒店策略快照
	KeyPrefixRoomStatus  = "hotel:room:status:"     // 房间状态
	KeyPrefixSweepLock   = "hotel:sweep:lock"       // 扫描任务分布式锁
	KeyPrefixStaffToken  = "hotel:staff:token:"     // 员工令牌
	KeyPrefixReservation = "hotel:reservation:no:"  // 预订号去重
)

// Init 初始化 Redis 连接
func Init(cfg *config.RedisConfig) error {
	client = redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  time.Duration(cfg.DialTimeout) * time.Second,
		ReadTimeout:  time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.WriteTimeout) * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("connect redis: %w", err)
	}

	logger.Info("redis connected", logger.String("addr", cfg.Addr()))
	return nil
}

// GetClient 获取 Redis 客户端
func GetClient() *redis.Client {
	return client
}

// Set 设置缓存，value 为结构体时序列化为 JSON
func Set(ctx context.Context, key string, value interface{}, expiration time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return client.Set(ctx, key, data, expiration).Err()
}

// Get 获取缓存并反序列化
func Get(ctx context.Context, key string, dest interface{}) error {
	data, err := client.Get(ctx, key).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(data, dest)
}

// Delete 删除缓存
func Delete(ctx context.Context, keys ...string) error {
	return client.Del(ctx, keys...).Err()
}

// SetNX 不存在时设置，用于分布式锁
func SetNX(ctx context.Context, key string, value interface{}, expiration time.Duration) (bool, error) {
	return client.SetNX(ctx, key, value, expiration).Result()
}

// IsNil 判断是否为键不存在错误
func IsNil(err error) bool {
	return err == redis.Nil
}

// Close 关闭 Redis 连接
func Close() error {
	if client == nil {
		return nil
	}
	return client.Close()
}
