// Package config 配置管理单元测试
package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ==================== Load 测试 ====================

func TestLoad_WithDefaultValues(t *testing.T) {
	// 不指定配置文件路径，使用默认搜索路径
	cfg, err := Load("")
	require.NoError(t, err)
	require.NotNil(t, cfg)

	// 验证默认值
	assert.Equal(t, "salmiya-grand-hotel", cfg.Server.Name)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "salmiya_hotel", cfg.Database.Name)
	assert.Equal(t, "localhost", cfg.Redis.Host)
	assert.Equal(t, 6379, cfg.Redis.Port)
	assert.True(t, cfg.Sweep.Enabled)
	assert.Equal(t, 5, cfg.Sweep.Interval)
	assert.Equal(t, 100, cfg.Sweep.BatchSize)
	assert.False(t, cfg.Tracing.Enabled)
	assert.Equal(t, 1.0, cfg.Tracing.SampleRate)
}

func TestGet_ReturnsSameInstance(t *testing.T) {
	cfg1, err := Load("")
	require.NoError(t, err)

	cfg2 := Get()
	assert.Same(t, cfg1, cfg2)
}

// ==================== 派生方法测试 ====================

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := &DatabaseConfig{
		Host:     "db.example.com",
		Port:     5433,
		User:     "hotel",
		Password: "secret",
		Name:     "salmiya_hotel",
		SSLMode:  "require",
		Timezone: "Asia/Kuwait",
	}

	dsn := cfg.DSN()
	assert.Contains(t, dsn, "host=db.example.com")
	assert.Contains(t, dsn, "port=5433")
	assert.Contains(t, dsn, "user=hotel")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "dbname=salmiya_hotel")
	assert.Contains(t, dsn, "sslmode=require")
	assert.Contains(t, dsn, "TimeZone=Asia/Kuwait")
}

func TestRedisConfig_Addr(t *testing.T) {
	cfg := &RedisConfig{Host: "redis.example.com", Port: 6380}
	assert.Equal(t, "redis.example.com:6380", cfg.Addr())
}

func TestJWTConfig_Durations(t *testing.T) {
	cfg := &JWTConfig{
		AccessTokenExpire:  2,
		RefreshTokenExpire: 168,
	}

	assert.Equal(t, 2*time.Hour, cfg.AccessTokenDuration())
	assert.Equal(t, 168*time.Hour, cfg.RefreshTokenDuration())
}

func TestSweepConfig_IntervalDuration(t *testing.T) {
	tests := []struct {
		name     string
		interval int
		want     time.Duration
	}{
		{"Configured interval", 10, 10 * time.Minute},
		{"Zero falls back to default", 0, 5 * time.Minute},
		{"Negative falls back to default", -1, 5 * time.Minute},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &SweepConfig{Interval: tt.interval}
			assert.Equal(t, tt.want, cfg.IntervalDuration())
		})
	}
}
