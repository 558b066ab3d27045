// Package jwt JWT 令牌管理单元测试
package jwt

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
)

// setupTestManager 创建测试用的 JWT Manager
func setupTestManager() *Manager {
	cfg := &config.JWTConfig{
		Secret:             "test-secret-key-for-jwt-token-signing",
		AccessTokenExpire:  2,
		RefreshTokenExpire: 168,
		Issuer:             "salmiya-grand-hotel-test",
	}
	return NewManager(cfg)
}

// ==================== GenerateToken 测试 ====================

func TestManager_GenerateToken(t *testing.T) {
	manager := setupTestManager()

	tests := []struct {
		name     string
		staffID  int64
		username string
		roleCode string
	}{
		{"Front desk staff", 1, "reception01", "front_desk"},
		{"Manager", 2, "manager01", "manager"},
		{"Admin", 3, "admin", "admin"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := manager.GenerateToken(tt.staffID, tt.username, tt.roleCode)
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			// JWT 格式为三段 base64
			parts := strings.Split(token, ".")
			assert.Len(t, parts, 3)
		})
	}
}

func TestManager_GenerateRefreshToken(t *testing.T) {
	manager := setupTestManager()

	token, err := manager.GenerateRefreshToken(1, "reception01", "front_desk")
	require.NoError(t, err)
	assert.NotEmpty(t, token)
}

// ==================== ParseToken 测试 ====================

func TestManager_ParseToken_Success(t *testing.T) {
	manager := setupTestManager()

	token, err := manager.GenerateToken(42, "reception01", "front_desk")
	require.NoError(t, err)

	claims, err := manager.ParseToken(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.StaffID)
	assert.Equal(t, "reception01", claims.Username)
	assert.Equal(t, "front_desk", claims.RoleCode)
	assert.Equal(t, "salmiya-grand-hotel-test", claims.Issuer)
	assert.NotEmpty(t, claims.ID)
}

func TestManager_ParseToken_InvalidToken(t *testing.T) {
	manager := setupTestManager()

	tests := []struct {
		name  string
		token string
	}{
		{"Empty token", ""},
		{"Garbage token", "not-a-jwt-token"},
		{"Truncated token", "eyJhbGciOiJIUzI1NiJ9.eyJzdGFmZl9pZCI6MX0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			claims, err := manager.ParseToken(tt.token)
			assert.Error(t, err)
			assert.Nil(t, claims)
		})
	}
}

func TestManager_ParseToken_WrongSecret(t *testing.T) {
	manager := setupTestManager()

	otherManager := NewManager(&config.JWTConfig{
		Secret:             "a-completely-different-secret",
		AccessTokenExpire:  2,
		RefreshTokenExpire: 168,
		Issuer:             "salmiya-grand-hotel-test",
	})

	token, err := manager.GenerateToken(1, "reception01", "front_desk")
	require.NoError(t, err)

	claims, err := otherManager.ParseToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestManager_TokensAreUnique(t *testing.T) {
	manager := setupTestManager()

	// 每次签发带不同的 JTI
	token1, err := manager.GenerateToken(1, "reception01", "front_desk")
	require.NoError(t, err)
	token2, err := manager.GenerateToken(1, "reception01", "front_desk")
	require.NoError(t, err)

	assert.NotEqual(t, token1, token2)
}
