// Package jwt 提供 JWT 令牌的生成与校验
package jwt

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/shakeelviam/salmiya-grand-hotel-backend/internal/common/config"
)

// Claims 自定义声明
type Claims struct {
	StaffID  int64  `json:"staff_id"`
	Username string `json:"username"`
	RoleCode string `json:"role_code"`
	jwt.RegisteredClaims
}

// Manager JWT 管理器
type Manager struct {
	secret        []byte
	issuer        string
	accessExpire  time.Duration
	refreshExpire time.Duration
}

// NewManager 创建 JWT 管理器
func NewManager(cfg *config.JWTConfig) *Manager {
	return &Manager{
		secret:        []byte(cfg.Secret),
		issuer:        cfg.Issuer,
		accessExpire:  cfg.AccessTokenDuration(),
		refreshExpire: cfg.RefreshTokenDuration(),
	}
}

// GenerateToken 生成访问令牌
func (m *Manager) GenerateToken(staffID int64, username, roleCode string) (string, error) {
	return m.generate(staffID, username, roleCode, m.accessExpire)
}

// GenerateRefreshToken 生成刷新令牌
func (m *Manager) GenerateRefreshToken(staffID int64, username, roleCode string) (string, error) {
	return m.generate(staffID, username, roleCode, m.refreshExpire)
}

func (m *Manager) generate(staffID int64, username, roleCode string, expire time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		StaffID:  staffID,
		Username: username,
		RoleCode: roleCode,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(expire)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// ParseToken 解析并校验令牌
func (m *Manager) ParseToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, err
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token")
	}
	return claims, nil
}
